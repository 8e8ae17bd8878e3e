// Package main provides the batch evaluation CLI: stream an encounter CSV
// through the indicator engine and write classifications to CSV, and
// optionally Postgres and Kafka.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/meridianhq/go-psi/internal/batch"
	"github.com/meridianhq/go-psi/internal/codeset"
	"github.com/meridianhq/go-psi/internal/infrastructure/postgres"
	"github.com/meridianhq/go-psi/internal/infrastructure/redpanda"
	"github.com/meridianhq/go-psi/internal/ingest"
	"github.com/meridianhq/go-psi/internal/psi"
	"github.com/meridianhq/go-psi/internal/sink"
)

func main() {
	var (
		inputPath   = flag.String("input", "", "encounter CSV to evaluate (required)")
		outputPath  = flag.String("output", "psi_results.csv", "output CSV path")
		codeSetPath = flag.String("codesets", "PSI_Code_Sets.json", "code set JSON path")
		defsPath    = flag.String("definitions", "PSI_Tool_Structure.json", "indicator definition JSON path")
		indicators  = flag.String("indicators", "", "comma-separated indicator codes (default: all)")
		workers     = flag.Int("workers", 16, "evaluation worker count")
		batchID     = flag.String("batch-id", "", "batch identifier (default: generated)")
		databaseURL = flag.String("database-url", os.Getenv("DATABASE_URL"), "optional postgres URL for result persistence")
		brokers     = flag.String("kafka-brokers", os.Getenv("KAFKA_BROKERS"), "optional comma-separated Kafka brokers for result publishing")
	)
	flag.Parse()

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	if *inputPath == "" {
		fmt.Fprintln(os.Stderr, "usage: batch-runner -input encounters.csv [flags]")
		flag.PrintDefaults()
		os.Exit(2)
	}

	registry := codeset.LoadFile(*codeSetPath, logger)
	defs := psi.LoadDefinitionsFile(*defsPath, logger)
	engine := psi.New(registry, defs, logger)

	out, cleanup, err := buildSinks(*outputPath, *databaseURL, *brokers, logger)
	if err != nil {
		logger.Fatal("sink setup failed", zap.Error(err))
	}
	defer cleanup()

	reader, err := ingest.OpenCSV(*inputPath)
	if err != nil {
		logger.Fatal("failed to open input", zap.Error(err))
	}
	defer reader.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := batch.Config{
		BatchID:   *batchID,
		Workers:   *workers,
		QueueSize: *workers * 256,
	}
	if *indicators != "" {
		cfg.Indicators = splitList(*indicators)
	}

	runner := batch.NewRunner(engine, out, nil, logger)
	summary, err := runner.Run(ctx, reader, cfg)
	if err != nil {
		logger.Fatal("batch run failed", zap.Error(err))
	}

	if err := out.Close(); err != nil {
		logger.Fatal("failed to finalize output", zap.Error(err))
	}

	printSummary(summary)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

// buildSinks assembles the active sinks: CSV always, Postgres and Kafka
// when configured. The returned cleanup closes shared connections.
func buildSinks(outputPath, databaseURL, brokers string, logger *zap.Logger) (sink.Sink, func(), error) {
	csvSink, err := sink.NewCSVFileSink(outputPath)
	if err != nil {
		return nil, nil, err
	}

	sinks := sink.Multi{csvSink}
	var cleanups []func()

	if databaseURL != "" {
		pool, err := pgxpool.New(context.Background(), databaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("database connection failed: %w", err)
		}
		cleanups = append(cleanups, pool.Close)
		sinks = append(sinks, sink.NewPostgresSink(postgres.NewStore(pool, logger)))
		logger.Info("postgres sink enabled")
	}

	if brokers != "" {
		producerCfg := redpanda.DefaultProducerConfig()
		producerCfg.Brokers = splitList(brokers)
		producer, err := redpanda.NewProducer(producerCfg, logger)
		if err != nil {
			return nil, nil, fmt.Errorf("producer creation failed: %w", err)
		}
		cleanups = append(cleanups, func() { producer.Close() })
		sinks = append(sinks, sink.NewKafkaSink(producer, redpanda.TopicClassificationsOutbound))
		logger.Info("kafka sink enabled", zap.Strings("brokers", producerCfg.Brokers))
	}

	cleanup := func() {
		for i := len(cleanups) - 1; i >= 0; i-- {
			cleanups[i]()
		}
	}
	return sinks, cleanup, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func printSummary(s *batch.Summary) {
	fmt.Printf("batch %s: %d rows, %d evaluated, %d failed in %s\n",
		s.BatchID, s.RowsRead, s.Evaluated, s.Failed, s.Elapsed.Round(time.Millisecond))

	statuses := make([]string, 0, len(s.ByStatus))
	for status := range s.ByStatus {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		fmt.Printf("  %-16s %d\n", status, s.ByStatus[status])
	}
}
