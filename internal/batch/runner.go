// Package batch runs a full encounter file through the indicator engine,
// fanning rows across a worker pool and streaming classifications to the
// configured sinks.
package batch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/meridianhq/go-psi/internal/encounter"
	"github.com/meridianhq/go-psi/internal/ingest"
	"github.com/meridianhq/go-psi/internal/observability/metrics"
	"github.com/meridianhq/go-psi/internal/psi"
	"github.com/meridianhq/go-psi/internal/sink"
	"github.com/meridianhq/go-psi/pkg/workerpool"
)

// Config holds batch run configuration
type Config struct {
	// BatchID identifies the run; generated when empty
	BatchID string
	// Indicators restricts evaluation; empty means every implemented indicator
	Indicators []string
	// Workers is the evaluation pool size
	Workers int
	// QueueSize is the pool queue depth
	QueueSize int
}

// DefaultConfig returns defaults for a batch run
func DefaultConfig() Config {
	return Config{
		Workers:   16,
		QueueSize: 4096,
	}
}

// Summary reports what one batch run did
type Summary struct {
	BatchID    string
	RowsRead   int64
	Evaluated  int64
	Failed     int64
	ByStatus   map[string]int64
	Elapsed    time.Duration
	Indicators []string
}

// Runner evaluates encounter rows against the engine and writes results.
// The engine and sinks are shared across workers; evaluation itself holds
// no per-run state.
type Runner struct {
	engine  *psi.Engine
	out     sink.Sink
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewRunner creates a batch runner. metrics may be nil for library use.
func NewRunner(engine *psi.Engine, out sink.Sink, m *metrics.Metrics, logger *zap.Logger) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Runner{
		engine:  engine,
		out:     out,
		logger:  logger,
		metrics: m,
	}
}

// Run streams rows from the reader until EOF, evaluating each encounter
// against every configured indicator. A context cancellation stops intake;
// rows already queued still drain through the sinks.
func (r *Runner) Run(ctx context.Context, reader *ingest.CSVReader, cfg Config) (*Summary, error) {
	if cfg.BatchID == "" {
		cfg.BatchID = uuid.NewString()
	}
	indicators := cfg.Indicators
	if len(indicators) == 0 {
		indicators = r.engine.Indicators()
	}

	start := time.Now()
	summary := &Summary{
		BatchID:    cfg.BatchID,
		ByStatus:   make(map[string]int64),
		Indicators: indicators,
	}

	if r.metrics != nil {
		r.metrics.ActiveBatches.Inc()
		defer r.metrics.ActiveBatches.Dec()
	}

	pool, err := workerpool.New(workerpool.Config{
		Workers:                 cfg.Workers,
		QueueSize:               cfg.QueueSize,
		MaxRetries:              2,
		RetryDelay:              100 * time.Millisecond,
		GracefulShutdownTimeout: 30 * time.Second,
	}, r.evaluateTask(cfg.BatchID, indicators), r.logger)
	if err != nil {
		return nil, fmt.Errorf("create worker pool: %w", err)
	}
	pool.Start()

	// Collector drains results so workers never block on a full channel
	var collectWG sync.WaitGroup
	collectWG.Add(1)
	go func() {
		defer collectWG.Done()
		for res := range pool.Results() {
			if res.Success {
				summary.Evaluated++
				if counts, ok := res.Data.(map[string]int64); ok {
					for status, n := range counts {
						summary.ByStatus[status] += n
					}
				}
			} else {
				summary.Failed++
			}
		}
	}()

	var readErr error
	for {
		row, err := reader.Next()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			readErr = fmt.Errorf("read row %d: %w", reader.RowNum()+1, err)
			break
		}

		summary.RowsRead++
		if r.metrics != nil {
			r.metrics.BatchRowsRead.Inc()
		}

		task := &workerpool.Task{
			ID:      fmt.Sprintf("%s/%d", cfg.BatchID, row.Number),
			Payload: row,
			Context: ctx,
		}
		if err := pool.SubmitBlocking(ctx, task); err != nil {
			readErr = fmt.Errorf("submit row %d: %w", row.Number, err)
			break
		}
	}

	pool.Drain()
	collectWG.Wait()

	summary.Elapsed = time.Since(start)
	r.logger.Info("batch run finished",
		zap.String("batch_id", cfg.BatchID),
		zap.Int64("rows_read", summary.RowsRead),
		zap.Int64("evaluated", summary.Evaluated),
		zap.Int64("failed", summary.Failed),
		zap.Duration("elapsed", summary.Elapsed))

	return summary, readErr
}

// evaluateTask returns the worker function for one batch. Each task is one
// raw row: build the encounter, classify it against every indicator, then
// hand the full record set to the sink in one call.
func (r *Runner) evaluateTask(batchID string, indicators []string) workerpool.WorkerFunc {
	return func(ctx context.Context, task *workerpool.Task) *workerpool.Result {
		row, ok := task.Payload.(*ingest.Row)
		if !ok {
			return &workerpool.Result{
				TaskID: task.ID,
				Error:  fmt.Errorf("unexpected payload type %T", task.Payload),
			}
		}

		enc := encounter.Build(row.Fields)
		evaluatedAt := time.Now().UTC()

		evalStart := time.Now()
		records := make([]sink.Record, 0, len(indicators))
		counts := make(map[string]int64, 4)
		for _, indicator := range indicators {
			res := r.engine.Evaluate(enc, indicator)
			records = append(records, sink.NewRecord(enc.ID, indicator, res, evaluatedAt))
			counts[string(res.Status)]++

			if r.metrics != nil {
				r.metrics.EvaluationsByStatus.WithLabelValues(indicator, string(res.Status)).Inc()
				if res.Status == psi.StatusError {
					r.metrics.EvaluationErrors.Inc()
				}
			}
		}
		if r.metrics != nil {
			r.metrics.EncountersEvaluated.Inc()
			r.metrics.EvaluationDuration.Observe(time.Since(evalStart).Seconds())
		}

		if err := r.out.Write(ctx, batchID, records); err != nil {
			return &workerpool.Result{
				TaskID: task.ID,
				Error:  fmt.Errorf("write results for %s: %w", enc.ID, err),
			}
		}

		return &workerpool.Result{
			TaskID:  task.ID,
			Success: true,
			Data:    counts,
		}
	}
}
