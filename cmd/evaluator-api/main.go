// Package main provides the evaluation API service entry point.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/meridianhq/go-psi/internal/api/handlers"
	"github.com/meridianhq/go-psi/internal/api/middleware"
	"github.com/meridianhq/go-psi/internal/codeset"
	"github.com/meridianhq/go-psi/internal/infrastructure/postgres"
	"github.com/meridianhq/go-psi/internal/observability/metrics"
	"github.com/meridianhq/go-psi/internal/observability/tracing"
	"github.com/meridianhq/go-psi/internal/psi"
)

// Config holds application configuration
type Config struct {
	Port           string
	DatabaseURL    string
	CodeSetPath    string
	DefinitionPath string
	OTLPEndpoint   string
	APIKeys        map[string]string
	LogLevel       string
}

func main() {
	logger, _ := zap.NewProduction()
	defer logger.Sync()

	cfg := loadConfig()

	// Tracing is optional; without an endpoint the global noop provider stays
	if cfg.OTLPEndpoint != "" {
		tcfg := tracing.DefaultConfig("evaluator-api")
		tcfg.OTLPEndpoint = cfg.OTLPEndpoint
		provider, err := tracing.Init(context.Background(), tcfg)
		if err != nil {
			logger.Fatal("tracing init failed", zap.Error(err))
		}
		defer provider.Shutdown(context.Background())
	}

	// Reference data loads once; the engine is immutable afterwards
	registry := codeset.LoadFile(cfg.CodeSetPath, logger)
	defs := psi.LoadDefinitionsFile(cfg.DefinitionPath, logger)
	engine := psi.New(registry, defs, logger)

	// Persistence is optional for the API; stored-result routes 503 without it
	var store *postgres.Store
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		var err error
		pool, err = pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Fatal("failed to connect to database", zap.Error(err))
		}
		defer pool.Close()

		if err := pool.Ping(context.Background()); err != nil {
			logger.Fatal("database ping failed", zap.Error(err))
		}
		logger.Info("connected to database")
		store = postgres.NewStore(pool, logger)
	}

	m := metrics.New()

	evaluationHandler := handlers.NewEvaluationHandler(engine, store, m, logger)

	r := chi.NewRouter()

	// Global middleware
	r.Use(chimw.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.CORS)
	r.Use(middleware.Recover(logger))
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Tracing("evaluator-api"))

	// Health and metrics (no auth)
	r.Get("/health", healthHandler)
	r.Get("/ready", func(w http.ResponseWriter, r *http.Request) {
		if pool != nil {
			if err := pool.Ping(r.Context()); err != nil {
				http.Error(w, "not ready", http.StatusServiceUnavailable)
				return
			}
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ready"))
	})
	r.Handle("/metrics", metrics.Handler())

	// API routes (with auth)
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.APIKeyAuth(cfg.APIKeys))
		r.Mount("/evaluations", evaluationHandler.Routes())
	})

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	go func() {
		sigChan := make(chan os.Signal, 1)
		signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
		<-sigChan

		logger.Info("shutting down server")
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			logger.Error("shutdown error", zap.Error(err))
		}
	}()

	logger.Info("starting evaluator API",
		zap.String("port", cfg.Port),
		zap.Int("indicators", len(engine.Indicators())))
	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}

	logger.Info("server stopped")
}

func loadConfig() Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8081"
	}

	codeSetPath := os.Getenv("CODESET_PATH")
	if codeSetPath == "" {
		codeSetPath = "PSI_Code_Sets.json"
	}

	defsPath := os.Getenv("DEFINITIONS_PATH")
	if defsPath == "" {
		defsPath = "PSI_Tool_Structure.json"
	}

	apiKeys := map[string]string{
		"demo-api-key-12345": "demo-client",
	}
	if key := os.Getenv("API_KEY"); key != "" {
		apiKeys[key] = "env-client"
	}

	return Config{
		Port:           port,
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		CodeSetPath:    codeSetPath,
		DefinitionPath: defsPath,
		OTLPEndpoint:   os.Getenv("OTLP_ENDPOINT"),
		APIKeys:        apiKeys,
		LogLevel:       os.Getenv("LOG_LEVEL"),
	}
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"healthy","service":"evaluator-api","version":"1.0.0"}`)
}
