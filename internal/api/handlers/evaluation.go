// Package handlers provides HTTP handlers for the evaluation API.
package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"

	"github.com/meridianhq/go-psi/internal/api/middleware"
	"github.com/meridianhq/go-psi/internal/encounter"
	"github.com/meridianhq/go-psi/internal/infrastructure/postgres"
	"github.com/meridianhq/go-psi/internal/observability/metrics"
	"github.com/meridianhq/go-psi/internal/psi"
)

// EvaluationHandler serves synchronous encounter classification
type EvaluationHandler struct {
	engine  *psi.Engine
	store   *postgres.Store
	metrics *metrics.Metrics
	logger  *zap.Logger
}

// NewEvaluationHandler creates a new handler. store may be nil when the
// API runs without persistence; stored-result routes then return 503.
// metrics may be nil in tests.
func NewEvaluationHandler(engine *psi.Engine, store *postgres.Store, m *metrics.Metrics, logger *zap.Logger) *EvaluationHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &EvaluationHandler{
		engine:  engine,
		store:   store,
		metrics: m,
		logger:  logger,
	}
}

// Routes returns the handler routes
func (h *EvaluationHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.Evaluate)
	r.Get("/indicators", h.Indicators)
	r.Get("/batches/{batchID}/summary", h.BatchSummary)
	r.Get("/batches/{batchID}/encounters/{encounterID}", h.StoredResults)
	return r
}

// EvaluateRequest is the request body for classifying one encounter.
// Encounter carries the raw row fields keyed by column name; Indicators
// defaults to every implemented indicator when empty.
type EvaluateRequest struct {
	Encounter  map[string]string `json:"encounter"`
	Indicators []string          `json:"indicators,omitempty"`
	Persist    bool              `json:"persist,omitempty"`
	BatchID    string            `json:"batch_id,omitempty"`
}

// EvaluateResponse is the per-indicator classification map for one encounter
type EvaluateResponse struct {
	EncounterID string                `json:"encounter_id"`
	BatchID     string                `json:"batch_id,omitempty"`
	EvaluatedAt time.Time             `json:"evaluated_at"`
	Results     map[string]psi.Result `json:"results"`
}

// Evaluate handles POST /evaluations
func (h *EvaluationHandler) Evaluate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	tracer := otel.Tracer("evaluation-handler")
	ctx, span := tracer.Start(ctx, "evaluate_encounter")
	defer span.End()

	var req EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.jsonError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if len(req.Encounter) == 0 {
		h.jsonError(w, "encounter is required", http.StatusBadRequest)
		return
	}

	indicators := req.Indicators
	if len(indicators) == 0 {
		indicators = h.engine.Indicators()
	}

	enc := encounter.Build(req.Encounter)
	span.SetAttributes(
		attribute.String("encounter_id", enc.ID),
		attribute.Int("indicators", len(indicators)),
	)

	evaluatedAt := time.Now().UTC()
	evalStart := time.Now()
	results := make(map[string]psi.Result, len(indicators))
	for _, indicator := range indicators {
		res := h.engine.Evaluate(enc, indicator)
		results[indicator] = res
		if h.metrics != nil {
			h.metrics.EvaluationsByStatus.WithLabelValues(indicator, string(res.Status)).Inc()
			if res.Status == psi.StatusError {
				h.metrics.EvaluationErrors.Inc()
			}
		}
	}
	if h.metrics != nil {
		h.metrics.EncountersEvaluated.Inc()
		h.metrics.EvaluationDuration.Observe(time.Since(evalStart).Seconds())
	}

	batchID := req.BatchID
	if req.Persist {
		if h.store == nil {
			h.jsonError(w, "persistence not configured", http.StatusServiceUnavailable)
			return
		}
		if batchID == "" {
			batchID = uuid.NewString()
		}
		rows := make([]postgres.ResultRow, 0, len(results))
		for indicator, res := range results {
			rows = append(rows, postgres.ResultRow{
				BatchID:     batchID,
				EncounterID: enc.ID,
				Indicator:   indicator,
				Status:      string(res.Status),
				Rationale:   res.Rationale,
				EvaluatedAt: evaluatedAt,
			})
		}
		if err := h.store.SaveResults(ctx, batchID, rows); err != nil {
			h.logger.Error("failed to persist results", zap.Error(err))
			h.jsonError(w, "failed to persist results", http.StatusInternalServerError)
			return
		}
	}

	h.logger.Info("encounter evaluated",
		zap.String("encounter_id", enc.ID),
		zap.Int("indicators", len(indicators)),
		zap.String("request_id", middleware.GetRequestID(ctx)),
	)

	resp := EvaluateResponse{
		EncounterID: enc.ID,
		BatchID:     batchID,
		EvaluatedAt: evaluatedAt,
		Results:     results,
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(resp)
}

// Indicators handles GET /evaluations/indicators
func (h *EvaluationHandler) Indicators(w http.ResponseWriter, r *http.Request) {
	resp := map[string]interface{}{
		"indicators": h.engine.Indicators(),
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(resp)
}

// BatchSummary handles GET /evaluations/batches/{batchID}/summary
func (h *EvaluationHandler) BatchSummary(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.jsonError(w, "persistence not configured", http.StatusServiceUnavailable)
		return
	}

	batchID := chi.URLParam(r, "batchID")
	summary, err := h.store.Summarize(r.Context(), batchID)
	if err != nil {
		h.logger.Error("failed to summarize batch", zap.String("batch_id", batchID), zap.Error(err))
		h.jsonError(w, "failed to summarize batch", http.StatusInternalServerError)
		return
	}
	if summary.Total == 0 {
		h.jsonError(w, "batch not found", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(summary)
}

// StoredResults handles GET /evaluations/batches/{batchID}/encounters/{encounterID}
func (h *EvaluationHandler) StoredResults(w http.ResponseWriter, r *http.Request) {
	if h.store == nil {
		h.jsonError(w, "persistence not configured", http.StatusServiceUnavailable)
		return
	}

	batchID := chi.URLParam(r, "batchID")
	encounterID := chi.URLParam(r, "encounterID")

	rows, err := h.store.ResultsForEncounter(r.Context(), batchID, encounterID)
	if err != nil {
		h.logger.Error("failed to load results", zap.Error(err))
		h.jsonError(w, "failed to load results", http.StatusInternalServerError)
		return
	}
	if len(rows) == 0 {
		h.jsonError(w, "no results for encounter", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(rows)
}

func (h *EvaluationHandler) jsonError(w http.ResponseWriter, message string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
