// Package postgres provides PostgreSQL persistence for indicator
// classification results.
package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/meridianhq/go-psi/internal/psi"
)

// ResultRow is one persisted (encounter, indicator) classification.
type ResultRow struct {
	ID          int64
	BatchID     string
	EncounterID string
	Indicator   string
	Status      string
	Rationale   string
	EvaluatedAt time.Time
}

// Store writes and reads classification results. It is safe for
// concurrent use; all writes go through the underlying pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
	tracer trace.Tracer
}

// NewStore creates a result store over an existing pool.
func NewStore(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{
		pool:   pool,
		logger: logger,
		tracer: otel.Tracer("psi-results"),
	}
}

// SaveResults bulk-inserts one batch of classifications via COPY.
func (s *Store) SaveResults(ctx context.Context, batchID string, rows []ResultRow) error {
	ctx, span := s.tracer.Start(ctx, "results_save",
		trace.WithAttributes(
			attribute.String("batch_id", batchID),
			attribute.Int("rows", len(rows)),
		))
	defer span.End()

	if len(rows) == 0 {
		return nil
	}

	now := time.Now().UTC()
	src := make([][]any, 0, len(rows))
	for _, r := range rows {
		evaluatedAt := r.EvaluatedAt
		if evaluatedAt.IsZero() {
			evaluatedAt = now
		}
		src = append(src, []any{batchID, r.EncounterID, r.Indicator, r.Status, r.Rationale, evaluatedAt})
	}

	copied, err := s.pool.CopyFrom(ctx,
		pgx.Identifier{"psi_results"},
		[]string{"batch_id", "encounter_id", "indicator", "status", "rationale", "evaluated_at"},
		pgx.CopyFromRows(src),
	)
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("copy results: %w", err)
	}
	if copied != int64(len(rows)) {
		return fmt.Errorf("copy results: wrote %d of %d rows", copied, len(rows))
	}

	s.logger.Debug("results saved",
		zap.String("batch_id", batchID),
		zap.Int("rows", len(rows)))
	return nil
}

// SaveResult inserts a single classification, used by the streaming path
// where results arrive one encounter at a time.
func (s *Store) SaveResult(ctx context.Context, batchID, encounterID, indicator string, res psi.Result) error {
	query := `
		INSERT INTO psi_results (batch_id, encounter_id, indicator, status, rationale, evaluated_at)
		VALUES ($1, $2, $3, $4, $5, NOW())
	`
	if _, err := s.pool.Exec(ctx, query, batchID, encounterID, indicator, string(res.Status), res.Rationale); err != nil {
		return fmt.Errorf("insert result: %w", err)
	}
	return nil
}

// ResultsForEncounter returns every stored classification for one
// encounter within a batch, ordered by indicator.
func (s *Store) ResultsForEncounter(ctx context.Context, batchID, encounterID string) ([]ResultRow, error) {
	query := `
		SELECT id, batch_id, encounter_id, indicator, status, rationale, evaluated_at
		FROM psi_results
		WHERE batch_id = $1 AND encounter_id = $2
		ORDER BY indicator
	`
	rows, err := s.pool.Query(ctx, query, batchID, encounterID)
	if err != nil {
		return nil, fmt.Errorf("query results: %w", err)
	}
	defer rows.Close()

	var out []ResultRow
	for rows.Next() {
		var r ResultRow
		if err := rows.Scan(&r.ID, &r.BatchID, &r.EncounterID, &r.Indicator, &r.Status, &r.Rationale, &r.EvaluatedAt); err != nil {
			return nil, fmt.Errorf("scan result: %w", err)
		}
		out = append(out, r)
	}
	return out, rows.Err()
}

// BatchSummary aggregates one batch by indicator and status.
type BatchSummary struct {
	BatchID    string
	Total      int64
	ByStatus   map[string]int64
	Indicators map[string]int64
}

// Summarize computes per-status and per-indicator counts for a batch.
func (s *Store) Summarize(ctx context.Context, batchID string) (*BatchSummary, error) {
	ctx, span := s.tracer.Start(ctx, "results_summarize",
		trace.WithAttributes(attribute.String("batch_id", batchID)))
	defer span.End()

	summary := &BatchSummary{
		BatchID:    batchID,
		ByStatus:   make(map[string]int64),
		Indicators: make(map[string]int64),
	}

	rows, err := s.pool.Query(ctx, `
		SELECT indicator, status, COUNT(*)
		FROM psi_results
		WHERE batch_id = $1
		GROUP BY indicator, status
	`, batchID)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("summarize batch: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var indicator, status string
		var count int64
		if err := rows.Scan(&indicator, &status, &count); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		summary.ByStatus[status] += count
		summary.Indicators[indicator] += count
		summary.Total += count
	}
	return summary, rows.Err()
}

// DeleteBatch removes all stored results for a batch, used when a batch
// is re-run after a code set update.
func (s *Store) DeleteBatch(ctx context.Context, batchID string) (int64, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM psi_results WHERE batch_id = $1", batchID)
	if err != nil {
		return 0, fmt.Errorf("delete batch: %w", err)
	}
	return tag.RowsAffected(), nil
}

// CleanupBefore removes results evaluated before the cutoff, returning the
// number of rows deleted.
func (s *Store) CleanupBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tag, err := s.pool.Exec(ctx, "DELETE FROM psi_results WHERE evaluated_at < $1", cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleanup results: %w", err)
	}
	return tag.RowsAffected(), nil
}
