package sink

import (
	"context"

	"github.com/meridianhq/go-psi/internal/infrastructure/postgres"
)

// PostgresSink persists records through the result store
type PostgresSink struct {
	store *postgres.Store
}

func NewPostgresSink(store *postgres.Store) *PostgresSink {
	return &PostgresSink{store: store}
}

func (s *PostgresSink) Write(ctx context.Context, batchID string, records []Record) error {
	rows := make([]postgres.ResultRow, 0, len(records))
	for _, r := range records {
		rows = append(rows, postgres.ResultRow{
			BatchID:     batchID,
			EncounterID: r.EncounterID,
			Indicator:   r.Indicator,
			Status:      r.Status,
			Rationale:   r.Rationale,
			EvaluatedAt: r.EvaluatedAt,
		})
	}
	return s.store.SaveResults(ctx, batchID, rows)
}

// Close is a no-op; the pool is owned by the caller
func (s *PostgresSink) Close() error {
	return nil
}
