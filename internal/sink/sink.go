// Package sink defines where classification results go once the engine has
// produced them. The batch runner and stream worker share the same contract
// so an encounter's results can fan out to CSV, Postgres, and Kafka without
// the evaluation path knowing which sinks are active.
package sink

import (
	"context"
	"time"

	"github.com/meridianhq/go-psi/internal/psi"
)

// Record is one (encounter, indicator) classification headed to a sink.
type Record struct {
	EncounterID string    `json:"encounter_id"`
	Indicator   string    `json:"psi"`
	Status      string    `json:"status"`
	Rationale   string    `json:"rationale"`
	EvaluatedAt time.Time `json:"evaluated_at"`
}

// NewRecord builds a Record from an engine result.
func NewRecord(encounterID, indicator string, res psi.Result, evaluatedAt time.Time) Record {
	return Record{
		EncounterID: encounterID,
		Indicator:   indicator,
		Status:      string(res.Status),
		Rationale:   res.Rationale,
		EvaluatedAt: evaluatedAt,
	}
}

// Sink receives classification records. Write is called with all records
// for one encounter at a time; implementations must be safe for concurrent
// Write calls from worker pool goroutines.
type Sink interface {
	Write(ctx context.Context, batchID string, records []Record) error
	Close() error
}

// Multi fans records out to several sinks, stopping at the first error.
type Multi []Sink

func (m Multi) Write(ctx context.Context, batchID string, records []Record) error {
	for _, s := range m {
		if err := s.Write(ctx, batchID, records); err != nil {
			return err
		}
	}
	return nil
}

func (m Multi) Close() error {
	var firstErr error
	for _, s := range m {
		if err := s.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
