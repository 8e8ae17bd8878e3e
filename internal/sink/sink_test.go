package sink

import (
	"bytes"
	"context"
	"encoding/csv"
	"strings"
	"testing"
	"time"

	"github.com/meridianhq/go-psi/internal/psi"
)

func TestCSVSinkWritesHeaderAndRows(t *testing.T) {
	var buf bytes.Buffer
	s, err := NewCSVSink(&buf)
	if err != nil {
		t.Fatalf("failed to create sink: %v", err)
	}

	records := []Record{
		NewRecord("E-1001", "PSI_03", psi.Result{Status: psi.StatusExclusion, Rationale: "Exclusion: Length of stay 1 < 3 days"}, time.Now()),
		NewRecord("E-1001", "PSI_12", psi.Result{Status: psi.StatusInclusion, Rationale: "Inclusion: Perioperative PE/DVT"}, time.Now()),
	}
	if err := s.Write(context.Background(), "batch-1", records); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	rows, err := csv.NewReader(strings.NewReader(buf.String())).ReadAll()
	if err != nil {
		t.Fatalf("failed to parse output: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if rows[0][1] != "PSI" {
		t.Errorf("expected PSI header column, got %q", rows[0][1])
	}
	if rows[2][0] != "E-1001" || rows[2][1] != "PSI_12" || rows[2][2] != "Inclusion" {
		t.Errorf("unexpected second row: %v", rows[2])
	}
}

type captureSink struct {
	batches []string
	records int
	failing bool
}

func (c *captureSink) Write(ctx context.Context, batchID string, records []Record) error {
	if c.failing {
		return context.Canceled
	}
	c.batches = append(c.batches, batchID)
	c.records += len(records)
	return nil
}

func (c *captureSink) Close() error { return nil }

func TestMultiSinkFansOut(t *testing.T) {
	a := &captureSink{}
	b := &captureSink{}
	m := Multi{a, b}

	records := []Record{{EncounterID: "E-1", Indicator: "PSI_02", Status: "Exclusion"}}
	if err := m.Write(context.Background(), "batch-9", records); err != nil {
		t.Fatalf("write failed: %v", err)
	}

	if a.records != 1 || b.records != 1 {
		t.Errorf("expected both sinks to receive 1 record, got %d and %d", a.records, b.records)
	}
}

func TestMultiSinkStopsOnError(t *testing.T) {
	a := &captureSink{failing: true}
	b := &captureSink{}
	m := Multi{a, b}

	err := m.Write(context.Background(), "batch-9", []Record{{EncounterID: "E-1"}})
	if err == nil {
		t.Fatal("expected error from failing sink")
	}
	if b.records != 0 {
		t.Errorf("expected later sink to be skipped, got %d records", b.records)
	}
}
