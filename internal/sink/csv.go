package sink

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"sync"
)

var csvHeader = []string{"EncounterID", "PSI", "Status", "Rationale"}

// CSVSink writes classification rows to a CSV file, one row per
// (encounter, indicator) pair. Rows appear in write order; the header is
// written once on creation.
type CSVSink struct {
	mu     sync.Mutex
	w      *csv.Writer
	closer io.Closer
}

// NewCSVSink writes to an open destination. The caller keeps ownership of
// closing dst unless it also implements io.Closer and is passed to
// NewCSVFileSink instead.
func NewCSVSink(dst io.Writer) (*CSVSink, error) {
	w := csv.NewWriter(dst)
	if err := w.Write(csvHeader); err != nil {
		return nil, fmt.Errorf("write csv header: %w", err)
	}
	w.Flush()
	return &CSVSink{w: w}, w.Error()
}

// NewCSVFileSink creates or truncates the output file
func NewCSVFileSink(path string) (*CSVSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, fmt.Errorf("create output file: %w", err)
	}
	s, err := NewCSVSink(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	s.closer = f
	return s, nil
}

func (s *CSVSink) Write(ctx context.Context, batchID string, records []Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		if err := s.w.Write([]string{r.EncounterID, r.Indicator, r.Status, r.Rationale}); err != nil {
			return fmt.Errorf("write csv row: %w", err)
		}
	}
	s.w.Flush()
	return s.w.Error()
}

func (s *CSVSink) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.w.Flush()
	if err := s.w.Error(); err != nil {
		return err
	}
	if s.closer != nil {
		return s.closer.Close()
	}
	return nil
}
