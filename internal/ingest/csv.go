// Package ingest provides streaming readers for tabular encounter files.
package ingest

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"
)

// Row is one raw encounter record keyed by column name. Blank cells are
// preserved here; downstream field handling decides what missing means.
type Row struct {
	Number int64
	Fields map[string]string
}

// CSVReader streams rows from an encounter CSV without loading the file
// into memory. The first row is the header; every later row becomes a Row
// keyed by the header names.
type CSVReader struct {
	file    *os.File
	reader  *csv.Reader
	headers []string
	rowNum  int64
}

// OpenCSV opens a file for streaming reads
func OpenCSV(path string) (*CSVReader, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}

	r := NewCSVReader(file)
	r.file = file
	return r, nil
}

// NewCSVReader wraps an arbitrary reader, buffering for large files
func NewCSVReader(src io.Reader) *CSVReader {
	bufReader := bufio.NewReaderSize(src, 256*1024) // 256KB buffer

	// Skip UTF-8 BOM if present
	bom, err := bufReader.Peek(3)
	if err == nil && len(bom) >= 3 && bom[0] == 0xEF && bom[1] == 0xBB && bom[2] == 0xBF {
		bufReader.Discard(3)
	}

	reader := csv.NewReader(bufReader)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1 // encounter exports often pad or truncate columns

	return &CSVReader{reader: reader}
}

// ReadHeader reads the header row and records the column layout
func (r *CSVReader) ReadHeader() ([]string, error) {
	record, err := r.reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read header row: %w", err)
	}
	r.rowNum++

	// Transcoded exports can carry a BOM that survives the byte-level
	// skip, so the first header cell is trimmed as well.
	if len(record) > 0 {
		record[0] = strings.TrimPrefix(record[0], "\uFEFF")
	}

	r.headers = make([]string, len(record))
	for i, h := range record {
		r.headers[i] = strings.TrimSpace(h)
	}

	return r.headers, nil
}

// Headers returns the column names read by ReadHeader
func (r *CSVReader) Headers() []string {
	return r.headers
}

// RowNum returns the current row number (1-based, including the header)
func (r *CSVReader) RowNum() int64 {
	return r.rowNum
}

// Next returns the next non-empty row, or io.EOF when the file is done.
// Rows shorter than the header leave trailing columns unset; extra cells
// beyond the header are dropped.
func (r *CSVReader) Next() (*Row, error) {
	if r.headers == nil {
		if _, err := r.ReadHeader(); err != nil {
			return nil, err
		}
	}

	for {
		record, err := r.reader.Read()
		if err != nil {
			return nil, err
		}
		r.rowNum++

		if len(record) == 0 || (len(record) == 1 && strings.TrimSpace(record[0]) == "") {
			continue
		}

		fields := make(map[string]string, len(r.headers))
		for i, h := range r.headers {
			if h == "" || i >= len(record) {
				continue
			}
			fields[h] = record[i]
		}

		return &Row{Number: r.rowNum, Fields: fields}, nil
	}
}

// Close closes the underlying file when the reader owns one
func (r *CSVReader) Close() error {
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}
