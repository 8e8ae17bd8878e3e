package ingest

import (
	"io"
	"strings"
	"testing"
)

const sampleCSV = "EncounterID,AGE,SEX,MS-DRG,MDC,Pdx,POA1,DX1,POA2\n" +
	"E-1001,54,F,470,8,M1711,Y,I10,Y\n" +
	"\n" +
	"E-1002,61,M,193,4,J189,Y,,\n" +
	"E-1003,47,F,871,18,A419,Y,N179\n"

func TestCSVReaderStreamsRows(t *testing.T) {
	r := NewCSVReader(strings.NewReader(sampleCSV))

	headers, err := r.ReadHeader()
	if err != nil {
		t.Fatalf("failed to read header: %v", err)
	}
	if len(headers) != 9 {
		t.Fatalf("expected 9 columns, got %d", len(headers))
	}
	if headers[0] != "EncounterID" {
		t.Errorf("expected first column EncounterID, got %q", headers[0])
	}

	var rows []*Row
	for {
		row, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read row: %v", err)
		}
		rows = append(rows, row)
	}

	// Blank line between E-1001 and E-1002 is skipped
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].Fields["EncounterID"] != "E-1001" {
		t.Errorf("expected E-1001, got %q", rows[0].Fields["EncounterID"])
	}
	if rows[1].Fields["DX1"] != "" {
		t.Errorf("expected empty DX1 for E-1002, got %q", rows[1].Fields["DX1"])
	}
}

func TestCSVReaderShortRow(t *testing.T) {
	r := NewCSVReader(strings.NewReader(sampleCSV))
	if _, err := r.ReadHeader(); err != nil {
		t.Fatalf("failed to read header: %v", err)
	}

	var last *Row
	for {
		row, err := r.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			t.Fatalf("failed to read row: %v", err)
		}
		last = row
	}

	// E-1003 has 8 cells against a 9-column header; POA2 stays unset
	if last.Fields["EncounterID"] != "E-1003" {
		t.Fatalf("expected E-1003 last, got %q", last.Fields["EncounterID"])
	}
	if _, ok := last.Fields["POA2"]; ok {
		t.Errorf("expected POA2 unset for short row")
	}
	if last.Fields["DX1"] != "N179" {
		t.Errorf("expected DX1 N179, got %q", last.Fields["DX1"])
	}
}

func TestCSVReaderBOMAndRowNum(t *testing.T) {
	data := "\xEF\xBB\xBFEncounterID,AGE\nE-1,54\n"
	r := NewCSVReader(strings.NewReader(data))

	if r.RowNum() != 0 {
		t.Errorf("expected initial row num 0, got %d", r.RowNum())
	}

	headers, err := r.ReadHeader()
	if err != nil {
		t.Fatalf("failed to read header: %v", err)
	}
	if headers[0] != "EncounterID" {
		t.Errorf("BOM not stripped from first header: %q", headers[0])
	}
	if r.RowNum() != 1 {
		t.Errorf("expected row num 1 after header, got %d", r.RowNum())
	}

	row, err := r.Next()
	if err != nil {
		t.Fatalf("failed to read row: %v", err)
	}
	if row.Number != 2 {
		t.Errorf("expected row number 2, got %d", row.Number)
	}
}

func TestCSVReaderImplicitHeader(t *testing.T) {
	r := NewCSVReader(strings.NewReader(sampleCSV))

	// Next without ReadHeader consumes the header first
	row, err := r.Next()
	if err != nil {
		t.Fatalf("failed to read row: %v", err)
	}
	if row.Fields["EncounterID"] != "E-1001" {
		t.Errorf("expected E-1001, got %q", row.Fields["EncounterID"])
	}
}
