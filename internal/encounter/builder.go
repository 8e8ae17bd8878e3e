package encounter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

const (
	maxSecondaryDiagnoses = 25
	maxProcedures         = 10
)

// Build constructs an Encounter from one raw tabular row. Diagnosis columns
// follow the fixed offset rule: Pdx pairs with POA1, DXi pairs with
// POA(i+1). Absent or blank cells are treated as missing, never as errors.
func Build(row map[string]string) *Encounter {
	fields := make(map[string]string, len(row))
	for k, v := range row {
		if strings.TrimSpace(v) == "" {
			continue
		}
		fields[k] = v
	}

	enc := &Encounter{
		ID:     strings.TrimSpace(fields[FieldEncounterID]),
		fields: fields,
	}

	if pdx, ok := enc.Field(FieldPrincipalDx); ok {
		enc.Diagnoses = append(enc.Diagnoses, Diagnosis{
			Code: strings.TrimSpace(pdx),
			POA:  NormalizePOA(fields["POA1"]),
		})
	}
	for i := 1; i <= maxSecondaryDiagnoses; i++ {
		code, ok := enc.Field(fmt.Sprintf("DX%d", i))
		if !ok {
			continue
		}
		enc.Diagnoses = append(enc.Diagnoses, Diagnosis{
			Code: strings.TrimSpace(code),
			POA:  NormalizePOA(fields[fmt.Sprintf("POA%d", i+1)]),
		})
	}

	for i := 1; i <= maxProcedures; i++ {
		code, ok := enc.Field(fmt.Sprintf("Proc%d", i))
		if !ok {
			continue
		}
		enc.Procedures = append(enc.Procedures, Procedure{
			Code: strings.TrimSpace(code),
			Date: ParseDateTime(fields[fmt.Sprintf("Proc%d_Date", i)], fields[fmt.Sprintf("Proc%d_Time", i)]),
		})
	}

	enc.AdmissionDate = ParseDateTime(fields[FieldAdmissionDate], "")
	enc.DischargeDate = ParseDateTime(fields[FieldDischargeDate], "")

	return enc
}

// ParseDateTime parses a YYYY-MM-DD date, ignoring any time component
// embedded after whitespace, and optionally folds in a separate time value
// in HH:MM, HH:MM:SS or 4-digit HHMM form. An unparseable date yields nil;
// an unparseable time leaves the date-only value.
func ParseDateTime(dateStr, timeStr string) *time.Time {
	dateStr = strings.TrimSpace(dateStr)
	if dateStr == "" {
		return nil
	}
	// Keep only the date portion when a time is embedded.
	if i := strings.IndexAny(dateStr, " \t"); i >= 0 {
		dateStr = dateStr[:i]
	}

	t, err := time.Parse("2006-01-02", dateStr)
	if err != nil {
		return nil
	}

	if h, m, ok := parseClock(timeStr); ok {
		t = t.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
	}
	return &t
}

func parseClock(s string) (hours, minutes int, ok bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, 0, false
	}
	if strings.Contains(s, ":") {
		parts := strings.Split(s, ":")
		if len(parts) < 2 {
			return 0, 0, false
		}
		h, err1 := strconv.Atoi(parts[0])
		m, err2 := strconv.Atoi(parts[1])
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return h, m, true
	}
	if len(s) == 4 {
		h, err1 := strconv.Atoi(s[:2])
		m, err2 := strconv.Atoi(s[2:])
		if err1 != nil || err2 != nil {
			return 0, 0, false
		}
		return h, m, true
	}
	return 0, 0, false
}
