// Package encounter models a single inpatient encounter: the ordered
// diagnosis sequence, coded procedures with timestamps, and the
// administrative fields the indicator rules consult. Records are built once
// from a raw tabular row and never mutated during evaluation.
package encounter

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Canonical field names of the encounter input schema.
const (
	FieldEncounterID          = "EncounterID"
	FieldAge                  = "AGE"
	FieldSex                  = "SEX"
	FieldDRG                  = "MS-DRG"
	FieldMDC                  = "MDC"
	FieldAdmissionType        = "ATYPE"
	FieldPointOfOrigin        = "POINTOFORIGINUB04"
	FieldDischargeDisposition = "Discharge_Disposition"
	FieldLengthOfStay         = "Length_of_stay"
	FieldAdmissionDate        = "Admission_Date"
	FieldDischargeDate        = "Discharge_Date"
	FieldPrincipalDx          = "Pdx"
)

// POA is the present-on-admission flag carried by each diagnosis.
// Exempt ("E") is folded into Yes at ingestion; a blank or absent flag is
// Unknown. Anything else is kept verbatim so rules see exactly what the
// source reported.
type POA string

const (
	POAYes          POA = "Y"
	POANo           POA = "N"
	POAUnreported   POA = "U"
	POAUndetermined POA = "W"
	POAUnknown      POA = ""
)

// NormalizePOA maps a raw flag to its canonical form.
func NormalizePOA(raw string) POA {
	s := strings.ToUpper(strings.TrimSpace(raw))
	switch s {
	case "":
		return POAUnknown
	case "E":
		return POAYes
	}
	return POA(s)
}

// OnAdmission reports whether the condition was present on admission.
func (p POA) OnAdmission() bool { return p == POAYes }

// NotOnAdmission reports whether the flag counts as "not present on
// admission" for numerator purposes. The published logic treats N, U, W and
// a missing flag identically here; an unrecognized value matches neither
// side of the test.
func (p POA) NotOnAdmission() bool {
	switch p {
	case POANo, POAUnreported, POAUndetermined, POAUnknown:
		return true
	}
	return false
}

// Diagnosis is one coded diagnosis with its POA flag. The principal
// diagnosis is always element zero of an encounter's diagnosis sequence.
type Diagnosis struct {
	Code string
	POA  POA
}

// Procedure is one coded procedure with an optional timestamp. A procedure
// whose date could not be parsed keeps a nil Date; several indicators treat
// "coded but undated" as its own condition rather than as absence.
type Procedure struct {
	Code string
	Date *time.Time
}

// Encounter is a read-only view of one inpatient stay.
type Encounter struct {
	ID            string
	Diagnoses     []Diagnosis // principal first, then up to 25 secondaries
	Procedures    []Procedure // up to 10
	AdmissionDate *time.Time
	DischargeDate *time.Time

	fields map[string]string
}

// Field returns the raw value of an administrative field. The second return
// is false when the field is absent from the source row or blank.
func (e *Encounter) Field(name string) (string, bool) {
	v, ok := e.fields[name]
	if !ok || strings.TrimSpace(v) == "" {
		return "", false
	}
	return v, true
}

// Has reports whether the field is present and non-blank.
func (e *Encounter) Has(name string) bool {
	_, ok := e.Field(name)
	return ok
}

// IntField parses an administrative field as an integer. present is false
// when the field is missing; a present but non-numeric value returns an
// error, which the dispatch layer surfaces as an evaluation error.
func (e *Encounter) IntField(name string) (value int, present bool, err error) {
	raw, ok := e.Field(name)
	if !ok {
		return 0, false, nil
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return 0, true, fmt.Errorf("field %s: invalid integer %q", name, raw)
	}
	return n, true, nil
}

// Age parses the AGE field, accepting decimal forms such as "45.0".
func (e *Encounter) Age() (value int, present bool, err error) {
	raw, ok := e.Field(FieldAge)
	if !ok {
		return 0, false, nil
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return 0, true, fmt.Errorf("field %s: invalid value %q", FieldAge, raw)
	}
	return int(f), true, nil
}

// DRG returns the MS-DRG zero-padded to three characters and uppercased,
// the form the DRG reference sets use. Missing yields "".
func (e *Encounter) DRG() string {
	raw, ok := e.Field(FieldDRG)
	if !ok {
		return ""
	}
	s := strings.ToUpper(strings.TrimSpace(raw))
	for len(s) < 3 {
		s = "0" + s
	}
	return s
}

// PrincipalDiagnosis returns the first diagnosis, or nil when the sequence
// is empty.
func (e *Encounter) PrincipalDiagnosis() *Diagnosis {
	if len(e.Diagnoses) == 0 {
		return nil
	}
	return &e.Diagnoses[0]
}

// SecondaryDiagnoses returns every diagnosis after the principal.
func (e *Encounter) SecondaryDiagnoses() []Diagnosis {
	if len(e.Diagnoses) <= 1 {
		return nil
	}
	return e.Diagnoses[1:]
}
