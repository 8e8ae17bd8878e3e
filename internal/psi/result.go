// Package psi implements the AHRQ Patient Safety Indicator rule engine:
// base population eligibility, the per-indicator denominator/exclusion/
// numerator logic for PSI 02 through PSI 19, and the priority-ordered
// stratification several indicators report.
package psi

import "fmt"

// Status is the outcome class of one (encounter, indicator) evaluation.
type Status string

const (
	StatusInclusion      Status = "Inclusion"
	StatusExclusion      Status = "Exclusion"
	StatusError          Status = "Error"
	StatusNotImplemented Status = "Not Implemented"
)

// Result is the classification of one encounter against one indicator.
// It is produced fresh per call and never cached or mutated.
type Result struct {
	Status    Status `json:"status"`
	Rationale string `json:"rationale"`
}

func inclusion(format string, args ...any) Result {
	return Result{Status: StatusInclusion, Rationale: fmt.Sprintf(format, args...)}
}

func exclusion(format string, args ...any) Result {
	return Result{Status: StatusExclusion, Rationale: fmt.Sprintf(format, args...)}
}
