package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Postoperative Wound Dehiscence Rate.
//
// Denominator: discharges with abdominopelvic surgery (open or non-open
// approach) and a stay of at least 2 days, excluding wound disruption
// present on admission and reclosure performed on or before the index
// surgery. Numerator: an abdominal wall reclosure procedure after the
// index surgery together with a disruption diagnosis coded as secondary
// and not present on admission, stratified by surgical approach.
func (e *Engine) evalPSI14(enc *encounter.Encounter) (Result, error) {
	pdx := enc.PrincipalDiagnosis()
	if pdx == nil {
		return exclusion("Data Exclusion: No diagnoses found"), nil
	}

	firstOpen := e.firstDateIn(enc.Procedures, "ABDOMIPOPEN")
	firstOther := e.firstDateIn(enc.Procedures, "ABDOMIPOTHER")
	if firstOpen == nil && firstOther == nil {
		return exclusion("Denominator Exclusion: No qualifying abdominopelvic procedure found"), nil
	}
	indexDate := earlierOf(firstOpen, firstOther)

	los, ok, err := enc.IntField(encounter.FieldLengthOfStay)
	if err != nil {
		return Result{}, err
	}
	if !ok || los < 2 {
		return exclusion("Denominator Exclusion: Length of stay less than 2 days or missing"), nil
	}

	lastReclosure := e.latestDateIn(enc.Procedures, "RECLOIP")
	if lastReclosure != nil && !lastReclosure.After(*indexDate) {
		return exclusion("Denominator Exclusion: Reclosure procedure occurred on or before initial abdominopelvic surgery"), nil
	}

	for i, dx := range enc.Diagnoses {
		if e.reg.Contains("ABWALLCD", dx.Code) && (i == 0 || dx.POA.OnAdmission()) {
			return exclusion("Denominator Exclusion: Wound dehiscence diagnosis (%s) present on admission or as principal diagnosis", dx.Code), nil
		}
	}

	hasReclosure := e.anyProcedureIn(enc.Procedures, "RECLOIP")
	hasDisruptionDx := len(e.secondaryNotOnAdmission(enc, "ABWALLCD")) > 0

	if hasReclosure && hasDisruptionDx {
		return inclusion("Inclusion: Postoperative wound dehiscence - Stratum: %s", e.dehiscenceStratum(enc)), nil
	}
	return exclusion("Exclusion: No qualifying postoperative wound dehiscence found"), nil
}
