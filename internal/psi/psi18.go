package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Obstetric Trauma Rate, Vaginal Delivery With Instrument.
//
// Denominator: instrument-assisted vaginal deliveries, identified by a
// delivery outcome diagnosis plus vaginal delivery and instrument
// assistance procedures. Numerator: third or fourth degree obstetric
// injury coded in any position.
func (e *Engine) evalPSI18(enc *encounter.Encounter) (Result, error) {
	if enc.PrincipalDiagnosis() == nil {
		return exclusion("Data Exclusion: No diagnoses found"), nil
	}

	if !e.anyDiagnosisIn(enc, "DELOCMD") {
		return exclusion("Denominator Exclusion: No delivery outcome diagnosis found"), nil
	}
	if !e.anyProcedureIn(enc.Procedures, "VAGDELP") {
		return exclusion("Denominator Exclusion: No vaginal delivery procedure found"), nil
	}
	if !e.anyProcedureIn(enc.Procedures, "INSTRIP") {
		return exclusion("Denominator Exclusion: No instrument-assisted delivery procedure found"), nil
	}

	if e.anyDiagnosisIn(enc, "OBTRAID") {
		return inclusion("Inclusion: Obstetric trauma (third or fourth degree) with instrument-assisted vaginal delivery"), nil
	}
	return exclusion("Exclusion: No qualifying obstetric trauma found for instrument-assisted vaginal delivery"), nil
}
