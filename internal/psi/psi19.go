package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Obstetric Trauma Rate, Vaginal Delivery Without Instrument.
//
// Denominator: spontaneous vaginal deliveries, identified by a delivery
// outcome diagnosis plus a vaginal delivery procedure with no instrument
// assistance. Numerator: third or fourth degree obstetric injury coded in
// any position.
func (e *Engine) evalPSI19(enc *encounter.Encounter) (Result, error) {
	if enc.PrincipalDiagnosis() == nil {
		return exclusion("Data Exclusion: No diagnoses found"), nil
	}

	if !e.anyDiagnosisIn(enc, "DELOCMD") {
		return exclusion("Denominator Exclusion: No delivery outcome diagnosis found"), nil
	}
	if !e.anyProcedureIn(enc.Procedures, "VAGDELP") {
		return exclusion("Denominator Exclusion: No vaginal delivery procedure found"), nil
	}
	if e.anyProcedureIn(enc.Procedures, "INSTRIP") {
		return exclusion("Denominator Exclusion: Instrument-assisted delivery procedure found"), nil
	}

	if e.anyDiagnosisIn(enc, "OBTRAID") {
		return inclusion("Inclusion: Obstetric trauma (third or fourth degree) with spontaneous vaginal delivery"), nil
	}
	return exclusion("Exclusion: No qualifying obstetric trauma found for spontaneous vaginal delivery"), nil
}
