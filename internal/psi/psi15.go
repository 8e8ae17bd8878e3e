package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Abdominopelvic Accidental Puncture or Laceration Rate.
//
// Denominator: medical or surgical discharges with an abdominopelvic index
// procedure. Numerator: an organ-specific injury diagnosis coded as
// secondary and not present on admission, plus a related procedure for the
// same organ system 1 to 30 days after the index procedure. An injury
// present on admission with a matching related procedure in that window
// excludes the encounter entirely.
func (e *Engine) evalPSI15(enc *encounter.Encounter) (Result, error) {
	pdx := enc.PrincipalDiagnosis()
	if pdx == nil {
		return exclusion("Data Exclusion: No diagnoses found"), nil
	}

	if !e.reg.Contains("SURGI2R", enc.DRG()) && !e.reg.Contains("MEDIC2R", enc.DRG()) {
		return exclusion("Denominator Exclusion: Not a surgical or medical MS-DRG"), nil
	}

	indexDate := e.firstDateIn(enc.Procedures, "ABDOMI15P")
	if indexDate == nil {
		return exclusion("Denominator Exclusion: No qualifying abdominopelvic procedure (ABDOMI15P) or missing date"), nil
	}

	if e.injuryDxCodes.Contains(pdx.Code) {
		return exclusion("Denominator Exclusion: Principal diagnosis is accidental puncture/laceration (%s)", pdx.Code), nil
	}

	relatedWindow := window{minDays: days(1), maxDays: days(30)}
	qualifies := false
	for _, dx := range enc.SecondaryDiagnoses() {
		system := e.organSystemForDiagnosis(dx.Code)
		if system == nil {
			continue
		}

		if dx.POA.OnAdmission() {
			if e.procedureInWindow(enc.Procedures, indexDate, system.procSet, relatedWindow) {
				return exclusion("Denominator Exclusion: POA accidental puncture/laceration (%s) with matching related procedure in time window", dx.Code), nil
			}
			continue
		}

		if dx.POA.NotOnAdmission() &&
			e.procedureInWindow(enc.Procedures, indexDate, system.procSet, relatedWindow) {
			qualifies = true
			break
		}
	}

	if qualifies {
		return inclusion("Inclusion: Abdominopelvic accidental puncture/laceration - Risk Category: %s", e.punctureRiskCategory(enc, indexDate)), nil
	}
	return exclusion("Exclusion: No qualifying abdominopelvic accidental puncture/laceration found"), nil
}
