package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Birth Trauma Rate, Injury to Neonate.
//
// Denominator: liveborn newborn discharges, excluding preterm infants
// under 2000g and osteogenesis imperfecta. Numerator: birth trauma injury
// coded in any position.
func (e *Engine) evalPSI17(enc *encounter.Encounter) (Result, error) {
	pdx := enc.PrincipalDiagnosis()
	if pdx == nil {
		return exclusion("Data Exclusion: No diagnoses found"), nil
	}

	if !e.reg.Contains("LIVEBND", pdx.Code) {
		return exclusion("Denominator Exclusion: Not a newborn discharge (Principal DX not in LIVEBND codes)"), nil
	}

	for _, dx := range enc.Diagnoses {
		if e.reg.Contains("PRETEID", dx.Code) {
			return exclusion("Denominator Exclusion: Preterm infant with birth weight < 2000g (%s)", dx.Code), nil
		}
		if e.reg.Contains("OSTEOID", dx.Code) {
			return exclusion("Denominator Exclusion: Osteogenesis imperfecta diagnosis present (%s)", dx.Code), nil
		}
	}

	if e.anyDiagnosisIn(enc, "BIRTHID") {
		return inclusion("Inclusion: Birth trauma injury to neonate"), nil
	}
	return exclusion("Exclusion: No qualifying birth trauma injury found"), nil
}
