package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Retained Surgical Item or Unretrieved Device Fragment.
//
// Denominator: surgical or medical discharges age 18 and over, or
// obstetric discharges at any age. Numerator: a retained item coded as a
// secondary diagnosis and not present on admission.
func (e *Engine) evalPSI05(enc *encounter.Encounter) (Result, error) {
	pdx := enc.PrincipalDiagnosis()
	if pdx == nil {
		return exclusion("Data Exclusion: No diagnoses found"), nil
	}

	if !e.reg.Contains("SURGI2R", enc.DRG()) && !e.reg.Contains("MEDIC2R", enc.DRG()) {
		return exclusion("Denominator Exclusion: Not a surgical or medical MS-DRG"), nil
	}

	obstetric := e.isObstetric(enc)
	if !obstetric {
		age, ok, err := enc.Age()
		if err != nil {
			return Result{}, err
		}
		if !ok || age < 18 {
			return exclusion("Population Exclusion: Age < 18 and not an obstetric case"), nil
		}
	}

	if e.reg.Contains("FOREIID", pdx.Code) {
		return exclusion("Numerator Exclusion: Principal diagnosis is retained surgical item"), nil
	}
	if e.reg.Contains("MDC15PRINDX", pdx.Code) {
		return exclusion("Numerator Exclusion: Principal diagnosis is newborn condition (MDC15PRINDX)"), nil
	}

	for _, dx := range enc.SecondaryDiagnoses() {
		if !e.reg.Contains("FOREIID", dx.Code) {
			continue
		}
		if dx.POA.OnAdmission() {
			return exclusion("Numerator Exclusion: Retained surgical item (%s) present on admission (POA=Y)", dx.Code), nil
		}
		if dx.POA.NotOnAdmission() {
			population := "general surgical/medical"
			if obstetric {
				population = "obstetric"
			}
			return inclusion("Inclusion: Retained surgical item or unretrieved device fragment (secondary, not POA) - %s population", population), nil
		}
	}

	return exclusion("Exclusion: No qualifying retained surgical item found"), nil
}
