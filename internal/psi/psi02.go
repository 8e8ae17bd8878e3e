package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Death Rate in Low-Mortality DRGs.
//
// Denominator: discharges with a low-mortality DRG, excluding trauma,
// cancer and immunocompromised cases, hospice admissions and transfers to
// acute care. Numerator: in-hospital death.
func (e *Engine) evalPSI02(enc *encounter.Encounter) (Result, error) {
	if !e.reg.Contains("LOWMODR", enc.DRG()) {
		return exclusion("Denominator Exclusion: Not a low-mortality DRG"), nil
	}

	for _, dx := range enc.Diagnoses {
		if e.reg.Contains("TRAUMID", dx.Code) {
			return exclusion("Denominator Exclusion: Trauma diagnosis present (%s)", dx.Code), nil
		}
		if e.reg.Contains("CANCEID", dx.Code) {
			return exclusion("Denominator Exclusion: Cancer diagnosis present (%s)", dx.Code), nil
		}
		if e.reg.Contains("IMMUNID", dx.Code) {
			return exclusion("Denominator Exclusion: Immunocompromised diagnosis present (%s)", dx.Code), nil
		}
	}
	for _, p := range enc.Procedures {
		if e.reg.Contains("IMMUNIP", p.Code) {
			return exclusion("Denominator Exclusion: Immunocompromising procedure present (%s)", p.Code), nil
		}
	}

	if origin, ok := enc.Field(encounter.FieldPointOfOrigin); ok && origin == "F" {
		return exclusion("Denominator Exclusion: Admission from hospice facility"), nil
	}

	disposition, _, err := enc.IntField(encounter.FieldDischargeDisposition)
	if err != nil {
		return Result{}, err
	}
	if disposition == 2 {
		return exclusion("Population Exclusion: Transfer to acute care facility (Discharge_Disposition=2)"), nil
	}

	if disposition == 20 {
		return inclusion("Inclusion: Death disposition (DISP=20)"), nil
	}
	return exclusion("Exclusion: Not a death disposition (DISP!=20) but in denominator"), nil
}
