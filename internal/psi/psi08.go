package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// In-Hospital Fall-Associated Fracture Rate.
//
// Denominator: surgical or medical discharges with no fracture on
// admission and no joint prosthesis-associated fracture. Numerator:
// fracture coded as a secondary diagnosis and not present on admission,
// reported hierarchically as hip fracture or other fracture.
func (e *Engine) evalPSI08(enc *encounter.Encounter) (Result, error) {
	pdx := enc.PrincipalDiagnosis()
	if pdx == nil {
		return exclusion("Data Exclusion: No diagnoses found"), nil
	}

	if !e.reg.Contains("SURGI2R", enc.DRG()) && !e.reg.Contains("MEDIC2R", enc.DRG()) {
		return exclusion("Denominator Exclusion: Not a surgical or medical MS-DRG"), nil
	}

	if e.reg.Contains("FXID", pdx.Code) {
		return exclusion("Denominator Exclusion: Principal diagnosis is fracture (%s)", pdx.Code), nil
	}
	for i, dx := range enc.Diagnoses {
		if i > 0 && e.reg.Contains("FXID", dx.Code) && dx.POA.OnAdmission() {
			return exclusion("Denominator Exclusion: Secondary fracture diagnosis (%s) present on admission (POA=Y)", dx.Code), nil
		}
		if e.reg.Contains("PROSFXID", dx.Code) {
			return exclusion("Denominator Exclusion: Joint prosthesis-associated fracture present (%s)", dx.Code), nil
		}
	}

	fractures := e.secondaryNotOnAdmission(enc, "FXID")
	if len(fractures) == 0 {
		return exclusion("Exclusion: No qualifying in-hospital fall-associated fracture found"), nil
	}

	// Hip fracture outranks any other fracture.
	for _, fx := range fractures {
		if e.reg.Contains("HIPFXID", fx.Code) {
			return inclusion("Inclusion: In-hospital fall-associated Hip Fracture"), nil
		}
	}
	return inclusion("In-hospital fall-associated Other Fracture"), nil
}
