package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Pressure Ulcer Rate.
//
// Denominator: surgical or medical discharges with a length of stay of at
// least 3 days. Numerator: a stage 3/4 or unstageable pressure ulcer coded
// as a secondary diagnosis and not present on admission. A site-specific
// ulcer is suppressed when a deep tissue injury at the same anatomic site
// was present on admission; unspecified-site ulcers qualify outright.
func (e *Engine) evalPSI03(enc *encounter.Encounter) (Result, error) {
	if !e.reg.Contains("SURGI2R", enc.DRG()) && !e.reg.Contains("MEDIC2R", enc.DRG()) {
		return exclusion("Denominator Exclusion: Not a surgical or medical MS-DRG"), nil
	}

	los, ok, err := enc.IntField(encounter.FieldLengthOfStay)
	if err != nil {
		return Result{}, err
	}
	if !ok || los < 3 {
		return exclusion("Denominator Exclusion: Length of stay less than 3 days or missing"), nil
	}

	pdx := enc.PrincipalDiagnosis()
	if pdx == nil {
		return exclusion("Data Exclusion: No diagnoses found"), nil
	}
	if e.ulcerPrincipalExclusion.Contains(pdx.Code) {
		return exclusion("Denominator Exclusion: Principal diagnosis is pressure ulcer/DTI (%s)", pdx.Code), nil
	}
	for _, dx := range enc.Diagnoses {
		if e.reg.Contains("BURNDX", dx.Code) {
			return exclusion("Denominator Exclusion: Severe burn diagnosis present (%s)", dx.Code), nil
		}
		if e.reg.Contains("EXFOLIATXD", dx.Code) {
			return exclusion("Denominator Exclusion: Exfoliative skin disorder diagnosis present (%s)", dx.Code), nil
		}
	}

	for _, ulcer := range enc.SecondaryDiagnoses() {
		if !ulcer.POA.NotOnAdmission() {
			continue
		}

		unspecified := false
		for _, setName := range e.unspecifiedUlcerSets {
			if e.reg.Contains(setName, ulcer.Code) {
				unspecified = true
				break
			}
		}
		if unspecified {
			return inclusion("Inclusion: Hospital-acquired pressure ulcer (Unspecified site, Stage 3/4 or Unstageable)"), nil
		}

		for _, site := range e.specificUlcerSites {
			if !e.reg.Contains(site.ulcerSet, ulcer.Code) {
				continue
			}
			dtiOnAdmission := false
			for _, dx := range enc.Diagnoses {
				if e.reg.Contains(site.dtiSet, dx.Code) && dx.POA.OnAdmission() {
					dtiOnAdmission = true
					break
				}
			}
			if !dtiOnAdmission {
				return inclusion("Inclusion: Hospital-acquired pressure ulcer (Specific site, Stage 3/4 or Unstageable, not excluded by POA DTI)"), nil
			}
			break
		}
	}

	return exclusion("Exclusion: No qualifying hospital-acquired pressure ulcer identified"), nil
}
