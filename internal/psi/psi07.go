package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Central Venous Catheter-Related Bloodstream Infection Rate.
//
// Denominator: surgical or medical discharges age 18 and over, or
// obstetric discharges at any age, with a stay of at least 2 days and no
// cancer or immunocompromised state. Numerator: catheter-related
// bloodstream infection coded as a secondary diagnosis and not present on
// admission.
func (e *Engine) evalPSI07(enc *encounter.Encounter) (Result, error) {
	pdx := enc.PrincipalDiagnosis()
	if pdx == nil {
		return exclusion("Data Exclusion: No diagnoses found (Required for PSI 07 evaluation)"), nil
	}

	obstetric := e.isObstetric(enc)

	surgicalMedicalDRG := e.reg.Contains("SURGI2R", enc.DRG()) || e.reg.Contains("MEDIC2R", enc.DRG())
	age, agePresent, err := enc.Age()
	if err != nil {
		return Result{}, err
	}
	surgicalMedicalEligible := surgicalMedicalDRG && agePresent && age >= 18

	if !surgicalMedicalEligible && !obstetric {
		if !surgicalMedicalDRG {
			return exclusion("Denominator Exclusion: Not a surgical or medical MS-DRG (DRG=%s)", enc.DRG()), nil
		}
		return exclusion("Population Exclusion: Age < 18 and not an obstetric-eligible patient (AGE=%d)", age), nil
	}

	los, losPresent, err := enc.IntField(encounter.FieldLengthOfStay)
	if err != nil {
		return Result{}, err
	}
	if !losPresent || los < 2 {
		return exclusion("Denominator Exclusion: Length of stay less than 2 days (LOS=%d)", los), nil
	}

	if e.reg.Contains("IDTMC3D", pdx.Code) {
		return exclusion("Denominator Exclusion: Principal diagnosis is central venous catheter-related bloodstream infection (%s)", pdx.Code), nil
	}
	if e.reg.Contains("MDC15PRINDX", pdx.Code) {
		return exclusion("Denominator Exclusion: Principal diagnosis assigned to MDC 15 Newborns & Other Neonates (%s)", pdx.Code), nil
	}

	for _, dx := range enc.SecondaryDiagnoses() {
		if e.reg.Contains("IDTMC3D", dx.Code) && dx.POA.OnAdmission() {
			return exclusion("Denominator Exclusion: Central venous catheter infection (%s) present on admission", dx.Code), nil
		}
	}
	for _, dx := range enc.Diagnoses {
		if e.reg.Contains("CANCEID", dx.Code) {
			return exclusion("Denominator Exclusion: Cancer diagnosis present (%s)", dx.Code), nil
		}
	}
	for _, dx := range enc.Diagnoses {
		if e.reg.Contains("IMMUNID", dx.Code) {
			return exclusion("Denominator Exclusion: Immunocompromised state diagnosis present (%s)", dx.Code), nil
		}
	}
	for _, p := range enc.Procedures {
		if e.reg.Contains("IMMUNIP", p.Code) {
			return exclusion("Denominator Exclusion: Immunocompromised state procedure present (%s)", p.Code), nil
		}
	}

	for _, dx := range enc.SecondaryDiagnoses() {
		if e.reg.Contains("IDTMC3D", dx.Code) && dx.POA.NotOnAdmission() {
			population := "surgical/medical"
			if obstetric {
				population = "obstetric"
			}
			return inclusion("Inclusion: Central venous catheter-related bloodstream infection (secondary diagnosis %s, not POA, %s population)", dx.Code, population), nil
		}
	}
	return exclusion("Exclusion: No qualifying secondary diagnosis for central venous catheter-related bloodstream infection"), nil
}
