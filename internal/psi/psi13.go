package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Postoperative Sepsis Rate.
//
// Denominator: elective surgical discharges with an OR procedure within 10
// days of admission, excluding sepsis or infection present on admission.
// Numerator: postoperative sepsis coded as a secondary diagnosis and not
// present on admission, reported with the patient's immune risk category.
func (e *Engine) evalPSI13(enc *encounter.Encounter) (Result, error) {
	if !e.reg.Contains("SURGI2R", enc.DRG()) {
		return exclusion("Denominator Exclusion: Not a surgical MS-DRG"), nil
	}

	admissionType, ok, err := enc.IntField(encounter.FieldAdmissionType)
	if err != nil {
		return Result{}, err
	}
	if !ok || admissionType != 3 {
		return exclusion("Denominator Exclusion: Admission not elective (ATYPE != 3)"), nil
	}

	pdx := enc.PrincipalDiagnosis()
	if pdx == nil {
		return exclusion("Data Exclusion: No diagnoses found"), nil
	}

	firstOR := e.firstDateIn(enc.Procedures, "ORPROC")
	if firstOR == nil {
		return exclusion("Denominator Exclusion: No qualifying OR procedure found"), nil
	}
	if d, ok := daysBetween(enc.AdmissionDate, firstOR); ok && d >= 10 {
		return exclusion("Denominator Exclusion: First OR procedure occurred 10 or more days after admission"), nil
	}

	for i, dx := range enc.Diagnoses {
		sepsisOrInfection := e.reg.ContainsAny(dx.Code, "SEPTI2D", "INFECID")
		if i == 0 && sepsisOrInfection {
			return exclusion("Denominator Exclusion: Principal diagnosis is sepsis or infection (%s)", dx.Code), nil
		}
		if i > 0 && sepsisOrInfection && dx.POA.OnAdmission() {
			return exclusion("Denominator Exclusion: Sepsis or infection diagnosis (%s) present on admission (POA=Y)", dx.Code), nil
		}
	}

	if len(e.secondaryNotOnAdmission(enc, "SEPTI2D")) > 0 {
		return inclusion("Inclusion: Postoperative sepsis (secondary, not POA) - Risk Category: %s", e.sepsisRiskCategory(enc)), nil
	}
	return exclusion("Exclusion: No qualifying postoperative sepsis found"), nil
}
