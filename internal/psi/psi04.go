package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Death Rate among Surgical Inpatients with Serious Treatable
// Complications.
//
// Denominator: surgical discharges, age 18-89 or obstetric at any age,
// carrying an OR procedure that was either elective or performed within 2
// days of admission, and developing a complication from one of the five
// priority-ordered strata. Numerator: in-hospital death.
func (e *Engine) evalPSI04(enc *encounter.Encounter) (Result, error) {
	pdx := enc.PrincipalDiagnosis()
	if pdx == nil {
		return exclusion("Data Exclusion: No diagnoses found"), nil
	}

	if !e.reg.Contains("SURGI2R", enc.DRG()) {
		return exclusion("Denominator Exclusion: Not a surgical MS-DRG"), nil
	}

	if !e.isObstetric(enc) {
		age, ok, err := enc.Age()
		if err != nil {
			return Result{}, err
		}
		if !ok || age < 18 || age > 89 {
			return exclusion("Population Exclusion: Age not 18-89 and not an obstetric patient"), nil
		}
	}

	firstOR := e.firstDateIn(enc.Procedures, "ORPROC")
	if firstOR == nil {
		return exclusion("Denominator Exclusion: No qualifying OR procedure found"), nil
	}

	admissionType, _, err := enc.IntField(encounter.FieldAdmissionType)
	if err != nil {
		return Result{}, err
	}
	elective := admissionType == 3
	orWithin2Days := false
	if d, ok := daysBetween(enc.AdmissionDate, firstOR); ok && d <= 2 {
		orWithin2Days = true
	}
	if !elective && !orWithin2Days {
		return exclusion("Denominator Exclusion: Not elective admission and first OR not within 2 days of admission"), nil
	}

	disposition, _, err := enc.IntField(encounter.FieldDischargeDisposition)
	if err != nil {
		return Result{}, err
	}
	if disposition == 2 {
		return exclusion("Overall Exclusion: Transfer to acute care facility (Discharge_Disposition=2)"), nil
	}
	if origin, ok := enc.Field(encounter.FieldPointOfOrigin); ok && origin == "F" {
		return exclusion("Overall Exclusion: Admission from hospice facility"), nil
	}
	if mdc, ok, mdcErr := enc.IntField(encounter.FieldMDC); mdcErr == nil && ok && mdc == 15 && e.isNewbornPrincipal(enc) {
		return exclusion("Overall Exclusion: MDC 15 - Newborn (principal dx in MDC15PRINDX)"), nil
	}

	stratum := e.assignDeathStratum(enc, firstOR)
	if stratum == "" {
		return exclusion("Exclusion: No serious treatable complication identified"), nil
	}

	if disposition == 20 {
		return inclusion("Inclusion: Death among surgical inpatients with %s", stratum), nil
	}
	return exclusion("Exclusion: Not a death disposition (Discharge_Disposition!=20) but in %s denominator", stratum), nil
}
