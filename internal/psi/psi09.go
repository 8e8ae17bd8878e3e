package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Postoperative Hemorrhage or Hematoma Rate.
//
// Denominator: surgical discharges with an OR procedure that is not itself
// the hemorrhage treatment, no coagulation disorder, and no thrombolytic
// on or before the treatment day. Numerator: postoperative hemorrhage or
// hematoma coded as a secondary diagnosis and not present on admission,
// treated by a procedure strictly after the first OR procedure.
func (e *Engine) evalPSI09(enc *encounter.Encounter) (Result, error) {
	if !e.reg.Contains("SURGI2R", enc.DRG()) {
		return exclusion("Denominator Exclusion: Not a surgical MS-DRG"), nil
	}

	pdx := enc.PrincipalDiagnosis()
	if pdx == nil {
		return exclusion("Data Exclusion: No diagnoses found"), nil
	}
	if e.reg.Contains("POHMRI2D", pdx.Code) {
		return exclusion("Denominator Exclusion: Principal diagnosis is postoperative hemorrhage/hematoma (%s)", pdx.Code), nil
	}

	orCount := e.countProcedures(enc, "ORPROC")
	if orCount == 0 {
		return exclusion("Denominator Exclusion: No qualifying OR procedure found"), nil
	}

	// An encounter whose single OR procedure is the hemorrhage treatment
	// itself has no index surgery to attribute the bleed to.
	if orCount == 1 && e.countProcedures(enc, "HEMOTH2P") >= 1 {
		for _, p := range enc.Procedures {
			if e.reg.Contains("ORPROC", p.Code) && e.reg.Contains("HEMOTH2P", p.Code) {
				return exclusion("Denominator Exclusion: Only OR procedure is for hemorrhage treatment"), nil
			}
		}
	}

	firstOR := e.firstDateIn(enc.Procedures, "ORPROC")
	if firstOR == nil {
		return exclusion("Denominator Exclusion: No qualifying OR procedure found for timing reference"), nil
	}

	firstTreatment := e.firstDateIn(enc.Procedures, "HEMOTH2P")
	if firstTreatment != nil && firstTreatment.Before(*firstOR) {
		return exclusion("Denominator Exclusion: Treatment of hemorrhage/hematoma occurred before first OR procedure"), nil
	}

	for i, dx := range enc.Diagnoses {
		if e.reg.Contains("COAGDID", dx.Code) {
			return exclusion("Denominator Exclusion: Coagulation disorder diagnosis present (%s)", dx.Code), nil
		}
		if e.reg.Contains("MEDBLEEDD", dx.Code) && (i == 0 || dx.POA.OnAdmission()) {
			return exclusion("Denominator Exclusion: Medication-related coagulopathy (%s) present on admission or as principal diagnosis", dx.Code), nil
		}
	}

	if firstTreatment != nil &&
		e.procedureInWindow(enc.Procedures, firstTreatment, "THROMBOLYTICP", window{maxDays: days(0)}) {
		return exclusion("Denominator Exclusion: Thrombolytic medication before or same day as hemorrhage treatment"), nil
	}

	if len(e.secondaryNotOnAdmission(enc, "POHMRI2D")) > 0 {
		if e.procedureInWindow(enc.Procedures, firstOR, "HEMOTH2P", window{minDays: days(0), exclusiveMin: true}) {
			return inclusion("Inclusion: Postoperative hemorrhage/hematoma with treatment (secondary, not POA)"), nil
		}
	}
	return exclusion("Exclusion: No qualifying postoperative hemorrhage/hematoma found with required treatment and timing"), nil
}
