package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Postoperative Acute Kidney Injury Requiring Dialysis Rate.
//
// Denominator: elective surgical discharges with an OR procedure,
// excluding kidney failure, cardiac, shock and chronic kidney conditions
// present on admission, principal urinary obstruction, dialysis on or
// before the first OR day, and solitary kidney nephrectomy. Numerator:
// acute kidney failure coded as a secondary diagnosis and not present on
// admission, plus dialysis strictly after the first OR procedure.
func (e *Engine) evalPSI10(enc *encounter.Encounter) (Result, error) {
	pdx := enc.PrincipalDiagnosis()
	if pdx == nil {
		return exclusion("Data Exclusion: No diagnoses found"), nil
	}

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

	firstOR := e.firstDateIn(enc.Procedures, "ORPROC")
	if firstOR == nil {
		return exclusion("Denominator Exclusion: No qualifying OR procedure found"), nil
	}

	for i, dx := range enc.Diagnoses {
		principalOrOnAdmission := i == 0 || dx.POA.OnAdmission()

		if e.reg.Contains("PHYSIDB", dx.Code) && principalOrOnAdmission {
			return exclusion("Denominator Exclusion: Acute kidney failure (%s) present on admission or as principal diagnosis", dx.Code), nil
		}
		if e.reg.ContainsAny(dx.Code, "CARDIID", "CARDRID") && principalOrOnAdmission {
			return exclusion("Denominator Exclusion: Cardiac condition (%s) present on admission or as principal diagnosis", dx.Code), nil
		}
		if e.reg.Contains("SHOCKID", dx.Code) && principalOrOnAdmission {
			return exclusion("Denominator Exclusion: Shock condition (%s) present on admission or as principal diagnosis", dx.Code), nil
		}
		if e.reg.Contains("CRENLFD", dx.Code) && principalOrOnAdmission {
			return exclusion("Denominator Exclusion: Chronic kidney disease (%s) present on admission or as principal diagnosis", dx.Code), nil
		}
		if i == 0 && e.reg.Contains("URINARYOBSID", dx.Code) {
			return exclusion("Denominator Exclusion: Principal diagnosis is urinary tract obstruction (%s)", dx.Code), nil
		}
	}

	if e.procedureInWindow(enc.Procedures, firstOR, "DIALYIP", window{maxDays: days(0)}) {
		return exclusion("Denominator Exclusion: Dialysis procedure before or same day as first OR procedure"), nil
	}
	if e.procedureInWindow(enc.Procedures, firstOR, "DIALY2P", window{maxDays: days(0)}) {
		return exclusion("Denominator Exclusion: Dialysis access procedure before or same day as first OR procedure"), nil
	}

	solitaryKidneyOnAdmission := false
	for _, dx := range enc.Diagnoses {
		if e.reg.Contains("SOLKIDD", dx.Code) && dx.POA.OnAdmission() {
			solitaryKidneyOnAdmission = true
			break
		}
	}
	if solitaryKidneyOnAdmission && e.anyProcedureIn(enc.Procedures, "PNEPHREP") {
		return exclusion("Denominator Exclusion: Solitary kidney present on admission with nephrectomy procedure"), nil
	}

	if len(e.secondaryNotOnAdmission(enc, "PHYSIDB")) > 0 {
		if e.procedureInWindow(enc.Procedures, firstOR, "DIALYIP", window{minDays: days(0), exclusiveMin: true}) {
			return inclusion("Inclusion: Postoperative acute kidney injury requiring dialysis"), nil
		}
	}
	return exclusion("Exclusion: No qualifying postoperative acute kidney injury requiring dialysis found"), nil
}
