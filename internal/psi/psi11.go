package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Postoperative Respiratory Failure Rate.
//
// Denominator: elective surgical or medical discharges with an OR
// procedure, excluding respiratory failure and neuromuscular conditions
// present on admission, tracheostomy-only surgery, high-risk airway and
// lung surgery, and MDC 4. Numerator: acute postprocedural respiratory
// failure, prolonged ventilation, or late reintubation after the first OR
// procedure.
func (e *Engine) evalPSI11(enc *encounter.Encounter) (Result, error) {
	pdx := enc.PrincipalDiagnosis()
	if pdx == nil {
		return exclusion("Data Exclusion: No diagnoses found"), nil
	}

	if !e.reg.Contains("SURGI2R", enc.DRG()) && !e.reg.Contains("MEDIC2R", enc.DRG()) {
		return exclusion("Denominator Exclusion: Not a surgical or medical MS-DRG"), nil
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
		if e.reg.Contains("ACURF3D", dx.Code) && (i == 0 || dx.POA.OnAdmission()) {
			return exclusion("Denominator Exclusion: Acute respiratory failure (%s) present on admission or as principal diagnosis", dx.Code), nil
		}
		if e.reg.Contains("TRACHID", dx.Code) && dx.POA.OnAdmission() {
			return exclusion("Denominator Exclusion: Tracheostomy diagnosis (%s) present on admission", dx.Code), nil
		}
		if e.reg.Contains("MALHYPD", dx.Code) {
			return exclusion("Denominator Exclusion: Malignant hyperthermia diagnosis present (%s)", dx.Code), nil
		}
		if e.reg.Contains("NEUROMD", dx.Code) && dx.POA.OnAdmission() {
			return exclusion("Denominator Exclusion: Neuromuscular disorder (%s) present on admission", dx.Code), nil
		}
		if e.reg.Contains("DGNEUID", dx.Code) && dx.POA.OnAdmission() {
			return exclusion("Denominator Exclusion: Degenerative neurological disorder (%s) present on admission", dx.Code), nil
		}
	}

	var orProcs []encounter.Procedure
	for _, p := range enc.Procedures {
		if e.reg.Contains("ORPROC", p.Code) {
			orProcs = append(orProcs, p)
		}
	}
	if len(orProcs) == 1 && e.reg.Contains("TRACHIP", orProcs[0].Code) {
		return exclusion("Denominator Exclusion: Only OR procedure is tracheostomy"), nil
	}
	firstTrach := e.firstDateIn(enc.Procedures, "TRACHIP")
	if firstTrach != nil && firstTrach.Before(*firstOR) {
		return exclusion("Denominator Exclusion: Tracheostomy procedure before first OR procedure"), nil
	}

	for _, p := range enc.Procedures {
		if e.reg.ContainsAny(p.Code, "NUCRANP", "PRESOPP", "LUNGCIP", "LUNGTRANSP") {
			return exclusion("Denominator Exclusion: High-risk surgery procedure present (%s)", p.Code), nil
		}
	}

	mdc, mdcPresent, err := enc.IntField(encounter.FieldMDC)
	if err != nil {
		return Result{}, err
	}
	if mdcPresent && mdc == 4 {
		return exclusion("Denominator Exclusion: MDC 4 (Diseases & Disorders of the Respiratory System)"), nil
	}

	complication := len(e.secondaryNotOnAdmission(enc, "ACURF2D")) > 0 ||
		e.procedureInWindow(enc.Procedures, firstOR, "PR9672P", window{minDays: days(0)}) ||
		e.procedureInWindow(enc.Procedures, firstOR, "PR9671P", window{minDays: days(2)}) ||
		e.procedureInWindow(enc.Procedures, firstOR, "PR9604P", window{minDays: days(1)})

	if complication {
		return inclusion("Inclusion: Postoperative respiratory failure"), nil
	}
	return exclusion("Exclusion: No qualifying postoperative respiratory complication found"), nil
}
