package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Perioperative Pulmonary Embolism or Deep Vein Thrombosis Rate.
//
// Denominator: surgical discharges with an OR procedure, excluding cases
// whose only OR work is vena cava interruption or thrombectomy, those
// procedures on or before the first OR day, surgery starting 10 or more
// days after admission, DVT/PE present on admission, heparin-induced
// thrombocytopenia, acute brain or spinal injury on admission, and ECMO.
// Numerator: DVT or PE coded as a secondary diagnosis and not present on
// admission.
func (e *Engine) evalPSI12(enc *encounter.Encounter) (Result, error) {
	if !e.reg.Contains("SURGI2R", enc.DRG()) {
		return exclusion("Denominator Exclusion: Not a surgical MS-DRG"), nil
	}

	pdx := enc.PrincipalDiagnosis()
	if pdx == nil {
		return exclusion("Data Exclusion: No diagnoses found"), nil
	}

	firstOR := e.firstDateIn(enc.Procedures, "ORPROC")
	if firstOR == nil {
		return exclusion("Denominator Exclusion: No qualifying OR procedure found"), nil
	}

	onlyClotWork := true
	hasORProc := false
	for _, p := range enc.Procedures {
		if !e.reg.Contains("ORPROC", p.Code) {
			continue
		}
		hasORProc = true
		if !e.reg.ContainsAny(p.Code, "VENACIP", "THROMP") {
			onlyClotWork = false
			break
		}
	}
	if hasORProc && onlyClotWork {
		return exclusion("Denominator Exclusion: Only OR procedure(s) are for vena cava interruption or thrombectomy"), nil
	}

	if e.procedureInWindow(enc.Procedures, firstOR, "VENACIP", window{maxDays: days(0)}) {
		return exclusion("Denominator Exclusion: Vena cava interruption before or same day as first OR procedure"), nil
	}
	if e.procedureInWindow(enc.Procedures, firstOR, "THROMP", window{maxDays: days(0)}) {
		return exclusion("Denominator Exclusion: Thrombectomy before or same day as first OR procedure"), nil
	}

	if d, ok := daysBetween(enc.AdmissionDate, firstOR); ok && d >= 10 {
		return exclusion("Denominator Exclusion: First OR procedure occurred 10 or more days after admission"), nil
	}

	for i, dx := range enc.Diagnoses {
		isDVTPE := e.reg.ContainsAny(dx.Code, "DEEPVIB", "PULMOID")
		if i == 0 && isDVTPE {
			return exclusion("Denominator Exclusion: Principal diagnosis is DVT/PE (%s)", dx.Code), nil
		}
		if i > 0 && isDVTPE && dx.POA.OnAdmission() {
			return exclusion("Denominator Exclusion: DVT/PE diagnosis (%s) present on admission (POA=Y)", dx.Code), nil
		}
		if i > 0 && e.reg.Contains("HITD", dx.Code) {
			return exclusion("Denominator Exclusion: Heparin-induced thrombocytopenia (%s) present", dx.Code), nil
		}
		if e.reg.Contains("NEURTRAD", dx.Code) && dx.POA.OnAdmission() {
			return exclusion("Denominator Exclusion: Acute brain or spinal injury (%s) present on admission (POA=Y)", dx.Code), nil
		}
	}

	for _, p := range enc.Procedures {
		if e.reg.Contains("ECMOP", p.Code) {
			return exclusion("Denominator Exclusion: ECMO procedure present (%s)", p.Code), nil
		}
	}

	for _, dx := range enc.SecondaryDiagnoses() {
		if e.reg.ContainsAny(dx.Code, "DEEPVIB", "PULMOID") && dx.POA.NotOnAdmission() {
			return inclusion("Inclusion: Perioperative Pulmonary Embolism or Deep Vein Thrombosis (secondary, not POA)"), nil
		}
	}
	return exclusion("Exclusion: No qualifying perioperative DVT/PE found"), nil
}
