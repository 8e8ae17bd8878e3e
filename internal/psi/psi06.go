package psi

import "github.com/meridianhq/go-psi/internal/encounter"

// Iatrogenic Pneumothorax Rate.
//
// Denominator: surgical or medical discharges, excluding chest trauma,
// pleural effusion, thoracic surgery and trans-pleural cardiac cases.
// Numerator: iatrogenic pneumothorax coded as a secondary diagnosis and
// not present on admission.
func (e *Engine) evalPSI06(enc *encounter.Encounter) (Result, error) {
	if !e.reg.Contains("SURGI2R", enc.DRG()) && !e.reg.Contains("MEDIC2R", enc.DRG()) {
		return exclusion("Denominator Exclusion: Not a surgical or medical MS-DRG"), nil
	}

	pdx := enc.PrincipalDiagnosis()
	if pdx == nil {
		return exclusion("Data Exclusion: No diagnoses found"), nil
	}

	for i, dx := range enc.Diagnoses {
		if e.reg.Contains("IATPTXD", dx.Code) && (i == 0 || dx.POA.OnAdmission()) {
			return exclusion("Denominator Exclusion: Non-traumatic pneumothorax (%s) present on admission or as principal diagnosis", dx.Code), nil
		}
		if e.reg.Contains("CTRAUMD", dx.Code) {
			return exclusion("Denominator Exclusion: Chest trauma diagnosis present (%s)", dx.Code), nil
		}
		if e.reg.Contains("PLEURAD", dx.Code) {
			return exclusion("Denominator Exclusion: Pleural effusion diagnosis present (%s)", dx.Code), nil
		}
	}

	mdc, mdcPresent, err := enc.IntField(encounter.FieldMDC)
	if err != nil {
		return exclusion("Data Exclusion: Invalid MDC value"), nil
	}
	if mdcPresent && mdc == 14 && e.reg.Contains("MDC14PRINDX", pdx.Code) {
		return exclusion("Denominator Exclusion: Obstetric discharge (MDC 14 - principal dx in MDC14PRINDX)"), nil
	}
	if mdcPresent && mdc == 15 && e.reg.Contains("MDC15PRINDX", pdx.Code) {
		return exclusion("Denominator Exclusion: Newborn discharge (MDC 15 - principal dx in MDC15PRINDX)"), nil
	}

	for _, p := range enc.Procedures {
		if e.reg.Contains("THORAIP", p.Code) {
			return exclusion("Denominator Exclusion: Thoracic surgery procedure present (%s)", p.Code), nil
		}
		if e.reg.Contains("CARDSIP", p.Code) {
			return exclusion("Denominator Exclusion: Trans-pleural cardiac procedure present (%s)", p.Code), nil
		}
	}

	if len(e.secondaryNotOnAdmission(enc, "IATROID")) > 0 {
		return inclusion("Inclusion: Iatrogenic pneumothorax (secondary, not POA)"), nil
	}
	return exclusion("Exclusion: No qualifying iatrogenic pneumothorax found"), nil
}
