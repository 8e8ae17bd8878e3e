package psi

import (
	"github.com/meridianhq/go-psi/internal/encounter"
)

// universalRequiredFields must carry a non-blank value on every encounter
// regardless of indicator. Per-indicator required fields from the
// definition table are appended to this list.
var universalRequiredFields = []string{
	encounter.FieldEncounterID,
	encounter.FieldAge,
	encounter.FieldSex,
	encounter.FieldDRG,
	encounter.FieldMDC,
	encounter.FieldPrincipalDx,
	"POA1",
	encounter.FieldDischargeDisposition,
}

// baseExclusion runs the eligibility filter shared by all indicators:
// data quality checks, population age rules, newborn and obstetric MDC
// carve-outs, and the ungroupable DRG. It returns (result, true) when the
// encounter is excluded before the indicator evaluator ever runs.
func (e *Engine) baseExclusion(enc *encounter.Encounter, indicator string) (Result, bool) {
	def := e.defs[indicator]

	if !enc.Has(encounter.FieldAge) {
		return exclusion("Data Exclusion: Missing 'AGE' field"), true
	}
	age, _, err := enc.Age()
	if err != nil {
		raw, _ := enc.Field(encounter.FieldAge)
		return exclusion("Data Exclusion: Invalid 'AGE' value: %s", raw), true
	}
	if def.PopulationType == PopulationAdult && age < 18 {
		return exclusion("Population Exclusion: Age %d < 18 (adult population)", age), true
	}

	required := make([]string, 0, len(universalRequiredFields)+len(def.RequiredFields))
	required = append(required, universalRequiredFields...)
	for _, f := range def.RequiredFields {
		if !containsString(required, f) {
			required = append(required, f)
		}
	}
	for _, field := range required {
		if !enc.Has(field) {
			return exclusion("Data Exclusion: Missing required field '%s'", field), true
		}
	}

	switch def.PopulationType {
	case PopulationAdult:
		if age < 18 {
			return exclusion("Population Exclusion: Age < 18"), true
		}
	case PopulationNewbornOnly:
		// Newborn indicators expect age < 18.
	case PopulationMaternal, PopulationElectiveSurgical, PopulationSurgical,
		PopulationAbdominopelvic, PopulationMedicalSurgical:
		// Obstetric hospitalizations are eligible at any age for the
		// pressure ulcer and retained item indicators.
		obstetricAnyAge := false
		if indicator == "PSI_05" || indicator == "PSI_07" {
			if e.isObstetric(enc) {
				obstetricAnyAge = true
			}
		}
		if !obstetricAnyAge && age < 18 {
			return exclusion("Population Exclusion: Age < 18 and not an obstetric patient"), true
		}
	}

	mdc, mdcPresent, err := enc.IntField(encounter.FieldMDC)
	if err != nil {
		return exclusion("Data Exclusion: Invalid MDC value"), true
	}
	pdx := enc.PrincipalDiagnosis()

	if mdcPresent && mdc == 15 && pdx != nil && e.reg.Contains("MDC15PRINDX", pdx.Code) {
		if def.PopulationType != PopulationNewbornOnly {
			return exclusion("Population Exclusion: MDC 15 - Newborn (principal dx in MDC15PRINDX)"), true
		}
	}
	if mdcPresent && mdc == 14 && pdx != nil && e.reg.Contains("MDC14PRINDX", pdx.Code) {
		if def.PopulationType != PopulationMaternal && indicator != "PSI_05" && indicator != "PSI_07" {
			return exclusion("Population Exclusion: MDC 14 - Obstetric (principal dx in MDC14PRINDX)"), true
		}
	}

	if enc.DRG() == "999" {
		return exclusion("Data Exclusion: DRG is ungroupable (999)"), true
	}

	return Result{}, false
}

// isObstetric reports MDC 14 with a principal diagnosis in MDC14PRINDX.
func (e *Engine) isObstetric(enc *encounter.Encounter) bool {
	mdc, ok, err := enc.IntField(encounter.FieldMDC)
	if err != nil || !ok || mdc != 14 {
		return false
	}
	pdx := enc.PrincipalDiagnosis()
	return pdx != nil && e.reg.Contains("MDC14PRINDX", pdx.Code)
}

// isNewbornPrincipal reports a principal diagnosis in MDC15PRINDX.
func (e *Engine) isNewbornPrincipal(enc *encounter.Encounter) bool {
	pdx := enc.PrincipalDiagnosis()
	return pdx != nil && e.reg.Contains("MDC15PRINDX", pdx.Code)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

// secondaryNotOnAdmission selects secondary diagnoses whose code is in the
// named set and whose POA marks the condition as not present on admission.
func (e *Engine) secondaryNotOnAdmission(enc *encounter.Encounter, setName string) []encounter.Diagnosis {
	var out []encounter.Diagnosis
	for _, dx := range enc.SecondaryDiagnoses() {
		if e.reg.Contains(setName, dx.Code) && dx.POA.NotOnAdmission() {
			out = append(out, dx)
		}
	}
	return out
}

// anyDiagnosisIn reports whether any diagnosis, principal included, is in
// one of the named sets.
func (e *Engine) anyDiagnosisIn(enc *encounter.Encounter, setNames ...string) bool {
	for _, dx := range enc.Diagnoses {
		if e.reg.ContainsAny(dx.Code, setNames...) {
			return true
		}
	}
	return false
}

// principalIn reports whether the principal diagnosis is in one of the
// named sets.
func (e *Engine) principalIn(enc *encounter.Encounter, setNames ...string) bool {
	pdx := enc.PrincipalDiagnosis()
	return pdx != nil && e.reg.ContainsAny(pdx.Code, setNames...)
}

// anyProcedureCode reports whether any coded procedure is in one of the
// named sets, with no date requirement.
func (e *Engine) anyProcedureCode(enc *encounter.Encounter, setNames ...string) bool {
	for _, p := range enc.Procedures {
		if e.reg.ContainsAny(p.Code, setNames...) {
			return true
		}
	}
	return false
}

// countProcedures counts coded procedures in the named set.
func (e *Engine) countProcedures(enc *encounter.Encounter, setName string) int {
	n := 0
	for _, p := range enc.Procedures {
		if e.reg.Contains(setName, p.Code) {
			n++
		}
	}
	return n
}
