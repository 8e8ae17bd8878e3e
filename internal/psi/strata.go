package psi

import (
	"time"

	"github.com/meridianhq/go-psi/internal/encounter"
)

// ulcerSite pairs a site-specific pressure ulcer set with the deep tissue
// injury set for the same anatomic site. A stage 3/4 or unstageable ulcer
// at a specific site is suppressed as a numerator event when a DTI at that
// same site was present on admission.
type ulcerSite struct {
	ulcerSet string
	dtiSet   string
}

var ulcerSiteTable = []ulcerSite{
	{"PIRELBOWD", "DTIRELBOEXD"},
	{"PILELBOWD", "DTILELBOEXD"},
	{"PIRUPBACKD", "DTIRUPBACEXD"},
	{"PILUPBACKD", "DTILUPBACEXD"},
	{"PIRLOBACKD", "DTIRLOBACEXD"},
	{"PILLOBACKD", "DTILLOBACEXD"},
	{"PISACRALD", "DTISACRAEXD"},
	{"PIRHIPD", "DTIRHIPEXD"},
	{"PILHIPD", "DTILHIPEXD"},
	{"PIRBUTTD", "DTIRBUTEXD"},
	{"PILBUTTD", "DTILBUTEXD"},
	{"PICONTIGBBHD", "DTICONTBBHEXD"},
	{"PIRANKLED", "DTIRANKLEXD"},
	{"PILANKLED", "DTILANKLEXD"},
	{"PIRHEELD", "DTIRHEELEXD"},
	{"PILHEELD", "DTILHEELEXD"},
	{"PIHEADD", "DTIHEADEXD"},
	{"PIOTHERD", "DTIOTHEREXD"},
}

// unspecifiedUlcerSetNames are the ulcer sets with no anatomic site, which
// qualify as numerator events with no DTI cross-check.
var unspecifiedUlcerSetNames = []string{
	"PINELBOWD", "PINBACKD", "PINHIPD", "PINBUTTD",
	"PINANKLED", "PINHEELD", "PIUNSPECD",
}

// organSystem ties the accidental puncture or laceration diagnosis set of
// one organ system to the related-procedure set for the same system.
type organSystem struct {
	name    string
	dxSet   string
	procSet string
}

var organSystemTable = []organSystem{
	{"spleen", "SPLEEN15D", "SPLEEN15P"},
	{"adrenal", "ADRENAL15D", "ADRENAL15P"},
	{"vessel", "VESSEL15D", "VESSEL15P"},
	{"diaphragm", "DIAPHR15D", "DIAPHR15P"},
	{"gastrointestinal", "GI15D", "GI15P"},
	{"genitourinary", "GU15D", "GU15P"},
}

func (e *Engine) buildDerivedViews() {
	e.specificUlcerSites = ulcerSiteTable
	e.unspecifiedUlcerSets = unspecifiedUlcerSetNames
	e.organSystems = organSystemTable

	union := make([]string, 0, 2*len(ulcerSiteTable)+len(unspecifiedUlcerSetNames))
	for _, site := range ulcerSiteTable {
		union = append(union, site.ulcerSet, site.dtiSet)
	}
	union = append(union, unspecifiedUlcerSetNames...)
	e.ulcerPrincipalExclusion = e.reg.Union(union...)

	dxSets := make([]string, 0, len(organSystemTable))
	for _, sys := range organSystemTable {
		dxSets = append(dxSets, sys.dxSet)
	}
	e.injuryDxCodes = e.reg.Union(dxSets...)
}

// organSystemForDiagnosis resolves which organ system an injury diagnosis
// belongs to, or nil when the code is not a recognized injury.
func (e *Engine) organSystemForDiagnosis(code string) *organSystem {
	for i := range e.organSystems {
		if e.reg.Contains(e.organSystems[i].dxSet, code) {
			return &e.organSystems[i]
		}
	}
	return nil
}

// deathStratum is one serious treatable complication group for the
// surgical death rate. Strata are checked in priority order and the first
// match wins.
type deathStratum struct {
	label string

	// Inclusion: a secondary diagnosis not present on admission from any
	// of these sets, or a procedure inside the window after the first OR
	// procedure.
	secondaryDxNotOnAdmission []string
	procAfterOR               string
	procAfterORWindow         window

	// Exclusions.
	principalDx  []string
	combinedDx   []combinedDxRule
	anyDx        []string
	anyProc      []string
	excludedMDCs []int
}

// combinedDxRule excludes when a diagnosis in anySet appears anywhere and
// the principal diagnosis is in principalSet.
type combinedDxRule struct {
	anySet       string
	principalSet string
}

var deathStrata = []deathStratum{
	{
		label:                     "SHOCK",
		secondaryDxNotOnAdmission: []string{"FTR5DX"},
		procAfterOR:               "FTR5PR",
		procAfterORWindow:         window{minDays: days(0)},
		principalDx:               []string{"FTR5DX", "TRAUMID", "HEMORID", "GASTRID", "FTR5EX"},
		combinedDx:                []combinedDxRule{{anySet: "FTR6GV", principalSet: "FTR6QD"}},
		excludedMDCs:              []int{4, 5},
	},
	{
		label:                     "SEPSIS",
		secondaryDxNotOnAdmission: []string{"FTR4DX"},
		principalDx:               []string{"FTR4DX", "INFECID"},
	},
	{
		label:                     "PNEUMONIA",
		secondaryDxNotOnAdmission: []string{"FTR3DX"},
		principalDx:               []string{"FTR3DX", "FTR3EXA"},
		anyDx:                     []string{"FTR3EXB"},
		anyProc:                   []string{"LUNGCIP"},
		excludedMDCs:              []int{4},
	},
	{
		label:                     "GI HEMORRHAGE",
		secondaryDxNotOnAdmission: []string{"FTR6DX"},
		principalDx:               []string{"FTR6DX", "TRAUMID", "ALCHLSM", "FTR6EX"},
		combinedDx:                []combinedDxRule{{anySet: "FTR6GV", principalSet: "FTR6QD"}},
		excludedMDCs:              []int{6, 7},
	},
	{
		label:                     "DVT PE",
		secondaryDxNotOnAdmission: []string{"FTR2DXB"},
		principalDx:               []string{"FTR2DXB", "OBEMBOL"},
	},
}

// matchesDeathStratum applies one stratum's inclusion and exclusion rules.
func (e *Engine) matchesDeathStratum(s *deathStratum, enc *encounter.Encounter, firstOR *time.Time) bool {
	included := false
	for _, set := range s.secondaryDxNotOnAdmission {
		if len(e.secondaryNotOnAdmission(enc, set)) > 0 {
			included = true
			break
		}
	}
	if !included && s.procAfterOR != "" {
		if e.procedureInWindow(enc.Procedures, firstOR, s.procAfterOR, s.procAfterORWindow) {
			included = true
		}
	}
	if !included {
		return false
	}

	if e.principalIn(enc, s.principalDx...) {
		return false
	}
	for _, rule := range s.combinedDx {
		if e.anyDiagnosisIn(enc, rule.anySet) && e.principalIn(enc, rule.principalSet) {
			return false
		}
	}
	if len(s.anyDx) > 0 && e.anyDiagnosisIn(enc, s.anyDx...) {
		return false
	}
	for _, set := range s.anyProc {
		if e.anyProcedureIn(enc.Procedures, set) {
			return false
		}
	}
	if len(s.excludedMDCs) > 0 {
		if mdc, ok, err := enc.IntField(encounter.FieldMDC); err == nil && ok {
			for _, excluded := range s.excludedMDCs {
				if mdc == excluded {
					return false
				}
			}
		}
	}
	return true
}

// assignDeathStratum returns the label of the highest-priority stratum the
// encounter qualifies for, or "" when none matches.
func (e *Engine) assignDeathStratum(enc *encounter.Encounter, firstOR *time.Time) string {
	for i := range deathStrata {
		if e.matchesDeathStratum(&deathStrata[i], enc, firstOR) {
			return deathStrata[i].label
		}
	}
	return ""
}

// sepsisRiskCategory grades immune function for the postoperative sepsis
// numerator. Categories are mutually exclusive; the most severe wins.
func (e *Engine) sepsisRiskCategory(enc *encounter.Encounter) string {
	if e.anyDiagnosisIn(enc, "SEVEREIMMUNEDX") || e.anyProcedureCode(enc, "SEVEREIMMUNEPROC") {
		return "severe_immune_compromise"
	}
	if e.anyDiagnosisIn(enc, "MODERATEIMMUNEDX") || e.anyProcedureCode(enc, "MODERATEIMMUNEPROC") {
		return "moderate_immune_compromise"
	}
	if e.anyDiagnosisIn(enc, "CANCEID") && e.anyProcedureCode(enc, "CHEMORADTXPROC") {
		return "malignancy_with_treatment"
	}
	return "baseline_risk"
}

// punctureRiskCategory grades the complexity of the index-day procedures
// for the accidental puncture numerator.
func (e *Engine) punctureRiskCategory(enc *encounter.Encounter, indexDate *time.Time) string {
	if indexDate == nil {
		return "low_complexity"
	}
	sameDay := func(d *time.Time) bool {
		return d != nil &&
			d.Year() == indexDate.Year() &&
			d.YearDay() == indexDate.YearDay()
	}
	for _, p := range enc.Procedures {
		if sameDay(p.Date) && e.reg.Contains("PCLASSHIGH", p.Code) {
			return "high_complexity"
		}
	}
	for _, p := range enc.Procedures {
		if sameDay(p.Date) && e.reg.Contains("PCLASSMODERATE", p.Code) {
			return "moderate_complexity"
		}
	}
	return "low_complexity"
}

// dehiscenceStratum classifies a wound dehiscence numerator event by the
// surgical approach of the initial abdominopelvic procedure. Open approach
// takes priority.
func (e *Engine) dehiscenceStratum(enc *encounter.Encounter) string {
	firstOpen := e.firstDateIn(enc.Procedures, "ABDOMIPOPEN")
	lastReclosure := e.latestDateIn(enc.Procedures, "RECLOIP")
	hasWallDisruptionDx := e.anyDiagnosisIn(enc, "ABWALLCD")

	hasOpen := e.anyProcedureIn(enc.Procedures, "ABDOMIPOPEN")
	hasOther := e.anyProcedureIn(enc.Procedures, "ABDOMIPOTHER")
	openDatesMissing := e.allDatesMissing(enc.Procedures, "ABDOMIPOPEN")
	reclosureDatesMissing := e.allDatesMissing(enc.Procedures, "RECLOIP")

	if hasOpen {
		openBeforeReclosure := firstOpen != nil && lastReclosure != nil && firstOpen.Before(*lastReclosure)
		if openBeforeReclosure || openDatesMissing || reclosureDatesMissing || !hasWallDisruptionDx {
			return "open_approach"
		}
	}

	openOnOrAfterReclosure := firstOpen != nil && lastReclosure != nil && !firstOpen.Before(*lastReclosure)
	if openOnOrAfterReclosure {
		return "non_open_approach"
	}
	if hasOther && (openDatesMissing || reclosureDatesMissing || !hasWallDisruptionDx) {
		return "non_open_approach"
	}

	return "unknown_approach"
}
