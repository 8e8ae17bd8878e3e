package psi

import "testing"

func deliveryEngine(t *testing.T) *Engine {
	t.Helper()
	return New(testRegistry(t, map[string][]string{
		"MDC14PRINDX": {"O80"},
		"DELOCMD":     {"Z370"},
		"VAGDELP":     {"10E0XZZ"},
		"INSTRIP":     {"10D07Z3"},
		"OBTRAID":     {"O702"},
	}), testDefs(), nil)
}

func deliveryRow(extra map[string]string) map[string]string {
	row := map[string]string{
		"AGE":    "27",
		"SEX":    "F",
		"MDC":    "14",
		"MS-DRG": "768",
		"Pdx":    "O80",
		"POA1":   "Y",
		"DX1":    "Z370",
		"POA2":   "Y",
		"Proc1":  "10E0XZZ",
	}
	for k, v := range extra {
		row[k] = v
	}
	return row
}

func TestPSI18InstrumentAssistedDelivery(t *testing.T) {
	eng := deliveryEngine(t)

	res := eng.Evaluate(buildEncounter(deliveryRow(map[string]string{
		"Proc2": "10D07Z3",
		"DX2":   "O702",
		"POA3":  "N",
	})), "PSI_18")
	if res.Status != StatusInclusion {
		t.Fatalf("status = %q (%s)", res.Status, res.Rationale)
	}

	res = eng.Evaluate(buildEncounter(deliveryRow(map[string]string{
		"DX2":  "O702",
		"POA3": "N",
	})), "PSI_18")
	if res.Rationale != "Denominator Exclusion: No instrument-assisted delivery procedure found" {
		t.Fatalf("unexpected rationale %q", res.Rationale)
	}
}

func TestPSI19SpontaneousDelivery(t *testing.T) {
	eng := deliveryEngine(t)

	res := eng.Evaluate(buildEncounter(deliveryRow(map[string]string{
		"DX2":  "O702",
		"POA3": "N",
	})), "PSI_19")
	if res.Status != StatusInclusion {
		t.Fatalf("status = %q (%s)", res.Status, res.Rationale)
	}

	// Instrument assistance flips the encounter out of the spontaneous
	// delivery denominator.
	res = eng.Evaluate(buildEncounter(deliveryRow(map[string]string{
		"Proc2": "10D07Z3",
		"DX2":   "O702",
		"POA3":  "N",
	})), "PSI_19")
	if res.Rationale != "Denominator Exclusion: Instrument-assisted delivery procedure found" {
		t.Fatalf("unexpected rationale %q", res.Rationale)
	}

	res = eng.Evaluate(buildEncounter(deliveryRow(nil)), "PSI_19")
	if res.Rationale != "Exclusion: No qualifying obstetric trauma found for spontaneous vaginal delivery" {
		t.Fatalf("unexpected rationale %q", res.Rationale)
	}
}
