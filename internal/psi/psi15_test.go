package psi

import "testing"

func punctureEngine(t *testing.T) *Engine {
	t.Helper()
	return New(testRegistry(t, map[string][]string{
		"SURGI2R":    {"470"},
		"MEDIC2R":    {"193"},
		"ABDOMI15P":  {"0DTJ0ZZ"},
		"GI15D":      {"K9171"},
		"GI15P":      {"0DQB0ZZ"},
		"SPLEEN15D":  {"D735"},
		"SPLEEN15P":  {"07TP0ZZ"},
		"PCLASSHIGH": {"0DTJ0ZZ"},
	}), testDefs(), nil)
}

func TestPSI15(t *testing.T) {
	eng := punctureEngine(t)

	index := map[string]string{
		"Proc1":      "0DTJ0ZZ",
		"Proc1_Date": "2024-03-01",
	}
	withIndex := func(extra map[string]string) map[string]string {
		m := make(map[string]string, len(index)+len(extra))
		for k, v := range index {
			m[k] = v
		}
		for k, v := range extra {
			m[k] = v
		}
		return m
	}

	tests := []struct {
		name      string
		overrides map[string]string
		status    Status
		rationale string
	}{
		{
			name: "injury with same organ repair in window",
			overrides: withIndex(map[string]string{
				"DX1":        "K9171",
				"POA2":       "N",
				"Proc2":      "0DQB0ZZ",
				"Proc2_Date": "2024-03-05",
			}),
			status:    StatusInclusion,
			rationale: "Inclusion: Abdominopelvic accidental puncture/laceration - Risk Category: high_complexity",
		},
		{
			name: "repair for a different organ system does not qualify",
			overrides: withIndex(map[string]string{
				"DX1":        "K9171",
				"POA2":       "N",
				"Proc2":      "07TP0ZZ",
				"Proc2_Date": "2024-03-05",
			}),
			status:    StatusExclusion,
			rationale: "Exclusion: No qualifying abdominopelvic accidental puncture/laceration found",
		},
		{
			name: "repair on index day is too early",
			overrides: withIndex(map[string]string{
				"DX1":        "K9171",
				"POA2":       "N",
				"Proc2":      "0DQB0ZZ",
				"Proc2_Date": "2024-03-01",
			}),
			status:    StatusExclusion,
			rationale: "Exclusion: No qualifying abdominopelvic accidental puncture/laceration found",
		},
		{
			name: "poa injury with matching repair excludes encounter",
			overrides: withIndex(map[string]string{
				"DX1":        "K9171",
				"POA2":       "Y",
				"Proc2":      "0DQB0ZZ",
				"Proc2_Date": "2024-03-05",
			}),
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: POA accidental puncture/laceration (K9171) with matching related procedure in time window",
		},
		{
			name:      "principal injury excluded",
			overrides: withIndex(map[string]string{"Pdx": "K9171"}),
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Principal diagnosis is accidental puncture/laceration (K9171)",
		},
		{
			name: "no index procedure",
			overrides: map[string]string{
				"DX1":  "K9171",
				"POA2": "N",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: No qualifying abdominopelvic procedure (ABDOMI15P) or missing date",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := eng.Evaluate(buildEncounter(tt.overrides), "PSI_15")
			if res.Status != tt.status {
				t.Fatalf("status = %q (%s), want %q", res.Status, res.Rationale, tt.status)
			}
			if res.Rationale != tt.rationale {
				t.Fatalf("rationale = %q, want %q", res.Rationale, tt.rationale)
			}
		})
	}
}
