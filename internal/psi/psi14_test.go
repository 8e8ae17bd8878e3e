package psi

import "testing"

func dehiscenceEngine(t *testing.T) *Engine {
	t.Helper()
	return New(testRegistry(t, map[string][]string{
		"ABDOMIPOPEN":  {"0DTJ0ZZ"},
		"ABDOMIPOTHER": {"0DTJ4ZZ"},
		"RECLOIP":      {"0WQFXZZ"},
		"ABWALLCD":     {"T8132XA"},
	}), testDefs(), nil)
}

func TestPSI14(t *testing.T) {
	eng := dehiscenceEngine(t)

	tests := []struct {
		name      string
		overrides map[string]string
		status    Status
		rationale string
	}{
		{
			name: "open surgery with reclosure after index",
			overrides: map[string]string{
				"Length_of_stay": "5",
				"Proc1":          "0DTJ0ZZ",
				"Proc1_Date":     "2024-03-01",
				"Proc2":          "0WQFXZZ",
				"Proc2_Date":     "2024-03-06",
				"DX1":            "T8132XA",
				"POA2":           "N",
			},
			status:    StatusInclusion,
			rationale: "Inclusion: Postoperative wound dehiscence - Stratum: open_approach",
		},
		{
			name: "open surgery with undated reclosure",
			overrides: map[string]string{
				"Length_of_stay": "5",
				"Proc1":          "0DTJ0ZZ",
				"Proc1_Date":     "2024-03-01",
				"Proc2":          "0WQFXZZ",
				"DX1":            "T8132XA",
				"POA2":           "N",
			},
			status:    StatusInclusion,
			rationale: "Inclusion: Postoperative wound dehiscence - Stratum: open_approach",
		},
		{
			name: "undated open surgery alongside dated non-open index",
			overrides: map[string]string{
				"Length_of_stay": "5",
				"Proc1":          "0DTJ0ZZ",
				"Proc2":          "0DTJ4ZZ",
				"Proc2_Date":     "2024-03-01",
				"Proc3":          "0WQFXZZ",
				"Proc3_Date":     "2024-03-06",
				"DX1":            "T8132XA",
				"POA2":           "N",
			},
			status:    StatusInclusion,
			rationale: "Inclusion: Postoperative wound dehiscence - Stratum: open_approach",
		},
		{
			name: "non-open surgery with undated reclosure",
			overrides: map[string]string{
				"Length_of_stay": "5",
				"Proc1":          "0DTJ4ZZ",
				"Proc1_Date":     "2024-03-01",
				"Proc2":          "0WQFXZZ",
				"DX1":            "T8132XA",
				"POA2":           "N",
			},
			status:    StatusInclusion,
			rationale: "Inclusion: Postoperative wound dehiscence - Stratum: non_open_approach",
		},
		{
			name: "reclosure on the index surgery day",
			overrides: map[string]string{
				"Length_of_stay": "5",
				"Proc1":          "0DTJ0ZZ",
				"Proc1_Date":     "2024-03-01",
				"Proc2":          "0WQFXZZ",
				"Proc2_Date":     "2024-03-01",
				"DX1":            "T8132XA",
				"POA2":           "N",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Reclosure procedure occurred on or before initial abdominopelvic surgery",
		},
		{
			name: "disruption present on admission",
			overrides: map[string]string{
				"Length_of_stay": "5",
				"Proc1":          "0DTJ0ZZ",
				"Proc1_Date":     "2024-03-01",
				"Proc2":          "0WQFXZZ",
				"Proc2_Date":     "2024-03-06",
				"DX1":            "T8132XA",
				"POA2":           "Y",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Wound dehiscence diagnosis (T8132XA) present on admission or as principal diagnosis",
		},
		{
			name: "stay shorter than two days",
			overrides: map[string]string{
				"Length_of_stay": "1",
				"Proc1":          "0DTJ0ZZ",
				"Proc1_Date":     "2024-03-01",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Length of stay less than 2 days or missing",
		},
		{
			name: "no abdominopelvic surgery",
			overrides: map[string]string{
				"Length_of_stay": "5",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: No qualifying abdominopelvic procedure found",
		},
		{
			name: "reclosure without a disruption diagnosis",
			overrides: map[string]string{
				"Length_of_stay": "5",
				"Proc1":          "0DTJ0ZZ",
				"Proc1_Date":     "2024-03-01",
				"Proc2":          "0WQFXZZ",
				"Proc2_Date":     "2024-03-06",
			},
			status:    StatusExclusion,
			rationale: "Exclusion: No qualifying postoperative wound dehiscence found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := eng.Evaluate(buildEncounter(tt.overrides), "PSI_14")
			if res.Status != tt.status {
				t.Fatalf("status = %q (%s), want %q", res.Status, res.Rationale, tt.status)
			}
			if res.Rationale != tt.rationale {
				t.Fatalf("rationale = %q, want %q", res.Rationale, tt.rationale)
			}
		})
	}
}
