package psi

import "testing"

func kidneyInjuryEngine(t *testing.T) *Engine {
	t.Helper()
	return New(testRegistry(t, map[string][]string{
		"SURGI2R": {"470"},
		"ORPROC":  {"0SRC0J9"},
		"PHYSIDB": {"N170"},
		"DIALYIP": {"5A1D70Z"},
	}), testDefs(), nil)
}

func TestPSI10(t *testing.T) {
	eng := kidneyInjuryEngine(t)

	tests := []struct {
		name      string
		overrides map[string]string
		status    Status
		rationale string
	}{
		{
			name: "acute kidney failure with dialysis after surgery",
			overrides: map[string]string{
				"ATYPE":      "3",
				"Proc1":      "0SRC0J9",
				"Proc1_Date": "2024-03-01",
				"DX1":        "N170",
				"POA2":       "N",
				"Proc2":      "5A1D70Z",
				"Proc2_Date": "2024-03-03",
			},
			status:    StatusInclusion,
			rationale: "Inclusion: Postoperative acute kidney injury requiring dialysis",
		},
		{
			name: "dialysis on the surgery day",
			overrides: map[string]string{
				"ATYPE":      "3",
				"Proc1":      "0SRC0J9",
				"Proc1_Date": "2024-03-01",
				"DX1":        "N170",
				"POA2":       "N",
				"Proc2":      "5A1D70Z",
				"Proc2_Date": "2024-03-01",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Dialysis procedure before or same day as first OR procedure",
		},
		{
			name: "non-elective admission",
			overrides: map[string]string{
				"ATYPE":      "1",
				"Proc1":      "0SRC0J9",
				"Proc1_Date": "2024-03-01",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Admission not elective (ATYPE != 3)",
		},
		{
			name: "kidney failure present on admission",
			overrides: map[string]string{
				"ATYPE":      "3",
				"Proc1":      "0SRC0J9",
				"Proc1_Date": "2024-03-01",
				"DX1":        "N170",
				"POA2":       "Y",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Acute kidney failure (N170) present on admission or as principal diagnosis",
		},
		{
			name: "kidney failure without dialysis",
			overrides: map[string]string{
				"ATYPE":      "3",
				"Proc1":      "0SRC0J9",
				"Proc1_Date": "2024-03-01",
				"DX1":        "N170",
				"POA2":       "N",
			},
			status:    StatusExclusion,
			rationale: "Exclusion: No qualifying postoperative acute kidney injury requiring dialysis found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := eng.Evaluate(buildEncounter(tt.overrides), "PSI_10")
			if res.Status != tt.status {
				t.Fatalf("status = %q (%s), want %q", res.Status, res.Rationale, tt.status)
			}
			if res.Rationale != tt.rationale {
				t.Fatalf("rationale = %q, want %q", res.Rationale, tt.rationale)
			}
		})
	}
}
