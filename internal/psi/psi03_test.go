package psi

import "testing"

func pressureUlcerEngine(t *testing.T) *Engine {
	t.Helper()
	return New(testRegistry(t, map[string][]string{
		"SURGI2R":     {"470"},
		"MEDIC2R":     {"193"},
		"PISACRALD":   {"L89153"},
		"DTISACRAEXD": {"L89156"},
		"PIRHEELD":    {"L89613"},
		"DTIRHEELEXD": {"L89616"},
		"PIUNSPECD":   {"L8990"},
		"BURNDX":      {"T3120"},
	}), testDefs(), nil)
}

func TestPSI03(t *testing.T) {
	eng := pressureUlcerEngine(t)

	tests := []struct {
		name      string
		overrides map[string]string
		status    Status
		rationale string
	}{
		{
			name:      "short stay excluded",
			overrides: map[string]string{"Length_of_stay": "2"},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Length of stay less than 3 days or missing",
		},
		{
			name: "site specific ulcer not on admission",
			overrides: map[string]string{
				"Length_of_stay": "6",
				"DX1":            "L89153",
				"POA2":           "N",
			},
			status:    StatusInclusion,
			rationale: "Inclusion: Hospital-acquired pressure ulcer (Specific site, Stage 3/4 or Unstageable, not excluded by POA DTI)",
		},
		{
			name: "same site deep tissue injury on admission suppresses",
			overrides: map[string]string{
				"Length_of_stay": "6",
				"DX1":            "L89153",
				"POA2":           "N",
				"DX2":            "L89156",
				"POA3":           "Y",
			},
			status:    StatusExclusion,
			rationale: "Exclusion: No qualifying hospital-acquired pressure ulcer identified",
		},
		{
			name: "different site deep tissue injury does not suppress",
			overrides: map[string]string{
				"Length_of_stay": "6",
				"DX1":            "L89153",
				"POA2":           "N",
				"DX2":            "L89616",
				"POA3":           "Y",
			},
			status:    StatusInclusion,
			rationale: "Inclusion: Hospital-acquired pressure ulcer (Specific site, Stage 3/4 or Unstageable, not excluded by POA DTI)",
		},
		{
			name: "unspecified site qualifies without cross-check",
			overrides: map[string]string{
				"Length_of_stay": "6",
				"DX1":            "L8990",
				"POA2":           "U",
			},
			status:    StatusInclusion,
			rationale: "Inclusion: Hospital-acquired pressure ulcer (Unspecified site, Stage 3/4 or Unstageable)",
		},
		{
			name: "ulcer on admission is not an event",
			overrides: map[string]string{
				"Length_of_stay": "6",
				"DX1":            "L89153",
				"POA2":           "Y",
			},
			status:    StatusExclusion,
			rationale: "Exclusion: No qualifying hospital-acquired pressure ulcer identified",
		},
		{
			name: "principal ulcer excluded from denominator",
			overrides: map[string]string{
				"Length_of_stay": "6",
				"Pdx":            "L89153",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Principal diagnosis is pressure ulcer/DTI (L89153)",
		},
		{
			name: "burn diagnosis excluded from denominator",
			overrides: map[string]string{
				"Length_of_stay": "6",
				"DX1":            "T3120",
				"POA2":           "Y",
				"DX2":            "L8990",
				"POA3":           "N",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Severe burn diagnosis present (T3120)",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := eng.Evaluate(buildEncounter(tt.overrides), "PSI_03")
			if res.Status != tt.status {
				t.Fatalf("status = %q (%s), want %q", res.Status, res.Rationale, tt.status)
			}
			if res.Rationale != tt.rationale {
				t.Fatalf("rationale = %q, want %q", res.Rationale, tt.rationale)
			}
		})
	}
}
