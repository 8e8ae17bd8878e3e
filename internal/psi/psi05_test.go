package psi

import "testing"

func retainedItemEngine(t *testing.T) *Engine {
	t.Helper()
	return New(testRegistry(t, map[string][]string{
		"SURGI2R":     {"470"},
		"MEDIC2R":     {"193"},
		"FOREIID":     {"T8101XA"},
		"MDC14PRINDX": {"O80"},
		"MDC15PRINDX": {"P0700"},
	}), testDefs(), nil)
}

func TestPSI05(t *testing.T) {
	eng := retainedItemEngine(t)

	tests := []struct {
		name      string
		overrides map[string]string
		status    Status
		rationale string
	}{
		{
			name: "retained item secondary not on admission",
			overrides: map[string]string{
				"DX1":  "T8101XA",
				"POA2": "N",
			},
			status:    StatusInclusion,
			rationale: "Inclusion: Retained surgical item or unretrieved device fragment (secondary, not POA) - general surgical/medical population",
		},
		{
			name: "obstetric case qualifies regardless of age",
			overrides: map[string]string{
				"AGE":  "16",
				"MDC":  "14",
				"Pdx":  "O80",
				"DX1":  "T8101XA",
				"POA2": "N",
			},
			status:    StatusInclusion,
			rationale: "Inclusion: Retained surgical item or unretrieved device fragment (secondary, not POA) - obstetric population",
		},
		{
			name: "retained item present on admission",
			overrides: map[string]string{
				"DX1":  "T8101XA",
				"POA2": "Y",
			},
			status:    StatusExclusion,
			rationale: "Numerator Exclusion: Retained surgical item (T8101XA) present on admission (POA=Y)",
		},
		{
			name: "principal diagnosis is the retained item",
			overrides: map[string]string{
				"Pdx": "T8101XA",
			},
			status:    StatusExclusion,
			rationale: "Numerator Exclusion: Principal diagnosis is retained surgical item",
		},
		{
			name: "not a surgical or medical discharge",
			overrides: map[string]string{
				"MS-DRG": "768",
				"DX1":    "T8101XA",
				"POA2":   "N",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Not a surgical or medical MS-DRG",
		},
		{
			name:      "no retained item coded",
			overrides: nil,
			status:    StatusExclusion,
			rationale: "Exclusion: No qualifying retained surgical item found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := eng.Evaluate(buildEncounter(tt.overrides), "PSI_05")
			if res.Status != tt.status {
				t.Fatalf("status = %q (%s), want %q", res.Status, res.Rationale, tt.status)
			}
			if res.Rationale != tt.rationale {
				t.Fatalf("rationale = %q, want %q", res.Rationale, tt.rationale)
			}
		})
	}
}
