package psi

import "testing"

func thrombosisEngine(t *testing.T) *Engine {
	t.Helper()
	return New(testRegistry(t, map[string][]string{
		"SURGI2R": {"470"},
		"ORPROC":  {"0SRC0J9", "06H03DZ"},
		"DEEPVIB": {"I82401"},
		"PULMOID": {"I2699"},
		"VENACIP": {"06H03DZ"},
		"HITD":    {"D7582"},
	}), testDefs(), nil)
}

func TestPSI12(t *testing.T) {
	eng := thrombosisEngine(t)

	tests := []struct {
		name      string
		overrides map[string]string
		status    Status
		rationale string
	}{
		{
			name: "dvt secondary not on admission",
			overrides: map[string]string{
				"Admission_Date": "2024-02-28",
				"Proc1":          "0SRC0J9",
				"Proc1_Date":     "2024-03-01",
				"DX1":            "I82401",
				"POA2":           "N",
			},
			status:    StatusInclusion,
			rationale: "Inclusion: Perioperative Pulmonary Embolism or Deep Vein Thrombosis (secondary, not POA)",
		},
		{
			name: "dvt present on admission",
			overrides: map[string]string{
				"Admission_Date": "2024-02-28",
				"Proc1":          "0SRC0J9",
				"Proc1_Date":     "2024-03-01",
				"DX1":            "I82401",
				"POA2":           "Y",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: DVT/PE diagnosis (I82401) present on admission (POA=Y)",
		},
		{
			name: "principal diagnosis is pulmonary embolism",
			overrides: map[string]string{
				"Admission_Date": "2024-02-28",
				"Proc1":          "0SRC0J9",
				"Proc1_Date":     "2024-03-01",
				"Pdx":            "I2699",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Principal diagnosis is DVT/PE (I2699)",
		},
		{
			name: "surgery ten or more days after admission",
			overrides: map[string]string{
				"Admission_Date": "2024-02-01",
				"Proc1":          "0SRC0J9",
				"Proc1_Date":     "2024-03-01",
				"DX1":            "I82401",
				"POA2":           "N",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: First OR procedure occurred 10 or more days after admission",
		},
		{
			name: "only operating room work is vena cava interruption",
			overrides: map[string]string{
				"Admission_Date": "2024-02-28",
				"Proc1":          "06H03DZ",
				"Proc1_Date":     "2024-03-01",
				"DX1":            "I82401",
				"POA2":           "N",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Only OR procedure(s) are for vena cava interruption or thrombectomy",
		},
		{
			name: "heparin-induced thrombocytopenia excludes",
			overrides: map[string]string{
				"Admission_Date": "2024-02-28",
				"Proc1":          "0SRC0J9",
				"Proc1_Date":     "2024-03-01",
				"DX1":            "I82401",
				"POA2":           "N",
				"DX2":            "D7582",
				"POA3":           "N",
			},
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Heparin-induced thrombocytopenia (D7582) present",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := eng.Evaluate(buildEncounter(tt.overrides), "PSI_12")
			if res.Status != tt.status {
				t.Fatalf("status = %q (%s), want %q", res.Status, res.Rationale, tt.status)
			}
			if res.Rationale != tt.rationale {
				t.Fatalf("rationale = %q, want %q", res.Rationale, tt.rationale)
			}
		})
	}
}
