package psi

import "testing"

func birthTraumaEngine(t *testing.T) *Engine {
	t.Helper()
	return New(testRegistry(t, map[string][]string{
		"LIVEBND": {"Z3800"},
		"PRETEID": {"P0702"},
		"OSTEOID": {"Q780"},
		"BIRTHID": {"P134"},
	}), testDefs(), nil)
}

func TestPSI17(t *testing.T) {
	eng := birthTraumaEngine(t)

	newborn := map[string]string{
		"AGE": "0",
		"MDC": "15",
		"Pdx": "Z3800",
	}
	withNewborn := func(extra map[string]string) map[string]string {
		m := make(map[string]string, len(newborn)+len(extra))
		for k, v := range newborn {
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
			name: "birth trauma injury coded",
			overrides: withNewborn(map[string]string{
				"DX1":  "P134",
				"POA2": "N",
			}),
			status:    StatusInclusion,
			rationale: "Inclusion: Birth trauma injury to neonate",
		},
		{
			name:      "not a newborn discharge",
			overrides: nil,
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Not a newborn discharge (Principal DX not in LIVEBND codes)",
		},
		{
			name: "preterm under two kilograms",
			overrides: withNewborn(map[string]string{
				"DX1":  "P0702",
				"POA2": "Y",
				"DX2":  "P134",
				"POA3": "N",
			}),
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Preterm infant with birth weight < 2000g (P0702)",
		},
		{
			name: "osteogenesis imperfecta",
			overrides: withNewborn(map[string]string{
				"DX1":  "Q780",
				"POA2": "Y",
			}),
			status:    StatusExclusion,
			rationale: "Denominator Exclusion: Osteogenesis imperfecta diagnosis present (Q780)",
		},
		{
			name:      "no injury coded",
			overrides: withNewborn(nil),
			status:    StatusExclusion,
			rationale: "Exclusion: No qualifying birth trauma injury found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := eng.Evaluate(buildEncounter(tt.overrides), "PSI_17")
			if res.Status != tt.status {
				t.Fatalf("status = %q (%s), want %q", res.Status, res.Rationale, tt.status)
			}
			if res.Rationale != tt.rationale {
				t.Fatalf("rationale = %q, want %q", res.Rationale, tt.rationale)
			}
		})
	}
}
