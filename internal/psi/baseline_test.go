package psi

import (
	"strings"
	"testing"
)

func TestBaseExclusionAge(t *testing.T) {
	eng := New(testRegistry(t, nil), testDefs(), nil)

	tests := []struct {
		name      string
		overrides map[string]string
		indicator string
		rationale string
	}{
		{
			name:      "adult indicator rejects minors",
			overrides: map[string]string{"AGE": "16"},
			indicator: "PSI_03",
			rationale: "Population Exclusion: Age 16 < 18 (adult population)",
		},
		{
			name:      "invalid age",
			overrides: map[string]string{"AGE": "unknown"},
			indicator: "PSI_03",
			rationale: "Data Exclusion: Invalid 'AGE' value: unknown",
		},
		{
			name:      "surgical indicator rejects minors",
			overrides: map[string]string{"AGE": "12"},
			indicator: "PSI_04",
			rationale: "Population Exclusion: Age < 18 and not an obstetric patient",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := eng.Evaluate(buildEncounter(tt.overrides), tt.indicator)
			if res.Status != StatusExclusion {
				t.Fatalf("status = %q, want %q", res.Status, StatusExclusion)
			}
			if res.Rationale != tt.rationale {
				t.Fatalf("rationale = %q, want %q", res.Rationale, tt.rationale)
			}
		})
	}
}

func TestBaseExclusionMissingField(t *testing.T) {
	eng := New(testRegistry(t, nil), testDefs(), nil)
	enc := buildEncounter(map[string]string{"SEX": " "})

	res := eng.Evaluate(enc, "PSI_03")
	if res.Status != StatusExclusion {
		t.Fatalf("status = %q, want %q", res.Status, StatusExclusion)
	}
	if !strings.Contains(res.Rationale, "Missing required field 'SEX'") {
		t.Fatalf("unexpected rationale %q", res.Rationale)
	}
}

func TestBaseExclusionNewbornPrincipal(t *testing.T) {
	eng := New(testRegistry(t, map[string][]string{
		"MDC15PRINDX": {"P072"},
		"LIVEBND":     {"Z380"},
	}), testDefs(), nil)

	enc := buildEncounter(map[string]string{
		"AGE": "45",
		"MDC": "15",
		"Pdx": "P072",
	})
	res := eng.Evaluate(enc, "PSI_06")
	if res.Status != StatusExclusion {
		t.Fatalf("status = %q, want %q", res.Status, StatusExclusion)
	}
	if res.Rationale != "Population Exclusion: MDC 15 - Newborn (principal dx in MDC15PRINDX)" {
		t.Fatalf("unexpected rationale %q", res.Rationale)
	}

	// The newborn indicator itself keeps the encounter.
	res = eng.Evaluate(enc, "PSI_17")
	if res.Status == StatusExclusion && strings.Contains(res.Rationale, "MDC 15") {
		t.Fatalf("newborn indicator must not apply the MDC 15 carve-out, got %q", res.Rationale)
	}
}

func TestBaseExclusionObstetricCarveOut(t *testing.T) {
	reg := testRegistry(t, map[string][]string{
		"MDC14PRINDX": {"O80"},
		"SURGI2R":     {"470"},
		"MEDIC2R":     {"765"},
	})
	eng := New(reg, testDefs(), nil)

	obstetric := map[string]string{
		"AGE":    "16",
		"MDC":    "14",
		"Pdx":    "O80",
		"MS-DRG": "765",
	}

	// Retained item and catheter infection indicators admit obstetric
	// patients of any age.
	res := eng.Evaluate(buildEncounter(obstetric), "PSI_05")
	if strings.Contains(res.Rationale, "Age < 18") {
		t.Fatalf("PSI_05 must not age-exclude obstetric patients, got %q", res.Rationale)
	}

	// Other indicators exclude obstetric principal diagnoses outright.
	adultObstetric := map[string]string{
		"AGE":    "29",
		"MDC":    "14",
		"Pdx":    "O80",
		"MS-DRG": "765",
	}
	res = eng.Evaluate(buildEncounter(adultObstetric), "PSI_12")
	if res.Status != StatusExclusion {
		t.Fatalf("status = %q, want %q", res.Status, StatusExclusion)
	}
	if res.Rationale != "Population Exclusion: MDC 14 - Obstetric (principal dx in MDC14PRINDX)" {
		t.Fatalf("unexpected rationale %q", res.Rationale)
	}
}
