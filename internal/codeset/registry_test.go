package codeset

import (
	"strings"
	"testing"

	"go.uber.org/zap"
)

func TestLoadNormalizesCodes(t *testing.T) {
	src := `{"SURGI2R": [" 001 ", "470", "aBc", "T81.32XA"], "EMPTYSET": []}`
	reg := Load(strings.NewReader(src), zap.NewNop())

	if reg.Len() != 2 {
		t.Fatalf("expected 2 sets, got %d", reg.Len())
	}

	cases := []struct {
		set, code string
		want      bool
	}{
		{"SURGI2R", "001", true},
		{"SURGI2R", "  001", true},
		{"SURGI2R", "ABC", true},
		{"SURGI2R", "abc ", true},
		{"SURGI2R", "T8132XA", true},
		{"SURGI2R", "t81.32xa", true},
		{"SURGI2R", "999", false},
		{"EMPTYSET", "001", false},
		{"NOSUCHSET", "001", false},
	}
	for _, tc := range cases {
		if got := reg.Contains(tc.set, tc.code); got != tc.want {
			t.Errorf("Contains(%q, %q) = %v, want %v", tc.set, tc.code, got, tc.want)
		}
	}
}

func TestLoadSkipsNonArrayEntries(t *testing.T) {
	src := `{"GOOD": ["A1"], "BAD": {"not": "a list"}, "ALSOBAD": 42}`
	reg := Load(strings.NewReader(src), zap.NewNop())

	if reg.Len() != 1 {
		t.Fatalf("expected only the valid set to load, got %d sets", reg.Len())
	}
	if !reg.Contains("GOOD", "a1") {
		t.Error("expected GOOD set to contain A1")
	}
}

func TestLoadMalformedSourceYieldsUsableRegistry(t *testing.T) {
	reg := Load(strings.NewReader("{{{not json"), zap.NewNop())
	if reg == nil {
		t.Fatal("expected a registry, got nil")
	}
	if reg.Contains("ANY", "X") {
		t.Error("empty registry must never match")
	}
}

func TestLoadFileMissingYieldsEmptyRegistry(t *testing.T) {
	reg := LoadFile("/nonexistent/codes.json", zap.NewNop())
	if reg == nil {
		t.Fatal("expected a registry, got nil")
	}
	if reg.Len() != 0 {
		t.Errorf("expected empty registry, got %d sets", reg.Len())
	}
}

func TestUnion(t *testing.T) {
	src := `{"A": ["X1", "X2"], "B": ["X2", "X3"]}`
	reg := Load(strings.NewReader(src), zap.NewNop())

	u := reg.Union("A", "B", "MISSING")
	if u.Len() != 3 {
		t.Fatalf("expected union of 3 codes, got %d", u.Len())
	}
	for _, c := range []string{"X1", "X2", "X3"} {
		if !u.Contains(c) {
			t.Errorf("union missing %s", c)
		}
	}
}

func TestContainsAny(t *testing.T) {
	src := `{"A": ["X1"], "B": ["X2"]}`
	reg := Load(strings.NewReader(src), zap.NewNop())

	if !reg.ContainsAny("x2", "A", "B") {
		t.Error("expected X2 to match via set B")
	}
	if reg.ContainsAny("X3", "A", "B") {
		t.Error("X3 should not match any set")
	}
}
