// Package codeset provides named reference collections of diagnosis and
// procedure codes loaded from appendix files. Lookups are normalized
// (trimmed, uppercased) and sets are immutable after load.
package codeset

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"go.uber.org/zap"
)

// Set is an immutable collection of normalized codes.
type Set map[string]struct{}

// Contains reports whether the normalized form of code is in the set.
func (s Set) Contains(code string) bool {
	_, ok := s[Normalize(code)]
	return ok
}

// Len returns the number of codes in the set.
func (s Set) Len() int { return len(s) }

// Normalize trims surrounding whitespace, uppercases a code, and strips
// ICD-10 decimal points so that membership tests are insensitive to case,
// whitespace, and dotted versus dotless coding.
func Normalize(code string) string {
	return strings.ReplaceAll(strings.ToUpper(strings.TrimSpace(code)), ".", "")
}

// Registry holds all named code sets for a batch. It is read-only after
// load and safe for concurrent use.
type Registry struct {
	sets   map[string]Set
	logger *zap.Logger
}

// NewRegistry creates an empty registry. All lookups miss.
func NewRegistry(logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Registry{sets: make(map[string]Set), logger: logger}
}

// Load reads a JSON mapping of set name to code list. Entries that are not
// arrays are skipped with a warning. A malformed document yields an empty,
// still usable registry.
func Load(r io.Reader, logger *zap.Logger) *Registry {
	reg := NewRegistry(logger)

	var raw map[string]json.RawMessage
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		reg.logger.Warn("code set source is not valid JSON, registry left empty", zap.Error(err))
		return reg
	}

	for name, entry := range raw {
		var codes []string
		if err := json.Unmarshal(entry, &codes); err != nil {
			reg.logger.Warn("code set entry is not a list, skipping", zap.String("set", name))
			continue
		}
		set := make(Set, len(codes))
		for _, c := range codes {
			set[Normalize(c)] = struct{}{}
		}
		if len(set) == 0 {
			reg.logger.Warn("code set is empty", zap.String("set", name))
		}
		reg.sets[name] = set
	}

	reg.logger.Info("code sets loaded", zap.Int("sets", len(reg.sets)))
	return reg
}

// LoadFile loads a registry from a JSON file on disk. An unreadable file
// yields an empty registry rather than an error so callers stay usable.
func LoadFile(path string, logger *zap.Logger) *Registry {
	if logger == nil {
		logger = zap.NewNop()
	}
	f, err := os.Open(path)
	if err != nil {
		logger.Warn("code set file not readable, registry left empty",
			zap.String("path", path), zap.Error(err))
		return NewRegistry(logger)
	}
	defer f.Close()
	return Load(f, logger)
}

// Set returns the named set. A missing name yields an empty set that never
// matches, not an error.
func (r *Registry) Set(name string) Set {
	return r.sets[name]
}

// Contains reports whether code belongs to the named set.
func (r *Registry) Contains(name, code string) bool {
	return r.sets[name].Contains(code)
}

// ContainsAny reports whether code belongs to any of the named sets.
func (r *Registry) ContainsAny(code string, names ...string) bool {
	for _, n := range names {
		if r.Contains(n, code) {
			return true
		}
	}
	return false
}

// Union builds a new set holding every code from the named sets. Used to
// precompute derived exclusion views once at engine construction.
func (r *Registry) Union(names ...string) Set {
	out := make(Set)
	for _, n := range names {
		for c := range r.sets[n] {
			out[c] = struct{}{}
		}
	}
	return out
}

// Len returns the number of loaded sets.
func (r *Registry) Len() int { return len(r.sets) }

// String summarizes the registry for logs.
func (r *Registry) String() string {
	return fmt.Sprintf("codeset.Registry(%d sets)", len(r.sets))
}
