package psi

import (
	"time"

	"github.com/meridianhq/go-psi/internal/encounter"
)

// daysBetween returns the whole-day difference b-a, floored the way
// calendar day arithmetic expects (a procedure two hours before the
// reference is day -1, not day 0). ok is false when either endpoint is
// missing.
func daysBetween(a, b *time.Time) (days int, ok bool) {
	if a == nil || b == nil {
		return 0, false
	}
	diff := b.Sub(*a)
	d := diff / (24 * time.Hour)
	if diff%(24*time.Hour) < 0 {
		d--
	}
	return int(d), true
}

// window bounds a day-offset relative to a reference date. A nil bound is
// unbounded on that side.
type window struct {
	minDays      *int
	maxDays      *int
	exclusiveMin bool
	exclusiveMax bool
}

func (w window) contains(d int) bool {
	if w.minDays != nil {
		if w.exclusiveMin && d <= *w.minDays {
			return false
		}
		if !w.exclusiveMin && d < *w.minDays {
			return false
		}
	}
	if w.maxDays != nil {
		if w.exclusiveMax && d >= *w.maxDays {
			return false
		}
		if !w.exclusiveMax && d > *w.maxDays {
			return false
		}
	}
	return true
}

func days(n int) *int { return &n }

// procedureInWindow reports whether any dated procedure from the named set
// falls inside the window relative to ref. A missing reference date never
// matches.
func (e *Engine) procedureInWindow(procs []encounter.Procedure, ref *time.Time, setName string, w window) bool {
	if ref == nil {
		return false
	}
	set := e.reg.Set(setName)
	if set.Len() == 0 {
		return false
	}
	for _, p := range procs {
		if p.Date == nil || !set.Contains(p.Code) {
			continue
		}
		if d, ok := daysBetween(ref, p.Date); ok && w.contains(d) {
			return true
		}
	}
	return false
}

// firstDateIn returns the earliest date among procedures in the named set,
// or nil when none is dated.
func (e *Engine) firstDateIn(procs []encounter.Procedure, setName string) *time.Time {
	set := e.reg.Set(setName)
	if set.Len() == 0 {
		return nil
	}
	var min *time.Time
	for i := range procs {
		p := &procs[i]
		if p.Date == nil || !set.Contains(p.Code) {
			continue
		}
		if min == nil || p.Date.Before(*min) {
			min = p.Date
		}
	}
	return min
}

// latestDateIn is the symmetric counterpart of firstDateIn.
func (e *Engine) latestDateIn(procs []encounter.Procedure, setName string) *time.Time {
	set := e.reg.Set(setName)
	if set.Len() == 0 {
		return nil
	}
	var max *time.Time
	for i := range procs {
		p := &procs[i]
		if p.Date == nil || !set.Contains(p.Code) {
			continue
		}
		if max == nil || p.Date.After(*max) {
			max = p.Date
		}
	}
	return max
}

// allDatesMissing reports whether procedures from the named set are coded
// on the encounter but none of them carries a parseable date. No matching
// procedure at all yields false.
func (e *Engine) allDatesMissing(procs []encounter.Procedure, setName string) bool {
	set := e.reg.Set(setName)
	if set.Len() == 0 {
		return false
	}
	found := false
	for _, p := range procs {
		if !set.Contains(p.Code) {
			continue
		}
		if p.Date != nil {
			return false
		}
		found = true
	}
	return found
}

// anyProcedureIn reports whether any procedure, dated or not, belongs to
// the named set.
func (e *Engine) anyProcedureIn(procs []encounter.Procedure, setName string) bool {
	set := e.reg.Set(setName)
	for _, p := range procs {
		if set.Contains(p.Code) {
			return true
		}
	}
	return false
}

// earlierOf picks the earlier of two optional dates.
func earlierOf(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case a.Before(*b):
		return a
	default:
		return b
	}
}
