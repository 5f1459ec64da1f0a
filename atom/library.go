package atom

import (
	"fmt"
	"sync"
)

// Library is the read-only interface to an external atomic-structure
// database. Implementations resolve per-species state properties and
// transitions; the equation pipeline never talks to the database directly.
type Library interface {
	// StateProperties returns the State registered under label.
	StateProperties(species string, isotope int, label string) (State, error)

	// Transition returns the transition from upper label to lower label.
	// A registered transition with missing Einstein-A data is returned
	// with Rate 0 and a recorded Warning rather than an error.
	Transition(species string, isotope int, from, to string) (Transition, error)
}

// Warning is a non-fatal diagnostic surfaced by a Library: the lookup
// succeeded through a documented fallback (e.g. zero decay rate for a
// transition without Einstein-A data).
type Warning struct {
	Species string
	Isotope int
	Detail  string
}

func (w Warning) String() string {
	return fmt.Sprintf("atom: %s-%d: %s", w.Species, w.Isotope, w.Detail)
}

// speciesKey identifies one isotope's table.
type speciesKey struct {
	species string
	isotope int
}

type pairKey struct {
	from, to string
}

// tableEntry is a transition record as registered; HasRate distinguishes
// "rate known to be zero" from "rate absent from the source data".
type tableEntry struct {
	t       Transition
	hasRate bool
}

// TableLibrary is an in-memory Library backed by explicit registration.
// It is safe for concurrent lookups after registration is complete;
// registration itself is synchronized but intended for setup time.
type TableLibrary struct {
	mu       sync.RWMutex
	states   map[speciesKey]map[string]State
	pairs    map[speciesKey]map[pairKey]tableEntry
	warnings []Warning
}

// NewTableLibrary returns an empty library.
func NewTableLibrary() *TableLibrary {
	return &TableLibrary{
		states: make(map[speciesKey]map[string]State),
		pairs:  make(map[speciesKey]map[pairKey]tableEntry),
	}
}

// AddState registers a state under its label.
func (l *TableLibrary) AddState(species string, isotope int, s State) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := speciesKey{species: species, isotope: isotope}
	if l.states[k] == nil {
		l.states[k] = make(map[string]State)
	}
	l.states[k][s.Label] = s
}

// AddTransition registers a transition between two state labels.
// hasRate=false marks the Einstein-A coefficient as absent in the source
// data; lookups then fall back to Rate 0 with a Warning.
func (l *TableLibrary) AddTransition(species string, isotope int, from, to string, t Transition, hasRate bool) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := speciesKey{species: species, isotope: isotope}
	if l.pairs[k] == nil {
		l.pairs[k] = make(map[pairKey]tableEntry)
	}
	l.pairs[k][pairKey{from: from, to: to}] = tableEntry{t: t, hasRate: hasRate}
}

// StateProperties implements Library.
func (l *TableLibrary) StateProperties(species string, isotope int, label string) (State, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()

	tbl, ok := l.states[speciesKey{species: species, isotope: isotope}]
	if !ok {
		return State{}, fmt.Errorf("%w: %s-%d", ErrUnknownSpecies, species, isotope)
	}
	s, ok := tbl[label]
	if !ok {
		return State{}, fmt.Errorf("%w: %s-%d %q", ErrUnknownState, species, isotope, label)
	}

	return s, nil
}

// Transition implements Library. Missing Einstein-A data yields a zero
// rate plus a recorded Warning, not an error.
func (l *TableLibrary) Transition(species string, isotope int, from, to string) (Transition, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	k := speciesKey{species: species, isotope: isotope}
	tbl, ok := l.pairs[k]
	if !ok {
		return Transition{}, fmt.Errorf("%w: %s-%d", ErrUnknownSpecies, species, isotope)
	}
	e, ok := tbl[pairKey{from: from, to: to}]
	if !ok {
		return Transition{}, fmt.Errorf("%w: %s-%d %s→%s", ErrUnknownTransition, species, isotope, from, to)
	}
	if !e.hasRate {
		e.t.Rate = 0
		l.warnings = append(l.warnings, Warning{
			Species: species,
			Isotope: isotope,
			Detail:  fmt.Sprintf("transition %s→%s has no Einstein-A data; using zero rate", from, to),
		})
	}

	return e.t, nil
}

// Warnings returns the diagnostics accumulated by fallback lookups.
func (l *TableLibrary) Warnings() []Warning {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return append([]Warning(nil), l.warnings...)
}
