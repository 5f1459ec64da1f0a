package atom

import "fmt"

// Option adjusts model construction. Options are applied in order.
type Option func(*buildState)

type buildState struct {
	overrides []override
}

type override struct {
	upper, lower int
	rate         float64
}

// WithDecayOverride replaces the partial decay rate of every transition
// with the given endpoints. Overriding a pair absent from the transition
// set is reported by New as ErrUnknownTransition.
func WithDecayOverride(upper, lower int, rate float64) Option {
	return func(b *buildState) {
		b.overrides = append(b.overrides, override{upper: upper, lower: lower, rate: rate})
	}
}

// Model is the immutable level/transition description. Construct with New;
// all accessors are safe for concurrent use.
type Model struct {
	states      []State
	transitions []Transition
}

// New validates and builds a Model.
//
// Validation:
//   - at least one state;
//   - transition endpoints inside 0..N-1, Upper strictly above Lower in energy;
//   - all rates non-negative (state Gamma and transition Rate);
//   - decay overrides refer to existing transitions.
//
// Complexity: O(S + T + overrides·T).
func New(states []State, transitions []Transition, opts ...Option) (*Model, error) {
	if len(states) == 0 {
		return nil, ErrNoStates
	}
	for i, s := range states {
		if s.Gamma < 0 {
			return nil, fmt.Errorf("%w: state %d (%s)", ErrNegativeRate, i, s.Label)
		}
	}

	n := len(states)
	ts := append([]Transition(nil), transitions...)
	for k, t := range ts {
		if t.Upper < 0 || t.Upper >= n || t.Lower < 0 || t.Lower >= n {
			return nil, fmt.Errorf("%w: transition %d (%d→%d)", ErrStateIndex, k, t.Upper, t.Lower)
		}
		if states[t.Upper].Energy <= states[t.Lower].Energy {
			return nil, fmt.Errorf("%w: transition %d (%d→%d)", ErrInvertedTransition, k, t.Upper, t.Lower)
		}
		if t.Rate < 0 {
			return nil, fmt.Errorf("%w: transition %d", ErrNegativeRate, k)
		}
	}

	var b buildState
	for _, opt := range opts {
		opt(&b)
	}
	for _, ov := range b.overrides {
		if ov.rate < 0 {
			return nil, fmt.Errorf("%w: override %d→%d", ErrNegativeRate, ov.upper, ov.lower)
		}
		hit := false
		for k := range ts {
			if ts[k].Upper == ov.upper && ts[k].Lower == ov.lower {
				ts[k].Rate = ov.rate
				hit = true
			}
		}
		if !hit {
			return nil, fmt.Errorf("%w: override %d→%d", ErrUnknownTransition, ov.upper, ov.lower)
		}
	}

	return &Model{states: append([]State(nil), states...), transitions: ts}, nil
}

// NumStates returns N.
func (m *Model) NumStates() int { return len(m.states) }

// State returns the i-th state. Panics on out-of-range i, matching slice
// semantics (indices come from validated inputs).
func (m *Model) State(i int) State { return m.states[i] }

// NumTransitions returns the number of transitions.
func (m *Model) NumTransitions() int { return len(m.transitions) }

// Transition returns the k-th transition.
func (m *Model) Transition(k int) Transition { return m.transitions[k] }

// GroundState returns the index of the unique lowest-energy state.
// Returns ErrDegenerateGround when the minimum energy is shared.
func (m *Model) GroundState() (int, error) {
	g := 0
	for i := 1; i < len(m.states); i++ {
		if m.states[i].Energy < m.states[g].Energy {
			g = i
		}
	}
	for i, s := range m.states {
		if i != g && s.Energy == m.states[g].Energy {
			return -1, fmt.Errorf("%w: states %d and %d", ErrDegenerateGround, g, i)
		}
	}

	return g, nil
}

// TotalDecay sums the partial decay rates out of state i.
func (m *Model) TotalDecay(i int) float64 {
	var sum float64
	for _, t := range m.transitions {
		if t.Upper == i {
			sum += t.Rate
		}
	}

	return sum
}
