package atom

import "errors"

// Sentinel errors for model construction and library lookups.
var (
	// ErrNoStates indicates an attempt to build a model with no states.
	ErrNoStates = errors.New("atom: model needs at least one state")

	// ErrStateIndex indicates a transition references a state index
	// outside 0..N-1.
	ErrStateIndex = errors.New("atom: state index out of range")

	// ErrInvertedTransition indicates a transition whose upper state does
	// not lie above its lower state in energy.
	ErrInvertedTransition = errors.New("atom: transition upper state must exceed lower in energy")

	// ErrNegativeRate indicates a negative decay rate.
	ErrNegativeRate = errors.New("atom: decay rate must be non-negative")

	// ErrDegenerateGround indicates the lowest energy is shared by several
	// states, so a unique ground state cannot be chosen.
	ErrDegenerateGround = errors.New("atom: ground state is degenerate")

	// ErrUnknownSpecies indicates the library holds no data for the
	// requested species/isotope.
	ErrUnknownSpecies = errors.New("atom: unknown species or isotope")

	// ErrUnknownState indicates the library holds no state with the
	// requested label.
	ErrUnknownState = errors.New("atom: unknown state label")

	// ErrUnknownTransition indicates the library holds no transition
	// between the requested labels.
	ErrUnknownTransition = errors.New("atom: unknown transition")
)

// State describes one atomic level.
//
// Energy is an angular frequency (rad/s) relative to an arbitrary
// reference level; only differences enter the equations. Gamma is the
// total spontaneous-decay rate out of the state. F and M are the total
// and magnetic quantum numbers (float64 to admit half-integers).
// States are immutable and identified by their index in the Model.
type State struct {
	Label      string
	F, M       float64
	Energy     float64
	Gamma      float64
	Degeneracy int
}

// Transition is an ordered pair of state indices with the partial decay
// rate (branching Einstein-A coefficient) from Upper to Lower and a
// dimensionless dipole strength coefficient scaling the Rabi coupling.
// Several transitions may share endpoints across hyperfine sublevels.
type Transition struct {
	Upper, Lower int
	Rate         float64
	Dipole       float64
}
