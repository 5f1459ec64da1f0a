package solve

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

var (
	// ErrSingularSystem reports a coefficient matrix with no unique
	// stationary state at the given parameters.
	ErrSingularSystem = errors.New("solve: singular coefficient matrix")

	// ErrIntegration reports a failed time integration (step size driven
	// below MinStep, or the step budget exhausted).
	ErrIntegration = errors.New("solve: integration failed")

	// ErrDimension reports inputs whose lengths disagree with the model.
	ErrDimension = errors.New("solve: dimension mismatch")

	// ErrOptions reports an invalid Options field.
	ErrOptions = errors.New("solve: invalid options")
)

// Mode selects the solver entry point used by Do.
type Mode int

const (
	// SteadyState requests the stationary solution of the system.
	SteadyState Mode = iota
	// TimeEvolution requests integration of the initial value problem.
	TimeEvolution
)

// String implements fmt.Stringer for diagnostics.
func (m Mode) String() string {
	switch m {
	case SteadyState:
		return "steady-state"
	case TimeEvolution:
		return "time-evolution"
	default:
		return "unknown"
	}
}

// Options tunes the numeric solvers. The zero value is not usable
// directly; start from DefaultOptions and adjust.
type Options struct {
	// AbsTol and RelTol bound the local truncation error per step.
	AbsTol float64
	RelTol float64

	// InitialStep seeds the adaptive controller; 0 picks a heuristic
	// from the first derivative evaluation.
	InitialStep float64

	// MinStep aborts the integration with ErrIntegration when the
	// controller would shrink below it.
	MinStep float64

	// MaxSteps caps the number of accepted plus rejected steps.
	MaxSteps int

	// Logger receives per-solve diagnostics. Nil logs nothing.
	Logger *zap.Logger
}

// DefaultOptions returns the tolerances used throughout the package
// documentation: tight enough for spectroscopy line shapes, loose enough
// to keep sweeps over thousands of parameter points cheap.
func DefaultOptions() Options {
	return Options{
		AbsTol:   1e-10,
		RelTol:   1e-8,
		MinStep:  1e-14,
		MaxSteps: 1_000_000,
	}
}

// validate normalises opts, filling the logger with a no-op core.
func (o *Options) validate() error {
	if o.AbsTol <= 0 || o.RelTol <= 0 {
		return fmt.Errorf("%w: tolerances must be positive", ErrOptions)
	}
	if o.MinStep < 0 || o.InitialStep < 0 {
		return fmt.Errorf("%w: step bounds must be non-negative", ErrOptions)
	}
	if o.MaxSteps <= 0 {
		return fmt.Errorf("%w: MaxSteps must be positive", ErrOptions)
	}
	if o.Logger == nil {
		o.Logger = zap.NewNop()
	}

	return nil
}
