package field

import (
	"errors"
	"fmt"
)

// ErrBadPolarization indicates an unrecognized polarization name.
var ErrBadPolarization = errors.New("field: unknown polarization")

// Polarization selects one helicity component of the driving field.
// It fixes the magnetic selection rule: a coupling may only address a
// transition with M_upper - M_lower equal to the polarization's Q.
type Polarization int8

const (
	// SigmaMinus drives ΔM = -1 transitions (q = -1 helicity component).
	SigmaMinus Polarization = iota
	// Pi drives ΔM = 0 transitions (linear along the quantization axis).
	Pi
	// SigmaPlus drives ΔM = +1 transitions (q = +1 helicity component).
	SigmaPlus
)

// Q returns the helicity index q ∈ {-1, 0, +1}.
func (p Polarization) Q() int { return int(p) - 1 }

// String implements fmt.Stringer.
func (p Polarization) String() string {
	switch p {
	case SigmaMinus:
		return "sigma-"
	case Pi:
		return "pi"
	case SigmaPlus:
		return "sigma+"
	default:
		return fmt.Sprintf("polarization(%d)", int8(p))
	}
}

// ParsePolarization maps the configuration-surface names to Polarization.
func ParsePolarization(s string) (Polarization, error) {
	switch s {
	case "sigma-", "sigma_minus":
		return SigmaMinus, nil
	case "pi":
		return Pi, nil
	case "sigma+", "sigma_plus":
		return SigmaPlus, nil
	default:
		return 0, fmt.Errorf("%w: %q", ErrBadPolarization, s)
	}
}

// Coupling binds one driving field to one atomic transition.
//
// Frequency is the field's reference angular frequency (rad/s); the
// runtime detuning parameter is measured from the addressed transition.
// Wavevector is the signed wavevector magnitude (rad/m) along the
// quantization axis; its sign encodes propagation direction, so a moving
// atom sees the detuning shifted by -Wavevector·v.
type Coupling struct {
	// Field indexes the physical field; several couplings may share it.
	Field int

	// Transition indexes the addressed transition in the atom.Model.
	Transition int

	// Frequency is the reference angular frequency of the field.
	Frequency float64

	// Polarization selects the helicity component driving the transition.
	Polarization Polarization

	// Wavevector is the signed wavevector projection (rad/m).
	Wavevector float64
}

// NumParams returns the length of the runtime parameter vector for a
// coupling set: two parameters (detuning, Rabi magnitude) per coupling.
func NumParams(couplings []Coupling) int { return 2 * len(couplings) }

// DetuningIndex returns the parameter index of coupling k's detuning.
func DetuningIndex(k int) int { return 2 * k }

// RabiIndex returns the parameter index of coupling k's Rabi magnitude.
func RabiIndex(k int) int { return 2*k + 1 }

// DopplerShift returns a copy of params with every coupling's detuning
// shifted by the first-order Doppler term -k·v for atomic velocity v.
func DopplerShift(params []float64, couplings []Coupling, v float64) []float64 {
	out := append([]float64(nil), params...)
	for k, c := range couplings {
		out[DetuningIndex(k)] -= c.Wavevector * v
	}

	return out
}
