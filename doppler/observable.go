package doppler

import (
	"fmt"

	"github.com/qoptix/bloch/bloch"
)

// Observable maps a reduced solution vector to the scalar a detector
// would record.
type Observable func(u *bloch.Unknowns, x []float64) float64

// Population observes ρ_ii.
func Population(i int) Observable {
	return func(u *bloch.Unknowns, x []float64) float64 {
		return u.PopulationValue(x, i)
	}
}

// CoherenceRe observes Re ρ_ij for i > j.
func CoherenceRe(i, j int) Observable {
	return func(u *bloch.Unknowns, x []float64) float64 {
		return real(u.CoherenceValue(x, i, j))
	}
}

// CoherenceIm observes Im ρ_ij for i > j. For a probe coupling states
// j and i this is the absorptive quadrature of the medium's response.
func CoherenceIm(i, j int) Observable {
	return func(u *bloch.Unknowns, x []float64) float64 {
		return imag(u.CoherenceValue(x, i, j))
	}
}

// Absorption sums the populations of the given states, the quantity a
// fluorescence detector integrates when those states are the decaying ones.
func Absorption(states ...int) Observable {
	return func(u *bloch.Unknowns, x []float64) float64 {
		var sum float64
		for _, i := range states {
			sum += u.PopulationValue(x, i)
		}

		return sum
	}
}

// ParseObservable resolves a textual observable reference of the forms
// "population:i", "coherence_re:i,j", "coherence_im:i,j" and
// "absorption:i". Used by scenario files.
func ParseObservable(s string) (Observable, error) {
	var a, b int
	if n, _ := fmt.Sscanf(s, "coherence_re:%d,%d", &a, &b); n == 2 {
		return CoherenceRe(a, b), nil
	}
	if n, _ := fmt.Sscanf(s, "coherence_im:%d,%d", &a, &b); n == 2 {
		return CoherenceIm(a, b), nil
	}
	if n, _ := fmt.Sscanf(s, "population:%d", &a); n == 1 {
		return Population(a), nil
	}
	if n, _ := fmt.Sscanf(s, "absorption:%d", &a); n == 1 {
		return Absorption(a), nil
	}

	return nil, fmt.Errorf("doppler: unknown observable %q", s)
}
