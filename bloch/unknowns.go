package bloch

import (
	"github.com/qoptix/bloch/expr"
)

// Unknowns fixes the index layout of the reduced real unknown vector for
// an N-state system and converts between that vector and the full
// Hermitian density matrix.
//
// Layout (deterministic, documented here and nowhere else):
//
//	unknown i            = population ρ_ii            for i in 0..N-2
//	unknown N-1 + 2p     = Re ρ_ij   (i>j, pair p)
//	unknown N-1 + 2p + 1 = Im ρ_ij   (i>j, pair p)
//
// with p = i(i-1)/2 + j enumerating the strict lower triangle row by row.
// The highest-index population ρ_{N-1,N-1} is eliminated through the
// trace constraint and reconstructed as 1 - Σ of the others.
type Unknowns struct {
	n    int
	elim int
}

// NewUnknowns returns the layout for an n-state system (n ≥ 1).
func NewUnknowns(n int) *Unknowns {
	if n < 1 {
		panic("bloch: NewUnknowns needs n >= 1")
	}

	return &Unknowns{n: n, elim: n - 1}
}

// NumStates returns N.
func (u *Unknowns) NumStates() int { return u.n }

// Count returns the number of independent real unknowns, N²-1.
func (u *Unknowns) Count() int { return u.n*u.n - 1 }

// Eliminated returns the state index whose population was removed by the
// trace constraint (always the highest index).
func (u *Unknowns) Eliminated() int { return u.elim }

// Population returns the unknown index of ρ_ii, or ok=false for the
// eliminated state.
func (u *Unknowns) Population(i int) (idx int, ok bool) {
	if i == u.elim {
		return -1, false
	}

	return i, true
}

// pair maps a strict lower-triangle position (i>j) to its pair counter.
func (u *Unknowns) pair(i, j int) int { return i*(i-1)/2 + j }

// Coherence returns the unknown indices of Re ρ_ij and Im ρ_ij for i>j.
func (u *Unknowns) Coherence(i, j int) (re, im int) {
	if i <= j {
		panic("bloch: Coherence requires i > j")
	}
	base := u.n - 1 + 2*u.pair(i, j)

	return base, base + 1
}

// Rho returns the symbolic density matrix over the unknown references:
// Hermitian by construction, with the eliminated population written as
// 1 - Σ of the kept populations.
func (u *Unknowns) Rho() [][]*expr.Expr {
	rho := make([][]*expr.Expr, u.n)
	for i := range rho {
		rho[i] = make([]*expr.Expr, u.n)
	}

	for i := 0; i < u.n; i++ {
		if i == u.elim {
			// Trace closure: 1 - Σ kept populations.
			parts := []*expr.Expr{expr.One()}
			for k := 0; k < u.n; k++ {
				if k == u.elim {
					continue
				}
				parts = append(parts, expr.Neg(expr.Unknown(k)))
			}
			rho[i][i] = expr.Add(parts...)
		} else {
			rho[i][i] = expr.Unknown(i)
		}
	}

	for i := 1; i < u.n; i++ {
		for j := 0; j < i; j++ {
			re, im := u.Coherence(i, j)
			rho[i][j] = expr.Add(expr.Unknown(re), expr.Scale(1i, expr.Unknown(im)))
			rho[j][i] = expr.Add(expr.Unknown(re), expr.Scale(-1i, expr.Unknown(im)))
		}
	}

	return rho
}

// PopulationValue reads ρ_ii from an unknown vector, reconstructing the
// eliminated population from the trace constraint.
func (u *Unknowns) PopulationValue(x []float64, i int) float64 {
	if i != u.elim {
		return x[i]
	}
	v := 1.0
	for k := 0; k < u.n; k++ {
		if k == u.elim {
			continue
		}
		v -= x[k]
	}

	return v
}

// CoherenceValue reads ρ_ij from an unknown vector for any i, j.
func (u *Unknowns) CoherenceValue(x []float64, i, j int) complex128 {
	switch {
	case i == j:
		return complex(u.PopulationValue(x, i), 0)
	case i > j:
		re, im := u.Coherence(i, j)

		return complex(x[re], x[im])
	default:
		re, im := u.Coherence(j, i)

		return complex(x[re], -x[im])
	}
}

// Reconstruct builds the full N×N density matrix from an unknown vector.
// The result is Hermitian with unit trace by construction.
func (u *Unknowns) Reconstruct(x []float64) [][]complex128 {
	rho := make([][]complex128, u.n)
	for i := range rho {
		rho[i] = make([]complex128, u.n)
		for j := 0; j < u.n; j++ {
			rho[i][j] = u.CoherenceValue(x, i, j)
		}
	}

	return rho
}

// GroundVector returns the unknown vector with all population in state
// ground — the default initial condition for time evolution. When ground
// is the eliminated state the zero vector already encodes it.
func (u *Unknowns) GroundVector(ground int) []float64 {
	x := make([]float64, u.Count())
	if ground != u.elim {
		x[ground] = 1
	}

	return x
}
