package bloch

import (
	"github.com/qoptix/bloch/atom"
	"github.com/qoptix/bloch/expr"
)

// Dissipator assembles the symbolic Lindblad dissipator
//
//	D(ρ) = Σ_k γ_k (L_k ρ L_k† - ½{L_k†L_k, ρ}),  L_k = |lower_k⟩⟨upper_k|
//
// over the density matrix defined by u, in canonical polynomial form.
//
// For a lowering jump operator the three terms reduce to explicit index
// arithmetic: the jump feeds γ·ρ_uu into (l,l), and the anticommutator
// damps row u and column u by γ/2 each — the (u,u) entry is hit twice,
// giving the full -γ·ρ_uu that balances the jump term. That cancellation
// is what makes D trace-preserving identically, and it is the property
// the trace-constraint reduction in Assemble relies on.
//
// Complexity: O(T·N) polynomial additions for T transitions.
func Dissipator(m *atom.Model, u *Unknowns) [][]expr.Poly {
	n := m.NumStates()
	rho := canonMatrix(u.Rho())

	d := make([][]expr.Poly, n)
	for i := range d {
		d[i] = make([]expr.Poly, n)
	}

	for k := 0; k < m.NumTransitions(); k++ {
		t := m.Transition(k)
		if t.Rate == 0 {
			continue
		}
		up, lo := t.Upper, t.Lower
		gain := complex(t.Rate, 0)
		half := complex(t.Rate/2, 0)

		// L ρ L†: population feeding the lower level.
		d[lo][lo] = d[lo][lo].Add(rho[up][up].Scale(gain))

		// -½{L†L, ρ}: damp row `up` and column `up`.
		for j := 0; j < n; j++ {
			d[up][j] = d[up][j].Sub(rho[up][j].Scale(half))
			d[j][up] = d[j][up].Sub(rho[j][up].Scale(half))
		}
	}

	return d
}

// canonMatrix lowers a matrix of expression trees to canonical polynomials.
func canonMatrix(m [][]*expr.Expr) [][]expr.Poly {
	out := make([][]expr.Poly, len(m))
	for i := range m {
		out[i] = make([]expr.Poly, len(m[i]))
		for j := range m[i] {
			out[i][j] = expr.Canon(m[i][j])
		}
	}

	return out
}
