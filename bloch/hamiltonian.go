package bloch

import (
	"fmt"
	"math"

	"github.com/qoptix/bloch/atom"
	"github.com/qoptix/bloch/expr"
	"github.com/qoptix/bloch/field"
)

// offsetSig is the rotating-frame offset of one level expressed over the
// physical field frequencies: Σ_f coeff_f·ω_f + energy constant. Two
// different coupling paths reaching the same level must agree on it, or
// the rotating frame cannot be made time-independent.
type offsetSig struct {
	fields map[int]int
	energy float64
}

func (s offsetSig) clone() offsetSig {
	out := offsetSig{fields: make(map[int]int, len(s.fields)), energy: s.energy}
	for k, v := range s.fields {
		out.fields[k] = v
	}

	return out
}

func (s offsetSig) equal(o offsetSig, tol float64) bool {
	for k, v := range s.fields {
		if o.fields[k] != v {
			return false
		}
	}
	for k, v := range o.fields {
		if s.fields[k] != v {
			return false
		}
	}
	scale := math.Max(1, math.Max(math.Abs(s.energy), math.Abs(o.energy)))

	return math.Abs(s.energy-o.energy) <= tol*scale
}

// frameTol is the relative tolerance for comparing rotating-frame energy
// offsets reached through different coupling paths.
const frameTol = 1e-9

// Hamiltonian assembles the symbolic N×N rotating-frame Hamiltonian of
// the model under the given field couplings (ħ = 1).
//
// Diagonal entries are the accumulated rotating-frame offsets: affine in
// the per-coupling detuning parameters, zero for each connected
// component's lowest-index level. Off-diagonal entries carry the
// co-rotating coupling terms (dipole·Ω_k)/2 only, so the rotating-wave
// approximation is built in. The returned matrix is real-symmetric in
// its symbolic entries (Rabi magnitudes are real parameters).
//
// Errors (all *ConfigurationError, matching ErrConfig):
//   - a coupling's transition index is outside the model's set;
//   - the polarization's ΔM selection rule rejects the transition;
//   - two coupling paths induce different offsets for one level
//     (over-constrained multi-photon loop).
//
// Complexity: O(C + N + E) for C couplings and E coupling-graph edges.
func Hamiltonian(m *atom.Model, couplings []field.Coupling) ([][]*expr.Expr, error) {
	n := m.NumStates()
	h := make([][]*expr.Expr, n)
	for i := range h {
		h[i] = make([]*expr.Expr, n)
		for j := range h[i] {
			h[i][j] = expr.Zero()
		}
	}

	type edge struct {
		coupling int
		upper    int
		lower    int
		fieldID  int
	}
	adj := make([][]edge, n)

	for k, c := range couplings {
		if c.Transition < 0 || c.Transition >= m.NumTransitions() {
			return nil, &ConfigurationError{
				Coupling:   k,
				Transition: c.Transition,
				Reason:     "coupling addresses a transition absent from the model",
			}
		}
		t := m.Transition(c.Transition)
		dm := m.State(t.Upper).M - m.State(t.Lower).M
		if int(math.Round(dm)) != c.Polarization.Q() {
			return nil, &ConfigurationError{
				Coupling:   k,
				Transition: c.Transition,
				Reason: fmt.Sprintf("polarization %s cannot drive ΔM=%+g transition %d→%d",
					c.Polarization, dm, t.Upper, t.Lower),
			}
		}

		// Co-rotating coupling term on both triangle halves; H stays
		// Hermitian because the Rabi magnitude is real.
		term := expr.Mul(expr.Real(t.Dipole/2), expr.Param(field.RabiIndex(k)))
		h[t.Upper][t.Lower] = expr.Add(h[t.Upper][t.Lower], term)
		h[t.Lower][t.Upper] = expr.Add(h[t.Lower][t.Upper], term)

		e := edge{coupling: k, upper: t.Upper, lower: t.Lower, fieldID: c.Field}
		adj[t.Upper] = append(adj[t.Upper], e)
		adj[t.Lower] = append(adj[t.Lower], e)
	}

	// Propagate rotating-frame offsets by BFS over the coupling graph.
	// Crossing a coupling upward subtracts its detuning parameter from the
	// diagonal; downward adds it. Each connected component is anchored at
	// its lowest-index level with zero offset.
	diag := make([]*expr.Expr, n)
	sigs := make([]offsetSig, n)
	seen := make([]bool, n)

	for root := 0; root < n; root++ {
		if seen[root] {
			continue
		}
		seen[root] = true
		diag[root] = expr.Zero()
		sigs[root] = offsetSig{fields: map[int]int{}}

		queue := []int{root}
		for len(queue) > 0 {
			cur := queue[0]
			queue = queue[1:]
			for _, e := range adj[cur] {
				next := e.upper
				up := true
				if cur == e.upper {
					next = e.lower
					up = false
				}

				det := expr.Param(field.DetuningIndex(e.coupling))
				var cand *expr.Expr
				sig := sigs[cur].clone()
				de := m.State(e.upper).Energy - m.State(e.lower).Energy
				if up {
					cand = expr.Sub(diag[cur], det)
					sig.fields[e.fieldID]--
					sig.energy += de
				} else {
					cand = expr.Add(diag[cur], det)
					sig.fields[e.fieldID]++
					sig.energy -= de
				}

				if !seen[next] {
					seen[next] = true
					diag[next] = cand
					sigs[next] = sig
					queue = append(queue, next)
					continue
				}
				if !sigs[next].equal(sig, frameTol) {
					return nil, &ConfigurationError{
						Coupling:   e.coupling,
						Transition: couplings[e.coupling].Transition,
						Reason:     "inconsistent rotating-frame offsets: over-constrained multi-photon loop",
					}
				}
			}
		}
	}

	for i := 0; i < n; i++ {
		h[i][i] = diag[i]
	}

	return h, nil
}
