package bloch

import (
	"fmt"

	"github.com/qoptix/bloch/atom"
	"github.com/qoptix/bloch/expr"
	"github.com/qoptix/bloch/field"
)

// System is the reduced symbolic ODE system: one canonical-polynomial
// derivative per independent real unknown. It is immutable and shared
// read-only by the compiler.
type System struct {
	un      *Unknowns
	derivs  []expr.Poly
	nparams int
}

// Unknowns returns the unknown-index layout of the system.
func (s *System) Unknowns() *Unknowns { return s.un }

// NumUnknowns returns N²-1.
func (s *System) NumUnknowns() int { return s.un.Count() }

// NumParams returns the length of the runtime parameter vector.
func (s *System) NumParams() int { return s.nparams }

// Deriv returns the derivative polynomial of unknown u.
func (s *System) Deriv(u int) expr.Poly { return s.derivs[u] }

// Assemble derives the reduced Bloch equations for the model under the
// given couplings: build H and D(ρ), expand dρ/dt = -i[H,ρ] + D(ρ) into
// N² scalar equations, then reduce to N²-1 real ones (conjugate rows
// dropped, highest-index population eliminated by the trace constraint,
// coherences split into Re/Im).
//
// The imaginary residue of every population equation must cancel
// identically; a residue above relative tolerance reports ErrAssembly,
// which is an internal-bug guard and not a caller-recoverable state.
//
// Complexity: O(N³) polynomial products for the commutator; the symbolic
// stage runs once per topology and is reused across all numeric sweeps.
func Assemble(m *atom.Model, couplings []field.Coupling) (*System, error) {
	hTree, err := Hamiltonian(m, couplings)
	if err != nil {
		return nil, err
	}

	n := m.NumStates()
	un := NewUnknowns(n)
	h := canonMatrix(hTree)
	rho := canonMatrix(un.Rho())
	diss := Dissipator(m, un)

	// eq[i][j] = -i·(Hρ - ρH)[i][j] + D[i][j]
	eq := make([][]expr.Poly, n)
	for i := 0; i < n; i++ {
		eq[i] = make([]expr.Poly, n)
		for j := 0; j < n; j++ {
			var comm expr.Poly
			for c := 0; c < n; c++ {
				comm = comm.Add(h[i][c].Mul(rho[c][j]))
				comm = comm.Sub(rho[i][c].Mul(h[c][j]))
			}
			eq[i][j] = comm.Scale(-1i).Add(diss[i][j])
		}
	}

	derivs := make([]expr.Poly, un.Count())

	// Populations: keep the real part, verify the imaginary residue
	// cancels. The eliminated state's equation is replaced by the trace
	// constraint, already substituted through Rho().
	for i := 0; i < n; i++ {
		idx, ok := un.Population(i)
		if !ok {
			continue
		}
		scale := eq[i][i].MaxAbs()
		if scale == 0 {
			scale = 1
		}
		if eq[i][i].MaxImag() > 1e-10*scale {
			return nil, fmt.Errorf("%w: population %d derivative has imaginary residue", ErrAssembly, i)
		}
		derivs[idx] = eq[i][i].RealPart()
	}

	// Coherences: lower triangle only; the upper triangle equations are
	// the conjugates and are enforced, not solved.
	for i := 1; i < n; i++ {
		for j := 0; j < i; j++ {
			re, im := un.Coherence(i, j)
			derivs[re] = eq[i][j].RealPart()
			derivs[im] = eq[i][j].ImagPart()
		}
	}

	return &System{un: un, derivs: derivs, nparams: field.NumParams(couplings)}, nil
}
