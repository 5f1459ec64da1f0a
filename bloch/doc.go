// Package bloch derives the optical Bloch equations of a driven
// multi-level atom: the symbolic rotating-frame Hamiltonian, the Lindblad
// dissipator for spontaneous decay, and their reduction to a minimal
// system of real-valued ordinary differential equations.
//
// The derivation follows the master equation
//
//	dρ/dt = -i[H, ρ] + Σ_k γ_k (L_k ρ L_k† - ½{L_k†L_k, ρ})
//
// with ħ = 1 throughout (all energies are angular frequencies).
//
// # Rotating frame
//
// Hamiltonian applies one phase transformation per driving field so the
// result is time-independent: each level's rotating-frame offset is the
// consistent sum of field offsets along the chain of couplings reaching
// it, propagated by breadth-first search over the coupling graph. Only
// co-rotating terms enter the off-diagonals, so the rotating-wave
// approximation holds by construction — counter-rotating terms are never
// generated, not cancelled numerically. Diagonal entries come out affine
// in the per-coupling detuning parameters with no constant part.
//
// # Reduction
//
// Assemble expands the matrix equation into N² scalar equations and
// reduces them deterministically to N²-1 real unknowns:
//
//   - equations for ρ_ji (i>j) are discarded — they are the complex
//     conjugates of the ρ_ij equations, enforced rather than solved;
//   - the highest-index population is eliminated through the trace
//     constraint ρ_{N-1,N-1} = 1 - Σ ρ_ii, substituted everywhere;
//   - each surviving coherence equation splits into real and imaginary
//     parts.
//
// Unknowns fixes the index layout of the reduced vector and reconstructs
// the full Hermitian, unit-trace density matrix from it — the Hermiticity
// and trace invariants hold by construction, not by per-solve checks.
//
// Symbolic-stage errors abort the derivation; no partial system escapes
// this package.
package bloch
