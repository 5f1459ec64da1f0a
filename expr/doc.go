// Package expr provides the small symbolic layer the equation pipeline is
// built on: expression trees over complex constants, real-valued numeric
// parameters and real-valued unknowns, plus the canonicalization and
// affine-lowering passes that turn those trees into explicit coefficient
// structures.
//
// The node set is deliberately fixed and tiny:
//
//   - Const    — a complex128 literal
//   - Param    — reference to a numeric parameter (detuning, Rabi magnitude)
//   - Unknown  — reference to a density-matrix degree of freedom
//   - Sum      — n-ary addition
//   - Product  — n-ary multiplication
//
// Trees are cheap to build and never simplified in place. Canon lowers a
// tree into a Poly: a canonical multivariate polynomial stored as a set of
// monomials (complex coefficient × sorted parameter refs × sorted unknown
// refs). Poly supports the ring operations directly, so matrix algebra on
// symbolic equations runs on canonical forms rather than growing trees.
//
// The final lowering step, Poly.Affine, extracts the explicit affine
// structure d/dt x = Σ_j c_j(params)·x_j + c_0(params) that the numeric
// stages consume. Systems that are not affine in the unknowns are rejected
// with ErrNonAffine — for the Lindblad systems built by package bloch this
// never happens, and hitting it indicates an assembly bug upstream.
//
// Determinism: monomial ordering is total (degree, then refs), so repeated
// canonicalization of equal trees yields byte-for-byte equal results.
package expr
