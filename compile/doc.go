// Package compile lowers a symbolic Bloch-equation system into a fast
// numeric evaluator.
//
// Every right-hand side of the reduced system is affine in the unknowns —
// a structural property of Lindblad dynamics under classical driving —
// so the compiler extracts the explicit coefficient matrix M(params) and
// inhomogeneous vector b(params) with
//
//	dx/dt = M(params)·x + b(params)
//
// where each entry of M and b is a flattened list of parameter monomials
// (the canonical merge during lowering is the common-subexpression step).
// A compiled Model is immutable and safe for concurrent use: one symbolic
// derivation serves every parameter point of every sweep.
//
// Cache keys compiled models by a canonical hash of the topology (states,
// transitions, decay rates, couplings). Any change to that configuration
// changes the key, which is the invalidation rule; Invalidate and
// InvalidateAll exist for explicit eviction. Compilation errors are never
// cached — no partial model escapes.
package compile
