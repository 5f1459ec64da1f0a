// Package atom holds the immutable level/transition description of a
// multi-level atom: states (energies, decay rates, quantum numbers) and
// the radiative transitions between them (branching Einstein-A rates and
// dipole strength coefficients).
//
// A Model is constructed once per physical scenario with New, validated
// eagerly, and read-only afterwards. Every downstream stage — Hamiltonian
// and dissipator construction, equation compilation, solving — treats the
// Model as shared immutable input, so it may be used concurrently without
// locking.
//
// The package also defines Library, the read-only interface to an external
// atomic-structure database. Missing Einstein-A data is not a hard
// failure: lookups fall back to a zero rate and record a Warning the
// caller can inspect.
package atom
