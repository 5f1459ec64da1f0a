// Package bloch derives and solves optical Bloch equations for
// laser-driven atoms — from a plain level/transition description to
// Doppler-averaged spectra.
//
// 🚀 What is bloch?
//
//	A library that takes the symbolic route end to end:
//		• Atom models: states, decay channels, dipole transitions
//		• Field couplings: Rabi frequencies, detunings, polarizations
//		• Symbolic assembly: Hamiltonian + Lindblad dissipator in the
//		  rotating frame, reduced to N²−1 real equations
//		• Compilation: the reduced system lowered to an explicit affine
//		  form dx/dt = M(params)·x + b(params)
//		• Solvers: steady state via LU, time evolution via adaptive
//		  Dormand–Prince 5(4)
//		• Spectra: detuning sweeps with Maxwell–Boltzmann velocity
//		  averaging on a bounded worker pool
//
// ✨ Why the symbolic route?
//
//   - Derive once, evaluate everywhere – a sweep over thousands of
//     parameter points reuses one compiled model
//   - No hand-derived equations – selection rules, rotating-frame offsets
//     and trace elimination are applied mechanically
//   - Inconsistent configurations (over-constrained multi-photon loops,
//     forbidden polarizations) fail at assembly, not at plot time
//
// The pipeline is organized as one package per stage:
//
//	atom/    — level structure, decay channels, species tables
//	field/   — couplings, parameter layout, Doppler shifts
//	expr/    — expression trees, canonical polynomials, affine lowering
//	bloch/   — rotating-frame Hamiltonian, dissipator, system assembly
//	compile/ — affine compilation and topology-keyed caching
//	solve/   — steady-state and time-evolution solvers
//	doppler/ — velocity grids, observables, sweep aggregation
//	config/  — YAML scenario loading
//
// Start with atom.New and field.Coupling, assemble with bloch.Assemble,
// compile with compile.Compile, then hand the model to solve or doppler.
//
//	go get github.com/qoptix/bloch
package bloch
