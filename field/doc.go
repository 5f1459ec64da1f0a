// Package field describes the classical driving fields and the coupling
// bookkeeping between fields and atomic transitions.
//
// A Coupling binds one field to one transition: its reference frequency,
// polarization (helicity component, which fixes the ΔM selection rule),
// and signed wavevector magnitude used to project the atomic velocity
// onto the field axis for Doppler shifts. A field may couple several
// transitions, giving one Coupling per (field, transition) pair.
//
// The package also fixes the numeric parameter layout shared by the
// compiled model and the solvers: each coupling owns two runtime
// parameters, its detuning and its Rabi-frequency magnitude, at stable
// indices DetuningIndex(k) and RabiIndex(k). Keeping the layout here —
// and nowhere else — is what lets a compiled model be reused across
// every parameter sweep without re-deriving anything.
package field
