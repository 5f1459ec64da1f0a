// Package solve evaluates compiled Bloch systems numerically.
//
// Two modes are supported over the same affine form dx/dt = M(p)·x + b(p):
//
//   - Steady computes the stationary state by solving the linear system
//     M·x = −b with an LU factorisation. The combination of the trace
//     constraint folded into the reduction and at least one decay channel
//     makes M invertible for physical configurations; a singular M is
//     reported as ErrSingularSystem rather than guessed around.
//
//   - Evolve integrates the initial value problem with an adaptive
//     Dormand–Prince 5(4) scheme and reports the state at caller-chosen
//     times via dense output, so the step controller is free to take
//     steps much larger than the output spacing.
//
// Both entry points honour context cancellation between linear-algebra
// calls and integration steps.
package solve
