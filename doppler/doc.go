// Package doppler turns single-point solutions into spectra.
//
// A sweep varies the detuning of one coupling across a grid and, at each
// grid point, averages a scalar observable over a one-dimensional
// Maxwell–Boltzmann velocity distribution. Moving atoms see each field
// shifted by −k·v, so every velocity class is an independent solve of the
// same compiled model with shifted detunings; the classes are embarrassingly
// parallel and run on an errgroup-bounded worker pool.
//
// Velocity grids are symmetric around zero and must span at least four
// thermal widths, otherwise the truncated tails bias the line shape.
// Quadrature weights are trapezoidal and renormalised to unit sum so the
// average stays a convex combination regardless of grid resolution.
package doppler
