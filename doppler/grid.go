package doppler

import (
	"errors"
	"fmt"
	"math"
)

// Boltzmann constant in J/K (2019 SI exact value).
const kB = 1.380649e-23

var (
	// ErrGrid reports an unusable velocity grid specification.
	ErrGrid = errors.New("doppler: invalid velocity grid")

	// ErrNarrowGrid reports a grid spanning fewer than four thermal widths.
	ErrNarrowGrid = errors.New("doppler: velocity grid narrower than 4σ")
)

// VelocityGrid is a symmetric quadrature over the one-dimensional
// Maxwell–Boltzmann distribution. Weights sum to one.
type VelocityGrid struct {
	Velocities []float64
	Weights    []float64

	// Sigma is the thermal width sqrt(kB·T/m) in m/s.
	Sigma float64
}

// NewVelocityGrid builds a uniform grid of count points spanning
// ±widthSigmas thermal widths for the given temperature (K) and atomic
// mass (kg), with trapezoid weights under the Gaussian density,
// renormalised to unit sum.
//
// widthSigmas below 4 is rejected: the clipped tails distort the wings
// of Doppler-broadened lines. A non-positive temperature degenerates to
// the single zero-velocity class with unit weight.
func NewVelocityGrid(temperature, mass float64, count int, widthSigmas float64) (*VelocityGrid, error) {
	if temperature <= 0 {
		return &VelocityGrid{Velocities: []float64{0}, Weights: []float64{1}}, nil
	}
	if mass <= 0 {
		return nil, fmt.Errorf("%w: mass %g must be positive", ErrGrid, mass)
	}
	if count < 2 {
		return nil, fmt.Errorf("%w: need at least 2 points, got %d", ErrGrid, count)
	}
	if widthSigmas < 4 {
		return nil, fmt.Errorf("%w: got %g", ErrNarrowGrid, widthSigmas)
	}

	sigma := math.Sqrt(kB * temperature / mass)
	g := &VelocityGrid{
		Velocities: make([]float64, count),
		Weights:    make([]float64, count),
		Sigma:      sigma,
	}

	// Fill one half and mirror it so that ±v pairs (and their weights)
	// are bit-identical.
	span := widthSigmas * sigma
	dv := 2 * span / float64(count-1)
	var total float64
	for i := 0; i < count/2; i++ {
		v := span - float64(i)*dv
		w := math.Exp(-v * v / (2 * sigma * sigma))
		if i == 0 {
			w /= 2
		}
		g.Velocities[i] = -v
		g.Velocities[count-1-i] = v
		g.Weights[i] = w
		g.Weights[count-1-i] = w
		total += 2 * w
	}
	if count%2 == 1 {
		g.Velocities[count/2] = 0
		g.Weights[count/2] = 1
		total++
	}
	for i := range g.Weights {
		g.Weights[i] /= total
	}

	return g, nil
}

// Len reports the number of velocity classes.
func (g *VelocityGrid) Len() int { return len(g.Velocities) }
