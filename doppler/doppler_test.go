package doppler_test

import (
	"context"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qoptix/bloch/atom"
	"github.com/qoptix/bloch/bloch"
	"github.com/qoptix/bloch/compile"
	"github.com/qoptix/bloch/doppler"
	"github.com/qoptix/bloch/field"
	"github.com/qoptix/bloch/solve"
)

const (
	gamma = 4.0
	omega = 3.0
)

// probe compiles a driven two-level atom; k sets the coupling wavevector.
func probe(t *testing.T, decay, k float64) (*compile.Model, *bloch.Unknowns, []field.Coupling) {
	t.Helper()
	m, err := atom.New(
		[]atom.State{
			{Label: "g", Energy: 0},
			{Label: "e", Energy: 2.4e15},
		},
		[]atom.Transition{{Upper: 1, Lower: 0, Rate: decay, Dipole: 1}},
	)
	require.NoError(t, err)
	couplings := []field.Coupling{{Field: 0, Transition: 0, Polarization: field.Pi, Wavevector: k}}

	sys, err := bloch.Assemble(m, couplings)
	require.NoError(t, err)
	md, err := compile.Compile(sys)
	require.NoError(t, err)

	return md, sys.Unknowns(), couplings
}

func lorentzian(delta float64) float64 {
	return omega * omega / 4 / (delta*delta + gamma*gamma/4 + omega*omega/2)
}

// TestNewVelocityGrid_Properties checks symmetry, unit weight sum and the
// thermal width for a rubidium-scale atom at room temperature.
func TestNewVelocityGrid_Properties(t *testing.T) {
	const temperature, mass = 300.0, 1.44e-25

	g, err := doppler.NewVelocityGrid(temperature, mass, 201, 4)
	require.NoError(t, err)
	require.Equal(t, 201, g.Len())

	assert.InDelta(t, math.Sqrt(1.380649e-23*temperature/mass), g.Sigma, 1e-9)

	var sum float64
	for i, w := range g.Weights {
		sum += w
		assert.Equal(t, g.Velocities[i], -g.Velocities[g.Len()-1-i], "grid must be mirror-exact")
		assert.Equal(t, w, g.Weights[g.Len()-1-i], "weights must be mirror-exact")
	}
	assert.InDelta(t, 1.0, sum, 1e-12, "weights must be normalised")
	assert.InDelta(t, 4*g.Sigma, g.Velocities[g.Len()-1], 1e-9)
	assert.Zero(t, g.Velocities[g.Len()/2], "odd grids carry the rest frame exactly")
}

// TestNewVelocityGrid_EvenCount exercises the mirrored fill without a
// centre point.
func TestNewVelocityGrid_EvenCount(t *testing.T) {
	g, err := doppler.NewVelocityGrid(300, 1.44e-25, 64, 5)
	require.NoError(t, err)
	require.Equal(t, 64, g.Len())

	var sum float64
	for i, w := range g.Weights {
		sum += w
		assert.Equal(t, g.Velocities[i], -g.Velocities[g.Len()-1-i])
		assert.Equal(t, w, g.Weights[g.Len()-1-i])
	}
	assert.InDelta(t, 1.0, sum, 1e-12)
	assert.InDelta(t, 5*g.Sigma, g.Velocities[g.Len()-1], 1e-9)
}

// TestNewVelocityGrid_Rejections covers the narrow-grid policy and the
// degenerate cold-atom case.
func TestNewVelocityGrid_Rejections(t *testing.T) {
	_, err := doppler.NewVelocityGrid(300, 1.44e-25, 100, 3)
	assert.ErrorIs(t, err, doppler.ErrNarrowGrid, "spans below 4σ clip the line wings")

	_, err = doppler.NewVelocityGrid(300, 0, 100, 4)
	assert.ErrorIs(t, err, doppler.ErrGrid)
	_, err = doppler.NewVelocityGrid(300, 1.44e-25, 1, 4)
	assert.ErrorIs(t, err, doppler.ErrGrid)

	g, err := doppler.NewVelocityGrid(0, 1.44e-25, 100, 4)
	require.NoError(t, err)
	assert.Equal(t, []float64{0}, g.Velocities, "T=0 degenerates to the rest frame")
	assert.Equal(t, []float64{1}, g.Weights)
}

// TestRun_RestFrameMatchesClosedForm sweeps the detuning with no velocity
// grid and compares each point to the analytic Lorentzian.
func TestRun_RestFrameMatchesClosedForm(t *testing.T) {
	md, un, couplings := probe(t, gamma, 0)

	detunings := []float64{-6, -3, 0, 3, 6}
	sp, err := doppler.Run(context.Background(), md, un, couplings, doppler.Population(1), doppler.Config{
		Coupling:  0,
		Detunings: detunings,
		Base:      []float64{0, omega},
		Solve:     solve.DefaultOptions(),
	})
	require.NoError(t, err)
	require.Len(t, sp.Y, len(detunings))
	assert.Empty(t, sp.Failed)

	for i, d := range detunings {
		assert.InDelta(t, lorentzian(d), sp.Y[i], 1e-10, "detuning %g", d)
	}
}

// TestRun_ColdGridEqualsRestFrame drives the full velocity-averaging path
// with a T=0 grid; the average over the single zero-velocity class must
// reproduce the rest-frame spectrum exactly.
func TestRun_ColdGridEqualsRestFrame(t *testing.T) {
	md, un, couplings := probe(t, gamma, 1e7)

	grid, err := doppler.NewVelocityGrid(0, 1.44e-25, 100, 4)
	require.NoError(t, err)

	cfg := doppler.Config{
		Coupling:  0,
		Detunings: []float64{-2, 0, 2},
		Base:      []float64{0, omega},
		Solve:     solve.DefaultOptions(),
	}
	bare, err := doppler.Run(context.Background(), md, un, couplings, doppler.Population(1), cfg)
	require.NoError(t, err)

	cfg.Grid = grid
	cold, err := doppler.Run(context.Background(), md, un, couplings, doppler.Population(1), cfg)
	require.NoError(t, err)

	assert.Equal(t, bare.Y, cold.Y)
}

// TestRun_DopplerBroadening checks the qualitative signature of thermal
// averaging: the line centre drops and a far wing gains amplitude
// relative to the rest-frame spectrum.
func TestRun_DopplerBroadening(t *testing.T) {
	// Wavevector scaled so k·σ is a few linewidths.
	md, un, couplings := probe(t, gamma, 0.1)

	grid, err := doppler.NewVelocityGrid(300, 1.44e-25, 401, 4)
	require.NoError(t, err)
	require.Greater(t, 0.1*grid.Sigma, 2*gamma, "setup must be Doppler-dominated")

	cfg := doppler.Config{
		Coupling:  0,
		Detunings: []float64{0, 0.1 * grid.Sigma / 2},
		Base:      []float64{0, omega},
		Solve:     solve.DefaultOptions(),
	}
	rest, err := doppler.Run(context.Background(), md, un, couplings, doppler.Population(1), doppler.Config{
		Coupling:  0,
		Detunings: cfg.Detunings,
		Base:      cfg.Base,
		Solve:     cfg.Solve,
	})
	require.NoError(t, err)

	cfg.Grid = grid
	warm, err := doppler.Run(context.Background(), md, un, couplings, doppler.Population(1), cfg)
	require.NoError(t, err)

	assert.Less(t, warm.Y[0], rest.Y[0], "thermal averaging must suppress the line centre")
	assert.Greater(t, warm.Y[1], rest.Y[1], "thermal averaging must lift the wings")
}

// TestRun_SingularPointDegradesToNaN makes every solve singular (no decay,
// no drive) and expects NaN points with a full Failed index list instead
// of a sweep-level error.
func TestRun_SingularPointDegradesToNaN(t *testing.T) {
	md, un, couplings := probe(t, 0, 0)

	sp, err := doppler.Run(context.Background(), md, un, couplings, doppler.Population(1), doppler.Config{
		Coupling:  0,
		Detunings: []float64{0, 0},
		Base:      []float64{0, 0},
		Solve:     solve.DefaultOptions(),
	})
	require.NoError(t, err, "singular points must not abort the sweep")
	assert.Equal(t, []int{0, 1}, sp.Failed)
	for _, y := range sp.Y {
		assert.True(t, math.IsNaN(y))
	}
}

// TestRun_ConfigRejections covers the sweep validation guards.
func TestRun_ConfigRejections(t *testing.T) {
	md, un, couplings := probe(t, gamma, 0)
	ctx := context.Background()

	_, err := doppler.Run(ctx, md, un, couplings, doppler.Population(1), doppler.Config{
		Coupling: 1, Detunings: []float64{0}, Base: []float64{0, 1}, Solve: solve.DefaultOptions(),
	})
	assert.ErrorIs(t, err, doppler.ErrSweep, "coupling index out of range")

	_, err = doppler.Run(ctx, md, un, couplings, doppler.Population(1), doppler.Config{
		Coupling: 0, Base: []float64{0, 1}, Solve: solve.DefaultOptions(),
	})
	assert.ErrorIs(t, err, doppler.ErrSweep, "empty axis")

	_, err = doppler.Run(ctx, md, un, couplings, doppler.Population(1), doppler.Config{
		Coupling: 0, Detunings: []float64{0}, Base: []float64{0}, Solve: solve.DefaultOptions(),
	})
	assert.ErrorIs(t, err, doppler.ErrSweep, "param length mismatch")

	_, err = doppler.Run(ctx, md, un, couplings, nil, doppler.Config{
		Coupling: 0, Detunings: []float64{0}, Base: []float64{0, 1}, Solve: solve.DefaultOptions(),
	})
	assert.ErrorIs(t, err, doppler.ErrSweep, "nil observable")
}

// TestObservables reads each observable off a hand-built unknown vector.
func TestObservables(t *testing.T) {
	u := bloch.NewUnknowns(2)
	x := []float64{0.7, 0.1, -0.2}

	assert.InDelta(t, 0.7, doppler.Population(0)(u, x), 1e-15)
	assert.InDelta(t, 0.3, doppler.Population(1)(u, x), 1e-15)
	assert.InDelta(t, 0.1, doppler.CoherenceRe(1, 0)(u, x), 1e-15)
	assert.InDelta(t, -0.2, doppler.CoherenceIm(1, 0)(u, x), 1e-15)
	assert.InDelta(t, 1.0, doppler.Absorption(0, 1)(u, x), 1e-15)
}

// TestParseObservable resolves the textual forms and rejects garbage.
func TestParseObservable(t *testing.T) {
	u := bloch.NewUnknowns(2)
	x := []float64{0.7, 0.1, -0.2}

	obs, err := doppler.ParseObservable("population:1")
	require.NoError(t, err)
	assert.InDelta(t, 0.3, obs(u, x), 1e-15)

	obs, err = doppler.ParseObservable("coherence_im:1,0")
	require.NoError(t, err)
	assert.InDelta(t, -0.2, obs(u, x), 1e-15)

	_, err = doppler.ParseObservable("magnetization:1")
	assert.Error(t, err)
}
