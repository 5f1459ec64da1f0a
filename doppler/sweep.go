package doppler

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/qoptix/bloch/bloch"
	"github.com/qoptix/bloch/compile"
	"github.com/qoptix/bloch/field"
	"github.com/qoptix/bloch/solve"
)

// ErrSweep reports an unusable sweep configuration.
var ErrSweep = errors.New("doppler: invalid sweep")

// Spectrum is the outcome of a detuning sweep. Y[i] is the
// velocity-averaged observable at detuning X[i]; a point whose first
// singular velocity class aborts its average carries NaN and is listed
// in Failed in ascending order.
type Spectrum struct {
	X      []float64
	Y      []float64
	Failed []int
}

// Config describes one detuning sweep.
type Config struct {
	// Coupling indexes the scanned coupling; its detuning parameter is
	// overwritten with each value of Detunings in turn.
	Coupling  int
	Detunings []float64

	// Base holds the parameter vector for all couplings at line centre.
	Base []float64

	// Grid supplies the velocity classes; nil averages nothing and
	// solves the single zero-velocity class.
	Grid *VelocityGrid

	// Workers bounds sweep parallelism; 0 means GOMAXPROCS.
	Workers int

	// Solve tunes the per-point solver.
	Solve solve.Options

	// Logger receives sweep diagnostics. Nil logs nothing.
	Logger *zap.Logger
}

// Run solves the steady state at every (detuning, velocity) pair and
// averages the observable over the velocity grid.
//
// Detuning points are independent and execute concurrently; results are
// written into index-addressed slices, so output order never depends on
// scheduling. A singular system at one point degrades that point to NaN
// without aborting the sweep; any other error cancels the remaining work.
func Run(ctx context.Context, md *compile.Model, un *bloch.Unknowns, couplings []field.Coupling, obs Observable, cfg Config) (*Spectrum, error) {
	if cfg.Coupling < 0 || cfg.Coupling >= len(couplings) {
		return nil, fmt.Errorf("%w: coupling index %d out of range", ErrSweep, cfg.Coupling)
	}
	if len(cfg.Detunings) == 0 {
		return nil, fmt.Errorf("%w: empty detuning axis", ErrSweep)
	}
	if len(cfg.Base) != field.NumParams(couplings) {
		return nil, fmt.Errorf("%w: base has %d params, couplings need %d", ErrSweep, len(cfg.Base), field.NumParams(couplings))
	}
	if obs == nil {
		return nil, fmt.Errorf("%w: nil observable", ErrSweep)
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	grid := cfg.Grid
	if grid == nil {
		grid = &VelocityGrid{Velocities: []float64{0}, Weights: []float64{1}}
	}

	sp := &Spectrum{
		X: append([]float64(nil), cfg.Detunings...),
		Y: make([]float64, len(cfg.Detunings)),
	}
	failed := make([]bool, len(cfg.Detunings))

	g, gctx := errgroup.WithContext(ctx)
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	g.SetLimit(workers)

	for i := range cfg.Detunings {
		i := i
		g.Go(func() error {
			params := append([]float64(nil), cfg.Base...)
			params[field.DetuningIndex(cfg.Coupling)] = cfg.Detunings[i]

			var avg float64
			for v := range grid.Velocities {
				shifted := field.DopplerShift(params, couplings, grid.Velocities[v])
				x, err := solve.Steady(gctx, md, shifted, cfg.Solve)
				switch {
				case errors.Is(err, solve.ErrSingularSystem):
					logger.Warn("singular system, point dropped",
						zap.Int("point", i),
						zap.Float64("detuning", cfg.Detunings[i]),
						zap.Float64("velocity", grid.Velocities[v]))
					failed[i] = true
					sp.Y[i] = math.NaN()

					return nil
				case err != nil:
					return fmt.Errorf("point %d (detuning %g): %w", i, cfg.Detunings[i], err)
				}
				avg += grid.Weights[v] * obs(un, x)
			}
			sp.Y[i] = avg

			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Collected after the fact so Failed comes out in ascending order
	// regardless of which goroutine finished first.
	for i, bad := range failed {
		if bad {
			sp.Failed = append(sp.Failed, i)
		}
	}

	logger.Debug("sweep finished",
		zap.Int("points", len(sp.X)),
		zap.Int("velocityClasses", grid.Len()),
		zap.Int("failed", len(sp.Failed)))

	return sp, nil
}
