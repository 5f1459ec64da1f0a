package solve

import (
	"context"
	"fmt"

	"github.com/qoptix/bloch/compile"
)

// Request bundles one solver invocation so sweeps can dispatch either
// mode through a single call site.
type Request struct {
	Mode   Mode
	Params []float64

	// Initial and Times drive TimeEvolution and are ignored by SteadyState.
	Initial []float64
	Times   []float64
}

// Do dispatches req to Steady or Evolve. A steady-state result is wrapped
// in a single-entry Solution with no time axis, so Final works uniformly
// across modes.
func Do(ctx context.Context, md *compile.Model, req Request, opts Options) (*Solution, error) {
	switch req.Mode {
	case SteadyState:
		x, err := Steady(ctx, md, req.Params, opts)
		if err != nil {
			return nil, err
		}

		return &Solution{States: [][]float64{x}}, nil

	case TimeEvolution:
		return Evolve(ctx, md, req.Params, req.Initial, req.Times, opts)

	default:
		return nil, fmt.Errorf("%w: unknown mode %d", ErrOptions, int(req.Mode))
	}
}
