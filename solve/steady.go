package solve

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/mat"

	"github.com/qoptix/bloch/compile"
)

// Steady solves M(params)·x = −b(params) for the stationary state.
//
// The returned slice holds the reduced unknown vector; reconstruct the
// density matrix with the Unknowns layout of the originating system.
// Returns ErrSingularSystem when the factorisation finds M rank-deficient.
//
// Time complexity: O(n³) in the number of unknowns.
func Steady(ctx context.Context, md *compile.Model, params []float64, opts Options) ([]float64, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	n := md.NumUnknowns()
	var M mat.Dense
	var b mat.VecDense
	if err := md.Matrix(&M, &b, params); err != nil {
		return nil, err
	}
	b.ScaleVec(-1, &b)

	var lu mat.LU
	lu.Factorize(&M)

	var x mat.VecDense
	if err := lu.SolveVecTo(&x, false, &b); err != nil {
		opts.Logger.Debug("steady-state factorisation failed",
			zap.Int("unknowns", n),
			zap.Error(err))

		return nil, fmt.Errorf("%w: %v", ErrSingularSystem, err)
	}

	out := make([]float64, n)
	copy(out, x.RawVector().Data)

	return out, nil
}
