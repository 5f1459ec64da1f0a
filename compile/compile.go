package compile

import (
	"errors"
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/qoptix/bloch/bloch"
	"github.com/qoptix/bloch/expr"
)

var (
	// ErrNonAffine reports a derivative that is not affine in the unknowns.
	// The symbolic layer cannot produce one from a valid Lindblad system,
	// so this indicates a corrupted or hand-built System.
	ErrNonAffine = errors.New("compile: system is not affine in the unknowns")

	// ErrParamCount reports an evaluation call whose parameter slice does
	// not match the compiled model's parameter count.
	ErrParamCount = errors.New("compile: parameter count mismatch")

	// ErrDimension reports a state or destination vector of the wrong length.
	ErrDimension = errors.New("compile: dimension mismatch")
)

// Model is a compiled affine system dx/dt = M(params)·x + b(params).
// It holds the parameter-polynomial entries of M and b and evaluates them
// into dense gonum structures on demand. A Model is immutable after
// Compile and safe for concurrent use.
type Model struct {
	n int // number of unknowns
	p int // number of runtime parameters

	m [][]expr.ParamPoly // n×n coefficient entries
	b []expr.ParamPoly   // length-n inhomogeneous entries
}

// Compile lowers every derivative of sys to affine form and assembles the
// coefficient matrix and inhomogeneous vector entry by entry.
//
// Time complexity: O(n² · t) for n unknowns with t monomials per entry.
func Compile(sys *bloch.System) (*Model, error) {
	n := sys.NumUnknowns()
	md := &Model{
		n: n,
		p: sys.NumParams(),
		m: make([][]expr.ParamPoly, n),
		b: make([]expr.ParamPoly, n),
	}

	for i := 0; i < n; i++ {
		aff, err := sys.Deriv(i).Affine()
		if err != nil {
			return nil, fmt.Errorf("%w: equation %d: %v", ErrNonAffine, i, err)
		}

		row := make([]expr.ParamPoly, n)
		for j, pp := range aff.Coeff {
			row[j] = pp
		}
		md.m[i] = row
		md.b[i] = aff.Const
	}

	return md, nil
}

// NumUnknowns returns the dimension of the compiled system.
func (md *Model) NumUnknowns() int { return md.n }

// NumParams returns the number of runtime parameters the model expects.
func (md *Model) NumParams() int { return md.p }

// MatrixEntry returns the parameter polynomial at row i, column j of M.
// A nil return means the entry is structurally zero.
func (md *Model) MatrixEntry(i, j int) expr.ParamPoly { return md.m[i][j] }

// ConstEntry returns the parameter polynomial of b at row i.
// A nil return means the entry is structurally zero.
func (md *Model) ConstEntry(i int) expr.ParamPoly { return md.b[i] }

// Matrix evaluates M(params) into dst and b(params) into bdst.
// Either destination may be nil to skip it; non-nil destinations are
// reused when already the right shape and reset otherwise.
func (md *Model) Matrix(dst *mat.Dense, bdst *mat.VecDense, params []float64) error {
	if len(params) != md.p {
		return fmt.Errorf("%w: got %d params, model expects %d", ErrParamCount, len(params), md.p)
	}

	if dst != nil {
		if dst.IsEmpty() {
			dst.ReuseAs(md.n, md.n)
		} else if r, c := dst.Dims(); r != md.n || c != md.n {
			return fmt.Errorf("%w: matrix destination is %d×%d, want %d×%d", ErrDimension, r, c, md.n, md.n)
		}
		for i := 0; i < md.n; i++ {
			for j := 0; j < md.n; j++ {
				if pp := md.m[i][j]; pp != nil {
					dst.Set(i, j, pp.Eval(params))
				} else {
					dst.Set(i, j, 0)
				}
			}
		}
	}
	if bdst != nil {
		if bdst.IsEmpty() {
			bdst.ReuseAsVec(md.n)
		} else if bdst.Len() != md.n {
			return fmt.Errorf("%w: vector destination has length %d, want %d", ErrDimension, bdst.Len(), md.n)
		}
		for i := 0; i < md.n; i++ {
			if pp := md.b[i]; pp != nil {
				bdst.SetVec(i, pp.Eval(params))
			} else {
				bdst.SetVec(i, 0)
			}
		}
	}

	return nil
}

// RHS evaluates dx/dt = M(params)·x + b(params) into dst without
// materialising M. This is the hot path of the time integrator:
// only structurally nonzero entries are touched.
func (md *Model) RHS(dst, x, params []float64) error {
	if len(params) != md.p {
		return fmt.Errorf("%w: got %d params, model expects %d", ErrParamCount, len(params), md.p)
	}
	if len(x) != md.n || len(dst) != md.n {
		return fmt.Errorf("%w: state length %d, dst length %d, want %d", ErrDimension, len(x), len(dst), md.n)
	}

	for i := 0; i < md.n; i++ {
		acc := 0.0
		if pp := md.b[i]; pp != nil {
			acc = pp.Eval(params)
		}
		for j, pp := range md.m[i] {
			if pp != nil {
				acc += pp.Eval(params) * x[j]
			}
		}
		dst[i] = acc
	}

	return nil
}
