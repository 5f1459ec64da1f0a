package solve

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/qoptix/bloch/bloch"
	"github.com/qoptix/bloch/compile"
)

// Solution holds the integrated trajectory at the requested times.
// States[k] is the reduced unknown vector at Times[k].
type Solution struct {
	Times  []float64
	States [][]float64

	// Steps counts accepted integration steps, Rejected the discarded ones.
	Steps    int
	Rejected int
}

// Final returns the state at the last requested time.
func (s *Solution) Final() []float64 { return s.States[len(s.States)-1] }

// Rho reconstructs the full Hermitian density matrix at output index k
// using the unknown layout of the originating system.
func (s *Solution) Rho(un *bloch.Unknowns, k int) [][]complex128 {
	return un.Reconstruct(s.States[k])
}

// Dormand–Prince 5(4) tableau. The last stage is evaluated at the
// accepted solution (FSAL), so six derivative calls per step amortise
// to five once steps chain.
// The node coefficients are omitted: the compiled system is autonomous,
// so stage times never enter the right-hand side.
var (
	dpA = [7][6]float64{
		{},
		{1.0 / 5},
		{3.0 / 40, 9.0 / 40},
		{44.0 / 45, -56.0 / 15, 32.0 / 9},
		{19372.0 / 6561, -25360.0 / 2187, 64448.0 / 6561, -212.0 / 729},
		{9017.0 / 3168, -355.0 / 33, 46732.0 / 5247, 49.0 / 176, -5103.0 / 18656},
		{35.0 / 384, 0, 500.0 / 1113, 125.0 / 192, -2187.0 / 6784, 11.0 / 84},
	}

	// Fifth-order solution weights equal the last tableau row; dpE is the
	// difference against the embedded fourth-order weights.
	dpE = [7]float64{
		71.0 / 57600, 0, -71.0 / 16695, 71.0 / 1920,
		-17253.0 / 339200, 22.0 / 525, -1.0 / 40,
	}
)

// Evolve integrates dx/dt = M(params)·x + b(params) from x0 at times[0]
// and reports the state at each entry of times.
//
// times must be strictly increasing. Output points are produced by cubic
// Hermite interpolation inside accepted steps, so dense output grids cost
// no extra derivative evaluations.
func Evolve(ctx context.Context, md *compile.Model, params, x0, times []float64, opts Options) (*Solution, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	n := md.NumUnknowns()
	if len(x0) != n {
		return nil, fmt.Errorf("%w: initial state has length %d, want %d", ErrDimension, len(x0), n)
	}
	if len(times) == 0 {
		return nil, fmt.Errorf("%w: no output times", ErrDimension)
	}
	for k := 1; k < len(times); k++ {
		if times[k] <= times[k-1] {
			return nil, fmt.Errorf("%w: times must be strictly increasing", ErrDimension)
		}
	}

	sol := &Solution{
		Times:  append([]float64(nil), times...),
		States: make([][]float64, len(times)),
	}
	sol.States[0] = append([]float64(nil), x0...)
	if len(times) == 1 {
		return sol, nil
	}

	t := times[0]
	tEnd := times[len(times)-1]
	y := append([]float64(nil), x0...)

	f0 := make([]float64, n)
	if err := md.RHS(f0, y, params); err != nil {
		return nil, err
	}

	h := opts.InitialStep
	if h == 0 {
		h = initialStep(y, f0, tEnd-t, opts)
	}

	var k [7][]float64
	k[0] = f0
	for s := 1; s < 7; s++ {
		k[s] = make([]float64, n)
	}
	stage := make([]float64, n)
	ynew := make([]float64, n)

	next := 1 // index of the next output time to fill
	for next < len(times) {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if sol.Steps+sol.Rejected >= opts.MaxSteps {
			return nil, fmt.Errorf("%w: step budget of %d exhausted at t=%g", ErrIntegration, opts.MaxSteps, t)
		}
		if t+h > tEnd {
			h = tEnd - t
		}

		for s := 1; s < 7; s++ {
			for i := 0; i < n; i++ {
				acc := y[i]
				for j := 0; j < s; j++ {
					acc += h * dpA[s][j] * k[j][i]
				}
				stage[i] = acc
			}
			if err := md.RHS(k[s], stage, params); err != nil {
				return nil, err
			}
		}
		// Stage 7 is evaluated at the candidate solution itself.
		copy(ynew, stage)

		norm := 0.0
		for i := 0; i < n; i++ {
			e := 0.0
			for s := 0; s < 7; s++ {
				e += dpE[s] * k[s][i]
			}
			e *= h
			sc := opts.AbsTol + opts.RelTol*math.Max(math.Abs(y[i]), math.Abs(ynew[i]))
			norm += (e / sc) * (e / sc)
		}
		norm = math.Sqrt(norm / float64(n))

		if norm <= 1 {
			// Emit every requested time inside the accepted step.
			for next < len(times) && times[next] <= t+h {
				sol.States[next] = hermite(t, h, times[next], y, k[0], ynew, k[6])
				next++
			}

			t += h
			copy(y, ynew)
			copy(k[0], k[6])
			sol.Steps++
		} else {
			sol.Rejected++
		}

		fac := 0.9 * math.Pow(math.Max(norm, 1e-16), -0.2)
		h *= math.Min(5, math.Max(0.2, fac))
		if h < opts.MinStep && t < tEnd {
			return nil, fmt.Errorf("%w: step size %g below minimum %g at t=%g", ErrIntegration, h, opts.MinStep, t)
		}
	}

	opts.Logger.Debug("time evolution finished",
		zap.Int("unknowns", n),
		zap.Int("steps", sol.Steps),
		zap.Int("rejected", sol.Rejected),
		zap.Float64("span", tEnd-times[0]))

	return sol, nil
}

// initialStep picks a starting step from the scaled magnitudes of the
// state and its derivative (Hairer, Nørsett, Wanner §II.4), capped at a
// hundredth of the integration span.
func initialStep(y, f []float64, span float64, opts Options) float64 {
	var d0, d1 float64
	for i := range y {
		sc := opts.AbsTol + opts.RelTol*math.Abs(y[i])
		d0 += (y[i] / sc) * (y[i] / sc)
		d1 += (f[i] / sc) * (f[i] / sc)
	}
	d0 = math.Sqrt(d0 / float64(len(y)))
	d1 = math.Sqrt(d1 / float64(len(y)))

	h := 1e-6
	if d0 >= 1e-5 && d1 >= 1e-5 {
		h = 0.01 * d0 / d1
	}

	return math.Min(h, span/100)
}

// hermite interpolates the state at tq inside the step [t0, t0+h] from
// the endpoint states and derivatives.
func hermite(t0, h, tq float64, y0, f0, y1, f1 []float64) []float64 {
	th := (tq - t0) / h
	h00 := (1 + 2*th) * (1 - th) * (1 - th)
	h10 := th * (1 - th) * (1 - th)
	h01 := th * th * (3 - 2*th)
	h11 := th * th * (th - 1)

	out := make([]float64, len(y0))
	for i := range out {
		out[i] = h00*y0[i] + h*h10*f0[i] + h01*y1[i] + h*h11*f1[i]
	}

	return out
}
