package expr

import (
	"fmt"
	"math"
)

// ParamTerm is coeff · Π params with real coefficient; the building block
// of compiled coefficients.
type ParamTerm struct {
	Coeff  float64
	Params []int
}

// ParamPoly is a real polynomial over the numeric parameters only —
// the form every entry of the compiled (M, b) pair takes.
// A nil ParamPoly is zero.
type ParamPoly []ParamTerm

// Eval substitutes numeric parameter values.
//
// Complexity: O(terms · degree); degree is 1 for the Lindblad systems
// built here, so this is effectively O(terms).
func (p ParamPoly) Eval(params []float64) float64 {
	var sum float64
	for _, t := range p {
		v := t.Coeff
		for _, id := range t.Params {
			v *= params[id]
		}
		sum += v
	}

	return sum
}

// IsZero reports whether the polynomial has no terms.
func (p ParamPoly) IsZero() bool { return len(p) == 0 }

// MaxParam returns the largest parameter index referenced, or -1.
func (p ParamPoly) MaxParam() int {
	max := -1
	for _, t := range p {
		for _, id := range t.Params {
			if id > max {
				max = id
			}
		}
	}

	return max
}

// Affine is the explicit affine decomposition of one equation:
//
//	value = Σ_u Coeff[u](params)·x_u + Const(params)
//
// Coeff is keyed by unknown index; absent unknowns have zero coefficient.
type Affine struct {
	Coeff map[int]ParamPoly
	Const ParamPoly
}

// Affine extracts the affine structure of p over the unknowns.
//
// Errors:
//   - ErrNonAffine          — a monomial carries ≥2 unknown factors.
//   - ErrComplexCoefficient — a coefficient kept an imaginary part larger
//     than relative tolerance (the caller must split Re/Im first).
func (p Poly) Affine() (Affine, error) {
	out := Affine{Coeff: make(map[int]ParamPoly)}
	scale := p.MaxAbs()
	if scale == 0 {
		scale = 1
	}

	for _, t := range p.terms {
		if math.Abs(imag(t.Coeff)) > 1e-12*scale {
			return Affine{}, fmt.Errorf("%w: coefficient %v", ErrComplexCoefficient, t.Coeff)
		}
		pt := ParamTerm{Coeff: real(t.Coeff), Params: append([]int(nil), t.Params...)}
		switch t.unknownDegree() {
		case 0:
			out.Const = append(out.Const, pt)
		case 1:
			u := t.Unknowns[0]
			out.Coeff[u] = append(out.Coeff[u], pt)
		default:
			return Affine{}, fmt.Errorf("%w: monomial with unknowns %v", ErrNonAffine, t.Unknowns)
		}
	}

	return out, nil
}
