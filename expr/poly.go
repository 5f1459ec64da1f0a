package expr

import (
	"math"
	"math/cmplx"
	"sort"
	"strings"
)

// zeroDrop is the magnitude under which a merged coefficient is treated as
// an exact algebraic cancellation and removed from the canonical form.
const zeroDrop = 1e-30

// Monomial is one canonical term: Coeff · Π params · Π unknowns.
// Params and Unknowns are sorted ascending and may repeat (powers).
type Monomial struct {
	Coeff    complex128
	Params   []int
	Unknowns []int
}

// degree in unknowns; used by the affine lowering.
func (m Monomial) unknownDegree() int { return len(m.Unknowns) }

// key returns the total-order key of the monomial's variable part.
func (m Monomial) key() string {
	var sb strings.Builder
	for _, p := range m.Params {
		sb.WriteByte('p')
		writeInt(&sb, p)
	}
	for _, u := range m.Unknowns {
		sb.WriteByte('u')
		writeInt(&sb, u)
	}

	return sb.String()
}

func writeInt(sb *strings.Builder, v int) {
	// Fixed-width little-endian digits keep keys comparable without fmt.
	for i := 0; i < 8; i++ {
		sb.WriteByte(byte('0' + v%10))
		v /= 10
	}
}

// Poly is a canonical multivariate polynomial: a slice of monomials with
// distinct variable parts, sorted by (unknown degree, key). The zero value
// is the zero polynomial. Poly values are immutable once returned.
type Poly struct {
	terms []Monomial
}

// Terms returns a defensive copy of the canonical monomials.
func (p Poly) Terms() []Monomial {
	out := make([]Monomial, len(p.terms))
	for i, t := range p.terms {
		out[i] = Monomial{
			Coeff:    t.Coeff,
			Params:   append([]int(nil), t.Params...),
			Unknowns: append([]int(nil), t.Unknowns...),
		}
	}

	return out
}

// IsZero reports whether p is the zero polynomial.
func (p Poly) IsZero() bool { return len(p.terms) == 0 }

// MaxImag returns the largest |imag(coeff)| over all monomials.
// The assembler uses it to verify that population derivatives are real.
func (p Poly) MaxImag() float64 {
	var m float64
	for _, t := range p.terms {
		if im := math.Abs(imag(t.Coeff)); im > m {
			m = im
		}
	}

	return m
}

// MaxAbs returns the largest coefficient magnitude, 0 for the zero poly.
func (p Poly) MaxAbs() float64 {
	var m float64
	for _, t := range p.terms {
		if a := cmplx.Abs(t.Coeff); a > m {
			m = a
		}
	}

	return m
}

// normalize sorts refs inside monomials, merges equal variable parts,
// drops cancelled terms and establishes the canonical term order.
func normalize(terms []Monomial) Poly {
	merged := make(map[string]Monomial, len(terms))
	for _, t := range terms {
		sort.Ints(t.Params)
		sort.Ints(t.Unknowns)
		k := t.key()
		if prev, ok := merged[k]; ok {
			prev.Coeff += t.Coeff
			merged[k] = prev
		} else {
			merged[k] = t
		}
	}

	out := make([]Monomial, 0, len(merged))
	for _, t := range merged {
		if cmplx.Abs(t.Coeff) < zeroDrop {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool {
		di, dj := out[i].unknownDegree(), out[j].unknownDegree()
		if di != dj {
			return di < dj
		}

		return out[i].key() < out[j].key()
	})

	return Poly{terms: out}
}

// Add returns p + q.
func (p Poly) Add(q Poly) Poly {
	terms := make([]Monomial, 0, len(p.terms)+len(q.terms))
	terms = append(terms, p.terms...)
	terms = append(terms, q.terms...)

	return normalize(terms)
}

// Sub returns p - q.
func (p Poly) Sub(q Poly) Poly { return p.Add(q.Scale(-1)) }

// Scale returns c·p.
func (p Poly) Scale(c complex128) Poly {
	terms := make([]Monomial, 0, len(p.terms))
	for _, t := range p.terms {
		terms = append(terms, Monomial{
			Coeff:    c * t.Coeff,
			Params:   append([]int(nil), t.Params...),
			Unknowns: append([]int(nil), t.Unknowns...),
		})
	}

	return normalize(terms)
}

// Mul returns p · q (cross product of monomials, then canonical merge).
func (p Poly) Mul(q Poly) Poly {
	terms := make([]Monomial, 0, len(p.terms)*len(q.terms))
	for _, a := range p.terms {
		for _, b := range q.terms {
			terms = append(terms, Monomial{
				Coeff:    a.Coeff * b.Coeff,
				Params:   mergeRefs(a.Params, b.Params),
				Unknowns: mergeRefs(a.Unknowns, b.Unknowns),
			})
		}
	}

	return normalize(terms)
}

func mergeRefs(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)

	return out
}

// RealPart keeps the real part of every coefficient. All parameters and
// unknowns are real-valued, so Re(p) is obtained coefficient-wise.
func (p Poly) RealPart() Poly {
	terms := make([]Monomial, 0, len(p.terms))
	for _, t := range p.terms {
		terms = append(terms, Monomial{
			Coeff:    complex(real(t.Coeff), 0),
			Params:   append([]int(nil), t.Params...),
			Unknowns: append([]int(nil), t.Unknowns...),
		})
	}

	return normalize(terms)
}

// ImagPart keeps the imaginary part of every coefficient.
func (p Poly) ImagPart() Poly {
	terms := make([]Monomial, 0, len(p.terms))
	for _, t := range p.terms {
		terms = append(terms, Monomial{
			Coeff:    complex(imag(t.Coeff), 0),
			Params:   append([]int(nil), t.Params...),
			Unknowns: append([]int(nil), t.Unknowns...),
		})
	}

	return normalize(terms)
}

// Eval substitutes numeric values for every parameter and unknown.
// Used by tests and invariant checks; the hot numeric path goes through
// the compiled affine form instead.
func (p Poly) Eval(params, unknowns []float64) complex128 {
	var sum complex128
	for _, t := range p.terms {
		v := t.Coeff
		for _, id := range t.Params {
			v *= complex(params[id], 0)
		}
		for _, id := range t.Unknowns {
			v *= complex(unknowns[id], 0)
		}
		sum += v
	}

	return sum
}

// Canon lowers an expression tree to its canonical polynomial form.
//
// Complexity: O(product of subtree sizes) in the worst case; the Lindblad
// assembly only ever multiplies affine factors, keeping this linear-ish.
func Canon(e *Expr) Poly {
	if e == nil {
		return Poly{}
	}
	switch e.kind {
	case KindConst:
		if e.c == 0 {
			return Poly{}
		}

		return normalize([]Monomial{{Coeff: e.c}})
	case KindParam:
		return normalize([]Monomial{{Coeff: 1, Params: []int{e.ref}}})
	case KindUnknown:
		return normalize([]Monomial{{Coeff: 1, Unknowns: []int{e.ref}}})
	case KindSum:
		acc := Poly{}
		for _, a := range e.args {
			acc = acc.Add(Canon(a))
		}

		return acc
	case KindProduct:
		acc := normalize([]Monomial{{Coeff: 1}})
		for _, a := range e.args {
			acc = acc.Mul(Canon(a))
			if acc.IsZero() {
				return acc
			}
		}

		return acc
	default:
		// Unreachable with the fixed node set.
		return Poly{}
	}
}
