package expr

import "errors"

// Sentinel errors for symbolic lowering.
var (
	// ErrNonAffine indicates a polynomial holds a monomial with two or more
	// unknown factors, so the system is not affine in the unknowns.
	ErrNonAffine = errors.New("expr: system is not affine in the unknowns")

	// ErrComplexCoefficient indicates an affine coefficient kept a non-real
	// part after the real/imaginary split of the equations.
	ErrComplexCoefficient = errors.New("expr: affine coefficient is not real")

	// ErrBadRef indicates a negative parameter or unknown reference.
	ErrBadRef = errors.New("expr: negative symbol reference")
)

// Kind discriminates the node variants of an expression tree.
type Kind uint8

const (
	// KindConst is a complex literal.
	KindConst Kind = iota
	// KindParam references a real numeric parameter by index.
	KindParam
	// KindUnknown references a real unknown by index.
	KindUnknown
	// KindSum is n-ary addition over its children.
	KindSum
	// KindProduct is n-ary multiplication over its children.
	KindProduct
)

// Expr is an immutable node of a symbolic expression tree.
// Build trees with the constructors below; the zero value is the constant 0.
type Expr struct {
	kind Kind
	c    complex128 // KindConst payload
	ref  int        // KindParam / KindUnknown payload
	args []*Expr    // KindSum / KindProduct children
}

// Kind reports the node variant.
func (e *Expr) Kind() Kind { return e.kind }

// Const returns a complex constant node.
func Const(c complex128) *Expr { return &Expr{kind: KindConst, c: c} }

// Real returns a real constant node.
func Real(v float64) *Expr { return Const(complex(v, 0)) }

// Zero returns the zero constant. Matrix builders use it for empty cells.
func Zero() *Expr { return Const(0) }

// One returns the unit constant.
func One() *Expr { return Const(1) }

// Param returns a reference to the numeric parameter with index id.
// Panics on a negative id (programmer error, same policy as invalid options
// elsewhere in this module).
func Param(id int) *Expr {
	if id < 0 {
		panic(ErrBadRef)
	}

	return &Expr{kind: KindParam, ref: id}
}

// Unknown returns a reference to the real unknown with index id.
// Panics on a negative id.
func Unknown(id int) *Expr {
	if id < 0 {
		panic(ErrBadRef)
	}

	return &Expr{kind: KindUnknown, ref: id}
}

// Add returns the sum of xs. Add() is the zero constant; Add(x) is x.
func Add(xs ...*Expr) *Expr {
	switch len(xs) {
	case 0:
		return Zero()
	case 1:
		return xs[0]
	}

	return &Expr{kind: KindSum, args: xs}
}

// Mul returns the product of xs. Mul() is the unit constant; Mul(x) is x.
func Mul(xs ...*Expr) *Expr {
	switch len(xs) {
	case 0:
		return One()
	case 1:
		return xs[0]
	}

	return &Expr{kind: KindProduct, args: xs}
}

// Neg returns -x.
func Neg(x *Expr) *Expr { return Mul(Const(-1), x) }

// Sub returns x - y.
func Sub(x, y *Expr) *Expr { return Add(x, Neg(y)) }

// Scale returns c·x.
func Scale(c complex128, x *Expr) *Expr { return Mul(Const(c), x) }
