package bloch

import (
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/stat/combin"

	"github.com/qoptix/bloch/atom"
)

// WignerDSmall returns the small Wigner d-matrix d^J(β) for angular
// momentum J = twoJ/2, using the Edmonds closed form. Rows and columns
// run over M = J, J-1, …, -J, so the matrix has 2J+1 rows. twoJ admits
// half-integer momenta without floating-point J arithmetic.
func WignerDSmall(twoJ int, beta float64) [][]float64 {
	if twoJ < 0 {
		panic("bloch: WignerDSmall needs twoJ >= 0")
	}

	size := twoJ + 1
	cosHalf := math.Cos(beta / 2)
	sinHalf := math.Sin(beta / 2)

	d := make([][]float64, size)
	for i := range d {
		d[i] = make([]float64, size)
		twoMi := twoJ - 2*i
		for j := 0; j < size; j++ {
			twoMj := twoJ - 2*j

			// All four of J±M are plain integers, half-integer J or not.
			a := (twoJ + twoMi) / 2
			b := (twoJ - twoMi) / 2
			c := (twoJ + twoMj) / 2
			e := (twoJ - twoMj) / 2

			pre := math.Sqrt(factorial(a) * factorial(b) / factorial(c) / factorial(e))

			var sum float64
			for s := max(0, b-c); s <= min(b, e); s++ {
				sign := 1.0
				if (b-s)%2 == 1 {
					sign = -1
				}
				expCos := 2*s + (twoMi+twoMj)/2
				expSin := twoJ - 2*s - (twoMi+twoMj)/2
				sum += sign *
					float64(combin.Binomial(c, b-s)) *
					float64(combin.Binomial(e, s)) *
					math.Pow(cosHalf, float64(expCos)) *
					math.Pow(sinHalf, float64(expSin))
			}
			d[i][j] = pre * sum
		}
	}

	return d
}

// WignerD returns the full Wigner D-matrix D^J(α, β, γ) with the same
// M = J…-J row/column order as WignerDSmall.
func WignerD(twoJ int, alpha, beta, gamma float64) [][]complex128 {
	d := WignerDSmall(twoJ, beta)
	size := twoJ + 1

	D := make([][]complex128, size)
	for i := range D {
		D[i] = make([]complex128, size)
		mi := float64(twoJ-2*i) / 2
		for j := 0; j < size; j++ {
			mj := float64(twoJ-2*j) / 2
			D[i][j] = cmplx.Exp(complex(0, mi*alpha)) *
				complex(d[i][j], 0) *
				cmplx.Exp(complex(0, mj*gamma))
		}
	}

	return D
}

// RotateDensityMatrix re-expresses rho under a quantization axis rotated
// by the Euler angles (α, β, γ), returning D ρ D†. D is block-diagonal
// over the model's angular-momentum manifolds: states must be grouped so
// that each F manifold occupies 2F+1 consecutive indices with M running
// from F down to -F, matching the WignerD row order.
func RotateDensityMatrix(m *atom.Model, rho [][]complex128, alpha, beta, gamma float64) ([][]complex128, error) {
	n := m.NumStates()
	if len(rho) != n {
		return nil, &ConfigurationError{Coupling: -1, Transition: -1,
			Reason: "density matrix size does not match the model"}
	}

	D := make([][]complex128, n)
	for i := range D {
		D[i] = make([]complex128, n)
	}

	for start := 0; start < n; {
		st := m.State(start)
		twoF := int(math.Round(2 * st.F))
		size := twoF + 1
		if start+size > n {
			return nil, &ConfigurationError{Coupling: -1, Transition: -1,
				Reason: "F manifold runs past the last state"}
		}
		for k := 0; k < size; k++ {
			s := m.State(start + k)
			if s.F != st.F || math.Abs(s.M-(st.F-float64(k))) > 1e-9 {
				return nil, &ConfigurationError{Coupling: -1, Transition: -1,
					Reason: "states are not grouped into F manifolds with M descending"}
			}
		}

		block := WignerD(twoF, alpha, beta, gamma)
		for i := 0; i < size; i++ {
			copy(D[start+i][start:start+size], block[i])
		}
		start += size
	}

	out := make([][]complex128, n)
	for i := range out {
		out[i] = make([]complex128, n)
		for j := 0; j < n; j++ {
			var v complex128
			for k := 0; k < n; k++ {
				for l := 0; l < n; l++ {
					v += D[i][k] * rho[k][l] * cmplx.Conj(D[j][l])
				}
			}
			out[i][j] = v
		}
	}

	return out, nil
}

func factorial(n int) float64 {
	f := 1.0
	for i := 2; i <= n; i++ {
		f *= float64(i)
	}

	return f
}
