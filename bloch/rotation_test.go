package bloch_test

import (
	"math"
	"math/cmplx"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qoptix/bloch/atom"
	"github.com/qoptix/bloch/bloch"
)

// fManifoldModel builds an F=0 ground state below a degenerate F=1
// manifold ordered M = 1, 0, -1, the grouping RotateDensityMatrix wants.
func fManifoldModel(t *testing.T) *atom.Model {
	t.Helper()
	m, err := atom.New(
		[]atom.State{
			{Label: "g", F: 0, M: 0, Energy: 0},
			{Label: "e+", F: 1, M: 1, Energy: 2.4e15},
			{Label: "e0", F: 1, M: 0, Energy: 2.4e15},
			{Label: "e-", F: 1, M: -1, Energy: 2.4e15},
		},
		nil,
	)
	require.NoError(t, err)

	return m
}

// TestWignerDSmall_EdmondsTables pins d^J(π/2) for J = 1/2 and J = 1
// against the tabulated closed forms.
func TestWignerDSmall_EdmondsTables(t *testing.T) {
	s2 := math.Sqrt2 / 2

	d := bloch.WignerDSmall(1, math.Pi/2)
	want := [][]float64{{s2, s2}, {-s2, s2}}
	for i := range want {
		for j := range want[i] {
			assert.InDelta(t, want[i][j], d[i][j], 1e-12, "J=1/2 d[%d][%d]", i, j)
		}
	}

	d = bloch.WignerDSmall(2, math.Pi/2)
	want = [][]float64{
		{0.5, s2, 0.5},
		{-s2, 0, s2},
		{0.5, -s2, 0.5},
	}
	for i := range want {
		for j := range want[i] {
			assert.InDelta(t, want[i][j], d[i][j], 1e-12, "J=1 d[%d][%d]", i, j)
		}
	}
}

// TestWignerD_Unitary checks D·D† = 1 for J = 3/2 at generic angles.
func TestWignerD_Unitary(t *testing.T) {
	D := bloch.WignerD(3, 0.3, 1.1, -0.7)
	require.Len(t, D, 4)

	for i := range D {
		for j := range D {
			var v complex128
			for k := range D {
				v += D[i][k] * cmplx.Conj(D[j][k])
			}
			want := complex128(0)
			if i == j {
				want = 1
			}
			assert.InDelta(t, real(want), real(v), 1e-12, "Re (D·D†)[%d][%d]", i, j)
			assert.InDelta(t, imag(want), imag(v), 1e-12, "Im (D·D†)[%d][%d]", i, j)
		}
	}
}

// TestRotateDensityMatrix_StretchedState rotates the stretched
// |F=1, M=1⟩ population by β = π/2 and checks the redistribution onto
// |d^1_{M,1}|² = (1/4, 1/2, 1/4), with the F=0 block untouched.
func TestRotateDensityMatrix_StretchedState(t *testing.T) {
	m := fManifoldModel(t)

	rho := make([][]complex128, 4)
	for i := range rho {
		rho[i] = make([]complex128, 4)
	}
	rho[0][0] = 0.3
	rho[1][1] = 0.7

	out, err := bloch.RotateDensityMatrix(m, rho, 0, math.Pi/2, 0)
	require.NoError(t, err)

	assert.InDelta(t, 0.3, real(out[0][0]), 1e-12, "F=0 block is a scalar phase")
	assert.InDelta(t, 0.7/4, real(out[1][1]), 1e-12)
	assert.InDelta(t, 0.7/2, real(out[2][2]), 1e-12)
	assert.InDelta(t, 0.7/4, real(out[3][3]), 1e-12)

	var tr complex128
	for i := range out {
		tr += out[i][i]
		for j := range out {
			assert.InDelta(t, real(out[i][j]), real(cmplx.Conj(out[j][i])), 1e-12, "Hermiticity")
			assert.InDelta(t, imag(out[i][j]), -imag(out[j][i]), 1e-12, "Hermiticity")
		}
	}
	assert.InDelta(t, 1.0, real(tr), 1e-12, "rotation preserves the trace")
	assert.InDelta(t, 0.0, imag(tr), 1e-12)
}

// TestRotateDensityMatrix_IdentityAngles checks that zero Euler angles
// leave the density matrix unchanged, coherences included.
func TestRotateDensityMatrix_IdentityAngles(t *testing.T) {
	m := fManifoldModel(t)

	rho := make([][]complex128, 4)
	for i := range rho {
		rho[i] = make([]complex128, 4)
	}
	rho[0][0], rho[1][1], rho[2][2], rho[3][3] = 0.4, 0.3, 0.2, 0.1
	rho[2][1] = complex(0.05, -0.02)
	rho[1][2] = cmplx.Conj(rho[2][1])

	out, err := bloch.RotateDensityMatrix(m, rho, 0, 0, 0)
	require.NoError(t, err)
	for i := range rho {
		for j := range rho {
			assert.InDelta(t, real(rho[i][j]), real(out[i][j]), 1e-12, "[%d][%d]", i, j)
			assert.InDelta(t, imag(rho[i][j]), imag(out[i][j]), 1e-12, "[%d][%d]", i, j)
		}
	}
}

// TestRotateDensityMatrix_Rejections covers the manifold grouping and
// size guards.
func TestRotateDensityMatrix_Rejections(t *testing.T) {
	m := fManifoldModel(t)
	_, err := bloch.RotateDensityMatrix(m, make([][]complex128, 2), 0, 0, 0)
	assert.ErrorIs(t, err, bloch.ErrConfig, "size mismatch must be rejected")

	truncated, err := atom.New(
		[]atom.State{
			{Label: "g", F: 0, M: 0, Energy: 0},
			{Label: "e+", F: 1, M: 1, Energy: 2.4e15},
		},
		nil,
	)
	require.NoError(t, err)
	_, err = bloch.RotateDensityMatrix(truncated, make([][]complex128, 2), 0, 0, 0)
	assert.ErrorIs(t, err, bloch.ErrConfig, "partial F manifold must be rejected")

	ascending, err := atom.New(
		[]atom.State{
			{Label: "g", F: 0, M: 0, Energy: 0},
			{Label: "e-", F: 1, M: -1, Energy: 2.4e15},
			{Label: "e0", F: 1, M: 0, Energy: 2.4e15},
			{Label: "e+", F: 1, M: 1, Energy: 2.4e15},
		},
		nil,
	)
	require.NoError(t, err)
	_, err = bloch.RotateDensityMatrix(ascending, make([][]complex128, 4), 0, 0, 0)
	assert.ErrorIs(t, err, bloch.ErrConfig, "M must descend within a manifold")
}
