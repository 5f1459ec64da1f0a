package field_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/qoptix/bloch/field"
)

// TestParsePolarization accepts both spelling families and rejects the rest.
func TestParsePolarization(t *testing.T) {
	cases := map[string]field.Polarization{
		"sigma-":      field.SigmaMinus,
		"sigma_minus": field.SigmaMinus,
		"pi":          field.Pi,
		"sigma+":      field.SigmaPlus,
		"sigma_plus":  field.SigmaPlus,
	}
	for in, want := range cases {
		got, err := field.ParsePolarization(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	_, err := field.ParsePolarization("circular")
	assert.ErrorIs(t, err, field.ErrBadPolarization)
}

// TestPolarization_Q pins the helicity mapping the selection rule uses.
func TestPolarization_Q(t *testing.T) {
	assert.Equal(t, -1, field.SigmaMinus.Q())
	assert.Equal(t, 0, field.Pi.Q())
	assert.Equal(t, +1, field.SigmaPlus.Q())
}

// TestParamLayout pins the deterministic parameter indexing: detuning at
// 2k, Rabi magnitude at 2k+1.
func TestParamLayout(t *testing.T) {
	couplings := make([]field.Coupling, 3)
	assert.Equal(t, 6, field.NumParams(couplings))
	for k := 0; k < 3; k++ {
		assert.Equal(t, 2*k, field.DetuningIndex(k))
		assert.Equal(t, 2*k+1, field.RabiIndex(k))
	}
}

// TestDopplerShift verifies the -k·v shift per coupling, sign sensitivity
// to propagation direction, and that the input slice is left untouched.
func TestDopplerShift(t *testing.T) {
	couplings := []field.Coupling{
		{Wavevector: 2.0},
		{Wavevector: -2.0},
	}
	params := []float64{10, 1, 20, 1}

	out := field.DopplerShift(params, couplings, 3)
	assert.Equal(t, []float64{10 - 6, 1, 20 + 6, 1}, out)
	assert.Equal(t, []float64{10, 1, 20, 1}, params, "input params must not be mutated")

	// Zero velocity is the identity.
	assert.Equal(t, params, field.DopplerShift(params, couplings, 0))
}
