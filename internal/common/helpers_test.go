package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLamportsToSOL(t *testing.T) {
	assert.Equal(t, "0.024981836", LamportsToSOL(24981836))
	assert.Equal(t, "1.000000000", LamportsToSOL(1_000_000_000))
	assert.Equal(t, "0.000000000", LamportsToSOL(0))
	assert.Equal(t, "5.010000000", LamportsToSOL(5_010_000_000))
}

func TestSOLToLamports(t *testing.T) {
	n, err := SOLToLamports("0.024981836")
	require.NoError(t, err)
	assert.EqualValues(t, 24981836, n)

	n, err = SOLToLamports("2")
	require.NoError(t, err)
	assert.EqualValues(t, 2_000_000_000, n)

	n, err = SOLToLamports("0.5")
	require.NoError(t, err)
	assert.EqualValues(t, 500_000_000, n)
}

func TestSOLToLamportsInvalid(t *testing.T) {
	for _, s := range []string{"", "1.2.3", "abc"} {
		_, err := SOLToLamports(s)
		assert.Error(t, err, "input %q", s)
	}
}
