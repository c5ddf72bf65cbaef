package prand

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vybium/goldilocks-fri/internal/merkle"
)

func TestIndicesWithoutExclusionStayInRange(t *testing.T) {
	indices, err := Indices(merkle.SHA256, []byte("seed"), 1000, 50, 0)
	require.NoError(t, err)
	require.Len(t, indices, 50)
	for _, idx := range indices {
		require.Less(t, idx, uint64(1000))
	}
}

func TestIndicesExcludesMultiples(t *testing.T) {
	indices, err := Indices(merkle.SHA256, []byte("another-seed"), 64, 40, 8)
	require.NoError(t, err)
	require.Len(t, indices, 40)
	for _, idx := range indices {
		require.Less(t, idx, uint64(64))
		require.NotZero(t, idx%8)
	}
}

func TestIndicesDeterministic(t *testing.T) {
	a, err := Indices(merkle.SHA256, []byte("fixed-seed"), 256, 10, 3)
	require.NoError(t, err)
	b, err := Indices(merkle.SHA256, []byte("fixed-seed"), 256, 10, 3)
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestIndicesAcceptsModulusNotDivisibleByExclusion(t *testing.T) {
	// modulus need not be a multiple of excludeMultiplesOf; this is the
	// exact (q=8, exclude=7) shape FRI's folding rounds hit.
	indices, err := Indices(merkle.SHA256, []byte("seed"), 8, 5, 7)
	require.NoError(t, err)
	require.Len(t, indices, 5)
	for _, idx := range indices {
		require.NotZero(t, idx%7)
	}
}

func TestIndicesExtendsSeedBeyondWindow(t *testing.T) {
	// count large enough that 8*count exceeds the 32-byte window, forcing
	// at least one repeated-hash extension.
	indices, err := Indices(merkle.SHA256, []byte("short"), 999983, 40, 0)
	require.NoError(t, err)
	require.Len(t, indices, 40)
}

func TestShrunkModulusMatchesDirectArithmetic(t *testing.T) {
	got, err := shrunkModulus(64, 8)
	require.NoError(t, err)
	require.Equal(t, uint64(64*7/8), got)
}
