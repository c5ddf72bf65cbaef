package channel

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vybium/goldilocks-fri/internal/field"
	"github.com/vybium/goldilocks-fri/internal/merkle"
	"github.com/vybium/goldilocks-fri/internal/prand"
)

func root32(b byte) []byte {
	r := make([]byte, 32)
	for i := range r {
		r[i] = b
	}
	return r
}

func TestReceiveChallengeMatchesRawRootBytes(t *testing.T) {
	r := root32(0x11)
	c := New(merkle.SHA256, r)
	require.True(t, c.ReceiveChallenge().Equal(field.FromBytes(r[:8])))
}

func TestAdvanceChangesChallenge(t *testing.T) {
	c := New(merkle.SHA256, root32(0x01))
	first := c.ReceiveChallenge()
	c.Advance(root32(0x02))
	second := c.ReceiveChallenge()
	require.False(t, first.Equal(second))
}

func TestReceiveIndicesMatchesDirectPrandCall(t *testing.T) {
	r := root32(0xAB)
	c := New(merkle.SHA256, r)
	viaChannel, err := c.ReceiveIndices(64, 20, 8)
	require.NoError(t, err)

	direct, err := prand.Indices(merkle.SHA256, r, 64, 20, 8)
	require.NoError(t, err)
	require.Equal(t, direct, viaChannel)
}

func TestReceiveIndicesPropagatesInvalidInput(t *testing.T) {
	c := New(merkle.SHA256, root32(0xFF))
	// Excluding every multiple of 1 leaves no index to draw.
	_, err := c.ReceiveIndices(10, 5, 1)
	require.ErrorIs(t, err, prand.ErrInvalidInput)
}
