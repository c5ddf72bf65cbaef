package fri

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vybium/goldilocks-fri/internal/field"
	"github.com/vybium/goldilocks-fri/internal/merkle"
)

func repeatedValues() []field.Element {
	base := []uint64{1, 2, 3, 4, 5, 6, 7, 8}
	values := make([]field.Element, 0, 32)
	for rep := 0; rep < 4; rep++ {
		for _, v := range base {
			values = append(values, field.New(v))
		}
	}
	return values
}

func initialRoot(t *testing.T, values []field.Element) []byte {
	t.Helper()
	root, err := merkle.Merkelize(merkle.SHA256, encodeLeaves(values))
	require.NoError(t, err)
	return root
}

// End-to-end scenario: values = [1..8] repeated 4x (length 32), omega the
// 32nd root of unity, maxdeg_plus_1 = 32 when proving, exclude = 7.
// The resulting proof must verify when re-checked against maxdeg_plus_1 = 12.
func TestEndToEndProveAndVerify(t *testing.T) {
	values := repeatedValues()
	omega := field.NthRootOfUnity(32)

	proof, err := Prove(values, omega, 32, 7)
	require.NoError(t, err)
	require.NotEmpty(t, proof.Components)
	require.True(t, proof.Components[len(proof.Components)-1].Terminal)

	root := initialRoot(t, values)
	ok, err := Verify(root, omega, proof, 12, 7)
	require.NoError(t, err)
	require.True(t, ok)
}

func TestVerifyRejectsTamperedRoot(t *testing.T) {
	values := repeatedValues()
	omega := field.NthRootOfUnity(32)

	proof, err := Prove(values, omega, 32, 7)
	require.NoError(t, err)

	root := initialRoot(t, values)
	root[0] ^= 0xFF

	ok, err := Verify(root, omega, proof, 12, 7)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyRejectsTamperedComponentRoot(t *testing.T) {
	values := repeatedValues()
	omega := field.NthRootOfUnity(32)

	proof, err := Prove(values, omega, 32, 7)
	require.NoError(t, err)
	require.NotEmpty(t, proof.Components)

	proof.Components[0].Root[0] ^= 0xFF

	root := initialRoot(t, values)
	ok, err := Verify(root, omega, proof, 12, 7)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyRejectsTamperedTerminalValue(t *testing.T) {
	values := repeatedValues()
	omega := field.NthRootOfUnity(32)

	proof, err := Prove(values, omega, 32, 7)
	require.NoError(t, err)

	last := &proof.Components[len(proof.Components)-1]
	require.True(t, last.Terminal)
	last.Values[0] = last.Values[0].Add(field.New(1))

	root := initialRoot(t, values)
	ok, err := Verify(root, omega, proof, 12, 7)
	require.NoError(t, err)
	require.False(t, ok)
}

func TestVerifyRejectsNilProof(t *testing.T) {
	omega := field.NthRootOfUnity(32)
	_, err := Verify(make([]byte, 32), omega, nil, 12, 7)
	require.ErrorIs(t, err, ErrProofInvalid)
}

func TestProveRejectsNonPowerOfTwoLength(t *testing.T) {
	values := []field.Element{field.New(1), field.New(2), field.New(3)}
	omega := field.NthRootOfUnity(32)
	_, err := Prove(values, omega, 32, 7)
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestProveBaseCaseReturnsTerminalImmediately(t *testing.T) {
	values := make([]field.Element, 8)
	for i := range values {
		values[i] = field.New(uint64(i + 1))
	}
	omega := field.NthRootOfUnity(8)
	proof, err := Prove(values, omega, 16, 0)
	require.NoError(t, err)
	require.Len(t, proof.Components, 1)
	require.True(t, proof.Components[0].Terminal)
	require.Equal(t, values, proof.Components[0].Values)
}
