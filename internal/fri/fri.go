// Package fri implements the FRI (Fast Reed-Solomon Interactive Oracle
// Proof of Proximity) low-degree prover and verifier: the recursive
// 4-to-1 folding protocol that certifies a committed evaluation vector is
// close to a polynomial of some declared degree bound.
//
// Each round interpolates 4-point rows, folds them into a column at a
// Fiat-Shamir-derived evaluation point, commits the column, and recurses
// with ω -> ω^4 and maxdeg_plus_1 -> maxdeg_plus_1/4 until the degree
// bound drops to FoldStopThreshold, at which point the round emits the
// raw codeword instead of folding further. All exported entry points
// return errors rather than panicking on malformed input.
package fri

import (
	"errors"

	"github.com/vybium/goldilocks-fri/internal/channel"
	"github.com/vybium/goldilocks-fri/internal/field"
	"github.com/vybium/goldilocks-fri/internal/merkle"
	"github.com/vybium/goldilocks-fri/internal/poly"
)

// QueryCount is the number of pseudorandom query indices sampled per
// round, trading proof size against soundness error.
const QueryCount = 40

// FoldStopThreshold is the maxdeg_plus_1 value at or below which folding
// stops and the round emits the raw codeword instead of recursing.
const FoldStopThreshold = 16

var (
	// ErrInvalidInput flags malformed prover input: a value vector whose
	// length is not a positive power of two, a zero degree bound, or a
	// folded vector whose length is not divisible by 4. The order of the
	// root of unity is not checked.
	ErrInvalidInput = errors.New("fri: invalid input")

	// ErrProofInvalid is returned by Verify's error return only for
	// structurally malformed proofs (a nil proof, or a proof with no
	// components) that cannot even be evaluated as
	// "rejected" vs "accepted" — an adversarial but well-formed failure
	// is reported as (false, nil), never as this error.
	ErrProofInvalid = errors.New("fri: malformed proof")
)

// Component is one round of FRI proof data. A non-terminal component
// carries the folded column's Merkle root plus, for each of the round's
// QueryCount queries, a branch authenticating the queried column value and
// four branches authenticating the corresponding pre-image positions in
// the prior level. A terminal component instead carries the final
// unfolded codeword directly.
type Component struct {
	Terminal bool

	Root             []byte
	ColumnBranches   [][][]byte
	PreimageBranches [][4][][]byte

	Values []field.Element
}

// Proof is an ordered sequence of Components, the last of which is always
// Terminal.
type Proof struct {
	Components []Component
}

func encodeLeaves(values []field.Element) [][]byte {
	leaves := make([][]byte, len(values))
	for i, v := range values {
		b := v.Bytes()
		leaves[i] = b[:]
	}
	return leaves
}

func isPowerOfTwo(n int) bool {
	return n > 0 && n&(n-1) == 0
}

func newChannelFromRoot(root []byte) *channel.Channel {
	return channel.New(merkle.SHA256, root)
}

func fourthRootsOfUnity(rootOfUnity field.Element, order uint64) [4]field.Element {
	quarter := order / 4
	return [4]field.Element{
		field.One(),
		rootOfUnity.Pow(quarter),
		rootOfUnity.Pow(2 * quarter),
		rootOfUnity.Pow(3 * quarter),
	}
}
