// Package merkle implements the flat-array binary Merkle tree used to
// commit to FRI evaluation vectors and to authenticate individual query
// positions against a root.
//
// The array layout is 1-based with slot 0 unused and leaves occupying
// the upper half: node i's children live at 2i and 2i+1, so no
// rebalancing logic is needed as long as the leaf count is a power of
// two, which New enforces.
package merkle

import (
	"bytes"
	"fmt"
)

// ErrInvalidInput flags malformed tree construction or query requests.
var ErrInvalidInput = fmt.Errorf("merkle: invalid input")

// Hasher is the 256-bit compression function used to combine sibling
// nodes. The default implementation is SHA-256; callers can supply a
// different Hasher to the transcript layer (see package channel) without
// changing the tree or branch logic.
type Hasher interface {
	Sum(data []byte) []byte
}

// Tree is a binary Merkle tree over n = len(leaves) power-of-two leaves,
// stored as a flat array of length 2n. Slot 0 is unused; slots [n, 2n)
// hold the leaves verbatim (not re-hashed); slots [1, n) hold internal
// digests with node[i] = H(node[2i] || node[2i+1]).
type Tree struct {
	hasher Hasher
	nodes  [][]byte
	n      int
}

// New builds a Tree from leaves. len(leaves) must be a power of two and
// at least 1.
func New(hasher Hasher, leaves [][]byte) (*Tree, error) {
	n := len(leaves)
	if n == 0 || (n&(n-1)) != 0 {
		return nil, fmt.Errorf("%w: leaf count %d is not a positive power of two", ErrInvalidInput, n)
	}

	nodes := make([][]byte, 2*n)
	for i, leaf := range leaves {
		nodes[n+i] = append([]byte(nil), leaf...)
	}
	for i := n - 1; i >= 1; i-- {
		nodes[i] = hasher.Sum(append(append([]byte(nil), nodes[2*i]...), nodes[2*i+1]...))
	}

	return &Tree{hasher: hasher, nodes: nodes, n: n}, nil
}

// Root returns node[1], the tree's commitment.
func (t *Tree) Root() []byte {
	return t.nodes[1]
}

// Len returns the number of leaves.
func (t *Tree) Len() int { return t.n }

// Branch returns (leaf, sibling_0, ..., sibling_{k-1}) for leaf index, with
// k = log2(n) and sibling_i the co-node of the ancestor at depth k-i.
func (t *Tree) Branch(index int) ([][]byte, error) {
	if index < 0 || index >= t.n {
		return nil, fmt.Errorf("%w: leaf index %d out of range [0, %d)", ErrInvalidInput, index, t.n)
	}

	idx := index + t.n
	branch := [][]byte{t.nodes[idx]}
	for idx > 1 {
		if idx&1 == 1 {
			branch = append(branch, t.nodes[idx-1])
		} else {
			branch = append(branch, t.nodes[idx+1])
		}
		idx /= 2
	}
	return branch, nil
}

// VerifyBranch reconstructs the path from branch up to the root and
// reports whether it matches root. It never panics on adversarial input:
// a malformed branch length or hash mismatch simply returns false.
func VerifyBranch(hasher Hasher, root []byte, index int, branch [][]byte) bool {
	if len(branch) == 0 {
		return false
	}

	current := branch[0]
	for i, sibling := range branch[1:] {
		if index&(1<<uint(i)) == 0 {
			current = hasher.Sum(append(append([]byte(nil), current...), sibling...))
		} else {
			current = hasher.Sum(append(append([]byte(nil), sibling...), current...))
		}
	}
	return bytes.Equal(current, root)
}

// LeafValue returns the authenticated leaf carried as branch[0] — correct
// only under the convention, pinned here, that Branch places the leaf at
// index 0.
func LeafValue(branch [][]byte) []byte {
	if len(branch) == 0 {
		return nil
	}
	return branch[0]
}

// Merkelize is a convenience wrapper returning just the root for callers
// that don't need branches (e.g. the FRI terminal check).
func Merkelize(hasher Hasher, leaves [][]byte) ([]byte, error) {
	t, err := New(hasher, leaves)
	if err != nil {
		return nil, err
	}
	return t.Root(), nil
}
