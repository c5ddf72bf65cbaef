// Package channel implements the Fiat-Shamir transcript shared by the FRI
// prover and verifier: both sides derive every challenge (query indices,
// the folding evaluation point) from the same notion of "the current
// round's root," advanced one call at a time, instead of re-deriving byte
// windows ad hoc at each call site with no shared discipline.
//
// Advance does not hash its input further: the folding evaluation point
// is derived from the literal first 8 bytes of a round's root, and query
// indices are derived from the literal root bytes, so Channel holds the
// current root verbatim and lets prover and verifier share one
// implementation of "which root" rather than each re-deriving it.
package channel

import (
	"fmt"

	"github.com/vybium/goldilocks-fri/internal/field"
	"github.com/vybium/goldilocks-fri/internal/merkle"
	"github.com/vybium/goldilocks-fri/internal/prand"
)

// Channel tracks the current round's root for Fiat-Shamir derivation.
type Channel struct {
	hasher merkle.Hasher
	root   []byte
}

// New creates a Channel holding the initial root (the commitment to the
// first FRI layer, or — for a non-terminal round's verifier side — the
// previous round's output root).
func New(hasher merkle.Hasher, root []byte) *Channel {
	return &Channel{hasher: hasher, root: append([]byte(nil), root...)}
}

// Advance replaces the transcript's current root with newRoot, so later
// challenges are derived from newRoot rather than a stale earlier root.
// Package fri does not call it: it constructs a new Channel from each
// root it derives challenges from.
func (c *Channel) Advance(newRoot []byte) {
	c.root = append([]byte(nil), newRoot...)
}

// Root returns the current root bytes.
func (c *Channel) Root() []byte {
	return append([]byte(nil), c.root...)
}

// ReceiveChallenge derives x*: the Goldilocks field element encoded by the
// first 8 bytes (big-endian) of the current root.
func (c *Channel) ReceiveChallenge() field.Element {
	return field.FromBytes(c.root[:8])
}

// ReceiveIndices derives count pseudorandom indices in [0, modulus),
// optionally excluding every multiple of excludeMultiplesOf, seeded from
// the current root via prand.Indices.
func (c *Channel) ReceiveIndices(modulus uint64, count int, excludeMultiplesOf uint64) ([]uint64, error) {
	indices, err := prand.Indices(c.hasher, c.root, modulus, count, excludeMultiplesOf)
	if err != nil {
		return nil, fmt.Errorf("channel: deriving indices: %w", err)
	}
	return indices, nil
}
