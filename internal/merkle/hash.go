package merkle

import (
	"crypto/sha256"

	"golang.org/x/crypto/sha3"
)

type sha256Hasher struct{}

func (sha256Hasher) Sum(data []byte) []byte {
	h := sha256.Sum256(data)
	return h[:]
}

type sha3Hasher struct{}

func (sha3Hasher) Sum(data []byte) []byte {
	h := sha3.Sum256(data)
	return h[:]
}

// SHA256 is the default Hasher used for every Merkle tree and
// pseudorandom-index derivation.
var SHA256 Hasher = sha256Hasher{}

// SHA3 is a second Hasher backend, exercised by merkle_test.go to show
// the tree and branch logic are hash-agnostic.
var SHA3 Hasher = sha3Hasher{}
