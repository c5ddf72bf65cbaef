// Package prand derives deterministic, Fiat-Shamir-style pseudorandom
// indices from a Merkle-root seed, with optional exclusion of every
// multiple of a given divisor — used by FRI to pick query positions
// without letting the prover bias the sample.
package prand

import (
	"fmt"

	"github.com/holiman/uint256"

	"github.com/vybium/goldilocks-fri/internal/merkle"
)

// ErrInvalidInput flags a shrunk-modulus computation that yields zero (no
// index can be drawn, e.g. excludeMultiplesOf = 1) or would overflow 64
// bits.
var ErrInvalidInput = fmt.Errorf("prand: invalid input")

const windowSize = 32

// Indices extends seed by repeatedly hashing its most-recent windowSize-byte
// window (or the whole buffer if shorter) and appending the digest, until
// at least 8*count bytes are available, then parses successive 8-byte
// big-endian windows as indices in [0, modulus).
//
// If excludeMultiplesOf is 0, each index is simply word mod modulus. Else
// the sampled range is shrunk to m' = modulus*(e-1)/e (integer division)
// and the transform x -> x + 1 + x/(e-1) skips every e-th index, so no
// returned index is ever a multiple of e.
func Indices(hasher merkle.Hasher, seed []byte, modulus uint64, count int, excludeMultiplesOf uint64) ([]uint64, error) {
	data := append([]byte(nil), seed...)
	for len(data) < 8*count {
		start := 0
		if len(data) > windowSize {
			start = len(data) - windowSize
		}
		data = append(data, hasher.Sum(data[start:])...)
	}

	out := make([]uint64, count)
	if excludeMultiplesOf == 0 {
		for i := 0; i < count; i++ {
			out[i] = beUint64(data[i*8:(i+1)*8]) % modulus
		}
		return out, nil
	}

	realModulus, err := shrunkModulus(modulus, excludeMultiplesOf)
	if err != nil {
		return nil, err
	}
	for i := 0; i < count; i++ {
		x := beUint64(data[i*8:(i+1)*8]) % realModulus
		out[i] = x + 1 + x/(excludeMultiplesOf-1)
	}
	return out, nil
}

// shrunkModulus computes modulus*(e-1)/e, guarding the intermediate
// product against 64-bit overflow via a 256-bit widened multiply-then-
// divide.
func shrunkModulus(modulus, e uint64) (uint64, error) {
	var m, em1, prod, q uint256.Int
	m.SetUint64(modulus)
	em1.SetUint64(e - 1)
	prod.Mul(&m, &em1)
	q.Div(&prod, uint256.NewInt(e))
	if !q.IsUint64() {
		return 0, fmt.Errorf("%w: shrunk modulus overflows 64 bits", ErrInvalidInput)
	}
	if q.IsZero() {
		return 0, fmt.Errorf("%w: shrunk modulus of %d excluding multiples of %d is zero", ErrInvalidInput, modulus, e)
	}
	return q.Uint64(), nil
}

func beUint64(b []byte) uint64 {
	var v uint64
	for _, c := range b {
		v = v<<8 | uint64(c)
	}
	return v
}
