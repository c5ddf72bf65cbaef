// Package field implements arithmetic in the Goldilocks prime field
// F_p, p = 2^64 - 2^32 + 1, as used by the FRI prover and verifier.
//
// The modulus is fixed rather than a runtime parameter, so every
// Element is canonicalized to [0, P) and operations never need to carry
// a field descriptor around. Widening multiplication needs more than 64
// bits of headroom; that comes from github.com/holiman/uint256 for the
// hot paths (Add, Mul) and from math/big for the cold extended-Euclidean
// inverse.
package field

import (
	"encoding/binary"
	"fmt"
	"math/big"

	"github.com/holiman/uint256"
)

// P is the Goldilocks prime 2^64 - 2^32 + 1.
const P uint64 = 0xFFFFFFFF00000001

// Generator is a generator of F_p^* (order p-1).
const Generator uint64 = 7

var (
	// ErrNonInvertible is returned by Inv on the zero element.
	ErrNonInvertible = fmt.Errorf("field: zero element has no multiplicative inverse")

	pBig  = new(big.Int).SetUint64(P)
	pU256 = uint256.NewInt(P)
)

// Element is a canonicalized member of F_p: invariant, value < P always.
type Element struct {
	v uint64
}

// New reduces value modulo P and returns the resulting Element.
func New(value uint64) Element {
	return Element{v: value % P}
}

// Zero is the additive identity.
func Zero() Element { return Element{v: 0} }

// One is the multiplicative identity.
func One() Element { return Element{v: 1} }

// Uint64 returns the canonical representative in [0, P).
func (e Element) Uint64() uint64 { return e.v }

// Equal reports value equality.
func (e Element) Equal(other Element) bool { return e.v == other.v }

// IsZero reports whether e is the additive identity.
func (e Element) IsZero() bool { return e.v == 0 }

// String renders the canonical decimal value.
func (e Element) String() string { return fmt.Sprintf("%d", e.v) }

// Bytes returns the 8-byte big-endian canonical encoding.
func (e Element) Bytes() [8]byte {
	var out [8]byte
	binary.BigEndian.PutUint64(out[:], e.v)
	return out
}

// FromBytes decodes an 8-byte big-endian window into a canonicalized
// Element. Fewer than 8 bytes are treated as the low-order bytes of a
// zero-padded 8-byte window.
func FromBytes(b []byte) Element {
	var buf [8]byte
	copy(buf[8-len(b):], b)
	return New(binary.BigEndian.Uint64(buf[:]))
}

// Add returns e + other mod P.
func (e Element) Add(other Element) Element {
	var x, y, s uint256.Int
	x.SetUint64(e.v)
	y.SetUint64(other.v)
	s.AddMod(&x, &y, pU256)
	return Element{v: s.Uint64()}
}

// Sub returns e - other mod P.
func (e Element) Sub(other Element) Element {
	if e.v >= other.v {
		return Element{v: e.v - other.v}
	}
	return Element{v: P - (other.v - e.v)}
}

// Neg returns -e mod P.
func (e Element) Neg() Element {
	if e.v == 0 {
		return e
	}
	return Element{v: P - e.v}
}

// Mul returns e * other mod P, via a widened 256-bit intermediate.
func (e Element) Mul(other Element) Element {
	var x, y, m uint256.Int
	x.SetUint64(e.v)
	y.SetUint64(other.v)
	m.MulMod(&x, &y, pU256)
	return Element{v: m.Uint64()}
}

// Square returns e * e mod P.
func (e Element) Square() Element { return e.Mul(e) }

// Pow computes e^exp mod P by square-and-multiply. exp = 0 returns One().
func (e Element) Pow(exp uint64) Element {
	result := One()
	base := e
	for exp > 0 {
		if exp&1 == 1 {
			result = result.Mul(base)
		}
		base = base.Square()
		exp >>= 1
	}
	return result
}

// Inv computes the multiplicative inverse of e via the extended
// Euclidean algorithm (big.Int-backed GCD). Returns ErrNonInvertible for
// the zero element.
func (e Element) Inv() (Element, error) {
	if e.v == 0 {
		return Element{}, ErrNonInvertible
	}
	a := new(big.Int).SetUint64(e.v)
	gcd, x, _ := new(big.Int), new(big.Int), new(big.Int)
	gcd = gcd.GCD(x, new(big.Int), a, pBig)
	if gcd.Cmp(big.NewInt(1)) != 0 {
		return Element{}, ErrNonInvertible
	}
	x.Mod(x, pBig)
	return Element{v: x.Uint64()}, nil
}

// Div returns e / other (e * other.Inv()).
func (e Element) Div(other Element) (Element, error) {
	inv, err := other.Inv()
	if err != nil {
		return Element{}, fmt.Errorf("field: division failed: %w", err)
	}
	return e.Mul(inv), nil
}

// MultiInv performs Montgomery's batch-inversion trick: one inversion plus
// 3(n-1) multiplications instead of n inversions. Returns ErrNonInvertible
// if any input is zero.
func MultiInv(values []Element) ([]Element, error) {
	n := len(values)
	if n == 0 {
		return nil, nil
	}
	for i, v := range values {
		if v.IsZero() {
			return nil, fmt.Errorf("field: MultiInv: zero element at index %d: %w", i, ErrNonInvertible)
		}
	}

	prefix := make([]Element, n)
	prefix[0] = values[0]
	for i := 1; i < n; i++ {
		prefix[i] = prefix[i-1].Mul(values[i])
	}

	runningInv, err := prefix[n-1].Inv()
	if err != nil {
		return nil, err
	}

	out := make([]Element, n)
	for i := n - 1; i > 0; i-- {
		out[i] = runningInv.Mul(prefix[i-1])
		runningInv = runningInv.Mul(values[i])
	}
	out[0] = runningInv

	return out, nil
}

// NthRootOfUnity returns Generator^((P-1)/n). The caller must ensure n
// divides P-1; otherwise the result is a valid field element but not an
// n-th root of unity.
func NthRootOfUnity(n uint64) Element {
	return New(Generator).Pow((P - 1) / n)
}

// PowerCycle returns [1, r, r^2, ..., r^(k-1)] where k is the
// multiplicative order of r, detected by repeated squaring-free
// multiplication until the cycle returns to One().
func PowerCycle(r Element) []Element {
	cycle := []Element{One()}
	cur := r
	for !cur.Equal(One()) {
		cycle = append(cycle, cur)
		cur = cur.Mul(r)
	}
	return cycle
}

// MultiplicativeOrder returns the smallest k > 0 such that r^k = 1.
func MultiplicativeOrder(r Element) uint64 {
	order := uint64(1)
	cur := r
	for !cur.Equal(One()) {
		cur = cur.Mul(r)
		order++
	}
	return order
}

// PowerSequence returns exactly n powers [1, r, r^2, ..., r^(n-1)] without
// detecting the cycle length, for callers (FRI) that already know r has
// order >= n.
func PowerSequence(r Element, n int) []Element {
	out := make([]Element, n)
	cur := One()
	for i := 0; i < n; i++ {
		out[i] = cur
		if i+1 < n {
			cur = cur.Mul(r)
		}
	}
	return out
}
