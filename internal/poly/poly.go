// Package poly implements dense coefficient-form polynomials over the
// Goldilocks field: arithmetic, point evaluation, Lagrange interpolation,
// and a radix-2 FFT/IFFT pair over a supplied root of unity.
//
// Polynomial is a plain, dynamically sized coefficient slice rather than
// a fixed-capacity array, so its length grows with whatever
// multiplication or interpolation produces. Callers that need a degree
// ceiling enforce it explicitly via MulCapped, which reports
// ErrCapacityExceeded instead of silently truncating nonzero terms.
package poly

import (
	"fmt"

	"github.com/vybium/goldilocks-fri/internal/field"
)

// ErrDuplicateAbscissa is returned by LagrangeInterpolate when two input
// x-coordinates coincide.
var ErrDuplicateAbscissa = fmt.Errorf("poly: duplicate x-coordinate in interpolation points")

// ErrCapacityExceeded is returned by MulCapped when the true product
// degree would exceed the caller-supplied capacity with nonzero
// coefficients beyond it.
var ErrCapacityExceeded = fmt.Errorf("poly: multiplication result exceeds capacity")

// ErrInvalidInput flags malformed arguments (e.g. FFT on a non-power-of-two
// length, or mismatched interpolation point counts).
var ErrInvalidInput = fmt.Errorf("poly: invalid input")

// Polynomial is a dense coefficient sequence (a_0, a_1, ..., a_{n-1}):
// Eval(x) = sum a_i * x^i. Trailing zero coefficients are legal and do not
// need to be trimmed; Degree accounts for them.
type Polynomial []field.Element

// Degree returns the highest index with a nonzero coefficient, or -1 for
// the all-zero (or empty) polynomial.
func (p Polynomial) Degree() int {
	for i := len(p) - 1; i >= 0; i-- {
		if !p[i].IsZero() {
			return i
		}
	}
	return -1
}

// Coefficient returns the coefficient of the given degree, or zero if
// degree is outside the stored range.
func (p Polynomial) Coefficient(degree int) field.Element {
	if degree < 0 || degree >= len(p) {
		return field.Zero()
	}
	return p[degree]
}

// Eval evaluates p at x using Horner's rule.
func (p Polynomial) Eval(x field.Element) field.Element {
	result := field.Zero()
	for i := len(p) - 1; i >= 0; i-- {
		result = result.Mul(x).Add(p[i])
	}
	return result
}

// Add returns the pointwise sum of a and b, padded to the longer length.
func Add(a, b Polynomial) Polynomial {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(Polynomial, n)
	for i := 0; i < n; i++ {
		out[i] = a.Coefficient(i).Add(b.Coefficient(i))
	}
	return out
}

// Sub returns the pointwise difference a - b, padded to the longer length.
func Sub(a, b Polynomial) Polynomial {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make(Polynomial, n)
	for i := 0; i < n; i++ {
		out[i] = a.Coefficient(i).Sub(b.Coefficient(i))
	}
	return out
}

// ScalarMul multiplies every coefficient of p by s.
func ScalarMul(p Polynomial, s field.Element) Polynomial {
	out := make(Polynomial, len(p))
	for i, c := range p {
		out[i] = c.Mul(s)
	}
	return out
}

// Mul performs the unconstrained schoolbook convolution of a and b; the
// result has length len(a)+len(b)-1 (or 0 if either input is empty).
func Mul(a, b Polynomial) Polynomial {
	if len(a) == 0 || len(b) == 0 {
		return Polynomial{}
	}
	out := make(Polynomial, len(a)+len(b)-1)
	for i := range out {
		out[i] = field.Zero()
	}
	for i, ca := range a {
		if ca.IsZero() {
			continue
		}
		for j, cb := range b {
			out[i+j] = out[i+j].Add(ca.Mul(cb))
		}
	}
	return out
}

// MulCapped multiplies a and b and truncates the result to `capacity`
// coefficients, but only when it is safe to do so: if the truncated tail
// holds a nonzero coefficient, the caller's capacity assumption
// (deg(a)+deg(b) < C) was violated, and ErrCapacityExceeded is returned
// instead of silently losing terms.
func MulCapped(a, b Polynomial, capacity int) (Polynomial, error) {
	full := Mul(a, b)
	if len(full) <= capacity {
		return full, nil
	}
	for i := capacity; i < len(full); i++ {
		if !full[i].IsZero() {
			return nil, fmt.Errorf("%w: degree %d >= capacity %d", ErrCapacityExceeded, len(full)-1, capacity)
		}
	}
	return full[:capacity], nil
}

// LagrangeInterpolate builds the unique minimal-degree polynomial P with
// P(xs[i]) = ys[i] for all i, by summing, for each i, the numerator
// polynomial prod_{j != i}(X - xs[j]) scaled by ys[i] / prod_{j != i}(xs[i]
// - xs[j]). Requires pairwise-distinct xs.
func LagrangeInterpolate(xs, ys []field.Element) (Polynomial, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d x-coordinates vs %d y-values", ErrInvalidInput, len(xs), len(ys))
	}
	if len(xs) == 0 {
		return nil, fmt.Errorf("%w: need at least one point to interpolate", ErrInvalidInput)
	}

	for i := range xs {
		for j := i + 1; j < len(xs); j++ {
			if xs[i].Equal(xs[j]) {
				return nil, ErrDuplicateAbscissa
			}
		}
	}

	result := Polynomial{field.Zero()}
	for i := range xs {
		numerator := Polynomial{field.One()}
		denominator := field.One()
		for j := range xs {
			if i == j {
				continue
			}
			// (X - xs[j])
			linear := Polynomial{xs[j].Neg(), field.One()}
			numerator = Mul(numerator, linear)
			denominator = denominator.Mul(xs[i].Sub(xs[j]))
		}
		invDenom, err := denominator.Inv()
		if err != nil {
			return nil, fmt.Errorf("poly: interpolation denominator not invertible: %w", err)
		}
		term := ScalarMul(numerator, ys[i].Mul(invDenom))
		result = Add(result, term)
	}
	return result, nil
}

// FFT evaluates the polynomial with coefficients vals over the power
// cycle of rootOfUnity (order n, a power of two), via the standard
// radix-2 recursive split.
func FFT(vals []field.Element, rootOfUnity field.Element) ([]field.Element, error) {
	n := len(vals)
	if n == 0 || (n&(n-1)) != 0 {
		return nil, fmt.Errorf("%w: FFT length %d is not a positive power of two", ErrInvalidInput, n)
	}
	return fftRecursive(vals, rootOfUnity), nil
}

func fftRecursive(vals []field.Element, rootOfUnity field.Element) []field.Element {
	n := len(vals)
	if n == 1 {
		return []field.Element{vals[0]}
	}

	even := make([]field.Element, n/2)
	odd := make([]field.Element, n/2)
	for i := 0; i < n/2; i++ {
		even[i] = vals[2*i]
		odd[i] = vals[2*i+1]
	}

	rootSquared := rootOfUnity.Square()
	l := fftRecursive(even, rootSquared)
	r := fftRecursive(odd, rootSquared)

	out := make([]field.Element, n)
	power := field.One()
	for i := 0; i < n/2; i++ {
		yTimesRoot := r[i].Mul(power)
		out[i] = l[i].Add(yTimesRoot)
		out[i+n/2] = l[i].Sub(yTimesRoot)
		power = power.Mul(rootOfUnity)
	}
	return out
}

// IFFT inverts FFT: it runs FFT with rootOfUnity^-1 and scales every
// resulting element by n^-1, so IFFT(FFT(v)) == v.
func IFFT(vals []field.Element, rootOfUnity field.Element) ([]field.Element, error) {
	n := len(vals)
	invRoot, err := rootOfUnity.Inv()
	if err != nil {
		return nil, fmt.Errorf("poly: IFFT root of unity not invertible: %w", err)
	}
	raw, err := FFT(vals, invRoot)
	if err != nil {
		return nil, err
	}
	invLen, err := field.New(uint64(n)).Inv()
	if err != nil {
		return nil, fmt.Errorf("poly: IFFT length not invertible: %w", err)
	}
	out := make([]field.Element, n)
	for i, v := range raw {
		out[i] = v.Mul(invLen)
	}
	return out, nil
}
