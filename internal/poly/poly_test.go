package poly

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vybium/goldilocks-fri/internal/field"
)

func e(v uint64) field.Element { return field.New(v) }

func TestEvalHorner(t *testing.T) {
	// p(x) = 3 + 2x + x^2
	p := Polynomial{e(3), e(2), e(1)}
	require.True(t, p.Eval(e(0)).Equal(e(3)))
	require.True(t, p.Eval(e(1)).Equal(e(6)))
	require.True(t, p.Eval(e(2)).Equal(e(11)))
}

func TestDegree(t *testing.T) {
	require.Equal(t, -1, Polynomial{}.Degree())
	require.Equal(t, -1, Polynomial{e(0), e(0)}.Degree())
	require.Equal(t, 2, Polynomial{e(1), e(0), e(5)}.Degree())
}

func TestAddSub(t *testing.T) {
	a := Polynomial{e(1), e(2), e(3)}
	b := Polynomial{e(5), e(5)}
	sum := Add(a, b)
	require.True(t, sum.Eval(e(1)).Equal(a.Eval(e(1)).Add(b.Eval(e(1)))))

	diff := Sub(a, b)
	require.True(t, diff.Eval(e(7)).Equal(a.Eval(e(7)).Sub(b.Eval(e(7)))))
}

func TestMulMatchesPointwiseEval(t *testing.T) {
	a := Polynomial{e(1), e(1)}       // 1 + x
	b := Polynomial{e(2), e(0), e(3)} // 2 + 3x^2
	prod := Mul(a, b)
	x := e(9)
	require.True(t, prod.Eval(x).Equal(a.Eval(x).Mul(b.Eval(x))))
	require.Equal(t, 3, prod.Degree())
}

func TestMulCappedWithinBound(t *testing.T) {
	a := Polynomial{e(1), e(1)}
	b := Polynomial{e(1), e(1)}
	out, err := MulCapped(a, b, 10)
	require.NoError(t, err)
	require.Equal(t, Mul(a, b), out)
}

func TestMulCappedOverflows(t *testing.T) {
	a := Polynomial{e(1), e(1)}
	b := Polynomial{e(1), e(1)}
	_, err := MulCapped(a, b, 2)
	require.ErrorIs(t, err, ErrCapacityExceeded)
}

func TestMulCappedTruncatesHarmlessZeroTail(t *testing.T) {
	a := Polynomial{e(1), e(1)}
	b := Polynomial{e(0)}
	out, err := MulCapped(a, b, 1)
	require.NoError(t, err)
	require.Len(t, out, 1)
}

func TestLagrangeInterpolateRoundTrips(t *testing.T) {
	xs := []field.Element{e(0), e(1), e(2), e(3)}
	ys := []field.Element{e(1), e(4), e(9), e(16)} // (x+1)^2
	p, err := LagrangeInterpolate(xs, ys)
	require.NoError(t, err)
	for i, x := range xs {
		require.True(t, p.Eval(x).Equal(ys[i]))
	}
	require.True(t, p.Eval(e(10)).Equal(e(121)))
}

func TestLagrangeInterpolateRejectsDuplicates(t *testing.T) {
	xs := []field.Element{e(1), e(1)}
	ys := []field.Element{e(5), e(6)}
	_, err := LagrangeInterpolate(xs, ys)
	require.ErrorIs(t, err, ErrDuplicateAbscissa)
}

func TestLagrangeInterpolateRejectsMismatchedLengths(t *testing.T) {
	_, err := LagrangeInterpolate([]field.Element{e(1)}, []field.Element{e(1), e(2)})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestFFTMatchesDirectEval(t *testing.T) {
	n := uint64(8)
	root := field.NthRootOfUnity(n)
	coeffs := []field.Element{e(1), e(2), e(3), e(4), e(5), e(6), e(7), e(8)}

	vals, err := FFT(coeffs, root)
	require.NoError(t, err)
	require.Len(t, vals, int(n))

	powers := field.PowerSequence(root, int(n))
	for i, x := range powers {
		require.True(t, Polynomial(coeffs).Eval(x).Equal(vals[i]), "mismatch at index %d", i)
	}
}

func TestFFTIFFTRoundTrip(t *testing.T) {
	n := uint64(16)
	root := field.NthRootOfUnity(n)
	coeffs := make([]field.Element, n)
	for i := range coeffs {
		coeffs[i] = e(uint64(i*i + 1))
	}

	vals, err := FFT(coeffs, root)
	require.NoError(t, err)
	back, err := IFFT(vals, root)
	require.NoError(t, err)

	for i := range coeffs {
		require.True(t, coeffs[i].Equal(back[i]), "coefficient %d did not round-trip", i)
	}
}

func TestFFTRejectsNonPowerOfTwo(t *testing.T) {
	_, err := FFT([]field.Element{e(1), e(2), e(3)}, e(1))
	require.ErrorIs(t, err, ErrInvalidInput)
}
