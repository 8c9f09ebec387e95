package entities

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/require"
)

func frac(t *testing.T, num, den int64) Fraction {
	t.Helper()
	f, err := NewFraction(big.NewInt(num), big.NewInt(den))
	require.NoError(t, err)
	return f
}

func TestFractionRejectsZeroDenominator(t *testing.T) {
	_, err := NewFraction(big.NewInt(1), big.NewInt(0))
	require.ErrorIs(t, err, ErrInvalidDenominator)

	_, err = frac(t, 0, 1).Invert()
	require.ErrorIs(t, err, ErrInvalidDenominator)

	_, err = frac(t, 1, 2).Div(frac(t, 0, 5))
	require.ErrorIs(t, err, ErrInvalidDenominator)
}

func TestFractionNormalizesSign(t *testing.T) {
	f := frac(t, 1, -2)
	require.Equal(t, "-1", f.Numerator().String())
	require.Equal(t, "2", f.Denominator().String())
}

func TestFractionQuotientAndRemainder(t *testing.T) {
	require.Equal(t, int64(2), frac(t, 8, 3).Quotient().Int64())
	require.Equal(t, int64(3), frac(t, 12, 4).Quotient().Int64())
	require.Equal(t, int64(3), frac(t, 16, 5).Quotient().Int64())
	require.Equal(t, int64(-2), frac(t, -8, 3).Quotient().Int64())
	require.True(t, frac(t, 8, 3).Remainder().EqualTo(frac(t, 2, 3)))
}

func TestFractionArithmetic(t *testing.T) {
	a := frac(t, 1, 10)
	b := frac(t, 4, 12)

	require.True(t, a.Add(b).EqualTo(frac(t, 52, 120)))
	require.True(t, a.Sub(b).EqualTo(frac(t, -28, 120)))
	require.True(t, a.Mul(b).EqualTo(frac(t, 4, 120)))

	q, err := a.Div(b)
	require.NoError(t, err)
	require.True(t, q.EqualTo(frac(t, 12, 40)))

	inv, err := b.Invert()
	require.NoError(t, err)
	require.True(t, inv.EqualTo(frac(t, 3, 1)))

	require.True(t, frac(t, 1, 3).Add(frac(t, 1, 3)).EqualTo(frac(t, 2, 3)))
}

func TestFractionAddNegationIsZero(t *testing.T) {
	for _, f := range []Fraction{frac(t, 7, 3), frac(t, -5, 11), frac(t, 0, 9), frac(t, 123456789, 1)} {
		require.True(t, f.Add(f.Neg()).EqualTo(FractionFromInt(0)), "f=%s", f)
	}
}

func TestFractionComparisons(t *testing.T) {
	require.True(t, frac(t, 1, 10).LessThan(frac(t, 4, 12)))
	require.False(t, frac(t, 1, 3).LessThan(frac(t, 4, 12)))
	require.True(t, frac(t, 1, 3).EqualTo(frac(t, 4, 12)))
	require.True(t, frac(t, 5, 12).GreaterThan(frac(t, 4, 12)))
	require.True(t, frac(t, -1, 2).LessThan(frac(t, 0, 1)))
}

func TestFractionToSignificant(t *testing.T) {
	cases := []struct {
		f        Fraction
		digits   int
		rounding Rounding
		want     string
	}{
		{frac(t, 1, 3), 3, RoundDown, "0.333"},
		{frac(t, 1, 3), 3, RoundHalfUp, "0.333"},
		{frac(t, 1, 3), 3, RoundUp, "0.334"},
		{frac(t, 2, 3), 3, RoundHalfUp, "0.667"},
		{frac(t, 123456, 1), 2, RoundDown, "120000"},
		{frac(t, 125000, 1), 2, RoundHalfUp, "130000"},
		{frac(t, 123456, 1), 2, RoundUp, "130000"},
		{frac(t, 199999, 100000), 2, RoundUp, "2"},
		{frac(t, 15, 10), 5, RoundHalfUp, "1.5"},
		{frac(t, -1, 3), 2, RoundDown, "-0.33"},
		{frac(t, 1, 1000000), 1, RoundDown, "0.000001"},
		{frac(t, 0, 7), 4, RoundDown, "0"},
	}
	for _, tc := range cases {
		got, err := tc.f.ToSignificant(tc.digits, tc.rounding)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "%s to %d significant digits", tc.f, tc.digits)
	}

	_, err := frac(t, 1, 3).ToSignificant(0, RoundDown)
	require.ErrorIs(t, err, ErrInvalidOption)
}

func TestFractionToFixed(t *testing.T) {
	cases := []struct {
		f        Fraction
		places   int
		rounding Rounding
		want     string
	}{
		{frac(t, 1, 3), 2, RoundDown, "0.33"},
		{frac(t, 2, 3), 0, RoundHalfUp, "1"},
		{frac(t, 5, 2), 0, RoundHalfUp, "3"},
		{frac(t, 5, 2), 0, RoundDown, "2"},
		{frac(t, 1, 1), 3, RoundDown, "1.000"},
		{frac(t, 1, 1000), 2, RoundUp, "0.01"},
		{frac(t, -5, 2), 0, RoundHalfUp, "-3"},
	}
	for _, tc := range cases {
		got, err := tc.f.ToFixed(tc.places, tc.rounding)
		require.NoError(t, err)
		require.Equal(t, tc.want, got, "%s to %d places", tc.f, tc.places)
	}

	_, err := frac(t, 1, 3).ToFixed(-1, RoundDown)
	require.ErrorIs(t, err, ErrInvalidOption)
}

func TestPercentRendering(t *testing.T) {
	p := PercentFromBips(50)
	s, err := p.ToFixed(2, RoundHalfUp)
	require.NoError(t, err)
	require.Equal(t, "0.50", s)

	q, err := NewPercent(big.NewInt(1), big.NewInt(3))
	require.NoError(t, err)
	s, err = q.ToSignificant(4, RoundHalfUp)
	require.NoError(t, err)
	require.Equal(t, "33.33", s)
}
