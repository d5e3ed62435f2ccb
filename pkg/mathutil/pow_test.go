package mathutil

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestPow(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     string
		exponent string
		wantDown string
		wantUp   string
	}{
		{
			"square root of two",
			"2", "0.5",
			"1.414213562373095048801688724209698078",
			"1.414213562373095048801688724209698079",
		},
		{
			"integer exponent is exact",
			"1.5", "2",
			"2.25",
			"2.25",
		},
		{
			"integer exponent rounds the exact result",
			"0.333333333333333333333333333333333333", "3",
			"0.037037037037037037037037037037037036",
			"0.037037037037037037037037037037037037",
		},
		{
			"zero exponent",
			"12345.6789", "0",
			"1",
			"1",
		},
		{
			"unit base",
			"1", "0.123",
			"1",
			"1",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			base := decimal.RequireFromString(tt.base)
			exponent := decimal.RequireFromString(tt.exponent)

			down, err := Pow(base, exponent, RoundDown)
			require.NoError(t, err)
			up, err := Pow(base, exponent, RoundUp)
			require.NoError(t, err)

			require.Equal(t, tt.wantDown, down.String())
			require.Equal(t, tt.wantUp, up.String())
		})
	}

	failingTests := []struct {
		name      string
		base      string
		exponent  string
		wantError error
	}{
		{"zero base", "0", "0.5", ErrPowDomain},
		{"negative base", "-2", "0.5", ErrPowDomain},
		{"overflow", "100000000000000000000000000000000000000", "30.5", ErrOverflow},
	}

	for _, tt := range failingTests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := Pow(
				decimal.RequireFromString(tt.base),
				decimal.RequireFromString(tt.exponent),
				RoundDown,
			)
			require.ErrorIs(t, err, tt.wantError)
			require.ErrorIs(t, err, ErrArithmetic)
		})
	}
}

func TestPowBracketsExactValue(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		base     string
		exponent string
		want     string
	}{
		{"root of a perfect square", "4", "0.5", "2"},
		{"root below one", "0.25", "0.5", "0.5"},
		{"large base", "1000000000000000000000000000000", "1.5", "1000000000000000000000000000000000000000000000"},
		{
			"fractional power of ten",
			"10", "0.3",
			"1.99526231496887960135245539673953555798627431540534609922",
		},
		{
			"mixed exponent",
			"2", "10.5",
			"1448.15468787004932997292925359073083245534400038599482693292",
		},
	}

	tolerance := decimal.New(2, -Precision)

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			base := decimal.RequireFromString(tt.base)
			exponent := decimal.RequireFromString(tt.exponent)
			want := decimal.RequireFromString(tt.want)

			down, err := Pow(base, exponent, RoundDown)
			require.NoError(t, err)
			up, err := Pow(base, exponent, RoundUp)
			require.NoError(t, err)

			require.True(t, down.LessThanOrEqual(want), "%s > %s", down, want)
			require.True(t, up.GreaterThanOrEqual(want), "%s < %s", up, want)
			require.True(t, up.Sub(down).LessThanOrEqual(tolerance.Mul(want.Ceil())))
		})
	}
}

func TestPowVanishingResult(t *testing.T) {
	t.Parallel()

	base := decimal.New(1, -30)
	exponent := decimal.RequireFromString("2.5")

	down, err := Pow(base, exponent, RoundDown)
	require.NoError(t, err)
	up, err := Pow(base, exponent, RoundUp)
	require.NoError(t, err)

	require.True(t, down.IsZero())
	require.Equal(t, ulp.String(), up.String())
}

func TestPowMonotonic(t *testing.T) {
	t.Parallel()

	bases := []string{"0.5", "0.9", "0.99999", "1.00001", "1.3", "2"}
	exponents := []string{"0.02", "0.333", "0.5", "1.7", "3.25", "49.5"}

	for _, e := range exponents {
		exponent := decimal.RequireFromString(e)
		prev := decimal.Zero
		for _, b := range bases {
			got, err := Pow(decimal.RequireFromString(b), exponent, RoundDown)
			require.NoError(t, err)
			require.True(t, got.GreaterThan(prev), "pow(%s, %s)", b, e)
			prev = got
		}
	}

	for _, b := range []string{"0.5", "0.99"} {
		base := decimal.RequireFromString(b)
		prev := One
		for _, e := range exponents {
			got, err := Pow(base, decimal.RequireFromString(e), RoundUp)
			require.NoError(t, err)
			require.True(t, got.LessThan(prev), "pow(%s, %s)", b, e)
			prev = got
		}
	}
}

func TestPowRoundTrip(t *testing.T) {
	t.Parallel()

	base := decimal.NewFromInt(3)
	root, err := Pow(base, decimal.RequireFromString("0.5"), RoundUp)
	require.NoError(t, err)

	squared, err := Pow(root, decimal.NewFromInt(2), RoundUp)
	require.NoError(t, err)
	require.True(t, squared.GreaterThanOrEqual(base))
	require.True(t, squared.Sub(base).LessThan(decimal.New(1, -34)))
}

func TestLnExp(t *testing.T) {
	t.Parallel()

	require.True(t, ln(One).Abs().LessThan(decimal.New(1, -55)))

	e, err := exp(decimal.Zero)
	require.NoError(t, err)
	require.True(t, e.Equal(One))

	got, err := exp(ln2)
	require.NoError(t, err)
	require.True(t, got.Sub(decimal.NewFromInt(2)).Abs().LessThan(decimal.New(1, -55)))

	require.Equal(
		t,
		"0.693147180559945309417232121458176568",
		ln2.Truncate(Precision).String(),
	)
}
