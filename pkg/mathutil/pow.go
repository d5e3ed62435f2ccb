package mathutil

import (
	"math/big"

	"github.com/shopspring/decimal"
)

const (
	// fractional digits kept by intermediate ln/exp results.
	workingPrecision = Precision + 24
	// relative slack applied to series results before the final rounding.
	powBiasDigits = Precision + 4
	// integer exponents up to this value are computed exactly.
	maxExactExponent = 64
)

var (
	half = decimal.New(5, -1)
	two  = decimal.New(2, 0)

	// beyond these bounds exp either overflows any amount or vanishes below
	// the working precision.
	maxExpArg = decimal.New(200, 0)
	minExpArg = decimal.New(-140, 0)

	// ln(2) = 2*atanh(1/3)
	ln2 = atanh(
		quo(One, decimal.New(3, 0), workingPrecision+10), workingPrecision+10,
	).Mul(two)
)

// Pow returns base^exponent rounded at Precision digits in the given
// direction. Integer exponents are computed exactly, the others through
// exp(exponent * ln(base)) evaluated with range reduction and series
// expansions, so the result is the same on every platform.
func Pow(
	base, exponent decimal.Decimal, mode RoundingMode,
) (decimal.Decimal, error) {
	if !base.IsPositive() {
		return decimal.Zero, ErrPowDomain
	}
	if exponent.IsZero() || base.Equal(One) {
		return One, nil
	}

	if exponent.IsPositive() && exponent.Equal(exponent.Truncate(0)) &&
		exponent.LessThanOrEqual(decimal.New(maxExactExponent, 0)) {
		return round(powInt(base, exponent.IntPart()), mode), nil
	}

	y := exponent.Mul(ln(base)).Truncate(workingPrecision)
	p, err := exp(y)
	if err != nil {
		return decimal.Zero, err
	}
	if p.IsZero() {
		if mode == RoundUp {
			return ulp, nil
		}
		return decimal.Zero, nil
	}

	bias := p.Shift(-powBiasDigits)
	if mode == RoundUp {
		p = p.Add(bias)
	} else {
		p = p.Sub(bias)
	}
	return round(p, mode), nil
}

func round(d decimal.Decimal, mode RoundingMode) decimal.Decimal {
	if mode == RoundUp {
		return d.RoundCeil(Precision)
	}
	return d.RoundFloor(Precision)
}

func powInt(base decimal.Decimal, n int64) decimal.Decimal {
	result := One
	for n > 0 {
		if n&1 == 1 {
			result = result.Mul(base)
		}
		n >>= 1
		if n > 0 {
			base = base.Mul(base)
		}
	}
	return result
}

// ln returns the natural logarithm of a positive x. x is first scaled by
// powers of two into [0.5, 1), then ln(m) = 2*atanh((m-1)/(m+1)).
func ln(x decimal.Decimal) decimal.Decimal {
	k := int64(0)
	for x.GreaterThanOrEqual(One) {
		x = x.Mul(half).Truncate(workingPrecision)
		k++
	}
	for x.LessThan(half) {
		x = x.Mul(two)
		k--
	}

	z := quo(x.Sub(One), x.Add(One), workingPrecision)
	return atanh(z, workingPrecision).Mul(two).
		Add(ln2.Mul(decimal.NewFromInt(k))).
		Truncate(workingPrecision)
}

// exp returns e^y. y is split into k*ln(2) + r with |r| <= ln(2)/2, e^r is
// summed as a Taylor series and scaled by 2^k exactly.
func exp(y decimal.Decimal) (decimal.Decimal, error) {
	if y.GreaterThan(maxExpArg) {
		return decimal.Zero, ErrOverflow
	}
	if y.LessThan(minExpArg) {
		return decimal.Zero, nil
	}

	k := y.DivRound(ln2, 0)
	r := y.Sub(ln2.Mul(k)).Truncate(workingPrecision)

	sum, term := One, One
	for n := int64(1); ; n++ {
		term = quo(term.Mul(r), decimal.NewFromInt(n), workingPrecision)
		if term.IsZero() {
			break
		}
		sum = sum.Add(term)
	}

	shift := k.IntPart()
	if shift >= 0 {
		scale := new(big.Int).Lsh(big.NewInt(1), uint(shift))
		return sum.Mul(decimal.NewFromBigInt(scale, 0)), nil
	}
	// 2^-n = 5^n / 10^n
	scale := new(big.Int).Exp(big.NewInt(5), big.NewInt(-shift), nil)
	return sum.Mul(decimal.NewFromBigInt(scale, int32(shift))).
		Truncate(workingPrecision), nil
}

// atanh sums z + z^3/3 + z^5/5 + ... for |z| < 1.
func atanh(z decimal.Decimal, precision int32) decimal.Decimal {
	z2 := z.Mul(z).Truncate(precision)
	sum, term := z, z
	for n := int64(3); ; n += 2 {
		term = term.Mul(z2).Truncate(precision)
		if term.IsZero() {
			break
		}
		sum = sum.Add(quo(term, decimal.NewFromInt(n), precision))
	}
	return sum
}

func quo(x, y decimal.Decimal, precision int32) decimal.Decimal {
	q, _ := x.QuoRem(y, precision)
	return q
}
