// Package mathutil implements the deterministic fixed-point arithmetic used to
// price LBP swaps. Amounts are unsigned 128-bit integers carried in
// uint256.Int so that every product of two amounts fits the type, while
// fractional values are decimal.Decimal normalised to Precision digits.
package mathutil

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// Precision is the number of fractional digits of a fixed-point value.
const Precision = 36

// RoundingMode selects the direction in which an inexact result is rounded.
type RoundingMode int

const (
	// RoundDown rounds toward zero.
	RoundDown RoundingMode = iota
	// RoundUp rounds away from zero.
	RoundUp
)

var (
	// ErrArithmetic is the kind every arithmetic failure belongs to.
	ErrArithmetic = errors.New("arithmetic error")
	// ErrDivisionByZero ...
	ErrDivisionByZero = fmt.Errorf("%w: division by zero", ErrArithmetic)
	// ErrOverflow ...
	ErrOverflow = fmt.Errorf("%w: overflow", ErrArithmetic)
	// ErrPowDomain is returned when pow is given a non positive base.
	ErrPowDomain = fmt.Errorf("%w: pow base must be positive", ErrArithmetic)
	// ErrNegativeAmount is returned when converting a negative value to an amount.
	ErrNegativeAmount = fmt.Errorf("%w: negative amount", ErrArithmetic)
	// ErrInvalidRate is returned for commission rates outside [0, 1).
	ErrInvalidRate = fmt.Errorf("%w: rate must be in range [0, 1)", ErrArithmetic)
	// ErrMalformedAmount ...
	ErrMalformedAmount = errors.New("amount must be an integer in base 10")
)

var (
	// MaxUint128 is the greatest amount a pool asset can hold. Never mutate it,
	// use MaxAmount to get a copy.
	MaxUint128 = new(uint256.Int).SubUint64(
		new(uint256.Int).Lsh(uint256.NewInt(1), 128), 1,
	)
	// One is the fixed-point unit.
	One = decimal.New(1, 0)

	maxAmountDecimal = decimal.NewFromBigInt(MaxUint128.ToBig(), 0)
	fixedScale       = new(uint256.Int).Exp(
		uint256.NewInt(10), uint256.NewInt(Precision),
	)
	ulp = decimal.New(1, -Precision)
)

// MaxAmount returns a copy of MaxUint128.
func MaxAmount() *uint256.Int {
	return new(uint256.Int).Set(MaxUint128)
}

// CheckAmount returns ErrOverflow if the given amount doesn't fit 128 bits.
func CheckAmount(amounts ...*uint256.Int) error {
	for _, a := range amounts {
		if a == nil {
			return fmt.Errorf("%w: missing amount", ErrArithmetic)
		}
		if a.Gt(MaxUint128) {
			return ErrOverflow
		}
	}
	return nil
}

// ParseAmount parses an amount from its base 10 representation.
func ParseAmount(s string) (*uint256.Int, error) {
	d, err := decimal.NewFromString(s)
	if err != nil || !d.Equal(d.Truncate(0)) {
		return nil, ErrMalformedAmount
	}
	return ToAmount(d, RoundDown)
}

// ToFixed widens an amount to a fixed-point value without loss.
func ToFixed(amount *uint256.Int) decimal.Decimal {
	return decimal.NewFromBigInt(amount.ToBig(), 0)
}

// ToAmount narrows a non negative fixed-point value to an amount, rounding in
// the given direction.
func ToAmount(d decimal.Decimal, mode RoundingMode) (*uint256.Int, error) {
	if d.IsNegative() {
		return nil, ErrNegativeAmount
	}
	if mode == RoundUp {
		d = d.RoundCeil(0)
	} else {
		d = d.RoundFloor(0)
	}
	if d.GreaterThan(maxAmountDecimal) {
		return nil, ErrOverflow
	}
	amount, _ := uint256.FromBig(d.BigInt())
	return amount, nil
}

// MulFixed returns amount * f narrowed back to an amount.
func MulFixed(
	amount *uint256.Int, f decimal.Decimal, mode RoundingMode,
) (*uint256.Int, error) {
	return ToAmount(ToFixed(amount).Mul(f), mode)
}

// Ratio returns numerator/denominator as a fixed-point value. The division
// runs over the 512-bit product numerator * 10^Precision.
func Ratio(
	numerator, denominator *uint256.Int, mode RoundingMode,
) (decimal.Decimal, error) {
	if denominator.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}

	q, overflow := new(uint256.Int).MulDivOverflow(
		numerator, fixedScale, denominator,
	)
	if overflow {
		return decimal.Zero, ErrOverflow
	}
	if mode == RoundUp {
		rem := new(uint256.Int).MulMod(numerator, fixedScale, denominator)
		if !rem.IsZero() {
			q.AddUint64(q, 1)
		}
	}

	return decimal.NewFromBigInt(q.ToBig(), -Precision), nil
}

// Quo divides two non negative fixed-point values at Precision digits.
func Quo(x, y decimal.Decimal, mode RoundingMode) (decimal.Decimal, error) {
	if y.IsZero() {
		return decimal.Zero, ErrDivisionByZero
	}

	q, r := x.QuoRem(y, Precision)
	if mode == RoundUp && !r.IsZero() {
		q = q.Add(ulp)
	}
	return q, nil
}

// MulDiv returns x*y/d over a 512-bit intermediate. The result must fit 128
// bits.
func MulDiv(x, y, d *uint256.Int, mode RoundingMode) (*uint256.Int, error) {
	if d.IsZero() {
		return nil, ErrDivisionByZero
	}

	q, overflow := new(uint256.Int).MulDivOverflow(x, y, d)
	if overflow || q.Gt(MaxUint128) {
		return nil, ErrOverflow
	}
	if mode == RoundUp {
		if !new(uint256.Int).MulMod(x, y, d).IsZero() {
			q.AddUint64(q, 1)
		}
		if q.Gt(MaxUint128) {
			return nil, ErrOverflow
		}
	}
	return q, nil
}

// Sqrt returns floor(sqrt(x)).
func Sqrt(x *uint256.Int) *uint256.Int {
	return new(uint256.Int).Sqrt(x)
}

// Min returns the smaller of the given amounts.
func Min(x *uint256.Int, others ...*uint256.Int) *uint256.Int {
	min := x
	for _, o := range others {
		if o.Lt(min) {
			min = o
		}
	}
	return new(uint256.Int).Set(min)
}

// SubOrZero returns max(0, x-y).
func SubOrZero(x, y *uint256.Int) *uint256.Int {
	if x.Gt(y) {
		return new(uint256.Int).Sub(x, y)
	}
	return new(uint256.Int)
}
