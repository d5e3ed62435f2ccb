package mathutil

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// IsValidRate returns whether the given commission rate lies in [0, 1).
func IsValidRate(rate decimal.Decimal) bool {
	return !rate.IsNegative() && rate.LessThan(One)
}

// LessFee splits a gross amount into the net part and the fee computed with
// the given rate. The fee is rounded down, so net + fee == amount.
func LessFee(
	amount *uint256.Int, rate decimal.Decimal,
) (net, fee *uint256.Int, err error) {
	if !IsValidRate(rate) {
		return nil, nil, ErrInvalidRate
	}

	fee, err = MulFixed(amount, rate, RoundDown)
	if err != nil {
		return nil, nil, err
	}
	net = new(uint256.Int).Sub(amount, fee)
	return net, fee, nil
}

// PlusFee returns the gross amount, ceil(amount / (1 - rate)), from which
// LessFee leaves at least the given amount, along with the fee LessFee would
// charge on it.
func PlusFee(
	amount *uint256.Int, rate decimal.Decimal,
) (gross, fee *uint256.Int, err error) {
	if !IsValidRate(rate) {
		return nil, nil, ErrInvalidRate
	}

	grossDecimal, err := Quo(ToFixed(amount), One.Sub(rate), RoundUp)
	if err != nil {
		return nil, nil, err
	}
	if gross, err = ToAmount(grossDecimal, RoundUp); err != nil {
		return nil, nil, err
	}
	if fee, err = MulFixed(gross, rate, RoundDown); err != nil {
		return nil, nil, err
	}
	return gross, fee, nil
}
