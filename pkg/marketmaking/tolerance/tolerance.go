// Package tolerance rejects swaps and deposits that deviate from the price
// the caller expected by more than the bound the caller accepts.
package tolerance

import (
	"errors"
	"fmt"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-lbp/pkg/mathutil"
)

var (
	// ErrSlippageExceeded is the kind of every rejection of this package.
	ErrSlippageExceeded = errors.New("slippage exceeded")
	// ErrMaxSpreadExceeded ...
	ErrMaxSpreadExceeded = fmt.Errorf(
		"%w: operation exceeds max spread limit", ErrSlippageExceeded,
	)
	// ErrMaxSlippageExceeded ...
	ErrMaxSlippageExceeded = fmt.Errorf(
		"%w: operation exceeds max slippage tolerance", ErrSlippageExceeded,
	)
	// ErrInvalidSlippageTolerance ...
	ErrInvalidSlippageTolerance = errors.New(
		"slippage tolerance must be in range [0, 1]",
	)
	// ErrInvalidMaxSpread ...
	ErrInvalidMaxSpread = errors.New("max spread must not be negative")
	// ErrInvalidBeliefPrice ...
	ErrInvalidBeliefPrice = errors.New("belief price must be greater than zero")
)

// CheckMaxSpread validates the outcome of a forward swap.
//
// With both beliefPrice and maxSpread, the swap fails if it returns less than
// offerAmount/beliefPrice by more than maxSpread of that expected amount.
// With maxSpread alone, it fails if spreadAmount is more than maxSpread of
// returnAmount+spreadAmount. Otherwise the swap is accepted.
//
// returnAmount is expected to include the commission.
func CheckMaxSpread(
	beliefPrice, maxSpread decimal.NullDecimal,
	offerAmount, returnAmount, spreadAmount *uint256.Int,
) error {
	if !maxSpread.Valid {
		return nil
	}
	if maxSpread.Decimal.IsNegative() {
		return ErrInvalidMaxSpread
	}

	if beliefPrice.Valid {
		if !beliefPrice.Decimal.IsPositive() {
			return ErrInvalidBeliefPrice
		}

		expectedReturn, _ := mathutil.ToFixed(offerAmount).
			QuoRem(beliefPrice.Decimal, 0)
		actualReturn := mathutil.ToFixed(returnAmount)
		if actualReturn.GreaterThanOrEqual(expectedReturn) {
			return nil
		}

		spread := expectedReturn.Sub(actualReturn)
		if spread.GreaterThan(maxSpread.Decimal.Mul(expectedReturn)) {
			return ErrMaxSpreadExceeded
		}
		return nil
	}

	spread := mathutil.ToFixed(spreadAmount)
	total := mathutil.ToFixed(returnAmount).Add(spread)
	if total.IsZero() {
		return nil
	}
	if spread.GreaterThan(maxSpread.Decimal.Mul(total)) {
		return ErrMaxSpreadExceeded
	}
	return nil
}

// CheckSlippageTolerance validates a two-sided deposit against the current
// pool ratio. It fails if either deposit0/deposit1 or deposit1/deposit0,
// scaled by (1 - tolerance), exceeds the corresponding pool ratio.
// The check is skipped if the tolerance is not given or any of the pools is
// empty, as no price exists yet.
func CheckSlippageTolerance(
	tolerance decimal.NullDecimal, deposits, pools [2]*uint256.Int,
) error {
	if !tolerance.Valid {
		return nil
	}
	if tolerance.Decimal.IsNegative() || tolerance.Decimal.GreaterThan(mathutil.One) {
		return ErrInvalidSlippageTolerance
	}
	if pools[0].IsZero() || pools[1].IsZero() {
		return nil
	}
	if deposits[0].IsZero() || deposits[1].IsZero() {
		return mathutil.ErrDivisionByZero
	}

	oneMinusTolerance := mathutil.One.Sub(tolerance.Decimal)
	d0, d1 := mathutil.ToFixed(deposits[0]), mathutil.ToFixed(deposits[1])
	p0, p1 := mathutil.ToFixed(pools[0]), mathutil.ToFixed(pools[1])

	// d0/d1 * (1-t) > p0/p1  <=>  d0*p1*(1-t) > p0*d1
	if d0.Mul(p1).Mul(oneMinusTolerance).GreaterThan(p0.Mul(d1)) ||
		d1.Mul(p0).Mul(oneMinusTolerance).GreaterThan(p1.Mul(d0)) {
		return ErrMaxSlippageExceeded
	}
	return nil
}
