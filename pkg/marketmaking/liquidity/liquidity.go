// Package liquidity computes the pool shares issued for a deposit and the
// assets refunded when shares are burned.
package liquidity

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-lbp/pkg/mathutil"
)

// ErrBurnExceedsSupply ...
var ErrBurnExceedsSupply = errors.New("burn amount exceeds total share supply")

// MintAmount returns the shares to issue for the given deposits.
//
// The first deposit, with no share outstanding, mints floor(sqrt(d0*d1)).
// Later deposits mint the smaller of the two proportional shares
// d_i*totalShare/pool_i, so the excess of an unbalanced deposit is left to
// the pool. Shares that would not fit 128 bits saturate to
// mathutil.MaxUint128.
func MintAmount(
	totalShare *uint256.Int, deposits, pools [2]*uint256.Int,
) (*uint256.Int, error) {
	if err := mathutil.CheckAmount(
		totalShare, deposits[0], deposits[1], pools[0], pools[1],
	); err != nil {
		return nil, err
	}

	if totalShare.IsZero() {
		// fits 256 bits as both factors fit 128.
		product := new(uint256.Int).Mul(deposits[0], deposits[1])
		return mathutil.Sqrt(product), nil
	}

	shares := make([]*uint256.Int, 0, len(pools))
	for i := range pools {
		if pools[i].IsZero() {
			return nil, mathutil.ErrDivisionByZero
		}
		share, err := mathutil.MulDiv(
			deposits[i], totalShare, pools[i], mathutil.RoundDown,
		)
		if err != nil {
			if !errors.Is(err, mathutil.ErrOverflow) {
				return nil, err
			}
			share = mathutil.MaxAmount()
		}
		shares = append(shares, share)
	}

	return mathutil.Min(shares[0], shares[1:]...), nil
}

// RedeemAmounts returns the assets refunded for burning burnShare out of
// totalShare, floor(pool_i*burnShare/totalShare) for each asset.
func RedeemAmounts(
	burnShare, totalShare *uint256.Int, pools [2]*uint256.Int,
) ([2]*uint256.Int, error) {
	var refunds [2]*uint256.Int

	if err := mathutil.CheckAmount(
		burnShare, totalShare, pools[0], pools[1],
	); err != nil {
		return refunds, err
	}
	if totalShare.IsZero() {
		return refunds, mathutil.ErrDivisionByZero
	}
	if burnShare.Gt(totalShare) {
		return refunds, ErrBurnExceedsSupply
	}

	for i, pool := range pools {
		refund, err := mathutil.MulDiv(
			pool, burnShare, totalShare, mathutil.RoundDown,
		)
		if err != nil {
			return [2]*uint256.Int{}, err
		}
		refunds[i] = refund
	}
	return refunds, nil
}
