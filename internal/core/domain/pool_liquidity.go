package domain

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-lbp/pkg/marketmaking/liquidity"
	"github.com/tdex-network/tdex-lbp/pkg/marketmaking/tolerance"
	"github.com/tdex-network/tdex-lbp/pkg/mathutil"
)

// ProvideLiquidity deposits both assets of the pool and returns the amount of
// shares minted. Deposits can be given in any order.
func (p *Pool) ProvideLiquidity(
	deposits [2]Asset, slippageTolerance decimal.NullDecimal,
) (*uint256.Int, error) {
	amounts, err := p.matchDeposits(deposits)
	if err != nil {
		return nil, err
	}
	if err := mathutil.CheckAmount(amounts[0], amounts[1]); err != nil {
		return nil, err
	}

	pools := p.Balances()
	if err := tolerance.CheckSlippageTolerance(
		slippageTolerance, amounts, pools,
	); err != nil {
		return nil, err
	}

	share, err := liquidity.MintAmount(p.TotalShare, amounts, pools)
	if err != nil {
		return nil, err
	}
	if share.IsZero() {
		return nil, ErrZeroShare
	}

	var balances [2]*uint256.Int
	for i := range pools {
		balances[i] = new(uint256.Int).Add(pools[i], amounts[i])
	}
	totalShare := new(uint256.Int).Add(p.TotalShare, share)
	if err := mathutil.CheckAmount(balances[0], balances[1], totalShare); err != nil {
		return nil, err
	}

	for i := range balances {
		p.Assets[i].Balance = balances[i]
	}
	p.TotalShare = totalShare
	return share, nil
}

// WithdrawLiquidity burns the given amount of shares and returns the assets
// refunded from the pool.
func (p *Pool) WithdrawLiquidity(share *uint256.Int) ([2]Asset, error) {
	if share == nil || share.IsZero() {
		return [2]Asset{}, ErrZeroAmount
	}

	refunds, err := liquidity.RedeemAmounts(share, p.TotalShare, p.Balances())
	if err != nil {
		return [2]Asset{}, err
	}

	var assets [2]Asset
	for i, refund := range refunds {
		p.Assets[i].Balance = new(uint256.Int).Sub(p.Assets[i].Balance, refund)
		assets[i] = Asset{ID: p.Assets[i].ID, Amount: refund}
	}
	p.TotalShare = new(uint256.Int).Sub(p.TotalShare, share)
	return assets, nil
}

// matchDeposits sorts the deposits by the order of the pool assets.
func (p *Pool) matchDeposits(deposits [2]Asset) ([2]*uint256.Int, error) {
	var amounts [2]*uint256.Int
	for _, d := range deposits {
		i, _, err := p.assetPair(d.ID)
		if err != nil {
			return [2]*uint256.Int{}, err
		}
		if amounts[i] != nil {
			return [2]*uint256.Int{}, ErrInvalidAssetSelector
		}
		if d.Amount == nil || d.Amount.IsZero() {
			return [2]*uint256.Int{}, ErrZeroAmount
		}
		amounts[i] = d.Amount
	}
	return amounts, nil
}
