// Package formula defines the formulas that implements the MakingFormula interface
package formula

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-lbp/pkg/marketmaking"
	"github.com/tdex-network/tdex-lbp/pkg/mathutil"
)

const BalancedReservesType = 1

// BalancedReserves defines an AMM strategy with equally weighted reserves,
// the classic x*y=k curve. Weights in the opts are ignored and every result
// is computed with integer arithmetic only.
type BalancedReserves struct{}

// SpotPrice calculates the spot price (without fees) given the balances fo the two reserves.
func (BalancedReserves) SpotPrice(
	opts *marketmaking.FormulaOpts,
) (spotPrice decimal.Decimal, err error) {
	if err = validateBalancedOpts(opts); err != nil {
		return
	}

	return mathutil.Ratio(opts.BalanceOut, opts.BalanceIn, mathutil.RoundDown)
}

// OutGivenIn returns the net amountOut of asset that will be exchanged for the given amountIn.
func (BalancedReserves) OutGivenIn(
	opts *marketmaking.FormulaOpts, amountIn *uint256.Int,
) (*marketmaking.SwapQuote, error) {
	if err := validateBalancedOpts(opts); err != nil {
		return nil, err
	}
	if err := mathutil.CheckAmount(amountIn); err != nil {
		return nil, err
	}
	if amountIn.IsZero() {
		return marketmaking.ZeroQuote(), nil
	}

	// balanceOut - balanceOut*balanceIn/(balanceIn+amountIn)
	adjustedIn := new(uint256.Int).Add(opts.BalanceIn, amountIn)
	grossOut, err := mathutil.MulDiv(
		opts.BalanceOut, amountIn, adjustedIn, mathutil.RoundDown,
	)
	if err != nil {
		return nil, err
	}

	spotOut, err := spotReturn(
		opts.BalanceIn, opts.BalanceOut, mathutil.One, mathutil.One, amountIn,
	)
	if err != nil {
		return nil, err
	}
	netOut, commission, err := mathutil.LessFee(grossOut, opts.CommissionRate)
	if err != nil {
		return nil, err
	}

	return &marketmaking.SwapQuote{
		Amount:           netOut,
		SpreadAmount:     mathutil.SubOrZero(spotOut, grossOut),
		CommissionAmount: commission,
	}, nil
}

// InGivenOut returns the amountIn of assets that will be needed for having the desired net amountOut in return.
func (BalancedReserves) InGivenOut(
	opts *marketmaking.FormulaOpts, amountOut *uint256.Int,
) (*marketmaking.SwapQuote, error) {
	if err := validateBalancedOpts(opts); err != nil {
		return nil, err
	}
	if err := mathutil.CheckAmount(amountOut); err != nil {
		return nil, err
	}
	if amountOut.IsZero() {
		return marketmaking.ZeroQuote(), nil
	}

	grossOut, commission, err := mathutil.PlusFee(amountOut, opts.CommissionRate)
	if err != nil {
		return nil, err
	}
	if !grossOut.Lt(opts.BalanceOut) {
		return nil, ErrInsufficientLiquidity
	}

	updatedOut := new(uint256.Int).Sub(opts.BalanceOut, grossOut)
	amountIn, err := mathutil.MulDiv(
		opts.BalanceIn, grossOut, updatedOut, mathutil.RoundUp,
	)
	if err != nil {
		return nil, err
	}

	spotOut, err := spotReturn(
		opts.BalanceIn, opts.BalanceOut, mathutil.One, mathutil.One, amountIn,
	)
	if err != nil {
		return nil, err
	}

	return &marketmaking.SwapQuote{
		Amount:           amountIn,
		SpreadAmount:     mathutil.SubOrZero(spotOut, grossOut),
		CommissionAmount: commission,
	}, nil
}

func (BalancedReserves) FormulaType() int {
	return BalancedReservesType
}

func validateBalancedOpts(opts *marketmaking.FormulaOpts) error {
	if opts == nil || opts.BalanceIn == nil || opts.BalanceOut == nil {
		return ErrInvalidOpts
	}
	if err := mathutil.CheckAmount(opts.BalanceIn, opts.BalanceOut); err != nil {
		return err
	}
	if opts.BalanceIn.IsZero() || opts.BalanceOut.IsZero() {
		return ErrBalanceTooLow
	}
	if !mathutil.IsValidRate(opts.CommissionRate) {
		return mathutil.ErrInvalidRate
	}
	return nil
}
