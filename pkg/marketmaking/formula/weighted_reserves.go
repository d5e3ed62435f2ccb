package formula

import (
	"errors"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-lbp/pkg/marketmaking"
	"github.com/tdex-network/tdex-lbp/pkg/mathutil"
)

const WeightedReservesType = 2

// WeightedReserves defines an AMM strategy for two reserves with arbitrary
// weights, bound by the invariant balanceIn^weightIn * balanceOut^weightOut.
//
// Every intermediate value is rounded so that the trader never receives more,
// or pays less, than the exact curve would allow: outputs are floored, inputs
// are ceiled and the power terms are rounded accordingly.
type WeightedReserves struct{}

// SpotPrice returns the instantaneous price of the offered asset in terms of
// the asked one, (balanceOut/weightOut) / (balanceIn/weightIn).
func (WeightedReserves) SpotPrice(
	opts *marketmaking.FormulaOpts,
) (spotPrice decimal.Decimal, err error) {
	if err = validateOpts(opts); err != nil {
		return
	}

	return mathutil.Quo(
		mathutil.ToFixed(opts.BalanceOut).Mul(opts.WeightIn),
		mathutil.ToFixed(opts.BalanceIn).Mul(opts.WeightOut),
		mathutil.RoundDown,
	)
}

// OutGivenIn returns the net amount of asset that will be exchanged for the
// given amountIn, along with the spread from the spot price and the
// commission retained by the pool.
func (WeightedReserves) OutGivenIn(
	opts *marketmaking.FormulaOpts, amountIn *uint256.Int,
) (*marketmaking.SwapQuote, error) {
	if err := validateOpts(opts); err != nil {
		return nil, err
	}
	if err := mathutil.CheckAmount(amountIn); err != nil {
		return nil, err
	}
	if amountIn.IsZero() {
		return marketmaking.ZeroQuote(), nil
	}

	adjustedIn := new(uint256.Int).Add(opts.BalanceIn, amountIn)
	ratio, err := mathutil.Ratio(opts.BalanceIn, adjustedIn, mathutil.RoundUp)
	if err != nil {
		return nil, err
	}
	exponent, err := mathutil.Quo(
		opts.WeightIn, opts.WeightOut, mathutil.RoundDown,
	)
	if err != nil {
		return nil, err
	}
	p, err := mathutil.Pow(ratio, exponent, mathutil.RoundUp)
	if err != nil {
		return nil, err
	}
	// ratio < 1, hence p < 1 as well.
	p = decimal.Min(p, mathutil.One)

	grossOut, err := mathutil.MulFixed(
		opts.BalanceOut, mathutil.One.Sub(p), mathutil.RoundDown,
	)
	if err != nil {
		return nil, err
	}
	if !grossOut.Lt(opts.BalanceOut) {
		return nil, ErrInsufficientLiquidity
	}

	spotOut, err := spotReturn(
		opts.BalanceIn, opts.BalanceOut, opts.WeightIn, opts.WeightOut, amountIn,
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

// InGivenOut returns the amount of asset the trader must offer to receive
// the given net amountOut once the commission has been retained.
func (WeightedReserves) InGivenOut(
	opts *marketmaking.FormulaOpts, amountOut *uint256.Int,
) (*marketmaking.SwapQuote, error) {
	if err := validateOpts(opts); err != nil {
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
	ratio, err := mathutil.Ratio(opts.BalanceOut, updatedOut, mathutil.RoundUp)
	if err != nil {
		return nil, err
	}
	exponent, err := mathutil.Quo(
		opts.WeightOut, opts.WeightIn, mathutil.RoundUp,
	)
	if err != nil {
		return nil, err
	}
	p, err := mathutil.Pow(ratio, exponent, mathutil.RoundUp)
	if err != nil {
		return nil, err
	}
	// ratio > 1, hence p > 1 as well.
	p = decimal.Max(p, mathutil.One)

	amountIn, err := mathutil.MulFixed(
		opts.BalanceIn, p.Sub(mathutil.One), mathutil.RoundUp,
	)
	if err != nil {
		return nil, err
	}

	spotOut, err := spotReturn(
		opts.BalanceIn, opts.BalanceOut, opts.WeightIn, opts.WeightOut, amountIn,
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

func (WeightedReserves) FormulaType() int {
	return WeightedReservesType
}

// spotReturn returns floor(balanceOut*weightIn*amount / (balanceIn*weightOut)),
// the amount the trade would return at the spot price. It only measures the
// spread, so it saturates at mathutil.MaxUint128 instead of failing.
func spotReturn(
	balanceIn, balanceOut *uint256.Int, weightIn, weightOut decimal.Decimal,
	amount *uint256.Int,
) (*uint256.Int, error) {
	numerator := mathutil.ToFixed(balanceOut).Mul(weightIn).
		Mul(mathutil.ToFixed(amount))
	denominator := mathutil.ToFixed(balanceIn).Mul(weightOut)
	if denominator.IsZero() {
		return nil, mathutil.ErrDivisionByZero
	}

	q, _ := numerator.QuoRem(denominator, 0)
	amount, err := mathutil.ToAmount(q, mathutil.RoundDown)
	if errors.Is(err, mathutil.ErrOverflow) {
		return mathutil.MaxAmount(), nil
	}
	return amount, err
}

func validateOpts(opts *marketmaking.FormulaOpts) error {
	if opts == nil || opts.BalanceIn == nil || opts.BalanceOut == nil {
		return ErrInvalidOpts
	}
	if err := mathutil.CheckAmount(opts.BalanceIn, opts.BalanceOut); err != nil {
		return err
	}
	if opts.BalanceIn.IsZero() || opts.BalanceOut.IsZero() {
		return ErrBalanceTooLow
	}
	if !opts.WeightIn.IsPositive() || !opts.WeightOut.IsPositive() {
		return ErrInvalidWeight
	}
	if !mathutil.IsValidRate(opts.CommissionRate) {
		return mathutil.ErrInvalidRate
	}
	return nil
}
