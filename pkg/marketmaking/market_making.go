package marketmaking

import (
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
)

// MakingStrategy defines the automated market making strategy, using a formula to be applied to calculate the price of next trade.
type MakingStrategy struct {
	name        string
	description string
	formula     MakingFormula
}

// FormulaOpts defines the pool state needed to price a trade. In refers to
// the offered asset, Out to the asked one. Weights are the current weights of
// the two assets.
type FormulaOpts struct {
	BalanceIn      *uint256.Int
	BalanceOut     *uint256.Int
	WeightIn       decimal.Decimal
	WeightOut      decimal.Decimal
	CommissionRate decimal.Decimal
}

// SwapQuote is the outcome of pricing a trade. Amount is the net amount
// returned to the trader by OutGivenIn, or the amount the trader must offer
// for InGivenOut.
type SwapQuote struct {
	Amount           *uint256.Int
	SpreadAmount     *uint256.Int
	CommissionAmount *uint256.Int
}

// ZeroQuote returns a quote with all amounts set to zero.
func ZeroQuote() *SwapQuote {
	return &SwapQuote{
		Amount:           new(uint256.Int),
		SpreadAmount:     new(uint256.Int),
		CommissionAmount: new(uint256.Int),
	}
}

// IsZero returns whether every amount of the quote is zero.
func (q *SwapQuote) IsZero() bool {
	return q.Amount.IsZero() && q.SpreadAmount.IsZero() &&
		q.CommissionAmount.IsZero()
}

// MakingFormula defines the interface for implementing the formula to derive the spot price
type MakingFormula interface {
	SpotPrice(opts *FormulaOpts) (spotPrice decimal.Decimal, err error)
	OutGivenIn(opts *FormulaOpts, amountIn *uint256.Int) (*SwapQuote, error)
	InGivenOut(opts *FormulaOpts, amountOut *uint256.Int) (*SwapQuote, error)
	FormulaType() int
}

// NewStrategyFromFormula returns the strategy struct with the name
func NewStrategyFromFormula(name, description string, formula MakingFormula) *MakingStrategy {
	strategy := &MakingStrategy{
		name:        name,
		description: description,
		formula:     formula,
	}

	return strategy
}

// Name returns the short name of the MM strategy
func (ms *MakingStrategy) Name() string {
	return ms.name
}

// Description returns the long description of the MM strategy
func (ms *MakingStrategy) Description() string {
	return ms.description
}

// Formula returns the mathematical formula of the MM strategy
func (ms *MakingStrategy) Formula() MakingFormula {
	return ms.formula
}
