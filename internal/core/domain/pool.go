package domain

import (
	"github.com/google/uuid"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-lbp/pkg/marketmaking"
	"github.com/tdex-network/tdex-lbp/pkg/marketmaking/formula"
	"github.com/tdex-network/tdex-lbp/pkg/marketmaking/schedule"
	"github.com/tdex-network/tdex-lbp/pkg/marketmaking/tolerance"
	"github.com/tdex-network/tdex-lbp/pkg/mathutil"
)

const (
	PoolStatusPending  = "pending"
	PoolStatusActive   = "active"
	PoolStatusFinished = "finished"
)

var (
	balancedStrategy = marketmaking.NewStrategyFromFormula(
		"balanced", "constant product of two equally weighted reserves",
		formula.BalancedReserves{},
	)
	weightedStrategy = marketmaking.NewStrategyFromFormula(
		"weighted", "constant value of two reserves with scheduled weights",
		formula.WeightedReserves{},
	)
)

// Asset is an amount of a given asset.
type Asset struct {
	ID     string
	Amount *uint256.Int
}

// WeightedAsset is the configuration of one of the two assets of a pool.
type WeightedAsset struct {
	ID          string
	StartWeight uint64
	EndWeight   uint64
}

// PoolAsset holds the reserve of one of the two assets of a pool.
type PoolAsset struct {
	// Asset identifier, compared by exact equality.
	ID string
	// Reserve amount.
	Balance *uint256.Int
	// Weight of the asset at the start of the sale.
	StartWeight uint64
	// Weight of the asset at the end of the sale.
	EndWeight uint64
}

// Pool defines the liquidity bootstrapping pool entity, holding the reserves
// of an asset pair whose weights shift linearly over the sale window.
type Pool struct {
	ID          string
	Description string
	Assets      [2]PoolAsset
	// Unix timestamps in seconds of the sale window.
	StartTime uint64
	EndTime   uint64
	// Fraction of every trade retained by the pool, as a decimal string.
	CommissionRate string
	// Total supply of the pool shares.
	TotalShare *uint256.Int
}

// SimulationResult is the outcome of pricing a trade on a pool.
type SimulationResult struct {
	OfferAsset  string
	AskAsset    string
	Quote       *marketmaking.SwapQuote
	OfferWeight decimal.Decimal
	AskWeight   decimal.Decimal
}

// SpotPrices holds the price of each asset of a pool in terms of the other.
type SpotPrices struct {
	// how much 1 unit of the first asset is valued in the second one.
	FirstPrice decimal.Decimal
	// how much 1 unit of the second asset is valued in the first one.
	SecondPrice decimal.Decimal
}

// NewPool returns an empty pool for the given asset pair, sale window and
// commission rate.
func NewPool(
	assets [2]WeightedAsset, startTime, endTime uint64,
	commissionRate, description string,
) (*Pool, error) {
	for _, a := range assets {
		if a.ID == "" {
			return nil, ErrPoolInvalidAsset
		}
		if err := schedule.ValidateWeights(a.StartWeight, a.EndWeight); err != nil {
			return nil, err
		}
	}
	if assets[0].ID == assets[1].ID {
		return nil, ErrPoolDuplicatedAsset
	}
	if err := (schedule.Window{StartTime: startTime, EndTime: endTime}).Validate(); err != nil {
		return nil, err
	}
	rate, err := parseCommissionRate(commissionRate)
	if err != nil {
		return nil, err
	}

	var poolAssets [2]PoolAsset
	for i, a := range assets {
		poolAssets[i] = PoolAsset{
			ID:          a.ID,
			Balance:     new(uint256.Int),
			StartWeight: a.StartWeight,
			EndWeight:   a.EndWeight,
		}
	}

	return &Pool{
		ID:             uuid.New().String(),
		Description:    description,
		Assets:         poolAssets,
		StartTime:      startTime,
		EndTime:        endTime,
		CommissionRate: rate.String(),
		TotalShare:     new(uint256.Int),
	}, nil
}

// Window returns the sale window of the pool.
func (p *Pool) Window() schedule.Window {
	return schedule.Window{StartTime: p.StartTime, EndTime: p.EndTime}
}

// GetCommissionRate returns the commission rate as a decimal.
func (p *Pool) GetCommissionRate() decimal.Decimal {
	rate, _ := decimal.NewFromString(p.CommissionRate)
	return rate
}

// Balances returns a copy of the reserves of the pool.
func (p *Pool) Balances() [2]*uint256.Int {
	return [2]*uint256.Int{
		new(uint256.Int).Set(p.Assets[0].Balance),
		new(uint256.Int).Set(p.Assets[1].Balance),
	}
}

// IsEmpty returns whether any of the reserves is empty.
func (p *Pool) IsEmpty() bool {
	return p.Assets[0].Balance.IsZero() || p.Assets[1].Balance.IsZero()
}

// Status returns whether the sale is pending, active or finished at time t.
func (p *Pool) Status(t uint64) string {
	if t < p.StartTime {
		return PoolStatusPending
	}
	if t > p.EndTime {
		return PoolStatusFinished
	}
	return PoolStatusActive
}

// Weights returns the current weights of the two assets at time t.
func (p *Pool) Weights(t uint64) ([2]decimal.Decimal, error) {
	var weights [2]decimal.Decimal
	for i, a := range p.Assets {
		w, err := schedule.CurrentWeight(a.StartWeight, a.EndWeight, p.Window(), t)
		if err != nil {
			return [2]decimal.Decimal{}, err
		}
		weights[i] = w
	}
	return weights, nil
}

// Strategy returns the market making strategy the pool is priced with.
// Two constant and equal weights reduce to the exact constant product.
func (p *Pool) Strategy() *marketmaking.MakingStrategy {
	a, b := p.Assets[0], p.Assets[1]
	if a.StartWeight == a.EndWeight && b.StartWeight == b.EndWeight &&
		a.StartWeight == b.StartWeight {
		return balancedStrategy
	}
	return weightedStrategy
}

// SpotPrice returns the price of each asset in terms of the other at time t.
func (p *Pool) SpotPrice(t uint64) (*SpotPrices, error) {
	if p.IsEmpty() {
		return nil, ErrEmptyPool
	}
	weights, err := p.Weights(t)
	if err != nil {
		return nil, err
	}

	f := p.Strategy().Formula()
	first, err := f.SpotPrice(p.formulaOpts(0, 1, weights))
	if err != nil {
		return nil, err
	}
	second, err := f.SpotPrice(p.formulaOpts(1, 0, weights))
	if err != nil {
		return nil, err
	}
	return &SpotPrices{FirstPrice: first, SecondPrice: second}, nil
}

// Simulate returns the quote for offering the given asset at time t.
func (p *Pool) Simulate(offer Asset, t uint64) (*SimulationResult, error) {
	in, out, err := p.assetPair(offer.ID)
	if err != nil {
		return nil, err
	}
	weights, err := p.Weights(t)
	if err != nil {
		return nil, err
	}

	quote, err := p.Strategy().Formula().OutGivenIn(
		p.formulaOpts(in, out, weights), offer.Amount,
	)
	if err != nil {
		return nil, err
	}
	return p.simulationResult(in, out, weights, quote), nil
}

// ReverseSimulate returns the quote for receiving the given net amount of
// asset at time t.
func (p *Pool) ReverseSimulate(ask Asset, t uint64) (*SimulationResult, error) {
	out, in, err := p.assetPair(ask.ID)
	if err != nil {
		return nil, err
	}
	weights, err := p.Weights(t)
	if err != nil {
		return nil, err
	}

	quote, err := p.Strategy().Formula().InGivenOut(
		p.formulaOpts(in, out, weights), ask.Amount,
	)
	if err != nil {
		return nil, err
	}
	return p.simulationResult(in, out, weights, quote), nil
}

// Swap executes a trade offering the given asset at time t. The commission
// stays in the pool, so only the net return leaves the ask reserve.
func (p *Pool) Swap(
	offer Asset, t uint64, beliefPrice, maxSpread decimal.NullDecimal,
) (*SimulationResult, error) {
	if offer.Amount == nil || offer.Amount.IsZero() {
		return nil, ErrZeroAmount
	}

	result, err := p.Simulate(offer, t)
	if err != nil {
		return nil, err
	}

	quote := result.Quote
	returnAmount := new(uint256.Int).Add(quote.Amount, quote.CommissionAmount)
	if err := tolerance.CheckMaxSpread(
		beliefPrice, maxSpread, offer.Amount, returnAmount, quote.SpreadAmount,
	); err != nil {
		return nil, err
	}

	in, out, _ := p.assetPair(offer.ID)
	balanceIn := new(uint256.Int).Add(p.Assets[in].Balance, offer.Amount)
	if err := mathutil.CheckAmount(balanceIn); err != nil {
		return nil, err
	}
	p.Assets[in].Balance = balanceIn
	p.Assets[out].Balance = new(uint256.Int).Sub(
		p.Assets[out].Balance, quote.Amount,
	)

	return result, nil
}

// UpdateConfig changes the end of the sale window and the commission rate.
// Empty values are left untouched.
func (p *Pool) UpdateConfig(endTime uint64, commissionRate string) error {
	window := p.Window()
	rate := p.GetCommissionRate()

	if endTime > 0 {
		window.EndTime = endTime
		if err := window.Validate(); err != nil {
			return err
		}
	}
	if commissionRate != "" {
		r, err := parseCommissionRate(commissionRate)
		if err != nil {
			return err
		}
		rate = r
	}

	p.EndTime = window.EndTime
	p.CommissionRate = rate.String()
	return nil
}

// assetPair returns the indexes of the given asset and of the other one.
func (p *Pool) assetPair(asset string) (int, int, error) {
	for i, a := range p.Assets {
		if a.ID == asset {
			return i, 1 - i, nil
		}
	}
	return -1, -1, ErrInvalidAssetSelector
}

func (p *Pool) formulaOpts(
	in, out int, weights [2]decimal.Decimal,
) *marketmaking.FormulaOpts {
	return &marketmaking.FormulaOpts{
		BalanceIn:      p.Assets[in].Balance,
		BalanceOut:     p.Assets[out].Balance,
		WeightIn:       weights[in],
		WeightOut:      weights[out],
		CommissionRate: p.GetCommissionRate(),
	}
}

func (p *Pool) simulationResult(
	in, out int, weights [2]decimal.Decimal, quote *marketmaking.SwapQuote,
) *SimulationResult {
	return &SimulationResult{
		OfferAsset:  p.Assets[in].ID,
		AskAsset:    p.Assets[out].ID,
		Quote:       quote,
		OfferWeight: weights[in],
		AskWeight:   weights[out],
	}
}

func parseCommissionRate(rate string) (decimal.Decimal, error) {
	r, err := decimal.NewFromString(rate)
	if err != nil || !mathutil.IsValidRate(r) {
		return decimal.Zero, ErrPoolInvalidCommissionRate
	}
	return r, nil
}
