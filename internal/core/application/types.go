package application

import (
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-lbp/internal/core/domain"
	"github.com/tdex-network/tdex-lbp/pkg/mathutil"
)

// WeightedAsset is the configuration of one of the two assets of a new pool.
type WeightedAsset struct {
	Asset       string
	StartWeight uint64
	EndWeight   uint64
}

func (a WeightedAsset) Validate() error {
	return validation.ValidateStruct(
		&a,
		validation.Field(&a.Asset, validation.Required),
	)
}

type CreatePoolReq struct {
	Assets    [2]WeightedAsset
	StartTime uint64
	EndTime   uint64
	// Defaults to the configured commission rate if empty.
	CommissionRate string
	Description    string
}

func (r CreatePoolReq) validate() error {
	return wrapValidation(validation.ValidateStruct(
		&r,
		validation.Field(&r.Assets),
		validation.Field(&r.StartTime, validation.Required),
		validation.Field(&r.EndTime, validation.Required),
		validation.Field(&r.CommissionRate, validation.By(validateDecimal)),
	))
}

// AssetAmount is an amount of asset, expressed in base 10.
type AssetAmount struct {
	Asset  string `json:"asset"`
	Amount string `json:"amount"`
}

func (a AssetAmount) Validate() error {
	return validation.ValidateStruct(
		&a,
		validation.Field(&a.Asset, validation.Required),
		validation.Field(&a.Amount, validation.Required, validation.By(validateAmount)),
	)
}

func (a AssetAmount) toDomain() domain.Asset {
	amount, _ := mathutil.ParseAmount(a.Amount)
	return domain.Asset{ID: a.Asset, Amount: amount}
}

// SimulateReq is used both to simulate a trade offering the given asset and,
// in reverse, to simulate receiving the given net amount of it.
type SimulateReq struct {
	PoolID string
	Asset  AssetAmount
}

func (r SimulateReq) validate() error {
	return wrapValidation(validation.ValidateStruct(
		&r,
		validation.Field(&r.PoolID, validation.Required),
		validation.Field(&r.Asset),
	))
}

type SwapReq struct {
	PoolID string
	// Offered asset and amount.
	Offer AssetAmount
	// Optional price of the offered asset the trader expects to pay per unit
	// of the asked one.
	BeliefPrice string
	// Optional max accepted spread, as a fraction of the expected return.
	MaxSpread string
}

func (r SwapReq) validate() error {
	return wrapValidation(validation.ValidateStruct(
		&r,
		validation.Field(&r.PoolID, validation.Required),
		validation.Field(&r.Offer),
		validation.Field(&r.BeliefPrice, validation.By(validateDecimal)),
		validation.Field(&r.MaxSpread, validation.By(validateDecimal)),
	))
}

type ProvideLiquidityReq struct {
	PoolID   string
	Deposits [2]AssetAmount
	// Optional max deviation of the deposit ratio from the pool one.
	SlippageTolerance string
}

func (r ProvideLiquidityReq) validate() error {
	return wrapValidation(validation.ValidateStruct(
		&r,
		validation.Field(&r.PoolID, validation.Required),
		validation.Field(&r.Deposits),
		validation.Field(&r.SlippageTolerance, validation.By(validateDecimal)),
	))
}

type WithdrawLiquidityReq struct {
	PoolID string
	Share  string
}

func (r WithdrawLiquidityReq) validate() error {
	return wrapValidation(validation.ValidateStruct(
		&r,
		validation.Field(&r.PoolID, validation.Required),
		validation.Field(&r.Share, validation.Required, validation.By(validateAmount)),
	))
}

type UpdatePoolConfigReq struct {
	PoolID string
	// Zero values are left untouched.
	EndTime        uint64
	CommissionRate string
}

func (r UpdatePoolConfigReq) validate() error {
	return wrapValidation(validation.ValidateStruct(
		&r,
		validation.Field(&r.PoolID, validation.Required),
		validation.Field(&r.CommissionRate, validation.By(validateDecimal)),
	))
}

type PoolAssetInfo struct {
	Asset         string `json:"asset"`
	Balance       string `json:"balance"`
	StartWeight   uint64 `json:"start_weight"`
	EndWeight     uint64 `json:"end_weight"`
	CurrentWeight string `json:"current_weight,omitempty"`
}

// PriceInfo holds the spot price of each asset of a pool in terms of the
// other one.
type PriceInfo struct {
	FirstAssetPrice  string `json:"first_asset_price"`
	SecondAssetPrice string `json:"second_asset_price"`
}

// PoolInfo is a snapshot of a pool at a given time. Weights are set only
// while the sale is active, prices only if the pool also has liquidity.
type PoolInfo struct {
	ID             string           `json:"id"`
	Description    string           `json:"description,omitempty"`
	Assets         [2]PoolAssetInfo `json:"assets"`
	StartTime      uint64           `json:"start_time"`
	EndTime        uint64           `json:"end_time"`
	CommissionRate string           `json:"commission_rate"`
	TotalShare     string           `json:"total_share"`
	Strategy       string           `json:"strategy"`
	StrategyInfo   string           `json:"strategy_info"`
	Status         string           `json:"status"`
	Time           uint64           `json:"time"`
	Price          *PriceInfo       `json:"price,omitempty"`
}

type SimulationInfo struct {
	PoolID           string `json:"pool_id"`
	OfferAsset       string `json:"offer_asset"`
	AskAsset         string `json:"ask_asset"`
	Amount           string `json:"amount"`
	SpreadAmount     string `json:"spread_amount"`
	CommissionAmount string `json:"commission_amount"`
	OfferWeight      string `json:"offer_weight"`
	AskWeight        string `json:"ask_weight"`
}

type SwapInfo struct {
	PoolID           string `json:"pool_id"`
	OfferAsset       string `json:"offer_asset"`
	OfferAmount      string `json:"offer_amount"`
	AskAsset         string `json:"ask_asset"`
	ReturnAmount     string `json:"return_amount"`
	SpreadAmount     string `json:"spread_amount"`
	CommissionAmount string `json:"commission_amount"`
}

type LiquidityInfo struct {
	PoolID     string         `json:"pool_id"`
	Share      string         `json:"share"`
	Assets     [2]AssetAmount `json:"assets"`
	TotalShare string         `json:"total_share"`
}

func validateAmount(value interface{}) error {
	s, _ := value.(string)
	if _, err := mathutil.ParseAmount(s); err != nil {
		return err
	}
	return nil
}

func validateDecimal(value interface{}) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := decimal.NewFromString(s); err != nil {
		return ErrMalformedDecimal
	}
	return nil
}

func wrapValidation(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %s", ErrInvalidRequest, err)
}

func parseOptionalDecimal(s string) decimal.NullDecimal {
	if s == "" {
		return decimal.NullDecimal{}
	}
	d, _ := decimal.NewFromString(s)
	return decimal.NullDecimal{Decimal: d, Valid: true}
}

func formatAmount(amount *uint256.Int) string {
	return amount.ToBig().String()
}
