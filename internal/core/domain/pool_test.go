package domain_test

import (
	"testing"

	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"github.com/tdex-network/tdex-lbp/internal/core/domain"
	"github.com/tdex-network/tdex-lbp/pkg/marketmaking"
	"github.com/tdex-network/tdex-lbp/pkg/marketmaking/formula"
	"github.com/tdex-network/tdex-lbp/pkg/marketmaking/liquidity"
	"github.com/tdex-network/tdex-lbp/pkg/marketmaking/schedule"
	"github.com/tdex-network/tdex-lbp/pkg/marketmaking/tolerance"
	"github.com/tdex-network/tdex-lbp/pkg/mathutil"
)

const (
	nativeAsset = "uusd"
	tokenAsset  = "asset0000"
	startTime   = uint64(1_600_000_000)
	endTime     = startTime + 100
)

var none = decimal.NullDecimal{}

func some(s string) decimal.NullDecimal {
	return decimal.NullDecimal{Decimal: decimal.RequireFromString(s), Valid: true}
}

func amount(v uint64) *uint256.Int {
	return uint256.NewInt(v)
}

func newBalancedPool(t *testing.T) *domain.Pool {
	p, err := domain.NewPool(
		[2]domain.WeightedAsset{
			{ID: nativeAsset, StartWeight: 1, EndWeight: 1},
			{ID: tokenAsset, StartWeight: 1, EndWeight: 1},
		},
		startTime, endTime, "0.0015", "",
	)
	require.NoError(t, err)

	share, err := p.ProvideLiquidity([2]domain.Asset{
		{ID: tokenAsset, Amount: amount(20_000_000_000)},
		{ID: nativeAsset, Amount: amount(30_000_000_000)},
	}, none)
	require.NoError(t, err)
	require.Equal(t, uint64(24_494_897_427), share.Uint64())
	return p
}

func newWeightedPool(t *testing.T) *domain.Pool {
	p, err := domain.NewPool(
		[2]domain.WeightedAsset{
			{ID: nativeAsset, StartWeight: 1, EndWeight: 30},
			{ID: tokenAsset, StartWeight: 49, EndWeight: 20},
		},
		startTime, endTime, "0.0015", "token sale",
	)
	require.NoError(t, err)

	_, err = p.ProvideLiquidity([2]domain.Asset{
		{ID: nativeAsset, Amount: amount(1_000_000_000)},
		{ID: tokenAsset, Amount: amount(49_000_000_000)},
	}, none)
	require.NoError(t, err)
	return p
}

func TestNewPool(t *testing.T) {
	t.Parallel()

	p, err := domain.NewPool(
		[2]domain.WeightedAsset{
			{ID: nativeAsset, StartWeight: 1, EndWeight: 30},
			{ID: tokenAsset, StartWeight: 49, EndWeight: 20},
		},
		startTime, endTime, "0.00150", "token sale",
	)
	require.NoError(t, err)
	require.NotNil(t, p)
	require.NotEmpty(t, p.ID)
	require.Equal(t, "0.0015", p.CommissionRate)
	require.Equal(t, "token sale", p.Description)
	require.True(t, p.TotalShare.IsZero())
	require.True(t, p.IsEmpty())
	require.Equal(t, "weighted", p.Strategy().Name())
	require.Equal(t, formula.WeightedReservesType, p.Strategy().Formula().FormulaType())
	for _, a := range p.Assets {
		require.True(t, a.Balance.IsZero())
	}
}

func TestFailingNewPool(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		assets         [2]domain.WeightedAsset
		startTime      uint64
		endTime        uint64
		commissionRate string
		expectedError  error
	}{
		{
			name: "empty_asset",
			assets: [2]domain.WeightedAsset{
				{ID: "", StartWeight: 1, EndWeight: 1},
				{ID: tokenAsset, StartWeight: 1, EndWeight: 1},
			},
			startTime:      startTime,
			endTime:        endTime,
			commissionRate: "0.0015",
			expectedError:  domain.ErrPoolInvalidAsset,
		},
		{
			name: "duplicated_asset",
			assets: [2]domain.WeightedAsset{
				{ID: tokenAsset, StartWeight: 1, EndWeight: 1},
				{ID: tokenAsset, StartWeight: 1, EndWeight: 1},
			},
			startTime:      startTime,
			endTime:        endTime,
			commissionRate: "0.0015",
			expectedError:  domain.ErrPoolDuplicatedAsset,
		},
		{
			name: "zero_start_weight",
			assets: [2]domain.WeightedAsset{
				{ID: nativeAsset, StartWeight: 0, EndWeight: 1},
				{ID: tokenAsset, StartWeight: 1, EndWeight: 1},
			},
			startTime:      startTime,
			endTime:        endTime,
			commissionRate: "0.0015",
			expectedError:  schedule.ErrZeroWeight,
		},
		{
			name: "zero_end_weight",
			assets: [2]domain.WeightedAsset{
				{ID: nativeAsset, StartWeight: 1, EndWeight: 1},
				{ID: tokenAsset, StartWeight: 1, EndWeight: 0},
			},
			startTime:      startTime,
			endTime:        endTime,
			commissionRate: "0.0015",
			expectedError:  schedule.ErrZeroWeight,
		},
		{
			name: "end_equal_to_start",
			assets: [2]domain.WeightedAsset{
				{ID: nativeAsset, StartWeight: 1, EndWeight: 1},
				{ID: tokenAsset, StartWeight: 1, EndWeight: 1},
			},
			startTime:      startTime,
			endTime:        startTime,
			commissionRate: "0.0015",
			expectedError:  schedule.ErrInvalidWindow,
		},
		{
			name: "commission_rate_too_high",
			assets: [2]domain.WeightedAsset{
				{ID: nativeAsset, StartWeight: 1, EndWeight: 1},
				{ID: tokenAsset, StartWeight: 1, EndWeight: 1},
			},
			startTime:      startTime,
			endTime:        endTime,
			commissionRate: "1",
			expectedError:  domain.ErrPoolInvalidCommissionRate,
		},
		{
			name: "malformed_commission_rate",
			assets: [2]domain.WeightedAsset{
				{ID: nativeAsset, StartWeight: 1, EndWeight: 1},
				{ID: tokenAsset, StartWeight: 1, EndWeight: 1},
			},
			startTime:      startTime,
			endTime:        endTime,
			commissionRate: "0,15",
			expectedError:  domain.ErrPoolInvalidCommissionRate,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p, err := domain.NewPool(
				tt.assets, tt.startTime, tt.endTime, tt.commissionRate, "",
			)
			require.ErrorIs(t, err, tt.expectedError)
			require.Nil(t, p)
		})
	}
}

func TestPoolWeights(t *testing.T) {
	t.Parallel()

	p := newWeightedPool(t)

	weights, err := p.Weights(startTime + 50)
	require.NoError(t, err)
	require.Equal(t, "15.5", weights[0].String())
	require.Equal(t, "34.5", weights[1].String())

	weights, err = p.Weights(endTime)
	require.NoError(t, err)
	require.Equal(t, "30", weights[0].String())
	require.Equal(t, "20", weights[1].String())

	_, err = p.Weights(startTime - 1)
	require.ErrorIs(t, err, schedule.ErrNotStarted)
	_, err = p.Weights(endTime + 1)
	require.ErrorIs(t, err, schedule.ErrFinished)

	require.Equal(t, domain.PoolStatusPending, p.Status(startTime-1))
	require.Equal(t, domain.PoolStatusActive, p.Status(startTime))
	require.Equal(t, domain.PoolStatusActive, p.Status(endTime))
	require.Equal(t, domain.PoolStatusFinished, p.Status(endTime+1))
}

func TestPoolSpotPrice(t *testing.T) {
	t.Parallel()

	p := newBalancedPool(t)
	require.Equal(t, "balanced", p.Strategy().Name())
	require.Equal(t, formula.BalancedReservesType, p.Strategy().Formula().FormulaType())

	prices, err := p.SpotPrice(startTime)
	require.NoError(t, err)
	require.True(t, decimal.RequireFromString("1.5").Equal(prices.SecondPrice))
	require.True(t, prices.FirstPrice.LessThan(decimal.RequireFromString("0.666666666666666667")))
	require.True(t, prices.FirstPrice.GreaterThan(decimal.RequireFromString("0.666666666666666666")))

	empty, err := domain.NewPool(
		[2]domain.WeightedAsset{
			{ID: nativeAsset, StartWeight: 1, EndWeight: 1},
			{ID: tokenAsset, StartWeight: 1, EndWeight: 1},
		},
		startTime, endTime, "0.0015", "",
	)
	require.NoError(t, err)
	_, err = empty.SpotPrice(startTime)
	require.ErrorIs(t, err, domain.ErrEmptyPool)
}

func TestPoolSimulate(t *testing.T) {
	t.Parallel()

	t.Run("balanced", func(t *testing.T) {
		t.Parallel()

		p := newBalancedPool(t)

		result, err := p.Simulate(
			domain.Asset{ID: nativeAsset, Amount: amount(1_500_000_000)}, startTime,
		)
		require.NoError(t, err)
		require.Equal(t, nativeAsset, result.OfferAsset)
		require.Equal(t, tokenAsset, result.AskAsset)
		require.Equal(t, uint64(950_952_381), result.Quote.Amount.Uint64())
		require.Equal(t, uint64(47_619_048), result.Quote.SpreadAmount.Uint64())
		require.Equal(t, uint64(1_428_571), result.Quote.CommissionAmount.Uint64())

		reverse, err := p.ReverseSimulate(
			domain.Asset{ID: tokenAsset, Amount: amount(950_952_381)}, startTime,
		)
		require.NoError(t, err)
		require.Equal(t, nativeAsset, reverse.OfferAsset)
		require.Equal(t, tokenAsset, reverse.AskAsset)
		require.Equal(t, uint64(1_500_000_002), reverse.Quote.Amount.Uint64())

		zero, err := p.Simulate(
			domain.Asset{ID: nativeAsset, Amount: amount(0)}, startTime,
		)
		require.NoError(t, err)
		require.True(t, zero.Quote.IsZero())
	})

	t.Run("weighted", func(t *testing.T) {
		t.Parallel()

		p := newWeightedPool(t)
		queryTime := startTime + 50
		offer := amount(10_000_000)

		result, err := p.Simulate(
			domain.Asset{ID: nativeAsset, Amount: offer}, queryTime,
		)
		require.NoError(t, err)

		expected, err := formula.WeightedReserves{}.OutGivenIn(
			&marketmaking.FormulaOpts{
				BalanceIn:      amount(1_000_000_000),
				BalanceOut:     amount(49_000_000_000),
				WeightIn:       decimal.RequireFromString("15.5"),
				WeightOut:      decimal.RequireFromString("34.5"),
				CommissionRate: decimal.RequireFromString("0.0015"),
			},
			offer,
		)
		require.NoError(t, err)
		require.Equal(t, expected, result.Quote)
		require.Equal(t, "15.5", result.OfferWeight.String())
		require.Equal(t, "34.5", result.AskWeight.String())
	})

	failingTests := []struct {
		name          string
		asset         string
		queryTime     uint64
		expectedError error
	}{
		{"unknown_asset", "uluna", startTime, domain.ErrInvalidAssetSelector},
		{"sale_not_started", nativeAsset, startTime - 1, schedule.ErrNotStarted},
		{"sale_finished", nativeAsset, endTime + 1, schedule.ErrFinished},
	}

	for _, tt := range failingTests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newWeightedPool(t)
			a := domain.Asset{ID: tt.asset, Amount: amount(1000)}

			_, err := p.Simulate(a, tt.queryTime)
			require.ErrorIs(t, err, tt.expectedError)
			_, err = p.ReverseSimulate(a, tt.queryTime)
			require.ErrorIs(t, err, tt.expectedError)
		})
	}

	p := newBalancedPool(t)
	_, err := p.ReverseSimulate(
		domain.Asset{ID: tokenAsset, Amount: amount(20_000_000_000)}, startTime,
	)
	require.ErrorIs(t, err, formula.ErrInsufficientLiquidity)
}

func TestPoolSwap(t *testing.T) {
	t.Parallel()

	offer := domain.Asset{ID: nativeAsset, Amount: amount(1_500_000_000)}

	t.Run("updates balances", func(t *testing.T) {
		t.Parallel()

		p := newBalancedPool(t)

		result, err := p.Swap(offer, startTime, some("1.5"), some("0.05"))
		require.NoError(t, err)
		require.Equal(t, uint64(950_952_381), result.Quote.Amount.Uint64())
		require.Equal(t, uint64(31_500_000_000), p.Assets[0].Balance.Uint64())
		require.Equal(t, uint64(19_049_047_619), p.Assets[1].Balance.Uint64())
		require.Equal(t, uint64(24_494_897_427), p.TotalShare.Uint64())
	})

	failingTests := []struct {
		name          string
		offer         domain.Asset
		queryTime     uint64
		beliefPrice   decimal.NullDecimal
		maxSpread     decimal.NullDecimal
		expectedError error
	}{
		{
			name:          "belief_price_spread_exceeded",
			offer:         offer,
			queryTime:     startTime,
			beliefPrice:   some("1.5"),
			maxSpread:     some("0.01"),
			expectedError: tolerance.ErrMaxSpreadExceeded,
		},
		{
			name:          "max_spread_exceeded",
			offer:         offer,
			queryTime:     startTime,
			beliefPrice:   none,
			maxSpread:     some("0.01"),
			expectedError: tolerance.ErrMaxSpreadExceeded,
		},
		{
			name:          "zero_amount",
			offer:         domain.Asset{ID: nativeAsset, Amount: amount(0)},
			queryTime:     startTime,
			expectedError: domain.ErrZeroAmount,
		},
		{
			name:          "unknown_asset",
			offer:         domain.Asset{ID: "uluna", Amount: amount(1)},
			queryTime:     startTime,
			expectedError: domain.ErrInvalidAssetSelector,
		},
		{
			name:          "sale_finished",
			offer:         offer,
			queryTime:     endTime + 1,
			expectedError: schedule.ErrFinished,
		},
	}

	for _, tt := range failingTests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newBalancedPool(t)

			_, err := p.Swap(tt.offer, tt.queryTime, tt.beliefPrice, tt.maxSpread)
			require.ErrorIs(t, err, tt.expectedError)
			require.Equal(t, uint64(30_000_000_000), p.Assets[0].Balance.Uint64())
			require.Equal(t, uint64(20_000_000_000), p.Assets[1].Balance.Uint64())
		})
	}
}

func TestPoolLiquidity(t *testing.T) {
	t.Parallel()

	p := newBalancedPool(t)
	_, err := p.Swap(
		domain.Asset{ID: nativeAsset, Amount: amount(1_500_000_000)},
		startTime, none, none,
	)
	require.NoError(t, err)

	share, err := p.ProvideLiquidity([2]domain.Asset{
		{ID: nativeAsset, Amount: amount(3_150_000_000)},
		{ID: tokenAsset, Amount: amount(1_904_904_762)},
	}, some("0.005"))
	require.NoError(t, err)
	require.Equal(t, uint64(2_449_489_742), share.Uint64())
	require.Equal(t, uint64(26_944_387_169), p.TotalShare.Uint64())
	require.Equal(t, uint64(34_650_000_000), p.Assets[0].Balance.Uint64())
	require.Equal(t, uint64(20_953_952_381), p.Assets[1].Balance.Uint64())

	refunds, err := p.WithdrawLiquidity(share)
	require.NoError(t, err)
	require.Equal(t, nativeAsset, refunds[0].ID)
	require.Equal(t, tokenAsset, refunds[1].ID)

	all, err := p.WithdrawLiquidity(new(uint256.Int).Set(p.TotalShare))
	require.NoError(t, err)
	require.True(t, p.TotalShare.IsZero())
	require.True(t, p.IsEmpty())
	require.Equal(t, uint64(34_650_000_000), refunds[0].Amount.Uint64()+all[0].Amount.Uint64())
	require.Equal(t, uint64(20_953_952_381), refunds[1].Amount.Uint64()+all[1].Amount.Uint64())
}

func TestFailingPoolLiquidity(t *testing.T) {
	t.Parallel()

	max := mathutil.MaxAmount()

	tests := []struct {
		name          string
		deposits      [2]domain.Asset
		slippage      decimal.NullDecimal
		expectedError error
	}{
		{
			name: "unknown_asset",
			deposits: [2]domain.Asset{
				{ID: nativeAsset, Amount: amount(100)},
				{ID: "uluna", Amount: amount(100)},
			},
			expectedError: domain.ErrInvalidAssetSelector,
		},
		{
			name: "same_asset_twice",
			deposits: [2]domain.Asset{
				{ID: nativeAsset, Amount: amount(100)},
				{ID: nativeAsset, Amount: amount(100)},
			},
			expectedError: domain.ErrInvalidAssetSelector,
		},
		{
			name: "zero_deposit",
			deposits: [2]domain.Asset{
				{ID: nativeAsset, Amount: amount(0)},
				{ID: tokenAsset, Amount: amount(100)},
			},
			expectedError: domain.ErrZeroAmount,
		},
		{
			name: "slippage_exceeded",
			deposits: [2]domain.Asset{
				{ID: nativeAsset, Amount: amount(3_300_000_000)},
				{ID: tokenAsset, Amount: amount(2_000_000_000)},
			},
			slippage:      some("0.05"),
			expectedError: tolerance.ErrMaxSlippageExceeded,
		},
		{
			name: "no_share_minted",
			deposits: [2]domain.Asset{
				{ID: nativeAsset, Amount: amount(1)},
				{ID: tokenAsset, Amount: amount(1)},
			},
			expectedError: domain.ErrZeroShare,
		},
		{
			name: "balance_overflow",
			deposits: [2]domain.Asset{
				{ID: nativeAsset, Amount: max},
				{ID: tokenAsset, Amount: max},
			},
			expectedError: mathutil.ErrOverflow,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			p := newBalancedPool(t)

			_, err := p.ProvideLiquidity(tt.deposits, tt.slippage)
			require.ErrorIs(t, err, tt.expectedError)
			require.Equal(t, uint64(24_494_897_427), p.TotalShare.Uint64())
		})
	}

	p := newBalancedPool(t)

	_, err := p.WithdrawLiquidity(amount(0))
	require.ErrorIs(t, err, domain.ErrZeroAmount)

	_, err = p.WithdrawLiquidity(amount(24_494_897_428))
	require.ErrorIs(t, err, liquidity.ErrBurnExceedsSupply)
}

func TestPoolUpdateConfig(t *testing.T) {
	t.Parallel()

	p := newWeightedPool(t)

	require.NoError(t, p.UpdateConfig(endTime+100, ""))
	require.Equal(t, endTime+100, p.EndTime)
	require.Equal(t, "0.0015", p.CommissionRate)

	require.NoError(t, p.UpdateConfig(0, "0.003"))
	require.Equal(t, endTime+100, p.EndTime)
	require.Equal(t, "0.003", p.CommissionRate)

	err := p.UpdateConfig(startTime, "")
	require.ErrorIs(t, err, schedule.ErrInvalidWindow)

	err = p.UpdateConfig(0, "-0.1")
	require.ErrorIs(t, err, domain.ErrPoolInvalidCommissionRate)

	err = p.UpdateConfig(endTime+200, "2")
	require.ErrorIs(t, err, domain.ErrPoolInvalidCommissionRate)
	require.Equal(t, endTime+100, p.EndTime)
}
