package application

import (
	"context"

	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-lbp/internal/core/domain"
	"github.com/tdex-network/tdex-lbp/internal/core/ports"
	"github.com/tdex-network/tdex-lbp/pkg/mathutil"
	"github.com/tdex-network/tdex-lbp/pkg/stats"
	"golang.org/x/sync/errgroup"
)

const (
	OpCreatePool        = "create_pool"
	OpGetPool           = "get_pool"
	OpListPools         = "list_pools"
	OpSimulate          = "simulate"
	OpReverseSimulate   = "reverse_simulate"
	OpSwap              = "swap"
	OpProvideLiquidity  = "provide_liquidity"
	OpWithdrawLiquidity = "withdraw_liquidity"
	OpUpdatePoolConfig  = "update_pool_config"
	OpDeletePool        = "delete_pool"
)

// PoolService defines the methods of the application layer for managing and
// trading on liquidity bootstrapping pools.
type PoolService interface {
	CreatePool(ctx context.Context, req CreatePoolReq) (*PoolInfo, error)
	GetPool(ctx context.Context, poolID string) (*PoolInfo, error)
	ListPools(ctx context.Context) ([]PoolInfo, error)
	Simulate(ctx context.Context, req SimulateReq) (*SimulationInfo, error)
	ReverseSimulate(
		ctx context.Context, req SimulateReq,
	) (*SimulationInfo, error)
	Swap(ctx context.Context, req SwapReq) (*SwapInfo, error)
	ProvideLiquidity(
		ctx context.Context, req ProvideLiquidityReq,
	) (*LiquidityInfo, error)
	WithdrawLiquidity(
		ctx context.Context, req WithdrawLiquidityReq,
	) (*LiquidityInfo, error)
	UpdatePoolConfig(
		ctx context.Context, req UpdatePoolConfigReq,
	) (*PoolInfo, error)
	DeletePool(ctx context.Context, poolID string) error
}

type poolService struct {
	poolRepository        domain.PoolRepository
	clock                 ports.Clock
	stats                 *stats.Collector
	defaultCommissionRate string
}

// NewPoolService is a constructor function for PoolService. The collector is
// optional.
func NewPoolService(
	poolRepository domain.PoolRepository,
	clock ports.Clock,
	collector *stats.Collector,
	defaultCommissionRate string,
) PoolService {
	return &poolService{
		poolRepository:        poolRepository,
		clock:                 clock,
		stats:                 collector,
		defaultCommissionRate: defaultCommissionRate,
	}
}

func (s *poolService) CreatePool(
	ctx context.Context, req CreatePoolReq,
) (info *PoolInfo, err error) {
	defer func() { s.stats.Observe(OpCreatePool, err) }()

	if err = req.validate(); err != nil {
		return
	}

	now := s.clock.Now()
	if req.StartTime < now {
		err = domain.ErrPoolStartInPast
		return
	}

	commissionRate := req.CommissionRate
	if commissionRate == "" {
		commissionRate = s.defaultCommissionRate
	}

	var assets [2]domain.WeightedAsset
	for i, a := range req.Assets {
		assets[i] = domain.WeightedAsset{
			ID:          a.Asset,
			StartWeight: a.StartWeight,
			EndWeight:   a.EndWeight,
		}
	}

	pool, err := domain.NewPool(
		assets, req.StartTime, req.EndTime, commissionRate, req.Description,
	)
	if err != nil {
		return
	}
	if err = s.poolRepository.AddPool(ctx, pool); err != nil {
		return
	}

	log.WithFields(log.Fields{
		"pool":       pool.ID,
		"assets":     []string{pool.Assets[0].ID, pool.Assets[1].ID},
		"start_time": pool.StartTime,
		"end_time":   pool.EndTime,
	}).Info("pool created")

	return newPoolInfo(pool, now)
}

func (s *poolService) GetPool(
	ctx context.Context, poolID string,
) (info *PoolInfo, err error) {
	defer func() { s.stats.Observe(OpGetPool, err) }()

	pool, err := s.poolRepository.GetPool(ctx, poolID)
	if err != nil {
		return
	}
	return newPoolInfo(pool, s.clock.Now())
}

func (s *poolService) ListPools(
	ctx context.Context,
) (infos []PoolInfo, err error) {
	defer func() { s.stats.Observe(OpListPools, err) }()

	pools, err := s.poolRepository.GetAllPools(ctx)
	if err != nil {
		return
	}

	now := s.clock.Now()
	list := make([]PoolInfo, len(pools))
	eg := &errgroup.Group{}
	for i := range pools {
		i := i
		eg.Go(func() error {
			info, err := newPoolInfo(&pools[i], now)
			if err != nil {
				return err
			}
			list[i] = *info
			return nil
		})
	}
	if err = eg.Wait(); err != nil {
		return
	}
	return list, nil
}

func (s *poolService) Simulate(
	ctx context.Context, req SimulateReq,
) (info *SimulationInfo, err error) {
	defer func() { s.stats.Observe(OpSimulate, err) }()

	if err = req.validate(); err != nil {
		return
	}
	pool, err := s.poolRepository.GetPool(ctx, req.PoolID)
	if err != nil {
		return
	}

	result, err := pool.Simulate(req.Asset.toDomain(), s.clock.Now())
	if err != nil {
		return
	}
	return newSimulationInfo(pool.ID, result), nil
}

func (s *poolService) ReverseSimulate(
	ctx context.Context, req SimulateReq,
) (info *SimulationInfo, err error) {
	defer func() { s.stats.Observe(OpReverseSimulate, err) }()

	if err = req.validate(); err != nil {
		return
	}
	pool, err := s.poolRepository.GetPool(ctx, req.PoolID)
	if err != nil {
		return
	}

	result, err := pool.ReverseSimulate(req.Asset.toDomain(), s.clock.Now())
	if err != nil {
		return
	}
	return newSimulationInfo(pool.ID, result), nil
}

func (s *poolService) Swap(
	ctx context.Context, req SwapReq,
) (info *SwapInfo, err error) {
	defer func() { s.stats.Observe(OpSwap, err) }()

	if err = req.validate(); err != nil {
		return
	}

	offer := req.Offer.toDomain()
	now := s.clock.Now()
	if err = s.poolRepository.UpdatePool(
		ctx, req.PoolID, func(p *domain.Pool) (*domain.Pool, error) {
			result, err := p.Swap(
				offer, now,
				parseOptionalDecimal(req.BeliefPrice),
				parseOptionalDecimal(req.MaxSpread),
			)
			if err != nil {
				return nil, err
			}

			info = &SwapInfo{
				PoolID:           p.ID,
				OfferAsset:       result.OfferAsset,
				OfferAmount:      formatAmount(offer.Amount),
				AskAsset:         result.AskAsset,
				ReturnAmount:     formatAmount(result.Quote.Amount),
				SpreadAmount:     formatAmount(result.Quote.SpreadAmount),
				CommissionAmount: formatAmount(result.Quote.CommissionAmount),
			}
			return p, nil
		},
	); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"pool":          info.PoolID,
		"offer_asset":   info.OfferAsset,
		"offer_amount":  info.OfferAmount,
		"ask_asset":     info.AskAsset,
		"return_amount": info.ReturnAmount,
	}).Info("swap executed")

	return info, nil
}

func (s *poolService) ProvideLiquidity(
	ctx context.Context, req ProvideLiquidityReq,
) (info *LiquidityInfo, err error) {
	defer func() { s.stats.Observe(OpProvideLiquidity, err) }()

	if err = req.validate(); err != nil {
		return
	}

	deposits := [2]domain.Asset{
		req.Deposits[0].toDomain(), req.Deposits[1].toDomain(),
	}
	slippageTolerance := parseOptionalDecimal(req.SlippageTolerance)

	if err = s.poolRepository.UpdatePool(
		ctx, req.PoolID, func(p *domain.Pool) (*domain.Pool, error) {
			share, err := p.ProvideLiquidity(deposits, slippageTolerance)
			if err != nil {
				return nil, err
			}

			info = &LiquidityInfo{
				PoolID:     p.ID,
				Share:      formatAmount(share),
				TotalShare: formatAmount(p.TotalShare),
			}
			// deposits are reported in the order of the pool assets.
			for i, a := range p.Assets {
				for _, d := range deposits {
					if d.ID == a.ID {
						info.Assets[i] = AssetAmount{a.ID, formatAmount(d.Amount)}
					}
				}
			}
			return p, nil
		},
	); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"pool":  info.PoolID,
		"share": info.Share,
	}).Info("liquidity provided")

	return info, nil
}

func (s *poolService) WithdrawLiquidity(
	ctx context.Context, req WithdrawLiquidityReq,
) (info *LiquidityInfo, err error) {
	defer func() { s.stats.Observe(OpWithdrawLiquidity, err) }()

	if err = req.validate(); err != nil {
		return
	}

	share, _ := mathutil.ParseAmount(req.Share)
	if err = s.poolRepository.UpdatePool(
		ctx, req.PoolID, func(p *domain.Pool) (*domain.Pool, error) {
			refunds, err := p.WithdrawLiquidity(share)
			if err != nil {
				return nil, err
			}

			info = &LiquidityInfo{
				PoolID:     p.ID,
				Share:      formatAmount(share),
				TotalShare: formatAmount(p.TotalShare),
			}
			for i, r := range refunds {
				info.Assets[i] = AssetAmount{r.ID, formatAmount(r.Amount)}
			}
			return p, nil
		},
	); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"pool":  info.PoolID,
		"share": info.Share,
	}).Info("liquidity withdrawn")

	return info, nil
}

func (s *poolService) UpdatePoolConfig(
	ctx context.Context, req UpdatePoolConfigReq,
) (info *PoolInfo, err error) {
	defer func() { s.stats.Observe(OpUpdatePoolConfig, err) }()

	if err = req.validate(); err != nil {
		return
	}

	var pool *domain.Pool
	if err = s.poolRepository.UpdatePool(
		ctx, req.PoolID, func(p *domain.Pool) (*domain.Pool, error) {
			if err := p.UpdateConfig(req.EndTime, req.CommissionRate); err != nil {
				return nil, err
			}
			pool = p
			return p, nil
		},
	); err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{
		"pool":            pool.ID,
		"end_time":        pool.EndTime,
		"commission_rate": pool.CommissionRate,
	}).Info("pool config updated")

	return newPoolInfo(pool, s.clock.Now())
}

func (s *poolService) DeletePool(
	ctx context.Context, poolID string,
) (err error) {
	defer func() { s.stats.Observe(OpDeletePool, err) }()

	if err = s.poolRepository.DeletePool(ctx, poolID); err != nil {
		return
	}

	log.WithField("pool", poolID).Info("pool deleted")
	return nil
}

func newPoolInfo(pool *domain.Pool, now uint64) (*PoolInfo, error) {
	info := &PoolInfo{
		ID:             pool.ID,
		Description:    pool.Description,
		StartTime:      pool.StartTime,
		EndTime:        pool.EndTime,
		CommissionRate: pool.CommissionRate,
		TotalShare:     formatAmount(pool.TotalShare),
		Strategy:       pool.Strategy().Name(),
		StrategyInfo:   pool.Strategy().Description(),
		Status:         pool.Status(now),
		Time:           now,
	}
	for i, a := range pool.Assets {
		info.Assets[i] = PoolAssetInfo{
			Asset:       a.ID,
			Balance:     formatAmount(a.Balance),
			StartWeight: a.StartWeight,
			EndWeight:   a.EndWeight,
		}
	}

	if info.Status != domain.PoolStatusActive {
		return info, nil
	}

	weights, err := pool.Weights(now)
	if err != nil {
		return nil, err
	}
	for i, w := range weights {
		info.Assets[i].CurrentWeight = w.String()
	}

	if pool.IsEmpty() {
		return info, nil
	}
	prices, err := pool.SpotPrice(now)
	if err != nil {
		return nil, err
	}
	info.Price = &PriceInfo{
		FirstAssetPrice:  prices.FirstPrice.String(),
		SecondAssetPrice: prices.SecondPrice.String(),
	}
	return info, nil
}

func newSimulationInfo(
	poolID string, result *domain.SimulationResult,
) *SimulationInfo {
	return &SimulationInfo{
		PoolID:           poolID,
		OfferAsset:       result.OfferAsset,
		AskAsset:         result.AskAsset,
		Amount:           formatAmount(result.Quote.Amount),
		SpreadAmount:     formatAmount(result.Quote.SpreadAmount),
		CommissionAmount: formatAmount(result.Quote.CommissionAmount),
		OfferWeight:      result.OfferWeight.String(),
		AskWeight:        result.AskWeight.String(),
	}
}
