package dbbadger

import (
	"fmt"

	"github.com/tdex-network/tdex-lbp/internal/core/domain"
	"github.com/tdex-network/tdex-lbp/pkg/mathutil"
)

// poolRow is the stored representation of a domain.Pool. Amounts are kept in
// base 10 so that stores don't depend on the encoding of the integer type.
type poolRow struct {
	ID             string
	Description    string
	Assets         [2]poolAssetRow
	StartTime      uint64
	EndTime        uint64
	CommissionRate string
	TotalShare     string
}

type poolAssetRow struct {
	ID          string
	Balance     string
	StartWeight uint64
	EndWeight   uint64
}

func newPoolRow(p *domain.Pool) poolRow {
	row := poolRow{
		ID:             p.ID,
		Description:    p.Description,
		StartTime:      p.StartTime,
		EndTime:        p.EndTime,
		CommissionRate: p.CommissionRate,
		TotalShare:     p.TotalShare.ToBig().String(),
	}
	for i, a := range p.Assets {
		row.Assets[i] = poolAssetRow{
			ID:          a.ID,
			Balance:     a.Balance.ToBig().String(),
			StartWeight: a.StartWeight,
			EndWeight:   a.EndWeight,
		}
	}
	return row
}

func (r poolRow) toDomain() (*domain.Pool, error) {
	totalShare, err := mathutil.ParseAmount(r.TotalShare)
	if err != nil {
		return nil, fmt.Errorf("pool %s: total share: %w", r.ID, err)
	}

	p := &domain.Pool{
		ID:             r.ID,
		Description:    r.Description,
		StartTime:      r.StartTime,
		EndTime:        r.EndTime,
		CommissionRate: r.CommissionRate,
		TotalShare:     totalShare,
	}
	for i, a := range r.Assets {
		balance, err := mathutil.ParseAmount(a.Balance)
		if err != nil {
			return nil, fmt.Errorf("pool %s: %s balance: %w", r.ID, a.ID, err)
		}
		p.Assets[i] = domain.PoolAsset{
			ID:          a.ID,
			Balance:     balance,
			StartWeight: a.StartWeight,
			EndWeight:   a.EndWeight,
		}
	}
	return p, nil
}
