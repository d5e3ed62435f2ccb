package inmemory

import (
	"context"
	"sort"
	"sync"

	"github.com/holiman/uint256"
	"github.com/tdex-network/tdex-lbp/internal/core/domain"
)

// PoolRepositoryImpl represents an in memory storage
type PoolRepositoryImpl struct {
	pools map[string]domain.Pool

	lock *sync.RWMutex
}

// NewPoolRepositoryImpl returns a new empty PoolRepositoryImpl
func NewPoolRepositoryImpl() *PoolRepositoryImpl {
	return &PoolRepositoryImpl{
		pools: map[string]domain.Pool{},
		lock:  &sync.RWMutex{},
	}
}

func (r *PoolRepositoryImpl) AddPool(_ context.Context, pool *domain.Pool) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.pools[pool.ID]; ok {
		return domain.ErrPoolAlreadyExists
	}
	r.pools[pool.ID] = copyPool(*pool)
	return nil
}

func (r *PoolRepositoryImpl) GetPool(_ context.Context, id string) (*domain.Pool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	pool, ok := r.pools[id]
	if !ok {
		return nil, domain.ErrPoolNotFound
	}
	p := copyPool(pool)
	return &p, nil
}

func (r *PoolRepositoryImpl) GetAllPools(_ context.Context) ([]domain.Pool, error) {
	r.lock.RLock()
	defer r.lock.RUnlock()

	pools := make([]domain.Pool, 0, len(r.pools))
	for _, p := range r.pools {
		pools = append(pools, copyPool(p))
	}
	sort.SliceStable(pools, func(i, j int) bool {
		if pools[i].StartTime == pools[j].StartTime {
			return pools[i].ID < pools[j].ID
		}
		return pools[i].StartTime < pools[j].StartTime
	})
	return pools, nil
}

// UpdatePool updates a pool identified by its id passing an update function.
// The stored pool is untouched if updateFn fails.
func (r *PoolRepositoryImpl) UpdatePool(
	_ context.Context,
	id string,
	updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	pool, ok := r.pools[id]
	if !ok {
		return domain.ErrPoolNotFound
	}

	current := copyPool(pool)
	updatedPool, err := updateFn(&current)
	if err != nil {
		return err
	}

	r.pools[id] = copyPool(*updatedPool)
	return nil
}

func (r *PoolRepositoryImpl) DeletePool(_ context.Context, id string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if _, ok := r.pools[id]; !ok {
		return domain.ErrPoolNotFound
	}
	delete(r.pools, id)
	return nil
}

// copyPool returns a deep copy of the given pool, so that callers never share
// amounts with the stored one.
func copyPool(p domain.Pool) domain.Pool {
	p.TotalShare = new(uint256.Int).Set(p.TotalShare)
	for i := range p.Assets {
		p.Assets[i].Balance = new(uint256.Int).Set(p.Assets[i].Balance)
	}
	return p
}
