package domain

import "context"

// PoolRepository defines the abstraction for Pool
type PoolRepository interface {
	// AddPool stores a new pool, failing with ErrPoolAlreadyExists if the id
	// is already taken.
	AddPool(ctx context.Context, pool *Pool) error
	// GetPool returns the pool with the given id or ErrPoolNotFound.
	GetPool(ctx context.Context, id string) (*Pool, error)
	// GetAllPools returns all the stored pools.
	GetAllPools(ctx context.Context) ([]Pool, error)
	// UpdatePool applies updateFn to the pool with the given id and stores
	// the result. The whole operation is atomic.
	UpdatePool(
		ctx context.Context, id string,
		updateFn func(p *Pool) (*Pool, error),
	) error
	// DeletePool removes the pool with the given id.
	DeletePool(ctx context.Context, id string) error
}
