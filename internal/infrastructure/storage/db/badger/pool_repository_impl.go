package dbbadger

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/dgraph-io/badger/v3"
	"github.com/dgraph-io/badger/v3/options"
	log "github.com/sirupsen/logrus"
	"github.com/tdex-network/tdex-lbp/internal/core/domain"
	"github.com/timshannon/badgerhold/v4"
)

const (
	poolDbDir        = "pools"
	maxUpdateRetries = 5
)

// PoolRepository is the badger implementation of domain.PoolRepository.
type PoolRepository struct {
	store *badgerhold.Store
	done  chan struct{}
}

// NewPoolRepository opens (or creates if not exists) the badger store for
// pools under the given base data dir. An empty dir opens an in-memory store.
func NewPoolRepository(
	baseDbDir string, logger badger.Logger,
) (*PoolRepository, error) {
	var dbDir string
	if len(baseDbDir) > 0 {
		dbDir = filepath.Join(baseDbDir, poolDbDir)
	}

	store, err := createDb(dbDir, logger)
	if err != nil {
		return nil, fmt.Errorf("opening pool db: %w", err)
	}

	repo := &PoolRepository{store: store, done: make(chan struct{})}
	if len(dbDir) > 0 {
		go repo.runValueLogGC(30 * time.Minute)
	}
	return repo, nil
}

func (r *PoolRepository) AddPool(
	_ context.Context, pool *domain.Pool,
) error {
	row := newPoolRow(pool)
	if err := r.store.Insert(pool.ID, &row); err != nil {
		if errors.Is(err, badgerhold.ErrKeyExists) {
			return domain.ErrPoolAlreadyExists
		}
		return err
	}
	return nil
}

func (r *PoolRepository) GetPool(
	_ context.Context, id string,
) (*domain.Pool, error) {
	var row poolRow
	if err := r.store.Get(id, &row); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return nil, domain.ErrPoolNotFound
		}
		return nil, err
	}
	return row.toDomain()
}

func (r *PoolRepository) GetAllPools(
	_ context.Context,
) ([]domain.Pool, error) {
	var rows []poolRow
	query := (&badgerhold.Query{}).SortBy("StartTime", "ID")
	if err := r.store.Find(&rows, query); err != nil {
		return nil, err
	}

	pools := make([]domain.Pool, 0, len(rows))
	for _, row := range rows {
		pool, err := row.toDomain()
		if err != nil {
			return nil, err
		}
		pools = append(pools, *pool)
	}
	return pools, nil
}

func (r *PoolRepository) UpdatePool(
	_ context.Context, id string,
	updateFn func(p *domain.Pool) (*domain.Pool, error),
) error {
	var err error
	for i := 0; i < maxUpdateRetries; i++ {
		err = r.store.Badger().Update(func(tx *badger.Txn) error {
			var row poolRow
			if err := r.store.TxGet(tx, id, &row); err != nil {
				if errors.Is(err, badgerhold.ErrNotFound) {
					return domain.ErrPoolNotFound
				}
				return err
			}

			pool, err := row.toDomain()
			if err != nil {
				return err
			}
			updatedPool, err := updateFn(pool)
			if err != nil {
				return err
			}

			updatedRow := newPoolRow(updatedPool)
			return r.store.TxUpdate(tx, id, &updatedRow)
		})
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
		log.WithField("pool", id).Debug("update conflict, retrying")
	}
	return err
}

func (r *PoolRepository) DeletePool(_ context.Context, id string) error {
	if err := r.store.Delete(id, poolRow{}); err != nil {
		if errors.Is(err, badgerhold.ErrNotFound) {
			return domain.ErrPoolNotFound
		}
		return err
	}
	return nil
}

func (r *PoolRepository) Close() {
	close(r.done)
	r.store.Close()
}

func (r *PoolRepository) runValueLogGC(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if err := r.store.Badger().RunValueLogGC(0.5); err != nil &&
				err != badger.ErrNoRewrite {
				log.Error(err)
			}
		case <-r.done:
			return
		}
	}
}

func createDb(dbDir string, logger badger.Logger) (*badgerhold.Store, error) {
	isInMemory := len(dbDir) <= 0

	opts := badger.DefaultOptions(dbDir)
	opts.Logger = logger

	if isInMemory {
		opts.InMemory = true
	} else {
		opts.Compression = options.ZSTD
	}

	return badgerhold.Open(badgerhold.Options{
		Encoder:          badgerhold.DefaultEncode,
		Decoder:          badgerhold.DefaultDecode,
		SequenceBandwith: 100,
		Options:          opts,
	})
}
