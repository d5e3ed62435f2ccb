package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrPoolInvalidAsset ...
	ErrPoolInvalidAsset = errors.New("pool asset must not be empty")
	// ErrPoolDuplicatedAsset ...
	ErrPoolDuplicatedAsset = errors.New("pool assets must be distinct")
	// ErrPoolInvalidCommissionRate ...
	ErrPoolInvalidCommissionRate = errors.New(
		"commission rate must be a decimal in range [0, 1)",
	)
	// ErrPoolStartInPast is returned when creating a pool whose sale would
	// start before the current time.
	ErrPoolStartInPast = errors.New("start time is less than current time")
	// ErrPoolNotFound ...
	ErrPoolNotFound = errors.New("pool not found")
	// ErrPoolAlreadyExists ...
	ErrPoolAlreadyExists = errors.New("pool already exists")
	// ErrInvalidAssetSelector is returned when an asset does not belong to
	// the pool it is traded or deposited into.
	ErrInvalidAssetSelector = errors.New("wrong asset info is given")
	// ErrZeroAmount ...
	ErrZeroAmount = errors.New("amount must be greater than zero")
	// ErrZeroShare is returned when a deposit is too small to mint any share.
	ErrZeroShare = fmt.Errorf("%w: deposit mints no share", ErrZeroAmount)
	// ErrEmptyPool is returned when pricing a pool with no liquidity.
	ErrEmptyPool = errors.New("pool has no liquidity")
)
