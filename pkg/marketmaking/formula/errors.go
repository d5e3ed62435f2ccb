package formula

import (
	"errors"
	"fmt"

	"github.com/tdex-network/tdex-lbp/pkg/mathutil"
)

var (
	// ErrInvalidOpts ...
	ErrInvalidOpts = errors.New("formula opts must not be nil")
	// ErrBalanceTooLow is returned when any of the reserves is empty.
	ErrBalanceTooLow = fmt.Errorf(
		"reserve balance amount is too low: %w", mathutil.ErrDivisionByZero,
	)
	// ErrInvalidWeight is returned when any of the weights is not positive.
	ErrInvalidWeight = errors.New("weights must be greater than zero")
	// ErrInsufficientLiquidity is returned when a trade would drain the
	// reserve of the asked asset.
	ErrInsufficientLiquidity = errors.New("insufficient liquidity for the requested amount")
)
