// Package schedule interpolates the weights of an LBP asset over the sale
// window.
package schedule

import (
	"errors"
	"math/big"

	"github.com/shopspring/decimal"
	"github.com/tdex-network/tdex-lbp/pkg/mathutil"
)

var (
	// ErrNotStarted is returned when querying a weight before the window opens.
	ErrNotStarted = errors.New("sale has not started yet")
	// ErrFinished is returned when querying a weight after the window closes.
	ErrFinished = errors.New("sale has already finished")
	// ErrInvalidWindow ...
	ErrInvalidWindow = errors.New("end time must be after start time")
	// ErrZeroWeight ...
	ErrZeroWeight = errors.New("weights must be greater than zero")
)

// Window is the time range, expressed in seconds, over which weights move
// from their start to their end value.
type Window struct {
	StartTime uint64
	EndTime   uint64
}

// Validate returns an error if the window is empty.
func (w Window) Validate() error {
	if w.EndTime <= w.StartTime {
		return ErrInvalidWindow
	}
	return nil
}

// Check returns ErrNotStarted or ErrFinished if t lies outside the window.
func (w Window) Check(t uint64) error {
	if t < w.StartTime {
		return ErrNotStarted
	}
	if t > w.EndTime {
		return ErrFinished
	}
	return nil
}

// Span returns the length of the window.
func (w Window) Span() uint64 {
	return w.EndTime - w.StartTime
}

// ValidateWeights returns ErrZeroWeight if any of the given weights is zero.
func ValidateWeights(weights ...uint64) error {
	for _, w := range weights {
		if w == 0 {
			return ErrZeroWeight
		}
	}
	return nil
}

// CurrentWeight returns the weight at time t, linearly interpolated between
// startWeight at the window start and endWeight at its end. The endpoints
// are returned exactly, the values in between are rounded toward
// startWeight at mathutil.Precision digits.
func CurrentWeight(
	startWeight, endWeight uint64, w Window, t uint64,
) (decimal.Decimal, error) {
	if err := ValidateWeights(startWeight, endWeight); err != nil {
		return decimal.Zero, err
	}
	if err := w.Validate(); err != nil {
		return decimal.Zero, err
	}
	if err := w.Check(t); err != nil {
		return decimal.Zero, err
	}

	start := decimal.NewFromBigInt(newBigUint(startWeight), 0)
	end := decimal.NewFromBigInt(newBigUint(endWeight), 0)
	if t == w.EndTime {
		return end, nil
	}
	if t == w.StartTime || startWeight == endWeight {
		return start, nil
	}

	elapsed := decimal.NewFromBigInt(newBigUint(t-w.StartTime), 0)
	span := decimal.NewFromBigInt(newBigUint(w.Span()), 0)
	delta, _ := end.Sub(start).Mul(elapsed).QuoRem(span, mathutil.Precision)

	return start.Add(delta), nil
}

func newBigUint(v uint64) *big.Int {
	return new(big.Int).SetUint64(v)
}
