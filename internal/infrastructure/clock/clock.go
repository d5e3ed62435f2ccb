package clock

import (
	"time"

	"github.com/tdex-network/tdex-lbp/internal/core/ports"
)

type systemClock struct{}

// NewSystemClock returns a clock reading the system time.
func NewSystemClock() ports.Clock {
	return systemClock{}
}

func (systemClock) Now() uint64 {
	return uint64(time.Now().Unix())
}

type fixedClock struct {
	now uint64
}

// NewFixedClock returns a clock stuck at the given timestamp.
func NewFixedClock(now uint64) ports.Clock {
	return fixedClock{now}
}

func (c fixedClock) Now() uint64 {
	return c.now
}
