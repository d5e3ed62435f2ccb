package ports

// Clock returns the current time as a unix timestamp in seconds. Pool
// weights are always computed at the time it returns.
type Clock interface {
	Now() uint64
}
