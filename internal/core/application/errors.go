package application

import "errors"

var (
	// ErrInvalidRequest is the kind of every request that fails validation.
	ErrInvalidRequest = errors.New("invalid request")
	// ErrMalformedDecimal ...
	ErrMalformedDecimal = errors.New("value must be a decimal number")
)
