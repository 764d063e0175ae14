package service

import "errors"

// Sentinel kinds for service errors.
var (
	// ErrValidation marks rejected input; handlers map it to 400 before
	// any store call happens.
	ErrValidation = errors.New("validation failed")

	// ErrNotStarted guards operations on a service that was never started.
	ErrNotStarted = errors.New("service not started")
)
