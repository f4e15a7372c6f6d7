package model

import "errors"

var (
	// ErrInfeasibleInstance indicates the population exceeds the seats offered
	// over all days. Solvers must not be invoked on such instances.
	ErrInfeasibleInstance = errors.New("infeasible instance")
	// ErrInvalidInstance flags negative counts or prices.
	ErrInvalidInstance = errors.New("invalid instance")
	// ErrInvalidConfiguration is returned for unknown distributions and
	// malformed ranges.
	ErrInvalidConfiguration = errors.New("invalid configuration")
)
