package optimizer

import "errors"

var (
	// ErrNoSolution is returned by Run when no start converged.
	ErrNoSolution = errors.New("no solution found: every optimization start failed")

	// ErrStartFailed wraps the reason a single start was dropped.
	ErrStartFailed = errors.New("optimization start failed")

	// ErrInvalidBounds indicates an empty, non-positive or non-finite interval.
	ErrInvalidBounds = errors.New("invalid parameter bounds")

	// ErrInvalidTargets indicates a non-positive target frequency or Q.
	ErrInvalidTargets = errors.New("invalid optimization targets")

	// ErrInvalidConfig indicates an unusable optimizer configuration.
	ErrInvalidConfig = errors.New("invalid optimizer configuration")
)
