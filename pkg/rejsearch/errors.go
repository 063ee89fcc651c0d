package rejsearch

import "errors"

var (
	// ErrInvalidConfig is returned before any worker starts when the
	// configuration or field descriptor cannot be searched.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrInvalidSeed is returned when seed bytes do not decode to exactly
	// SeedSize bytes.
	ErrInvalidSeed = errors.New("invalid seed")

	// ErrWorkerFailed wraps a failure inside a search worker.
	ErrWorkerFailed = errors.New("search worker failed")

	// ErrMismatch is returned by Verify when a replayed stream does not
	// reproduce a reported rejection.
	ErrMismatch = errors.New("rejection does not replay")
)
