package rejsearch

import "fmt"

// DefaultPRGIterations is the number of chunks drawn from each seed before a
// fresh one is requested.
const DefaultPRGIterations = 100000

// Config holds the parameters of one search run. It is passed by value and
// never modified by the engine.
type Config struct {
	// Jobs is the number of parallel workers. It must be at least 1.
	Jobs int

	// PRGIterations is the number of candidates drawn per seed. It only
	// affects how seeds are amortized, never whether a rejection is found.
	PRGIterations int

	// Custom and Binder are the PRG context strings. Both are empty for
	// the standard search.
	Custom []byte
	Binder []byte
}

// DefaultConfig returns a single-worker configuration with the default
// iteration count and empty PRG context.
func DefaultConfig() Config {
	return Config{
		Jobs:          1,
		PRGIterations: DefaultPRGIterations,
	}
}

// Validate rejects values that would make the search spawn no workers or
// draw no candidates.
func (c Config) Validate() error {
	if c.Jobs < 1 {
		return fmt.Errorf("%w: jobs must be at least 1, got %d", ErrInvalidConfig, c.Jobs)
	}
	if c.PRGIterations < 1 {
		return fmt.Errorf("%w: prg iterations must be at least 1, got %d", ErrInvalidConfig, c.PRGIterations)
	}
	return nil
}
