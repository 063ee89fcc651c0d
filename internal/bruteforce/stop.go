package bruteforce

import "sync/atomic"

// Stop is the signal shared by all workers of one run. It is only a
// liveness hint: it guards no other data, so plain atomic loads suffice.
type Stop struct {
	flag atomic.Bool
}

// Stopped reports whether the run should end. Workers check it once per
// outer iteration.
func (s *Stop) Stopped() bool {
	return s.flag.Load()
}

// Trigger sets the signal and reports whether this call was the one that
// set it. Exactly one caller per run ever sees true, so the winner is the
// only worker allowed to publish a result.
func (s *Stop) Trigger() bool {
	return s.flag.CompareAndSwap(false, true)
}

// Halt sets the signal without claiming the result, e.g. on cancellation
// or when a worker fails.
func (s *Stop) Halt() {
	s.flag.Store(true)
}
