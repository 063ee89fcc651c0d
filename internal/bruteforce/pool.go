// Package bruteforce runs symmetric search workers that race towards a
// single result and stop together.
package bruteforce

import (
	"context"
	"errors"
	"fmt"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrWorkerPanic wraps a panic recovered from a worker.
var ErrWorkerPanic = errors.New("worker panicked")

// Worker is the loop run by every goroutine of a pool. It should return
// once stop is set, and return an error only for unrecoverable failures.
type Worker func(id int, stop *Stop) error

// Run starts numWorkers copies of work and waits for all of them to return.
//
// The shared stop signal is set when a worker triggers it, when a worker
// fails and when ctx is cancelled. The first worker error (including a
// recovered panic) is returned. Cancellation by itself is not an error;
// callers that care inspect ctx.Err().
func Run(ctx context.Context, numWorkers int, work Worker) error {
	if numWorkers < 1 {
		return fmt.Errorf("need at least one worker, got %d", numWorkers)
	}

	stop := &Stop{}
	release := context.AfterFunc(ctx, stop.Halt)
	defer release()

	var g errgroup.Group
	for i := 0; i < numWorkers; i++ {
		workerID := i
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("%w: worker %d: %v", ErrWorkerPanic, workerID, r)
				}
				if err != nil {
					// Take the peers down with us.
					stop.Halt()
					log.WithField("worker", workerID).WithError(err).Debug("worker failed")
				}
			}()
			log.WithField("worker", workerID).Trace("worker started")
			return work(workerID, stop)
		})
	}
	return g.Wait()
}
