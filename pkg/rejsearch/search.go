package rejsearch

import (
	"context"
	cryptorand "crypto/rand"
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"sync"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/mahdiidarabi/vdaf-rejection-search/internal/bruteforce"
)

// Options tune the observable side of a search without affecting what it
// finds.
type Options struct {
	// Progress enables periodic throughput reports when positive.
	Progress time.Duration

	// ProgressOut receives progress reports: a rewritten status line on a
	// terminal, log entries otherwise. Defaults to os.Stderr.
	ProgressOut io.Writer

	// OnRejection is called exactly once, by the winning worker, before
	// the search returns.
	OnRejection func(*Rejection)
}

// Searcher runs the parallel rejection search for one field.
type Searcher struct {
	field   Field
	prg     PRG
	config  Config
	options Options
}

// NewSearcher creates a searcher for field with the default configuration
// and the sha3 generator.
func NewSearcher(field Field) *Searcher {
	return &Searcher{
		field:  field,
		prg:    PRGSha3{},
		config: DefaultConfig(),
	}
}

// WithPRG sets the generator used to expand seeds.
func (s *Searcher) WithPRG(prg PRG) *Searcher {
	s.prg = prg
	return s
}

// WithConfig sets the run configuration.
func (s *Searcher) WithConfig(config Config) *Searcher {
	s.config = config
	return s
}

// WithOptions sets progress reporting and the rejection hook. It replaces
// any hook set earlier with WithHook.
func (s *Searcher) WithOptions(options Options) *Searcher {
	s.options = options
	return s
}

// WithHook sets the function called once with the winning rejection.
func (s *Searcher) WithHook(fn func(*Rejection)) *Searcher {
	s.options.OnRejection = fn
	return s
}

// Search runs config.Jobs workers until one of them finds a rejection or
// ctx is done, and waits for every worker before returning.
//
// Returns:
//   - the rejection and run statistics on success
//   - an error wrapping ErrInvalidConfig before any worker starts if the
//     configuration, field or generator is unusable
//   - ctx.Err() if the search was cancelled first
//   - an error wrapping ErrWorkerFailed if a worker failed
func (s *Searcher) Search(ctx context.Context) (*Result, error) {
	if err := s.config.Validate(); err != nil {
		return nil, err
	}
	if err := ValidateField(s.field); err != nil {
		return nil, err
	}
	if s.prg == nil {
		return nil, fmt.Errorf("%w: no prg given", ErrInvalidConfig)
	}

	logger := log.WithFields(log.Fields{
		"field": s.field.Name(),
		"prg":   s.prg.Name(),
		"jobs":  s.config.Jobs,
	})
	logger.Debugf("starting search, %d candidates per seed", s.config.PRGIterations)

	run := &run{
		Searcher:  s,
		threshold: newThreshold(s.field),
	}

	start := time.Now()
	progressDone := make(chan struct{})
	var progressWG sync.WaitGroup
	if s.options.Progress > 0 {
		out := s.options.ProgressOut
		if out == nil {
			out = os.Stderr
		}
		p := &bruteforce.Progress{Interval: s.options.Progress, Counters: &run.counters, Out: out}
		progressWG.Add(1)
		go func() {
			defer progressWG.Done()
			p.Run(progressDone)
		}()
	}

	err := bruteforce.Run(ctx, s.config.Jobs, run.work)
	close(progressDone)
	progressWG.Wait()

	stats := Stats{
		Seeds:      run.counters.Seeds.Load(),
		Candidates: run.counters.Candidates.Load(),
		Discarded:  int(run.discarded.Load()),
		Elapsed:    time.Since(start),
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrWorkerFailed, err)
	}
	if run.winner == nil {
		if ctx.Err() != nil {
			logger.WithField("candidates", stats.Candidates).Debug("search cancelled")
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: workers stopped without a result", ErrWorkerFailed)
	}

	logger.WithFields(log.Fields{
		"worker":     run.winner.Worker,
		"candidates": stats.Candidates,
		"elapsed":    stats.Elapsed.Round(time.Millisecond),
	}).Info("rejection found")
	return &Result{Rejection: run.winner, Stats: stats}, nil
}

// Search is shorthand for NewSearcher(field).WithPRG(prg).WithConfig(config).Search(ctx).
func Search(ctx context.Context, config Config, field Field, prg PRG) (*Result, error) {
	return NewSearcher(field).WithPRG(prg).WithConfig(config).Search(ctx)
}

// run holds the state shared by the workers of one search.
type run struct {
	*Searcher
	threshold *threshold
	counters  bruteforce.Counters
	discarded atomic.Int64

	// winner is written only by the worker whose Trigger succeeded and
	// read only after every worker has returned.
	winner *Rejection
}

// work is the loop each worker runs.
func (r *run) work(id int, stop *bruteforce.Stop) error {
	var key [32]byte
	if _, err := cryptorand.Read(key[:]); err != nil {
		return fmt.Errorf("failed to seed worker rng: %w", err)
	}
	rng := rand.NewChaCha8(key)

	t := r.threshold
	stream := r.prg.NewStream(r.config.Custom)
	buf := make([]byte, t.bufferLen())
	chunk := buf[:t.size]
	binder := r.config.Binder

	var seed Seed
	for !stop.Stopped() {
		rng.Read(seed[:])
		stream.Reset(&seed, binder)

		drawn := r.config.PRGIterations
		for i := 0; i < r.config.PRGIterations; i++ {
			stream.Fill(chunk)
			if !t.rejects(buf) {
				continue
			}
			rejected := t.value(buf)
			stream.Fill(chunk)
			next := t.value(buf)
			drawn = i + 1

			r.publish(stop, &Rejection{
				Field:    r.field.Name(),
				PRG:      r.prg.Name(),
				Seed:     seed,
				Custom:   r.config.Custom,
				Binder:   binder,
				Offset:   i,
				Length:   i + 1,
				Rejected: rejected,
				Next:     next,
				Worker:   id,
			})
			break
		}
		r.counters.Seeds.Add(1)
		r.counters.Candidates.Add(uint64(drawn))
	}
	return nil
}

// publish records rej if this worker is the first to stop the run.
func (r *run) publish(stop *bruteforce.Stop, rej *Rejection) {
	if !stop.Trigger() {
		r.discarded.Add(1)
		log.WithField("worker", rej.Worker).Debug("rejection discarded, another worker finished first")
		return
	}
	r.winner = rej
	if r.options.OnRejection != nil {
		r.options.OnRejection(rej)
	}
}
