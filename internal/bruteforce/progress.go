package bruteforce

import (
	"fmt"
	"io"
	"sync/atomic"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/term"
)

// Counters accumulate the work done by all workers of a run. Workers add
// to them once per seed rather than per candidate.
type Counters struct {
	Seeds      atomic.Uint64
	Candidates atomic.Uint64
}

// Progress reports throughput to Out every interval until done is closed.
// On a terminal it keeps rewriting a single line, otherwise it writes log
// entries with the standard logger's level and formatter.
type Progress struct {
	Interval time.Duration
	Counters *Counters
	Out      io.Writer
}

type fileDescriptor interface {
	Fd() uintptr
}

var isTerminal = func(w io.Writer) bool {
	f, ok := w.(fileDescriptor)
	return ok && term.IsTerminal(int(f.Fd()))
}

// logger returns a logger that mirrors the standard one but writes to out.
func logger(out io.Writer) *log.Logger {
	std := log.StandardLogger()
	l := log.New()
	l.SetOutput(out)
	l.SetFormatter(std.Formatter)
	l.SetLevel(std.GetLevel())
	return l
}

// Run blocks until done is closed.
func (p *Progress) Run(done <-chan struct{}) {
	ticker := time.NewTicker(p.Interval)
	defer ticker.Stop()

	tty := isTerminal(p.Out)
	logs := logger(p.Out)
	start := time.Now()
	for {
		select {
		case <-done:
			if tty {
				fmt.Fprintln(p.Out)
			}
			return
		case now := <-ticker.C:
			seeds := p.Counters.Seeds.Load()
			candidates := p.Counters.Candidates.Load()
			rate := float64(candidates) / now.Sub(start).Seconds()
			if tty {
				fmt.Fprintf(p.Out, "  Tested %d candidates from %d seeds (%.0f/s)...\r", candidates, seeds, rate)
				continue
			}
			logs.WithFields(log.Fields{
				"seeds":      seeds,
				"candidates": candidates,
				"rate":       fmt.Sprintf("%.0f/s", rate),
			}).Info("search progress")
		}
	}
}
