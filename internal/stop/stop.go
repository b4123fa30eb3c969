// Package stop implements the Stopping Predicate (spec.md §4.1): a
// thread-safe gate deciding whether another iteration may begin,
// bounded by wall-seconds and/or an iteration count.
//
// Grounded on ben/framework/stop.py's Stop: the counter is a single
// shared atomic that advances on every call regardless of whether the
// wall-time bound already triggered termination — an observable
// contract callers must not assume away (spec.md §9).
package stop

import (
	"sync"
	"sync/atomic"
	"time"
)

// Predicate gates iteration start across `parallel` concurrent callers.
type Predicate struct {
	seconds float64
	times   int64

	started sync.Once
	t0      time.Time
	count   atomic.Int64
}

// New constructs a Predicate bounded by seconds and/or times. If both
// are zero the predicate permits unbounded execution; the caller must
// bound it externally (e.g. via context cancellation).
func New(seconds float64, times int64) *Predicate {
	return &Predicate{seconds: seconds, times: times}
}

// Start latches t0 = now(). Idempotent: only the first call sets t0,
// and concurrent callers return only once t0 is set.
func (p *Predicate) Start() {
	p.started.Do(func() { p.t0 = time.Now() })
}

// Next atomically decides whether the caller may begin another
// iteration. The counter always advances, even on a call that returns
// false due to the wall-time bound, to keep iteration counts
// reproducible across reruns (spec.md §9).
func (p *Predicate) Next() bool {
	p.Start()

	// The counter advances on every call, even one that is about to
	// return false because the wall-time bound already elapsed.
	val := p.count.Add(1)

	if p.seconds > 0 && time.Since(p.t0).Seconds() > p.seconds {
		return false
	}
	if p.times > 0 && val > p.times {
		return false
	}
	return true
}

// IsRunning is a non-consuming read used by drains to know whether more
// items may still be produced.
func (p *Predicate) IsRunning() bool {
	if p.seconds > 0 && time.Since(p.t0).Seconds() > p.seconds {
		return false
	}
	if p.times > 0 && p.count.Load() >= p.times {
		return false
	}
	return true
}

// Count returns the number of Next() calls so far (for diagnostics/tests).
func (p *Predicate) Count() int64 { return p.count.Load() }
