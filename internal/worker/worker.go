// Package worker implements the Unit Worker Pool (spec.md §4.3): a
// fixed number of goroutines driving one unit's step sequence against a
// shared stopping predicate and an optional shared rate limiter.
package worker

import (
	"context"
	"sync"

	"benchtree/internal/config"
	"benchtree/internal/driver"
	"benchtree/internal/executor"
	"benchtree/internal/hook"
	"benchtree/internal/model"
	"benchtree/internal/ratelimit"
	"benchtree/internal/seed"
	"benchtree/internal/stop"
)

// Pool runs exactly Parallel workers against one unit, all gated by the
// same stopping predicate and (when Limit > 0) the same token bucket.
type Pool struct {
	Parallel int
	Limiter  *ratelimit.Limiter
	Executor *executor.Executor
	Bus      *hook.Bus

	Drivers     map[string]driver.Driver
	Seeds       map[string]seed.Seed
	SeedBinding map[string]string
	Steps       []config.StepSpec
	Var         map[string]any
	X           map[string]any
}

// New builds a Pool. limit <= 0 means unlimited (Limiter wraps a no-op).
func New(parallel, limit int, exec *executor.Executor, bus *hook.Bus) *Pool {
	return &Pool{
		Parallel: parallel,
		Limiter:  ratelimit.New(limit),
		Executor: exec,
		Bus:      bus,
	}
}

// Run spawns p.Parallel workers that each loop stop.Next() until it
// returns false, pushing every produced StepResult onto a channel with
// capacity p.Parallel (spec.md §4.3's bounded back-pressure channel),
// then closes it once every worker has exited. Run returns the channel
// as soon as the workers are started; it does not itself consume, so a
// caller-owned consumer must drain it for the workers to make progress.
func (p *Pool) Run(ctx context.Context, pred *stop.Predicate) <-chan model.StepResult {
	out := make(chan model.StepResult, p.Parallel)

	var wg sync.WaitGroup
	wg.Add(p.Parallel)
	for i := 0; i < p.Parallel; i++ {
		go func() {
			defer wg.Done()
			p.runWorker(ctx, pred, out)
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out
}

func (p *Pool) runWorker(ctx context.Context, pred *stop.Predicate, out chan<- model.StepResult) {
	for pred.Next() {
		if err := p.Limiter.Wait(ctx); err != nil {
			return
		}

		p.Bus.StepStart(nil)
		result, err := p.Executor.Execute(ctx, p.Drivers, p.Seeds, p.SeedBinding, p.Steps, p.Var, p.X)
		if err != nil {
			// Context canceled or deadline exceeded mid-invocation: the
			// stopping predicate is the sole authority over termination
			// (spec.md §5), so a worker that sees ctx die just exits
			// without emitting a partial result.
			return
		}
		p.Bus.StepEnd(&result)

		select {
		case out <- result:
		case <-ctx.Done():
			return
		}
	}
}
