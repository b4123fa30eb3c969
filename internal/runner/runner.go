// Package runner implements the Plan Runner (spec.md §4.5): executes
// one plan's groups in order, each group spawning one worker pool and
// aggregator per unit, attaching monitor samples once the group
// finishes.
package runner

import (
	"context"
	"fmt"
	"sync"
	"time"

	"benchtree/internal/aggregate"
	"benchtree/internal/config"
	"benchtree/internal/executor"
	"benchtree/internal/hook"
	"benchtree/internal/model"
	"benchtree/internal/monitor"
	"benchtree/internal/rtctx"
	"benchtree/internal/stop"
	"benchtree/internal/template"
	"benchtree/internal/worker"
)

// Runner executes plans against one directory's runtime context.
type Runner struct {
	Constant rtctx.Constant
	Template *template.Engine
	Bus      *hook.Bus
}

// New returns a Runner.
func New(constant rtctx.Constant, tmpl *template.Engine, bus *hook.Bus) *Runner {
	return &Runner{Constant: constant, Template: tmpl, Bus: bus}
}

// Run executes every group of plan in order and returns the plan's
// result. A group fails (PlanResult.IsErr) only on its own setup
// exception — a malformed monitor spec, or a parallel/limit vector
// whose length doesn't match the unit count (spec.md §9's explicit
// "do not guess intent" instruction) — never on an individual unit's
// runtime failures, which stay scoped to that UnitResult.
func (rn *Runner) Run(ctx context.Context, rc rtctx.Context, plan config.PlanSpec) *model.PlanResult {
	result := &model.PlanResult{PlanID: plan.PlanID, Name: plan.Name}

	rn.Bus.PlanStart(plan)
	defer func() { rn.Bus.PlanEnd(result) }()

	for idx, group := range plan.Group {
		ug, err := rn.runGroup(ctx, rc, idx, group, plan.Unit, plan.Monitor)
		if err != nil {
			result.IsErr = true
			result.Err = err.Error()
			return result
		}
		result.UnitGroups = append(result.UnitGroups, ug)
	}
	return result
}

func (rn *Runner) runGroup(
	ctx context.Context,
	rc rtctx.Context,
	idx int,
	group config.GroupSpec,
	units []config.UnitSpec,
	monitors map[string]config.TypeArgs,
) (*model.UnitGroup, error) {
	parallel, limit, err := resolveVectors(group, len(units))
	if err != nil {
		return nil, err
	}

	mons, err := rn.buildMonitors(rc, monitors)
	if err != nil {
		return nil, err
	}
	for _, m := range mons {
		m.Collect()
	}

	quantileKeys := group.Quantile
	ug := &model.UnitGroup{
		Idx:          idx,
		Seconds:      group.Seconds,
		Times:        group.Times,
		QuantileKeys: quantileKeys,
	}

	unitResults := make([]*model.UnitResult, len(units))
	var wg sync.WaitGroup
	startTS := time.Now()
	for i, unit := range units {
		pred := stop.New(group.Seconds, int64(group.Times))
		ur := model.NewUnitResult(unit.Name, parallel[i], limit[i], group.Seconds, group.Times, group.MaxStepSize)

		exec := executor.New(rn.Template)
		pool := worker.New(parallel[i], limit[i], exec, rn.Bus)
		pool.Drivers = rc.Drivers
		pool.Seeds = rc.Seeds
		pool.SeedBinding = unit.Seed
		pool.Steps = unit.Step
		pool.Var = rc.Var
		pool.X = rn.Constant.X

		wg.Add(1)
		go func(i int, pool *worker.Pool, ur *model.UnitResult) {
			defer wg.Done()
			rn.Bus.UnitStart(unit)
			ch := pool.Run(ctx, pred)
			agg := aggregate.New(ur, quantileKeys)
			result := agg.Run(ch)
			rn.Bus.UnitEnd(result)
			unitResults[i] = result
		}(i, pool, ur)
	}
	wg.Wait()
	endTS := time.Now()

	ug.Units = unitResults
	ug.MonitorStats = collectMonitorStats(mons, startTS, endTS)
	return ug, nil
}

// resolveVectors expands (or validates) a group's positional
// parallel/limit overrides. An empty vector defaults every unit to 1
// (parallel) or 0/unlimited (limit); a non-empty vector whose length
// doesn't match the unit count is a group setup failure, per spec.md §9.
func resolveVectors(group config.GroupSpec, numUnits int) (parallel, limit []int, err error) {
	parallel = make([]int, numUnits)
	for i := range parallel {
		parallel[i] = 1
	}
	if len(group.Parallel) > 0 {
		if len(group.Parallel) != numUnits {
			return nil, nil, fmt.Errorf("group.parallel has %d entries, want %d (one per unit)", len(group.Parallel), numUnits)
		}
		copy(parallel, group.Parallel)
	}

	limit = make([]int, numUnits)
	if len(group.Limit) > 0 {
		if len(group.Limit) != numUnits {
			return nil, nil, fmt.Errorf("group.limit has %d entries, want %d (one per unit)", len(group.Limit), numUnits)
		}
		copy(limit, group.Limit)
	}
	return parallel, limit, nil
}

func (rn *Runner) buildMonitors(rc rtctx.Context, specs map[string]config.TypeArgs) (map[string]monitor.Monitor, error) {
	out := make(map[string]monitor.Monitor, len(specs))
	bindings := map[string]any{"var": rc.Var, "x": rn.Constant.X}
	for name, spec := range specs {
		renderedArgs, err := rn.Template.RenderMap(spec.Args, bindings)
		if err != nil {
			return nil, fmt.Errorf("monitor %q: render args: %w", name, err)
		}
		m, err := rn.Constant.MonitorRegistry.Build(spec.Type, renderedArgs)
		if err != nil {
			return nil, fmt.Errorf("monitor %q: %w", name, err)
		}
		out[name] = m
	}
	return out, nil
}

func collectMonitorStats(mons map[string]monitor.Monitor, start, end time.Time) map[string]model.MonitorStat {
	if len(mons) == 0 {
		return nil
	}
	out := make(map[string]model.MonitorStat, len(mons))
	for name, m := range mons {
		series := m.Stat(start, end)
		msSeries := make(map[string][]model.MonitorPoint, len(series))
		for dim, samples := range series {
			points := make([]model.MonitorPoint, len(samples))
			for i, s := range samples {
				points[i] = model.MonitorPoint{Time: s.Time, Value: s.Value}
			}
			msSeries[dim] = points
		}
		out[name] = model.MonitorStat{Unit: m.Unit(), Series: msSeries}
	}
	return out
}

