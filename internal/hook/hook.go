// Package hook implements the Hook Bus (spec.md §4.7 C8): lifecycle
// fan-out to observers at each of {test, plan, unit, step} x
// {start, end}, synchronous and in registration order.
//
// Grounded on ben/hook/hook.py's on_<level>_<start|end> naming
// convention and on smilemakc-mbflow's ObserverManager, which notifies
// a list of observers under a lock and recovers from per-observer
// panics so one misbehaving hook cannot abort the run.
package hook

import "benchtree/internal/model"

// Hook observes the lifecycle of a test run. Start callbacks receive
// the spec object being entered; End callbacks receive the finalized
// result object. Implementations must not panic; the Bus recovers and
// logs if they do, but a well-behaved Hook should not rely on that.
type Hook interface {
	OnTestStart(spec any)
	OnTestEnd(res *model.TestResult)
	OnPlanStart(spec any)
	OnPlanEnd(res *model.PlanResult)
	OnUnitStart(spec any)
	OnUnitEnd(res *model.UnitResult)
	OnStepStart(spec any)
	OnStepEnd(res *model.StepResult)
}

// NoOp is embeddable by hooks that only care about a subset of the
// lifecycle edges, mirroring ben/hook/hook.py's no-op base class.
type NoOp struct{}

func (NoOp) OnTestStart(any)               {}
func (NoOp) OnTestEnd(*model.TestResult)   {}
func (NoOp) OnPlanStart(any)               {}
func (NoOp) OnPlanEnd(*model.PlanResult)   {}
func (NoOp) OnUnitStart(any)               {}
func (NoOp) OnUnitEnd(*model.UnitResult)   {}
func (NoOp) OnStepStart(any)               {}
func (NoOp) OnStepEnd(*model.StepResult)   {}
