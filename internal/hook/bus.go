package hook

import (
	"sync"

	"benchtree/internal/model"
)

// Logger is the minimal logging capability the Bus needs to report a
// recovered hook panic, satisfied by logging.HookLogger (an adapter
// around charmbracelet/log's *log.Logger).
type Logger interface {
	Warn(msg string, keyvals ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Bus fans lifecycle events out to registered hooks, synchronously and
// in registration order, on the calling goroutine.
type Bus struct {
	mu    sync.RWMutex
	hooks []Hook
	log   Logger
}

// NewBus returns a Bus with no hooks registered.
func NewBus(log Logger) *Bus {
	if log == nil {
		log = noopLogger{}
	}
	return &Bus{log: log}
}

// Register appends a hook, to be notified after all previously
// registered hooks.
func (b *Bus) Register(h Hook) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hooks = append(b.hooks, h)
}

func (b *Bus) notify(name string, fn func(Hook)) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, h := range b.hooks {
		b.safeCall(name, h, fn)
	}
}

func (b *Bus) safeCall(name string, h Hook, fn func(Hook)) {
	defer func() {
		if r := recover(); r != nil {
			b.log.Warn("hook panicked, continuing", "hook", name, "panic", r)
		}
	}()
	fn(h)
}

func (b *Bus) TestStart(spec any)             { b.notify("OnTestStart", func(h Hook) { h.OnTestStart(spec) }) }
func (b *Bus) TestEnd(r *model.TestResult)    { b.notify("OnTestEnd", func(h Hook) { h.OnTestEnd(r) }) }
func (b *Bus) PlanStart(spec any)             { b.notify("OnPlanStart", func(h Hook) { h.OnPlanStart(spec) }) }
func (b *Bus) PlanEnd(r *model.PlanResult)    { b.notify("OnPlanEnd", func(h Hook) { h.OnPlanEnd(r) }) }
func (b *Bus) UnitStart(spec any)             { b.notify("OnUnitStart", func(h Hook) { h.OnUnitStart(spec) }) }
func (b *Bus) UnitEnd(r *model.UnitResult)    { b.notify("OnUnitEnd", func(h Hook) { h.OnUnitEnd(r) }) }
func (b *Bus) StepStart(spec any)             { b.notify("OnStepStart", func(h Hook) { h.OnStepStart(spec) }) }
func (b *Bus) StepEnd(r *model.StepResult)    { b.notify("OnStepEnd", func(h Hook) { h.OnStepEnd(r) }) }
