package hook

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"benchtree/internal/model"
)

type recordingHook struct {
	NoOp
	order  *[]string
	name   string
	panics bool
}

func (h recordingHook) OnTestStart(spec any) {
	if h.panics {
		panic("boom")
	}
	*h.order = append(*h.order, h.name)
}

func TestBusNotifiesInRegistrationOrder(t *testing.T) {
	var order []string
	bus := NewBus(nil)
	bus.Register(recordingHook{order: &order, name: "first"})
	bus.Register(recordingHook{order: &order, name: "second"})

	bus.TestStart("spec")
	assert.Equal(t, []string{"first", "second"}, order)
}

func TestBusRecoversFromHookPanicAndContinues(t *testing.T) {
	var order []string
	bus := NewBus(nil)
	bus.Register(recordingHook{order: &order, name: "broken", panics: true})
	bus.Register(recordingHook{order: &order, name: "survivor"})

	assert.NotPanics(t, func() { bus.TestStart("spec") })
	assert.Equal(t, []string{"survivor"}, order)
}

func TestBusStepEndPassesResultThrough(t *testing.T) {
	var got *model.StepResult
	bus := NewBus(nil)
	bus.Register(stepCapture{dest: &got})

	r := &model.StepResult{Code: "OK"}
	bus.StepEnd(r)
	if got == nil || got.Code != "OK" {
		t.Fatalf("expected hook to observe StepResult, got %+v", got)
	}
}

type stepCapture struct {
	NoOp
	dest **model.StepResult
}

func (s stepCapture) OnStepEnd(r *model.StepResult) { *s.dest = r }
