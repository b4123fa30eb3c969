package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"sync"

	"benchtree/internal/model"
)

// DebugHook prints an indentation-growing tree of spec/result objects
// as the walker descends and ascends, grounded on
// ben/hook/debug_hook.py's padding-per-level tree printer.
type DebugHook struct {
	NoOp

	mu      sync.Mutex
	w       io.Writer
	depth   int
	padding string
}

// NewDebugHook returns a DebugHook writing to w, using two spaces of
// padding per level (ben/hook/debug_hook.py's default).
func NewDebugHook(w io.Writer) *DebugHook {
	return &DebugHook{w: w, padding: "  "}
}

func (h *DebugHook) indent() string { return strings.Repeat(h.padding, h.depth) }

func (h *DebugHook) dump(label string, v any) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := json.Marshal(v)
	if err != nil {
		fmt.Fprintf(h.w, "%s%s: <unmarshalable: %v>\n", h.indent(), label, err)
		return
	}
	fmt.Fprintf(h.w, "%s%s: %s\n", h.indent(), label, b)
}

func (h *DebugHook) OnTestStart(spec any) {
	h.dump("test", spec)
	h.mu.Lock()
	h.depth++
	h.mu.Unlock()
}

func (h *DebugHook) OnTestEnd(r *model.TestResult) {
	h.mu.Lock()
	if h.depth > 0 {
		h.depth--
	}
	h.mu.Unlock()
	h.dump("test.end", r)
}

func (h *DebugHook) OnPlanStart(spec any) {
	h.dump("plan", spec)
	h.mu.Lock()
	h.depth++
	h.mu.Unlock()
}

func (h *DebugHook) OnPlanEnd(r *model.PlanResult) {
	h.mu.Lock()
	if h.depth > 0 {
		h.depth--
	}
	h.mu.Unlock()
	h.dump("plan.end", r)
}

func (h *DebugHook) OnUnitStart(spec any) {
	h.dump("unit", spec)
	h.mu.Lock()
	h.depth++
	h.mu.Unlock()
}

func (h *DebugHook) OnUnitEnd(r *model.UnitResult) {
	h.mu.Lock()
	if h.depth > 0 {
		h.depth--
	}
	h.mu.Unlock()
	h.dump("unit.end", r)
}
