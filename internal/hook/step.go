package hook

import (
	"encoding/json"
	"fmt"
	"io"
	"sync"

	"benchtree/internal/model"
)

// StepHook writes one JSON line per completed step, grounded on
// ben/hook/step_hook.py, which just prints json.dumps(res.to_json())
// on on_step_end.
type StepHook struct {
	NoOp

	mu sync.Mutex
	w  io.Writer
}

// NewStepHook returns a StepHook writing JSON lines to w.
func NewStepHook(w io.Writer) *StepHook { return &StepHook{w: w} }

func (h *StepHook) OnStepEnd(r *model.StepResult) {
	h.mu.Lock()
	defer h.mu.Unlock()
	b, err := json.Marshal(r)
	if err != nil {
		fmt.Fprintf(h.w, `{"error":%q}`+"\n", err.Error())
		return
	}
	h.w.Write(append(b, '\n'))
}
