package driver

import (
	"context"
	"sync"
	"time"
)

// MockDriver records invocations and cycles through a configured list
// of responses, looping back to the start once exhausted. Useful for
// dry runs and for the harness's own tests.
//
// Grounded on jefflaplante-conduit's internal/ai.MockProvider, which
// records calls and replays a configured response queue the same way.
type MockDriver struct {
	mu        sync.Mutex
	responses []any
	index     int
	calls     int
	latency   time.Duration
}

// NewMockDriver is a driver.Constructor for type "mock". args.responses
// is a list of values returned in order, cycling; args.latency_ms
// simulates processing time before returning.
func NewMockDriver(args map[string]any) (Driver, error) {
	d := &MockDriver{}
	if list, ok := args["responses"].([]any); ok {
		d.responses = list
	}
	if v, ok := toInt(args["latency_ms"]); ok {
		d.latency = time.Duration(v) * time.Millisecond
	}
	return d, nil
}

// Name returns a stable display name for the invocation.
func (d *MockDriver) Name(req any) string { return "mock" }

// Do returns the next configured response, blocking for the configured
// latency, honoring ctx cancellation.
func (d *MockDriver) Do(ctx context.Context, req any) (any, error) {
	if d.latency > 0 {
		select {
		case <-time.After(d.latency):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls++

	if len(d.responses) == 0 {
		return map[string]any{"code": "OK"}, nil
	}
	resp := d.responses[d.index%len(d.responses)]
	d.index++
	return resp, nil
}

// CallCount returns the number of times Do has been called.
func (d *MockDriver) CallCount() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls
}
