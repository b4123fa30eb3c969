package monitor

import (
	"runtime"
	"sync"
	"time"
)

// ProcessMonitor samples the Go runtime's own resource counters on a
// fixed interval in a background goroutine.
//
// Grounded on ben/monitor/psutil_monitor.py: delay derived from
// args.seconds/100 (clamped to a sane minimum), a collect loop that
// polls a stop flag between sleeps, and a Stat that flips the flag,
// waits for the loop to drain, then returns the accumulated samples.
// Every sample in the window is returned, the first included:
// goroutine/heap counts have no warm-up artifact to discard.
type ProcessMonitor struct {
	delay time.Duration

	mu         sync.Mutex
	goroutines []Sample
	heapBytes  []Sample

	stop chan struct{}
	done chan struct{}
}

// NewProcessMonitor is a monitor.Constructor for type "process".
// args.seconds sizes the sample cadence the same way stage windows are
// sized elsewhere in the harness: seconds/100, floored at 100ms.
func NewProcessMonitor(args map[string]any) (Monitor, error) {
	delay := 100 * time.Millisecond
	if v, ok := args["seconds"]; ok {
		if seconds, ok := toFloat(v); ok && seconds > 0 {
			d := time.Duration(seconds/100*1000) * time.Millisecond
			if d > delay {
				delay = d
			}
		}
	}
	return &ProcessMonitor{delay: delay, stop: make(chan struct{}), done: make(chan struct{})}, nil
}

// Collect starts the background sampling loop.
func (m *ProcessMonitor) Collect() {
	go m.run()
}

func (m *ProcessMonitor) run() {
	defer close(m.done)
	ticker := time.NewTicker(m.delay)
	defer ticker.Stop()

	for {
		select {
		case <-m.stop:
			return
		case <-ticker.C:
			m.sample()
		}
	}
}

func (m *ProcessMonitor) sample() {
	var ms runtime.MemStats
	runtime.ReadMemStats(&ms)
	now := time.Now()

	m.mu.Lock()
	m.goroutines = append(m.goroutines, Sample{now, float64(runtime.NumGoroutine())})
	m.heapBytes = append(m.heapBytes, Sample{now, float64(ms.HeapAlloc)})
	m.mu.Unlock()
}

// Unit reports the label for each sampled dimension.
func (m *ProcessMonitor) Unit() map[string]string {
	return map[string]string{
		"Goroutines": "count",
		"HeapAlloc":  "byte",
	}
}

// Stat stops the sampler, waits for it to drain, and returns the
// samples observed within [start, end].
func (m *ProcessMonitor) Stat(start, end time.Time) map[string][]Sample {
	close(m.stop)
	<-m.done

	m.mu.Lock()
	defer m.mu.Unlock()

	return map[string][]Sample{
		"Goroutines": windowed(m.goroutines, start, end),
		"HeapAlloc":  windowed(m.heapBytes, start, end),
	}
}

func windowed(samples []Sample, start, end time.Time) []Sample {
	out := make([]Sample, 0, len(samples))
	for _, s := range samples {
		if s.Time.Before(start) || s.Time.After(end) {
			continue
		}
		out = append(out, s)
	}
	return out
}

func toFloat(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	default:
		return 0, false
	}
}
