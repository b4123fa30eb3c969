// Package monitor defines the background metric-collector contract
// bound to a group (spec.md §4.8 C2) and a process-resource built-in.
package monitor

import "time"

// Sample is one {time, value} observation of a monitored dimension.
type Sample struct {
	Time  time.Time
	Value float64
}

// Monitor observes the environment for the lifetime of a group. Collect
// starts any background sampler (a no-op for metric-platform-pull
// monitors with nothing to start). Stat must stop the sampler and wait
// for it to drain before returning the window [start, end].
type Monitor interface {
	Collect()
	Unit() map[string]string
	Stat(start, end time.Time) map[string][]Sample
}

// Constructor builds a Monitor from its rendered args map.
type Constructor func(args map[string]any) (Monitor, error)
