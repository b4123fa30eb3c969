package monitor

import "benchtree/internal/registry"

// Builtins returns a registry pre-populated with the harness's built-in
// monitors.
func Builtins() *registry.Registry[Monitor] {
	r := registry.New[Monitor]()
	r.Register("process", NewProcessMonitor)
	return r
}
