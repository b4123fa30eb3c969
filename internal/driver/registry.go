package driver

import "benchtree/internal/registry"

// Builtins returns a registry pre-populated with the harness's built-in
// drivers ("http", "websocket", "mock"). Further constructors can be
// added with Register; the registry has no separate close step.
func Builtins() *registry.Registry[Driver] {
	r := registry.New[Driver]()
	r.Register("http", NewHTTPDriver)
	r.Register("websocket", NewWebSocketDriver)
	r.Register("mock", NewMockDriver)
	return r
}
