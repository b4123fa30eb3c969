// Package driver defines the pluggable transport contract (spec.md
// §4.8 C2) and a handful of built-in implementations: HTTP, WebSocket,
// and a mock/echo driver for tests and dry runs.
package driver

import "context"

// Driver is the pluggable transport a Step Executor invokes. Do is the
// only operation permitted to block on I/O; it may return an error for
// a transport-level failure, and must propagate ctx cancellation
// rather than swallow it (spec.md §4.2).
type Driver interface {
	Name(req any) string
	Do(ctx context.Context, req any) (any, error)
}

// Constructor builds a Driver from its rendered args map.
type Constructor func(args map[string]any) (Driver, error)
