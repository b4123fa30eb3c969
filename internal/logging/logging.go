// Package logging configures the run's structured logger, using
// github.com/charmbracelet/log — an indirect dependency of
// jefflaplante-conduit (it logs via the standard library's log package
// directly) promoted here to a direct one.
package logging

import (
	"io"
	"os"

	"github.com/charmbracelet/log"
)

// New returns a charmbracelet/log logger writing to w (or os.Stderr if
// w is nil) at the given level ("debug", "info", "warn", "error").
func New(w io.Writer, level string) *log.Logger {
	if w == nil {
		w = os.Stderr
	}
	logger := log.NewWithOptions(w, log.Options{
		ReportTimestamp: true,
		TimeFormat:      "15:04:05",
	})
	if lvl, err := log.ParseLevel(level); err == nil {
		logger.SetLevel(lvl)
	}
	return logger
}

// HookLogger adapts a *log.Logger to the hook.Logger interface, whose
// Warn takes a string message rather than charmbracelet/log's
// interface{}.
type HookLogger struct {
	*log.Logger
}

// Warn satisfies hook.Logger.
func (h HookLogger) Warn(msg string, keyvals ...any) {
	h.Logger.Warn(msg, keyvals...)
}
