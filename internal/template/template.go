// Package template renders the dynamically-bound YAML values that flow
// through the Test Tree Walker, Step Executor, and driver/seed/monitor
// constructors (spec.md §4.6, §4.2, §6).
//
// spec.md §1 places the full template renderer out of the execution
// core's scope ("the core only requires that it accept a bindings map
// and return a rendered structure of the same shape"); this package is
// the external collaborator that satisfies that contract. Grounded on
// smilemakc-mbflow's internal/application/executor/template.go, which
// uses github.com/expr-lang/expr for the same "evaluate an expression
// against a variable bag" shape.
package template

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"regexp"
	"strings"
	"time"

	"github.com/expr-lang/expr"
)

// Prefixes recognized on leaf strings, per spec.md §6. PrefixExec and
// PrefixLoop are evaluated exactly like PrefixEval.
const (
	PrefixEval  = '#' // evaluate an expr-lang expression
	PrefixExec  = '%' // evaluate an expr-lang expression, result returned as is
	PrefixLoop  = '!' // evaluate an expr-lang expression; the result is not checked to be a list
	PrefixShell = '$' // run the remainder as a shell command, render its trimmed stdout
)

// Engine renders template leaves against a bindings map.
type Engine struct {
	ShellTimeout time.Duration
}

// New returns an Engine with a sane default shell timeout.
func New() *Engine {
	return &Engine{ShellTimeout: 10 * time.Second}
}

// Render recursively renders value against bindings, preserving the
// shape of maps and slices and evaluating prefixed leaf strings.
func (e *Engine) Render(value any, bindings map[string]any) (any, error) {
	switch v := value.(type) {
	case string:
		return e.renderString(v, bindings)
	case map[string]any:
		out := make(map[string]any, len(v))
		for k, item := range v {
			rendered, err := e.Render(item, bindings)
			if err != nil {
				return nil, fmt.Errorf("render key %q: %w", k, err)
			}
			out[k] = rendered
		}
		return out, nil
	case []any:
		out := make([]any, len(v))
		for i, item := range v {
			rendered, err := e.Render(item, bindings)
			if err != nil {
				return nil, fmt.Errorf("render index %d: %w", i, err)
			}
			out[i] = rendered
		}
		return out, nil
	default:
		return value, nil
	}
}

// RenderMap is a convenience wrapper for the common "render a config
// args map" call shape used by driver/seed/monitor construction.
func (e *Engine) RenderMap(m map[string]any, bindings map[string]any) (map[string]any, error) {
	rendered, err := e.Render(m, bindings)
	if err != nil {
		return nil, err
	}
	out, _ := rendered.(map[string]any)
	return out, nil
}

var interpPattern = regexp.MustCompile(`\{\{([^}]+)\}\}`)

func (e *Engine) renderString(s string, bindings map[string]any) (any, error) {
	if s == "" {
		return s, nil
	}

	switch s[0] {
	case PrefixEval, PrefixExec, PrefixLoop:
		return e.eval(s[1:], bindings)
	case PrefixShell:
		return e.shell(s[1:], bindings)
	}

	if !strings.Contains(s, "{{") {
		return s, nil
	}
	var evalErr error
	out := interpPattern.ReplaceAllStringFunc(s, func(m string) string {
		expr := strings.TrimSpace(m[2 : len(m)-2])
		val, err := e.eval(expr, bindings)
		if err != nil {
			evalErr = err
			return m
		}
		return fmt.Sprint(val)
	})
	if evalErr != nil {
		return nil, evalErr
	}
	return out, nil
}

func (e *Engine) eval(expression string, bindings map[string]any) (any, error) {
	program, err := expr.Compile(expression, expr.Env(bindings), expr.AsAny())
	if err != nil {
		return nil, fmt.Errorf("compile expression %q: %w", expression, err)
	}
	result, err := expr.Run(program, bindings)
	if err != nil {
		return nil, fmt.Errorf("run expression %q: %w", expression, err)
	}
	return result, nil
}

func (e *Engine) shell(command string, bindings map[string]any) (any, error) {
	rendered, err := e.renderString(command, bindings)
	if err != nil {
		return nil, err
	}
	cmdStr, _ := rendered.(string)
	if cmdStr == "" {
		cmdStr = command
	}

	ctx, cancel := context.WithTimeout(context.Background(), e.ShellTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "sh", "-c", cmdStr)
	var out bytes.Buffer
	cmd.Stdout = &out
	if err := cmd.Run(); err != nil {
		return nil, fmt.Errorf("shell command %q: %w", cmdStr, err)
	}
	return strings.TrimSpace(out.String()), nil
}
