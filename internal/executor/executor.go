// Package executor implements the Step Executor (spec.md §4.2): runs
// one step sequence once, classifies success, and records timings.
package executor

import (
	"context"
	"fmt"
	"time"

	"benchtree/internal/config"
	"benchtree/internal/driver"
	"benchtree/internal/model"
	"benchtree/internal/seed"
	"benchtree/internal/template"
)

// Executor runs a unit's step sequence once per invocation.
type Executor struct {
	Template *template.Engine
}

// New returns an Executor rendering templates with tmpl.
func New(tmpl *template.Engine) *Executor {
	return &Executor{Template: tmpl}
}

// Execute runs the per-invocation algorithm of spec.md §4.2. A non-nil
// error return means ctx was canceled (or the deadline elapsed) while
// blocked in a driver; it must be propagated, never swallowed into the
// result tree, per spec.md §4.2's final sentence.
func (e *Executor) Execute(
	ctx context.Context,
	drivers map[string]driver.Driver,
	seeds map[string]seed.Seed,
	seedBinding map[string]string,
	steps []config.StepSpec,
	varMap map[string]any,
	x map[string]any,
) (model.StepResult, error) {
	var result model.StepResult

	seedValues := make(map[string]any, len(seedBinding))
	for local, seedName := range seedBinding {
		s, ok := seeds[seedName]
		if !ok {
			result.AddErrResult(local, fmt.Errorf("no seed instance named %q", seedName))
			return result, nil
		}
		seedValues[local] = s.Pick()
	}

	for i, step := range steps {
		baseName := step.StepName(i)

		reqBindings := map[string]any{"seed": seedValues, "var": varMap, "x": x}
		renderedReq, err := e.Template.Render(step.Req, reqBindings)
		if err != nil {
			result.AddErrResult(baseName, err)
			return result, nil
		}

		drv, ok := drivers[step.Ctx]
		if !ok {
			result.AddErrResult(baseName, fmt.Errorf("no driver instance named %q", step.Ctx))
			return result, nil
		}

		name := drv.Name(renderedReq)
		if name == "" {
			name = baseName
		}

		tStart := time.Now()
		res, err := drv.Do(ctx, renderedReq)
		elapse := time.Since(tStart)
		if err != nil {
			if ctx.Err() != nil {
				return model.StepResult{}, ctx.Err()
			}
			result.AddErrResult(name, err)
			return result, nil
		}

		resBindings := map[string]any{"res": res, "seed": seedValues, "var": varMap, "x": x}
		groupBy, err := e.Template.Render(step.Res.GroupBy, resBindings)
		if err != nil {
			result.AddErrResult(name, err)
			return result, nil
		}
		success, err := e.Template.Render(step.Res.Success, resBindings)
		if err != nil {
			result.AddErrResult(name, err)
			return result, nil
		}

		code := fmt.Sprint(groupBy)
		result.AddSubStepResult(model.SubStepResult{
			Req:     renderedReq,
			Res:     res,
			Name:    name,
			Code:    code,
			Success: code == fmt.Sprint(success),
			Elapse:  elapse,
		})
	}

	return result, nil
}
