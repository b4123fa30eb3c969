// Package walk implements the Test Tree Walker (spec.md §4.6): a
// depth-first traversal that loads each directory's configuration
// overlays, threads variables/drivers/seeds down to its children, runs
// any plans gated by the configured plan sub-root, and builds the
// result tree.
//
// Grounded on ben/framework/framework.py's run_test/load_ctx/load_var
// static methods and its deep-merge-then-render pipeline.
package walk

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"benchtree/internal/config"
	"benchtree/internal/driver"
	"benchtree/internal/hook"
	"benchtree/internal/model"
	"benchtree/internal/rtctx"
	"benchtree/internal/runner"
	"benchtree/internal/seed"
	"benchtree/internal/template"
)

// Walker traverses a test directory tree.
type Walker struct {
	Constant  rtctx.Constant
	Template  *template.Engine
	Bus       *hook.Bus
	Customize config.Customize
}

// New returns a Walker.
func New(constant rtctx.Constant, tmpl *template.Engine, bus *hook.Bus, customize config.Customize) *Walker {
	return &Walker{Constant: constant, Template: tmpl, Bus: bus, Customize: customize}
}

// Walk visits dir and, recursively, its sorted sub-directories,
// returning the resulting TestResult. parent is the runtime context
// inherited from dir's parent (or rtctx.Root() for the tree's root).
func (w *Walker) Walk(ctx context.Context, dir string, parent rtctx.Context) *model.TestResult {
	result := &model.TestResult{ID: w.Constant.TestID, Directory: dir}

	ctxFile, rc, err := w.loadDirectory(dir, parent, result)
	if err != nil {
		result.IsErr = true
		result.Err = err.Error()
		w.Bus.TestStart(dir)
		w.Bus.TestEnd(result)
		return result
	}

	w.Bus.TestStart(dir)
	defer func() { w.Bus.TestEnd(result) }()

	if w.withinPlanRoot(dir) {
		if err := w.runPlans(ctx, dir, ctxFile, rc, result); err != nil {
			result.IsErr = true
			result.Err = err.Error()
			return result
		}
	}

	subdirs, err := config.SubDirs(dir)
	if err != nil {
		result.IsErr = true
		result.Err = err.Error()
		return result
	}
	for _, sub := range subdirs {
		child := filepath.Join(dir, sub)
		result.SubTests = append(result.SubTests, w.Walk(ctx, child, rc))
	}

	return result
}

// loadDirectory performs steps 1-4 of spec.md §4.6: load overlays,
// merge and render variables, extend the driver/seed tables, and fill
// in result.Name/Description.
func (w *Walker) loadDirectory(dir string, parent rtctx.Context, result *model.TestResult) (config.CtxFile, rtctx.Context, error) {
	ctxFile, err := config.LoadCtxFile(dir, w.Customize)
	if err != nil {
		return config.CtxFile{}, rtctx.Context{}, fmt.Errorf("load %s: %w", w.Customize.CtxFile, err)
	}
	varFile, err := config.LoadVarFile(dir, w.Customize)
	if err != nil {
		return config.CtxFile{}, rtctx.Context{}, fmt.Errorf("load %s: %w", w.Customize.VarFile, err)
	}
	description, err := config.LoadDescription(dir, w.Customize)
	if err != nil {
		return config.CtxFile{}, rtctx.Context{}, fmt.Errorf("load %s: %w", w.Customize.DescriptionFile, err)
	}

	merged := config.MergeVars(parent.Var, ctxFile.Var)
	merged = config.MergeVars(merged, varFile)
	bindings := map[string]any{"var": merged, "x": w.Constant.X}
	rendered, err := w.Template.RenderMap(merged, bindings)
	if err != nil {
		return config.CtxFile{}, rtctx.Context{}, fmt.Errorf("render var map: %w", err)
	}
	bindings["var"] = rendered

	rc := parent.WithVar(rendered)

	driverTable, err := w.buildDrivers(ctxFile, bindings)
	if err != nil {
		return config.CtxFile{}, rtctx.Context{}, err
	}
	rc = rc.ExtendDrivers(driverTable)

	seedTable, err := w.buildSeeds(ctxFile, bindings)
	if err != nil {
		return config.CtxFile{}, rtctx.Context{}, err
	}
	rc = rc.ExtendSeeds(seedTable)

	result.Name = ctxFile.Name
	// README's description is prepended to any ctx.yaml description.
	result.Description = description + ctxFile.Description

	return ctxFile, rc, nil
}

func (w *Walker) withinPlanRoot(dir string) bool {
	root := w.Constant.PlanRoot
	if root == "" {
		return true
	}
	return strings.HasPrefix(filepath.Clean(dir), filepath.Clean(root))
}

// runPlans enumerates and executes every plan discoverable in dir
// (spec.md §4.6 step 6): inline plans in ctx.yaml's `plan:` list, plus
// every other *.yaml file in the directory.
func (w *Walker) runPlans(ctx context.Context, dir string, ctxFile config.CtxFile, rc rtctx.Context, result *model.TestResult) error {
	rn := runner.New(w.Constant, w.Template, w.Bus)

	ctxBasename := trimExt(w.Customize.CtxFile)
	for idx, plan := range ctxFile.Plan {
		if plan.PlanID == "" {
			plan.PlanID = derivePlanID(ctxBasename, idx)
		}
		result.Plans = append(result.Plans, rn.Run(ctx, rc, plan))
	}

	files, err := config.PlanFiles(dir, w.Customize)
	if err != nil {
		return err
	}
	for _, path := range files {
		specs, err := config.LoadPlanFile(path)
		if err != nil {
			return fmt.Errorf("load plan file %s: %w", path, err)
		}
		basename := trimExt(filepath.Base(path))
		for idx, plan := range specs {
			if plan.PlanID == "" {
				plan.PlanID = derivePlanID(basename, idx)
			}
			result.Plans = append(result.Plans, rn.Run(ctx, rc, plan))
		}
	}
	return nil
}

// derivePlanID computes "{basename}-{idx}", dropping the suffix when
// idx is 0 and basename has no hyphen of its own (spec.md §4.6 step 6).
func derivePlanID(basename string, idx int) string {
	if idx == 0 && !strings.Contains(basename, "-") {
		return basename
	}
	return basename + "-" + strconv.Itoa(idx)
}

func trimExt(name string) string {
	return strings.TrimSuffix(name, filepath.Ext(name))
}

// buildDrivers instantiates one driver per ctx.yaml `ctx:` entry,
// rendering its args against bindings first (spec.md §4.6 step 3).
func (w *Walker) buildDrivers(ctxFile config.CtxFile, bindings map[string]any) (map[string]driver.Driver, error) {
	out := make(map[string]driver.Driver, len(ctxFile.Ctx))
	for name, ta := range ctxFile.Ctx {
		args, err := w.Template.RenderMap(ta.Args, bindings)
		if err != nil {
			return nil, fmt.Errorf("driver %q: render args: %w", name, err)
		}
		d, err := w.Constant.DriverRegistry.Build(ta.Type, args)
		if err != nil {
			return nil, fmt.Errorf("driver %q: %w", name, err)
		}
		out[name] = d
	}
	return out, nil
}

// buildSeeds instantiates one seed per ctx.yaml `seed:` entry,
// analogous to buildDrivers (spec.md §4.6 step 4).
func (w *Walker) buildSeeds(ctxFile config.CtxFile, bindings map[string]any) (map[string]seed.Seed, error) {
	out := make(map[string]seed.Seed, len(ctxFile.Seed))
	for name, ta := range ctxFile.Seed {
		args, err := w.Template.RenderMap(ta.Args, bindings)
		if err != nil {
			return nil, fmt.Errorf("seed %q: render args: %w", name, err)
		}
		s, err := w.Constant.SeedRegistry.Build(ta.Type, args)
		if err != nil {
			return nil, fmt.Errorf("seed %q: %w", name, err)
		}
		out[name] = s
	}
	return out, nil
}
