package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"benchtree/internal/config"
	"benchtree/internal/driver"
	"benchtree/internal/hook"
	"benchtree/internal/logging"
	"benchtree/internal/model"
	"benchtree/internal/monitor"
	"benchtree/internal/report"
	"benchtree/internal/rtctx"
	"benchtree/internal/seed"
	"benchtree/internal/template"
	"benchtree/internal/walk"
)

var (
	flagPlanRoot   string
	flagReporter   string
	flagHook       string
	flagExtension  []string
	flagLogLevel   string
	flagCtxName    string
	flagVarName    string
	flagDescrName  string
)

var runCmd = &cobra.Command{
	Use:   "run <test_directory>",
	Short: "Walk a test directory tree and run any plans it contains",
	Args:  cobra.ExactArgs(1),
	RunE:  runRun,
}

func init() {
	runCmd.Flags().StringVar(&flagPlanRoot, "plan-directory", "", "directory prefix within which plans are discovered (default: whole tree)")
	runCmd.Flags().StringVar(&flagReporter, "reporter", "text", "result reporter: text|json")
	runCmd.Flags().StringVar(&flagHook, "hook", "", "built-in hook to attach: debug|step")
	runCmd.Flags().StringArrayVar(&flagExtension, "x", nil, "extension key=value pairs exposed to templates as x.<key>")
	runCmd.Flags().StringVar(&flagLogLevel, "log-level", "info", "log level: debug|info|warn|error")
	runCmd.Flags().StringVar(&flagCtxName, "ctx-file", "ctx.yaml", "context overlay filename")
	runCmd.Flags().StringVar(&flagVarName, "var-file", "var.yaml", "variable overlay filename")
	runCmd.Flags().StringVar(&flagDescrName, "description-file", "README.md", "description filename")
}

func runRun(cmd *cobra.Command, args []string) error {
	testDir := args[0]

	logger := logging.New(os.Stderr, flagLogLevel)
	bus := hook.NewBus(logging.HookLogger{Logger: logger})

	switch flagHook {
	case "debug":
		bus.Register(hook.NewDebugHook(os.Stderr))
	case "step":
		bus.Register(hook.NewStepHook(os.Stderr))
	case "":
	default:
		return fmt.Errorf("unknown --hook %q (want debug|step)", flagHook)
	}

	var bar *progressbar.ProgressBar
	if flagReporter != "json" {
		bar = progressbar.Default(-1, "running")
		bus.Register(progressBarHook{bar: bar})
	}

	x, err := parseExtensions(flagExtension)
	if err != nil {
		return err
	}

	constant := rtctx.Constant{
		TestID:          uuid.NewString(),
		DriverRegistry:  driver.Builtins(),
		SeedRegistry:    seed.Builtins(),
		MonitorRegistry: monitor.Builtins(),
		X:               x,
		PlanRoot:        flagPlanRoot,
	}
	customize := config.Customize{
		CtxFile:         flagCtxName,
		VarFile:         flagVarName,
		DescriptionFile: flagDescrName,
		PlanRoot:        flagPlanRoot,
	}

	w := walk.New(constant, template.New(), bus, customize)
	result := w.Walk(context.Background(), testDir, rtctx.Root())

	if bar != nil {
		bar.Finish()
	}

	switch flagReporter {
	case "json":
		if err := report.JSON(os.Stdout, result); err != nil {
			return err
		}
	default:
		report.Text(os.Stdout, result)
	}

	if result.IsErr {
		return fmt.Errorf("run failed: %s", result.Err)
	}
	return nil
}

// parseExtensions turns a list of "key=value" flag occurrences into the
// extension map bound to templates as `x`.
func parseExtensions(pairs []string) (map[string]any, error) {
	out := map[string]any{}
	for _, p := range pairs {
		k, v, ok := strings.Cut(p, "=")
		if !ok {
			return nil, fmt.Errorf("invalid -x value %q, want key=value", p)
		}
		out[k] = v
	}
	return out, nil
}

// progressBarHook advances a progress bar by one on every completed
// step, regardless of outcome.
type progressBarHook struct {
	hook.NoOp
	bar *progressbar.ProgressBar
}

func (h progressBarHook) OnStepEnd(r *model.StepResult) {
	_ = h.bar.Add(1)
}
