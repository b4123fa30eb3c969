package walk

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchtree/internal/config"
	"benchtree/internal/driver"
	"benchtree/internal/hook"
	"benchtree/internal/monitor"
	"benchtree/internal/rtctx"
	"benchtree/internal/seed"
	"benchtree/internal/template"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func TestWalkSingleDirectoryNoPlans(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "ctx.yaml"), "name: root\n")

	constant := rtctx.Constant{
		DriverRegistry:  driver.Builtins(),
		SeedRegistry:    seed.Builtins(),
		MonitorRegistry: monitor.Builtins(),
		X:               map[string]any{},
	}
	w := New(constant, template.New(), hook.NewBus(nil), config.DefaultCustomize())

	result := w.Walk(context.Background(), dir, rtctx.Root())
	require.False(t, result.IsErr)
	assert.Equal(t, "root", result.Name)
	assert.Empty(t, result.Plans)
	assert.Empty(t, result.SubTests)
}

func TestWalkRecursesIntoSortedSubDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ctx.yaml"), "name: root\nvar:\n  greeting: hi\n")
	for _, name := range []string{"b-dir", "a-dir"} {
		sub := filepath.Join(root, name)
		require.NoError(t, os.Mkdir(sub, 0o755))
		writeFile(t, filepath.Join(sub, "ctx.yaml"), "name: "+name+"\n")
	}

	constant := rtctx.Constant{
		DriverRegistry:  driver.Builtins(),
		SeedRegistry:    seed.Builtins(),
		MonitorRegistry: monitor.Builtins(),
		X:               map[string]any{},
	}
	w := New(constant, template.New(), hook.NewBus(nil), config.DefaultCustomize())

	result := w.Walk(context.Background(), root, rtctx.Root())
	require.False(t, result.IsErr)
	require.Len(t, result.SubTests, 2)
	assert.Equal(t, "a-dir", result.SubTests[0].Name)
	assert.Equal(t, "b-dir", result.SubTests[1].Name)
}

func TestWalkAssignsSameRunWideIDToEveryTestResult(t *testing.T) {
	root := t.TempDir()
	writeFile(t, filepath.Join(root, "ctx.yaml"), "name: root\n")
	sub := filepath.Join(root, "child")
	require.NoError(t, os.Mkdir(sub, 0o755))
	writeFile(t, filepath.Join(sub, "ctx.yaml"), "name: child\n")

	constant := rtctx.Constant{
		TestID:          "fixed-run-id",
		DriverRegistry:  driver.Builtins(),
		SeedRegistry:    seed.Builtins(),
		MonitorRegistry: monitor.Builtins(),
		X:               map[string]any{},
	}
	w := New(constant, template.New(), hook.NewBus(nil), config.DefaultCustomize())

	result := w.Walk(context.Background(), root, rtctx.Root())
	require.False(t, result.IsErr)
	require.Len(t, result.SubTests, 1)
	assert.Equal(t, "fixed-run-id", result.ID)
	assert.Equal(t, "fixed-run-id", result.SubTests[0].ID)
}

func TestWalkMissingDirectoryRecordsErrAndDoesNotRecurse(t *testing.T) {
	constant := rtctx.Constant{
		DriverRegistry:  driver.Builtins(),
		SeedRegistry:    seed.Builtins(),
		MonitorRegistry: monitor.Builtins(),
		X:               map[string]any{},
	}
	w := New(constant, template.New(), hook.NewBus(nil), config.DefaultCustomize())

	result := w.Walk(context.Background(), filepath.Join(t.TempDir(), "does-not-exist"), rtctx.Root())
	assert.True(t, result.IsErr)
	assert.Empty(t, result.SubTests)
}

func TestDerivePlanIDSpecialCase(t *testing.T) {
	assert.Equal(t, "ctx", derivePlanID("ctx", 0))
	assert.Equal(t, "ctx-1", derivePlanID("ctx", 1))
	assert.Equal(t, "my-plan-0", derivePlanID("my-plan", 0))
}
