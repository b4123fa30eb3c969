package runner

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchtree/internal/config"
	"benchtree/internal/driver"
	"benchtree/internal/hook"
	"benchtree/internal/monitor"
	"benchtree/internal/registry"
	"benchtree/internal/rtctx"
	"benchtree/internal/seed"
	"benchtree/internal/template"
)

func newTestRunner() *Runner {
	constant := rtctx.Constant{
		DriverRegistry:  registry.New[driver.Driver](),
		SeedRegistry:    registry.New[seed.Seed](),
		MonitorRegistry: registry.New[monitor.Monitor](),
		X:               map[string]any{},
	}
	return New(constant, template.New(), hook.NewBus(nil))
}

func TestRunExecutesGroupsSequentiallyAndCollectsUnits(t *testing.T) {
	rn := newTestRunner()
	mock, err := driver.NewMockDriver(map[string]any{"responses": []any{map[string]any{"code": "OK"}}})
	require.NoError(t, err)
	rc := rtctx.Root().ExtendDrivers(map[string]driver.Driver{"api": mock})

	plan := config.PlanSpec{
		PlanID: "p",
		Group: []config.GroupSpec{
			{Times: 20, Parallel: []int{2}},
		},
		Unit: []config.UnitSpec{
			{
				Name: "unit-a",
				Step: []config.StepSpec{{
					Ctx: "api",
					Req: map[string]any{},
					Res: config.ResSpec{GroupBy: "#res.code", Success: "OK"},
				}},
			},
		},
	}

	result := rn.Run(context.Background(), rc, plan)
	require.False(t, result.IsErr)
	require.Len(t, result.UnitGroups, 1)
	require.Len(t, result.UnitGroups[0].Units, 1)
	unit := result.UnitGroups[0].Units[0]
	assert.Equal(t, 20, unit.Total)
	assert.Equal(t, 20, unit.Success)
	assert.Equal(t, 2, unit.Parallel)
}

func TestRunFailsGroupOnParallelVectorLengthMismatch(t *testing.T) {
	rn := newTestRunner()
	rc := rtctx.Root()

	plan := config.PlanSpec{
		PlanID: "p",
		Group: []config.GroupSpec{
			{Times: 10, Parallel: []int{1, 2}}, // two entries, one unit: must fail
		},
		Unit: []config.UnitSpec{
			{Name: "unit-a"},
		},
	}

	result := rn.Run(context.Background(), rc, plan)
	require.True(t, result.IsErr)
	assert.Contains(t, result.Err, "group.parallel")
	assert.Empty(t, result.UnitGroups)
}
