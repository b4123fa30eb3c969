package executor

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchtree/internal/config"
	"benchtree/internal/driver"
	"benchtree/internal/seed"
	"benchtree/internal/template"
)

func TestExecuteClassifiesSuccess(t *testing.T) {
	mock, err := driver.NewMockDriver(map[string]any{"responses": []any{map[string]any{"code": "OK"}}})
	require.NoError(t, err)

	exec := New(template.New())
	steps := []config.StepSpec{{
		Name: "call",
		Ctx:  "api",
		Req:  map[string]any{"path": "/ping"},
		Res:  config.ResSpec{GroupBy: "#res.code", Success: "OK"},
	}}

	result, err := exec.Execute(context.Background(), map[string]driver.Driver{"api": mock}, nil, nil, steps, nil, nil)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "OK", result.SubSteps[0].Code)
}

func TestExecuteClassifiesFailureAndContinuesPastStep(t *testing.T) {
	mock, err := driver.NewMockDriver(map[string]any{"responses": []any{map[string]any{"code": "ERR"}}})
	require.NoError(t, err)

	exec := New(template.New())
	steps := []config.StepSpec{
		{
			Ctx: "api",
			Req: map[string]any{},
			Res: config.ResSpec{GroupBy: "#res.code", Success: "OK"},
		},
		{
			Ctx: "api",
			Req: map[string]any{},
			Res: config.ResSpec{GroupBy: "#res.code", Success: "OK"},
		},
	}

	result, err := exec.Execute(context.Background(), map[string]driver.Driver{"api": mock}, nil, nil, steps, nil, nil)
	require.NoError(t, err)
	assert.False(t, result.Success)
	assert.False(t, result.IsErr)
	assert.Equal(t, "mock.ERR", result.Code)
	assert.Len(t, result.SubSteps, 2)
}

func TestExecuteMissingDriverSetsErrResult(t *testing.T) {
	exec := New(template.New())
	steps := []config.StepSpec{{Ctx: "missing", Req: "x", Res: config.ResSpec{GroupBy: "OK", Success: "OK"}}}

	result, err := exec.Execute(context.Background(), map[string]driver.Driver{}, nil, nil, steps, nil, nil)
	require.NoError(t, err)
	assert.True(t, result.IsErr)
	assert.Contains(t, result.Err, "no driver instance")
}

func TestExecuteDrawsBoundSeeds(t *testing.T) {
	s, err := seed.NewDictSeed(map[string]any{"values": []any{"only-value"}})
	require.NoError(t, err)
	mock, err := driver.NewMockDriver(map[string]any{"responses": []any{map[string]any{"code": "OK"}}})
	require.NoError(t, err)

	exec := New(template.New())
	steps := []config.StepSpec{{
		Ctx: "api",
		Req: "#seed.item",
		Res: config.ResSpec{GroupBy: "#res.code", Success: "OK"},
	}}

	result, err := exec.Execute(
		context.Background(),
		map[string]driver.Driver{"api": mock},
		map[string]seed.Seed{"pool": s},
		map[string]string{"item": "pool"},
		steps, nil, nil,
	)
	require.NoError(t, err)
	assert.True(t, result.Success)
	assert.Equal(t, "only-value", result.SubSteps[0].Req)
}
