package aggregate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"benchtree/internal/model"
)

func TestAggregatorFinalizeRateAndCode(t *testing.T) {
	r := model.NewUnitResult("unit", 1, 0, 0, 0, 0)
	a := New(r, nil)

	ch := make(chan model.StepResult, 10)
	for i := 0; i < 9; i++ {
		ch <- model.StepResult{Success: true, Code: "OK", Elapse: 10 * time.Millisecond}
	}
	ch <- model.StepResult{Success: false, Code: "a.ERR", Elapse: 5 * time.Millisecond}
	close(ch)

	result := a.Run(ch)

	assert.Equal(t, 10, result.Total)
	assert.Equal(t, 9, result.Success)
	assert.Equal(t, 0.9, result.Rate)
	assert.Equal(t, 9, result.Code["OK"])
	assert.Equal(t, 1, result.Code["a.ERR"])
}

func TestAggregatorSampleRetentionBoundedByMaxStepSize(t *testing.T) {
	r := model.NewUnitResult("unit", 1, 0, 0, 0, 3)
	a := New(r, nil)

	ch := make(chan model.StepResult, 20)
	for i := 0; i < 20; i++ {
		ch <- model.StepResult{Success: true, Code: "OK", Elapse: time.Duration(i) * time.Millisecond}
	}
	close(ch)

	result := a.Run(ch)
	require.Len(t, result.SampleSteps, 3)
}

func TestAggregatorQuantileMonotonic(t *testing.T) {
	r := model.NewUnitResult("unit", 1, 0, 0, 0, 0)
	a := New(r, []float64{50, 90, 99})

	ch := make(chan model.StepResult, 100)
	for i := 1; i <= 100; i++ {
		ch <- model.StepResult{Success: true, Code: "OK", Elapse: time.Duration(i) * time.Millisecond}
	}
	close(ch)

	result := a.Run(ch)
	require.Contains(t, result.Quantile, 50.0)
	require.Contains(t, result.Quantile, 90.0)
	require.Contains(t, result.Quantile, 99.0)
	assert.LessOrEqual(t, result.Quantile[50.0], result.Quantile[90.0])
	assert.LessOrEqual(t, result.Quantile[90.0], result.Quantile[99.0])
}

func TestAggregatorZeroStepsGuardsDivision(t *testing.T) {
	r := model.NewUnitResult("unit", 1, 0, 0, 0, 0)
	a := New(r, nil)

	ch := make(chan model.StepResult)
	close(ch)

	result := a.Run(ch)
	assert.Zero(t, result.Total)
	assert.Zero(t, result.Rate)
	assert.Zero(t, result.QPS)
	assert.Equal(t, 0, result.Code["OK"])
}
