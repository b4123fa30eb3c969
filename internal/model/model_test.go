package model

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepResultAddSubStepResultSuccessAndCode(t *testing.T) {
	var sr StepResult
	sr.AddSubStepResult(SubStepResult{Name: "a", Code: "OK", Success: true, Elapse: 10 * time.Millisecond})
	assert.True(t, sr.Success)

	sr.AddSubStepResult(SubStepResult{Name: "b", Code: "TIMEOUT", Success: false, Elapse: 5 * time.Millisecond})
	assert.False(t, sr.Success)
	assert.Equal(t, "b.TIMEOUT", sr.Code)
	assert.Equal(t, 15*time.Millisecond, sr.Elapse)

	// A later successful sub-step must not erase the earlier failure.
	sr.AddSubStepResult(SubStepResult{Name: "c", Code: "OK", Success: true, Elapse: time.Millisecond})
	assert.False(t, sr.Success)
	assert.Equal(t, "b.TIMEOUT", sr.Code)
}

func TestStepResultAddErrResult(t *testing.T) {
	var sr StepResult
	sr.AddSubStepResult(SubStepResult{Name: "a", Code: "OK", Success: true})
	sr.AddErrResult("b", assertError("boom"))
	assert.True(t, sr.IsErr)
	assert.Equal(t, "b.ERROR", sr.Code)
	assert.False(t, sr.Success)
	assert.Equal(t, "boom", sr.Err)
}

func TestUnitStageResultSummarizeGuardsDivisionByZero(t *testing.T) {
	var s UnitStageResult
	s.Summarize(0)
	assert.Zero(t, s.Rate)
	assert.Zero(t, s.QPS)
	assert.Zero(t, s.ResTime)

	s = UnitStageResult{Success: 8, Total: 10, Elapse: 800 * time.Millisecond}
	s.Summarize(2)
	assert.Equal(t, 0.8, s.Rate)
	assert.Equal(t, 4.0, s.QPS)
	assert.Equal(t, 100*time.Millisecond, s.ResTime)
}

func TestNewUnitResultStageThresholds(t *testing.T) {
	r := NewUnitResult("unit", 4, 0, 30, 1000, 0)
	assert.Equal(t, int64(300), r.StageMilliseconds) // 30s*1000/100 = 300ms
	assert.Equal(t, 10, r.StageTimes)                // 1000/100

	r2 := NewUnitResult("unit", 1, 0, 1, 0, 0)
	assert.Equal(t, int64(100), r2.StageMilliseconds) // floored at 100ms
}

func TestUnitResultJSONRoundTrip(t *testing.T) {
	original := &UnitResult{
		Name:      "unit-a",
		Parallel:  4,
		Limit:     100,
		Success:   9,
		Total:     10,
		QPS:       9.5,
		Rate:      0.9,
		ResTime:   12500 * time.Microsecond,
		Elapse:    125 * time.Millisecond,
		StartTime: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		EndTime:   time.Date(2026, 1, 1, 0, 0, 1, 0, time.UTC),
		Code:      map[string]int{"OK": 9, "ERR": 1},
		Quantile:  map[float64]time.Duration{80: 10 * time.Millisecond, 99.9: 50 * time.Millisecond},
	}

	b, err := json.Marshal(original)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"resTime":12500`)
	assert.Contains(t, string(b), `"80":10000`)
	assert.Contains(t, string(b), `"99.9":50000`)

	var decoded UnitResult
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, original.Name, decoded.Name)
	assert.Equal(t, original.ResTime, decoded.ResTime)
	assert.Equal(t, original.Quantile, decoded.Quantile)
	assert.Equal(t, original.Code, decoded.Code)
}

type assertError string

func (e assertError) Error() string { return string(e) }
