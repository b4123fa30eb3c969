// Package model defines the hierarchical, JSON-serializable result tree
// produced by a benchtree run: TestResult -> PlanResult -> UnitGroup ->
// UnitResult -> UnitStageResult / StepResult -> SubStepResult.
//
// Result objects are built by the component one level up, mutated only
// on the owning worker or aggregator goroutine, then published to the
// parent. After publication they must be treated as read-only.
package model

import "time"

// SubStepResult is one driver invocation within a Step.
type SubStepResult struct {
	Req     any           `json:"req"`
	Res     any           `json:"res"`
	Name    string        `json:"name"`
	Code    string        `json:"code"`
	Success bool          `json:"success"`
	Elapse  time.Duration `json:"-"`
}

// NewErrSubStepResult builds the sub-step emitted when a–e of the step
// executor's per-invocation algorithm raises.
func NewErrSubStepResult(name string, err error, elapse time.Duration) SubStepResult {
	return SubStepResult{
		Name:    name,
		Code:    "ERROR",
		Success: false,
		Res:     err.Error(),
		Elapse:  elapse,
	}
}

// StepResult aggregates the sub-steps of one logical request.
type StepResult struct {
	SubSteps []SubStepResult `json:"subSteps"`
	Code     string          `json:"code"`
	Success  bool            `json:"success"`
	Elapse   time.Duration   `json:"-"`
	IsErr    bool            `json:"isErr"`
	Err      string          `json:"err,omitempty"`
}

// AddSubStepResult appends a sub-step, accumulating elapse and updating
// success/code per spec.md §3's StepResult rules: a step is success iff
// every sub-step succeeds; on failure, code is the first failing
// sub-step's "{name}.{code}".
func (s *StepResult) AddSubStepResult(r SubStepResult) {
	if len(s.SubSteps) == 0 {
		s.Success = true
	}
	s.SubSteps = append(s.SubSteps, r)
	s.Elapse += r.Elapse
	if !r.Success && s.Success {
		s.Success = false
		s.Code = r.Name + "." + r.Code
	}
}

// AddErrResult marks the step as a framework-level error (an exception
// escaped the per-invocation algorithm rather than a classified driver
// failure) and appends the matching error sub-step.
func (s *StepResult) AddErrResult(name string, err error) {
	s.SubSteps = append(s.SubSteps, NewErrSubStepResult(name, err, 0))
	s.IsErr = true
	s.Err = err.Error()
	s.Success = false
	s.Code = name + ".ERROR"
}

// UnitStageResult is a time- or count-windowed slice of a unit's
// progress, used to draw QPS/rate charts.
type UnitStageResult struct {
	Time    time.Time     `json:"time"`
	Success int           `json:"success"`
	Total   int           `json:"total"`
	QPS     float64       `json:"qps"`
	Rate    float64       `json:"rate"`
	ResTime time.Duration `json:"-"`
	Elapse  time.Duration `json:"-"`
}

// Summarize computes qps/rate/resTime over the stage's accumulated
// totals. Division by zero is guarded per spec.md §4.4's edge cases.
func (s *UnitStageResult) Summarize(windowSeconds float64) {
	if s.Total > 0 {
		s.Rate = float64(s.Success) / float64(s.Total)
	}
	if windowSeconds > 0 {
		s.QPS = float64(s.Success) / windowSeconds
	}
	if s.Success > 0 {
		s.ResTime = s.Elapse / time.Duration(s.Success)
	}
}

// UnitResult is the outcome of one unit's worker pool + aggregator.
type UnitResult struct {
	Name         string                  `json:"name"`
	Parallel     int                     `json:"parallel"`
	Limit        int                     `json:"limit"`
	Success      int                     `json:"success"`
	Total        int                     `json:"total"`
	QPS          float64                 `json:"qps"`
	Rate         float64                 `json:"rate"`
	ResTime      time.Duration           `json:"-"`
	Elapse       time.Duration           `json:"-"`
	StartTime    time.Time               `json:"startTime"`
	EndTime      time.Time               `json:"endTime"`
	Code         map[string]int          `json:"code"`
	Stages       []UnitStageResult       `json:"stages"`
	Quantile     map[float64]time.Duration `json:"-"`
	MaxStepSize  int                     `json:"maxStepSize"`
	SampleSteps  []StepResult            `json:"-"`
	IsErr        bool                    `json:"isErr"`
	Err          string                  `json:"err,omitempty"`

	StageMilliseconds int64 `json:"stageMilliseconds"`
	StageTimes        int   `json:"stageTimes"`
}

// NewUnitResult mirrors ben/result/result.py's UnitResult.__init__:
// stage_milliseconds = stage_seconds*1000//stage_number, floored at
// 100ms; stage_times = stage_times//stage_number. stageNumber is fixed
// at 100 per spec.md §4.4.
func NewUnitResult(name string, parallel, limit int, stageSeconds float64, stageTimes, maxStepSize int) *UnitResult {
	const stageNumber = 100
	ms := int64(stageSeconds * 1000 / stageNumber)
	if stageSeconds > 0 && ms < 100 {
		ms = 100
	}
	st := stageTimes / stageNumber
	return &UnitResult{
		Name:              name,
		Parallel:          parallel,
		Limit:             limit,
		Code:              map[string]int{},
		Quantile:          map[float64]time.Duration{},
		MaxStepSize:       maxStepSize,
		StageMilliseconds: ms,
		StageTimes:        st,
	}
}

// UnitGroup is one `group` entry of a plan: a parallel batch of units
// sharing stopping bounds, monitors, and quantile config.
type UnitGroup struct {
	Idx          int                          `json:"idx"`
	Seconds      float64                      `json:"seconds"`
	Times        int                          `json:"times"`
	QuantileKeys []float64                    `json:"quantile"`
	Units        []*UnitResult                `json:"units"`
	MonitorStats map[string]MonitorStat       `json:"monitorStats,omitempty"`
}

// MonitorStat is the per-monitor observation attached to a UnitGroup:
// a dimension->unit-string label map plus a dimension->series map.
type MonitorStat struct {
	Unit   map[string]string        `json:"unit"`
	Series map[string][]MonitorPoint `json:"series"`
}

// MonitorPoint is one {time, value} sample of a monitored dimension.
type MonitorPoint struct {
	Time  time.Time `json:"time"`
	Value float64   `json:"value"`
}

// DefaultQuantileKeys is spec.md §3's default quantile_keys.
func DefaultQuantileKeys() []float64 { return []float64{80, 90, 95, 99, 99.9} }

// PlanResult is one plan discovered in a directory.
type PlanResult struct {
	PlanID     string       `json:"id"`
	Name       string       `json:"name"`
	IsErr      bool         `json:"isErr"`
	Err        string       `json:"err,omitempty"`
	UnitGroups []*UnitGroup `json:"unitGroups"`
}

// TestResult is created on directory entry and finalized when the
// subtree completes; it owns its plans and sub-tests.
type TestResult struct {
	ID          string        `json:"id"`
	Directory   string        `json:"directory"`
	Name        string        `json:"name"`
	Description string        `json:"description,omitempty"`
	IsErr       bool          `json:"isErr"`
	Err         string        `json:"err,omitempty"`
	Plans       []*PlanResult `json:"plans"`
	SubTests    []*TestResult `json:"subTests"`
}
