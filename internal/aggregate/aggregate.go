// Package aggregate implements the Unit Aggregator (spec.md §4.4): the
// single consumer that drains a unit's worker-pool channel, keeps
// running totals/code counts/stage windows, retains a bounded sample
// for quantile estimation, and finalizes a model.UnitResult.
package aggregate

import (
	"math/rand"
	"sort"
	"time"

	"benchtree/internal/model"
)

const defaultMaxStepSize = 200000

// Aggregator consumes one unit's StepResult stream and builds its
// UnitResult.
type Aggregator struct {
	result       *model.UnitResult
	quantileKeys []float64

	stageStart time.Time
	stage      model.UnitStageResult
	stageCount int
}

// New starts a fresh Aggregator for a unit. quantileKeys defaults to
// model.DefaultQuantileKeys() when empty.
func New(r *model.UnitResult, quantileKeys []float64) *Aggregator {
	if len(quantileKeys) == 0 {
		quantileKeys = model.DefaultQuantileKeys()
	}
	if r.MaxStepSize <= 0 {
		r.MaxStepSize = defaultMaxStepSize
	}
	return &Aggregator{result: r, quantileKeys: quantileKeys}
}

// Run drains in until it is closed, then finalizes and returns the
// UnitResult. Run blocks until in is closed, so the caller runs it on a
// goroutine it manages, as the Plan Runner does.
func (a *Aggregator) Run(in <-chan model.StepResult) *model.UnitResult {
	a.result.StartTime = time.Now()
	a.stageStart = a.result.StartTime
	a.stage.Time = a.stageStart

	for r := range in {
		a.add(r)
	}

	a.result.EndTime = time.Now()
	a.flushStage()
	a.finalize()
	return a.result
}

func (a *Aggregator) add(r model.StepResult) {
	a.result.Total++
	a.stage.Total++
	if r.Success {
		a.result.Success++
		a.stage.Success++
		a.result.Elapse += r.Elapse
		a.stage.Elapse += r.Elapse
	} else {
		code := r.Code
		if code == "" {
			code = "ERROR"
		}
		a.result.Code[code]++
	}
	a.stageCount++

	a.retain(r)
	a.maybeFlushStage()
}

// retain implements the documented sample-retention rule: the first
// MaxStepSize steps are kept outright; once full, each further step
// replaces a uniformly chosen existing sample. This is deliberately NOT
// classical reservoir sampling (which would replace with probability
// MaxStepSize/n) — an explicit, recorded simplification.
func (a *Aggregator) retain(r model.StepResult) {
	if len(a.result.SampleSteps) < a.result.MaxStepSize {
		a.result.SampleSteps = append(a.result.SampleSteps, r)
		return
	}
	idx := rand.Intn(len(a.result.SampleSteps))
	a.result.SampleSteps[idx] = r
}

// maybeFlushStage closes out the current stage window once either
// configured threshold (wall-clock or step count) is reached.
func (a *Aggregator) maybeFlushStage() {
	elapsedSinceStageStart := time.Since(a.stageStart)
	byTime := a.result.StageMilliseconds > 0 && elapsedSinceStageStart.Milliseconds() >= a.result.StageMilliseconds
	byCount := a.result.StageTimes > 0 && a.stageCount >= a.result.StageTimes
	if byTime || byCount {
		a.flushStage()
	}
}

func (a *Aggregator) flushStage() {
	if a.stage.Total == 0 {
		return
	}
	window := time.Since(a.stageStart).Seconds()
	a.stage.Summarize(window)
	a.result.Stages = append(a.result.Stages, a.stage)
	a.stageStart = time.Now()
	a.stage = model.UnitStageResult{Time: a.stageStart}
	a.stageCount = 0
}

// finalize computes the UnitResult's derived fields once no more steps
// will arrive, per spec.md §3's UnitResult invariants.
func (a *Aggregator) finalize() {
	r := a.result
	if r.Total > 0 {
		r.Rate = float64(r.Success) / float64(r.Total)
	}
	if window := r.EndTime.Sub(r.StartTime).Seconds(); window > 0 {
		r.QPS = float64(r.Success) / window
	}
	if r.Success > 0 {
		r.ResTime = r.Elapse / time.Duration(r.Success)
	}
	r.Code["OK"] = r.Success

	if len(r.SampleSteps) == 0 {
		return
	}
	sorted := make([]model.StepResult, len(r.SampleSteps))
	copy(sorted, r.SampleSteps)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Elapse < sorted[j].Elapse })
	for _, q := range a.quantileKeys {
		idx := int(float64(len(sorted)) * q / 100)
		if idx >= len(sorted) {
			idx = len(sorted) - 1
		}
		r.Quantile[q] = sorted[idx].Elapse
	}
}
