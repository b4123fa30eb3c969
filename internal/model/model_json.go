package model

import (
	"encoding/json"
	"strconv"
	"time"
)

// durationMicros renders a time.Duration as the wire format's integer
// microsecond count, per spec.md §6: "Durations are microseconds
// (integer)".
func durationMicros(d time.Duration) int64 { return d.Microseconds() }

// MarshalJSON renders SubStepResult with elapse as integer microseconds.
func (s SubStepResult) MarshalJSON() ([]byte, error) {
	type wire struct {
		Req     any    `json:"req"`
		Res     any    `json:"res"`
		Name    string `json:"name"`
		Code    string `json:"code"`
		Success bool   `json:"success"`
		Elapse  int64  `json:"elapse"`
	}
	return json.Marshal(wire{s.Req, s.Res, s.Name, s.Code, s.Success, durationMicros(s.Elapse)})
}

// MarshalJSON renders StepResult with elapse as integer microseconds.
func (s StepResult) MarshalJSON() ([]byte, error) {
	type wire struct {
		SubSteps []SubStepResult `json:"subSteps"`
		Code     string          `json:"code"`
		Success  bool            `json:"success"`
		Elapse   int64           `json:"elapse"`
		IsErr    bool            `json:"isErr"`
		Err      string          `json:"err,omitempty"`
	}
	return json.Marshal(wire{s.SubSteps, s.Code, s.Success, durationMicros(s.Elapse), s.IsErr, s.Err})
}

// MarshalJSON renders UnitStageResult with durations as integer microseconds.
func (s UnitStageResult) MarshalJSON() ([]byte, error) {
	type wire struct {
		Time    time.Time `json:"time"`
		Success int       `json:"success"`
		Total   int       `json:"total"`
		QPS     float64   `json:"qps"`
		Rate    float64   `json:"rate"`
		ResTime int64     `json:"resTime"`
		Elapse  int64     `json:"elapse"`
	}
	return json.Marshal(wire{s.Time, s.Success, s.Total, s.QPS, s.Rate, durationMicros(s.ResTime), durationMicros(s.Elapse)})
}

// quantileKey formats a quantile key the way ben's result JSON does:
// integral keys without a trailing ".0" ("80"), fractional keys with
// their digits ("99.9").
func quantileKey(q float64) string {
	if q == float64(int64(q)) {
		return strconv.FormatInt(int64(q), 10)
	}
	return strconv.FormatFloat(q, 'f', -1, 64)
}

// MarshalJSON renders UnitResult per spec.md §6's fixed wire shape.
func (u UnitResult) MarshalJSON() ([]byte, error) {
	quantile := make(map[string]int64, len(u.Quantile))
	for k, v := range u.Quantile {
		quantile[quantileKey(k)] = durationMicros(v)
	}
	type wire struct {
		Name              string            `json:"name"`
		Parallel          int               `json:"parallel"`
		Limit             int               `json:"limit"`
		Success           int               `json:"success"`
		Total             int               `json:"total"`
		QPS               float64           `json:"qps"`
		Rate              float64           `json:"rate"`
		ResTime           int64             `json:"resTime"`
		Elapse            int64             `json:"elapse"`
		StartTime         time.Time         `json:"startTime"`
		EndTime           time.Time         `json:"endTime"`
		Code              map[string]int    `json:"code"`
		Stages            []UnitStageResult `json:"stages"`
		StageMilliseconds int64             `json:"stageMilliseconds"`
		StageTimes        int               `json:"stageTimes"`
		Quantile          map[string]int64  `json:"quantile"`
		MaxStepSize       int               `json:"maxStepSize"`
		IsErr             bool              `json:"isErr"`
		Err               string            `json:"err,omitempty"`
	}
	return json.Marshal(wire{
		u.Name, u.Parallel, u.Limit, u.Success, u.Total, u.QPS, u.Rate,
		durationMicros(u.ResTime), durationMicros(u.Elapse), u.StartTime, u.EndTime,
		u.Code, u.Stages, u.StageMilliseconds, u.StageTimes, quantile, u.MaxStepSize,
		u.IsErr, u.Err,
	})
}

// MarshalJSON renders UnitGroup's quantile_keys under the "quantile" key,
// matching spec.md §6's `unitGroups:[{idx,seconds,times,quantile,units}]`.
func (g UnitGroup) MarshalJSON() ([]byte, error) {
	type wire struct {
		Idx          int                     `json:"idx"`
		Seconds      float64                 `json:"seconds"`
		Times        int                     `json:"times"`
		Quantile     []float64               `json:"quantile"`
		Units        []*UnitResult           `json:"units"`
		MonitorStats map[string]MonitorStat  `json:"monitorStats,omitempty"`
	}
	return json.Marshal(wire{g.Idx, g.Seconds, g.Times, g.QuantileKeys, g.Units, g.MonitorStats})
}

// UnmarshalJSON is the inverse of MarshalJSON, supporting the
// round-trip invariant from_json(to_json(r)) == r (spec.md §8.7).

func (s *SubStepResult) UnmarshalJSON(b []byte) error {
	var w struct {
		Req     any    `json:"req"`
		Res     any    `json:"res"`
		Name    string `json:"name"`
		Code    string `json:"code"`
		Success bool   `json:"success"`
		Elapse  int64  `json:"elapse"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*s = SubStepResult{w.Req, w.Res, w.Name, w.Code, w.Success, time.Duration(w.Elapse) * time.Microsecond}
	return nil
}

func (s *StepResult) UnmarshalJSON(b []byte) error {
	var w struct {
		SubSteps []SubStepResult `json:"subSteps"`
		Code     string          `json:"code"`
		Success  bool            `json:"success"`
		Elapse   int64           `json:"elapse"`
		IsErr    bool            `json:"isErr"`
		Err      string          `json:"err,omitempty"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*s = StepResult{w.SubSteps, w.Code, w.Success, time.Duration(w.Elapse) * time.Microsecond, w.IsErr, w.Err}
	return nil
}

func (s *UnitStageResult) UnmarshalJSON(b []byte) error {
	var w struct {
		Time    time.Time `json:"time"`
		Success int       `json:"success"`
		Total   int       `json:"total"`
		QPS     float64   `json:"qps"`
		Rate    float64   `json:"rate"`
		ResTime int64     `json:"resTime"`
		Elapse  int64     `json:"elapse"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*s = UnitStageResult{w.Time, w.Success, w.Total, w.QPS, w.Rate, time.Duration(w.ResTime) * time.Microsecond, time.Duration(w.Elapse) * time.Microsecond}
	return nil
}

func (u *UnitResult) UnmarshalJSON(b []byte) error {
	var w struct {
		Name              string            `json:"name"`
		Parallel          int               `json:"parallel"`
		Limit             int               `json:"limit"`
		Success           int               `json:"success"`
		Total             int               `json:"total"`
		QPS               float64           `json:"qps"`
		Rate              float64           `json:"rate"`
		ResTime           int64             `json:"resTime"`
		Elapse            int64             `json:"elapse"`
		StartTime         time.Time         `json:"startTime"`
		EndTime           time.Time         `json:"endTime"`
		Code              map[string]int    `json:"code"`
		Stages            []UnitStageResult `json:"stages"`
		StageMilliseconds int64             `json:"stageMilliseconds"`
		StageTimes        int               `json:"stageTimes"`
		Quantile          map[string]int64  `json:"quantile"`
		MaxStepSize       int               `json:"maxStepSize"`
		IsErr             bool              `json:"isErr"`
		Err               string            `json:"err,omitempty"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	quantile := make(map[float64]time.Duration, len(w.Quantile))
	for k, v := range w.Quantile {
		f, err := strconv.ParseFloat(k, 64)
		if err != nil {
			return err
		}
		quantile[f] = time.Duration(v) * time.Microsecond
	}
	*u = UnitResult{
		Name: w.Name, Parallel: w.Parallel, Limit: w.Limit, Success: w.Success, Total: w.Total,
		QPS: w.QPS, Rate: w.Rate, ResTime: time.Duration(w.ResTime) * time.Microsecond,
		Elapse: time.Duration(w.Elapse) * time.Microsecond, StartTime: w.StartTime, EndTime: w.EndTime,
		Code: w.Code, Stages: w.Stages, Quantile: quantile, MaxStepSize: w.MaxStepSize,
		IsErr: w.IsErr, Err: w.Err, StageMilliseconds: w.StageMilliseconds, StageTimes: w.StageTimes,
	}
	return nil
}

func (g *UnitGroup) UnmarshalJSON(b []byte) error {
	var w struct {
		Idx          int                    `json:"idx"`
		Seconds      float64                `json:"seconds"`
		Times        int                    `json:"times"`
		Quantile     []float64              `json:"quantile"`
		Units        []*UnitResult          `json:"units"`
		MonitorStats map[string]MonitorStat `json:"monitorStats,omitempty"`
	}
	if err := json.Unmarshal(b, &w); err != nil {
		return err
	}
	*g = UnitGroup{w.Idx, w.Seconds, w.Times, w.Quantile, w.Units, w.MonitorStats}
	return nil
}
