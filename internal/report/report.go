// Package report implements the `format` operation's reporters
// (spec.md §6): render a TestResult tree as JSON or as a human-readable
// text summary.
package report

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"benchtree/internal/model"
)

// JSON writes r as indented JSON, matching the wire format a `run`
// invocation would have produced.
func JSON(w io.Writer, r *model.TestResult) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// Text writes a human-readable summary of r: one line per test, plan,
// and unit, indented by depth.
func Text(w io.Writer, r *model.TestResult) {
	writeTest(w, r, 0)
}

func writeTest(w io.Writer, r *model.TestResult, depth int) {
	pad := strings.Repeat("  ", depth)
	label := r.Name
	if label == "" {
		label = r.Directory
	}
	if r.IsErr {
		fmt.Fprintf(w, "%s%s: ERROR %s\n", pad, label, r.Err)
		return
	}
	fmt.Fprintf(w, "%s%s\n", pad, label)
	for _, plan := range r.Plans {
		writePlan(w, plan, depth+1)
	}
	for _, sub := range r.SubTests {
		writeTest(w, sub, depth+1)
	}
}

func writePlan(w io.Writer, p *model.PlanResult, depth int) {
	pad := strings.Repeat("  ", depth)
	if p.IsErr {
		fmt.Fprintf(w, "%splan %s: ERROR %s\n", pad, p.PlanID, p.Err)
		return
	}
	fmt.Fprintf(w, "%splan %s (%s)\n", pad, p.PlanID, p.Name)
	for _, group := range p.UnitGroups {
		for _, unit := range group.Units {
			writeUnit(w, group.Idx, unit, depth+1)
		}
	}
}

func writeUnit(w io.Writer, groupIdx int, u *model.UnitResult, depth int) {
	pad := strings.Repeat("  ", depth)
	if u.IsErr {
		fmt.Fprintf(w, "%sgroup %d / %s: ERROR %s\n", pad, groupIdx, u.Name, u.Err)
		return
	}
	fmt.Fprintf(w, "%sgroup %d / %s: total=%d success=%d rate=%.3f qps=%.1f resTime=%s\n",
		pad, groupIdx, u.Name, u.Total, u.Success, u.Rate, u.QPS, u.ResTime)
}
