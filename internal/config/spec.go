// Package config loads the YAML configuration-file shapes the Test
// Tree Walker consumes (spec.md §6): ctx.yaml, var.yaml, README.md,
// and plan spec files.
//
// spec.md §1 places the configuration-file loader out of the
// execution core's scope as an external collaborator with an
// interface contract; this package is that collaborator, grounded on
// gopkg.in/yaml.v3 (already a direct dependency of the teacher) and on
// ben/framework/framework.py's load_ctx/load_var/load_description
// static helpers.
package config

import "strconv"

// TypeArgs names a plug-in type and its (not-yet-rendered) constructor
// args, the shape used for both `ctx:` driver entries and `seed:`
// entries in ctx.yaml, and for `monitor:` entries in a plan spec.
type TypeArgs struct {
	Type string         `yaml:"type"`
	Args map[string]any `yaml:"args"`
}

// CtxFile is the decoded shape of a directory's ctx.yaml.
type CtxFile struct {
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	Var         map[string]any      `yaml:"var"`
	Ctx         map[string]TypeArgs `yaml:"ctx"`
	Seed        map[string]TypeArgs `yaml:"seed"`
	Plan        []PlanSpec          `yaml:"plan"`
}

// VarFile is the decoded shape of a directory's var.yaml: additional
// variables merged on top of ctx.yaml's var.
type VarFile map[string]any

// PlanSpec is one plan: a named benchmark of one or more groups.
type PlanSpec struct {
	PlanID      string              `yaml:"planID"`
	Name        string              `yaml:"name"`
	Description string              `yaml:"description"`
	Group       []GroupSpec         `yaml:"group"`
	Unit        []UnitSpec          `yaml:"unit"`
	Monitor     map[string]TypeArgs `yaml:"monitor"`
}

// GroupSpec is one `group` entry of a plan: stopping bounds, quantile
// config, and positional parallel/limit overrides shared by every unit
// in the group.
type GroupSpec struct {
	Seconds     float64   `yaml:"seconds"`
	Times       int       `yaml:"times"`
	Parallel    []int     `yaml:"parallel"`
	Limit       []int     `yaml:"limit"`
	Quantile    []float64 `yaml:"quantile"`
	MaxStepSize int       `yaml:"maxStepSize"`
}

// UnitSpec is one parallel workload definition within a group.
type UnitSpec struct {
	Name string            `yaml:"name"`
	Seed map[string]string `yaml:"seed"` // local name -> seed instance name
	Step []StepSpec        `yaml:"step"`
}

// StepSpec is one logical request; may contain multiple sub-steps
// against different drivers when a unit's Step list has more than one
// entry executed in the same invocation.
type StepSpec struct {
	Name string  `yaml:"name"`
	Ctx  string  `yaml:"ctx"`
	Req  any     `yaml:"req"`
	Res  ResSpec `yaml:"res"`
}

// ResSpec is the response contract rendered against {res, seed, var, x}
// to yield the observed/expected classification.
type ResSpec struct {
	GroupBy string `yaml:"groupby"`
	Success string `yaml:"success"`
}

// StepName returns the step's configured name, defaulting to
// "step-{i}" per spec.md §4.2.
func (s StepSpec) StepName(i int) string {
	if s.Name != "" {
		return s.Name
	}
	return stepDefaultName(i)
}

func stepDefaultName(i int) string {
	return "step-" + strconv.Itoa(i)
}
