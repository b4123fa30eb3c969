// Package rtctx holds the per-directory runtime state the Test Tree
// Walker threads downward: the effective variable map and the
// (copy-on-extend) driver and seed tables, plus the run-wide constants
// every directory shares.
//
// Grounded on ben/framework/framework.py's RuntimeContext/RuntimeConstant.
package rtctx

import (
	"maps"

	"benchtree/internal/driver"
	"benchtree/internal/monitor"
	"benchtree/internal/registry"
	"benchtree/internal/seed"
)

// Constant is shared, read-only state for the whole run: the run-wide
// test id, the closed plug-in registries, the extension namespace `x`,
// and the configured plan sub-root.
type Constant struct {
	TestID          string
	DriverRegistry  *registry.Registry[driver.Driver]
	SeedRegistry    *registry.Registry[seed.Seed]
	MonitorRegistry *registry.Registry[monitor.Monitor]
	X               map[string]any
	PlanRoot        string
}

// Context is the per-directory state threaded down the walker: the
// effective variable map and the driver/seed tables in effect at this
// directory. The driver/seed tables are copied (never mutated in
// place) when a directory extends them (spec.md §5 "copied down the
// walker; each copy is read-only thereafter").
type Context struct {
	Var     map[string]any
	Drivers map[string]driver.Driver
	Seeds   map[string]seed.Seed
}

// Root returns the empty Context a run starts from.
func Root() Context {
	return Context{Var: map[string]any{}, Drivers: map[string]driver.Driver{}, Seeds: map[string]seed.Seed{}}
}

// WithVar returns a copy of c with Var replaced.
func (c Context) WithVar(v map[string]any) Context {
	c.Var = v
	return c
}

// ExtendDrivers returns a copy of c whose driver table is the parent's
// table plus the given additions, leaving the parent's table
// untouched.
func (c Context) ExtendDrivers(additions map[string]driver.Driver) Context {
	merged := maps.Clone(c.Drivers)
	if merged == nil {
		merged = map[string]driver.Driver{}
	}
	maps.Copy(merged, additions)
	c.Drivers = merged
	return c
}

// ExtendSeeds returns a copy of c whose seed table is the parent's
// table plus the given additions, leaving the parent's table
// untouched.
func (c Context) ExtendSeeds(additions map[string]seed.Seed) Context {
	merged := maps.Clone(c.Seeds)
	if merged == nil {
		merged = map[string]seed.Seed{}
	}
	maps.Copy(merged, additions)
	c.Seeds = merged
	return c
}
