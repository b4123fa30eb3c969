package config

import (
	"os"
	"path/filepath"
	"sort"

	"gopkg.in/yaml.v3"
)

// Customize holds the configurable filenames and the plan sub-root,
// grounded on ben/framework/framework.py's customize.yaml defaults
// (framework.loadingFiles). It carries no template-prefix overrides;
// the prefixes are the fixed constants of internal/template.
type Customize struct {
	CtxFile         string
	VarFile         string
	DescriptionFile string
	PlanRoot        string // directory prefix under which plans are discovered
}

// DefaultCustomize returns the harness's built-in filenames.
func DefaultCustomize() Customize {
	return Customize{
		CtxFile:         "ctx.yaml",
		VarFile:         "var.yaml",
		DescriptionFile: "README.md",
		PlanRoot:        "",
	}
}

// LoadCtxFile reads dir/ctx.yaml, returning a zero-value CtxFile (not
// an error) if the file is absent.
func LoadCtxFile(dir string, c Customize) (CtxFile, error) {
	var out CtxFile
	path := filepath.Join(dir, c.CtxFile)
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return out, nil
	}
	if err != nil {
		return out, err
	}
	if err := yaml.Unmarshal(b, &out); err != nil {
		return out, err
	}
	return out, nil
}

// LoadVarFile reads dir/var.yaml, returning an empty map (not an
// error) if the file is absent.
func LoadVarFile(dir string, c Customize) (VarFile, error) {
	path := filepath.Join(dir, c.VarFile)
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return VarFile{}, nil
	}
	if err != nil {
		return nil, err
	}
	var out VarFile
	if err := yaml.Unmarshal(b, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = VarFile{}
	}
	return out, nil
}

// LoadDescription reads dir/README.md, returning "" (not an error) if
// the file is absent.
func LoadDescription(dir string, c Customize) (string, error) {
	path := filepath.Join(dir, c.DescriptionFile)
	b, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return string(b), nil
}

// PlanFiles lists every *.yaml (or *.yml) file in dir other than the
// three reserved names, sorted for deterministic ordering, per spec.md
// §4.6's "a plan spec (object) or list of plan specs."
func PlanFiles(dir string, c Customize) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		name := e.Name()
		if name == c.CtxFile || name == c.VarFile || name == c.DescriptionFile {
			continue
		}
		if filepath.Ext(name) != ".yaml" && filepath.Ext(name) != ".yml" {
			continue
		}
		out = append(out, filepath.Join(dir, name))
	}
	sort.Strings(out)
	return out, nil
}

// LoadPlanFile parses a plan file that may contain a single plan
// object or a list of plan specs.
func LoadPlanFile(path string) ([]PlanSpec, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var list []PlanSpec
	if err := yaml.Unmarshal(b, &list); err == nil && len(list) > 0 {
		return list, nil
	}

	var single PlanSpec
	if err := yaml.Unmarshal(b, &single); err != nil {
		return nil, err
	}
	return []PlanSpec{single}, nil
}

// SubDirs lists the immediate sub-directories of dir, sorted by name
// for the walker's deterministic recursion (spec.md §4.6 step 7).
func SubDirs(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, e := range entries {
		if e.IsDir() {
			out = append(out, e.Name())
		}
	}
	sort.Strings(out)
	return out, nil
}

// MergeVars deep-merges overlay onto base, with overlay winning on
// conflicts and nested maps merged recursively, per spec.md §4.6 step 2
// (parent.var_info ⊕ ctx_file.var ⊕ var_file).
func MergeVars(base, overlay map[string]any) map[string]any {
	out := make(map[string]any, len(base)+len(overlay))
	for k, v := range base {
		out[k] = v
	}
	for k, v := range overlay {
		if bv, ok := out[k]; ok {
			if bm, ok := bv.(map[string]any); ok {
				if ov, ok := v.(map[string]any); ok {
					out[k] = MergeVars(bm, ov)
					continue
				}
			}
		}
		out[k] = v
	}
	return out
}
