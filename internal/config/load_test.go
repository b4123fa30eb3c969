package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadCtxFileMissingYieldsZeroValue(t *testing.T) {
	dir := t.TempDir()
	c, err := LoadCtxFile(dir, DefaultCustomize())
	require.NoError(t, err)
	assert.Equal(t, CtxFile{}, c)
}

func TestLoadCtxFileParsesDriverAndSeedTables(t *testing.T) {
	dir := t.TempDir()
	content := `
name: smoke
ctx:
  api:
    type: http
    args:
      url: http://localhost
seed:
  ids:
    type: dict
    args:
      values: [1, 2, 3]
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ctx.yaml"), []byte(content), 0o644))

	c, err := LoadCtxFile(dir, DefaultCustomize())
	require.NoError(t, err)
	assert.Equal(t, "smoke", c.Name)
	assert.Equal(t, "http", c.Ctx["api"].Type)
	assert.Equal(t, "dict", c.Seed["ids"].Type)
}

func TestMergeVarsOverlayWinsAndNestedMapsDeepMerge(t *testing.T) {
	base := map[string]any{"a": 1, "nested": map[string]any{"x": 1, "y": 2}}
	overlay := map[string]any{"a": 2, "nested": map[string]any{"y": 99}}

	out := MergeVars(base, overlay)
	assert.Equal(t, 2, out["a"])
	nested := out["nested"].(map[string]any)
	assert.Equal(t, 1, nested["x"])
	assert.Equal(t, 99, nested["y"])
}

func TestPlanFilesExcludesReservedNames(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"ctx.yaml", "var.yaml", "smoke.yaml", "README.md"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("{}"), 0o644))
	}

	files, err := PlanFiles(dir, DefaultCustomize())
	require.NoError(t, err)
	require.Len(t, files, 1)
	assert.Equal(t, filepath.Join(dir, "smoke.yaml"), files[0])
}

func TestSubDirsSortedAndExcludesFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "b"), 0o755))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "a"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "file.yaml"), []byte("{}"), 0o644))

	subs, err := SubDirs(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, subs)
}
