package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegistryBuildAndOverride(t *testing.T) {
	r := New[int]()
	r.Register("one", func(args map[string]any) (int, error) { return 1, nil })
	assert.True(t, r.Has("one"))
	assert.False(t, r.Has("two"))

	v, err := r.Build("one", nil)
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	// Re-registering shadows the previous constructor (extension tables
	// overriding a built-in).
	r.Register("one", func(args map[string]any) (int, error) { return 2, nil })
	v, err = r.Build("one", nil)
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestRegistryBuildUnknownType(t *testing.T) {
	r := New[int]()
	_, err := r.Build("missing", nil)
	assert.Error(t, err)
}
