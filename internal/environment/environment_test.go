package environment

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefineAndLookup(t *testing.T) {
	env := New(nil)
	env.Define("x", int64(10))
	v, err := env.Lookup("x")
	require.Nil(t, err)
	require.Equal(t, int64(10), v)
}

func TestLookupWalksToParent(t *testing.T) {
	root := New(map[string]any{"x": int64(1)})
	child := root.ExtendEnv(map[string]any{"y": int64(2)})
	v, err := child.Lookup("x")
	require.Nil(t, err)
	require.Equal(t, int64(1), v)
}

func TestLookupMissingIsUndefinedSymbol(t *testing.T) {
	env := New(nil)
	_, err := env.Lookup("nope")
	require.NotNil(t, err)
	require.Equal(t, "undefined_symbol", err.Reason)
}

func TestDefineIsFrameLocal(t *testing.T) {
	root := New(map[string]any{"x": int64(1)})
	child := root.ExtendEnv(nil)
	child.Define("x", int64(99))

	childVal, err := child.Lookup("x")
	require.Nil(t, err)
	require.Equal(t, int64(99), childVal)

	rootVal, err := root.Lookup("x")
	require.Nil(t, err)
	require.Equal(t, int64(1), rootVal)
}

func TestExtendDoesNotMutateParent(t *testing.T) {
	root := New(map[string]any{"x": int64(1)})
	_ = root.ExtendEnv(map[string]any{"x": int64(2)})
	v, _ := root.Lookup("x")
	require.Equal(t, int64(1), v)
}
