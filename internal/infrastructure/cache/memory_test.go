package cache

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_SetManyAndGet(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	err := store.SetMany(ctx, map[string]json.RawMessage{
		"key-1": json.RawMessage(`{"a":1}`),
		"key-2": json.RawMessage(`"hello"`),
	})
	require.NoError(t, err)

	value, ok, err := store.Get(ctx, "key-1")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `{"a":1}`, string(value))

	_, ok, err = store.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStore_Overwrite(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetMany(ctx, map[string]json.RawMessage{"k": json.RawMessage(`1`)}))
	require.NoError(t, store.SetMany(ctx, map[string]json.RawMessage{"k": json.RawMessage(`2`)}))

	value, ok, err := store.Get(ctx, "k")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "2", string(value))
}

func TestMemoryStore_RemoveMany(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.SetMany(ctx, map[string]json.RawMessage{
		"a": json.RawMessage(`1`),
		"b": json.RawMessage(`2`),
		"c": json.RawMessage(`3`),
	}))

	// Missing keys are ignored.
	require.NoError(t, store.RemoveMany(ctx, []string{"a", "c", "missing"}))

	assert.Equal(t, 1, store.Size())
	_, ok, err := store.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryStore_Enumerate(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	entries := map[string]json.RawMessage{
		"x": json.RawMessage(`1`),
		"y": json.RawMessage(`2`),
	}
	require.NoError(t, store.SetMany(ctx, entries))

	all, err := store.Enumerate(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
	assert.Equal(t, "1", string(all["x"]))
	assert.Equal(t, "2", string(all["y"]))

	// The snapshot is independent of later mutations.
	require.NoError(t, store.RemoveMany(ctx, []string{"x"}))
	assert.Len(t, all, 2)
}
