package cache

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNow(day string) func() time.Time {
	return func() time.Time {
		parsed, _ := time.Parse(DayFormat, day)
		return parsed
	}
}

func seedStore(t *testing.T, store *MemoryStore, keys ...string) {
	t.Helper()
	entries := make(map[string]json.RawMessage, len(keys))
	for _, key := range keys {
		entries[key] = json.RawMessage(`{}`)
	}
	require.NoError(t, store.SetMany(context.Background(), entries))
}

func TestSweepOld_RemovesStaleEntries(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seedStore(t, store,
		"shop-items-shopA-2024-04-30",
		"shop-items-shopB-2024-04-29",
		"shop-items-shopC-2024-05-01",
		"settings-selected-retailers",
	)

	sweeper := NewSweeper(store, fixedNow("2024-05-01"))
	sweeper.SweepOld(ctx)

	all, err := store.Enumerate(ctx)
	require.NoError(t, err)

	assert.NotContains(t, all, "shop-items-shopA-2024-04-30")
	assert.NotContains(t, all, "shop-items-shopB-2024-04-29")
	assert.Contains(t, all, "shop-items-shopC-2024-05-01")
	assert.Contains(t, all, "settings-selected-retailers")
	assert.Contains(t, all, sentinelKey)
}

func TestSweepOld_SecondCallSameDayIsNoOp(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	sweeper := NewSweeper(store, fixedNow("2024-05-01"))
	sweeper.SweepOld(ctx)

	// A stale entry written after the first sweep must survive the second
	// call: removal work happens at most once per day.
	seedStore(t, store, "shop-items-late-2024-04-30")
	sweeper.SweepOld(ctx)

	_, ok, err := store.Get(ctx, "shop-items-late-2024-04-30")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSweepOld_NewDayTriggersSweepAgain(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	NewSweeper(store, fixedNow("2024-05-01")).SweepOld(ctx)
	seedStore(t, store, "shop-items-shopA-2024-05-01")

	NewSweeper(store, fixedNow("2024-05-02")).SweepOld(ctx)

	_, ok, err := store.Get(ctx, "shop-items-shopA-2024-05-01")
	require.NoError(t, err)
	assert.False(t, ok)
}

// failingStore errors on every operation.
type failingStore struct{}

func (failingStore) Get(context.Context, string) (json.RawMessage, bool, error) {
	return nil, false, errors.New("boom")
}
func (failingStore) SetMany(context.Context, map[string]json.RawMessage) error {
	return errors.New("boom")
}
func (failingStore) RemoveMany(context.Context, []string) error {
	return errors.New("boom")
}
func (failingStore) Enumerate(context.Context) (map[string]json.RawMessage, error) {
	return nil, errors.New("boom")
}

func TestSweepOld_StoreErrorsAreSwallowed(t *testing.T) {
	sweeper := NewSweeper(failingStore{}, fixedNow("2024-05-01"))

	assert.NotPanics(t, func() {
		sweeper.SweepOld(context.Background())
	})
}
