package inmemory

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kopachlager/xmasavatar/internal/ports/cache"
)

func TestKVStore_SetGet(t *testing.T) {
	ctx := context.Background()
	store := NewKVStore()

	_, err := store.Get(ctx, "missing")
	assert.ErrorIs(t, err, cache.ErrNotFound)

	require.NoError(t, store.Set(ctx, "k", "v", 0))
	got, err := store.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, "v", got)
}

func TestKVStore_TTL(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC)
	store := NewKVStore()
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, "k", "v", time.Second))
	_, err := store.Get(ctx, "k")
	require.NoError(t, err)

	now = now.Add(time.Second)
	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, cache.ErrNotFound)
}
