package kv

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return NewRedis(client, time.Second), mr
}

func TestIncrWithExpiryFixedWindow(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	count, err := store.IncrWithExpiry(ctx, "ctr", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	// The window is fixed at first hit; later increments must not extend it.
	mr.FastForward(5 * time.Minute)
	count, err = store.IncrWithExpiry(ctx, "ctr", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	mr.FastForward(5 * time.Minute)
	_, err = store.Get(ctx, "ctr")
	assert.ErrorIs(t, err, ErrNil)

	// A fresh window starts at 1 again.
	count, err = store.IncrWithExpiry(ctx, "ctr", 10*time.Minute)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestGetSetDelete(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "k1", "v1", time.Minute))

	val, err := store.Get(ctx, "k1")
	require.NoError(t, err)
	assert.Equal(t, "v1", val)

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(ctx, "k1")
	assert.ErrorIs(t, err, ErrNil)

	require.NoError(t, store.Set(ctx, "k2", "v2", time.Minute))
	require.NoError(t, store.Delete(ctx, "k2", "never-existed"))
	_, err = store.Get(ctx, "k2")
	assert.ErrorIs(t, err, ErrNil)

	assert.NoError(t, store.Delete(ctx), "zero keys is a no-op")
}

func TestKeysWithPrefix(t *testing.T) {
	store, _ := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Set(ctx, "sess:a", "1", 0))
	require.NoError(t, store.Set(ctx, "sess:b", "2", 0))
	require.NoError(t, store.Set(ctx, "other:c", "3", 0))

	keys, err := store.KeysWithPrefix(ctx, "sess:")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{"sess:a", "sess:b"}, keys)

	keys, err = store.KeysWithPrefix(ctx, "none:")
	require.NoError(t, err)
	assert.Empty(t, keys)
}

func TestBackendDown(t *testing.T) {
	store, mr := newTestStore(t)
	ctx := context.Background()
	mr.Close()

	_, err := store.IncrWithExpiry(ctx, "ctr", time.Minute)
	assert.ErrorIs(t, err, ErrUnavailable)

	_, err = store.Get(ctx, "k")
	assert.ErrorIs(t, err, ErrUnavailable)

	assert.ErrorIs(t, store.Set(ctx, "k", "v", 0), ErrUnavailable)
	assert.ErrorIs(t, store.Delete(ctx, "k"), ErrUnavailable)

	_, err = store.KeysWithPrefix(ctx, "sess:")
	assert.ErrorIs(t, err, ErrUnavailable)
}
