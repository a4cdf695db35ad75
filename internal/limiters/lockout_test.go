package limiters

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwestall/authcore/kv"
)

func newTestLockout(t *testing.T, window time.Duration) (*Lockout, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	return NewLockout(kv.NewRedis(rdb, 0), "la:", window), mr
}

func TestRecordFailureIncrements(t *testing.T) {
	l, _ := newTestLockout(t, 15*time.Minute)
	ctx := context.Background()

	for i := int64(1); i <= 3; i++ {
		count, err := l.RecordFailure(ctx, "user@example.com")
		require.NoError(t, err)
		assert.Equal(t, i, count)
	}

	count, err := l.FailureCount(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, 3, count)
}

func TestFailureCountMissingKeyIsZero(t *testing.T) {
	l, _ := newTestLockout(t, 15*time.Minute)

	count, err := l.FailureCount(context.Background(), "nobody@example.com")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestWindowFixedFromFirstFailure(t *testing.T) {
	l, mr := newTestLockout(t, 15*time.Minute)
	ctx := context.Background()

	_, err := l.RecordFailure(ctx, "user@example.com")
	require.NoError(t, err)

	mr.FastForward(10 * time.Minute)

	// A second failure mid-window must not extend the TTL.
	_, err = l.RecordFailure(ctx, "user@example.com")
	require.NoError(t, err)

	mr.FastForward(5*time.Minute + time.Second)

	count, err := l.FailureCount(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Zero(t, count, "counter should expire 15m after the first failure")
}

func TestResetClearsCounter(t *testing.T) {
	l, _ := newTestLockout(t, 15*time.Minute)
	ctx := context.Background()

	_, err := l.RecordFailure(ctx, "user@example.com")
	require.NoError(t, err)
	require.NoError(t, l.Reset(ctx, "user@example.com"))

	count, err := l.FailureCount(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestConcurrentRecordFailureNoLostUpdates(t *testing.T) {
	l, _ := newTestLockout(t, 15*time.Minute)
	ctx := context.Background()

	const parallel = 20
	var wg sync.WaitGroup
	wg.Add(parallel)
	for i := 0; i < parallel; i++ {
		go func() {
			defer wg.Done()
			_, err := l.RecordFailure(ctx, "user@example.com")
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	count, err := l.FailureCount(ctx, "user@example.com")
	require.NoError(t, err)
	assert.Equal(t, parallel, count, "every concurrent failure must be counted")
}

func TestBackendDownSurfacesUnavailable(t *testing.T) {
	l, mr := newTestLockout(t, 15*time.Minute)
	mr.Close()

	_, err := l.RecordFailure(context.Background(), "user@example.com")
	assert.ErrorIs(t, err, ErrLockoutUnavailable)
}

func TestEmptyIdentifierIsNoOp(t *testing.T) {
	l, _ := newTestLockout(t, 15*time.Minute)
	ctx := context.Background()

	count, err := l.RecordFailure(ctx, "")
	require.NoError(t, err)
	assert.Zero(t, count)
	require.NoError(t, l.Reset(ctx, ""))
}
