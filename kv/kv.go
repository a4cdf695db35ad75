package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNil is returned by Get when the key does not exist.
var ErrNil = errors.New("kv: key not found")

// ErrUnavailable wraps transport-level failures from the backing store.
// Callers treat it as retryable; the engine maps it to an internal error.
var ErrUnavailable = errors.New("kv: store unavailable")

// Store is the key-value contract consumed by the session store and the
// lockout tracker.
//
// IncrWithExpiry must be a single server-side atomic operation: two
// concurrent calls for the same key must both be counted. The TTL is applied
// only when the increment creates the key, so a counter window is fixed from
// the first hit rather than rolling.
type Store interface {
	IncrWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error)
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	KeysWithPrefix(ctx context.Context, prefix string) ([]string, error)
}
