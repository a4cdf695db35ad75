package kv

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultOpTimeout = 3 * time.Second
	readRetryBackoff = 50 * time.Millisecond
)

// Redis adapts a go-redis client to [Store]. Every operation runs under a
// bounded per-operation timeout derived from the caller's context, so no
// engine call can block indefinitely on an unresponsive backend.
//
// Idempotent reads (Get, KeysWithPrefix) are retried once after a short
// backoff. Writes and increments are never retried: a blind retry after an
// ambiguous increment failure could double-count a login attempt.
type Redis struct {
	client    redis.UniversalClient
	opTimeout time.Duration
}

// NewRedis wraps client. opTimeout bounds each store operation; zero selects
// the 3s default.
func NewRedis(client redis.UniversalClient, opTimeout time.Duration) *Redis {
	if opTimeout <= 0 {
		opTimeout = defaultOpTimeout
	}
	return &Redis{client: client, opTimeout: opTimeout}
}

func (r *Redis) bound(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.opTimeout)
}

// IncrWithExpiry atomically increments key and, when this call created the
// key, applies ttl. Subsequent increments within the window leave the TTL
// untouched (fixed window from first offense).
func (r *Redis) IncrWithExpiry(ctx context.Context, key string, ttl time.Duration) (int64, error) {
	opCtx, cancel := r.bound(ctx)
	defer cancel()

	count, err := r.client.Incr(opCtx, key).Result()
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	if count == 1 && ttl > 0 {
		if err := r.client.Expire(opCtx, key, ttl).Err(); err != nil {
			return 0, fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
	}

	return count, nil
}

// Get returns the value at key, or [ErrNil] when absent. One retry on
// transport failure.
func (r *Redis) Get(ctx context.Context, key string) (string, error) {
	val, err := r.get(ctx, key)
	if err != nil && !errors.Is(err, ErrNil) {
		time.Sleep(readRetryBackoff)
		val, err = r.get(ctx, key)
	}
	return val, err
}

func (r *Redis) get(ctx context.Context, key string) (string, error) {
	opCtx, cancel := r.bound(ctx)
	defer cancel()

	val, err := r.client.Get(opCtx, key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNil
		}
		return "", fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return val, nil
}

// Set stores value at key with the given ttl.
func (r *Redis) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	opCtx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.client.Set(opCtx, key, value, ttl).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// Delete removes the given keys. Missing keys are not an error.
func (r *Redis) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	opCtx, cancel := r.bound(ctx)
	defer cancel()

	if err := r.client.Del(opCtx, keys...).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return nil
}

// KeysWithPrefix lists all keys under prefix using SCAN. Cost is linear in
// the keyspace slice covered by the prefix; callers doing bulk invalidation
// accept this (see session.Store.DeleteAllForUser). One retry on transport
// failure.
func (r *Redis) KeysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	keys, err := r.keysWithPrefix(ctx, prefix)
	if err != nil {
		time.Sleep(readRetryBackoff)
		keys, err = r.keysWithPrefix(ctx, prefix)
	}
	return keys, err
}

func (r *Redis) keysWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	opCtx, cancel := r.bound(ctx)
	defer cancel()

	var keys []string
	iter := r.client.Scan(opCtx, 0, prefix+"*", 0).Iterator()
	for iter.Next(opCtx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return keys, nil
}
