package limiters

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/mwestall/authcore/kv"
)

// ErrLockoutUnavailable indicates the counter backend is unreachable. The
// caller treats the count as unknown and must not blindly retry the
// increment: a retry after an ambiguous failure could double-count.
var ErrLockoutUnavailable = errors.New("lockout backend unavailable")

// Lockout counts failed attempts per identifier within a fixed window
// started by the first failure.
type Lockout struct {
	store  kv.Store
	prefix string
	window time.Duration
}

// NewLockout creates a tracker whose keys live under prefix. window bounds
// how long a failure streak is remembered.
func NewLockout(store kv.Store, prefix string, window time.Duration) *Lockout {
	return &Lockout{store: store, prefix: prefix, window: window}
}

func (l *Lockout) key(identifier string) string {
	return l.prefix + identifier
}

// RecordFailure atomically increments the failure counter for identifier and
// returns the new count. The window TTL is applied only when this failure
// creates the counter.
func (l *Lockout) RecordFailure(ctx context.Context, identifier string) (int64, error) {
	if identifier == "" {
		return 0, nil
	}

	count, err := l.store.IncrWithExpiry(ctx, l.key(identifier), l.window)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
	}
	return count, nil
}

// FailureCount returns the current counter for identifier. Missing keys
// return zero and do not reveal whether the identifier exists.
func (l *Lockout) FailureCount(ctx context.Context, identifier string) (int, error) {
	if identifier == "" {
		return 0, nil
	}

	val, err := l.store.Get(ctx, l.key(identifier))
	if err != nil {
		if errors.Is(err, kv.ErrNil) {
			return 0, nil
		}
		return 0, fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
	}

	count, err := strconv.Atoi(val)
	if err != nil || count < 0 {
		return 0, nil
	}
	return count, nil
}

// Reset clears the counter. Called exactly once per streak, on successful
// authentication.
func (l *Lockout) Reset(ctx context.Context, identifier string) error {
	if identifier == "" {
		return nil
	}

	if err := l.store.Delete(ctx, l.key(identifier)); err != nil {
		return fmt.Errorf("%w: %v", ErrLockoutUnavailable, err)
	}
	return nil
}
