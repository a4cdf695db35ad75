package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/mwestall/authcore/kv"
)

// ErrNotFound is returned by Get when no session exists for the ID.
var ErrNotFound = errors.New("session not found")

// Store persists sessions in the key-value tier under a namespace prefix.
type Store struct {
	store  kv.Store
	prefix string
}

// NewStore creates a session store namespaced by prefix (e.g. "sess:").
func NewStore(store kv.Store, prefix string) *Store {
	if prefix == "" {
		prefix = "sess:"
	}
	return &Store{store: store, prefix: prefix}
}

func (s *Store) key(sessionID string) string {
	return s.prefix + sessionID
}

// Save writes the session with the given TTL, overwriting any previous
// record under the same session ID.
func (s *Store) Save(ctx context.Context, sess *Session, ttl time.Duration) error {
	data, err := Encode(sess)
	if err != nil {
		return err
	}
	return s.store.Set(ctx, s.key(sess.SessionID), data, ttl)
}

// Get loads a session by ID. Expired sessions are absent by store TTL.
func (s *Store) Get(ctx context.Context, sessionID string) (*Session, error) {
	data, err := s.store.Get(ctx, s.key(sessionID))
	if err != nil {
		if errors.Is(err, kv.ErrNil) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	sess, err := Decode(data)
	if err != nil {
		return nil, err
	}
	sess.SessionID = sessionID
	return sess, nil
}

// Delete removes a single session. Deleting a missing session is not an
// error.
func (s *Store) Delete(ctx context.Context, sessionID string) error {
	return s.store.Delete(ctx, s.key(sessionID))
}

// DeleteAllForUser removes every session whose record belongs to userID.
//
// SCALING CAVEAT: the key-value tier has no secondary index by user, so this
// scans all keys under the session prefix and inspects each record's
// embedded user ID. Cost is O(active sessions across all users). Deletion is
// batched into a single multi-key delete so a large session set does not
// turn into one round-trip per key.
func (s *Store) DeleteAllForUser(ctx context.Context, userID string) error {
	keys, err := s.store.KeysWithPrefix(ctx, s.prefix)
	if err != nil {
		return err
	}

	var doomed []string
	for _, key := range keys {
		data, err := s.store.Get(ctx, key)
		if err != nil {
			if errors.Is(err, kv.ErrNil) {
				// Expired between scan and read.
				continue
			}
			return err
		}

		sess, err := Decode(data)
		if err != nil {
			// Undecodable blob under our prefix: remove it rather than
			// leave it invisible to every future bulk invalidation.
			doomed = append(doomed, key)
			continue
		}
		if sess.UserID == userID {
			doomed = append(doomed, key)
		}
	}

	if len(doomed) == 0 {
		return nil
	}
	if err := s.store.Delete(ctx, doomed...); err != nil {
		return fmt.Errorf("deleting %d sessions: %w", len(doomed), err)
	}
	return nil
}

// SessionIDFromKey strips the namespace prefix from a raw store key.
func (s *Store) SessionIDFromKey(key string) string {
	return strings.TrimPrefix(key, s.prefix)
}
