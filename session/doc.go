// Package session records login events in the shared key-value store for
// bulk invalidation.
//
// A session is bookkeeping, not the source of truth for token validity:
// access tokens authenticate by signature alone, and a missing session is a
// safe degraded condition. Sessions are keyed by an opaque session ID and
// expire with the refresh-token lifetime; logout and password changes delete
// them explicitly.
package session
