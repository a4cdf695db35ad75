// Package authcore implements the authentication and session-lifecycle core:
// signed access/refresh token issuance and verification, password credential
// storage, brute-force lockout tracking, Redis-backed session bookkeeping,
// and role/ownership authorization decisions.
//
// The package is designed for concurrent server workloads: Engine methods are
// safe to call from multiple goroutines after initialization through
// [Builder.Build].
//
// # Architecture boundaries
//
// authcore is the public surface. It exposes [Engine], [Builder], [Config],
// sentinel errors, and value types. Lockout counting, audit dispatch, and
// metrics live under internal/ and are never exported. Persistence is
// consumed, not implemented: callers supply a [UserStore] for user records
// and a Redis client (adapted to [kv.Store]) for ephemeral state.
//
// # What this package must NOT do
//
//   - Implement a database. The user record store is an external
//     collaborator behind the narrow [UserStore] interface.
//   - Treat sessions as the source of truth for token validity. Access
//     tokens authenticate by signature alone; sessions exist for bulk
//     invalidation and bookkeeping.
//   - Reveal through client-visible errors whether an account exists.
//     "No such user" and "wrong password" are indistinguishable to callers.
package authcore
