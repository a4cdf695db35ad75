// Package kv defines the narrow key-value contract the engine's ephemeral
// state (sessions, lockout counters) is built on, together with a Redis
// implementation.
//
// The interface is deliberately small: an atomic increment-with-expiry
// primitive, plain get/set/delete with TTL, and a prefix scan. Anything the
// engine cannot express through these five operations does not belong in the
// key-value tier.
package kv
