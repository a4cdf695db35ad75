// Package limiters tracks failed authentication attempts in the shared
// key-value store.
//
// Counters use a fixed window: the TTL is set when the first failure creates
// the key and is never extended by later failures, so repeated hammering
// cannot stretch a lockout indefinitely. Counting relies entirely on the
// store's atomic increment: two concurrent failures for one identifier are
// both counted, with no client-side read-modify-write.
package limiters
