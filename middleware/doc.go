// Package middleware exposes HTTP middleware adapters for token
// authentication and role authorization built on top of authcore.Engine
// verification.
//
// # Guards
//
//   - [Authenticate] — verifies the bearer token and injects claims.
//   - [RequireRole] — role gate over injected claims.
//   - [RequireOwnerOrAdmin] — resource-ownership gate with admin override.
//
// Authenticate reads the Authorization header, verifies the access token,
// and injects the claims into the request context. The role and ownership
// guards must be stacked inside Authenticate; they reject with 401 when no
// claims are present.
//
// # Architecture boundaries
//
// This package translates HTTP semantics into verifier calls. It does NOT
// implement authentication logic itself.
//
// # What this package must NOT do
//
//   - Parse or create JWTs directly (delegates to the verifier).
//   - Perform store I/O.
//   - Make authorization decisions beyond the claim role and ownership
//     checks above.
package middleware
