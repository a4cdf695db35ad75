// Package jwt issues and verifies the engine's signed access and refresh
// tokens.
//
// Access and refresh tokens are HS256-signed with two independent secrets.
// Verification against the wrong secret fails closed: there is no fallback
// from one key to the other, so a refresh token can never be replayed as an
// access token or vice versa. Refresh tokens additionally carry a
// token_type discriminator that the refresh path requires.
//
// Verification failures are partitioned into exactly three kinds (expired,
// malformed, wrong token type) so callers can log the distinction while
// presenting deliberately similar messages to clients. Bad signatures,
// garbage input, and missing claims all count as malformed.
package jwt
