package authcore

import (
	"errors"
	"fmt"
	"time"
)

var (
	// ErrValidation indicates malformed input rejected before any store or
	// hashing work.
	ErrValidation = errors.New("invalid input")
	// ErrInvalidCredentials covers both "no such user" and "wrong password"
	// with deliberately identical wording to avoid account enumeration.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUserExists is returned by Register for a duplicate email.
	ErrUserExists = errors.New("account already exists")
	// ErrUserNotFound is returned by [UserStore] lookups for missing
	// records and by Refresh when the subject no longer resolves.
	ErrUserNotFound = errors.New("user not found")
	// ErrAccountDisabled is returned for an inactive account. No failure is
	// recorded for these attempts.
	ErrAccountDisabled = errors.New("account disabled")
	// ErrAccountLocked is returned while a lockout is in force, regardless
	// of password correctness.
	ErrAccountLocked = errors.New("account locked")
	// ErrTooManyAttempts is the sentinel matched by [TooManyAttemptsError].
	ErrTooManyAttempts = errors.New("too many attempts")
	// ErrTokenExpired is returned for a structurally valid but expired
	// access token.
	ErrTokenExpired = errors.New("token expired")
	// ErrInvalidToken covers malformed tokens and invalid signatures,
	// including tokens signed with the wrong secret.
	ErrInvalidToken = errors.New("invalid token")
	// ErrWrongTokenType is returned when a token lacking the refresh
	// discriminator is presented on the refresh path.
	ErrWrongTokenType = errors.New("wrong token type")
	// ErrInvalidRefreshToken is the refresh-path analogue of
	// ErrInvalidToken.
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
	// ErrRefreshExpired is returned for an expired refresh token.
	ErrRefreshExpired = errors.New("refresh token expired")
	// ErrInvalidCurrentPassword is returned by ChangePassword when the
	// supplied current password does not match.
	ErrInvalidCurrentPassword = errors.New("current password incorrect")
	// ErrUnauthorized means no usable credentials were presented (401).
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden means credentials were valid but insufficient (403).
	ErrForbidden = errors.New("forbidden")
	// ErrInternal masks store and backend failures. The underlying cause is
	// logged, never returned to the client.
	ErrInternal = errors.New("internal error")
	// ErrEngineNotReady is returned when a required dependency was not
	// supplied to the builder.
	ErrEngineNotReady = errors.New("engine not initialized")
)

// TooManyAttemptsError is returned when a login failure crosses the
// configured attempt threshold. RetryAfter tells clients when the lockout
// window elapses.
type TooManyAttemptsError struct {
	RetryAfter time.Duration
}

func (e *TooManyAttemptsError) Error() string {
	return fmt.Sprintf("too many attempts, retry after %s", e.RetryAfter)
}

// Is makes the error match [ErrTooManyAttempts] under errors.Is.
func (e *TooManyAttemptsError) Is(target error) bool {
	return target == ErrTooManyAttempts
}
