package authcore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Login authenticates an email/password pair and, on success, issues a
// token pair and records a session.
//
// Check order is fixed: validation, lockout state, then password. A locked
// or disabled account is rejected before any hash work, and lockout wins
// even when the key-value counter and the persisted record disagree
// (deny-by-default). Token issuance happens only after every check passes;
// the session write follows issuance and is best-effort.
func (e *Engine) Login(ctx context.Context, email, pass string, meta ClientMeta) (*AuthResult, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}

	email = normalizeEmail(email)
	if email == "" || pass == "" {
		// Reject before any store lookup or hashing work.
		return nil, ErrValidation
	}

	if err := e.checkIPThrottle(ctx, meta); err != nil {
		return nil, err
	}

	user, err := e.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			// Counted like a wrong password so probing unknown addresses
			// burns attempts too, with identical client wording.
			return nil, e.failLogin(ctx, email, nil, meta)
		}
		return nil, e.internalErr("login.find_user", err)
	}

	if !user.Active {
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, EventLogin, false, user, meta, ErrAccountDisabled, nil)
		return nil, ErrAccountDisabled
	}

	if user.LockoutUntil != nil && user.LockoutUntil.After(time.Now()) {
		// Persisted lockout holds even if the key-value counter was lost.
		e.metricInc(MetricLoginLocked)
		e.emitAudit(ctx, EventLoginLocked, false, user, meta, ErrAccountLocked, nil)
		return nil, ErrAccountLocked
	}

	count, err := e.lockout.FailureCount(ctx, email)
	if err != nil {
		// Count unknown: err toward not locking rather than over-locking.
		e.logger.Warn("failure count unavailable, treating as unknown", "error", err)
	} else if count >= e.config.Lockout.MaxAttempts {
		e.metricInc(MetricLoginLocked)
		e.emitAudit(ctx, EventLoginLocked, false, user, meta, ErrAccountLocked, nil)
		return nil, ErrAccountLocked
	}

	ok, err := e.hasher.Verify(pass, user.PasswordHash)
	if err != nil {
		// Corrupt stored hash: operator-visible data corruption, while the
		// client sees an ordinary credential failure.
		e.logger.Error("corrupt credential hash", "user_id", user.ID, "error", err)
		e.metricInc(MetricLoginFailure)
		e.emitAudit(ctx, EventLogin, false, user, meta, err, map[string]string{"reason": "corrupt_hash"})
		return nil, ErrInvalidCredentials
	}
	if !ok {
		return nil, e.failLogin(ctx, email, user, meta)
	}

	return e.succeedLogin(ctx, email, pass, user, meta)
}

func (e *Engine) checkIPThrottle(ctx context.Context, meta ClientMeta) error {
	if e.ipLockout == nil || meta.IP == "" {
		return nil
	}

	count, err := e.ipLockout.FailureCount(ctx, meta.IP)
	if err != nil {
		e.logger.Warn("ip throttle count unavailable, treating as unknown", "error", err)
		return nil
	}
	if count >= e.config.Lockout.MaxAttempts {
		e.metricInc(MetricLoginLocked)
		return &TooManyAttemptsError{RetryAfter: e.attemptWindow}
	}
	return nil
}

// failLogin records a failed attempt and persists the denormalized counter
// on the user record. user is nil when the account does not exist.
func (e *Engine) failLogin(ctx context.Context, email string, user *User, meta ClientMeta) error {
	count, err := e.lockout.RecordFailure(ctx, email)
	if err != nil {
		// Ambiguous failure: never retried, count treated as unknown.
		e.logger.Warn("failed-attempt increment ambiguous, count unknown", "error", err)
		count = 0
	}
	if e.ipLockout != nil && meta.IP != "" {
		if _, err := e.ipLockout.RecordFailure(ctx, meta.IP); err != nil {
			e.logger.Warn("ip throttle increment failed", "error", err)
		}
	}

	locked := count > 0 && count >= int64(e.config.Lockout.MaxAttempts)

	if user != nil {
		fields := map[string]any{
			FieldFailedLogins: int(count),
			FieldUpdatedAt:    time.Now(),
		}
		if locked {
			until := time.Now().Add(e.lockoutDuration())
			fields[FieldLockoutUntil] = &until
		}
		if err := e.users.UpdateFields(ctx, user.ID, fields); err != nil {
			e.logger.Warn("persisting failure counter failed", "user_id", user.ID, "error", err)
		}
	}

	e.metricInc(MetricLoginFailure)
	e.emitAudit(ctx, EventLogin, false, user, meta, ErrInvalidCredentials, map[string]string{"email": email})

	if locked {
		e.metricInc(MetricLoginLocked)
		e.emitAudit(ctx, EventLoginLocked, false, user, meta, ErrTooManyAttempts, nil)
		return &TooManyAttemptsError{RetryAfter: e.lockoutDuration()}
	}
	return ErrInvalidCredentials
}

func (e *Engine) succeedLogin(ctx context.Context, email, pass string, user *User, meta ClientMeta) (*AuthResult, error) {
	if err := e.lockout.Reset(ctx, email); err != nil {
		e.logger.Warn("resetting failure counter failed", "user_id", user.ID, "error", err)
	}
	if e.ipLockout != nil && meta.IP != "" {
		if err := e.ipLockout.Reset(ctx, meta.IP); err != nil {
			e.logger.Warn("resetting ip throttle failed", "error", err)
		}
	}

	now := time.Now()
	fields := map[string]any{
		FieldFailedLogins: 0,
		FieldLockoutUntil: nil,
		FieldLastLoginAt:  now,
		FieldUpdatedAt:    now,
	}
	if err := e.users.UpdateFields(ctx, user.ID, fields); err != nil {
		e.logger.Warn("clearing lockout state failed", "user_id", user.ID, "error", err)
	}

	e.maybeUpgradeHash(ctx, user, pass)

	sessionID := uuid.NewString()
	pair, err := e.tokens.IssuePair(user.ID, user.Email, string(user.Role), sessionID)
	if err != nil {
		return nil, e.internalErr("login.issue_tokens", err)
	}

	// Session write only after issuance succeeded; its failure degrades
	// bulk invalidation, not this response.
	e.writeSession(ctx, sessionID, user, meta)

	user.FailedLogins = 0
	user.LockoutUntil = nil
	user.LastLoginAt = &now

	e.metricInc(MetricLoginSuccess)
	e.emitAudit(ctx, EventLogin, true, user, meta, nil, nil)

	return &AuthResult{
		User:   user,
		Tokens: TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken},
	}, nil
}

// maybeUpgradeHash transparently rehashes at the configured cost after a
// successful verification against a weaker stored hash.
func (e *Engine) maybeUpgradeHash(ctx context.Context, user *User, pass string) {
	needs, err := e.hasher.NeedsUpgrade(user.PasswordHash)
	if err != nil || !needs {
		return
	}

	newHash, err := e.hasher.Hash(pass)
	if err != nil {
		e.logger.Warn("password hash upgrade generation failed", "user_id", user.ID)
		return
	}
	if err := e.users.UpdateFields(ctx, user.ID, map[string]any{
		FieldPasswordHash: newHash,
		FieldUpdatedAt:    time.Now(),
	}); err != nil {
		e.logger.Warn("password hash upgrade update failed", "user_id", user.ID)
		return
	}
	user.PasswordHash = newHash
}
