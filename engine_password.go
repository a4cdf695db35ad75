package authcore

import (
	"context"
	"errors"
	"time"
)

// ChangePassword verifies the current password, stores a hash of the new
// one, and invalidates every session for the account. The session purge is
// not best-effort: if it cannot be completed the whole operation fails, so
// a password change never leaves stale sessions behind silently.
func (e *Engine) ChangePassword(ctx context.Context, userID, current, next string) error {
	if e == nil || e.users == nil {
		return ErrEngineNotReady
	}
	if userID == "" || current == "" {
		return ErrValidation
	}
	if len(next) < minPasswordLength {
		return ErrValidation
	}

	user, err := e.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return e.internalErr("change_password.find_user", err)
	}

	ok, err := e.hasher.Verify(current, user.PasswordHash)
	if err != nil {
		e.logger.Error("corrupt credential hash", "user_id", user.ID, "error", err)
		e.metricInc(MetricPasswordChangeInvalidCurrent)
		return ErrInvalidCurrentPassword
	}
	if !ok {
		e.metricInc(MetricPasswordChangeInvalidCurrent)
		e.emitAudit(ctx, EventPasswordChange, false, user, ClientMeta{}, ErrInvalidCurrentPassword, nil)
		return ErrInvalidCurrentPassword
	}

	hash, err := e.hasher.Hash(next)
	if err != nil {
		return e.internalErr("change_password.hash", err)
	}

	if err := e.users.UpdateFields(ctx, user.ID, map[string]any{
		FieldPasswordHash: hash,
		FieldUpdatedAt:    time.Now(),
	}); err != nil {
		return e.internalErr("change_password.update", err)
	}

	if err := e.sessions.DeleteAllForUser(ctx, user.ID); err != nil {
		return e.internalErr("change_password.purge_sessions", err)
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.metricInc(MetricSessionInvalidated)
	e.emitAudit(ctx, EventPasswordChange, true, user, ClientMeta{}, nil, nil)
	return nil
}
