package authcore

import (
	"context"
	"errors"
	"time"
)

// SetUserActive enables or disables an account. Disabling also purges the
// account's sessions so existing logins stop resolving immediately;
// outstanding access tokens still verify until they expire.
func (e *Engine) SetUserActive(ctx context.Context, userID string, active bool) error {
	if e == nil || e.users == nil {
		return ErrEngineNotReady
	}
	if userID == "" {
		return ErrValidation
	}

	user, err := e.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return e.internalErr("set_active.find_user", err)
	}

	if err := e.users.UpdateFields(ctx, user.ID, map[string]any{
		FieldActive:    active,
		FieldUpdatedAt: time.Now(),
	}); err != nil {
		return e.internalErr("set_active.update", err)
	}

	if !active {
		if err := e.sessions.DeleteAllForUser(ctx, user.ID); err != nil {
			return e.internalErr("set_active.purge_sessions", err)
		}
		e.metricInc(MetricSessionInvalidated)
	}

	e.emitAudit(ctx, EventAccountStatus, true, user, ClientMeta{}, nil,
		map[string]string{"active": boolString(active)})
	return nil
}

// UnlockUser clears both the key-value failure counter and the persisted
// lockout fields, ending a lockout early.
func (e *Engine) UnlockUser(ctx context.Context, userID string) error {
	if e == nil || e.users == nil {
		return ErrEngineNotReady
	}
	if userID == "" {
		return ErrValidation
	}

	user, err := e.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			return ErrUserNotFound
		}
		return e.internalErr("unlock.find_user", err)
	}

	if err := e.lockout.Reset(ctx, user.Email); err != nil {
		return e.internalErr("unlock.reset_counter", err)
	}

	if err := e.users.UpdateFields(ctx, user.ID, map[string]any{
		FieldFailedLogins: 0,
		FieldLockoutUntil: nil,
		FieldUpdatedAt:    time.Now(),
	}); err != nil {
		return e.internalErr("unlock.update", err)
	}

	e.emitAudit(ctx, EventAccountUnlock, true, user, ClientMeta{}, nil, nil)
	return nil
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
