package authcore

import "context"

// Logout deletes the caller's own session record. Outstanding access tokens
// remain cryptographically valid until expiry; only the session bookkeeping
// is removed.
func (e *Engine) Logout(ctx context.Context, sessionID string) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}
	if sessionID == "" {
		return ErrValidation
	}

	if err := e.sessions.Delete(ctx, sessionID); err != nil {
		return e.internalErr("logout.delete_session", err)
	}

	e.metricInc(MetricLogout)
	e.metricInc(MetricSessionInvalidated)
	e.emitAudit(ctx, EventLogout, true, nil, ClientMeta{}, nil, map[string]string{"session_id": sessionID})
	return nil
}

// LogoutAll deletes every session belonging to userID. Cost is linear in
// the number of active sessions across all users (prefix scan, see
// session.Store.DeleteAllForUser).
func (e *Engine) LogoutAll(ctx context.Context, userID string) error {
	if e == nil || e.sessions == nil {
		return ErrEngineNotReady
	}
	if userID == "" {
		return ErrValidation
	}

	if err := e.sessions.DeleteAllForUser(ctx, userID); err != nil {
		return e.internalErr("logout_all.delete_sessions", err)
	}

	e.metricInc(MetricLogoutAll)
	e.metricInc(MetricSessionInvalidated)
	e.emitAudit(ctx, EventLogoutAll, true, &User{ID: userID}, ClientMeta{}, nil, nil)
	return nil
}
