package authcore

import (
	"context"
	"errors"
	"log/slog"
	"net/mail"
	"strings"
	"time"

	"github.com/mwestall/authcore/internal/audit"
	"github.com/mwestall/authcore/internal/limiters"
	"github.com/mwestall/authcore/internal/metrics"
	"github.com/mwestall/authcore/jwt"
	"github.com/mwestall/authcore/password"
	"github.com/mwestall/authcore/session"
)

const minPasswordLength = 8

// Engine composes the credential hasher, token service, lockout tracker,
// and session store into the register/login/refresh/logout/password-change
// flows. All methods are safe for concurrent use.
type Engine struct {
	config        Config
	users         UserStore
	hasher        *password.Hasher
	tokens        *jwt.Manager
	sessions      *session.Store
	lockout       *limiters.Lockout
	ipLockout     *limiters.Lockout
	audit         *audit.Dispatcher
	metrics       *metrics.Metrics
	logger        *slog.Logger
	refreshTTL    time.Duration
	attemptWindow time.Duration
}

// Close drains the audit dispatcher. Call once at shutdown.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	e.audit.Close()
}

// VerifyAccessToken verifies an access token by signature and expiry alone;
// no store lookup is performed. This is the hot path for protected
// requests.
func (e *Engine) VerifyAccessToken(token string) (*Claims, error) {
	if e == nil || e.tokens == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.VerifyAccess(token)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrTokenExpired
		default:
			return nil, ErrInvalidToken
		}
	}
	return claims, nil
}

// Session returns the stored session record for a session ID, or
// [session.ErrNotFound]. Session presence is bookkeeping only and is
// independent of token validity.
func (e *Engine) Session(ctx context.Context, sessionID string) (*session.Session, error) {
	return e.sessions.Get(ctx, sessionID)
}

// MetricsSnapshot returns a point-in-time copy of the engine's counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil {
		return MetricsSnapshot{Counters: map[MetricID]uint64{}}
	}
	return e.metrics.SnapshotNow()
}

func (e *Engine) lockoutDuration() time.Duration {
	return time.Duration(e.config.Lockout.LockoutMinutes) * time.Minute
}

func (e *Engine) metricInc(id MetricID) {
	e.metrics.Inc(id)
}

func (e *Engine) emitAudit(ctx context.Context, eventType string, success bool, user *User, meta ClientMeta, cause error, metadata map[string]string) {
	event := audit.Event{
		Timestamp: time.Now(),
		EventType: eventType,
		Success:   success,
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
		Metadata:  metadata,
	}
	if user != nil {
		event.UserID = user.ID
		event.Email = user.Email
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	e.audit.Emit(ctx, event)
}

// internalErr logs the underlying cause and returns the opaque sentinel.
// Store failures never reach clients in detail.
func (e *Engine) internalErr(op string, err error) error {
	e.logger.Error("auth backend failure", "op", op, "error", err)
	return ErrInternal
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func validEmail(email string) bool {
	addr, err := mail.ParseAddress(email)
	return err == nil && addr.Address == email
}

// writeSession records a login event. Session writes are best-effort
// bookkeeping: a failure after successful token issuance degrades bulk
// invalidation but must not fail the client response.
func (e *Engine) writeSession(ctx context.Context, sessionID string, user *User, meta ClientMeta) {
	sess := &session.Session{
		SessionID: sessionID,
		UserID:    user.ID,
		Email:     user.Email,
		Role:      string(user.Role),
		LoginAt:   time.Now().Unix(),
		IP:        meta.IP,
		UserAgent: meta.UserAgent,
	}
	if err := e.sessions.Save(ctx, sess, e.refreshTTL); err != nil {
		e.metricInc(MetricSessionWriteDegraded)
		e.logger.Warn("session write failed, continuing without session record",
			"user_id", user.ID, "session_id", sessionID, "error", err)
		return
	}
	e.metricInc(MetricSessionCreated)
}
