package authcore

import (
	"io"

	"github.com/mwestall/authcore/internal/audit"
)

// AuditEvent is a structured security event emitted by the engine.
type AuditEvent = audit.Event

// AuditSink receives [AuditEvent] values from the engine's asynchronous
// dispatcher.
type AuditSink = audit.Sink

// NoOpSink is an [AuditSink] that silently discards all events.
type NoOpSink = audit.NoOpSink

// ChannelSink is a buffered channel-based [AuditSink].
type ChannelSink = audit.ChannelSink

// JSONWriterSink writes JSON-encoded events, one per line, to an
// [io.Writer].
type JSONWriterSink = audit.JSONWriterSink

// NewChannelSink creates a [ChannelSink] with the given buffer capacity.
func NewChannelSink(buffer int) *ChannelSink {
	return audit.NewChannelSink(buffer)
}

// NewJSONWriterSink creates a [JSONWriterSink] that writes to w.
func NewJSONWriterSink(w io.Writer) *JSONWriterSink {
	return audit.NewJSONWriterSink(w)
}

// Audit event types emitted by the engine.
const (
	EventRegister       = "register"
	EventLogin          = "login"
	EventLoginLocked    = "login_locked"
	EventRefresh        = "refresh"
	EventLogout         = "logout"
	EventLogoutAll      = "logout_all"
	EventPasswordChange = "password_change"
	EventAccountStatus  = "account_status"
	EventAccountUnlock  = "account_unlock"
)
