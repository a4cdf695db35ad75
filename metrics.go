package authcore

import "github.com/mwestall/authcore/internal/metrics"

// MetricID identifies a specific engine counter.
type MetricID = metrics.MetricID

// MetricsSnapshot is a point-in-time copy of all counters.
type MetricsSnapshot = metrics.Snapshot

const (
	MetricLoginSuccess                 = metrics.MetricLoginSuccess
	MetricLoginFailure                 = metrics.MetricLoginFailure
	MetricLoginLocked                  = metrics.MetricLoginLocked
	MetricRegisterSuccess              = metrics.MetricRegisterSuccess
	MetricRegisterDuplicate            = metrics.MetricRegisterDuplicate
	MetricRefreshSuccess               = metrics.MetricRefreshSuccess
	MetricRefreshFailure               = metrics.MetricRefreshFailure
	MetricSessionCreated               = metrics.MetricSessionCreated
	MetricSessionInvalidated           = metrics.MetricSessionInvalidated
	MetricSessionWriteDegraded         = metrics.MetricSessionWriteDegraded
	MetricLogout                       = metrics.MetricLogout
	MetricLogoutAll                    = metrics.MetricLogoutAll
	MetricPasswordChangeSuccess        = metrics.MetricPasswordChangeSuccess
	MetricPasswordChangeInvalidCurrent = metrics.MetricPasswordChangeInvalidCurrent
)
