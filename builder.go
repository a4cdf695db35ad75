package authcore

import (
	"errors"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"github.com/mwestall/authcore/internal/audit"
	"github.com/mwestall/authcore/internal/limiters"
	"github.com/mwestall/authcore/internal/metrics"
	"github.com/mwestall/authcore/jwt"
	"github.com/mwestall/authcore/kv"
	"github.com/mwestall/authcore/password"
	"github.com/mwestall/authcore/session"
)

const (
	lockoutEmailPrefix = "la:"
	lockoutIPPrefix    = "lip:"
)

// Builder assembles an [Engine]. Construction is allocation-only; no I/O
// happens until the engine's methods are called.
type Builder struct {
	config    Config
	redis     redis.UniversalClient
	kvStore   kv.Store
	userStore UserStore
	auditSink AuditSink
	logger    *slog.Logger
	built     bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the entire configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithRedis supplies the Redis client backing sessions and lockout
// counters. Ignored when WithKV is also set.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithKV supplies a pre-built key-value store, overriding WithRedis. Useful
// for alternative backends that satisfy [kv.Store].
func (b *Builder) WithKV(store kv.Store) *Builder {
	b.kvStore = store
	return b
}

// WithUserStore supplies the external user-record collaborator. Required.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.userStore = store
	return b
}

// WithAuditSink supplies the audit event receiver. Defaults to a no-op sink
// when auditing is enabled without one.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithLogger supplies the structured logger for operational warnings.
// Defaults to [slog.Default].
func (b *Builder) WithLogger(logger *slog.Logger) *Builder {
	b.logger = logger
	return b
}

// Build validates the configuration, wires the components, and returns a
// ready Engine. A Builder is single-use.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}
	b.built = true

	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.userStore == nil {
		return nil, errors.New("user store is required")
	}

	kvStore := b.kvStore
	if kvStore == nil {
		if b.redis == nil {
			return nil, errors.New("redis client or kv store is required")
		}
		kvStore = kv.NewRedis(b.redis, b.config.Store.OpTimeout)
	}

	accessTTL, err := ParseExpiry(b.config.Token.AccessExpiry)
	if err != nil {
		return nil, err
	}
	refreshTTL, err := ParseExpiry(b.config.Token.RefreshExpiry)
	if err != nil {
		return nil, err
	}
	attemptWindow, err := ParseExpiry(b.config.Lockout.AttemptWindow)
	if err != nil {
		return nil, err
	}

	hasher, err := password.NewHasher(b.config.Password.Cost)
	if err != nil {
		return nil, err
	}

	tokens, err := jwt.NewManager(jwt.Config{
		AccessSecret:  []byte(b.config.Token.AccessSecret),
		RefreshSecret: []byte(b.config.Token.RefreshSecret),
		AccessTTL:     accessTTL,
		RefreshTTL:    refreshTTL,
		Issuer:        b.config.Token.Issuer,
		Audience:      b.config.Token.Audience,
	})
	if err != nil {
		return nil, err
	}

	logger := b.logger
	if logger == nil {
		logger = slog.Default()
	}

	var ipLockout *limiters.Lockout
	if b.config.Lockout.ThrottleByIP {
		ipLockout = limiters.NewLockout(kvStore, lockoutIPPrefix, attemptWindow)
	}

	return &Engine{
		config:    b.config,
		users:     b.userStore,
		hasher:    hasher,
		tokens:    tokens,
		sessions:  session.NewStore(kvStore, b.config.Session.Prefix),
		lockout:   limiters.NewLockout(kvStore, lockoutEmailPrefix, attemptWindow),
		ipLockout: ipLockout,
		audit: audit.NewDispatcher(audit.Config{
			Enabled:    b.config.Audit.Enabled,
			BufferSize: b.config.Audit.BufferSize,
			DropIfFull: b.config.Audit.DropIfFull,
		}, b.auditSink),
		metrics:       metrics.New(metrics.Config{Enabled: b.config.Metrics.Enabled}),
		logger:        logger,
		refreshTTL:    refreshTTL,
		attemptWindow: attemptWindow,
	}, nil
}
