package authcore

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/mwestall/authcore/password"
)

// Config is the complete engine configuration. Instances are set up during
// initialization and treated as immutable afterwards. Expiry values are
// duration strings ("30s", "15m", "1h", "7d"); an invalid unit fails
// [Config.Validate] at startup, never at request time.
type Config struct {
	Token    TokenConfig
	Password PasswordConfig
	Lockout  LockoutConfig
	Session  SessionConfig
	Store    StoreConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

// TokenConfig holds signing material and lifetimes. Access and refresh
// tokens are signed with independent secrets; sharing one secret is a
// configuration error.
type TokenConfig struct {
	AccessSecret  string
	RefreshSecret string
	Issuer        string
	Audience      string
	AccessExpiry  string
	RefreshExpiry string
}

// PasswordConfig controls the bcrypt work factor.
type PasswordConfig struct {
	Cost int
}

// LockoutConfig controls brute-force tracking. AttemptWindow bounds how long
// a failure streak is remembered (fixed from the first failure);
// LockoutMinutes is how long an account stays locked once MaxAttempts is
// reached. ThrottleByIP adds a second counter keyed by client IP.
type LockoutConfig struct {
	MaxAttempts    int
	AttemptWindow  string
	LockoutMinutes int
	ThrottleByIP   bool
}

// SessionConfig sets the key-value namespace for session records.
type SessionConfig struct {
	Prefix string
}

// StoreConfig bounds external store calls. OpTimeout applies per operation.
type StoreConfig struct {
	OpTimeout time.Duration
}

// AuditConfig controls the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig toggles in-process counters.
type MetricsConfig struct {
	Enabled bool
}

// DefaultConfig returns production defaults. Secrets are intentionally empty
// and must be supplied.
func DefaultConfig() Config {
	return Config{
		Token: TokenConfig{
			AccessExpiry:  "1h",
			RefreshExpiry: "7d",
		},
		Password: PasswordConfig{Cost: password.DefaultCost},
		Lockout: LockoutConfig{
			MaxAttempts:    5,
			AttemptWindow:  "15m",
			LockoutMinutes: 30,
		},
		Session: SessionConfig{Prefix: "sess:"},
		Store:   StoreConfig{OpTimeout: 3 * time.Second},
		Audit:   AuditConfig{Enabled: true, BufferSize: 256, DropIfFull: true},
		Metrics: MetricsConfig{Enabled: true},
	}
}

// Validate checks the configuration for startup-time fatal errors.
func (c Config) Validate() error {
	if c.Token.AccessSecret == "" || c.Token.RefreshSecret == "" {
		return errors.New("config: both access and refresh token secrets are required")
	}
	if c.Token.AccessSecret == c.Token.RefreshSecret {
		return errors.New("config: access and refresh token secrets must differ")
	}
	if _, err := ParseExpiry(c.Token.AccessExpiry); err != nil {
		return fmt.Errorf("config: access expiry: %w", err)
	}
	if _, err := ParseExpiry(c.Token.RefreshExpiry); err != nil {
		return fmt.Errorf("config: refresh expiry: %w", err)
	}
	if _, err := ParseExpiry(c.Lockout.AttemptWindow); err != nil {
		return fmt.Errorf("config: attempt window: %w", err)
	}
	if c.Lockout.MaxAttempts <= 0 {
		return errors.New("config: max login attempts must be positive")
	}
	if c.Lockout.LockoutMinutes <= 0 {
		return errors.New("config: lockout minutes must be positive")
	}
	return nil
}

// ParseExpiry parses a duration string with units s, m, h, or d into a
// positive duration. "7d" means seven 24-hour days; clock skew is not
// compensated anywhere downstream.
func ParseExpiry(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if len(s) < 2 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	unit := s[len(s)-1]
	value, err := strconv.Atoi(s[:len(s)-1])
	if err != nil || value <= 0 {
		return 0, fmt.Errorf("invalid duration %q", s)
	}

	switch unit {
	case 's':
		return time.Duration(value) * time.Second, nil
	case 'm':
		return time.Duration(value) * time.Minute, nil
	case 'h':
		return time.Duration(value) * time.Hour, nil
	case 'd':
		return time.Duration(value) * 24 * time.Hour, nil
	default:
		return 0, fmt.Errorf("invalid duration unit %q in %q", string(unit), s)
	}
}

// ConfigFromEnv builds a Config from AUTH_* environment variables, reading a
// .env file first when one exists. Unset variables keep their defaults;
// malformed values are returned as startup errors.
func ConfigFromEnv() (Config, error) {
	_ = godotenv.Load()

	cfg := DefaultConfig()
	cfg.Token.AccessSecret = os.Getenv("AUTH_ACCESS_SECRET")
	cfg.Token.RefreshSecret = os.Getenv("AUTH_REFRESH_SECRET")
	cfg.Token.Issuer = os.Getenv("AUTH_TOKEN_ISSUER")
	cfg.Token.Audience = os.Getenv("AUTH_TOKEN_AUDIENCE")

	if v := os.Getenv("AUTH_ACCESS_EXPIRY"); v != "" {
		cfg.Token.AccessExpiry = v
	}
	if v := os.Getenv("AUTH_REFRESH_EXPIRY"); v != "" {
		cfg.Token.RefreshExpiry = v
	}
	if v := os.Getenv("AUTH_ATTEMPT_WINDOW"); v != "" {
		cfg.Lockout.AttemptWindow = v
	}
	if v := os.Getenv("AUTH_BCRYPT_COST"); v != "" {
		cost, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: AUTH_BCRYPT_COST: %w", err)
		}
		cfg.Password.Cost = cost
	}
	if v := os.Getenv("AUTH_MAX_LOGIN_ATTEMPTS"); v != "" {
		max, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: AUTH_MAX_LOGIN_ATTEMPTS: %w", err)
		}
		cfg.Lockout.MaxAttempts = max
	}
	if v := os.Getenv("AUTH_LOCKOUT_MINUTES"); v != "" {
		minutes, err := strconv.Atoi(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: AUTH_LOCKOUT_MINUTES: %w", err)
		}
		cfg.Lockout.LockoutMinutes = minutes
	}
	if v := os.Getenv("AUTH_OP_TIMEOUT"); v != "" {
		timeout, err := ParseExpiry(v)
		if err != nil {
			return Config{}, fmt.Errorf("config: AUTH_OP_TIMEOUT: %w", err)
		}
		cfg.Store.OpTimeout = timeout
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}
