package jwt

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const refreshTokenType = "refresh"

var (
	// ErrTokenExpired is returned when a structurally valid token is past
	// its expiry on the verifying side's wall clock.
	ErrTokenExpired = errors.New("token expired")
	// ErrTokenMalformed covers garbage input, invalid signatures (including
	// a token signed with the other secret), and payloads missing required
	// claims.
	ErrTokenMalformed = errors.New("token malformed or signature invalid")
	// ErrWrongTokenType is returned by VerifyRefresh for a token that lacks
	// the refresh discriminator.
	ErrWrongTokenType = errors.New("wrong token type")
)

// Config holds the signing material and lifetimes for both token classes.
// Secrets must differ; TTLs must be positive so expiry is always strictly
// after issuance.
type Config struct {
	AccessSecret  []byte
	RefreshSecret []byte
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
	Issuer        string
	Audience      string
}

// AccessClaims is the strongly typed access-token payload. Field presence is
// validated after signature verification; a payload missing uid is rejected
// as malformed.
type AccessClaims struct {
	UID   string `json:"uid"`
	Email string `json:"email"`
	Role  string `json:"role"`
	SID   string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// RefreshClaims is the refresh-token payload. TokenType must equal
// "refresh"; its absence marks a token that was never meant for the refresh
// path.
type RefreshClaims struct {
	UID       string `json:"uid"`
	TokenType string `json:"token_type"`
	SID       string `json:"sid,omitempty"`
	jwt.RegisteredClaims
}

// Pair bundles the two tokens returned by a successful issuance.
type Pair struct {
	AccessToken  string
	RefreshToken string
}

// Manager signs and verifies token pairs. Verification is CPU-bound and
// stateless; a Manager is safe for unbounded concurrent use.
type Manager struct {
	config Config
}

// NewManager validates cfg and returns a Manager. Misconfiguration
// (missing or shared secrets, non-positive TTLs) is a construction-time
// error, never a runtime one.
func NewManager(cfg Config) (*Manager, error) {
	if len(cfg.AccessSecret) == 0 || len(cfg.RefreshSecret) == 0 {
		return nil, errors.New("both access and refresh secrets are required")
	}
	if string(cfg.AccessSecret) == string(cfg.RefreshSecret) {
		return nil, errors.New("access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}
	return &Manager{config: cfg}, nil
}

// IssuePair signs a fresh access/refresh pair for the subject. sessionID
// links the tokens to their login session for later invalidation; it may be
// empty. Each token carries a unique jti, so consecutive pairs for the same
// subject never collide even within one clock tick.
func (m *Manager) IssuePair(subject, email, role, sessionID string) (Pair, error) {
	now := time.Now()

	access := AccessClaims{
		UID:              subject,
		Email:            email,
		Role:             role,
		SID:              sessionID,
		RegisteredClaims: m.registered(subject, now, m.config.AccessTTL),
	}
	accessToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, access).SignedString(m.config.AccessSecret)
	if err != nil {
		return Pair{}, fmt.Errorf("signing access token: %w", err)
	}

	refresh := RefreshClaims{
		UID:              subject,
		TokenType:        refreshTokenType,
		SID:              sessionID,
		RegisteredClaims: m.registered(subject, now, m.config.RefreshTTL),
	}
	refreshToken, err := jwt.NewWithClaims(jwt.SigningMethodHS256, refresh).SignedString(m.config.RefreshSecret)
	if err != nil {
		return Pair{}, fmt.Errorf("signing refresh token: %w", err)
	}

	return Pair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}

func (m *Manager) registered(subject string, now time.Time, ttl time.Duration) jwt.RegisteredClaims {
	claims := jwt.RegisteredClaims{
		Subject:   subject,
		ID:        uuid.NewString(),
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    m.config.Issuer,
	}
	if m.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{m.config.Audience}
	}
	return claims
}

// VerifyAccess parses and verifies an access token against the access
// secret only.
func (m *Manager) VerifyAccess(tokenStr string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := m.parse(tokenStr, claims, m.config.AccessSecret); err != nil {
		return nil, err
	}
	if claims.UID == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}
	return claims, nil
}

// VerifyRefresh parses and verifies a refresh token against the refresh
// secret only, then requires the refresh discriminator. Returns the subject
// claims on success.
func (m *Manager) VerifyRefresh(tokenStr string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := m.parse(tokenStr, claims, m.config.RefreshSecret); err != nil {
		return nil, err
	}
	if claims.UID == "" || claims.ExpiresAt == nil {
		return nil, ErrTokenMalformed
	}
	if claims.TokenType != refreshTokenType {
		return nil, ErrWrongTokenType
	}
	return claims, nil
}

func (m *Manager) parse(tokenStr string, claims jwt.Claims, secret []byte) error {
	options := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
	}
	if m.config.Issuer != "" {
		options = append(options, jwt.WithIssuer(m.config.Issuer))
	}
	if m.config.Audience != "" {
		options = append(options, jwt.WithAudience(m.config.Audience))
	}

	token, err := jwt.NewParser(options...).ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		return secret, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return ErrTokenExpired
		}
		return fmt.Errorf("%w: %v", ErrTokenMalformed, err)
	}
	if !token.Valid {
		return ErrTokenMalformed
	}
	return nil
}
