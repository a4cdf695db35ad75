package authcore

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Register creates a new account and implicitly logs it in: on success the
// caller receives tokens and a session exactly as Login would produce.
// Duplicate emails are rejected case-insensitively before any hashing.
func (e *Engine) Register(ctx context.Context, email, pass, name string) (*AuthResult, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}

	email = normalizeEmail(email)
	if !validEmail(email) {
		return nil, ErrValidation
	}
	if len(pass) < minPasswordLength {
		return nil, ErrValidation
	}

	existing, err := e.users.FindByEmail(ctx, email)
	if err != nil && !errors.Is(err, ErrUserNotFound) {
		return nil, e.internalErr("register.find_user", err)
	}
	if existing != nil {
		e.metricInc(MetricRegisterDuplicate)
		e.emitAudit(ctx, EventRegister, false, existing, ClientMeta{}, ErrUserExists, nil)
		return nil, ErrUserExists
	}

	hash, err := e.hasher.Hash(pass)
	if err != nil {
		return nil, e.internalErr("register.hash_password", err)
	}

	now := time.Now()
	user := &User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         RoleUser,
		Active:       true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	user, err = e.users.Insert(ctx, user)
	if err != nil {
		if errors.Is(err, ErrUserExists) {
			// Insert raced another registration for the same email.
			e.metricInc(MetricRegisterDuplicate)
			return nil, ErrUserExists
		}
		return nil, e.internalErr("register.insert", err)
	}

	sessionID := uuid.NewString()
	pair, err := e.tokens.IssuePair(user.ID, user.Email, string(user.Role), sessionID)
	if err != nil {
		return nil, e.internalErr("register.issue_tokens", err)
	}
	e.writeSession(ctx, sessionID, user, ClientMeta{})

	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, EventRegister, true, user, ClientMeta{}, nil, nil)

	return &AuthResult{
		User:   user,
		Tokens: TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken},
	}, nil
}
