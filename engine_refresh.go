package authcore

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/mwestall/authcore/jwt"
)

// Refresh verifies a refresh token and issues a full new token pair
// (rotation). The presented refresh token is not revoked server-side; a
// leaked refresh token therefore stays usable until its own expiry. This is
// a documented risk accepted by the stateless-token design.
//
// The subject is re-loaded so a deactivated account cannot mint new tokens
// even while holding a valid refresh token.
func (e *Engine) Refresh(ctx context.Context, refreshToken string, meta ClientMeta) (*TokenPair, error) {
	if e == nil || e.users == nil {
		return nil, ErrEngineNotReady
	}

	claims, err := e.tokens.VerifyRefresh(refreshToken)
	if err != nil {
		e.metricInc(MetricRefreshFailure)
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, ErrRefreshExpired
		case errors.Is(err, jwt.ErrWrongTokenType):
			return nil, ErrWrongTokenType
		default:
			return nil, ErrInvalidRefreshToken
		}
	}

	user, err := e.users.FindByID(ctx, claims.UID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			e.metricInc(MetricRefreshFailure)
			e.emitAudit(ctx, EventRefresh, false, nil, meta, ErrUserNotFound, map[string]string{"subject": claims.UID})
			return nil, ErrUserNotFound
		}
		return nil, e.internalErr("refresh.find_user", err)
	}
	if !user.Active {
		e.metricInc(MetricRefreshFailure)
		e.emitAudit(ctx, EventRefresh, false, user, meta, ErrAccountDisabled, nil)
		return nil, ErrAccountDisabled
	}

	// The session ID carries over from the original login when present so
	// the refreshed tokens stay tied to the same session record.
	sessionID := claims.SID
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	pair, err := e.tokens.IssuePair(user.ID, user.Email, string(user.Role), sessionID)
	if err != nil {
		return nil, e.internalErr("refresh.issue_tokens", err)
	}
	e.writeSession(ctx, sessionID, user, meta)

	e.metricInc(MetricRefreshSuccess)
	e.emitAudit(ctx, EventRefresh, true, user, meta, nil, nil)

	return &TokenPair{AccessToken: pair.AccessToken, RefreshToken: pair.RefreshToken}, nil
}
