package authcore

import (
	"context"
	"time"

	"github.com/mwestall/authcore/jwt"
)

// Role is one of a closed, ordered set of authorization levels. Admin
// implicitly satisfies any role requirement.
type Role string

const (
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "user"
	// RoleModerator sits between user and admin.
	RoleModerator Role = "moderator"
	// RoleAdmin satisfies every role requirement without being enumerated
	// per call site.
	RoleAdmin Role = "admin"
)

// Valid reports whether r is a member of the closed role set.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleModerator, RoleAdmin:
		return true
	}
	return false
}

// Satisfies reports whether r grants access for any of the allowed roles.
// Admin is an implicit superset.
func (r Role) Satisfies(allowed ...Role) bool {
	if r == RoleAdmin {
		return true
	}
	for _, a := range allowed {
		if r == a {
			return true
		}
	}
	return false
}

// User is the account record shape owned by the external user store. The
// engine mutates it through [UserStore.UpdateFields] on login success and
// failure, password change, and admin actions; it never deletes records.
type User struct {
	ID            string
	Email         string
	Name          string
	PasswordHash  string
	Role          Role
	Active        bool
	EmailVerified bool
	FailedLogins  int
	LockoutUntil  *time.Time
	LastLoginAt   *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Field names accepted by [UserStore.UpdateFields].
const (
	FieldPasswordHash = "password_hash"
	FieldFailedLogins = "failed_logins"
	FieldLockoutUntil = "lockout_until"
	FieldLastLoginAt  = "last_login_at"
	FieldActive       = "active"
	FieldUpdatedAt    = "updated_at"
)

// UserStore is the external user-record collaborator. Implementations return
// [ErrUserNotFound] for missing records (never a nil user with nil error)
// and [ErrUserExists] from Insert on a duplicate email.
//
// Emails are stored case-normalized; FindByEmail receives an already
// lowercased address.
type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id string) (*User, error)
	Insert(ctx context.Context, user *User) (*User, error)
	// UpdateFields applies a partial update. Keys are the Field* constants;
	// values for FieldLockoutUntil and FieldLastLoginAt may be nil to clear.
	UpdateFields(ctx context.Context, id string, fields map[string]any) error
}

// TokenPair bundles a freshly issued access and refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthResult is returned by Register and Login.
type AuthResult struct {
	User   *User
	Tokens TokenPair
}

// ClientMeta carries per-request client attributes recorded on the session
// and used for optional per-IP throttling.
type ClientMeta struct {
	IP        string
	UserAgent string
}

// Claims is the verified access-token payload attached to request contexts
// by the authentication middleware.
type Claims = jwt.AccessClaims
