package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mwestall/authcore"
)

type stubVerifier struct {
	claims *authcore.Claims
	err    error
}

func (s *stubVerifier) VerifyAccessToken(token string) (*authcore.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return s.claims, nil
}

func claimsFor(uid string, role authcore.Role) *authcore.Claims {
	return &authcore.Claims{UID: uid, Email: uid + "@example.com", Role: string(role)}
}

func okHandler(t *testing.T, sawClaims *bool) http.Handler {
	t.Helper()
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := ClaimsFromContext(r.Context()); ok && sawClaims != nil {
			*sawClaims = true
		}
		w.WriteHeader(http.StatusOK)
	})
}

func doRequest(handler http.Handler, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestAuthenticateValidToken(t *testing.T) {
	verifier := &stubVerifier{claims: claimsFor("u1", authcore.RoleUser)}
	var sawClaims bool
	handler := Authenticate(verifier)(okHandler(t, &sawClaims))

	rec := doRequest(handler, "Bearer sometoken")

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, sawClaims, "claims should be injected into the request context")
}

func TestAuthenticateRejections(t *testing.T) {
	verifier := &stubVerifier{claims: claimsFor("u1", authcore.RoleUser)}

	tests := []struct {
		name          string
		verifier      TokenVerifier
		authorization string
	}{
		{"missing header", verifier, ""},
		{"not bearer", verifier, "Basic dXNlcjpwYXNz"},
		{"empty token", verifier, "Bearer "},
		{"verifier rejects", &stubVerifier{err: authcore.ErrInvalidToken}, "Bearer bad"},
		{"expired token", &stubVerifier{err: authcore.ErrTokenExpired}, "Bearer old"},
		{"nil verifier", nil, "Bearer sometoken"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Authenticate(tt.verifier)(okHandler(t, nil))
			rec := doRequest(handler, tt.authorization)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
		})
	}
}

func TestRequireRole(t *testing.T) {
	tests := []struct {
		name    string
		role    authcore.Role
		allowed []authcore.Role
		want    int
	}{
		{"exact match", authcore.RoleUser, []authcore.Role{authcore.RoleUser}, http.StatusOK},
		{"one of several", authcore.RoleModerator, []authcore.Role{authcore.RoleUser, authcore.RoleModerator}, http.StatusOK},
		{"admin implicit", authcore.RoleAdmin, []authcore.Role{authcore.RoleModerator}, http.StatusOK},
		{"insufficient", authcore.RoleUser, []authcore.Role{authcore.RoleAdmin}, http.StatusForbidden},
		{"unknown role", authcore.Role("intern"), []authcore.Role{authcore.RoleUser}, http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &stubVerifier{claims: claimsFor("u1", tt.role)}
			handler := Authenticate(verifier)(RequireRole(tt.allowed...)(okHandler(t, nil)))
			rec := doRequest(handler, "Bearer sometoken")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestRequireRoleWithoutAuthenticate(t *testing.T) {
	handler := RequireRole(authcore.RoleUser)(okHandler(t, nil))
	rec := doRequest(handler, "Bearer sometoken")
	// Missing claims is a 401, not a 403: nothing was authenticated.
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireOwnerOrAdmin(t *testing.T) {
	ownerFromQuery := func(r *http.Request) string { return r.URL.Query().Get("owner") }

	tests := []struct {
		name  string
		uid   string
		role  authcore.Role
		owner string
		want  int
	}{
		{"owner match", "u1", authcore.RoleUser, "u1", http.StatusOK},
		{"owner mismatch", "u1", authcore.RoleUser, "u2", http.StatusForbidden},
		{"admin override", "admin-1", authcore.RoleAdmin, "u2", http.StatusOK},
		{"moderator no override", "m1", authcore.RoleModerator, "u2", http.StatusForbidden},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verifier := &stubVerifier{claims: claimsFor(tt.uid, tt.role)}
			handler := Authenticate(verifier)(RequireOwnerOrAdmin(ownerFromQuery)(okHandler(t, nil)))

			req := httptest.NewRequest(http.MethodGet, "/protected?owner="+tt.owner, nil)
			req.Header.Set("Authorization", "Bearer sometoken")
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.want, rec.Code)
		})
	}
}

func TestClientMetaFromRequest(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:5000"
	req.Header.Set("User-Agent", "test-agent")

	meta := ClientMetaFromRequest(req)
	assert.Equal(t, "10.0.0.1:5000", meta.IP)
	assert.Equal(t, "test-agent", meta.UserAgent)

	req.Header.Set("X-Forwarded-For", "203.0.113.7")
	meta = ClientMetaFromRequest(req)
	assert.Equal(t, "203.0.113.7", meta.IP)
}
