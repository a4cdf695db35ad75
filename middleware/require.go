package middleware

import (
	"net/http"

	"github.com/mwestall/authcore"
)

// RequireRole admits requests whose claims carry one of the allowed roles.
// Admin satisfies every role requirement implicitly. No claims in context
// means 401; a present but insufficient role means 403, never 401.
func RequireRole(roles ...authcore.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if !authcore.Role(claims.Role).Satisfies(roles...) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireOwnerOrAdmin admits the request when the claim subject matches the
// resource owner reported by ownerID, or when the caller is an admin.
// ownerID typically reads a path or query parameter from the request.
func RequireOwnerOrAdmin(ownerID func(*http.Request) string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, ok := ClaimsFromContext(r.Context())
			if !ok {
				http.Error(w, "unauthorized", http.StatusUnauthorized)
				return
			}

			if authcore.Role(claims.Role) != authcore.RoleAdmin && claims.UID != ownerID(r) {
				http.Error(w, "forbidden", http.StatusForbidden)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// ClientMetaFromRequest extracts the caller's address and user agent for
// audit and throttling purposes. X-Forwarded-For wins over RemoteAddr when
// present; trust it only behind a proxy that sets it.
func ClientMetaFromRequest(r *http.Request) authcore.ClientMeta {
	ip := r.Header.Get("X-Forwarded-For")
	if ip == "" {
		ip = r.RemoteAddr
	}
	return authcore.ClientMeta{IP: ip, UserAgent: r.Header.Get("User-Agent")}
}
