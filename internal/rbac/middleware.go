package rbac

import (
	"context"
	"net/http"

	"github.com/sitelog/intake/internal/platform/httpx"
	"github.com/sitelog/intake/internal/shared"
)

// Principal is the authenticated caller as recorded in the session.
type Principal struct {
	UserID string
	Role   Role
}

// PrincipalFromContext reads the caller from the request session.
func PrincipalFromContext(ctx context.Context) (Principal, bool) {
	sess := shared.SessionFromContext(ctx)
	if sess == nil || sess.User() == "" {
		return Principal{}, false
	}
	role, ok := ParseRole(sess.Role())
	if !ok {
		return Principal{}, false
	}
	return Principal{UserID: sess.User(), Role: role}, true
}

// RequireAuthenticated rejects requests without a signed-in user.
func RequireAuthenticated(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, ok := PrincipalFromContext(r.Context()); !ok {
			httpx.RespondError(w, httpx.ErrUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// RequireMenu rejects callers whose role cannot open menu.
func RequireMenu(menu Menu) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			p, ok := PrincipalFromContext(r.Context())
			if !ok {
				httpx.RespondError(w, httpx.ErrUnauthorized)
				return
			}
			if !Allowed(p.Role, menu) {
				httpx.RespondError(w, httpx.ErrForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
