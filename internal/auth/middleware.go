package auth

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/admindesk/admindesk/internal/platform/httpx"
	"github.com/admindesk/admindesk/internal/rbac"
	"github.com/admindesk/admindesk/internal/shared"
)

type claimsContextKey struct{}

// Authenticator resolves the bearer token on every request and attaches the
// principal snapshot to the request context. Requests without a usable token
// proceed without a principal; the authorization layer decides whether that
// matters for the route.
type Authenticator struct {
	Tokens   *TokenManager
	Sessions *SessionStore
	Resolver *PrincipalResolver
	Logger   *slog.Logger
}

// Middleware performs bearer extraction, verification, revocation check and
// principal resolution. Infrastructure failures produce a 500 rather than an
// allow; a missing or invalid credential simply leaves the request anonymous.
func (a *Authenticator) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		raw := bearerToken(r)
		if raw == "" {
			next.ServeHTTP(w, r)
			return
		}
		claims, err := a.Tokens.Parse(raw)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}
		valid, err := a.Sessions.Valid(r.Context(), claims.ID)
		if err != nil {
			if a.Logger != nil {
				a.Logger.Error("session check", slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		if !valid {
			next.ServeHTTP(w, r)
			return
		}
		principal, err := a.Resolver.Resolve(r.Context(), claims)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				next.ServeHTTP(w, r)
				return
			}
			if a.Logger != nil {
				a.Logger.Error("resolve principal", slog.Any("error", err))
			}
			httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
			return
		}
		ctx := rbac.ContextWithPrincipal(r.Context(), principal)
		ctx = contextWithClaims(ctx, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func bearerToken(r *http.Request) string {
	header := r.Header.Get("Authorization")
	if header == "" {
		return ""
	}
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
