package rbac

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/admindesk/admindesk/internal/platform/httpx"
)

// DenialCounter receives one increment per denied request, labelled by
// reason. Satisfied by observability.Metrics.
type DenialCounter interface {
	CountDenial(reason string)
}

// Guard wires the decision engine into chi middleware.
type Guard struct {
	Engine  *Engine
	Logger  *slog.Logger
	Denials DenialCounter
}

// Require enforces the full decision sequence for a route. The perms argument
// is the route's declared requirement; the endpoint registry's dynamic list
// overrides it when non-empty. Routes without any requirement still pass
// through the endpoint kill-switch.
func (g Guard) Require(perms ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal := PrincipalFromContext(r.Context())
			decision, err := g.Engine.Authorize(r.Context(), principal, routePattern(r), r.Method, perms)
			if err != nil {
				if g.Logger != nil {
					g.Logger.Error("authorize", slog.Any("error", err))
				}
				httpx.Problem(w, http.StatusInternalServerError, "Internal Error", "")
				return
			}
			if !decision.Allowed {
				if g.Denials != nil {
					g.Denials.CountDenial(string(decision.Reason))
				}
				RespondDecision(w, decision)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RespondDecision writes the HTTP response for a denying decision.
func RespondDecision(w http.ResponseWriter, decision Decision) {
	switch decision.Reason {
	case DenyUnauthenticated:
		httpx.ProblemTyped(w, http.StatusUnauthorized, string(decision.Reason), "Unauthorized", "authentication required")
	case DenyEndpointDisabled:
		httpx.ProblemTyped(w, http.StatusForbidden, string(decision.Reason), "Forbidden", "endpoint is currently disabled")
	case DenyAccountInactive:
		httpx.ProblemTyped(w, http.StatusForbidden, string(decision.Reason), "Forbidden", "account is inactive")
	case DenyInsufficientPermissions:
		httpx.ProblemTyped(w, http.StatusForbidden, string(decision.Reason), "Forbidden", "insufficient permissions")
	case DenyNotFound:
		httpx.ProblemTyped(w, http.StatusNotFound, string(decision.Reason), "Not Found", "")
	default:
		httpx.Problem(w, http.StatusForbidden, "Forbidden", "")
	}
}

// routePattern prefers the chi route pattern so the registry is consulted
// with the same path the endpoint was registered under, e.g. /users/{id}.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil {
		if pattern := rctx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return r.URL.Path
}
