package rbac_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/require"

	"github.com/admindesk/admindesk/internal/rbac"
)

func newGuardedRouter(registry rbac.Registry, principal *rbac.Principal) http.Handler {
	guard := rbac.Guard{Engine: rbac.NewEngine(registry, nil)}
	r := chi.NewRouter()
	if principal != nil {
		r.Use(func(next http.Handler) http.Handler {
			return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
				next.ServeHTTP(w, req.WithContext(rbac.ContextWithPrincipal(req.Context(), principal)))
			})
		})
	}
	r.With(guard.Require("users.read")).Get("/users/{id}", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	return r
}

func TestGuardUsesRoutePatternForRegistryLookup(t *testing.T) {
	registry := &stubRegistry{policies: map[string]rbac.EndpointPolicy{
		key("/users/{id}", "GET"): {IsActive: false},
	}}
	router := newGuardedRouter(registry, activePrincipal("users.read"))

	res := httptest.NewRecorder()
	router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/users/42", nil))

	// The registry row is keyed by the route pattern, not the concrete URL;
	// a 403 here proves the lookup matched /users/{id}.
	require.Equal(t, http.StatusForbidden, res.Code)
}

func TestGuardStatusCodes(t *testing.T) {
	cases := []struct {
		name      string
		principal *rbac.Principal
		want      int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"insufficient", activePrincipal("roles.read"), http.StatusForbidden},
		{"allowed", activePrincipal("users.read"), http.StatusOK},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			router := newGuardedRouter(nil, tc.principal)
			res := httptest.NewRecorder()
			router.ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/users/1", nil))
			require.Equal(t, tc.want, res.Code)
		})
	}
}
