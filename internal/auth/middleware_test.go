package auth_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/admindesk/admindesk/internal/auth"
	"github.com/admindesk/admindesk/internal/rbac"
)

func newAuthenticator(t *testing.T, repo auth.Repository, source auth.PrincipalSource) (*auth.Authenticator, *auth.Service) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	tokens := auth.NewTokenManager("secret", time.Hour)
	sessions := auth.NewSessionStore(client, time.Hour)
	authenticator := &auth.Authenticator{
		Tokens:   tokens,
		Sessions: sessions,
		Resolver: auth.NewPrincipalResolver(repo, source),
	}
	return authenticator, auth.NewService(repo, tokens, sessions)
}

func principalProbe(out **rbac.Principal) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*out = rbac.PrincipalFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})
}

func TestAuthenticatorAnonymousWithoutToken(t *testing.T) {
	authenticator, _ := newAuthenticator(t, &stubRepo{users: map[string]*auth.User{}}, auth.SourceStore)

	var principal *rbac.Principal
	res := httptest.NewRecorder()
	authenticator.Middleware(principalProbe(&principal)).ServeHTTP(res, httptest.NewRequest(http.MethodGet, "/", nil))

	require.Equal(t, http.StatusOK, res.Code, "anonymous requests pass through")
	require.Nil(t, principal)
}

func TestAuthenticatorGarbageTokenStaysAnonymous(t *testing.T) {
	authenticator, _ := newAuthenticator(t, &stubRepo{users: map[string]*auth.User{}}, auth.SourceStore)

	var principal *rbac.Principal
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	res := httptest.NewRecorder()
	authenticator.Middleware(principalProbe(&principal)).ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Nil(t, principal)
}

func TestAuthenticatorAttachesPrincipal(t *testing.T) {
	user := testUser()
	user.PasswordHash = hashFor(t, "correct-horse")
	repo := &stubRepo{users: map[string]*auth.User{user.Email: user}}
	authenticator, service := newAuthenticator(t, repo, auth.SourceStore)

	result, err := service.Login(context.Background(), user.Email, "correct-horse")
	require.NoError(t, err)

	var principal *rbac.Principal
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+result.Token)
	res := httptest.NewRecorder()
	authenticator.Middleware(principalProbe(&principal)).ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.NotNil(t, principal)
	require.Equal(t, user.ID, principal.ID)
	require.Equal(t, "manager", principal.RoleSlug)
	require.True(t, principal.Permissions.Has("users.read"))
}

func TestAuthenticatorRevokedTokenStaysAnonymous(t *testing.T) {
	user := testUser()
	user.PasswordHash = hashFor(t, "correct-horse")
	repo := &stubRepo{users: map[string]*auth.User{user.Email: user}}
	authenticator, service := newAuthenticator(t, repo, auth.SourceStore)

	result, err := service.Login(context.Background(), user.Email, "correct-horse")
	require.NoError(t, err)
	require.NoError(t, service.Logout(context.Background(), result.Claims.ID))

	var principal *rbac.Principal
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+result.Token)
	res := httptest.NewRecorder()
	authenticator.Middleware(principalProbe(&principal)).ServeHTTP(res, req)

	require.Equal(t, http.StatusOK, res.Code)
	require.Nil(t, principal, "a revoked token must not authenticate")
}

func TestAuthenticatorTokenModeUsesEmbeddedPermissions(t *testing.T) {
	user := testUser()
	user.PasswordHash = hashFor(t, "correct-horse")
	repo := &stubRepo{users: map[string]*auth.User{user.Email: user}}
	authenticator, service := newAuthenticator(t, repo, auth.SourceToken)

	result, err := service.Login(context.Background(), user.Email, "correct-horse")
	require.NoError(t, err)

	// Grants change after issuance; token mode keeps serving the embedded
	// snapshot while store mode would pick up the change.
	user.Role.Grants = rbac.GrantList{}

	var principal *rbac.Principal
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+result.Token)
	res := httptest.NewRecorder()
	authenticator.Middleware(principalProbe(&principal)).ServeHTTP(res, req)

	require.NotNil(t, principal)
	require.True(t, principal.Permissions.Has("users.read"))
}
