package rbac_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/admindesk/admindesk/internal/rbac"
)

type stubRegistry struct {
	policies map[string]rbac.EndpointPolicy
	err      error
}

func key(path, method string) string { return method + " " + path }

func (s *stubRegistry) Lookup(ctx context.Context, path, method string) (rbac.EndpointPolicy, bool, error) {
	if s.err != nil {
		return rbac.EndpointPolicy{}, false, s.err
	}
	policy, ok := s.policies[key(path, method)]
	return policy, ok, nil
}

func activePrincipal(perms ...string) *rbac.Principal {
	return &rbac.Principal{
		ID:          7,
		Email:       "manager@admindesk.local",
		RoleSlug:    "manager",
		IsActive:    true,
		Permissions: rbac.NewPermissionSet(perms...),
	}
}

func TestAuthorizeKillSwitchDeniesEveryone(t *testing.T) {
	registry := &stubRegistry{policies: map[string]rbac.EndpointPolicy{
		key("/users", "GET"): {IsActive: false},
	}}
	engine := rbac.NewEngine(registry, nil)

	super := &rbac.Principal{RoleSlug: rbac.SuperAdminRoleSlug, IsActive: true}
	decision, err := engine.Authorize(context.Background(), super, "/users", "GET", []string{"users.read"})
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, rbac.DenyEndpointDisabled, decision.Reason)
}

func TestAuthorizeUnregisteredRouteFailsOpen(t *testing.T) {
	registry := &stubRegistry{policies: map[string]rbac.EndpointPolicy{}}
	engine := rbac.NewEngine(registry, nil)

	// Declared permissions still apply when the registry abstains.
	decision, err := engine.Authorize(context.Background(), activePrincipal("users.read"), "/users", "GET", []string{"users.read"})
	require.NoError(t, err)
	require.True(t, decision.Allowed)

	decision, err = engine.Authorize(context.Background(), activePrincipal("roles.read"), "/users", "GET", []string{"users.read"})
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, rbac.DenyInsufficientPermissions, decision.Reason)
}

func TestAuthorizeDynamicOverridesDeclared(t *testing.T) {
	registry := &stubRegistry{policies: map[string]rbac.EndpointPolicy{
		key("/users", "GET"): {IsActive: true, Permissions: []string{"users.audit"}},
	}}
	engine := rbac.NewEngine(registry, nil)

	// Holds the declared permission but not the dynamic one: the dynamic
	// list replaces the declared list, it is not merged.
	decision, err := engine.Authorize(context.Background(), activePrincipal("users.read"), "/users", "GET", []string{"users.read"})
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, rbac.DenyInsufficientPermissions, decision.Reason)

	decision, err = engine.Authorize(context.Background(), activePrincipal("users.audit"), "/users", "GET", []string{"users.read"})
	require.NoError(t, err)
	require.True(t, decision.Allowed)
}

func TestAuthorizeEmptyRequirementAllowsAnonymous(t *testing.T) {
	registry := &stubRegistry{policies: map[string]rbac.EndpointPolicy{
		key("/healthz", "GET"): {IsActive: true},
	}}
	engine := rbac.NewEngine(registry, nil)

	decision, err := engine.Authorize(context.Background(), nil, "/healthz", "GET", nil)
	require.NoError(t, err)
	require.True(t, decision.Allowed)
}

func TestAuthorizeUnauthenticated(t *testing.T) {
	engine := rbac.NewEngine(nil, nil)

	decision, err := engine.Authorize(context.Background(), nil, "/users", "GET", []string{"users.read"})
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, rbac.DenyUnauthenticated, decision.Reason)
}

func TestAuthorizeSuperAdminBypassesInactiveAccountCheck(t *testing.T) {
	engine := rbac.NewEngine(nil, nil)

	// Deactivated superadmin still passes: the bypass runs before the
	// account-active check so the account cannot lock itself out.
	super := &rbac.Principal{RoleSlug: rbac.SuperAdminRoleSlug, IsActive: false}
	decision, err := engine.Authorize(context.Background(), super, "/users", "DELETE", []string{"users.delete"})
	require.NoError(t, err)
	require.True(t, decision.Allowed)
}

func TestAuthorizeInactiveAccountDenied(t *testing.T) {
	engine := rbac.NewEngine(nil, nil)

	principal := activePrincipal("users.read")
	principal.IsActive = false
	decision, err := engine.Authorize(context.Background(), principal, "/users", "GET", []string{"users.read"})
	require.NoError(t, err)
	require.False(t, decision.Allowed)
	require.Equal(t, rbac.DenyAccountInactive, decision.Reason)
}

func TestAuthorizeAtLeastOneOf(t *testing.T) {
	engine := rbac.NewEngine(nil, nil)

	decision, err := engine.Authorize(context.Background(), activePrincipal("roles.read"), "/roles", "GET", []string{"roles.read", "roles.create"})
	require.NoError(t, err)
	require.True(t, decision.Allowed, "one held permission out of several required is enough")
}

func TestAuthorizeRegistryErrorPropagates(t *testing.T) {
	registry := &stubRegistry{err: errors.New("connection refused")}
	engine := rbac.NewEngine(registry, nil)

	decision, err := engine.Authorize(context.Background(), activePrincipal("users.read"), "/users", "GET", []string{"users.read"})
	require.Error(t, err)
	require.False(t, decision.Allowed)
}
