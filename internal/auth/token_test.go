package auth_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/admindesk/admindesk/internal/auth"
	"github.com/admindesk/admindesk/internal/rbac"
	_ "github.com/admindesk/admindesk/testing"
)

func testUser() *auth.User {
	return &auth.User{
		ID:       42,
		Email:    "manager@admindesk.local",
		IsActive: true,
		Role: auth.Role{
			ID:       3,
			Slug:     "manager",
			Name:     "Manager",
			IsActive: true,
			Grants: rbac.GrantList{
				{Permission: "users.read", IsActive: true},
				{Permission: "roles.read", IsActive: true},
				{Permission: "users.delete", IsActive: false},
			},
		},
	}
}

func TestTokenRoundTrip(t *testing.T) {
	manager := auth.NewTokenManager("secret", time.Hour)

	raw, issued, err := manager.Issue(testUser())
	require.NoError(t, err)
	require.NotEmpty(t, issued.ID, "token ID must be set for session tracking")

	claims, err := manager.Parse(raw)
	require.NoError(t, err)
	require.Equal(t, "manager@admindesk.local", claims.Email)
	require.Equal(t, "manager", claims.Role)
	require.Equal(t, []string{"roles.read", "users.read"}, claims.Permissions, "inactive grants are excluded")

	id, err := claims.UserID()
	require.NoError(t, err)
	require.Equal(t, int64(42), id)
}

func TestTokenWrongSecretRejected(t *testing.T) {
	raw, _, err := auth.NewTokenManager("secret-a", time.Hour).Issue(testUser())
	require.NoError(t, err)

	_, err = auth.NewTokenManager("secret-b", time.Hour).Parse(raw)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenExpiredRejected(t *testing.T) {
	manager := auth.NewTokenManager("secret", -time.Minute)
	raw, _, err := manager.Issue(testUser())
	require.NoError(t, err)

	_, err = manager.Parse(raw)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestTokenGarbageRejected(t *testing.T) {
	_, err := auth.NewTokenManager("secret", time.Hour).Parse("not.a.token")
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}
