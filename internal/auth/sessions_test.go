package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/admindesk/admindesk/internal/auth"
)

func newSessionStore(t *testing.T) *auth.SessionStore {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	return auth.NewSessionStore(client, time.Hour)
}

func TestSessionRegisterAndRevoke(t *testing.T) {
	store := newSessionStore(t)
	ctx := context.Background()

	require.NoError(t, store.Register(ctx, "token-1", 42))

	valid, err := store.Valid(ctx, "token-1")
	require.NoError(t, err)
	require.True(t, valid)

	require.NoError(t, store.Revoke(ctx, "token-1"))

	valid, err = store.Valid(ctx, "token-1")
	require.NoError(t, err)
	require.False(t, valid)
}

func TestSessionUnknownTokenInvalid(t *testing.T) {
	store := newSessionStore(t)

	valid, err := store.Valid(context.Background(), "never-issued")
	require.NoError(t, err)
	require.False(t, valid)

	require.NoError(t, store.Revoke(context.Background(), "never-issued"), "revoking an unknown ID is a no-op")
}
