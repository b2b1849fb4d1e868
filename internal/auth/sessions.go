package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// SessionStore tracks issued token IDs in Redis so that logout revokes a
// token before its expiry. A token whose ID is absent is unauthenticated.
type SessionStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSessionStore constructs a SessionStore.
func NewSessionStore(client *redis.Client, ttl time.Duration) *SessionStore {
	return &SessionStore{client: client, ttl: ttl}
}

func (s *SessionStore) key(tokenID string) string {
	return "session:" + tokenID
}

// Register records a freshly issued token ID.
func (s *SessionStore) Register(ctx context.Context, tokenID string, userID int64) error {
	if err := s.client.Set(ctx, s.key(tokenID), strconv.FormatInt(userID, 10), s.ttl).Err(); err != nil {
		return fmt.Errorf("auth: register session: %w", err)
	}
	return nil
}

// Valid reports whether the token ID is still registered.
func (s *SessionStore) Valid(ctx context.Context, tokenID string) (bool, error) {
	if err := s.client.Get(ctx, s.key(tokenID)).Err(); err != nil {
		if errors.Is(err, redis.Nil) {
			return false, nil
		}
		return false, fmt.Errorf("auth: check session: %w", err)
	}
	return true, nil
}

// Revoke removes the token ID. Revoking an unknown ID is a no-op.
func (s *SessionStore) Revoke(ctx context.Context, tokenID string) error {
	if err := s.client.Del(ctx, s.key(tokenID)).Err(); err != nil && !errors.Is(err, redis.Nil) {
		return fmt.Errorf("auth: revoke session: %w", err)
	}
	return nil
}
