package auth

import (
	"context"
	"fmt"

	"github.com/admindesk/admindesk/internal/rbac"
)

// PrincipalSource selects how verified claims become a principal snapshot.
type PrincipalSource string

const (
	// SourceStore re-fetches user, role and permissions per request.
	// Authorization always reflects the current state at the cost of one
	// lookup per check. Default for an admin control plane.
	SourceStore PrincipalSource = "store"
	// SourceToken trusts the permissions embedded at issuance. Cheap, but
	// stale if permissions change mid-session.
	SourceToken PrincipalSource = "token"
)

// PrincipalResolver turns verified token claims into a principal snapshot.
type PrincipalResolver struct {
	repo   Repository
	source PrincipalSource
}

// NewPrincipalResolver constructs a resolver for the configured source.
func NewPrincipalResolver(repo Repository, source PrincipalSource) *PrincipalResolver {
	if source == "" {
		source = SourceStore
	}
	return &PrincipalResolver{repo: repo, source: source}
}

// Resolve produces the principal snapshot for the given claims. In store
// mode a missing account resolves to shared.ErrNotFound; callers treat that
// as unauthenticated.
func (r *PrincipalResolver) Resolve(ctx context.Context, claims *Claims) (*rbac.Principal, error) {
	userID, err := claims.UserID()
	if err != nil {
		return nil, err
	}
	if r.source == SourceToken {
		// Login rejects inactive accounts, so the active flag is implied
		// for the token's lifetime. That staleness is the documented
		// tradeoff of this mode.
		return &rbac.Principal{
			ID:          userID,
			Email:       claims.Email,
			RoleSlug:    claims.Role,
			IsActive:    true,
			Permissions: rbac.NewPermissionSet(claims.Permissions...),
		}, nil
	}
	user, err := r.repo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("auth: resolve principal: %w", err)
	}
	return user.Principal(), nil
}
