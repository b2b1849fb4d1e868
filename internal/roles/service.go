package roles

import (
	"context"
	"errors"
	"strings"

	"github.com/admindesk/admindesk/internal/rbac"
	"github.com/admindesk/admindesk/internal/shared"
)

// Service handles role business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all roles with user counts.
func (s *Service) List(ctx context.Context) ([]Role, error) {
	return s.repo.List(ctx)
}

// Get fetches a role by ID with its grants.
func (s *Service) Get(ctx context.Context, id int64) (Role, error) {
	return s.repo.Get(ctx, id)
}

// GetBySlug fetches a role by slug with its grants.
func (s *Service) GetBySlug(ctx context.Context, slug string) (Role, error) {
	return s.repo.GetBySlug(ctx, strings.TrimSpace(slug))
}

// Create inserts a new role.
func (s *Service) Create(ctx context.Context, slug, name, description string) (Role, error) {
	slug = strings.TrimSpace(strings.ToLower(slug))
	name = strings.TrimSpace(name)
	if slug == "" || name == "" {
		return Role{}, errors.New("roles: slug and name required")
	}
	return s.repo.Create(ctx, slug, name, strings.TrimSpace(description))
}

// Update changes an existing role's name and description. The slug is
// immutable identity; renaming it would silently detach the superadmin
// bypass among other things.
func (s *Service) Update(ctx context.Context, id int64, name, description string) (Role, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Role{}, errors.New("roles: role name required")
	}
	return s.repo.Update(ctx, id, name, strings.TrimSpace(description))
}

// ToggleStatus flips the role's active flag. Read-modify-write without
// optimistic locking; concurrent toggles may lose an update.
func (s *Service) ToggleStatus(ctx context.Context, id int64) (Role, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Role{}, err
	}
	return s.repo.SetActive(ctx, id, !current.IsActive)
}

// Delete removes a role. A role with assigned users cannot be deleted.
func (s *Service) Delete(ctx context.Context, id int64) error {
	count, err := s.repo.UserCount(ctx, id)
	if err != nil {
		return err
	}
	if count > 0 {
		return shared.ErrRoleInUse
	}
	return s.repo.Delete(ctx, id)
}

// SetPermissions replaces the role's grants with the given permission IDs.
// Existing rows outside the new set are detached; rows inside it are attached
// or reactivated.
func (s *Service) SetPermissions(ctx context.Context, roleID int64, permissionIDs []int64) error {
	existing, err := s.repo.ListGrants(ctx, roleID)
	if err != nil {
		return err
	}
	current := make(map[int64]struct{}, len(existing))
	for _, grant := range existing {
		current[grant.PermissionID] = struct{}{}
	}
	keep := make(map[int64]struct{}, len(permissionIDs))
	for _, id := range permissionIDs {
		keep[id] = struct{}{}
		if err := s.repo.AttachGrant(ctx, roleID, id); err != nil {
			return err
		}
	}
	for id := range current {
		if _, ok := keep[id]; !ok {
			if err := s.repo.DetachGrant(ctx, roleID, id); err != nil {
				return err
			}
		}
	}
	return nil
}

// SetGrantActive revokes or restores a single permission grant.
func (s *Service) SetGrantActive(ctx context.Context, roleID, permissionID int64, isActive bool) error {
	return s.repo.SetGrantActive(ctx, roleID, permissionID, isActive)
}

// EffectivePermissions resolves the role's deduplicated permission set.
func (s *Service) EffectivePermissions(ctx context.Context, roleID int64) (rbac.PermissionSet, error) {
	role, err := s.repo.Get(ctx, roleID)
	if err != nil {
		return nil, err
	}
	return role.EffectivePermissions(), nil
}

// EnsureSeeded applies the default role manifest idempotently.
func (s *Service) EnsureSeeded(ctx context.Context, seeds []SeedRole) error {
	for _, seed := range seeds {
		if err := s.repo.UpsertSeed(ctx, seed); err != nil {
			return err
		}
	}
	return nil
}
