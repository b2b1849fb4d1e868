package roles_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/admindesk/admindesk/internal/roles"
	"github.com/admindesk/admindesk/internal/shared"
	_ "github.com/admindesk/admindesk/testing"
)

type stubRepo struct {
	rolesByID map[int64]roles.Role
	userCount int
	grants    []roles.GrantRow
	attached  []int64
	detached  []int64
	deleted   []int64
	seeded    []roles.SeedRole
}

func (s *stubRepo) List(ctx context.Context) ([]roles.Role, error) {
	out := make([]roles.Role, 0, len(s.rolesByID))
	for _, role := range s.rolesByID {
		out = append(out, role)
	}
	return out, nil
}

func (s *stubRepo) Get(ctx context.Context, id int64) (roles.Role, error) {
	role, ok := s.rolesByID[id]
	if !ok {
		return roles.Role{}, shared.ErrNotFound
	}
	return role, nil
}

func (s *stubRepo) GetBySlug(ctx context.Context, slug string) (roles.Role, error) {
	for _, role := range s.rolesByID {
		if role.Slug == slug {
			return role, nil
		}
	}
	return roles.Role{}, shared.ErrNotFound
}

func (s *stubRepo) Create(ctx context.Context, slug, name, description string) (roles.Role, error) {
	role := roles.Role{ID: int64(len(s.rolesByID) + 1), Slug: slug, Name: name, Description: description, IsActive: true}
	if s.rolesByID == nil {
		s.rolesByID = map[int64]roles.Role{}
	}
	s.rolesByID[role.ID] = role
	return role, nil
}

func (s *stubRepo) Update(ctx context.Context, id int64, name, description string) (roles.Role, error) {
	role, ok := s.rolesByID[id]
	if !ok {
		return roles.Role{}, shared.ErrNotFound
	}
	role.Name = name
	role.Description = description
	s.rolesByID[id] = role
	return role, nil
}

func (s *stubRepo) SetActive(ctx context.Context, id int64, isActive bool) (roles.Role, error) {
	role, ok := s.rolesByID[id]
	if !ok {
		return roles.Role{}, shared.ErrNotFound
	}
	role.IsActive = isActive
	s.rolesByID[id] = role
	return role, nil
}

func (s *stubRepo) Delete(ctx context.Context, id int64) error {
	if _, ok := s.rolesByID[id]; !ok {
		return shared.ErrNotFound
	}
	delete(s.rolesByID, id)
	s.deleted = append(s.deleted, id)
	return nil
}

func (s *stubRepo) UserCount(ctx context.Context, id int64) (int, error) {
	return s.userCount, nil
}

func (s *stubRepo) ListGrants(ctx context.Context, roleID int64) ([]roles.GrantRow, error) {
	return s.grants, nil
}

func (s *stubRepo) AttachGrant(ctx context.Context, roleID, permissionID int64) error {
	s.attached = append(s.attached, permissionID)
	return nil
}

func (s *stubRepo) DetachGrant(ctx context.Context, roleID, permissionID int64) error {
	s.detached = append(s.detached, permissionID)
	return nil
}

func (s *stubRepo) SetGrantActive(ctx context.Context, roleID, permissionID int64, isActive bool) error {
	return nil
}

func (s *stubRepo) UpsertSeed(ctx context.Context, seed roles.SeedRole) error {
	s.seeded = append(s.seeded, seed)
	return nil
}

func TestCreateValidatesAndNormalisesSlug(t *testing.T) {
	service := roles.NewService(&stubRepo{})

	_, err := service.Create(context.Background(), "", "Editor", "")
	require.Error(t, err)

	_, err = service.Create(context.Background(), "editor", "", "")
	require.Error(t, err)

	role, err := service.Create(context.Background(), " Editor ", "Editor", "")
	require.NoError(t, err)
	require.Equal(t, "editor", role.Slug)
}

func TestDeleteRefusedWhileUsersAssigned(t *testing.T) {
	repo := &stubRepo{
		rolesByID: map[int64]roles.Role{1: {ID: 1, Slug: "editor"}},
		userCount: 3,
	}
	service := roles.NewService(repo)

	err := service.Delete(context.Background(), 1)
	require.ErrorIs(t, err, shared.ErrRoleInUse)
	require.Empty(t, repo.deleted)
}

func TestDeleteUnusedRole(t *testing.T) {
	repo := &stubRepo{rolesByID: map[int64]roles.Role{1: {ID: 1, Slug: "editor"}}}
	service := roles.NewService(repo)

	require.NoError(t, service.Delete(context.Background(), 1))
	require.Equal(t, []int64{1}, repo.deleted)
}

func TestSetPermissionsReconciles(t *testing.T) {
	repo := &stubRepo{
		rolesByID: map[int64]roles.Role{1: {ID: 1, Slug: "editor"}},
		grants: []roles.GrantRow{
			{PermissionID: 10, Permission: "users.read", IsActive: true},
			{PermissionID: 11, Permission: "users.create", IsActive: true},
		},
	}
	service := roles.NewService(repo)

	require.NoError(t, service.SetPermissions(context.Background(), 1, []int64{11, 12}))
	require.ElementsMatch(t, []int64{11, 12}, repo.attached, "kept and new IDs are attached or reactivated")
	require.Equal(t, []int64{10}, repo.detached, "IDs outside the new set are detached")
}

func TestDefaultRolesIncludeSuperAdmin(t *testing.T) {
	seeds := roles.DefaultRoles()

	slugs := make(map[string][]string, len(seeds))
	for _, seed := range seeds {
		slugs[seed.Slug] = seed.Permissions
	}
	require.Contains(t, slugs, "superadmin")
	require.Contains(t, slugs, "customer")
	require.Contains(t, slugs["superadmin"], "system.admin")
	require.NotContains(t, slugs["customer"], "users.delete")
}
