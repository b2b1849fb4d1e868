// Package roles manages role records and their permission grants.
package roles

import (
	"time"

	"github.com/admindesk/admindesk/internal/rbac"
)

// Role represents a high-level permission grouping, identified by slug.
type Role struct {
	ID          int64
	Slug        string
	Name        string
	Description string
	IsActive    bool
	UserCount   int
	Grants      []GrantRow
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// GrantRow is one role-permission join row. An inactive row is treated as
// absent when resolving the role's effective permissions.
type GrantRow struct {
	PermissionID int64
	Permission   string
	IsActive     bool
}

// EffectivePermissions resolves the role's grants into a deduplicated set.
func (r Role) EffectivePermissions() rbac.PermissionSet {
	grants := make(rbac.GrantList, 0, len(r.Grants))
	for _, row := range r.Grants {
		grants = append(grants, rbac.Grant{Permission: row.Permission, IsActive: row.IsActive})
	}
	return grants.EffectivePermissions()
}

// SeedRole is one default role with its granted permission names.
type SeedRole struct {
	Slug        string
	Name        string
	Description string
	Permissions []string
}

// DefaultRoles is the role manifest applied idempotently at startup. An
// existing role is left untouched; only missing roles and grants are added.
func DefaultRoles() []SeedRole {
	adminPerms := []string{
		"dashboard.access",
		"users.read", "users.create", "users.update", "users.delete",
		"roles.read", "roles.create", "roles.update", "roles.delete",
		"endpoints.read", "endpoints.update",
		"permissions.manage",
	}
	return []SeedRole{
		{Slug: "customer", Name: "Customer", Permissions: []string{"profile.read", "profile.update"}},
		{Slug: "employee", Name: "Employee", Permissions: []string{"dashboard.access", "users.read"}},
		{Slug: "manager", Name: "Manager", Permissions: []string{
			"dashboard.access", "users.read", "users.create", "users.update", "roles.read", "endpoints.read",
		}},
		{Slug: "admin", Name: "Admin", Permissions: adminPerms},
		{Slug: rbac.SuperAdminRoleSlug, Name: "Super Admin", Permissions: append(adminPerms, "system.admin", "endpoints.manage")},
	}
}
