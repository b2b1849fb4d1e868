// Package users manages user account records.
package users

import (
	"time"

	"github.com/admindesk/admindesk/internal/rbac"
)

// RoleInfo is the role snapshot attached to a managed user.
type RoleInfo struct {
	ID       int64
	Slug     string
	Name     string
	IsActive bool
	Grants   rbac.GrantList
}

// User represents a user account for management.
type User struct {
	ID         int64
	Email      string
	FirstName  string
	LastName   string
	Phone      string
	IsActive   bool
	IsVerified bool
	IsBlocked  bool
	Role       RoleInfo
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// EffectivePermissions resolves the user's permission set through its role.
func (u User) EffectivePermissions() rbac.PermissionSet {
	return u.Role.Grants.EffectivePermissions()
}
