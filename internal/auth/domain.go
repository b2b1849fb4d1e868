package auth

import (
	"time"

	"github.com/admindesk/admindesk/internal/rbac"
)

// Role is the role snapshot attached to an authenticated account.
type Role struct {
	ID       int64
	Slug     string
	Name     string
	IsActive bool
	Grants   rbac.GrantList
}

// User represents an authenticated user account with its role eagerly loaded.
type User struct {
	ID           int64
	Email        string
	FirstName    string
	LastName     string
	Phone        string
	PasswordHash string
	IsActive     bool
	IsVerified   bool
	IsBlocked    bool
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal builds the authorization snapshot for this account.
func (u *User) Principal() *rbac.Principal {
	return &rbac.Principal{
		ID:          u.ID,
		Email:       u.Email,
		RoleSlug:    u.Role.Slug,
		IsActive:    u.IsActive,
		Permissions: u.Role.Grants.EffectivePermissions(),
	}
}
