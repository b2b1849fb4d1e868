package shared

import "errors"

var (
	// ErrNotFound indicates resource not found.
	ErrNotFound = errors.New("not found")
	// ErrInvalidCredentials indicates login failure.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrEmailTaken occurs when registering with an email that already exists.
	ErrEmailTaken = errors.New("email already registered")
	// ErrConflict indicates a unique-constraint violation on a natural key.
	ErrConflict = errors.New("already exists")
	// ErrRoleInUse occurs when deleting a role that still has assigned users.
	ErrRoleInUse = errors.New("role has assigned users")
	// ErrSuperAdminImmutable occurs on attempts to delete a super-administrator account.
	ErrSuperAdminImmutable = errors.New("super administrator accounts cannot be deleted")
)
