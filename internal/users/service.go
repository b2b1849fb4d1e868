package users

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/admindesk/admindesk/internal/rbac"
	"github.com/admindesk/admindesk/internal/shared"
)

// Service handles user business logic.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// List returns all active users.
func (s *Service) List(ctx context.Context) ([]User, error) {
	return s.repo.List(ctx)
}

// Get fetches a user by ID.
func (s *Service) Get(ctx context.Context, id int64) (User, error) {
	return s.repo.Get(ctx, id)
}

// CreateInput holds administrative user creation input.
type CreateInput struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
	RoleID    int64
}

// Create inserts a new user with a hashed password.
func (s *Service) Create(ctx context.Context, input CreateInput) (User, error) {
	email := strings.TrimSpace(strings.ToLower(input.Email))
	if email == "" {
		return User{}, errors.New("users: email required")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, fmt.Errorf("users: hash password: %w", err)
	}
	return s.repo.Create(ctx, CreateParams{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(input.FirstName),
		LastName:     strings.TrimSpace(input.LastName),
		Phone:        strings.TrimSpace(input.Phone),
		RoleID:       input.RoleID,
	})
}

// Update changes the user's profile attributes.
func (s *Service) Update(ctx context.Context, id int64, params UpdateParams) (User, error) {
	return s.repo.Update(ctx, id, params)
}

// ToggleStatus flips the account's active flag. Read-modify-write without
// optimistic locking; a lost update between concurrent toggles is accepted.
func (s *Service) ToggleStatus(ctx context.Context, id int64) (User, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return User{}, err
	}
	return s.repo.SetActive(ctx, id, !current.IsActive)
}

// AssignRole moves the user to a different role.
func (s *Service) AssignRole(ctx context.Context, id, roleID int64) (User, error) {
	return s.repo.AssignRole(ctx, id, roleID)
}

// Delete removes a user. Accounts holding the super-administrator role can
// never be deleted, regardless of who asks; this is an entity-level
// invariant enforced here, not a permission check.
func (s *Service) Delete(ctx context.Context, id int64) error {
	user, err := s.repo.Get(ctx, id)
	if err != nil {
		return err
	}
	if user.Role.Slug == rbac.SuperAdminRoleSlug {
		return shared.ErrSuperAdminImmutable
	}
	return s.repo.Delete(ctx, id)
}
