package auth

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/admindesk/admindesk/internal/shared"
)

// DefaultRegistrationRole is assigned to self-registered accounts.
const DefaultRegistrationRole = "customer"

// LoginResult carries the signed token and the authenticated account.
type LoginResult struct {
	Token  string
	Claims *Claims
	User   *User
}

// Service wraps authentication business rules.
type Service struct {
	repo     Repository
	tokens   *TokenManager
	sessions *SessionStore
}

// NewService constructs a new Service.
func NewService(repo Repository, tokens *TokenManager, sessions *SessionStore) *Service {
	return &Service{repo: repo, tokens: tokens, sessions: sessions}
}

// Login validates credentials and issues a registered bearer token. Unknown
// email, wrong password, a blocked or inactive account all surface as the
// same invalid-credentials failure.
func (s *Service) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	if !user.IsActive || user.IsBlocked {
		return nil, shared.ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return nil, shared.ErrInvalidCredentials
	}
	return s.issue(ctx, user)
}

// RegisterParams holds self-registration input.
type RegisterParams struct {
	Email     string
	Password  string
	FirstName string
	LastName  string
	Phone     string
}

// Register creates an account with the customer default role and logs it in.
func (s *Service) Register(ctx context.Context, params RegisterParams) (*LoginResult, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("auth: hash password: %w", err)
	}
	user, err := s.repo.CreateUser(ctx, CreateUserParams{
		Email:        params.Email,
		PasswordHash: string(hash),
		FirstName:    params.FirstName,
		LastName:     params.LastName,
		Phone:        params.Phone,
		RoleSlug:     DefaultRegistrationRole,
	})
	if err != nil {
		return nil, err
	}
	return s.issue(ctx, user)
}

// Logout revokes the session behind the given token ID.
func (s *Service) Logout(ctx context.Context, tokenID string) error {
	return s.sessions.Revoke(ctx, tokenID)
}

// Profile returns the current account snapshot.
func (s *Service) Profile(ctx context.Context, userID int64) (*User, error) {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *Service) issue(ctx context.Context, user *User) (*LoginResult, error) {
	token, claims, err := s.tokens.Issue(user)
	if err != nil {
		return nil, err
	}
	if err := s.sessions.Register(ctx, claims.ID, user.ID); err != nil {
		return nil, err
	}
	return &LoginResult{Token: token, Claims: claims, User: user}, nil
}
