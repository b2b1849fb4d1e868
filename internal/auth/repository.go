package auth

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/admindesk/admindesk/internal/platform/db"
	"github.com/admindesk/admindesk/internal/rbac"
	"github.com/admindesk/admindesk/internal/shared"
)

// Repository defines the account lookups the auth flows depend on. Both
// lookups load the role and its active grants in one round trip.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int64) (*User, error)
	CreateUser(ctx context.Context, params CreateUserParams) (*User, error)
}

// CreateUserParams holds registration attributes. RoleSlug selects the role
// by slug; registration uses the customer default.
type CreateUserParams struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	RoleSlug     string
}

// PGRepository provides PostgreSQL backed persistence.
type PGRepository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *PGRepository {
	return &PGRepository{pool: pool}
}

const userQuery = `
SELECT u.id, u.email, u.first_name, u.last_name, COALESCE(u.phone, ''), u.password_hash,
       u.is_active, u.is_verified, u.is_blocked, u.created_at, u.updated_at,
       r.id, r.slug, r.name, r.is_active
FROM users u
JOIN roles r ON r.id = u.role_id
`

// FindByEmail returns the user with the given email, role and grants included.
func (r *PGRepository) FindByEmail(ctx context.Context, email string) (*User, error) {
	return r.findOne(ctx, userQuery+` WHERE u.email = $1`, email)
}

// FindByID returns the user with the given ID, role and grants included.
func (r *PGRepository) FindByID(ctx context.Context, id int64) (*User, error) {
	return r.findOne(ctx, userQuery+` WHERE u.id = $1`, id)
}

func (r *PGRepository) findOne(ctx context.Context, query string, arg any) (*User, error) {
	var user User
	err := r.pool.QueryRow(ctx, query, arg).Scan(
		&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Phone, &user.PasswordHash,
		&user.IsActive, &user.IsVerified, &user.IsBlocked, &user.CreatedAt, &user.UpdatedAt,
		&user.Role.ID, &user.Role.Slug, &user.Role.Name, &user.Role.IsActive,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("auth: find user: %w", err)
	}
	grants, err := r.loadGrants(ctx, user.Role.ID)
	if err != nil {
		return nil, err
	}
	user.Role.Grants = grants
	return &user, nil
}

func (r *PGRepository) loadGrants(ctx context.Context, roleID int64) (rbac.GrantList, error) {
	rows, err := r.pool.Query(ctx, `
SELECT p.name, rp.is_active
FROM role_permissions rp
JOIN permissions p ON p.id = rp.permission_id
WHERE rp.role_id = $1`, roleID)
	if err != nil {
		return nil, fmt.Errorf("auth: load grants: %w", err)
	}
	defer rows.Close()
	var grants rbac.GrantList
	for rows.Next() {
		var grant rbac.Grant
		if err := rows.Scan(&grant.Permission, &grant.IsActive); err != nil {
			return nil, fmt.Errorf("auth: scan grant: %w", err)
		}
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("auth: iterate grants: %w", err)
	}
	return grants, nil
}

// CreateUser inserts an account bound to the role named by params.RoleSlug.
func (r *PGRepository) CreateUser(ctx context.Context, params CreateUserParams) (*User, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash, first_name, last_name, phone, is_active, role_id)
SELECT $1, $2, $3, $4, NULLIF($5, ''), TRUE, r.id FROM roles r WHERE r.slug = $6
RETURNING id`,
		params.Email, params.PasswordHash, params.FirstName, params.LastName, params.Phone, params.RoleSlug,
	).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, fmt.Errorf("auth: role %q not seeded: %w", params.RoleSlug, shared.ErrNotFound)
		}
		if db.IsUniqueViolation(err) {
			return nil, shared.ErrEmailTaken
		}
		return nil, fmt.Errorf("auth: create user: %w", err)
	}
	return r.FindByID(ctx, id)
}
