package users

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

// CreateParams holds attributes for an administrative user create.
type CreateParams struct {
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	Phone        string
	RoleID       int64
}

// UpdateParams holds the mutable profile attributes.
type UpdateParams struct {
	FirstName string
	LastName  string
	Phone     string
}

// RepositoryPort defines data access methods for users.
type RepositoryPort interface {
	List(ctx context.Context) ([]User, error)
	Get(ctx context.Context, id int64) (User, error)
	Create(ctx context.Context, params CreateParams) (User, error)
	Update(ctx context.Context, id int64, params UpdateParams) (User, error)
	SetActive(ctx context.Context, id int64, isActive bool) (User, error)
	AssignRole(ctx context.Context, id, roleID int64) (User, error)
	Delete(ctx context.Context, id int64) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const userSelect = `
SELECT u.id, u.email, u.first_name, u.last_name, COALESCE(u.phone, ''),
       u.is_active, u.is_verified, u.is_blocked, u.created_at, u.updated_at,
       r.id, r.slug, r.name, r.is_active
FROM users u
JOIN roles r ON r.id = u.role_id
`

func scanUser(row pgx.Row) (User, error) {
	var user User
	err := row.Scan(&user.ID, &user.Email, &user.FirstName, &user.LastName, &user.Phone,
		&user.IsActive, &user.IsVerified, &user.IsBlocked, &user.CreatedAt, &user.UpdatedAt,
		&user.Role.ID, &user.Role.Slug, &user.Role.Name, &user.Role.IsActive)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return User{}, shared.ErrNotFound
		}
		return User{}, fmt.Errorf("users: scan user: %w", err)
	}
	return user, nil
}

// List returns active users newest first, roles and grants included.
func (r *Repository) List(ctx context.Context) ([]User, error) {
	rows, err := r.pool.Query(ctx, userSelect+` WHERE u.is_active ORDER BY u.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("users: list users: %w", err)
	}
	defer rows.Close()
	var result []User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("users: iterate users: %w", err)
	}
	for i := range result {
		if err := r.attachGrants(ctx, &result[i]); err != nil {
			return nil, err
		}
	}
	return result, nil
}

// Get fetches a user by ID with role and grants.
func (r *Repository) Get(ctx context.Context, id int64) (User, error) {
	user, err := scanUser(r.pool.QueryRow(ctx, userSelect+` WHERE u.id = $1`, id))
	if err != nil {
		return User{}, err
	}
	if err := r.attachGrants(ctx, &user); err != nil {
		return User{}, err
	}
	return user, nil
}

func (r *Repository) attachGrants(ctx context.Context, user *User) error {
	rows, err := r.pool.Query(ctx, `
SELECT p.name, rp.is_active
FROM role_permissions rp
JOIN permissions p ON p.id = rp.permission_id
WHERE rp.role_id = $1`, user.Role.ID)
	if err != nil {
		return fmt.Errorf("users: load grants: %w", err)
	}
	defer rows.Close()
	var grants rbac.GrantList
	for rows.Next() {
		var grant rbac.Grant
		if err := rows.Scan(&grant.Permission, &grant.IsActive); err != nil {
			return fmt.Errorf("users: scan grant: %w", err)
		}
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("users: iterate grants: %w", err)
	}
	user.Role.Grants = grants
	return nil
}

// Create inserts a new user account.
func (r *Repository) Create(ctx context.Context, params CreateParams) (User, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
INSERT INTO users (email, password_hash, first_name, last_name, phone, is_active, role_id)
VALUES ($1, $2, $3, $4, NULLIF($5, ''), TRUE, $6)
RETURNING id`,
		params.Email, params.PasswordHash, params.FirstName, params.LastName, params.Phone, params.RoleID,
	).Scan(&id)
	if err != nil {
		if db.IsUniqueViolation(err) {
			return User{}, shared.ErrEmailTaken
		}
		return User{}, fmt.Errorf("users: create user: %w", err)
	}
	return r.Get(ctx, id)
}

// Update changes the profile attributes.
func (r *Repository) Update(ctx context.Context, id int64, params UpdateParams) (User, error) {
	tag, err := r.pool.Exec(ctx, `
UPDATE users SET first_name = $2, last_name = $3, phone = NULLIF($4, ''), updated_at = NOW()
WHERE id = $1`, id, params.FirstName, params.LastName, params.Phone)
	if err != nil {
		return User{}, fmt.Errorf("users: update user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return User{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// SetActive writes the account's active flag.
func (r *Repository) SetActive(ctx context.Context, id int64, isActive bool) (User, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, isActive)
	if err != nil {
		return User{}, fmt.Errorf("users: set active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return User{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// AssignRole moves the user to a different role.
func (r *Repository) AssignRole(ctx context.Context, id, roleID int64) (User, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE users SET role_id = $2, updated_at = NOW() WHERE id = $1`, id, roleID)
	if err != nil {
		return User{}, fmt.Errorf("users: assign role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return User{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

// Delete removes a user by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("users: delete user: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}
