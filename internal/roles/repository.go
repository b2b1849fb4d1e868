package roles

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/admindesk/admindesk/internal/platform/db"
	"github.com/admindesk/admindesk/internal/shared"
)

// RepositoryPort defines data access methods for roles.
type RepositoryPort interface {
	List(ctx context.Context) ([]Role, error)
	Get(ctx context.Context, id int64) (Role, error)
	GetBySlug(ctx context.Context, slug string) (Role, error)
	Create(ctx context.Context, slug, name, description string) (Role, error)
	Update(ctx context.Context, id int64, name, description string) (Role, error)
	SetActive(ctx context.Context, id int64, isActive bool) (Role, error)
	Delete(ctx context.Context, id int64) error
	UserCount(ctx context.Context, id int64) (int, error)
	ListGrants(ctx context.Context, roleID int64) ([]GrantRow, error)
	AttachGrant(ctx context.Context, roleID, permissionID int64) error
	DetachGrant(ctx context.Context, roleID, permissionID int64) error
	SetGrantActive(ctx context.Context, roleID, permissionID int64, isActive bool) error
	UpsertSeed(ctx context.Context, seed SeedRole) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const roleColumns = `id, slug, name, COALESCE(description, ''), is_active, created_at, updated_at`

func scanRole(row pgx.Row) (Role, error) {
	var role Role
	err := row.Scan(&role.ID, &role.Slug, &role.Name, &role.Description, &role.IsActive, &role.CreatedAt, &role.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Role{}, shared.ErrNotFound
		}
		return Role{}, fmt.Errorf("roles: scan role: %w", err)
	}
	return role, nil
}

// List returns all roles with user counts, newest first.
func (r *Repository) List(ctx context.Context) ([]Role, error) {
	rows, err := r.pool.Query(ctx, `
SELECT r.id, r.slug, r.name, COALESCE(r.description, ''), r.is_active, r.created_at, r.updated_at,
       (SELECT COUNT(*) FROM users u WHERE u.role_id = r.id)
FROM roles r ORDER BY r.created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("roles: list roles: %w", err)
	}
	defer rows.Close()
	var result []Role
	for rows.Next() {
		var role Role
		if err := rows.Scan(&role.ID, &role.Slug, &role.Name, &role.Description, &role.IsActive,
			&role.CreatedAt, &role.UpdatedAt, &role.UserCount); err != nil {
			return nil, fmt.Errorf("roles: scan role: %w", err)
		}
		result = append(result, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("roles: iterate roles: %w", err)
	}
	return result, nil
}

// Get fetches a role by ID including its grants.
func (r *Repository) Get(ctx context.Context, id int64) (Role, error) {
	role, err := scanRole(r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE id = $1`, id))
	if err != nil {
		return Role{}, err
	}
	return r.withGrants(ctx, role)
}

// GetBySlug fetches a role by slug including its grants.
func (r *Repository) GetBySlug(ctx context.Context, slug string) (Role, error) {
	role, err := scanRole(r.pool.QueryRow(ctx, `SELECT `+roleColumns+` FROM roles WHERE slug = $1`, slug))
	if err != nil {
		return Role{}, err
	}
	return r.withGrants(ctx, role)
}

func (r *Repository) withGrants(ctx context.Context, role Role) (Role, error) {
	grants, err := r.ListGrants(ctx, role.ID)
	if err != nil {
		return Role{}, err
	}
	role.Grants = grants
	return role, nil
}

// Create inserts a new role.
func (r *Repository) Create(ctx context.Context, slug, name, description string) (Role, error) {
	role, err := scanRole(r.pool.QueryRow(ctx, `
INSERT INTO roles (slug, name, description, is_active) VALUES ($1, $2, NULLIF($3, ''), TRUE)
RETURNING `+roleColumns, slug, name, description))
	if err != nil && db.IsUniqueViolation(err) {
		return Role{}, fmt.Errorf("roles: slug %q: %w", slug, shared.ErrConflict)
	}
	return role, err
}

// Update changes name and description of an existing role.
func (r *Repository) Update(ctx context.Context, id int64, name, description string) (Role, error) {
	return scanRole(r.pool.QueryRow(ctx, `
UPDATE roles SET name = $2, description = NULLIF($3, ''), updated_at = NOW() WHERE id = $1
RETURNING `+roleColumns, id, name, description))
}

// SetActive writes the role's active flag.
func (r *Repository) SetActive(ctx context.Context, id int64, isActive bool) (Role, error) {
	return scanRole(r.pool.QueryRow(ctx, `
UPDATE roles SET is_active = $2, updated_at = NOW() WHERE id = $1
RETURNING `+roleColumns, id, isActive))
}

// Delete removes a role by ID. Returns shared.ErrNotFound if nothing was deleted.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("roles: delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UserCount returns how many users are assigned to the role.
func (r *Repository) UserCount(ctx context.Context, id int64) (int, error) {
	var count int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM users WHERE role_id = $1`, id).Scan(&count); err != nil {
		return 0, fmt.Errorf("roles: user count: %w", err)
	}
	return count, nil
}

// ListGrants returns every join row for the role, active or not.
func (r *Repository) ListGrants(ctx context.Context, roleID int64) ([]GrantRow, error) {
	rows, err := r.pool.Query(ctx, `
SELECT rp.permission_id, p.name, rp.is_active
FROM role_permissions rp
JOIN permissions p ON p.id = rp.permission_id
WHERE rp.role_id = $1 ORDER BY p.name`, roleID)
	if err != nil {
		return nil, fmt.Errorf("roles: list grants: %w", err)
	}
	defer rows.Close()
	var grants []GrantRow
	for rows.Next() {
		var grant GrantRow
		if err := rows.Scan(&grant.PermissionID, &grant.Permission, &grant.IsActive); err != nil {
			return nil, fmt.Errorf("roles: scan grant: %w", err)
		}
		grants = append(grants, grant)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("roles: iterate grants: %w", err)
	}
	return grants, nil
}

// AttachGrant inserts a join row, reactivating it if it already exists.
func (r *Repository) AttachGrant(ctx context.Context, roleID, permissionID int64) error {
	_, err := r.pool.Exec(ctx, `
INSERT INTO role_permissions (role_id, permission_id, is_active) VALUES ($1, $2, TRUE)
ON CONFLICT (role_id, permission_id) DO UPDATE SET is_active = TRUE`, roleID, permissionID)
	if err != nil {
		return fmt.Errorf("roles: attach grant: %w", err)
	}
	return nil
}

// DetachGrant removes a join row.
func (r *Repository) DetachGrant(ctx context.Context, roleID, permissionID int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM role_permissions WHERE role_id = $1 AND permission_id = $2`, roleID, permissionID)
	if err != nil {
		return fmt.Errorf("roles: detach grant: %w", err)
	}
	return nil
}

// SetGrantActive flips one grant's activation flag, revoking or restoring a
// single permission without deleting history.
func (r *Repository) SetGrantActive(ctx context.Context, roleID, permissionID int64, isActive bool) error {
	tag, err := r.pool.Exec(ctx, `
UPDATE role_permissions SET is_active = $3 WHERE role_id = $1 AND permission_id = $2`, roleID, permissionID, isActive)
	if err != nil {
		return fmt.Errorf("roles: set grant active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpsertSeed creates the role if missing and adds any missing grants by
// permission name. Existing roles and grants are not modified.
func (r *Repository) UpsertSeed(ctx context.Context, seed SeedRole) error {
	return db.WithTx(ctx, r.pool, func(tx pgx.Tx) error {
		_, err := tx.Exec(ctx, `
INSERT INTO roles (slug, name, description, is_active) VALUES ($1, $2, NULLIF($3, ''), TRUE)
ON CONFLICT (slug) DO NOTHING`, seed.Slug, seed.Name, seed.Description)
		if err != nil {
			return fmt.Errorf("roles: seed role %q: %w", seed.Slug, err)
		}
		_, err = tx.Exec(ctx, `
INSERT INTO role_permissions (role_id, permission_id, is_active)
SELECT r.id, p.id, TRUE FROM roles r JOIN permissions p ON p.name = ANY($2)
WHERE r.slug = $1
ON CONFLICT (role_id, permission_id) DO NOTHING`, seed.Slug, seed.Permissions)
		if err != nil {
			return fmt.Errorf("roles: seed grants %q: %w", seed.Slug, err)
		}
		return nil
	})
}
