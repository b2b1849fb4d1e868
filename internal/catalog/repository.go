package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/admindesk/admindesk/internal/platform/db"
	"github.com/admindesk/admindesk/internal/shared"
)

// RepositoryPort defines data access methods for permissions.
type RepositoryPort interface {
	List(ctx context.Context) ([]Permission, error)
	ListByCategory(ctx context.Context, category string) ([]Permission, error)
	ListActive(ctx context.Context) ([]Permission, error)
	Categories(ctx context.Context) ([]CategoryCount, error)
	Get(ctx context.Context, id int64) (Permission, error)
	Create(ctx context.Context, name, description, category string) (Permission, error)
	Update(ctx context.Context, id int64, description, category string) (Permission, error)
	SetActive(ctx context.Context, id int64, isActive bool) (Permission, error)
	Delete(ctx context.Context, id int64) error
	UpsertManifest(ctx context.Context, entries []ManifestEntry) error
}

// Repository provides PostgreSQL backed persistence.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const permissionColumns = `id, name, description, category, is_active, created_at, updated_at`

func scanPermission(row pgx.Row) (Permission, error) {
	var p Permission
	err := row.Scan(&p.ID, &p.Name, &p.Description, &p.Category, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return Permission{}, shared.ErrNotFound
		}
		return Permission{}, fmt.Errorf("catalog: scan permission: %w", err)
	}
	return p, nil
}

func (r *Repository) list(ctx context.Context, query string, args ...any) ([]Permission, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("catalog: list permissions: %w", err)
	}
	defer rows.Close()
	var perms []Permission
	for rows.Next() {
		p, err := scanPermission(rows)
		if err != nil {
			return nil, err
		}
		perms = append(perms, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate permissions: %w", err)
	}
	return perms, nil
}

// List returns all permissions ordered by category then name.
func (r *Repository) List(ctx context.Context) ([]Permission, error) {
	return r.list(ctx, `SELECT `+permissionColumns+` FROM permissions ORDER BY category, name`)
}

// ListByCategory returns all permissions in one category ordered by name.
func (r *Repository) ListByCategory(ctx context.Context, category string) ([]Permission, error) {
	return r.list(ctx, `SELECT `+permissionColumns+` FROM permissions WHERE category = $1 ORDER BY name`, category)
}

// ListActive returns enabled permissions ordered by category then name.
func (r *Repository) ListActive(ctx context.Context) ([]Permission, error) {
	return r.list(ctx, `SELECT `+permissionColumns+` FROM permissions WHERE is_active ORDER BY category, name`)
}

// Categories returns distinct categories with their permission counts.
func (r *Repository) Categories(ctx context.Context) ([]CategoryCount, error) {
	rows, err := r.pool.Query(ctx, `SELECT category, COUNT(*) FROM permissions GROUP BY category ORDER BY category`)
	if err != nil {
		return nil, fmt.Errorf("catalog: list categories: %w", err)
	}
	defer rows.Close()
	var counts []CategoryCount
	for rows.Next() {
		var c CategoryCount
		if err := rows.Scan(&c.Category, &c.Count); err != nil {
			return nil, fmt.Errorf("catalog: scan category: %w", err)
		}
		counts = append(counts, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("catalog: iterate categories: %w", err)
	}
	return counts, nil
}

// Get fetches a permission by ID.
func (r *Repository) Get(ctx context.Context, id int64) (Permission, error) {
	return scanPermission(r.pool.QueryRow(ctx, `SELECT `+permissionColumns+` FROM permissions WHERE id = $1`, id))
}

// Create inserts a new permission.
func (r *Repository) Create(ctx context.Context, name, description, category string) (Permission, error) {
	p, err := scanPermission(r.pool.QueryRow(ctx, `
INSERT INTO permissions (name, description, category, is_active)
VALUES ($1, $2, $3, TRUE)
RETURNING `+permissionColumns, name, description, category))
	if err != nil && db.IsUniqueViolation(err) {
		return Permission{}, fmt.Errorf("catalog: permission %q: %w", name, shared.ErrConflict)
	}
	return p, err
}

// Update changes description and category. The name is immutable identity.
func (r *Repository) Update(ctx context.Context, id int64, description, category string) (Permission, error) {
	return scanPermission(r.pool.QueryRow(ctx, `
UPDATE permissions SET description = $2, category = $3, updated_at = NOW()
WHERE id = $1
RETURNING `+permissionColumns, id, description, category))
}

// SetActive writes the soft-disable flag.
func (r *Repository) SetActive(ctx context.Context, id int64, isActive bool) (Permission, error) {
	return scanPermission(r.pool.QueryRow(ctx, `
UPDATE permissions SET is_active = $2, updated_at = NOW()
WHERE id = $1
RETURNING `+permissionColumns, id, isActive))
}

// Delete removes a permission by ID.
func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM permissions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("catalog: delete permission: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// UpsertManifest applies the default manifest. On conflict only description
// and category are overwritten; is_active is left untouched so administrator
// toggles survive redeploys.
func (r *Repository) UpsertManifest(ctx context.Context, entries []ManifestEntry) error {
	for _, entry := range entries {
		_, err := r.pool.Exec(ctx, `
INSERT INTO permissions (name, description, category, is_active)
VALUES ($1, $2, $3, TRUE)
ON CONFLICT (name) DO UPDATE SET description = EXCLUDED.description, category = EXCLUDED.category, updated_at = NOW()`,
			entry.Name, entry.Description, entry.Category)
		if err != nil {
			return fmt.Errorf("catalog: upsert %q: %w", entry.Name, err)
		}
	}
	return nil
}
