package endpoints

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/admindesk/admindesk/internal/shared"
)

// RepositoryPort abstracts endpoint registry persistence.
type RepositoryPort interface {
	List(ctx context.Context) ([]Endpoint, error)
	ListActive(ctx context.Context) ([]Endpoint, error)
	ListByController(ctx context.Context, controller string) ([]Endpoint, error)
	Get(ctx context.Context, id int64) (Endpoint, error)
	Find(ctx context.Context, path, method string) (Endpoint, error)
	UpsertManifest(ctx context.Context, entries []ManifestEntry) error
	SetPermissions(ctx context.Context, id int64, permissions []string) (Endpoint, error)
	SetActive(ctx context.Context, id int64, isActive bool) (Endpoint, error)
	Delete(ctx context.Context, id int64) error
	Stats(ctx context.Context) (Stats, error)
}

// Repository is the pgx-backed registry store.
type Repository struct {
	pool *pgxpool.Pool
}

var _ RepositoryPort = (*Repository)(nil)

func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

const endpointSelect = `
SELECT id, path, method, controller, action, COALESCE(description, ''), is_active, permissions, created_at, updated_at
FROM endpoints`

func scanEndpoint(row pgx.Row) (Endpoint, error) {
	var e Endpoint
	err := row.Scan(&e.ID, &e.Path, &e.Method, &e.Controller, &e.Action, &e.Description, &e.IsActive, &e.Permissions, &e.CreatedAt, &e.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return Endpoint{}, shared.ErrNotFound
	}
	if err != nil {
		return Endpoint{}, fmt.Errorf("scan endpoint: %w", err)
	}
	return e, nil
}

func (r *Repository) List(ctx context.Context) ([]Endpoint, error) {
	rows, err := r.pool.Query(ctx, endpointSelect+` ORDER BY controller, path, method`)
	if err != nil {
		return nil, fmt.Errorf("list endpoints: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (r *Repository) ListActive(ctx context.Context) ([]Endpoint, error) {
	rows, err := r.pool.Query(ctx, endpointSelect+` WHERE is_active ORDER BY controller, path, method`)
	if err != nil {
		return nil, fmt.Errorf("list active endpoints: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func (r *Repository) ListByController(ctx context.Context, controller string) ([]Endpoint, error) {
	rows, err := r.pool.Query(ctx, endpointSelect+` WHERE controller = $1 ORDER BY path, method`, controller)
	if err != nil {
		return nil, fmt.Errorf("list endpoints by controller: %w", err)
	}
	defer rows.Close()
	return collect(rows)
}

func collect(rows pgx.Rows) ([]Endpoint, error) {
	var out []Endpoint
	for rows.Next() {
		e, err := scanEndpoint(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *Repository) Get(ctx context.Context, id int64) (Endpoint, error) {
	return scanEndpoint(r.pool.QueryRow(ctx, endpointSelect+` WHERE id = $1`, id))
}

func (r *Repository) Find(ctx context.Context, path, method string) (Endpoint, error) {
	return scanEndpoint(r.pool.QueryRow(ctx, endpointSelect+` WHERE path = $1 AND method = $2`, path, strings.ToUpper(method)))
}

// UpsertManifest replays the code-declared manifest. Conflicting rows keep
// their administrator-edited is_active and permissions; only the descriptive
// columns are refreshed.
func (r *Repository) UpsertManifest(ctx context.Context, entries []ManifestEntry) error {
	batch := &pgx.Batch{}
	for _, entry := range entries {
		perms := entry.Permissions
		if perms == nil {
			perms = []string{}
		}
		batch.Queue(`
INSERT INTO endpoints (path, method, controller, action, description, is_active, permissions)
VALUES ($1, $2, $3, $4, $5, $6, $7)
ON CONFLICT (path, method) DO UPDATE
SET controller = EXCLUDED.controller,
    action = EXCLUDED.action,
    description = EXCLUDED.description,
    updated_at = NOW()`,
			entry.Path, strings.ToUpper(entry.Method), entry.Controller, entry.Action, entry.Description, entry.IsActive, perms)
	}
	results := r.pool.SendBatch(ctx, batch)
	defer results.Close()
	for range entries {
		if _, err := results.Exec(); err != nil {
			return fmt.Errorf("upsert manifest: %w", err)
		}
	}
	return nil
}

func (r *Repository) SetPermissions(ctx context.Context, id int64, permissions []string) (Endpoint, error) {
	if permissions == nil {
		permissions = []string{}
	}
	tag, err := r.pool.Exec(ctx, `UPDATE endpoints SET permissions = $2, updated_at = NOW() WHERE id = $1`, id, permissions)
	if err != nil {
		return Endpoint{}, fmt.Errorf("set endpoint permissions: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Endpoint{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repository) SetActive(ctx context.Context, id int64, isActive bool) (Endpoint, error) {
	tag, err := r.pool.Exec(ctx, `UPDATE endpoints SET is_active = $2, updated_at = NOW() WHERE id = $1`, id, isActive)
	if err != nil {
		return Endpoint{}, fmt.Errorf("set endpoint active: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return Endpoint{}, shared.ErrNotFound
	}
	return r.Get(ctx, id)
}

func (r *Repository) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM endpoints WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete endpoint: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func (r *Repository) Stats(ctx context.Context) (Stats, error) {
	stats := Stats{Controllers: map[string]int64{}}
	if err := r.pool.QueryRow(ctx, `
SELECT COUNT(*), COUNT(*) FILTER (WHERE is_active), COUNT(*) FILTER (WHERE NOT is_active)
FROM endpoints`).Scan(&stats.Total, &stats.Active, &stats.Inactive); err != nil {
		return Stats{}, fmt.Errorf("endpoint stats: %w", err)
	}
	rows, err := r.pool.Query(ctx, `SELECT controller, COUNT(*) FROM endpoints GROUP BY controller`)
	if err != nil {
		return Stats{}, fmt.Errorf("endpoint stats: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var controller string
		var count int64
		if err := rows.Scan(&controller, &count); err != nil {
			return Stats{}, fmt.Errorf("endpoint stats: %w", err)
		}
		stats.Controllers[controller] = count
	}
	return stats, rows.Err()
}
