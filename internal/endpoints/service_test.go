package endpoints_test

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/admindesk/admindesk/internal/endpoints"
	"github.com/admindesk/admindesk/internal/shared"
	_ "github.com/admindesk/admindesk/testing"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

type stubRepo struct {
	rows        map[string]endpoints.Endpoint
	permissions map[int64][]string
	active      map[int64]bool
}

func rowKey(path, method string) string { return method + " " + path }

func newStubRepo() *stubRepo {
	return &stubRepo{
		rows:        map[string]endpoints.Endpoint{},
		permissions: map[int64][]string{},
		active:      map[int64]bool{},
	}
}

func (s *stubRepo) List(ctx context.Context) ([]endpoints.Endpoint, error) {
	out := make([]endpoints.Endpoint, 0, len(s.rows))
	for _, e := range s.rows {
		out = append(out, e)
	}
	return out, nil
}

func (s *stubRepo) ListActive(ctx context.Context) ([]endpoints.Endpoint, error) {
	var out []endpoints.Endpoint
	for _, e := range s.rows {
		if e.IsActive {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubRepo) ListByController(ctx context.Context, controller string) ([]endpoints.Endpoint, error) {
	var out []endpoints.Endpoint
	for _, e := range s.rows {
		if e.Controller == controller {
			out = append(out, e)
		}
	}
	return out, nil
}

func (s *stubRepo) Get(ctx context.Context, id int64) (endpoints.Endpoint, error) {
	for _, e := range s.rows {
		if e.ID == id {
			return e, nil
		}
	}
	return endpoints.Endpoint{}, shared.ErrNotFound
}

func (s *stubRepo) Find(ctx context.Context, path, method string) (endpoints.Endpoint, error) {
	e, ok := s.rows[rowKey(path, method)]
	if !ok {
		return endpoints.Endpoint{}, shared.ErrNotFound
	}
	return e, nil
}

func (s *stubRepo) UpsertManifest(ctx context.Context, entries []endpoints.ManifestEntry) error {
	for _, entry := range entries {
		key := rowKey(entry.Path, strings.ToUpper(entry.Method))
		if existing, ok := s.rows[key]; ok {
			// Conflict path: only descriptive fields are refreshed.
			existing.Controller = entry.Controller
			existing.Action = entry.Action
			existing.Description = entry.Description
			s.rows[key] = existing
			continue
		}
		perms := entry.Permissions
		if perms == nil {
			perms = []string{}
		}
		s.rows[key] = endpoints.Endpoint{
			ID:          int64(len(s.rows) + 1),
			Path:        entry.Path,
			Method:      strings.ToUpper(entry.Method),
			Controller:  entry.Controller,
			Action:      entry.Action,
			Description: entry.Description,
			IsActive:    entry.IsActive,
			Permissions: perms,
		}
	}
	return nil
}

func (s *stubRepo) SetPermissions(ctx context.Context, id int64, permissions []string) (endpoints.Endpoint, error) {
	for key, e := range s.rows {
		if e.ID == id {
			e.Permissions = permissions
			s.rows[key] = e
			return e, nil
		}
	}
	return endpoints.Endpoint{}, shared.ErrNotFound
}

func (s *stubRepo) SetActive(ctx context.Context, id int64, isActive bool) (endpoints.Endpoint, error) {
	for key, e := range s.rows {
		if e.ID == id {
			e.IsActive = isActive
			s.rows[key] = e
			return e, nil
		}
	}
	return endpoints.Endpoint{}, shared.ErrNotFound
}

func (s *stubRepo) Delete(ctx context.Context, id int64) error {
	for key, e := range s.rows {
		if e.ID == id {
			delete(s.rows, key)
			return nil
		}
	}
	return shared.ErrNotFound
}

func (s *stubRepo) Stats(ctx context.Context) (endpoints.Stats, error) {
	stats := endpoints.Stats{Controllers: map[string]int64{}}
	for _, e := range s.rows {
		stats.Total++
		if e.IsActive {
			stats.Active++
		} else {
			stats.Inactive++
		}
		stats.Controllers[e.Controller]++
	}
	return stats, nil
}

func newService(t *testing.T) (*endpoints.Service, *stubRepo) {
	t.Helper()
	repo := newStubRepo()
	return endpoints.NewService(repo, testLogger()), repo
}

func TestSyncManifestPreservesAdminEdits(t *testing.T) {
	service, repo := newService(t)
	ctx := context.Background()

	manifest := []endpoints.ManifestEntry{
		{Path: "/users", Method: "GET", Controller: "users", Action: "list", Description: "List users", Permissions: []string{"users.read"}, IsActive: true},
	}
	require.NoError(t, service.SyncManifest(ctx, manifest))

	row, err := repo.Find(ctx, "/users", "GET")
	require.NoError(t, err)

	// Admin disables the route and overrides its permissions.
	_, err = service.ToggleActive(ctx, row.ID)
	require.NoError(t, err)
	_, err = service.SetPermissions(ctx, row.ID, []string{"users.audit"})
	require.NoError(t, err)

	// A redeploy replays the manifest with a changed description.
	manifest[0].Description = "List all users"
	require.NoError(t, service.SyncManifest(ctx, manifest))

	row, err = repo.Find(ctx, "/users", "GET")
	require.NoError(t, err)
	require.Equal(t, "List all users", row.Description)
	require.False(t, row.IsActive, "kill-switch survives resync")
	require.Equal(t, []string{"users.audit"}, row.Permissions, "permission override survives resync")
}

func TestLookupMissAbstains(t *testing.T) {
	service, _ := newService(t)

	_, found, err := service.Lookup(context.Background(), "/unknown", "GET")
	require.NoError(t, err)
	require.False(t, found)
}

func TestLookupIsMethodCaseInsensitive(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, service.SyncManifest(ctx, []endpoints.ManifestEntry{
		{Path: "/users", Method: "get", Controller: "users", Action: "list", IsActive: true},
	}))

	policy, found, err := service.Lookup(ctx, "/users", "get")
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, policy.IsActive)
}

func TestSetPermissionsNormalises(t *testing.T) {
	service, repo := newService(t)
	ctx := context.Background()

	require.NoError(t, service.SyncManifest(ctx, []endpoints.ManifestEntry{
		{Path: "/users", Method: "GET", Controller: "users", Action: "list", IsActive: true},
	}))
	row, err := repo.Find(ctx, "/users", "GET")
	require.NoError(t, err)

	updated, err := service.SetPermissions(ctx, row.ID, []string{" Users.Read ", "users.read", "", "users.audit"})
	require.NoError(t, err)
	require.Equal(t, []string{"users.read", "users.audit"}, updated.Permissions)
}

func TestStats(t *testing.T) {
	service, repo := newService(t)
	ctx := context.Background()

	require.NoError(t, service.SyncManifest(ctx, []endpoints.ManifestEntry{
		{Path: "/users", Method: "GET", Controller: "users", Action: "list", IsActive: true},
		{Path: "/roles", Method: "GET", Controller: "roles", Action: "list", IsActive: true},
	}))
	row, err := repo.Find(ctx, "/roles", "GET")
	require.NoError(t, err)
	_, err = service.ToggleActive(ctx, row.ID)
	require.NoError(t, err)

	stats, err := service.Stats(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 2, stats.Total)
	require.EqualValues(t, 1, stats.Active)
	require.EqualValues(t, 1, stats.Inactive)
	require.EqualValues(t, 1, stats.Controllers["users"])
}

func TestDefaultManifestHasNoDuplicateRoutes(t *testing.T) {
	seen := map[string]struct{}{}
	for _, entry := range endpoints.DefaultManifest() {
		key := rowKey(entry.Path, entry.Method)
		_, dup := seen[key]
		require.False(t, dup, "duplicate route %s", key)
		seen[key] = struct{}{}
	}
}

func TestSyncManifestSeedsDeclaredPolicy(t *testing.T) {
	service, _ := newService(t)
	ctx := context.Background()

	require.NoError(t, service.SyncManifest(ctx, []endpoints.ManifestEntry{
		{Path: "/users", Method: "GET", Controller: "users", Action: "list", Permissions: []string{"users.read"}, IsActive: true},
	}))

	// A fresh row carries the route's declared permissions, so the
	// dynamic layer is populated from day one.
	policy, found, err := service.Lookup(ctx, "/users", "GET")
	require.NoError(t, err)
	require.True(t, found)
	require.True(t, policy.IsActive)
	require.Equal(t, []string{"users.read"}, policy.Permissions)
}

func TestDefaultManifestDeclaresGuardPermissions(t *testing.T) {
	byRoute := map[string]endpoints.ManifestEntry{}
	for _, entry := range endpoints.DefaultManifest() {
		require.True(t, entry.IsActive, "%s %s should start enabled", entry.Method, entry.Path)
		if entry.Controller != "auth" {
			require.NotEmpty(t, entry.Permissions, "%s %s should declare permissions", entry.Method, entry.Path)
		}
		byRoute[rowKey(entry.Path, entry.Method)] = entry
	}

	require.Equal(t, []string{"users.read"}, byRoute[rowKey("/users", "GET")].Permissions)
	require.Equal(t, []string{"users.delete"}, byRoute[rowKey("/users/{id}", "DELETE")].Permissions)
	// Auth routes stay reachable anonymously.
	require.Empty(t, byRoute[rowKey("/auth/login", "POST")].Permissions)
}
