package endpoints

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/admindesk/admindesk/internal/rbac"
	"github.com/admindesk/admindesk/internal/shared"
)

// Service owns the endpoint registry: it keeps the rows in sync with the
// code-declared manifest and serves policy lookups to the authorization
// engine.
type Service struct {
	repo   RepositoryPort
	logger *slog.Logger
}

var _ rbac.Registry = (*Service)(nil)

func NewService(repo RepositoryPort, logger *slog.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// SyncManifest upserts every manifest entry. Safe to replay: repeated runs
// with the same manifest leave administrator-edited fields untouched.
func (s *Service) SyncManifest(ctx context.Context, entries []ManifestEntry) error {
	if len(entries) == 0 {
		return nil
	}
	if err := s.repo.UpsertManifest(ctx, entries); err != nil {
		return err
	}
	s.logger.Info("endpoint manifest synced", slog.Int("entries", len(entries)))
	return nil
}

// Lookup implements the registry side of authorization. A missing row is
// reported as not-found rather than an error so the engine can fail open.
func (s *Service) Lookup(ctx context.Context, path, method string) (rbac.EndpointPolicy, bool, error) {
	endpoint, err := s.repo.Find(ctx, path, strings.ToUpper(method))
	if errors.Is(err, shared.ErrNotFound) {
		return rbac.EndpointPolicy{}, false, nil
	}
	if err != nil {
		return rbac.EndpointPolicy{}, false, err
	}
	return rbac.EndpointPolicy{IsActive: endpoint.IsActive, Permissions: endpoint.Permissions}, true, nil
}

func (s *Service) List(ctx context.Context) ([]Endpoint, error) {
	return s.repo.List(ctx)
}

func (s *Service) ListActive(ctx context.Context) ([]Endpoint, error) {
	return s.repo.ListActive(ctx)
}

func (s *Service) ListByController(ctx context.Context, controller string) ([]Endpoint, error) {
	return s.repo.ListByController(ctx, controller)
}

func (s *Service) Get(ctx context.Context, id int64) (Endpoint, error) {
	return s.repo.Get(ctx, id)
}

// SetPermissions replaces the dynamic required-permission list. An empty
// list removes the override so the route's declared permissions apply again.
func (s *Service) SetPermissions(ctx context.Context, id int64, permissions []string) (Endpoint, error) {
	cleaned := make([]string, 0, len(permissions))
	seen := map[string]struct{}{}
	for _, name := range permissions {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		cleaned = append(cleaned, name)
	}
	return s.repo.SetPermissions(ctx, id, cleaned)
}

// ToggleActive flips the kill-switch. Read-then-write without a row lock;
// concurrent toggles of the same row can lose one flip.
func (s *Service) ToggleActive(ctx context.Context, id int64) (Endpoint, error) {
	endpoint, err := s.repo.Get(ctx, id)
	if err != nil {
		return Endpoint{}, err
	}
	return s.repo.SetActive(ctx, id, !endpoint.IsActive)
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

func (s *Service) Stats(ctx context.Context) (Stats, error) {
	return s.repo.Stats(ctx)
}
