package catalog

import (
	"context"
	"errors"
	"strings"
)

// Service orchestrates permission catalog operations.
type Service struct {
	repo RepositoryPort
}

// NewService builds Service instance.
func NewService(repo RepositoryPort) *Service {
	return &Service{repo: repo}
}

// ListAll returns every permission, enabled or not.
func (s *Service) ListAll(ctx context.Context) ([]Permission, error) {
	return s.repo.List(ctx)
}

// ListByCategory returns the permissions in one category.
func (s *Service) ListByCategory(ctx context.Context, category string) ([]Permission, error) {
	return s.repo.ListByCategory(ctx, strings.TrimSpace(category))
}

// ListCategories returns distinct categories with counts.
func (s *Service) ListCategories(ctx context.Context) ([]CategoryCount, error) {
	return s.repo.Categories(ctx)
}

// AvailableGrouped returns enabled permissions grouped by category. Disabled
// permissions disappear from this listing but keep working for roles that
// already reference them by name; only join-row activation has live effect.
func (s *Service) AvailableGrouped(ctx context.Context) (map[string][]Permission, error) {
	perms, err := s.repo.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	grouped := make(map[string][]Permission)
	for _, p := range perms {
		grouped[p.Category] = append(grouped[p.Category], p)
	}
	return grouped, nil
}

// Get fetches a permission by ID.
func (s *Service) Get(ctx context.Context, id int64) (Permission, error) {
	return s.repo.Get(ctx, id)
}

// Create registers a new permission name.
func (s *Service) Create(ctx context.Context, name, description, category string) (Permission, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Permission{}, errors.New("catalog: permission name required")
	}
	return s.repo.Create(ctx, name, strings.TrimSpace(description), strings.TrimSpace(category))
}

// Update changes presentation attributes of an existing permission.
func (s *Service) Update(ctx context.Context, id int64, description, category string) (Permission, error) {
	return s.repo.Update(ctx, id, strings.TrimSpace(description), strings.TrimSpace(category))
}

// ToggleStatus flips the soft-disable flag. Read-modify-write without
// optimistic locking; two concurrent toggles can net out to the original
// value, an accepted weakness.
func (s *Service) ToggleStatus(ctx context.Context, id int64) (Permission, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return Permission{}, err
	}
	return s.repo.SetActive(ctx, id, !current.IsActive)
}

// Delete removes a permission record. Roles referencing the name through
// inline shapes keep it; only join rows cascade.
func (s *Service) Delete(ctx context.Context, id int64) error {
	return s.repo.Delete(ctx, id)
}

// EnsureSeeded applies the manifest idempotently.
func (s *Service) EnsureSeeded(ctx context.Context, entries []ManifestEntry) error {
	return s.repo.UpsertManifest(ctx, entries)
}
