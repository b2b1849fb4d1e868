// Package catalog manages the canonical set of permission names.
package catalog

import "time"

// Permission represents an atomic capability. The dot-namespaced name is the
// identity and never changes once created; category is a presentation
// grouping and carries no decision-making weight.
type Permission struct {
	ID          int64
	Name        string
	Description string
	Category    string
	IsActive    bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// CategoryCount is one distinct category with its permission count.
type CategoryCount struct {
	Category string
	Count    int
}

// ManifestEntry is one row of the default permission manifest. Re-applying
// the manifest updates description and category only, so administrator
// isActive toggles survive redeploys.
type ManifestEntry struct {
	Name        string
	Description string
	Category    string
}
