package endpoints

import "time"

// Endpoint is a registered HTTP route together with its dynamic
// authorization state. Path is stored in chi pattern form
// (e.g. /users/{id}) and Method upper-cased.
type Endpoint struct {
	ID          int64
	Path        string
	Method      string
	Controller  string
	Action      string
	Description string
	IsActive    bool
	Permissions []string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// ManifestEntry describes one route as declared in code, including the
// permissions its guard requires and its initial kill-switch state. New
// rows are created from these values; on conflict the administrator-edited
// fields (is_active, permissions) are left alone and only the descriptive
// columns refresh.
type ManifestEntry struct {
	Path        string
	Method      string
	Controller  string
	Action      string
	Description string
	Permissions []string
	IsActive    bool
}

// Stats summarises the registry for the admin dashboard.
type Stats struct {
	Total       int64            `json:"total"`
	Active      int64            `json:"active"`
	Inactive    int64            `json:"inactive"`
	Controllers map[string]int64 `json:"byController"`
}
