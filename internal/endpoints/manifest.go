package endpoints

// DefaultManifest enumerates every route the API serves, in router
// pattern form, together with the permissions its guard declares. New
// registry rows are seeded from these values; SyncManifest replays the
// manifest at startup so the registry always covers the deployed
// surface, and rows for routes that no longer exist are left in place
// for operators to retire.
func DefaultManifest() []ManifestEntry {
	return []ManifestEntry{
		{Path: "/auth/login", Method: "POST", Controller: "auth", Action: "login", Description: "Authenticate and issue an access token", IsActive: true},
		{Path: "/auth/register", Method: "POST", Controller: "auth", Action: "register", Description: "Self-service account registration", IsActive: true},
		{Path: "/auth/logout", Method: "POST", Controller: "auth", Action: "logout", Description: "Revoke the current session", IsActive: true},
		{Path: "/auth/profile", Method: "GET", Controller: "auth", Action: "profile", Description: "Current principal profile", IsActive: true},

		{Path: "/users", Method: "GET", Controller: "users", Action: "list", Description: "List users", Permissions: []string{"users.read"}, IsActive: true},
		{Path: "/users/{id}", Method: "GET", Controller: "users", Action: "get", Description: "Fetch one user", Permissions: []string{"users.read"}, IsActive: true},
		{Path: "/users", Method: "POST", Controller: "users", Action: "create", Description: "Create a user", Permissions: []string{"users.create"}, IsActive: true},
		{Path: "/users/{id}", Method: "PATCH", Controller: "users", Action: "update", Description: "Update user profile fields", Permissions: []string{"users.update"}, IsActive: true},
		{Path: "/users/{id}/toggle-status", Method: "PATCH", Controller: "users", Action: "toggleStatus", Description: "Flip the user's active flag", Permissions: []string{"users.update"}, IsActive: true},
		{Path: "/users/{id}/role", Method: "PATCH", Controller: "users", Action: "assignRole", Description: "Assign a role to a user", Permissions: []string{"users.update"}, IsActive: true},
		{Path: "/users/{id}", Method: "DELETE", Controller: "users", Action: "delete", Description: "Delete a user", Permissions: []string{"users.delete"}, IsActive: true},

		{Path: "/roles", Method: "GET", Controller: "roles", Action: "list", Description: "List roles with user counts", Permissions: []string{"roles.read"}, IsActive: true},
		{Path: "/roles/{id}", Method: "GET", Controller: "roles", Action: "get", Description: "Fetch one role with its grants", Permissions: []string{"roles.read"}, IsActive: true},
		{Path: "/roles/slug/{slug}", Method: "GET", Controller: "roles", Action: "getBySlug", Description: "Fetch a role by slug", Permissions: []string{"roles.read"}, IsActive: true},
		{Path: "/roles", Method: "POST", Controller: "roles", Action: "create", Description: "Create a role", Permissions: []string{"roles.create"}, IsActive: true},
		{Path: "/roles/{id}", Method: "PATCH", Controller: "roles", Action: "update", Description: "Update role name and description", Permissions: []string{"roles.update"}, IsActive: true},
		{Path: "/roles/{id}/toggle-status", Method: "PATCH", Controller: "roles", Action: "toggleStatus", Description: "Flip the role's active flag", Permissions: []string{"roles.update"}, IsActive: true},
		{Path: "/roles/{id}/permissions", Method: "PUT", Controller: "roles", Action: "setPermissions", Description: "Replace the role's permission grants", Permissions: []string{"roles.update"}, IsActive: true},
		{Path: "/roles/{id}/permissions/{permissionID}", Method: "PATCH", Controller: "roles", Action: "setGrantActive", Description: "Toggle a single grant row", Permissions: []string{"roles.update"}, IsActive: true},
		{Path: "/roles/{id}", Method: "DELETE", Controller: "roles", Action: "delete", Description: "Delete an unused role", Permissions: []string{"roles.delete"}, IsActive: true},

		{Path: "/permissions", Method: "GET", Controller: "permissions", Action: "list", Description: "List the permission catalog", Permissions: []string{"permissions.manage", "roles.read"}, IsActive: true},
		{Path: "/permissions/categories", Method: "GET", Controller: "permissions", Action: "categories", Description: "Category counts", Permissions: []string{"permissions.manage", "roles.read"}, IsActive: true},
		{Path: "/permissions/available", Method: "GET", Controller: "permissions", Action: "available", Description: "Active permissions grouped by category", Permissions: []string{"permissions.manage", "roles.read"}, IsActive: true},
		{Path: "/permissions/{id}", Method: "GET", Controller: "permissions", Action: "get", Description: "Fetch one permission", Permissions: []string{"permissions.manage", "roles.read"}, IsActive: true},
		{Path: "/permissions", Method: "POST", Controller: "permissions", Action: "create", Description: "Create a permission", Permissions: []string{"permissions.manage"}, IsActive: true},
		{Path: "/permissions/{id}", Method: "PATCH", Controller: "permissions", Action: "update", Description: "Update permission description and category", Permissions: []string{"permissions.manage"}, IsActive: true},
		{Path: "/permissions/{id}/toggle-status", Method: "PATCH", Controller: "permissions", Action: "toggleStatus", Description: "Flip the permission's active flag", Permissions: []string{"permissions.manage"}, IsActive: true},
		{Path: "/permissions/{id}", Method: "DELETE", Controller: "permissions", Action: "delete", Description: "Delete a permission", Permissions: []string{"permissions.manage"}, IsActive: true},

		{Path: "/endpoints", Method: "GET", Controller: "endpoints", Action: "list", Description: "List registered endpoints", Permissions: []string{"endpoints.read"}, IsActive: true},
		{Path: "/endpoints/stats", Method: "GET", Controller: "endpoints", Action: "stats", Description: "Registry statistics", Permissions: []string{"endpoints.read"}, IsActive: true},
		{Path: "/endpoints/{id}", Method: "GET", Controller: "endpoints", Action: "get", Description: "Fetch one registry row", Permissions: []string{"endpoints.read"}, IsActive: true},
		{Path: "/endpoints/{id}/permissions", Method: "PUT", Controller: "endpoints", Action: "setPermissions", Description: "Override required permissions for a route", Permissions: []string{"endpoints.update"}, IsActive: true},
		{Path: "/endpoints/{id}/toggle-status", Method: "PATCH", Controller: "endpoints", Action: "toggleStatus", Description: "Flip the endpoint kill-switch", Permissions: []string{"endpoints.update"}, IsActive: true},
		{Path: "/endpoints/resync", Method: "POST", Controller: "endpoints", Action: "resync", Description: "Re-run the manifest sync", Permissions: []string{"endpoints.manage"}, IsActive: true},
		{Path: "/endpoints/{id}", Method: "DELETE", Controller: "endpoints", Action: "delete", Description: "Remove a stale registry row", Permissions: []string{"endpoints.manage"}, IsActive: true},
	}
}
