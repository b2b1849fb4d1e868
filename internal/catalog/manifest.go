package catalog

// DefaultManifest is the permission manifest applied idempotently at startup.
func DefaultManifest() []ManifestEntry {
	return []ManifestEntry{
		{Name: "dashboard.access", Description: "Access to dashboard", Category: "dashboard"},

		{Name: "users.read", Description: "View users", Category: "users"},
		{Name: "users.create", Description: "Create users", Category: "users"},
		{Name: "users.update", Description: "Update users", Category: "users"},
		{Name: "users.delete", Description: "Delete users", Category: "users"},

		{Name: "roles.read", Description: "View roles", Category: "roles"},
		{Name: "roles.create", Description: "Create roles", Category: "roles"},
		{Name: "roles.update", Description: "Update roles", Category: "roles"},
		{Name: "roles.delete", Description: "Delete roles", Category: "roles"},

		{Name: "endpoints.read", Description: "View endpoints", Category: "endpoints"},
		{Name: "endpoints.update", Description: "Update endpoint permissions and status", Category: "endpoints"},
		{Name: "endpoints.manage", Description: "Full endpoint management including resync", Category: "endpoints"},

		{Name: "permissions.manage", Description: "Manage permissions", Category: "permissions"},

		{Name: "profile.read", Description: "Read own profile", Category: "profile"},
		{Name: "profile.update", Description: "Update own profile", Category: "profile"},

		{Name: "system.admin", Description: "System administration", Category: "system"},
	}
}
