// Package rbac implements the authorization core: resolving a role's
// effective permission set and deciding allow/deny for a request.
package rbac

import (
	"sort"
	"strings"
)

// SuperAdminRoleSlug identifies the role whose members bypass permission
// checks entirely. Matching is by slug, so renaming that role would silently
// break the bypass.
const SuperAdminRoleSlug = "superadmin"

// PermissionSet is a deduplicated, unordered set of permission names.
type PermissionSet map[string]struct{}

// NewPermissionSet builds a set from names, trimming whitespace, lowering
// case and dropping empties. Duplicates collapse.
func NewPermissionSet(names ...string) PermissionSet {
	set := make(PermissionSet, len(names))
	for _, name := range names {
		name = strings.ToLower(strings.TrimSpace(name))
		if name == "" {
			continue
		}
		set[name] = struct{}{}
	}
	return set
}

// Has reports whether the set contains the given permission name.
func (s PermissionSet) Has(name string) bool {
	_, ok := s[strings.ToLower(strings.TrimSpace(name))]
	return ok
}

// ContainsAny reports whether at least one of the required names is present.
// An empty required list never matches.
func (s PermissionSet) ContainsAny(required []string) bool {
	for _, name := range required {
		if s.Has(name) {
			return true
		}
	}
	return false
}

// Names returns the members sorted for stable output.
func (s PermissionSet) Names() []string {
	names := make([]string, 0, len(s))
	for name := range s {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Principal is the authenticated actor's snapshot used for authorization
// decisions: identity, role, account state and effective permissions.
type Principal struct {
	ID          int64
	Email       string
	RoleSlug    string
	IsActive    bool
	Permissions PermissionSet
}

// IsSuperAdmin reports whether the principal holds the super-administrator role.
func (p *Principal) IsSuperAdmin() bool {
	return p != nil && p.RoleSlug == SuperAdminRoleSlug
}

// DenyReason is a machine-distinguishable denial cause.
type DenyReason string

// Denial reasons surfaced to callers so they can render distinct HTTP
// statuses without matching free text.
const (
	DenyUnauthenticated         DenyReason = "unauthenticated"
	DenyEndpointDisabled        DenyReason = "endpoint_disabled"
	DenyAccountInactive         DenyReason = "account_inactive"
	DenyInsufficientPermissions DenyReason = "insufficient_permissions"
	DenyNotFound                DenyReason = "not_found"
)

// Decision is the terminal outcome of an authorization check.
type Decision struct {
	Allowed bool
	Reason  DenyReason
}

// Allow returns an allowing decision.
func Allow() Decision {
	return Decision{Allowed: true}
}

// Deny returns a denying decision with the given reason.
func Deny(reason DenyReason) Decision {
	return Decision{Allowed: false, Reason: reason}
}
