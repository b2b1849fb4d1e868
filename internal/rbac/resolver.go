package rbac

// PermissionSource is implemented by every storage shape a role may carry.
// Three encodings exist across deployments; a deployment uses exactly one.
// Whatever the shape, resolution always yields a deduplicated set.
type PermissionSource interface {
	EffectivePermissions() PermissionSet
}

// FlagMap is the inline flag-map shape: a permission is granted iff its key
// maps to true. Absent keys are implicitly denied.
type FlagMap map[string]bool

// EffectivePermissions resolves the flag map into a set.
func (m FlagMap) EffectivePermissions() PermissionSet {
	names := make([]string, 0, len(m))
	for name, granted := range m {
		if granted {
			names = append(names, name)
		}
	}
	return NewPermissionSet(names...)
}

// NameList is the inline string-array shape. Membership is the grant; there
// is no per-entry activation flag at this granularity.
type NameList []string

// EffectivePermissions resolves the list into a set.
func (l NameList) EffectivePermissions() PermissionSet {
	return NewPermissionSet(l...)
}

// Grant is one normalized role-permission join row. A row with
// IsActive=false is treated as absent, which is how a single permission is
// revoked from a role without deleting history.
type Grant struct {
	Permission string
	IsActive   bool
}

// GrantList is the normalized join-table shape.
type GrantList []Grant

// EffectivePermissions resolves active grants into a set. Stray duplicate
// rows collapse; a role cannot gain the same permission twice.
func (l GrantList) EffectivePermissions() PermissionSet {
	names := make([]string, 0, len(l))
	for _, grant := range l {
		if grant.IsActive {
			names = append(names, grant.Permission)
		}
	}
	return NewPermissionSet(names...)
}
