package rbac

import (
	"context"
	"log/slog"
)

// EndpointPolicy is the dynamic authorization state attached to a registered
// route: a kill-switch and an administrator-editable required-permission list.
type EndpointPolicy struct {
	IsActive    bool
	Permissions []string
}

// Registry looks up the dynamic policy for a (path, method) pair. The second
// return value reports whether a row exists; a missing row makes the dynamic
// layer abstain (fail-open), it is not an error.
type Registry interface {
	Lookup(ctx context.Context, path, method string) (EndpointPolicy, bool, error)
}

// Engine computes authorization decisions by combining the dynamic endpoint
// registry with statically declared route permissions and the principal's
// effective permission set.
type Engine struct {
	registry Registry
	logger   *slog.Logger
}

// NewEngine constructs an Engine. The registry may be nil, in which case the
// dynamic layer always abstains.
func NewEngine(registry Registry, logger *slog.Logger) *Engine {
	return &Engine{registry: registry, logger: logger}
}

// Authorize runs the decision sequence for one request:
//
//  1. endpoint kill-switch: a registered row with IsActive=false denies;
//     an unregistered (path, method) is fail-open by design — availability
//     over safety, so unregistered routes bypass the dynamic layer entirely
//  2. required permissions: the registry's non-empty list replaces the
//     declared one, it is never merged with it
//  3. an empty required set allows without authentication
//  4. no principal denies as unauthenticated
//  5. the super-administrator role allows unconditionally, checked before the
//     account-active flag so that account cannot lock itself out
//  6. an inactive account denies
//  7. otherwise allow iff the principal holds at least one required permission
//
// A registry failure is returned as an error and must be treated as deny by
// the caller; the only allow-by-default path is the documented registry miss.
func (e *Engine) Authorize(ctx context.Context, principal *Principal, path, method string, declared []string) (Decision, error) {
	required := declared
	if e.registry != nil {
		policy, found, err := e.registry.Lookup(ctx, path, method)
		if err != nil {
			return Deny(DenyNotFound), err
		}
		if found {
			if !policy.IsActive {
				return Deny(DenyEndpointDisabled), nil
			}
			if len(policy.Permissions) > 0 {
				required = policy.Permissions
			}
		}
	}

	if len(required) == 0 {
		return Allow(), nil
	}

	if principal == nil {
		return Deny(DenyUnauthenticated), nil
	}

	if principal.IsSuperAdmin() {
		return Allow(), nil
	}

	if !principal.IsActive {
		return Deny(DenyAccountInactive), nil
	}

	if principal.Permissions.ContainsAny(required) {
		return Allow(), nil
	}

	if e.logger != nil {
		e.logger.Warn("insufficient permissions",
			slog.String("email", principal.Email),
			slog.String("path", path),
			slog.String("method", method),
			slog.Any("required", required))
	}
	return Deny(DenyInsufficientPermissions), nil
}
