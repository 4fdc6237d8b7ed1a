package rbac

import (
	"context"
	"log/slog"
	"slices"

	"github.com/google/uuid"
)

// EffectivePermissions computes the permission set an identity holds.
// Precedence, highest first:
//
//  1. super_admin gets every action on every module.
//  2. A non-empty PermissionOverride is returned verbatim. It replaces
//     the default table rather than merging with it, so a tenant can
//     revoke grants the role's defaults would otherwise carry.
//  3. The role's default table.
//
// A nil identity yields nil.
func EffectivePermissions(identity *Identity) []Permission {
	if identity == nil {
		return nil
	}
	if identity.Role == RoleSuperAdmin {
		return AllPermissions()
	}
	if len(identity.PermissionOverride) > 0 {
		return ClonePermissions(identity.PermissionOverride)
	}
	return DefaultPermissions(identity.Role)
}

// HasPermission reports whether the identity may perform the action on
// the module. It fails closed: a nil identity, unknown role, or empty
// effective set all deny. Authorization queries never return errors;
// deny is the only negative signal.
func HasPermission(identity *Identity, module Module, action Action) bool {
	return permitted(EffectivePermissions(identity), module, action)
}

// CanAccessModule reports whether the identity may view the module.
func CanAccessModule(identity *Identity, module Module) bool {
	return HasPermission(identity, module, ActionView)
}

func permitted(perms []Permission, module Module, action Action) bool {
	for _, p := range perms {
		if p.Module == module && p.Allows(action) {
			return true
		}
	}
	return false
}

// AssignmentSource supplies the permissions a user has been granted
// through custom role assignments. Implementations must read current
// state at call time; the decision path tolerates no caching.
type AssignmentSource interface {
	PermissionsForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]Permission, error)
}

// Resolver answers authorization queries, optionally folding in
// permissions granted through custom role assignments. Without an
// assignment source it behaves exactly like the package-level
// functions.
type Resolver struct {
	source AssignmentSource
	log    *slog.Logger
}

// ResolverOption configures a Resolver.
type ResolverOption func(*Resolver)

// WithAssignmentSource makes the resolver union permissions from the
// user's assigned custom roles into the effective set. Assigned roles
// extend the base set (default table or override); the override still
// replaces the defaults.
func WithAssignmentSource(source AssignmentSource) ResolverOption {
	return func(r *Resolver) { r.source = source }
}

// WithLogger sets the logger used to report store failures on the
// decision path. Defaults to slog.Default().
func WithLogger(log *slog.Logger) ResolverOption {
	return func(r *Resolver) {
		if log != nil {
			r.log = log
		}
	}
}

// NewResolver creates a Resolver.
func NewResolver(opts ...ResolverOption) *Resolver {
	r := &Resolver{log: slog.Default()}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// EffectivePermissions computes the identity's effective set, including
// assigned custom roles when a source is configured. A failing source
// never widens access: the base set is returned and the failure logged.
func (r *Resolver) EffectivePermissions(ctx context.Context, identity *Identity) []Permission {
	base := EffectivePermissions(identity)
	if identity == nil || identity.Role == RoleSuperAdmin || r.source == nil {
		return base
	}

	assigned, err := r.source.PermissionsForUser(ctx, identity.TenantID, identity.ID)
	if err != nil {
		r.log.WarnContext(ctx, "assignment lookup failed, resolving without assigned roles",
			slog.String("user_id", identity.ID.String()),
			slog.String("tenant_id", identity.TenantID.String()),
			slog.Any("error", err))
		return base
	}

	return MergePermissions(base, assigned)
}

// HasPermission reports whether the identity may perform the action on
// the module, consulting assigned custom roles when configured. Fails
// closed on any ambiguity.
func (r *Resolver) HasPermission(ctx context.Context, identity *Identity, module Module, action Action) bool {
	return permitted(r.EffectivePermissions(ctx, identity), module, action)
}

// CanAccessModule reports whether the identity may view the module.
func (r *Resolver) CanAccessModule(ctx context.Context, identity *Identity, module Module) bool {
	return r.HasPermission(ctx, identity, module, ActionView)
}

// MergePermissions unions two permission lists. Each module appears at
// most once in the result; action sets are unioned. Base ordering is
// preserved, with new modules appended in encounter order.
func MergePermissions(base, extra []Permission) []Permission {
	merged := ClonePermissions(base)
	index := make(map[Module]int, len(merged))
	for i, p := range merged {
		index[p.Module] = i
	}

	for _, p := range extra {
		i, ok := index[p.Module]
		if !ok {
			index[p.Module] = len(merged)
			merged = append(merged, Permission{Module: p.Module, Actions: slices.Clone(p.Actions)})
			continue
		}
		for _, a := range p.Actions {
			if !merged[i].Allows(a) {
				merged[i].Actions = append(merged[i].Actions, a)
			}
		}
	}
	return merged
}
