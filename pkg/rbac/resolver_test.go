package rbac_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolkit/schoolkit/pkg/rbac"
)

func TestEffectivePermissions_Precedence(t *testing.T) {
	override := []rbac.Permission{
		{Module: rbac.ModuleDashboard, Actions: []rbac.Action{rbac.ActionView}},
		{Module: rbac.ModuleStudents, Actions: []rbac.Action{rbac.ActionView, rbac.ActionEdit}},
	}

	tests := []struct {
		name     string
		identity *rbac.Identity
		want     []rbac.Permission
	}{
		{
			name:     "nil identity yields nil",
			identity: nil,
			want:     nil,
		},
		{
			name:     "super admin bypasses tables",
			identity: &rbac.Identity{Role: rbac.RoleSuperAdmin},
			want:     rbac.AllPermissions(),
		},
		{
			name: "super admin bypass ignores override",
			identity: &rbac.Identity{
				Role:               rbac.RoleSuperAdmin,
				PermissionOverride: override,
			},
			want: rbac.AllPermissions(),
		},
		{
			name: "override replaces defaults verbatim",
			identity: &rbac.Identity{
				Role:               rbac.RoleSchoolAdmin,
				PermissionOverride: override,
			},
			want: override,
		},
		{
			name:     "defaults apply without override",
			identity: &rbac.Identity{Role: rbac.RoleTeacher},
			want:     rbac.DefaultPermissions(rbac.RoleTeacher),
		},
		{
			name:     "unknown role yields nil",
			identity: &rbac.Identity{Role: rbac.BuiltInRole("visitor")},
			want:     nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, rbac.EffectivePermissions(tt.identity))
		})
	}
}

func TestHasPermission_FailClosed(t *testing.T) {
	assert.False(t, rbac.HasPermission(nil, rbac.ModuleDashboard, rbac.ActionView))
	assert.False(t, rbac.HasPermission(&rbac.Identity{Role: "ghost"}, rbac.ModuleDashboard, rbac.ActionView))
}

func TestHasPermission_SuperAdminEverything(t *testing.T) {
	identity := &rbac.Identity{Role: rbac.RoleSuperAdmin}
	for _, m := range rbac.Modules() {
		for _, a := range rbac.Actions() {
			assert.True(t, rbac.HasPermission(identity, m, a), "%s %s", m, a)
		}
	}
}

func TestHasPermission_OverrideRevokesDefaultGrant(t *testing.T) {
	// The accountant defaults grant fee access; a hand-tuned override
	// that omits it must win.
	identity := &rbac.Identity{
		Role: rbac.RoleAccountant,
		PermissionOverride: []rbac.Permission{
			{Module: rbac.ModuleDashboard, Actions: []rbac.Action{rbac.ActionView}},
		},
	}
	assert.False(t, rbac.HasPermission(identity, rbac.ModuleFees, rbac.ActionView))
	assert.True(t, rbac.HasPermission(identity, rbac.ModuleDashboard, rbac.ActionView))
}

func TestCanAccessModule_MatchesViewQuery(t *testing.T) {
	identities := []*rbac.Identity{
		nil,
		{Role: rbac.RoleSuperAdmin},
		{Role: rbac.RoleTeacher},
		{Role: rbac.RoleParent},
		{Role: rbac.RoleAccountant, PermissionOverride: []rbac.Permission{
			{Module: rbac.ModuleReports, Actions: []rbac.Action{rbac.ActionExport}},
		}},
	}
	for _, identity := range identities {
		for _, m := range rbac.Modules() {
			assert.Equal(t,
				rbac.HasPermission(identity, m, rbac.ActionView),
				rbac.CanAccessModule(identity, m))
		}
	}
}

// stubAssignmentSource returns fixed permissions or a fixed error.
type stubAssignmentSource struct {
	perms []rbac.Permission
	err   error
	calls int
}

func (s *stubAssignmentSource) PermissionsForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]rbac.Permission, error) {
	s.calls++
	return s.perms, s.err
}

func TestResolver_WithoutSourceMatchesPureFunctions(t *testing.T) {
	ctx := context.Background()
	resolver := rbac.NewResolver()
	identity := &rbac.Identity{Role: rbac.RoleTeacher}

	assert.Equal(t, rbac.EffectivePermissions(identity), resolver.EffectivePermissions(ctx, identity))
	assert.False(t, resolver.HasPermission(ctx, identity, rbac.ModuleFees, rbac.ActionEdit))
}

func TestResolver_UnionsAssignedRoles(t *testing.T) {
	ctx := context.Background()
	source := &stubAssignmentSource{perms: []rbac.Permission{
		{Module: rbac.ModuleFees, Actions: []rbac.Action{rbac.ActionView, rbac.ActionCreate, rbac.ActionEdit}},
		{Module: rbac.ModuleAccounting, Actions: []rbac.Action{rbac.ActionView, rbac.ActionExport}},
	}}
	resolver := rbac.NewResolver(rbac.WithAssignmentSource(source))

	// A plain teacher gains fee editing through an assigned custom role.
	identity := &rbac.Identity{ID: uuid.New(), TenantID: uuid.New(), Role: rbac.RoleTeacher}
	require.False(t, rbac.HasPermission(identity, rbac.ModuleFees, rbac.ActionEdit),
		"teacher defaults must not grant fee editing")
	assert.True(t, resolver.HasPermission(ctx, identity, rbac.ModuleFees, rbac.ActionEdit))
	assert.True(t, resolver.HasPermission(ctx, identity, rbac.ModuleAccounting, rbac.ActionExport))

	// Defaults remain intact underneath the union.
	assert.True(t, resolver.HasPermission(ctx, identity, rbac.ModuleAttendance, rbac.ActionEdit))
}

func TestResolver_SourceConsultedPerCall(t *testing.T) {
	ctx := context.Background()
	source := &stubAssignmentSource{}
	resolver := rbac.NewResolver(rbac.WithAssignmentSource(source))
	identity := &rbac.Identity{ID: uuid.New(), TenantID: uuid.New(), Role: rbac.RoleTeacher}

	resolver.HasPermission(ctx, identity, rbac.ModuleFees, rbac.ActionView)
	resolver.HasPermission(ctx, identity, rbac.ModuleFees, rbac.ActionView)
	assert.Equal(t, 2, source.calls, "decision path must read current state, never a cache")
}

func TestResolver_SourceErrorFailsClosed(t *testing.T) {
	ctx := context.Background()
	source := &stubAssignmentSource{err: errors.New("store unavailable")}
	resolver := rbac.NewResolver(rbac.WithAssignmentSource(source))
	identity := &rbac.Identity{ID: uuid.New(), TenantID: uuid.New(), Role: rbac.RoleTeacher}

	// Base permissions still apply; the failing source grants nothing.
	assert.True(t, resolver.HasPermission(ctx, identity, rbac.ModuleDashboard, rbac.ActionView))
	assert.False(t, resolver.HasPermission(ctx, identity, rbac.ModuleFees, rbac.ActionEdit))
}

func TestResolver_SuperAdminSkipsSource(t *testing.T) {
	ctx := context.Background()
	source := &stubAssignmentSource{err: errors.New("store unavailable")}
	resolver := rbac.NewResolver(rbac.WithAssignmentSource(source))
	identity := &rbac.Identity{ID: uuid.New(), Role: rbac.RoleSuperAdmin}

	assert.True(t, resolver.HasPermission(ctx, identity, rbac.ModuleSettings, rbac.ActionDelete))
	assert.Zero(t, source.calls)
}

func TestMergePermissions(t *testing.T) {
	base := []rbac.Permission{
		{Module: rbac.ModuleDashboard, Actions: []rbac.Action{rbac.ActionView}},
		{Module: rbac.ModuleStudents, Actions: []rbac.Action{rbac.ActionView}},
	}
	extra := []rbac.Permission{
		{Module: rbac.ModuleStudents, Actions: []rbac.Action{rbac.ActionView, rbac.ActionEdit}},
		{Module: rbac.ModuleFees, Actions: []rbac.Action{rbac.ActionView}},
	}

	merged := rbac.MergePermissions(base, extra)
	require.Len(t, merged, 3)
	assert.Equal(t, rbac.ModuleDashboard, merged[0].Module)
	assert.Equal(t, rbac.ModuleStudents, merged[1].Module)
	assert.ElementsMatch(t, []rbac.Action{rbac.ActionView, rbac.ActionEdit}, merged[1].Actions)
	assert.Equal(t, rbac.ModuleFees, merged[2].Module)

	// Inputs are never mutated.
	assert.Len(t, base[1].Actions, 1)
}
