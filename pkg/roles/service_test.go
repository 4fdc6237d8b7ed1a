package roles_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolkit/schoolkit/pkg/audit"
	"github.com/schoolkit/schoolkit/pkg/memstore"
	"github.com/schoolkit/schoolkit/pkg/rbac"
	"github.com/schoolkit/schoolkit/pkg/roles"
)

func financePermissions() []rbac.Permission {
	return []rbac.Permission{
		{Module: rbac.ModuleFees, Actions: []rbac.Action{rbac.ActionView, rbac.ActionCreate, rbac.ActionEdit}},
		{Module: rbac.ModuleAccounting, Actions: []rbac.Action{rbac.ActionView, rbac.ActionExport}},
	}
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	svc := roles.NewService(memstore.New())
	tenantID := uuid.New()

	role, err := svc.Create(ctx, tenantID, roles.CreateParams{
		Name:        "Finance Manager",
		Description: "Handles fees and accounting.",
		Permissions: financePermissions(),
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, role.ID)
	assert.Equal(t, tenantID, role.TenantID)
	assert.Equal(t, "Finance Manager", role.Name)
	assert.Equal(t, financePermissions(), role.Permissions)
	assert.False(t, role.CreatedAt.IsZero())
}

func TestService_Create_Validation(t *testing.T) {
	ctx := context.Background()
	svc := roles.NewService(memstore.New())
	tenantID := uuid.New()

	tests := []struct {
		name    string
		tenant  uuid.UUID
		params  roles.CreateParams
		wantErr error
	}{
		{
			name:    "empty name",
			tenant:  tenantID,
			params:  roles.CreateParams{Name: ""},
			wantErr: roles.ErrInvalidInput,
		},
		{
			name:    "missing tenant",
			tenant:  uuid.Nil,
			params:  roles.CreateParams{Name: "Ok"},
			wantErr: roles.ErrInvalidInput,
		},
		{
			name:   "unknown module",
			tenant: tenantID,
			params: roles.CreateParams{Name: "Ok", Permissions: []rbac.Permission{
				{Module: "cafeteria", Actions: []rbac.Action{rbac.ActionView}},
			}},
			wantErr: roles.ErrInvalidInput,
		},
		{
			name:   "unknown action",
			tenant: tenantID,
			params: roles.CreateParams{Name: "Ok", Permissions: []rbac.Permission{
				{Module: rbac.ModuleFees, Actions: []rbac.Action{"approve"}},
			}},
			wantErr: roles.ErrInvalidInput,
		},
		{
			name:   "duplicate module",
			tenant: tenantID,
			params: roles.CreateParams{Name: "Ok", Permissions: []rbac.Permission{
				{Module: rbac.ModuleFees, Actions: []rbac.Action{rbac.ActionView}},
				{Module: rbac.ModuleFees, Actions: []rbac.Action{rbac.ActionEdit}},
			}},
			wantErr: roles.ErrInvalidInput,
		},
		{
			name:   "empty action set",
			tenant: tenantID,
			params: roles.CreateParams{Name: "Ok", Permissions: []rbac.Permission{
				{Module: rbac.ModuleFees},
			}},
			wantErr: roles.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.Create(ctx, tt.tenant, tt.params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestService_Create_DuplicateNameWithinTenant(t *testing.T) {
	ctx := context.Background()
	svc := roles.NewService(memstore.New())
	tenantID := uuid.New()

	_, err := svc.Create(ctx, tenantID, roles.CreateParams{Name: "Registrar"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, tenantID, roles.CreateParams{Name: "Registrar"})
	assert.ErrorIs(t, err, roles.ErrDuplicateName)

	// Another tenant may reuse the name.
	_, err = svc.Create(ctx, uuid.New(), roles.CreateParams{Name: "Registrar"})
	assert.NoError(t, err)
}

func TestService_CreateFromTemplate(t *testing.T) {
	ctx := context.Background()
	svc := roles.NewService(memstore.New())
	tenantID := uuid.New()

	tpl, ok := rbac.TemplateByName("HR Manager")
	require.True(t, ok)

	role, err := svc.CreateFromTemplate(ctx, tenantID, "HR Manager", nil)
	require.NoError(t, err)
	assert.Equal(t, tpl.Name, role.Name)
	assert.Equal(t, tpl.Description, role.Description)
	assert.Equal(t, tpl.Permissions, role.Permissions)
}

func TestService_CreateFromTemplate_Overrides(t *testing.T) {
	ctx := context.Background()
	svc := roles.NewService(memstore.New())

	role, err := svc.CreateFromTemplate(ctx, uuid.New(), "Finance Manager", &roles.TemplateOverrides{
		Name:        "Bursar",
		Description: "Campus bursar office.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Bursar", role.Name)
	assert.Equal(t, "Campus bursar office.", role.Description)

	tpl, _ := rbac.TemplateByName("Finance Manager")
	assert.Equal(t, tpl.Permissions, role.Permissions)
}

func TestService_CreateFromTemplate_NotFound(t *testing.T) {
	svc := roles.NewService(memstore.New())
	_, err := svc.CreateFromTemplate(context.Background(), uuid.New(), "Missing", nil)
	assert.ErrorIs(t, err, roles.ErrTemplateNotFound)
}

func TestService_CreateFromTemplate_NoLiveReference(t *testing.T) {
	ctx := context.Background()
	store := memstore.New()
	svc := roles.NewService(store)
	tenantID := uuid.New()

	role, err := svc.CreateFromTemplate(ctx, tenantID, "HR Manager", nil)
	require.NoError(t, err)

	// Mutating the role keeps the template untouched.
	newPerms := []rbac.Permission{{Module: rbac.ModuleDashboard, Actions: []rbac.Action{rbac.ActionView}}}
	_, err = svc.Update(ctx, role.ID, tenantID, roles.UpdateParams{Permissions: &newPerms})
	require.NoError(t, err)

	tpl, _ := rbac.TemplateByName("HR Manager")
	assert.Greater(t, len(tpl.Permissions), 1)
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	svc := roles.NewService(memstore.New())
	tenantID := uuid.New()

	role, err := svc.Create(ctx, tenantID, roles.CreateParams{
		Name:        "Exam Officer",
		Permissions: financePermissions(),
	})
	require.NoError(t, err)

	newName := "Senior Exam Officer"
	newPerms := []rbac.Permission{{Module: rbac.ModuleExams, Actions: []rbac.Action{rbac.ActionView, rbac.ActionEdit}}}
	updated, err := svc.Update(ctx, role.ID, tenantID, roles.UpdateParams{
		Name:        &newName,
		Permissions: &newPerms,
	})
	require.NoError(t, err)

	assert.Equal(t, newName, updated.Name)
	assert.Equal(t, newPerms, updated.Permissions)
	assert.Equal(t, role.Description, updated.Description)
	assert.Equal(t, tenantID, updated.TenantID, "tenant id is immutable")

	got, err := svc.Get(ctx, role.ID, tenantID)
	require.NoError(t, err)
	assert.Equal(t, newPerms, got.Permissions, "permission list replaced wholesale")
}

func TestService_Update_Errors(t *testing.T) {
	ctx := context.Background()
	svc := roles.NewService(memstore.New())
	tenantID := uuid.New()

	role, err := svc.Create(ctx, tenantID, roles.CreateParams{Name: "Warden"})
	require.NoError(t, err)

	_, err = svc.Update(ctx, uuid.New(), tenantID, roles.UpdateParams{})
	assert.ErrorIs(t, err, roles.ErrNotFound)

	_, err = svc.Update(ctx, role.ID, uuid.New(), roles.UpdateParams{})
	assert.ErrorIs(t, err, roles.ErrTenantMismatch, "cross-tenant mutation must be rejected")

	empty := ""
	_, err = svc.Update(ctx, role.ID, tenantID, roles.UpdateParams{Name: &empty})
	assert.ErrorIs(t, err, roles.ErrInvalidInput)
}

func TestService_Delete(t *testing.T) {
	ctx := context.Background()
	svc := roles.NewService(memstore.New())
	tenantID := uuid.New()

	role, err := svc.Create(ctx, tenantID, roles.CreateParams{Name: "Temp"})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, role.ID, tenantID))

	_, err = svc.Get(ctx, role.ID, tenantID)
	assert.ErrorIs(t, err, roles.ErrNotFound)

	err = svc.Delete(ctx, role.ID, tenantID)
	assert.ErrorIs(t, err, roles.ErrNotFound)
}

func TestService_Delete_CrossTenant(t *testing.T) {
	ctx := context.Background()
	svc := roles.NewService(memstore.New())
	tenantA, tenantB := uuid.New(), uuid.New()

	role, err := svc.Create(ctx, tenantB, roles.CreateParams{Name: "Theirs"})
	require.NoError(t, err)

	err = svc.Delete(ctx, role.ID, tenantA)
	assert.ErrorIs(t, err, roles.ErrTenantMismatch)

	// Still present for its owner.
	_, err = svc.Get(ctx, role.ID, tenantB)
	assert.NoError(t, err)
}

func TestService_List_TenantIsolation(t *testing.T) {
	ctx := context.Background()
	svc := roles.NewService(memstore.New())
	tenantA, tenantB := uuid.New(), uuid.New()

	// Identically named roles in two tenants.
	_, err := svc.Create(ctx, tenantA, roles.CreateParams{Name: "Coordinator"})
	require.NoError(t, err)
	roleB, err := svc.Create(ctx, tenantB, roles.CreateParams{Name: "Coordinator"})
	require.NoError(t, err)

	listA, err := svc.List(ctx, tenantA)
	require.NoError(t, err)
	require.Len(t, listA, 1)
	assert.Equal(t, tenantA, listA[0].TenantID)
	for _, r := range listA {
		assert.NotEqual(t, roleB.ID, r.ID, "another tenant's role leaked into the listing")
	}

	listB, err := svc.List(ctx, tenantB)
	require.NoError(t, err)
	require.Len(t, listB, 1)
	assert.Equal(t, roleB.ID, listB[0].ID)
}

func TestService_AuditTrail(t *testing.T) {
	ctx := context.Background()
	trail := audit.NewMemoryStorage()
	svc := roles.NewService(memstore.New(), roles.WithAuditLogger(audit.NewLogger(trail)))
	tenantID := uuid.New()

	role, err := svc.Create(ctx, tenantID, roles.CreateParams{Name: "Audited"})
	require.NoError(t, err)

	desc := "updated"
	_, err = svc.Update(ctx, role.ID, tenantID, roles.UpdateParams{Description: &desc})
	require.NoError(t, err)
	require.NoError(t, svc.Delete(ctx, role.ID, tenantID))

	events := trail.Events()
	require.Len(t, events, 3)
	assert.Equal(t, "roles.create", events[0].Action)
	assert.Equal(t, "roles.update", events[1].Action)
	assert.Equal(t, "roles.delete", events[2].Action)
	for _, e := range events {
		assert.Equal(t, tenantID.String(), e.TenantID)
		assert.Equal(t, role.ID.String(), e.ResourceID)
	}
}
