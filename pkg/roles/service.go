package roles

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	"github.com/schoolkit/schoolkit/pkg/audit"
	"github.com/schoolkit/schoolkit/pkg/rbac"
)

// Service manages tenant-scoped custom roles. Every mutation verifies
// that the acting administrator's tenant owns the role before touching
// it; listing is tenant-filtered at the query layer.
type Service struct {
	store    Store
	validate *validator.Validate
	log      *slog.Logger
	audit    *audit.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the structured logger. Defaults to slog.Default().
func WithLogger(log *slog.Logger) Option {
	return func(s *Service) {
		if log != nil {
			s.log = log
		}
	}
}

// WithAuditLogger enables audit trail recording for mutations.
// Recording is best-effort: a failing trail is logged, not surfaced.
func WithAuditLogger(logger *audit.Logger) Option {
	return func(s *Service) { s.audit = logger }
}

// NewService creates a custom role service backed by the given store.
func NewService(store Store, opts ...Option) *Service {
	if store == nil {
		panic("roles: store cannot be nil")
	}

	s := &Service{
		store:    store,
		validate: validator.New(validator.WithRequiredStructEnabled()),
		log:      slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Create persists a new custom role owned by the tenant.
func (s *Service) Create(ctx context.Context, tenantID uuid.UUID, params CreateParams) (CustomRole, error) {
	if tenantID == uuid.Nil {
		return CustomRole{}, fmt.Errorf("%w: tenant id is required", ErrInvalidInput)
	}
	if err := s.validate.Struct(params); err != nil {
		return CustomRole{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	if err := validatePermissions(params.Permissions); err != nil {
		return CustomRole{}, err
	}

	now := time.Now().UTC()
	role := CustomRole{
		ID:          uuid.New(),
		TenantID:    tenantID,
		Name:        params.Name,
		Description: params.Description,
		Permissions: rbac.ClonePermissions(params.Permissions),
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.store.CreateRole(ctx, role); err != nil {
		return CustomRole{}, err
	}

	s.recordAudit(ctx, "roles.create", role, nil)
	return role, nil
}

// CreateFromTemplate instantiates a custom role from a named template
// in the catalog, copying its permission list. The template is never
// referenced afterward; later template changes do not reach the role.
func (s *Service) CreateFromTemplate(ctx context.Context, tenantID uuid.UUID, templateName string, overrides *TemplateOverrides) (CustomRole, error) {
	tpl, ok := rbac.TemplateByName(templateName)
	if !ok {
		return CustomRole{}, fmt.Errorf("%w: template %q", ErrTemplateNotFound, templateName)
	}

	params := CreateParams{
		Name:        tpl.Name,
		Description: tpl.Description,
		Permissions: tpl.Permissions,
	}
	if overrides != nil {
		if overrides.Name != "" {
			params.Name = overrides.Name
		}
		if overrides.Description != "" {
			params.Description = overrides.Description
		}
	}

	return s.Create(ctx, tenantID, params)
}

// Get fetches a role, enforcing tenant ownership.
func (s *Service) Get(ctx context.Context, roleID, callerTenantID uuid.UUID) (CustomRole, error) {
	role, err := s.store.GetRole(ctx, roleID)
	if err != nil {
		return CustomRole{}, err
	}
	if role.TenantID != callerTenantID {
		return CustomRole{}, ErrTenantMismatch
	}
	return role, nil
}

// Update applies full-replacement semantics to whichever fields the
// params supply. A cross-tenant attempt fails with ErrTenantMismatch
// before anything is written.
func (s *Service) Update(ctx context.Context, roleID, callerTenantID uuid.UUID, params UpdateParams) (CustomRole, error) {
	role, err := s.Get(ctx, roleID, callerTenantID)
	if err != nil {
		return CustomRole{}, err
	}

	if params.Name != nil {
		if *params.Name == "" {
			return CustomRole{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		role.Name = *params.Name
	}
	if params.Description != nil {
		role.Description = *params.Description
	}
	if params.Permissions != nil {
		if err := validatePermissions(*params.Permissions); err != nil {
			return CustomRole{}, err
		}
		role.Permissions = rbac.ClonePermissions(*params.Permissions)
	}
	role.UpdatedAt = time.Now().UTC()

	if err := s.store.UpdateRole(ctx, role); err != nil {
		return CustomRole{}, err
	}

	s.recordAudit(ctx, "roles.update", role, nil)
	return role, nil
}

// Delete removes the role. Assignments referencing it are deleted in
// the same store operation, so no dangling references survive.
func (s *Service) Delete(ctx context.Context, roleID, callerTenantID uuid.UUID) error {
	role, err := s.Get(ctx, roleID, callerTenantID)
	if err != nil {
		return err
	}

	if err := s.store.DeleteRole(ctx, roleID); err != nil {
		return err
	}

	s.recordAudit(ctx, "roles.delete", role, nil)
	return nil
}

// List returns every custom role owned by the tenant. Never returns
// another tenant's roles; the filter lives at the query layer.
func (s *Service) List(ctx context.Context, tenantID uuid.UUID) ([]CustomRole, error) {
	return s.store.ListRoles(ctx, tenantID)
}

func (s *Service) recordAudit(ctx context.Context, action string, role CustomRole, actionErr error) {
	if s.audit == nil {
		return
	}

	opts := []audit.EventOption{
		audit.WithTenant(role.TenantID.String()),
		audit.WithResource("custom_role", role.ID.String()),
		audit.WithMetadata("name", role.Name),
	}

	var err error
	if actionErr != nil {
		err = s.audit.LogError(ctx, action, actionErr, opts...)
	} else {
		err = s.audit.Log(ctx, action, opts...)
	}
	if err != nil {
		s.log.WarnContext(ctx, "audit trail unavailable",
			slog.String("action", action),
			slog.Any("error", err))
	}
}

// validatePermissions enforces the structural permission invariants: a
// module appears at most once, and every module and action belongs to
// the closed enumerations.
func validatePermissions(perms []rbac.Permission) error {
	seen := make(map[rbac.Module]bool, len(perms))
	for _, p := range perms {
		if !p.Module.Valid() {
			return fmt.Errorf("%w: unknown module %q", ErrInvalidInput, p.Module)
		}
		if seen[p.Module] {
			return fmt.Errorf("%w: module %q listed twice", ErrInvalidInput, p.Module)
		}
		seen[p.Module] = true

		if len(p.Actions) == 0 {
			return fmt.Errorf("%w: module %q grants no actions", ErrInvalidInput, p.Module)
		}
		for _, a := range p.Actions {
			if !a.Valid() {
				return fmt.Errorf("%w: unknown action %q", ErrInvalidInput, a)
			}
		}
	}
	return nil
}
