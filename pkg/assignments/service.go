package assignments

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/schoolkit/schoolkit/pkg/audit"
	"github.com/schoolkit/schoolkit/pkg/rbac"
	"github.com/schoolkit/schoolkit/pkg/roles"
)

// Service manages the many-to-many linkage between users and custom
// roles. Both sides of every new assignment are verified to belong to
// the acting tenant. It also implements rbac.AssignmentSource, so a
// resolver can fold assigned role permissions into authorization
// decisions.
type Service struct {
	store Store
	roles roles.Store
	users UserDirectory
	log   *slog.Logger
	audit *audit.Logger
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
func WithAuditLogger(logger *audit.Logger) Option {
	return func(s *Service) { s.audit = logger }
}

// NewService creates an assignment service. The role store validates
// role ownership; the user directory validates user ownership.
func NewService(store Store, roleStore roles.Store, users UserDirectory, opts ...Option) *Service {
	if store == nil {
		panic("assignments: store cannot be nil")
	}
	if roleStore == nil {
		panic("assignments: role store cannot be nil")
	}
	if users == nil {
		panic("assignments: user directory cannot be nil")
	}

	s := &Service{
		store: store,
		roles: roleStore,
		users: users,
		log:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Assign grants the custom role to the user. Assigning an already
// assigned (role, user) pair is idempotent: the existing assignment is
// returned and no duplicate row is created, even under racing calls.
func (s *Service) Assign(ctx context.Context, tenantID, roleID, userID uuid.UUID) (Assignment, error) {
	if tenantID == uuid.Nil || roleID == uuid.Nil || userID == uuid.Nil {
		return Assignment{}, fmt.Errorf("%w: tenant, role and user ids are required", ErrInvalidInput)
	}

	role, err := s.roles.GetRole(ctx, roleID)
	if err != nil {
		if errors.Is(err, roles.ErrNotFound) {
			return Assignment{}, fmt.Errorf("%w: %s", ErrRoleNotFound, roleID)
		}
		return Assignment{}, err
	}
	if role.TenantID != tenantID {
		return Assignment{}, fmt.Errorf("%w: role belongs to another tenant", ErrTenantMismatch)
	}

	userTenant, err := s.users.TenantOf(ctx, userID)
	if err != nil {
		return Assignment{}, err
	}
	if userTenant != tenantID {
		return Assignment{}, fmt.Errorf("%w: user belongs to another tenant", ErrTenantMismatch)
	}

	if existing, err := s.store.FindAssignment(ctx, tenantID, roleID, userID); err == nil {
		return existing, nil
	} else if !errors.Is(err, ErrNotFound) {
		return Assignment{}, err
	}

	assignment := Assignment{
		ID:         uuid.New(),
		TenantID:   tenantID,
		RoleID:     roleID,
		UserID:     userID,
		AssignedAt: time.Now().UTC(),
	}

	if err := s.store.CreateAssignment(ctx, assignment); err != nil {
		// A racing Assign inserted first; the triple is unique at the
		// storage boundary, so fetch and return the winner.
		if errors.Is(err, ErrDuplicate) {
			return s.store.FindAssignment(ctx, tenantID, roleID, userID)
		}
		return Assignment{}, err
	}

	s.recordAudit(ctx, "assignments.assign", assignment, nil)
	return assignment, nil
}

// Revoke removes all assignments matching the triple. Revoking a pair
// that is not assigned is a no-op, not an error.
func (s *Service) Revoke(ctx context.Context, tenantID, roleID, userID uuid.UUID) error {
	if tenantID == uuid.Nil || roleID == uuid.Nil || userID == uuid.Nil {
		return fmt.Errorf("%w: tenant, role and user ids are required", ErrInvalidInput)
	}

	deleted, err := s.store.DeleteAssignments(ctx, tenantID, roleID, userID)
	if err != nil {
		return err
	}
	if deleted > 0 {
		s.recordAudit(ctx, "assignments.revoke", Assignment{
			TenantID: tenantID,
			RoleID:   roleID,
			UserID:   userID,
		}, nil)
	}
	return nil
}

// RolesForUser returns the ids of all custom roles assigned to the
// user, filtered by the caller's tenant.
func (s *Service) RolesForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.store.RoleIDsForUser(ctx, tenantID, userID)
}

// UsersForRole returns the ids of all users holding the role, filtered
// by the caller's tenant.
func (s *Service) UsersForRole(ctx context.Context, tenantID, roleID uuid.UUID) ([]uuid.UUID, error) {
	return s.store.UserIDsForRole(ctx, tenantID, roleID)
}

// PermissionsForUser returns the union of the permission lists of every
// custom role assigned to the user within the tenant. It implements
// rbac.AssignmentSource. Assignments whose role has vanished are
// skipped rather than failed: the cascade on role deletion makes them
// transient at worst.
func (s *Service) PermissionsForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]rbac.Permission, error) {
	roleIDs, err := s.store.RoleIDsForUser(ctx, tenantID, userID)
	if err != nil {
		return nil, err
	}

	var merged []rbac.Permission
	for _, roleID := range roleIDs {
		role, err := s.roles.GetRole(ctx, roleID)
		if err != nil {
			if errors.Is(err, roles.ErrNotFound) {
				continue
			}
			return nil, err
		}
		if role.TenantID != tenantID {
			continue
		}
		merged = rbac.MergePermissions(merged, role.Permissions)
	}
	return merged, nil
}

func (s *Service) recordAudit(ctx context.Context, action string, assignment Assignment, actionErr error) {
	if s.audit == nil {
		return
	}

	opts := []audit.EventOption{
		audit.WithTenant(assignment.TenantID.String()),
		audit.WithResource("role_assignment", assignment.RoleID.String()),
		audit.WithMetadata("user_id", assignment.UserID.String()),
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
