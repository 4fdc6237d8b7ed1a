package assignments

import (
	"context"

	"github.com/google/uuid"
)

// Store persists role assignments in a tenant-scoped collection. The
// (tenant, role, user) triple is unique; stores enforce it at the
// storage boundary so racing Assign calls cannot create duplicates.
type Store interface {
	// CreateAssignment inserts a new assignment. Returns ErrDuplicate
	// when the (tenant, role, user) triple already exists.
	CreateAssignment(ctx context.Context, assignment Assignment) error

	// FindAssignment fetches the assignment for the triple. Returns
	// ErrNotFound when absent.
	FindAssignment(ctx context.Context, tenantID, roleID, userID uuid.UUID) (Assignment, error)

	// DeleteAssignments removes every assignment matching the triple
	// and returns how many were removed. Zero matches is not an error.
	DeleteAssignments(ctx context.Context, tenantID, roleID, userID uuid.UUID) (int64, error)

	// RoleIDsForUser returns the ids of all custom roles assigned to
	// the user within the tenant.
	RoleIDsForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]uuid.UUID, error)

	// UserIDsForRole returns the ids of all users holding the role
	// within the tenant.
	UserIDsForRole(ctx context.Context, tenantID, roleID uuid.UUID) ([]uuid.UUID, error)
}

// UserDirectory is the narrow contract against the external identity
// subsystem: given a user id, report the tenant the user belongs to.
// Implementations return ErrUserNotFound for unknown users.
type UserDirectory interface {
	TenantOf(ctx context.Context, userID uuid.UUID) (uuid.UUID, error)
}
