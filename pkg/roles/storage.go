package roles

import (
	"context"

	"github.com/google/uuid"
)

// Store persists custom roles in a tenant-scoped collection. Write
// operations must be atomic at the single-document level so that a race
// between two administrators is at worst last-writer-wins on a whole
// role, never a partially written permission list.
type Store interface {
	// CreateRole inserts a new role. Returns ErrDuplicateName when the
	// (tenant, name) pair is already taken.
	CreateRole(ctx context.Context, role CustomRole) error

	// GetRole fetches a role by id. Returns ErrNotFound when absent.
	GetRole(ctx context.Context, id uuid.UUID) (CustomRole, error)

	// UpdateRole replaces the stored document wholesale. Returns
	// ErrNotFound when absent and ErrDuplicateName when renaming onto a
	// name taken within the tenant.
	UpdateRole(ctx context.Context, role CustomRole) error

	// DeleteRole removes the role and cascades deletion of every
	// assignment referencing it. Returns ErrNotFound when absent.
	DeleteRole(ctx context.Context, id uuid.UUID) error

	// ListRoles returns all roles owned by the tenant, filtered by
	// tenant id at the query layer, in stable (creation) order.
	ListRoles(ctx context.Context, tenantID uuid.UUID) ([]CustomRole, error)
}
