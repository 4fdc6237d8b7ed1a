package assignments

import "errors"

// Domain errors for role assignment management.
var (
	// ErrNotFound is returned when no matching assignment exists.
	ErrNotFound = errors.New("assignments.not_found")

	// ErrRoleNotFound is returned when the referenced custom role does not exist.
	ErrRoleNotFound = errors.New("assignments.role_not_found")

	// ErrUserNotFound is returned when the referenced user is unknown to the directory.
	ErrUserNotFound = errors.New("assignments.user_not_found")

	// ErrTenantMismatch is returned when the role or the user does not
	// belong to the tenant the assignment is scoped to.
	ErrTenantMismatch = errors.New("assignments.tenant_mismatch")

	// ErrDuplicate is returned by stores when an assignment for the
	// (tenant, role, user) triple already exists.
	ErrDuplicate = errors.New("assignments.duplicate")

	// ErrInvalidInput is returned when mutation input fails validation.
	ErrInvalidInput = errors.New("assignments.invalid_input")
)
