package roles

import "errors"

// Domain errors for custom role management. Mutations surface these to
// the administrator performing the action; authorization queries never
// raise them.
var (
	// ErrNotFound is returned when the referenced custom role does not exist.
	ErrNotFound = errors.New("roles.not_found")

	// ErrTemplateNotFound is returned when the named role template does not exist.
	ErrTemplateNotFound = errors.New("roles.template_not_found")

	// ErrDuplicateName is returned when a role name is already taken within the tenant.
	ErrDuplicateName = errors.New("roles.duplicate_name")

	// ErrTenantMismatch is returned on a cross-tenant mutation attempt.
	ErrTenantMismatch = errors.New("roles.tenant_mismatch")

	// ErrInvalidInput is returned when mutation input fails validation.
	ErrInvalidInput = errors.New("roles.invalid_input")
)
