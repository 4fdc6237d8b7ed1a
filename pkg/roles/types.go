package roles

import (
	"time"

	"github.com/google/uuid"

	"github.com/schoolkit/schoolkit/pkg/rbac"
)

// CustomRole is a tenant-owned, reusable permission bundle. Names are
// unique within a tenant; TenantID is immutable after creation.
type CustomRole struct {
	ID          uuid.UUID         `json:"id" bson:"_id"`
	TenantID    uuid.UUID         `json:"tenant_id" bson:"tenant_id"`
	Name        string            `json:"name" bson:"name"`
	Description string            `json:"description" bson:"description"`
	Permissions []rbac.Permission `json:"permissions" bson:"permissions"`
	CreatedAt   time.Time         `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time         `json:"updated_at" bson:"updated_at"`
}

// CreateParams carries the input for creating a custom role.
type CreateParams struct {
	Name        string            `validate:"required,min=1,max=120"`
	Description string            `validate:"max=1000"`
	Permissions []rbac.Permission `validate:"-"`
}

// UpdateParams carries the input for updating a custom role. Nil fields
// are left untouched; a non-nil Permissions pointer replaces the whole
// list (partial edits are expressed by submitting the complete new
// list, not a delta).
type UpdateParams struct {
	Name        *string
	Description *string
	Permissions *[]rbac.Permission
}

// TemplateOverrides optionally replaces the template's name and
// description when instantiating a custom role from it.
type TemplateOverrides struct {
	Name        string
	Description string
}
