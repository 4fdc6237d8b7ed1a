package assignments

import (
	"time"

	"github.com/google/uuid"
)

// Assignment links a user to a custom role within a tenant. One user
// may hold many assignments and one role may be assigned to many users.
// Assignments are never mutated in place: changes are expressed as
// revoke-and-recreate.
type Assignment struct {
	ID         uuid.UUID `json:"id" bson:"_id"`
	TenantID   uuid.UUID `json:"tenant_id" bson:"tenant_id"`
	RoleID     uuid.UUID `json:"role_id" bson:"role_id"`
	UserID     uuid.UUID `json:"user_id" bson:"user_id"`
	AssignedAt time.Time `json:"assigned_at" bson:"assigned_at"`
}
