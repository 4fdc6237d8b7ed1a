package audit

import (
	"fmt"
	"time"
)

// Result represents the outcome of an audited action.
type Result string

const (
	ResultSuccess Result = "success"
	ResultError   Result = "error"
)

// Event is a single audit trail entry recording an administrative
// action against tenant-scoped state.
type Event struct {
	ID         string         `json:"id" bson:"_id"`
	TenantID   string         `json:"tenant_id" bson:"tenant_id"`
	UserID     string         `json:"user_id" bson:"user_id"`
	Action     string         `json:"action" bson:"action"`
	Resource   string         `json:"resource,omitempty" bson:"resource,omitempty"`
	ResourceID string         `json:"resource_id,omitempty" bson:"resource_id,omitempty"`
	Result     Result         `json:"result" bson:"result"`
	Error      string         `json:"error,omitempty" bson:"error,omitempty"`
	Metadata   map[string]any `json:"metadata,omitempty" bson:"metadata,omitempty"`
	CreatedAt  time.Time      `json:"created_at" bson:"created_at"`
}

// Validate checks that the event carries the required fields.
func (e *Event) Validate() error {
	if e.Action == "" {
		return fmt.Errorf("%w: action is required", ErrEventValidation)
	}
	return nil
}

// EventOption applies configuration to an Event during creation.
type EventOption func(*Event)

// WithResource attaches the mutated resource type and id to the event.
func WithResource(resource, resourceID string) EventOption {
	return func(e *Event) {
		e.Resource = resource
		e.ResourceID = resourceID
	}
}

// WithTenant attaches the owning tenant to the event.
func WithTenant(tenantID string) EventOption {
	return func(e *Event) {
		e.TenantID = tenantID
	}
}

// WithUser attaches the acting user to the event.
func WithUser(userID string) EventOption {
	return func(e *Event) {
		e.UserID = userID
	}
}

// WithMetadata adds a metadata entry to the event.
func WithMetadata(key string, value any) EventOption {
	return func(e *Event) {
		if e.Metadata == nil {
			e.Metadata = make(map[string]any)
		}
		e.Metadata[key] = value
	}
}
