package memstore

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/schoolkit/schoolkit/pkg/assignments"
)

// Directory is an in-memory assignments.UserDirectory mapping user ids
// to their tenant. Intended for tests and development; real deployments
// back this contract with the identity subsystem.
type Directory struct {
	mu    sync.RWMutex
	users map[uuid.UUID]uuid.UUID
}

// NewDirectory creates an empty directory.
func NewDirectory() *Directory {
	return &Directory{users: make(map[uuid.UUID]uuid.UUID)}
}

// AddUser registers a user as belonging to the tenant.
func (d *Directory) AddUser(userID, tenantID uuid.UUID) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.users[userID] = tenantID
}

// TenantOf reports the tenant the user belongs to.
func (d *Directory) TenantOf(ctx context.Context, userID uuid.UUID) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	tenantID, ok := d.users[userID]
	if !ok {
		return uuid.Nil, assignments.ErrUserNotFound
	}
	return tenantID, nil
}
