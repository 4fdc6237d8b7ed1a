package memstore

import (
	"context"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/schoolkit/schoolkit/pkg/assignments"
	"github.com/schoolkit/schoolkit/pkg/rbac"
	"github.com/schoolkit/schoolkit/pkg/roles"
)

// Store is an in-memory implementation of roles.Store and
// assignments.Store. It is thread-safe, enforces the same uniqueness
// constraints the database-backed stores do, and cascades assignment
// deletion when a role is removed. Intended for tests and development.
type Store struct {
	mu          sync.RWMutex
	roles       map[uuid.UUID]roles.CustomRole
	assignments map[uuid.UUID]assignments.Assignment
}

var (
	_ roles.Store       = (*Store)(nil)
	_ assignments.Store = (*Store)(nil)
)

// New creates an empty in-memory store.
func New() *Store {
	return &Store{
		roles:       make(map[uuid.UUID]roles.CustomRole),
		assignments: make(map[uuid.UUID]assignments.Assignment),
	}
}

func cloneRole(r roles.CustomRole) roles.CustomRole {
	r.Permissions = rbac.ClonePermissions(r.Permissions)
	return r
}

// CreateRole inserts a role, enforcing per-tenant name uniqueness.
func (s *Store) CreateRole(ctx context.Context, role roles.CustomRole) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.roles {
		if existing.TenantID == role.TenantID && existing.Name == role.Name {
			return roles.ErrDuplicateName
		}
	}
	s.roles[role.ID] = cloneRole(role)
	return nil
}

// GetRole fetches a role by id.
func (s *Store) GetRole(ctx context.Context, id uuid.UUID) (roles.CustomRole, error) {
	if err := ctx.Err(); err != nil {
		return roles.CustomRole{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	role, ok := s.roles[id]
	if !ok {
		return roles.CustomRole{}, roles.ErrNotFound
	}
	return cloneRole(role), nil
}

// UpdateRole replaces the stored role wholesale, enforcing per-tenant
// name uniqueness against other roles.
func (s *Store) UpdateRole(ctx context.Context, role roles.CustomRole) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[role.ID]; !ok {
		return roles.ErrNotFound
	}
	for id, existing := range s.roles {
		if id != role.ID && existing.TenantID == role.TenantID && existing.Name == role.Name {
			return roles.ErrDuplicateName
		}
	}
	s.roles[role.ID] = cloneRole(role)
	return nil
}

// DeleteRole removes the role and cascades deletion of all assignments
// referencing it, under one lock so no caller observes a half-applied
// delete.
func (s *Store) DeleteRole(ctx context.Context, id uuid.UUID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.roles[id]; !ok {
		return roles.ErrNotFound
	}
	delete(s.roles, id)

	for aid, a := range s.assignments {
		if a.RoleID == id {
			delete(s.assignments, aid)
		}
	}
	return nil
}

// ListRoles returns the tenant's roles ordered by creation time, then
// name for roles created in the same instant.
func (s *Store) ListRoles(ctx context.Context, tenantID uuid.UUID) ([]roles.CustomRole, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []roles.CustomRole
	for _, role := range s.roles {
		if role.TenantID == tenantID {
			out = append(out, cloneRole(role))
		}
	}
	slices.SortFunc(out, func(a, b roles.CustomRole) int {
		if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
			return c
		}
		return cmpStrings(a.Name, b.Name)
	})
	return out, nil
}

func cmpStrings(a, b string) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

// CreateAssignment inserts an assignment, enforcing uniqueness of the
// (tenant, role, user) triple.
func (s *Store) CreateAssignment(ctx context.Context, assignment assignments.Assignment) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.assignments {
		if existing.TenantID == assignment.TenantID &&
			existing.RoleID == assignment.RoleID &&
			existing.UserID == assignment.UserID {
			return assignments.ErrDuplicate
		}
	}
	s.assignments[assignment.ID] = assignment
	return nil
}

// FindAssignment fetches the assignment for the triple.
func (s *Store) FindAssignment(ctx context.Context, tenantID, roleID, userID uuid.UUID) (assignments.Assignment, error) {
	if err := ctx.Err(); err != nil {
		return assignments.Assignment{}, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.assignments {
		if a.TenantID == tenantID && a.RoleID == roleID && a.UserID == userID {
			return a, nil
		}
	}
	return assignments.Assignment{}, assignments.ErrNotFound
}

// DeleteAssignments removes every assignment matching the triple.
func (s *Store) DeleteAssignments(ctx context.Context, tenantID, roleID, userID uuid.UUID) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	var deleted int64
	for id, a := range s.assignments {
		if a.TenantID == tenantID && a.RoleID == roleID && a.UserID == userID {
			delete(s.assignments, id)
			deleted++
		}
	}
	return deleted, nil
}

// RoleIDsForUser returns the ids of all roles assigned to the user
// within the tenant, ordered by assignment time.
func (s *Store) RoleIDsForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []assignments.Assignment
	for _, a := range s.assignments {
		if a.TenantID == tenantID && a.UserID == userID {
			matches = append(matches, a)
		}
	}
	slices.SortFunc(matches, func(a, b assignments.Assignment) int {
		return a.AssignedAt.Compare(b.AssignedAt)
	})

	out := make([]uuid.UUID, len(matches))
	for i, a := range matches {
		out[i] = a.RoleID
	}
	return out, nil
}

// UserIDsForRole returns the ids of all users holding the role within
// the tenant, ordered by assignment time.
func (s *Store) UserIDsForRole(ctx context.Context, tenantID, roleID uuid.UUID) ([]uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var matches []assignments.Assignment
	for _, a := range s.assignments {
		if a.TenantID == tenantID && a.RoleID == roleID {
			matches = append(matches, a)
		}
	}
	slices.SortFunc(matches, func(a, b assignments.Assignment) int {
		return a.AssignedAt.Compare(b.AssignedAt)
	})

	out := make([]uuid.UUID, len(matches))
	for i, a := range matches {
		out[i] = a.UserID
	}
	return out, nil
}
