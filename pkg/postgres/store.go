package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/schoolkit/schoolkit/pkg/assignments"
	"github.com/schoolkit/schoolkit/pkg/rbac"
	"github.com/schoolkit/schoolkit/pkg/roles"
)

// Store is the relational implementation of both the roles and the
// assignments persistence contracts. Permission lists are stored as
// JSONB; uniqueness and the delete cascade are enforced by the schema,
// so the store only translates constraint violations into the domain
// sentinels.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore creates a Store backed by the given pool. Panics if the pool
// is nil, as that is a programming error rather than a runtime one.
func NewStore(pool *pgxpool.Pool) *Store {
	if pool == nil {
		panic("postgres: pool must not be nil")
	}
	return &Store{pool: pool}
}

var (
	_ roles.Store       = (*Store)(nil)
	_ assignments.Store = (*Store)(nil)
)

// CreateRole implements roles.Store.
func (s *Store) CreateRole(ctx context.Context, role roles.CustomRole) error {
	perms, err := marshalPermissions(role.Permissions)
	if err != nil {
		return err
	}

	_, err = s.pool.Exec(ctx,
		`INSERT INTO custom_roles (id, tenant_id, name, description, permissions, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		role.ID, role.TenantID, role.Name, role.Description, perms, role.CreatedAt, role.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return roles.ErrDuplicateName
		}
		return fmt.Errorf("insert role: %w", err)
	}
	return nil
}

// GetRole implements roles.Store.
func (s *Store) GetRole(ctx context.Context, id uuid.UUID) (roles.CustomRole, error) {
	row := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, name, description, permissions, created_at, updated_at
		 FROM custom_roles WHERE id = $1`, id)

	role, err := scanRole(row)
	if err != nil {
		if isNotFound(err) {
			return roles.CustomRole{}, roles.ErrNotFound
		}
		return roles.CustomRole{}, fmt.Errorf("select role: %w", err)
	}
	return role, nil
}

// UpdateRole implements roles.Store.
func (s *Store) UpdateRole(ctx context.Context, role roles.CustomRole) error {
	perms, err := marshalPermissions(role.Permissions)
	if err != nil {
		return err
	}

	tag, err := s.pool.Exec(ctx,
		`UPDATE custom_roles
		 SET name = $2, description = $3, permissions = $4, updated_at = $5
		 WHERE id = $1`,
		role.ID, role.Name, role.Description, perms, role.UpdatedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return roles.ErrDuplicateName
		}
		return fmt.Errorf("update role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return roles.ErrNotFound
	}
	return nil
}

// DeleteRole implements roles.Store. Assignments referencing the role
// are removed by the schema's ON DELETE CASCADE in the same statement,
// so a deleted role can never grant permissions through a dangling
// assignment.
func (s *Store) DeleteRole(ctx context.Context, id uuid.UUID) error {
	tag, err := s.pool.Exec(ctx, `DELETE FROM custom_roles WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete role: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return roles.ErrNotFound
	}
	return nil
}

// ListRoles implements roles.Store.
func (s *Store) ListRoles(ctx context.Context, tenantID uuid.UUID) ([]roles.CustomRole, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, tenant_id, name, description, permissions, created_at, updated_at
		 FROM custom_roles WHERE tenant_id = $1
		 ORDER BY created_at, name`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	defer rows.Close()

	out := make([]roles.CustomRole, 0)
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, fmt.Errorf("scan role: %w", err)
		}
		out = append(out, role)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list roles: %w", err)
	}
	return out, nil
}

// CreateAssignment implements assignments.Store.
func (s *Store) CreateAssignment(ctx context.Context, assignment assignments.Assignment) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO role_assignments (id, tenant_id, role_id, user_id, assigned_at)
		 VALUES ($1, $2, $3, $4, $5)`,
		assignment.ID, assignment.TenantID, assignment.RoleID, assignment.UserID, assignment.AssignedAt)
	if err != nil {
		if isDuplicateKey(err) {
			return assignments.ErrDuplicate
		}
		return fmt.Errorf("insert assignment: %w", err)
	}
	return nil
}

// FindAssignment implements assignments.Store.
func (s *Store) FindAssignment(ctx context.Context, tenantID, roleID, userID uuid.UUID) (assignments.Assignment, error) {
	var a assignments.Assignment
	err := s.pool.QueryRow(ctx,
		`SELECT id, tenant_id, role_id, user_id, assigned_at
		 FROM role_assignments
		 WHERE tenant_id = $1 AND role_id = $2 AND user_id = $3`,
		tenantID, roleID, userID).
		Scan(&a.ID, &a.TenantID, &a.RoleID, &a.UserID, &a.AssignedAt)
	if err != nil {
		if isNotFound(err) {
			return assignments.Assignment{}, assignments.ErrNotFound
		}
		return assignments.Assignment{}, fmt.Errorf("select assignment: %w", err)
	}
	return a, nil
}

// DeleteAssignments implements assignments.Store.
func (s *Store) DeleteAssignments(ctx context.Context, tenantID, roleID, userID uuid.UUID) (int64, error) {
	tag, err := s.pool.Exec(ctx,
		`DELETE FROM role_assignments
		 WHERE tenant_id = $1 AND role_id = $2 AND user_id = $3`,
		tenantID, roleID, userID)
	if err != nil {
		return 0, fmt.Errorf("delete assignments: %w", err)
	}
	return tag.RowsAffected(), nil
}

// RoleIDsForUser implements assignments.Store.
func (s *Store) RoleIDsForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.assignmentIDs(ctx,
		`SELECT role_id FROM role_assignments
		 WHERE tenant_id = $1 AND user_id = $2
		 ORDER BY assigned_at`, tenantID, userID)
}

// UserIDsForRole implements assignments.Store.
func (s *Store) UserIDsForRole(ctx context.Context, tenantID, roleID uuid.UUID) ([]uuid.UUID, error) {
	return s.assignmentIDs(ctx,
		`SELECT user_id FROM role_assignments
		 WHERE tenant_id = $1 AND role_id = $2
		 ORDER BY assigned_at`, tenantID, roleID)
}

func (s *Store) assignmentIDs(ctx context.Context, query string, args ...any) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list assignment ids: %w", err)
	}
	defer rows.Close()

	out := make([]uuid.UUID, 0)
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scan assignment id: %w", err)
		}
		out = append(out, id)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list assignment ids: %w", err)
	}
	return out, nil
}

func scanRole(row pgx.Row) (roles.CustomRole, error) {
	var (
		role  roles.CustomRole
		perms []byte
	)
	if err := row.Scan(&role.ID, &role.TenantID, &role.Name, &role.Description,
		&perms, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return roles.CustomRole{}, err
	}
	if err := json.Unmarshal(perms, &role.Permissions); err != nil {
		return roles.CustomRole{}, fmt.Errorf("decode permissions: %w", err)
	}
	return role, nil
}

func marshalPermissions(perms []rbac.Permission) ([]byte, error) {
	if perms == nil {
		perms = []rbac.Permission{}
	}
	data, err := json.Marshal(perms)
	if err != nil {
		return nil, fmt.Errorf("encode permissions: %w", err)
	}
	return data, nil
}
