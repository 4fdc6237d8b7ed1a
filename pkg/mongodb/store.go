package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/schoolkit/schoolkit/pkg/assignments"
	"github.com/schoolkit/schoolkit/pkg/rbac"
	"github.com/schoolkit/schoolkit/pkg/roles"
)

const (
	rolesCollection       = "custom_roles"
	assignmentsCollection = "role_assignments"
)

// Store implements roles.Store and assignments.Store over two
// tenant-scoped collections. Every write is a single-document operation,
// so the storage boundary guarantees the atomicity the managers expect:
// a racing edit is last-writer-wins on a whole document, never a
// partially written permission list.
type Store struct {
	roles       *mongo.Collection
	assignments *mongo.Collection
}

var (
	_ roles.Store       = (*Store)(nil)
	_ assignments.Store = (*Store)(nil)
)

// NewStore creates a Store over the database's collections.
func NewStore(db *mongo.Database) *Store {
	return &Store{
		roles:       db.Collection(rolesCollection),
		assignments: db.Collection(assignmentsCollection),
	}
}

// EnsureIndexes creates the unique indexes the store relies on:
// (tenant_id, name) for roles and (tenant_id, role_id, user_id) for
// assignments. Call once at startup.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	_, err := s.roles.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "name", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create role name index: %w", err)
	}

	_, err = s.assignments.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "tenant_id", Value: 1}, {Key: "role_id", Value: 1}, {Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("create assignment index: %w", err)
	}
	return nil
}

type permissionDoc struct {
	Module  string   `bson:"module"`
	Actions []string `bson:"actions"`
}

type roleDoc struct {
	ID          string          `bson:"_id"`
	TenantID    string          `bson:"tenant_id"`
	Name        string          `bson:"name"`
	Description string          `bson:"description"`
	Permissions []permissionDoc `bson:"permissions"`
	CreatedAt   time.Time       `bson:"created_at"`
	UpdatedAt   time.Time       `bson:"updated_at"`
}

type assignmentDoc struct {
	ID         string    `bson:"_id"`
	TenantID   string    `bson:"tenant_id"`
	RoleID     string    `bson:"role_id"`
	UserID     string    `bson:"user_id"`
	AssignedAt time.Time `bson:"assigned_at"`
}

func toRoleDoc(role roles.CustomRole) roleDoc {
	perms := make([]permissionDoc, len(role.Permissions))
	for i, p := range role.Permissions {
		actions := make([]string, len(p.Actions))
		for j, a := range p.Actions {
			actions[j] = string(a)
		}
		perms[i] = permissionDoc{Module: string(p.Module), Actions: actions}
	}
	return roleDoc{
		ID:          role.ID.String(),
		TenantID:    role.TenantID.String(),
		Name:        role.Name,
		Description: role.Description,
		Permissions: perms,
		CreatedAt:   role.CreatedAt,
		UpdatedAt:   role.UpdatedAt,
	}
}

func fromRoleDoc(doc roleDoc) (roles.CustomRole, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return roles.CustomRole{}, fmt.Errorf("parse role id: %w", err)
	}
	tenantID, err := uuid.Parse(doc.TenantID)
	if err != nil {
		return roles.CustomRole{}, fmt.Errorf("parse tenant id: %w", err)
	}

	perms := make([]rbac.Permission, len(doc.Permissions))
	for i, p := range doc.Permissions {
		actions := make([]rbac.Action, len(p.Actions))
		for j, a := range p.Actions {
			actions[j] = rbac.Action(a)
		}
		perms[i] = rbac.Permission{Module: rbac.Module(p.Module), Actions: actions}
	}

	return roles.CustomRole{
		ID:          id,
		TenantID:    tenantID,
		Name:        doc.Name,
		Description: doc.Description,
		Permissions: perms,
		CreatedAt:   doc.CreatedAt,
		UpdatedAt:   doc.UpdatedAt,
	}, nil
}

// CreateRole inserts a role document. The unique (tenant_id, name)
// index turns duplicate names into roles.ErrDuplicateName.
func (s *Store) CreateRole(ctx context.Context, role roles.CustomRole) error {
	_, err := s.roles.InsertOne(ctx, toRoleDoc(role))
	if mongo.IsDuplicateKeyError(err) {
		return roles.ErrDuplicateName
	}
	return err
}

// GetRole fetches a role by id.
func (s *Store) GetRole(ctx context.Context, id uuid.UUID) (roles.CustomRole, error) {
	var doc roleDoc
	err := s.roles.FindOne(ctx, bson.D{{Key: "_id", Value: id.String()}}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return roles.CustomRole{}, roles.ErrNotFound
	}
	if err != nil {
		return roles.CustomRole{}, err
	}
	return fromRoleDoc(doc)
}

// UpdateRole replaces the stored document wholesale in one atomic
// operation.
func (s *Store) UpdateRole(ctx context.Context, role roles.CustomRole) error {
	result, err := s.roles.ReplaceOne(ctx,
		bson.D{{Key: "_id", Value: role.ID.String()}},
		toRoleDoc(role),
	)
	if mongo.IsDuplicateKeyError(err) {
		return roles.ErrDuplicateName
	}
	if err != nil {
		return err
	}
	if result.MatchedCount == 0 {
		return roles.ErrNotFound
	}
	return nil
}

// DeleteRole removes the role document, then cascades deletion of its
// assignments. The role is removed first so the grant stops taking
// effect immediately; readers tolerate assignments whose role is gone
// for the instant between the two deletes.
func (s *Store) DeleteRole(ctx context.Context, id uuid.UUID) error {
	result, err := s.roles.DeleteOne(ctx, bson.D{{Key: "_id", Value: id.String()}})
	if err != nil {
		return err
	}
	if result.DeletedCount == 0 {
		return roles.ErrNotFound
	}

	_, err = s.assignments.DeleteMany(ctx, bson.D{{Key: "role_id", Value: id.String()}})
	return err
}

// ListRoles returns the tenant's roles, filtered by tenant id in the
// query itself and ordered by creation time, then name.
func (s *Store) ListRoles(ctx context.Context, tenantID uuid.UUID) ([]roles.CustomRole, error) {
	cursor, err := s.roles.Find(ctx,
		bson.D{{Key: "tenant_id", Value: tenantID.String()}},
		options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "name", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []roles.CustomRole
	for cursor.Next(ctx) {
		var doc roleDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		role, err := fromRoleDoc(doc)
		if err != nil {
			return nil, err
		}
		out = append(out, role)
	}
	return out, cursor.Err()
}

// CreateAssignment inserts an assignment document. The unique triple
// index turns duplicates into assignments.ErrDuplicate.
func (s *Store) CreateAssignment(ctx context.Context, a assignments.Assignment) error {
	_, err := s.assignments.InsertOne(ctx, assignmentDoc{
		ID:         a.ID.String(),
		TenantID:   a.TenantID.String(),
		RoleID:     a.RoleID.String(),
		UserID:     a.UserID.String(),
		AssignedAt: a.AssignedAt,
	})
	if mongo.IsDuplicateKeyError(err) {
		return assignments.ErrDuplicate
	}
	return err
}

// FindAssignment fetches the assignment for the triple.
func (s *Store) FindAssignment(ctx context.Context, tenantID, roleID, userID uuid.UUID) (assignments.Assignment, error) {
	var doc assignmentDoc
	err := s.assignments.FindOne(ctx, tripleFilter(tenantID, roleID, userID)).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return assignments.Assignment{}, assignments.ErrNotFound
	}
	if err != nil {
		return assignments.Assignment{}, err
	}
	return fromAssignmentDoc(doc)
}

// DeleteAssignments removes every assignment matching the triple.
func (s *Store) DeleteAssignments(ctx context.Context, tenantID, roleID, userID uuid.UUID) (int64, error) {
	result, err := s.assignments.DeleteMany(ctx, tripleFilter(tenantID, roleID, userID))
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// RoleIDsForUser returns the ids of all roles assigned to the user
// within the tenant, ordered by assignment time.
func (s *Store) RoleIDsForUser(ctx context.Context, tenantID, userID uuid.UUID) ([]uuid.UUID, error) {
	return s.assignmentIDs(ctx,
		bson.D{{Key: "tenant_id", Value: tenantID.String()}, {Key: "user_id", Value: userID.String()}},
		func(doc assignmentDoc) string { return doc.RoleID },
	)
}

// UserIDsForRole returns the ids of all users holding the role within
// the tenant, ordered by assignment time.
func (s *Store) UserIDsForRole(ctx context.Context, tenantID, roleID uuid.UUID) ([]uuid.UUID, error) {
	return s.assignmentIDs(ctx,
		bson.D{{Key: "tenant_id", Value: tenantID.String()}, {Key: "role_id", Value: roleID.String()}},
		func(doc assignmentDoc) string { return doc.UserID },
	)
}

func (s *Store) assignmentIDs(ctx context.Context, filter bson.D, pick func(assignmentDoc) string) ([]uuid.UUID, error) {
	cursor, err := s.assignments.Find(ctx, filter,
		options.Find().SetSort(bson.D{{Key: "assigned_at", Value: 1}}),
	)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var out []uuid.UUID
	for cursor.Next(ctx) {
		var doc assignmentDoc
		if err := cursor.Decode(&doc); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(pick(doc))
		if err != nil {
			return nil, fmt.Errorf("parse assignment reference: %w", err)
		}
		out = append(out, id)
	}
	return out, cursor.Err()
}

func fromAssignmentDoc(doc assignmentDoc) (assignments.Assignment, error) {
	id, err := uuid.Parse(doc.ID)
	if err != nil {
		return assignments.Assignment{}, fmt.Errorf("parse assignment id: %w", err)
	}
	tenantID, err := uuid.Parse(doc.TenantID)
	if err != nil {
		return assignments.Assignment{}, fmt.Errorf("parse tenant id: %w", err)
	}
	roleID, err := uuid.Parse(doc.RoleID)
	if err != nil {
		return assignments.Assignment{}, fmt.Errorf("parse role id: %w", err)
	}
	userID, err := uuid.Parse(doc.UserID)
	if err != nil {
		return assignments.Assignment{}, fmt.Errorf("parse user id: %w", err)
	}

	return assignments.Assignment{
		ID:         id,
		TenantID:   tenantID,
		RoleID:     roleID,
		UserID:     userID,
		AssignedAt: doc.AssignedAt,
	}, nil
}

func tripleFilter(tenantID, roleID, userID uuid.UUID) bson.D {
	return bson.D{
		{Key: "tenant_id", Value: tenantID.String()},
		{Key: "role_id", Value: roleID.String()},
		{Key: "user_id", Value: userID.String()},
	}
}
