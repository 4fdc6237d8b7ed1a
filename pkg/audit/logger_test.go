package audit_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolkit/schoolkit/pkg/audit"
)

func TestLogger_Log(t *testing.T) {
	storage := audit.NewMemoryStorage()
	logger := audit.NewLogger(storage)

	err := logger.Log(context.Background(), "roles.create",
		audit.WithTenant("t1"),
		audit.WithUser("u1"),
		audit.WithResource("custom_role", "r1"),
		audit.WithMetadata("name", "Finance Manager"),
	)
	require.NoError(t, err)

	events := storage.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "roles.create", events[0].Action)
	assert.Equal(t, audit.ResultSuccess, events[0].Result)
	assert.Equal(t, "t1", events[0].TenantID)
	assert.Equal(t, "u1", events[0].UserID)
	assert.Equal(t, "custom_role", events[0].Resource)
	assert.Equal(t, "r1", events[0].ResourceID)
	assert.Equal(t, "Finance Manager", events[0].Metadata["name"])
	assert.NotEmpty(t, events[0].ID)
	assert.False(t, events[0].CreatedAt.IsZero())
}

func TestLogger_LogError(t *testing.T) {
	storage := audit.NewMemoryStorage()
	logger := audit.NewLogger(storage)

	err := logger.LogError(context.Background(), "roles.delete", errors.New("boom"))
	require.NoError(t, err)

	events := storage.Events()
	require.Len(t, events, 1)
	assert.Equal(t, audit.ResultError, events[0].Result)
	assert.Equal(t, "boom", events[0].Error)
}

func TestLogger_MissingActionRejected(t *testing.T) {
	logger := audit.NewLogger(audit.NewMemoryStorage())

	err := logger.Log(context.Background(), "")
	assert.ErrorIs(t, err, audit.ErrEventValidation)
}

func TestLogger_ContextExtractors(t *testing.T) {
	type tenantKey struct{}
	type userKey struct{}

	storage := audit.NewMemoryStorage()
	logger := audit.NewLogger(storage,
		audit.WithTenantIDExtractor(func(ctx context.Context) (string, bool) {
			v, ok := ctx.Value(tenantKey{}).(string)
			return v, ok
		}),
		audit.WithUserIDExtractor(func(ctx context.Context) (string, bool) {
			v, ok := ctx.Value(userKey{}).(string)
			return v, ok
		}),
	)

	ctx := context.WithValue(context.Background(), tenantKey{}, "t9")
	ctx = context.WithValue(ctx, userKey{}, "u9")
	require.NoError(t, logger.Log(ctx, "assignments.assign"))

	events := storage.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "t9", events[0].TenantID)
	assert.Equal(t, "u9", events[0].UserID)
}

type failingStorage struct{}

func (failingStorage) Store(ctx context.Context, event audit.Event) error {
	return errors.New("unavailable")
}

func TestLogger_StorageFailure(t *testing.T) {
	logger := audit.NewLogger(failingStorage{})
	err := logger.Log(context.Background(), "roles.update")
	assert.ErrorIs(t, err, audit.ErrStorageFailure)
}
