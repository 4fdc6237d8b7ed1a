package postgres

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/schoolkit/schoolkit/pkg/rbac"
)

func TestMarshalPermissions(t *testing.T) {
	t.Parallel()

	t.Run("nil becomes empty json array", func(t *testing.T) {
		t.Parallel()

		data, err := marshalPermissions(nil)
		require.NoError(t, err)
		assert.JSONEq(t, `[]`, string(data))
	})

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		in := []rbac.Permission{
			{Module: rbac.ModuleHR, Actions: []rbac.Action{rbac.ActionView, rbac.ActionEdit}},
			{Module: rbac.ModuleFees, Actions: []rbac.Action{rbac.ActionView}},
		}

		data, err := marshalPermissions(in)
		require.NoError(t, err)

		var out []rbac.Permission
		require.NoError(t, json.Unmarshal(data, &out))
		assert.Equal(t, in, out)
	})
}

func TestErrorClassification(t *testing.T) {
	t.Parallel()

	t.Run("no rows is not found", func(t *testing.T) {
		t.Parallel()

		assert.True(t, isNotFound(pgx.ErrNoRows))
		assert.False(t, isNotFound(errors.New("boom")))
	})

	t.Run("unique violation is duplicate key", func(t *testing.T) {
		t.Parallel()

		assert.True(t, isDuplicateKey(&pgconn.PgError{Code: "23505"}))
		assert.False(t, isDuplicateKey(&pgconn.PgError{Code: "23503"}))
		assert.False(t, isDuplicateKey(errors.New("boom")))
	})
}
