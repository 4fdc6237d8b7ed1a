package postgres

import (
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

var (
	ErrFailedToConnect     = errors.New("failed to open db connection")
	ErrFailedToParseConfig = errors.New("failed to parse db config")
	ErrHealthcheckFailed   = errors.New("healthcheck failed, connection is not available")
	ErrMigrationsFailed    = errors.New("failed to apply migrations")
)

// isNotFound detects pgx.ErrNoRows for consistent "not found" handling.
func isNotFound(err error) bool {
	return errors.Is(err, pgx.ErrNoRows)
}

// isDuplicateKey detects unique constraint violations (SQLSTATE 23505),
// which back the per-tenant role name and assignment triple uniqueness.
func isDuplicateKey(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
