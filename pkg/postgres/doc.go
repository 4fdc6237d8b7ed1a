// Package postgres backs the role and assignment stores with
// PostgreSQL via pgx. It provides a retrying pool constructor, a goose
// migration runner over embedded SQL files, a health check helper, and
// a Store implementing both roles.Store and assignments.Store.
//
//	pool, err := postgres.Connect(ctx, cfg)
//	if err != nil { ... }
//	if err := postgres.Migrate(ctx, pool, cfg, log); err != nil { ... }
//	store := postgres.NewStore(pool)
//
// Uniqueness of role names per tenant and of assignment triples is
// enforced by schema constraints; deleting a role removes its
// assignments through ON DELETE CASCADE in the same statement.
package postgres
