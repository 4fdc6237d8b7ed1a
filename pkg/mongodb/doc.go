// Package mongodb backs the role and assignment stores with MongoDB.
// It provides a retrying client constructor, a health check helper, and
// a Store implementing both roles.Store and assignments.Store over two
// collections with unique indexes enforcing per-tenant name uniqueness
// and assignment triple uniqueness.
//
//	db, err := mongodb.NewWithDatabase(ctx, cfg)
//	if err != nil { ... }
//	store := mongodb.NewStore(db)
//	if err := store.EnsureIndexes(ctx); err != nil { ... }
//
// All writes are single-document operations; that is the atomicity
// boundary the managers rely on.
package mongodb
