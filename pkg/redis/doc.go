// Package redis provides helpers for connecting to a Redis server and
// a caching decorator for role listings.
//
// Connect retries the connection using the supplied configuration;
// Healthcheck integrates Redis into liveness and readiness probes.
//
//	client, err := redis.Connect(ctx, cfg)
//	if err != nil { ... }
//	defer client.Close()
//
//	store := redis.NewRoleListCache(pgStore, client, cfg.CacheTTL)
//
// RoleListCache only caches the per-tenant ListRoles result; single
// role lookups bypass the cache because they feed permission checks.
// Any cache failure degrades to the underlying store.
package redis
