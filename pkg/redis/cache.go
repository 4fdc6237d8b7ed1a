package redis

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/schoolkit/schoolkit/pkg/roles"
)

const roleListKeyPrefix = "schoolkit:roles:list:"

// RoleListCache decorates a roles.Store with a per-tenant cache of the
// ListRoles result. Only the listing is cached: GetRole goes straight
// to the underlying store because its result feeds permission
// decisions, which must never act on stale data. Writes pass through
// and invalidate the owning tenant's entry; cache failures degrade to
// the underlying store and are logged, never surfaced.
type RoleListCache struct {
	next   roles.Store
	client *redis.Client
	ttl    time.Duration
	log    *slog.Logger
}

// RoleListCacheOption configures a RoleListCache.
type RoleListCacheOption func(*RoleListCache)

// WithLogger sets the logger used for cache degradation warnings.
// Defaults to slog.Default().
func WithLogger(log *slog.Logger) RoleListCacheOption {
	return func(c *RoleListCache) {
		if log != nil {
			c.log = log
		}
	}
}

// NewRoleListCache wraps next with a Redis-backed listing cache. Panics
// if next or client is nil. A non-positive ttl falls back to 30s.
func NewRoleListCache(next roles.Store, client *redis.Client, ttl time.Duration, opts ...RoleListCacheOption) *RoleListCache {
	if next == nil {
		panic("redis: next store must not be nil")
	}
	if client == nil {
		panic("redis: client must not be nil")
	}
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	c := &RoleListCache{
		next:   next,
		client: client,
		ttl:    ttl,
		log:    slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

var _ roles.Store = (*RoleListCache)(nil)

// CreateRole implements roles.Store.
func (c *RoleListCache) CreateRole(ctx context.Context, role roles.CustomRole) error {
	if err := c.next.CreateRole(ctx, role); err != nil {
		return err
	}
	c.invalidate(ctx, role.TenantID)
	return nil
}

// GetRole implements roles.Store. Lookups are never cached.
func (c *RoleListCache) GetRole(ctx context.Context, id uuid.UUID) (roles.CustomRole, error) {
	return c.next.GetRole(ctx, id)
}

// UpdateRole implements roles.Store.
func (c *RoleListCache) UpdateRole(ctx context.Context, role roles.CustomRole) error {
	if err := c.next.UpdateRole(ctx, role); err != nil {
		return err
	}
	c.invalidate(ctx, role.TenantID)
	return nil
}

// DeleteRole implements roles.Store. The role is looked up first to
// learn which tenant's listing to invalidate.
func (c *RoleListCache) DeleteRole(ctx context.Context, id uuid.UUID) error {
	role, err := c.next.GetRole(ctx, id)
	if err != nil {
		return err
	}
	if err := c.next.DeleteRole(ctx, id); err != nil {
		return err
	}
	c.invalidate(ctx, role.TenantID)
	return nil
}

// ListRoles implements roles.Store, serving from the cache when a fresh
// entry exists and repopulating it after a miss.
func (c *RoleListCache) ListRoles(ctx context.Context, tenantID uuid.UUID) ([]roles.CustomRole, error) {
	key := roleListKeyPrefix + tenantID.String()

	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		var cached []roles.CustomRole
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, nil
		}
		// Corrupt entry: drop it and fall through to the store.
		c.invalidate(ctx, tenantID)
	} else if !errors.Is(err, redis.Nil) {
		c.log.WarnContext(ctx, "role list cache read failed",
			slog.String("tenant_id", tenantID.String()),
			slog.Any("error", err))
	}

	listed, err := c.next.ListRoles(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(listed); err == nil {
		if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
			c.log.WarnContext(ctx, "role list cache write failed",
				slog.String("tenant_id", tenantID.String()),
				slog.Any("error", err))
		}
	}

	return listed, nil
}

func (c *RoleListCache) invalidate(ctx context.Context, tenantID uuid.UUID) {
	key := roleListKeyPrefix + tenantID.String()
	if err := c.client.Del(ctx, key).Err(); err != nil {
		c.log.WarnContext(ctx, "role list cache invalidation failed",
			slog.String("tenant_id", tenantID.String()),
			slog.Any("error", err))
	}
}
