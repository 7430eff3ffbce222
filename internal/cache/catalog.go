// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// catalog.go caches each workspace's current module catalog in Valkey so
// validation does not hit PostgreSQL on every template write. Misses and
// errors fall through to the database; the cache is never authoritative.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"minutebook/internal/models"
)

const (
	// catalogKeyPrefix is the Valkey key prefix for cached catalogs.
	catalogKeyPrefix = "catalog:"

	// DefaultCatalogTTL is how long a catalog stays cached.
	DefaultCatalogTTL = 10 * time.Minute
)

// CatalogCache stores workspace module catalogs in Valkey.
type CatalogCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalogCache creates a new catalog cache backed by the given Valkey client.
func NewCatalogCache(client *redis.Client, ttl time.Duration) *CatalogCache {
	if ttl == 0 {
		ttl = DefaultCatalogTTL
	}
	return &CatalogCache{client: client, ttl: ttl}
}

// CatalogKey returns the cache key for a workspace.
func CatalogKey(workspaceID string) string {
	return catalogKeyPrefix + workspaceID
}

// Get returns the cached catalog modules for a workspace.
func (c *CatalogCache) Get(ctx context.Context, workspaceID string) (models.Modules, bool) {
	val, err := c.client.Get(ctx, CatalogKey(workspaceID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("catalog cache get error", "workspace_id", workspaceID, "error", err)
		return nil, false
	}

	var modules models.Modules
	if err := json.Unmarshal(val, &modules); err != nil {
		slog.Warn("catalog cache decode error", "workspace_id", workspaceID, "error", err)
		return nil, false
	}
	slog.Debug("catalog cache hit", "workspace_id", workspaceID)
	return modules, true
}

// Set stores a workspace's catalog modules with the configured TTL.
func (c *CatalogCache) Set(ctx context.Context, workspaceID string, modules models.Modules) {
	b, err := json.Marshal(modules)
	if err != nil {
		slog.Warn("catalog cache encode error", "workspace_id", workspaceID, "error", err)
		return
	}
	if err := c.client.Set(ctx, CatalogKey(workspaceID), b, c.ttl).Err(); err != nil {
		slog.Warn("catalog cache set error", "workspace_id", workspaceID, "error", err)
	}
}

// Invalidate removes a workspace's cached catalog.
func (c *CatalogCache) Invalidate(ctx context.Context, workspaceID string) {
	if err := c.client.Del(ctx, CatalogKey(workspaceID)).Err(); err != nil {
		slog.Warn("catalog cache invalidate error", "workspace_id", workspaceID, "error", err)
		return
	}
	slog.Debug("catalog cache invalidated", "workspace_id", workspaceID)
}

// InvalidateAll removes every cached catalog by scanning for the prefix.
func (c *CatalogCache) InvalidateAll(ctx context.Context) (int, error) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, catalogKeyPrefix+"*", 100).Result()
		if err != nil {
			return deleted, err
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				return deleted, err
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("catalog cache cleared", "deleted", deleted)
	}
	return deleted, nil
}
