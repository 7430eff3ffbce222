// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"minutebook/internal/models"
)

// newTestCache returns a CatalogCache backed by an in-process miniredis.
func newTestCache(t *testing.T, ttl time.Duration) (*CatalogCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCatalogCache(client, ttl), mr
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func sampleModules() models.Modules {
	return models.Modules{{
		Index:       0,
		ModuleKey:   "title",
		DisplayName: "제목",
		Items:       []models.ModuleItem{{Index: 0, Kind: models.ItemKindBasic, Value: "{{title}}"}},
	}}
}

func TestConnectValkey(t *testing.T) {
	host := envOr("VALKEY_HOST", "localhost")
	port := envOr("VALKEY_PORT", "6379")

	client, err := ConnectValkey(context.Background(), host, port, os.Getenv("VALKEY_PASSWORD"), 15)
	if err != nil {
		t.Skipf("skipping: Valkey not available: %v", err)
	}
	defer client.Close()

	pong, err := client.Ping(context.Background()).Result()
	if err != nil {
		t.Fatalf("Ping: %v", err)
	}
	if pong != "PONG" {
		t.Errorf("expected PONG, got %q", pong)
	}
}

func TestCatalogCacheSetAndGet(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	if _, ok := c.Get(ctx, "ws-1"); ok {
		t.Fatal("expected miss on empty cache")
	}

	c.Set(ctx, "ws-1", sampleModules())

	got, ok := c.Get(ctx, "ws-1")
	if !ok {
		t.Fatal("expected hit after Set")
	}
	if len(got) != 1 || got[0].ModuleKey != "title" || got[0].DisplayName != "제목" {
		t.Errorf("got %+v", got)
	}
	if !mr.Exists("catalog:ws-1") {
		t.Error("expected key catalog:ws-1 in Valkey")
	}
}

func TestCatalogCacheTTL(t *testing.T) {
	c, mr := newTestCache(t, 2*time.Second)
	ctx := context.Background()

	c.Set(ctx, "ws-1", sampleModules())
	if ttl := mr.TTL("catalog:ws-1"); ttl != 2*time.Second {
		t.Errorf("ttl: got %v, want 2s", ttl)
	}

	mr.FastForward(3 * time.Second)
	if _, ok := c.Get(ctx, "ws-1"); ok {
		t.Error("expected miss after TTL expiry")
	}
}

func TestCatalogCacheDefaultTTL(t *testing.T) {
	c, _ := newTestCache(t, 0)
	if c.ttl != DefaultCatalogTTL {
		t.Errorf("ttl: got %v, want %v", c.ttl, DefaultCatalogTTL)
	}
}

func TestCatalogCacheInvalidate(t *testing.T) {
	c, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	c.Set(ctx, "ws-1", sampleModules())
	c.Set(ctx, "ws-2", sampleModules())
	c.Invalidate(ctx, "ws-1")

	if _, ok := c.Get(ctx, "ws-1"); ok {
		t.Error("ws-1 should be gone")
	}
	if _, ok := c.Get(ctx, "ws-2"); !ok {
		t.Error("ws-2 should survive")
	}
}

func TestCatalogCacheInvalidateAll(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	ctx := context.Background()

	for _, ws := range []string{"a", "b", "c"} {
		c.Set(ctx, ws, sampleModules())
	}
	mr.Set("unrelated", "keep")

	n, err := c.InvalidateAll(ctx)
	if err != nil {
		t.Fatalf("InvalidateAll: %v", err)
	}
	if n != 3 {
		t.Errorf("deleted: got %d, want 3", n)
	}
	if !mr.Exists("unrelated") {
		t.Error("InvalidateAll removed a key outside the catalog prefix")
	}
}

func TestCatalogCacheCorruptEntryIsMiss(t *testing.T) {
	c, mr := newTestCache(t, time.Minute)
	mr.Set("catalog:ws-1", "{not json")

	if _, ok := c.Get(context.Background(), "ws-1"); ok {
		t.Error("corrupt entry should be treated as a miss")
	}
}
