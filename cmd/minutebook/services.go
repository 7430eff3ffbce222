package main

import (
	"context"
	"database/sql"
	"log/slog"

	"github.com/redis/go-redis/v9"

	"minutebook/internal/cache"
	"minutebook/internal/config"
	"minutebook/internal/database"
	"minutebook/internal/engine"
	"minutebook/internal/store"
)

// services holds the connections and engine shared by the server and the
// catalog commands.
type services struct {
	db     *sql.DB
	valkey *redis.Client
	cache  *cache.CatalogCache
	engine *engine.Engine
}

// openServices connects to PostgreSQL and applies migrations. Valkey is
// required when requireCache is set; otherwise an unreachable Valkey only
// disables the shared catalog cache.
func openServices(ctx context.Context, cfg *config.Config, requireCache bool) (*services, error) {
	db, err := database.Connect(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}
	if err := database.Migrate(db); err != nil {
		db.Close()
		return nil, err
	}

	s := &services{db: db}

	s.valkey, err = cache.ConnectValkey(ctx, cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		if requireCache {
			db.Close()
			return nil, err
		}
		slog.Warn("valkey unavailable, catalog cache disabled", "error", err)
	}

	deps := engine.Deps{
		Catalogs:  store.NewCatalogStore(db),
		Templates: store.NewTemplateStore(db),
		Revisions: store.NewTemplateRevisionStore(db),
		Names:     store.NewUserStore(db),
	}
	if s.valkey != nil {
		s.cache = cache.NewCatalogCache(s.valkey, cfg.CatalogCacheTTL)
		deps.Cache = s.cache
	}

	s.engine = engine.New(deps, engine.Options{UsedLimit: cfg.TemplateUsedLimit})
	return s, nil
}

func (s *services) Close() {
	if s.valkey != nil {
		s.valkey.Close()
	}
	s.db.Close()
}
