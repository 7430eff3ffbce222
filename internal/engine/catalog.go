package engine

import (
	"context"
	"log/slog"

	"minutebook/internal/catalog"
	"minutebook/internal/compose"
	"minutebook/internal/metrics"
	"minutebook/internal/models"
)

// GetCatalog returns the workspace's current catalog modules. A workspace
// without a snapshot gets the default catalog, which is persisted first.
// Two first reads racing may both persist a default; the newest wins.
func (e *Engine) GetCatalog(ctx context.Context, workspaceID string) (models.Modules, error) {
	if modules, ok := e.memo.get(workspaceID); ok {
		metrics.IncCatalogLookups("memory")
		return modules, nil
	}

	if e.cache != nil {
		if modules, ok := e.cache.Get(ctx, workspaceID); ok {
			metrics.IncCatalogLookups("cache")
			e.memo.put(workspaceID, modules)
			return modules, nil
		}
	}

	latest, err := e.catalogs.Latest(ctx, workspaceID)
	if err != nil {
		return nil, storageErr("get catalog", err)
	}

	var modules models.Modules
	if latest != nil {
		metrics.IncCatalogLookups("database")
		modules = latest.Modules
	} else {
		created, err := e.catalogs.Create(ctx, workspaceID, catalog.DefaultModules())
		if err != nil {
			return nil, storageErr("bootstrap catalog", err)
		}
		metrics.IncCatalogBootstraps()
		slog.Info("default catalog created", "workspace_id", workspaceID, "catalog_id", created.ID)
		modules = created.Modules
	}

	if e.cache != nil {
		e.cache.Set(ctx, workspaceID, modules)
	}
	e.memo.put(workspaceID, modules)
	return modules, nil
}

// CreateCatalog appends a catalog snapshot. The modules define the catalog
// and are not checked against any other catalog.
func (e *Engine) CreateCatalog(ctx context.Context, workspaceID string, modules models.Modules) (*models.ModuleCatalog, error) {
	if modules == nil {
		modules = models.Modules{}
	}

	created, err := e.catalogs.Create(ctx, workspaceID, modules)
	if err != nil {
		return nil, storageErr("create catalog", err)
	}

	e.memo.invalidate(workspaceID)
	if e.cache != nil {
		e.cache.Invalidate(ctx, workspaceID)
	}

	slog.Info("catalog snapshot created",
		"workspace_id", workspaceID,
		"catalog_id", created.ID,
		"modules", len(created.Modules),
	)
	return created, nil
}

// Validate checks modules against the structural rules and the workspace
// catalog. Malformed input is rejected before the catalog is read, so it
// never bootstraps one.
func (e *Engine) Validate(ctx context.Context, workspaceID string, modules models.Modules) error {
	if err := compose.CheckStructure(modules); err != nil {
		return err
	}
	current, err := e.GetCatalog(ctx, workspaceID)
	if err != nil {
		return err
	}
	c := models.ModuleCatalog{Modules: current}
	return compose.CheckKeys(modules, c.KeySet())
}

// Render turns modules into preview text.
func (e *Engine) Render(modules models.Modules) string {
	return compose.Render(modules)
}

// Preview validates modules for the workspace and renders them without
// persisting anything.
func (e *Engine) Preview(ctx context.Context, workspaceID string, modules models.Modules) (string, error) {
	if err := e.Validate(ctx, workspaceID, modules); err != nil {
		metrics.IncValidationFailures("preview")
		return "", err
	}
	return compose.Render(modules), nil
}
