package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"minutebook/internal/models"
)

// CatalogStore persists module catalog snapshots. Snapshots are never
// updated; a new one supersedes the previous.
type CatalogStore struct {
	db *sql.DB
}

// NewCatalogStore creates a new CatalogStore with the given database connection.
func NewCatalogStore(db *sql.DB) *CatalogStore {
	return &CatalogStore{db: db}
}

// Create appends a catalog snapshot for the workspace.
func (s *CatalogStore) Create(ctx context.Context, workspaceID string, modules models.Modules) (*models.ModuleCatalog, error) {
	c := &models.ModuleCatalog{}
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO module_catalogs (workspace_id, modules)
		VALUES ($1, $2)
		RETURNING id, workspace_id, modules, created_at
	`, workspaceID, modules).Scan(&c.ID, &c.WorkspaceID, &c.Modules, &c.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("create module catalog: %w", err)
	}
	return c, nil
}

// Latest returns the workspace's most recent snapshot, with insertion order
// breaking created_at ties. Returns nil if the workspace has none.
func (s *CatalogStore) Latest(ctx context.Context, workspaceID string) (*models.ModuleCatalog, error) {
	c := &models.ModuleCatalog{}
	err := s.db.QueryRowContext(ctx, `
		SELECT id, workspace_id, modules, created_at
		FROM module_catalogs
		WHERE workspace_id = $1
		ORDER BY created_at DESC, seq DESC
		LIMIT 1
	`, workspaceID).Scan(&c.ID, &c.WorkspaceID, &c.Modules, &c.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("latest module catalog: %w", err)
	}
	return c, nil
}
