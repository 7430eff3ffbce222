// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package engine composes meeting-minute templates. It resolves each
// workspace's module catalog, validates module arrays against it, renders
// previews, and persists templates together with their revision history.
package engine

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"minutebook/internal/apperr"
	"minutebook/internal/models"
)

// DefaultUsedLimit is the number of templates a workspace may flag as used.
const DefaultUsedLimit = 10

// CatalogRepository persists module catalog snapshots.
type CatalogRepository interface {
	Create(ctx context.Context, workspaceID string, modules models.Modules) (*models.ModuleCatalog, error)
	Latest(ctx context.Context, workspaceID string) (*models.ModuleCatalog, error)
}

// TemplateRepository persists templates. Create and Update must write the
// matching revision in the same transaction.
type TemplateRepository interface {
	Create(ctx context.Context, t *models.Template, usedLimit int) (*models.Template, error)
	Update(ctx context.Context, t *models.Template) (*models.Template, error)
	UpdateStatus(ctx context.Context, workspaceID string, id uuid.UUID, isUsed, isDeleted *models.YesNo, usedLimit int) (*models.TemplateStatus, error)
	FindByID(ctx context.Context, workspaceID string, id uuid.UUID) (*models.Template, error)
	List(ctx context.Context, workspaceID string, filter models.TemplateFilter) ([]models.Template, error)
}

// RevisionRepository reads template revision history.
type RevisionRepository interface {
	ListByTemplateID(ctx context.Context, templateID uuid.UUID) ([]models.TemplateRevision, error)
}

// NameResolver maps actor ids to display names in one batch.
type NameResolver interface {
	DisplayNames(ctx context.Context, ids []string) (map[string]string, error)
}

// CatalogCache is a shared cache of workspace catalogs. Implementations
// swallow their own errors; a failed Get is a miss.
type CatalogCache interface {
	Get(ctx context.Context, workspaceID string) (models.Modules, bool)
	Set(ctx context.Context, workspaceID string, modules models.Modules)
	Invalidate(ctx context.Context, workspaceID string)
}

// Deps are the collaborators an Engine needs. Cache may be nil.
type Deps struct {
	Catalogs  CatalogRepository
	Templates TemplateRepository
	Revisions RevisionRepository
	Names     NameResolver
	Cache     CatalogCache
}

// Options tune engine behavior. Zero values select the defaults.
type Options struct {
	UsedLimit int
	MemoTTL   time.Duration
}

// Engine is the template composition service.
type Engine struct {
	catalogs  CatalogRepository
	templates TemplateRepository
	revisions RevisionRepository
	names     NameResolver
	cache     CatalogCache
	memo      *catalogMemo
	usedLimit int
}

// New creates an Engine from its collaborators.
func New(deps Deps, opts Options) *Engine {
	if opts.UsedLimit <= 0 {
		opts.UsedLimit = DefaultUsedLimit
	}
	if opts.MemoTTL <= 0 {
		opts.MemoTTL = defaultMemoTTL
	}
	return &Engine{
		catalogs:  deps.Catalogs,
		templates: deps.Templates,
		revisions: deps.Revisions,
		names:     deps.Names,
		cache:     deps.Cache,
		memo:      newCatalogMemo(opts.MemoTTL),
		usedLimit: opts.UsedLimit,
	}
}

// UsedLimit returns the per-workspace cap on used templates.
func (e *Engine) UsedLimit() int {
	return e.usedLimit
}

// storageErr passes domain errors through and classifies anything else as
// a storage failure of op.
func storageErr(op string, err error) error {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		return err
	}
	return apperr.Storage(op, err)
}
