// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package engine

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"minutebook/internal/apperr"
	"minutebook/internal/compose"
	"minutebook/internal/metrics"
	"minutebook/internal/models"
)

// CreateTemplateInput carries the caller-supplied fields of a new template.
// Preview is never accepted from callers; it is rendered from Modules.
type CreateTemplateInput struct {
	WorkspaceID string
	CreatorID   string
	EditorID    string
	Title       string
	Version     string
	Description string
	Modules     models.Modules
	IsUsed      models.YesNo // empty means N
}

// UpdateTemplateInput replaces a template's mutable fields.
type UpdateTemplateInput struct {
	WorkspaceID string
	EditorID    string
	Title       string
	Version     string
	Description string
	Modules     models.Modules
}

// StatusInput changes template flags. Nil fields keep their current value.
type StatusInput struct {
	IsUsed    *models.YesNo
	IsDeleted *models.YesNo
}

// CreateTemplate validates and renders the modules, then stores the
// template with its first revision.
func (e *Engine) CreateTemplate(ctx context.Context, in CreateTemplateInput) (*models.Template, error) {
	if in.IsUsed == "" {
		in.IsUsed = models.No
	}
	if !in.IsUsed.Valid() {
		return nil, apperr.Validation("isUsed must be Y or N", string(in.IsUsed))
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("title is required", "title")
	}

	slog.Info("creating template", "workspace_id", in.WorkspaceID, "is_used", in.IsUsed)

	if err := e.Validate(ctx, in.WorkspaceID, in.Modules); err != nil {
		metrics.IncValidationFailures("create")
		return nil, err
	}

	t := &models.Template{
		WorkspaceID: in.WorkspaceID,
		Version:     in.Version,
		Title:       in.Title,
		Modules:     in.Modules,
		Description: in.Description,
		CreatorID:   in.CreatorID,
		EditorID:    in.EditorID,
		Preview:     compose.Render(in.Modules),
		IsUsed:      in.IsUsed,
		IsDeleted:   models.No,
	}

	created, err := e.templates.Create(ctx, t, e.usedLimit)
	if err != nil {
		if errors.Is(err, apperr.ErrCapacity) {
			metrics.IncCapacityRejections()
		}
		return nil, storageErr("create template", err)
	}

	metrics.IncTemplatesCreated(string(created.IsUsed))
	slog.Info("template created", "workspace_id", created.WorkspaceID, "template_id", created.ID)
	return created, nil
}

// UpdateTemplate replaces a template's content and metadata, recomputes
// its preview, and appends a revision.
func (e *Engine) UpdateTemplate(ctx context.Context, templateID uuid.UUID, in UpdateTemplateInput) (*models.Template, error) {
	if err := compose.CheckStructure(in.Modules); err != nil {
		metrics.IncValidationFailures("update")
		return nil, err
	}

	existing, err := e.templates.FindByID(ctx, in.WorkspaceID, templateID)
	if err != nil {
		return nil, storageErr("find template", err)
	}
	if existing == nil {
		return nil, apperr.NotFound("template", templateID.String())
	}
	if strings.TrimSpace(in.Title) == "" {
		return nil, apperr.Validation("title is required", "title")
	}

	if err := e.Validate(ctx, in.WorkspaceID, in.Modules); err != nil {
		metrics.IncValidationFailures("update")
		return nil, err
	}

	existing.Title = in.Title
	existing.Version = in.Version
	existing.Description = in.Description
	existing.Modules = in.Modules
	existing.EditorID = in.EditorID
	existing.Preview = compose.Render(in.Modules)

	updated, err := e.templates.Update(ctx, existing)
	if err != nil {
		return nil, storageErr("update template", err)
	}

	metrics.IncTemplatesUpdated()
	slog.Info("template updated", "workspace_id", updated.WorkspaceID, "template_id", updated.ID)
	return updated, nil
}

// UpdateStatus flips a template's used and deleted flags. Deleted
// templates refuse further status changes.
func (e *Engine) UpdateStatus(ctx context.Context, workspaceID string, templateID uuid.UUID, in StatusInput) (*models.TemplateStatus, error) {
	if in.IsUsed != nil && !in.IsUsed.Valid() {
		return nil, apperr.Validation("isUsed must be Y or N", string(*in.IsUsed))
	}
	if in.IsDeleted != nil && !in.IsDeleted.Valid() {
		return nil, apperr.Validation("isDeleted must be Y or N", string(*in.IsDeleted))
	}

	status, err := e.templates.UpdateStatus(ctx, workspaceID, templateID, in.IsUsed, in.IsDeleted, e.usedLimit)
	if err != nil {
		if errors.Is(err, apperr.ErrCapacity) {
			metrics.IncCapacityRejections()
		}
		return nil, storageErr("update template status", err)
	}

	metrics.IncStatusChanges(statusLabel(status))
	slog.Info("template status updated",
		"workspace_id", workspaceID,
		"template_id", templateID,
		"is_used", status.IsUsed,
		"is_deleted", status.IsDeleted,
	)
	return status, nil
}

// DeleteTemplate soft-deletes a template. The used flag is left as is.
func (e *Engine) DeleteTemplate(ctx context.Context, workspaceID string, templateID uuid.UUID) (*models.TemplateStatus, error) {
	deleted := models.Yes
	return e.UpdateStatus(ctx, workspaceID, templateID, StatusInput{IsDeleted: &deleted})
}

// ListTemplates returns the workspace's templates matching filter, used
// first and then most recently updated, with actor names resolved.
func (e *Engine) ListTemplates(ctx context.Context, workspaceID string, filter models.TemplateFilter) (*models.TemplateList, error) {
	templates, err := e.templates.List(ctx, workspaceID, filter)
	if err != nil {
		return nil, storageErr("list templates", err)
	}

	views := e.Decorate(ctx, templates)
	return &models.TemplateList{Count: len(views), Templates: views}, nil
}

// GetTemplate returns one decorated template. With withModules set, the
// workspace's current catalog is attached for editing.
func (e *Engine) GetTemplate(ctx context.Context, workspaceID string, templateID uuid.UUID, withModules bool) (*models.TemplateView, error) {
	t, err := e.templates.FindByID(ctx, workspaceID, templateID)
	if err != nil {
		return nil, storageErr("find template", err)
	}
	if t == nil {
		return nil, apperr.NotFound("template", templateID.String())
	}

	view := e.Decorate(ctx, []models.Template{*t})[0]
	if withModules {
		modules, err := e.GetCatalog(ctx, workspaceID)
		if err != nil {
			return nil, err
		}
		view.CatalogModules = modules
	}
	return &view, nil
}

// ListRevisions returns a template's revision history, newest first.
func (e *Engine) ListRevisions(ctx context.Context, workspaceID string, templateID uuid.UUID) ([]models.TemplateRevision, error) {
	t, err := e.templates.FindByID(ctx, workspaceID, templateID)
	if err != nil {
		return nil, storageErr("find template", err)
	}
	if t == nil {
		return nil, apperr.NotFound("template", templateID.String())
	}

	revisions, err := e.revisions.ListByTemplateID(ctx, templateID)
	if err != nil {
		return nil, storageErr("list revisions", err)
	}
	return revisions, nil
}

func statusLabel(s *models.TemplateStatus) string {
	switch {
	case s.IsDeleted == models.Yes:
		return "deleted"
	case s.IsUsed == models.Yes:
		return "used"
	default:
		return "unused"
	}
}
