// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers for the template API.
// Handlers translate requests into engine calls and receive their
// dependencies through the handler struct.
package handlers

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"minutebook/internal/apperr"
	"minutebook/internal/compose"
	"minutebook/internal/engine"
	"minutebook/internal/middleware"
	"minutebook/internal/models"
)

// TemplateService is the engine surface the handlers depend on.
type TemplateService interface {
	GetCatalog(ctx context.Context, workspaceID string) (models.Modules, error)
	CreateCatalog(ctx context.Context, workspaceID string, modules models.Modules) (*models.ModuleCatalog, error)
	Preview(ctx context.Context, workspaceID string, modules models.Modules) (string, error)
	CreateTemplate(ctx context.Context, in engine.CreateTemplateInput) (*models.Template, error)
	UpdateTemplate(ctx context.Context, templateID uuid.UUID, in engine.UpdateTemplateInput) (*models.Template, error)
	UpdateStatus(ctx context.Context, workspaceID string, templateID uuid.UUID, in engine.StatusInput) (*models.TemplateStatus, error)
	DeleteTemplate(ctx context.Context, workspaceID string, templateID uuid.UUID) (*models.TemplateStatus, error)
	ListTemplates(ctx context.Context, workspaceID string, filter models.TemplateFilter) (*models.TemplateList, error)
	GetTemplate(ctx context.Context, workspaceID string, templateID uuid.UUID, withModules bool) (*models.TemplateView, error)
	ListRevisions(ctx context.Context, workspaceID string, templateID uuid.UUID) ([]models.TemplateRevision, error)
}

// Templates groups the template API handlers.
type Templates struct {
	svc TemplateService
}

// NewTemplates creates the template handler group.
func NewTemplates(svc TemplateService) *Templates {
	return &Templates{svc: svc}
}

// templateRequest is the body of create and update calls. The module array
// is kept raw so it can go through schema validation before decoding.
type templateRequest struct {
	Title       string          `json:"title"`
	Version     string          `json:"version"`
	Description string          `json:"description"`
	Template    json.RawMessage `json:"template"`
	IsUsed      models.YesNo    `json:"isUsed"`
}

// modulesRequest carries a bare module array under the given field.
type modulesRequest struct {
	Modules  json.RawMessage `json:"modules"`
	Template json.RawMessage `json:"template"`
}

// GetModules returns the workspace's current module catalog.
func (h *Templates) GetModules(w http.ResponseWriter, r *http.Request) {
	ws := middleware.WorkspaceFromCtx(r.Context())

	modules, err := h.svc.GetCatalog(r.Context(), ws)
	if err != nil {
		writeError(w, r, "get catalog", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"modules": modules})
}

// CreateModules stores a new catalog snapshot for the workspace.
func (h *Templates) CreateModules(w http.ResponseWriter, r *http.Request) {
	ws := middleware.WorkspaceFromCtx(r.Context())

	var req modulesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rejectInput(w, r, err)
		return
	}
	modules, err := compose.DecodeModules(req.Modules)
	if err != nil {
		rejectInput(w, r, err)
		return
	}

	snapshot, err := h.svc.CreateCatalog(r.Context(), ws, modules)
	if err != nil {
		writeError(w, r, "create catalog", err)
		return
	}
	writeJSON(w, http.StatusCreated, snapshot)
}

// Preview validates a module array and returns its rendered preview
// without saving anything.
func (h *Templates) Preview(w http.ResponseWriter, r *http.Request) {
	ws := middleware.WorkspaceFromCtx(r.Context())

	var req modulesRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rejectInput(w, r, err)
		return
	}
	modules, err := compose.DecodeModules(req.Template)
	if err != nil {
		rejectInput(w, r, err)
		return
	}

	preview, err := h.svc.Preview(r.Context(), ws, modules)
	if err != nil {
		writeError(w, r, "preview", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"preview": preview})
}

// List returns the workspace's templates, used ones first. The optional
// isUsed and isDeleted query parameters filter the result.
func (h *Templates) List(w http.ResponseWriter, r *http.Request) {
	ws := middleware.WorkspaceFromCtx(r.Context())

	var filter models.TemplateFilter
	var err error
	if filter.IsUsed, err = yesNoParam(r, "isUsed", ""); err != nil {
		rejectInput(w, r, err)
		return
	}
	if filter.IsDeleted, err = yesNoParam(r, "isDeleted", ""); err != nil {
		rejectInput(w, r, err)
		return
	}

	list, err := h.svc.ListTemplates(r.Context(), ws, filter)
	if err != nil {
		writeError(w, r, "list templates", err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Get returns one template. With isModules=Y the current catalog is
// included for the edit page.
func (h *Templates) Get(w http.ResponseWriter, r *http.Request) {
	ws := middleware.WorkspaceFromCtx(r.Context())
	id, ok := templateID(w, r)
	if !ok {
		return
	}
	withModules, err := yesNoParam(r, "isModules", models.No)
	if err != nil {
		rejectInput(w, r, err)
		return
	}

	view, err := h.svc.GetTemplate(r.Context(), ws, id, *withModules == models.Yes)
	if err != nil {
		writeError(w, r, "get template", err)
		return
	}
	writeJSON(w, http.StatusOK, view)
}

// Revisions returns a template's revision history, newest first.
func (h *Templates) Revisions(w http.ResponseWriter, r *http.Request) {
	ws := middleware.WorkspaceFromCtx(r.Context())
	id, ok := templateID(w, r)
	if !ok {
		return
	}

	revisions, err := h.svc.ListRevisions(r.Context(), ws, id)
	if err != nil {
		writeError(w, r, "list revisions", err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"_count": len(revisions), "revisions": revisions})
}

// Create stores a new template and its first revision.
func (h *Templates) Create(w http.ResponseWriter, r *http.Request) {
	ws := middleware.WorkspaceFromCtx(r.Context())
	actor := middleware.ActorFromCtx(r.Context())

	req, modules, ok := decodeTemplate(w, r)
	if !ok {
		return
	}
	if req.IsUsed != "" && !req.IsUsed.Valid() {
		rejectInput(w, r, apperr.Validation("isUsed must be Y or N", "isUsed: "+string(req.IsUsed)))
		return
	}

	created, err := h.svc.CreateTemplate(r.Context(), engine.CreateTemplateInput{
		WorkspaceID: ws,
		CreatorID:   actor,
		EditorID:    actor,
		Title:       req.Title,
		Version:     req.Version,
		Description: req.Description,
		Modules:     modules,
		IsUsed:      req.IsUsed,
	})
	if err != nil {
		writeError(w, r, "create template", err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

// Update replaces a template's content and appends a revision.
func (h *Templates) Update(w http.ResponseWriter, r *http.Request) {
	ws := middleware.WorkspaceFromCtx(r.Context())
	actor := middleware.ActorFromCtx(r.Context())
	id, ok := templateID(w, r)
	if !ok {
		return
	}

	req, modules, ok := decodeTemplate(w, r)
	if !ok {
		return
	}

	updated, err := h.svc.UpdateTemplate(r.Context(), id, engine.UpdateTemplateInput{
		WorkspaceID: ws,
		EditorID:    actor,
		Title:       req.Title,
		Version:     req.Version,
		Description: req.Description,
		Modules:     modules,
	})
	if err != nil {
		writeError(w, r, "update template", err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// UpdateStatus sets the used and deleted flags from the query string.
// Omitted flags default to N.
func (h *Templates) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	ws := middleware.WorkspaceFromCtx(r.Context())
	id, ok := templateID(w, r)
	if !ok {
		return
	}

	isUsed, err := yesNoParam(r, "isUsed", models.No)
	if err != nil {
		rejectInput(w, r, err)
		return
	}
	isDeleted, err := yesNoParam(r, "isDeleted", models.No)
	if err != nil {
		rejectInput(w, r, err)
		return
	}

	status, err := h.svc.UpdateStatus(r.Context(), ws, id, engine.StatusInput{IsUsed: isUsed, IsDeleted: isDeleted})
	if err != nil {
		writeError(w, r, "update status", err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// Delete soft-deletes a template.
func (h *Templates) Delete(w http.ResponseWriter, r *http.Request) {
	ws := middleware.WorkspaceFromCtx(r.Context())
	id, ok := templateID(w, r)
	if !ok {
		return
	}

	status, err := h.svc.DeleteTemplate(r.Context(), ws, id)
	if err != nil {
		writeError(w, r, "delete template", err)
		return
	}
	writeJSON(w, http.StatusOK, status)
}

// decodeTemplate reads a create/update body, checks the field limits and
// decodes the module array. It writes the error response itself.
func decodeTemplate(w http.ResponseWriter, r *http.Request) (*templateRequest, models.Modules, bool) {
	var req templateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		rejectInput(w, r, err)
		return nil, nil, false
	}
	if msg := validateTemplateFields(req.Title, req.Version, req.Description); msg != "" {
		rejectInput(w, r, apperr.Validation(msg, ""))
		return nil, nil, false
	}
	modules, err := compose.DecodeModules(req.Template)
	if err != nil {
		rejectInput(w, r, err)
		return nil, nil, false
	}
	return &req, modules, true
}

// templateID parses the {id} URL parameter.
func templateID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		rejectInput(w, r, apperr.Validation("invalid template id", "id: "+raw))
		return uuid.Nil, false
	}
	return id, true
}

// yesNoParam reads a Y/N query parameter. An absent parameter yields def,
// or nil when def is empty.
func yesNoParam(r *http.Request, key string, def models.YesNo) (*models.YesNo, error) {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		if def == "" {
			return nil, nil
		}
		return &def, nil
	}
	v := models.YesNo(raw)
	if !v.Valid() {
		return nil, apperr.Validation(key+" must be Y or N", key+": "+raw)
	}
	return &v, nil
}
