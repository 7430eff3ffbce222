// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
)

// YesNo is the two-valued status flag used on templates.
type YesNo string

const (
	Yes YesNo = "Y"
	No  YesNo = "N"
)

// Valid reports whether v is Y or N.
func (v YesNo) Valid() bool {
	return v == Yes || v == No
}

// Template is a workspace-owned composition of modules. Preview is always
// the rendered text of Modules and is never taken from the client.
type Template struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	Version     string    `json:"version"`
	Title       string    `json:"title"`
	Modules     Modules   `json:"template"`
	Description string    `json:"description"`
	CreatorID   string    `json:"creatorId"`
	EditorID    string    `json:"editorId"`
	Preview     string    `json:"preview"`
	IsUsed      YesNo     `json:"isUsed"`
	IsDeleted   YesNo     `json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Deleted returns true once the template has been soft-deleted.
func (t *Template) Deleted() bool {
	return t.IsDeleted == Yes
}

// Status projects the template's two status flags.
func (t *Template) Status() *TemplateStatus {
	return &TemplateStatus{TemplateID: t.ID, IsUsed: t.IsUsed, IsDeleted: t.IsDeleted}
}

// TemplateRevision is an immutable snapshot of a template's content, written
// once per successful create or update.
type TemplateRevision struct {
	ID          uuid.UUID `json:"id"`
	TemplateID  uuid.UUID `json:"templateId"`
	Version     string    `json:"version"`
	Title       string    `json:"title"`
	Modules     Modules   `json:"template"`
	Description string    `json:"description"`
	EditorID    string    `json:"editorId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// TemplateStatus is the status projection returned by status mutations.
type TemplateStatus struct {
	TemplateID uuid.UUID `json:"templateId"`
	IsUsed     YesNo     `json:"isUsed"`
	IsDeleted  YesNo     `json:"isDeleted"`
}

// TemplateFilter narrows template listings. Nil fields do not filter.
type TemplateFilter struct {
	IsUsed    *YesNo
	IsDeleted *YesNo
}

// TemplateView is a template decorated for presentation: the creator and
// editor identifiers are replaced with display names.
type TemplateView struct {
	ID          uuid.UUID `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	Version     string    `json:"version"`
	Title       string    `json:"title"`
	Modules     Modules   `json:"template"`
	Description string    `json:"description"`
	Creator     string    `json:"creator"`
	Editor      string    `json:"editor"`
	Preview     string    `json:"preview"`
	IsUsed      YesNo     `json:"isUsed"`
	IsDeleted   YesNo     `json:"isDeleted"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
	// CatalogModules is only set on detail reads that ask for the catalog.
	CatalogModules Modules `json:"modules,omitempty"`
}

// TemplateList is a page of decorated templates plus the match count.
type TemplateList struct {
	Count     int            `json:"_count"`
	Templates []TemplateView `json:"templates"`
}
