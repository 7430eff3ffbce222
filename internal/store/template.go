// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"minutebook/internal/apperr"
	"minutebook/internal/models"
)

// templateColumns lists all columns for templates SELECTs and RETURNING clauses.
const templateColumns = `id, workspace_id, version, title, modules, description,
	creator_id, editor_id, preview, is_used, is_deleted, created_at, updated_at`

// TemplateStore handles all template-related database operations.
type TemplateStore struct {
	db *sql.DB
}

// NewTemplateStore creates a new TemplateStore with the given database connection.
func NewTemplateStore(db *sql.DB) *TemplateStore {
	return &TemplateStore{db: db}
}

// scanTemplate scans a single templates row into a Template.
func scanTemplate(scanner interface{ Scan(...any) error }) (*models.Template, error) {
	var t models.Template
	err := scanner.Scan(
		&t.ID, &t.WorkspaceID, &t.Version, &t.Title, &t.Modules, &t.Description,
		&t.CreatorID, &t.EditorID, &t.Preview, &t.IsUsed, &t.IsDeleted,
		&t.CreatedAt, &t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// lockWorkspace serializes used-count checks within a workspace until the
// transaction ends.
func lockWorkspace(ctx context.Context, tx *sql.Tx, workspaceID string) error {
	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock(hashtext($1))`, workspaceID); err != nil {
		return fmt.Errorf("lock workspace: %w", err)
	}
	return nil
}

// countUsed counts live templates flagged as used in a workspace.
func countUsed(ctx context.Context, q interface {
	QueryRowContext(context.Context, string, ...any) *sql.Row
}, workspaceID string) (int, error) {
	var n int
	err := q.QueryRowContext(ctx, `
		SELECT COUNT(*) FROM templates
		WHERE workspace_id = $1 AND is_used = 'Y' AND is_deleted = 'N'
	`, workspaceID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count used templates: %w", err)
	}
	return n, nil
}

// ensureCapacity fails with a capacity error when the workspace already
// holds usedLimit used templates.
func ensureCapacity(ctx context.Context, tx *sql.Tx, workspaceID string, usedLimit int) error {
	if err := lockWorkspace(ctx, tx, workspaceID); err != nil {
		return err
	}
	n, err := countUsed(ctx, tx, workspaceID)
	if err != nil {
		return err
	}
	if n >= usedLimit {
		return apperr.Capacity(workspaceID, usedLimit)
	}
	return nil
}

// Create inserts a template and its first revision in one transaction.
// When the template is flagged as used, the workspace's used count is
// checked against usedLimit inside the same transaction.
func (s *TemplateStore) Create(ctx context.Context, t *models.Template, usedLimit int) (*models.Template, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if t.IsUsed == models.Yes {
		if err := ensureCapacity(ctx, tx, t.WorkspaceID, usedLimit); err != nil {
			return nil, err
		}
	}

	row := tx.QueryRowContext(ctx, `
		INSERT INTO templates (
			workspace_id, version, title, modules, description,
			creator_id, editor_id, preview, is_used, is_deleted
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, 'N')
		RETURNING `+templateColumns,
		t.WorkspaceID, t.Version, t.Title, t.Modules, t.Description,
		t.CreatorID, t.EditorID, t.Preview, t.IsUsed,
	)
	created, err := scanTemplate(row)
	if err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}

	if _, err := insertRevision(ctx, tx, created); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit create template: %w", err)
	}
	return created, nil
}

// Update overwrites a template's mutable fields and appends a revision.
// Returns a not-found error when the template does not exist in the
// workspace.
func (s *TemplateStore) Update(ctx context.Context, t *models.Template) (*models.Template, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	row := tx.QueryRowContext(ctx, `
		UPDATE templates SET
			version = $1, title = $2, modules = $3, description = $4,
			editor_id = $5, preview = $6, updated_at = NOW()
		WHERE id = $7 AND workspace_id = $8
		RETURNING `+templateColumns,
		t.Version, t.Title, t.Modules, t.Description,
		t.EditorID, t.Preview, t.ID, t.WorkspaceID,
	)
	updated, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("template", t.ID.String())
	}
	if err != nil {
		return nil, fmt.Errorf("update template: %w", err)
	}

	if _, err := insertRevision(ctx, tx, updated); err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit update template: %w", err)
	}
	return updated, nil
}

// UpdateStatus changes a template's used and deleted flags. Nil flags keep
// their current value. A deleted template cannot change status, and a
// transition to used is refused once the workspace holds usedLimit used
// templates. No revision is written.
func (s *TemplateStore) UpdateStatus(ctx context.Context, workspaceID string, id uuid.UUID, isUsed, isDeleted *models.YesNo, usedLimit int) (*models.TemplateStatus, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var cur models.TemplateStatus
	err = tx.QueryRowContext(ctx, `
		SELECT id, is_used, is_deleted FROM templates
		WHERE id = $1 AND workspace_id = $2
		FOR UPDATE
	`, id, workspaceID).Scan(&cur.TemplateID, &cur.IsUsed, &cur.IsDeleted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound("template", id.String())
	}
	if err != nil {
		return nil, fmt.Errorf("find template status: %w", err)
	}
	if cur.IsDeleted == models.Yes {
		return nil, apperr.Conflict("template is already deleted", id.String())
	}

	next := cur
	if isUsed != nil {
		next.IsUsed = *isUsed
	}
	if isDeleted != nil {
		next.IsDeleted = *isDeleted
	}

	if next.IsUsed == models.Yes && cur.IsUsed != models.Yes && next.IsDeleted == models.No {
		if err := ensureCapacity(ctx, tx, workspaceID, usedLimit); err != nil {
			return nil, err
		}
	}

	err = tx.QueryRowContext(ctx, `
		UPDATE templates SET is_used = $1, is_deleted = $2, updated_at = NOW()
		WHERE id = $3
		RETURNING id, is_used, is_deleted
	`, next.IsUsed, next.IsDeleted, id).Scan(&next.TemplateID, &next.IsUsed, &next.IsDeleted)
	if err != nil {
		return nil, fmt.Errorf("update template status: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit template status: %w", err)
	}
	return &next, nil
}

// FindByID retrieves a template by its UUID within a workspace. Returns nil if not found.
func (s *TemplateStore) FindByID(ctx context.Context, workspaceID string, id uuid.UUID) (*models.Template, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+templateColumns+`
		FROM templates WHERE id = $1 AND workspace_id = $2
	`, id, workspaceID)
	t, err := scanTemplate(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find template by id: %w", err)
	}
	return t, nil
}

// List returns the workspace's templates matching filter, used ones first,
// then most recently updated.
func (s *TemplateStore) List(ctx context.Context, workspaceID string, filter models.TemplateFilter) ([]models.Template, error) {
	where := []string{"workspace_id = $1"}
	args := []any{workspaceID}
	if filter.IsUsed != nil {
		args = append(args, *filter.IsUsed)
		where = append(where, fmt.Sprintf("is_used = $%d", len(args)))
	}
	if filter.IsDeleted != nil {
		args = append(args, *filter.IsDeleted)
		where = append(where, fmt.Sprintf("is_deleted = $%d", len(args)))
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+templateColumns+`
		FROM templates
		WHERE `+strings.Join(where, " AND ")+`
		ORDER BY is_used DESC, updated_at DESC
	`, args...)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	defer rows.Close()

	templates := []models.Template{}
	for rows.Next() {
		t, err := scanTemplate(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template: %w", err)
		}
		templates = append(templates, *t)
	}
	return templates, rows.Err()
}

// CountUsed returns the number of live templates flagged as used.
func (s *TemplateStore) CountUsed(ctx context.Context, workspaceID string) (int, error) {
	return countUsed(ctx, s.db, workspaceID)
}
