// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"minutebook/internal/models"
)

// templateRevisionColumns lists all columns for template_revisions SELECTs.
const templateRevisionColumns = `id, template_id, version, title, modules,
	description, editor_id, created_at`

// TemplateRevisionStore provides read access to template revisions. Rows are
// only written by TemplateStore inside its create and update transactions.
type TemplateRevisionStore struct {
	db *sql.DB
}

// NewTemplateRevisionStore creates a new TemplateRevisionStore backed by the given database.
func NewTemplateRevisionStore(db *sql.DB) *TemplateRevisionStore {
	return &TemplateRevisionStore{db: db}
}

// scanTemplateRevision scans a single template_revisions row into a TemplateRevision.
func scanTemplateRevision(scanner interface{ Scan(...any) error }) (*models.TemplateRevision, error) {
	var r models.TemplateRevision
	err := scanner.Scan(
		&r.ID, &r.TemplateID, &r.Version, &r.Title, &r.Modules,
		&r.Description, &r.EditorID, &r.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// insertRevision snapshots t into template_revisions using the caller's transaction.
func insertRevision(ctx context.Context, tx *sql.Tx, t *models.Template) (*models.TemplateRevision, error) {
	row := tx.QueryRowContext(ctx, `
		INSERT INTO template_revisions (
			template_id, version, title, modules, description, editor_id
		) VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+templateRevisionColumns,
		t.ID, t.Version, t.Title, t.Modules, t.Description, t.EditorID,
	)
	rev, err := scanTemplateRevision(row)
	if err != nil {
		return nil, fmt.Errorf("create template revision: %w", err)
	}
	return rev, nil
}

// ListByTemplateID returns all revisions for a template, newest first.
func (s *TemplateRevisionStore) ListByTemplateID(ctx context.Context, templateID uuid.UUID) ([]models.TemplateRevision, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+templateRevisionColumns+`
		FROM template_revisions
		WHERE template_id = $1
		ORDER BY created_at DESC, id DESC
	`, templateID)
	if err != nil {
		return nil, fmt.Errorf("list template revisions: %w", err)
	}
	defer rows.Close()

	revisions := []models.TemplateRevision{}
	for rows.Next() {
		r, err := scanTemplateRevision(rows)
		if err != nil {
			return nil, fmt.Errorf("scan template revision: %w", err)
		}
		revisions = append(revisions, *r)
	}
	return revisions, rows.Err()
}

// CountByTemplateID returns how many revisions a template has.
func (s *TemplateRevisionStore) CountByTemplateID(ctx context.Context, templateID uuid.UUID) (int, error) {
	var n int
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM template_revisions WHERE template_id = $1`, templateID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count template revisions: %w", err)
	}
	return n, nil
}
