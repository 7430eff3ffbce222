package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// Development identity rows so decorated listings show names instead of
// the unknown-user fallback.
var seedUsers = []struct {
	id, displayName, email string
}{
	{"dev-user", "Dev User", "dev@minutebook.local"},
	{"dev-editor", "Dev Editor", "editor@minutebook.local"},
}

// Seed populates the database with initial development data. It only
// inserts rows that are missing, so it is safe to call on every start.
func Seed(ctx context.Context, db *sql.DB) error {
	inserted := 0
	for _, u := range seedUsers {
		res, err := db.ExecContext(ctx, `
			INSERT INTO users (id, display_name, email)
			VALUES ($1, $2, $3)
			ON CONFLICT (id) DO NOTHING
		`, u.id, u.displayName, u.email)
		if err != nil {
			return fmt.Errorf("seed insert user %s: %w", u.id, err)
		}
		if n, _ := res.RowsAffected(); n > 0 {
			inserted++
		}
	}

	if inserted == 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	slog.Info("database seeded with development users", "count", inserted)
	return nil
}
