// store_test.go provides the shared helpers for store tests: a sqlmock
// constructor for hermetic tests and a real database for integration
// tests, which are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"

	"minutebook/internal/database"
	"minutebook/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "minutebook")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "minutebook")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := sql.Open("pgx", testDSN())
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

// testWorkspace returns a workspace id unique to this test run and removes
// its rows when the test finishes.
func testWorkspace(t *testing.T, db *sql.DB) string {
	t.Helper()
	ws := "ws-test-" + uuid.NewString()[:8]
	t.Cleanup(func() {
		db.Exec("DELETE FROM templates WHERE workspace_id = $1", ws)
		db.Exec("DELETE FROM module_catalogs WHERE workspace_id = $1", ws)
	})
	return ws
}

// newMock returns a sqlmock-backed *sql.DB that verifies every expectation
// was met when the test ends.
func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unmet sql expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

var (
	templateCols = []string{
		"id", "workspace_id", "version", "title", "modules", "description",
		"creator_id", "editor_id", "preview", "is_used", "is_deleted", "created_at", "updated_at",
	}
	revisionCols = []string{
		"id", "template_id", "version", "title", "modules", "description", "editor_id", "created_at",
	}
)

// templateRows renders t as the single row a RETURNING clause would produce.
func templateRows(t *models.Template) *sqlmock.Rows {
	modules, _ := t.Modules.Value()
	return sqlmock.NewRows(templateCols).AddRow(
		t.ID.String(), t.WorkspaceID, t.Version, t.Title, modules, t.Description,
		t.CreatorID, t.EditorID, t.Preview, string(t.IsUsed), string(t.IsDeleted),
		t.CreatedAt, t.UpdatedAt,
	)
}

func revisionRows(t *models.Template) *sqlmock.Rows {
	modules, _ := t.Modules.Value()
	return sqlmock.NewRows(revisionCols).AddRow(
		uuid.NewString(), t.ID.String(), t.Version, t.Title, modules, t.Description,
		t.EditorID, time.Now(),
	)
}

func sampleModules() models.Modules {
	return models.Modules{{
		Index:     0,
		ModuleKey: "title",
		Items:     []models.ModuleItem{{Index: 0, Kind: models.ItemKindBasic, Value: "{{title}}"}},
	}}
}

func sampleTemplate(ws string) *models.Template {
	now := time.Now()
	return &models.Template{
		ID:          uuid.New(),
		WorkspaceID: ws,
		Version:     "1.0",
		Title:       "Weekly sync",
		Modules:     sampleModules(),
		Description: "team sync notes",
		CreatorID:   "dev-user",
		EditorID:    "dev-user",
		Preview:     "{{title}}",
		IsUsed:      models.No,
		IsDeleted:   models.No,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}
