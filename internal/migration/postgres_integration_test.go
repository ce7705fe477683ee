package migration

import (
	"database/sql"
	"io/fs"
	"os"
	"testing"

	_ "github.com/lib/pq"

	"github.com/julianstephens/habitual/migrations"
)

// Set POSTGRES_TEST_URL to run these tests, e.g.
// POSTGRES_TEST_URL="postgres://user@localhost:5432/testdb?sslmode=disable"
func setupPostgresTestDB(t *testing.T) *sql.DB {
	connStr := os.Getenv("POSTGRES_TEST_URL")
	if connStr == "" {
		t.Skip("POSTGRES_TEST_URL not set, skipping PostgreSQL integration test")
	}

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		t.Fatalf("failed to open postgres database: %v", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		t.Fatalf("failed to ping postgres database: %v", err)
	}

	t.Cleanup(func() {
		for _, table := range []string{"schema_version", "achievements", "completions", "habits", "settings"} {
			db.Exec("DROP TABLE IF EXISTS " + table)
		}
		db.Close()
	})
	return db
}

func TestPostgresSetVersion(t *testing.T) {
	db := setupPostgresTestDB(t)
	runner, err := NewRunner(db, os.DirFS(t.TempDir()), DriverPostgres)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	if err := runner.SetVersion(3); err != nil {
		t.Fatalf("SetVersion() error = %v", err)
	}
	if v, err := runner.GetCurrentVersion(); err != nil || v != 3 {
		t.Errorf("GetCurrentVersion() = %d, %v; want 3, nil", v, err)
	}
}

func TestPostgresEmbeddedMigrations(t *testing.T) {
	db := setupPostgresTestDB(t)
	sub, err := fs.Sub(migrations.FS, "postgres")
	if err != nil {
		t.Fatalf("fs.Sub() error = %v", err)
	}
	runner, err := NewRunner(db, sub, DriverPostgres)
	if err != nil {
		t.Fatalf("NewRunner() error = %v", err)
	}

	applied, err := runner.ApplyMigrations(nil)
	if err != nil {
		t.Fatalf("ApplyMigrations() error = %v", err)
	}
	if applied == 0 {
		t.Error("ApplyMigrations() applied nothing on a fresh database")
	}
	if again, err := runner.ApplyMigrations(nil); err != nil || again != 0 {
		t.Errorf("second ApplyMigrations() = %d, %v; want 0, nil", again, err)
	}
}
