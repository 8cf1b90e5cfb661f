package database_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/crewsense/crewsense-core/internal/infrastructure/database"
	_ "github.com/crewsense/crewsense-core/migrations" // registers embedded migrations
)

func testConfig(t *testing.T) database.Config {
	t.Helper()
	return database.Config{
		Path:        filepath.Join(t.TempDir(), "crewsense.db"),
		WALMode:     true,
		BusyTimeout: 5,
	}
}

func openTestDB(t *testing.T) *database.DB {
	t.Helper()

	db, err := database.Open(testConfig(t))
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	t.Cleanup(func() { db.Close() }) //nolint:errcheck
	return db
}

func TestOpen(t *testing.T) {
	cfg := testConfig(t)

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer db.Close()

	if db.Path() != cfg.Path {
		t.Errorf("Path() = %q, want %q", db.Path(), cfg.Path)
	}
	if _, err := os.Stat(cfg.Path); err != nil {
		t.Errorf("database file not created: %v", err)
	}
}

func TestOpenCreatesDirectory(t *testing.T) {
	cfg := database.Config{
		Path:        filepath.Join(t.TempDir(), "nested", "dir", "crewsense.db"),
		BusyTimeout: 5,
	}

	db, err := database.Open(cfg)
	if err != nil {
		t.Fatalf("Open() error: %v", err)
	}
	defer db.Close()
}

func TestHealthCheck(t *testing.T) {
	db := openTestDB(t)

	if err := db.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error: %v", err)
	}
}

func TestMigrateCreatesMediaIndex(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}

	// The media table must exist and accept the shapes the repository writes.
	_, err := db.ExecContext(ctx, `
		INSERT INTO media (device_id, kind, storage_ref, size_bytes, captured_at)
		VALUES ('FF1', 'image', 'images/test.png', 123, '2026-08-28T10:00:00Z')
	`)
	if err != nil {
		t.Fatalf("inserting into migrated media table: %v", err)
	}

	var kind string
	err = db.QueryRowContext(ctx, "SELECT kind FROM media WHERE device_id = 'FF1'").Scan(&kind)
	if err != nil || kind != "image" {
		t.Errorf("kind = %q, err = %v", kind, err)
	}
}

func TestMigrateRejectsUnknownKind(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO media (device_id, kind, storage_ref, size_bytes, captured_at)
		VALUES ('FF1', 'hologram', 'x', 1, '2026-08-28T10:00:00Z')
	`)
	if err == nil {
		t.Error("schema accepted an unknown media kind")
	}
}

func TestMigrateIsIdempotent(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("first Migrate() error: %v", err)
	}
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("second Migrate() error: %v", err)
	}

	applied, pending, err := db.GetMigrationStatus(ctx)
	if err != nil {
		t.Fatalf("GetMigrationStatus() error: %v", err)
	}
	if len(pending) != 0 {
		t.Errorf("%d migrations still pending after Migrate()", len(pending))
	}
	if len(applied) == 0 {
		t.Error("no migrations recorded as applied")
	}
}

func TestMigrateDown(t *testing.T) {
	db := openTestDB(t)
	ctx := context.Background()

	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() error: %v", err)
	}
	if err := db.MigrateDown(ctx); err != nil {
		t.Fatalf("MigrateDown() error: %v", err)
	}

	// Re-applying after a rollback must succeed.
	if err := db.Migrate(ctx); err != nil {
		t.Fatalf("Migrate() after rollback error: %v", err)
	}
}
