package storage

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
)

// Helper function to create a migrated file-backed storage.
func createTestStorage(t *testing.T) (*SQLiteStorage, func()) {
	t.Helper()
	tmpDir := t.TempDir()
	dbPath := filepath.Join(tmpDir, "test.db")

	store, err := NewSQLiteStorage(dbPath)
	if err != nil {
		t.Fatalf("Failed to create storage: %v", err)
	}
	store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		t.Fatalf("Failed to migrate: %v", err)
	}

	return store, func() { _ = store.Close() }
}

func TestNewSQLiteStorage(t *testing.T) {
	t.Run("empty path", func(t *testing.T) {
		_, err := NewSQLiteStorage("  ")
		if !errors.Is(err, ErrEmptyString) {
			t.Errorf("got %v, want ErrEmptyString", err)
		}
	})

	t.Run("creates parent directories", func(t *testing.T) {
		dbPath := filepath.Join(t.TempDir(), "nested", "dir", "rupee.db")
		store, err := NewSQLiteStorage(dbPath)
		if err != nil {
			t.Fatalf("NewSQLiteStorage() error = %v", err)
		}
		defer func() { _ = store.Close() }()

		if store.Path() != dbPath {
			t.Errorf("Path() = %q, want %q", store.Path(), dbPath)
		}
	})

	t.Run("in memory", func(t *testing.T) {
		store, err := NewSQLiteStorage(":memory:")
		if err != nil {
			t.Fatalf("NewSQLiteStorage() error = %v", err)
		}
		defer func() { _ = store.Close() }()

		version, err := store.SchemaVersion(context.Background())
		if err != nil {
			t.Fatalf("SchemaVersion() error = %v", err)
		}
		if version != 0 {
			t.Errorf("fresh database version = %d, want 0", version)
		}
	})
}

func TestWithLoggerIgnoresNil(t *testing.T) {
	store, cleanup := createTestStorage(t)
	defer cleanup()

	before := store.logger
	store.WithLogger(nil)
	if store.logger != before {
		t.Error("WithLogger(nil) replaced the logger")
	}
}
