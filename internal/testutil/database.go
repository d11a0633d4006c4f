// Package testutil provides shared test helpers for rupee-flow: an in-memory database
// and a fluent builder for parsed transactions.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/Veraticus/rupee-flow/internal/model"
	"github.com/Veraticus/rupee-flow/internal/storage"
)

// TestDB represents a migrated in-memory database scoped to one test.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates a new in-memory test database.
// It automatically handles migrations and cleanup.
//
// Example:
//
//	db := testutil.SetupTestDB(t)
//	db.MustSave(testutil.NewTransaction().Debit("250").Build())
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	return SetupTestDBWithOptions(t, TestDBOptions{})
}

// TestDBOptions provides configuration options for test database setup.
type TestDBOptions struct {
	Snapshot       *model.Snapshot
	Transactions   []model.ParsedTransaction
	SkipMigrations bool
}

// SetupTestDBWithOptions creates a test database with custom options.
func SetupTestDBWithOptions(t *testing.T, opts TestDBOptions) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	store.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))

	t.Cleanup(func() {
		_ = store.Close()
	})

	db := &TestDB{Storage: store, t: t}
	if opts.SkipMigrations {
		return db
	}

	if err := store.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}
	if len(opts.Transactions) > 0 {
		db.MustSave(opts.Transactions...)
	}
	if opts.Snapshot != nil {
		if err := store.ReplaceHoldings(context.Background(), *opts.Snapshot); err != nil {
			t.Fatalf("failed to seed holdings: %v", err)
		}
	}
	return db
}

// MustSave stores transactions or fails the test.
func (db *TestDB) MustSave(txns ...model.ParsedTransaction) {
	db.t.Helper()
	if _, err := db.Storage.SaveParsedTransactions(context.Background(), txns); err != nil {
		db.t.Fatalf("failed to save transactions: %v", err)
	}
}
