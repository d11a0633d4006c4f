package storage

import (
	"context"
	"database/sql"
	"fmt"
)

// ExpectedSchemaVersion is the latest schema version that the application expects.
// If the database cannot be migrated to this version, it's a fatal error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Parsed SMS transactions",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS sms_transactions (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					received_at DATETIME NOT NULL,
					sender TEXT NOT NULL DEFAULT '',
					bank TEXT NOT NULL,
					type TEXT NOT NULL,
					amount TEXT NOT NULL,
					balance_after TEXT,
					merchant TEXT NOT NULL,
					account_last4 TEXT NOT NULL DEFAULT '',
					reference_id TEXT NOT NULL DEFAULT '',
					mode TEXT NOT NULL DEFAULT '',
					raw_text TEXT NOT NULL,
					parse_method TEXT NOT NULL,
					confidence REAL NOT NULL,
					is_spam INTEGER NOT NULL DEFAULT 0,
					imported_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_sms_transactions_received ON sms_transactions(received_at)`,
				`CREATE INDEX idx_sms_transactions_type ON sms_transactions(type)`,
			)
		},
	},
	{
		Version:     2,
		Description: "Holdings snapshot tables",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE TABLE IF NOT EXISTS assets (
					id TEXT PRIMARY KEY,
					position INTEGER NOT NULL,
					name TEXT NOT NULL,
					type TEXT NOT NULL,
					current_value REAL NOT NULL,
					profit_loss REAL NOT NULL DEFAULT 0,
					units REAL NOT NULL DEFAULT 0
				)`,
				`CREATE TABLE IF NOT EXISTS bank_accounts (
					id TEXT PRIMARY KEY,
					position INTEGER NOT NULL,
					name TEXT NOT NULL,
					bank TEXT NOT NULL DEFAULT '',
					balance REAL NOT NULL
				)`,
				`CREATE TABLE IF NOT EXISTS deposits (
					id TEXT PRIMARY KEY,
					position INTEGER NOT NULL,
					name TEXT NOT NULL,
					kind TEXT NOT NULL,
					principal REAL NOT NULL,
					current_value REAL NOT NULL,
					interest_rate REAL NOT NULL DEFAULT 0,
					maturity_date DATETIME
				)`,
				`CREATE TABLE IF NOT EXISTS cash_flow_profile (
					id INTEGER PRIMARY KEY CHECK (id = 1),
					monthly_income REAL NOT NULL DEFAULT 0,
					monthly_expenses REAL NOT NULL DEFAULT 0,
					updated_at DATETIME NOT NULL
				)`,
			)
		},
	},
	{
		Version:     3,
		Description: "Add bank and merchant indexes",
		Up: func(tx *sql.Tx) error {
			return execAll(tx,
				`CREATE INDEX IF NOT EXISTS idx_sms_transactions_bank ON sms_transactions(bank)`,
				`CREATE INDEX IF NOT EXISTS idx_sms_transactions_merchant ON sms_transactions(merchant)`,
			)
		},
	},
}

func execAll(tx *sql.Tx, queries ...string) error {
	for _, query := range queries {
		if _, err := tx.Exec(query); err != nil {
			return fmt.Errorf("failed to execute query: %w", err)
		}
	}
	return nil
}

// Migrate applies every migration newer than the database's user_version.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if currentVersion > ExpectedSchemaVersion {
		return fmt.Errorf("database schema version %d is newer than this build supports (%d)", currentVersion, ExpectedSchemaVersion)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		s.logger.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	finalVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}
	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}

// PendingMigrations returns the migrations Migrate would apply.
func (s *SQLiteStorage) PendingMigrations(ctx context.Context) ([]Migration, error) {
	currentVersion, err := s.SchemaVersion(ctx)
	if err != nil {
		return nil, err
	}
	var pending []Migration
	for _, m := range migrations {
		if m.Version > currentVersion {
			pending = append(pending, m)
		}
	}
	return pending, nil
}
