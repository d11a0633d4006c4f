package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/rupee-flow/internal/cli"
	"github.com/Veraticus/rupee-flow/internal/config"
	"github.com/Veraticus/rupee-flow/internal/storage"
)

func migrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Run database migrations",
		Long: `Initialize or update the database schema to the latest version.

Other commands migrate automatically; use --status to see where the
database stands without changing it.`,
		Args: cobra.NoArgs,
		RunE: runMigrate,
	}

	cmd.Flags().Bool("status", false, "show current migration status without applying changes")

	return cmd
}

func runMigrate(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	status, _ := cmd.Flags().GetBool("status")
	dbPath := config.DatabasePath(viper.GetViper())

	slog.Info("Starting database migration", "database", dbPath, "status_only", status)

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer closeStorage(store)
	store.WithLogger(slog.Default())

	out := cmd.OutOrStdout()
	version, err := store.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	pending, err := store.PendingMigrations(ctx)
	if err != nil {
		return err
	}

	if status {
		fmt.Fprintf(out, "Database: %s\n", dbPath)
		fmt.Fprintf(out, "Schema version: %d (latest %d)\n", version, storage.ExpectedSchemaVersion)
		if len(pending) == 0 {
			fmt.Fprintln(out, cli.FormatSuccess("Database is up to date"))
			return nil
		}
		fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("%d pending migrations:", len(pending))))
		for _, m := range pending {
			fmt.Fprintf(out, "  %d  %s\n", m.Version, m.Description)
		}
		return nil
	}

	if len(pending) == 0 {
		fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Database is up to date (version %d)", version)))
		return nil
	}

	if err := store.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Applied %d migrations, schema version %d", len(pending), storage.ExpectedSchemaVersion)))
	return nil
}
