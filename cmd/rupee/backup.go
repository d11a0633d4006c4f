package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/rupee-flow/internal/cli"
	"github.com/Veraticus/rupee-flow/internal/common"
	"github.com/Veraticus/rupee-flow/internal/storage"
)

func backupCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "backup <destination.db>",
		Short: "Write a verified copy of the database",
		Long: `Copy the database to a new file while it is in use and check the copy's integrity.

The destination must not exist.`,
		Args: cobra.ExactArgs(1),
		RunE: runBackup,
	}
}

func runBackup(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	dest, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("invalid backup path: %w", err)
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	info, err := store.Backup(ctx, dest)
	if err != nil {
		if errors.Is(err, storage.ErrBackupExists) {
			return common.NewUserError(fmt.Sprintf("%s already exists, choose a new file.", dest), err)
		}
		return fmt.Errorf("backup failed: %w", err)
	}

	tables := make([]string, 0, len(info.RowCounts))
	for t := range info.RowCounts {
		tables = append(tables, t)
	}
	sort.Strings(tables)

	lines := []string{
		fmt.Sprintf("Path:           %s", info.Path),
		fmt.Sprintf("Size:           %d bytes", info.Size),
		fmt.Sprintf("Schema version: %d", info.SchemaVersion),
	}
	for _, t := range tables {
		lines = append(lines, fmt.Sprintf("  %-18s %d rows", t, info.RowCounts[t]))
	}

	_, err = fmt.Fprintln(cmd.OutOrStdout(), cli.RenderBox(cli.SuccessIcon+" Backup complete", strings.Join(lines, "\n")))
	return err
}
