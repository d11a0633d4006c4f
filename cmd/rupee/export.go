package main

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/rupee-flow/internal/cli"
	"github.com/Veraticus/rupee-flow/internal/common"
	"github.com/Veraticus/rupee-flow/internal/config"
	"github.com/Veraticus/rupee-flow/internal/service"
	"github.com/Veraticus/rupee-flow/internal/sheets"
)

// newExporter is swapped out in tests.
var newExporter = func(ctx context.Context) (sheets.Exporter, error) {
	cfg, err := config.LoadSheetsConfig(viper.GetViper())
	if err != nil {
		return nil, common.NewUserError("Google Sheets is not configured. Set sheets.service_account_path, or run \"rupee sheets auth\".", err)
	}
	return sheets.NewWriter(ctx, *cfg, slog.Default())
}

func exportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export insights and transactions",
	}
	cmd.AddCommand(exportSheetsCmd())
	return cmd
}

func exportSheetsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sheets",
		Short: "Write insights and transactions to a Google spreadsheet",
		Long: `Export a Summary tab with portfolio insights and a Transactions tab with every
stored transaction to Google Sheets.

Without sheets.spreadsheet_id a new spreadsheet is created. Existing tabs are
cleared and rewritten on every export.`,
		Args: cobra.NoArgs,
		RunE: runExportSheets,
	}
	cmd.Flags().String("from", "", "only export transactions on or after this date (YYYY-MM-DD)")
	cmd.Flags().Bool("include-spam", false, "include transactions flagged as spam")
	cmd.Flags().Bool("no-ai", false, "use the rule-based summary")
	return cmd
}

func runExportSheets(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	from, _ := cmd.Flags().GetString("from")
	includeSpam, _ := cmd.Flags().GetBool("include-spam")
	noAI, _ := cmd.Flags().GetBool("no-ai")

	start, err := parseDate("from", from)
	if err != nil {
		return common.NewUserError(err.Error(), common.ErrInvalidInput)
	}

	exporter, err := newExporter(ctx)
	if err != nil {
		return err
	}

	snapshot, err := loadSnapshot(ctx, "")
	if err != nil {
		return err
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	txns, err := store.ListParsedTransactions(ctx, service.TransactionFilter{StartDate: start, IncludeSpam: includeSpam})
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}

	export := sheets.Export{GeneratedAt: time.Now(), Transactions: txns}
	out := cmd.OutOrStdout()
	if isEmptySnapshot(snapshot) {
		fmt.Fprintln(out, cli.FormatWarning("No holdings stored, exporting transactions only"))
	} else {
		r, err := generateInsights(ctx, snapshot, noAI)
		if err != nil {
			return err
		}
		export.Insights = &r
	}

	id, err := exporter.Export(ctx, export)
	if err != nil {
		return fmt.Errorf("export failed: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess(fmt.Sprintf("Exported %d transactions", len(txns))))
	fmt.Fprintln(out, cli.FormatInfo("https://docs.google.com/spreadsheets/d/"+id))
	return nil
}
