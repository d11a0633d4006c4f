package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/rupee-flow/internal/cli"
	"github.com/Veraticus/rupee-flow/internal/common"
	"github.com/Veraticus/rupee-flow/internal/config"
	"github.com/Veraticus/rupee-flow/internal/ingest"
	"github.com/Veraticus/rupee-flow/internal/service"
	"github.com/Veraticus/rupee-flow/internal/smsbackup"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Import transactions from external sources",
	}
	cmd.AddCommand(importSMSCmd())
	return cmd
}

func importSMSCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sms <backup.xml>",
		Short: "Import bank SMS from an SMS Backup & Restore export",
		Long: `Parse every bank SMS in an "SMS Backup & Restore" XML export and store the
resulting transactions.

Messages are parsed by the configured AI provider first and fall back to the
regex extractor. Transactions are deduplicated, so importing the same backup
twice is safe.`,
		Example: `  rupee import sms ~/Downloads/sms-20240401.xml
  rupee import sms backup.xml --since 2024-01-01 --sender HDFCBK --sender ICICIB
  rupee import sms backup.xml --no-ai --dry-run`,
		Args: cobra.ExactArgs(1),
		RunE: runImportSMS,
	}

	cmd.Flags().String("since", "", "only import messages received on or after this date (YYYY-MM-DD)")
	cmd.Flags().StringSlice("sender", nil, "only import messages from these sender ids (repeatable)")
	cmd.Flags().Bool("include-sent", false, "also read messages sent from the phone")
	cmd.Flags().Bool("include-spam", false, "store transactions flagged as spam")
	cmd.Flags().Int("workers", 0, "concurrent parsers (default from ingest.workers)")
	cmd.Flags().Bool("dry-run", false, "parse and report without saving")
	cmd.Flags().Bool("no-progress", false, "hide the progress bar")
	cmd.Flags().Bool("no-ai", false, "use only the regex extractor")

	_ = viper.BindPFlag(config.KeyIngestWorkers, cmd.Flags().Lookup("workers"))
	_ = viper.BindPFlag(config.KeyIngestIncludeSpam, cmd.Flags().Lookup("include-spam"))

	return cmd
}

func runImportSMS(cmd *cobra.Command, args []string) error {
	sinceFlag, _ := cmd.Flags().GetString("since")
	senders, _ := cmd.Flags().GetStringSlice("sender")
	includeSent, _ := cmd.Flags().GetBool("include-sent")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	noProgress, _ := cmd.Flags().GetBool("no-progress")
	noAI, _ := cmd.Flags().GetBool("no-ai")

	since, err := parseDate("since", sinceFlag)
	if err != nil {
		return common.NewUserError(err.Error(), common.ErrInvalidInput)
	}

	opts := smsbackup.Options{Senders: senders, IncludeSent: includeSent}
	if since != nil {
		opts.Since = *since
	}

	backup, err := smsbackup.ReadFile(args[0], opts)
	if err != nil {
		return fmt.Errorf("failed to read SMS backup: %w", err)
	}
	slog.Info("Read SMS backup",
		"path", args[0],
		"total", backup.Total,
		"kept", len(backup.Messages),
		"duplicates", backup.Duplicates,
		"filtered", backup.Filtered,
		"invalid", backup.Invalid)

	out := cmd.OutOrStdout()
	if len(backup.Messages) == 0 {
		return common.NewUserError("No messages left to import after filtering.", common.ErrNoMessages)
	}

	resolver, cleanup, err := newResolver(noAI)
	if err != nil {
		return err
	}
	defer cleanup()

	handler := cli.NewInterruptHandler(cmd.ErrOrStderr())
	ctx := handler.HandleInterrupts(cmd.Context(),
		"No transactions from this run were saved. Re-running the import is safe.")

	fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%s Parsing %d messages", cli.InboxIcon, len(backup.Messages))))

	batch := ingest.BatchOptions{Workers: viper.GetInt(config.KeyIngestWorkers)}
	var progress *cli.Progress
	if !noProgress {
		progress = cli.NewProgress(cmd.ErrOrStderr(), len(backup.Messages), "Parsing SMS")
		batch.OnProgress = progress.Update
	}

	start := time.Now()
	outcomes, err := resolver.ResolveBatch(ctx, backup.Messages, batch)
	if err != nil {
		if handler.WasInterrupted() {
			return nil
		}
		return fmt.Errorf("failed to parse messages: %w", err)
	}
	if progress != nil {
		progress.Finish()
	}

	stats := ingest.Summarize(outcomes)
	txns := ingest.Transactions(outcomes, viper.GetBool(config.KeyIngestIncludeSpam))

	var saved service.SaveResult
	if !dryRun && len(txns) > 0 {
		store, err := openStorage(ctx)
		if err != nil {
			return err
		}
		defer closeStorage(store)

		saved, err = store.SaveParsedTransactions(ctx, txns)
		if err != nil {
			return fmt.Errorf("failed to save transactions: %w", err)
		}
	}

	fmt.Fprintln(out, cli.RenderBox("Import summary", importSummary(backup, stats, saved, resolver.AIEnabled(), dryRun, time.Since(start))))
	return nil
}

func importSummary(backup *smsbackup.Result, stats ingest.Stats, saved service.SaveResult, aiEnabled, dryRun bool, elapsed time.Duration) string {
	lines := []string{
		fmt.Sprintf("Messages read:      %d (%d duplicates, %d filtered, %d invalid)",
			backup.Total, backup.Duplicates, backup.Filtered, backup.Invalid),
		fmt.Sprintf("Transactions found: %d (%d debits, %d credits)", stats.Parsed, stats.Debits, stats.Credits),
		fmt.Sprintf("Skipped:            %d (%d not transactional, %d without amount)",
			stats.Skipped(), stats.NotTransactional, stats.NoAmount),
		fmt.Sprintf("Flagged as spam:    %d", stats.Spam),
	}
	if aiEnabled {
		lines = append(lines, fmt.Sprintf("%s Parsed by AI:    %d (%d cached, %d AI failures)",
			cli.RobotIcon, stats.AI, stats.CacheHits, stats.AIFailures))
	}
	lines = append(lines, fmt.Sprintf("Parsed by regex:    %d", stats.Regex))

	if dryRun {
		lines = append(lines, "", cli.FormatWarning("Dry run: nothing was saved"))
	} else {
		lines = append(lines, "", cli.FormatSuccess(fmt.Sprintf("Saved %d new transactions (%d already stored)",
			saved.Inserted, saved.Duplicates)))
	}
	lines = append(lines, cli.SubtleStyle.Render(fmt.Sprintf("Finished in %s", elapsed.Round(time.Millisecond))))
	return strings.Join(lines, "\n")
}
