package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/Veraticus/rupee-flow/internal/cli"
	"github.com/Veraticus/rupee-flow/internal/common"
	"github.com/Veraticus/rupee-flow/internal/config"
	"github.com/Veraticus/rupee-flow/internal/holdings"
	"github.com/Veraticus/rupee-flow/internal/model"
	"github.com/Veraticus/rupee-flow/internal/report"
	"github.com/Veraticus/rupee-flow/internal/tui"
	"github.com/Veraticus/rupee-flow/internal/tui/themes"
)

func insightsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "insights",
		Short: "Analyze your portfolio and spending",
		Long: `Combine stored holdings with recent SMS transactions into a portfolio report:
net worth, allocation against an ideal mix, risk, suggestions and what-if scenarios.

When an AI provider is configured the summary paragraph is written by the model;
otherwise a rule-based summary is used.`,
		Example: `  rupee insights
  rupee insights --format markdown > report.md
  rupee insights --holdings portfolio.yaml --tui`,
		Args: cobra.NoArgs,
		RunE: runInsights,
	}

	cmd.Flags().String("format", "terminal", "output format (terminal, markdown, json)")
	cmd.Flags().String("style", "", "terminal style (dark, light, notty); default detects the terminal")
	cmd.Flags().Int("width", 100, "wrap width for terminal output")
	cmd.Flags().Bool("tui", false, "browse the report interactively")
	cmd.Flags().Bool("no-ai", false, "use the rule-based summary")
	cmd.Flags().String("holdings", "", "read holdings from this YAML file instead of the database")

	return cmd
}

func runInsights(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	formatFlag, _ := cmd.Flags().GetString("format")
	style, _ := cmd.Flags().GetString("style")
	width, _ := cmd.Flags().GetInt("width")
	interactive, _ := cmd.Flags().GetBool("tui")
	noAI, _ := cmd.Flags().GetBool("no-ai")
	holdingsFile, _ := cmd.Flags().GetString("holdings")

	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return common.NewUserError(fmt.Sprintf("Unknown format %q, use terminal, markdown or json.", formatFlag), err)
	}

	snapshot, err := loadSnapshot(ctx, holdingsFile)
	if err != nil {
		return err
	}
	if isEmptySnapshot(snapshot) {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning(`No holdings stored yet. Run "rupee holdings load <file>" to fill in the report.`))
	}

	r, err := generateInsights(ctx, snapshot, noAI)
	if err != nil {
		return common.NewUserError("Could not analyze holdings: "+err.Error(), err)
	}

	if interactive {
		var tuiOpts []tui.Option
		if style != "" {
			tuiOpts = append(tuiOpts, tui.WithStyle(style), tui.WithTheme(themes.ByName(style)))
		}
		return tui.Run(ctx, r, tuiOpts...)
	}

	if err := report.Write(cmd.OutOrStdout(), r, report.Options{Format: format, Style: style, Width: width}); err != nil {
		return err
	}
	if format == report.FormatTerminal && r.SummarySource == model.SummaryAI {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.SubtleStyle.Render(cli.RobotIcon+" Summary written by AI"))
	}
	return nil
}

// loadSnapshot reads holdings from file, or from the database when file is empty,
// and attaches the ledger for the configured expense window.
func loadSnapshot(ctx context.Context, file string) (model.Snapshot, error) {
	store, err := openStorage(ctx)
	if err != nil {
		return model.Snapshot{}, err
	}
	defer closeStorage(store)

	var snapshot model.Snapshot
	if file != "" {
		snapshot, err = holdings.LoadFile(file)
		if err != nil {
			return model.Snapshot{}, common.NewUserError(err.Error(), common.ErrInvalidInput)
		}
	} else {
		snapshot, err = store.LoadHoldings(ctx)
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("failed to load holdings: %w", err)
		}
	}

	window := viper.GetDuration(config.KeyInsightsExpenseWindow)
	if window > 0 {
		entries, err := store.LedgerEntries(ctx, time.Now().Add(-window))
		if err != nil {
			return model.Snapshot{}, fmt.Errorf("failed to load transactions: %w", err)
		}
		snapshot.Transactions = entries
	}
	return snapshot, nil
}
