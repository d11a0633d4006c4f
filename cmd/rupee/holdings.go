package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Veraticus/rupee-flow/internal/cli"
	"github.com/Veraticus/rupee-flow/internal/common"
	"github.com/Veraticus/rupee-flow/internal/holdings"
	"github.com/Veraticus/rupee-flow/internal/model"
	"github.com/Veraticus/rupee-flow/internal/ofx"
	"github.com/Veraticus/rupee-flow/internal/storage"
)

func holdingsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "holdings",
		Short: "Manage the portfolio snapshot used for insights",
	}
	cmd.AddCommand(holdingsLoadCmd())
	cmd.AddCommand(holdingsImportOFXCmd())
	cmd.AddCommand(holdingsShowCmd())
	return cmd
}

func holdingsLoadCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "load <holdings.yaml>",
		Short: "Replace stored holdings with a YAML snapshot",
		Long: `Load assets, bank accounts, deposits and monthly cash flow from a YAML file.

The file replaces everything currently stored. Use "rupee holdings show --format yaml"
to get a file you can edit.`,
		Args: cobra.ExactArgs(1),
		RunE: runHoldingsLoad,
	}
	cmd.Flags().BoolP("yes", "y", false, "replace existing holdings without asking")
	return cmd
}

func runHoldingsLoad(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	yes, _ := cmd.Flags().GetBool("yes")

	snapshot, err := holdings.LoadFile(args[0])
	if err != nil {
		if errors.Is(err, holdings.ErrInvalidFile) || errors.Is(err, model.ErrInvalidSnapshot) {
			return common.NewUserError(err.Error(), common.ErrInvalidInput)
		}
		return err
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	existing, err := store.LoadHoldings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current holdings: %w", err)
	}

	out := cmd.OutOrStdout()
	if !yes && !isEmptySnapshot(existing) {
		prompter := cli.NewPrompter(cmd.InOrStdin(), out)
		ok, err := prompter.Confirm(ctx, fmt.Sprintf("Replace %s?", describeSnapshot(existing)), false)
		if err != nil {
			return err
		}
		if !ok {
			fmt.Fprintln(out, cli.FormatInfo("Holdings left unchanged"))
			return nil
		}
	}

	if err := store.ReplaceHoldings(ctx, snapshot); err != nil {
		return fmt.Errorf("failed to save holdings: %w", err)
	}

	fmt.Fprintln(out, cli.FormatSuccess("Loaded "+describeSnapshot(snapshot)))
	return nil
}

func holdingsImportOFXCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import-ofx <file.ofx>...",
		Short: "Import investment positions and bank balances from OFX/QFX files",
		Long: `Read brokerage positions and bank balances from one or more OFX/QFX statements.

Positions are matched by security id, so importing a newer statement updates
the values in place. Deposits and monthly cash flow are never touched.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runHoldingsImportOFX,
	}
	cmd.Flags().Bool("replace", false, "drop current assets and accounts instead of merging")
	cmd.Flags().BoolP("yes", "y", false, "do not ask how to combine with existing holdings")
	cmd.Flags().Bool("dry-run", false, "show what would be imported without saving")
	return cmd
}

const (
	ofxMerge = iota
	ofxReplace
	ofxCancel
)

func runHoldingsImportOFX(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	replace, _ := cmd.Flags().GetBool("replace")
	yes, _ := cmd.Flags().GetBool("yes")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	out := cmd.OutOrStdout()

	parser := ofx.NewParser(slog.Default())
	imported := make([]*ofx.Holdings, 0, len(args))
	for _, path := range args {
		h, err := parseOFXFile(cmd, parser, path)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("%s: %d positions, %d accounts, %d skipped",
			path, len(h.Assets), len(h.BankAccounts), h.Skipped)))
		imported = append(imported, h)
	}

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	existing, err := store.LoadHoldings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load current holdings: %w", err)
	}

	mode := ofxMerge
	if replace {
		mode = ofxReplace
	}
	if !replace && !yes && !dryRun && (len(existing.Assets) > 0 || len(existing.BankAccounts) > 0) {
		prompter := cli.NewPrompter(cmd.InOrStdin(), out)
		mode, err = prompter.Choose(ctx, "You already have "+describeSnapshot(existing)+".", []string{
			"Merge the statements into current holdings",
			"Replace current assets and bank accounts",
			"Cancel",
		})
		if err != nil {
			return err
		}
	}

	base := existing
	switch mode {
	case ofxCancel:
		fmt.Fprintln(out, cli.FormatInfo("Holdings left unchanged"))
		return nil
	case ofxReplace:
		base.Assets = nil
		base.BankAccounts = nil
	}

	result := base
	for _, h := range imported {
		result = h.ApplyTo(result)
	}
	if err := holdings.Validate(result); err != nil {
		return common.NewUserError("Imported holdings are not usable: "+err.Error(), err)
	}

	if dryRun {
		fmt.Fprintln(out, cli.FormatWarning("Dry run: would store "+describeSnapshot(result)))
		return nil
	}

	if err := store.ReplaceHoldings(ctx, result); err != nil {
		return fmt.Errorf("failed to save holdings: %w", err)
	}
	fmt.Fprintln(out, cli.FormatSuccess("Stored "+describeSnapshot(result)))
	return nil
}

func parseOFXFile(cmd *cobra.Command, parser *ofx.Parser, path string) (*ofx.Holdings, error) {
	f, err := os.Open(path) //nolint:gosec // path is user-supplied on purpose
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	h, err := parser.ParseHoldings(cmd.Context(), f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return h, nil
}

func holdingsShowCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show stored holdings",
		RunE:  runHoldingsShow,
	}
	cmd.Flags().String("format", "table", "output format (table, yaml)")
	cmd.Flags().StringP("output", "o", "", "write the YAML snapshot to this file")
	return cmd
}

func runHoldingsShow(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	snapshot, err := store.LoadHoldings(ctx)
	if err != nil {
		return fmt.Errorf("failed to load holdings: %w", err)
	}

	out := cmd.OutOrStdout()
	if output != "" {
		if err := holdings.WriteFile(output, snapshot); err != nil {
			return err
		}
		fmt.Fprintln(out, cli.FormatSuccess("Wrote holdings to "+output))
		return nil
	}

	switch format {
	case "yaml":
		return holdings.Encode(out, snapshot)
	case "table":
		if isEmptySnapshot(snapshot) {
			fmt.Fprintln(out, cli.FormatInfo(`No holdings stored yet. Run "rupee holdings load" first.`))
			return nil
		}
		return writeHoldingsTable(out, snapshot)
	default:
		return common.NewUserError(fmt.Sprintf("Unknown format %q, use table or yaml.", format), common.ErrInvalidInput)
	}
}

func writeHoldingsTable(w io.Writer, s model.Snapshot) error {
	var b strings.Builder

	b.WriteString(cli.FormatTitle("Holdings") + "\n")
	if len(s.Assets) > 0 {
		b.WriteString(cli.TableHeaderStyle.Render("Assets") + "\n")
		for _, a := range s.Assets {
			fmt.Fprintf(&b, "  %-32s %-14s %14s  P/L %s\n",
				a.Name, a.Type, cli.FormatINRFloat(a.CurrentValue), cli.FormatINRFloat(a.ProfitLoss))
		}
	}
	if len(s.BankAccounts) > 0 {
		b.WriteString(cli.TableHeaderStyle.Render("Bank accounts") + "\n")
		for _, acct := range s.BankAccounts {
			fmt.Fprintf(&b, "  %-32s %-14s %14s\n", acct.Name, acct.Bank, cli.FormatINRFloat(acct.Balance))
		}
	}
	if len(s.Deposits) > 0 {
		b.WriteString(cli.TableHeaderStyle.Render("Deposits") + "\n")
		for _, d := range s.Deposits {
			fmt.Fprintf(&b, "  %-32s %-14s %14s  @ %.2f%%\n",
				d.Name, d.Kind, cli.FormatINRFloat(d.CurrentValue), d.InterestRate)
		}
	}
	fmt.Fprintf(&b, "\nMonthly income %s, expenses %s\n",
		cli.FormatINRFloat(s.MonthlyIncome), cli.FormatINRFloat(s.MonthlyExpenses))

	_, err := io.WriteString(w, b.String())
	return err
}

func isEmptySnapshot(s model.Snapshot) bool {
	return len(s.Assets) == 0 && len(s.BankAccounts) == 0 && len(s.Deposits) == 0 &&
		s.MonthlyIncome == 0 && s.MonthlyExpenses == 0
}

func describeSnapshot(s model.Snapshot) string {
	return fmt.Sprintf("%d assets, %d bank accounts and %d deposits", len(s.Assets), len(s.BankAccounts), len(s.Deposits))
}

func closeStorage(store *storage.SQLiteStorage) {
	if err := store.Close(); err != nil {
		slog.Error("Failed to close storage", "error", err)
	}
}
