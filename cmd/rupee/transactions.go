package main

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/rupee-flow/internal/cli"
	"github.com/Veraticus/rupee-flow/internal/common"
	"github.com/Veraticus/rupee-flow/internal/model"
	"github.com/Veraticus/rupee-flow/internal/report"
	"github.com/Veraticus/rupee-flow/internal/service"
)

func transactionsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "transactions",
		Aliases: []string{"txns"},
		Short:   "List stored transactions",
		Long: `List transactions imported from bank SMS, newest first.

Use --format csv to open them in a spreadsheet, or --stats for totals.`,
		Example: `  rupee transactions --from 2024-01-01 --type debit
  rupee transactions --bank hdfc --format csv > hdfc.csv
  rupee transactions --stats`,
		Args: cobra.NoArgs,
		RunE: runTransactions,
	}

	cmd.Flags().String("from", "", "only transactions on or after this date (YYYY-MM-DD)")
	cmd.Flags().String("to", "", "only transactions on or before this date (YYYY-MM-DD)")
	cmd.Flags().String("type", "", "filter by type (debit, credit, unknown)")
	cmd.Flags().String("bank", "", "filter by bank (e.g. HDFC, ICICI)")
	cmd.Flags().Int("limit", 50, "maximum number of transactions (0 for all)")
	cmd.Flags().Int("offset", 0, "skip this many transactions")
	cmd.Flags().Bool("include-spam", false, "include transactions flagged as spam")
	cmd.Flags().String("format", "table", "output format (table, csv, json)")
	cmd.Flags().Bool("stats", false, "show totals instead of listing")

	return cmd
}

func runTransactions(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	stats, _ := cmd.Flags().GetBool("stats")
	format, _ := cmd.Flags().GetString("format")

	store, err := openStorage(ctx)
	if err != nil {
		return err
	}
	defer closeStorage(store)

	out := cmd.OutOrStdout()
	if stats {
		s, err := store.TransactionStats(ctx)
		if err != nil {
			return fmt.Errorf("failed to compute stats: %w", err)
		}
		_, err = fmt.Fprintln(out, cli.RenderBox(cli.ChartIcon+" Transaction stats", describeStats(s)))
		return err
	}

	filter, err := transactionFilter(cmd)
	if err != nil {
		return common.NewUserError(err.Error(), common.ErrInvalidInput)
	}

	txns, err := store.ListParsedTransactions(ctx, filter)
	if err != nil {
		return fmt.Errorf("failed to list transactions: %w", err)
	}

	return writeTransactions(out, txns, format)
}

func transactionFilter(cmd *cobra.Command) (service.TransactionFilter, error) {
	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	typ, _ := cmd.Flags().GetString("type")
	bank, _ := cmd.Flags().GetString("bank")
	limit, _ := cmd.Flags().GetInt("limit")
	offset, _ := cmd.Flags().GetInt("offset")
	includeSpam, _ := cmd.Flags().GetBool("include-spam")

	var filter service.TransactionFilter
	var err error
	if filter.StartDate, err = parseDate("from", from); err != nil {
		return filter, err
	}
	if filter.EndDate, err = parseDate("to", to); err != nil {
		return filter, err
	}
	if filter.EndDate != nil {
		end := filter.EndDate.AddDate(0, 0, 1).Add(-time.Nanosecond)
		filter.EndDate = &end
	}
	if typ != "" {
		t, ok := model.ParseTransactionType(typ)
		if !ok {
			return filter, fmt.Errorf("invalid --type %q: expected debit, credit or unknown", typ)
		}
		filter.Type = t
	}
	if limit < 0 || offset < 0 {
		return filter, fmt.Errorf("--limit and --offset must not be negative")
	}
	filter.Bank = model.Bank(strings.ToUpper(strings.TrimSpace(bank)))
	filter.Limit = limit
	filter.Offset = offset
	filter.IncludeSpam = includeSpam
	return filter, nil
}

func writeTransactions(w io.Writer, txns []model.StoredTransaction, format string) error {
	switch format {
	case "table":
		_, err := fmt.Fprintln(w, cli.TransactionTable(txns))
		return err
	case "csv":
		return report.WriteTransactionsCSV(w, txns)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(txns)
	default:
		return common.NewUserError(fmt.Sprintf("Unknown format %q, use table, csv or json.", format), common.ErrInvalidInput)
	}
}

func describeStats(s *service.TransactionStats) string {
	if s.Total == 0 {
		return "No transactions stored yet"
	}

	lines := []string{
		fmt.Sprintf("Transactions: %d (%d debits, %d credits, %d unknown)", s.Total, s.Debits, s.Credits, s.Unknown),
		fmt.Sprintf("Total debits:  %s", cli.FormatINR(s.TotalDebit)),
		fmt.Sprintf("Total credits: %s", cli.FormatINR(s.TotalCredit)),
		fmt.Sprintf("Spam:          %d", s.Spam),
		fmt.Sprintf("Parsed by AI:  %d", s.ParsedByAI),
	}
	if s.First != nil && s.Last != nil {
		lines = append(lines, fmt.Sprintf("Period:        %s to %s",
			s.First.Local().Format(dateLayout), s.Last.Local().Format(dateLayout)))
	}

	banks := make([]model.Bank, 0, len(s.ByBank))
	for b := range s.ByBank {
		banks = append(banks, b)
	}
	sort.Slice(banks, func(i, j int) bool {
		if s.ByBank[banks[i]] != s.ByBank[banks[j]] {
			return s.ByBank[banks[i]] > s.ByBank[banks[j]]
		}
		return banks[i] < banks[j]
	})
	if len(banks) > 0 {
		lines = append(lines, "", cli.TableHeaderStyle.Render("By bank"))
		for _, b := range banks {
			lines = append(lines, fmt.Sprintf("  %-22s %d", b.DisplayName(), s.ByBank[b]))
		}
	}
	return strings.Join(lines, "\n")
}
