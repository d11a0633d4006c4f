package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/Veraticus/rupee-flow/internal/cli"
	"github.com/Veraticus/rupee-flow/internal/common"
	"github.com/Veraticus/rupee-flow/internal/ingest"
	"github.com/Veraticus/rupee-flow/internal/model"
)

func parseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parse [message]",
		Short: "Parse a single bank SMS",
		Long: `Parse one SMS and show the extracted transaction.

The message is taken from the arguments, or from stdin with --stdin.
Nothing is saved to the database.`,
		Example: `  rupee parse --sender HDFCBK "Rs.500 debited from a/c XX1234. UPI Ref 123456789012"
  pbpaste | rupee parse --stdin`,
		RunE: runParse,
	}

	cmd.Flags().String("sender", "", "sender id of the message (e.g. VM-HDFCBK)")
	cmd.Flags().Bool("stdin", false, "read the message from stdin")
	cmd.Flags().Bool("no-ai", false, "use only the regex extractor")
	cmd.Flags().String("format", "text", "output format (text, json)")

	return cmd
}

func runParse(cmd *cobra.Command, args []string) error {
	sender, _ := cmd.Flags().GetString("sender")
	fromStdin, _ := cmd.Flags().GetBool("stdin")
	noAI, _ := cmd.Flags().GetBool("no-ai")
	format, _ := cmd.Flags().GetString("format")

	body := strings.Join(args, " ")
	if fromStdin {
		data, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return fmt.Errorf("failed to read stdin: %w", err)
		}
		body = string(data)
	}
	body = strings.TrimSpace(body)
	if body == "" {
		return common.NewUserError("No message given. Pass it as an argument or use --stdin.", common.ErrInvalidInput)
	}

	resolver, cleanup, err := newResolver(noAI)
	if err != nil {
		return err
	}
	defer cleanup()

	outcome := resolver.Resolve(cmd.Context(), ingest.Message{
		Received: time.Now(),
		Sender:   sender,
		Body:     body,
	})

	out := cmd.OutOrStdout()
	if format == "json" {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(parseResult(outcome))
	}

	if !outcome.OK {
		_, err := fmt.Fprintln(out, cli.FormatWarning(fmt.Sprintf("Not a transaction: %v", outcome.Reason)))
		return err
	}
	if outcome.AIErr != nil {
		if _, err := fmt.Fprintln(out, cli.FormatInfo(fmt.Sprintf("AI parse failed, used regex: %v", outcome.AIErr))); err != nil {
			return err
		}
	}
	_, err = fmt.Fprintln(out, cli.RenderBox("Parsed transaction", describeTransaction(outcome.Transaction)))
	return err
}

type parseOutput struct {
	Transaction *model.ParsedTransaction `json:"transaction,omitempty"`
	Reason      string                   `json:"reason,omitempty"`
	AIError     string                   `json:"aiError,omitempty"`
	OK          bool                     `json:"ok"`
}

func parseResult(o ingest.Outcome) parseOutput {
	res := parseOutput{OK: o.OK}
	if o.OK {
		tx := o.Transaction
		res.Transaction = &tx
	} else if o.Reason != nil {
		res.Reason = o.Reason.Error()
	}
	if o.AIErr != nil {
		res.AIError = o.AIErr.Error()
	}
	return res
}

func describeTransaction(t model.ParsedTransaction) string {
	lines := []string{
		fmt.Sprintf("Type:       %s", t.Type),
		fmt.Sprintf("Amount:     %s", cli.FormatINR(t.Amount)),
	}
	if t.BalanceAfter != nil {
		lines = append(lines, fmt.Sprintf("Balance:    %s", cli.FormatINR(*t.BalanceAfter)))
	}
	optional := []struct{ label, value string }{
		{"Merchant:   ", t.Merchant},
		{"Account:    XX", t.AccountLast4},
		{"Reference:  ", t.ReferenceID},
		{"Mode:       ", string(t.Mode)},
	}
	for _, o := range optional {
		if o.value != "" {
			lines = append(lines, o.label+o.value)
		}
	}
	lines = append(lines,
		fmt.Sprintf("Bank:       %s", t.Bank),
		fmt.Sprintf("Parsed by:  %s (confidence %.2f)", t.ParseMethod, t.Confidence),
	)
	if t.IsSpam {
		lines = append(lines, cli.WarningStyle.Render("Looks like spam"))
	}
	return strings.Join(lines, "\n")
}
