package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/Veraticus/rupee-flow/internal/model"
)

const (
	maxMerchantWidth = 28
	amountColumn     = 3
)

// TransactionTable renders stored transactions as an aligned, colored table.
func TransactionTable(txns []model.StoredTransaction) string {
	if len(txns) == 0 {
		return SubtleStyle.Render("No transactions found")
	}

	headers := []string{"Date", "Bank", "Type", "Amount", "Merchant", "Mode", "Via"}
	rows := make([][]string, 0, len(txns))
	for _, t := range txns {
		rows = append(rows, []string{
			t.Timestamp.Local().Format("02 Jan 2006 15:04"),
			string(t.Bank),
			string(t.Type),
			FormatINR(t.Amount),
			truncate(t.Merchant, maxMerchantWidth),
			string(t.Mode),
			strings.ToLower(string(t.ParseMethod)),
		})
	}

	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = lipgloss.Width(h)
	}
	for _, row := range rows {
		for i, cell := range row {
			widths[i] = max(widths[i], lipgloss.Width(cell))
		}
	}

	var b strings.Builder
	for i, h := range headers {
		b.WriteString(TableHeaderStyle.Width(widths[i] + 2).Render(h))
	}
	b.WriteString("\n")

	for ri, row := range rows {
		for i, cell := range row {
			if i == amountColumn {
				b.WriteString(amountStyle(txns[ri].Type).Width(widths[i] + 2).Align(lipgloss.Right).Render(cell))
				continue
			}
			b.WriteString(TableCellStyle.Width(widths[i] + 2).Render(cell))
		}
		b.WriteString("\n")
	}

	b.WriteString(SubtleStyle.Render(fmt.Sprintf("%d transactions", len(txns))))
	return b.String()
}

func amountStyle(t model.TransactionType) lipgloss.Style {
	switch t {
	case model.TransactionTypeDebit:
		return DebitStyle
	case model.TransactionTypeCredit:
		return CreditStyle
	default:
		return TableCellStyle
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
