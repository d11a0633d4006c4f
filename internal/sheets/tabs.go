package sheets

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/rupee-flow/internal/model"
	"github.com/Veraticus/rupee-flow/internal/report"
)

var bucketOrder = []model.Bucket{model.BucketEquity, model.BucketDebt, model.BucketGold, model.BucketCash}

// BuildTabs lays out the export as sheet tabs. The summary tab is always first.
func BuildTabs(e Export) []Tab {
	return []Tab{summaryTab(e), transactionsTab(e.Transactions)}
}

func summaryTab(e Export) Tab {
	rows := [][]any{
		{"Rupee Flow", e.GeneratedAt.Format("2006-01-02 15:04")},
		{},
	}

	if r := e.Insights; r != nil {
		m := r.Metrics
		rows = append(rows,
			[]any{"Summary", r.Summary},
			[]any{},
			[]any{"Metric", "Value"},
			[]any{"Net worth", round2(m.NetWorth)},
			[]any{"Total invested", round2(m.TotalInvested)},
			[]any{"Profit/loss", round2(m.ProfitLoss)},
			[]any{"Profit/loss %", round2(m.ProfitLossPct)},
		)
		if m.PredictedNextMonthExpense > 0 {
			rows = append(rows, []any{"Projected spending", round2(m.PredictedNextMonthExpense)})
		}

		rows = append(rows, []any{}, []any{"Allocation", "Current %", "Ideal %"})
		for _, b := range bucketOrder {
			rows = append(rows, []any{string(b), round2(r.Allocation.Current[b]), round2(r.Allocation.Ideal[b])})
		}

		rows = append(rows,
			[]any{},
			[]any{"Risk", r.Risk.RiskLevel, r.Risk.RiskScore},
			[]any{"Diversification", r.Risk.DiversificationLevel, r.Risk.DiversificationScore},
		)

		if len(r.Suggestions) > 0 {
			rows = append(rows, []any{}, []any{"Suggestions", "Priority", "Action"})
			for _, s := range r.Suggestions {
				rows = append(rows, []any{textCell(s.Title), string(s.Priority), textCell(s.ActionItem)})
			}
		}
	}

	debits, credits := decimal.Zero, decimal.Zero
	for _, t := range e.Transactions {
		switch t.Type {
		case model.TransactionTypeDebit:
			debits = debits.Add(t.Amount)
		case model.TransactionTypeCredit:
			credits = credits.Add(t.Amount)
		}
	}
	rows = append(rows,
		[]any{},
		[]any{"Transactions", len(e.Transactions)},
		[]any{"Total debits", debits.InexactFloat64()},
		[]any{"Total credits", credits.InexactFloat64()},
	)

	return Tab{Title: SummaryTab, Rows: rows, HeaderRow: -1, Columns: 3}
}

func transactionsTab(txns []model.StoredTransaction) Tab {
	rows := make([][]any, 0, len(txns)+1)
	rows = append(rows, toCells(report.TransactionHeaders))
	for _, t := range txns {
		rows = append(rows, toCells(report.TransactionRow(t)))
	}
	return Tab{
		Title:        TransactionsTab,
		Rows:         rows,
		HeaderRow:    0,
		Columns:      int64(len(report.TransactionHeaders)),
		MoneyColumns: []int64{3, 4},
	}
}

func toCells(values []string) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = textCell(v)
	}
	return cells
}

// textCell stops USER_ENTERED input from evaluating SMS text as a formula.
func textCell(s string) string {
	if s != "" && strings.ContainsRune("=+@", rune(s[0])) {
		return "'" + s
	}
	return s
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
