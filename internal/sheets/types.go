package sheets

import (
	"time"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// Tab titles written by the exporter.
const (
	SummaryTab      = "Summary"
	TransactionsTab = "Transactions"
)

// Export is everything one spreadsheet export writes.
type Export struct {
	GeneratedAt  time.Time
	Insights     *model.PortfolioInsights
	Transactions []model.StoredTransaction
}

// Tab is the cell grid for one sheet tab.
type Tab struct {
	Title string
	Rows  [][]any
	// MoneyColumns are zero-based column indexes formatted as rupee amounts.
	MoneyColumns []int64
	// HeaderRow is the zero-based row holding column headers, or -1.
	HeaderRow int64
	Columns   int64
}
