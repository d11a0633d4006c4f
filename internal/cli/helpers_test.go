package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/rupee-flow/internal/model"
)

func TestFormatINR(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "0", want: "₹0.00"},
		{in: "499.5", want: "₹499.50"},
		{in: "1234.567", want: "₹1,234.57"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, FormatINR(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatINRFloat(t *testing.T) {
	assert.Equal(t, "₹100.25", FormatINRFloat(100.25))
}

func TestTransactionTable(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		assert.Contains(t, TransactionTable(nil), "No transactions found")
	})

	t.Run("rows", func(t *testing.T) {
		txns := []model.StoredTransaction{
			{ID: "1", ParsedTransaction: model.ParsedTransaction{
				Timestamp:   time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
				Amount:      decimal.NewFromInt(1500),
				Type:        model.TransactionTypeDebit,
				Merchant:    "A very long merchant name that will not fit",
				Bank:        model.BankHDFC,
				Mode:        model.ModeUPI,
				ParseMethod: model.ParseMethodRegex,
			}},
			{ID: "2", ParsedTransaction: model.ParsedTransaction{
				Timestamp:   time.Date(2024, 3, 2, 9, 0, 0, 0, time.UTC),
				Amount:      decimal.NewFromInt(50000),
				Type:        model.TransactionTypeCredit,
				Merchant:    "ACME",
				Bank:        model.BankICICI,
				ParseMethod: model.ParseMethodAI,
			}},
		}

		out := TransactionTable(txns)
		assert.Contains(t, out, "Merchant")
		assert.Contains(t, out, "₹1,500.00")
		assert.Contains(t, out, "₹50,000.00")
		assert.Contains(t, out, "ACME")
		assert.Contains(t, out, "…")
		assert.NotContains(t, out, "will not fit")
		assert.Contains(t, out, "2 transactions")
	})
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab…", truncate("abcdef", 3))
	assert.Equal(t, "₹₹…", truncate("₹₹₹₹", 3))
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	p := NewProgress(&buf, 3, "Parsing SMS...")

	p.Update(1, 3)
	p.Update(3, 3)
	p.Finish()

	assert.True(t, strings.Contains(buf.String(), "Parsing SMS..."))
	assert.Contains(t, buf.String(), "3/3")
}

func TestFormatHelpers(t *testing.T) {
	assert.Contains(t, FormatSuccess("done"), "done")
	assert.Contains(t, FormatError("bad"), ErrorIcon)
	assert.Contains(t, FormatTitle("Insights"), RupeeIcon)
	assert.Contains(t, RenderBox("Import", "12 new"), "12 new")
}
