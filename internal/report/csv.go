package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// TransactionHeaders are the CSV and sheet column names for stored transactions.
var TransactionHeaders = []string{
	"date", "bank", "type", "amount", "balance", "merchant", "mode",
	"account", "reference", "method", "confidence", "spam",
}

// TransactionRow flattens one stored transaction into TransactionHeaders order.
func TransactionRow(t model.StoredTransaction) []string {
	balance := ""
	if t.BalanceAfter != nil {
		balance = t.BalanceAfter.StringFixed(2)
	}
	return []string{
		t.Timestamp.Format("2006-01-02 15:04:05"),
		string(t.Bank),
		string(t.Type),
		t.Amount.StringFixed(2),
		balance,
		t.Merchant,
		string(t.Mode),
		t.AccountLast4,
		t.ReferenceID,
		string(t.ParseMethod),
		strconv.FormatFloat(t.Confidence, 'f', 2, 64),
		strconv.FormatBool(t.IsSpam),
	}
}

// WriteTransactionsCSV writes transactions with a UTF-8 byte order mark so spreadsheet apps pick up the rupee sign.
func WriteTransactionsCSV(w io.Writer, txns []model.StoredTransaction) error {
	if _, err := w.Write([]byte{0xEF, 0xBB, 0xBF}); err != nil {
		return fmt.Errorf("error writing BOM: %w", err)
	}

	cw := csv.NewWriter(w)
	if err := cw.Write(TransactionHeaders); err != nil {
		return fmt.Errorf("error writing header: %w", err)
	}
	for _, t := range txns {
		if err := cw.Write(TransactionRow(t)); err != nil {
			return fmt.Errorf("error writing transaction %s: %w", t.ID, err)
		}
	}
	cw.Flush()
	return cw.Error()
}
