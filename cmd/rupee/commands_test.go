package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/rupee-flow/internal/common"
	"github.com/Veraticus/rupee-flow/internal/model"
	"github.com/Veraticus/rupee-flow/internal/sheets"
	"github.com/Veraticus/rupee-flow/internal/storage"
)

const debitSMS = "Rs.500 debited from a/c XX1234 on 01-01-24. Avl Bal: Rs.12,500.50. UPI Ref 123456789012 to swiggy@icici"

const smsBackupXML = `<?xml version='1.0' encoding='UTF-8' standalone='yes' ?>
<smses count="4">
  <sms protocol="0" address="VM-HDFCBK" date="1704067200000" type="1" body="Rs.500 debited from a/c XX1234 on 01-01-24. Avl Bal: Rs.12,500.50. UPI Ref 123456789012 to swiggy@icici" read="1" />
  <sms protocol="0" address="VM-HDFCBK" date="1704067200000" type="1" body="Rs.500 debited from a/c XX1234 on 01-01-24. Avl Bal: Rs.12,500.50. UPI Ref 123456789012 to swiggy@icici" read="1" />
  <sms protocol="0" address="AD-ICICIB" date="1704412800000" type="1" body="INR 2,000 credited to your account from salary." read="1" />
  <sms protocol="0" address="+919800000000" date="1704240000000" type="2" body="ok see you" read="1" />
</smses>
`

const holdingsYAML = `assets:
  - name: Index Fund
    type: MUTUAL_FUND
    current_value: 600000
    profit_loss: 100000
  - name: PPF
    type: PPF
    current_value: 200000
bank_accounts:
  - name: Savings
    bank: HDFC
    balance: 200000
monthly_income: 100000
monthly_expenses: 60000
`

const bankOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20240315120000[0:GMT]
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>INR
<BANKACCTFROM>
<BANKID>HDFC0000001
<ACCTID>50100012345678
<ACCTTYPE>SAVINGS
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20240101120000[0:GMT]
<DTEND>20240131120000[0:GMT]
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20240115120000[0:GMT]
<TRNAMT>-2550.00
<FITID>2024011501
<NAME>SWIGGY
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>120000.50
<DTASOF>20240131120000[0:GMT]
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>`

func TestParseCommand(t *testing.T) {
	env := newTestEnv(t)

	t.Run("text", func(t *testing.T) {
		out, err := env.run(t, "", "parse", "--sender", "HDFCBK", debitSMS)
		require.NoError(t, err)
		assert.Contains(t, out, "Parsed transaction")
		assert.Contains(t, out, "DEBIT")
		assert.Contains(t, out, "₹500.00")
		assert.Contains(t, out, "₹12,500.50")
		assert.Contains(t, out, "REGEX")
	})

	t.Run("json from stdin", func(t *testing.T) {
		out, err := env.run(t, debitSMS+"\n", "parse", "--stdin", "--sender", "HDFCBK", "--format", "json")
		require.NoError(t, err)

		var res parseOutput
		require.NoError(t, json.Unmarshal([]byte(out), &res))
		require.True(t, res.OK)
		require.NotNil(t, res.Transaction)
		assert.True(t, res.Transaction.Amount.Equal(decimal.NewFromInt(500)))
		assert.Equal(t, model.TransactionTypeDebit, res.Transaction.Type)
		assert.Equal(t, model.BankHDFC, res.Transaction.Bank)
		assert.Equal(t, "1234", res.Transaction.AccountLast4)
	})

	t.Run("not a transaction", func(t *testing.T) {
		out, err := env.run(t, "", "parse", "see you at dinner tonight")
		require.NoError(t, err)
		assert.Contains(t, out, "Not a transaction")
	})

	t.Run("empty message", func(t *testing.T) {
		_, err := env.run(t, "   ", "parse", "--stdin")
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})
}

func TestImportSMSCommand(t *testing.T) {
	env := newTestEnv(t)
	backup := env.write(t, "sms.xml", smsBackupXML)

	out, err := env.run(t, "", "import", "sms", backup, "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Import summary")
	assert.Contains(t, out, "Saved 2 new transactions (0 already stored)")
	assert.Contains(t, out, "1 duplicates")

	out, err = env.run(t, "", "import", "sms", backup, "--no-progress")
	require.NoError(t, err)
	assert.Contains(t, out, "Saved 0 new transactions (2 already stored)", "re-importing is idempotent")

	store, err := storage.NewSQLiteStorage(env.db)
	require.NoError(t, err)
	defer func() { _ = store.Close() }()
	stats, err := store.TransactionStats(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Debits)
	assert.Equal(t, 1, stats.Credits)
}

func TestImportSMSCommandOptions(t *testing.T) {
	env := newTestEnv(t)
	backup := env.write(t, "sms.xml", smsBackupXML)

	t.Run("dry run saves nothing", func(t *testing.T) {
		out, err := env.run(t, "", "import", "sms", backup, "--no-progress", "--dry-run")
		require.NoError(t, err)
		assert.Contains(t, out, "Dry run")
		_, statErr := os.Stat(env.db)
		assert.True(t, errors.Is(statErr, os.ErrNotExist), "dry run must not create the database")
	})

	t.Run("sender filter leaves nothing", func(t *testing.T) {
		_, err := env.run(t, "", "import", "sms", backup, "--sender", "SBIINB")
		assert.ErrorIs(t, err, common.ErrNoMessages)
	})

	t.Run("bad since", func(t *testing.T) {
		_, err := env.run(t, "", "import", "sms", backup, "--since", "yesterday")
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := env.run(t, "", "import", "sms", filepath.Join(env.dir, "nope.xml"))
		assert.Error(t, err)
	})
}

func TestTransactionsCommand(t *testing.T) {
	env := newTestEnv(t)
	backup := env.write(t, "sms.xml", smsBackupXML)
	_, err := env.run(t, "", "import", "sms", backup, "--no-progress")
	require.NoError(t, err)

	t.Run("table", func(t *testing.T) {
		out, err := env.run(t, "", "transactions")
		require.NoError(t, err)
		assert.Contains(t, out, "2 transactions")
	})

	t.Run("csv filtered by type", func(t *testing.T) {
		out, err := env.run(t, "", "transactions", "--format", "csv", "--type", "debit")
		require.NoError(t, err)
		data := bytes.TrimPrefix([]byte(out), []byte{0xEF, 0xBB, 0xBF})
		records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
		require.NoError(t, err)
		require.Len(t, records, 2)
		assert.Equal(t, "DEBIT", records[1][2])
		assert.Equal(t, "500.00", records[1][3])
	})

	t.Run("json filtered by bank", func(t *testing.T) {
		out, err := env.run(t, "", "transactions", "--format", "json", "--bank", "icici")
		require.NoError(t, err)
		var txns []model.StoredTransaction
		require.NoError(t, json.Unmarshal([]byte(out), &txns))
		require.Len(t, txns, 1)
		assert.Equal(t, model.TransactionTypeCredit, txns[0].Type)
	})

	t.Run("date range", func(t *testing.T) {
		out, err := env.run(t, "", "transactions", "--format", "json", "--from", "2023-01-01", "--to", "2023-06-30")
		require.NoError(t, err)
		assert.Equal(t, "null\n", out)
	})

	t.Run("stats", func(t *testing.T) {
		out, err := env.run(t, "", "transactions", "--stats")
		require.NoError(t, err)
		assert.Contains(t, out, "Transactions: 2 (1 debits, 1 credits, 0 unknown)")
		assert.Contains(t, out, "HDFC Bank")
	})

	t.Run("invalid input", func(t *testing.T) {
		tests := [][]string{
			{"transactions", "--type", "refund"},
			{"transactions", "--limit=-1"},
			{"transactions", "--format", "xml"},
		}
		for _, args := range tests {
			_, err := env.run(t, "", args...)
			assert.ErrorIs(t, err, common.ErrInvalidInput, args)
		}
	})
}

func TestHoldingsCommands(t *testing.T) {
	env := newTestEnv(t)
	file := env.write(t, "holdings.yaml", holdingsYAML)

	out, err := env.run(t, "", "holdings", "load", file)
	require.NoError(t, err)
	assert.Contains(t, out, "Loaded 2 assets, 1 bank accounts and 0 deposits")

	t.Run("declining keeps current holdings", func(t *testing.T) {
		other := env.write(t, "empty.yaml", "monthly_income: 1\n")
		out, err := env.run(t, "n\n", "holdings", "load", other)
		require.NoError(t, err)
		assert.Contains(t, out, "Replace 2 assets")
		assert.Contains(t, out, "Holdings left unchanged")
	})

	t.Run("show table", func(t *testing.T) {
		out, err := env.run(t, "", "holdings", "show")
		require.NoError(t, err)
		assert.Contains(t, out, "Index Fund")
		assert.Contains(t, out, "Savings")
		assert.Contains(t, out, "MUTUAL_FUND")
	})

	t.Run("show yaml round trips", func(t *testing.T) {
		out, err := env.run(t, "", "holdings", "show", "--format", "yaml")
		require.NoError(t, err)
		assert.Contains(t, out, "name: Index Fund")

		reloaded := env.write(t, "reloaded.yaml", out)
		_, err = env.run(t, "", "holdings", "load", "--yes", reloaded)
		require.NoError(t, err)
	})

	t.Run("invalid file", func(t *testing.T) {
		bad := env.write(t, "bad.yaml", "assets:\n  - name: X\n    type: STOCK\n    current_value: -5\n")
		_, err := env.run(t, "", "holdings", "load", "--yes", bad)
		assert.ErrorIs(t, err, common.ErrInvalidInput)
	})
}

func TestHoldingsShowFormats(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "holdings", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "No holdings stored yet")

	_, err = env.run(t, "", "holdings", "show", "--format", "xml")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestHoldingsImportOFXCommand(t *testing.T) {
	env := newTestEnv(t)
	ofxFile := env.write(t, "statement.ofx", bankOFX)

	out, err := env.run(t, "", "holdings", "import-ofx", ofxFile)
	require.NoError(t, err)
	assert.Contains(t, out, "0 positions, 1 accounts")
	assert.Contains(t, out, "Stored 0 assets, 1 bank accounts and 0 deposits")

	t.Run("cancel when asked", func(t *testing.T) {
		out, err := env.run(t, "3\n", "holdings", "import-ofx", ofxFile)
		require.NoError(t, err)
		assert.Contains(t, out, "Merge the statements")
		assert.Contains(t, out, "Holdings left unchanged")
	})

	t.Run("merge replaces the same account", func(t *testing.T) {
		out, err := env.run(t, "1\n", "holdings", "import-ofx", ofxFile)
		require.NoError(t, err)
		assert.Contains(t, out, "Stored 0 assets, 1 bank accounts")
	})

	t.Run("dry run", func(t *testing.T) {
		out, err := env.run(t, "", "holdings", "import-ofx", "--replace", "--dry-run", ofxFile)
		require.NoError(t, err)
		assert.Contains(t, out, "Dry run")
	})
}

func TestInsightsCommand(t *testing.T) {
	env := newTestEnv(t)

	t.Run("no holdings", func(t *testing.T) {
		out, err := env.run(t, "", "insights", "--format", "json")
		require.NoError(t, err)
		var r model.PortfolioInsights
		require.NoError(t, json.Unmarshal([]byte(out), &r))
		assert.Zero(t, r.Metrics.NetWorth)
		assert.Equal(t, 1, r.Risk.RiskScore)
	})

	file := env.write(t, "holdings.yaml", holdingsYAML)
	_, err := env.run(t, "", "holdings", "load", file)
	require.NoError(t, err)

	t.Run("markdown", func(t *testing.T) {
		out, err := env.run(t, "", "insights", "--format", "markdown")
		require.NoError(t, err)
		assert.Contains(t, out, "# Portfolio Insights")
		assert.Contains(t, out, "| Net worth | ₹10.00 L |")
		assert.Contains(t, out, "_Summary source: heuristic_")
	})

	t.Run("json from file", func(t *testing.T) {
		out, err := env.run(t, "", "insights", "--format", "json", "--holdings", file)
		require.NoError(t, err)
		var r model.PortfolioInsights
		require.NoError(t, json.Unmarshal([]byte(out), &r))
		assert.InDelta(t, 1_000_000, r.Metrics.NetWorth, 1e-6)
	})

	t.Run("terminal", func(t *testing.T) {
		out, err := env.run(t, "", "insights", "--style", "notty", "--width", "80")
		require.NoError(t, err)
		assert.Contains(t, out, "Portfolio Insights")
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := env.run(t, "", "insights", "--format", "pdf")
		assert.Error(t, err)
	})
}

func TestInsightsForecastUsesLastMonth(t *testing.T) {
	env := newTestEnv(t)
	now := time.Now()
	sms := func(age time.Duration, body string) string {
		return fmt.Sprintf(`  <sms protocol="0" address="VM-HDFCBK" date="%d" type="1" body="%s" read="1" />`+"\n",
			now.Add(-age).UnixMilli(), body)
	}
	backup := env.write(t, "recent.xml", `<?xml version='1.0' encoding='UTF-8' standalone='yes' ?>
<smses count="3">
`+sms(5*24*time.Hour, "Rs.1,000 debited from a/c XX1234. UPI Ref 111122223333 to swiggy@icici")+
		sms(60*24*time.Hour, "Rs.5,000 debited from a/c XX1234. UPI Ref 444455556666 to myntra@icici")+
		sms(120*24*time.Hour, "Rs.9,000 debited from a/c XX1234. UPI Ref 777788889999 to croma@icici")+
		"</smses>\n")
	_, err := env.run(t, "", "import", "sms", backup, "--no-progress")
	require.NoError(t, err)

	out, err := env.run(t, "", "insights", "--format", "json")
	require.NoError(t, err)
	var r model.PortfolioInsights
	require.NoError(t, json.Unmarshal([]byte(out), &r))
	assert.InDelta(t, 1050, r.Metrics.PredictedNextMonthExpense, 1e-6, "only the last 30 days feed the forecast")
}

func TestExportSheetsCommand(t *testing.T) {
	env := newTestEnv(t)
	mock := sheets.NewMockExporter()
	orig := newExporter
	newExporter = func(context.Context) (sheets.Exporter, error) { return mock, nil }
	t.Cleanup(func() { newExporter = orig })

	backup := env.write(t, "sms.xml", smsBackupXML)
	_, err := env.run(t, "", "import", "sms", backup, "--no-progress")
	require.NoError(t, err)

	t.Run("transactions only", func(t *testing.T) {
		out, err := env.run(t, "", "export", "sheets")
		require.NoError(t, err)
		assert.Contains(t, out, "No holdings stored")
		assert.Contains(t, out, "Exported 2 transactions")
		assert.Contains(t, out, "spreadsheets/d/mock-spreadsheet")
		require.NotNil(t, mock.LastExport)
		assert.Nil(t, mock.LastExport.Insights)
	})

	t.Run("with insights", func(t *testing.T) {
		file := env.write(t, "holdings.yaml", holdingsYAML)
		_, err := env.run(t, "", "holdings", "load", file)
		require.NoError(t, err)

		_, err = env.run(t, "", "export", "sheets", "--from", "2024-01-03")
		require.NoError(t, err)
		require.NotNil(t, mock.LastExport.Insights)
		assert.InDelta(t, 1_000_000, mock.LastExport.Insights.Metrics.NetWorth, 1e-6)
		assert.Len(t, mock.LastExport.Transactions, 1)
	})

	t.Run("exporter failure", func(t *testing.T) {
		mock.SetExportError(errors.New("quota exceeded"))
		_, err := env.run(t, "", "export", "sheets")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "quota exceeded")
	})
}

func TestSheetsAuthRequiresClient(t *testing.T) {
	env := newTestEnv(t)

	_, err := env.run(t, "", "sheets", "auth")
	assert.ErrorIs(t, err, common.ErrMissingConfig)
}

func TestMigrateCommand(t *testing.T) {
	env := newTestEnv(t)

	out, err := env.run(t, "", "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Schema version: 0")
	assert.Contains(t, out, "pending migrations")

	out, err = env.run(t, "", "migrate")
	require.NoError(t, err)
	assert.Contains(t, out, "Applied")

	out, err = env.run(t, "", "migrate", "--status")
	require.NoError(t, err)
	assert.Contains(t, out, "Database is up to date")
}

func TestBackupCommand(t *testing.T) {
	env := newTestEnv(t)
	backup := env.write(t, "sms.xml", smsBackupXML)
	_, err := env.run(t, "", "import", "sms", backup, "--no-progress")
	require.NoError(t, err)

	dest := filepath.Join(env.dir, "backups", "rupee-backup.db")
	out, err := env.run(t, "", "backup", dest)
	require.NoError(t, err)
	assert.Contains(t, out, "Backup complete")
	assert.Contains(t, out, "sms_transactions")
	assert.FileExists(t, dest)

	_, err = env.run(t, "", "backup", dest)
	assert.ErrorIs(t, err, storage.ErrBackupExists)
}
