package storage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/rupee-flow/internal/common"
	"github.com/Veraticus/rupee-flow/internal/model"
	"github.com/Veraticus/rupee-flow/internal/service"
	"github.com/Veraticus/rupee-flow/internal/storage"
	"github.com/Veraticus/rupee-flow/internal/testutil"
)

func day(n int) time.Time {
	return testutil.DefaultTime.AddDate(0, 0, n)
}

func TestSaveParsedTransactionsDeduplicates(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	first := testutil.NewTransaction().Debit("499.50").Merchant("Swiggy").Balance("12000.25").Mode(model.ModeUPI).Build()
	second := testutil.NewTransaction().Credit("50000").Merchant("ACME PAYROLL").At(day(1)).Build()

	result, err := db.Storage.SaveParsedTransactions(ctx, []model.ParsedTransaction{first, second})
	require.NoError(t, err)
	assert.Equal(t, service.SaveResult{Inserted: 2}, result)

	result, err = db.Storage.SaveParsedTransactions(ctx, []model.ParsedTransaction{first, second})
	require.NoError(t, err)
	assert.Equal(t, service.SaveResult{Duplicates: 2}, result)

	all, err := db.Storage.ListParsedTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 2)

	got := all[1]
	assert.NotEmpty(t, got.ID)
	assert.Equal(t, first.Hash(), got.Hash)
	assert.Equal(t, "Swiggy", got.Merchant)
	assert.True(t, decimal.RequireFromString("499.50").Equal(got.Amount))
	require.NotNil(t, got.BalanceAfter)
	assert.True(t, decimal.RequireFromString("12000.25").Equal(*got.BalanceAfter))
	assert.Equal(t, model.ModeUPI, got.Mode)
	assert.Equal(t, model.BankHDFC, got.Bank)
	assert.True(t, first.Timestamp.Equal(got.Timestamp))
	assert.False(t, got.ImportedAt.IsZero())
	assert.Nil(t, all[0].BalanceAfter)
}

func TestSaveParsedTransactionsRejectsInvalid(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()

	bad := testutil.NewTransaction().Build()
	bad.Amount = decimal.Zero

	_, err := db.Storage.SaveParsedTransactions(ctx, []model.ParsedTransaction{testutil.NewTransaction().Build(), bad})
	require.ErrorIs(t, err, storage.ErrInvalidTransaction)

	all, err := db.Storage.ListParsedTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	assert.Empty(t, all, "a rejected batch must not be partially stored")

	_, err = db.Storage.SaveParsedTransactions(ctx, nil)
	assert.ErrorIs(t, err, storage.ErrNilParameter)
}

func TestListParsedTransactionsFilter(t *testing.T) {
	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
		Transactions: []model.ParsedTransaction{
			testutil.NewTransaction().Debit("100").At(day(0)).Build(),
			testutil.NewTransaction().Credit("200").At(day(1)).Bank(model.BankICICI).Build(),
			testutil.NewTransaction().Debit("300").At(day(2)).Bank(model.BankSBI).Build(),
			testutil.NewTransaction().Credit("400").At(day(3)).Spam().Build(),
			testutil.NewTransaction().Debit("500").At(day(4)).Build(),
		},
	})
	ctx := context.Background()
	from, to := day(1), day(3)

	tests := []struct {
		name   string
		want   []string
		filter service.TransactionFilter
	}{
		{name: "everything but spam, newest first", filter: service.TransactionFilter{}, want: []string{"500", "300", "200", "100"}},
		{name: "include spam", filter: service.TransactionFilter{IncludeSpam: true}, want: []string{"500", "400", "300", "200", "100"}},
		{name: "date range", filter: service.TransactionFilter{StartDate: &from, EndDate: &to}, want: []string{"300", "200"}},
		{name: "debits", filter: service.TransactionFilter{Type: model.TransactionTypeDebit}, want: []string{"500", "300", "100"}},
		{name: "bank", filter: service.TransactionFilter{Bank: model.BankICICI}, want: []string{"200"}},
		{name: "limit", filter: service.TransactionFilter{Limit: 2}, want: []string{"500", "300"}},
		{name: "limit and offset", filter: service.TransactionFilter{Limit: 2, Offset: 2}, want: []string{"200", "100"}},
		{name: "offset only", filter: service.TransactionFilter{Offset: 3}, want: []string{"100"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Storage.ListParsedTransactions(ctx, tt.filter)
			require.NoError(t, err)

			amounts := make([]string, 0, len(got))
			for _, txn := range got {
				amounts = append(amounts, txn.Amount.String())
			}
			assert.Equal(t, tt.want, amounts)
		})
	}

	_, err := db.Storage.ListParsedTransactions(ctx, service.TransactionFilter{StartDate: &to, EndDate: &from})
	assert.ErrorIs(t, err, storage.ErrInvalidDateRange)
}

func TestGetParsedTransaction(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	db.MustSave(testutil.NewTransaction().Merchant("Zomato").Build())

	all, err := db.Storage.ListParsedTransactions(ctx, service.TransactionFilter{})
	require.NoError(t, err)
	require.Len(t, all, 1)

	got, err := db.Storage.GetParsedTransaction(ctx, all[0].ID)
	require.NoError(t, err)
	assert.Equal(t, "Zomato", got.Merchant)

	_, err = db.Storage.GetParsedTransaction(ctx, "missing")
	assert.True(t, errors.Is(err, common.ErrNotFound), "got %v", err)

	_, err = db.Storage.GetParsedTransaction(ctx, "")
	assert.ErrorIs(t, err, storage.ErrEmptyString)
}

func TestLedgerEntries(t *testing.T) {
	db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
		Transactions: []model.ParsedTransaction{
			testutil.NewTransaction().Debit("1200.75").Merchant("Amazon").At(day(0)).Build(),
			testutil.NewTransaction().Credit("85000").Merchant("Salary").At(day(5)).Build(),
			testutil.NewTransaction().Debit("99").At(day(6)).Spam().Build(),
			testutil.NewTransaction().Debit("450").Merchant("Uber").At(day(10)).Build(),
		},
	})
	ctx := context.Background()

	all, err := db.Storage.LedgerEntries(ctx, time.Time{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, model.EntryExpense, all[0].Type)
	assert.Equal(t, "Amazon", all[0].Merchant)
	assert.InDelta(t, 1200.75, all[0].Amount, 1e-9)
	assert.Equal(t, model.EntryIncome, all[1].Type)
	assert.InDelta(t, 85000, all[1].Amount, 1e-9)

	recent, err := db.Storage.LedgerEntries(ctx, day(5))
	require.NoError(t, err)
	require.Len(t, recent, 2)
	assert.Equal(t, "Salary", recent[0].Merchant)
	assert.Equal(t, "Uber", recent[1].Merchant)
}

func TestTransactionStats(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		db := testutil.SetupTestDB(t)

		stats, err := db.Storage.TransactionStats(context.Background())
		require.NoError(t, err)
		assert.Zero(t, stats.Total)
		assert.Nil(t, stats.First)
		assert.True(t, stats.TotalDebit.IsZero())
	})

	t.Run("populated", func(t *testing.T) {
		db := testutil.SetupTestDBWithOptions(t, testutil.TestDBOptions{
			Transactions: []model.ParsedTransaction{
				testutil.NewTransaction().Debit("100.10").At(day(2)).Build(),
				testutil.NewTransaction().Debit("200.20").At(day(0)).Bank(model.BankAxis).AI().Build(),
				testutil.NewTransaction().Credit("1000").At(day(7)).Build(),
				testutil.NewTransaction().Credit("5").At(day(3)).Spam().Build(),
			},
		})

		stats, err := db.Storage.TransactionStats(context.Background())
		require.NoError(t, err)
		assert.Equal(t, 4, stats.Total)
		assert.Equal(t, 2, stats.Debits)
		assert.Equal(t, 1, stats.Credits)
		assert.Equal(t, 1, stats.Spam)
		assert.Equal(t, 1, stats.ParsedByAI)
		assert.Equal(t, 3, stats.ByBank[model.BankHDFC])
		assert.Equal(t, 1, stats.ByBank[model.BankAxis])
		assert.True(t, decimal.RequireFromString("300.30").Equal(stats.TotalDebit), stats.TotalDebit.String())
		assert.True(t, decimal.NewFromInt(1000).Equal(stats.TotalCredit))
		require.NotNil(t, stats.First)
		require.NotNil(t, stats.Last)
		assert.True(t, day(0).Equal(*stats.First))
		assert.True(t, day(7).Equal(*stats.Last))
	})
}
