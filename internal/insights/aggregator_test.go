package insights

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/Veraticus/rupee-flow/internal/model"
)

func sampleHoldings() ([]model.Asset, []model.BankAccount, []model.Deposit) {
	assets := []model.Asset{
		{Name: "Nifty 50 ETF", Type: model.AssetTypeStock, CurrentValue: 500000, ProfitLoss: 100000},
		{Name: "Flexi Cap Fund", Type: model.AssetTypeMutualFund, CurrentValue: 300000, ProfitLoss: 50000},
		{Name: "EPF", Type: model.AssetTypeEPF, CurrentValue: 200000},
		{Name: "PPF", Type: model.AssetTypePPF, CurrentValue: 100000},
		{Name: "SGB 2028", Type: model.AssetTypeGold, CurrentValue: 50000, ProfitLoss: 10000},
		{Name: "Bitcoin", Type: model.AssetType("CRYPTO"), CurrentValue: 99999},
	}
	accounts := []model.BankAccount{
		{Name: "HDFC Savings", Bank: model.BankHDFC, Balance: 100000},
		{Name: "SBI Savings", Bank: model.BankSBI, Balance: 50000},
	}
	deposits := []model.Deposit{
		{Name: "SBI FD", Kind: model.DepositFixed, Principal: 100000, CurrentValue: 110000, InterestRate: 7},
	}
	return assets, accounts, deposits
}

func TestComputeMetricsBuckets(t *testing.T) {
	assets, accounts, deposits := sampleHoldings()

	m := ComputeMetrics(assets, accounts, deposits, nil)

	assert.InDelta(t, 800000, m.Equity, 1e-6)
	assert.InDelta(t, 410000, m.Debt, 1e-6)
	assert.InDelta(t, 50000, m.Gold, 1e-6)
	assert.InDelta(t, 150000, m.Cash, 1e-6)
	assert.InDelta(t, 1410000, m.NetWorth, 1e-6)

	assert.InDelta(t, 1240000, m.TotalInvested, 1e-6)
	assert.InDelta(t, 170000, m.ProfitLoss, 1e-6)

	assert.Len(t, m.ValueByType, 7)
	assert.NotContains(t, m.ValueByType, "CRYPTO")
	assert.InDelta(t, 150000, m.ValueByType[model.CashKey], 1e-6)
	assert.InDelta(t, 110000, m.ValueByType["FD"], 1e-6)
	assert.InDelta(t, 100000, m.InvestedByType["FD"], 1e-6)
	assert.InDelta(t, 400000, m.InvestedByType["STOCK"], 1e-6)
	assert.InDelta(t, m.ValueByType[model.CashKey], m.InvestedByType[model.CashKey], 1e-6, "cash is counted as fully invested")
}

func TestComputeMetricsPercentagesSumToHundred(t *testing.T) {
	tests := []struct {
		name     string
		assets   []model.Asset
		accounts []model.BankAccount
		deposits []model.Deposit
	}{
		{
			name:     "mixed",
			assets:   []model.Asset{{Type: model.AssetTypeStock, CurrentValue: 123456.78}, {Type: model.AssetTypeGold, CurrentValue: 3333.33}},
			accounts: []model.BankAccount{{Balance: 98765.43}},
			deposits: []model.Deposit{{Kind: model.DepositRecurring, Principal: 1000, CurrentValue: 1010.10}},
		},
		{
			name:     "cash only",
			accounts: []model.BankAccount{{Balance: 1}},
		},
		{
			name:   "equity only",
			assets: []model.Asset{{Type: model.AssetTypeMutualFund, CurrentValue: 7}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := ComputeMetrics(tt.assets, tt.accounts, tt.deposits, nil)
			sum := m.EquityPct + m.DebtPct + m.GoldPct + m.CashPct
			assert.InDelta(t, 100, sum, 0.01)
		})
	}
}

func TestComputeMetricsZeroNetWorth(t *testing.T) {
	m := ComputeMetrics(nil, nil, nil, nil)

	assert.Zero(t, m.NetWorth)
	for _, pct := range []float64{m.EquityPct, m.DebtPct, m.GoldPct, m.CashPct, m.ProfitLossPct} {
		assert.Zero(t, pct)
		assert.False(t, math.IsNaN(pct))
	}
	assert.Empty(t, m.ValueByType)
	assert.Zero(t, m.PredictedNextMonthExpense)
	assert.NotEmpty(t, m.ForecastNarrative)
}

func TestComputeMetricsDropsZeroValueTypes(t *testing.T) {
	assets := []model.Asset{
		{Type: model.AssetTypeStock, CurrentValue: 1000},
		{Type: model.AssetTypeBond, CurrentValue: 0},
	}
	m := ComputeMetrics(assets, []model.BankAccount{{Balance: 0}}, nil, nil)

	assert.Len(t, m.ValueByType, 1)
	assert.Contains(t, m.ValueByType, "STOCK")
}

func TestComputeMetricsForecast(t *testing.T) {
	day := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	entries := []model.LedgerEntry{
		{Date: day, Type: model.EntryExpense, Amount: 1000},
		{Date: day, Type: model.EntryExpense, Amount: 2000},
		{Date: day, Type: model.EntryIncome, Amount: 50000},
		{Date: day, Type: model.EntryUnknown, Amount: 700},
	}

	m := ComputeMetrics(nil, nil, nil, entries)

	assert.InDelta(t, 3150, m.PredictedNextMonthExpense, 1e-9)
	assert.Contains(t, m.ForecastNarrative, "₹3150")
	assert.Contains(t, m.ForecastNarrative, "2 recent expenses")
}

func TestComputeMetricsDoesNotMutateInputs(t *testing.T) {
	assets, accounts, deposits := sampleHoldings()
	before := append([]model.Asset(nil), assets...)

	_ = ComputeMetrics(assets, accounts, deposits, nil)

	assert.Equal(t, before, assets)
}
