// Package insights turns a holdings snapshot into portfolio metrics, allocation and risk
// analysis, suggestions and compound-interest projections. Everything except Engine.Generate
// is a pure function of its inputs.
package insights

import (
	"fmt"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// expenseBuffer is a flat 5% headroom on recent spending. It is an approximation, not a
// time-series forecast.
const expenseBuffer = 1.05

// ComputeMetrics aggregates holdings into the four allocation buckets.
//
// Stocks and mutual funds are equity; EPF, PPF, bonds and deposits are debt; gold is gold and
// bank balances are cash. Assets of any other type are ignored. Cash is treated as fully
// invested, so it never contributes to profit or loss. Inputs are not modified.
func ComputeMetrics(assets []model.Asset, bankAccounts []model.BankAccount, deposits []model.Deposit, transactions []model.LedgerEntry) model.PortfolioMetrics {
	m := model.PortfolioMetrics{
		ValueByType:    make(map[string]float64),
		InvestedByType: make(map[string]float64),
	}

	for _, a := range assets {
		switch a.Type.Bucket() {
		case model.BucketEquity:
			m.Equity += a.CurrentValue
		case model.BucketDebt:
			m.Debt += a.CurrentValue
		case model.BucketGold:
			m.Gold += a.CurrentValue
		default:
			continue
		}
		key := string(a.Type)
		m.ValueByType[key] += a.CurrentValue
		m.InvestedByType[key] += a.Invested()
		m.TotalInvested += a.Invested()
	}

	for _, b := range bankAccounts {
		m.Cash += b.Balance
		m.ValueByType[model.CashKey] += b.Balance
		m.InvestedByType[model.CashKey] += b.Balance
		m.TotalInvested += b.Balance
	}

	for _, d := range deposits {
		m.Debt += d.CurrentValue
		key := string(d.Kind)
		if key == "" {
			key = string(model.DepositFixed)
		}
		m.ValueByType[key] += d.CurrentValue
		m.InvestedByType[key] += d.Principal
		m.TotalInvested += d.Principal
	}

	for k, v := range m.ValueByType {
		if v == 0 {
			delete(m.ValueByType, k)
		}
	}
	for k, v := range m.InvestedByType {
		if v == 0 {
			delete(m.InvestedByType, k)
		}
	}

	m.NetWorth = m.Equity + m.Debt + m.Gold + m.Cash
	if m.NetWorth > 0 {
		m.EquityPct = m.Equity / m.NetWorth * 100
		m.DebtPct = m.Debt / m.NetWorth * 100
		m.GoldPct = m.Gold / m.NetWorth * 100
		m.CashPct = m.Cash / m.NetWorth * 100
	}

	m.ProfitLoss = m.NetWorth - m.TotalInvested
	if m.TotalInvested > 0 {
		m.ProfitLossPct = m.ProfitLoss / m.TotalInvested * 100
	}

	m.PredictedNextMonthExpense, m.ForecastNarrative = forecastExpenses(transactions)
	return m
}

func forecastExpenses(transactions []model.LedgerEntry) (float64, string) {
	var total float64
	var count int
	for _, t := range transactions {
		if t.Type != model.EntryExpense {
			continue
		}
		total += t.Amount
		count++
	}
	if count == 0 {
		return 0, "Not enough expense history to forecast next month's spending."
	}
	forecast := total * expenseBuffer
	return forecast, fmt.Sprintf(
		"Next month's spending is projected at %s, based on %d recent expenses plus a 5%% buffer.",
		Rupees(forecast), count)
}
