package insights

import (
	"fmt"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// Scenario assumptions.
const (
	SIPIncomeShare   = 0.10
	SIPReturnPct     = 12.0
	PPFMonthly       = 12500.0
	PPFRatePct       = 7.1
	PPFYears         = 15
	ComparePrincipal = 100000.0
	CompareYears     = 5
	FDRatePct        = 6.5
	DebtFundRatePct  = 8.5
)

// GenerateWhatIfScenarios projects a SIP, a PPF account and an FD-versus-debt-fund comparison.
// The metrics argument is accepted for parity with the other generators; the projections
// depend only on income and fixed assumptions.
func GenerateWhatIfScenarios(_ model.PortfolioMetrics, monthlyIncome float64) []model.WhatIfScenario {
	return []model.WhatIfScenario{
		sipScenario(monthlyIncome),
		ppfScenario(),
		fdComparisonScenario(),
	}
}

func sipScenario(monthlyIncome float64) model.WhatIfScenario {
	sip := monthlyIncome * SIPIncomeShare
	fv5 := SIPFutureValue(sip, SIPReturnPct, 5*12)
	fv10 := SIPFutureValue(sip, SIPReturnPct, 10*12)

	return model.WhatIfScenario{
		Title:    fmt.Sprintf("Invest 10%% of income (₹%s/month) in a SIP", FormatLargeAmount(sip)),
		Category: model.ScenarioEquity,
		Results: []string{
			fmt.Sprintf("Monthly SIP: ₹%s at %.0f%% expected return", FormatLargeAmount(sip), SIPReturnPct),
			fmt.Sprintf("5 years: ₹%s (invested ₹%s)", FormatLargeAmount(fv5), FormatLargeAmount(sip*60)),
			fmt.Sprintf("10 years: ₹%s (invested ₹%s)", FormatLargeAmount(fv10), FormatLargeAmount(sip*120)),
		},
	}
}

func ppfScenario() model.WhatIfScenario {
	yearly := PPFMonthly * 12
	fv := AnnuityDueFutureValue(yearly, PPFRatePct, PPFYears)
	invested := yearly * PPFYears

	return model.WhatIfScenario{
		Title:    fmt.Sprintf("Max out PPF at ₹%s/month", FormatLargeAmount(PPFMonthly)),
		Category: model.ScenarioDebt,
		Results: []string{
			fmt.Sprintf("Yearly contribution: ₹%s at %.1f%%", FormatLargeAmount(yearly), PPFRatePct),
			fmt.Sprintf("Total invested over %d years: ₹%s", PPFYears, FormatLargeAmount(invested)),
			fmt.Sprintf("Maturity value: ₹%s", FormatLargeAmount(fv)),
			fmt.Sprintf("Tax-free interest earned: ₹%s", FormatLargeAmount(fv-invested)),
		},
	}
}

func fdComparisonScenario() model.WhatIfScenario {
	fd := CompoundAmount(ComparePrincipal, FDRatePct, CompareYears)
	debt := CompoundAmount(ComparePrincipal, DebtFundRatePct, CompareYears)

	return model.WhatIfScenario{
		Title:    fmt.Sprintf("Fixed deposit vs debt fund on ₹%s", FormatLargeAmount(ComparePrincipal)),
		Category: model.ScenarioComparison,
		Results: []string{
			fmt.Sprintf("FD at %.1f%% for %d years: ₹%s", FDRatePct, CompareYears, FormatLargeAmount(fd)),
			fmt.Sprintf("Debt fund at %.1f%% for %d years: ₹%s", DebtFundRatePct, CompareYears, FormatLargeAmount(debt)),
			fmt.Sprintf("Difference: ₹%s", FormatLargeAmount(debt-fd)),
		},
	}
}
