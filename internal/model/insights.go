package model

import "time"

// PortfolioMetrics is the aggregated view of a portfolio at one point in time.
// Percentages are fractions of NetWorth expressed in 0..100 and are all zero when NetWorth is zero.
type PortfolioMetrics struct {
	ValueByType               map[string]float64 `json:"valueByType"`
	InvestedByType            map[string]float64 `json:"investedByType"`
	ForecastNarrative         string             `json:"forecastNarrative"`
	NetWorth                  float64            `json:"netWorth"`
	TotalInvested             float64            `json:"totalInvested"`
	Equity                    float64            `json:"equity"`
	Debt                      float64            `json:"debt"`
	Gold                      float64            `json:"gold"`
	Cash                      float64            `json:"cash"`
	EquityPct                 float64            `json:"equityPct"`
	DebtPct                   float64            `json:"debtPct"`
	GoldPct                   float64            `json:"goldPct"`
	CashPct                   float64            `json:"cashPct"`
	ProfitLoss                float64            `json:"profitLoss"`
	ProfitLossPct             float64            `json:"profitLossPct"`
	PredictedNextMonthExpense float64            `json:"predictedNextMonthExpense"`
}

// AllocationAnalysis compares the current split against the ideal one.
type AllocationAnalysis struct {
	Current         map[Bucket]float64 `json:"current"`
	Ideal           map[Bucket]float64 `json:"ideal"`
	Recommendations []string           `json:"recommendations"`
}

// RiskAssessment scores how aggressive and how diversified a portfolio is.
type RiskAssessment struct {
	RiskLevel            string  `json:"riskLevel"`
	RiskDescription      string  `json:"riskDescription"`
	DiversificationLevel string  `json:"diversificationLevel"`
	EquityPct            float64 `json:"equityPct"`
	RiskScore            int     `json:"riskScore"`
	DiversificationScore int     `json:"diversificationScore"`
}

// Priority ranks a suggestion.
type Priority string

// Suggestion priorities.
const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Suggestion is one actionable recommendation.
type Suggestion struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	ActionItem  string   `json:"actionItem"`
	Priority    Priority `json:"priority"`
	IconHint    string   `json:"iconHint"`
}

// ScenarioCategory groups what-if projections.
type ScenarioCategory string

// Scenario categories.
const (
	ScenarioEquity     ScenarioCategory = "EQUITY"
	ScenarioDebt       ScenarioCategory = "DEBT"
	ScenarioComparison ScenarioCategory = "COMPARISON"
)

// WhatIfScenario is a compound-interest projection rendered as ordered result lines.
type WhatIfScenario struct {
	Title    string           `json:"title"`
	Category ScenarioCategory `json:"category"`
	Results  []string         `json:"results"`
}

// SummarySource records whether the report summary came from the language model.
type SummarySource string

// Summary sources.
const (
	SummaryAI        SummarySource = "AI"
	SummaryHeuristic SummarySource = "HEURISTIC"
)

// PortfolioInsights is the full report produced by the insights engine.
type PortfolioInsights struct {
	GeneratedAt   time.Time          `json:"generatedAt"`
	Summary       string             `json:"summary"`
	SummarySource SummarySource      `json:"summarySource"`
	Allocation    AllocationAnalysis `json:"allocation"`
	Risk          RiskAssessment     `json:"risk"`
	Suggestions   []Suggestion       `json:"suggestions"`
	Scenarios     []WhatIfScenario   `json:"scenarios"`
	Metrics       PortfolioMetrics   `json:"metrics"`
}
