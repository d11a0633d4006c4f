// Package report turns portfolio insights and parsed transactions into output documents.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/rupee-flow/internal/insights"
	"github.com/Veraticus/rupee-flow/internal/model"
)

// Section is one titled block of a rendered report.
type Section struct {
	Title string
	Body  string
}

var bucketOrder = []model.Bucket{model.BucketEquity, model.BucketDebt, model.BucketGold, model.BucketCash}

// Sections splits a report into markdown sections in display order.
func Sections(r model.PortfolioInsights) []Section {
	sections := []Section{
		{Title: "Summary", Body: summarySection(r)},
		{Title: "Net Worth", Body: metricsSection(r.Metrics)},
		{Title: "Allocation", Body: allocationSection(r.Allocation)},
		{Title: "Risk", Body: riskSection(r.Risk)},
	}
	if len(r.Suggestions) > 0 {
		sections = append(sections, Section{Title: "Suggestions", Body: suggestionsSection(r.Suggestions)})
	}
	if len(r.Scenarios) > 0 {
		sections = append(sections, Section{Title: "What If", Body: scenariosSection(r.Scenarios)})
	}
	return sections
}

// Markdown renders the whole report as one markdown document.
func Markdown(r model.PortfolioInsights) string {
	var b strings.Builder
	b.WriteString("# Portfolio Insights\n\n")
	if !r.GeneratedAt.IsZero() {
		fmt.Fprintf(&b, "_Generated %s_\n\n", r.GeneratedAt.Format("2 Jan 2006 15:04"))
	}
	for _, s := range Sections(r) {
		fmt.Fprintf(&b, "## %s\n\n%s\n", s.Title, s.Body)
	}
	return b.String()
}

func summarySection(r model.PortfolioInsights) string {
	source := "heuristic"
	if r.SummarySource == model.SummaryAI {
		source = "AI"
	}
	return fmt.Sprintf("%s\n\n_Summary source: %s_\n", r.Summary, source)
}

func metricsSection(m model.PortfolioMetrics) string {
	var b strings.Builder
	b.WriteString("| Metric | Value |\n|---|---:|\n")
	fmt.Fprintf(&b, "| Net worth | %s |\n", insights.Rupees(m.NetWorth))
	fmt.Fprintf(&b, "| Invested | %s |\n", insights.Rupees(m.TotalInvested))
	fmt.Fprintf(&b, "| Profit / loss | %s (%.2f%%) |\n", insights.Rupees(m.ProfitLoss), m.ProfitLossPct)
	if m.PredictedNextMonthExpense > 0 {
		fmt.Fprintf(&b, "| Projected spending next month | %s |\n", insights.Rupees(m.PredictedNextMonthExpense))
	}

	if len(m.ValueByType) > 0 {
		keys := make([]string, 0, len(m.ValueByType))
		for k := range m.ValueByType {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		b.WriteString("\n| Holding type | Value | Invested |\n|---|---:|---:|\n")
		for _, k := range keys {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", k, insights.Rupees(m.ValueByType[k]), insights.Rupees(m.InvestedByType[k]))
		}
	}

	if m.ForecastNarrative != "" {
		fmt.Fprintf(&b, "\n%s\n", m.ForecastNarrative)
	}
	return b.String()
}

func allocationSection(a model.AllocationAnalysis) string {
	var b strings.Builder
	b.WriteString("| Bucket | Current | Ideal |\n|---|---:|---:|\n")
	for _, bucket := range bucketOrder {
		fmt.Fprintf(&b, "| %s | %.1f%% | %.1f%% |\n", bucket, a.Current[bucket], a.Ideal[bucket])
	}
	if len(a.Recommendations) > 0 {
		b.WriteString("\n")
		for _, rec := range a.Recommendations {
			fmt.Fprintf(&b, "- %s\n", rec)
		}
	}
	return b.String()
}

func riskSection(r model.RiskAssessment) string {
	return fmt.Sprintf("**%s** (score %d/10): %s\n\nDiversification: **%s** (score %d/10)\n",
		r.RiskLevel, r.RiskScore, r.RiskDescription, r.DiversificationLevel, r.DiversificationScore)
}

func suggestionsSection(suggestions []model.Suggestion) string {
	var b strings.Builder
	for _, s := range suggestions {
		fmt.Fprintf(&b, "### %s `%s`\n\n%s\n\n**Action:** %s\n\n", s.Title, s.Priority, s.Description, s.ActionItem)
	}
	return b.String()
}

func scenariosSection(scenarios []model.WhatIfScenario) string {
	var b strings.Builder
	for _, s := range scenarios {
		fmt.Fprintf(&b, "### %s\n\n", s.Title)
		for _, line := range s.Results {
			fmt.Fprintf(&b, "- %s\n", line)
		}
		b.WriteString("\n")
	}
	return b.String()
}
