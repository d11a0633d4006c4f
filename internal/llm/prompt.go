package llm

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Veraticus/rupee-flow/internal/insights"
	"github.com/Veraticus/rupee-flow/internal/model"
)

// TransactionSystemPrompt instructs the model to answer with bare JSON.
const TransactionSystemPrompt = "You extract structured data from Indian bank SMS messages. " +
	"You MUST respond with ONLY a valid JSON object. Do not include any explanatory text, " +
	"markdown formatting, or commentary before or after the JSON. Start your response directly with { and end with }."

// NarrativeSystemPrompt frames the portfolio summary request.
const NarrativeSystemPrompt = "You are a personal finance advisor for Indian retail investors. " +
	"Write plainly, use rupee amounts in lakh and crore, and never recommend specific stocks."

// BuildTransactionPrompt asks the model to extract transaction fields from one SMS body.
func BuildTransactionPrompt(rawSms string) string {
	var sb strings.Builder

	sb.WriteString("Extract the transaction details from this bank SMS.\n\n")
	sb.WriteString("SMS:\n")
	sb.WriteString(rawSms)
	sb.WriteString("\n\nRespond with a JSON object with exactly these keys:\n")
	sb.WriteString(`{
  "transactionType": "DEBIT", "CREDIT" or "UNKNOWN",
  "amount": number,
  "balance": number or null,
  "merchant": string or null,
  "accountLastFour": string or null,
  "referenceNumber": string or null,
  "transactionMode": "UPI" | "NEFT" | "IMPS" | "RTGS" | "ATM" | "POS" | "CARD" | null
}`)
	sb.WriteString("\n\nRules:\n")
	sb.WriteString("- amount is the transaction amount in rupees, without currency symbols or commas.\n")
	sb.WriteString("- balance is the available balance after the transaction, if the SMS states one.\n")
	sb.WriteString("- merchant is the payee for debits or the payer for credits.\n")
	sb.WriteString("- Use null for anything the SMS does not contain. Do not guess.\n")

	return sb.String()
}

// BuildNarrativePrompt asks the model for a short summary of a computed report.
func BuildNarrativePrompt(metrics model.PortfolioMetrics, risk model.RiskAssessment) string {
	var sb strings.Builder

	sb.WriteString("Summarise this investor's financial position in 3 to 4 sentences.\n\n")
	fmt.Fprintf(&sb, "Net worth: %s\n", insights.Rupees(metrics.NetWorth))
	fmt.Fprintf(&sb, "Total invested: %s (gain %s, %.1f%%)\n",
		insights.Rupees(metrics.TotalInvested), insights.Rupees(metrics.ProfitLoss), metrics.ProfitLossPct)
	fmt.Fprintf(&sb, "Allocation: equity %.1f%%, debt %.1f%%, gold %.1f%%, cash %.1f%%\n",
		metrics.EquityPct, metrics.DebtPct, metrics.GoldPct, metrics.CashPct)

	if len(metrics.ValueByType) > 0 {
		keys := make([]string, 0, len(metrics.ValueByType))
		for k := range metrics.ValueByType {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		sb.WriteString("Holdings by type:\n")
		for _, k := range keys {
			fmt.Fprintf(&sb, "- %s: %s\n", k, insights.Rupees(metrics.ValueByType[k]))
		}
	}

	fmt.Fprintf(&sb, "Risk: %s (%d/10). Diversification: %s (%d/10).\n",
		risk.RiskLevel, risk.RiskScore, risk.DiversificationLevel, risk.DiversificationScore)
	if metrics.PredictedNextMonthExpense > 0 {
		fmt.Fprintf(&sb, "Projected spending next month: %s\n", insights.Rupees(metrics.PredictedNextMonthExpense))
	}

	sb.WriteString("\nMention the single most important thing to improve. Reply with plain text only.")
	return sb.String()
}
