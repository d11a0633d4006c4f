package config

import (
	"time"

	"github.com/spf13/viper"
)

// Configuration keys.
const (
	KeyLogLevel  = "logging.level"
	KeyLogFormat = "logging.format"

	KeyDatabasePath = "database.path"

	KeyAIProvider    = "ai.provider"
	KeyAIModel       = "ai.model"
	KeyAIAPIKey      = "ai.api_key"
	KeyAIBaseURL     = "ai.base_url"
	KeyAITemperature = "ai.temperature"
	KeyAIMaxTokens   = "ai.max_tokens"
	KeyAITimeout     = "ai.timeout"
	KeyAIMaxRetries  = "ai.max_retries"
	KeyAIRetryDelay  = "ai.retry_delay"
	KeyAIRateLimit   = "ai.rate_limit"
	KeyAICacheTTL    = "ai.cache_ttl"

	KeyIngestWorkers      = "ingest.workers"
	KeyIngestIncludeSpam  = "ingest.include_spam"
	KeyIngestGateBeforeAI = "ingest.gate_before_ai"

	KeyInsightsExpenseWindow = "insights.expense_window"
	KeyInsightsAISummary     = "insights.ai_summary"

	KeySheetsServiceAccountPath = "sheets.service_account_path"
	KeySheetsClientID           = "sheets.client_id"
	KeySheetsClientSecret       = "sheets.client_secret"
	KeySheetsRefreshToken       = "sheets.refresh_token"
	KeySheetsTokenFile          = "sheets.token_file"
	KeySheetsSpreadsheetID      = "sheets.spreadsheet_id"
	KeySheetsSpreadsheetName    = "sheets.spreadsheet_name"
	KeySheetsTimeZone           = "sheets.time_zone"
)

// DefaultDatabasePath is where the SQLite database lives unless configured.
const DefaultDatabasePath = "~/.local/share/rupee/rupee.db"

// SetDefaults registers default values on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "console")

	v.SetDefault(KeyDatabasePath, DefaultDatabasePath)

	v.SetDefault(KeyAIProvider, "none")
	v.SetDefault(KeyAITemperature, 0.0)
	v.SetDefault(KeyAIMaxTokens, 512)
	v.SetDefault(KeyAITimeout, 20*time.Second)
	v.SetDefault(KeyAIMaxRetries, 3)
	v.SetDefault(KeyAIRetryDelay, time.Second)
	v.SetDefault(KeyAIRateLimit, 30)
	v.SetDefault(KeyAICacheTTL, 24*time.Hour)

	v.SetDefault(KeyIngestWorkers, 4)
	v.SetDefault(KeyIngestIncludeSpam, false)
	v.SetDefault(KeyIngestGateBeforeAI, true)

	v.SetDefault(KeyInsightsExpenseWindow, 30*24*time.Hour)
	v.SetDefault(KeyInsightsAISummary, true)

	v.SetDefault(KeySheetsTokenFile, "~/.config/rupee/sheets-token.json")
	v.SetDefault(KeySheetsSpreadsheetName, "Rupee Flow")
	v.SetDefault(KeySheetsTimeZone, "Asia/Kolkata")
}
