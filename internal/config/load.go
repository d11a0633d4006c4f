package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"

	"github.com/Veraticus/rupee-flow/internal/llm"
	"github.com/Veraticus/rupee-flow/internal/sheets"
)

// providerKeyEnv lists the conventional API key variables per provider, checked in order.
var providerKeyEnv = map[string][]string{
	llm.ProviderOpenAI:    {"OPENAI_API_KEY"},
	llm.ProviderAnthropic: {"ANTHROPIC_API_KEY"},
	llm.ProviderGemini:    {"GEMINI_API_KEY", "GOOGLE_API_KEY"},
}

// LoadAIConfig builds the language model configuration.
// An empty ai.api_key falls back to the provider's usual environment variable.
func LoadAIConfig(v *viper.Viper) llm.Config {
	cfg := llm.Config{
		Provider:    strings.ToLower(strings.TrimSpace(v.GetString(KeyAIProvider))),
		APIKey:      v.GetString(KeyAIAPIKey),
		Model:       v.GetString(KeyAIModel),
		BaseURL:     v.GetString(KeyAIBaseURL),
		Temperature: v.GetFloat64(KeyAITemperature),
		MaxTokens:   v.GetInt(KeyAIMaxTokens),
		Timeout:     v.GetDuration(KeyAITimeout),
		MaxRetries:  v.GetInt(KeyAIMaxRetries),
		RetryDelay:  v.GetDuration(KeyAIRetryDelay),
		RateLimit:   v.GetInt(KeyAIRateLimit),
	}

	if cfg.APIKey == "" {
		for _, env := range providerKeyEnv[cfg.Provider] {
			if key := os.Getenv(env); key != "" {
				cfg.APIKey = key
				break
			}
		}
	}
	return cfg
}

// LoadSheetsConfig loads Google Sheets configuration from v, then GOOGLE_SHEETS_* variables.
func LoadSheetsConfig(v *viper.Viper) (*sheets.Config, error) {
	config := sheets.DefaultConfig()

	config.ServiceAccountPath = ExpandPath(v.GetString(KeySheetsServiceAccountPath))
	config.ClientID = v.GetString(KeySheetsClientID)
	config.ClientSecret = v.GetString(KeySheetsClientSecret)
	config.RefreshToken = v.GetString(KeySheetsRefreshToken)
	config.SpreadsheetID = v.GetString(KeySheetsSpreadsheetID)
	config.SpreadsheetName = v.GetString(KeySheetsSpreadsheetName)
	if tz := v.GetString(KeySheetsTimeZone); tz != "" {
		config.TimeZone = tz
	}

	if err := config.LoadFromEnv(); err != nil {
		return nil, err
	}
	config.ServiceAccountPath = ExpandPath(config.ServiceAccountPath)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}
