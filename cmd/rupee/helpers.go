package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/Veraticus/rupee-flow/internal/config"
	"github.com/Veraticus/rupee-flow/internal/ingest"
	"github.com/Veraticus/rupee-flow/internal/insights"
	"github.com/Veraticus/rupee-flow/internal/llm"
	"github.com/Veraticus/rupee-flow/internal/model"
	"github.com/Veraticus/rupee-flow/internal/patterns"
	"github.com/Veraticus/rupee-flow/internal/smsparse"
	"github.com/Veraticus/rupee-flow/internal/storage"
)

const dateLayout = "2006-01-02"

var envKeyReplacer = strings.NewReplacer(".", "_")

// openStorage opens the configured database and brings its schema up to date.
func openStorage(ctx context.Context) (*storage.SQLiteStorage, error) {
	dbPath := config.DatabasePath(viper.GetViper())

	store, err := storage.NewSQLiteStorage(dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	store.WithLogger(slog.Default())

	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return store, nil
}

func newExtractor() (*smsparse.Extractor, error) {
	lib, err := patterns.Default()
	if err != nil {
		return nil, fmt.Errorf("failed to load SMS patterns: %w", err)
	}
	return smsparse.NewExtractor(lib), nil
}

// newAIClient returns nil when AI is switched off, or when disable is set.
func newAIClient(disable bool) (llm.Client, error) {
	if disable {
		return nil, nil
	}
	cfg := config.LoadAIConfig(viper.GetViper())
	if cfg.Disabled() {
		return nil, nil
	}
	client, err := llm.NewClient(cfg, slog.Default())
	if err != nil {
		return nil, err
	}
	return client, nil
}

// newResolver builds the two-stage resolver. The returned cleanup releases the AI cache.
func newResolver(disableAI bool) (*ingest.Resolver, func(), error) {
	extractor, err := newExtractor()
	if err != nil {
		return nil, nil, err
	}

	opts := []ingest.Option{
		ingest.WithLogger(slog.Default()),
		ingest.WithGateBeforeAI(viper.GetBool(config.KeyIngestGateBeforeAI)),
	}
	cleanup := func() {}

	client, err := newAIClient(disableAI)
	if err != nil {
		return nil, nil, err
	}
	if client != nil {
		cache, cacheErr := ingest.NewCache(viper.GetDuration(config.KeyAICacheTTL))
		if cacheErr != nil {
			return nil, nil, cacheErr
		}
		opts = append(opts, ingest.WithAI(client), ingest.WithCache(cache))
		cleanup = cache.Close
	}

	return ingest.NewResolver(extractor, opts...), cleanup, nil
}

func parseDate(flag, value string) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := time.ParseInLocation(dateLayout, value, time.Local)
	if err != nil {
		return nil, fmt.Errorf("invalid --%s %q: expected YYYY-MM-DD", flag, value)
	}
	return &t, nil
}

// generateInsights builds the report, with an AI summary when one is configured and allowed.
func generateInsights(ctx context.Context, snapshot model.Snapshot, noAI bool) (model.PortfolioInsights, error) {
	opts := []insights.EngineOption{insights.WithLogger(slog.Default())}
	if !noAI && viper.GetBool(config.KeyInsightsAISummary) {
		client, err := newAIClient(false)
		if err != nil {
			return model.PortfolioInsights{}, err
		}
		if client != nil {
			opts = append(opts, insights.WithNarrator(llm.NewNarrator(client)))
		}
	}
	return insights.NewEngine(opts...).Generate(ctx, snapshot)
}
