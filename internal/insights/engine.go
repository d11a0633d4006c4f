package insights

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// Narrator writes a free-text summary of a report, typically with a language model.
type Narrator interface {
	Narrate(ctx context.Context, report model.PortfolioInsights) (string, error)
}

// Engine composes the aggregator, analyzer and generators into one report.
type Engine struct {
	narrator Narrator
	logger   *slog.Logger
	now      func() time.Time
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithNarrator attaches an AI narrator. Without one the heuristic summary is used.
func WithNarrator(n Narrator) EngineOption {
	return func(e *Engine) {
		e.narrator = n
	}
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithClock sets the clock used for GeneratedAt.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an insights engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: slog.Default(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Build produces a report with the heuristic summary. It does no I/O.
func (e *Engine) Build(s model.Snapshot) (model.PortfolioInsights, error) {
	if err := s.Validate(); err != nil {
		return model.PortfolioInsights{}, err
	}

	metrics := ComputeMetrics(s.Assets, s.BankAccounts, s.Deposits, s.Transactions)
	report := model.PortfolioInsights{
		GeneratedAt: e.now(),
		Metrics:     metrics,
		Allocation:  AnalyzeAllocation(metrics),
		Risk:        AssessRisk(metrics),
		Suggestions: GenerateSuggestions(metrics, s.MonthlyIncome, s.MonthlyExpenses),
		Scenarios:   GenerateWhatIfScenarios(metrics, s.MonthlyIncome),
	}
	report.Summary = HeuristicNarrative(report)
	report.SummarySource = model.SummaryHeuristic
	return report, nil
}

// Generate builds the report and, when a narrator is configured, replaces the heuristic
// summary with the narrator's text. Narrator failures keep the heuristic summary.
func (e *Engine) Generate(ctx context.Context, s model.Snapshot) (model.PortfolioInsights, error) {
	report, err := e.Build(s)
	if err != nil {
		return model.PortfolioInsights{}, fmt.Errorf("failed to build insights: %w", err)
	}
	if e.narrator == nil {
		return report, nil
	}

	text, err := e.narrator.Narrate(ctx, report)
	if err != nil {
		e.logger.Warn("AI summary unavailable, using heuristic summary", "error", err)
		return report, nil
	}
	if text = strings.TrimSpace(text); text == "" {
		e.logger.Debug("AI summary was empty, using heuristic summary")
		return report, nil
	}

	report.Summary = text
	report.SummarySource = model.SummaryAI
	return report, nil
}
