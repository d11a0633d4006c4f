// Package ingest resolves raw SMS messages into transactions, asking the AI collaborator
// first and falling back to the regex extractor.
package ingest

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Veraticus/rupee-flow/internal/common"
	"github.com/Veraticus/rupee-flow/internal/llm"
	"github.com/Veraticus/rupee-flow/internal/model"
	"github.com/Veraticus/rupee-flow/internal/smsparse"
)

// Message is one inbound SMS.
type Message struct {
	Received time.Time
	Sender   string
	Body     string
}

// Outcome is the result of resolving one message. When OK is false, Reason says why the
// regex stage rejected it. AIErr records a failed AI attempt even when the fallback succeeded.
type Outcome struct {
	Message     Message
	Transaction model.ParsedTransaction
	AIErr       error
	Reason      error
	Method      model.ParseMethod
	OK          bool
	Cached      bool
}

// Resolver is the two-stage AI then regex strategy.
type Resolver struct {
	extractor    *smsparse.Extractor
	ai           llm.Client
	cache        *Cache
	logger       *slog.Logger
	gateBeforeAI bool
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithAI enables the AI stage.
func WithAI(client llm.Client) Option {
	return func(r *Resolver) {
		r.ai = client
	}
}

// WithCache caches decoded AI results.
func WithCache(cache *Cache) Option {
	return func(r *Resolver) {
		r.cache = cache
	}
}

// WithLogger sets the resolver logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Resolver) {
		r.logger = logger
	}
}

// WithGateBeforeAI controls whether messages failing the transaction keyword gate
// are sent to the AI stage at all. It defaults to true.
func WithGateBeforeAI(gate bool) Option {
	return func(r *Resolver) {
		r.gateBeforeAI = gate
	}
}

// NewResolver creates a resolver around extractor.
func NewResolver(extractor *smsparse.Extractor, opts ...Option) *Resolver {
	r := &Resolver{
		extractor:    extractor,
		logger:       slog.Default(),
		gateBeforeAI: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// AIEnabled reports whether an AI client is configured.
func (r *Resolver) AIEnabled() bool {
	return r.ai != nil
}

// Resolve parses msg. AI failures of any kind are recovered here by running the regex stage.
func (r *Resolver) Resolve(ctx context.Context, msg Message) Outcome {
	out := Outcome{Message: msg}

	if r.shouldTryAI(msg.Body) {
		tx, cached, err := r.tryAI(ctx, msg)
		if err == nil {
			out.Transaction = tx
			out.Method = model.ParseMethodAI
			out.OK = true
			out.Cached = cached
			return out
		}
		out.AIErr = err
		r.logger.Debug("AI parse failed, falling back to patterns", "sender", msg.Sender, "error", err)
	}

	tx, err := r.tryRegex(msg)
	if err != nil {
		out.Reason = err
		return out
	}
	out.Transaction = tx
	out.Method = model.ParseMethodRegex
	out.OK = true
	return out
}

func (r *Resolver) shouldTryAI(body string) bool {
	if r.ai == nil {
		return false
	}
	if !r.gateBeforeAI {
		return true
	}
	return r.extractor.Library().IsTransactional(strings.ToLower(body))
}

func (r *Resolver) tryAI(ctx context.Context, msg Message) (model.ParsedTransaction, bool, error) {
	key := model.MessageHash("", msg.Body)

	if r.cache != nil {
		if fields, ok := r.cache.Get(key); ok {
			return r.fromFields(msg, fields), true, nil
		}
	}

	text, err := r.ai.Complete(ctx, llm.Request{
		System: llm.TransactionSystemPrompt,
		Prompt: llm.BuildTransactionPrompt(msg.Body),
	})
	if err != nil {
		return model.ParsedTransaction{}, false, fmt.Errorf("%w: %w", common.ErrAIUnavailable, err)
	}

	fields, err := llm.DecodeTransaction(text)
	if err != nil {
		return model.ParsedTransaction{}, false, err
	}

	if r.cache != nil {
		r.cache.Set(key, fields)
	}
	return r.fromFields(msg, fields), false, nil
}

func (r *Resolver) tryRegex(msg Message) (model.ParsedTransaction, error) {
	return r.extractor.ParseDetailedAt(msg.Body, senderPtr(msg.Sender), msg.Received)
}

// fromFields builds a transaction from AI output. Bank, spam and missing mode come from
// the pattern library so both stages classify those the same way.
func (r *Resolver) fromFields(msg Message, f llm.TransactionFields) model.ParsedTransaction {
	lib := r.extractor.Library()

	merchant := f.Merchant
	if merchant == "" {
		merchant = smsparse.MerchantDefault
	}
	mode := f.Mode
	if mode == model.ModeNone {
		mode = lib.Mode(msg.Body)
	}
	at := msg.Received
	if at.IsZero() {
		at = r.extractor.Now()
	}

	return model.ParsedTransaction{
		Amount:       f.Amount,
		Type:         f.Type,
		Merchant:     merchant,
		BalanceAfter: f.Balance,
		AccountLast4: smsparse.LastFour(f.AccountLastFour),
		ReferenceID:  f.ReferenceNumber,
		Bank:         r.extractor.Bank(msg.Body, msg.Sender),
		Mode:         mode,
		IsSpam:       lib.IsSpam(msg.Body),
		Confidence:   model.ConfidenceAI,
		ParseMethod:  model.ParseMethodAI,
		Sender:       msg.Sender,
		RawText:      msg.Body,
		Timestamp:    at,
	}
}

func senderPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
