// Package smsparse turns raw bank SMS text into structured transactions using the pattern library.
package smsparse

import (
	"errors"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/rupee-flow/internal/model"
	"github.com/Veraticus/rupee-flow/internal/patterns"
)

// Parse failures. Both are expected outcomes for non-transactional traffic, not faults.
var (
	ErrNotTransactional = errors.New("message is not a transaction")
	ErrNoAmount         = errors.New("no parseable amount")
)

// Default merchant labels used by the fallback chain.
const (
	MerchantATM      = "ATM Withdrawal"
	MerchantPOS      = "POS Transaction"
	MerchantTransfer = "Bank Transfer"
	MerchantDefault  = "Transaction"
)

// Extractor parses bank SMS with a compiled pattern library.
// It holds no mutable state and is safe for concurrent use.
type Extractor struct {
	lib *patterns.Library
	now func() time.Time
}

// Option configures an Extractor.
type Option func(*Extractor)

// WithClock sets the clock used to timestamp parsed transactions.
func WithClock(now func() time.Time) Option {
	return func(e *Extractor) {
		e.now = now
	}
}

// NewExtractor creates an extractor backed by lib.
func NewExtractor(lib *patterns.Library, opts ...Option) *Extractor {
	e := &Extractor{lib: lib, now: time.Now}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Library returns the pattern library the extractor reads with.
func (e *Extractor) Library() *patterns.Library {
	return e.lib
}

// Parse extracts a transaction from rawSms. ok is false when the message is not a
// transaction or carries no positive amount.
func (e *Extractor) Parse(rawSms string, senderID *string) (model.ParsedTransaction, bool) {
	tx, err := e.ParseDetailed(rawSms, senderID)
	return tx, err == nil
}

// ParseAt is Parse with an explicit receive time instead of the extractor clock.
func (e *Extractor) ParseAt(rawSms string, senderID *string, at time.Time) (model.ParsedTransaction, bool) {
	tx, err := e.parse(rawSms, senderID, at)
	return tx, err == nil
}

// ParseDetailed is Parse that reports why a message was rejected.
func (e *Extractor) ParseDetailed(rawSms string, senderID *string) (model.ParsedTransaction, error) {
	return e.parse(rawSms, senderID, e.now())
}

// ParseDetailedAt is ParseDetailed with an explicit receive time. A zero time uses the clock.
func (e *Extractor) ParseDetailedAt(rawSms string, senderID *string, at time.Time) (model.ParsedTransaction, error) {
	if at.IsZero() {
		at = e.now()
	}
	return e.parse(rawSms, senderID, at)
}

// Now returns the extractor clock's current time.
func (e *Extractor) Now() time.Time {
	return e.now()
}

func (e *Extractor) parse(rawSms string, senderID *string, at time.Time) (model.ParsedTransaction, error) {
	lower := strings.ToLower(rawSms)
	if !e.lib.IsTransactional(lower) {
		return model.ParsedTransaction{}, ErrNotTransactional
	}

	amount, ok := e.amount(rawSms)
	if !ok {
		return model.ParsedTransaction{}, ErrNoAmount
	}

	sender := ""
	if senderID != nil {
		sender = *senderID
	}

	return model.ParsedTransaction{
		Amount:       amount,
		Type:         e.transactionType(lower),
		Merchant:     e.merchant(rawSms, lower),
		BalanceAfter: e.balance(rawSms),
		AccountLast4: e.account(rawSms),
		ReferenceID:  e.reference(rawSms),
		Bank:         e.Bank(rawSms, sender),
		Mode:         e.lib.Mode(rawSms),
		IsSpam:       e.lib.IsSpam(rawSms),
		Confidence:   model.ConfidenceRegex,
		ParseMethod:  model.ParseMethodRegex,
		Sender:       sender,
		RawText:      rawSms,
		Timestamp:    at,
	}, nil
}

// Bank identifies the issuing bank, preferring the sender id over the message body.
func (e *Extractor) Bank(body, sender string) model.Bank {
	if bank, ok := e.lib.IdentifyBank(sender); ok {
		return bank
	}
	if bank, ok := e.lib.IdentifyBank(body); ok {
		return bank
	}
	return model.BankUnknown
}

func (e *Extractor) transactionType(lower string) model.TransactionType {
	switch {
	case e.lib.IsDebit(lower):
		return model.TransactionTypeDebit
	case e.lib.IsCredit(lower):
		return model.TransactionTypeCredit
	default:
		return model.TransactionTypeUnknown
	}
}

func (e *Extractor) amount(text string) (decimal.Decimal, bool) {
	raw, ok := e.lib.Find(patterns.TagAmount, text)
	if !ok {
		return decimal.Decimal{}, false
	}
	amount, err := ParseAmount(raw)
	if err != nil || !amount.IsPositive() {
		return decimal.Decimal{}, false
	}
	return amount, true
}

func (e *Extractor) balance(text string) *decimal.Decimal {
	raw, ok := e.lib.Find(patterns.TagBalance, text)
	if !ok {
		return nil
	}
	bal, err := ParseAmount(raw)
	if err != nil {
		return nil
	}
	return &bal
}

func (e *Extractor) account(text string) string {
	digits, ok := e.lib.Find(patterns.TagAccount, text)
	if !ok {
		return ""
	}
	return LastFour(digits)
}

func (e *Extractor) reference(text string) string {
	ref, _ := e.lib.Find(patterns.TagReference, text)
	return ref
}

// ParseAmount parses a numeric literal with Indian or Western thousands separators.
func ParseAmount(raw string) (decimal.Decimal, error) {
	return decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(raw), ",", ""))
}

// LastFour keeps the trailing four characters of an account reference.
func LastFour(digits string) string {
	if len(digits) <= 4 {
		return digits
	}
	return digits[len(digits)-4:]
}
