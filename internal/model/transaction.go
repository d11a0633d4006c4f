// Package model defines the core data structures shared by the extractor, the insights engine and storage.
package model

import (
	"crypto/sha256"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType is the direction of money movement described by a bank SMS.
type TransactionType string

const (
	// TransactionTypeDebit means money left the account.
	TransactionTypeDebit TransactionType = "DEBIT"
	// TransactionTypeCredit means money arrived in the account.
	TransactionTypeCredit TransactionType = "CREDIT"
	// TransactionTypeUnknown is used when no direction keyword was found.
	TransactionTypeUnknown TransactionType = "UNKNOWN"
)

// ParseTransactionType maps a case-insensitive label onto a TransactionType.
func ParseTransactionType(s string) (TransactionType, bool) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(s))) {
	case TransactionTypeDebit:
		return TransactionTypeDebit, true
	case TransactionTypeCredit:
		return TransactionTypeCredit, true
	case TransactionTypeUnknown:
		return TransactionTypeUnknown, true
	default:
		return TransactionTypeUnknown, false
	}
}

// ParseMethod records which strategy produced a ParsedTransaction.
type ParseMethod string

const (
	// ParseMethodAI is used for results produced by the language model.
	ParseMethodAI ParseMethod = "AI"
	// ParseMethodRegex is used for results produced by the pattern library.
	ParseMethodRegex ParseMethod = "REGEX"
)

// Confidence levels attached to parse results.
const (
	ConfidenceAI    = 0.95
	ConfidenceRegex = 0.70
)

// Mode is the payment rail a transaction went through.
type Mode string

// Known payment rails.
const (
	ModeUPI  Mode = "UPI"
	ModeNEFT Mode = "NEFT"
	ModeIMPS Mode = "IMPS"
	ModeRTGS Mode = "RTGS"
	ModeATM  Mode = "ATM"
	ModePOS  Mode = "POS"
	ModeCard Mode = "CARD"
	ModeNone Mode = ""
)

// ParseMode maps a case-insensitive label onto a Mode, returning ModeNone for anything unknown.
func ParseMode(s string) Mode {
	switch m := Mode(strings.ToUpper(strings.TrimSpace(s))); m {
	case ModeUPI, ModeNEFT, ModeIMPS, ModeRTGS, ModeATM, ModePOS, ModeCard:
		return m
	default:
		return ModeNone
	}
}

// ParsedTransaction is the normalized record extracted from one bank SMS.
// It is a value type: a re-parse produces a new value, nothing mutates an existing one.
type ParsedTransaction struct {
	Timestamp    time.Time        `json:"timestamp"`
	BalanceAfter *decimal.Decimal `json:"balanceAfter,omitempty"`
	Amount       decimal.Decimal  `json:"amount"`
	Type         TransactionType  `json:"type"`
	Merchant     string           `json:"merchant"`
	AccountLast4 string           `json:"accountLast4,omitempty"`
	ReferenceID  string           `json:"referenceId,omitempty"`
	Bank         Bank             `json:"bank"`
	Mode         Mode             `json:"mode,omitempty"`
	Sender       string           `json:"sender,omitempty"`
	RawText      string           `json:"rawText"`
	ParseMethod  ParseMethod      `json:"parseMethod"`
	Confidence   float64          `json:"confidence"`
	IsSpam       bool             `json:"isSpam"`
}

// Hash returns a stable identifier for the message this transaction was parsed from.
func (t ParsedTransaction) Hash() string {
	return MessageHash(t.Sender, t.RawText)
}

// MessageHash hashes a sender id and body the same way ParsedTransaction.Hash does.
func MessageHash(sender, body string) string {
	sum := sha256.Sum256([]byte(sender + "\x00" + body))
	return fmt.Sprintf("%x", sum)
}

// HasBalance reports whether the message carried an available balance.
func (t ParsedTransaction) HasBalance() bool {
	return t.BalanceAfter != nil
}

// StoredTransaction is a parsed transaction as persisted by the storage layer.
type StoredTransaction struct {
	ImportedAt time.Time `json:"importedAt"`
	ID         string    `json:"id"`
	Hash       string    `json:"hash"`
	ParsedTransaction
}
