package testutil

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/rupee-flow/internal/model"
)

var sequence atomic.Int64

// DefaultTime is the timestamp NewTransaction starts from.
var DefaultTime = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

// TransactionBuilder builds model.ParsedTransaction values for tests.
// Every builder gets a unique raw text so saved transactions never collide on hash.
type TransactionBuilder struct {
	txn model.ParsedTransaction
}

// NewTransaction starts a regex-parsed HDFC debit of ₹100.
func NewTransaction() *TransactionBuilder {
	n := sequence.Add(1)
	return &TransactionBuilder{txn: model.ParsedTransaction{
		Timestamp:   DefaultTime,
		Amount:      decimal.NewFromInt(100),
		Type:        model.TransactionTypeDebit,
		Merchant:    "Transaction",
		Bank:        model.BankHDFC,
		Sender:      "HDFCBK",
		RawText:     fmt.Sprintf("Rs.100 debited from a/c XX1234 (test message %d)", n),
		ParseMethod: model.ParseMethodRegex,
		Confidence:  model.ConfidenceRegex,
	}}
}

// Debit sets a debit of the given decimal amount.
func (b *TransactionBuilder) Debit(amount string) *TransactionBuilder {
	b.txn.Type = model.TransactionTypeDebit
	b.txn.Amount = decimal.RequireFromString(amount)
	return b
}

// Credit sets a credit of the given decimal amount.
func (b *TransactionBuilder) Credit(amount string) *TransactionBuilder {
	b.txn.Type = model.TransactionTypeCredit
	b.txn.Amount = decimal.RequireFromString(amount)
	return b
}

// At sets the received timestamp.
func (b *TransactionBuilder) At(ts time.Time) *TransactionBuilder {
	b.txn.Timestamp = ts
	return b
}

// Merchant sets the merchant.
func (b *TransactionBuilder) Merchant(m string) *TransactionBuilder {
	b.txn.Merchant = m
	return b
}

// Bank sets the bank.
func (b *TransactionBuilder) Bank(bank model.Bank) *TransactionBuilder {
	b.txn.Bank = bank
	return b
}

// Balance sets the available balance after the transaction.
func (b *TransactionBuilder) Balance(amount string) *TransactionBuilder {
	v := decimal.RequireFromString(amount)
	b.txn.BalanceAfter = &v
	return b
}

// Mode sets the payment rail.
func (b *TransactionBuilder) Mode(m model.Mode) *TransactionBuilder {
	b.txn.Mode = m
	return b
}

// Spam marks the transaction as promotional.
func (b *TransactionBuilder) Spam() *TransactionBuilder {
	b.txn.IsSpam = true
	return b
}

// AI marks the transaction as parsed by the language model.
func (b *TransactionBuilder) AI() *TransactionBuilder {
	b.txn.ParseMethod = model.ParseMethodAI
	b.txn.Confidence = model.ConfidenceAI
	return b
}

// Raw sets the message body.
func (b *TransactionBuilder) Raw(body string) *TransactionBuilder {
	b.txn.RawText = body
	return b
}

// Build returns the transaction.
func (b *TransactionBuilder) Build() model.ParsedTransaction {
	return b.txn
}
