// Package service defines the interfaces shared between the CLI, ingest and storage layers.
package service

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// TransactionFilter defines filtering options for transaction queries.
type TransactionFilter struct {
	StartDate   *time.Time
	EndDate     *time.Time
	Type        model.TransactionType
	Bank        model.Bank
	Limit       int
	Offset      int
	IncludeSpam bool
}

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Transaction operations
	SaveParsedTransactions(ctx context.Context, transactions []model.ParsedTransaction) (SaveResult, error)
	ListParsedTransactions(ctx context.Context, filter TransactionFilter) ([]model.StoredTransaction, error)
	GetParsedTransaction(ctx context.Context, id string) (*model.StoredTransaction, error)
	LedgerEntries(ctx context.Context, since time.Time) ([]model.LedgerEntry, error)
	TransactionStats(ctx context.Context) (*TransactionStats, error)

	// Holdings operations
	ReplaceHoldings(ctx context.Context, snapshot model.Snapshot) error
	LoadHoldings(ctx context.Context) (model.Snapshot, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// SaveResult reports how a batch of parsed transactions was persisted.
type SaveResult struct {
	Inserted   int
	Duplicates int
}

// TransactionStats summarises everything stored so far.
type TransactionStats struct {
	First       *time.Time
	Last        *time.Time
	ByBank      map[model.Bank]int
	TotalDebit  decimal.Decimal
	TotalCredit decimal.Decimal
	Total       int
	Debits      int
	Credits     int
	Unknown     int
	Spam        int
	ParsedByAI  int
}

// RetryOptions configures retry behavior for operations.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}

// DateRange represents a time period with start and end dates.
type DateRange struct {
	Start time.Time
	End   time.Time
}
