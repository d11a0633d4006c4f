package model

import (
	"errors"
	"fmt"
	"math"
	"time"
)

// ErrInvalidSnapshot is returned when portfolio inputs break the engine's contract.
var ErrInvalidSnapshot = errors.New("invalid portfolio snapshot")

// AssetType is the code of a market-linked or retirement holding.
type AssetType string

// Asset types that the aggregator knows how to bucket.
const (
	AssetTypeStock      AssetType = "STOCK"
	AssetTypeMutualFund AssetType = "MUTUAL_FUND"
	AssetTypeEPF        AssetType = "EPF"
	AssetTypePPF        AssetType = "PPF"
	AssetTypeBond       AssetType = "BOND"
	AssetTypeGold       AssetType = "GOLD"
)

// Bucket is one of the four allocation classes of a portfolio.
type Bucket string

// Allocation buckets.
const (
	BucketEquity Bucket = "EQUITY"
	BucketDebt   Bucket = "DEBT"
	BucketGold   Bucket = "GOLD"
	BucketCash   Bucket = "CASH"
	BucketNone   Bucket = ""
)

// Bucket returns the allocation bucket for an asset type, or BucketNone for unmapped types.
func (t AssetType) Bucket() Bucket {
	switch t {
	case AssetTypeStock, AssetTypeMutualFund:
		return BucketEquity
	case AssetTypeEPF, AssetTypePPF, AssetTypeBond:
		return BucketDebt
	case AssetTypeGold:
		return BucketGold
	default:
		return BucketNone
	}
}

// DepositKind distinguishes fixed and recurring deposits.
type DepositKind string

// Deposit kinds.
const (
	DepositFixed     DepositKind = "FD"
	DepositRecurring DepositKind = "RD"
)

// CashKey is the per-type map key used for bank balances.
const CashKey = "CASH"

// Asset is a market-linked or retirement holding.
type Asset struct {
	ID           string    `yaml:"id,omitempty" json:"id,omitempty"`
	Name         string    `yaml:"name" json:"name"`
	Type         AssetType `yaml:"type" json:"type"`
	CurrentValue float64   `yaml:"current_value" json:"currentValue"`
	ProfitLoss   float64   `yaml:"profit_loss" json:"profitLoss"`
	Units        float64   `yaml:"units,omitempty" json:"units,omitempty"`
}

// Invested returns the amount originally put into the asset.
func (a Asset) Invested() float64 {
	return a.CurrentValue - a.ProfitLoss
}

// BankAccount is a savings or current account balance.
type BankAccount struct {
	ID      string  `yaml:"id,omitempty" json:"id,omitempty"`
	Name    string  `yaml:"name" json:"name"`
	Bank    Bank    `yaml:"bank" json:"bank"`
	Balance float64 `yaml:"balance" json:"balance"`
}

// Deposit is a fixed or recurring bank deposit.
type Deposit struct {
	MaturityDate *time.Time  `yaml:"maturity_date,omitempty" json:"maturityDate,omitempty"`
	ID           string      `yaml:"id,omitempty" json:"id,omitempty"`
	Name         string      `yaml:"name" json:"name"`
	Kind         DepositKind `yaml:"kind" json:"kind"`
	Principal    float64     `yaml:"principal" json:"principal"`
	CurrentValue float64     `yaml:"current_value" json:"currentValue"`
	InterestRate float64     `yaml:"interest_rate" json:"interestRate"`
}

// EntryType classifies a ledger entry for cash-flow purposes.
type EntryType string

// Ledger entry types.
const (
	EntryExpense EntryType = "EXPENSE"
	EntryIncome  EntryType = "INCOME"
	EntryUnknown EntryType = "UNKNOWN"
)

// EntryTypeFor maps an SMS transaction direction onto a ledger entry type.
func EntryTypeFor(t TransactionType) EntryType {
	switch t {
	case TransactionTypeDebit:
		return EntryExpense
	case TransactionTypeCredit:
		return EntryIncome
	default:
		return EntryUnknown
	}
}

// LedgerEntry is a historical cash movement used for expense forecasting.
type LedgerEntry struct {
	Date     time.Time `json:"date"`
	ID       string    `json:"id"`
	Merchant string    `json:"merchant"`
	Type     EntryType `json:"type"`
	Amount   float64   `json:"amount"`
}

// Snapshot bundles everything the insights engine needs for one report.
type Snapshot struct {
	Assets          []Asset       `yaml:"assets" json:"assets"`
	BankAccounts    []BankAccount `yaml:"bank_accounts" json:"bankAccounts"`
	Deposits        []Deposit     `yaml:"deposits" json:"deposits"`
	Transactions    []LedgerEntry `yaml:"-" json:"-"`
	MonthlyIncome   float64       `yaml:"monthly_income" json:"monthlyIncome"`
	MonthlyExpenses float64       `yaml:"monthly_expenses" json:"monthlyExpenses"`
}

// Validate rejects inputs that are programmer errors rather than data conditions.
func (s Snapshot) Validate() error {
	if err := checkAmount("monthly income", s.MonthlyIncome, false); err != nil {
		return err
	}
	if err := checkAmount("monthly expenses", s.MonthlyExpenses, false); err != nil {
		return err
	}
	for i, a := range s.Assets {
		if err := checkAmount(fmt.Sprintf("asset %d (%s) value", i, a.Name), a.CurrentValue, false); err != nil {
			return err
		}
		if err := checkAmount(fmt.Sprintf("asset %d (%s) profit/loss", i, a.Name), a.ProfitLoss, true); err != nil {
			return err
		}
	}
	for i, b := range s.BankAccounts {
		if err := checkAmount(fmt.Sprintf("bank account %d (%s) balance", i, b.Name), b.Balance, true); err != nil {
			return err
		}
	}
	for i, d := range s.Deposits {
		if err := checkAmount(fmt.Sprintf("deposit %d (%s) value", i, d.Name), d.CurrentValue, false); err != nil {
			return err
		}
		if err := checkAmount(fmt.Sprintf("deposit %d (%s) principal", i, d.Name), d.Principal, false); err != nil {
			return err
		}
	}
	for i, e := range s.Transactions {
		if err := checkAmount(fmt.Sprintf("transaction %d amount", i), e.Amount, false); err != nil {
			return err
		}
	}
	return nil
}

func checkAmount(field string, v float64, allowNegative bool) error {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return fmt.Errorf("%w: %s is not a finite number", ErrInvalidSnapshot, field)
	}
	if !allowNegative && v < 0 {
		return fmt.Errorf("%w: %s is negative", ErrInvalidSnapshot, field)
	}
	return nil
}
