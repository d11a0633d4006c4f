package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/Veraticus/rupee-flow/internal/model"
)

// ReplaceHoldings swaps the stored portfolio for the given snapshot in a single transaction.
// Ledger entries on the snapshot are ignored; they live in sms_transactions.
func (s *SQLiteStorage) ReplaceHoldings(ctx context.Context, snapshot model.Snapshot) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := snapshot.Validate(); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	for _, table := range []string{"assets", "bank_accounts", "deposits"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}

	for i, a := range snapshot.Assets {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO assets (id, position, name, type, current_value, profit_loss, units)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			idOrNew(a.ID), i, a.Name, string(a.Type), a.CurrentValue, a.ProfitLoss, a.Units,
		); err != nil {
			return fmt.Errorf("failed to insert asset %q: %w", a.Name, err)
		}
	}

	for i, b := range snapshot.BankAccounts {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO bank_accounts (id, position, name, bank, balance)
			VALUES (?, ?, ?, ?, ?)`,
			idOrNew(b.ID), i, b.Name, string(b.Bank), b.Balance,
		); err != nil {
			return fmt.Errorf("failed to insert bank account %q: %w", b.Name, err)
		}
	}

	for i, d := range snapshot.Deposits {
		var maturity sql.NullTime
		if d.MaturityDate != nil {
			maturity = sql.NullTime{Time: d.MaturityDate.UTC(), Valid: true}
		}
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO deposits (id, position, name, kind, principal, current_value, interest_rate, maturity_date)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			idOrNew(d.ID), i, d.Name, string(d.Kind), d.Principal, d.CurrentValue, d.InterestRate, maturity,
		); err != nil {
			return fmt.Errorf("failed to insert deposit %q: %w", d.Name, err)
		}
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO cash_flow_profile (id, monthly_income, monthly_expenses, updated_at)
		VALUES (1, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			monthly_income = excluded.monthly_income,
			monthly_expenses = excluded.monthly_expenses,
			updated_at = excluded.updated_at`,
		snapshot.MonthlyIncome, snapshot.MonthlyExpenses, time.Now().UTC(),
	); err != nil {
		return fmt.Errorf("failed to save cash flow profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit holdings: %w", err)
	}

	s.logger.Info("Replaced holdings",
		"assets", len(snapshot.Assets),
		"bank_accounts", len(snapshot.BankAccounts),
		"deposits", len(snapshot.Deposits))
	return nil
}

// LoadHoldings returns the stored portfolio in the order it was saved.
// An empty database yields an empty snapshot.
func (s *SQLiteStorage) LoadHoldings(ctx context.Context) (model.Snapshot, error) {
	var snapshot model.Snapshot
	if err := validateContext(ctx); err != nil {
		return snapshot, err
	}

	assets, err := s.loadAssets(ctx)
	if err != nil {
		return snapshot, err
	}
	accounts, err := s.loadBankAccounts(ctx)
	if err != nil {
		return snapshot, err
	}
	deposits, err := s.loadDeposits(ctx)
	if err != nil {
		return snapshot, err
	}
	snapshot.Assets = assets
	snapshot.BankAccounts = accounts
	snapshot.Deposits = deposits

	err = s.db.QueryRowContext(ctx,
		"SELECT monthly_income, monthly_expenses FROM cash_flow_profile WHERE id = 1",
	).Scan(&snapshot.MonthlyIncome, &snapshot.MonthlyExpenses)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return snapshot, fmt.Errorf("failed to load cash flow profile: %w", err)
	}

	return snapshot, nil
}

func (s *SQLiteStorage) loadAssets(ctx context.Context) ([]model.Asset, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, type, current_value, profit_loss, units FROM assets ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query assets: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var assets []model.Asset
	for rows.Next() {
		var (
			a         model.Asset
			assetType string
		)
		if err := rows.Scan(&a.ID, &a.Name, &assetType, &a.CurrentValue, &a.ProfitLoss, &a.Units); err != nil {
			return nil, fmt.Errorf("failed to scan asset: %w", err)
		}
		a.Type = model.AssetType(assetType)
		assets = append(assets, a)
	}
	return assets, rows.Err()
}

func (s *SQLiteStorage) loadBankAccounts(ctx context.Context) ([]model.BankAccount, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, bank, balance FROM bank_accounts ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query bank accounts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var accounts []model.BankAccount
	for rows.Next() {
		var (
			b    model.BankAccount
			bank string
		)
		if err := rows.Scan(&b.ID, &b.Name, &bank, &b.Balance); err != nil {
			return nil, fmt.Errorf("failed to scan bank account: %w", err)
		}
		b.Bank = model.Bank(bank)
		accounts = append(accounts, b)
	}
	return accounts, rows.Err()
}

func (s *SQLiteStorage) loadDeposits(ctx context.Context) ([]model.Deposit, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, kind, principal, current_value, interest_rate, maturity_date FROM deposits ORDER BY position")
	if err != nil {
		return nil, fmt.Errorf("failed to query deposits: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var deposits []model.Deposit
	for rows.Next() {
		var (
			d        model.Deposit
			kind     string
			maturity sql.NullTime
		)
		if err := rows.Scan(&d.ID, &d.Name, &kind, &d.Principal, &d.CurrentValue, &d.InterestRate, &maturity); err != nil {
			return nil, fmt.Errorf("failed to scan deposit: %w", err)
		}
		d.Kind = model.DepositKind(kind)
		if maturity.Valid {
			m := maturity.Time
			d.MaturityDate = &m
		}
		deposits = append(deposits, d)
	}
	return deposits, rows.Err()
}

func idOrNew(id string) string {
	if id != "" {
		return id
	}
	return uuid.New().String()
}
