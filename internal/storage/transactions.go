package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/Veraticus/rupee-flow/internal/common"
	"github.com/Veraticus/rupee-flow/internal/model"
	"github.com/Veraticus/rupee-flow/internal/service"
)

const transactionColumns = `id, hash, received_at, sender, bank, type, amount, balance_after,
	merchant, account_last4, reference_id, mode, raw_text, parse_method, confidence, is_spam, imported_at`

// SaveParsedTransactions stores parsed transactions, skipping messages that were imported before.
// Duplicates are detected by message hash, so re-importing the same backup is a no-op.
func (s *SQLiteStorage) SaveParsedTransactions(ctx context.Context, transactions []model.ParsedTransaction) (service.SaveResult, error) {
	var result service.SaveResult
	if err := validateContext(ctx); err != nil {
		return result, err
	}
	if err := validateParsedTransactions(transactions); err != nil {
		return result, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return result, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO sms_transactions (`+transactionColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return result, fmt.Errorf("failed to prepare statement: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	importedAt := time.Now().UTC()
	for i := range transactions {
		txn := &transactions[i]

		var balance sql.NullString
		if txn.BalanceAfter != nil {
			balance = sql.NullString{String: txn.BalanceAfter.String(), Valid: true}
		}

		res, execErr := stmt.ExecContext(ctx,
			uuid.New().String(),
			txn.Hash(),
			txn.Timestamp.UTC(),
			txn.Sender,
			string(txn.Bank),
			string(txn.Type),
			txn.Amount.String(),
			balance,
			txn.Merchant,
			txn.AccountLast4,
			txn.ReferenceID,
			string(txn.Mode),
			txn.RawText,
			string(txn.ParseMethod),
			txn.Confidence,
			txn.IsSpam,
			importedAt,
		)
		if execErr != nil {
			return result, fmt.Errorf("failed to insert transaction %d: %w", i, execErr)
		}

		affected, rowsErr := res.RowsAffected()
		if rowsErr != nil {
			return result, fmt.Errorf("failed to get rows affected: %w", rowsErr)
		}
		if affected == 0 {
			result.Duplicates++
		} else {
			result.Inserted++
		}
	}

	if err := tx.Commit(); err != nil {
		return result, fmt.Errorf("failed to commit transactions: %w", err)
	}

	s.logger.Debug("Saved parsed transactions",
		"inserted", result.Inserted,
		"duplicates", result.Duplicates)
	return result, nil
}

// ListParsedTransactions returns stored transactions matching the filter, newest first.
func (s *SQLiteStorage) ListParsedTransactions(ctx context.Context, filter service.TransactionFilter) ([]model.StoredTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateFilter(filter); err != nil {
		return nil, err
	}

	var (
		where []string
		args  []any
	)
	if filter.StartDate != nil {
		where = append(where, "received_at >= ?")
		args = append(args, filter.StartDate.UTC())
	}
	if filter.EndDate != nil {
		where = append(where, "received_at <= ?")
		args = append(args, filter.EndDate.UTC())
	}
	if filter.Type != "" {
		where = append(where, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.Bank != "" {
		where = append(where, "bank = ?")
		args = append(args, string(filter.Bank))
	}
	if !filter.IncludeSpam {
		where = append(where, "is_spam = 0")
	}

	query := "SELECT " + transactionColumns + " FROM sms_transactions"
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY received_at DESC, id"
	switch {
	case filter.Limit > 0:
		query += " LIMIT ? OFFSET ?"
		args = append(args, filter.Limit, filter.Offset)
	case filter.Offset > 0:
		query += " LIMIT -1 OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var transactions []model.StoredTransaction
	for rows.Next() {
		txn, scanErr := scanTransaction(rows)
		if scanErr != nil {
			return nil, scanErr
		}
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transactions: %w", err)
	}
	return transactions, nil
}

// GetParsedTransaction returns a single stored transaction by id.
func (s *SQLiteStorage) GetParsedTransaction(ctx context.Context, id string) (*model.StoredTransaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(id, "id"); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx,
		"SELECT "+transactionColumns+" FROM sms_transactions WHERE id = ?", id)
	txn, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("transaction %s: %w", id, common.ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return &txn, nil
}

// LedgerEntries converts non-spam transactions received at or after since into ledger entries.
// A zero since returns the full history.
func (s *SQLiteStorage) LedgerEntries(ctx context.Context, since time.Time) ([]model.LedgerEntry, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	query := "SELECT id, received_at, merchant, type, amount FROM sms_transactions WHERE is_spam = 0"
	var args []any
	if !since.IsZero() {
		query += " AND received_at >= ?"
		args = append(args, since.UTC())
	}
	query += " ORDER BY received_at, id"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query ledger entries: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var entries []model.LedgerEntry
	for rows.Next() {
		var (
			entry   model.LedgerEntry
			txnType string
			amount  string
		)
		if err := rows.Scan(&entry.ID, &entry.Date, &entry.Merchant, &txnType, &amount); err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("transaction %s has corrupt amount %q: %w", entry.ID, amount, common.ErrDatabaseCorrupted)
		}
		entry.Amount = value.InexactFloat64()
		entry.Type = model.EntryTypeFor(model.TransactionType(txnType))
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w", err)
	}
	return entries, nil
}

// TransactionStats summarises everything stored so far.
func (s *SQLiteStorage) TransactionStats(ctx context.Context) (*service.TransactionStats, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx,
		"SELECT received_at, bank, type, amount, parse_method, is_spam FROM sms_transactions")
	if err != nil {
		return nil, fmt.Errorf("failed to query transaction stats: %w", err)
	}
	defer func() { _ = rows.Close() }()

	stats := &service.TransactionStats{
		ByBank:      make(map[model.Bank]int),
		TotalDebit:  decimal.Zero,
		TotalCredit: decimal.Zero,
	}
	for rows.Next() {
		var (
			receivedAt time.Time
			bank       string
			txnType    string
			amount     string
			method     string
			isSpam     bool
		)
		if err := rows.Scan(&receivedAt, &bank, &txnType, &amount, &method, &isSpam); err != nil {
			return nil, fmt.Errorf("failed to scan transaction stats: %w", err)
		}

		stats.Total++
		if stats.First == nil || receivedAt.Before(*stats.First) {
			first := receivedAt
			stats.First = &first
		}
		if stats.Last == nil || receivedAt.After(*stats.Last) {
			last := receivedAt
			stats.Last = &last
		}
		stats.ByBank[model.Bank(bank)]++
		if model.ParseMethod(method) == model.ParseMethodAI {
			stats.ParsedByAI++
		}
		if isSpam {
			stats.Spam++
			continue
		}

		value, err := decimal.NewFromString(amount)
		if err != nil {
			return nil, fmt.Errorf("corrupt amount %q: %w", amount, common.ErrDatabaseCorrupted)
		}
		switch model.TransactionType(txnType) {
		case model.TransactionTypeDebit:
			stats.Debits++
			stats.TotalDebit = stats.TotalDebit.Add(value)
		case model.TransactionTypeCredit:
			stats.Credits++
			stats.TotalCredit = stats.TotalCredit.Add(value)
		default:
			stats.Unknown++
		}
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction stats: %w", err)
	}
	return stats, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row rowScanner) (model.StoredTransaction, error) {
	var (
		txn     model.StoredTransaction
		bank    string
		txnType string
		amount  string
		balance sql.NullString
		mode    string
		method  string
	)
	err := row.Scan(
		&txn.ID,
		&txn.Hash,
		&txn.Timestamp,
		&txn.Sender,
		&bank,
		&txnType,
		&amount,
		&balance,
		&txn.Merchant,
		&txn.AccountLast4,
		&txn.ReferenceID,
		&mode,
		&txn.RawText,
		&method,
		&txn.Confidence,
		&txn.IsSpam,
		&txn.ImportedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return txn, err
	}
	if err != nil {
		return txn, fmt.Errorf("failed to scan transaction: %w", err)
	}

	txn.Bank = model.Bank(bank)
	txn.Type = model.TransactionType(txnType)
	txn.Mode = model.Mode(mode)
	txn.ParseMethod = model.ParseMethod(method)

	value, err := decimal.NewFromString(amount)
	if err != nil {
		return txn, fmt.Errorf("transaction %s has corrupt amount %q: %w", txn.ID, amount, common.ErrDatabaseCorrupted)
	}
	txn.Amount = value

	if balance.Valid {
		b, balanceErr := decimal.NewFromString(balance.String)
		if balanceErr != nil {
			return txn, fmt.Errorf("transaction %s has corrupt balance %q: %w", txn.ID, balance.String, common.ErrDatabaseCorrupted)
		}
		txn.BalanceAfter = &b
	}
	return txn, nil
}
