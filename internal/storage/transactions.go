package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/finsage/finsage/internal/model"
	"github.com/finsage/finsage/internal/service"
)

// Ensure the storage satisfies the transaction source contract.
var _ service.TransactionSource = (*SQLiteStorage)(nil)

// SaveTransactions inserts transactions, skipping duplicates by hash.
// Returns the number of newly inserted records.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.TransactionRecord) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `INSERT OR IGNORE INTO transactions
		(id, hash, date, amount, category, note) VALUES (?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	inserted := 0
	for _, txn := range transactions {
		result, err := stmt.ExecContext(ctx, txn.ID, txn.Hash(), txn.Date, txn.Amount, txn.Category, txn.Note)
		if err != nil {
			return 0, fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
		if rows, err := result.RowsAffected(); err == nil {
			inserted += int(rows)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transactions: %w", err)
	}
	return inserted, nil
}

// FetchAll returns every transaction, sorted by date descending.
func (s *SQLiteStorage) FetchAll(ctx context.Context) ([]model.TransactionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, date, amount, category, note
		FROM transactions ORDER BY date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// FetchByCategory returns a category's transactions, sorted by date
// descending.
func (s *SQLiteStorage) FetchByCategory(ctx context.Context, category string) ([]model.TransactionRecord, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(category, "category"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT id, date, amount, category, note
		FROM transactions WHERE category = ? ORDER BY date DESC`, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions by category: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// TransactionCount returns the total number of stored transactions.
func (s *SQLiteStorage) TransactionCount(ctx context.Context) (int, error) {
	if err := validateContext(ctx); err != nil {
		return 0, err
	}

	var count int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count transactions: %w", err)
	}
	return count, nil
}

func scanTransactions(rows *sql.Rows) ([]model.TransactionRecord, error) {
	var transactions []model.TransactionRecord
	for rows.Next() {
		var txn model.TransactionRecord
		var date time.Time
		if err := rows.Scan(&txn.ID, &date, &txn.Amount, &txn.Category, &txn.Note); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.Date = date
		transactions = append(transactions, txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transactions: %w", err)
	}
	return transactions, nil
}
