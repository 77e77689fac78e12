package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/cashwise/flowcast/internal/model"
)

// SaveTransactions inserts transactions, skipping duplicates by hash.
func (s *SQLiteStorage) SaveTransactions(ctx context.Context, transactions []model.Transaction) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateTransactions(transactions); err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT OR IGNORE INTO transactions (id, hash, client_id, date, vendor_name, account_id, txn_type, amount)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("failed to prepare insert: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for i := range transactions {
		txn := &transactions[i]
		if txn.Hash == "" {
			txn.Hash = txn.GenerateHash()
		}
		if _, err := stmt.ExecContext(ctx,
			txn.ID, txn.Hash, txn.ClientID, txn.Date.UTC(),
			txn.VendorName, txn.AccountID, txn.Type, txn.Amount,
		); err != nil {
			return fmt.Errorf("failed to insert transaction %s: %w", txn.ID, err)
		}
	}

	return tx.Commit()
}

// GetTransactionsByDisplayName returns all transactions whose raw vendor name
// maps to the given display name, inside [since, until], sorted ascending by
// date. Callers downstream rely on that ordering.
func (s *SQLiteStorage) GetTransactionsByDisplayName(ctx context.Context, clientID, displayName string, since, until time.Time) ([]model.Transaction, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}
	if err := validateString(displayName, "displayName"); err != nil {
		return nil, err
	}
	if until.Before(since) {
		return nil, fmt.Errorf("%w: %v is after %v", ErrInvalidDateRange, since, until)
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.client_id, t.date, t.vendor_name, t.account_id, t.txn_type, t.hash, t.amount
		FROM transactions t
		JOIN vendors v ON v.client_id = t.client_id AND v.vendor_name = t.vendor_name
		WHERE t.client_id = ? AND v.display_name = ? AND t.date >= ? AND t.date <= ?
		ORDER BY t.date ASC
	`, clientID, displayName, since.UTC(), until.UTC())
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions: %w", err)
	}
	defer func() { _ = rows.Close() }()

	return scanTransactions(rows)
}

// GetLatestTransactionDate returns the newest transaction date for a client.
// A client with no transactions returns the zero time and no error.
func (s *SQLiteStorage) GetLatestTransactionDate(ctx context.Context, clientID string) (time.Time, error) {
	if err := validateContext(ctx); err != nil {
		return time.Time{}, err
	}
	if err := validateString(clientID, "clientID"); err != nil {
		return time.Time{}, err
	}

	// MAX(date) loses the column's type affinity and comes back as a bare
	// string; ordering keeps the DATETIME declared type intact.
	var latest time.Time
	err := s.db.QueryRowContext(ctx, `
		SELECT date FROM transactions WHERE client_id = ? ORDER BY date DESC LIMIT 1
	`, clientID).Scan(&latest)
	if errors.Is(err, sql.ErrNoRows) {
		return time.Time{}, nil
	}
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to get latest transaction date: %w", err)
	}
	return latest, nil
}

// GetUnmappedVendorNames returns distinct raw vendor names that have no
// display-name mapping yet.
func (s *SQLiteStorage) GetUnmappedVendorNames(ctx context.Context, clientID string) ([]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(clientID, "clientID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT t.vendor_name
		FROM transactions t
		LEFT JOIN vendors v ON v.client_id = t.client_id AND v.vendor_name = t.vendor_name
		WHERE t.client_id = ? AND v.vendor_name IS NULL
		ORDER BY t.vendor_name
	`, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to query unmapped vendors: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan vendor name: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

func scanTransactions(rows *sql.Rows) ([]model.Transaction, error) {
	var transactions []model.Transaction
	for rows.Next() {
		var txn model.Transaction
		var accountID, txnType sql.NullString
		err := rows.Scan(
			&txn.ID,
			&txn.ClientID,
			&txn.Date,
			&txn.VendorName,
			&accountID,
			&txnType,
			&txn.Hash,
			&txn.Amount,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		txn.AccountID = accountID.String
		txn.Type = txnType.String
		transactions = append(transactions, txn)
	}

	return transactions, rows.Err()
}
