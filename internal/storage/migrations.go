package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

// ExpectedSchemaVersion is the latest schema version that the application
// expects. If the database cannot be migrated to this version, it's a fatal
// error.
const ExpectedSchemaVersion = 3

// Migration represents a database schema migration.
type Migration struct {
	Up          func(*sql.Tx) error
	Description string
	Version     int
}

var migrations = []Migration{
	{
		Version:     1,
		Description: "Initial schema",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS transactions (
					id TEXT PRIMARY KEY,
					hash TEXT UNIQUE NOT NULL,
					client_id TEXT NOT NULL,
					date DATETIME NOT NULL,
					vendor_name TEXT NOT NULL,
					account_id TEXT,
					txn_type TEXT,
					amount REAL NOT NULL,
					created_at DATETIME DEFAULT CURRENT_TIMESTAMP
				)`,
				`CREATE INDEX idx_transactions_client_date ON transactions(client_id, date)`,
				`CREATE INDEX idx_transactions_vendor ON transactions(client_id, vendor_name)`,

				`CREATE TABLE IF NOT EXISTS vendors (
					client_id TEXT NOT NULL,
					vendor_name TEXT NOT NULL,
					display_name TEXT NOT NULL,
					category TEXT NOT NULL DEFAULT 'other',
					is_inventory INTEGER NOT NULL DEFAULT 0,
					last_updated DATETIME DEFAULT CURRENT_TIMESTAMP,
					PRIMARY KEY (client_id, vendor_name)
				)`,
				`CREATE INDEX idx_vendors_display ON vendors(client_id, display_name)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     2,
		Description: "Add forecast configuration columns to vendors",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`ALTER TABLE vendors ADD COLUMN forecast_method TEXT`,
				`ALTER TABLE vendors ADD COLUMN forecast_frequency TEXT`,
				`ALTER TABLE vendors ADD COLUMN forecast_day INTEGER`,
				`ALTER TABLE vendors ADD COLUMN forecast_amount REAL`,
				`ALTER TABLE vendors ADD COLUMN forecast_confidence REAL NOT NULL DEFAULT 0`,
				`ALTER TABLE vendors ADD COLUMN forecast_notes TEXT`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
	{
		Version:     3,
		Description: "Add analyses table for pattern-analysis runs",
		Up: func(tx *sql.Tx) error {
			queries := []string{
				`CREATE TABLE IF NOT EXISTS analyses (
					id INTEGER PRIMARY KEY AUTOINCREMENT,
					client_id TEXT NOT NULL,
					display_name TEXT NOT NULL,
					category TEXT NOT NULL,
					pattern_type TEXT NOT NULL,
					confidence REAL NOT NULL DEFAULT 0,
					frequency_days INTEGER,
					amount_pattern TEXT NOT NULL,
					average_amount REAL NOT NULL DEFAULT 0,
					volatility REAL NOT NULL DEFAULT 0,
					transaction_count INTEGER NOT NULL DEFAULT 0,
					recommendation TEXT NOT NULL,
					reasoning TEXT,
					analyzed_at DATETIME NOT NULL
				)`,
				`CREATE INDEX idx_analyses_client ON analyses(client_id, analyzed_at)`,
				`CREATE INDEX idx_analyses_recommendation ON analyses(client_id, recommendation)`,
			}

			for _, query := range queries {
				if _, err := tx.Exec(query); err != nil {
					return fmt.Errorf("failed to execute query: %w", err)
				}
			}
			return nil
		},
	},
}

// Migrate applies all pending database migrations.
func (s *SQLiteStorage) Migrate(ctx context.Context) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	var currentVersion int
	err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&currentVersion)
	if err != nil {
		return fmt.Errorf("failed to get schema version: %w", err)
	}

	for _, migration := range migrations {
		if migration.Version <= currentVersion {
			continue
		}

		tx, txErr := s.db.BeginTx(ctx, nil)
		if txErr != nil {
			return fmt.Errorf("failed to begin transaction: %w", txErr)
		}

		if upErr := migration.Up(tx); upErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("migration %d failed: %w", migration.Version, upErr)
		}

		if _, execErr := tx.Exec(fmt.Sprintf("PRAGMA user_version = %d", migration.Version)); execErr != nil {
			_ = tx.Rollback()
			return fmt.Errorf("failed to update schema version: %w", execErr)
		}

		if commitErr := tx.Commit(); commitErr != nil {
			return fmt.Errorf("failed to commit migration %d: %w", migration.Version, commitErr)
		}

		slog.Info("Applied migration",
			"version", migration.Version,
			"description", migration.Description)
	}

	var finalVersion int
	err = s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&finalVersion)
	if err != nil {
		return fmt.Errorf("failed to verify final schema version: %w", err)
	}

	if finalVersion != ExpectedSchemaVersion {
		return fmt.Errorf("database schema version mismatch: expected %d, got %d", ExpectedSchemaVersion, finalVersion)
	}

	return nil
}
