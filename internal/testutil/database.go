// Package testutil provides shared helpers for tests that need a real
// database and seeded domain data.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/cashwise/flowcast/internal/model"
	"github.com/cashwise/flowcast/internal/service"
	"github.com/cashwise/flowcast/internal/storage"
)

// TestDB wraps an in-memory database with seeding helpers.
type TestDB struct {
	Storage service.Storage
	t       *testing.T
}

// SetupTestDB creates a migrated in-memory database. Cleanup is registered
// automatically.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	ctx := context.Background()
	if err := store.Migrate(ctx); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() {
		_ = store.Close()
	})

	return &TestDB{
		Storage: store,
		t:       t,
	}
}

// SeedVendor saves a vendor mapping or fails the test.
func (db *TestDB) SeedVendor(vendor *model.Vendor) {
	db.t.Helper()
	if err := db.Storage.SaveVendor(context.Background(), vendor); err != nil {
		db.t.Fatalf("failed to seed vendor %q: %v", vendor.VendorName, err)
	}
}

// SeedTransactions saves transactions or fails the test.
func (db *TestDB) SeedTransactions(transactions []model.Transaction) {
	db.t.Helper()
	if err := db.Storage.SaveTransactions(context.Background(), transactions); err != nil {
		db.t.Fatalf("failed to seed transactions: %v", err)
	}
}

// Transaction builds a transaction with sensible defaults for tests.
func Transaction(clientID, vendorName string, date time.Time, amount float64) model.Transaction {
	tx := model.Transaction{
		ClientID:   clientID,
		VendorName: vendorName,
		Date:       date,
		Amount:     amount,
	}
	tx.Hash = tx.GenerateHash()
	tx.ID = tx.Hash
	return tx
}
