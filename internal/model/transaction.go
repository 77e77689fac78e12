// Package model defines the core domain types shared across the application.
package model

import (
	"crypto/sha256"
	"fmt"
	"time"
)

// Transaction represents a single bank transaction as imported from a
// statement. Amounts are signed: positive for deposits and revenue,
// negative for withdrawals and expenses.
type Transaction struct {
	Date       time.Time
	ID         string
	ClientID   string
	VendorName string // Raw vendor string as it appears on the statement
	AccountID  string
	Type       string // Transaction type hint (e.g., DEBIT, CHECK, ACH)
	Hash       string
	Amount     float64
}

// GenerateHash creates a unique hash for duplicate detection.
func (t *Transaction) GenerateHash() string {
	data := fmt.Sprintf("%s:%s:%.2f:%s:%s",
		t.ClientID,
		t.Date.Format("2006-01-02"),
		t.Amount,
		t.VendorName,
		t.AccountID)
	hash := sha256.Sum256([]byte(data))
	return fmt.Sprintf("%x", hash)
}
