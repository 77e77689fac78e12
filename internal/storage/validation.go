package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/cashwise/flowcast/internal/model"
)

// Validation errors.
var (
	ErrNilContext         = errors.New("context cannot be nil")
	ErrEmptyString        = errors.New("string parameter cannot be empty")
	ErrNilParameter       = errors.New("parameter cannot be nil")
	ErrEmptySlice         = errors.New("slice cannot be empty")
	ErrInvalidDateRange   = errors.New("start date must be before end date")
	ErrInvalidTransaction = errors.New("invalid transaction")
	ErrInvalidVendor      = errors.New("invalid vendor")
	ErrInvalidAnalysis    = errors.New("invalid analysis")
)

// validateContext ensures the context is not nil.
func validateContext(ctx context.Context) error {
	if ctx == nil {
		return ErrNilContext
	}
	return nil
}

// validateString ensures a string parameter is not empty.
func validateString(s string, paramName string) error {
	if strings.TrimSpace(s) == "" {
		return fmt.Errorf("%w: %s", ErrEmptyString, paramName)
	}
	return nil
}

// validateTransactions validates a slice of transactions.
func validateTransactions(transactions []model.Transaction) error {
	if transactions == nil {
		return fmt.Errorf("%w: transactions", ErrNilParameter)
	}
	if len(transactions) == 0 {
		return fmt.Errorf("%w: transactions", ErrEmptySlice)
	}

	for i, txn := range transactions {
		if err := validateTransaction(&txn); err != nil {
			return fmt.Errorf("transaction at index %d: %w", i, err)
		}
	}
	return nil
}

// validateTransaction validates a single transaction.
func validateTransaction(txn *model.Transaction) error {
	if txn == nil {
		return fmt.Errorf("%w: transaction", ErrNilParameter)
	}
	if txn.ID == "" {
		return fmt.Errorf("%w: missing ID", ErrInvalidTransaction)
	}
	if txn.ClientID == "" {
		return fmt.Errorf("%w: missing client ID", ErrInvalidTransaction)
	}
	if txn.Date.IsZero() {
		return fmt.Errorf("%w: missing date", ErrInvalidTransaction)
	}
	if txn.VendorName == "" {
		return fmt.Errorf("%w: missing vendor name", ErrInvalidTransaction)
	}
	return nil
}

// validateVendor validates a vendor mapping.
func validateVendor(vendor *model.Vendor) error {
	if vendor == nil {
		return fmt.Errorf("%w: vendor", ErrNilParameter)
	}
	if strings.TrimSpace(vendor.ClientID) == "" {
		return fmt.Errorf("%w: missing client ID", ErrInvalidVendor)
	}
	if strings.TrimSpace(vendor.VendorName) == "" {
		return fmt.Errorf("%w: missing vendor name", ErrInvalidVendor)
	}
	if strings.TrimSpace(vendor.DisplayName) == "" {
		return fmt.Errorf("%w: missing display name", ErrInvalidVendor)
	}
	return nil
}

// validateAnalysis validates a vendor analysis before persistence.
func validateAnalysis(analysis *model.VendorAnalysis) error {
	if analysis == nil {
		return fmt.Errorf("%w: analysis", ErrNilParameter)
	}
	if strings.TrimSpace(analysis.ClientID) == "" {
		return fmt.Errorf("%w: missing client ID", ErrInvalidAnalysis)
	}
	if strings.TrimSpace(analysis.DisplayName) == "" {
		return fmt.Errorf("%w: missing display name", ErrInvalidAnalysis)
	}
	if analysis.Pattern.Confidence < 0 || analysis.Pattern.Confidence > 1 {
		return fmt.Errorf("%w: confidence must be between 0 and 1", ErrInvalidAnalysis)
	}
	return nil
}
