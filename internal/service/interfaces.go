// Package service defines the interfaces for all application services.
package service

import (
	"context"
	"time"

	"github.com/cashwise/flowcast/internal/model"
)

// Storage defines the contract for the persistence layer. Every operation is
// scoped by an explicit client ID; there is no ambient "current client".
type Storage interface {
	// Transaction operations
	SaveTransactions(ctx context.Context, transactions []model.Transaction) error
	GetTransactionsByDisplayName(ctx context.Context, clientID, displayName string, since, until time.Time) ([]model.Transaction, error)
	GetLatestTransactionDate(ctx context.Context, clientID string) (time.Time, error)
	GetUnmappedVendorNames(ctx context.Context, clientID string) ([]string, error)

	// Vendor mapping operations
	GetVendor(ctx context.Context, clientID, vendorName string) (*model.Vendor, error)
	SaveVendor(ctx context.Context, vendor *model.Vendor) error
	GetVendorGroups(ctx context.Context, clientID string) ([]model.VendorGroup, error)
	UpdateForecastConfig(ctx context.Context, clientID, displayName string, record model.ForecastRecord) error
	GetForecasts(ctx context.Context, clientID string) ([]model.Vendor, error)

	// Analysis run operations
	SaveAnalysis(ctx context.Context, analysis *model.VendorAnalysis) error
	GetAnalyses(ctx context.Context, clientID string) ([]model.VendorAnalysis, error)
	GetAnalysesByRecommendation(ctx context.Context, clientID string, recommendations []model.Recommendation) ([]model.VendorAnalysis, error)

	// Database management
	Migrate(ctx context.Context) error
	Close() error
}

// RetryOptions configures retry behavior for operations against external
// services.
type RetryOptions struct {
	MaxAttempts  int
	InitialDelay time.Duration
	MaxDelay     time.Duration
	Multiplier   float64
}
