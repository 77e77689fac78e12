package engine

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashwise/flowcast/internal/classification"
	"github.com/cashwise/flowcast/internal/model"
	"github.com/cashwise/flowcast/internal/testutil"
)

func monthlyTransactions(clientID, vendorName string, months int, amount float64) []model.Transaction {
	txns := make([]model.Transaction, 0, months)
	for i := 0; i < months; i++ {
		date := time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC)
		txns = append(txns, testutil.Transaction(clientID, vendorName, date, amount))
	}
	return txns
}

func TestAnalyzeGroupMonthlyVendor(t *testing.T) {
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	txns := monthlyTransactions("client-1", "NETFLIX.COM", 12, 15.49)

	analysis := AnalyzeGroup("Netflix", txns, model.CategoryRecurringServices, now)

	assert.Equal(t, "Netflix", analysis.DisplayName)
	assert.Equal(t, model.TimingMonthly, analysis.Pattern.PatternType)
	assert.GreaterOrEqual(t, analysis.Pattern.Confidence, 0.7)
	assert.Equal(t, model.AmountFixed, analysis.Amounts.PatternType)
	assert.Equal(t, model.RecommendAccept, analysis.Recommendation)
	assert.Equal(t, 12, analysis.TransactionCount)
	assert.Equal(t, now, analysis.AnalyzedAt)
}

func TestAnalyzeGroupTooFewTransactions(t *testing.T) {
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	txns := monthlyTransactions("client-1", "ONE OFF LLC", 2, 500)

	analysis := AnalyzeGroup("One Off Llc", txns, model.CategoryOther, now)

	assert.Equal(t, model.RecommendSkip, analysis.Recommendation)
	assert.Equal(t, "Too few transactions for reliable forecasting", analysis.Reasoning)
}

func TestAnalyzeGroupEmptyHistory(t *testing.T) {
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)

	analysis := AnalyzeGroup("Ghost Vendor", nil, model.CategoryOther, now)

	assert.Equal(t, model.TimingInsufficientData, analysis.Pattern.PatternType)
	assert.Equal(t, model.AmountUnknown, analysis.Amounts.PatternType)
	assert.Equal(t, model.RecommendSkip, analysis.Recommendation)
	assert.Equal(t, 0, analysis.TransactionCount)
}

func TestAnalyzeGroupDoesNotMutateInput(t *testing.T) {
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	txns := monthlyTransactions("client-1", "NETFLIX.COM", 6, 15.49)
	// Reverse so sorting inside the analyzer would reorder a shared slice.
	for i, j := 0, len(txns)-1; i < j; i, j = i+1, j-1 {
		txns[i], txns[j] = txns[j], txns[i]
	}
	firstDate := txns[0].Date

	AnalyzeGroup("Netflix", txns, model.CategoryRecurringServices, now)

	assert.Equal(t, firstDate, txns[0].Date)
}

func TestAnalyzeClient(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	clientID := "client-1"

	db.SeedVendor(&model.Vendor{
		ClientID:    clientID,
		VendorName:  "NETFLIX.COM",
		DisplayName: "Netflix",
		Category:    model.CategoryRecurringServices,
	})
	db.SeedVendor(&model.Vendor{
		ClientID:    clientID,
		VendorName:  "GUSTO NET 123",
		DisplayName: "Gusto Payroll",
		Category:    model.CategoryPeople,
	})

	var txns []model.Transaction
	for i := 0; i < 12; i++ {
		txns = append(txns, testutil.Transaction(clientID, "NETFLIX.COM",
			time.Date(2024, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC), 15.49))
	}
	for i := 0; i < 10; i++ {
		txns = append(txns, testutil.Transaction(clientID, "GUSTO NET 123",
			time.Date(2024, 6, 7, 0, 0, 0, 0, time.UTC).AddDate(0, 0, 14*i), 4200))
	}
	db.SeedTransactions(txns)

	classifier, err := classification.NewDefaultClassifier()
	require.NoError(t, err)
	eng := New(db.Storage, classifier)

	var callbacks int
	analyses, err := eng.AnalyzeClient(ctx, clientID, 365, now, func(model.VendorAnalysis) {
		callbacks++
	})
	require.NoError(t, err)
	require.Len(t, analyses, 2)
	assert.Equal(t, 2, callbacks)

	byName := make(map[string]model.VendorAnalysis)
	for _, a := range analyses {
		byName[a.DisplayName] = a
	}

	gusto := byName["Gusto Payroll"]
	assert.Equal(t, model.TimingBiWeekly, gusto.Pattern.PatternType)
	assert.Equal(t, model.RecommendAccept, gusto.Recommendation)

	netflix := byName["Netflix"]
	assert.Equal(t, model.TimingMonthly, netflix.Pattern.PatternType)
	assert.Equal(t, clientID, netflix.ClientID)

	// Each analysis is persisted.
	saved, err := db.Storage.GetAnalyses(ctx, clientID)
	require.NoError(t, err)
	assert.Len(t, saved, 2)
}

func TestAnalyzeClientLookbackWindow(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx := context.Background()
	now := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	clientID := "client-1"

	db.SeedVendor(&model.Vendor{
		ClientID:    clientID,
		VendorName:  "OLD VENDOR",
		DisplayName: "Old Vendor",
		Category:    model.CategoryOther,
	})

	// All history predates the lookback window.
	var txns []model.Transaction
	for i := 0; i < 6; i++ {
		txns = append(txns, testutil.Transaction(clientID, "OLD VENDOR",
			time.Date(2022, time.Month(i+1), 1, 0, 0, 0, 0, time.UTC), 100))
	}
	db.SeedTransactions(txns)

	classifier, err := classification.NewDefaultClassifier()
	require.NoError(t, err)
	eng := New(db.Storage, classifier)

	analyses, err := eng.AnalyzeClient(ctx, clientID, 90, now, nil)
	require.NoError(t, err)
	require.Len(t, analyses, 1)

	assert.Equal(t, 0, analyses[0].TransactionCount)
	assert.Equal(t, model.TimingInsufficientData, analyses[0].Pattern.PatternType)
}

func TestAnalyzeClientCancelled(t *testing.T) {
	db := testutil.SetupTestDB(t)
	clientID := "client-1"

	db.SeedVendor(&model.Vendor{
		ClientID:    clientID,
		VendorName:  "NETFLIX.COM",
		DisplayName: "Netflix",
		Category:    model.CategoryRecurringServices,
	})

	classifier, err := classification.NewDefaultClassifier()
	require.NoError(t, err)
	eng := New(db.Storage, classifier)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = eng.AnalyzeClient(ctx, clientID, 365, time.Now().UTC(), nil)
	assert.Error(t, err)
}
