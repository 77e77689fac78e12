package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cashwise/flowcast/internal/common"
	"github.com/cashwise/flowcast/internal/model"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	store, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	require.NoError(t, store.Migrate(context.Background()))
	t.Cleanup(func() { _ = store.Close() })
	return store
}

func testTransaction(clientID, vendorName string, date time.Time, amount float64) model.Transaction {
	txn := model.Transaction{
		ClientID:   clientID,
		VendorName: vendorName,
		Date:       date,
		Amount:     amount,
	}
	txn.Hash = txn.GenerateHash()
	txn.ID = txn.Hash
	return txn
}

func TestMigrateIsIdempotent(t *testing.T) {
	store := newTestStorage(t)
	require.NoError(t, store.Migrate(context.Background()))

	var version int
	err := store.db.QueryRowContext(context.Background(), "PRAGMA user_version").Scan(&version)
	require.NoError(t, err)
	assert.Equal(t, ExpectedSchemaVersion, version)
}

func TestSaveTransactionsAndQueryByDisplayName(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveVendor(ctx, &model.Vendor{
		ClientID:    "client-1",
		VendorName:  "NETFLIX.COM",
		DisplayName: "Netflix",
		Category:    model.CategoryRecurringServices,
	}))

	// Inserted out of order; reads must come back date-ascending.
	txns := []model.Transaction{
		testTransaction("client-1", "NETFLIX.COM", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), 15.49),
		testTransaction("client-1", "NETFLIX.COM", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 15.49),
		testTransaction("client-1", "NETFLIX.COM", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 15.49),
	}
	require.NoError(t, store.SaveTransactions(ctx, txns))

	got, err := store.GetTransactionsByDisplayName(ctx, "client-1", "Netflix",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, time.January, got[0].Date.Month())
	assert.Equal(t, time.February, got[1].Date.Month())
	assert.Equal(t, time.March, got[2].Date.Month())
	assert.Equal(t, "NETFLIX.COM", got[0].VendorName)
}

func TestSaveTransactionsDeduplicatesByHash(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveVendor(ctx, &model.Vendor{
		ClientID:    "client-1",
		VendorName:  "NETFLIX.COM",
		DisplayName: "Netflix",
	}))

	txn := testTransaction("client-1", "NETFLIX.COM", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 15.49)
	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{txn}))
	// Importing the same statement twice must not duplicate rows.
	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{txn}))

	got, err := store.GetTransactionsByDisplayName(ctx, "client-1", "Netflix",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestGetTransactionsByDisplayNameWindow(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveVendor(ctx, &model.Vendor{
		ClientID:    "client-1",
		VendorName:  "NETFLIX.COM",
		DisplayName: "Netflix",
	}))
	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{
		testTransaction("client-1", "NETFLIX.COM", time.Date(2023, 12, 1, 0, 0, 0, 0, time.UTC), 15.49),
		testTransaction("client-1", "NETFLIX.COM", time.Date(2024, 2, 1, 0, 0, 0, 0, time.UTC), 15.49),
	}))

	got, err := store.GetTransactionsByDisplayName(ctx, "client-1", "Netflix",
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, time.February, got[0].Date.Month())
}

func TestGetTransactionsByDisplayNameInvalidRange(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetTransactionsByDisplayName(context.Background(), "client-1", "Netflix",
		time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC),
		time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC))
	assert.ErrorIs(t, err, ErrInvalidDateRange)
}

func TestGetLatestTransactionDate(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	// No transactions yet: zero time, no error.
	latest, err := store.GetLatestTransactionDate(ctx, "client-1")
	require.NoError(t, err)
	assert.True(t, latest.IsZero())

	// Newest row inserted first; insertion order must not matter.
	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{
		testTransaction("client-1", "NETFLIX.COM", time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), 15.49),
		testTransaction("client-1", "NETFLIX.COM", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 15.49),
		testTransaction("client-2", "NETFLIX.COM", time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC), 15.49),
	}))

	latest, err = store.GetLatestTransactionDate(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC), latest.UTC())
}

func TestGetUnmappedVendorNames(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveVendor(ctx, &model.Vendor{
		ClientID:    "client-1",
		VendorName:  "NETFLIX.COM",
		DisplayName: "Netflix",
	}))
	require.NoError(t, store.SaveTransactions(ctx, []model.Transaction{
		testTransaction("client-1", "NETFLIX.COM", time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC), 15.49),
		testTransaction("client-1", "SHOPIFY PAYOUT", time.Date(2024, 1, 2, 0, 0, 0, 0, time.UTC), 1250),
		testTransaction("client-1", "GUSTO NET", time.Date(2024, 1, 3, 0, 0, 0, 0, time.UTC), 4200),
		testTransaction("client-1", "GUSTO NET", time.Date(2024, 1, 17, 0, 0, 0, 0, time.UTC), 4200),
	}))

	names, err := store.GetUnmappedVendorNames(ctx, "client-1")
	require.NoError(t, err)
	assert.Equal(t, []string{"GUSTO NET", "SHOPIFY PAYOUT"}, names)
}

func TestGetVendorNotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetVendor(context.Background(), "client-1", "NOBODY")
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestSaveVendorUpsert(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveVendor(ctx, &model.Vendor{
		ClientID:    "client-1",
		VendorName:  "ACME SUPPLY",
		DisplayName: "Acme Supply",
		Category:    model.CategoryOther,
	}))
	require.NoError(t, store.SaveVendor(ctx, &model.Vendor{
		ClientID:    "client-1",
		VendorName:  "ACME SUPPLY",
		DisplayName: "Inventory/Suppliers",
		Category:    model.CategoryInventory,
		IsInventory: true,
	}))

	vendor, err := store.GetVendor(ctx, "client-1", "ACME SUPPLY")
	require.NoError(t, err)
	assert.Equal(t, "Inventory/Suppliers", vendor.DisplayName)
	assert.Equal(t, model.CategoryInventory, vendor.Category)
	assert.True(t, vendor.IsInventory)
}

func TestGetVendorGroups(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveVendor(ctx, &model.Vendor{
		ClientID: "client-1", VendorName: "ACME SUPPLY", DisplayName: "Inventory/Suppliers",
		Category: model.CategoryInventory, IsInventory: true,
	}))
	require.NoError(t, store.SaveVendor(ctx, &model.Vendor{
		ClientID: "client-1", VendorName: "GLOBAL SUPPLIER CO", DisplayName: "Inventory/Suppliers",
		Category: model.CategoryInventory,
	}))
	require.NoError(t, store.SaveVendor(ctx, &model.Vendor{
		ClientID: "client-1", VendorName: "NETFLIX.COM", DisplayName: "Netflix",
		Category: model.CategoryRecurringServices,
	}))

	groups, err := store.GetVendorGroups(ctx, "client-1")
	require.NoError(t, err)
	require.Len(t, groups, 2)

	assert.Equal(t, "Inventory/Suppliers", groups[0].DisplayName)
	assert.Equal(t, []string{"ACME SUPPLY", "GLOBAL SUPPLIER CO"}, groups[0].VendorNames)
	// One inventory member marks the whole group.
	assert.True(t, groups[0].IsInventory)

	assert.Equal(t, "Netflix", groups[1].DisplayName)
	assert.False(t, groups[1].IsInventory)
}

func TestUpdateForecastConfig(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveVendor(ctx, &model.Vendor{
		ClientID: "client-1", VendorName: "ACME SUPPLY", DisplayName: "Inventory/Suppliers",
	}))
	require.NoError(t, store.SaveVendor(ctx, &model.Vendor{
		ClientID: "client-1", VendorName: "GLOBAL SUPPLIER CO", DisplayName: "Inventory/Suppliers",
	}))

	day := 15
	amount := 2450.75
	record := model.ForecastRecord{
		Method:         model.MethodTrailingAvg,
		Frequency:      model.FrequencyMonthly,
		PaymentDay:     &day,
		ForecastAmount: &amount,
		Confidence:     0.8,
		Explanation:    "Monthly payment on day 15, based on 3 transactions",
	}
	require.NoError(t, store.UpdateForecastConfig(ctx, "client-1", "Inventory/Suppliers", record))

	// Every member of the group gets the forecast.
	for _, name := range []string{"ACME SUPPLY", "GLOBAL SUPPLIER CO"} {
		vendor, err := store.GetVendor(ctx, "client-1", name)
		require.NoError(t, err)
		assert.Equal(t, "trailing_avg", vendor.ForecastMethod)
		assert.Equal(t, "monthly", vendor.ForecastFrequency)
		require.NotNil(t, vendor.ForecastDay)
		assert.Equal(t, 15, *vendor.ForecastDay)
		require.NotNil(t, vendor.ForecastAmount)
		assert.Equal(t, 2450.75, *vendor.ForecastAmount)
		assert.Equal(t, 0.8, vendor.ForecastConfidence)
	}
}

func TestUpdateForecastConfigUnknownGroup(t *testing.T) {
	store := newTestStorage(t)

	err := store.UpdateForecastConfig(context.Background(), "client-1", "Nobody", model.ForecastRecord{
		Method:    model.MethodManual,
		Frequency: model.FrequencyIrregular,
	})
	assert.ErrorIs(t, err, common.ErrNotFound)
}

func TestGetForecasts(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SaveVendor(ctx, &model.Vendor{
		ClientID: "client-1", VendorName: "ACME SUPPLY", DisplayName: "Inventory/Suppliers",
	}))
	require.NoError(t, store.SaveVendor(ctx, &model.Vendor{
		ClientID: "client-1", VendorName: "GLOBAL SUPPLIER CO", DisplayName: "Inventory/Suppliers",
	}))
	require.NoError(t, store.SaveVendor(ctx, &model.Vendor{
		ClientID: "client-1", VendorName: "NETFLIX.COM", DisplayName: "Netflix",
	}))

	amount := 1200.0
	day := 1
	require.NoError(t, store.UpdateForecastConfig(ctx, "client-1", "Inventory/Suppliers", model.ForecastRecord{
		Method:         model.MethodTrailingAvg,
		Frequency:      model.FrequencyMonthly,
		PaymentDay:     &day,
		ForecastAmount: &amount,
		Confidence:     0.8,
	}))

	forecasts, err := store.GetForecasts(ctx, "client-1")
	require.NoError(t, err)

	// Netflix has no forecast; the supplier group collapses to one row.
	require.Len(t, forecasts, 1)
	assert.Equal(t, "Inventory/Suppliers", forecasts[0].DisplayName)
	assert.Equal(t, "trailing_avg", forecasts[0].ForecastMethod)
	require.NotNil(t, forecasts[0].ForecastAmount)
	assert.Equal(t, 1200.0, *forecasts[0].ForecastAmount)
}

func TestSaveAnalysisAndGetLatest(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	freq := 31
	first := model.VendorAnalysis{
		AnalyzedAt:  time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		ClientID:    "client-1",
		DisplayName: "Netflix",
		Category:    model.CategoryRecurringServices,
		Pattern: model.PatternAnalysis{
			PatternType:   model.TimingMonthly,
			Confidence:    0.9,
			FrequencyDays: &freq,
		},
		Amounts: model.AmountAnalysis{
			PatternType: model.AmountFixed,
			Average:     15.49,
		},
		Recommendation:   model.RecommendAccept,
		Reasoning:        "Very reliable monthly pattern",
		TransactionCount: 12,
	}
	require.NoError(t, store.SaveAnalysis(ctx, &first))

	second := first
	second.AnalyzedAt = time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC)
	second.Pattern.Confidence = 0.95
	require.NoError(t, store.SaveAnalysis(ctx, &second))

	analyses, err := store.GetAnalyses(ctx, "client-1")
	require.NoError(t, err)

	// Append-only storage, latest run wins on read.
	require.Len(t, analyses, 1)
	assert.Equal(t, 0.95, analyses[0].Pattern.Confidence)
	require.NotNil(t, analyses[0].Pattern.FrequencyDays)
	assert.Equal(t, 31, *analyses[0].Pattern.FrequencyDays)
	assert.Equal(t, model.RecommendAccept, analyses[0].Recommendation)
}

func TestGetAnalysesByRecommendation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	save := func(name string, rec model.Recommendation, confidence float64) {
		analysis := model.VendorAnalysis{
			AnalyzedAt:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
			ClientID:       "client-1",
			DisplayName:    name,
			Category:       model.CategoryOther,
			Pattern:        model.PatternAnalysis{PatternType: model.TimingIrregular, Confidence: confidence},
			Amounts:        model.AmountAnalysis{PatternType: model.AmountModerateVariance},
			Recommendation: rec,
		}
		require.NoError(t, store.SaveAnalysis(ctx, &analysis))
	}

	save("Alpha", model.RecommendAccept, 0.9)
	save("Bravo", model.RecommendModify, 0.5)
	save("Charlie", model.RecommendManual, 0.2)

	got, err := store.GetAnalysesByRecommendation(ctx, "client-1",
		[]model.Recommendation{model.RecommendModify, model.RecommendManual})
	require.NoError(t, err)
	require.Len(t, got, 2)

	// Lowest confidence first so the riskiest vendors lead the review page.
	assert.Equal(t, "Charlie", got[0].DisplayName)
	assert.Equal(t, "Bravo", got[1].DisplayName)
}

func TestGetAnalysesByRecommendationEmptyFilter(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetAnalysesByRecommendation(context.Background(), "client-1", nil)
	assert.Error(t, err)
}

func TestValidationRejectsEmptyInputs(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	assert.Error(t, store.SaveTransactions(ctx, nil))
	assert.Error(t, store.SaveTransactions(ctx, []model.Transaction{}))
	assert.Error(t, store.SaveVendor(ctx, &model.Vendor{ClientID: "client-1"}))

	_, err := store.GetVendorGroups(ctx, "  ")
	assert.ErrorIs(t, err, ErrEmptyString)
}
