// Package engine orchestrates vendor group analysis: timing and amount
// pattern detection, business categorization, and review recommendations.
package engine

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/cashwise/flowcast/internal/classification"
	"github.com/cashwise/flowcast/internal/common"
	"github.com/cashwise/flowcast/internal/model"
	"github.com/cashwise/flowcast/internal/pattern"
	"github.com/cashwise/flowcast/internal/service"
)

// Engine runs pattern analysis across a client's vendor groups.
type Engine struct {
	storage    service.Storage
	classifier *classification.Classifier
}

// New creates an analysis engine.
func New(storage service.Storage, classifier *classification.Classifier) *Engine {
	return &Engine{
		storage:    storage,
		classifier: classifier,
	}
}

// AnalyzeGroup analyzes a single vendor group. It is a pure function of its
// inputs: no storage access, no side effects, no clock reads beyond the
// supplied analysis time. Sparse histories degrade to low-confidence results,
// never errors.
func AnalyzeGroup(displayName string, transactions []model.Transaction, category model.BusinessCategory, analyzedAt time.Time) model.VendorAnalysis {
	sorted := make([]model.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	amounts := make([]float64, len(sorted))
	for i, txn := range sorted {
		amounts[i] = txn.Amount
	}

	timing := pattern.AnalyzeTiming(sorted)
	amountAnalysis := pattern.AnalyzeAmounts(amounts)
	recommendation, reasoning := Recommend(timing, len(sorted), category, displayName)

	return model.VendorAnalysis{
		AnalyzedAt:       analyzedAt,
		DisplayName:      displayName,
		Category:         category,
		Pattern:          timing,
		Amounts:          amountAnalysis,
		Recommendation:   recommendation,
		Reasoning:        reasoning,
		TransactionCount: len(sorted),
	}
}

// AnalyzeClient analyzes every vendor group of a client over the given
// lookback window, persisting each analysis. The onGroup callback, when
// non-nil, is invoked after each group completes (used for progress display).
func (e *Engine) AnalyzeClient(ctx context.Context, clientID string, lookbackDays int, now time.Time, onGroup func(model.VendorAnalysis)) ([]model.VendorAnalysis, error) {
	groups, err := e.storage.GetVendorGroups(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load vendor groups: %w", err)
	}

	since := now.AddDate(0, 0, -lookbackDays)
	analyses := make([]model.VendorAnalysis, 0, len(groups))

	for _, group := range groups {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		default:
		}

		transactions, err := e.storage.GetTransactionsByDisplayName(ctx, clientID, group.DisplayName, since, now)
		if err != nil {
			return nil, fmt.Errorf("failed to load transactions for %s: %w", group.DisplayName, err)
		}

		analysis := AnalyzeGroup(group.DisplayName, transactions, group.Category, now)
		analysis.ClientID = clientID

		if err := e.storage.SaveAnalysis(ctx, &analysis); err != nil {
			return nil, fmt.Errorf("failed to save analysis for %s: %w", group.DisplayName, err)
		}

		common.LogDebug("Analyzed vendor group", common.Fields{
			"client":         clientID,
			"group":          group.DisplayName,
			"pattern":        analysis.Pattern.PatternType,
			"confidence":     analysis.Pattern.Confidence,
			"recommendation": analysis.Recommendation,
		})

		analyses = append(analyses, analysis)
		if onGroup != nil {
			onGroup(analysis)
		}
	}

	common.LogInfo("Client analysis complete", common.Fields{
		"client": clientID,
		"groups": len(analyses),
	})

	return analyses, nil
}
