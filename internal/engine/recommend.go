package engine

import (
	"fmt"
	"strings"

	"github.com/cashwise/flowcast/internal/model"
)

// Confidence thresholds used by the recommendation cascade.
const (
	revenueAcceptConfidence  = 0.7
	revenueModifyConfidence  = 0.4
	creditCardConfidence     = 0.6
	taxManualConfidence      = 0.5
	generalAcceptConfidence  = 0.8
	generalModifyConfidence  = 0.6
	generalManualConfidence  = 0.3
	minForecastableTxnCount  = 3
)

// Recommend runs the review-recommendation cascade for a vendor group. Rules
// are evaluated in priority order and the first match wins; category-specific
// rules shadow the generic confidence thresholds below them. The same inputs
// always yield the same output.
func Recommend(pattern model.PatternAnalysis, txnCount int, category model.BusinessCategory, displayName string) (model.Recommendation, string) {
	confidence := pattern.Confidence

	if txnCount < minForecastableTxnCount {
		return model.RecommendSkip, "Too few transactions for reliable forecasting"
	}

	if category == model.CategoryTaxPayments && confidence < taxManualConfidence {
		return model.RecommendManual, "Tax payments are irregular but important - set manual schedule"
	}

	if category == model.CategoryRevenueChannels {
		switch {
		case confidence >= revenueAcceptConfidence:
			return model.RecommendAccept, fmt.Sprintf("Strong %s revenue pattern - reliable for forecasting", pattern.PatternType)
		case confidence >= revenueModifyConfidence:
			return model.RecommendModify, "Moderate revenue pattern - may need timing adjustments"
		default:
			return model.RecommendManual, "Irregular revenue - set conservative estimates"
		}
	}

	if category == model.CategoryCreditCards {
		if confidence >= creditCardConfidence {
			return model.RecommendAccept, fmt.Sprintf("Regular %s credit card payments", pattern.PatternType)
		}
		return model.RecommendModify, "Credit card payments vary - consider average monthly amount"
	}

	if category == model.CategoryPeople {
		lower := strings.ToLower(displayName)
		if strings.Contains(lower, "payroll") || strings.Contains(lower, "gusto") {
			return model.RecommendAccept, "Payroll should be regular - accept or verify schedule"
		}
		return model.RecommendManual, "People costs need business context"
	}

	switch {
	case confidence >= generalAcceptConfidence:
		return model.RecommendAccept, fmt.Sprintf("Very reliable %s pattern", pattern.PatternType)
	case confidence >= generalModifyConfidence:
		return model.RecommendModify, fmt.Sprintf("Good %s pattern but may need adjustments", pattern.PatternType)
	case confidence >= generalManualConfidence:
		return model.RecommendManual, "Weak pattern detected - consider manual forecasting"
	default:
		return model.RecommendSkip, "No reliable pattern - one-off or too irregular"
	}
}
