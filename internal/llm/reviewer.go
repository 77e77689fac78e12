package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/cashwise/flowcast/internal/common"
	"github.com/cashwise/flowcast/internal/model"
	"github.com/cashwise/flowcast/internal/service"
)

// historyLimit caps how many transactions are included in a review prompt.
const historyLimit = 100

// Reviewer spot-checks synthesized forecasts against the transaction history
// they were derived from.
type Reviewer struct {
	client Client
}

// NewReviewer creates a Reviewer backed by the given client.
func NewReviewer(client Client) *Reviewer {
	return &Reviewer{client: client}
}

// SpotCheck asks the model whether the forecast fits the vendor's history.
// A failed call never blocks the pipeline: it degrades to a needs-review
// verdict carrying the error.
func (r *Reviewer) SpotCheck(ctx context.Context, displayName string, transactions []model.Transaction, record model.ForecastRecord) ReviewResponse {
	prompt := buildReviewPrompt(displayName, transactions, record)

	var response ReviewResponse
	err := common.WithRetry(ctx, func() error {
		var reviewErr error
		response, reviewErr = r.client.Review(ctx, prompt)
		return reviewErr
	}, service.RetryOptions{MaxAttempts: 3})

	if err != nil {
		common.LogError(err, "forecast spot check failed", common.Fields{
			"display_name": displayName,
		})
		return ReviewResponse{
			NeedsReview: true,
			Confidence:  0,
			Issues:      []string{fmt.Sprintf("Error during spot check: %v", err)},
			Explanation: fmt.Sprintf("Error during spot check: %v", err),
		}
	}

	return response
}

// buildReviewPrompt renders the vendor's recent history and the forecast
// under review into the prompt the model is asked to judge.
func buildReviewPrompt(displayName string, transactions []model.Transaction, record model.ForecastRecord) string {
	recent := make([]model.Transaction, len(transactions))
	copy(recent, transactions)
	sort.SliceStable(recent, func(i, j int) bool {
		return recent[i].Date.After(recent[j].Date)
	})
	if len(recent) > historyLimit {
		recent = recent[:historyLimit]
	}

	lines := make([]string, 0, len(recent))
	for _, txn := range recent {
		lines = append(lines, fmt.Sprintf("%s - $%.2f", txn.Date.Format("2006-01-02"), txn.Amount))
	}

	forecast := map[string]any{
		"method":      string(record.Method),
		"frequency":   string(record.Frequency),
		"confidence":  record.Confidence,
		"explanation": record.Explanation,
	}
	if record.PaymentDay != nil {
		forecast["payment_day"] = *record.PaymentDay
	}
	if record.ForecastAmount != nil {
		forecast["forecast_amount"] = *record.ForecastAmount
	}
	if len(record.MonthlyForecasts) > 0 {
		forecast["monthly_forecasts"] = record.MonthlyForecasts
	}
	forecastJSON, _ := json.MarshalIndent(forecast, "", "  ")

	return fmt.Sprintf(`Review this vendor's forecast for potential issues:

Vendor: %s

Transaction History (most recent %d transactions):
%s

Current Forecast:
%s

Return a JSON object with:
{
    "needs_review": boolean,
    "confidence": float (0-1),
    "issues": [string],
    "suggested_override": boolean,
    "explanation": string
}`, displayName, historyLimit, strings.Join(lines, "\n"), string(forecastJSON))
}
