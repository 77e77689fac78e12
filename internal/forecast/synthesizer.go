package forecast

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/cashwise/flowcast/internal/model"
)

// Trailing windows used by forecast synthesis, in days.
const (
	shortTrailingWindow = 30
	longTrailingWindow  = 90
	mimicWindow         = 180
)

// Synthesize computes a forecast record from a vendor group's transaction
// history and its coarse activity classification. The reference time for all
// trailing windows is the caller-supplied now; the function never reads the
// clock and never returns an error - degenerate inputs yield a manual,
// zero-confidence record.
func Synthesize(transactions []model.Transaction, class model.ActivityClass, now time.Time) model.ForecastRecord {
	if len(transactions) == 0 {
		return model.ForecastRecord{
			Method:      model.MethodManual,
			Frequency:   model.FrequencyIrregular,
			Confidence:  0,
			Explanation: "No transactions to base forecast on",
		}
	}

	sorted := make([]model.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	switch class {
	case model.ActivityRegular:
		return synthesizeRegular(sorted, now)
	case model.ActivityQuasiRegular:
		return synthesizeQuasiRegular(sorted, now)
	default:
		return synthesizeIrregular(sorted, now)
	}
}

// synthesizeRegular projects a trailing average onto the modal payment day.
// The 90-day average is preferred; the 30-day average is the fallback when no
// transactions fall inside the longer window.
func synthesizeRegular(sorted []model.Transaction, now time.Time) model.ForecastRecord {
	paymentDay := modalDay(sorted)

	used := amountsSince(sorted, now.AddDate(0, 0, -longTrailingWindow))
	if len(used) == 0 {
		used = amountsSince(sorted, now.AddDate(0, 0, -shortTrailingWindow))
	}

	var forecastAmount *float64
	if len(used) > 0 {
		forecastAmount = float64Ptr(round2(meanOf(used)))
	}

	return model.ForecastRecord{
		Method:         model.MethodTrailingAvg,
		Frequency:      model.FrequencyMonthly,
		PaymentDay:     &paymentDay,
		ForecastAmount: forecastAmount,
		Confidence:     regularConfidence,
		Explanation:    fmt.Sprintf("Monthly payment on day %d, based on %d transactions", paymentDay, len(used)),
	}
}

// synthesizeQuasiRegular is the regular path with lower confidence and no
// 30-day fallback.
func synthesizeQuasiRegular(sorted []model.Transaction, now time.Time) model.ForecastRecord {
	paymentDay := modalDay(sorted)

	recent90 := amountsSince(sorted, now.AddDate(0, 0, -longTrailingWindow))
	var forecastAmount *float64
	if len(recent90) > 0 {
		forecastAmount = float64Ptr(round2(meanOf(recent90)))
	}

	return model.ForecastRecord{
		Method:         model.MethodTrailingAvg,
		Frequency:      model.FrequencyMonthly,
		PaymentDay:     &paymentDay,
		ForecastAmount: forecastAmount,
		Confidence:     quasiConfidence,
		Explanation:    fmt.Sprintf("Quasi-regular monthly payment on day %d, needs review", paymentDay),
	}
}

// synthesizeIrregular mimics the recent months: each month inside the window
// forecasts at its own average.
func synthesizeIrregular(sorted []model.Transaction, now time.Time) model.ForecastRecord {
	since := now.AddDate(0, 0, -mimicWindow)

	sums := make(map[string]float64)
	counts := make(map[string]int)
	for _, txn := range sorted {
		if txn.Date.Before(since) {
			continue
		}
		key := txn.Date.UTC().Format("2006-01")
		sums[key] += txn.Amount
		counts[key]++
	}

	if len(sums) == 0 {
		return model.ForecastRecord{
			Method:      model.MethodManual,
			Frequency:   model.FrequencyIrregular,
			Confidence:  0,
			Explanation: "No recent transactions to base forecast on",
		}
	}

	monthly := make(map[string]float64, len(sums))
	for key, sum := range sums {
		monthly[key] = round2(sum / float64(counts[key]))
	}

	return model.ForecastRecord{
		Method:           model.MethodMimic,
		Frequency:        model.FrequencyIrregular,
		MonthlyForecasts: monthly,
		Confidence:       irregularConfidence,
		Explanation:      fmt.Sprintf("Mimicking last %d months of activity", len(monthly)),
	}
}

// modalDay returns the most common day-of-month, ties resolved by first
// appearance in the history.
func modalDay(sorted []model.Transaction) int {
	counts := make(map[int]int)
	var order []int
	for _, txn := range sorted {
		day := txn.Date.UTC().Day()
		if _, seen := counts[day]; !seen {
			order = append(order, day)
		}
		counts[day]++
	}

	best := order[0]
	for _, day := range order[1:] {
		if counts[day] > counts[best] {
			best = day
		}
	}
	return best
}

func amountsSince(sorted []model.Transaction, since time.Time) []float64 {
	var amounts []float64
	for _, txn := range sorted {
		if !txn.Date.Before(since) {
			amounts = append(amounts, txn.Amount)
		}
	}
	return amounts
}

func meanOf(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func float64Ptr(v float64) *float64 {
	return &v
}
