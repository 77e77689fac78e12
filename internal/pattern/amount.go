package pattern

import (
	"math"
	"sort"

	"github.com/cashwise/flowcast/internal/model"
)

// Volatility buckets for amount classification.
const (
	fixedVolatility    = 0.1
	lowVolatility      = 0.3
	moderateVolatility = 0.6
	// trendMinCount is the minimum history length for trend detection.
	trendMinCount = 5
	// trendThreshold is the relative change that flags a trend.
	trendThreshold = 0.2
)

// AnalyzeAmounts classifies the distribution of a vendor group's transaction
// amounts. The slice must be in chronological order for trend detection to be
// meaningful. Degenerate inputs (empty slice, zero mean) resolve to sentinel
// values rather than errors.
func AnalyzeAmounts(amounts []float64) model.AmountAnalysis {
	if len(amounts) == 0 {
		return model.AmountAnalysis{PatternType: model.AmountUnknown}
	}

	avg := mean(amounts)

	if len(amounts) == 1 {
		return model.AmountAnalysis{
			PatternType: model.AmountSingle,
			Average:     avg,
			Min:         amounts[0],
			Max:         amounts[0],
			Median:      amounts[0],
		}
	}

	stdDev := sampleStdDev(amounts, avg)
	volatility := 0.0
	if avg != 0 {
		volatility = stdDev / math.Abs(avg)
	}

	var patternType model.AmountPattern
	switch {
	case volatility < fixedVolatility:
		patternType = model.AmountFixed
	case volatility < lowVolatility:
		patternType = model.AmountLowVariance
	case volatility < moderateVolatility:
		patternType = model.AmountModerateVariance
	default:
		patternType = model.AmountHighVariance
	}

	// Trend detection overrides the volatility bucket; the volatility value
	// itself is reported unchanged.
	if len(amounts) >= trendMinCount {
		mid := len(amounts) / 2
		firstHalf := mean(amounts[:mid])
		secondHalf := mean(amounts[mid:])

		if secondHalf > firstHalf*(1+trendThreshold) {
			patternType = model.AmountTrendingUp
		} else if secondHalf < firstHalf*(1-trendThreshold) {
			patternType = model.AmountTrendingDown
		}
	}

	return model.AmountAnalysis{
		PatternType: patternType,
		Average:     avg,
		Volatility:  volatility,
		StdDev:      stdDev,
		Min:         minOf(amounts),
		Max:         maxOf(amounts),
		Median:      median(amounts),
	}
}

func mean(values []float64) float64 {
	sum := 0.0
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// sampleStdDev computes the sample (n-1) standard deviation.
func sampleStdDev(values []float64, avg float64) float64 {
	if len(values) < 2 {
		return 0
	}
	sumSq := 0.0
	for _, v := range values {
		diff := v - avg
		sumSq += diff * diff
	}
	return math.Sqrt(sumSq / float64(len(values)-1))
}

func median(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}
