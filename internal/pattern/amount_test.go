package pattern

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/cashwise/flowcast/internal/model"
)

func TestAnalyzeAmountsEmpty(t *testing.T) {
	result := AnalyzeAmounts(nil)
	assert.Equal(t, model.AmountUnknown, result.PatternType)
	assert.Equal(t, 0.0, result.Average)
}

func TestAnalyzeAmountsSingle(t *testing.T) {
	result := AnalyzeAmounts([]float64{249.99})

	assert.Equal(t, model.AmountSingle, result.PatternType)
	assert.Equal(t, 249.99, result.Average)
	assert.Equal(t, 249.99, result.Min)
	assert.Equal(t, 249.99, result.Max)
	assert.Equal(t, 249.99, result.Median)
	assert.Equal(t, 0.0, result.Volatility)
}

func TestAnalyzeAmountsFixed(t *testing.T) {
	amounts := []float64{1000, 1000, 1000, 1000}

	result := AnalyzeAmounts(amounts)

	assert.Equal(t, model.AmountFixed, result.PatternType)
	assert.Equal(t, 1000.0, result.Average)
	assert.Equal(t, 0.0, result.Volatility)
	assert.Equal(t, 0.0, result.StdDev)
}

func TestAnalyzeAmountsVolatilityBuckets(t *testing.T) {
	tests := []struct {
		name     string
		amounts  []float64
		expected model.AmountPattern
	}{
		{
			name:     "low variance",
			amounts:  []float64{100, 130, 80, 110},
			expected: model.AmountLowVariance,
		},
		{
			name:     "moderate variance",
			amounts:  []float64{100, 150, 60, 130},
			expected: model.AmountModerateVariance,
		},
		{
			name:     "high variance",
			amounts:  []float64{100, 400, 20, 350},
			expected: model.AmountHighVariance,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := AnalyzeAmounts(tt.amounts)
			assert.Equal(t, tt.expected, result.PatternType)
			assert.GreaterOrEqual(t, result.Volatility, 0.0)
		})
	}
}

func TestAnalyzeAmountsZeroMean(t *testing.T) {
	result := AnalyzeAmounts([]float64{100, -100, 50, -50})

	assert.Equal(t, 0.0, result.Average)
	assert.Equal(t, 0.0, result.Volatility)
	assert.Greater(t, result.StdDev, 0.0)
}

func TestAnalyzeAmountsTrendingUp(t *testing.T) {
	// Second half doubles the first half's average.
	amounts := []float64{100, 100, 100, 200, 200, 200}

	result := AnalyzeAmounts(amounts)

	assert.Equal(t, model.AmountTrendingUp, result.PatternType)
	assert.Equal(t, 150.0, result.Average)
	// Volatility is reported from the full series, not the trend halves.
	assert.Greater(t, result.Volatility, 0.0)
}

func TestAnalyzeAmountsTrendingDown(t *testing.T) {
	amounts := []float64{500, 480, 490, 200, 210, 190}

	result := AnalyzeAmounts(amounts)

	assert.Equal(t, model.AmountTrendingDown, result.PatternType)
}

func TestAnalyzeAmountsTrendNeedsHistory(t *testing.T) {
	// Four points is below the trend minimum; the doubling stays a
	// volatility call.
	amounts := []float64{100, 100, 200, 200}

	result := AnalyzeAmounts(amounts)

	assert.NotEqual(t, model.AmountTrendingUp, result.PatternType)
}

func TestAnalyzeAmountsStats(t *testing.T) {
	amounts := []float64{10, 20, 30, 40}

	result := AnalyzeAmounts(amounts)

	assert.Equal(t, 25.0, result.Average)
	assert.Equal(t, 10.0, result.Min)
	assert.Equal(t, 40.0, result.Max)
	assert.Equal(t, 25.0, result.Median)
}

func TestMedianOddCount(t *testing.T) {
	assert.Equal(t, 20.0, median([]float64{30, 10, 20}))
}

func TestSampleStdDev(t *testing.T) {
	// Sample (n-1) standard deviation of {2,4,4,4,5,5,7,9} is ~2.138.
	values := []float64{2, 4, 4, 4, 5, 5, 7, 9}
	assert.InDelta(t, 2.138, sampleStdDev(values, mean(values)), 0.001)
}
