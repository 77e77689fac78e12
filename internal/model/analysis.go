package model

import "time"

// TimingPattern is the fine-grained recurrence shape detected from
// inter-transaction gaps.
type TimingPattern string

const (
	// TimingDaily indicates near-daily activity rolled up weekly.
	TimingDaily TimingPattern = "daily"
	// TimingWeekly indicates a dominant 6-8 day gap.
	TimingWeekly TimingPattern = "weekly"
	// TimingBiWeekly indicates a dominant 13-16 day gap.
	TimingBiWeekly TimingPattern = "bi-weekly"
	// TimingMonthly indicates a dominant 28-35 day gap.
	TimingMonthly TimingPattern = "monthly"
	// TimingQuarterly indicates a dominant 85-95 day gap.
	TimingQuarterly TimingPattern = "quarterly"
	// TimingCustomInterval indicates a strong gap outside the named buckets.
	TimingCustomInterval TimingPattern = "custom_interval"
	// TimingDualSchedule indicates two co-dominant gap lengths.
	TimingDualSchedule TimingPattern = "dual_schedule"
	// TimingIrregular indicates no dominant gap.
	TimingIrregular TimingPattern = "irregular"
	// TimingInsufficientData indicates fewer than two transactions.
	TimingInsufficientData TimingPattern = "insufficient_data"
)

// AmountPattern classifies the distribution of transaction amounts.
type AmountPattern string

const (
	// AmountFixed indicates volatility below 0.1.
	AmountFixed AmountPattern = "fixed"
	// AmountLowVariance indicates volatility below 0.3.
	AmountLowVariance AmountPattern = "low_variance"
	// AmountModerateVariance indicates volatility below 0.6.
	AmountModerateVariance AmountPattern = "moderate_variance"
	// AmountHighVariance indicates volatility of 0.6 or more.
	AmountHighVariance AmountPattern = "high_variance"
	// AmountTrendingUp indicates the recent half runs 20%+ above the first.
	AmountTrendingUp AmountPattern = "trending_up"
	// AmountTrendingDown indicates the recent half runs 20%+ below the first.
	AmountTrendingDown AmountPattern = "trending_down"
	// AmountSingle indicates only one transaction exists.
	AmountSingle AmountPattern = "single"
	// AmountUnknown indicates no amounts were available.
	AmountUnknown AmountPattern = "unknown"
)

// Recommendation is the review action suggested for a vendor group.
type Recommendation string

const (
	// RecommendAccept means the detected pattern is reliable as-is.
	RecommendAccept Recommendation = "accept"
	// RecommendModify means the pattern is usable but needs adjustment.
	RecommendModify Recommendation = "modify"
	// RecommendManual means a human should set the schedule.
	RecommendManual Recommendation = "manual"
	// RecommendSkip means the vendor is not worth forecasting.
	RecommendSkip Recommendation = "skip"
)

// PatternAnalysis holds the timing analyzer's output. FrequencyDays is nil
// when no dominant gap exists. Confidence is the share of gaps matching the
// dominant gap (or dominant pair for dual_schedule).
type PatternAnalysis struct {
	GapDistribution  map[int]int
	FrequencyDays    *int
	SecondaryGapDays *int
	PatternType      TimingPattern
	Confidence       float64
}

// AmountAnalysis holds the amount analyzer's output. Volatility is
// stddev / |mean|, zero when the mean is zero.
type AmountAnalysis struct {
	PatternType AmountPattern
	Average     float64
	Volatility  float64
	StdDev      float64
	Min         float64
	Max         float64
	Median      float64
}

// VendorAnalysis aggregates one analysis run for a vendor group. Instances
// are immutable once created; a new run produces a new instance.
type VendorAnalysis struct {
	AnalyzedAt       time.Time
	ClientID         string
	DisplayName      string
	Reasoning        string
	Category         BusinessCategory
	Recommendation   Recommendation
	Pattern          PatternAnalysis
	Amounts          AmountAnalysis
	TransactionCount int
}
