package model

// ActivityClass is the coarse activity-frequency classification feeding the
// forecast synthesizer. It answers a different question than TimingPattern
// (overall activity level vs. recurrence shape) and the two are deliberately
// kept as separate enumerations.
type ActivityClass string

const (
	// ActivityRegular indicates activity in at least 6 of the last 6 months.
	ActivityRegular ActivityClass = "regular"
	// ActivityQuasiRegular indicates activity in 4-5 of the last 6 months.
	ActivityQuasiRegular ActivityClass = "quasi-regular"
	// ActivityIrregular indicates activity in fewer than 4 recent months.
	ActivityIrregular ActivityClass = "irregular"
)

// ForecastMethod identifies how a forecast amount was derived.
type ForecastMethod string

const (
	// MethodTrailingAvg projects a trailing-window average forward.
	MethodTrailingAvg ForecastMethod = "trailing_avg"
	// MethodMimic replays recent per-month averages.
	MethodMimic ForecastMethod = "mimic"
	// MethodManual defers to a human-entered schedule.
	MethodManual ForecastMethod = "manual"
)

// Frequency labels how often a forecasted payment recurs.
type Frequency string

const (
	// FrequencyMonthly recurs once a month.
	FrequencyMonthly Frequency = "monthly"
	// FrequencyWeekly recurs once a week.
	FrequencyWeekly Frequency = "weekly"
	// FrequencyBiWeekly recurs every two weeks.
	FrequencyBiWeekly Frequency = "bi-weekly"
	// FrequencyQuarterly recurs every quarter.
	FrequencyQuarterly Frequency = "quarterly"
	// FrequencyAnnually recurs once a year.
	FrequencyAnnually Frequency = "annually"
	// FrequencyIrregular has no fixed recurrence.
	FrequencyIrregular Frequency = "irregular"
)

// ActivityClassification is the forecast synthesizer's input classification.
type ActivityClassification struct {
	Class        ActivityClass
	Explanation  string
	MonthsActive int
	Confidence   float64
}

// ForecastRecord is the synthesized forecast for one vendor group.
// PaymentDay and ForecastAmount are nil on branches that do not produce them;
// MonthlyForecasts (keyed YYYY-MM) is populated only by the mimic method.
type ForecastRecord struct {
	MonthlyForecasts map[string]float64
	PaymentDay       *int
	ForecastAmount   *float64
	Method           ForecastMethod
	Frequency        Frequency
	Explanation      string
	Confidence       float64
}

// CoarsenPattern maps a fine-grained timing pattern onto the coarse activity
// class it most resembles. It is a hint for callers that have a timing
// analysis but no month-coverage data; the authoritative classification
// comes from counting active months.
func CoarsenPattern(p TimingPattern) ActivityClass {
	switch p {
	case TimingDaily, TimingWeekly, TimingBiWeekly, TimingMonthly:
		return ActivityRegular
	case TimingQuarterly, TimingCustomInterval, TimingDualSchedule:
		return ActivityQuasiRegular
	default:
		return ActivityIrregular
	}
}
