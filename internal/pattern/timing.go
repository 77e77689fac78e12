// Package pattern implements the statistical analyzers at the heart of the
// forecasting engine: recurrence detection from inter-transaction gaps and
// amount-distribution classification.
package pattern

import (
	"sort"
	"strconv"
	"time"

	"github.com/cashwise/flowcast/internal/model"
)

const (
	// strongConfidence is the gap-share above which a single dominant gap
	// classifies the pattern outright.
	strongConfidence = 0.7
	// moderateConfidence is the floor for considering a dual-schedule pair.
	moderateConfidence = 0.4
	// dualScheduleShare is the combined share two gaps must reach to count
	// as a dual schedule.
	dualScheduleShare = 0.6
	// dailyGapCount and dailyMedianGap gate the daily-pattern check.
	dailyGapCount  = 10
	dailyMedianGap = 3
	// dailyConfidenceCap bounds daily-pattern confidence.
	dailyConfidenceCap = 0.9
	// dailyMinWeeks is the minimum distinct active weeks for a daily call.
	dailyMinWeeks = 3
)

// AnalyzeTiming classifies the recurrence pattern of a vendor group's
// transaction history. It consults dates only; amounts and business category
// never influence the result. The input need not be sorted.
func AnalyzeTiming(transactions []model.Transaction) model.PatternAnalysis {
	if len(transactions) < 2 {
		return model.PatternAnalysis{
			PatternType: model.TimingInsufficientData,
			Confidence:  0,
		}
	}

	sorted := sortByDate(transactions)
	gaps := dayGaps(sorted)

	if len(gaps) >= dailyGapCount && medianInt(gaps) <= dailyMedianGap {
		return analyzeDaily(sorted, gaps)
	}

	if len(gaps) < 3 {
		return model.PatternAnalysis{
			PatternType:     model.TimingIrregular,
			Confidence:      0,
			GapDistribution: distribution(gaps),
		}
	}

	// Gaps are tallied by recurrence bucket, not exact day count: a monthly
	// vendor paying on the 1st produces 28-31 day gaps that must read as one
	// pattern, not a split vote.
	tally := newGapTally()
	for _, g := range gaps {
		tally.add(g)
	}

	top := tally.mostCommon(2)
	total := float64(len(gaps))
	dominant := top[0]
	confidence := float64(dominant.count) / total

	analysis := model.PatternAnalysis{
		Confidence:      confidence,
		FrequencyDays:   intPtr(dominant.modalGap),
		GapDistribution: distribution(gaps),
	}

	switch {
	case confidence >= strongConfidence:
		analysis.PatternType = dominant.pattern
	case confidence >= moderateConfidence:
		if len(top) >= 2 {
			combined := float64(dominant.count+top[1].count) / total
			if combined >= dualScheduleShare {
				analysis.PatternType = model.TimingDualSchedule
				analysis.Confidence = combined
				analysis.SecondaryGapDays = intPtr(top[1].modalGap)
				break
			}
		}
		analysis.PatternType = model.TimingIrregular
	default:
		analysis.PatternType = model.TimingIrregular
	}

	return analysis
}

// classifyGap maps a dominant gap length to its named recurrence bucket.
func classifyGap(gap int) model.TimingPattern {
	switch {
	case gap <= 1:
		return model.TimingDaily
	case gap >= 6 && gap <= 8:
		return model.TimingWeekly
	case gap >= 13 && gap <= 16:
		return model.TimingBiWeekly
	case gap >= 28 && gap <= 35:
		return model.TimingMonthly
	case gap >= 85 && gap <= 95:
		return model.TimingQuarterly
	default:
		return model.TimingCustomInterval
	}
}

// analyzeDaily handles near-daily histories by bucketing into Monday-aligned
// weeks. Confidence is the share of calendar weeks in the observed range that
// saw activity, capped at 0.9.
func analyzeDaily(sorted []model.Transaction, gaps []int) model.PatternAnalysis {
	weeks := make(map[time.Time]int)
	for _, txn := range sorted {
		weeks[weekStart(txn.Date)]++
	}

	if len(weeks) < dailyMinWeeks {
		return model.PatternAnalysis{
			PatternType:     model.TimingIrregular,
			Confidence:      0,
			GapDistribution: distribution(gaps),
		}
	}

	first := weekStart(sorted[0].Date)
	last := weekStart(sorted[len(sorted)-1].Date)
	totalWeeks := int(last.Sub(first).Hours()/(24*7)) + 1

	confidence := float64(len(weeks)) / float64(totalWeeks)
	if confidence > dailyConfidenceCap {
		confidence = dailyConfidenceCap
	}

	return model.PatternAnalysis{
		PatternType:     model.TimingDaily,
		Confidence:      confidence,
		FrequencyDays:   intPtr(1),
		GapDistribution: distribution(gaps),
	}
}

// weekStart returns midnight UTC on the Monday of the given date's week.
func weekStart(t time.Time) time.Time {
	t = t.UTC()
	offset := (int(t.Weekday()) + 6) % 7
	day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	return day.AddDate(0, 0, -offset)
}

// sortByDate returns a date-ascending copy, leaving the input untouched.
func sortByDate(transactions []model.Transaction) []model.Transaction {
	sorted := make([]model.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})
	return sorted
}

// dayGaps computes day counts between consecutive transactions.
func dayGaps(sorted []model.Transaction) []int {
	gaps := make([]int, 0, len(sorted)-1)
	for i := 1; i < len(sorted); i++ {
		prev := dateOnly(sorted[i-1].Date)
		curr := dateOnly(sorted[i].Date)
		gaps = append(gaps, int(curr.Sub(prev).Hours()/24))
	}
	return gaps
}

func dateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func distribution(gaps []int) map[int]int {
	dist := make(map[int]int, len(gaps))
	for _, g := range gaps {
		dist[g]++
	}
	return dist
}

func medianInt(values []int) float64 {
	sorted := make([]int, len(values))
	copy(sorted, values)
	sort.Ints(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return float64(sorted[mid-1]+sorted[mid]) / 2
	}
	return float64(sorted[mid])
}

// gapTally counts gaps by recurrence bucket while preserving first-seen
// order so that frequency ties resolve deterministically. Gaps outside the
// named buckets each count as their own bucket.
type gapTally struct {
	buckets map[string]*bucketCount
	order   []string
}

type bucketCount struct {
	pattern  model.TimingPattern
	count    int
	gaps     map[int]int
	gapOrder []int
}

// gapCount summarizes one recurrence bucket: its pattern, total gap count,
// and the modal exact gap length within it.
type gapCount struct {
	pattern  model.TimingPattern
	modalGap int
	count    int
}

func newGapTally() *gapTally {
	return &gapTally{buckets: make(map[string]*bucketCount)}
}

func (t *gapTally) add(gap int) {
	pattern := classifyGap(gap)
	key := string(pattern)
	if pattern == model.TimingCustomInterval {
		key = "custom:" + strconv.Itoa(gap)
	}

	b, seen := t.buckets[key]
	if !seen {
		b = &bucketCount{pattern: pattern, gaps: make(map[int]int)}
		t.buckets[key] = b
		t.order = append(t.order, key)
	}
	if _, seenGap := b.gaps[gap]; !seenGap {
		b.gapOrder = append(b.gapOrder, gap)
	}
	b.gaps[gap]++
	b.count++
}

// mostCommon returns up to n bucket counts, most frequent first. Ties keep
// first-seen order, at both the bucket and the modal-gap level.
func (t *gapTally) mostCommon(n int) []gapCount {
	ranked := make([]gapCount, 0, len(t.order))
	for _, key := range t.order {
		b := t.buckets[key]
		modal := b.gapOrder[0]
		for _, g := range b.gapOrder[1:] {
			if b.gaps[g] > b.gaps[modal] {
				modal = g
			}
		}
		ranked = append(ranked, gapCount{pattern: b.pattern, modalGap: modal, count: b.count})
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].count > ranked[j].count
	})
	if len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}

func intPtr(v int) *int {
	return &v
}
