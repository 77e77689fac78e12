// Package forecast classifies vendor activity levels and synthesizes
// concrete forecast records from transaction history.
package forecast

import (
	"fmt"
	"time"

	"github.com/cashwise/flowcast/internal/model"
)

// activityLookbackDays is the window over which active months are counted.
const activityLookbackDays = 180

// Activity classification thresholds and confidences.
const (
	regularMinMonths = 6
	quasiMinMonths   = 4

	inventoryConfidence = 0.9
	regularConfidence   = 0.8
	quasiConfidence     = 0.6
	irregularConfidence = 0.4
)

// ClassifyActivity derives the coarse activity classification from the count
// of distinct active months within the lookback window ending at now. Known
// inventory vendors are forced to regular regardless of month count. This is
// deliberately a different taxonomy than the timing analyzer's pattern types;
// see model.CoarsenPattern for the mapping between the two.
func ClassifyActivity(transactions []model.Transaction, isInventory bool, now time.Time) model.ActivityClassification {
	if len(transactions) == 0 {
		return model.ActivityClassification{
			Class:       model.ActivityIrregular,
			Confidence:  0,
			Explanation: "No transactions found",
		}
	}

	since := now.AddDate(0, 0, -activityLookbackDays)
	months := make(map[string]struct{})
	for _, txn := range transactions {
		if txn.Date.Before(since) || txn.Date.After(now) {
			continue
		}
		months[txn.Date.UTC().Format("2006-01")] = struct{}{}
	}
	numMonths := len(months)

	switch {
	case isInventory:
		return model.ActivityClassification{
			Class:        model.ActivityRegular,
			Confidence:   inventoryConfidence,
			MonthsActive: numMonths,
			Explanation:  "Inventory vendor - assumed regular",
		}
	case numMonths >= regularMinMonths:
		return model.ActivityClassification{
			Class:        model.ActivityRegular,
			Confidence:   regularConfidence,
			MonthsActive: numMonths,
			Explanation:  fmt.Sprintf("Active in %d of last 6 months", numMonths),
		}
	case numMonths >= quasiMinMonths:
		return model.ActivityClassification{
			Class:        model.ActivityQuasiRegular,
			Confidence:   quasiConfidence,
			MonthsActive: numMonths,
			Explanation:  fmt.Sprintf("Active in %d of last 6 months - needs review", numMonths),
		}
	default:
		return model.ActivityClassification{
			Class:        model.ActivityIrregular,
			Confidence:   irregularConfidence,
			MonthsActive: numMonths,
			Explanation:  fmt.Sprintf("Active in only %d of last 6 months", numMonths),
		}
	}
}
