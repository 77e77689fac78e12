package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
)

// WriteForecastCSV writes forecast rows as CSV with a header row.
func WriteForecastCSV(w io.Writer, rows []ForecastRow) error {
	cw := csv.NewWriter(w)

	header := []string{
		"display_name", "category", "method", "frequency",
		"payment_day", "forecast_amount", "confidence", "explanation",
	}
	if err := cw.Write(header); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}

	for _, row := range rows {
		day := ""
		if row.PaymentDay != nil {
			day = strconv.Itoa(*row.PaymentDay)
		}
		amount := ""
		if row.Amount != nil {
			amount = strconv.FormatFloat(*row.Amount, 'f', 2, 64)
		}

		record := []string{
			row.DisplayName,
			string(row.Category),
			string(row.Method),
			string(row.Frequency),
			day,
			amount,
			strconv.FormatFloat(row.Confidence, 'f', 2, 64),
			row.Explanation,
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("failed to write CSV row for %s: %w", row.DisplayName, err)
		}
	}

	cw.Flush()
	return cw.Error()
}
