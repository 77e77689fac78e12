package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/cashwise/flowcast/internal/cli"
	"github.com/cashwise/flowcast/internal/model"
	"github.com/cashwise/flowcast/internal/report"
	"github.com/cashwise/flowcast/internal/service"
)

func reportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report",
		Short: "Export analyses and forecasts as an HTML review page or CSV",
		Long: `Render the latest stored analyses and forecasts into a review artifact.

Formats:
  html  - review page with analyses and forecasts (default)
  csv   - forecast export only`,
		RunE: runReport,
	}

	cmd.Flags().String("format", "html", "Output format (html, csv)")
	cmd.Flags().StringP("output", "o", "", "Output file (default stdout)")

	return cmd
}

func runReport(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	clientID, err := requireClientID()
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	forecastRows, err := loadForecastRows(ctx, store, clientID)
	if err != nil {
		return err
	}

	out := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() { _ = f.Close() }()
		out = f
	}

	switch format {
	case "csv":
		if err := report.WriteForecastCSV(out, forecastRows); err != nil {
			return err
		}
	case "html":
		analyses, err := store.GetAnalyses(ctx, clientID)
		if err != nil {
			return fmt.Errorf("failed to load analyses: %w", err)
		}
		data := report.ReviewData{
			ClientID:    clientID,
			GeneratedAt: time.Now().UTC(),
			Analyses:    analyses,
			Forecasts:   forecastRows,
		}
		if err := report.WriteReviewPage(out, data); err != nil {
			return err
		}
	default:
		return fmt.Errorf("unsupported format: %s", format)
	}

	if output != "" {
		fmt.Fprintln(os.Stderr, cli.FormatSuccess(fmt.Sprintf("Wrote %s report to %s", format, output)))
	}

	return nil
}

func loadForecastRows(ctx context.Context, store service.Storage, clientID string) ([]report.ForecastRow, error) {
	vendors, err := store.GetForecasts(ctx, clientID)
	if err != nil {
		return nil, fmt.Errorf("failed to load forecasts: %w", err)
	}

	rows := make([]report.ForecastRow, 0, len(vendors))
	for _, vendor := range vendors {
		rows = append(rows, report.ForecastRow{
			DisplayName: vendor.DisplayName,
			Category:    vendor.Category,
			Method:      model.ForecastMethod(vendor.ForecastMethod),
			Frequency:   model.Frequency(vendor.ForecastFrequency),
			PaymentDay:  vendor.ForecastDay,
			Amount:      vendor.ForecastAmount,
			Confidence:  vendor.ForecastConfidence,
			Explanation: vendor.ForecastNotes,
		})
	}

	return rows, nil
}
