package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cashwise/flowcast/internal/cli"
	"github.com/cashwise/flowcast/internal/forecast"
	"github.com/cashwise/flowcast/internal/model"
)

func forecastCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "forecast",
		Short: "Synthesize per-vendor forecasts and write them back",
		Long: `Classify each vendor group's activity level from its recent months,
synthesize a forecast (trailing average, mimic, or manual), and write
the forecast configuration back onto the vendor mappings.`,
		RunE: runForecast,
	}

	cmd.Flags().Int("lookback", 365, "Transaction lookback window in days")
	cmd.Flags().String("as-of", "", "Forecast reference date (YYYY-MM-DD, default latest transaction)")
	cmd.Flags().BoolP("dry-run", "d", false, "Preview forecasts without saving")

	return cmd
}

func runForecast(cmd *cobra.Command, _ []string) error {
	lookback, _ := cmd.Flags().GetInt("lookback")
	dryRun, _ := cmd.Flags().GetBool("dry-run")

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

	now, err := resolveAsOf(ctx, cmd, store, clientID)
	if err != nil {
		return err
	}

	groups, err := store.GetVendorGroups(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to load vendor groups: %w", err)
	}
	if len(groups) == 0 {
		fmt.Println(cli.FormatInfo("No vendor groups to forecast; run 'flowcast vendors map' first"))
		return nil
	}

	slog.Info("Synthesizing forecasts",
		"client", clientID,
		"groups", len(groups),
		"as_of", now.Format("2006-01-02"),
		"dry_run", dryRun)

	bar := newProgressBar(len(groups), "Synthesizing forecasts...")

	since := now.AddDate(0, 0, -lookback)
	written := 0
	byClass := make(map[model.ActivityClass]int)

	for _, group := range groups {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		transactions, err := store.GetTransactionsByDisplayName(ctx, clientID, group.DisplayName, since, now)
		if err != nil {
			return fmt.Errorf("failed to load transactions for %s: %w", group.DisplayName, err)
		}

		classification := forecast.ClassifyActivity(transactions, group.IsInventory, now)
		record := forecast.Synthesize(transactions, classification.Class, now)
		byClass[classification.Class]++

		slog.Debug("Synthesized forecast",
			"group", group.DisplayName,
			"class", classification.Class,
			"method", record.Method,
			"confidence", record.Confidence)

		if !dryRun {
			if err := store.UpdateForecastConfig(ctx, clientID, group.DisplayName, record); err != nil {
				return fmt.Errorf("failed to save forecast for %s: %w", group.DisplayName, err)
			}
			written++
		}

		_ = bar.Add(1)
	}

	fmt.Println()
	fmt.Println(cli.FormatTitle(fmt.Sprintf("Forecast summary for %s", clientID)))
	fmt.Printf("  %s %d regular  %s %d quasi-regular  %s %d irregular\n",
		cli.StyleSuccess("●"), byClass[model.ActivityRegular],
		cli.StyleWarning("●"), byClass[model.ActivityQuasiRegular],
		cli.SubtleStyle.Render("●"), byClass[model.ActivityIrregular])

	if dryRun {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("Dry run: would write %d forecasts", len(groups))))
		return nil
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Wrote %d forecasts", written)))
	return nil
}
