package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cashwise/flowcast/internal/cli"
	"github.com/cashwise/flowcast/internal/config"
	"github.com/cashwise/flowcast/internal/llm"
	"github.com/cashwise/flowcast/internal/model"
)

func reviewCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "review",
		Short: "Spot-check stored forecasts with an LLM",
		Long: `Send each stored forecast and its recent transaction history to an LLM
reviewer and report the ones it flags. Requires an API key for the
configured provider (OPENAI_API_KEY or ANTHROPIC_API_KEY).`,
		RunE: runReview,
	}

	cmd.Flags().Int("lookback", 365, "Transaction lookback window in days")
	cmd.Flags().String("as-of", "", "Review reference date (YYYY-MM-DD, default latest transaction)")
	cmd.Flags().Int("limit", 0, "Review at most N forecasts (0 = all)")

	return cmd
}

func runReview(cmd *cobra.Command, _ []string) error {
	lookback, _ := cmd.Flags().GetInt("lookback")
	limit, _ := cmd.Flags().GetInt("limit")

	clientID, err := requireClientID()
	if err != nil {
		return err
	}

	llmConfig, err := config.LoadLLMConfig()
	if err != nil {
		return err
	}
	client, err := llm.NewClient(llmConfig)
	if err != nil {
		return fmt.Errorf("failed to create LLM client: %w", err)
	}
	reviewer := llm.NewReviewer(client)

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

	forecasts, err := store.GetForecasts(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to load forecasts: %w", err)
	}
	if len(forecasts) == 0 {
		fmt.Println(cli.FormatInfo("No forecasts found; run 'flowcast forecast' first"))
		return nil
	}
	if limit > 0 && len(forecasts) > limit {
		forecasts = forecasts[:limit]
	}

	slog.Info("Spot-checking forecasts",
		"client", clientID,
		"forecasts", len(forecasts),
		"provider", llmConfig.Provider)

	since := now.AddDate(0, 0, -lookback)
	flagged := 0

	for _, vendor := range forecasts {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		transactions, err := store.GetTransactionsByDisplayName(ctx, clientID, vendor.DisplayName, since, now)
		if err != nil {
			return fmt.Errorf("failed to load transactions for %s: %w", vendor.DisplayName, err)
		}

		record := model.ForecastRecord{
			Method:         model.ForecastMethod(vendor.ForecastMethod),
			Frequency:      model.Frequency(vendor.ForecastFrequency),
			PaymentDay:     vendor.ForecastDay,
			ForecastAmount: vendor.ForecastAmount,
			Confidence:     vendor.ForecastConfidence,
			Explanation:    vendor.ForecastNotes,
		}

		result := reviewer.SpotCheck(ctx, vendor.DisplayName, transactions, record)

		if result.NeedsReview {
			flagged++
			fmt.Printf("%s %s (%.0f%%)\n",
				cli.FormatWarning("needs review:"),
				cli.BoldStyle.Render(vendor.DisplayName),
				result.Confidence*100)
			for _, issue := range result.Issues {
				fmt.Printf("    - %s\n", issue)
			}
			if result.Explanation != "" {
				fmt.Printf("    %s\n", cli.SubtleStyle.Render(result.Explanation))
			}
		} else {
			fmt.Printf("%s %s\n", cli.FormatSuccess("ok:"), vendor.DisplayName)
		}
	}

	fmt.Println()
	if flagged == 0 {
		fmt.Println(cli.FormatSuccess(fmt.Sprintf("All %d forecasts passed the spot check", len(forecasts))))
	} else {
		fmt.Println(cli.FormatWarning(fmt.Sprintf("%d of %d forecasts flagged for review", flagged, len(forecasts))))
	}

	return nil
}
