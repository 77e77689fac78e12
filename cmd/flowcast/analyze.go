package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/cashwise/flowcast/internal/classification"
	"github.com/cashwise/flowcast/internal/cli"
	"github.com/cashwise/flowcast/internal/engine"
	"github.com/cashwise/flowcast/internal/model"
	"github.com/cashwise/flowcast/internal/service"
)

func analyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Detect timing and amount patterns across vendor groups",
		Long: `Analyze every vendor group of a client over the lookback window:
detect the payment timing pattern, characterize amount volatility, and
produce a forecast recommendation for each group. Results are stored
and summarized on the console.`,
		RunE: runAnalyze,
	}

	cmd.Flags().Int("lookback", 365, "Lookback window in days")
	cmd.Flags().String("as-of", "", "Analysis reference date (YYYY-MM-DD, default latest transaction)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	lookback, _ := cmd.Flags().GetInt("lookback")

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

	classifier, err := classification.NewDefaultClassifier()
	if err != nil {
		return fmt.Errorf("failed to build classifier: %w", err)
	}

	groups, err := store.GetVendorGroups(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to load vendor groups: %w", err)
	}
	if len(groups) == 0 {
		fmt.Println(cli.FormatInfo("No vendor groups to analyze; run 'flowcast vendors map' first"))
		return nil
	}

	slog.Info("Starting analysis",
		"client", clientID,
		"groups", len(groups),
		"lookback_days", lookback,
		"as_of", now.Format("2006-01-02"))

	bar := newProgressBar(len(groups), "Analyzing vendor groups...")

	eng := engine.New(store, classifier)
	analyses, err := eng.AnalyzeClient(ctx, clientID, lookback, now, func(model.VendorAnalysis) {
		_ = bar.Add(1)
	})
	if err != nil {
		return fmt.Errorf("analysis failed: %w", err)
	}

	printAnalysisSummary(clientID, analyses)
	return nil
}

func printAnalysisSummary(clientID string, analyses []model.VendorAnalysis) {
	counts := make(map[model.Recommendation]int)
	for _, a := range analyses {
		counts[a.Recommendation]++
	}

	fmt.Println()
	fmt.Println(cli.FormatTitle(fmt.Sprintf("Analysis summary for %s", clientID)))
	fmt.Printf("%s %d groups analyzed\n", cli.ChartIcon, len(analyses))
	fmt.Printf("  %s %d accept  %s %d modify  %s %d manual  %s %d skip\n",
		cli.StyleSuccess("●"), counts[model.RecommendAccept],
		cli.StyleWarning("●"), counts[model.RecommendModify],
		cli.StyleInfo("●"), counts[model.RecommendManual],
		cli.SubtleStyle.Render("●"), counts[model.RecommendSkip])

	var attention []model.VendorAnalysis
	for _, a := range analyses {
		if a.Recommendation == model.RecommendModify || a.Recommendation == model.RecommendManual {
			attention = append(attention, a)
		}
	}

	if len(attention) > 0 {
		fmt.Println()
		fmt.Println(cli.StyleWarning(fmt.Sprintf("%d groups need review:", len(attention))))
		for _, a := range attention {
			fmt.Printf("  %s [%s, %.0f%%] %s\n",
				cli.BoldStyle.Render(a.DisplayName),
				a.Pattern.PatternType,
				a.Pattern.Confidence*100,
				cli.SubtleStyle.Render(a.Reasoning))
		}
	}
}

// resolveAsOf reads the --as-of flag. When the flag is unset it falls back
// to the client's latest imported transaction date, so stale imports are
// analyzed relative to their own history rather than today. Clients with no
// transactions use the current date.
func resolveAsOf(ctx context.Context, cmd *cobra.Command, store service.Storage, clientID string) (time.Time, error) {
	asOf, _ := cmd.Flags().GetString("as-of")
	if asOf != "" {
		t, err := time.Parse("2006-01-02", asOf)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --as-of date %q: %w", asOf, err)
		}
		return t, nil
	}

	latest, err := store.GetLatestTransactionDate(ctx, clientID)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to resolve reference date: %w", err)
	}
	if latest.IsZero() {
		return time.Now().UTC(), nil
	}
	return latest.UTC(), nil
}

func newProgressBar(total int, description string) *progressbar.ProgressBar {
	return progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionEnableColorCodes(true),
		progressbar.OptionShowCount(),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("[cyan][bold]"+description+"[reset]"),
		progressbar.OptionSetTheme(progressbar.Theme{
			Saucer:        "[green]=[reset]",
			SaucerHead:    "[green]>[reset]",
			SaucerPadding: " ",
			BarStart:      "[",
			BarEnd:        "]",
		}),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(os.Stderr)
		}),
	)
}
