package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/cashwise/flowcast/internal/classification"
	"github.com/cashwise/flowcast/internal/cli"
	"github.com/cashwise/flowcast/internal/model"
)

func vendorsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "vendors",
		Short: "Manage vendor display-name mappings",
	}

	cmd.AddCommand(vendorsMapCmd())
	cmd.AddCommand(vendorsListCmd())

	return cmd
}

func vendorsMapCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "map",
		Short: "Auto-map unmapped vendor names to display names and categories",
		Long: `Find transactions whose raw vendor name has no mapping yet, derive a
canonical display name for each, and assign a business category from
the built-in rules. Existing mappings are never touched.`,
		RunE: runVendorsMap,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview mappings without saving")

	return cmd
}

func runVendorsMap(cmd *cobra.Command, _ []string) error {
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

	classifier, err := classification.NewDefaultClassifier()
	if err != nil {
		return fmt.Errorf("failed to build classifier: %w", err)
	}

	unmapped, err := store.GetUnmappedVendorNames(ctx, clientID)
	if err != nil {
		return fmt.Errorf("failed to load unmapped vendors: %w", err)
	}

	if len(unmapped) == 0 {
		fmt.Println(cli.FormatInfo("All vendor names are already mapped"))
		return nil
	}

	slog.Info("Mapping vendor names",
		"client", clientID,
		"unmapped", len(unmapped),
		"dry_run", dryRun)

	for _, vendorName := range unmapped {
		displayName := classifier.Normalize(vendorName)
		category := classifier.Classify(displayName, vendorName)

		if dryRun {
			fmt.Printf("%s → %s  [%s]\n", vendorName, cli.BoldStyle.Render(displayName), category)
			continue
		}

		vendor := &model.Vendor{
			ClientID:    clientID,
			VendorName:  vendorName,
			DisplayName: displayName,
			Category:    category,
			IsInventory: category == model.CategoryInventory,
		}
		if err := store.SaveVendor(ctx, vendor); err != nil {
			return fmt.Errorf("failed to save vendor %s: %w", vendorName, err)
		}
	}

	if dryRun {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("Dry run: would map %d vendor names", len(unmapped))))
		return nil
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Mapped %d vendor names", len(unmapped))))
	return nil
}

func vendorsListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List vendor groups and their categories",
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			groups, err := store.GetVendorGroups(ctx, clientID)
			if err != nil {
				return fmt.Errorf("failed to load vendor groups: %w", err)
			}

			if len(groups) == 0 {
				fmt.Println(cli.FormatInfo("No vendor groups found; run 'flowcast vendors map' first"))
				return nil
			}

			fmt.Println(cli.FormatTitle(fmt.Sprintf("Vendor groups for %s", clientID)))
			for _, group := range groups {
				marker := ""
				if group.IsInventory {
					marker = cli.SubtleStyle.Render(" (inventory)")
				}
				fmt.Printf("%s  [%s]%s - %d vendor names\n",
					cli.BoldStyle.Render(group.DisplayName), group.Category, marker, len(group.VendorNames))
			}

			return nil
		},
	}
}
