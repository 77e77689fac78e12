package main

import (
	"encoding/csv"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/cashwise/flowcast/internal/cli"
	"github.com/cashwise/flowcast/internal/model"
	"github.com/cashwise/flowcast/internal/ofx"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [files...]",
		Short: "Import transactions from OFX/QFX or CSV files",
		Long: `Import bank transactions for a client from OFX/QFX statement exports
or CSV files.

CSV files need a header row with at least: date, amount, vendor_name.
Optional columns: account_id, type, id.

Examples:
  # Import statement exports
  flowcast import --client acme ~/Downloads/chase_*.qfx

  # Import a CSV export
  flowcast import --client acme transactions.csv

  # Preview without saving
  flowcast import --client acme --dry-run statement.ofx`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().BoolP("dry-run", "d", false, "Preview import without saving")

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	clientID, err := requireClientID()
	if err != nil {
		return err
	}

	// Expand globs and collect all files
	var allFiles []string
	for _, pattern := range args {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return fmt.Errorf("invalid pattern %s: %w", pattern, err)
		}
		if len(matches) == 0 {
			if _, err := os.Stat(pattern); err == nil {
				allFiles = append(allFiles, pattern)
			} else {
				slog.Warn("No files found matching pattern", "pattern", pattern)
			}
		} else {
			allFiles = append(allFiles, matches...)
		}
	}

	if len(allFiles) == 0 {
		return fmt.Errorf("no files found to import")
	}

	slog.Info("💸 Importing transaction files...",
		"client", clientID,
		"file_count", len(allFiles),
		"dry_run", dryRun)

	ctx := cmd.Context()
	parser := ofx.NewParser()

	var allTransactions []model.Transaction
	seen := make(map[string]bool) // dedupe across files by hash

	for _, filePath := range allFiles {
		f, err := os.Open(filePath)
		if err != nil {
			slog.Error("Failed to open file", "file", filePath, "error", err)
			continue
		}

		var transactions []model.Transaction
		switch strings.ToLower(filepath.Ext(filePath)) {
		case ".csv":
			transactions, err = parseCSVFile(f, clientID)
		default:
			transactions, err = parser.ParseFile(ctx, f, clientID)
		}
		_ = f.Close()

		if err != nil {
			slog.Error("Failed to parse file", "file", filePath, "error", err)
			continue
		}

		added := 0
		for _, tx := range transactions {
			if !seen[tx.Hash] {
				seen[tx.Hash] = true
				allTransactions = append(allTransactions, tx)
				added++
			}
		}

		slog.Info("Parsed file",
			"file", filepath.Base(filePath),
			"transactions", len(transactions),
			"new", added)
	}

	if len(allTransactions) == 0 {
		return fmt.Errorf("no transactions found in %d files", len(allFiles))
	}

	if dryRun {
		fmt.Println(cli.FormatInfo(fmt.Sprintf("Dry run: would import %d transactions for client %s", len(allTransactions), clientID)))
		return nil
	}

	store, err := initStorage(ctx)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer func() { _ = store.Close() }()

	if err := store.SaveTransactions(ctx, allTransactions); err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	fmt.Println(cli.FormatSuccess(fmt.Sprintf("Imported %d transactions for client %s", len(allTransactions), clientID)))
	return nil
}

// parseCSVFile reads transactions from a CSV export. The header row decides
// column positions; date, amount, and vendor_name are required.
func parseCSVFile(r io.Reader, clientID string) ([]model.Transaction, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"date", "amount", "vendor_name"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV is missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		i, ok := cols[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	var transactions []model.Transaction
	line := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV line %d: %w", line, err)
		}

		date, err := time.Parse("2006-01-02", field(record, "date"))
		if err != nil {
			return nil, fmt.Errorf("invalid date on line %d: %w", line, err)
		}

		amount, err := strconv.ParseFloat(field(record, "amount"), 64)
		if err != nil {
			return nil, fmt.Errorf("invalid amount on line %d: %w", line, err)
		}

		tx := model.Transaction{
			ID:         field(record, "id"),
			ClientID:   clientID,
			Date:       date,
			VendorName: field(record, "vendor_name"),
			AccountID:  field(record, "account_id"),
			Type:       field(record, "type"),
			Amount:     amount,
		}
		tx.Hash = tx.GenerateHash()
		if tx.ID == "" {
			tx.ID = tx.Hash
		}

		transactions = append(transactions, tx)
	}

	return transactions, nil
}
