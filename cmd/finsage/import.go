package main

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finsage/finsage/internal/config"
	"github.com/finsage/finsage/internal/model"
	"github.com/finsage/finsage/internal/ofx"
)

func importCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [file or directory...]",
		Short: "Import transactions from OFX/QFX files",
		Long: `Import financial transactions from OFX or QFX files exported by your bank.

Directories are scanned for .ofx and .qfx files. Transactions are
deduplicated by content hash, so re-importing the same file is safe.`,
		Args: cobra.MinimumNArgs(1),
		RunE: runImport,
	}

	cmd.Flags().Bool("dry-run", false, "Parse and summarize without saving")
	_ = viper.BindPFlag("import.dry_run", cmd.Flags().Lookup("dry-run"))

	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	files, err := collectOFXFiles(args)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no OFX/QFX files found in %s", strings.Join(args, ", "))
	}

	parser := ofx.NewParser()
	bar := progressbar.NewOptions(len(files),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetDescription("Parsing files..."),
	)

	var transactions []model.TransactionRecord
	for _, file := range files {
		parsed, err := parseOFXFile(cmd, parser, file)
		if err != nil {
			return fmt.Errorf("failed to parse %s: %w", file, err)
		}
		transactions = append(transactions, parsed...)
		_ = bar.Add(1)
	}
	_ = bar.Finish()
	fmt.Fprintln(os.Stderr)

	slog.Info("Parsed transactions", "files", len(files), "transactions", len(transactions))

	if viper.GetBool("import.dry_run") {
		slog.Info("Dry run mode - not saving to database")
		displayImportSummary(transactions)
		return nil
	}

	store, err := openStorage(ctx, config.FromViper())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	saved, err := store.SaveTransactions(ctx, transactions)
	if err != nil {
		return fmt.Errorf("failed to save transactions: %w", err)
	}

	slog.Info("Import complete",
		"imported", saved,
		"duplicates_skipped", len(transactions)-saved)
	displayImportSummary(transactions)

	return nil
}

func parseOFXFile(cmd *cobra.Command, parser *ofx.Parser, path string) ([]model.TransactionRecord, error) {
	f, err := os.Open(path) //nolint:gosec // user-supplied import path
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()

	return parser.ParseFile(cmd.Context(), f)
}

// collectOFXFiles expands directory arguments into their .ofx/.qfx members.
func collectOFXFiles(args []string) ([]string, error) {
	var files []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot access %s: %w", arg, err)
		}
		if !info.IsDir() {
			files = append(files, arg)
			continue
		}

		entries, err := os.ReadDir(arg)
		if err != nil {
			return nil, fmt.Errorf("cannot read directory %s: %w", arg, err)
		}
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".ofx", ".qfx":
				files = append(files, filepath.Join(arg, entry.Name()))
			}
		}
	}
	return files, nil
}

func displayImportSummary(transactions []model.TransactionRecord) {
	if len(transactions) == 0 {
		return
	}

	var expenses, income float64
	categories := make(map[string]int)
	for _, txn := range transactions {
		if txn.IsIncome() {
			income += -txn.Amount
		} else {
			expenses += txn.Amount
		}
		if txn.Category != "" {
			categories[txn.Category]++
		}
	}

	slog.Info("Import summary",
		"transactions", len(transactions),
		"expenses", fmt.Sprintf("%.2f", expenses),
		"income", fmt.Sprintf("%.2f", income),
		"pre_categorized", len(categories))
}
