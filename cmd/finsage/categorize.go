package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/finsage/finsage/internal/config"
	"github.com/finsage/finsage/internal/model"
)

func categorizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "categorize <amount> <description...>",
		Short: "Suggest a category for a transaction",
		Long: `Run the categorization model against a single transaction and print the
suggested category, the reasoning factors, and the proposed split across
business and personal when the description is ambiguous.`,
		Args: cobra.MinimumNArgs(2),
		RunE: runCategorize,
	}

	cmd.Flags().String("date", "", "Transaction date (2006-01-02, default: now)")
	return cmd
}

func runCategorize(cmd *cobra.Command, args []string) error {
	amount, err := strconv.ParseFloat(args[0], 64)
	if err != nil {
		return fmt.Errorf("invalid amount %q: %w", args[0], err)
	}

	dateFlag, _ := cmd.Flags().GetString("date")
	date, err := parseTransactionDate(dateFlag)
	if err != nil {
		return err
	}

	eng, store, err := buildEngine(cmd.Context(), config.FromViper())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	txn := model.TransactionRecord{
		Date:   date,
		Amount: amount,
		Note:   strings.Join(args[1:], " "),
	}

	suggestion := eng.SuggestCategoryWithContext(txn)
	if suggestion == nil {
		return fmt.Errorf("categorization unavailable")
	}

	fmt.Printf("Suggested category: %s (confidence %.2f)\n", suggestion.Category, suggestion.Confidence)
	for _, factor := range suggestion.ReasoningFactors {
		fmt.Printf("  - %s\n", factor)
	}
	for _, factor := range suggestion.ContextualFactors {
		fmt.Printf("  ~ %s\n", factor)
	}

	splits := eng.SuggestSplitAllocation(txn)
	if len(splits) > 1 {
		fmt.Println("\nSuggested split:")
		for _, s := range splits {
			fmt.Printf("  %-14s %5.0f%%  (%.2f)\n", s.Category, s.Percentage*100, s.Percentage*amount)
		}
	}

	return nil
}
