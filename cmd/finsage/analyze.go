package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/finsage/finsage/internal/config"
)

func analyzeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "analyze",
		Short: "Analyze spending patterns and habits",
		Long: `Run pattern recognition over the stored transaction history: recurring
category patterns, seasonal and quarterly aggregates, recurring charges,
and overall spending habits.`,
		RunE: runAnalyze,
	}
}

func runAnalyze(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	eng, store, err := buildEngine(ctx, config.FromViper())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	patterns := eng.RecognizeExpensePatterns(ctx)
	if len(patterns) == 0 {
		fmt.Println("No expense patterns found. Import more transactions first.")
		return nil
	}

	fmt.Println("Expense patterns:")
	for _, p := range patterns {
		fmt.Printf("  %-14s %5.1f%% of transactions, avg %8.2f (confidence %.2f)\n",
			p.Category, p.Frequency*100, p.AverageAmount, p.Confidence)
	}

	if habits := eng.AnalyzeSpendingHabits(ctx); habits != nil {
		fmt.Printf("\nSpending habits:\n")
		fmt.Printf("  Top category:       %s (%.1f%% of spending)\n", habits.TopCategory, habits.TopCategoryShare*100)
		fmt.Printf("  Avg transaction:    %.2f\n", habits.AverageTransaction)
		fmt.Printf("  Transactions/day:   %.2f\n", habits.TransactionsPerDay)
		fmt.Printf("  Weekend share:      %.1f%%\n", habits.WeekendShare*100)
	}

	if recurring := eng.DetectRecurringTransactions(ctx); len(recurring) > 0 {
		fmt.Printf("\nRecurring transactions:\n")
		for _, r := range recurring {
			fmt.Printf("  %-12s %-24s %9.2f every %.0f days (confidence %.2f)\n",
				r.Type, r.Description, r.Amount, r.FrequencyDays, r.Confidence)
		}
	}

	if seasonal := eng.AnalyzeSeasonalPatterns(ctx); seasonal != nil && len(seasonal.Months) > 0 {
		fmt.Printf("\nMonthly spending:\n")
		for _, m := range seasonal.Months {
			fmt.Printf("  %-10s %10.2f  (%d transactions)\n", m.Period, m.TotalAmount, m.TransactionCount)
		}
	}

	if quarterly := eng.AnalyzeQuarterlyPatterns(ctx); quarterly != nil && len(quarterly.Quarters) > 0 {
		fmt.Fprintln(os.Stdout)
		fmt.Println("Quarterly spending:")
		for _, q := range quarterly.Quarters {
			fmt.Printf("  %-10s %10.2f  (%d transactions)\n", q.Period, q.TotalAmount, q.TransactionCount)
		}
	}

	return nil
}
