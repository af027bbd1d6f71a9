package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/finsage/finsage/internal/config"
)

func predictCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Forecast cash flow and expenses",
		Long: `Project cash flow and per-category expenses over the coming months, and
propose budget and tax optimizations based on the stored history.`,
		RunE: runPredict,
	}

	cmd.Flags().IntP("months", "m", 3, "Forecast horizon in months")
	_ = viper.BindPFlag("predict.months", cmd.Flags().Lookup("months"))

	return cmd
}

func runPredict(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	months := viper.GetInt("predict.months")

	eng, store, err := buildEngine(ctx, config.FromViper())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := eng.EnablePredictiveAnalytics(ctx); err != nil {
		return err
	}

	prediction, err := eng.PredictCashFlow(ctx, months)
	if err != nil {
		return err
	}
	if prediction == nil || len(prediction.Predictions) == 0 {
		fmt.Println("Not enough history to forecast. Import more transactions first.")
		return nil
	}

	fmt.Printf("Cash flow forecast (%d months):\n", months)
	for _, p := range prediction.Predictions {
		fmt.Printf("  %s  income %9.2f  expenses %9.2f  net %9.2f  (confidence %.2f)\n",
			p.Month, p.ExpectedIncome, p.ExpectedExpenses, p.NetCashFlow, p.Confidence)
	}

	projection, err := eng.ProjectExpenses(ctx, months)
	if err != nil {
		return err
	}
	if projection != nil && len(projection.Categories) > 0 {
		fmt.Println("\nExpense projection by category:")
		for _, c := range projection.Categories {
			fmt.Printf("  %-14s %9.2f/month  %9.2f total  trend: %s\n",
				c.Category, c.MonthlyAverage, c.ProjectedTotal, c.Trend)
		}
		fmt.Printf("  Total projected: %.2f\n", projection.TotalAmount)
	}

	if optimizations := eng.GenerateBudgetOptimizations(ctx); len(optimizations) > 0 {
		fmt.Println("\nBudget optimizations:")
		for _, opt := range optimizations {
			fmt.Printf("  %-14s spend %9.2f -> %9.2f, saves %8.2f (feasibility %.2f)\n",
				opt.Category, opt.CurrentSpending, opt.RecommendedSpending, opt.PotentialSavings, opt.FeasibilityScore)
		}
	}

	if taxRecs := eng.GenerateTaxOptimizations(ctx); len(taxRecs) > 0 {
		fmt.Println("\nTax planning:")
		for _, rec := range taxRecs {
			fmt.Printf("  %-22s saves ~%8.2f (confidence %.2f)\n      %s\n",
				rec.Strategy, rec.PotentialSavings, rec.Confidence, rec.Description)
		}
	}

	return nil
}
