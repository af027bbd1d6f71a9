package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finsage/finsage/internal/config"
)

func insightsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "insights",
		Short: "Generate financial insights and recommendations",
		Long: `Generate ranked insights from the stored transaction history, along with
trend analysis and actionable per-category recommendations. Insights are
personalized when a user profile has been set.`,
		RunE: runInsights,
	}
}

func runInsights(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	eng, store, err := buildEngine(ctx, config.FromViper())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := eng.EnableInsightGeneration(ctx); err != nil {
		return err
	}

	insights := eng.GenerateFinancialInsights(ctx)
	if len(insights) == 0 {
		fmt.Println("No insights yet. Import more transactions first.")
		return nil
	}

	fmt.Println("Insights:")
	for _, ins := range insights {
		marker := " "
		if ins.IsPersonalized {
			marker = "*"
		}
		fmt.Printf("%s [%.2f] %s\n      %s\n      -> %s\n",
			marker, ins.RelevanceScore, ins.Title, ins.Description, ins.ActionableRecommendation)
	}

	if trends := eng.GenerateTrendInsights(ctx); len(trends) > 0 {
		fmt.Println("\nTrends:")
		for _, tr := range trends {
			fmt.Printf("  %s\n", tr.Description)
		}
	}

	if recs := eng.GenerateActionableRecommendations(ctx); len(recs) > 0 {
		fmt.Println("\nRecommendations:")
		for _, rec := range recs {
			fmt.Printf("  [P%d] %-14s %s (%s)\n", rec.Priority, rec.Category, rec.Action, rec.Impact)
		}
	}

	return nil
}
