package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finsage/finsage/internal/config"
	"github.com/finsage/finsage/internal/model"
)

func anomaliesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "anomalies",
		Short: "Scan stored transactions for anomalies",
		Long: `Scan the transaction history for statistical and contextual anomalies,
assess fraud risk for each flagged transaction, and report behavioral
deviations across the whole history.`,
		RunE: runAnomalies,
	}

	cmd.Flags().Float64("min-risk", 0.3, "Only report fraud risk at or above this score")
	return cmd
}

func runAnomalies(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	minRisk, _ := cmd.Flags().GetFloat64("min-risk")

	eng, store, err := buildEngine(ctx, config.FromViper())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := eng.EnableAnomalyDetection(ctx); err != nil {
		return err
	}

	transactions, err := store.FetchAll(ctx)
	if err != nil {
		return fmt.Errorf("failed to load transactions: %w", err)
	}

	var flagged int
	for _, txn := range transactions {
		if !eng.DetectAnomaly(txn) {
			continue
		}
		flagged++

		fmt.Printf("! %s\n", formatTransaction(txn))
		if analysis := eng.AnalyzeAnomaly(txn); analysis != nil {
			for _, reason := range analysis.Reasons {
				fmt.Printf("    %s\n", reason)
			}
			fmt.Printf("    severity %.2f: %s\n", analysis.SeverityScore, analysis.Recommendation)
		}
		reportFraudRisk(eng.AssessFraudRisk(txn), minRisk)
	}

	if flagged == 0 {
		fmt.Printf("No anomalies in %d transactions.\n", len(transactions))
	} else {
		fmt.Printf("\n%d of %d transactions flagged.\n", flagged, len(transactions))
	}

	if deviations := eng.AnalyzeBehaviorDeviations(ctx); deviations != nil && len(deviations.Deviations) > 0 {
		fmt.Println("\nBehavioral deviations:")
		for _, d := range deviations.Deviations {
			fmt.Printf("  %-16s %s (significance %.2f)\n", d.Type, d.Description, d.SignificanceScore)
		}
	}

	return nil
}

func reportFraudRisk(assessment *model.FraudRiskAssessment, minRisk float64) {
	if assessment == nil || assessment.RiskScore < minRisk {
		return
	}
	fmt.Printf("    fraud risk %.2f (%s)\n", assessment.RiskScore, assessment.RiskLevel)
	for _, factor := range assessment.RiskFactors {
		fmt.Printf("      - %s\n", factor)
	}
}
