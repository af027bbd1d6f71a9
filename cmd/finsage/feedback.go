package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finsage/finsage/internal/config"
	"github.com/finsage/finsage/internal/model"
)

func feedbackCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "feedback",
		Short: "Teach the engine with a correction",
		Long: `Record a categorization correction. The engine applies the correction to
future suggestions for the same transaction note and folds the feedback
into its learning metrics.`,
		RunE: runFeedback,
	}

	cmd.Flags().String("note", "", "Transaction note the correction applies to")
	cmd.Flags().String("original", "", "Category the engine originally suggested")
	cmd.Flags().String("corrected", "", "Correct category")
	cmd.Flags().Float64("confidence", 1.0, "Your confidence in the correction")
	_ = cmd.MarkFlagRequired("note")
	_ = cmd.MarkFlagRequired("corrected")

	return cmd
}

func runFeedback(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	note, _ := cmd.Flags().GetString("note")
	original, _ := cmd.Flags().GetString("original")
	corrected, _ := cmd.Flags().GetString("corrected")
	confidence, _ := cmd.Flags().GetFloat64("confidence")

	eng, store, err := buildEngine(ctx, config.FromViper())
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := eng.EnableLearning(ctx); err != nil {
		return err
	}

	err = eng.IncorporateFeedback(ctx, model.UserFeedback{
		Kind:               model.FeedbackCategoryCorrection,
		OriginalPrediction: original,
		CorrectedValue:     corrected,
		Note:               note,
		Confidence:         confidence,
	})
	if err != nil {
		return fmt.Errorf("failed to incorporate feedback: %w", err)
	}

	metrics := eng.LearningMetrics()
	fmt.Printf("Correction recorded: %q -> %s\n", note, corrected)
	fmt.Printf("Feedback incorporated to date: %d (accuracy improvement %.3f)\n",
		metrics.FeedbackCount, metrics.AccuracyImprovement)

	return nil
}
