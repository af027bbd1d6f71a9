package predict

import (
	"fmt"

	"github.com/finsage/finsage/internal/model"
)

// Fixed-rate tax heuristics. Deliberately simple and explainable; a trained
// model can replace them behind the same contract.
const (
	gstSpendThreshold       = 1000.0
	gstSavingRate           = 0.10
	deductionSpendThreshold = 2000.0
	deductionSavingRate     = 0.15
	entitySpendThreshold    = 50000.0
	entitySavingRate        = 0.05
)

// GenerateTaxOptimizations emits rule-based tax-planning recommendations
// from category spend totals.
func (e *Engine) GenerateTaxOptimizations(transactions []model.TransactionRecord) []model.TaxOptimizationRecommendation {
	var businessSpend, investmentSpend float64
	for _, txn := range transactions {
		if txn.IsIncome() {
			continue
		}
		switch txn.Category {
		case "Business":
			businessSpend += txn.Amount
		case "Investment":
			investmentSpend += txn.Amount
		}
	}

	var recommendations []model.TaxOptimizationRecommendation

	if businessSpend > gstSpendThreshold {
		recommendations = append(recommendations, model.TaxOptimizationRecommendation{
			Strategy:         "gst-optimization",
			Description:      fmt.Sprintf("Business spend of %.0f may carry reclaimable GST credits.", businessSpend),
			PotentialSavings: businessSpend * gstSavingRate,
			Confidence:       0.9,
		})
	}

	if investmentSpend > deductionSpendThreshold {
		recommendations = append(recommendations, model.TaxOptimizationRecommendation{
			Strategy:         "deduction-maximization",
			Description:      fmt.Sprintf("Investment spend of %.0f suggests unclaimed deductions.", investmentSpend),
			PotentialSavings: investmentSpend * deductionSavingRate,
			Confidence:       0.75,
		})
	}

	if businessSpend > entitySpendThreshold {
		recommendations = append(recommendations, model.TaxOptimizationRecommendation{
			Strategy:         "entity-structuring",
			Description:      "Business spending at this scale may justify a separate legal entity.",
			PotentialSavings: businessSpend * entitySavingRate,
			Confidence:       0.6,
		})
	}

	return recommendations
}
