package predict

import (
	"fmt"
	"sort"

	"github.com/finsage/finsage/internal/model"
	"github.com/finsage/finsage/internal/stats"
)

const (
	// Significance gate: categories below either bound carry too little
	// signal to optimize.
	budgetMinSpend        = 500.0
	budgetMinTransactions = 5

	// Optimization potential is normalized variance scaled conservatively.
	optimizationScale  = 0.3
	minPotential       = 0.1
	minFeasibility     = 0.5
	maxReductionFactor = 0.8
)

// GenerateBudgetOptimizations proposes spending reductions for categories
// with enough volume and variance to matter.
func (e *Engine) GenerateBudgetOptimizations(transactions []model.TransactionRecord) []model.BudgetOptimization {
	byCategory := make(map[string][]float64)
	for _, txn := range transactions {
		if txn.IsIncome() {
			continue
		}
		byCategory[txn.Category] = append(byCategory[txn.Category], txn.Amount)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var optimizations []model.BudgetOptimization
	for _, category := range categories {
		amounts := byCategory[category]

		var total float64
		for _, amount := range amounts {
			total += amount
		}
		if total <= budgetMinSpend || len(amounts) < budgetMinTransactions {
			continue
		}

		mean := stats.Mean(amounts)
		potential := stats.Clamp(stats.Variance(amounts)/(mean*mean), 0, 1) * optimizationScale
		feasibility := stats.Clamp(float64(len(amounts))/10.0, 0, 1)

		if potential <= minPotential || feasibility <= minFeasibility {
			continue
		}

		reduction := total * potential * maxReductionFactor
		optimizations = append(optimizations, model.BudgetOptimization{
			Category:            category,
			CurrentSpending:     total,
			RecommendedSpending: total - reduction,
			PotentialSavings:    reduction,
			FeasibilityScore:    feasibility,
			Description:         fmt.Sprintf("Spending in %s varies widely; smoothing it out could save %.0f", category, reduction),
		})
	}

	sort.Slice(optimizations, func(i, j int) bool {
		if optimizations[i].PotentialSavings != optimizations[j].PotentialSavings {
			return optimizations[i].PotentialSavings > optimizations[j].PotentialSavings
		}
		return optimizations[i].Category < optimizations[j].Category
	})

	return optimizations
}
