package insight

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/finsage/finsage/internal/model"
)

const (
	// Only categories with this much spend and volume earn a
	// recommendation.
	recommendationMinSpend = 1000.0
	recommendationMinCount = 5

	// Spend above the cutoff escalates priority.
	highPriorityCutoff = 2000.0
)

// GenerateActionableRecommendations derives per-category actions, sorted by
// priority descending then category name for a stable total order.
func (g *Generator) GenerateActionableRecommendations(transactions []model.TransactionRecord) []model.ActionableRecommendation {
	totals := make(map[string]float64)
	counts := make(map[string]int)
	for _, txn := range transactions {
		if txn.IsIncome() {
			continue
		}
		totals[txn.Category] += txn.Amount
		counts[txn.Category]++
	}

	var recommendations []model.ActionableRecommendation
	for category, total := range totals {
		if total <= recommendationMinSpend || counts[category] <= recommendationMinCount {
			continue
		}

		priority := 2
		if total > highPriorityCutoff {
			priority = 3
		}

		recommendations = append(recommendations, model.ActionableRecommendation{
			ID:       uuid.NewString(),
			Category: category,
			Action:   fmt.Sprintf("Set a monthly cap for %s and review it weekly.", category),
			Impact:   fmt.Sprintf("Recent %s spend is %.0f across %d transactions.", category, total, counts[category]),
			Priority: priority,
		})
	}

	sort.Slice(recommendations, func(i, j int) bool {
		if recommendations[i].Priority != recommendations[j].Priority {
			return recommendations[i].Priority > recommendations[j].Priority
		}
		return recommendations[i].Category < recommendations[j].Category
	})

	return recommendations
}

// largestCategory returns the category with the highest total, breaking ties
// alphabetically.
func largestCategory(totals map[string]float64) (string, float64) {
	var best string
	var bestTotal float64
	for category, total := range totals {
		if total > bestTotal || (total == bestTotal && (best == "" || category < best)) {
			best = category
			bestTotal = total
		}
	}
	return best, bestTotal
}
