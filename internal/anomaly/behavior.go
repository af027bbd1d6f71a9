package anomaly

import (
	"fmt"
	"math"
	"sort"

	"github.com/finsage/finsage/internal/model"
	"github.com/finsage/finsage/internal/stats"
)

// AnalyzeBehaviorDeviations recomputes category baselines from the full set,
// then reports aggregated drift groups rather than per-transaction flags.
func (d *Detector) AnalyzeBehaviorDeviations(transactions []model.TransactionRecord) *model.BehaviorDeviationAnalysis {
	if len(transactions) == 0 {
		return nil
	}

	d.SetBaselines(transactions)

	byCategory := make(map[string][]model.TransactionRecord)
	for _, txn := range transactions {
		byCategory[txn.Category] = append(byCategory[txn.Category], txn)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var deviations []model.BehaviorDeviation
	totalSpend := totalExpenses(transactions)

	for _, category := range categories {
		group := byCategory[category]

		// Unusual spending: outliers beyond the deviation threshold.
		mean, stddev := d.baselineFor(category)
		outliers := 0
		for _, txn := range group {
			if stddev > 0 && math.Abs(stats.ZScore(txn.Amount, mean, stddev)) > d.config.BehaviorDeviationThreshold {
				outliers++
			}
		}
		if outliers > 0 {
			deviations = append(deviations, model.BehaviorDeviation{
				Type:              model.DeviationUnusualSpending,
				SignificanceScore: stats.Clamp(float64(outliers)/float64(len(group))*2, 0, 1),
				Description:       fmt.Sprintf("%d of %d %s transactions deviate sharply from the category baseline", outliers, len(group), category),
			})
		}

		// Category shift: one category absorbing most of the spend.
		if totalSpend > 0 {
			categorySpend := 0.0
			for _, txn := range group {
				if !txn.IsIncome() {
					categorySpend += txn.Amount
				}
			}
			if share := categorySpend / totalSpend; share > 0.5 && len(byCategory) > 1 {
				deviations = append(deviations, model.BehaviorDeviation{
					Type:              model.DeviationCategoryShift,
					SignificanceScore: stats.Clamp(share, 0, 1),
					Description:       fmt.Sprintf("%s accounts for %.0f%% of recent spending", category, share*100),
				})
			}
		}
	}

	// Frequency change: the most recent third of the window much busier or
	// quieter than the rest.
	if deviation := frequencyDeviation(transactions); deviation != nil {
		deviations = append(deviations, *deviation)
	}

	if len(deviations) == 0 {
		return nil
	}
	return &model.BehaviorDeviationAnalysis{Deviations: deviations}
}

func totalExpenses(transactions []model.TransactionRecord) float64 {
	var total float64
	for _, txn := range transactions {
		if !txn.IsIncome() {
			total += txn.Amount
		}
	}
	return total
}

// frequencyDeviation compares transaction counts in the most recent third of
// the observed window against the average of the earlier two thirds.
func frequencyDeviation(transactions []model.TransactionRecord) *model.BehaviorDeviation {
	if len(transactions) < 6 {
		return nil
	}

	sorted := make([]model.TransactionRecord, len(transactions))
	copy(sorted, transactions)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	window := sorted[len(sorted)-1].Date.Sub(sorted[0].Date)
	if window <= 0 {
		return nil
	}

	recentStart := sorted[len(sorted)-1].Date.Add(-window / 3)
	recent := 0
	for _, txn := range sorted {
		if !txn.Date.Before(recentStart) {
			recent++
		}
	}
	earlierPerThird := float64(len(sorted)-recent) / 2

	if earlierPerThird == 0 {
		return nil
	}

	ratio := float64(recent) / earlierPerThird
	if ratio < 2.0 && ratio > 0.5 {
		return nil
	}

	direction := "increased"
	if ratio <= 0.5 {
		direction = "decreased"
	}
	return &model.BehaviorDeviation{
		Type:              model.DeviationFrequencyChange,
		SignificanceScore: stats.Clamp(math.Abs(ratio-1)/2, 0, 1),
		Description:       fmt.Sprintf("transaction frequency has %s recently", direction),
	}
}
