// Package insight synthesizes ranked, human-readable insights and
// actionable recommendations from transaction history.
package insight

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/finsage/finsage/internal/model"
)

// Fixed relevance bands; ranking is by band, not a learned score.
const (
	relevanceTopCategory  = 0.85
	relevanceExpenseRatio = 0.9
	relevanceIndustry     = 0.8

	// expenseRatioWarning triggers when expenses consume this share of
	// income.
	expenseRatioWarning = 0.9
)

// Generator produces insights. Stateless; all inputs arrive per call.
type Generator struct{}

// NewGenerator creates an insight generator.
func NewGenerator() *Generator {
	return &Generator{}
}

// GenerateInsights produces the bounded base set of insights for a
// transaction set, sorted by relevance descending.
func (g *Generator) GenerateInsights(transactions []model.TransactionRecord) []model.FinancialInsight {
	return g.generate(transactions, nil)
}

// GeneratePersonalizedInsights adds profile-driven insights on top of the
// base set.
func (g *Generator) GeneratePersonalizedInsights(transactions []model.TransactionRecord, profile *model.UserProfile) []model.FinancialInsight {
	return g.generate(transactions, profile)
}

func (g *Generator) generate(transactions []model.TransactionRecord, profile *model.UserProfile) []model.FinancialInsight {
	if len(transactions) == 0 {
		return nil
	}

	totals := make(map[string]float64)
	var incomeTotal, expenseTotal float64
	for _, txn := range transactions {
		if txn.IsIncome() {
			incomeTotal += -txn.Amount
			continue
		}
		totals[txn.Category] += txn.Amount
		expenseTotal += txn.Amount
	}

	var insights []model.FinancialInsight

	if topCategory, topSpend := largestCategory(totals); topCategory != "" {
		insights = append(insights, model.FinancialInsight{
			ID:                       uuid.NewString(),
			Title:                    fmt.Sprintf("Most spending goes to %s", topCategory),
			Description:              fmt.Sprintf("%s is your largest expense category at %.0f (%.0f%% of spending).", topCategory, topSpend, topSpend/expenseTotal*100),
			Category:                 topCategory,
			RelevanceScore:           relevanceTopCategory,
			ActionableRecommendation: fmt.Sprintf("Review recent %s transactions for cuts.", topCategory),
		})
	}

	if incomeTotal > 0 && expenseTotal >= incomeTotal*expenseRatioWarning {
		insights = append(insights, model.FinancialInsight{
			ID:                       uuid.NewString(),
			Title:                    "Expenses are close to income",
			Description:              fmt.Sprintf("Expenses of %.0f consume %.0f%% of income.", expenseTotal, expenseTotal/incomeTotal*100),
			Category:                 "Cash Flow",
			RelevanceScore:           relevanceExpenseRatio,
			ActionableRecommendation: "Build a buffer by trimming discretionary categories this month.",
		})
	}

	if profile != nil && profile.Industry != "" {
		insights = append(insights, model.FinancialInsight{
			ID:                       uuid.NewString(),
			Title:                    fmt.Sprintf("Tips for the %s industry", profile.Industry),
			Description:              fmt.Sprintf("As a %s professional, industry-specific deductions may apply to your business spending.", profile.Industry),
			Category:                 "Business",
			RelevanceScore:           relevanceIndustry,
			ActionableRecommendation: "Ask your accountant about industry-specific deduction categories.",
			IsPersonalized:           true,
		})
	}

	sort.SliceStable(insights, func(i, j int) bool {
		return insights[i].RelevanceScore > insights[j].RelevanceScore
	})

	return insights
}

// GenerateTrendInsights compares each category's recent spend against its
// earlier spend and reports meaningful direction changes.
func (g *Generator) GenerateTrendInsights(transactions []model.TransactionRecord) []model.TrendInsight {
	byCategory := make(map[string][]model.TransactionRecord)
	for _, txn := range transactions {
		if txn.IsIncome() {
			continue
		}
		byCategory[txn.Category] = append(byCategory[txn.Category], txn)
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var trends []model.TrendInsight
	for _, category := range categories {
		group := byCategory[category]
		if len(group) < 4 {
			continue
		}

		sort.Slice(group, func(i, j int) bool { return group[i].Date.Before(group[j].Date) })

		half := len(group) / 2
		var older, newer float64
		for i, txn := range group {
			if i < half {
				older += txn.Amount
			} else {
				newer += txn.Amount
			}
		}
		olderAvg := older / float64(half)
		newerAvg := newer / float64(len(group)-half)
		if olderAvg == 0 {
			continue
		}

		change := (newerAvg - olderAvg) / olderAvg
		if change > -0.2 && change < 0.2 {
			continue
		}

		direction := "increasing"
		if change < 0 {
			direction = "decreasing"
		}
		trends = append(trends, model.TrendInsight{
			Category:    category,
			Direction:   direction,
			ChangeRate:  change,
			Description: fmt.Sprintf("%s spending is %s (%.0f%% vs the earlier period).", category, direction, change*100),
		})
	}

	return trends
}
