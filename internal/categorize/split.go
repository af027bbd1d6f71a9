package categorize

import (
	"github.com/finsage/finsage/internal/model"
	"github.com/finsage/finsage/internal/stats"
)

// sharedExpenseAmountThreshold gates the shared-expense split; smaller
// amounts are not worth splitting.
const sharedExpenseAmountThreshold = 200.0

// SuggestSplitAllocation proposes how a transaction divides across
// categories. The returned percentages always sum to exactly 1.0.
func (m *Model) SuggestSplitAllocation(txn model.TransactionRecord) []model.SplitSuggestion {
	hasBusiness := stats.ContainsAny(txn.Note, businessIndicators)
	hasPersonal := stats.ContainsAny(txn.Note, personalIndicators)

	switch {
	case hasBusiness && hasPersonal:
		// Mixed-use: the stronger the business signal, the larger its share.
		businessShare := 0.6
		if stats.ContainsAny(txn.Note, strongBusinessIndicators) {
			businessShare = 0.7
		}
		return []model.SplitSuggestion{
			{Category: "Business", Percentage: businessShare},
			{Category: "Personal", Percentage: 1.0 - businessShare},
		}

	case hasBusiness:
		return []model.SplitSuggestion{{Category: "Business", Percentage: 1.0}}

	case txn.Amount > sharedExpenseAmountThreshold && stats.ContainsAny(txn.Note, sharedExpenseKeywords):
		category := "Personal"
		if suggestion := m.SuggestCategory(txn); suggestion != nil {
			category = suggestion.Category
		}
		return []model.SplitSuggestion{
			{Category: category, Percentage: 0.8},
			{Category: "Shared", Percentage: 0.2},
		}
	}

	category := "Personal"
	if suggestion := m.SuggestCategory(txn); suggestion != nil {
		category = suggestion.Category
	}
	return []model.SplitSuggestion{{Category: category, Percentage: 1.0}}
}
