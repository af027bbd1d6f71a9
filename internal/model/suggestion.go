package model

// CategorySuggestion is a proposed category for a single transaction.
type CategorySuggestion struct {
	Category         string
	ReasoningFactors []string
	Confidence       float64
}

// ContextualCategorySuggestion extends a CategorySuggestion with the
// contextual signals that influenced it.
type ContextualCategorySuggestion struct {
	CategorySuggestion
	ContextualFactors []string
}

// SplitSuggestion allocates a fraction of a transaction to one category.
// The percentages of all suggestions emitted for one transaction sum to 1.0.
type SplitSuggestion struct {
	Category   string
	Percentage float64
}
