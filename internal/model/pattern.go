package model

// ExpensePattern describes a recurring category/amount pattern mined from a
// transaction set. Derived, recomputed per analysis run, cached.
type ExpensePattern struct {
	Category      string
	Frequency     float64 // share of all transactions in this category (0.0-1.0)
	AverageAmount float64
	Confidence    float64
}

// PeriodSummary aggregates spending for one calendar period (month or
// quarter).
type PeriodSummary struct {
	Period           string
	TotalAmount      float64
	TransactionCount int
}

// SeasonalPatternAnalysis holds per-calendar-month spending aggregates in
// month order (January first).
type SeasonalPatternAnalysis struct {
	Months []PeriodSummary
}

// QuarterlySpendingAnalysis holds per-quarter spending aggregates in quarter
// order (Q1 first).
type QuarterlySpendingAnalysis struct {
	Quarters []PeriodSummary
}

// RecurringType classifies a detected recurring transaction.
type RecurringType string

const (
	// RecurringSubscription is a small, regular discretionary charge.
	RecurringSubscription RecurringType = "subscription"
	// RecurringBill is a larger regular expense.
	RecurringBill RecurringType = "bill"
	// RecurringSalary is regular income.
	RecurringSalary RecurringType = "salary"
)

// RecurringTransaction describes a detected repeating charge or deposit.
type RecurringTransaction struct {
	Type          RecurringType
	Description   string
	Amount        float64
	FrequencyDays float64
	Confidence    float64
}

// SpendingHabits summarizes how a user spends across a transaction set.
type SpendingHabits struct {
	TopCategory        string
	TopCategoryShare   float64
	AverageTransaction float64
	TransactionsPerDay float64
	WeekendShare       float64
	CategoryTotals     map[string]float64
}
