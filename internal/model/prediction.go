package model

// MonthlyPrediction is one month of a cash-flow forecast.
type MonthlyPrediction struct {
	Month            string
	ExpectedIncome   float64
	ExpectedExpenses float64
	NetCashFlow      float64
	Confidence       float64
}

// CashFlowPrediction is an ordered forecast. Confidence is monotonically
// non-increasing as the month index grows and never drops below 0.3.
type CashFlowPrediction struct {
	Predictions []MonthlyPrediction
}

// CategoryProjection forecasts spend for one category.
type CategoryProjection struct {
	Category       string
	MonthlyAverage float64
	ProjectedTotal float64
	Trend          string
	Confidence     float64
}

// ExpenseProjection forecasts category expenses over a horizon.
type ExpenseProjection struct {
	Months      int
	Categories  []CategoryProjection
	TotalAmount float64
}

// BudgetOptimization proposes a spending reduction for one category.
type BudgetOptimization struct {
	Category            string
	Description         string
	CurrentSpending     float64
	RecommendedSpending float64
	PotentialSavings    float64
	FeasibilityScore    float64
}

// TaxOptimizationRecommendation proposes a tax-planning action.
type TaxOptimizationRecommendation struct {
	Strategy         string
	Description      string
	PotentialSavings float64
	Confidence       float64
}
