// Package predict forecasts cash flow and proposes budget and tax
// optimizations from transaction history.
package predict

import (
	"math"
	"sort"
	"sync"
	"time"

	"github.com/finsage/finsage/internal/model"
	"github.com/finsage/finsage/internal/stats"
)

const (
	// Confidence decays linearly with the forecast horizon and never drops
	// below the floor.
	confidenceDecayRate  = 0.08
	confidenceFloor      = 0.3
	seasonalMultiplierLo = 0.5
	seasonalMultiplierHi = 1.5

	adaptiveAccuracyCap = 0.98
)

// Engine produces forecasts and optimization suggestions. Safe for
// concurrent use.
type Engine struct {
	accuracy float64
	mu       sync.RWMutex
}

// NewEngine creates a predictive analytics engine.
func NewEngine() *Engine {
	return &Engine{accuracy: 0.7}
}

// AdaptiveUpdate re-tunes the engine after feedback has been incorporated.
func (e *Engine) AdaptiveUpdate(transactions []model.TransactionRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.accuracy = math.Min(adaptiveAccuracyCap, e.accuracy+0.01)
}

// Accuracy returns the engine's self-reported accuracy in [0,1].
func (e *Engine) Accuracy() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.accuracy
}

// PredictCashFlow forecasts monthly income, expenses, and net cash flow.
// Negative amounts are income. Returns nil when there is no history or the
// horizon is not positive.
func (e *Engine) PredictCashFlow(transactions []model.TransactionRecord, months int) *model.CashFlowPrediction {
	if len(transactions) == 0 || months <= 0 {
		return nil
	}

	var incomeTotal, expenseTotal float64
	for _, txn := range transactions {
		if txn.IsIncome() {
			incomeTotal += -txn.Amount
		} else {
			expenseTotal += txn.Amount
		}
	}
	monthlyIncome := incomeTotal / 12
	monthlyExpenses := expenseTotal / 12

	multipliers := seasonalMultipliers(transactions)

	prediction := &model.CashFlowPrediction{}
	start := time.Now()
	for i := 1; i <= months; i++ {
		target := start.AddDate(0, i, 0)
		multiplier := multipliers[target.Month()]

		income := monthlyIncome
		expenses := monthlyExpenses * multiplier
		confidence := math.Max(confidenceFloor, 1.0-confidenceDecayRate*float64(i))

		prediction.Predictions = append(prediction.Predictions, model.MonthlyPrediction{
			Month:            target.Format("2006-01"),
			ExpectedIncome:   income,
			ExpectedExpenses: expenses,
			NetCashFlow:      income - expenses,
			Confidence:       confidence,
		})
	}

	return prediction
}

// ProjectExpenses forecasts per-category spend over the horizon. Returns nil
// for an empty history or non-positive horizon.
func (e *Engine) ProjectExpenses(transactions []model.TransactionRecord, months int) *model.ExpenseProjection {
	if len(transactions) == 0 || months <= 0 {
		return nil
	}

	byCategory := make(map[string][]model.TransactionRecord)
	for _, txn := range transactions {
		if txn.IsIncome() {
			continue
		}
		byCategory[txn.Category] = append(byCategory[txn.Category], txn)
	}
	if len(byCategory) == 0 {
		return nil
	}

	categories := make([]string, 0, len(byCategory))
	for category := range byCategory {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	projection := &model.ExpenseProjection{Months: months}
	for _, category := range categories {
		group := byCategory[category]

		var total float64
		for _, txn := range group {
			total += txn.Amount
		}
		monthly := total / 12

		projection.Categories = append(projection.Categories, model.CategoryProjection{
			Category:       category,
			MonthlyAverage: monthly,
			ProjectedTotal: monthly * float64(months),
			Trend:          trendFor(group),
			Confidence:     math.Max(confidenceFloor, 1.0-confidenceDecayRate*float64(months)),
		})
		projection.TotalAmount += monthly * float64(months)
	}

	return projection
}

// seasonalMultipliers normalizes each calendar month's historical spend
// against the overall monthly average, clamped to a conservative band.
func seasonalMultipliers(transactions []model.TransactionRecord) map[time.Month]float64 {
	totals := make(map[time.Month]float64)
	var expenseTotal float64
	monthsSeen := make(map[time.Month]bool)

	for _, txn := range transactions {
		if txn.IsIncome() {
			continue
		}
		totals[txn.Date.Month()] += txn.Amount
		expenseTotal += txn.Amount
		monthsSeen[txn.Date.Month()] = true
	}

	multipliers := make(map[time.Month]float64, 12)
	for m := time.January; m <= time.December; m++ {
		multipliers[m] = 1.0
	}

	if len(monthsSeen) == 0 || expenseTotal == 0 {
		return multipliers
	}

	average := expenseTotal / float64(len(monthsSeen))
	for m, total := range totals {
		multipliers[m] = stats.Clamp(total/average, seasonalMultiplierLo, seasonalMultiplierHi)
	}
	return multipliers
}

// trendFor compares the newest half of a category's transactions against the
// oldest half.
func trendFor(group []model.TransactionRecord) string {
	if len(group) < 4 {
		return "stable"
	}

	sorted := make([]model.TransactionRecord, len(group))
	copy(sorted, group)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Date.Before(sorted[j].Date) })

	half := len(sorted) / 2
	var older, newer float64
	for i, txn := range sorted {
		if i < half {
			older += txn.Amount
		} else {
			newer += txn.Amount
		}
	}
	olderAvg := older / float64(half)
	newerAvg := newer / float64(len(sorted)-half)

	switch {
	case newerAvg > olderAvg*1.2:
		return "increasing"
	case newerAvg < olderAvg*0.8:
		return "decreasing"
	default:
		return "stable"
	}
}
