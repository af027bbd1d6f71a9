// Package recur mines recurring category, seasonal, and cadence patterns
// from transaction history.
package recur

import (
	"fmt"
	"log/slog"
	"math"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/finsage/finsage/internal/model"
	"github.com/finsage/finsage/internal/stats"
)

const (
	// minGroupSize is the smallest category group worth reporting; smaller
	// groups are singleton noise.
	minGroupSize = 3

	// Recurring detection accepts mean inter-occurrence gaps inside this
	// window (a monthly-cadence heuristic).
	minRecurringGapDays = 20.0
	maxRecurringGapDays = 40.0

	trainAccuracyCap    = 0.95
	adaptiveAccuracyCap = 0.98
)

// Engine mines expense patterns. Safe for concurrent use.
type Engine struct {
	accuracy float64
	mu       sync.RWMutex
}

// NewEngine creates a pattern recognition engine.
func NewEngine() *Engine {
	return &Engine{accuracy: 0.7}
}

// Train absorbs a transaction set and bumps the self-reported accuracy.
// The accuracy is a proxy metric, not a held-out evaluation.
func (e *Engine) Train(transactions []model.TransactionRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.accuracy = math.Min(trainAccuracyCap, e.accuracy+0.02)
	slog.Debug("Pattern engine trained",
		"transactions", len(transactions),
		"accuracy", e.accuracy)
}

// AdaptiveUpdate re-tunes the engine after feedback has been incorporated.
func (e *Engine) AdaptiveUpdate(transactions []model.TransactionRecord) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.accuracy = math.Min(adaptiveAccuracyCap, e.accuracy+0.01)
	slog.Debug("Pattern engine adapted",
		"transactions", len(transactions),
		"accuracy", e.accuracy)
}

// Accuracy returns the engine's self-reported accuracy in [0,1].
func (e *Engine) Accuracy() float64 {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.accuracy
}

// RecognizePatterns groups transactions by category and returns a pattern
// per category with at least minGroupSize members. Confidence scales with
// group size, capped at 0.9.
func (e *Engine) RecognizePatterns(transactions []model.TransactionRecord) []model.ExpensePattern {
	if len(transactions) == 0 {
		return nil
	}

	groups := make(map[string][]model.TransactionRecord)
	for _, txn := range transactions {
		groups[txn.Category] = append(groups[txn.Category], txn)
	}

	patterns := make([]model.ExpensePattern, 0, len(groups))
	for category, group := range groups {
		if len(group) < minGroupSize {
			continue
		}

		amounts := make([]float64, len(group))
		for i, txn := range group {
			amounts[i] = txn.Amount
		}

		patterns = append(patterns, model.ExpensePattern{
			Category:      category,
			Frequency:     float64(len(group)) / float64(len(transactions)),
			AverageAmount: stats.Mean(amounts),
			Confidence:    math.Min(0.9, float64(len(group))/20.0),
		})
	}

	// Stable order for deterministic output.
	sort.Slice(patterns, func(i, j int) bool {
		if patterns[i].Frequency != patterns[j].Frequency {
			return patterns[i].Frequency > patterns[j].Frequency
		}
		return patterns[i].Category < patterns[j].Category
	})

	return patterns
}

// AnalyzeSeasonalPatterns aggregates spending by calendar month.
func (e *Engine) AnalyzeSeasonalPatterns(transactions []model.TransactionRecord) *model.SeasonalPatternAnalysis {
	totals := make(map[string]*model.PeriodSummary)
	for _, txn := range transactions {
		key := stats.MonthKey(txn.Date)
		summary, ok := totals[key]
		if !ok {
			summary = &model.PeriodSummary{Period: key}
			totals[key] = summary
		}
		summary.TotalAmount += txn.Amount
		summary.TransactionCount++
	}

	analysis := &model.SeasonalPatternAnalysis{}
	for m := time.January; m <= time.December; m++ {
		if summary, ok := totals[m.String()]; ok {
			analysis.Months = append(analysis.Months, *summary)
		}
	}
	return analysis
}

// AnalyzeQuarterlyPatterns aggregates spending by calendar quarter.
func (e *Engine) AnalyzeQuarterlyPatterns(transactions []model.TransactionRecord) *model.QuarterlySpendingAnalysis {
	totals := make(map[string]*model.PeriodSummary)
	for _, txn := range transactions {
		key := stats.Quarter(txn.Date)
		summary, ok := totals[key]
		if !ok {
			summary = &model.PeriodSummary{Period: key}
			totals[key] = summary
		}
		summary.TotalAmount += txn.Amount
		summary.TransactionCount++
	}

	analysis := &model.QuarterlySpendingAnalysis{}
	for _, q := range []string{"Q1", "Q2", "Q3", "Q4"} {
		if summary, ok := totals[q]; ok {
			analysis.Quarters = append(analysis.Quarters, *summary)
		}
	}
	return analysis
}

// DetectRecurringTransactions finds repeating charges by grouping on rounded
// amount and note prefix, then checking the cadence of each group.
func (e *Engine) DetectRecurringTransactions(transactions []model.TransactionRecord) []model.RecurringTransaction {
	groups := make(map[string][]model.TransactionRecord)
	for _, txn := range transactions {
		key := recurringKey(txn)
		groups[key] = append(groups[key], txn)
	}

	var recurring []model.RecurringTransaction
	for _, group := range groups {
		if len(group) < minGroupSize {
			continue
		}

		sort.Slice(group, func(i, j int) bool {
			return group[i].Date.Before(group[j].Date)
		})

		gaps := make([]float64, 0, len(group)-1)
		for i := 1; i < len(group); i++ {
			gaps = append(gaps, group[i].Date.Sub(group[i-1].Date).Hours()/24)
		}

		meanGap := stats.Mean(gaps)
		if meanGap < minRecurringGapDays || meanGap > maxRecurringGapDays {
			continue
		}

		amounts := make([]float64, len(group))
		for i, txn := range group {
			amounts[i] = txn.Amount
		}
		avg := stats.Mean(amounts)

		recurring = append(recurring, model.RecurringTransaction{
			Type:          classifyRecurring(avg),
			Description:   notePrefix(group[0].Note),
			Amount:        avg,
			FrequencyDays: meanGap,
			Confidence:    math.Min(0.9, float64(len(group))/10.0),
		})
	}

	sort.Slice(recurring, func(i, j int) bool {
		if recurring[i].Confidence != recurring[j].Confidence {
			return recurring[i].Confidence > recurring[j].Confidence
		}
		return recurring[i].Description < recurring[j].Description
	})

	return recurring
}

// AnalyzeSpendingHabits summarizes expense behavior across the set. Income
// rows are excluded from the totals.
func (e *Engine) AnalyzeSpendingHabits(transactions []model.TransactionRecord) *model.SpendingHabits {
	if len(transactions) == 0 {
		return nil
	}

	totals := make(map[string]float64)
	var expenseSum float64
	var expenseCount, weekendCount int
	earliest, latest := transactions[0].Date, transactions[0].Date

	for _, txn := range transactions {
		if txn.Date.Before(earliest) {
			earliest = txn.Date
		}
		if txn.Date.After(latest) {
			latest = txn.Date
		}
		if txn.IsIncome() {
			continue
		}
		totals[txn.Category] += txn.Amount
		expenseSum += txn.Amount
		expenseCount++
		if stats.IsWeekend(txn.Date) {
			weekendCount++
		}
	}

	if expenseCount == 0 {
		return nil
	}

	habits := &model.SpendingHabits{
		AverageTransaction: expenseSum / float64(expenseCount),
		WeekendShare:       float64(weekendCount) / float64(expenseCount),
		CategoryTotals:     totals,
	}

	for category, total := range totals {
		if total > habits.TopCategoryShare*expenseSum ||
			(total == habits.TopCategoryShare*expenseSum && category < habits.TopCategory) {
			habits.TopCategory = category
			habits.TopCategoryShare = total / expenseSum
		}
	}

	days := latest.Sub(earliest).Hours()/24 + 1
	habits.TransactionsPerDay = float64(expenseCount) / days

	return habits
}

// recurringKey groups candidate recurring transactions by rounded amount and
// note prefix.
func recurringKey(txn model.TransactionRecord) string {
	return fmt.Sprintf("%.0f:%s", math.Round(txn.Amount), notePrefix(txn.Note))
}

// notePrefix normalizes the leading portion of a note for grouping.
func notePrefix(note string) string {
	normalized := strings.ToLower(strings.TrimSpace(note))
	if len(normalized) > 12 {
		normalized = normalized[:12]
	}
	return normalized
}

// classifyRecurring buckets a recurring amount into a type. Negative amounts
// are income and therefore salary.
func classifyRecurring(amount float64) model.RecurringType {
	switch {
	case amount < 0:
		return model.RecurringSalary
	case amount < 100:
		return model.RecurringSubscription
	default:
		return model.RecurringBill
	}
}
