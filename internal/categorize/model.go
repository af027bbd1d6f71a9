// Package categorize suggests categories and split allocations for
// transactions using keyword rules, correction history, and contextual
// adjustment.
package categorize

import (
	"crypto/sha256"
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/finsage/finsage/internal/model"
	"github.com/finsage/finsage/internal/stats"
)

const (
	correctionConfidence = 0.95
	contextConfidence    = 0.8

	// Amount-based confidence boosts.
	amountBoostThreshold      = 100.0
	largeAmountBoostThreshold = 1000.0

	adaptiveAccuracyCap = 0.98
)

// Model suggests categories for transactions. Corrections always win over
// keyword scoring. Safe for concurrent use.
type Model struct {
	corrections map[string]string
	accuracy    float64
	mu          sync.RWMutex
}

// NewModel creates a categorization model with an empty correction history.
func NewModel() *Model {
	return &Model{
		corrections: make(map[string]string),
		accuracy:    0.75,
	}
}

// LoadCorrections seeds the correction history, typically from the state
// store at startup.
func (m *Model) LoadCorrections(corrections map[string]string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, category := range corrections {
		m.corrections[key] = category
	}
}

// SuggestCategory returns the best category suggestion for a transaction, or
// nil when nothing scores.
func (m *Model) SuggestCategory(txn model.TransactionRecord) *model.CategorySuggestion {
	suggestion := m.baseSuggestion(txn)
	if suggestion == nil {
		return nil
	}

	// Working-hours override: a "meeting" note during business hours is a
	// business expense regardless of how the keywords scored it.
	if adjusted := applyWorkingHoursRule(txn, suggestion); adjusted != nil {
		return adjusted
	}

	return suggestion
}

// SuggestCategoryWithContext returns a suggestion annotated with the
// contextual signals considered.
func (m *Model) SuggestCategoryWithContext(txn model.TransactionRecord) *model.ContextualCategorySuggestion {
	suggestion := m.SuggestCategory(txn)
	if suggestion == nil {
		return nil
	}

	contextual := &model.ContextualCategorySuggestion{CategorySuggestion: *suggestion}
	if stats.IsWorkingHours(txn.Date) {
		contextual.ContextualFactors = append(contextual.ContextualFactors, "working hours")
	}
	if stats.IsWeekend(txn.Date) {
		contextual.ContextualFactors = append(contextual.ContextualFactors, "weekend")
	}
	if isHolidaySeason(txn) {
		contextual.ContextualFactors = append(contextual.ContextualFactors, "holiday season")
	}
	return contextual
}

// baseSuggestion applies the correction history, keyword table, and amount
// boost, in that priority order.
func (m *Model) baseSuggestion(txn model.TransactionRecord) *model.CategorySuggestion {
	// Corrections always win.
	if category, ok := m.lookupCorrection(txn.Note); ok {
		return &model.CategorySuggestion{
			Category:         category,
			Confidence:       correctionConfidence,
			ReasoningFactors: []string{"matched previous user correction"},
		}
	}

	category, overlap := bestKeywordMatch(txn.Note)
	if category == "" {
		return nil
	}

	suggestion := &model.CategorySuggestion{
		Category:         category,
		Confidence:       overlap,
		ReasoningFactors: []string{fmt.Sprintf("keyword match for %s", category)},
	}

	switch {
	case txn.Amount > largeAmountBoostThreshold:
		suggestion.Confidence = math.Min(0.9, suggestion.Confidence+0.2)
		suggestion.ReasoningFactors = append(suggestion.ReasoningFactors, "large amount")
	case txn.Amount > amountBoostThreshold:
		suggestion.Confidence = math.Min(0.9, suggestion.Confidence+0.1)
		suggestion.ReasoningFactors = append(suggestion.ReasoningFactors, "significant amount")
	}

	return suggestion
}

// RecordUserCorrection stores a correction keyed by the transaction note and
// nudges accuracy. Returns the correction key so callers can persist it.
func (m *Model) RecordUserCorrection(original, corrected, note string) string {
	key := CorrectionKey(note)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.corrections[key] = corrected
	m.accuracy = math.Min(adaptiveAccuracyCap, m.accuracy+0.005)

	return key
}

// AdaptiveUpdate re-tunes the model after feedback has been incorporated.
func (m *Model) AdaptiveUpdate(transactions []model.TransactionRecord) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.accuracy = math.Min(adaptiveAccuracyCap, m.accuracy+0.01)
}

// Accuracy returns the model's self-reported accuracy in [0,1].
func (m *Model) Accuracy() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.accuracy
}

func (m *Model) lookupCorrection(note string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	category, ok := m.corrections[CorrectionKey(note)]
	return category, ok
}

// CorrectionKey derives the stable lookup key for a correction from the full
// normalized note. Hashing the whole note rather than a raw prefix keeps
// unrelated notes that share boilerplate openings from colliding.
func CorrectionKey(note string) string {
	normalized := strings.Join(strings.Fields(strings.ToLower(note)), " ")
	sum := sha256.Sum256([]byte(normalized))
	return fmt.Sprintf("%x", sum)[:16]
}

// bestKeywordMatch scores the note against every category's keyword set and
// returns the best category with its overlap ratio. Ties break
// alphabetically for determinism.
func bestKeywordMatch(note string) (string, float64) {
	categories := make([]string, 0, len(categoryKeywords))
	for category := range categoryKeywords {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var bestCategory string
	var bestScore float64
	for _, category := range categories {
		score := stats.KeywordOverlap(note, categoryKeywords[category])
		if score > bestScore {
			bestCategory = category
			bestScore = score
		}
	}
	return bestCategory, bestScore
}

// applyWorkingHoursRule reassigns or boosts a suggestion when a meeting note
// lands inside working hours. Returns nil when the rule does not apply.
func applyWorkingHoursRule(txn model.TransactionRecord, suggestion *model.CategorySuggestion) *model.CategorySuggestion {
	if !stats.IsWorkingHours(txn.Date) {
		return nil
	}
	if !strings.Contains(strings.ToLower(txn.Note), "meeting") {
		return nil
	}

	if suggestion.Category == "Personal" {
		return &model.CategorySuggestion{
			Category:         "Business",
			Confidence:       contextConfidence,
			ReasoningFactors: append(suggestion.ReasoningFactors, "meeting during working hours"),
		}
	}

	if suggestion.Category == "Business" && suggestion.Confidence < contextConfidence {
		boosted := *suggestion
		boosted.Confidence = contextConfidence
		boosted.ReasoningFactors = append(boosted.ReasoningFactors, "meeting during working hours")
		return &boosted
	}

	return nil
}

// isHolidaySeason marks December transactions; gift spending spikes there.
func isHolidaySeason(txn model.TransactionRecord) bool {
	return txn.Date.Month() == 12
}
