// Package anomaly flags statistically and contextually unusual transactions,
// assesses fraud risk, and analyzes behavioral drift.
package anomaly

import (
	"fmt"
	"math"
	"sync"

	"github.com/finsage/finsage/internal/model"
	"github.com/finsage/finsage/internal/stats"
)

// Config holds the detector's tuning thresholds.
type Config struct {
	MinimumAmount              float64
	AmountThreshold            float64
	BehaviorDeviationThreshold float64
}

// DefaultConfig returns the default detection thresholds.
func DefaultConfig() Config {
	return Config{
		MinimumAmount:              0.01,
		AmountThreshold:            2000,
		BehaviorDeviationThreshold: 2.0,
	}
}

// baseline is the historical mean/stddev for a category.
type baseline struct {
	mean   float64
	stddev float64
}

// Detector flags anomalous transactions against learned category baselines.
// Safe for concurrent use.
type Detector struct {
	baselines map[string]baseline
	global    baseline
	config    Config
	mu        sync.RWMutex
}

// NewDetector creates a detector with the given thresholds.
func NewDetector(config Config) *Detector {
	return &Detector{
		baselines: make(map[string]baseline),
		config:    config,
	}
}

// SetBaselines recomputes the per-category and global amount baselines from
// a transaction set.
func (d *Detector) SetBaselines(transactions []model.TransactionRecord) {
	byCategory := make(map[string][]float64)
	var all []float64
	for _, txn := range transactions {
		byCategory[txn.Category] = append(byCategory[txn.Category], txn.Amount)
		all = append(all, txn.Amount)
	}

	baselines := make(map[string]baseline, len(byCategory))
	for category, amounts := range byCategory {
		baselines[category] = baseline{mean: stats.Mean(amounts), stddev: stats.StdDev(amounts)}
	}

	d.mu.Lock()
	d.baselines = baselines
	d.global = baseline{mean: stats.Mean(all), stddev: stats.StdDev(all)}
	d.mu.Unlock()
}

// DetectAnomaly reports whether any of the independent checks fires.
func (d *Detector) DetectAnomaly(txn model.TransactionRecord) bool {
	return d.isAmountAnomaly(txn) || d.isPatternAnomaly(txn) || d.isContextualAnomaly(txn)
}

// AnalyzeAnomaly explains an anomalous transaction, or returns nil when the
// transaction is normal. Severity is the maximum across triggered reasons;
// summing would compound unrelated signals.
func (d *Detector) AnalyzeAnomaly(txn model.TransactionRecord) *model.AnomalyAnalysis {
	var reasons []string
	var severity float64

	if d.isAmountAnomaly(txn) {
		if txn.Amount < d.config.MinimumAmount {
			reasons = append(reasons, fmt.Sprintf("amount %.2f below minimum %.2f", txn.Amount, d.config.MinimumAmount))
			severity = math.Max(severity, 0.8)
		} else {
			reasons = append(reasons, fmt.Sprintf("amount %.2f above threshold %.2f", txn.Amount, d.config.AmountThreshold))
			if txn.Amount > 5000 {
				severity = math.Max(severity, 0.9)
			} else {
				severity = math.Max(severity, 0.7)
			}
		}
	}

	if d.isPatternAnomaly(txn) {
		mean, _ := d.baselineFor(txn.Category)
		reasons = append(reasons, fmt.Sprintf("amount deviates from %s baseline of %.2f", txn.Category, mean))
		if txn.Amount > 5000 {
			severity = math.Max(severity, 0.9)
		} else {
			severity = math.Max(severity, 0.7)
		}
	}

	if d.isContextualAnomaly(txn) {
		reasons = append(reasons, "unusual context for this category or time")
		severity = math.Max(severity, 0.6)
	}

	if len(reasons) == 0 {
		return nil
	}

	return &model.AnomalyAnalysis{
		SeverityScore:  severity,
		Reasons:        reasons,
		Recommendation: recommendationFor(severity),
	}
}

// isAmountAnomaly checks the amount against the absolute band.
func (d *Detector) isAmountAnomaly(txn model.TransactionRecord) bool {
	return txn.Amount < d.config.MinimumAmount || txn.Amount > d.config.AmountThreshold
}

// isPatternAnomaly checks the z-score against the category baseline, falling
// back to the global baseline when the category is unknown.
func (d *Detector) isPatternAnomaly(txn model.TransactionRecord) bool {
	mean, stddev := d.baselineFor(txn.Category)
	if stddev == 0 {
		return false
	}
	return math.Abs(stats.ZScore(txn.Amount, mean, stddev)) > d.config.BehaviorDeviationThreshold
}

// isContextualAnomaly applies fixed category/amount and timing heuristics.
func (d *Detector) isContextualAnomaly(txn model.TransactionRecord) bool {
	if txn.Amount > 1000 && (stats.IsOffHours(txn.Date) || stats.IsWeekend(txn.Date)) {
		return true
	}

	switch txn.Category {
	case "Coffee":
		return txn.Amount > 50
	case "Groceries":
		return txn.Amount > 500
	case "Investment":
		return txn.Amount > 0 && txn.Amount < 100
	}
	return false
}

func (d *Detector) baselineFor(category string) (mean, stddev float64) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if b, ok := d.baselines[category]; ok && b.stddev > 0 {
		return b.mean, b.stddev
	}
	return d.global.mean, d.global.stddev
}

func recommendationFor(severity float64) string {
	switch {
	case severity >= 0.9:
		return "Verify this transaction immediately and consider contacting your bank."
	case severity >= 0.7:
		return "Review this transaction against your records."
	default:
		return "Keep an eye on similar transactions."
	}
}
