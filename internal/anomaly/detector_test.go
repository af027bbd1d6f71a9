package anomaly

import (
	"testing"
	"time"

	"github.com/finsage/finsage/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// 2024-01-10 is a Wednesday.
var (
	daytime   = time.Date(2024, 1, 10, 14, 0, 0, 0, time.UTC)
	nighttime = time.Date(2024, 1, 10, 3, 0, 0, 0, time.UTC)
)

func record(date time.Time, amount float64, category, note string) model.TransactionRecord {
	return model.TransactionRecord{Date: date, Amount: amount, Category: category, Note: note}
}

// steadyBaseline trains the detector on an unremarkable personal history.
func steadyBaseline(d *Detector) {
	var history []model.TransactionRecord
	amounts := []float64{40, 45, 50, 55, 60, 50}
	for i, amount := range amounts {
		history = append(history, record(daytime.AddDate(0, 0, i), amount, "Personal", "usual"))
	}
	d.SetBaselines(history)
}

func TestDetectAnomalyAmountBand(t *testing.T) {
	d := NewDetector(DefaultConfig())

	assert.True(t, d.DetectAnomaly(record(daytime, 2500, "Shopping", "tv")))
	assert.True(t, d.DetectAnomaly(record(daytime, 0.001, "Shopping", "micro")))
	assert.False(t, d.DetectAnomaly(record(daytime, 50, "Shopping", "shirt")))
}

func TestDetectAnomalyPattern(t *testing.T) {
	d := NewDetector(DefaultConfig())
	steadyBaseline(d)

	// Far outside the Personal baseline.
	assert.True(t, d.DetectAnomaly(record(daytime, 1500, "Personal", "spree")))
	// Inside it.
	assert.False(t, d.DetectAnomaly(record(daytime, 55, "Personal", "usual")))
}

func TestDetectAnomalyContextual(t *testing.T) {
	d := NewDetector(DefaultConfig())

	assert.True(t, d.DetectAnomaly(record(nighttime, 1200, "Shopping", "late night")))
	assert.False(t, d.DetectAnomaly(record(daytime, 1200, "Shopping", "daytime")))

	assert.True(t, d.DetectAnomaly(record(daytime, 60, "Coffee", "round for the office")))
	assert.True(t, d.DetectAnomaly(record(daytime, 600, "Groceries", "bulk")))
	assert.True(t, d.DetectAnomaly(record(daytime, 50, "Investment", "tiny trade")))
	assert.False(t, d.DetectAnomaly(record(daytime, 5, "Coffee", "flat white")))
}

func TestAnalyzeAnomalySeverityIsMaxNotSum(t *testing.T) {
	d := NewDetector(DefaultConfig())
	steadyBaseline(d)

	// Triggers amount band (>5000 -> 0.9), pattern (0.9 band), and
	// contextual (0.6) together.
	analysis := d.AnalyzeAnomaly(record(nighttime, 6000, "Personal", "spree"))
	require.NotNil(t, analysis)
	require.GreaterOrEqual(t, len(analysis.Reasons), 2)

	// Max of the triggered severities, never their sum.
	assert.InDelta(t, 0.9, analysis.SeverityScore, 1e-9)
	assert.NotEmpty(t, analysis.Recommendation)
}

func TestAnalyzeAnomalySeverityBands(t *testing.T) {
	d := NewDetector(DefaultConfig())

	over := d.AnalyzeAnomaly(record(daytime, 2500, "Shopping", "tv"))
	require.NotNil(t, over)
	assert.InDelta(t, 0.7, over.SeverityScore, 1e-9)

	micro := d.AnalyzeAnomaly(record(daytime, 0.001, "Shopping", "micro"))
	require.NotNil(t, micro)
	assert.InDelta(t, 0.8, micro.SeverityScore, 1e-9)

	contextualOnly := d.AnalyzeAnomaly(record(daytime, 60, "Coffee", "round"))
	require.NotNil(t, contextualOnly)
	assert.InDelta(t, 0.6, contextualOnly.SeverityScore, 1e-9)
}

func TestAnalyzeAnomalyNormalTransaction(t *testing.T) {
	d := NewDetector(DefaultConfig())
	assert.Nil(t, d.AnalyzeAnomaly(record(daytime, 50, "Shopping", "shirt")))
}

func TestAssessFraudRiskSumsFactors(t *testing.T) {
	d := NewDetector(DefaultConfig())

	// Large amount (0.2) + missing note (0.15) + off-hours (0.15) + round
	// amount (0.1) = 0.6 -> high.
	assessment := d.AssessFraudRisk(record(nighttime, 6000, "Shopping", ""))
	require.NotNil(t, assessment)
	assert.InDelta(t, 0.6, assessment.RiskScore, 1e-9)
	assert.Equal(t, model.RiskHigh, assessment.RiskLevel)
	assert.Len(t, assessment.RiskFactors, 4)
}

func TestAssessFraudRiskClamped(t *testing.T) {
	d := NewDetector(DefaultConfig())

	// Very large (0.4) + suspicious note (0.25) + missing category (0.1) +
	// off-hours (0.15) + round amount (0.1) = 1.0 exactly at the clamp.
	assessment := d.AssessFraudRisk(record(nighttime, 20000, "", "urgent wire transfer to claim prize"))
	require.NotNil(t, assessment)
	assert.InDelta(t, 1.0, assessment.RiskScore, 1e-9)
	assert.Equal(t, model.RiskHigh, assessment.RiskLevel)
}

func TestAssessFraudRiskLow(t *testing.T) {
	d := NewDetector(DefaultConfig())

	assessment := d.AssessFraudRisk(record(daytime, 18.40, "Dining", "lunch"))
	require.NotNil(t, assessment)
	assert.Equal(t, model.RiskLow, assessment.RiskLevel)
	assert.Empty(t, assessment.RiskFactors)
}

func TestAnalyzeBehaviorDeviations(t *testing.T) {
	d := NewDetector(DefaultConfig())

	var transactions []model.TransactionRecord
	// Stable groceries with one wild outlier.
	for i := 0; i < 8; i++ {
		transactions = append(transactions, record(daytime.AddDate(0, 0, i), 50, "Groceries", "food"))
	}
	transactions = append(transactions, record(daytime.AddDate(0, 0, 9), 800, "Groceries", "splurge"))

	analysis := d.AnalyzeBehaviorDeviations(transactions)
	require.NotNil(t, analysis)
	require.NotEmpty(t, analysis.Deviations)

	var found *model.BehaviorDeviation
	for i := range analysis.Deviations {
		if analysis.Deviations[i].Type == model.DeviationUnusualSpending {
			found = &analysis.Deviations[i]
		}
	}
	require.NotNil(t, found)
	assert.Greater(t, found.SignificanceScore, 0.0)
	assert.LessOrEqual(t, found.SignificanceScore, 1.0)
}

func TestAnalyzeBehaviorDeviationsEmpty(t *testing.T) {
	d := NewDetector(DefaultConfig())
	assert.Nil(t, d.AnalyzeBehaviorDeviations(nil))
}
