package model

// AnomalyAnalysis explains why a transaction was flagged as anomalous.
// Severity is the maximum of the per-reason severities, never their sum.
type AnomalyAnalysis struct {
	Recommendation string
	Reasons        []string
	SeverityScore  float64
}

// RiskLevel buckets a fraud risk score.
type RiskLevel string

const (
	// RiskLow is a score below 0.3.
	RiskLow RiskLevel = "low"
	// RiskMedium is a score in [0.3, 0.6).
	RiskMedium RiskLevel = "medium"
	// RiskHigh is a score of 0.6 or above.
	RiskHigh RiskLevel = "high"
)

// FraudRiskAssessment aggregates independent suspicion factors. The score is
// the clamped sum of the triggered factor weights.
type FraudRiskAssessment struct {
	RiskLevel   RiskLevel
	RiskFactors []string
	RiskScore   float64
}

// DeviationType classifies a behavioral drift signal.
type DeviationType string

const (
	// DeviationUnusualSpending marks amounts far from the category baseline.
	DeviationUnusualSpending DeviationType = "unusualSpending"
	// DeviationFrequencyChange marks a shift in transaction cadence.
	DeviationFrequencyChange DeviationType = "frequencyChange"
	// DeviationCategoryShift marks spend moving between categories.
	DeviationCategoryShift DeviationType = "categoryShift"
)

// BehaviorDeviation is one aggregated drift signal across a transaction set.
type BehaviorDeviation struct {
	Type              DeviationType
	Description       string
	SignificanceScore float64
}

// BehaviorDeviationAnalysis reports all drift signals found in one pass.
type BehaviorDeviationAnalysis struct {
	Deviations []BehaviorDeviation
}
