package anomaly

import (
	"math"
	"strings"

	"github.com/finsage/finsage/internal/model"
	"github.com/finsage/finsage/internal/stats"
)

// Fraud factor weights. Risk is the clamped sum of triggered weights; unlike
// anomaly severity, independent suspicions accumulate.
const (
	weightVeryLargeAmount = 0.4
	weightLargeAmount     = 0.2
	weightMissingNote     = 0.15
	weightSuspiciousNote  = 0.25
	weightMissingCategory = 0.1
	weightOffHours        = 0.15
	weightRoundAmount     = 0.1
)

var suspiciousNoteKeywords = []string{"urgent", "verify", "wire transfer", "bitcoin", "lottery", "prize"}

// AssessFraudRisk scores a transaction's fraud risk by summing independent
// factor weights, clamped to [0,1].
func (d *Detector) AssessFraudRisk(txn model.TransactionRecord) *model.FraudRiskAssessment {
	var score float64
	var factors []string

	switch {
	case txn.Amount > 10000:
		score += weightVeryLargeAmount
		factors = append(factors, "very large amount")
	case txn.Amount > 5000:
		score += weightLargeAmount
		factors = append(factors, "large amount")
	}

	if strings.TrimSpace(txn.Note) == "" {
		score += weightMissingNote
		factors = append(factors, "missing description")
	} else if stats.ContainsAny(txn.Note, suspiciousNoteKeywords) {
		score += weightSuspiciousNote
		factors = append(factors, "suspicious keywords in description")
	}

	if strings.TrimSpace(txn.Category) == "" {
		score += weightMissingCategory
		factors = append(factors, "missing category")
	}

	if stats.IsOffHours(txn.Date) {
		score += weightOffHours
		factors = append(factors, "off-hours timing")
	}

	if txn.Amount >= 1000 && txn.Amount == math.Trunc(txn.Amount) && math.Mod(txn.Amount, 100) == 0 {
		score += weightRoundAmount
		factors = append(factors, "round amount for a large transaction")
	}

	score = stats.Clamp(score, 0, 1)

	return &model.FraudRiskAssessment{
		RiskScore:   score,
		RiskLevel:   riskLevelFor(score),
		RiskFactors: factors,
	}
}

func riskLevelFor(score float64) model.RiskLevel {
	switch {
	case score >= 0.6:
		return model.RiskHigh
	case score >= 0.3:
		return model.RiskMedium
	default:
		return model.RiskLow
	}
}
