// Package service defines the interfaces between the intelligence engine and
// its collaborators.
package service

import (
	"context"

	"github.com/finsage/finsage/internal/model"
)

// TransactionSource supplies ordered transaction snapshots. Read-only to the
// engine; results are sorted by date descending by convention.
type TransactionSource interface {
	FetchAll(ctx context.Context) ([]model.TransactionRecord, error)
	FetchByCategory(ctx context.Context, category string) ([]model.TransactionRecord, error)
}

// StateStore persists the engine's coarse-grained state: enabled flags, the
// user profile, learning counters, and the correction history. It is the only
// state with lifetime beyond a single process run.
type StateStore interface {
	GetFlag(ctx context.Context, name string) (bool, error)
	SetFlag(ctx context.Context, name string, value bool) error
	GetProfile(ctx context.Context) (*model.UserProfile, error)
	SetProfile(ctx context.Context, profile *model.UserProfile) error
	GetLearningMetrics(ctx context.Context) (*model.LearningMetrics, error)
	SetLearningMetrics(ctx context.Context, metrics *model.LearningMetrics) error
	GetCorrections(ctx context.Context) (map[string]string, error)
	SaveCorrection(ctx context.Context, noteKey, category string) error
}

// Classifier suggests a category for a single transaction. The keyword model
// implements it today; a trained model can be substituted without touching
// the orchestrator.
type Classifier interface {
	SuggestCategory(txn model.TransactionRecord) *model.CategorySuggestion
}

// Forecaster projects future cash flow from a historical snapshot.
type Forecaster interface {
	PredictCashFlow(transactions []model.TransactionRecord, months int) *model.CashFlowPrediction
}

// Scorer assigns an anomaly decision to a single transaction.
type Scorer interface {
	DetectAnomaly(txn model.TransactionRecord) bool
}
