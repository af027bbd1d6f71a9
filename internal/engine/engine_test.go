package engine

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finsage/finsage/internal/cache"
	"github.com/finsage/finsage/internal/common"
	"github.com/finsage/finsage/internal/config"
	"github.com/finsage/finsage/internal/learning"
	"github.com/finsage/finsage/internal/model"
	"github.com/finsage/finsage/internal/storage"
)

// Wednesday afternoon, inside working hours.
var midweekAfternoon = time.Date(2024, time.January, 10, 14, 0, 0, 0, time.UTC)

// mixedHistory is twelve transactions: six tightly clustered business
// expenses around $200 and six personal expenses around $50.
func mixedHistory() []model.TransactionRecord {
	business := []float64{195, 200, 205, 198, 202, 200}
	personal := []float64{45, 55, 48, 60, 40, 52}

	var records []model.TransactionRecord
	for i, amount := range business {
		records = append(records, model.TransactionRecord{
			ID:       fmt.Sprintf("biz-%d", i),
			Date:     midweekAfternoon.AddDate(0, 0, i*7),
			Amount:   amount,
			Category: "Business",
			Note:     fmt.Sprintf("client invoice %d", i),
		})
	}
	for i, amount := range personal {
		records = append(records, model.TransactionRecord{
			ID:       fmt.Sprintf("personal-%d", i),
			Date:     midweekAfternoon.AddDate(0, 0, i*7+2),
			Amount:   amount,
			Category: "Personal",
			Note:     fmt.Sprintf("household purchase %d", i),
		})
	}
	return records
}

func newTestEngine(t *testing.T, history []model.TransactionRecord) *IntelligenceEngine {
	t.Helper()
	ctx := context.Background()

	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	if len(history) > 0 {
		saved, err := store.SaveTransactions(ctx, history)
		require.NoError(t, err)
		require.Equal(t, len(history), saved)
	}

	eng := New(store, store, cache.NewIntelligenceCache(time.Hour, 100), config.Default())
	require.NoError(t, eng.InitializeModels(ctx))
	return eng
}

func TestOperationsBeforeInitialize(t *testing.T) {
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(context.Background()))

	eng := New(store, store, cache.NewIntelligenceCache(time.Hour, 100), config.Default())

	assert.Nil(t, eng.RecognizeExpensePatterns(context.Background()))
	assert.Nil(t, eng.SuggestCategory(model.TransactionRecord{Note: "coffee"}))
	assert.ErrorIs(t, eng.EnableLearning(context.Background()), common.ErrNotInitialized)
}

func TestRecognizeExpensePatterns(t *testing.T) {
	eng := newTestEngine(t, mixedHistory())

	patterns := eng.RecognizeExpensePatterns(context.Background())
	require.Len(t, patterns, 2)

	byCategory := make(map[string]model.ExpensePattern)
	for _, p := range patterns {
		byCategory[p.Category] = p
	}
	require.Contains(t, byCategory, "Business")
	require.Contains(t, byCategory, "Personal")

	assert.InDelta(t, 0.5, byCategory["Business"].Frequency, 1e-9)
	assert.InDelta(t, 200.0, byCategory["Business"].AverageAmount, 0.01)
	assert.InDelta(t, 50.0, byCategory["Personal"].AverageAmount, 0.01)
	for _, p := range patterns {
		assert.InDelta(t, 0.3, p.Confidence, 1e-9) // 6 of 20 samples
	}
}

func TestRecognizeExpensePatternsIsCachedAndIdempotent(t *testing.T) {
	eng := newTestEngine(t, mixedHistory())

	first := eng.RecognizeExpensePatterns(context.Background())
	second := eng.RecognizeExpensePatterns(context.Background())
	assert.Equal(t, first, second)

	metrics := eng.CachePerformanceMetrics()
	assert.Equal(t, 1, metrics.Hits)
	assert.Equal(t, 1, metrics.Misses)
}

func TestDetectAnomalyOutlier(t *testing.T) {
	eng := newTestEngine(t, mixedHistory())
	require.NoError(t, eng.EnableAnomalyDetection(context.Background()))

	outlier := model.TransactionRecord{
		ID:       "outlier",
		Date:     midweekAfternoon,
		Amount:   4000,
		Category: "Personal",
		Note:     "electronics purchase",
	}
	assert.True(t, eng.DetectAnomaly(outlier))

	analysis := eng.AnalyzeAnomaly(outlier)
	require.NotNil(t, analysis)
	assert.GreaterOrEqual(t, analysis.SeverityScore, 0.7)
	assert.NotEmpty(t, analysis.Reasons)

	ordinary := model.TransactionRecord{
		ID:       "ordinary",
		Date:     midweekAfternoon,
		Amount:   55,
		Category: "Personal",
		Note:     "household purchase",
	}
	assert.False(t, eng.DetectAnomaly(ordinary))
	assert.Nil(t, eng.AnalyzeAnomaly(ordinary))
}

func TestDetectAnomalyDisabledReportsFalse(t *testing.T) {
	eng := newTestEngine(t, mixedHistory())

	assert.False(t, eng.DetectAnomaly(model.TransactionRecord{
		Date: midweekAfternoon, Amount: 4000, Category: "Personal",
	}))
}

func TestSuggestCategoryWorkingHours(t *testing.T) {
	eng := newTestEngine(t, mixedHistory())

	meeting := model.TransactionRecord{
		Date:   midweekAfternoon,
		Amount: 120,
		Note:   "office client meeting",
	}
	suggestion := eng.SuggestCategory(meeting)
	require.NotNil(t, suggestion)
	assert.Equal(t, "Business", suggestion.Category)
	assert.GreaterOrEqual(t, suggestion.Confidence, 0.8)

	meeting.Date = time.Date(2024, time.January, 10, 23, 30, 0, 0, time.UTC)
	lateNight := eng.SuggestCategory(meeting)
	require.NotNil(t, lateNight)
	assert.Less(t, lateNight.Confidence, 0.8)
}

func TestSuggestSplitAllocationSumsToOne(t *testing.T) {
	eng := newTestEngine(t, mixedHistory())

	for _, note := range []string{
		"client dinner with family",
		"office supplies",
		"team lunch meeting",
		"weekend groceries",
	} {
		splits := eng.SuggestSplitAllocation(model.TransactionRecord{
			Date: midweekAfternoon, Amount: 250, Note: note,
		})
		require.NotEmpty(t, splits, "note %q", note)

		var total float64
		for _, s := range splits {
			total += s.Percentage
		}
		assert.InDelta(t, 1.0, total, 1e-6, "note %q", note)
	}
}

func TestPredictCashFlow(t *testing.T) {
	eng := newTestEngine(t, mixedHistory())

	_, err := eng.PredictCashFlow(context.Background(), 0)
	assert.ErrorIs(t, err, common.ErrInvalidArgument)

	// Disabled predictive analytics yields no forecast and no error.
	prediction, err := eng.PredictCashFlow(context.Background(), 3)
	require.NoError(t, err)
	assert.Nil(t, prediction)

	require.NoError(t, eng.EnablePredictiveAnalytics(context.Background()))
	prediction, err = eng.PredictCashFlow(context.Background(), 6)
	require.NoError(t, err)
	require.NotNil(t, prediction)
	require.Len(t, prediction.Predictions, 6)

	for i, monthly := range prediction.Predictions {
		assert.GreaterOrEqual(t, monthly.Confidence, 0.3)
		if i > 0 {
			assert.LessOrEqual(t, monthly.Confidence, prediction.Predictions[i-1].Confidence)
		}
	}
}

func TestIncorporateFeedbackAccumulates(t *testing.T) {
	eng := newTestEngine(t, mixedHistory())
	require.NoError(t, eng.EnableLearning(context.Background()))

	const rounds = 5
	for i := 0; i < rounds; i++ {
		err := eng.IncorporateFeedback(context.Background(), model.UserFeedback{
			Kind:               model.FeedbackCategoryCorrection,
			OriginalPrediction: "Personal",
			CorrectedValue:     "Business",
			Note:               "office client meeting",
			Confidence:         0.9,
		})
		require.NoError(t, err)
	}

	metrics := eng.LearningMetrics()
	assert.Equal(t, rounds, metrics.FeedbackCount)
	assert.InDelta(t, rounds*learning.AccuracyIncrement(), metrics.AccuracyImprovement, 1e-9)

	// The correction dominates keyword scoring on the next suggestion.
	suggestion := eng.SuggestCategory(model.TransactionRecord{
		Date: midweekAfternoon, Amount: 120, Note: "office client meeting",
	})
	require.NotNil(t, suggestion)
	assert.Equal(t, "Business", suggestion.Category)
	assert.InDelta(t, 0.95, suggestion.Confidence, 1e-9)
}

func TestIncorporateFeedbackRejectsUnknownKind(t *testing.T) {
	eng := newTestEngine(t, mixedHistory())
	require.NoError(t, eng.EnableLearning(context.Background()))

	err := eng.IncorporateFeedback(context.Background(), model.UserFeedback{Kind: "sentiment"})
	assert.ErrorIs(t, err, common.ErrInvalidArgument)
	assert.Zero(t, eng.LearningMetrics().FeedbackCount)
}

func TestIncorporateFeedbackDisabledIsNoOp(t *testing.T) {
	eng := newTestEngine(t, mixedHistory())

	err := eng.IncorporateFeedback(context.Background(), model.UserFeedback{
		Kind: model.FeedbackCategoryCorrection, CorrectedValue: "Business", Note: "client lunch",
	})
	require.NoError(t, err)
	assert.Zero(t, eng.LearningMetrics().FeedbackCount)
}

func TestFeedbackInvalidatesCachedPatterns(t *testing.T) {
	eng := newTestEngine(t, mixedHistory())
	require.NoError(t, eng.EnableLearning(context.Background()))

	eng.RecognizeExpensePatterns(context.Background())
	require.NoError(t, eng.IncorporateFeedback(context.Background(), model.UserFeedback{
		Kind: model.FeedbackInsightRating, Confidence: 0.5,
	}))

	// Cache was invalidated, so the next call recomputes (a miss).
	eng.RecognizeExpensePatterns(context.Background())
	metrics := eng.CachePerformanceMetrics()
	assert.Equal(t, 2, metrics.Misses)
}

func TestGenerateFinancialInsights(t *testing.T) {
	eng := newTestEngine(t, mixedHistory())

	assert.Nil(t, eng.GenerateFinancialInsights(context.Background()))

	require.NoError(t, eng.EnableInsightGeneration(context.Background()))
	insights := eng.GenerateFinancialInsights(context.Background())
	require.NotEmpty(t, insights)
	for _, ins := range insights {
		assert.NotEmpty(t, ins.ID)
		assert.NotEmpty(t, ins.Title)
		assert.Greater(t, ins.RelevanceScore, 0.0)
	}

	// Insight generation warms the pattern cache.
	eng.RecognizeExpensePatterns(context.Background())
	assert.Equal(t, 1, eng.CachePerformanceMetrics().Hits)
}

func TestEnabledFlagsSurviveRestart(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	require.NoError(t, store.Migrate(ctx))

	first := New(store, store, cache.NewIntelligenceCache(time.Hour, 100), config.Default())
	require.NoError(t, first.InitializeModels(ctx))
	require.NoError(t, first.EnableLearning(ctx))
	require.NoError(t, first.EnableAnomalyDetection(ctx))
	require.NoError(t, first.IncorporateFeedback(ctx, model.UserFeedback{Kind: model.FeedbackInsightRating}))

	second := New(store, store, cache.NewIntelligenceCache(time.Hour, 100), config.Default())
	require.NoError(t, second.InitializeModels(ctx))

	assert.Equal(t, 1, second.LearningMetrics().FeedbackCount)
	require.NoError(t, second.IncorporateFeedback(ctx, model.UserFeedback{Kind: model.FeedbackInsightRating}))
	assert.Equal(t, 2, second.LearningMetrics().FeedbackCount)
}

func TestSetUserProfilePersists(t *testing.T) {
	eng := newTestEngine(t, mixedHistory())

	profile := &model.UserProfile{Segment: "freelancer", Industry: "software", ExperienceLevel: "intermediate"}
	require.NoError(t, eng.SetUserProfile(context.Background(), profile))
	assert.Equal(t, profile, eng.UserProfile())
}

func TestModelPerformanceMetrics(t *testing.T) {
	eng := newTestEngine(t, mixedHistory())

	metrics := eng.ModelPerformanceMetrics()
	require.NotNil(t, metrics)
	assert.Greater(t, metrics.PatternAccuracy, 0.0)
	assert.Greater(t, metrics.CategorizationAccuracy, 0.0)
	assert.Greater(t, metrics.PredictionAccuracy, 0.0)
}
