// Package engine wires the analytical sub-engines behind a single
// intelligence facade with enablement gating, caching, and persisted state.
package engine

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/finsage/finsage/internal/anomaly"
	"github.com/finsage/finsage/internal/cache"
	"github.com/finsage/finsage/internal/categorize"
	"github.com/finsage/finsage/internal/common"
	"github.com/finsage/finsage/internal/config"
	"github.com/finsage/finsage/internal/insight"
	"github.com/finsage/finsage/internal/learning"
	"github.com/finsage/finsage/internal/model"
	"github.com/finsage/finsage/internal/predict"
	"github.com/finsage/finsage/internal/recur"
	"github.com/finsage/finsage/internal/service"
)

// Persisted flag names.
const (
	flagLearning   = "learning_enabled"
	flagPredictive = "predictive_enabled"
	flagAnomaly    = "anomaly_enabled"
	flagInsight    = "insight_enabled"
)

// Cache keys for unkeyed operation results.
const (
	cacheKeyCashFlow = "cashflow"
	cacheKeyExpenses = "expenses"
	cacheKeyBehavior = "behavior"
)

// IntelligenceEngine is the facade over the analytical sub-engines. All
// reads run against an immutable snapshot fetched per call; a snapshot
// failure degrades to an empty set rather than failing the operation.
type IntelligenceEngine struct {
	source service.TransactionSource
	state  service.StateStore
	cache  *cache.IntelligenceCache

	patterns   *recur.Engine
	classifier *categorize.Model
	detector   *anomaly.Detector
	forecaster *predict.Engine
	generator  *insight.Generator
	learner    *learning.System

	profile     *model.UserProfile
	initialized bool
	learningOn  bool
	predictOn   bool
	anomalyOn   bool
	insightOn   bool
	mu          sync.RWMutex
}

// New creates an intelligence engine with explicitly injected collaborators.
// Call InitializeModels before any analysis.
func New(source service.TransactionSource, state service.StateStore, intelligenceCache *cache.IntelligenceCache, cfg config.Config) *IntelligenceEngine {
	return &IntelligenceEngine{
		source:     source,
		state:      state,
		cache:      intelligenceCache,
		patterns:   recur.NewEngine(),
		classifier: categorize.NewModel(),
		detector: anomaly.NewDetector(anomaly.Config{
			MinimumAmount:              cfg.MinimumAmount,
			AmountThreshold:            cfg.AmountThreshold,
			BehaviorDeviationThreshold: cfg.BehaviorDeviationThreshold,
		}),
		forecaster: predict.NewEngine(),
		generator:  insight.NewGenerator(),
	}
}

// InitializeModels restores persisted state, trains the sub-engines on the
// current snapshot, and marks the engine ready.
func (e *IntelligenceEngine) InitializeModels(ctx context.Context) error {
	snapshot := e.snapshot(ctx)

	e.patterns.Train(snapshot)
	e.detector.SetBaselines(snapshot)

	if corrections, err := e.state.GetCorrections(ctx); err != nil {
		slog.Warn("Failed to load correction history", "error", err)
	} else {
		e.classifier.LoadCorrections(corrections)
	}

	metrics, err := e.state.GetLearningMetrics(ctx)
	if err != nil {
		slog.Warn("Failed to load learning metrics", "error", err)
		metrics = nil
	}

	profile, err := e.state.GetProfile(ctx)
	if err != nil {
		slog.Warn("Failed to load user profile", "error", err)
		profile = nil
	}

	flags := make(map[string]bool, 4)
	for _, name := range []string{flagLearning, flagPredictive, flagAnomaly, flagInsight} {
		value, err := e.state.GetFlag(ctx, name)
		if err != nil {
			slog.Warn("Failed to load engine flag", "flag", name, "error", err)
			continue
		}
		flags[name] = value
	}

	e.mu.Lock()
	e.learner = learning.NewSystem(metrics)
	e.profile = profile
	e.learningOn = flags[flagLearning]
	e.predictOn = flags[flagPredictive]
	e.anomalyOn = flags[flagAnomaly]
	e.insightOn = flags[flagInsight]
	e.initialized = true
	e.mu.Unlock()

	slog.Info("Intelligence engine initialized",
		"transactions", len(snapshot),
		"learning", flags[flagLearning],
		"predictive", flags[flagPredictive],
		"anomaly", flags[flagAnomaly],
		"insight", flags[flagInsight])

	return nil
}

// EnableLearning turns on feedback incorporation and persists the flag.
func (e *IntelligenceEngine) EnableLearning(ctx context.Context) error {
	return e.enable(ctx, flagLearning, &e.learningOn)
}

// EnablePredictiveAnalytics turns on forecasting and persists the flag.
func (e *IntelligenceEngine) EnablePredictiveAnalytics(ctx context.Context) error {
	return e.enable(ctx, flagPredictive, &e.predictOn)
}

// EnableAnomalyDetection turns on anomaly scoring and persists the flag.
func (e *IntelligenceEngine) EnableAnomalyDetection(ctx context.Context) error {
	return e.enable(ctx, flagAnomaly, &e.anomalyOn)
}

// EnableInsightGeneration turns on insight synthesis and persists the flag.
func (e *IntelligenceEngine) EnableInsightGeneration(ctx context.Context) error {
	return e.enable(ctx, flagInsight, &e.insightOn)
}

func (e *IntelligenceEngine) enable(ctx context.Context, name string, target *bool) error {
	e.mu.Lock()
	if !e.initialized {
		e.mu.Unlock()
		return common.ErrNotInitialized
	}
	*target = true
	e.mu.Unlock()

	if err := e.state.SetFlag(ctx, name, true); err != nil {
		return fmt.Errorf("failed to persist %s: %w", name, err)
	}
	return nil
}

// SetUserProfile stores the profile used for personalized insights.
func (e *IntelligenceEngine) SetUserProfile(ctx context.Context, profile *model.UserProfile) error {
	e.mu.Lock()
	e.profile = profile
	e.mu.Unlock()

	if err := e.state.SetProfile(ctx, profile); err != nil {
		return fmt.Errorf("failed to persist profile: %w", err)
	}
	return nil
}

// UserProfile returns the active profile, or nil when none is set.
func (e *IntelligenceEngine) UserProfile() *model.UserProfile {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.profile
}

// RecognizeExpensePatterns mines category patterns, serving repeated calls
// from the cache within the validity window.
func (e *IntelligenceEngine) RecognizeExpensePatterns(ctx context.Context) []model.ExpensePattern {
	if !e.ready() {
		return nil
	}

	if cached, ok := e.cache.Patterns(); ok {
		return cached
	}

	patterns := e.patterns.RecognizePatterns(e.snapshot(ctx))
	e.cache.SetPatterns(patterns)
	return patterns
}

// AnalyzeSeasonalPatterns aggregates spending by calendar month.
func (e *IntelligenceEngine) AnalyzeSeasonalPatterns(ctx context.Context) *model.SeasonalPatternAnalysis {
	if !e.ready() {
		return nil
	}
	return e.patterns.AnalyzeSeasonalPatterns(e.snapshot(ctx))
}

// AnalyzeQuarterlyPatterns aggregates spending by calendar quarter.
func (e *IntelligenceEngine) AnalyzeQuarterlyPatterns(ctx context.Context) *model.QuarterlySpendingAnalysis {
	if !e.ready() {
		return nil
	}
	return e.patterns.AnalyzeQuarterlyPatterns(e.snapshot(ctx))
}

// DetectRecurringTransactions finds repeating charges and deposits.
func (e *IntelligenceEngine) DetectRecurringTransactions(ctx context.Context) []model.RecurringTransaction {
	if !e.ready() {
		return nil
	}
	return e.patterns.DetectRecurringTransactions(e.snapshot(ctx))
}

// AnalyzeSpendingHabits summarizes expense behavior.
func (e *IntelligenceEngine) AnalyzeSpendingHabits(ctx context.Context) *model.SpendingHabits {
	if !e.ready() {
		return nil
	}
	return e.patterns.AnalyzeSpendingHabits(e.snapshot(ctx))
}

// SuggestCategory proposes a category for one transaction.
func (e *IntelligenceEngine) SuggestCategory(txn model.TransactionRecord) *model.CategorySuggestion {
	if !e.ready() {
		return nil
	}
	return e.classifier.SuggestCategory(txn)
}

// SuggestCategoryWithContext proposes a category annotated with contextual
// factors.
func (e *IntelligenceEngine) SuggestCategoryWithContext(txn model.TransactionRecord) *model.ContextualCategorySuggestion {
	if !e.ready() {
		return nil
	}
	return e.classifier.SuggestCategoryWithContext(txn)
}

// SuggestSplitAllocation proposes how a transaction divides across
// categories; the returned percentages sum to 1.0.
func (e *IntelligenceEngine) SuggestSplitAllocation(txn model.TransactionRecord) []model.SplitSuggestion {
	if !e.ready() {
		return nil
	}
	return e.classifier.SuggestSplitAllocation(txn)
}

// PredictCashFlow forecasts months of cash flow. A non-positive horizon is
// rejected; a disabled predictive capability returns nil without error.
func (e *IntelligenceEngine) PredictCashFlow(ctx context.Context, months int) (*model.CashFlowPrediction, error) {
	if months <= 0 {
		return nil, common.InvalidArgumentf("forecast horizon must be positive, got %d", months)
	}
	if !e.ready() || !e.flag(&e.predictOn) {
		return nil, nil
	}

	key := fmt.Sprintf("%s:%d", cacheKeyCashFlow, months)
	if cached, ok := e.cache.Prediction(key); ok {
		return cached.(*model.CashFlowPrediction), nil
	}

	prediction := e.forecaster.PredictCashFlow(e.snapshot(ctx), months)
	if prediction != nil {
		e.cache.SetPrediction(key, prediction)
	}
	return prediction, nil
}

// ProjectExpenses forecasts per-category spend over the horizon.
func (e *IntelligenceEngine) ProjectExpenses(ctx context.Context, months int) (*model.ExpenseProjection, error) {
	if months <= 0 {
		return nil, common.InvalidArgumentf("projection horizon must be positive, got %d", months)
	}
	if !e.ready() || !e.flag(&e.predictOn) {
		return nil, nil
	}

	key := fmt.Sprintf("%s:%d", cacheKeyExpenses, months)
	if cached, ok := e.cache.Prediction(key); ok {
		return cached.(*model.ExpenseProjection), nil
	}

	projection := e.forecaster.ProjectExpenses(e.snapshot(ctx), months)
	if projection != nil {
		e.cache.SetPrediction(key, projection)
	}
	return projection, nil
}

// GenerateBudgetOptimizations proposes spending reductions.
func (e *IntelligenceEngine) GenerateBudgetOptimizations(ctx context.Context) []model.BudgetOptimization {
	if !e.ready() || !e.flag(&e.predictOn) {
		return nil
	}
	return e.forecaster.GenerateBudgetOptimizations(e.snapshot(ctx))
}

// GenerateTaxOptimizations proposes tax-planning actions.
func (e *IntelligenceEngine) GenerateTaxOptimizations(ctx context.Context) []model.TaxOptimizationRecommendation {
	if !e.ready() || !e.flag(&e.predictOn) {
		return nil
	}
	return e.forecaster.GenerateTaxOptimizations(e.snapshot(ctx))
}

// DetectAnomaly reports whether a transaction is anomalous. Disabled
// detection reports false.
func (e *IntelligenceEngine) DetectAnomaly(txn model.TransactionRecord) bool {
	if !e.ready() || !e.flag(&e.anomalyOn) {
		return false
	}
	return e.detector.DetectAnomaly(txn)
}

// AnalyzeAnomaly explains an anomalous transaction.
func (e *IntelligenceEngine) AnalyzeAnomaly(txn model.TransactionRecord) *model.AnomalyAnalysis {
	if !e.ready() || !e.flag(&e.anomalyOn) {
		return nil
	}
	return e.detector.AnalyzeAnomaly(txn)
}

// AssessFraudRisk scores a transaction's fraud risk.
func (e *IntelligenceEngine) AssessFraudRisk(txn model.TransactionRecord) *model.FraudRiskAssessment {
	if !e.ready() || !e.flag(&e.anomalyOn) {
		return nil
	}
	return e.detector.AssessFraudRisk(txn)
}

// AnalyzeBehaviorDeviations reports aggregated behavioral drift across the
// current snapshot.
func (e *IntelligenceEngine) AnalyzeBehaviorDeviations(ctx context.Context) *model.BehaviorDeviationAnalysis {
	if !e.ready() || !e.flag(&e.anomalyOn) {
		return nil
	}

	if cached, ok := e.cache.Analysis(cacheKeyBehavior); ok {
		return cached.(*model.BehaviorDeviationAnalysis)
	}

	analysis := e.detector.AnalyzeBehaviorDeviations(e.snapshot(ctx))
	if analysis != nil {
		e.cache.SetAnalysis(cacheKeyBehavior, analysis)
	}
	return analysis
}

// GenerateFinancialInsights synthesizes ranked insights, refreshing the
// pattern cache alongside. The sub-engines run concurrently; both read the
// same immutable snapshot.
func (e *IntelligenceEngine) GenerateFinancialInsights(ctx context.Context) []model.FinancialInsight {
	if !e.ready() || !e.flag(&e.insightOn) {
		return nil
	}

	if cached, ok := e.cache.Insights(); ok {
		return cached
	}

	snapshot := e.snapshot(ctx)
	profile := e.UserProfile()

	var insights []model.FinancialInsight
	var wg sync.WaitGroup

	wg.Add(2)
	go func() {
		defer wg.Done()
		if profile != nil {
			insights = e.generator.GeneratePersonalizedInsights(snapshot, profile)
		} else {
			insights = e.generator.GenerateInsights(snapshot)
		}
	}()
	go func() {
		defer wg.Done()
		e.cache.SetPatterns(e.patterns.RecognizePatterns(snapshot))
	}()
	wg.Wait()

	e.cache.SetInsights(insights)
	return insights
}

// GenerateTrendInsights reports directional spending changes.
func (e *IntelligenceEngine) GenerateTrendInsights(ctx context.Context) []model.TrendInsight {
	if !e.ready() || !e.flag(&e.insightOn) {
		return nil
	}
	return e.generator.GenerateTrendInsights(e.snapshot(ctx))
}

// GenerateActionableRecommendations derives per-category actions.
func (e *IntelligenceEngine) GenerateActionableRecommendations(ctx context.Context) []model.ActionableRecommendation {
	if !e.ready() || !e.flag(&e.insightOn) {
		return nil
	}
	return e.generator.GenerateActionableRecommendations(e.snapshot(ctx))
}

// IncorporateFeedback absorbs one piece of user feedback: it updates the
// learning counters, applies category corrections to the classifier,
// re-tunes the sub-engines, and invalidates cached results. Disabled
// learning makes this a no-op.
func (e *IntelligenceEngine) IncorporateFeedback(ctx context.Context, feedback model.UserFeedback) error {
	switch feedback.Kind {
	case model.FeedbackCategoryCorrection, model.FeedbackSplitAdjustment, model.FeedbackInsightRating:
	default:
		return common.InvalidArgumentf("unknown feedback kind %q", feedback.Kind)
	}

	if !e.ready() || !e.flag(&e.learningOn) {
		return nil
	}

	metrics := e.learner.IncorporateFeedback(feedback)
	if err := e.state.SetLearningMetrics(ctx, &metrics); err != nil {
		slog.Warn("Failed to persist learning metrics", "error", err)
	}

	if feedback.Kind == model.FeedbackCategoryCorrection && feedback.CorrectedValue != "" {
		key := e.classifier.RecordUserCorrection(feedback.OriginalPrediction, feedback.CorrectedValue, feedback.Note)
		if err := e.state.SaveCorrection(ctx, key, feedback.CorrectedValue); err != nil {
			slog.Warn("Failed to persist correction", "error", err)
		}
	}

	snapshot := e.snapshot(ctx)
	e.patterns.AdaptiveUpdate(snapshot)
	e.classifier.AdaptiveUpdate(snapshot)
	e.forecaster.AdaptiveUpdate(snapshot)
	e.detector.SetBaselines(snapshot)

	// Derived results are stale once the models have shifted.
	e.cache.Invalidate()

	slog.Debug("Feedback incorporated",
		"kind", feedback.Kind,
		"feedback_count", metrics.FeedbackCount)

	return nil
}

// LearningMetrics returns the accumulated learning counters.
func (e *IntelligenceEngine) LearningMetrics() model.LearningMetrics {
	if !e.ready() {
		return model.LearningMetrics{}
	}
	return e.learner.Metrics()
}

// PerformanceMetrics reports per-model accuracy alongside cache health.
type PerformanceMetrics struct {
	PatternAccuracy        float64
	CategorizationAccuracy float64
	PredictionAccuracy     float64
	Learning               model.LearningMetrics
	Cache                  cache.Metrics
}

// ModelPerformanceMetrics reports the self-assessed model metrics.
func (e *IntelligenceEngine) ModelPerformanceMetrics() *PerformanceMetrics {
	if !e.ready() {
		return nil
	}
	return &PerformanceMetrics{
		PatternAccuracy:        e.patterns.Accuracy(),
		CategorizationAccuracy: e.classifier.Accuracy(),
		PredictionAccuracy:     e.forecaster.Accuracy(),
		Learning:               e.learner.Metrics(),
		Cache:                  e.cache.PerformanceMetrics(),
	}
}

// CachePerformanceMetrics reports hit/miss accounting for the result cache.
func (e *IntelligenceEngine) CachePerformanceMetrics() cache.Metrics {
	return e.cache.PerformanceMetrics()
}

// ready reports whether InitializeModels has completed.
func (e *IntelligenceEngine) ready() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.initialized
}

// flag reads one enablement flag under the engine lock.
func (e *IntelligenceEngine) flag(target *bool) bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return *target
}

// snapshot fetches the current transaction set, degrading to an empty set on
// upstream failure so the calling operation always completes.
func (e *IntelligenceEngine) snapshot(ctx context.Context) []model.TransactionRecord {
	transactions, err := e.source.FetchAll(ctx)
	if err != nil {
		slog.Warn("Transaction fetch failed; continuing with empty snapshot", "error", err)
		return nil
	}
	return transactions
}
