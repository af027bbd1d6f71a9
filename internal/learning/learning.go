// Package learning accumulates user feedback and exposes learning metrics.
// The learning effect on the other engines is realized by their own adaptive
// updates, which the orchestrator triggers after feedback lands here.
package learning

import (
	"math"
	"sync"

	"github.com/finsage/finsage/internal/model"
)

const (
	// Each piece of feedback nudges the improvement metric by a fixed
	// increment, capped so the proxy stays honest.
	accuracyIncrement      = 0.001
	accuracyImprovementCap = 0.1
)

// System is the continuous learning bookkeeper. Safe for concurrent use.
type System struct {
	metrics model.LearningMetrics
	mu      sync.RWMutex
}

// NewSystem creates a learning system, optionally seeded with persisted
// metrics.
func NewSystem(seed *model.LearningMetrics) *System {
	s := &System{}
	if seed != nil {
		s.metrics = *seed
	}
	return s
}

// IncorporateFeedback counts one piece of feedback and nudges the accuracy
// improvement metric.
func (s *System) IncorporateFeedback(feedback model.UserFeedback) model.LearningMetrics {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.metrics.FeedbackCount++
	s.metrics.AccuracyImprovement = math.Min(accuracyImprovementCap, s.metrics.AccuracyImprovement+accuracyIncrement)
	return s.metrics
}

// Metrics returns the running totals.
func (s *System) Metrics() model.LearningMetrics {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.metrics
}

// AccuracyIncrement is the per-feedback improvement step.
func AccuracyIncrement() float64 {
	return accuracyIncrement
}
