// Package cache provides a TTL- and capacity-bounded store for expensive
// derived analysis results.
package cache

import (
	"sync"
	"time"

	"github.com/finsage/finsage/internal/model"
)

const (
	// DefaultTTL is the validity window measured from last write.
	DefaultTTL = time.Hour
	// DefaultMaxEntries bounds each keyed map; exceeding it evicts down to
	// half capacity in insertion order.
	DefaultMaxEntries = 100
)

// entry is one cached value with its write timestamp.
type entry struct {
	value     any
	writtenAt time.Time
}

// keyedStore is an insertion-ordered, TTL-checked map.
type keyedStore struct {
	entries map[string]entry
	order   []string
}

func newKeyedStore() *keyedStore {
	return &keyedStore{entries: make(map[string]entry)}
}

func (s *keyedStore) set(key string, value any, now time.Time, maxEntries int) {
	if _, exists := s.entries[key]; !exists {
		s.order = append(s.order, key)
	}
	s.entries[key] = entry{value: value, writtenAt: now}

	// Evict oldest insertions down to half capacity. Approximate LRU via
	// FIFO; recency of reads is deliberately ignored.
	if len(s.entries) > maxEntries {
		keep := maxEntries / 2
		for len(s.entries) > keep {
			oldest := s.order[0]
			s.order = s.order[1:]
			delete(s.entries, oldest)
		}
	}
}

func (s *keyedStore) get(key string, now time.Time, ttl time.Duration) (any, bool) {
	e, ok := s.entries[key]
	if !ok || now.Sub(e.writtenAt) > ttl {
		return nil, false
	}
	return e.value, true
}

// Metrics reports cache performance.
type Metrics struct {
	Hits      int
	Misses    int
	HitRate   float64
	MissRate  float64
	IsHealthy bool
}

// IntelligenceCache stores derived analysis results with per-key write
// timestamps. Safe for concurrent access from in-flight orchestrator calls.
type IntelligenceCache struct {
	patterns    *keyedStore
	insights    *keyedStore
	predictions *keyedStore
	analyses    *keyedStore
	now         func() time.Time
	ttl         time.Duration
	maxEntries  int
	hits        int
	misses      int
	mu          sync.Mutex
}

// NewIntelligenceCache creates a cache with the given TTL and per-map
// capacity. Non-positive arguments fall back to the defaults.
func NewIntelligenceCache(ttl time.Duration, maxEntries int) *IntelligenceCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	return &IntelligenceCache{
		patterns:    newKeyedStore(),
		insights:    newKeyedStore(),
		predictions: newKeyedStore(),
		analyses:    newKeyedStore(),
		now:         time.Now,
		ttl:         ttl,
		maxEntries:  maxEntries,
	}
}

// patternsKey and insightsKey are the single-slot keys for the unkeyed entry
// kinds.
const (
	patternsKey = "patterns"
	insightsKey = "insights"
)

// SetPatterns caches the latest pattern recognition result.
func (c *IntelligenceCache) SetPatterns(patterns []model.ExpensePattern) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns.set(patternsKey, patterns, c.now(), c.maxEntries)
}

// Patterns returns the cached pattern result if still valid.
func (c *IntelligenceCache) Patterns() ([]model.ExpensePattern, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.patterns.get(patternsKey, c.now(), c.ttl)
	c.account(ok)
	if !ok {
		return nil, false
	}
	return value.([]model.ExpensePattern), true
}

// SetInsights caches the latest insight generation result.
func (c *IntelligenceCache) SetInsights(insights []model.FinancialInsight) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.insights.set(insightsKey, insights, c.now(), c.maxEntries)
}

// Insights returns the cached insights if still valid.
func (c *IntelligenceCache) Insights() ([]model.FinancialInsight, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.insights.get(insightsKey, c.now(), c.ttl)
	c.account(ok)
	if !ok {
		return nil, false
	}
	return value.([]model.FinancialInsight), true
}

// SetPrediction caches an arbitrary keyed prediction result.
func (c *IntelligenceCache) SetPrediction(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.predictions.set(key, value, c.now(), c.maxEntries)
}

// Prediction returns a cached prediction if still valid.
func (c *IntelligenceCache) Prediction(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.predictions.get(key, c.now(), c.ttl)
	c.account(ok)
	return value, ok
}

// SetAnalysis caches an arbitrary keyed analysis result.
func (c *IntelligenceCache) SetAnalysis(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.analyses.set(key, value, c.now(), c.maxEntries)
}

// Analysis returns a cached analysis if still valid.
func (c *IntelligenceCache) Analysis(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.analyses.get(key, c.now(), c.ttl)
	c.account(ok)
	return value, ok
}

// Invalidate discards every cached entry. Hit/miss counters survive.
func (c *IntelligenceCache) Invalidate() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.patterns = newKeyedStore()
	c.insights = newKeyedStore()
	c.predictions = newKeyedStore()
	c.analyses = newKeyedStore()
}

// PerformanceMetrics reports accumulated hit/miss accounting.
func (c *IntelligenceCache) PerformanceMetrics() Metrics {
	c.mu.Lock()
	defer c.mu.Unlock()

	metrics := Metrics{Hits: c.hits, Misses: c.misses}
	total := c.hits + c.misses
	if total > 0 {
		metrics.HitRate = float64(c.hits) / float64(total)
		metrics.MissRate = float64(c.misses) / float64(total)
	}
	metrics.IsHealthy = metrics.HitRate > 0.5
	return metrics
}

// PredictionCount returns the number of live keyed predictions.
func (c *IntelligenceCache) PredictionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.predictions.entries)
}

// account must be called with the mutex held.
func (c *IntelligenceCache) account(hit bool) {
	if hit {
		c.hits++
	} else {
		c.misses++
	}
}
