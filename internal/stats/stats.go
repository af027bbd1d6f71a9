// Package stats provides the pure statistical primitives shared by the
// analytical engines.
package stats

import (
	"math"
	"strings"
	"time"
)

// Mean returns the arithmetic mean of values, or 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// Variance returns the population variance of values, or 0 for fewer than
// two values.
func Variance(values []float64) float64 {
	if len(values) < 2 {
		return 0
	}
	mean := Mean(values)
	var sum float64
	for _, v := range values {
		d := v - mean
		sum += d * d
	}
	return sum / float64(len(values))
}

// StdDev returns the population standard deviation of values.
func StdDev(values []float64) float64 {
	return math.Sqrt(Variance(values))
}

// ZScore returns how many standard deviations value sits from mean. A zero
// stddev yields 0 rather than an infinity.
func ZScore(value, mean, stddev float64) float64 {
	if stddev == 0 {
		return 0
	}
	return (value - mean) / stddev
}

// KeywordOverlap returns the fraction of keywords found in text,
// case-insensitively. Both an empty text and an empty keyword set score 0.
func KeywordOverlap(text string, keywords []string) float64 {
	if len(keywords) == 0 || text == "" {
		return 0
	}
	lower := strings.ToLower(text)
	matched := 0
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			matched++
		}
	}
	return float64(matched) / float64(len(keywords))
}

// ContainsAny reports whether text contains any of the keywords,
// case-insensitively.
func ContainsAny(text string, keywords []string) bool {
	lower := strings.ToLower(text)
	for _, kw := range keywords {
		if strings.Contains(lower, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}

// IsWorkingHours reports whether t falls within 9:00-18:00 on a weekday.
func IsWorkingHours(t time.Time) bool {
	if IsWeekend(t) {
		return false
	}
	hour := t.Hour()
	return hour >= 9 && hour < 18
}

// IsWeekend reports whether t falls on a Saturday or Sunday.
func IsWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}

// IsOffHours reports whether t falls outside 6:00-23:00, the window in which
// legitimate spending normally happens.
func IsOffHours(t time.Time) bool {
	hour := t.Hour()
	return hour < 6 || hour >= 23
}

// MonthKey returns the calendar month name for grouping ("January").
func MonthKey(t time.Time) string {
	return t.Month().String()
}

// Quarter returns the calendar quarter for t ("Q1" through "Q4").
func Quarter(t time.Time) string {
	switch (int(t.Month()) - 1) / 3 {
	case 0:
		return "Q1"
	case 1:
		return "Q2"
	case 2:
		return "Q3"
	default:
		return "Q4"
	}
}

// Clamp bounds value to [lo, hi].
func Clamp(value, lo, hi float64) float64 {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}
