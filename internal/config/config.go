// Package config provides configuration types and utilities for the engine.
package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds the tunable knobs for the intelligence engine.
type Config struct {
	DatabasePath string

	// Anomaly detection thresholds.
	MinimumAmount              float64
	AmountThreshold            float64
	BehaviorDeviationThreshold float64

	// Cache tuning.
	CacheTTL        time.Duration
	CacheMaxEntries int
}

// Default returns the engine's default configuration.
func Default() Config {
	return Config{
		DatabasePath:               "~/.local/share/finsage/finsage.db",
		MinimumAmount:              0.01,
		AmountThreshold:            2000,
		BehaviorDeviationThreshold: 2.0,
		CacheTTL:                   time.Hour,
		CacheMaxEntries:            100,
	}
}

// FromViper builds a Config from the loaded viper state, applying defaults
// for anything unset.
func FromViper() Config {
	cfg := Default()

	if v := viper.GetString("database.path"); v != "" {
		cfg.DatabasePath = v
	}
	if v := viper.GetFloat64("anomaly.minimum_amount"); v > 0 {
		cfg.MinimumAmount = v
	}
	if v := viper.GetFloat64("anomaly.amount_threshold"); v > 0 {
		cfg.AmountThreshold = v
	}
	if v := viper.GetFloat64("anomaly.deviation_threshold"); v > 0 {
		cfg.BehaviorDeviationThreshold = v
	}
	if v := viper.GetDuration("cache.ttl"); v > 0 {
		cfg.CacheTTL = v
	}
	if v := viper.GetInt("cache.max_entries"); v > 0 {
		cfg.CacheMaxEntries = v
	}

	cfg.DatabasePath = ExpandPath(cfg.DatabasePath)
	return cfg
}

// ExpandPath expands ~ and environment variables in a file path.
func ExpandPath(path string) string {
	if path == "" {
		return path
	}

	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err == nil {
			path = filepath.Join(home, path[2:])
		}
	} else if path == "~" {
		home, err := os.UserHomeDir()
		if err == nil {
			path = home
		}
	}

	return os.ExpandEnv(path)
}
