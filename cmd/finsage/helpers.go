package main

import (
	"context"
	"fmt"
	"time"

	"github.com/finsage/finsage/internal/cache"
	"github.com/finsage/finsage/internal/config"
	"github.com/finsage/finsage/internal/engine"
	"github.com/finsage/finsage/internal/model"
	"github.com/finsage/finsage/internal/storage"
)

// openStorage opens and migrates the configured database.
func openStorage(ctx context.Context, cfg config.Config) (*storage.SQLiteStorage, error) {
	store, err := storage.NewSQLiteStorage(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := store.Migrate(ctx); err != nil {
		_ = store.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return store, nil
}

// buildEngine opens storage and returns an initialized intelligence engine.
// The caller closes the returned storage.
func buildEngine(ctx context.Context, cfg config.Config) (*engine.IntelligenceEngine, *storage.SQLiteStorage, error) {
	store, err := openStorage(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	eng := engine.New(store, store, cache.NewIntelligenceCache(cfg.CacheTTL, cfg.CacheMaxEntries), cfg)
	if err := eng.InitializeModels(ctx); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to initialize engine: %w", err)
	}
	return eng, store, nil
}

// parseTransactionDate accepts a date flag in 2006-01-02 or RFC 3339 form,
// defaulting to now when empty.
func parseTransactionDate(value string) (time.Time, error) {
	if value == "" {
		return time.Now(), nil
	}
	if t, err := time.Parse("2006-01-02", value); err == nil {
		return t, nil
	}
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (expected 2006-01-02): %w", value, err)
	}
	return t, nil
}

func formatTransaction(txn model.TransactionRecord) string {
	return fmt.Sprintf("%s  %9.2f  %-12s  %s",
		txn.Date.Format("2006-01-02"), txn.Amount, txn.Category, txn.Note)
}
