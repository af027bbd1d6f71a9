package storage

import (
	"context"
	"testing"
	"time"

	"github.com/finsage/finsage/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStorage(t *testing.T) *SQLiteStorage {
	t.Helper()

	s, err := NewSQLiteStorage(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	require.NoError(t, s.Migrate(context.Background()))
	return s
}

func TestSaveAndFetchTransactions(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 10, 12, 0, 0, 0, time.UTC)
	transactions := []model.TransactionRecord{
		{ID: "t1", Date: base, Amount: 50, Category: "Groceries", Note: "weekly shop"},
		{ID: "t2", Date: base.AddDate(0, 0, 1), Amount: 120, Category: "Business", Note: "client lunch"},
		{ID: "t3", Date: base.AddDate(0, 0, 2), Amount: -5000, Category: "Income", Note: "salary"},
	}

	inserted, err := s.SaveTransactions(ctx, transactions)
	require.NoError(t, err)
	assert.Equal(t, 3, inserted)

	all, err := s.FetchAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)

	// Date descending by convention.
	assert.Equal(t, "t3", all[0].ID)
	assert.Equal(t, "t1", all[2].ID)
	assert.Equal(t, "weekly shop", all[2].Note)
}

func TestSaveTransactionsSkipsDuplicates(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	txn := model.TransactionRecord{
		ID: "t1", Date: time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
		Amount: 50, Category: "Groceries", Note: "weekly shop",
	}

	inserted, err := s.SaveTransactions(ctx, []model.TransactionRecord{txn})
	require.NoError(t, err)
	assert.Equal(t, 1, inserted)

	inserted, err = s.SaveTransactions(ctx, []model.TransactionRecord{txn})
	require.NoError(t, err)
	assert.Equal(t, 0, inserted)

	count, err := s.TransactionCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func TestFetchByCategory(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	base := time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC)
	_, err := s.SaveTransactions(ctx, []model.TransactionRecord{
		{ID: "t1", Date: base, Amount: 50, Category: "Groceries", Note: "a"},
		{ID: "t2", Date: base.AddDate(0, 0, 1), Amount: 60, Category: "Groceries", Note: "b"},
		{ID: "t3", Date: base, Amount: 120, Category: "Business", Note: "c"},
	})
	require.NoError(t, err)

	groceries, err := s.FetchByCategory(ctx, "Groceries")
	require.NoError(t, err)
	require.Len(t, groceries, 2)
	assert.Equal(t, "t2", groceries[0].ID)

	_, err = s.FetchByCategory(ctx, "")
	assert.Error(t, err)
}

func TestFlags(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	// Missing flag reads false.
	enabled, err := s.GetFlag(ctx, "learning_enabled")
	require.NoError(t, err)
	assert.False(t, enabled)

	require.NoError(t, s.SetFlag(ctx, "learning_enabled", true))
	enabled, err = s.GetFlag(ctx, "learning_enabled")
	require.NoError(t, err)
	assert.True(t, enabled)

	require.NoError(t, s.SetFlag(ctx, "learning_enabled", false))
	enabled, err = s.GetFlag(ctx, "learning_enabled")
	require.NoError(t, err)
	assert.False(t, enabled)
}

func TestProfileRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	// No profile yet.
	profile, err := s.GetProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, profile)

	saved := &model.UserProfile{Segment: "freelancer", Industry: "design", ExperienceLevel: "intermediate"}
	require.NoError(t, s.SetProfile(ctx, saved))

	loaded, err := s.GetProfile(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, *saved, *loaded)

	// Clearing.
	require.NoError(t, s.SetProfile(ctx, nil))
	loaded, err = s.GetProfile(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestLearningMetricsRoundTrip(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	metrics, err := s.GetLearningMetrics(ctx)
	require.NoError(t, err)
	assert.Nil(t, metrics)

	saved := &model.LearningMetrics{FeedbackCount: 7, AccuracyImprovement: 0.007}
	require.NoError(t, s.SetLearningMetrics(ctx, saved))

	loaded, err := s.GetLearningMetrics(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, *saved, *loaded)
}

func TestCorrections(t *testing.T) {
	s := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.SaveCorrection(ctx, "abc123", "Business"))
	require.NoError(t, s.SaveCorrection(ctx, "def456", "Personal"))
	// Upsert replaces.
	require.NoError(t, s.SaveCorrection(ctx, "abc123", "Travel"))

	corrections, err := s.GetCorrections(ctx)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"abc123": "Travel", "def456": "Personal"}, corrections)
}

func TestMigrateIsIdempotent(t *testing.T) {
	s := newTestStorage(t)
	assert.NoError(t, s.Migrate(context.Background()))
}

func TestNewSQLiteStorageValidation(t *testing.T) {
	_, err := NewSQLiteStorage("")
	assert.Error(t, err)
}
