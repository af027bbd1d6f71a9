package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/finsage/finsage/internal/model"
	"github.com/finsage/finsage/internal/service"
)

// Ensure the storage satisfies the state store contract.
var _ service.StateStore = (*SQLiteStorage)(nil)

// State keys for the engine_state table.
const (
	stateKeyProfile         = "user_profile"
	stateKeyLearningMetrics = "learning_metrics"
)

// GetFlag reads a boolean engine flag. A missing flag reads as false.
func (s *SQLiteStorage) GetFlag(ctx context.Context, name string) (bool, error) {
	if err := validateContext(ctx); err != nil {
		return false, err
	}
	if err := validateString(name, "name"); err != nil {
		return false, err
	}

	var value string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM engine_state WHERE key = ?`, name).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to read flag %s: %w", name, err)
	}
	return value == "true", nil
}

// SetFlag writes a boolean engine flag.
func (s *SQLiteStorage) SetFlag(ctx context.Context, name string, value bool) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(name, "name"); err != nil {
		return err
	}

	stored := "false"
	if value {
		stored = "true"
	}
	return s.setState(ctx, name, stored)
}

// GetProfile reads the persisted user profile, or nil when none is set.
func (s *SQLiteStorage) GetProfile(ctx context.Context) (*model.UserProfile, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM engine_state WHERE key = ?`, stateKeyProfile).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	var profile model.UserProfile
	if err := json.Unmarshal([]byte(blob), &profile); err != nil {
		return nil, fmt.Errorf("failed to decode profile: %w", err)
	}
	return &profile, nil
}

// SetProfile persists the user profile as an opaque JSON blob.
func (s *SQLiteStorage) SetProfile(ctx context.Context, profile *model.UserProfile) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if profile == nil {
		return s.deleteState(ctx, stateKeyProfile)
	}

	blob, err := json.Marshal(profile)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}
	return s.setState(ctx, stateKeyProfile, string(blob))
}

// GetLearningMetrics reads the persisted learning counters, or nil when none
// have been recorded.
func (s *SQLiteStorage) GetLearningMetrics(ctx context.Context) (*model.LearningMetrics, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	var blob string
	err := s.db.QueryRowContext(ctx, `SELECT value FROM engine_state WHERE key = ?`, stateKeyLearningMetrics).Scan(&blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read learning metrics: %w", err)
	}

	var metrics model.LearningMetrics
	if err := json.Unmarshal([]byte(blob), &metrics); err != nil {
		return nil, fmt.Errorf("failed to decode learning metrics: %w", err)
	}
	return &metrics, nil
}

// SetLearningMetrics persists the learning counters.
func (s *SQLiteStorage) SetLearningMetrics(ctx context.Context, metrics *model.LearningMetrics) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if metrics == nil {
		return s.deleteState(ctx, stateKeyLearningMetrics)
	}

	blob, err := json.Marshal(metrics)
	if err != nil {
		return fmt.Errorf("failed to encode learning metrics: %w", err)
	}
	return s.setState(ctx, stateKeyLearningMetrics, string(blob))
}

// GetCorrections reads the full correction history keyed by note hash.
func (s *SQLiteStorage) GetCorrections(ctx context.Context) (map[string]string, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT note_key, category FROM corrections`)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer func() { _ = rows.Close() }()

	corrections := make(map[string]string)
	for rows.Next() {
		var key, category string
		if err := rows.Scan(&key, &category); err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		corrections[key] = category
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate corrections: %w", err)
	}
	return corrections, nil
}

// SaveCorrection upserts one correction record.
func (s *SQLiteStorage) SaveCorrection(ctx context.Context, noteKey, category string) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateString(noteKey, "noteKey"); err != nil {
		return err
	}
	if err := validateString(category, "category"); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `INSERT INTO corrections (note_key, category)
		VALUES (?, ?)
		ON CONFLICT(note_key) DO UPDATE SET category = excluded.category, updated_at = CURRENT_TIMESTAMP`,
		noteKey, category)
	if err != nil {
		return fmt.Errorf("failed to save correction: %w", err)
	}
	return nil
}

func (s *SQLiteStorage) setState(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO engine_state (key, value)
		VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value, updated_at = CURRENT_TIMESTAMP`,
		key, value)
	if err != nil {
		return fmt.Errorf("failed to write state %s: %w", key, err)
	}
	return nil
}

func (s *SQLiteStorage) deleteState(ctx context.Context, key string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM engine_state WHERE key = ?`, key); err != nil {
		return fmt.Errorf("failed to delete state %s: %w", key, err)
	}
	return nil
}
