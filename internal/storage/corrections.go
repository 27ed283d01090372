package storage

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/canadianinsights/northstar/internal/model"

	"github.com/google/uuid"
)

// ListCorrections retrieves all corrections recorded by a user, most
// frequent first. The engine's history tier consumes this list.
func (s *SQLiteStorage) ListCorrections(ctx context.Context, userID string) ([]model.UserCorrection, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	if err := validateString(userID, "userID"); err != nil {
		return nil, err
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, description_pattern, corrected_category,
			corrected_label, frequency, last_used_at, created_at
		FROM user_corrections
		WHERE user_id = ?
		ORDER BY frequency DESC, last_used_at DESC
	`, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query corrections: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var corrections []model.UserCorrection
	for rows.Next() {
		var c model.UserCorrection
		if err := rows.Scan(
			&c.ID, &c.UserID, &c.DescriptionPattern, &c.CorrectedCategory,
			&c.CorrectedLabel, &c.Frequency, &c.LastUsedAt, &c.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan correction: %w", err)
		}
		corrections = append(corrections, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating corrections: %w", err)
	}

	slog.Debug("retrieved corrections", "user_id", userID, "count", len(corrections))
	return corrections, nil
}

// RecordCorrection records a manual recategorization. A repeat correction
// for the same (user, pattern) pair bumps the frequency and refreshes the
// category, label and last-used timestamp instead of inserting a new row.
func (s *SQLiteStorage) RecordCorrection(ctx context.Context, correction *model.UserCorrection) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateCorrection(correction); err != nil {
		return err
	}

	if correction.ID == "" {
		correction.ID = uuid.NewString()
	}
	if correction.Frequency <= 0 {
		correction.Frequency = 1
	}
	if correction.LastUsedAt.IsZero() {
		correction.LastUsedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_corrections (
			id, user_id, description_pattern, corrected_category,
			corrected_label, frequency, last_used_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(user_id, description_pattern) DO UPDATE SET
			corrected_category = excluded.corrected_category,
			corrected_label = excluded.corrected_label,
			frequency = frequency + 1,
			last_used_at = excluded.last_used_at
	`, correction.ID, correction.UserID, correction.DescriptionPattern,
		correction.CorrectedCategory, correction.CorrectedLabel,
		correction.Frequency, correction.LastUsedAt)

	if err != nil {
		return fmt.Errorf("failed to record correction: %w", err)
	}

	slog.Info("recorded correction",
		"user_id", correction.UserID,
		"pattern", correction.DescriptionPattern,
		"category", correction.CorrectedCategory)
	return nil
}
