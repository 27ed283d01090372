package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/canadianinsights/northstar/internal/common"
	"github.com/canadianinsights/northstar/internal/model"
)

const merchantColumns = `id, primary_pattern, alternate_patterns, category, label, is_active, created_at, updated_at`

// CreateMerchant creates a new merchant rule.
func (s *SQLiteStorage) CreateMerchant(ctx context.Context, rule *model.MerchantRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMerchant(rule); err != nil {
		return err
	}

	alternates, err := marshalAlternates(rule.AlternatePatterns)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO merchant_rules (primary_pattern, alternate_patterns, category, label, is_active)
		VALUES (?, ?, ?, ?, ?)
	`, rule.PrimaryPattern, alternates, rule.Category, rule.Label, rule.IsActive)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("merchant %q: %w", rule.PrimaryPattern, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create merchant rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rule.ID = id
	slog.Info("created merchant rule", "id", id, "pattern", rule.PrimaryPattern, "category", rule.Category)
	return nil
}

// GetMerchant retrieves a merchant rule by ID.
func (s *SQLiteStorage) GetMerchant(ctx context.Context, id int64) (*model.MerchantRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+merchantColumns+`
		FROM merchant_rules
		WHERE id = ?
	`, id)

	rule, err := scanMerchant(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get merchant rule: %w", err)
	}

	return rule, nil
}

// ListMerchants retrieves all merchant rules, active or not.
func (s *SQLiteStorage) ListMerchants(ctx context.Context) ([]model.MerchantRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryMerchants(ctx, `
		SELECT `+merchantColumns+`
		FROM merchant_rules
		ORDER BY id
	`)
}

// ListActiveMerchants retrieves the active merchant rules the cache builds
// from, in insertion order so merchant-tier tie-breaks stay stable.
func (s *SQLiteStorage) ListActiveMerchants(ctx context.Context) ([]model.MerchantRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryMerchants(ctx, `
		SELECT `+merchantColumns+`
		FROM merchant_rules
		WHERE is_active = 1
		ORDER BY id
	`)
}

func (s *SQLiteStorage) queryMerchants(ctx context.Context, query string, args ...any) ([]model.MerchantRule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query merchant rules: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var rules []model.MerchantRule
	for rows.Next() {
		rule, err := scanMerchant(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan merchant rule: %w", err)
		}
		rules = append(rules, *rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating merchant rules: %w", err)
	}

	slog.Debug("retrieved merchant rules", "count", len(rules))
	return rules, nil
}

func scanMerchant(scan func(...any) error) (*model.MerchantRule, error) {
	var rule model.MerchantRule
	var alternatesJSON string
	if err := scan(
		&rule.ID, &rule.PrimaryPattern, &alternatesJSON, &rule.Category,
		&rule.Label, &rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
	); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(alternatesJSON), &rule.AlternatePatterns); err != nil {
		return nil, fmt.Errorf("failed to unmarshal alternate patterns: %w", err)
	}
	return &rule, nil
}

// UpdateMerchant updates an existing merchant rule.
func (s *SQLiteStorage) UpdateMerchant(ctx context.Context, rule *model.MerchantRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateMerchant(rule); err != nil {
		return err
	}

	alternates, err := marshalAlternates(rule.AlternatePatterns)
	if err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE merchant_rules SET
			primary_pattern = ?, alternate_patterns = ?, category = ?,
			label = ?, is_active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, rule.PrimaryPattern, alternates, rule.Category, rule.Label, rule.IsActive, rule.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("merchant %q: %w", rule.PrimaryPattern, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to update merchant rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	slog.Info("updated merchant rule", "id", rule.ID, "pattern", rule.PrimaryPattern)
	return nil
}

// DeleteMerchant deletes a merchant rule.
func (s *SQLiteStorage) DeleteMerchant(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM merchant_rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete merchant rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	slog.Info("deleted merchant rule", "id", id)
	return nil
}

func marshalAlternates(alternates []string) (string, error) {
	if alternates == nil {
		alternates = []string{}
	}
	data, err := json.Marshal(alternates)
	if err != nil {
		return "", fmt.Errorf("failed to marshal alternate patterns: %w", err)
	}
	return string(data), nil
}
