package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/canadianinsights/northstar/internal/common"
	"github.com/canadianinsights/northstar/internal/model"
)

const keywordColumns = `id, keyword, category, label, language, is_active, created_at, updated_at`

// CreateKeyword creates a new keyword rule.
func (s *SQLiteStorage) CreateKeyword(ctx context.Context, rule *model.KeywordRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKeyword(rule); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		INSERT INTO keyword_rules (keyword, category, label, language, is_active)
		VALUES (?, ?, ?, ?, ?)
	`, rule.Keyword, rule.Category, rule.Label, string(rule.Language), rule.IsActive)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("keyword %q (%s): %w", rule.Keyword, rule.Language, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to create keyword rule: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	rule.ID = id
	slog.Info("created keyword rule", "id", id, "keyword", rule.Keyword, "category", rule.Category)
	return nil
}

// GetKeyword retrieves a keyword rule by ID.
func (s *SQLiteStorage) GetKeyword(ctx context.Context, id int64) (*model.KeywordRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT `+keywordColumns+`
		FROM keyword_rules
		WHERE id = ?
	`, id)

	rule, err := scanKeyword(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get keyword rule: %w", err)
	}

	return rule, nil
}

// ListKeywords retrieves all keyword rules, active or not.
func (s *SQLiteStorage) ListKeywords(ctx context.Context) ([]model.KeywordRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryKeywords(ctx, `
		SELECT `+keywordColumns+`
		FROM keyword_rules
		ORDER BY id
	`)
}

// ListActiveKeywords retrieves the active keyword rules the cache builds from.
func (s *SQLiteStorage) ListActiveKeywords(ctx context.Context) ([]model.KeywordRule, error) {
	if err := validateContext(ctx); err != nil {
		return nil, err
	}
	return s.queryKeywords(ctx, `
		SELECT `+keywordColumns+`
		FROM keyword_rules
		WHERE is_active = 1
		ORDER BY id
	`)
}

func (s *SQLiteStorage) queryKeywords(ctx context.Context, query string, args ...any) ([]model.KeywordRule, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query keyword rules: %w", err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("failed to close rows", "error", err)
		}
	}()

	var rules []model.KeywordRule
	for rows.Next() {
		rule, err := scanKeyword(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan keyword rule: %w", err)
		}
		rules = append(rules, *rule)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating keyword rules: %w", err)
	}

	slog.Debug("retrieved keyword rules", "count", len(rules))
	return rules, nil
}

func scanKeyword(scan func(...any) error) (*model.KeywordRule, error) {
	var rule model.KeywordRule
	var language string
	if err := scan(
		&rule.ID, &rule.Keyword, &rule.Category, &rule.Label,
		&language, &rule.IsActive, &rule.CreatedAt, &rule.UpdatedAt,
	); err != nil {
		return nil, err
	}
	rule.Language = model.RuleLanguage(language)
	return &rule, nil
}

// UpdateKeyword updates an existing keyword rule.
func (s *SQLiteStorage) UpdateKeyword(ctx context.Context, rule *model.KeywordRule) error {
	if err := validateContext(ctx); err != nil {
		return err
	}
	if err := validateKeyword(rule); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `
		UPDATE keyword_rules SET
			keyword = ?, category = ?, label = ?, language = ?,
			is_active = ?, updated_at = CURRENT_TIMESTAMP
		WHERE id = ?
	`, rule.Keyword, rule.Category, rule.Label, string(rule.Language), rule.IsActive, rule.ID)

	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("keyword %q (%s): %w", rule.Keyword, rule.Language, common.ErrDuplicateEntry)
		}
		return fmt.Errorf("failed to update keyword rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	slog.Info("updated keyword rule", "id", rule.ID, "keyword", rule.Keyword)
	return nil
}

// DeleteKeyword deletes a keyword rule.
func (s *SQLiteStorage) DeleteKeyword(ctx context.Context, id int64) error {
	if err := validateContext(ctx); err != nil {
		return err
	}

	result, err := s.db.ExecContext(ctx, `DELETE FROM keyword_rules WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete keyword rule: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return common.ErrNotFound
	}

	slog.Info("deleted keyword rule", "id", id)
	return nil
}

// isUniqueViolation reports whether err is a SQLite unique constraint failure.
func isUniqueViolation(err error) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}
