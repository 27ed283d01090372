// Package testutil provides shared helpers for tests that need a real
// rules database.
package testutil

import (
	"context"
	"testing"

	"github.com/canadianinsights/northstar/internal/model"
	"github.com/canadianinsights/northstar/internal/storage"
)

// TestDB wraps an in-memory, fully migrated rules database.
type TestDB struct {
	Storage *storage.SQLiteStorage
	t       *testing.T
}

// SetupTestDB creates an in-memory SQLite database, applies migrations, and
// registers cleanup.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	store, err := storage.NewSQLiteStorage(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if err := store.Migrate(context.Background()); err != nil {
		_ = store.Close()
		t.Fatalf("failed to migrate test database: %v", err)
	}

	t.Cleanup(func() {
		if err := store.Close(); err != nil {
			t.Errorf("failed to close test database: %v", err)
		}
	})

	return &TestDB{Storage: store, t: t}
}

// MustCreateKeyword inserts an active keyword rule or fails the test.
func (db *TestDB) MustCreateKeyword(ctx context.Context, keyword, category, label string) *model.KeywordRule {
	db.t.Helper()

	rule := &model.KeywordRule{
		Keyword:  keyword,
		Category: category,
		Label:    label,
		Language: model.LanguageBoth,
		IsActive: true,
	}
	if err := db.Storage.CreateKeyword(ctx, rule); err != nil {
		db.t.Fatalf("failed to create keyword %q: %v", keyword, err)
	}
	return rule
}

// MustCreateMerchant inserts an active merchant rule or fails the test.
func (db *TestDB) MustCreateMerchant(ctx context.Context, primary string, alternates []string, category, label string) *model.MerchantRule {
	db.t.Helper()

	rule := &model.MerchantRule{
		PrimaryPattern:    primary,
		AlternatePatterns: alternates,
		Category:          category,
		Label:             label,
		IsActive:          true,
	}
	if err := db.Storage.CreateMerchant(ctx, rule); err != nil {
		db.t.Fatalf("failed to create merchant %q: %v", primary, err)
	}
	return rule
}

// MustRecordCorrection records a user correction or fails the test.
func (db *TestDB) MustRecordCorrection(ctx context.Context, userID, pattern, category, label string) *model.UserCorrection {
	db.t.Helper()

	correction := &model.UserCorrection{
		UserID:             userID,
		DescriptionPattern: pattern,
		CorrectedCategory:  category,
		CorrectedLabel:     label,
	}
	if err := db.Storage.RecordCorrection(ctx, correction); err != nil {
		db.t.Fatalf("failed to record correction %q: %v", pattern, err)
	}
	return correction
}
