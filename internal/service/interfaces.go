// Package service defines the interfaces for all application services.
package service

import (
	"context"

	"github.com/canadianinsights/northstar/internal/model"
)

// Storage defines the contract for our persistence layer.
type Storage interface {
	// Pattern store reads (consumed by the cache rebuild)
	ListActiveKeywords(ctx context.Context) ([]model.KeywordRule, error)
	ListActiveMerchants(ctx context.Context) ([]model.MerchantRule, error)

	// Keyword rule administration
	CreateKeyword(ctx context.Context, rule *model.KeywordRule) error
	GetKeyword(ctx context.Context, id int64) (*model.KeywordRule, error)
	ListKeywords(ctx context.Context) ([]model.KeywordRule, error)
	UpdateKeyword(ctx context.Context, rule *model.KeywordRule) error
	DeleteKeyword(ctx context.Context, id int64) error

	// Merchant rule administration
	CreateMerchant(ctx context.Context, rule *model.MerchantRule) error
	GetMerchant(ctx context.Context, id int64) (*model.MerchantRule, error)
	ListMerchants(ctx context.Context) ([]model.MerchantRule, error)
	UpdateMerchant(ctx context.Context, rule *model.MerchantRule) error
	DeleteMerchant(ctx context.Context, id int64) error

	// User-history lookup and the transaction-edit write path
	ListCorrections(ctx context.Context, userID string) ([]model.UserCorrection, error)
	RecordCorrection(ctx context.Context, correction *model.UserCorrection) error

	// Database management
	Migrate(ctx context.Context) error
	BeginTx(ctx context.Context) (Transaction, error)
	Close() error
}

// Transaction represents a database transaction.
type Transaction interface {
	Commit() error
	Rollback() error
}

// RuleReader is the narrow read surface the pattern cache rebuild needs.
type RuleReader interface {
	ListActiveKeywords(ctx context.Context) ([]model.KeywordRule, error)
	ListActiveMerchants(ctx context.Context) ([]model.MerchantRule, error)
}

// CorrectionReader is the narrow read surface the user-history tier needs.
type CorrectionReader interface {
	ListCorrections(ctx context.Context, userID string) ([]model.UserCorrection, error)
}
