package engine

import (
	"context"

	"github.com/canadianinsights/northstar/internal/model"
	"github.com/canadianinsights/northstar/internal/service"
)

// Admin is the rule write path. Every successful create, update or delete
// of a keyword or merchant rule invalidates the pattern cache after the
// store write has committed, so the next Categorize call sees the edit.
// There is no batching: N rapid writes invalidate N times, and the single
// rebuild that follows re-reads full current state.
type Admin struct {
	store service.Storage
	cache *PatternCache
}

// NewAdmin creates the admin write path over the given store and cache.
func NewAdmin(store service.Storage, cache *PatternCache) *Admin {
	return &Admin{store: store, cache: cache}
}

// CreateKeyword creates a keyword rule and invalidates the cache.
func (a *Admin) CreateKeyword(ctx context.Context, rule *model.KeywordRule) error {
	if err := a.store.CreateKeyword(ctx, rule); err != nil {
		return err
	}
	a.cache.Invalidate()
	return nil
}

// UpdateKeyword updates a keyword rule and invalidates the cache.
func (a *Admin) UpdateKeyword(ctx context.Context, rule *model.KeywordRule) error {
	if err := a.store.UpdateKeyword(ctx, rule); err != nil {
		return err
	}
	a.cache.Invalidate()
	return nil
}

// DeleteKeyword deletes a keyword rule and invalidates the cache.
func (a *Admin) DeleteKeyword(ctx context.Context, id int64) error {
	if err := a.store.DeleteKeyword(ctx, id); err != nil {
		return err
	}
	a.cache.Invalidate()
	return nil
}

// CreateMerchant creates a merchant rule and invalidates the cache.
func (a *Admin) CreateMerchant(ctx context.Context, rule *model.MerchantRule) error {
	if err := a.store.CreateMerchant(ctx, rule); err != nil {
		return err
	}
	a.cache.Invalidate()
	return nil
}

// UpdateMerchant updates a merchant rule and invalidates the cache.
func (a *Admin) UpdateMerchant(ctx context.Context, rule *model.MerchantRule) error {
	if err := a.store.UpdateMerchant(ctx, rule); err != nil {
		return err
	}
	a.cache.Invalidate()
	return nil
}

// DeleteMerchant deletes a merchant rule and invalidates the cache.
func (a *Admin) DeleteMerchant(ctx context.Context, id int64) error {
	if err := a.store.DeleteMerchant(ctx, id); err != nil {
		return err
	}
	a.cache.Invalidate()
	return nil
}
