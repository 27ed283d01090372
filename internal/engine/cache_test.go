package engine

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/canadianinsights/northstar/internal/common"
	"github.com/canadianinsights/northstar/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeRuleStore is an in-memory rule source that can be made to fail.
type fakeRuleStore struct {
	err       error
	keywords  []model.KeywordRule
	merchants []model.MerchantRule
	mu        sync.Mutex
}

func (f *fakeRuleStore) ListActiveKeywords(_ context.Context) ([]model.KeywordRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.KeywordRule(nil), f.keywords...), nil
}

func (f *fakeRuleStore) ListActiveMerchants(_ context.Context) ([]model.MerchantRule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	return append([]model.MerchantRule(nil), f.merchants...), nil
}

func (f *fakeRuleStore) setErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.err = err
}

func (f *fakeRuleStore) setKeywords(keywords []model.KeywordRule) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.keywords = keywords
}

func TestPatternCacheLazyRebuild(t *testing.T) {
	ctx := context.Background()
	store := &fakeRuleStore{
		keywords: []model.KeywordRule{
			{ID: 1, Keyword: "GROCERY", Category: "Food", IsActive: true},
		},
	}
	cache := NewPatternCache(store)

	snap1, err := cache.Get(ctx)
	require.NoError(t, err)
	require.NotNil(t, snap1)
	assert.Equal(t, uint64(1), cache.RebuildCount())

	// Repeated gets reuse the snapshot.
	snap2, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, snap1, snap2)
	assert.Equal(t, uint64(1), cache.RebuildCount())

	// Invalidation is lazy: no rebuild until the next Get.
	cache.Invalidate()
	assert.Equal(t, uint64(1), cache.RebuildCount())

	snap3, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.NotSame(t, snap1, snap3)
	assert.Equal(t, uint64(2), cache.RebuildCount())
}

func TestPatternCacheCoherence(t *testing.T) {
	ctx := context.Background()
	store := &fakeRuleStore{
		keywords: []model.KeywordRule{
			{ID: 1, Keyword: "RENT", Category: "Housing", IsActive: true},
		},
	}
	cache := NewPatternCache(store)

	snap, err := cache.Get(ctx)
	require.NoError(t, err)
	decision, ok := snap.MatchKeyword("RENTPAYMENT")
	require.True(t, ok)
	assert.Equal(t, "Housing", decision.Category)

	// Admin edit moves the keyword to another category; the very next Get
	// after invalidation must reflect it.
	store.setKeywords([]model.KeywordRule{
		{ID: 1, Keyword: "RENT", Category: "Bills", IsActive: true},
	})
	cache.Invalidate()

	snap, err = cache.Get(ctx)
	require.NoError(t, err)
	decision, ok = snap.MatchKeyword("RENTPAYMENT")
	require.True(t, ok)
	assert.Equal(t, "Bills", decision.Category)
}

func TestPatternCacheSingleFlight(t *testing.T) {
	ctx := context.Background()
	store := &fakeRuleStore{
		keywords: []model.KeywordRule{
			{ID: 1, Keyword: "GROCERY", Category: "Food", IsActive: true},
		},
	}
	cache := NewPatternCache(store)

	const goroutines = 32
	const invalidations = 5

	for gen := 0; gen < invalidations; gen++ {
		cache.Invalidate()

		var wg sync.WaitGroup
		for i := 0; i < goroutines; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				snap, err := cache.Get(ctx)
				assert.NoError(t, err)
				assert.NotNil(t, snap)
			}()
		}
		wg.Wait()
	}

	// At most one rebuild per invalidation generation, plus the initial build.
	rebuilds := cache.RebuildCount()
	assert.LessOrEqual(t, rebuilds, uint64(invalidations+1),
		"concurrent gets must collapse into one rebuild per generation")
	assert.GreaterOrEqual(t, rebuilds, uint64(1))
}

func TestPatternCacheColdStartFailure(t *testing.T) {
	ctx := context.Background()
	store := &fakeRuleStore{}
	store.setErr(errors.New("connection refused"))
	cache := NewPatternCache(store)

	_, err := cache.Get(ctx)
	require.Error(t, err)
	assert.True(t, common.IsStoreUnavailable(err), "cold start failure should surface as a store error")
}

func TestPatternCacheRebuildFailureKeepsPreviousSnapshot(t *testing.T) {
	ctx := context.Background()
	store := &fakeRuleStore{
		keywords: []model.KeywordRule{
			{ID: 1, Keyword: "GROCERY", Category: "Food", IsActive: true},
		},
	}
	cache := NewPatternCache(store)

	snap1, err := cache.Get(ctx)
	require.NoError(t, err)

	// Break the store, invalidate, and confirm the old snapshot still serves.
	store.setErr(errors.New("database is locked"))
	cache.Invalidate()

	snap2, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.Same(t, snap1, snap2, "failed rebuild must keep serving the previous snapshot")

	// Once the store recovers, the cache catches up.
	store.setErr(nil)
	snap3, err := cache.Get(ctx)
	require.NoError(t, err)
	assert.NotSame(t, snap1, snap3)
}

func TestPatternCacheSkipsMalformedRules(t *testing.T) {
	ctx := context.Background()
	store := &fakeRuleStore{
		keywords: []model.KeywordRule{
			{ID: 1, Keyword: "   ", Category: "Food", IsActive: true},
			{ID: 2, Keyword: "GROCERY", Category: "Food", IsActive: true},
		},
		merchants: []model.MerchantRule{
			{ID: 1, PrimaryPattern: "TIM HORTONS", AlternatePatterns: []string{"  "}, Category: "Food", IsActive: true},
		},
	}
	cache := NewPatternCache(store)

	snap, err := cache.Get(ctx)
	require.NoError(t, err)

	// The whitespace-only keyword is gone; the real one still matches.
	_, ok := snap.MatchKeyword("GROCERYSTORE")
	assert.True(t, ok)

	// The empty alternate would otherwise match everything.
	_, ok = snap.MatchMerchant("XKQZJ9283")
	assert.False(t, ok)
	_, ok = snap.MatchMerchant("TIMHORTONS#123")
	assert.True(t, ok)
}

func TestSnapshotBucketOrdering(t *testing.T) {
	ctx := context.Background()
	store := &fakeRuleStore{
		keywords: []model.KeywordRule{
			{ID: 1, Keyword: "GYM", Category: "Zeta", IsActive: true},
			{ID: 2, Keyword: "GROCERY", Category: "Food", IsActive: true},
			{ID: 3, Keyword: "RENT", Category: "Housing", IsActive: true},
			{ID: 4, Keyword: "CLUB", Category: "Alpha", IsActive: true},
		},
	}
	cache := NewPatternCache(store)

	snap, err := cache.Get(ctx)
	require.NoError(t, err)

	var order []string
	for _, bucket := range snap.buckets {
		order = append(order, bucket.category)
	}

	// Listed categories in priority order, unlisted appended by name.
	assert.Equal(t, []string{"Housing", "Food", "Alpha", "Zeta"}, order)
}

func TestSnapshotMerchantInsertionOrderTieBreak(t *testing.T) {
	ctx := context.Background()
	store := &fakeRuleStore{
		merchants: []model.MerchantRule{
			{ID: 1, PrimaryPattern: "TIM", Category: "Food", Label: "Tims", IsActive: true},
			{ID: 2, PrimaryPattern: "TIM HORTONS", Category: "Travel", Label: "Other", IsActive: true},
		},
	}
	cache := NewPatternCache(store)

	snap, err := cache.Get(ctx)
	require.NoError(t, err)

	// Both rules match; the earlier rule (lower ID) wins.
	decision, ok := snap.MatchMerchant("TIMHORTONS#123")
	require.True(t, ok)
	assert.Equal(t, "Food", decision.Category)
	assert.Equal(t, "1", decision.MatchedRuleID)
}
