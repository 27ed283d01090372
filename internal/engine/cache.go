package engine

import (
	"context"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/canadianinsights/northstar/internal/common"
	"github.com/canadianinsights/northstar/internal/model"
	"github.com/canadianinsights/northstar/internal/service"
)

// merchantPattern is one normalized pattern (primary or alternate) mapped
// back to its owning rule's decision fields.
type merchantPattern struct {
	pattern  string
	category string
	label    string
	ruleID   int64
}

// keywordPattern is one normalized keyword mapped to its rule's decision fields.
type keywordPattern struct {
	keyword string
	label   string
	ruleID  int64
}

// keywordBucket holds the keywords of a single category. Buckets are
// ordered by the fixed category priority list.
type keywordBucket struct {
	category string
	keywords []keywordPattern
}

// Snapshot is an immutable point-in-time copy of all active rules,
// partitioned for the merchant and keyword tiers. A snapshot is never
// mutated after Build returns it; the cache swaps whole snapshots.
type Snapshot struct {
	merchants []merchantPattern
	buckets   []keywordBucket
	version   uint64
}

// MatchMerchant tests the normalized description against every merchant
// pattern in insertion order (rule ID ascending, primary pattern before
// alternates within a rule) and returns the first containment match.
func (s *Snapshot) MatchMerchant(normalized string) (model.Decision, bool) {
	for _, m := range s.merchants {
		if strings.Contains(normalized, m.pattern) {
			return model.Decision{
				Category:      m.category,
				Label:         m.label,
				MatchedTier:   model.TierMerchant,
				MatchedRuleID: formatRuleID(m.ruleID),
			}, true
		}
	}
	return model.Decision{}, false
}

// MatchKeyword walks the category buckets in priority order and returns the
// first keyword contained in the normalized description. A match in an
// earlier bucket always beats any match in a later one.
func (s *Snapshot) MatchKeyword(normalized string) (model.Decision, bool) {
	for _, bucket := range s.buckets {
		for _, k := range bucket.keywords {
			if strings.Contains(normalized, k.keyword) {
				return model.Decision{
					Category:      bucket.category,
					Label:         k.label,
					MatchedTier:   model.TierKeyword,
					MatchedRuleID: formatRuleID(k.ruleID),
				}, true
			}
		}
	}
	return model.Decision{}, false
}

// Version returns the invalidation generation this snapshot was built under.
func (s *Snapshot) Version() uint64 {
	return s.version
}

// PatternCache holds the current rule snapshot and rebuilds it lazily after
// an invalidation. One instance is constructed per process and injected
// into the engine; it is safe for concurrent use.
type PatternCache struct {
	store      service.RuleReader
	snapshot   atomic.Pointer[Snapshot]
	generation atomic.Uint64
	rebuildMu  sync.Mutex
	rebuilds   atomic.Uint64
}

// NewPatternCache creates a cache over the given rule store. The first Get
// performs the initial build.
func NewPatternCache(store service.RuleReader) *PatternCache {
	return &PatternCache{store: store}
}

// Invalidate marks the current snapshot stale. It never blocks and never
// rebuilds; the next Get pays for the rebuild.
func (c *PatternCache) Invalidate() {
	c.generation.Add(1)
	slog.Debug("pattern cache invalidated", "generation", c.generation.Load())
}

// Get returns the current snapshot, rebuilding first if the cache is stale.
// Concurrent callers hitting a stale cache collapse into a single rebuild;
// the rest block on the mutex and then observe the fresh snapshot.
//
// If a rebuild fails and a prior snapshot exists, the prior snapshot is
// served and the failure logged; the cache stays stale so a later Get
// retries. A cold-start failure is returned to the caller.
func (c *PatternCache) Get(ctx context.Context) (*Snapshot, error) {
	if snap := c.current(); snap != nil {
		return snap, nil
	}

	c.rebuildMu.Lock()
	defer c.rebuildMu.Unlock()

	// Another caller may have rebuilt while we waited on the lock.
	if snap := c.current(); snap != nil {
		return snap, nil
	}

	// Stamp the generation before reading the store: an invalidation that
	// lands mid-build leaves the new snapshot already stale, and the next
	// Get rebuilds again with the fresher data.
	gen := c.generation.Load()

	snap, err := c.build(ctx, gen)
	if err != nil {
		if prev := c.snapshot.Load(); prev != nil {
			common.LogError(err, "pattern cache rebuild failed, serving previous snapshot", common.Fields{
				"generation":       gen,
				"snapshot_version": prev.version,
			})
			return prev, nil
		}
		return nil, err
	}

	c.snapshot.Store(snap)
	c.rebuilds.Add(1)
	slog.Debug("pattern cache rebuilt",
		"generation", gen,
		"merchant_patterns", len(snap.merchants),
		"keyword_buckets", len(snap.buckets))
	return snap, nil
}

// current returns the snapshot if it matches the latest generation.
func (c *PatternCache) current() *Snapshot {
	snap := c.snapshot.Load()
	if snap != nil && snap.version == c.generation.Load() {
		return snap
	}
	return nil
}

// RebuildCount returns how many rebuilds have completed. Used by tests to
// verify the single-flight guarantee.
func (c *PatternCache) RebuildCount() uint64 {
	return c.rebuilds.Load()
}

// build reads all active rules and assembles a fresh snapshot. Malformed
// rows (empty pattern after normalization) are skipped with a warning, not
// fatal to the build.
func (c *PatternCache) build(ctx context.Context, gen uint64) (*Snapshot, error) {
	merchants, err := c.store.ListActiveMerchants(ctx)
	if err != nil {
		return nil, common.NewStoreError("list active merchants", err)
	}

	keywords, err := c.store.ListActiveKeywords(ctx)
	if err != nil {
		return nil, common.NewStoreError("list active keywords", err)
	}

	snap := &Snapshot{version: gen}

	for _, rule := range merchants {
		for _, raw := range rule.Patterns() {
			pattern := Normalize(raw)
			if pattern == "" {
				slog.Warn("skipping merchant pattern with empty normalized form",
					"rule_id", rule.ID, "pattern", raw)
				continue
			}
			snap.merchants = append(snap.merchants, merchantPattern{
				pattern:  pattern,
				category: rule.Category,
				label:    rule.Label,
				ruleID:   rule.ID,
			})
		}
	}

	byCategory := make(map[string][]keywordPattern)
	for _, rule := range keywords {
		keyword := Normalize(rule.Keyword)
		if keyword == "" {
			slog.Warn("skipping keyword rule with empty normalized form",
				"rule_id", rule.ID, "keyword", rule.Keyword)
			continue
		}
		byCategory[rule.Category] = append(byCategory[rule.Category], keywordPattern{
			keyword: keyword,
			label:   rule.Label,
			ruleID:  rule.ID,
		})
	}

	snap.buckets = orderBuckets(byCategory)

	return snap, nil
}

// orderBuckets lays out category buckets in the fixed priority order, with
// any category outside the list appended after it in name order.
func orderBuckets(byCategory map[string][]keywordPattern) []keywordBucket {
	buckets := make([]keywordBucket, 0, len(byCategory))

	for _, category := range model.CategoryPriority {
		if keywords, ok := byCategory[category]; ok {
			buckets = append(buckets, keywordBucket{category: category, keywords: keywords})
		}
	}

	var extra []string
	for category := range byCategory {
		if _, listed := model.PriorityRank(category); !listed {
			extra = append(extra, category)
		}
	}
	sort.Strings(extra)
	for _, category := range extra {
		buckets = append(buckets, keywordBucket{category: category, keywords: byCategory[category]})
	}

	return buckets
}
