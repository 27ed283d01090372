package engine

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/canadianinsights/northstar/internal/common"
	"github.com/canadianinsights/northstar/internal/model"
	"github.com/canadianinsights/northstar/internal/service"
)

// Engine categorizes transaction descriptions with the three-tier decision
// procedure: user history, then merchant patterns, then keywords in
// category-priority order. First match wins; there is no scoring.
type Engine struct {
	corrections service.CorrectionReader
	cache       *PatternCache
}

// New creates an engine over the given correction store and pattern cache.
// The cache is owned by the caller and constructed once per process.
func New(corrections service.CorrectionReader, cache *PatternCache) *Engine {
	return &Engine{
		corrections: corrections,
		cache:       cache,
	}
}

// Categorize assigns a category and label to a raw transaction description
// for the given user. It always returns a complete decision (possibly
// TierNone) or a store error; never a partial result.
func (e *Engine) Categorize(ctx context.Context, userID, rawDescription string) (model.Decision, error) {
	normalized := Normalize(rawDescription)

	// An empty description can never contain a pattern.
	if normalized == "" {
		return noMatch(), nil
	}

	if userID != "" {
		corrections, err := e.corrections.ListCorrections(ctx, userID)
		if err != nil {
			return model.Decision{}, common.NewStoreError("list corrections", err)
		}
		if best := bestCorrection(corrections, normalized); best != nil {
			slog.Debug("history tier match",
				"user_id", userID, "pattern", best.DescriptionPattern, "category", best.CorrectedCategory)
			return model.Decision{
				Category:      best.CorrectedCategory,
				Label:         best.CorrectedLabel,
				MatchedTier:   model.TierUserHistory,
				MatchedRuleID: best.ID,
			}, nil
		}
	}

	snap, err := e.cache.Get(ctx)
	if err != nil {
		return model.Decision{}, err
	}

	if decision, ok := snap.MatchMerchant(normalized); ok {
		return decision, nil
	}

	if decision, ok := snap.MatchKeyword(normalized); ok {
		return decision, nil
	}

	return noMatch(), nil
}

// InvalidatePatternCache marks the pattern cache stale. Exposed for callers
// outside the admin write path (one-off scripts, tests).
func (e *Engine) InvalidatePatternCache() {
	e.cache.Invalidate()
}

func noMatch() model.Decision {
	return model.Decision{MatchedTier: model.TierNone}
}

func formatRuleID(id int64) string {
	return strconv.FormatInt(id, 10)
}
