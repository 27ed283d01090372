package engine

import (
	"testing"
	"time"

	"github.com/canadianinsights/northstar/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBestCorrectionContainment(t *testing.T) {
	corrections := []model.UserCorrection{
		{ID: "a", DescriptionPattern: "TIM HORTONS", CorrectedCategory: "Food", Frequency: 1},
		{ID: "b", DescriptionPattern: "AMAZON", CorrectedCategory: "Shopping", Frequency: 5},
	}

	best := bestCorrection(corrections, Normalize("TIM HORTONS #99"))
	require.NotNil(t, best)
	assert.Equal(t, "a", best.ID, "only the contained pattern matches, frequency is irrelevant")
}

func TestBestCorrectionExactEquality(t *testing.T) {
	corrections := []model.UserCorrection{
		{ID: "a", DescriptionPattern: "PAYPAL TRANSFER", CorrectedCategory: "Work", Frequency: 1},
	}

	best := bestCorrection(corrections, Normalize("PAYPAL TRANSFER"))
	require.NotNil(t, best)
	assert.Equal(t, "a", best.ID)
}

func TestBestCorrectionFrequencyWins(t *testing.T) {
	corrections := []model.UserCorrection{
		{ID: "low", DescriptionPattern: "UBER", CorrectedCategory: "Transport", Frequency: 2},
		{ID: "high", DescriptionPattern: "UBER EATS", CorrectedCategory: "Food", Frequency: 7},
	}

	best := bestCorrection(corrections, Normalize("UBER EATS TORONTO"))
	require.NotNil(t, best)
	assert.Equal(t, "high", best.ID)
}

func TestBestCorrectionRecencyTieBreak(t *testing.T) {
	now := time.Now()
	corrections := []model.UserCorrection{
		{ID: "older", DescriptionPattern: "SPOTIFY", CorrectedCategory: "Subscriptions", Frequency: 3, LastUsedAt: now.Add(-24 * time.Hour)},
		{ID: "newer", DescriptionPattern: "SPOTIFY AB", CorrectedCategory: "Personal", Frequency: 3, LastUsedAt: now},
	}

	best := bestCorrection(corrections, Normalize("SPOTIFY AB STOCKHOLM"))
	require.NotNil(t, best)
	assert.Equal(t, "newer", best.ID)
}

func TestBestCorrectionFuzzyFallback(t *testing.T) {
	corrections := []model.UserCorrection{
		// Not a substring of the description, but within edit distance of it.
		{ID: "fuzzy", DescriptionPattern: "TIMHORTONS#1234", CorrectedCategory: "Food", Frequency: 1},
	}

	best := bestCorrection(corrections, Normalize("TIMHORTONS#1239"))
	require.NotNil(t, best)
	assert.Equal(t, "fuzzy", best.ID)
}

func TestBestCorrectionFuzzyBelowThreshold(t *testing.T) {
	corrections := []model.UserCorrection{
		{ID: "far", DescriptionPattern: "COSTCO WHOLESALE", CorrectedCategory: "Shopping", Frequency: 9},
	}

	best := bestCorrection(corrections, Normalize("XKQZJ9283"))
	assert.Nil(t, best)
}

func TestBestCorrectionEmptyInputs(t *testing.T) {
	assert.Nil(t, bestCorrection(nil, "ANYTHING"))
	assert.Nil(t, bestCorrection([]model.UserCorrection{
		{ID: "a", DescriptionPattern: "RENT", Frequency: 1},
	}, ""))
	// A pattern that normalizes to empty never matches.
	assert.Nil(t, bestCorrection([]model.UserCorrection{
		{ID: "blank", DescriptionPattern: "   ", Frequency: 1},
	}, "RENT"))
}

func TestSimilarity(t *testing.T) {
	assert.Equal(t, 1.0, similarity("ABC", "ABC"))
	assert.Equal(t, 1.0, similarity("", ""))
	assert.InDelta(t, 0.75, similarity("ABCD", "ABCX"), 0.001)
	assert.Less(t, similarity("ABCD", "WXYZ"), 0.1)
}
