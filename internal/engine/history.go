package engine

import (
	"strings"

	"github.com/canadianinsights/northstar/internal/model"

	"github.com/agnivade/levenshtein"
)

// fuzzyThreshold is the minimum normalized similarity for a correction to
// count as a fuzzy history match when no containment match exists.
const fuzzyThreshold = 0.85

// bestCorrection picks the user correction that wins the history tier for
// the given normalized description, or nil if none matches.
//
// Containment matches (the stored pattern, normalized, is a substring of or
// equal to the description) are preferred. Only when none contain does the
// fuzzy pass run, comparing whole strings by edit distance. Within either
// pass the highest frequency wins, most recent lastUsedAt breaking ties.
func bestCorrection(corrections []model.UserCorrection, normalized string) *model.UserCorrection {
	if normalized == "" {
		return nil
	}

	var contained []model.UserCorrection
	for _, c := range corrections {
		pattern := Normalize(c.DescriptionPattern)
		if pattern == "" {
			continue
		}
		if strings.Contains(normalized, pattern) {
			contained = append(contained, c)
		}
	}
	if len(contained) > 0 {
		return pickMostFrequent(contained)
	}

	var fuzzy []model.UserCorrection
	for _, c := range corrections {
		pattern := Normalize(c.DescriptionPattern)
		if pattern == "" {
			continue
		}
		if similarity(normalized, pattern) >= fuzzyThreshold {
			fuzzy = append(fuzzy, c)
		}
	}
	if len(fuzzy) > 0 {
		return pickMostFrequent(fuzzy)
	}

	return nil
}

// similarity returns 1 minus the normalized Levenshtein distance between
// two strings, in [0, 1].
func similarity(a, b string) float64 {
	if a == b {
		return 1
	}
	longest := len(a)
	if len(b) > longest {
		longest = len(b)
	}
	if longest == 0 {
		return 1
	}
	dist := levenshtein.ComputeDistance(a, b)
	return 1 - float64(dist)/float64(longest)
}

func pickMostFrequent(corrections []model.UserCorrection) *model.UserCorrection {
	best := &corrections[0]
	for i := 1; i < len(corrections); i++ {
		c := &corrections[i]
		if c.Frequency > best.Frequency {
			best = c
			continue
		}
		if c.Frequency == best.Frequency && c.LastUsedAt.After(best.LastUsedAt) {
			best = c
		}
	}
	return best
}
