package model

import (
	"fmt"
	"time"
)

// MerchantRule maps a merchant's primary pattern, plus any alternate
// spellings seen in statements (OCR artifacts, abbreviations), to a
// category and label. "TIM HORTONS" and "TIMHORT" belong to one rule.
type MerchantRule struct {
	CreatedAt         time.Time
	UpdatedAt         time.Time
	PrimaryPattern    string
	Category          string
	Label             string
	AlternatePatterns []string
	ID                int64
	IsActive          bool
}

// Validate checks that the rule is well formed. Empty alternates are
// rejected here so a bad admin write fails loudly instead of producing a
// pattern that matches everything.
func (r *MerchantRule) Validate() error {
	if r.PrimaryPattern == "" {
		return fmt.Errorf("merchant rule: %w", ErrEmptyPattern)
	}
	if r.Category == "" {
		return fmt.Errorf("merchant rule %q: %w", r.PrimaryPattern, ErrEmptyCategory)
	}
	for _, alt := range r.AlternatePatterns {
		if alt == "" {
			return fmt.Errorf("merchant rule %q: alternate: %w", r.PrimaryPattern, ErrEmptyPattern)
		}
	}
	return nil
}

// Patterns returns the primary pattern followed by the alternates, in
// stored order. The cache relies on this ordering for stable tie-breaks.
func (r *MerchantRule) Patterns() []string {
	patterns := make([]string, 0, len(r.AlternatePatterns)+1)
	patterns = append(patterns, r.PrimaryPattern)
	patterns = append(patterns, r.AlternatePatterns...)
	return patterns
}
