package model

// MatchTier identifies which tier of the decision procedure produced a
// categorization.
type MatchTier string

const (
	// TierUserHistory means a prior user correction matched.
	TierUserHistory MatchTier = "user_history"
	// TierMerchant means a merchant pattern (primary or alternate) matched.
	TierMerchant MatchTier = "merchant"
	// TierKeyword means a keyword matched in a category bucket.
	TierKeyword MatchTier = "keyword"
	// TierNone means no tier matched.
	TierNone MatchTier = "none"
)

// Decision is the engine's output for a single description. Category and
// Label are empty when MatchedTier is TierNone. MatchedRuleID is the rule
// or correction that produced the match, empty for TierNone.
type Decision struct {
	Category      string    `json:"category,omitempty"`
	Label         string    `json:"label,omitempty"`
	MatchedTier   MatchTier `json:"matched_tier"`
	MatchedRuleID string    `json:"matched_rule_id,omitempty"`
}

// Matched reports whether any tier produced a category.
func (d Decision) Matched() bool {
	return d.MatchedTier != TierNone && d.MatchedTier != ""
}
