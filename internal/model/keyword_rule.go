package model

import (
	"errors"
	"fmt"
	"time"
)

// RuleLanguage indicates which statement language a keyword targets.
type RuleLanguage string

const (
	// LanguageEnglish marks a keyword curated for English descriptions.
	LanguageEnglish RuleLanguage = "en"
	// LanguageFrench marks a keyword curated for French descriptions.
	LanguageFrench RuleLanguage = "fr"
	// LanguageBoth marks a keyword that applies to either language.
	LanguageBoth RuleLanguage = "both"
)

// Validation errors for rules.
var (
	ErrEmptyPattern    = errors.New("pattern cannot be empty")
	ErrEmptyCategory   = errors.New("category cannot be empty")
	ErrInvalidLanguage = errors.New("invalid rule language")
)

// KeywordRule maps a keyword substring to a category and label. Rules are
// curated through the admin surface; the engine only reads them.
type KeywordRule struct {
	CreatedAt time.Time
	UpdatedAt time.Time
	Keyword   string
	Category  string
	Label     string
	Language  RuleLanguage
	ID        int64
	IsActive  bool
}

// Validate checks that the rule is well formed.
func (r *KeywordRule) Validate() error {
	if r.Keyword == "" {
		return fmt.Errorf("keyword rule: %w", ErrEmptyPattern)
	}
	if r.Category == "" {
		return fmt.Errorf("keyword rule %q: %w", r.Keyword, ErrEmptyCategory)
	}
	switch r.Language {
	case LanguageEnglish, LanguageFrench, LanguageBoth:
		return nil
	default:
		return fmt.Errorf("keyword rule %q: %w: %q", r.Keyword, ErrInvalidLanguage, r.Language)
	}
}
