package model

import (
	"errors"
	"testing"
)

func TestKeywordRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    KeywordRule
		wantErr error
	}{
		{
			name: "valid",
			rule: KeywordRule{Keyword: "GROCERY", Category: "Food", Language: LanguageBoth},
		},
		{
			name:    "empty keyword",
			rule:    KeywordRule{Category: "Food", Language: LanguageBoth},
			wantErr: ErrEmptyPattern,
		},
		{
			name:    "empty category",
			rule:    KeywordRule{Keyword: "GROCERY", Language: LanguageEnglish},
			wantErr: ErrEmptyCategory,
		},
		{
			name:    "bad language",
			rule:    KeywordRule{Keyword: "GROCERY", Category: "Food", Language: "de"},
			wantErr: ErrInvalidLanguage,
		},
		{
			name:    "missing language",
			rule:    KeywordRule{Keyword: "GROCERY", Category: "Food"},
			wantErr: ErrInvalidLanguage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerchantRuleValidate(t *testing.T) {
	tests := []struct {
		name    string
		rule    MerchantRule
		wantErr error
	}{
		{
			name: "valid with alternates",
			rule: MerchantRule{PrimaryPattern: "TIM HORTONS", AlternatePatterns: []string{"TIMHORT"}, Category: "Food"},
		},
		{
			name: "valid without alternates",
			rule: MerchantRule{PrimaryPattern: "STARBUCKS", Category: "Food"},
		},
		{
			name:    "empty primary",
			rule:    MerchantRule{Category: "Food"},
			wantErr: ErrEmptyPattern,
		},
		{
			name:    "empty category",
			rule:    MerchantRule{PrimaryPattern: "STARBUCKS"},
			wantErr: ErrEmptyCategory,
		},
		{
			name:    "empty alternate",
			rule:    MerchantRule{PrimaryPattern: "STARBUCKS", AlternatePatterns: []string{""}, Category: "Food"},
			wantErr: ErrEmptyPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.rule.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Errorf("Validate() error = %v, want nil", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("Validate() error = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestMerchantRulePatterns(t *testing.T) {
	rule := MerchantRule{
		PrimaryPattern:    "TIM HORTONS",
		AlternatePatterns: []string{"TIMHORT", "TIM HORTON"},
	}

	patterns := rule.Patterns()
	want := []string{"TIM HORTONS", "TIMHORT", "TIM HORTON"}
	if len(patterns) != len(want) {
		t.Fatalf("Patterns() returned %d entries, want %d", len(patterns), len(want))
	}
	for i := range want {
		if patterns[i] != want[i] {
			t.Errorf("Patterns()[%d] = %v, want %v", i, patterns[i], want[i])
		}
	}
}

func TestDecisionMatched(t *testing.T) {
	if (Decision{MatchedTier: TierNone}).Matched() {
		t.Error("TierNone decision should not report as matched")
	}
	if (Decision{}).Matched() {
		t.Error("zero-value decision should not report as matched")
	}
	if !(Decision{MatchedTier: TierKeyword, Category: "Food"}).Matched() {
		t.Error("keyword decision should report as matched")
	}
}
