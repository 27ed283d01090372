// Package engine implements the transaction auto-categorization engine: a
// priority-ordered pattern matcher over admin-curated keyword and merchant
// rules, fronted by a lazily rebuilt in-process pattern cache.
package engine

import (
	"strings"
	"unicode"
)

// Normalize canonicalizes a raw transaction description for matching. It
// upper-cases the input and strips every whitespace rune, so "TIM HORTONS"
// and "TIMHORTONS" compare equal. Patterns are normalized with the same
// function before matching, which is what makes matching space-insensitive.
func Normalize(raw string) string {
	var b strings.Builder
	b.Grow(len(raw))
	for _, r := range raw {
		if unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(unicode.ToUpper(r))
	}
	return b.String()
}
