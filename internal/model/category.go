// Package model defines the core domain types for the categorization engine.
package model

// CategoryPriority is the fixed ordering used by the keyword tier. When a
// description matches keywords in more than one category, the category that
// appears earlier in this list wins. Categories not listed here sort after
// it, alphabetically, so iteration order stays stable across rebuilds.
var CategoryPriority = []string{
	"Housing",
	"Bills",
	"Subscriptions",
	"Food",
	"Travel",
	"Health",
	"Transport",
	"Education",
	"Personal",
	"Shopping",
	"Work",
}

// priorityRanks is built once from CategoryPriority.
var priorityRanks = func() map[string]int {
	ranks := make(map[string]int, len(CategoryPriority))
	for i, name := range CategoryPriority {
		ranks[name] = i
	}
	return ranks
}()

// PriorityRank returns the position of a category in the fixed priority
// list, and whether the category is listed at all. Unlisted categories rank
// after every listed one.
func PriorityRank(category string) (int, bool) {
	rank, ok := priorityRanks[category]
	return rank, ok
}
