package catalog

import (
	"slices"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// sortRanks orders by edit distance, then by catalog position so equal matches stay in first-seen order.
func sortRanks(ranks fuzzy.Ranks) {
	slices.SortStableFunc(ranks, func(a, b fuzzy.Rank) int {
		if a.Distance != b.Distance {
			return a.Distance - b.Distance
		}
		return a.OriginalIndex - b.OriginalIndex
	})
}
