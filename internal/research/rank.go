package research

import "sort"

// Rank orders merged records by source coverage first, then relevance score,
// both descending. The sort is stable so equally-ranked records keep their
// first-seen order. This ordering is the system's only notion of relevance.
func Rank(results []MergedResult) []MergedResult {
	ranked := make([]MergedResult, len(results))
	copy(ranked, results)

	sort.SliceStable(ranked, func(i, j int) bool {
		if len(ranked[i].Sources) != len(ranked[j].Sources) {
			return len(ranked[i].Sources) > len(ranked[j].Sources)
		}
		return ranked[i].RelevanceScore > ranked[j].RelevanceScore
	})

	return ranked
}
