package research

// Merge folds provider results into deduplicated records keyed by normalized
// URL, preserving first-seen order of distinct keys. A repeat observation by
// a provider already in Sources contributes nothing to the score; a new
// provider adds exactly 1. Longer snippet/content replace shorter ones and
// the first published date seen sticks.
func Merge(results []Result) []MergedResult {
	byKey := make(map[string]*MergedResult, len(results))
	order := make([]string, 0, len(results))

	for _, r := range results {
		key := NormalizeURL(r.URL)

		existing, ok := byKey[key]
		if !ok {
			byKey[key] = &MergedResult{
				URL:            r.URL,
				NormalizedURL:  key,
				Title:          r.Title,
				Snippet:        r.Snippet,
				Content:        r.Content,
				PublishedDate:  r.PublishedDate,
				Sources:        []string{r.Source},
				RelevanceScore: 1 + r.Score,
			}
			order = append(order, key)
			continue
		}

		if !containsSource(existing.Sources, r.Source) {
			existing.Sources = append(existing.Sources, r.Source)
			existing.RelevanceScore++
		}
		if len(r.Snippet) > len(existing.Snippet) {
			existing.Snippet = r.Snippet
		}
		if len(r.Content) > len(existing.Content) {
			existing.Content = r.Content
		}
		if existing.PublishedDate == "" && r.PublishedDate != "" {
			existing.PublishedDate = r.PublishedDate
		}
		if existing.Title == "" && r.Title != "" {
			existing.Title = r.Title
		}
	}

	merged := make([]MergedResult, 0, len(order))
	for _, key := range order {
		merged = append(merged, *byKey[key])
	}
	return merged
}

func containsSource(sources []string, source string) bool {
	for _, s := range sources {
		if s == source {
			return true
		}
	}
	return false
}
