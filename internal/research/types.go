package research

import "strings"

// Result is a provider-native search hit normalized into the common shape
// right after the provider call returns. It is immutable and discarded after
// the merge.
type Result struct {
	URL           string
	Title         string
	Snippet       string
	Content       string
	PublishedDate string
	Source        string
	Score         float64
}

// MergedResult is one deduplicated record attributing every provider that
// returned it. Sources never contains duplicate tags and RelevanceScore only
// grows as providers contribute.
type MergedResult struct {
	URL            string
	NormalizedURL  string
	Title          string
	Snippet        string
	Content        string
	PublishedDate  string
	Sources        []string
	RelevanceScore float64
}

// SynthesisURL carries a long-form provider's narrative inside the unified
// result list. Such records rank and display like any other result but are
// excluded from URL-dependent downstream steps.
const SynthesisURL = "synthesis://perplexity"

// IsSyntheticURL reports whether a URL is an internal placeholder rather
// than a real web address.
func IsSyntheticURL(url string) bool {
	return strings.HasPrefix(url, "synthesis://")
}
