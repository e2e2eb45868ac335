package research

import (
	"reflect"
	"testing"

	"github.com/Agents-Store/openclaw-deepsearch/internal/provider"
)

func TestMergeAccumulatesSourcesAcrossURLVariants(t *testing.T) {
	merged := Merge([]Result{
		{URL: "https://a.com/x", Source: provider.NameExa},
		{URL: "http://www.a.com/x/", Source: provider.NameFirecrawl},
	})

	if len(merged) != 1 {
		t.Fatalf("expected 1 merged record, got %d", len(merged))
	}
	got := merged[0]
	if !reflect.DeepEqual(got.Sources, []string{provider.NameExa, provider.NameFirecrawl}) {
		t.Fatalf("unexpected sources: %v", got.Sources)
	}
	if got.RelevanceScore != 2 {
		t.Fatalf("expected score 2, got %v", got.RelevanceScore)
	}
	if got.URL != "https://a.com/x" {
		t.Fatalf("display URL should be the first-seen form, got %q", got.URL)
	}
}

func TestMergeIgnoresRepeatObservationsBySameSource(t *testing.T) {
	merged := Merge([]Result{
		{URL: "https://a.com/x", Source: provider.NameExa, Score: 0.5},
		{URL: "https://a.com/x", Source: provider.NameExa, Score: 0.9},
	})

	if len(merged) != 1 {
		t.Fatalf("expected 1 merged record, got %d", len(merged))
	}
	if merged[0].RelevanceScore != 1.5 {
		t.Fatalf("repeat observation must not add score: got %v", merged[0].RelevanceScore)
	}
	if len(merged[0].Sources) != 1 {
		t.Fatalf("sources must stay unique: %v", merged[0].Sources)
	}
}

func TestMergePrefersLongerSnippetAndContent(t *testing.T) {
	merged := Merge([]Result{
		{URL: "https://a.com/x", Source: provider.NameExa, Snippet: "short", Content: "longer content text"},
		{URL: "https://a.com/x", Source: provider.NameFirecrawl, Snippet: "a much longer snippet", Content: "tiny"},
	})

	if merged[0].Snippet != "a much longer snippet" {
		t.Fatalf("unexpected snippet: %q", merged[0].Snippet)
	}
	if merged[0].Content != "longer content text" {
		t.Fatalf("unexpected content: %q", merged[0].Content)
	}
}

func TestMergeFillsPublishedDateOnlyWhenAbsent(t *testing.T) {
	merged := Merge([]Result{
		{URL: "https://a.com/x", Source: provider.NameExa},
		{URL: "https://a.com/x", Source: provider.NameFirecrawl, PublishedDate: "2024-01-02"},
		{URL: "https://a.com/x", Source: provider.NamePerplexity, PublishedDate: "2099-01-01"},
	})

	if merged[0].PublishedDate != "2024-01-02" {
		t.Fatalf("first supplied date should stick: %q", merged[0].PublishedDate)
	}
}

func TestMergeKeepsFirstSeenOrder(t *testing.T) {
	merged := Merge([]Result{
		{URL: "https://b.com", Source: provider.NameExa},
		{URL: "https://a.com", Source: provider.NameExa},
		{URL: "https://b.com/", Source: provider.NameFirecrawl},
	})

	if len(merged) != 2 || merged[0].NormalizedURL != "b.com" || merged[1].NormalizedURL != "a.com" {
		t.Fatalf("unexpected order: %+v", merged)
	}
}
