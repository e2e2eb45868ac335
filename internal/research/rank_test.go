package research

import "testing"

func TestRankSourceCountDominates(t *testing.T) {
	in := []MergedResult{
		{URL: "r1", Sources: []string{"exa"}, RelevanceScore: 1.9},
		{URL: "r2", Sources: []string{"exa", "firecrawl"}, RelevanceScore: 2},
		{URL: "r3", Sources: []string{"exa", "perplexity"}, RelevanceScore: 2},
		{URL: "r4", Sources: []string{"firecrawl"}, RelevanceScore: 1},
	}

	ranked := Rank(in)

	want := []string{"r2", "r3", "r1", "r4"}
	for i, w := range want {
		if ranked[i].URL != w {
			t.Fatalf("position %d: got %s, want %s (full order %+v)", i, ranked[i].URL, w, ranked)
		}
	}
}

func TestRankIsStableForTies(t *testing.T) {
	in := []MergedResult{
		{URL: "first", Sources: []string{"exa"}, RelevanceScore: 1},
		{URL: "second", Sources: []string{"firecrawl"}, RelevanceScore: 1},
		{URL: "third", Sources: []string{"perplexity"}, RelevanceScore: 1},
	}

	ranked := Rank(in)
	for i, name := range []string{"first", "second", "third"} {
		if ranked[i].URL != name {
			t.Fatalf("tie order changed: %+v", ranked)
		}
	}
}

func TestRankScoreBreaksTiesWithinSameCoverage(t *testing.T) {
	in := []MergedResult{
		{URL: "low", Sources: []string{"exa"}, RelevanceScore: 1.1},
		{URL: "high", Sources: []string{"exa"}, RelevanceScore: 1.8},
	}

	ranked := Rank(in)
	if ranked[0].URL != "high" {
		t.Fatalf("higher score should rank first: %+v", ranked)
	}
}

func TestRankDoesNotMutateInput(t *testing.T) {
	in := []MergedResult{
		{URL: "a", Sources: []string{"exa"}},
		{URL: "b", Sources: []string{"exa", "firecrawl"}},
	}
	Rank(in)
	if in[0].URL != "a" {
		t.Fatalf("input slice reordered")
	}
}
