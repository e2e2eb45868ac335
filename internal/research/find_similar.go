package research

import (
	"context"
	"fmt"

	"github.com/Agents-Store/openclaw-deepsearch/internal/provider"
)

type FindSimilarParams struct {
	URL            string // required
	NumResults     int
	ExcludeDomains []string
}

// FindSimilar looks for pages resembling the given URL. Exa has a native
// similarity operation; the other two approximate it with a seeded query.
// The input URL itself never appears in the output.
func (s *Service) FindSimilar(ctx context.Context, p FindSimilarParams) string {
	s.log.Info("find_similar", logQuery(p.URL))

	num := clampCount(p.NumResults, s.cfg.Defaults.NumResults, maxNumResults)

	res := RunTriple(ctx,
		Call[provider.ExaSearchResponse]{
			Name:    "Exa",
			Timeout: ExaTimeout,
			Run: byValue(func(ctx context.Context) (*provider.ExaSearchResponse, error) {
				return s.exa.FindSimilar(ctx, p.URL, num, p.ExcludeDomains)
			}),
		},
		Call[provider.FirecrawlSearchResponse]{
			Name:    "Firecrawl",
			Timeout: FirecrawlTimeout,
			Run: byValue(func(ctx context.Context) (*provider.FirecrawlSearchResponse, error) {
				return s.firecrawl.Search(ctx, provider.FirecrawlSearchRequest{
					Query: firecrawlQuery("related:"+p.URL, nil, p.ExcludeDomains),
					Limit: num,
				})
			}),
		},
		Call[provider.PerplexityAnswer]{
			Name:    "Perplexity",
			Timeout: PerplexityTimeout,
			Run: byValue(func(ctx context.Context) (*provider.PerplexityAnswer, error) {
				prompt := fmt.Sprintf("List web pages covering the same subject as %s, with a short note on each.", p.URL)
				return s.perplexity.Research(ctx, prompt, s.cfg.Defaults.Language)
			}),
		},
	)

	status := ProviderStatus{
		ExaOK:        res.Exa != nil,
		FirecrawlOK:  res.Firecrawl != nil,
		PerplexityOK: res.Perplexity != nil,
	}

	var results []Result
	if res.Exa != nil {
		results = append(results, exaResults(*res.Exa)...)
	}
	if res.Firecrawl != nil {
		results = append(results, firecrawlResults(*res.Firecrawl)...)
	}
	if res.Perplexity != nil {
		results = append(results, perplexityResults(*res.Perplexity)...)
	}

	selfKey := NormalizeURL(p.URL)
	ranked := make([]MergedResult, 0)
	for _, r := range Rank(Merge(results)) {
		if r.NormalizedURL == selfKey {
			continue
		}
		ranked = append(ranked, r)
	}

	title := fmt.Sprintf("Pages similar to %s", p.URL)
	return composeReport(title, status, ranked, res.Errors, false)
}
