package research

import (
	"context"
	"fmt"
)

const maxNumResults = 50

type DeepSearchParams struct {
	Query          string
	NumResults     int
	Domains        []string
	ExcludeDomains []string
	Category       string
}

// DeepSearch is the single-shot workflow: one parallel round over all three
// providers, then merge, rank and report.
func (s *Service) DeepSearch(ctx context.Context, p DeepSearchParams) string {
	s.log.Info("deep_search", logQuery(p.Query))

	r := s.searchRound(ctx, roundParams{
		query:          p.Query,
		numResults:     clampCount(p.NumResults, s.cfg.Defaults.NumResults, maxNumResults),
		includeDomains: p.Domains,
		excludeDomains: p.ExcludeDomains,
		category:       p.Category,
	})

	ranked := Rank(Merge(r.results))
	return composeReport(fmt.Sprintf("Deep search: %s", p.Query), r.status, ranked, r.errors, false)
}
