package research

import (
	"context"
	"fmt"
)

type DateSearchParams struct {
	Query      string
	DateFrom   string // YYYY-MM-DD, required
	DateTo     string // YYYY-MM-DD, required
	Domains    []string
	NumResults int
}

// DateSearch restricts a single-round search to a publication date window,
// translated into each provider's native filter.
func (s *Service) DateSearch(ctx context.Context, p DateSearchParams) string {
	s.log.Info("date_search", logQuery(p.Query))

	r := s.searchRound(ctx, roundParams{
		query:          p.Query,
		numResults:     clampCount(p.NumResults, s.cfg.Defaults.NumResults, maxNumResults),
		includeDomains: p.Domains,
		dateFrom:       p.DateFrom,
		dateTo:         p.DateTo,
	})

	ranked := Rank(Merge(r.results))
	title := fmt.Sprintf("Date-filtered search: %s (%s to %s)", p.Query, orAny(p.DateFrom), orAny(p.DateTo))
	return composeReport(title, r.status, ranked, r.errors, false)
}
