package research

import (
	"context"
	"fmt"
	"strings"
)

// mappedDomainCap bounds how many domains get a Firecrawl map pass.
const mappedDomainCap = 3

type SiteSearchParams struct {
	Query      string
	Domains    []string // required
	NumResults int
	MapSites   bool
}

// SiteSearch restricts the parallel round to the given domains. With
// MapSites set it additionally walks each domain's URL space via Firecrawl
// map and appends the discovered URLs.
func (s *Service) SiteSearch(ctx context.Context, p SiteSearchParams) string {
	s.log.Info("site_search", logQuery(p.Query))

	r := s.searchRound(ctx, roundParams{
		query:          p.Query,
		numResults:     clampCount(p.NumResults, s.cfg.Defaults.NumResults, maxNumResults),
		includeDomains: p.Domains,
	})

	ranked := Rank(Merge(r.results))
	errs := r.errors

	var mapSection string
	if p.MapSites {
		mapSection, errs = s.mapDomains(ctx, p.Domains, p.Query, errs)
	}

	title := fmt.Sprintf("Site search: %s on %s", p.Query, strings.Join(p.Domains, ", "))
	report := composeReport(title, r.status, ranked, errs, false)
	if mapSection != "" {
		report += "\n\n" + mapSection
	}
	return report
}

func (s *Service) mapDomains(ctx context.Context, domains []string, query string, errs []string) (string, []string) {
	if len(domains) > mappedDomainCap {
		domains = domains[:mappedDomainCap]
	}

	batch := BatchProcess(ctx, domains, mappedDomainCap, func(ctx context.Context, domain string) ([]string, error) {
		resp, err := s.firecrawl.Map(ctx, ensureScheme(domain), query, 20)
		if err != nil {
			return nil, err
		}
		return resp.Links, nil
	})

	var sb strings.Builder
	for i, links := range batch.Results {
		if links == nil || len(*links) == 0 {
			continue
		}
		sb.WriteString(fmt.Sprintf("🗺️ %s:\n", domains[i]))
		for _, link := range *links {
			sb.WriteString("  - " + link + "\n")
		}
	}

	for _, e := range batch.Errors {
		errs = append(errs, "[Firecrawl] map "+e)
	}

	if sb.Len() == 0 {
		return "", errs
	}
	return "Site maps:\n" + sb.String(), errs
}

func ensureScheme(domain string) string {
	if strings.Contains(domain, "://") {
		return domain
	}
	return "https://" + domain
}
