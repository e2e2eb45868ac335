package research

import (
	"context"
	"fmt"
	"strings"
)

// Research depths and their round-1 result counts.
const (
	DepthStandard   = "standard"
	DepthDeep       = "deep"
	DepthExhaustive = "exhaustive"
)

type DeepResearchParams struct {
	Topic      string
	Depth      string // standard | deep | exhaustive
	FocusAreas []string
	Language   string
}

// DeepResearch runs up to three additive rounds. Round 1 is a broad parallel
// query sized by depth. Round 2 (deep and above) fans out per focus area,
// areas running concurrently, each a full three-provider round. Round 3
// (exhaustive) probes three fixed query variations concurrently; every round
// queries all three providers. Narrative synthesis accumulates separately
// from the ranked source listing and is prepended to the report.
func (s *Service) DeepResearch(ctx context.Context, p DeepResearchParams) string {
	s.log.Info("deep_research", logQuery(p.Topic))

	depth := p.Depth
	switch depth {
	case DepthStandard, DepthDeep, DepthExhaustive:
	default:
		depth = DepthStandard
	}

	round1 := s.searchRound(ctx, roundParams{
		query:      p.Topic,
		numResults: depthResultCount(depth),
		language:   p.Language,
	})

	all := round1.results
	errs := round1.errors
	var narratives []string
	if round1.synthesis != "" {
		narratives = append(narratives, round1.synthesis)
	}

	if (depth == DepthDeep || depth == DepthExhaustive) && len(p.FocusAreas) > 0 {
		queries := make([]string, len(p.FocusAreas))
		for i, area := range p.FocusAreas {
			queries[i] = p.Topic + " " + area
		}
		rounds := s.concurrentRounds(ctx, queries, p.Language)
		for i, r := range rounds {
			if r == nil {
				continue
			}
			all = append(all, r.results...)
			errs = append(errs, r.errors...)
			if r.synthesis != "" {
				narratives = append(narratives, fmt.Sprintf("**%s**\n%s", p.FocusAreas[i], r.synthesis))
			}
		}
	}

	if depth == DepthExhaustive {
		probes := []string{"latest developments", "case studies", "expert analysis"}
		queries := make([]string, len(probes))
		for i, probe := range probes {
			queries[i] = p.Topic + " " + probe
		}
		rounds := s.concurrentRounds(ctx, queries, p.Language)
		for i, r := range rounds {
			if r == nil {
				continue
			}
			all = append(all, r.results...)
			errs = append(errs, r.errors...)
			if r.synthesis != "" {
				narratives = append(narratives, fmt.Sprintf("**%s**\n%s", probes[i], r.synthesis))
			}
		}
	}

	ranked := Rank(Merge(all))

	sections := []string{
		FormatProviderStatus(round1.status),
		fmt.Sprintf("🔬 Deep research: %s (depth: %s)", p.Topic, depth),
	}
	if len(narratives) > 0 {
		sections = append(sections, strings.Join(narratives, "\n\n"))
	}
	sections = append(sections, FormatSearchResults(ranked, FormatOptions{}))
	if block := FormatErrors(errs); block != "" {
		sections = append(sections, block)
	}
	return strings.Join(sections, "\n\n")
}

// concurrentRounds runs one full three-provider round per query, all queries
// in flight at once.
func (s *Service) concurrentRounds(ctx context.Context, queries []string, language string) []*round {
	batch := BatchProcess(ctx, queries, len(queries), func(ctx context.Context, q string) (round, error) {
		return s.searchRound(ctx, roundParams{
			query:      q,
			numResults: 10,
			language:   language,
		}), nil
	})
	return batch.Results
}

func depthResultCount(depth string) int {
	switch depth {
	case DepthExhaustive:
		return 30
	case DepthDeep:
		return 20
	default:
		return 10
	}
}
