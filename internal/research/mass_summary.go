package research

import (
	"context"
	"fmt"
	"strings"
)

const (
	maxMassSources     = 200
	backfillBatchSize  = 10
	synthesisCorpusCap = 8000
	massDisplayCap     = 50
)

type MassSummaryParams struct {
	Topic      string
	MinSources int
	MaxSources int
	Domains    []string
	DateFrom   string
	DateTo     string
}

// MassSummary collects sources at scale: several query variations per
// provider, URL-level dedup across everything, a batched second pass that
// backfills content for sources lacking a snippet, and a closing long-form
// synthesis over the collected snippet corpus.
func (s *Service) MassSummary(ctx context.Context, p MassSummaryParams) string {
	s.log.Info("mass_summary", logQuery(p.Topic))

	minSources := clampCount(p.MinSources, 100, maxMassSources)
	maxSources := clampCount(p.MaxSources, 150, maxMassSources)
	if maxSources < minSources {
		maxSources = minSources
	}

	variations := massVariations(p.Topic)
	var all []Result
	var errs []string
	var firstPassSynthesis string
	var status ProviderStatus

	// Variations run two at a time so one invocation cannot hold nine
	// provider calls in flight at once.
	batch := BatchProcess(ctx, variations, 2, func(ctx context.Context, q string) (round, error) {
		return s.searchRound(ctx, roundParams{
			query:          q,
			numResults:     25,
			includeDomains: p.Domains,
			dateFrom:       p.DateFrom,
			dateTo:         p.DateTo,
		}), nil
	})
	for i, r := range batch.Results {
		if r == nil {
			continue
		}
		if i == 0 {
			status = r.status
		}
		all = append(all, r.results...)
		errs = append(errs, r.errors...)
		if firstPassSynthesis == "" && r.synthesis != "" {
			firstPassSynthesis = r.synthesis
		}
	}

	merged := Merge(all)
	if len(merged) > maxSources {
		merged = merged[:maxSources]
	}
	if len(merged) < minSources {
		errs = append(errs, fmt.Sprintf("collected %d sources, below the requested minimum of %d", len(merged), minSources))
	}

	merged, errs = s.backfillContent(ctx, merged, errs)

	narrative := s.massSynthesis(ctx, p.Topic, merged, firstPassSynthesis, &errs)

	display := merged
	header := fmt.Sprintf("📊 Mass summary: %s (%d sources)", p.Topic, len(merged))
	if len(display) > massDisplayCap {
		display = display[:massDisplayCap]
		header += fmt.Sprintf("\nShowing the top %d of %d sources.", massDisplayCap, len(merged))
	}

	sections := []string{
		FormatProviderStatus(status),
		header,
		FormatSummary(narrative, display),
	}
	if block := FormatErrors(errs); block != "" {
		sections = append(sections, block)
	}
	return strings.Join(sections, "\n\n")
}

// backfillContent runs the batched second pass: Exa contents first,
// Firecrawl scrape as fallback, for every real URL lacking a snippet.
func (s *Service) backfillContent(ctx context.Context, merged []MergedResult, errs []string) ([]MergedResult, []string) {
	var missing []int
	for i, r := range merged {
		if r.Snippet == "" && !IsSyntheticURL(r.URL) {
			missing = append(missing, i)
		}
	}
	if len(missing) == 0 {
		return merged, errs
	}

	batch := BatchProcess(ctx, missing, backfillBatchSize, func(ctx context.Context, idx int) (string, error) {
		return s.fetchContent(ctx, merged[idx].URL)
	})

	for j, idx := range missing {
		if batch.Results[j] == nil {
			continue
		}
		text := *batch.Results[j]
		merged[idx].Snippet = truncate(text, snippetCap)
		if merged[idx].Content == "" {
			merged[idx].Content = text
		}
	}
	for _, e := range batch.Errors {
		errs = append(errs, "[content backfill] "+e)
	}
	return merged, errs
}

func (s *Service) fetchContent(ctx context.Context, url string) (string, error) {
	if resp, err := s.exa.Contents(ctx, []string{url}); err == nil && len(resp.Results) > 0 && resp.Results[0].Text != "" {
		return resp.Results[0].Text, nil
	}
	resp, err := s.firecrawl.Scrape(ctx, url, nil)
	if err != nil {
		return "", err
	}
	return resp.Data.Markdown, nil
}

// massSynthesis issues the closing long-form call over the snippet corpus,
// falling back to first-pass synthesis and finally a templated sentence.
func (s *Service) massSynthesis(ctx context.Context, topic string, merged []MergedResult, firstPass string, errs *[]string) string {
	var corpus strings.Builder
	for _, r := range merged {
		if r.Snippet == "" {
			continue
		}
		corpus.WriteString("- " + r.Snippet + "\n")
		if corpus.Len() > synthesisCorpusCap {
			break
		}
	}

	if corpus.Len() > 0 {
		prompt := fmt.Sprintf("Synthesize the key findings on %q from these source snippets:\n%s", topic, corpus.String())
		if answer, err := s.perplexity.Research(ctx, prompt, s.cfg.Defaults.Language); err == nil && answer.Text != "" {
			return answer.Text
		} else if err != nil {
			*errs = append(*errs, "[Perplexity] synthesis: "+err.Error())
		}
	}

	if firstPass != "" {
		return firstPass
	}
	return fmt.Sprintf("Collected %d sources on %q across three search providers.", len(merged), topic)
}

// massVariations derives the capped set of query probes for a topic.
func massVariations(topic string) []string {
	return []string{
		topic,
		topic + " overview",
		topic + " latest news",
		topic + " analysis",
		topic + " statistics",
	}
}
