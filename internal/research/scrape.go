package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/Agents-Store/openclaw-deepsearch/internal/provider"
)

const (
	maxScrapeURLs   = 20
	scrapeBatchSize = 5
	sectionCap      = 2000
)

type ScrapeParams struct {
	URLs          []string // required, capped at 20
	ExtractPrompt string
	ExtractSchema map[string]interface{}
	Formats       []string
}

// scrapeOutcome is the Firecrawl branch result: either per-URL scrapes or a
// structured extraction, depending on whether a prompt/schema was given.
type scrapeOutcome struct {
	contents  map[string]string
	extracted json.RawMessage
	warnings  []string
}

// ScrapeAndExtract analyzes an explicit URL list: Exa and Firecrawl fetch
// per-URL content in parallel while Perplexity produces a holistic analysis
// over the set, and the three outputs are concatenated.
func (s *Service) ScrapeAndExtract(ctx context.Context, p ScrapeParams) string {
	s.log.Info("scrape_and_extract", logQuery(strings.Join(p.URLs, ",")))

	urls := make([]string, 0, maxScrapeURLs)
	for _, u := range p.URLs {
		if strings.TrimSpace(u) == "" || IsSyntheticURL(u) {
			continue
		}
		urls = append(urls, u)
		if len(urls) == maxScrapeURLs {
			break
		}
	}
	if len(urls) == 0 {
		return "No results found."
	}

	res := RunTriple(ctx,
		Call[provider.ExaSearchResponse]{
			Name:    "Exa",
			Timeout: ExaTimeout,
			Run: byValue(func(ctx context.Context) (*provider.ExaSearchResponse, error) {
				return s.exa.Contents(ctx, urls)
			}),
		},
		Call[scrapeOutcome]{
			Name:    "Firecrawl",
			Timeout: FirecrawlTimeout,
			Run: func(ctx context.Context) (scrapeOutcome, error) {
				return s.firecrawlScrape(ctx, urls, p)
			},
		},
		Call[provider.PerplexityAnswer]{
			Name:    "Perplexity",
			Timeout: PerplexityTimeout,
			Run: byValue(func(ctx context.Context) (*provider.PerplexityAnswer, error) {
				prompt := fmt.Sprintf("Analyze these pages as a set and summarize what connects them: %s", strings.Join(urls, ", "))
				if p.ExtractPrompt != "" {
					prompt += ". Focus on: " + p.ExtractPrompt
				}
				return s.perplexity.Research(ctx, prompt, s.cfg.Defaults.Language)
			}),
		},
	)

	status := ProviderStatus{
		ExaOK:        res.Exa != nil,
		FirecrawlOK:  res.Firecrawl != nil,
		PerplexityOK: res.Perplexity != nil,
	}

	exaByURL := make(map[string]string)
	if res.Exa != nil {
		for _, r := range res.Exa.Results {
			exaByURL[NormalizeURL(r.URL)] = r.Text
		}
	}

	errs := res.Errors
	var fire scrapeOutcome
	if res.Firecrawl != nil {
		fire = *res.Firecrawl
		errs = append(errs, fire.warnings...)
	}

	var sb strings.Builder
	sb.WriteString(FormatProviderStatus(status))
	sb.WriteString(fmt.Sprintf("\n\n📑 Content from %d URLs\n", len(urls)))

	for _, u := range urls {
		sb.WriteString(fmt.Sprintf("\n## %s\n", u))
		key := NormalizeURL(u)
		wrote := false
		if text := exaByURL[key]; text != "" {
			sb.WriteString(truncate(text, sectionCap) + "\n")
			wrote = true
		}
		if md := fire.contents[key]; md != "" {
			sb.WriteString(truncate(md, sectionCap) + "\n")
			wrote = true
		}
		if !wrote {
			sb.WriteString("(no content retrieved)\n")
		}
	}

	if len(fire.extracted) > 0 {
		sb.WriteString("\n🧩 Extracted data:\n")
		sb.WriteString(prettyJSON(fire.extracted) + "\n")
	}

	if res.Perplexity != nil && res.Perplexity.Text != "" {
		sb.WriteString("\n💡 Holistic analysis:\n")
		sb.WriteString(res.Perplexity.Text + "\n")
	}

	if block := FormatErrors(errs); block != "" {
		sb.WriteString("\n" + block)
	}

	return sb.String()
}

func (s *Service) firecrawlScrape(ctx context.Context, urls []string, p ScrapeParams) (scrapeOutcome, error) {
	if p.ExtractPrompt != "" || p.ExtractSchema != nil {
		resp, err := s.firecrawl.Extract(ctx, urls, p.ExtractPrompt, p.ExtractSchema)
		if err != nil {
			return scrapeOutcome{}, err
		}
		return scrapeOutcome{extracted: resp.Data}, nil
	}

	batch := BatchProcess(ctx, urls, scrapeBatchSize, func(ctx context.Context, u string) (string, error) {
		resp, err := s.firecrawl.Scrape(ctx, u, p.Formats)
		if err != nil {
			return "", err
		}
		return resp.Data.Markdown, nil
	})

	out := scrapeOutcome{contents: make(map[string]string, len(urls))}
	for i, content := range batch.Results {
		if content != nil && *content != "" {
			out.contents[NormalizeURL(urls[i])] = *content
		}
	}
	for _, e := range batch.Errors {
		out.warnings = append(out.warnings, "[Firecrawl] scrape "+e)
	}
	return out, nil
}

func prettyJSON(data json.RawMessage) string {
	var buf strings.Builder
	var v interface{}
	if err := json.Unmarshal(data, &v); err != nil {
		return string(data)
	}
	enc := json.NewEncoder(&buf)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return string(data)
	}
	return strings.TrimRight(buf.String(), "\n")
}
