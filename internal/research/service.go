package research

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/Agents-Store/openclaw-deepsearch/internal/config"
	"github.com/Agents-Store/openclaw-deepsearch/internal/provider"
)

// Service composes the three provider clients into the research workflows.
// Every invocation is stateless and self-contained; the service holds only
// read-only collaborators. Workflow methods return a text report and never
// an error: provider failure degrades into warning lines inside the report.
type Service struct {
	exa        *provider.ExaClient
	firecrawl  *provider.FirecrawlClient
	perplexity *provider.PerplexityClient
	cfg        *config.Config
	log        *zap.Logger
}

func NewService(cfg *config.Config, log *zap.Logger) *Service {
	return &Service{
		exa:        provider.NewExaClient(cfg.Providers.Exa, log.Named("exa")),
		firecrawl:  provider.NewFirecrawlClient(cfg.Providers.Firecrawl, log.Named("firecrawl")),
		perplexity: provider.NewPerplexityClient(cfg.Providers.Perplexity, log.Named("perplexity")),
		cfg:        cfg,
		log:        log,
	}
}

// roundParams describes one three-provider search round. The same common
// query and filters are translated into each provider's native shape.
type roundParams struct {
	query          string
	numResults     int
	includeDomains []string
	excludeDomains []string
	category       string
	dateFrom       string // YYYY-MM-DD
	dateTo         string // YYYY-MM-DD
	language       string
	prompt         string // perplexity prompt; defaults to query
}

// round is the settled outcome of one parallel search round.
type round struct {
	results   []Result
	synthesis string
	errors    []string
	status    ProviderStatus
}

// searchRound fans the query out to all three providers under the engine's
// per-provider timeouts and normalizes whatever came back.
func (s *Service) searchRound(ctx context.Context, p roundParams) round {
	numResults := p.numResults
	if numResults <= 0 {
		numResults = s.cfg.Defaults.NumResults
	}

	prompt := p.prompt
	if prompt == "" {
		prompt = s.perplexityPrompt(p)
	}
	language := p.language
	if language == "" {
		language = s.cfg.Defaults.Language
	}

	res := RunTriple(ctx,
		Call[provider.ExaSearchResponse]{
			Name:    "Exa",
			Timeout: ExaTimeout,
			Run: byValue(func(ctx context.Context) (*provider.ExaSearchResponse, error) {
				return s.exa.Search(ctx, provider.ExaSearchRequest{
					Query:              p.query,
					NumResults:         numResults,
					IncludeDomains:     p.includeDomains,
					ExcludeDomains:     p.excludeDomains,
					Category:           p.category,
					StartPublishedDate: isoDate(p.dateFrom),
					EndPublishedDate:   isoDate(p.dateTo),
				})
			}),
		},
		Call[provider.FirecrawlSearchResponse]{
			Name:    "Firecrawl",
			Timeout: FirecrawlTimeout,
			Run: byValue(func(ctx context.Context) (*provider.FirecrawlSearchResponse, error) {
				return s.firecrawl.Search(ctx, provider.FirecrawlSearchRequest{
					Query: firecrawlQuery(p.query, p.includeDomains, p.excludeDomains),
					Limit: numResults,
					TBS:   firecrawlTBS(p.dateFrom, p.dateTo),
				})
			}),
		},
		Call[provider.PerplexityAnswer]{
			Name:    "Perplexity",
			Timeout: PerplexityTimeout,
			Run: byValue(func(ctx context.Context) (*provider.PerplexityAnswer, error) {
				return s.perplexity.Research(ctx, prompt, language)
			}),
		},
	)

	r := round{errors: res.Errors}
	r.status = ProviderStatus{
		ExaOK:        res.Exa != nil,
		FirecrawlOK:  res.Firecrawl != nil,
		PerplexityOK: res.Perplexity != nil,
	}

	if res.Exa != nil {
		r.results = append(r.results, exaResults(*res.Exa)...)
	}
	if res.Firecrawl != nil {
		r.results = append(r.results, firecrawlResults(*res.Firecrawl)...)
	}
	if res.Perplexity != nil {
		answer := *res.Perplexity
		r.synthesis = answer.Text
		r.results = append(r.results, perplexityResults(answer)...)
	}

	return r
}

func (s *Service) perplexityPrompt(p roundParams) string {
	prompt := p.query
	if len(p.includeDomains) > 0 {
		prompt += ". Only consider these sites: " + strings.Join(p.includeDomains, ", ")
	}
	if len(p.excludeDomains) > 0 {
		prompt += ". Ignore these sites: " + strings.Join(p.excludeDomains, ", ")
	}
	if p.dateFrom != "" || p.dateTo != "" {
		prompt += fmt.Sprintf(". Only consider sources published between %s and %s", orAny(p.dateFrom), orAny(p.dateTo))
	}
	return prompt
}

// Adapters: provider-native shapes → the common Result, tagged by source.

func exaResults(resp provider.ExaSearchResponse) []Result {
	results := make([]Result, 0, len(resp.Results))
	for _, r := range resp.Results {
		results = append(results, Result{
			URL:           r.URL,
			Title:         r.Title,
			Snippet:       truncate(r.Text, snippetCap),
			Content:       r.Text,
			PublishedDate: shortDate(r.PublishedDate),
			Source:        provider.NameExa,
			Score:         r.Score,
		})
	}
	return results
}

func firecrawlResults(resp provider.FirecrawlSearchResponse) []Result {
	results := make([]Result, 0, len(resp.Data))
	for _, r := range resp.Data {
		results = append(results, Result{
			URL:     r.URL,
			Title:   r.Title,
			Snippet: r.Description,
			Content: r.Markdown,
			Source:  provider.NameFirecrawl,
		})
	}
	return results
}

// perplexityResults turns the narrative into a synthetic record so it ranks
// and displays with the rest, and each citation into a plain record.
func perplexityResults(answer provider.PerplexityAnswer) []Result {
	results := make([]Result, 0, len(answer.Citations)+1)
	if answer.Text != "" {
		results = append(results, Result{
			URL:     SynthesisURL,
			Title:   "Perplexity analysis",
			Snippet: truncate(answer.Text, snippetCap),
			Content: answer.Text,
			Source:  provider.NamePerplexity,
		})
	}
	for _, c := range answer.Citations {
		results = append(results, Result{
			URL:    c,
			Source: provider.NamePerplexity,
		})
	}
	return results
}

// composeReport glues status line, result list and warning block together.
func composeReport(title string, status ProviderStatus, results []MergedResult, errs []string, showContent bool) string {
	sections := []string{
		FormatProviderStatus(status),
		FormatSearchResults(results, FormatOptions{Title: title, ShowContent: showContent}),
	}
	if block := FormatErrors(errs); block != "" {
		sections = append(sections, block)
	}
	return strings.Join(sections, "\n\n")
}

// firecrawlQuery folds domain filters into search operators since the
// Firecrawl search API has no native include/exclude parameters.
func firecrawlQuery(query string, include, exclude []string) string {
	var sb strings.Builder
	sb.WriteString(query)
	if len(include) > 0 {
		parts := make([]string, len(include))
		for i, d := range include {
			parts[i] = "site:" + d
		}
		sb.WriteString(" (" + strings.Join(parts, " OR ") + ")")
	}
	for _, d := range exclude {
		sb.WriteString(" -site:" + d)
	}
	return sb.String()
}

// firecrawlTBS builds the date-range restriction parameter. Input dates are
// YYYY-MM-DD; the parameter wants MM/DD/YYYY.
func firecrawlTBS(from, to string) string {
	if from == "" && to == "" {
		return ""
	}
	parts := []string{"cdr:1"}
	if d := usDate(from); d != "" {
		parts = append(parts, "cd_min:"+d)
	}
	if d := usDate(to); d != "" {
		parts = append(parts, "cd_max:"+d)
	}
	return strings.Join(parts, ",")
}

func usDate(iso string) string {
	segs := strings.SplitN(iso, "-", 3)
	if len(segs) != 3 {
		return ""
	}
	return segs[1] + "/" + segs[2] + "/" + segs[0]
}

// isoDate widens YYYY-MM-DD into the RFC3339 instant Exa expects.
func isoDate(d string) string {
	if d == "" {
		return ""
	}
	return d + "T00:00:00.000Z"
}

// shortDate trims a provider timestamp down to its date part for display.
func shortDate(ts string) string {
	if len(ts) > 10 {
		return ts[:10]
	}
	return ts
}

func orAny(d string) string {
	if d == "" {
		return "any date"
	}
	return d
}

// clampCount applies default and documented maximum to a result-count
// parameter.
func clampCount(v, def, max int) int {
	if v <= 0 {
		return def
	}
	if v > max {
		return max
	}
	return v
}

func logQuery(q string) zap.Field {
	return zap.String("query", q)
}

// realURLs filters synthetic placeholders out of a ranked list for
// URL-dependent downstream steps.
func realURLs(results []MergedResult, limit int) []string {
	urls := make([]string, 0, limit)
	for _, r := range results {
		if IsSyntheticURL(r.URL) {
			continue
		}
		urls = append(urls, r.URL)
		if len(urls) == limit {
			break
		}
	}
	return urls
}
