package research

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Agents-Store/openclaw-deepsearch/internal/provider"
)

// Display caps keep reports readable when providers return whole pages.
const (
	snippetCap = 300
	contentCap = 1500
	cellCap    = 80
)

type FormatOptions struct {
	Title       string
	ShowContent bool
}

// ProviderStatus is the per-provider availability summary shown ahead of the
// main report.
type ProviderStatus struct {
	ExaOK        bool
	FirecrawlOK  bool
	PerplexityOK bool
}

func FormatProviderStatus(status ProviderStatus) string {
	mark := func(ok bool) string {
		if ok {
			return "ok"
		}
		return "failed"
	}
	return fmt.Sprintf("📡 Providers: Exa: %s | Firecrawl: %s | Perplexity: %s",
		mark(status.ExaOK), mark(status.FirecrawlOK), mark(status.PerplexityOK))
}

// FormatSearchResults renders a ranked result list as a titled report. It is
// total: empty input yields an explicit no-results message, never an empty
// string.
func FormatSearchResults(results []MergedResult, opts FormatOptions) string {
	if len(results) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	if opts.Title != "" {
		sb.WriteString(fmt.Sprintf("🔍 %s\n\n", opts.Title))
	}
	sb.WriteString(fmt.Sprintf("Found %d unique results across providers.\n\n", len(results)))

	for i, r := range results {
		title := r.Title
		if title == "" {
			title = r.URL
		}
		sb.WriteString(fmt.Sprintf("%d. **%s**\n", i+1, title))
		sb.WriteString(fmt.Sprintf("   🔗 %s\n", r.URL))
		sb.WriteString(fmt.Sprintf("   📰 sources: %s\n", strings.Join(providerLabels(r.Sources), ", ")))
		if r.PublishedDate != "" {
			sb.WriteString(fmt.Sprintf("   📅 %s\n", r.PublishedDate))
		}
		if r.Snippet != "" {
			sb.WriteString(fmt.Sprintf("   📝 %s\n", truncate(r.Snippet, snippetCap)))
		}
		if opts.ShowContent && r.Content != "" {
			sb.WriteString(fmt.Sprintf("   📄 %s\n", truncate(r.Content, contentCap)))
		}
		sb.WriteString("\n")
	}

	return strings.TrimRight(sb.String(), "\n") + "\n"
}

// FormatSummary renders a narrative followed by a numbered source list.
func FormatSummary(narrative string, results []MergedResult) string {
	if narrative == "" && len(results) == 0 {
		return "No results found."
	}

	var sb strings.Builder
	if narrative != "" {
		sb.WriteString(narrative)
		sb.WriteString("\n\n")
	}
	if len(results) > 0 {
		sb.WriteString("📚 Sources:\n")
		for i, r := range results {
			title := r.Title
			if title == "" {
				title = r.URL
			}
			sb.WriteString(fmt.Sprintf("%d. %s — %s\n", i+1, title, r.URL))
		}
	}
	return sb.String()
}

// FormatComparison renders flat key→value records as a markdown table, one
// row per record. When no columns are given, all keys of the first record
// minus the identifying fields become columns.
func FormatComparison(items []map[string]string, columns []string) string {
	if len(items) == 0 {
		return "No items to compare."
	}

	if len(columns) == 0 {
		for key := range items[0] {
			if key == "url" || key == "title" {
				continue
			}
			columns = append(columns, key)
		}
		sort.Strings(columns)
	}

	var sb strings.Builder
	sb.WriteString("| # |")
	for _, col := range columns {
		sb.WriteString(" " + col + " |")
	}
	sb.WriteString(" link |\n")

	sb.WriteString("|---|")
	for range columns {
		sb.WriteString("---|")
	}
	sb.WriteString("---|\n")

	for i, item := range items {
		sb.WriteString(fmt.Sprintf("| %d |", i+1))
		for _, col := range columns {
			value := item[col]
			if value == "" {
				value = "-"
			}
			sb.WriteString(" " + truncate(value, cellCap) + " |")
		}
		link := item["url"]
		if link == "" {
			link = "-"
		}
		sb.WriteString(" " + link + " |\n")
	}

	return sb.String()
}

// FormatErrors renders collected provider errors as a clearly separated
// warning block so partial degradation is always visible.
func FormatErrors(errs []string) string {
	if len(errs) == 0 {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("⚠️ Provider warnings:\n")
	for _, e := range errs {
		sb.WriteString("- " + e + "\n")
	}
	return sb.String()
}

func providerLabels(tags []string) []string {
	labels := make([]string, len(tags))
	for i, tag := range tags {
		labels[i] = provider.DisplayName(tag)
	}
	return labels
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max]) + "..."
}
