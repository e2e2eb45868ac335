package research

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
)

const maxNumOffers = 50

type CompareOffersParams struct {
	Query     string
	Criteria  []string
	NumOffers int
	Domains   []string
}

// CompareOffers searches for offers, extracts structured fields from the
// top-ranked pages with a schema derived from the requested criteria, and
// closes with a long-form ranking recommendation.
func (s *Service) CompareOffers(ctx context.Context, p CompareOffersParams) string {
	s.log.Info("compare_offers", logQuery(p.Query))

	num := clampCount(p.NumOffers, 30, maxNumOffers)

	r := s.searchRound(ctx, roundParams{
		query:          p.Query,
		numResults:     num,
		includeDomains: p.Domains,
		prompt:         fmt.Sprintf("Find and compare current offers for: %s. Cover %s.", p.Query, criteriaList(p.Criteria)),
	})

	ranked := Rank(Merge(r.results))
	errs := r.errors

	// Synthetic synthesis records carry no page to extract from.
	urls := realURLs(ranked, num)

	var rows []map[string]string
	if len(urls) > 0 {
		rows, errs = s.extractOffers(ctx, urls, p.Query, p.Criteria, errs)
	}

	narrative := r.synthesis
	if len(rows) > 0 {
		if rec := s.recommendOffers(ctx, p.Query, rows, &errs); rec != "" {
			narrative = rec
		}
	}

	columns := make([]string, 0, len(p.Criteria)+1)
	columns = append(columns, "name")
	for _, c := range p.Criteria {
		columns = append(columns, sanitizeKey(c))
	}

	sections := []string{
		FormatProviderStatus(r.status),
		fmt.Sprintf("🛒 Offer comparison: %s", p.Query),
	}
	if narrative != "" {
		sections = append(sections, narrative)
	}
	sections = append(sections, FormatComparison(rows, columns))
	if block := FormatErrors(errs); block != "" {
		sections = append(sections, block)
	}
	return strings.Join(sections, "\n\n")
}

func (s *Service) extractOffers(ctx context.Context, urls []string, query string, criteria []string, errs []string) ([]map[string]string, []string) {
	prompt := fmt.Sprintf("Extract the offer on each page relevant to %q, including %s.", query, criteriaList(criteria))
	resp, err := s.firecrawl.Extract(ctx, urls, prompt, schemaFromCriteria(criteria))
	if err != nil {
		errs = append(errs, "[Firecrawl] extract: "+err.Error())
		return nil, errs
	}

	rows, warnings := decodeExtractRows(resp.Data, urls)
	return rows, append(errs, warnings...)
}

func (s *Service) recommendOffers(ctx context.Context, query string, rows []map[string]string, errs *[]string) string {
	encoded, err := json.Marshal(rows)
	if err != nil {
		return ""
	}
	prompt := fmt.Sprintf("Rank these offers for %q from best to worst and recommend one, briefly:\n%s", query, encoded)
	answer, err := s.perplexity.Research(ctx, prompt, s.cfg.Defaults.Language)
	if err != nil {
		*errs = append(*errs, "[Perplexity] recommendation: "+err.Error())
		return ""
	}
	return answer.Text
}

// decodeExtractRows turns the extraction payload into flat rows tagged with
// their source URL. The provider may return a single object or an array
// positionally aligned with the input URLs; alignment is validated rather
// than assumed, and a short array produces a warning naming the dropped URLs.
func decodeExtractRows(data json.RawMessage, urls []string) ([]map[string]string, []string) {
	var warnings []string

	var items []map[string]interface{}
	if err := json.Unmarshal(data, &items); err != nil {
		var single map[string]interface{}
		if err := json.Unmarshal(data, &single); err != nil {
			warnings = append(warnings, "[Firecrawl] extraction payload not understood")
			return nil, warnings
		}
		items = []map[string]interface{}{single}
	}

	if len(items) < len(urls) {
		warnings = append(warnings, fmt.Sprintf(
			"[Firecrawl] extraction returned %d rows for %d URLs; not compared: %s",
			len(items), len(urls), strings.Join(urls[len(items):], ", ")))
	}
	if len(items) > len(urls) {
		items = items[:len(urls)]
	}

	rows := make([]map[string]string, 0, len(items))
	for i, item := range items {
		row := make(map[string]string, len(item)+1)
		for key, value := range item {
			row[sanitizeKey(key)] = stringifyValue(value)
		}
		if row["url"] == "" {
			row["url"] = urls[i]
		}
		rows = append(rows, row)
	}
	return rows, warnings
}

// schemaFromCriteria builds the extraction schema: one string property per
// comparison criterion plus a name field.
func schemaFromCriteria(criteria []string) map[string]interface{} {
	properties := map[string]interface{}{
		"name": map[string]interface{}{"type": "string", "description": "offer or product name"},
	}
	for _, c := range criteria {
		properties[sanitizeKey(c)] = map[string]interface{}{"type": "string", "description": c}
	}

	return map[string]interface{}{
		"type": "array",
		"items": map[string]interface{}{
			"type":       "object",
			"properties": properties,
			"required":   []string{"name"},
		},
	}
}

func sanitizeKey(s string) string {
	var sb strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r == ' ' || r == '-' || r == '_':
			sb.WriteRune('_')
		}
	}
	return sb.String()
}

func stringifyValue(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case nil:
		return ""
	case float64, bool:
		return fmt.Sprintf("%v", t)
	default:
		encoded, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprintf("%v", t)
		}
		return string(encoded)
	}
}

func criteriaList(criteria []string) string {
	if len(criteria) == 0 {
		return "price, features and availability"
	}
	return strings.Join(criteria, ", ")
}
