package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/Agents-Store/openclaw-deepsearch/internal/config"
)

// FirecrawlClient talks to the Firecrawl API: web search, single-page
// scraping, site mapping and schema-driven structured extraction.
type FirecrawlClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewFirecrawlClient(creds config.ProviderCredentials, log *zap.Logger) *FirecrawlClient {
	baseURL := creds.BaseURL
	if baseURL == "" {
		baseURL = "https://api.firecrawl.dev"
	}

	return &FirecrawlClient{
		apiKey:  creds.APIKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

type FirecrawlSearchRequest struct {
	Query string
	Limit int
	// TBS is the date-restriction query parameter, e.g. "cdr:1,cd_min:...".
	TBS string
}

type FirecrawlSearchResult struct {
	URL         string `json:"url"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Markdown    string `json:"markdown,omitempty"`
}

type FirecrawlSearchResponse struct {
	Success bool                    `json:"success"`
	Data    []FirecrawlSearchResult `json:"data"`
}

func (c *FirecrawlClient) Search(ctx context.Context, req FirecrawlSearchRequest) (*FirecrawlSearchResponse, error) {
	body := map[string]interface{}{
		"query": req.Query,
		"limit": req.Limit,
		"scrapeOptions": map[string]interface{}{
			"formats": []string{"markdown"},
		},
	}
	if req.TBS != "" {
		body["tbs"] = req.TBS
	}

	var resp FirecrawlSearchResponse
	if err := c.post(ctx, "/v1/search", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("firecrawl search unsuccessful")
	}
	return &resp, nil
}

type FirecrawlScrapeResponse struct {
	Success bool `json:"success"`
	Data    struct {
		Markdown string   `json:"markdown"`
		HTML     string   `json:"html,omitempty"`
		Links    []string `json:"links,omitempty"`
		Metadata struct {
			Title     string `json:"title"`
			SourceURL string `json:"sourceURL"`
		} `json:"metadata"`
	} `json:"data"`
}

// Scrape fetches a single page in the requested formats ("markdown" when
// none are given).
func (c *FirecrawlClient) Scrape(ctx context.Context, url string, formats []string) (*FirecrawlScrapeResponse, error) {
	if len(formats) == 0 {
		formats = []string{"markdown"}
	}
	body := map[string]interface{}{
		"url":     url,
		"formats": formats,
	}

	var resp FirecrawlScrapeResponse
	if err := c.post(ctx, "/v1/scrape", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("firecrawl scrape unsuccessful for %s", url)
	}
	return &resp, nil
}

type FirecrawlMapResponse struct {
	Success bool     `json:"success"`
	Links   []string `json:"links"`
}

// Map discovers URLs under a site, optionally filtered by a search term.
func (c *FirecrawlClient) Map(ctx context.Context, site, search string, limit int) (*FirecrawlMapResponse, error) {
	body := map[string]interface{}{
		"url":   site,
		"limit": limit,
	}
	if search != "" {
		body["search"] = search
	}

	var resp FirecrawlMapResponse
	if err := c.post(ctx, "/v1/map", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("firecrawl map unsuccessful for %s", site)
	}
	return &resp, nil
}

type FirecrawlExtractResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

// Extract runs structured extraction over a URL batch. The schema follows
// JSON Schema conventions; the response data is either a single object or an
// array aligned with the input URLs, so callers must not assume one row per
// URL.
func (c *FirecrawlClient) Extract(ctx context.Context, urls []string, prompt string, schema map[string]interface{}) (*FirecrawlExtractResponse, error) {
	body := map[string]interface{}{
		"urls": urls,
	}
	if prompt != "" {
		body["prompt"] = prompt
	}
	if schema != nil {
		body["schema"] = schema
	}

	var resp FirecrawlExtractResponse
	if err := c.post(ctx, "/v1/extract", body, &resp); err != nil {
		return nil, err
	}
	if !resp.Success {
		return nil, fmt.Errorf("firecrawl extract unsuccessful")
	}
	return &resp, nil
}

func (c *FirecrawlClient) post(ctx context.Context, path string, body map[string]interface{}, out interface{}) error {
	if c.apiKey == "" {
		return errNotConfigured("firecrawl")
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("firecrawl request failed", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("firecrawl %s returned %d: %s", path, resp.StatusCode, truncateBody(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse firecrawl response: %w", err)
	}
	return nil
}
