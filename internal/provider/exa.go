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

// ExaClient talks to the Exa neural search API. Besides plain search it can
// fetch page contents in bulk and find pages similar to a given URL.
type ExaClient struct {
	apiKey  string
	baseURL string
	client  *http.Client
	log     *zap.Logger
}

func NewExaClient(creds config.ProviderCredentials, log *zap.Logger) *ExaClient {
	baseURL := creds.BaseURL
	if baseURL == "" {
		baseURL = "https://api.exa.ai"
	}

	return &ExaClient{
		apiKey:  creds.APIKey,
		baseURL: baseURL,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		log: log,
	}
}

type ExaSearchRequest struct {
	Query              string
	NumResults         int
	IncludeDomains     []string
	ExcludeDomains     []string
	Category           string
	StartPublishedDate string
	EndPublishedDate   string
}

type ExaResult struct {
	Title         string  `json:"title"`
	URL           string  `json:"url"`
	PublishedDate string  `json:"publishedDate,omitempty"`
	Score         float64 `json:"score,omitempty"`
	Text          string  `json:"text,omitempty"`
}

type ExaSearchResponse struct {
	Results []ExaResult `json:"results"`
}

func (c *ExaClient) Search(ctx context.Context, req ExaSearchRequest) (*ExaSearchResponse, error) {
	body := map[string]interface{}{
		"query":      req.Query,
		"numResults": req.NumResults,
		"type":       "auto",
		"contents": map[string]interface{}{
			"text": map[string]interface{}{"maxCharacters": 2000},
		},
	}
	if len(req.IncludeDomains) > 0 {
		body["includeDomains"] = req.IncludeDomains
	}
	if len(req.ExcludeDomains) > 0 {
		body["excludeDomains"] = req.ExcludeDomains
	}
	if req.Category != "" {
		body["category"] = req.Category
	}
	if req.StartPublishedDate != "" {
		body["startPublishedDate"] = req.StartPublishedDate
	}
	if req.EndPublishedDate != "" {
		body["endPublishedDate"] = req.EndPublishedDate
	}

	var resp ExaSearchResponse
	if err := c.post(ctx, "/search", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// Contents fetches page text for a batch of URLs.
func (c *ExaClient) Contents(ctx context.Context, urls []string) (*ExaSearchResponse, error) {
	body := map[string]interface{}{
		"urls": urls,
		"text": map[string]interface{}{"maxCharacters": 4000},
	}

	var resp ExaSearchResponse
	if err := c.post(ctx, "/contents", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// FindSimilar returns pages similar to the given URL. The source domain is
// always excluded so the page does not match itself.
func (c *ExaClient) FindSimilar(ctx context.Context, url string, numResults int, excludeDomains []string) (*ExaSearchResponse, error) {
	body := map[string]interface{}{
		"url":                 url,
		"numResults":          numResults,
		"excludeSourceDomain": true,
		"contents": map[string]interface{}{
			"text": map[string]interface{}{"maxCharacters": 2000},
		},
	}
	if len(excludeDomains) > 0 {
		body["excludeDomains"] = excludeDomains
	}

	var resp ExaSearchResponse
	if err := c.post(ctx, "/findSimilar", body, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (c *ExaClient) post(ctx context.Context, path string, body map[string]interface{}, out interface{}) error {
	if c.apiKey == "" {
		return errNotConfigured("exa")
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
	req.Header.Set("x-api-key", c.apiKey)

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
		c.log.Warn("exa request failed", zap.String("path", path), zap.Int("status", resp.StatusCode))
		return fmt.Errorf("exa %s returned %d: %s", path, resp.StatusCode, truncateBody(data))
	}

	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("failed to parse exa response: %w", err)
	}
	return nil
}

func truncateBody(data []byte) string {
	const max = 200
	if len(data) > max {
		return string(data[:max]) + "..."
	}
	return string(data)
}
