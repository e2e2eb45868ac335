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

// PerplexityClient talks to the Perplexity sonar API. It is the long-form
// provider: a single Research call returns a narrative answer plus the URLs
// it cited. It is also the slowest of the three, so callers give it a longer
// timeout than the other providers.
type PerplexityClient struct {
	apiKey  string
	baseURL string
	model   string
	client  *http.Client
	log     *zap.Logger
}

func NewPerplexityClient(creds config.ProviderCredentials, log *zap.Logger) *PerplexityClient {
	baseURL := creds.BaseURL
	if baseURL == "" {
		baseURL = "https://api.perplexity.ai"
	}

	return &PerplexityClient{
		apiKey:  creds.APIKey,
		baseURL: baseURL,
		model:   "sonar-pro",
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
		log: log,
	}
}

type PerplexityAnswer struct {
	Text      string
	Citations []string
}

// Research sends a prompt and returns the narrative answer with citations.
// language, when non-empty, asks for the answer in that language.
func (c *PerplexityClient) Research(ctx context.Context, prompt, language string) (*PerplexityAnswer, error) {
	if c.apiKey == "" {
		return nil, errNotConfigured("perplexity")
	}

	system := "You are a thorough research assistant. Answer with specific facts and cite your sources."
	if language != "" {
		system += " Answer in language: " + language + "."
	}

	body := map[string]interface{}{
		"model": c.model,
		"messages": []map[string]string{
			{"role": "system", "content": system},
			{"role": "user", "content": prompt},
		},
		"max_tokens": 2000,
	}

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/chat/completions", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.log.Warn("perplexity request failed", zap.Int("status", resp.StatusCode))
		return nil, fmt.Errorf("perplexity returned %d: %s", resp.StatusCode, truncateBody(data))
	}

	var apiResponse struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
		Citations []string `json:"citations"`
	}
	if err := json.Unmarshal(data, &apiResponse); err != nil {
		return nil, fmt.Errorf("failed to parse perplexity response: %w", err)
	}
	if len(apiResponse.Choices) == 0 {
		return nil, fmt.Errorf("perplexity returned no choices")
	}

	return &PerplexityAnswer{
		Text:      apiResponse.Choices[0].Message.Content,
		Citations: apiResponse.Citations,
	}, nil
}
