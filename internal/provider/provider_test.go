package provider

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"go.uber.org/zap"

	"github.com/Agents-Store/openclaw-deepsearch/internal/config"
)

func TestExaSearchParsesResults(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("unexpected path: %s", r.URL.Path)
		}
		if r.Header.Get("x-api-key") != "test-key" {
			t.Errorf("missing api key header")
		}
		w.Write([]byte(`{"results":[{"title":"Go","url":"https://go.dev","score":0.9,"text":"The Go language"}]}`))
	}))
	defer srv.Close()

	c := NewExaClient(config.ProviderCredentials{APIKey: "test-key", BaseURL: srv.URL}, zap.NewNop())
	resp, err := c.Search(context.Background(), ExaSearchRequest{Query: "golang", NumResults: 5})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(resp.Results) != 1 || resp.Results[0].URL != "https://go.dev" {
		t.Fatalf("unexpected results: %+v", resp.Results)
	}
}

func TestExaMissingKeyFailsPerCall(t *testing.T) {
	c := NewExaClient(config.ProviderCredentials{}, zap.NewNop())
	_, err := c.Search(context.Background(), ExaSearchRequest{Query: "anything"})
	if err == nil || !strings.Contains(err.Error(), "not configured") {
		t.Fatalf("expected not-configured error, got %v", err)
	}
}

func TestFirecrawlSearchRejectsNonSuccess(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"success":false,"data":[]}`))
	}))
	defer srv.Close()

	c := NewFirecrawlClient(config.ProviderCredentials{APIKey: "k", BaseURL: srv.URL}, zap.NewNop())
	_, err := c.Search(context.Background(), FirecrawlSearchRequest{Query: "q", Limit: 3})
	if err == nil {
		t.Fatalf("expected error on success=false")
	}
}

func TestFirecrawlErrorIncludesStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusPaymentRequired)
		w.Write([]byte(`{"error":"insufficient credits"}`))
	}))
	defer srv.Close()

	c := NewFirecrawlClient(config.ProviderCredentials{APIKey: "k", BaseURL: srv.URL}, zap.NewNop())
	_, err := c.Scrape(context.Background(), "https://example.com", nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if !strings.Contains(err.Error(), "402") || !strings.Contains(err.Error(), "insufficient credits") {
		t.Fatalf("error should carry status and body: %v", err)
	}
}

func TestPerplexityResearchReturnsAnswerAndCitations(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "Bearer pk" {
			t.Errorf("missing bearer token")
		}
		w.Write([]byte(`{"choices":[{"message":{"content":"Summary text."}}],"citations":["https://a.com/x","https://b.com/y"]}`))
	}))
	defer srv.Close()

	c := NewPerplexityClient(config.ProviderCredentials{APIKey: "pk", BaseURL: srv.URL}, zap.NewNop())
	ans, err := c.Research(context.Background(), "topic", "")
	if err != nil {
		t.Fatalf("research: %v", err)
	}
	if ans.Text != "Summary text." {
		t.Fatalf("unexpected text: %q", ans.Text)
	}
	if len(ans.Citations) != 2 {
		t.Fatalf("unexpected citations: %v", ans.Citations)
	}
}
