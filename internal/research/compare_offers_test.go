package research

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestCompareOffersExtractsUpToNumOffers(t *testing.T) {
	const offers = 12

	exaSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		results := make([]map[string]any, 0, offers)
		for i := 0; i < offers; i++ {
			results = append(results, map[string]any{
				"title": fmt.Sprintf("Offer %d", i+1),
				"url":   fmt.Sprintf("https://offer%d.example.com", i+1),
				"text":  "an offer listing",
			})
		}
		json.NewEncoder(w).Encode(map[string]any{"results": results})
	}))
	defer exaSrv.Close()

	var extractTargets int
	fcSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/v1/search":
			json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []map[string]any{}})
		case "/v1/extract":
			var body struct {
				Urls []string `json:"urls"`
			}
			json.NewDecoder(r.Body).Decode(&body)
			extractTargets = len(body.Urls)

			rows := make([]map[string]any, 0, len(body.Urls))
			for i := range body.Urls {
				rows = append(rows, map[string]any{"name": fmt.Sprintf("Offer %d", i+1), "price": fmt.Sprintf("$%d", i+1)})
			}
			json.NewEncoder(w).Encode(map[string]any{"success": true, "data": rows})
		default:
			t.Errorf("unexpected firecrawl path %s", r.URL.Path)
		}
	}))
	defer fcSrv.Close()

	s := testService(exaSrv.URL, fcSrv.URL, "")
	report := s.CompareOffers(context.Background(), CompareOffersParams{
		Query:     "cloud gpu rental",
		Criteria:  []string{"price"},
		NumOffers: offers,
	})

	if extractTargets != offers {
		t.Fatalf("extraction should cover all %d requested offers, got %d", offers, extractTargets)
	}
	if !strings.Contains(report, fmt.Sprintf("| %d |", offers)) {
		t.Fatalf("comparison table should have %d rows:\n%s", offers, report)
	}
}
