package research

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestDeepResearchExhaustiveKeepsVariationNarratives(t *testing.T) {
	pplxSrv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]any{"content": "All angles covered."}}},
		})
	}))
	defer pplxSrv.Close()

	s := testService("", "", pplxSrv.URL)
	report := s.DeepResearch(context.Background(), DeepResearchParams{
		Topic: "quantum networking",
		Depth: DepthExhaustive,
	})

	// One narrative from round 1 plus one per round-3 probe.
	for _, probe := range []string{"**latest developments**", "**case studies**", "**expert analysis**"} {
		if !strings.Contains(report, probe) {
			t.Fatalf("missing narrative for probe %s:\n%s", probe, report)
		}
	}
	if got := strings.Count(report, "All angles covered."); got < 4 {
		t.Fatalf("expected at least 4 narratives, found %d:\n%s", got, report)
	}
}
