package research

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"
)

func TestRunTripleGracefulDegradation(t *testing.T) {
	start := time.Now()

	res := RunTriple(context.Background(),
		Call[string]{Name: "Exa", Timeout: time.Second, Run: func(ctx context.Context) (string, error) {
			time.Sleep(20 * time.Millisecond)
			return "exa-ok", nil
		}},
		Call[string]{Name: "Firecrawl", Timeout: time.Second, Run: func(ctx context.Context) (string, error) {
			return "", errors.New("connection refused")
		}},
		Call[string]{Name: "Perplexity", Timeout: time.Second, Run: func(ctx context.Context) (string, error) {
			time.Sleep(20 * time.Millisecond)
			return "perplexity-ok", nil
		}},
	)

	if res.Exa == nil || *res.Exa != "exa-ok" {
		t.Fatalf("exa slot lost: %+v", res.Exa)
	}
	if res.Firecrawl != nil {
		t.Fatalf("failed branch must yield nil slot")
	}
	if res.Perplexity == nil || *res.Perplexity != "perplexity-ok" {
		t.Fatalf("perplexity slot lost: %+v", res.Perplexity)
	}
	if len(res.Errors) != 1 || !strings.HasPrefix(res.Errors[0], "[Firecrawl] ") {
		t.Fatalf("unexpected errors: %v", res.Errors)
	}
	// A fast failure must not stretch the round to the failed branch's
	// timeout.
	if elapsed := time.Since(start); elapsed > 500*time.Millisecond {
		t.Fatalf("round took %v, bounded by slowest survivor expected", elapsed)
	}
}

func TestRunTripleTimeoutIsPerCall(t *testing.T) {
	start := time.Now()

	res := RunTriple(context.Background(),
		Call[int]{Name: "Exa", Timeout: time.Second, Run: func(ctx context.Context) (int, error) {
			return 1, nil
		}},
		Call[int]{Name: "Firecrawl", Timeout: 30 * time.Millisecond, Run: func(ctx context.Context) (int, error) {
			time.Sleep(2 * time.Second) // hangs past its bound
			return 2, nil
		}},
		Call[int]{Name: "Perplexity", Timeout: time.Second, Run: func(ctx context.Context) (int, error) {
			return 3, nil
		}},
	)

	if res.Firecrawl != nil {
		t.Fatalf("hanging branch should have timed out")
	}
	if len(res.Errors) != 1 || !strings.Contains(res.Errors[0], "timed out") {
		t.Fatalf("expected timeout error, got %v", res.Errors)
	}
	if elapsed := time.Since(start); elapsed > time.Second {
		t.Fatalf("round waited past the hanging branch's bound: %v", elapsed)
	}
}

func TestRunTripleTotalFailureReturnsNormally(t *testing.T) {
	fail := func(name string) Call[string] {
		return Call[string]{Name: name, Timeout: time.Second, Run: func(ctx context.Context) (string, error) {
			return "", fmt.Errorf("down")
		}}
	}

	res := RunTriple(context.Background(), fail("Exa"), fail("Firecrawl"), fail("Perplexity"))

	if res.Exa != nil || res.Firecrawl != nil || res.Perplexity != nil {
		t.Fatalf("all slots must be nil: %+v", res)
	}
	if len(res.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %v", res.Errors)
	}
	seen := map[string]bool{}
	for _, e := range res.Errors {
		name := e[1:strings.Index(e, "]")]
		seen[name] = true
	}
	if !seen["Exa"] || !seen["Firecrawl"] || !seen["Perplexity"] {
		t.Fatalf("each provider must be identified by prefix: %v", res.Errors)
	}
}

func TestBatchProcessOrderingWithFailure(t *testing.T) {
	current := make(chan int, 5)

	out := BatchProcess(context.Background(), []int{1, 2, 3, 4, 5}, 2, func(ctx context.Context, n int) (int, error) {
		current <- n
		if n == 3 {
			return 0, fmt.Errorf("boom")
		}
		return n * 10, nil
	})
	close(current)
	var order []int
	for n := range current {
		order = append(order, n)
	}

	want := []*int{ptr(10), ptr(20), nil, ptr(40), ptr(50)}
	for i := range want {
		switch {
		case want[i] == nil && out.Results[i] != nil:
			t.Fatalf("index %d: expected nil placeholder, got %v", i, *out.Results[i])
		case want[i] != nil && (out.Results[i] == nil || *out.Results[i] != *want[i]):
			t.Fatalf("index %d: expected %v, got %v", i, *want[i], out.Results[i])
		}
	}
	if len(out.Errors) != 1 || !strings.Contains(out.Errors[0], "boom") {
		t.Fatalf("unexpected errors: %v", out.Errors)
	}
	if len(order) != 5 {
		t.Fatalf("all items must run despite the failure: %v", order)
	}
}

func TestBatchProcessBatchesAreSequential(t *testing.T) {
	var mu = make(chan struct{}, 1)
	mu <- struct{}{}
	inFlight := 0
	maxInFlight := 0

	BatchProcess(context.Background(), []int{1, 2, 3, 4, 5, 6, 7}, 3, func(ctx context.Context, n int) (int, error) {
		<-mu
		inFlight++
		if inFlight > maxInFlight {
			maxInFlight = inFlight
		}
		mu <- struct{}{}

		time.Sleep(10 * time.Millisecond)

		<-mu
		inFlight--
		mu <- struct{}{}
		return n, nil
	})

	if maxInFlight > 3 {
		t.Fatalf("batch size exceeded: %d concurrent items", maxInFlight)
	}
}

func ptr(n int) *int { return &n }
