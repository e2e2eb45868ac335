package research

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// Per-provider timeout bounds. Perplexity runs long-form synthesis and gets
// the longer bound.
const (
	ExaTimeout        = 25 * time.Second
	FirecrawlTimeout  = 25 * time.Second
	PerplexityTimeout = 70 * time.Second
)

// Call names one provider invocation within a parallel round.
type Call[T any] struct {
	Name    string
	Timeout time.Duration
	Run     func(ctx context.Context) (T, error)
}

// TripleResult carries one slot per provider role plus the error strings of
// the branches that failed. A nil slot means the branch errored, timed out
// or was not configured; the distinction lives only in the "[Name] detail"
// error string. Error order follows settlement order, not request order.
type TripleResult[E, F, G any] struct {
	Exa        *E
	Firecrawl  *F
	Perplexity *G
	Errors     []string
}

type outcome[T any] struct {
	value *T
	err   error
}

// byValue adapts a pointer-returning client call to the value-typed Run
// signature, so TripleResult slots stay single pointers.
func byValue[T any](fn func(ctx context.Context) (*T, error)) func(ctx context.Context) (T, error) {
	return func(ctx context.Context) (T, error) {
		v, err := fn(ctx)
		if err != nil {
			var zero T
			return zero, err
		}
		return *v, nil
	}
}

// RunTriple launches all three calls concurrently and waits for every one of
// them to settle. A failing or timed-out branch never aborts its siblings,
// and total failure of all three is still a normal return. Branches share no
// mutable state: each reports over its own channel and the error list is
// assembled here after the join.
func RunTriple[E, F, G any](ctx context.Context, exa Call[E], fire Call[F], perp Call[G]) TripleResult[E, F, G] {
	var out TripleResult[E, F, G]

	chE := runBranch(ctx, exa)
	chF := runBranch(ctx, fire)
	chG := runBranch(ctx, perp)

	for remaining := 3; remaining > 0; remaining-- {
		select {
		case r := <-chE:
			chE = nil
			if r.err != nil {
				out.Errors = append(out.Errors, fmt.Sprintf("[%s] %v", exa.Name, r.err))
			} else {
				out.Exa = r.value
			}
		case r := <-chF:
			chF = nil
			if r.err != nil {
				out.Errors = append(out.Errors, fmt.Sprintf("[%s] %v", fire.Name, r.err))
			} else {
				out.Firecrawl = r.value
			}
		case r := <-chG:
			chG = nil
			if r.err != nil {
				out.Errors = append(out.Errors, fmt.Sprintf("[%s] %v", perp.Name, r.err))
			} else {
				out.Perplexity = r.value
			}
		}
	}

	return out
}

// runBranch races the call against its own timer. On timeout the branch is
// abandoned, not cancelled: the underlying request may keep running but its
// result is discarded. Buffered channels keep the late sender from leaking.
func runBranch[T any](ctx context.Context, call Call[T]) chan outcome[T] {
	settled := make(chan outcome[T], 1)
	inner := make(chan outcome[T], 1)

	go func() {
		v, err := call.Run(ctx)
		if err != nil {
			inner <- outcome[T]{err: err}
			return
		}
		inner <- outcome[T]{value: &v}
	}()

	go func() {
		timer := time.NewTimer(call.Timeout)
		defer timer.Stop()
		select {
		case r := <-inner:
			settled <- r
		case <-timer.C:
			settled <- outcome[T]{err: fmt.Errorf("timed out after %s", call.Timeout)}
		}
	}()

	return settled
}

// BatchResult preserves input order: Results[i] is nil exactly when item i
// failed, and the failure detail is in Errors.
type BatchResult[R any] struct {
	Results []*R
	Errors  []string
}

// BatchProcess maps items through fn in fixed-size sequential batches. Items
// inside a batch run concurrently; batch k+1 starts only after every item of
// batch k has settled. A failed item never aborts its batch.
func BatchProcess[T, R any](ctx context.Context, items []T, batchSize int, fn func(ctx context.Context, item T) (R, error)) BatchResult[R] {
	if batchSize <= 0 {
		batchSize = 1
	}

	out := BatchResult[R]{Results: make([]*R, len(items))}
	errs := make([]error, len(items))

	for start := 0; start < len(items); start += batchSize {
		end := min(start+batchSize, len(items))

		var wg sync.WaitGroup
		for i := start; i < end; i++ {
			wg.Add(1)
			go func(i int) {
				defer wg.Done()
				v, err := fn(ctx, items[i])
				if err != nil {
					errs[i] = err
					return
				}
				out.Results[i] = &v
			}(i)
		}
		wg.Wait()
	}

	for i, err := range errs {
		if err != nil {
			out.Errors = append(out.Errors, fmt.Sprintf("item %d: %v", i, err))
		}
	}

	return out
}
