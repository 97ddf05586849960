package guard

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
)

// DefaultConcurrency bounds how many checks run at once.
const DefaultConcurrency = 4

// ConcurrentEvaluator runs checks in parallel and reports results in spec
// order.
type ConcurrentEvaluator struct {
	limit int
}

// NewEvaluator creates an evaluator running at most limit checks at once.
// A limit below one means DefaultConcurrency.
func NewEvaluator(limit int) *ConcurrentEvaluator {
	if limit < 1 {
		limit = DefaultConcurrency
	}
	return &ConcurrentEvaluator{limit: limit}
}

// Run evaluates every spec. A check failure never cancels its siblings.
func (e *ConcurrentEvaluator) Run(ctx context.Context, specs []Spec) CheckResult {
	results := make([]Result, len(specs))

	g := new(errgroup.Group)
	g.SetLimit(e.limit)

	for i, spec := range specs {
		g.Go(func() error {
			results[i] = evaluate(ctx, spec)
			return nil
		})
	}
	_ = g.Wait()

	return Summarize(results)
}

func evaluate(ctx context.Context, spec Spec) (res Result) {
	res = Result{
		ID:       spec.ID,
		PluginID: spec.PluginID,
		Severity: spec.Severity,
		Blocking: spec.Blocking,
	}
	if res.Severity == "" {
		res.Severity = SeverityError
	}

	start := time.Now()
	defer func() {
		res.Duration = time.Since(start)
		if r := recover(); r != nil {
			res.Passed = false
			res.Message = fmt.Sprintf("guard panicked: %v", r)
		}
	}()

	if spec.Check == nil {
		res.Message = ErrNoCheck.Error()
		return res
	}

	if err := spec.Check(ctx); err != nil {
		res.Message = err.Error()
		return res
	}

	res.Passed = true
	res.Message = spec.Description
	return res
}
