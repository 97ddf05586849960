package guard

import (
	"context"
	"errors"
	"time"

	"github.com/simonhull/hatch/internal/catalog"
)

// Severity grades a failed guard.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Check reports nil when the precondition holds. The error message is shown
// to the user when it does not.
type Check func(ctx context.Context) error

// Spec is a named precondition.
type Spec struct {
	ID          string
	PluginID    catalog.ID // empty for environment guards
	Description string
	Severity    Severity
	Blocking    bool
	Check       Check
}

// Result is the outcome of one guard.
type Result struct {
	ID       string
	PluginID catalog.ID
	Severity Severity
	Blocking bool
	Passed   bool
	Message  string
	Duration time.Duration
}

// Blocks reports whether the result must stop the pipeline.
func (r Result) Blocks() bool {
	return !r.Passed && r.Blocking && r.Severity == SeverityError
}

// CheckResult aggregates the results of one evaluation.
type CheckResult struct {
	Passed      bool
	HasBlocking bool
	Results     []Result
}

// Failed returns the results that did not pass.
func (c CheckResult) Failed() []Result {
	var out []Result
	for _, r := range c.Results {
		if !r.Passed {
			out = append(out, r)
		}
	}
	return out
}

// Blocking returns the IDs of results that block.
func (c CheckResult) Blocking() []string {
	var ids []string
	for _, r := range c.Results {
		if r.Blocks() {
			ids = append(ids, r.ID)
		}
	}
	return ids
}

// Summarize builds a CheckResult from individual results.
func Summarize(results []Result) CheckResult {
	out := CheckResult{Passed: true, Results: results}
	for _, r := range results {
		if !r.Passed {
			out.Passed = false
		}
		if r.Blocks() {
			out.HasBlocking = true
		}
	}
	return out
}

// Evaluator runs guard specs.
type Evaluator interface {
	Run(ctx context.Context, specs []Spec) CheckResult
}

// ErrNoCheck is reported for a spec without a predicate.
var ErrNoCheck = errors.New("guard has no check")
