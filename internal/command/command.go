package command

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/simonhull/hatch/internal/catalog"
)

// DefaultTimeout applies to specs that do not set their own.
const DefaultTimeout = 5 * time.Minute

// Spec describes one external process invocation.
type Spec struct {
	ID          string
	PluginID    catalog.ID
	Command     string
	Args        []string
	Dir         string   // relative to the runner's directory
	Env         []string // KEY=value, added to the inherited environment
	Critical    bool
	Priority    int
	Timeout     time.Duration
	Description string
}

// String returns the command line for display.
func (s Spec) String() string {
	return strings.Join(append([]string{s.Command}, s.Args...), " ")
}

// Result is the outcome of one Spec.
type Result struct {
	ID       string
	PluginID catalog.ID
	Command  string
	Critical bool
	Success  bool
	Skipped  bool
	ExitCode int
	Stdout   string // tail
	Stderr   string // tail
	Duration time.Duration
	Err      error
}

// Runner executes command specs in order.
type Runner interface {
	Run(ctx context.Context, specs []Spec) []Result
}

// SortSpecs returns specs ordered by ascending priority. Equal priorities keep
// their relative order, which preserves a plugin's own command sequence.
func SortSpecs(specs []Spec) []Spec {
	sorted := make([]Spec, len(specs))
	copy(sorted, specs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}

// WouldRun records spec as skipped, for dry runs.
func WouldRun(spec Spec) Result {
	return Result{
		ID:       spec.ID,
		PluginID: spec.PluginID,
		Command:  spec.String(),
		Critical: spec.Critical,
		Success:  true,
		Skipped:  true,
	}
}
