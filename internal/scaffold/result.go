package scaffold

import (
	"fmt"
	"strings"
	"time"

	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/command"
	"github.com/simonhull/hatch/internal/guard"
	"github.com/simonhull/hatch/internal/manifest"
	"github.com/simonhull/hatch/internal/resolver"
)

// Phase is a step of the pipeline.
type Phase string

const (
	PhaseIdle              Phase = "idle"
	PhaseResolving         Phase = "resolving"
	PhasePreScaffoldGuards Phase = "pre-scaffold-guards"
	PhaseCollecting        Phase = "collecting-contributions"
	PhasePluginGuards      Phase = "plugin-guards"
	PhaseExecutingCommands Phase = "executing-commands"
	PhaseMergingFiles      Phase = "merging-files"
	PhaseWritingCoreFiles  Phase = "writing-core-files"
	PhaseWritingManifest   Phase = "writing-package-manifest"
	PhaseDone              Phase = "done"
	PhaseAborted           Phase = "aborted"
)

// WarningKind classifies a soft failure.
type WarningKind string

const (
	WarnGuard             WarningKind = "guard-warning"
	WarnGeneratorFailure  WarningKind = "generator-failure"
	WarnPlugin            WarningKind = "plugin-warning"
	WarnCommandFailure    WarningKind = "command-failure"
	WarnMergeFailure      WarningKind = "merge-failure"
	WarnWriteFailure      WarningKind = "write-failure"
	WarnManifestCollision WarningKind = "manifest-collision"
	WarnMissingDependency WarningKind = "missing-dependency"
)

// Warning is a failure the run survived.
type Warning struct {
	Kind    WarningKind
	Plugin  catalog.ID
	Path    string
	Message string
}

func (w Warning) String() string {
	var b strings.Builder
	b.WriteString(string(w.Kind))
	if w.Plugin != "" {
		b.WriteString(" [" + string(w.Plugin) + "]")
	}
	if w.Path != "" {
		b.WriteString(" " + w.Path)
	}
	b.WriteString(": " + w.Message)
	return b.String()
}

// Action is what happened to a file.
type Action string

const (
	ActionCreate Action = "create"
	ActionModify Action = "modify"
	ActionSkip   Action = "skip"
)

// FileRecord describes one output path.
type FileRecord struct {
	Path         string
	Action       Action
	Contributors []catalog.ID

	// DryRun marks actions that were planned but not performed.
	DryRun bool
}

// Abort explains why a run stopped early.
type Abort struct {
	Phase      Phase
	Reason     string
	GuardIDs   []string
	CommandIDs []string
	Err        error
}

// Result is the outcome of one invocation. It is not modified after
// Scaffold returns.
type Result struct {
	RunID   string
	Success bool
	Plan    *resolver.Plan

	// Phase is the last phase entered: PhaseDone or PhaseAborted.
	Phase Phase
	Abort *Abort

	Files         []FileRecord
	FilesCreated  int
	FilesModified int
	FilesSkipped  int
	FilesPlanned  int

	Dependencies   []manifest.Dependency
	Scripts        []manifest.Script
	GuardResults   []guard.Result
	CommandResults []command.Result
	Warnings       []Warning

	Duration    time.Duration
	CompletedAt time.Time
}

// WarningsOf returns the warnings of one kind.
func (r *Result) WarningsOf(kind WarningKind) []Warning {
	var out []Warning
	for _, w := range r.Warnings {
		if w.Kind == kind {
			out = append(out, w)
		}
	}
	return out
}

// File returns the record for path.
func (r *Result) File(path string) (FileRecord, bool) {
	for _, f := range r.Files {
		if f.Path == path {
			return f, true
		}
	}
	return FileRecord{}, false
}

// GuardBlockingError reports blocking guard failures.
type GuardBlockingError struct {
	Phase    Phase
	GuardIDs []string
	Messages []string
}

func (e *GuardBlockingError) Error() string {
	return fmt.Sprintf("blocked by %d guard(s) during %s: %s", len(e.GuardIDs), e.Phase, strings.Join(e.Messages, "; "))
}

// CriticalCommandError reports a failed critical command.
type CriticalCommandError struct {
	CommandID string
	Command   string
	ExitCode  int
	Err       error
}

func (e *CriticalCommandError) Error() string {
	msg := fmt.Sprintf("critical command %s (%s) failed with exit code %d", e.CommandID, e.Command, e.ExitCode)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *CriticalCommandError) Unwrap() error {
	return e.Err
}
