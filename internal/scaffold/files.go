package scaffold

import (
	"errors"
	"fmt"
	"math"
	"path"
	"slices"

	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/conflict"
	"github.com/simonhull/hatch/internal/events"
	"github.com/simonhull/hatch/internal/logger"
	"github.com/simonhull/hatch/internal/merge"
)

// coreID marks contributions produced by the orchestrator itself.
const coreID catalog.ID = "hatch"

// basePriority sorts core content below every plugin contribution.
const basePriority = math.MinInt

const (
	readmePath     = "README.md"
	gitignorePath  = ".gitignore"
	envExamplePath = ".env.example"
)

// deferred reports whether p is written by a later phase.
func deferred(p string) bool {
	switch p {
	case readmePath, gitignorePath, envExamplePath:
		return true
	}
	return path.Base(p) == "package.json"
}

// groups buckets collected contributions by path, keeping first-seen order.
func (r *run) groups() (map[string][]merge.Contribution, []string) {
	byPath := make(map[string][]merge.Contribution)
	var order []string
	for _, c := range r.contributions {
		p := path.Clean(c.Path)
		if _, ok := byPath[p]; !ok {
			order = append(order, p)
		}
		c.Path = p
		byPath[p] = append(byPath[p], c)
	}
	return byPath, order
}

func (r *run) mergeFiles() bool {
	byPath, order := r.groups()
	for _, p := range order {
		if deferred(p) {
			continue
		}
		r.mergeAndWrite(p, byPath[p], nil)
	}
	return true
}

// mergeAndWrite merges group on top of base, when given, and writes the
// result. A failure is recorded against the path only.
func (r *run) mergeAndWrite(p string, group []merge.Contribution, base *merge.Contribution) {
	exists, err := r.fs.Exists(p)
	if err != nil {
		r.warn(Warning{Kind: WarnWriteFailure, Path: p, Message: err.Error()})
		return
	}

	if exists {
		kept := group[:0:0]
		var dropped []catalog.ID
		for _, c := range group {
			if c.SkipIfExists {
				dropped = append(dropped, c.PluginID)
				continue
			}
			kept = append(kept, c)
		}
		group = kept
		if len(group) == 0 && base == nil {
			r.record(FileRecord{Path: p, Action: ActionSkip, Contributors: dropped})
			return
		}
	}

	if base != nil {
		group = append([]merge.Contribution{*base}, group...)
	}

	merged, err := r.merger.Merge(p, group)
	if err != nil {
		r.warn(Warning{Kind: WarnMergeFailure, Plugin: failingPlugin(err), Path: p, Message: err.Error()})
		return
	}

	contributors := slices.DeleteFunc(slices.Clone(merged.Contributors), func(id catalog.ID) bool { return id == coreID })
	r.write(p, merged.Content, contributors, exists)
}

func failingPlugin(err error) catalog.ID {
	var dup *merge.DuplicateContributionError
	var invalid *merge.InvalidContributionError
	var js *merge.InvalidJSONError
	switch {
	case errors.As(err, &dup):
		return dup.PluginID
	case errors.As(err, &invalid):
		return invalid.PluginID
	case errors.As(err, &js):
		return js.PluginID
	}
	return ""
}

// write decides what happens to p and performs it unless this is a dry run.
func (r *run) write(p, content string, contributors []catalog.ID, exists bool) {
	action := ActionCreate

	if exists {
		current, err := r.fs.ReadFile(p)
		if err != nil {
			r.warn(Warning{Kind: WarnWriteFailure, Path: p, Message: err.Error()})
			return
		}
		if current == content {
			r.record(FileRecord{Path: p, Action: ActionSkip, Contributors: contributors})
			return
		}

		action = ActionModify
		if !r.opts.DryRun {
			decision, err := r.conflicts.Resolve(p, current, content)
			if err != nil {
				r.warn(Warning{Kind: WarnWriteFailure, Path: p, Message: fmt.Sprintf("resolve conflict: %v", err)})
				return
			}
			if decision == conflict.Keep {
				r.record(FileRecord{Path: p, Action: ActionSkip, Contributors: contributors})
				return
			}
		}
	}

	if r.opts.DryRun {
		r.record(FileRecord{Path: p, Action: action, Contributors: contributors, DryRun: true})
		return
	}

	if err := r.fs.WriteFile(p, content); err != nil {
		r.warn(Warning{Kind: WarnWriteFailure, Path: p, Message: err.Error()})
		return
	}
	r.record(FileRecord{Path: p, Action: action, Contributors: contributors})
}

func (r *run) record(f FileRecord) {
	r.result.Files = append(r.result.Files, f)

	label := string(f.Action)
	switch {
	case f.DryRun:
		r.result.FilesPlanned++
		label = "planned"
	case f.Action == ActionCreate:
		r.result.FilesCreated++
	case f.Action == ActionModify:
		r.result.FilesModified++
	default:
		r.result.FilesSkipped++
	}

	r.log.Debug("file", logger.F("path", f.Path), logger.F("action", label))
	r.bus.Publish(events.FileWritten{Path: f.Path, Action: label})
}
