package scaffold

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/command"
	"github.com/simonhull/hatch/internal/config"
	"github.com/simonhull/hatch/internal/conflict"
	"github.com/simonhull/hatch/internal/events"
	"github.com/simonhull/hatch/internal/fsys"
	"github.com/simonhull/hatch/internal/guard"
	"github.com/simonhull/hatch/internal/logger"
	"github.com/simonhull/hatch/internal/merge"
	"github.com/simonhull/hatch/internal/plugins"
	"github.com/simonhull/hatch/internal/resolver"
)

// run is the state of one invocation.
type run struct {
	o         *Orchestrator
	ctx       context.Context
	project   *config.Project
	opts      Options
	fs        *fsys.Service
	bus       *events.Bus
	merger    *merge.Merger
	conflicts conflict.Resolver
	commands  command.Runner
	log       logger.Logger
	started   time.Time

	result        *Result
	generated     []*plugins.Result
	contributions []merge.Contribution
}

// step is one phase body. It returns false to stop the pipeline.
type step struct {
	phase Phase
	body  func() bool
}

func (r *run) execute() error {
	r.opts.OutputPath = r.fs.Root()

	if err := r.resolve(); err != nil {
		return err
	}

	steps := []step{
		{PhasePreScaffoldGuards, r.preScaffoldGuards},
		{PhaseCollecting, r.collect},
		{PhasePluginGuards, r.pluginGuards},
		{PhaseExecutingCommands, r.executeCommands},
		{PhaseMergingFiles, r.mergeFiles},
		{PhaseWritingCoreFiles, r.writeCoreFiles},
		{PhaseWritingManifest, r.writeManifests},
	}
	for _, s := range steps {
		if !r.step(s.phase, s.body) {
			r.finish()
			return nil
		}
	}

	r.result.Phase = PhaseDone
	r.result.Success = true
	r.finish()
	return nil
}

func (r *run) step(phase Phase, body func() bool) bool {
	r.result.Phase = phase
	r.bus.Publish(events.PhaseStarted{Phase: string(phase)})
	r.log.Debug("phase started", logger.F("phase", string(phase)))

	start := time.Now()
	ok := body()
	elapsed := time.Since(start)

	r.bus.Publish(events.PhaseFinished{Phase: string(phase), Duration: elapsed, Aborted: !ok})
	r.log.Debug("phase finished",
		logger.F("phase", string(phase)),
		logger.F("duration", elapsed),
		logger.F("aborted", !ok))
	return ok
}

func (r *run) finish() {
	now := r.o.now()
	r.result.Duration = now.Sub(r.started)
	r.result.CompletedAt = now
	r.log.Info("scaffold finished",
		logger.F("phase", string(r.result.Phase)),
		logger.F("success", r.result.Success),
		logger.F("warnings", len(r.result.Warnings)),
		logger.F("duration", r.result.Duration))
}

func (r *run) abort(phase Phase, reason string, err error) {
	r.result.Phase = PhaseAborted
	r.result.Success = false
	r.result.Abort = &Abort{Phase: phase, Reason: reason, Err: err}
	r.log.Warn("scaffold aborted", logger.F("phase", string(phase)), logger.F("reason", reason))
}

func (r *run) warn(w Warning) {
	r.result.Warnings = append(r.result.Warnings, w)
	r.log.Debug("warning recorded",
		logger.F("kind", string(w.Kind)),
		logger.F("plugin", string(w.Plugin)),
		logger.F("path", w.Path),
		logger.F("message", w.Message))
}

// resolve is the one phase whose failure is returned instead of reported.
func (r *run) resolve() error {
	var err error
	r.step(PhaseResolving, func() bool {
		var plan *resolver.Plan
		plan, err = resolver.New(r.o.catalog).Resolve(r.project.Plugins)
		if err != nil {
			return false
		}
		r.result.Plan = plan
		r.log.Debug("plan resolved",
			logger.F("order", fmt.Sprint(plan.Order)),
			logger.F("auto_enabled", fmt.Sprint(plan.AutoEnabled)))
		return true
	})
	if err != nil {
		r.result.Phase = PhaseAborted
		r.log.Error("resolve failed", logger.F("error", err))
		return fmt.Errorf("resolve plugins: %w", err)
	}
	return nil
}

func (r *run) preScaffoldGuards() bool {
	plan := r.result.Plan
	for _, m := range plan.MissingDependencies {
		if m.Optional {
			r.warn(Warning{
				Kind:    WarnMissingDependency,
				Plugin:  m.PluginID,
				Message: fmt.Sprintf("optional dependency %s is not enabled", m.DependencyID),
			})
		}
	}

	specs := r.o.envGuards(r.project, r.opts, r.fs.Fs())
	specs = append(specs, missingDependencyGuards(plan, r.o.catalog)...)
	return r.evaluateGuards(PhasePreScaffoldGuards, specs)
}

func (r *run) pluginGuards() bool {
	var specs []guard.Spec
	for _, g := range r.generated {
		if g.Success() {
			specs = append(specs, g.Guards...)
		}
	}
	return r.evaluateGuards(PhasePluginGuards, specs)
}

func (r *run) evaluateGuards(phase Phase, specs []guard.Spec) bool {
	if len(specs) == 0 {
		return true
	}

	checked := r.o.guards.Run(r.ctx, specs)
	for _, res := range checked.Results {
		r.result.GuardResults = append(r.result.GuardResults, res)
		r.bus.Publish(events.GuardEvaluated{Result: res})
		if !res.Passed && !res.Blocks() {
			r.warn(Warning{Kind: WarnGuard, Plugin: res.PluginID, Message: fmt.Sprintf("%s: %s", res.ID, res.Message)})
		}
	}

	if !checked.HasBlocking {
		return true
	}

	blockErr := &GuardBlockingError{Phase: phase}
	for _, res := range checked.Results {
		if res.Blocks() {
			blockErr.GuardIDs = append(blockErr.GuardIDs, res.ID)
			blockErr.Messages = append(blockErr.Messages, res.Message)
		}
	}
	r.abort(phase, blockErr.Error(), blockErr)
	r.result.Abort.GuardIDs = blockErr.GuardIDs
	return false
}

// collect runs every generator in plan order. A failing generator is
// recorded and contributes nothing.
func (r *run) collect() bool {
	plan := r.result.Plan
	scoped := r.fs.Scoped()

	for _, id := range plan.Order {
		pctx := &plugins.Context{
			Context:    r.ctx,
			Project:    r.project,
			OutputPath: r.fs.Root(),
			DryRun:     r.opts.DryRun,
			Enabled:    slices.Clone(plan.Order),
			Collected:  slices.Clone(r.contributions),
			Fs:         scoped,
			Probe:      r.o.probe,
			Renderer:   r.o.renderer,
		}

		res := r.generate(id, pctx)
		r.generated = append(r.generated, res)

		if !res.Success() {
			r.warn(Warning{Kind: WarnGeneratorFailure, Plugin: id, Message: res.Err.Error()})
			r.bus.Publish(events.PluginGenerated{PluginID: id, Duration: res.Duration, Err: res.Err})
			continue
		}

		for _, c := range res.All() {
			if c.Condition != nil && !c.Condition() {
				continue
			}
			c.PluginID = id
			r.contributions = append(r.contributions, c)
		}
		r.result.Dependencies = append(r.result.Dependencies, res.Dependencies...)
		r.result.Scripts = append(r.result.Scripts, res.Scripts...)
		for _, msg := range res.Warnings {
			r.warn(Warning{Kind: WarnPlugin, Plugin: id, Message: msg})
		}

		r.bus.Publish(events.PluginGenerated{
			PluginID: id,
			Success:  true,
			Files:    len(res.All()),
			Duration: res.Duration,
		})
	}
	return true
}

func (r *run) generate(id catalog.ID, pctx *plugins.Context) (res *plugins.Result) {
	start := time.Now()
	defer func() {
		if p := recover(); p != nil {
			res = &plugins.Result{PluginID: id, Err: fmt.Errorf("generator panicked: %v", p)}
		}
		res.Duration = time.Since(start)
	}()

	gen, ok := r.o.registry.Get(id)
	if !ok {
		return &plugins.Result{PluginID: id, Err: fmt.Errorf("no generator registered for %s", id)}
	}

	out, err := gen.Generate(pctx)
	switch {
	case err != nil:
		return &plugins.Result{PluginID: id, Err: err}
	case out == nil:
		return &plugins.Result{PluginID: id, Err: fmt.Errorf("generator returned no result")}
	}
	out.PluginID = id
	return out
}

// executeCommands runs setup commands one at a time in priority order. A
// failed critical command stops the run; the commands after it never start.
func (r *run) executeCommands() bool {
	var specs []command.Spec
	for _, g := range r.generated {
		if g.Success() {
			specs = append(specs, g.Commands...)
		}
	}

	// Commands run inside the output root, which nothing has created yet.
	if len(specs) > 0 && !r.opts.DryRun {
		if err := r.fs.EnsureDir("."); err != nil {
			r.abort(PhaseExecutingCommands, err.Error(), err)
			return false
		}
	}

	for _, spec := range command.SortSpecs(specs) {
		var res command.Result
		if r.opts.DryRun {
			res = command.WouldRun(spec)
		} else {
			out := r.commands.Run(r.ctx, []command.Spec{spec})
			if len(out) == 0 {
				res = command.Result{ID: spec.ID, PluginID: spec.PluginID, Command: spec.String(), Critical: spec.Critical, ExitCode: -1,
					Err: fmt.Errorf("runner returned no result")}
			} else {
				res = out[0]
			}
		}

		r.result.CommandResults = append(r.result.CommandResults, res)
		r.bus.Publish(events.CommandFinished{Result: res})

		if res.Success {
			continue
		}

		msg := fmt.Sprintf("%s exited with code %d", res.Command, res.ExitCode)
		if res.Err != nil {
			msg = fmt.Sprintf("%s: %v", res.Command, res.Err)
		}
		if !spec.Critical {
			r.warn(Warning{Kind: WarnCommandFailure, Plugin: spec.PluginID, Message: msg})
			continue
		}

		cmdErr := &CriticalCommandError{CommandID: spec.ID, Command: res.Command, ExitCode: res.ExitCode, Err: res.Err}
		r.abort(PhaseExecutingCommands, cmdErr.Error(), cmdErr)
		r.result.Abort.CommandIDs = []string{spec.ID}
		return false
	}
	return true
}
