package scaffold

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/spf13/afero"

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
	"github.com/simonhull/hatch/internal/render"
)

// Options control one invocation.
type Options struct {
	OutputPath  string `validate:"required"`
	DryRun      bool
	Verbose     bool
	Overwrite   bool
	SkipPrompts bool
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// EnvironmentGuards returns the guards checked before any plugin runs.
type EnvironmentGuards func(project *config.Project, opts Options, fs afero.Fs) []guard.Spec

// Orchestrator runs scaffold invocations. It holds no per-run state and may
// be reused.
type Orchestrator struct {
	catalog     *catalog.Catalog
	registry    *plugins.Registry
	transformer merge.Transformer
	guards      guard.Evaluator
	commands    command.Runner
	conflicts   conflict.Resolver
	fs          afero.Fs
	probe       guard.VersionProbe
	envGuards   EnvironmentGuards
	renderer    *render.Renderer
	logger      logger.Logger
	subscribers []events.Handler
	now         func() time.Time
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithCatalog replaces the built-in catalog.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *Orchestrator) { o.catalog = c }
}

// WithRegistry replaces the built-in generators.
func WithRegistry(r *plugins.Registry) Option {
	return func(o *Orchestrator) { o.registry = r }
}

// WithTransformer sets the collaborator for ast-transform contributions.
func WithTransformer(t merge.Transformer) Option {
	return func(o *Orchestrator) { o.transformer = t }
}

// WithGuardEvaluator replaces the concurrent guard evaluator.
func WithGuardEvaluator(e guard.Evaluator) Option {
	return func(o *Orchestrator) { o.guards = e }
}

// WithCommandRunner sets the command runner. Without one each run creates an
// exec runner in the output directory.
func WithCommandRunner(r command.Runner) Option {
	return func(o *Orchestrator) { o.commands = r }
}

// WithConflictResolver sets how existing files are handled. Without one it
// is derived from Options.Overwrite and Options.SkipPrompts.
func WithConflictResolver(r conflict.Resolver) Option {
	return func(o *Orchestrator) { o.conflicts = r }
}

// WithFs sets the filesystem. Defaults to the OS filesystem.
func WithFs(fs afero.Fs) Option {
	return func(o *Orchestrator) { o.fs = fs }
}

// WithProbe sets how tool versions are probed.
func WithProbe(p guard.VersionProbe) Option {
	return func(o *Orchestrator) { o.probe = p }
}

// WithEnvironmentGuards replaces DefaultEnvironmentGuards.
func WithEnvironmentGuards(fn EnvironmentGuards) Option {
	return func(o *Orchestrator) { o.envGuards = fn }
}

// WithLogger sets the diagnostic logger.
func WithLogger(l logger.Logger) Option {
	return func(o *Orchestrator) { o.logger = l }
}

// WithSubscriber registers h on the event bus of every run.
func WithSubscriber(h events.Handler) Option {
	return func(o *Orchestrator) { o.subscribers = append(o.subscribers, h) }
}

// New creates an orchestrator.
func New(opts ...Option) *Orchestrator {
	o := &Orchestrator{
		catalog:  catalog.Default(),
		registry: plugins.Builtin(),
		guards:   guard.NewEvaluator(0),
		fs:       afero.NewOsFs(),
		probe:    guard.ExecProbe,
		renderer: render.New(),
		logger:   logger.Nop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(o)
	}
	if o.envGuards == nil {
		o.envGuards = DefaultEnvironmentGuards(o.probe)
	}
	return o
}

// Scaffold runs the pipeline for project.
//
// The returned error is non-nil only for invalid input and resolver
// failures; the latter match resolver.UnknownPluginError,
// resolver.ConflictError or resolver.CycleError. Everything else is reported
// in the Result.
func (o *Orchestrator) Scaffold(ctx context.Context, project *config.Project, opts Options) (*Result, error) {
	if project == nil {
		return nil, errors.New("project is required")
	}
	if err := validate.Struct(opts); err != nil {
		return nil, fmt.Errorf("invalid scaffold options: %w", err)
	}

	root, err := filepath.Abs(opts.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("resolve output path: %w", err)
	}

	r := &run{
		o:       o,
		ctx:     ctx,
		project: project,
		opts:    opts,
		fs:      fsys.New(o.fs, root),
		bus:     events.NewBus(),
		merger:  merge.New(merge.WithTransformer(o.transformer)),
		started: o.now(),
		result: &Result{
			RunID: uuid.NewString(),
			Phase: PhaseIdle,
		},
	}
	r.log = o.logger.Component("scaffold").WithFields(logger.F("run", r.result.RunID))
	for _, h := range o.subscribers {
		r.bus.Subscribe(h)
	}
	defer r.bus.Close()

	r.conflicts = o.conflicts
	if r.conflicts == nil {
		r.conflicts = conflict.New(conflict.Options{Overwrite: opts.Overwrite, SkipPrompts: opts.SkipPrompts})
	}
	r.commands = o.commands
	if r.commands == nil {
		r.commands = command.NewExecRunner(&command.Options{
			Dir:    root,
			Stream: opts.Verbose,
			Logger: o.logger,
		})
	}

	if err := r.execute(); err != nil {
		return nil, err
	}
	return r.result, nil
}
