package commands

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/simonhull/hatch/internal/config"
	"github.com/simonhull/hatch/internal/events"
	"github.com/simonhull/hatch/internal/input"
	"github.com/simonhull/hatch/internal/output"
	"github.com/simonhull/hatch/internal/plugins"
	"github.com/simonhull/hatch/internal/scaffold"
)

// ScaffoldCmd creates and returns the 'scaffold' command
func ScaffoldCmd() *cobra.Command {
	var pf projectFlags
	var opts scaffold.Options

	cmd := &cobra.Command{
		Use:     "scaffold [project-name]",
		Aliases: []string{"new"},
		Short:   "Scaffold a new project",
		Long: `Scaffold a project from hatch.yml or from flags.

Plugins run in dependency order. Their files are merged per path, setup
commands run after every guard has passed, and package.json files are
written last.

Examples:
  hatch scaffold my-app --plugins nextjs,tailwind,drizzle
  hatch scaffold --config hatch.yml --dry-run`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ask := input.Stdio()
			if opts.SkipPrompts {
				ask = input.New(os.Stdin, os.Stdout, false)
			}

			project, err := pf.project(args, ask)
			if err != nil {
				return err
			}
			cat, err := loadCatalog(pf.catalog)
			if err != nil {
				return err
			}
			log, err := newLogger(cmd)
			if err != nil {
				return err
			}

			if opts.OutputPath == "" {
				opts.OutputPath = filepath.Join(".", project.Name)
			}
			if !opts.DryRun && !opts.Overwrite && nonEmptyDir(opts.OutputPath) &&
				!ask.Confirm(fmt.Sprintf("%s is not empty. Continue?", opts.OutputPath), false) {
				output.Info("Cancelled")
				return nil
			}
			opts.Verbose = output.IsVerbose()

			orch := scaffold.New(
				scaffold.WithCatalog(cat),
				scaffold.WithLogger(log),
				scaffold.WithSubscriber(progress),
			)

			if opts.DryRun {
				output.Info("Dry run: nothing will be written")
			}
			output.Verbose(fmt.Sprintf("Scaffolding %s into %s", project.Name, opts.OutputPath))

			res, err := orch.Scaffold(cmd.Context(), project, opts)
			if err != nil {
				return err
			}

			report(res, project, opts)
			if !res.Success {
				return errReported
			}
			return nil
		},
	}

	pf.register(cmd)
	cmd.Flags().StringVarP(&opts.OutputPath, "output", "o", "", "Output directory (defaults to ./<name>)")
	cmd.Flags().BoolVar(&opts.DryRun, "dry-run", false, "Run every check but write nothing")
	cmd.Flags().BoolVar(&opts.Overwrite, "overwrite", false, "Overwrite existing files without asking")
	cmd.Flags().BoolVarP(&opts.SkipPrompts, "yes", "y", false, "Never prompt; keep existing files")

	return cmd
}

func nonEmptyDir(dir string) bool {
	entries, err := os.ReadDir(dir)
	return err == nil && len(entries) > 0
}

// progress prints pipeline events as they happen.
func progress(e events.Event) {
	switch ev := e.(type) {
	case events.PhaseStarted:
		output.Verbose("phase " + ev.Phase)
	case events.GuardEvaluated:
		if !ev.Result.Passed {
			output.Verbose(fmt.Sprintf("guard %s failed: %s", ev.Result.ID, ev.Result.Message))
		}
	case events.PluginGenerated:
		if ev.Err != nil {
			output.Warn(fmt.Sprintf("%s failed: %v", ev.PluginID, ev.Err))
			return
		}
		output.Step(fmt.Sprintf("%s (%d files)", ev.PluginID, ev.Files))
	case events.CommandFinished:
		switch {
		case ev.Result.Skipped:
			output.Step("would run: " + ev.Result.Command)
		case ev.Result.Success:
			output.Step("ran: " + ev.Result.Command)
		default:
			output.Warn(fmt.Sprintf("%s exited with code %d", ev.Result.Command, ev.Result.ExitCode))
		}
	case events.FileWritten:
		output.Verbose(ev.Action + " " + ev.Path)
	}
}

// report prints the outcome of a run.
func report(res *scaffold.Result, project *config.Project, opts scaffold.Options) {
	for _, w := range res.Warnings {
		output.Warn(w.String())
	}

	if !res.Success {
		if res.Abort != nil {
			output.Error(fmt.Sprintf("Aborted during %s: %s", res.Abort.Phase, res.Abort.Reason))
		}
		return
	}

	rows := [][2]string{
		{"plugins", joinIDs(res.Plan.Order)},
	}
	if opts.DryRun {
		rows = append(rows, [2]string{"planned", fmt.Sprint(res.FilesPlanned)})
	} else {
		rows = append(rows,
			[2]string{"created", fmt.Sprint(res.FilesCreated)},
			[2]string{"modified", fmt.Sprint(res.FilesModified)},
		)
	}
	rows = append(rows, [2]string{"skipped", fmt.Sprint(res.FilesSkipped)})
	output.KeyValues(rows)

	if opts.DryRun {
		output.Success("Dry run complete")
		return
	}
	output.Success(fmt.Sprintf("Scaffolded project in %s (%s)", opts.OutputPath, res.Duration.Round(time.Millisecond)))
	output.Info("Next steps:")
	output.Step("cd " + opts.OutputPath)
	for _, s := range nextSteps(res, project) {
		output.Step(s)
	}
}

func nextSteps(res *scaffold.Result, project *config.Project) []string {
	pctx := &plugins.Context{Project: project}
	steps := []string{project.PackageManager + " install"}
	for _, sc := range res.Scripts {
		if sc.Name == "dev" && sc.Target == "" {
			steps = append(steps, pctx.Run("dev"))
			break
		}
	}
	return steps
}
