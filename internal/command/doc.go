// Package command runs the external setup commands plugins ask for.
//
// Commands run one after another in the order given, since later commands
// usually depend on files earlier ones left behind (install before add).
// Whether a failure matters is not decided here: every spec yields a
// Result, and the caller looks at Spec.Critical to decide whether to stop.
//
// Basic usage:
//
//	runner := command.NewExecRunner(&command.Options{Dir: "/tmp/app"})
//	results := runner.Run(ctx, []command.Spec{
//		{ID: "install", Command: "pnpm", Args: []string{"install"}, Critical: true},
//	})
package command
