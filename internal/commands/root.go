package commands

import (
	"errors"
	"os"

	"github.com/spf13/cobra"

	"github.com/simonhull/hatch"
	"github.com/simonhull/hatch/internal/logger"
	"github.com/simonhull/hatch/internal/output"
)

// errReported is returned once the failure has already been printed.
var errReported = errors.New("hatch: failed")

// RootCmd creates and returns the root command for the hatch CLI
func RootCmd() *cobra.Command {
	var verbose bool
	var logLevel string

	cmd := &cobra.Command{
		Use:   "hatch",
		Short: "Scaffold JavaScript and TypeScript projects from composable plugins",
		Long: `Hatch scaffolds a project from a list of plugins.

Each plugin contributes files, dependencies, scripts and setup commands:
• Frameworks: Next.js, React + Vite, NestJS
• Data: Postgres, Drizzle, Prisma
• Tooling: ESLint, Prettier, Biome, Vitest, Jest, Husky
• Infra: Docker, Docker Compose, GitHub Actions

Plugins that touch the same file are merged, never clobbered.`,
		Version:       hatch.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			output.SetVerbose(verbose)
		},
	}

	cmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output for debugging")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Diagnostic log level (debug, info, warn, error)")

	return cmd
}

// newLogger builds the diagnostic logger from the persistent flags. Verbose
// runs log at debug level unless --log-level says otherwise.
func newLogger(cmd *cobra.Command) (logger.Logger, error) {
	cfg := logger.DefaultConfig()
	cfg.Output = os.Stderr

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Level = "debug"
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Level = level
	}
	return logger.New(cfg)
}

// Execute runs the CLI and returns the process exit code.
func Execute(root *cobra.Command) int {
	if err := root.Execute(); err != nil {
		if !errors.Is(err, errReported) {
			output.Error(err.Error())
		}
		return 1
	}
	return 0
}
