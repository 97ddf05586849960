package main

import (
	"os"

	"github.com/simonhull/hatch/internal/commands"
)

func main() {
	rootCmd := commands.RootCmd()

	rootCmd.AddCommand(commands.ScaffoldCmd())
	rootCmd.AddCommand(commands.PlanCmd())
	rootCmd.AddCommand(commands.PluginsCmd())

	os.Exit(commands.Execute(rootCmd))
}
