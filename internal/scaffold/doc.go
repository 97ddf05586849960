// Package scaffold runs the scaffold pipeline.
//
// An Orchestrator moves one invocation through fixed phases:
//
//	Resolving → PreScaffoldGuards → CollectingContributions → PluginGuards →
//	ExecutingCommands → MergingFiles → WritingCoreFiles →
//	WritingPackageManifest → Done | Aborted
//
// Only a resolver failure is returned as an error. Every later failure is
// either blocking (a blocking error guard or a critical command), which
// aborts the run, or recorded as a Warning while the run continues. Either
// way the caller gets a Result describing what happened.
//
// A dry run executes every phase up to and including guard evaluation and
// merging, but runs no commands and writes nothing.
package scaffold
