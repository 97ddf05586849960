// Package plugins holds the generators behind each catalog plugin.
//
// A generator is a function from a Context to a Result. It renders file
// bodies from embedded templates and declares what else the plugin needs:
// dependencies, scripts, setup commands and guards. Generators never touch the
// filesystem; the scaffold orchestrator decides what gets written.
//
// The set of generators is closed. Builtin returns a Registry mapping every
// built-in catalog ID to its generator.
package plugins
