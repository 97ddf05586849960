package plugins

import (
	"context"
	"path"
	"slices"
	"strings"

	"github.com/spf13/afero"

	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/config"
	"github.com/simonhull/hatch/internal/guard"
	"github.com/simonhull/hatch/internal/merge"
	"github.com/simonhull/hatch/internal/render"
)

// Generator produces a plugin's contribution to a project.
type Generator interface {
	Generate(ctx *Context) (*Result, error)
}

// GeneratorFunc adapts a function to Generator.
type GeneratorFunc func(ctx *Context) (*Result, error)

// Generate calls f.
func (f GeneratorFunc) Generate(ctx *Context) (*Result, error) {
	return f(ctx)
}

// Context is what a generator sees. A fresh Context is built for every
// generator call.
type Context struct {
	Context context.Context

	Project    *config.Project
	OutputPath string
	DryRun     bool

	// Enabled lists every plugin in the plan, in resolution order.
	Enabled []catalog.ID

	// Collected holds the contributions of plugins that already ran.
	Collected []merge.Contribution

	// Fs is the output directory. Paths are project-relative.
	Fs afero.Fs

	// Probe reports installed tool versions for version guards.
	Probe guard.VersionProbe

	Renderer *render.Renderer
}

// Has reports whether id is part of the plan.
func (c *Context) Has(id catalog.ID) bool {
	return slices.Contains(c.Enabled, id)
}

// HasAny reports whether any of ids is part of the plan.
func (c *Context) HasAny(ids ...catalog.ID) bool {
	for _, id := range ids {
		if c.Has(id) {
			return true
		}
	}
	return false
}

// Monorepo reports whether apps live in their own workspace packages.
func (c *Context) Monorepo() bool {
	return c.Has(catalog.Turborepo)
}

// ContributionsTo returns the collected contributions for path.
func (c *Context) ContributionsTo(p string) []merge.Contribution {
	var out []merge.Contribution
	for _, contrib := range c.Collected {
		if contrib.Path == p {
			out = append(out, contrib)
		}
	}
	return out
}

// AppDirs returns the directories of apps of the given kind. Without
// configured apps a monorepo gets a single apps/<fallback> and a plain
// project uses its root, returned as "".
func (c *Context) AppDirs(kind config.AppKind, fallback string) []string {
	apps := c.Project.AppsOf(kind)
	if len(apps) > 0 {
		dirs := make([]string, len(apps))
		for i, a := range apps {
			dirs[i] = a.Dir()
		}
		return dirs
	}
	if c.Monorepo() {
		return []string{"apps/" + fallback}
	}
	return []string{""}
}

// Workspaces returns every app directory that a framework plugin will
// create, or the root when the project is not a monorepo.
func (c *Context) Workspaces() []string {
	if !c.Monorepo() {
		return []string{""}
	}

	var dirs []string
	add := func(ds []string) {
		for _, d := range ds {
			if !slices.Contains(dirs, d) {
				dirs = append(dirs, d)
			}
		}
	}
	if c.Has(catalog.NextJS) {
		add(c.AppDirs(config.AppWeb, "web"))
	}
	if c.Has(catalog.ReactVite) {
		add(c.AppDirs(config.AppWeb, "client"))
	}
	if c.Has(catalog.NestJS) {
		add(c.AppDirs(config.AppAPI, "api"))
	}
	for _, a := range c.Project.AppsOf(config.AppLib) {
		add([]string{a.Dir()})
	}
	if len(dirs) == 0 {
		return []string{""}
	}
	return dirs
}

// Option returns a plugin option from the project config, or def.
func (c *Context) Option(id catalog.ID, key string, def any) any {
	if v, ok := c.Project.Option(id)[key]; ok && v != nil {
		return v
	}
	return def
}

// StringOption is Option for string values.
func (c *Context) StringOption(id catalog.ID, key, def string) string {
	if s, ok := c.Option(id, key, def).(string); ok && s != "" {
		return s
	}
	return def
}

// Run returns the command used to run a package script with the project's
// package manager.
func (c *Context) Run(script string) string {
	switch c.Project.PackageManager {
	case "npm":
		return "npm run " + script
	case "bun":
		return "bun run " + script
	default:
		return c.Project.PackageManager + " " + script
	}
}

// Exec returns the command used to run a package binary.
func (c *Context) Exec(bin string) string {
	switch c.Project.PackageManager {
	case "pnpm":
		return "pnpm exec " + bin
	case "yarn":
		return "yarn " + bin
	case "bun":
		return "bunx " + bin
	default:
		return "npx " + bin
	}
}

// Join joins a workspace directory and a relative path. An empty dir is the
// project root.
func Join(dir string, elem ...string) string {
	if dir == "" {
		return path.Join(elem...)
	}
	return path.Join(append([]string{dir}, elem...)...)
}

// Base returns the last element of a workspace directory, or "app" for the
// root.
func Base(dir string) string {
	if dir == "" {
		return "app"
	}
	return path.Base(dir)
}

// Relative returns the path from dir back to the project root.
func Relative(dir string) string {
	if dir == "" {
		return "."
	}
	return strings.TrimSuffix(strings.Repeat("../", strings.Count(dir, "/")+1), "/")
}
