package plugins

import (
	"github.com/simonhull/hatch/internal/catalog"
)

func vitest(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.Vitest)

	for _, dir := range ctx.Workspaces() {
		b.Template(Join(dir, "vitest.config.ts"), "vitest.config.ts", ctx.data(dir))
		b.DevDep(dir, "vitest", "^2.1.5")
		if ctx.ownsScripts(dir) {
			b.Script(dir, "test", "vitest run")
			b.Script(dir, "test:watch", "vitest")
		}
	}
	b.Lines(".gitignore", "coverage")
	return b.Result()
}

func jest(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.Jest)

	for _, dir := range ctx.Workspaces() {
		b.Template(Join(dir, "jest.config.ts"), "jest.config.ts", ctx.data(dir))
		b.DevDep(dir, "jest", "^29.7.0")
		b.DevDep(dir, "ts-jest", "^29.2.5")
		b.DevDep(dir, "@types/jest", "^29.5.14")
		if ctx.ownsScripts(dir) {
			b.Script(dir, "test", "jest")
			b.Script(dir, "test:watch", "jest --watch")
		}
	}
	b.Lines(".gitignore", "coverage")
	return b.Result()
}

// ownsScripts reports whether task scripts belong in dir. A monorepo root
// delegates tasks to turbo.
func (c *Context) ownsScripts(dir string) bool {
	return !c.Monorepo() || dir != ""
}
