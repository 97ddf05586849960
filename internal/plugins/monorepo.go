package plugins

import (
	"fmt"

	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/manifest"
)

func turborepo(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.Turborepo)
	d := ctx.data("")

	b.Template("turbo.json", "turbo.json", d)
	if ctx.Project.PackageManager == "pnpm" {
		b.Template("pnpm-workspace.yaml", "pnpm-workspace.yaml", d)
	}
	b.Lines(".gitignore", ".turbo")

	pm := ctx.Project.PackageManager
	version := ctx.StringOption(catalog.Turborepo, "packageManagerVersion", packageManagerVersions[pm])
	b.JSON(manifest.Path(""), Obj("packageManager", fmt.Sprintf("%s@%s", pm, version)), true)

	b.DevDep("", "turbo", "^2.3.0")
	for _, task := range []string{"build", "dev", "lint", "test", "typecheck"} {
		b.Script("", task, "turbo run "+task)
	}
	return b.Result()
}

func typescript(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.TypeScript)

	name := "tsconfig.json"
	if ctx.Monorepo() {
		name = "tsconfig.base.json"
	}
	b.Template(name, "tsconfig.base.json", ctx.data(""))

	b.DevDep("", "typescript", "^5.6.3")
	b.DevDep("", "@types/node", "^22.9.0")
	if !ctx.Monorepo() {
		b.Script("", "typecheck", "tsc --noEmit")
	}
	return b.Result()
}

// workspaceTSConfig adds the tsconfig for a workspace package. In a plain
// project the root tsconfig already covers it.
func workspaceTSConfig(b *Builder, ctx *Context, dir, template string) {
	if dir == "" {
		return
	}
	b.Template(Join(dir, "tsconfig.json"), template, ctx.data(dir))
	b.Script(dir, "typecheck", "tsc --noEmit")
}
