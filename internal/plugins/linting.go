package plugins

import (
	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/command"
	"github.com/simonhull/hatch/internal/guard"
	"github.com/simonhull/hatch/internal/manifest"
)

func eslint(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.ESLint)

	b.Template("eslint.config.mjs", "eslint.config.mjs", ctx.data(""))
	b.DevDep("", "eslint", "^9.15.0")
	b.DevDep("", "@eslint/js", "^9.15.0")
	b.DevDep("", "typescript-eslint", "^8.15.0")
	if ctx.Has(catalog.NextJS) {
		b.DevDep("", "@next/eslint-plugin-next", "^15.0.3")
	}

	for _, dir := range ctx.Workspaces() {
		if ctx.ownsScripts(dir) {
			b.Script(dir, "lint", "eslint .")
		}
	}
	return b.Result()
}

func prettier(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.Prettier)

	rc, err := Obj(
		"semi", true,
		"singleQuote", false,
		"trailingComma", "all",
		"printWidth", 100,
	).Marshal()
	if err != nil {
		return nil, err
	}
	b.File(".prettierrc", rc)
	b.File(".prettierignore", "node_modules\ndist\n.next\ncoverage\npnpm-lock.yaml\n")

	b.DevDep("", "prettier", "^3.3.3")
	b.Script("", "format", "prettier --write .")
	b.Script("", "format:check", "prettier --check .")
	return b.Result()
}

func biome(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.Biome)

	b.Template("biome.json", "biome.json", ctx.data(""))
	b.DevDep("", "@biomejs/biome", "1.9.4")
	b.Script("", "format", "biome format --write .")
	for _, dir := range ctx.Workspaces() {
		if ctx.ownsScripts(dir) {
			b.Script(dir, "lint", "biome check .")
		}
	}
	return b.Result()
}

func husky(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.Husky)

	var tasks []any
	switch {
	case ctx.Has(catalog.Biome):
		tasks = append(tasks, "biome check --write --no-errors-on-unmatched")
	default:
		if ctx.Has(catalog.ESLint) {
			tasks = append(tasks, "eslint --fix")
		}
		if ctx.Has(catalog.Prettier) {
			tasks = append(tasks, "prettier --write")
		}
	}

	if len(tasks) == 0 {
		b.Warn("no linter or formatter enabled, the pre-commit hook has nothing to run")
	} else {
		b.JSON(manifest.Path(""), Obj("lint-staged", Obj("*.{ts,tsx,js,mjs,json}", tasks)), true)
	}

	b.File(".husky/pre-commit", ctx.Exec("lint-staged")+"\n")
	b.DevDep("", "husky", "^9.1.7")
	b.DevDep("", "lint-staged", "^15.2.10")
	b.Script("", "prepare", "husky")

	b.Command(command.Spec{
		ID:          "husky:git-init",
		Command:     "git",
		Args:        []string{"init", "--quiet"},
		Description: "Initializing git repository",
	})
	if ctx.Probe != nil {
		b.Guard(guard.Spec{
			ID:          "husky:git",
			Description: "git 2.9 or newer is installed",
			Severity:    guard.SeverityWarning,
			Check:       guard.CommandVersion(ctx.Probe, "git", ">=2.9"),
		})
	}
	return b.Result()
}
