package plugins

import (
	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/config"
)

func nextjs(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.NextJS)

	for _, dir := range ctx.AppDirs(config.AppWeb, "web") {
		d := ctx.data(dir)
		b.Template(Join(dir, "next.config.ts"), "next.config.ts", d)
		b.Template(Join(dir, "src/app/layout.tsx"), "next-layout.tsx", d)
		b.Template(Join(dir, "src/app/page.tsx"), "next-page.tsx", d)
		b.File(Join(dir, "src/app/globals.css"), "body {\n  margin: 0;\n  font-family: system-ui, sans-serif;\n}\n")

		if dir == "" {
			b.JSON("tsconfig.json", Obj("compilerOptions", Obj(
				"jsx", "preserve",
				"plugins", []any{Obj("name", "next")},
				"paths", Obj("@/*", []any{"./src/*"}),
			)), true)
		}
		workspaceTSConfig(b, ctx, dir, "next-tsconfig.json")

		b.Dep(dir, "next", "^15.0.3")
		b.Dep(dir, "react", "^19.0.0")
		b.Dep(dir, "react-dom", "^19.0.0")
		b.DevDep(dir, "@types/react", "^19.0.0")
		b.DevDep(dir, "@types/react-dom", "^19.0.0")

		b.Script(dir, "dev", "next dev")
		b.Script(dir, "build", "next build")
		b.Script(dir, "start", "next start")
	}

	b.Lines(".gitignore", ".next", "next-env.d.ts", "out")
	return b.Result()
}

func reactVite(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.ReactVite)

	for _, dir := range ctx.AppDirs(config.AppWeb, "client") {
		d := ctx.data(dir)
		b.Template(Join(dir, "vite.config.ts"), "vite.config.ts", d)
		b.Template(Join(dir, "index.html"), "vite-index.html", d)
		b.Template(Join(dir, "src/main.tsx"), "vite-main.tsx", d)
		b.Template(Join(dir, "src/App.tsx"), "vite-app.tsx", d)
		b.File(Join(dir, "src/index.css"), ":root {\n  font-family: system-ui, sans-serif;\n}\n")

		if dir == "" {
			b.JSON("tsconfig.json", Obj("compilerOptions", Obj(
				"jsx", "react-jsx",
				"types", []any{"vite/client"},
			)), true)
		}
		workspaceTSConfig(b, ctx, dir, "vite-tsconfig.json")

		b.Dep(dir, "react", "^19.0.0")
		b.Dep(dir, "react-dom", "^19.0.0")
		b.DevDep(dir, "vite", "^5.4.11")
		b.DevDep(dir, "@vitejs/plugin-react", "^4.3.3")
		b.DevDep(dir, "@types/react", "^19.0.0")
		b.DevDep(dir, "@types/react-dom", "^19.0.0")

		b.Script(dir, "dev", "vite")
		b.Script(dir, "build", "vite build")
		b.Script(dir, "preview", "vite preview")
	}

	b.Lines(".gitignore", "dist")
	return b.Result()
}

func nestjs(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.NestJS)

	for _, dir := range ctx.AppDirs(config.AppAPI, "api") {
		d := ctx.data(dir)
		d.Port = 3001
		b.Template(Join(dir, "src/main.ts"), "nest-main.ts", d)
		b.Template(Join(dir, "src/app.module.ts"), "nest-app.module.ts", d)
		b.Template(Join(dir, "src/app.controller.ts"), "nest-app.controller.ts", d)
		b.File(Join(dir, "nest-cli.json"), "{\n  \"$schema\": \"https://json.schemastore.org/nest-cli\",\n  \"collection\": \"@nestjs/schematics\",\n  \"sourceRoot\": \"src\"\n}\n")

		if dir == "" {
			b.JSON("tsconfig.json", Obj("compilerOptions", Obj(
				"experimentalDecorators", true,
				"emitDecoratorMetadata", true,
				"outDir", "./dist",
			)), true)
		}
		workspaceTSConfig(b, ctx, dir, "nest-tsconfig.json")

		for _, pkg := range []string{"@nestjs/common", "@nestjs/core", "@nestjs/platform-express"} {
			b.Dep(dir, pkg, "^10.4.7")
		}
		b.Dep(dir, "reflect-metadata", "^0.2.2")
		b.Dep(dir, "rxjs", "^7.8.1")
		b.DevDep(dir, "@nestjs/cli", "^10.4.7")

		b.Script(dir, "build", "nest build")
		b.Script(dir, "dev", "nest start --watch")
		b.Script(dir, "start", "node dist/main")
	}

	b.Lines(".gitignore", "dist")
	return b.Result()
}

func tailwind(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.Tailwind)
	const directive = "@import \"tailwindcss\";\n"

	styled := false
	if ctx.Has(catalog.NextJS) {
		for _, dir := range ctx.AppDirs(config.AppWeb, "web") {
			b.File(Join(dir, "postcss.config.mjs"), "export default {\n  plugins: {\n    \"@tailwindcss/postcss\": {},\n  },\n};\n")
			b.Merge(prepend(Join(dir, "src/app/globals.css"), directive))
			b.Dep(dir, "tailwindcss", "^4.0.0")
			b.DevDep(dir, "@tailwindcss/postcss", "^4.0.0")
			styled = true
		}
	}
	if ctx.Has(catalog.ReactVite) {
		for _, dir := range ctx.AppDirs(config.AppWeb, "client") {
			b.Merge(prepend(Join(dir, "src/index.css"), directive))
			b.Dep(dir, "tailwindcss", "^4.0.0")
			b.DevDep(dir, "@tailwindcss/vite", "^4.0.0")
			styled = true
		}
	}
	if !styled {
		b.Warn("no web app in the plan, tailwind only adds its dependency")
		b.Dep("", "tailwindcss", "^4.0.0")
	}

	if ctx.Has(catalog.Prettier) {
		b.JSON(".prettierrc", Obj("plugins", []any{"prettier-plugin-tailwindcss"}), false)
		b.DevDep("", "prettier-plugin-tailwindcss", "^0.6.9")
	}
	return b.Result()
}
