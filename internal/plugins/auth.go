package plugins

import (
	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/config"
)

func authjs(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.AuthJS)
	dbTarget, _, dbImport := ctx.dbLayout()

	for _, dir := range ctx.AppDirs(config.AppWeb, "web") {
		d := ctx.data(dir)
		b.Template(Join(dir, "src/auth.ts"), "authjs.ts", d)
		b.Template(Join(dir, "src/app/api/auth/[...nextauth]/route.ts"), "authjs-route.ts", d)
		b.File(Join(dir, "src/middleware.ts"), "export { auth as middleware } from \"@/auth\";\n")

		b.Dep(dir, "next-auth", "^5.0.0-beta.25")
		switch ctx.ORM() {
		case catalog.Drizzle:
			b.Dep(dir, "@auth/drizzle-adapter", "^1.7.4")
		case catalog.Prisma:
			b.Dep(dir, "@auth/prisma-adapter", "^2.7.4")
		}
		if ctx.ORM() != "" && dbTarget != "" {
			b.Dep(dir, dbImport, ctx.workspaceVersion())
		}
	}

	if ctx.ORM() == "" {
		b.Warn("no database plugin enabled, sessions will use JWTs only")
	}
	b.Merge(section(".env.example", "auth", "AUTH_SECRET=\nAUTH_GITHUB_ID=\nAUTH_GITHUB_SECRET="))
	return b.Result()
}

func clerk(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.Clerk)

	for _, dir := range ctx.AppDirs(config.AppWeb, "web") {
		b.File(Join(dir, "src/middleware.ts"), b.Render("clerk-middleware.ts", ctx.data(dir)))
		b.Dep(dir, "@clerk/nextjs", "^6.5.0")
	}

	b.Merge(section(".env.example", "clerk", "NEXT_PUBLIC_CLERK_PUBLISHABLE_KEY=\nCLERK_SECRET_KEY="))
	return b.Result()
}
