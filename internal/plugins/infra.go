package plugins

import (
	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/config"
	"github.com/simonhull/hatch/internal/guard"
)

// composeServicesMarker is where other plugins insert compose services.
const composeServicesMarker = "  # hatch:services"

type service struct {
	Name string
	Dir  string
	Port int
}

// services lists the runnable apps with the port each listens on.
func (c *Context) services() []service {
	var out []service
	seen := map[string]bool{}
	add := func(dirs []string, port int) {
		for i, dir := range dirs {
			if seen[dir] {
				continue
			}
			seen[dir] = true
			out = append(out, service{Name: Base(dir), Dir: dir, Port: port + i})
		}
	}
	if c.Has(catalog.NextJS) {
		add(c.AppDirs(config.AppWeb, "web"), 3000)
	}
	if c.Has(catalog.ReactVite) {
		add(c.AppDirs(config.AppWeb, "client"), 5173)
	}
	if c.Has(catalog.NestJS) {
		add(c.AppDirs(config.AppAPI, "api"), 3001)
	}
	return out
}

func docker(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.Docker)
	node := ctx.StringOption(catalog.Docker, "nodeVersion", "22")

	svcs := ctx.services()
	if len(svcs) == 0 {
		b.Warn("no runnable app in the plan, no Dockerfile generated")
	}
	for _, svc := range svcs {
		b.Template(Join(svc.Dir, "Dockerfile"), "Dockerfile", struct {
			TemplateData
			Node    string
			Service service
		}{ctx.data(svc.Dir), node, svc})
	}
	b.Lines(".dockerignore", "node_modules", ".git", ".env", "**/dist", "**/.next")

	if ctx.Probe != nil {
		b.Guard(guard.Spec{
			ID:          "docker:version",
			Description: "Docker 20.10 or newer is installed",
			Severity:    guard.SeverityWarning,
			Check:       guard.CommandVersion(ctx.Probe, "docker", ">=20.10"),
		})
	}
	return b.Result()
}

func dockerCompose(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.DockerCompose)

	b.Template("docker-compose.yml", "docker-compose.yml", struct {
		Services []service
		Marker   string
	}{ctx.services(), composeServicesMarker})
	b.Script("", "services:up", "docker compose up -d")
	b.Script("", "services:down", "docker compose down")
	return b.Result()
}

func githubActions(ctx *Context) (*Result, error) {
	b := NewBuilder(ctx, catalog.GitHubActions)
	d := ctx.data("")

	b.Template(".github/workflows/ci.yml", "ci.yml", struct {
		TemplateData
		Branch string
		Node   string
		Lint   bool
		Test   bool
	}{
		TemplateData: d,
		Branch:       ctx.StringOption(catalog.GitHubActions, "branch", "main"),
		Node:         ctx.StringOption(catalog.GitHubActions, "nodeVersion", "22"),
		Lint:         ctx.HasAny(catalog.ESLint, catalog.Biome),
		Test:         ctx.HasAny(catalog.Vitest, catalog.Jest),
	})
	return b.Result()
}
