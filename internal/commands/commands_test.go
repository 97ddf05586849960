package commands

import (
	"bytes"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/command"
	"github.com/simonhull/hatch/internal/config"
	"github.com/simonhull/hatch/internal/events"
	"github.com/simonhull/hatch/internal/input"
	"github.com/simonhull/hatch/internal/manifest"
	"github.com/simonhull/hatch/internal/output"
	"github.com/simonhull/hatch/internal/resolver"
	"github.com/simonhull/hatch/internal/scaffold"
)

func capture(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	prev := output.SetWriter(&buf)
	t.Cleanup(func() { output.SetWriter(prev) })
	return &buf
}

func quiet() *input.Prompter {
	return input.New(strings.NewReader(""), io.Discard, false)
}

func TestProjectFlags_Prompts(t *testing.T) {
	var pf projectFlags
	ask := input.New(strings.NewReader("acme\nnextjs,vitest\n"), io.Discard, true)

	p, err := pf.project(nil, ask)
	require.NoError(t, err)

	assert.Equal(t, "acme", p.Name)
	assert.Equal(t, []catalog.ID{"nextjs", "vitest"}, p.Plugins)
}

func TestProjectFlags_Defaults(t *testing.T) {
	pf := projectFlags{plugins: "nextjs, tailwind", packageManager: "npm"}

	p, err := pf.project([]string{"my-app"}, quiet())
	require.NoError(t, err)

	assert.Equal(t, "my-app", p.Name)
	assert.Equal(t, "npm", p.PackageManager)
	assert.Equal(t, ">=18", p.Node)
	assert.Equal(t, []catalog.ID{"nextjs", "tailwind"}, p.Plugins)
}

func TestProjectFlags_RequiresName(t *testing.T) {
	var pf projectFlags
	_, err := pf.project(nil, quiet())
	assert.ErrorContains(t, err, "project name required")
}

func TestProjectFlags_InvalidOverride(t *testing.T) {
	pf := projectFlags{name: "app", packageManager: "maven"}
	_, err := pf.project(nil, quiet())

	var ve *config.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestProjectFlags_InvalidName(t *testing.T) {
	for _, pf := range []projectFlags{
		{name: "My App/../x"},
		{name: "../outside"},
	} {
		_, err := pf.project(nil, quiet())
		var ve *config.ValidationError
		assert.ErrorAs(t, err, &ve, pf.name)
	}

	_, err := (&projectFlags{}).project([]string{"Bad Name"}, quiet())
	var ve *config.ValidationError
	assert.ErrorAs(t, err, &ve)
}

func TestProjectFlags_ConfigFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, config.FileName)
	require.NoError(t, os.WriteFile(path, []byte("name: from-file\nplugins: [vitest]\n"), 0o644))

	pf := projectFlags{config: path, plugins: "jest"}
	p, err := pf.project([]string{"renamed"}, quiet())
	require.NoError(t, err)

	assert.Equal(t, "renamed", p.Name)
	assert.Equal(t, []catalog.ID{"jest"}, p.Plugins)
}

func TestLoadCatalog(t *testing.T) {
	cat, err := loadCatalog("")
	require.NoError(t, err)
	assert.Equal(t, catalog.Default().Len(), cat.Len())

	path := filepath.Join(t.TempDir(), "extra.yml")
	require.NoError(t, os.WriteFile(path, []byte("plugins:\n  - id: storybook\n    category: tooling\n    dependsOn: [typescript]\n"), 0o644))

	cat, err = loadCatalog(path)
	require.NoError(t, err)
	assert.True(t, cat.Has("storybook"))

	_, err = loadCatalog(filepath.Join(t.TempDir(), "missing.yml"))
	assert.ErrorContains(t, err, "reading catalog")
}

func TestPlanCmd(t *testing.T) {
	buf := capture(t)

	root := RootCmd()
	root.AddCommand(PlanCmd())
	root.SetArgs([]string{"plan", "--plugins", "drizzle"})

	assert.Equal(t, 0, Execute(root))
	out := buf.String()
	assert.Contains(t, out, "Drizzle ORM")
	assert.Contains(t, out, "TypeScript (auto)")
	assert.Contains(t, out, "PostgreSQL (auto)")
}

func TestPlanCmd_Errors(t *testing.T) {
	tests := map[string][]string{
		"conflict":   {"plan", "--plugins", "drizzle,prisma"},
		"unknown":    {"plan", "--plugins", "rails"},
		"no plugins": {"plan"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			buf := capture(t)

			root := RootCmd()
			root.AddCommand(PlanCmd())
			root.SetArgs(args)

			assert.Equal(t, 1, Execute(root))
			assert.Contains(t, buf.String(), "❌")
		})
	}
}

func TestPluginsCmd(t *testing.T) {
	capture(t)

	var out bytes.Buffer
	root := RootCmd()
	root.AddCommand(PluginsCmd())
	root.SetOut(&out)
	root.SetArgs([]string{"plugins"})

	assert.Equal(t, 0, Execute(root))
	assert.Contains(t, out.String(), "CATEGORY")
	assert.Contains(t, out.String(), "database")
	assert.Contains(t, out.String(), "Drizzle ORM")
	assert.Contains(t, out.String(), "typescript, postgres")
}

func TestPrintPlan_MissingDependencies(t *testing.T) {
	buf := capture(t)
	plan := &resolver.Plan{
		Order: []catalog.ID{"authjs"},
		MissingDependencies: []resolver.MissingDependency{
			{PluginID: "authjs", DependencyID: "nextjs"},
			{PluginID: "authjs", DependencyID: "drizzle", Optional: true},
		},
	}

	printPlan(catalog.Default(), plan)

	out := buf.String()
	assert.Contains(t, out, "authjs requires Next.js")
	assert.Contains(t, out, "authjs works with Drizzle ORM")
}

func TestProgress(t *testing.T) {
	buf := capture(t)
	output.SetVerbose(true)
	defer output.SetVerbose(false)

	progress(events.PhaseStarted{Phase: "collecting-contributions"})
	progress(events.PluginGenerated{PluginID: "nextjs", Success: true, Files: 4})
	progress(events.PluginGenerated{PluginID: "prisma", Err: errors.New("boom")})
	progress(events.CommandFinished{Result: command.Result{Command: "git init", Skipped: true, Success: true}})
	progress(events.CommandFinished{Result: command.Result{Command: "pnpm install", ExitCode: 1}})
	progress(events.FileWritten{Path: "package.json", Action: "create"})

	out := buf.String()
	assert.Contains(t, out, "phase collecting-contributions")
	assert.Contains(t, out, "nextjs (4 files)")
	assert.Contains(t, out, "prisma failed: boom")
	assert.Contains(t, out, "would run: git init")
	assert.Contains(t, out, "pnpm install exited with code 1")
	assert.Contains(t, out, "create package.json")
}

func TestReport(t *testing.T) {
	project := config.Default("acme")

	t.Run("success", func(t *testing.T) {
		buf := capture(t)
		res := &scaffold.Result{
			Success:      true,
			Plan:         &resolver.Plan{Order: []catalog.ID{"typescript", "nextjs"}},
			FilesCreated: 7,
			Scripts:      []manifest.Script{{Name: "dev", Command: "next dev"}},
			Warnings:     []scaffold.Warning{{Kind: scaffold.WarnPlugin, Plugin: "tailwind", Message: "heads up"}},
			Duration:     1500 * time.Millisecond,
		}

		report(res, project, scaffold.Options{OutputPath: "acme"})

		out := buf.String()
		assert.Contains(t, out, "heads up")
		assert.Contains(t, out, "typescript, nextjs")
		assert.Contains(t, out, "Scaffolded project in acme")
		assert.Contains(t, out, "pnpm install")
		assert.Contains(t, out, "pnpm dev")
	})

	t.Run("aborted", func(t *testing.T) {
		buf := capture(t)
		res := &scaffold.Result{
			Phase: scaffold.PhaseAborted,
			Abort: &scaffold.Abort{Phase: scaffold.PhasePreScaffoldGuards, Reason: "node is not installed"},
		}

		report(res, project, scaffold.Options{OutputPath: "acme"})

		assert.Contains(t, buf.String(), "Aborted during pre-scaffold-guards: node is not installed")
		assert.NotContains(t, buf.String(), "Scaffolded")
	})
}
