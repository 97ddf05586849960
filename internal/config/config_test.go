package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/simonhull/hatch/internal/catalog"
)

const sample = `name: my-app
description: A test project
plugins: [turborepo, nextjs, drizzle]
apps:
  - name: web
    kind: web
  - name: ui
    kind: lib
env:
  DATABASE_URL: postgres://localhost:5432/app
  PORT: 3000
options:
  nextjs:
    appRouter: true
`

func TestParse(t *testing.T) {
	p, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, "my-app", p.Name)
	assert.Equal(t, "pnpm", p.PackageManager)
	assert.Equal(t, ">=18", p.Node)
	assert.Equal(t, []catalog.ID{"turborepo", "nextjs", "drizzle"}, p.Plugins)
	assert.Equal(t, "apps/web", p.Apps[0].Dir())
	assert.Equal(t, "packages/ui", p.Apps[1].Dir())
	assert.Equal(t, []string{"DATABASE_URL=postgres://localhost:5432/app", "PORT=3000"}, p.EnvLines())
	assert.Equal(t, true, p.Option(catalog.NextJS)["appRouter"])
	assert.Nil(t, p.Option(catalog.Drizzle))
	assert.Len(t, p.AppsOf(AppWeb), 1)
}

func TestParse_SchemaIssues(t *testing.T) {
	tests := []struct {
		name    string
		doc     string
		path    string
		keyword string
	}{
		{"missing name", "plugins: [nextjs]\n", "", "required"},
		{"bad package manager", "name: app\npackageManager: pip\n", "/packageManager", "enum"},
		{"bad app kind", "name: app\napps:\n  - name: web\n    kind: desktop\n", "/apps/0/kind", "enum"},
		{"unknown field", "name: app\nframework: next\n", "", "additionalProperties"},
		{"invalid name", "name: My App\n", "/name", "pattern"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))

			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			require.NotEmpty(t, ve.Issues)

			found := false
			for _, issue := range ve.Issues {
				if issue.Path == tt.path && issue.Keyword == tt.keyword {
					found = true
				}
			}
			assert.True(t, found, "issues: %v", ve.Issues)
		})
	}
}

func TestParse_InvalidYAML(t *testing.T) {
	_, err := Parse([]byte("name: [unterminated"))
	assert.ErrorContains(t, err, "parsing YAML")
}

func TestValidate_NodeRange(t *testing.T) {
	p := Default("app")
	require.NoError(t, p.Validate())

	p.Node = "eighteen"
	err := p.Validate()

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "semverrange", ve.Issues[0].Keyword)
	assert.Equal(t, "/Node", ve.Issues[0].Path)
}

func TestValidate_Name(t *testing.T) {
	tests := map[string]bool{
		"app":          true,
		"my-app.v2":    true,
		"@acme/shop":   true,
		"My App":       false,
		"../x":         false,
		"My App/../x":  false,
		"@acme/../x":   false,
		"apps/web":     false,
		".hidden":      false,
		"_underscored": false,
	}

	for name, ok := range tests {
		t.Run(name, func(t *testing.T) {
			err := Default(name).Validate()
			if ok {
				assert.NoError(t, err)
				return
			}
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, "npmname", ve.Issues[0].Keyword)
			assert.Equal(t, "/Name", ve.Issues[0].Path)
		})
	}
}

func TestLoad_RejectsInvalidEnvName(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(sample), 0o644))
	t.Setenv("HATCH_NAME", "../escape")

	_, err := Load(dir)

	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, "npmname", ve.Issues[0].Keyword)
}

func TestLoad_FromDirectoryWithEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, FileName), []byte(sample), 0o644))

	t.Setenv("HATCH_NAME", "renamed")
	t.Setenv("HATCH_PLUGINS", "react-vite,vitest")

	p, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "renamed", p.Name)
	assert.Equal(t, []catalog.ID{"react-vite", "vitest"}, p.Plugins)
	assert.Contains(t, p.Env, "DATABASE_URL", "env keys keep their case")
}

func TestLoad_File(t *testing.T) {
	file := filepath.Join(t.TempDir(), "custom.yaml")
	require.NoError(t, os.WriteFile(file, []byte("name: app\npackageManager: bun\n"), 0o644))

	p, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "bun", p.PackageManager)
	assert.Empty(t, p.Plugins)
}

func TestLoad_Errors(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	assert.ErrorContains(t, err, "not found")

	file := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(file, []byte("name: app\nnode: 18\n"), 0o644))

	_, err = Load(file)
	var ve *ValidationError
	require.ErrorAs(t, err, &ve)
	assert.Equal(t, file, ve.File)
	assert.Contains(t, err.Error(), "problem(s)")
}

func TestParseIDs(t *testing.T) {
	assert.Equal(t, []catalog.ID{"nextjs", "drizzle"}, ParseIDs(" nextjs, ,drizzle "))
	assert.Empty(t, ParseIDs(""))
}
