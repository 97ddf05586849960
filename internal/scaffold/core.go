package scaffold

import (
	"embed"
	"path"

	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/config"
	"github.com/simonhull/hatch/internal/manifest"
	"github.com/simonhull/hatch/internal/merge"
	"github.com/simonhull/hatch/internal/plugins"
)

//go:embed templates/*.tmpl
var templates embed.FS

var coreFiles = []struct {
	path     string
	template string
}{
	{readmePath, "templates/README.md.tmpl"},
	{gitignorePath, "templates/gitignore.tmpl"},
	{envExamplePath, "templates/env.example.tmpl"},
}

type coreData struct {
	*config.Project
	Stack   []catalog.Definition
	Install string
	Scripts [][2]string
	EnvVars []string
}

func (r *run) coreData() coreData {
	data := coreData{
		Project: r.project,
		Install: r.project.PackageManager + " install",
		EnvVars: r.project.EnvLines(),
	}

	for _, id := range r.result.Plan.Order {
		if def, ok := r.o.catalog.Get(id); ok {
			data.Stack = append(data.Stack, def)
		}
	}

	set, _ := manifest.Build(r.project, r.result.Dependencies, r.result.Scripts)
	if root, ok := set.Manifest(""); ok {
		pctx := &plugins.Context{Project: r.project}
		for _, s := range root.Scripts() {
			data.Scripts = append(data.Scripts, [2]string{s[0], pctx.Run(s[0])})
		}
	}
	return data
}

// writeCoreFiles renders the project-level files and folds plugin
// contributions to the same paths on top.
func (r *run) writeCoreFiles() bool {
	byPath, _ := r.groups()
	data := r.coreData()

	for _, f := range coreFiles {
		group := byPath[f.path]
		if f.path == envExamplePath && len(data.EnvVars) == 0 && len(group) == 0 {
			continue
		}

		content, err := r.o.renderer.FS(templates, f.template, data)
		if err != nil {
			r.warn(Warning{Kind: WarnWriteFailure, Path: f.path, Message: err.Error()})
			continue
		}
		r.mergeAndWrite(f.path, group, base(f.path, content))
	}
	return true
}

// writeManifests synthesizes package.json files from collected dependencies
// and scripts, then folds plugin JSON contributions into them.
func (r *run) writeManifests() bool {
	set, collisions := manifest.Build(r.project, r.result.Dependencies, r.result.Scripts)
	for _, c := range collisions {
		r.warn(Warning{
			Kind:    WarnManifestCollision,
			Plugin:  c.Winner,
			Path:    manifest.Path(c.Target),
			Message: c.String(),
		})
	}

	files, err := set.Render()
	if err != nil {
		r.warn(Warning{Kind: WarnWriteFailure, Path: "package.json", Message: err.Error()})
		return true
	}

	byPath, order := r.groups()
	written := make(map[string]bool, len(files))
	for _, f := range files {
		written[f.Path] = true
		r.mergeAndWrite(f.Path, byPath[f.Path], base(f.Path, f.Content))
	}

	// Manifests only plugins contribute to, such as a workspace with no
	// dependencies of its own.
	for _, p := range order {
		if path.Base(p) == "package.json" && !written[p] {
			r.mergeAndWrite(p, byPath[p], nil)
		}
	}
	return true
}

func base(p, content string) *merge.Contribution {
	return &merge.Contribution{
		PluginID: coreID,
		Path:     p,
		Content:  content,
		Strategy: merge.Replace,
		Priority: basePriority,
	}
}
