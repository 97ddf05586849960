// Package manifest folds the dependencies and scripts declared by every
// plugin into package.json files, one per target directory.
//
// When two plugins declare the same package for the same target, the one
// later in resolution order wins and a Collision is reported. Collisions are
// never fatal.
package manifest

import (
	"fmt"
	"path"
	"slices"
	"strings"

	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/config"
	"github.com/simonhull/hatch/internal/merge"
)

// Kind is the package.json section a dependency belongs to.
type Kind string

const (
	Dependencies     Kind = "dependencies"
	DevDependencies  Kind = "devDependencies"
	PeerDependencies Kind = "peerDependencies"
)

var kindOrder = []Kind{Dependencies, DevDependencies, PeerDependencies}

// Dependency is a package a plugin needs.
type Dependency struct {
	PluginID catalog.ID
	Name     string
	Version  string
	Kind     Kind
	Target   string // directory relative to the project root; empty for the root
}

// Script is a package.json script a plugin adds.
type Script struct {
	PluginID catalog.ID
	Name     string
	Command  string
	Target   string
}

// Path returns the manifest path for a target directory.
func Path(target string) string {
	t := normalizeTarget(target)
	if t == "" {
		return "package.json"
	}
	return t + "/package.json"
}

func normalizeTarget(target string) string {
	t := path.Clean(strings.TrimSpace(target))
	if t == "." || t == "/" {
		return ""
	}
	return strings.TrimPrefix(t, "./")
}

type entry struct {
	plugin  catalog.ID
	kind    Kind
	version string
}

type scriptEntry struct {
	plugin  catalog.ID
	command string
}

// Manifest is the synthesized package.json for one target.
type Manifest struct {
	Target  string
	deps    map[string]entry
	scripts map[string]scriptEntry
	order   []string // script names in first-seen order
}

// Dependencies returns name → version for one section, sorted by name.
func (m *Manifest) Dependencies(kind Kind) [][2]string {
	var out [][2]string
	for name, e := range m.deps {
		if e.kind == kind {
			out = append(out, [2]string{name, e.version})
		}
	}
	slices.SortFunc(out, func(a, b [2]string) int { return strings.Compare(a[0], b[0]) })
	return out
}

// Scripts returns name → command in first-declared order.
func (m *Manifest) Scripts() [][2]string {
	out := make([][2]string, 0, len(m.order))
	for _, name := range m.order {
		out = append(out, [2]string{name, m.scripts[name].command})
	}
	return out
}

// Set holds every manifest produced for a project.
type Set struct {
	project   *config.Project
	manifests map[string]*Manifest
}

// Build folds deps and scripts, given in resolution order, into manifests.
// The root manifest always exists.
func Build(project *config.Project, deps []Dependency, scripts []Script) (*Set, []Collision) {
	s := &Set{project: project, manifests: make(map[string]*Manifest)}
	s.get("")

	var collisions []Collision

	for _, d := range deps {
		if d.Kind == "" {
			d.Kind = Dependencies
		}
		m := s.get(d.Target)
		prev, exists := m.deps[d.Name]
		if exists && (prev.version != d.Version || prev.kind != d.Kind) {
			collisions = append(collisions, newDependencyCollision(m.Target, d, prev))
		}
		m.deps[d.Name] = entry{plugin: d.PluginID, kind: d.Kind, version: d.Version}
	}

	for _, sc := range scripts {
		m := s.get(sc.Target)
		prev, exists := m.scripts[sc.Name]
		if !exists {
			m.order = append(m.order, sc.Name)
		} else if prev.command != sc.Command {
			collisions = append(collisions, Collision{
				Target:        m.Target,
				Name:          sc.Name,
				Script:        true,
				Previous:      prev.plugin,
				PreviousValue: prev.command,
				Winner:        sc.PluginID,
				WinnerValue:   sc.Command,
			})
		}
		m.scripts[sc.Name] = scriptEntry{plugin: sc.PluginID, command: sc.Command}
	}

	return s, collisions
}

func (s *Set) get(target string) *Manifest {
	t := normalizeTarget(target)
	m, ok := s.manifests[t]
	if !ok {
		m = &Manifest{Target: t, deps: make(map[string]entry), scripts: make(map[string]scriptEntry)}
		s.manifests[t] = m
	}
	return m
}

// Targets returns every target, root first, the rest sorted.
func (s *Set) Targets() []string {
	targets := make([]string, 0, len(s.manifests))
	for t := range s.manifests {
		if t != "" {
			targets = append(targets, t)
		}
	}
	slices.Sort(targets)
	return append([]string{""}, targets...)
}

// Manifest returns the manifest for target.
func (s *Set) Manifest(target string) (*Manifest, bool) {
	m, ok := s.manifests[normalizeTarget(target)]
	return m, ok
}

// File is one rendered manifest.
type File struct {
	Path    string
	Content string
}

// Render produces the package.json files in Targets order.
func (s *Set) Render() ([]File, error) {
	var files []File
	for _, t := range s.Targets() {
		obj := s.object(s.manifests[t])
		content, err := obj.Marshal()
		if err != nil {
			return nil, fmt.Errorf("render %s: %w", Path(t), err)
		}
		files = append(files, File{Path: Path(t), Content: content})
	}
	return files, nil
}

func (s *Set) object(m *Manifest) *merge.Object {
	obj := merge.NewObject()

	if m.Target == "" {
		obj.Set("name", s.project.Name)
		obj.Set("version", "0.1.0")
		obj.Set("private", true)
		if s.project.Description != "" {
			obj.Set("description", s.project.Description)
		}
		if len(s.manifests) > 1 && s.project.PackageManager != "pnpm" {
			obj.Set("workspaces", s.workspaceGlobs())
		}
		engines := merge.NewObject()
		engines.Set("node", s.project.Node)
		obj.Set("engines", engines)
	} else {
		obj.Set("name", WorkspaceName(s.project.Name, m.Target))
		obj.Set("version", "0.1.0")
		obj.Set("private", true)
	}

	if scripts := m.Scripts(); len(scripts) > 0 {
		obj.Set("scripts", pairs(scripts))
	}
	for _, kind := range kindOrder {
		if deps := m.Dependencies(kind); len(deps) > 0 {
			obj.Set(string(kind), pairs(deps))
		}
	}
	return obj
}

func (s *Set) workspaceGlobs() []any {
	seen := map[string]bool{}
	var globs []any
	for _, t := range s.Targets()[1:] {
		glob := path.Dir(t) + "/*"
		if path.Dir(t) == "." {
			glob = t
		}
		if !seen[glob] {
			seen[glob] = true
			globs = append(globs, glob)
		}
	}
	return globs
}

// WorkspaceName scopes a workspace package under the project name.
func WorkspaceName(project, target string) string {
	base := path.Base(target)
	scope := strings.TrimPrefix(project, "@")
	if i := strings.IndexByte(scope, '/'); i >= 0 {
		scope = scope[:i]
	}
	return "@" + scope + "/" + base
}

func pairs(kv [][2]string) *merge.Object {
	obj := merge.NewObject()
	for _, p := range kv {
		obj.Set(p[0], p[1])
	}
	return obj
}
