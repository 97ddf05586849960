package plugins

import (
	"embed"
	"fmt"
	"strings"
	"time"

	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/command"
	"github.com/simonhull/hatch/internal/guard"
	"github.com/simonhull/hatch/internal/manifest"
	"github.com/simonhull/hatch/internal/merge"
)

//go:embed templates/*.tmpl
var templatesFS embed.FS

// Contribution priorities. Whole files start the fold, merges land on top.
const (
	PriorityBase    = 0
	PriorityDefault = 50
	PriorityLate    = 100
)

// Result is everything one plugin produced.
type Result struct {
	PluginID catalog.ID

	// Files are whole files owned by the plugin.
	Files []merge.Contribution

	// Contributions merge into files other plugins or the core also write.
	Contributions []merge.Contribution

	Dependencies []manifest.Dependency
	Scripts      []manifest.Script
	Commands     []command.Spec
	Guards       []guard.Spec
	Warnings     []string

	Err      error
	Duration time.Duration
}

// Success reports whether the generator produced its result.
func (r *Result) Success() bool {
	return r.Err == nil
}

// All returns files followed by contributions.
func (r *Result) All() []merge.Contribution {
	out := make([]merge.Contribution, 0, len(r.Files)+len(r.Contributions))
	out = append(out, r.Files...)
	return append(out, r.Contributions...)
}

// Builder assembles a Result. Template errors are sticky: the first one is
// returned from Result and later calls become no-ops.
type Builder struct {
	ctx *Context
	res *Result
	err error
}

// NewBuilder starts a result for plugin id.
func NewBuilder(ctx *Context, id catalog.ID) *Builder {
	return &Builder{ctx: ctx, res: &Result{PluginID: id}}
}

// Render renders templates/<name>.tmpl with data.
func (b *Builder) Render(name string, data any) string {
	if b.err != nil {
		return ""
	}
	out, err := b.ctx.Renderer.FS(templatesFS, "templates/"+name+".tmpl", data)
	if err != nil {
		b.err = fmt.Errorf("%s: %w", b.res.PluginID, err)
		return ""
	}
	return out
}

// Template renders a template straight into a file.
func (b *Builder) Template(filePath, name string, data any) *Builder {
	content := b.Render(name, data)
	if b.err != nil {
		return b
	}
	return b.File(filePath, content)
}

// File adds a whole file.
func (b *Builder) File(filePath, content string) *Builder {
	b.res.Files = append(b.res.Files, merge.Contribution{
		PluginID: b.res.PluginID,
		Path:     filePath,
		Content:  content,
		Strategy: merge.Replace,
		Priority: PriorityBase,
	})
	return b
}

// Seed adds a file that is left alone when it already exists.
func (b *Builder) Seed(filePath, content string) *Builder {
	b.File(filePath, content)
	b.res.Files[len(b.res.Files)-1].SkipIfExists = true
	return b
}

// Merge adds a contribution. Contributions whose Condition is false are
// dropped here.
func (b *Builder) Merge(c merge.Contribution) *Builder {
	if c.Condition != nil && !c.Condition() {
		return b
	}
	c.PluginID = b.res.PluginID
	if c.Priority == 0 {
		c.Priority = PriorityDefault
	}
	b.res.Contributions = append(b.res.Contributions, c)
	return b
}

// Lines line-merges lines into filePath.
func (b *Builder) Lines(filePath string, lines ...string) *Builder {
	return b.Merge(merge.Contribution{
		Path:     filePath,
		Content:  strings.Join(lines, "\n") + "\n",
		Strategy: merge.LineMerge,
	})
}

// JSON merges obj into filePath.
func (b *Builder) JSON(filePath string, obj *merge.Object, deep bool) *Builder {
	if b.err != nil {
		return b
	}
	content, err := obj.Marshal()
	if err != nil {
		b.err = fmt.Errorf("%s: %w", b.res.PluginID, err)
		return b
	}
	strategy := merge.JSONMerge
	if deep {
		strategy = merge.JSONMergeDeep
	}
	return b.Merge(merge.Contribution{Path: filePath, Content: content, Strategy: strategy})
}

// Dep adds a runtime dependency to the manifest for target.
func (b *Builder) Dep(target, name, version string) *Builder {
	return b.dependency(target, name, version, manifest.Dependencies)
}

// DevDep adds a development dependency to the manifest for target.
func (b *Builder) DevDep(target, name, version string) *Builder {
	return b.dependency(target, name, version, manifest.DevDependencies)
}

func (b *Builder) dependency(target, name, version string, kind manifest.Kind) *Builder {
	b.res.Dependencies = append(b.res.Dependencies, manifest.Dependency{
		PluginID: b.res.PluginID,
		Name:     name,
		Version:  version,
		Kind:     kind,
		Target:   target,
	})
	return b
}

// Script adds a package script to the manifest for target.
func (b *Builder) Script(target, name, cmd string) *Builder {
	b.res.Scripts = append(b.res.Scripts, manifest.Script{
		PluginID: b.res.PluginID,
		Name:     name,
		Command:  cmd,
		Target:   target,
	})
	return b
}

// Command adds a setup command.
func (b *Builder) Command(spec command.Spec) *Builder {
	spec.PluginID = b.res.PluginID
	if spec.ID == "" {
		spec.ID = fmt.Sprintf("%s:%d", b.res.PluginID, len(b.res.Commands)+1)
	}
	b.res.Commands = append(b.res.Commands, spec)
	return b
}

// Guard adds a guard evaluated once every plugin has run.
func (b *Builder) Guard(spec guard.Spec) *Builder {
	spec.PluginID = b.res.PluginID
	if spec.ID == "" {
		spec.ID = fmt.Sprintf("%s:%d", b.res.PluginID, len(b.res.Guards)+1)
	}
	b.res.Guards = append(b.res.Guards, spec)
	return b
}

// Warn records a warning for the user.
func (b *Builder) Warn(format string, args ...any) *Builder {
	b.res.Warnings = append(b.res.Warnings, fmt.Sprintf(format, args...))
	return b
}

// Result returns the assembled result, or the first error met.
func (b *Builder) Result() (*Result, error) {
	if b.err != nil {
		return nil, b.err
	}
	return b.res, nil
}

// Obj builds an ordered JSON object from key/value pairs. Nested objects are
// built with Obj as well.
func Obj(kv ...any) *merge.Object {
	if len(kv)%2 != 0 {
		panic("plugins.Obj: odd number of arguments")
	}
	o := merge.NewObject()
	for i := 0; i < len(kv); i += 2 {
		o.Set(kv[i].(string), kv[i+1])
	}
	return o
}
