package plugins

import (
	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/manifest"
	"github.com/simonhull/hatch/internal/merge"
)

// TemplateData is what templates see.
type TemplateData struct {
	*Context
	Dir  string // workspace directory, "" for the root
	Root string // path from Dir back to the project root
	Name string // package name of the workspace
	DB   string // import path of the database client
	Port int
}

func (c *Context) data(dir string) TemplateData {
	name := c.Project.Name
	if dir != "" {
		name = manifest.WorkspaceName(c.Project.Name, dir)
	}
	_, _, db := c.dbLayout()
	return TemplateData{Context: c, Dir: dir, Root: Relative(dir), Name: name, DB: db}
}

// dbLayout returns where the database client lives: the workspace target,
// the source directory and the import path apps use.
func (c *Context) dbLayout() (target, src, importPath string) {
	if c.Monorepo() {
		return "packages/db", "packages/db/src", manifest.WorkspaceName(c.Project.Name, "packages/db")
	}
	return "", "src/db", "@/db"
}

// ORM returns the database plugin in the plan, or "".
func (c *Context) ORM() catalog.ID {
	switch {
	case c.Has(catalog.Drizzle):
		return catalog.Drizzle
	case c.Has(catalog.Prisma):
		return catalog.Prisma
	}
	return ""
}

var packageManagerVersions = map[string]string{
	"pnpm": "9.12.3",
	"npm":  "10.9.0",
	"yarn": "4.5.1",
	"bun":  "1.1.34",
}

func prepend(filePath, content string) merge.Contribution {
	return merge.Contribution{Path: filePath, Content: content, Strategy: merge.Prepend}
}

func section(filePath, name, content string) merge.Contribution {
	return merge.Contribution{Path: filePath, Content: content, Strategy: merge.SectionMerge, Section: name}
}
