package catalog

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// ID identifies a plugin (e.g. "nextjs", "drizzle").
type ID string

// Category groups plugins by the concern they cover.
type Category string

const (
	CategoryMonorepo  Category = "monorepo"
	CategoryLanguage  Category = "language"
	CategoryFramework Category = "framework"
	CategoryStyling   Category = "styling"
	CategoryDatabase  Category = "database"
	CategoryAuth      Category = "auth"
	CategoryTesting   Category = "testing"
	CategoryLinting   Category = "linting"
	CategoryTooling   Category = "tooling"
	CategoryInfra     Category = "infra"
	CategoryCI        Category = "ci"
)

// Categories lists every category in display order.
var Categories = []Category{
	CategoryMonorepo,
	CategoryLanguage,
	CategoryFramework,
	CategoryStyling,
	CategoryDatabase,
	CategoryAuth,
	CategoryTesting,
	CategoryLinting,
	CategoryTooling,
	CategoryInfra,
	CategoryCI,
}

// Definition describes a single plugin.
type Definition struct {
	ID          ID       `yaml:"id" validate:"required,printascii,excludesall=/"`
	Name        string   `yaml:"name"`
	Description string   `yaml:"description"`
	Category    Category `yaml:"category" validate:"required,oneof=monorepo language framework styling database auth testing linting tooling infra ci"`

	// DependsOn lists plugins that must run before this one. A dependency is
	// pulled in implicitly only when its own definition sets AutoEnable;
	// otherwise an absent dependency is reported as missing.
	DependsOn []ID `yaml:"dependsOn"`

	// OptionalDeps only constrain ordering. Absent optional deps are reported
	// but never pulled in.
	OptionalDeps []ID `yaml:"optionalDeps"`

	Conflicts []ID `yaml:"conflicts"`

	// AutoEnables are soft dependencies that are always added alongside this
	// plugin and reported separately.
	AutoEnables []ID `yaml:"autoEnables"`

	// AutoEnable marks a plugin as safe to add implicitly when another
	// plugin depends on it.
	AutoEnable bool `yaml:"autoEnable"`

	// Priority orders otherwise independent plugins. Lower runs earlier.
	Priority int `yaml:"priority"`
}

// DisplayName returns Name, falling back to the ID.
func (d Definition) DisplayName() string {
	if d.Name != "" {
		return d.Name
	}
	return string(d.ID)
}

func (d Definition) clone() Definition {
	d.DependsOn = slices.Clone(d.DependsOn)
	d.OptionalDeps = slices.Clone(d.OptionalDeps)
	d.Conflicts = slices.Clone(d.Conflicts)
	d.AutoEnables = slices.Clone(d.AutoEnables)
	return d
}

// Catalog is an ordered, read-only set of plugin definitions.
type Catalog struct {
	defs  []Definition
	index map[ID]int
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// New builds a catalog from definitions in insertion order.
// Definitions must have unique IDs and may only reference known plugins.
func New(defs ...Definition) (*Catalog, error) {
	c := &Catalog{
		defs:  make([]Definition, 0, len(defs)),
		index: make(map[ID]int, len(defs)),
	}

	for _, def := range defs {
		if err := validate.Struct(def); err != nil {
			return nil, fmt.Errorf("invalid plugin definition %q: %w", def.ID, err)
		}
		if _, exists := c.index[def.ID]; exists {
			return nil, fmt.Errorf("duplicate plugin id %q", def.ID)
		}
		c.index[def.ID] = len(c.defs)
		c.defs = append(c.defs, def.clone())
	}

	if err := c.checkReferences(); err != nil {
		return nil, err
	}

	return c, nil
}

// MustNew is like New but panics on error. It is meant for static tables.
func MustNew(defs ...Definition) *Catalog {
	c, err := New(defs...)
	if err != nil {
		panic(err)
	}
	return c
}

func (c *Catalog) checkReferences() error {
	var errs []error
	for _, def := range c.defs {
		refs := map[string][]ID{
			"dependsOn":    def.DependsOn,
			"optionalDeps": def.OptionalDeps,
			"conflicts":    def.Conflicts,
			"autoEnables":  def.AutoEnables,
		}
		for _, field := range []string{"dependsOn", "optionalDeps", "conflicts", "autoEnables"} {
			for _, ref := range refs[field] {
				if ref == def.ID {
					errs = append(errs, fmt.Errorf("plugin %q lists itself in %s", def.ID, field))
					continue
				}
				if _, ok := c.index[ref]; !ok {
					errs = append(errs, fmt.Errorf("plugin %q: %s references unknown plugin %q", def.ID, field, ref))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Get returns the definition for id.
func (c *Catalog) Get(id ID) (Definition, bool) {
	i, ok := c.index[id]
	if !ok {
		return Definition{}, false
	}
	return c.defs[i].clone(), true
}

// Has reports whether id is in the catalog.
func (c *Catalog) Has(id ID) bool {
	_, ok := c.index[id]
	return ok
}

// Index returns the insertion index of id, or -1 when unknown.
func (c *Catalog) Index(id ID) int {
	if i, ok := c.index[id]; ok {
		return i
	}
	return -1
}

// Len returns the number of definitions.
func (c *Catalog) Len() int {
	return len(c.defs)
}

// All returns every definition in insertion order.
func (c *Catalog) All() []Definition {
	out := make([]Definition, len(c.defs))
	for i, def := range c.defs {
		out[i] = def.clone()
	}
	return out
}

// IDs returns every plugin ID in insertion order.
func (c *Catalog) IDs() []ID {
	ids := make([]ID, len(c.defs))
	for i, def := range c.defs {
		ids[i] = def.ID
	}
	return ids
}

// ByCategory returns the definitions of one category in insertion order.
func (c *Catalog) ByCategory(cat Category) []Definition {
	var out []Definition
	for _, def := range c.defs {
		if def.Category == cat {
			out = append(out, def.clone())
		}
	}
	return out
}

// Extend returns a new catalog with defs appended after the existing
// definitions. The receiver is left untouched.
func (c *Catalog) Extend(defs ...Definition) (*Catalog, error) {
	all := make([]Definition, 0, len(c.defs)+len(defs))
	all = append(all, c.defs...)
	all = append(all, defs...)
	return New(all...)
}

// file is the YAML layout accepted by Parse.
type file struct {
	Plugins []Definition `yaml:"plugins"`
}

// Parse decodes plugin definitions from a YAML document of the form
//
//	plugins:
//	  - id: storybook
//	    category: tooling
//	    dependsOn: [typescript]
func Parse(data []byte) ([]Definition, error) {
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse plugin catalog: %w", err)
	}
	for i := range f.Plugins {
		f.Plugins[i].ID = ID(strings.TrimSpace(string(f.Plugins[i].ID)))
	}
	return f.Plugins, nil
}
