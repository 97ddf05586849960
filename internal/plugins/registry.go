package plugins

import (
	"fmt"
	"slices"
	"sync"

	"github.com/simonhull/hatch/internal/catalog"
)

// Registry maps plugin IDs to generators.
type Registry struct {
	mu         sync.RWMutex
	generators map[catalog.ID]Generator
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{generators: make(map[catalog.ID]Generator)}
}

// Register adds the generator for id.
func (r *Registry) Register(id catalog.ID, g Generator) error {
	if g == nil {
		return fmt.Errorf("cannot register nil generator for '%s'", id)
	}
	if id == "" {
		return fmt.Errorf("cannot register generator with empty id")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.generators[id]; exists {
		return fmt.Errorf("generator '%s' is already registered", id)
	}
	r.generators[id] = g
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(id catalog.ID, g Generator) *Registry {
	if err := r.Register(id, g); err != nil {
		panic(err)
	}
	return r
}

// Get returns the generator for id.
func (r *Registry) Get(id catalog.ID) (Generator, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	g, ok := r.generators[id]
	return g, ok
}

// Has reports whether id has a generator.
func (r *Registry) Has(id catalog.ID) bool {
	_, ok := r.Get(id)
	return ok
}

// IDs returns every registered ID in sorted order.
func (r *Registry) IDs() []catalog.ID {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]catalog.ID, 0, len(r.generators))
	for id := range r.generators {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Size returns the number of registered generators.
func (r *Registry) Size() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.generators)
}

// Check reports catalog plugins without a generator.
func (r *Registry) Check(cat *catalog.Catalog) error {
	var missing []catalog.ID
	for _, def := range cat.All() {
		if !r.Has(def.ID) {
			missing = append(missing, def.ID)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("no generator for plugins: %v", missing)
	}
	return nil
}

var (
	builtinOnce     sync.Once
	builtinRegistry *Registry
)

// Builtin returns the registry of built-in generators.
func Builtin() *Registry {
	builtinOnce.Do(func() {
		builtinRegistry = NewRegistry().
			MustRegister(catalog.Turborepo, GeneratorFunc(turborepo)).
			MustRegister(catalog.TypeScript, GeneratorFunc(typescript)).
			MustRegister(catalog.NextJS, GeneratorFunc(nextjs)).
			MustRegister(catalog.ReactVite, GeneratorFunc(reactVite)).
			MustRegister(catalog.NestJS, GeneratorFunc(nestjs)).
			MustRegister(catalog.Tailwind, GeneratorFunc(tailwind)).
			MustRegister(catalog.Postgres, GeneratorFunc(postgres)).
			MustRegister(catalog.Drizzle, GeneratorFunc(drizzle)).
			MustRegister(catalog.Prisma, GeneratorFunc(prisma)).
			MustRegister(catalog.AuthJS, GeneratorFunc(authjs)).
			MustRegister(catalog.Clerk, GeneratorFunc(clerk)).
			MustRegister(catalog.Vitest, GeneratorFunc(vitest)).
			MustRegister(catalog.Jest, GeneratorFunc(jest)).
			MustRegister(catalog.ESLint, GeneratorFunc(eslint)).
			MustRegister(catalog.Prettier, GeneratorFunc(prettier)).
			MustRegister(catalog.Biome, GeneratorFunc(biome)).
			MustRegister(catalog.Husky, GeneratorFunc(husky)).
			MustRegister(catalog.Docker, GeneratorFunc(docker)).
			MustRegister(catalog.DockerCompose, GeneratorFunc(dockerCompose)).
			MustRegister(catalog.GitHubActions, GeneratorFunc(githubActions))
	})
	return builtinRegistry
}
