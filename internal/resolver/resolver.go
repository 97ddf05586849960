package resolver

import (
	"slices"

	"github.com/simonhull/hatch/internal/catalog"
)

// MissingDependency records a dependency that is neither requested nor
// auto-enableable. The resolver never fails on these; callers decide.
type MissingDependency struct {
	PluginID     catalog.ID
	DependencyID catalog.ID
	Optional     bool
}

// Plan is the validated, ordered plugin execution sequence.
type Plan struct {
	// Order lists every enabled plugin, dependencies first.
	Order []catalog.ID

	// AutoEnabled lists plugins that were added without being requested,
	// in catalog order.
	AutoEnabled []catalog.ID

	MissingDependencies []MissingDependency
}

// Contains reports whether id is part of the plan.
func (p *Plan) Contains(id catalog.ID) bool {
	return slices.Contains(p.Order, id)
}

// IsAutoEnabled reports whether id was added implicitly.
func (p *Plan) IsAutoEnabled(id catalog.ID) bool {
	return slices.Contains(p.AutoEnabled, id)
}

// Resolver resolves plugin sets against a catalog.
type Resolver struct {
	catalog *catalog.Catalog
}

// New creates a resolver for cat.
func New(cat *catalog.Catalog) *Resolver {
	return &Resolver{catalog: cat}
}

// Resolve expands requested into a complete, ordered plan.
//
// Duplicates in requested are ignored and its order is irrelevant. Unknown
// IDs, conflicting plugins, and dependency cycles are errors. Dependencies
// that cannot be satisfied are reported in Plan.MissingDependencies.
func (r *Resolver) Resolve(requested []catalog.ID) (*Plan, error) {
	candidates, auto, err := r.expand(requested)
	if err != nil {
		return nil, err
	}

	// Work in catalog order from here on so nothing depends on request order.
	ids := r.sortByIndex(mapKeys(candidates))

	if err := r.checkConflicts(ids, candidates); err != nil {
		return nil, err
	}

	order, err := r.topoSort(ids, candidates)
	if err != nil {
		return nil, err
	}

	return &Plan{
		Order:               order,
		AutoEnabled:         r.sortByIndex(auto),
		MissingDependencies: r.missing(ids, candidates),
	}, nil
}

// expand builds the candidate set: requested plugins, their auto-enables,
// and any auto-enableable dependencies, applied until nothing changes.
func (r *Resolver) expand(requested []catalog.ID) (map[catalog.ID]catalog.Definition, []catalog.ID, error) {
	candidates := make(map[catalog.ID]catalog.Definition)
	var unknown []catalog.ID
	var queue []catalog.ID

	for _, id := range requested {
		if _, seen := candidates[id]; seen {
			continue
		}
		def, ok := r.catalog.Get(id)
		if !ok {
			if !slices.Contains(unknown, id) {
				unknown = append(unknown, id)
			}
			continue
		}
		candidates[id] = def
		queue = append(queue, id)
	}

	if len(unknown) > 0 {
		return nil, nil, &UnknownPluginError{IDs: unknown}
	}

	var auto []catalog.ID
	add := func(id catalog.ID) {
		def, _ := r.catalog.Get(id)
		candidates[id] = def
		auto = append(auto, id)
		queue = append(queue, id)
	}

	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		def := candidates[id]

		for _, dep := range def.AutoEnables {
			if _, ok := candidates[dep]; !ok {
				add(dep)
			}
		}

		for _, dep := range def.DependsOn {
			if _, ok := candidates[dep]; ok {
				continue
			}
			if depDef, _ := r.catalog.Get(dep); depDef.AutoEnable {
				add(dep)
			}
		}
	}

	return candidates, auto, nil
}

func (r *Resolver) checkConflicts(ids []catalog.ID, candidates map[catalog.ID]catalog.Definition) error {
	for _, id := range ids {
		for _, other := range candidates[id].Conflicts {
			if _, ok := candidates[other]; ok {
				return &ConflictError{A: id, B: other}
			}
		}
	}
	return nil
}

func (r *Resolver) missing(ids []catalog.ID, candidates map[catalog.ID]catalog.Definition) []MissingDependency {
	var out []MissingDependency
	for _, id := range ids {
		def := candidates[id]
		for _, dep := range def.DependsOn {
			if _, ok := candidates[dep]; !ok {
				out = append(out, MissingDependency{PluginID: id, DependencyID: dep})
			}
		}
		for _, dep := range def.OptionalDeps {
			if _, ok := candidates[dep]; !ok {
				out = append(out, MissingDependency{PluginID: id, DependencyID: dep, Optional: true})
			}
		}
	}
	return out
}

// topoSort orders ids with Kahn's algorithm. The ready list is kept sorted by
// (priority, catalog index) so the output is deterministic.
func (r *Resolver) topoSort(ids []catalog.ID, candidates map[catalog.ID]catalog.Definition) ([]catalog.ID, error) {
	indeg := make(map[catalog.ID]int, len(ids))
	dependents := make(map[catalog.ID][]catalog.ID, len(ids))

	for _, id := range ids {
		def := candidates[id]
		for _, dep := range edgesOf(def) {
			if _, ok := candidates[dep]; !ok {
				continue
			}
			indeg[id]++
			dependents[dep] = append(dependents[dep], id)
		}
	}

	var ready []catalog.ID
	for _, id := range ids {
		if indeg[id] == 0 {
			ready = r.insertReady(ready, id, candidates)
		}
	}

	order := make([]catalog.ID, 0, len(ids))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		for _, next := range dependents[id] {
			indeg[next]--
			if indeg[next] == 0 {
				ready = r.insertReady(ready, next, candidates)
			}
		}
	}

	if len(order) != len(ids) {
		var leftover []catalog.ID
		for _, id := range ids {
			if indeg[id] > 0 {
				leftover = append(leftover, id)
			}
		}
		return nil, &CycleError{Members: r.sortByIndex(cycleMembers(leftover, candidates))}
	}

	return order, nil
}

func (r *Resolver) insertReady(ready []catalog.ID, id catalog.ID, candidates map[catalog.ID]catalog.Definition) []catalog.ID {
	less := func(a, b catalog.ID) int {
		pa, pb := candidates[a].Priority, candidates[b].Priority
		if pa != pb {
			return pa - pb
		}
		return r.catalog.Index(a) - r.catalog.Index(b)
	}
	i, _ := slices.BinarySearchFunc(ready, id, less)
	return slices.Insert(ready, i, id)
}

func (r *Resolver) sortByIndex(ids []catalog.ID) []catalog.ID {
	out := slices.Clone(ids)
	slices.SortFunc(out, func(a, b catalog.ID) int {
		return r.catalog.Index(a) - r.catalog.Index(b)
	})
	return out
}

// edgesOf returns every plugin def must run after.
func edgesOf(def catalog.Definition) []catalog.ID {
	edges := make([]catalog.ID, 0, len(def.DependsOn)+len(def.OptionalDeps))
	edges = append(edges, def.DependsOn...)
	for _, dep := range def.OptionalDeps {
		if !slices.Contains(edges, dep) {
			edges = append(edges, dep)
		}
	}
	return edges
}

func mapKeys(m map[catalog.ID]catalog.Definition) []catalog.ID {
	keys := make([]catalog.ID, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
