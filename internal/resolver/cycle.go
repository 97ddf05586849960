package resolver

import "github.com/simonhull/hatch/internal/catalog"

// cycleMembers returns the plugins among leftover that sit on a cycle.
// Kahn's algorithm leaves behind both cycle members and everything that
// depends on them; only the former belong in the error.
func cycleMembers(leftover []catalog.ID, candidates map[catalog.ID]catalog.Definition) []catalog.ID {
	inLeftover := make(map[catalog.ID]bool, len(leftover))
	for _, id := range leftover {
		inLeftover[id] = true
	}

	// Tarjan's strongly connected components.
	var (
		index    int
		stack    []catalog.ID
		onStack  = make(map[catalog.ID]bool)
		indices  = make(map[catalog.ID]int)
		lowlinks = make(map[catalog.ID]int)
		members  []catalog.ID
	)

	var strongConnect func(id catalog.ID)
	strongConnect = func(id catalog.ID) {
		indices[id] = index
		lowlinks[id] = index
		index++
		stack = append(stack, id)
		onStack[id] = true

		for _, dep := range edgesOf(candidates[id]) {
			if !inLeftover[dep] {
				continue
			}
			if _, visited := indices[dep]; !visited {
				strongConnect(dep)
				lowlinks[id] = min(lowlinks[id], lowlinks[dep])
			} else if onStack[dep] {
				lowlinks[id] = min(lowlinks[id], indices[dep])
			}
		}

		if lowlinks[id] != indices[id] {
			return
		}

		var component []catalog.ID
		for {
			top := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			onStack[top] = false
			component = append(component, top)
			if top == id {
				break
			}
		}
		if len(component) > 1 {
			members = append(members, component...)
		}
	}

	for _, id := range leftover {
		if _, visited := indices[id]; !visited {
			strongConnect(id)
		}
	}

	return members
}
