package resolver

import (
	"fmt"
	"strings"

	"github.com/simonhull/hatch/internal/catalog"
)

// UnknownPluginError is returned when a requested plugin is not in the catalog.
type UnknownPluginError struct {
	IDs []catalog.ID
}

func (e *UnknownPluginError) Error() string {
	if len(e.IDs) == 1 {
		return fmt.Sprintf("unknown plugin: %s", e.IDs[0])
	}
	return fmt.Sprintf("unknown plugins: %s", joinIDs(e.IDs))
}

// CycleError is returned when the dependency graph contains a cycle.
// Members lists every plugin that takes part in a cycle, in catalog order.
type CycleError struct {
	Members []catalog.ID
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle between plugins: %s", joinIDs(e.Members))
}

// ConflictError is returned when two plugins in the candidate set are
// declared as incompatible.
type ConflictError struct {
	A catalog.ID
	B catalog.ID
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("plugin %s conflicts with %s", e.A, e.B)
}

func joinIDs(ids []catalog.ID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, ", ")
}
