package merge

import (
	"fmt"

	"github.com/simonhull/hatch/internal/catalog"
)

// Strategy selects how a contribution combines with the content before it.
type Strategy string

const (
	Replace       Strategy = "replace"
	JSONMerge     Strategy = "json-merge"
	JSONMergeDeep Strategy = "json-merge-deep"
	Append        Strategy = "append"
	Prepend       Strategy = "prepend"
	InsertAfter   Strategy = "insert-after"
	InsertBefore  Strategy = "insert-before"
	SectionMerge  Strategy = "section-merge"
	LineMerge     Strategy = "line-merge"
	ASTTransform  Strategy = "ast-transform"
)

// Strategies lists every supported strategy.
var Strategies = []Strategy{
	Replace, JSONMerge, JSONMergeDeep, Append, Prepend,
	InsertAfter, InsertBefore, SectionMerge, LineMerge, ASTTransform,
}

// Valid reports whether s is a known strategy.
func (s Strategy) Valid() bool {
	for _, known := range Strategies {
		if s == known {
			return true
		}
	}
	return false
}

// Contribution is one plugin's offer toward a single output file.
type Contribution struct {
	PluginID catalog.ID
	Path     string // project-relative, slash separated
	Content  string
	Strategy Strategy
	Priority int

	// Marker locates the splice point for insert-after and insert-before.
	// It is a literal substring unless MarkerRegex is set.
	Marker      string
	MarkerRegex bool

	// Section names the block used by section-merge.
	Section string

	// SkipIfExists drops the contribution when the target already exists.
	SkipIfExists bool

	// Condition, when set, is evaluated before the contribution is collected.
	// The merger never looks at it.
	Condition func() bool

	// Transform describes the change applied by ast-transform.
	Transform *Transform
}

// Transform is the descriptor forwarded to a Transformer.
type Transform struct {
	Kind    string
	Options map[string]any
}

// Transformer applies ast-transform contributions. Implementations own the
// semantics of each transform kind.
type Transformer interface {
	Transform(path, source string, t Transform) (string, error)
}

// TransformerFunc adapts a function to Transformer.
type TransformerFunc func(path, source string, t Transform) (string, error)

// Transform calls f.
func (f TransformerFunc) Transform(path, source string, t Transform) (string, error) {
	return f(path, source, t)
}

// Result is the merged output for one path.
type Result struct {
	Path    string
	Content string

	// Contributors lists plugin IDs in the order their contributions applied.
	Contributors []catalog.ID
}

func (c Contribution) validate() error {
	if !c.Strategy.Valid() {
		return fmt.Errorf("unknown merge strategy %q", c.Strategy)
	}
	switch c.Strategy {
	case InsertAfter, InsertBefore:
		if c.Marker == "" {
			return fmt.Errorf("%s requires a marker", c.Strategy)
		}
	case SectionMerge:
		if c.Section == "" {
			return fmt.Errorf("%s requires a section name", c.Strategy)
		}
	case ASTTransform:
		if c.Transform == nil || c.Transform.Kind == "" {
			return fmt.Errorf("%s requires a transform descriptor with a kind", c.Strategy)
		}
	}
	return nil
}
