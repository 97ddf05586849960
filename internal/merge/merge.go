package merge

import (
	"fmt"
	"sort"

	"github.com/simonhull/hatch/internal/catalog"
)

// Merger folds merge groups into final file content.
type Merger struct {
	transformer Transformer
}

// Option configures a Merger.
type Option func(*Merger)

// WithTransformer sets the collaborator used for ast-transform.
func WithTransformer(t Transformer) Option {
	return func(m *Merger) {
		m.transformer = t
	}
}

// New creates a merger.
func New(opts ...Option) *Merger {
	m := &Merger{}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Merge merges group using a merger without a transformer.
func Merge(path string, group []Contribution) (*Result, error) {
	return New().Merge(path, group)
}

// Merge combines every contribution in group into the content for path.
//
// The group is sorted by priority first; callers need not pre-sort. A group of
// one returns its content unchanged whatever the strategy.
func (m *Merger) Merge(path string, group []Contribution) (*Result, error) {
	if len(group) == 0 {
		return nil, ErrEmptyGroup
	}

	seen := make(map[catalog.ID]bool, len(group))
	for _, c := range group {
		if c.Path != "" && c.Path != path {
			return nil, &InvalidContributionError{
				Path:     path,
				PluginID: c.PluginID,
				Err:      fmt.Errorf("contribution targets %s", c.Path),
			}
		}
		if seen[c.PluginID] {
			return nil, &DuplicateContributionError{Path: path, PluginID: c.PluginID}
		}
		seen[c.PluginID] = true

		if err := c.validate(); err != nil {
			return nil, &InvalidContributionError{Path: path, PluginID: c.PluginID, Err: err}
		}
	}

	sorted := SortGroup(group)

	result := &Result{
		Path:         path,
		Content:      sorted[0].Content,
		Contributors: []catalog.ID{sorted[0].PluginID},
	}

	for _, c := range sorted[1:] {
		next, err := m.apply(path, result.Content, c)
		if err != nil {
			return nil, err
		}
		result.Content = next
		result.Contributors = append(result.Contributors, c.PluginID)
	}

	return result, nil
}

// SortGroup returns a copy of group ordered by ascending priority. Equal
// priorities keep their original relative order.
func SortGroup(group []Contribution) []Contribution {
	sorted := make([]Contribution, len(group))
	copy(sorted, group)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Priority < sorted[j].Priority
	})
	return sorted
}

func (m *Merger) apply(path, acc string, c Contribution) (string, error) {
	switch c.Strategy {
	case Replace:
		return c.Content, nil
	case JSONMerge:
		return mergeJSON(path, acc, c, false)
	case JSONMergeDeep:
		return mergeJSON(path, acc, c, true)
	case Append:
		return joinText(acc, c.Content), nil
	case Prepend:
		return joinText(c.Content, acc), nil
	case InsertAfter:
		return insertAtMarker(path, acc, c, true)
	case InsertBefore:
		return insertAtMarker(path, acc, c, false)
	case SectionMerge:
		return mergeSection(path, acc, c)
	case LineMerge:
		return mergeLines(acc, c.Content), nil
	case ASTTransform:
		if m.transformer == nil {
			return "", fmt.Errorf("merge %s: %w", path, ErrNoTransformer)
		}
		out, err := m.transformer.Transform(path, acc, *c.Transform)
		if err != nil {
			return "", fmt.Errorf("transform %q from %s on %s: %w", c.Transform.Kind, c.PluginID, path, err)
		}
		return out, nil
	default:
		return "", &InvalidContributionError{
			Path:     path,
			PluginID: c.PluginID,
			Err:      fmt.Errorf("unknown merge strategy %q", c.Strategy),
		}
	}
}
