package merge

import (
	"errors"
	"fmt"

	"github.com/simonhull/hatch/internal/catalog"
)

// ErrEmptyGroup is returned when Merge is called without contributions.
var ErrEmptyGroup = errors.New("merge group is empty")

// ErrNoTransformer is returned for ast-transform contributions when the
// merger has no Transformer.
var ErrNoTransformer = errors.New("no transformer configured for ast-transform")

// MarkerNotFoundError is returned when an insert marker does not occur in the
// accumulated content.
type MarkerNotFoundError struct {
	Path   string
	Marker string
}

func (e *MarkerNotFoundError) Error() string {
	return fmt.Sprintf("marker %q not found in %s", e.Marker, e.Path)
}

// InvalidJSONError is returned when a JSON strategy meets content that is not
// a JSON object.
type InvalidJSONError struct {
	Path     string
	PluginID catalog.ID
	Err      error
}

func (e *InvalidJSONError) Error() string {
	if e.PluginID == "" {
		return fmt.Sprintf("invalid JSON in %s: %v", e.Path, e.Err)
	}
	return fmt.Sprintf("invalid JSON from %s in %s: %v", e.PluginID, e.Path, e.Err)
}

func (e *InvalidJSONError) Unwrap() error {
	return e.Err
}

// DuplicateContributionError is returned when one plugin contributes to the
// same path twice in a single group.
type DuplicateContributionError struct {
	Path     string
	PluginID catalog.ID
}

func (e *DuplicateContributionError) Error() string {
	return fmt.Sprintf("plugin %s contributes to %s more than once", e.PluginID, e.Path)
}

// InvalidContributionError is returned when a contribution is malformed for
// its strategy.
type InvalidContributionError struct {
	Path     string
	PluginID catalog.ID
	Err      error
}

func (e *InvalidContributionError) Error() string {
	return fmt.Sprintf("invalid contribution from %s to %s: %v", e.PluginID, e.Path, e.Err)
}

func (e *InvalidContributionError) Unwrap() error {
	return e.Err
}
