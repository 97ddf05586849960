package manifest

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"

	"github.com/simonhull/hatch/internal/catalog"
)

// Collision records a manifest entry declared twice with different values.
type Collision struct {
	Target        string
	Name          string
	Script        bool
	Previous      catalog.ID
	PreviousValue string
	Winner        catalog.ID
	WinnerValue   string

	// Overlap reports whether the two version ranges accept a common
	// version. It is only meaningful for dependencies.
	Overlap bool
}

func (c Collision) String() string {
	where := Path(c.Target)
	if c.Script {
		return fmt.Sprintf("%s: script %q from %s (%q) replaced by %s (%q)",
			where, c.Name, c.Previous, c.PreviousValue, c.Winner, c.WinnerValue)
	}
	msg := fmt.Sprintf("%s: %s wants %s@%s, %s wants %s@%s; using %s",
		where, c.Previous, c.Name, c.PreviousValue, c.Winner, c.Name, c.WinnerValue, c.WinnerValue)
	if !c.Overlap {
		msg += " (ranges do not overlap)"
	}
	return msg
}

func newDependencyCollision(target string, d Dependency, prev entry) Collision {
	prevValue := prev.version
	winValue := d.Version
	if prev.kind != d.Kind {
		prevValue = fmt.Sprintf("%s (%s)", prev.version, prev.kind)
		winValue = fmt.Sprintf("%s (%s)", d.Version, d.Kind)
	}
	return Collision{
		Target:        target,
		Name:          d.Name,
		Previous:      prev.plugin,
		PreviousValue: prevValue,
		Winner:        d.PluginID,
		WinnerValue:   winValue,
		Overlap:       RangesOverlap(prev.version, d.Version),
	}
}

// RangesOverlap reports whether two npm-style ranges plausibly accept a
// common version: either range admits the other's floor. Ranges that are not
// semver, such as "latest" or "workspace:*", are assumed to overlap.
func RangesOverlap(a, b string) bool {
	ca, errA := semver.NewConstraint(a)
	cb, errB := semver.NewConstraint(b)
	if errA != nil || errB != nil {
		return true
	}

	floorA, okA := floor(a)
	floorB, okB := floor(b)
	if !okA || !okB {
		return true
	}
	return ca.Check(floorB) || cb.Check(floorA)
}

func floor(r string) (*semver.Version, bool) {
	first := strings.Fields(strings.Split(r, "||")[0])
	if len(first) == 0 {
		return nil, false
	}
	v, err := semver.NewVersion(strings.TrimLeft(first[0], "^~>=<v"))
	if err != nil {
		return nil, false
	}
	return v, true
}
