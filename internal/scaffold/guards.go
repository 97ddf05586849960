package scaffold

import (
	"fmt"

	"github.com/spf13/afero"

	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/config"
	"github.com/simonhull/hatch/internal/guard"
	"github.com/simonhull/hatch/internal/resolver"
)

var packageManagerMinimum = map[string]string{
	"pnpm": ">=8.0.0",
	"npm":  ">=9.0.0",
	"yarn": ">=1.22.0",
	"bun":  ">=1.0.0",
}

// DefaultEnvironmentGuards checks the Node.js version, the package manager
// and that the output directory can be written.
func DefaultEnvironmentGuards(probe guard.VersionProbe) EnvironmentGuards {
	return func(project *config.Project, opts Options, fs afero.Fs) []guard.Spec {
		specs := []guard.Spec{
			{
				ID:          "env:node",
				Description: fmt.Sprintf("Node.js %s is installed", project.Node),
				Severity:    guard.SeverityError,
				Blocking:    true,
				Check:       guard.CommandVersion(probe, "node", project.Node),
			},
		}

		if constraint, ok := packageManagerMinimum[project.PackageManager]; ok {
			specs = append(specs, guard.Spec{
				ID:          "env:package-manager",
				Description: fmt.Sprintf("%s %s is installed", project.PackageManager, constraint),
				Severity:    guard.SeverityError,
				Blocking:    true,
				Check:       guard.CommandVersion(probe, project.PackageManager, constraint),
			})
		}

		specs = append(specs, guard.Spec{
			ID:          "env:output-writable",
			Description: "Output directory is writable",
			Severity:    guard.SeverityError,
			Blocking:    true,
			Check:       guard.DirWritable(fs, opts.OutputPath),
		})
		return specs
	}
}

// missingDependencyGuards turns the plan's missing dependencies into guards:
// a required one blocks, an optional one is reported for information.
func missingDependencyGuards(plan *resolver.Plan, cat *catalog.Catalog) []guard.Spec {
	var specs []guard.Spec
	for _, m := range plan.MissingDependencies {
		name := string(m.DependencyID)
		if def, ok := cat.Get(m.DependencyID); ok {
			name = def.DisplayName()
		}

		if m.Optional {
			specs = append(specs, guard.Spec{
				ID:          fmt.Sprintf("deps:%s:%s", m.PluginID, m.DependencyID),
				PluginID:    m.PluginID,
				Description: fmt.Sprintf("%s works with %s, which is not enabled", m.PluginID, name),
				Severity:    guard.SeverityInfo,
				Check:       guard.Predicate(func() bool { return true }, ""),
			})
			continue
		}

		specs = append(specs, guard.Spec{
			ID:       fmt.Sprintf("deps:%s:%s", m.PluginID, m.DependencyID),
			PluginID: m.PluginID,
			Severity: guard.SeverityError,
			Blocking: true,
			Check: guard.Fail(fmt.Sprintf("%s requires %s; add %q to plugins",
				m.PluginID, name, m.DependencyID)),
		})
	}
	return specs
}
