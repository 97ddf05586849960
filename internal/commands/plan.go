package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/config"
	"github.com/simonhull/hatch/internal/output"
	"github.com/simonhull/hatch/internal/resolver"
)

// PlanCmd prints the resolved plugin plan without scaffolding
func PlanCmd() *cobra.Command {
	var plugins, catalogPath, configPath string

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Show the resolved plugin order",
		Long: `Resolve a plugin list and print the order plugins run in, the plugins
enabled implicitly and any dependencies that are missing.

Example:
  hatch plan --plugins nextjs,drizzle,tailwind`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}

			ids := config.ParseIDs(plugins)
			if len(ids) == 0 && configPath != "" {
				p, err := config.Load(configPath)
				if err != nil {
					return err
				}
				ids = p.Plugins
			}
			if len(ids) == 0 {
				return fmt.Errorf("no plugins given: use --plugins or --config")
			}

			plan, err := resolver.New(cat).Resolve(ids)
			if err != nil {
				return err
			}
			printPlan(cat, plan)
			return nil
		},
	}

	cmd.Flags().StringVarP(&plugins, "plugins", "p", "", "Comma separated plugin IDs")
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "Read plugins from a hatch.yml")
	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML file with extra plugin definitions")

	return cmd
}

func printPlan(cat *catalog.Catalog, plan *resolver.Plan) {
	output.Header("Plan")

	rows := make([][2]string, 0, len(plan.Order))
	for i, id := range plan.Order {
		label := displayName(cat, id)
		if plan.IsAutoEnabled(id) {
			label += " (auto)"
		}
		rows = append(rows, [2]string{fmt.Sprintf("%2d", i+1), label})
	}
	output.KeyValues(rows)

	if len(plan.AutoEnabled) > 0 {
		output.Info("Enabled automatically: " + joinIDs(plan.AutoEnabled))
	}
	for _, m := range plan.MissingDependencies {
		if m.Optional {
			output.Info(fmt.Sprintf("%s works with %s, which is not enabled", m.PluginID, displayName(cat, m.DependencyID)))
			continue
		}
		output.Warn(fmt.Sprintf("%s requires %s, which is not enabled", m.PluginID, displayName(cat, m.DependencyID)))
	}
}

func displayName(cat *catalog.Catalog, id catalog.ID) string {
	if def, ok := cat.Get(id); ok {
		return def.DisplayName()
	}
	return string(id)
}

func joinIDs(ids []catalog.ID) string {
	s := make([]string, len(ids))
	for i, id := range ids {
		s[i] = string(id)
	}
	return strings.Join(s, ", ")
}
