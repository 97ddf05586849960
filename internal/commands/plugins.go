package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/output"
)

var (
	tableHeaderStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	tableCellStyle   = lipgloss.NewStyle().Padding(0, 1)
	tableBorderStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// PluginsCmd lists the plugin catalog
func PluginsCmd() *cobra.Command {
	var catalogPath string

	cmd := &cobra.Command{
		Use:   "plugins",
		Short: "List available plugins",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cat, err := loadCatalog(catalogPath)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), pluginTable(cat))
			output.Info(fmt.Sprintf("%d plugins", cat.Len()))
			return nil
		},
	}

	cmd.Flags().StringVar(&catalogPath, "catalog", "", "YAML file with extra plugin definitions")

	return cmd
}

// pluginTable renders the catalog grouped by category.
func pluginTable(cat *catalog.Catalog) string {
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(tableBorderStyle).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return tableHeaderStyle
			}
			return tableCellStyle
		}).
		Headers("CATEGORY", "ID", "NAME", "REQUIRES", "DESCRIPTION")

	for _, category := range catalog.Categories {
		for i, def := range cat.ByCategory(category) {
			label := ""
			if i == 0 {
				label = string(category)
			}
			t.Row(label, string(def.ID), def.DisplayName(), joinIDs(def.DependsOn), def.Description)
		}
	}
	return strings.TrimRight(t.String(), "\n")
}
