package commands

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/simonhull/hatch/internal/catalog"
	"github.com/simonhull/hatch/internal/config"
	"github.com/simonhull/hatch/internal/input"
)

// projectFlags are the flags that build or override a project config.
type projectFlags struct {
	config         string
	name           string
	plugins        string
	packageManager string
	node           string
	catalog        string
}

func (f *projectFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "Path to hatch.yml (defaults to ./hatch.yml when present)")
	cmd.Flags().StringVar(&f.name, "name", "", "Project name")
	cmd.Flags().StringVarP(&f.plugins, "plugins", "p", "", "Comma separated plugin IDs")
	cmd.Flags().StringVar(&f.packageManager, "package-manager", "", "Package manager (pnpm, npm, yarn, bun)")
	cmd.Flags().StringVar(&f.node, "node", "", "Node.js version range")
	cmd.Flags().StringVar(&f.catalog, "catalog", "", "YAML file with extra plugin definitions")
}

// project loads hatch.yml when one is given or found, otherwise starts from
// defaults and asks for what is missing, then applies flag overrides.
func (f *projectFlags) project(args []string, ask *input.Prompter) (*config.Project, error) {
	path := f.config
	if path == "" {
		if _, err := os.Stat(config.FileName); err == nil {
			path = config.FileName
		}
	}

	var p *config.Project
	if path != "" {
		loaded, err := config.Load(path)
		if err != nil {
			return nil, err
		}
		p = loaded
	} else {
		name := f.name
		if name == "" && len(args) > 0 {
			name = args[0]
		}
		if name == "" && ask.Interactive() {
			name = ask.Prompt("Project name", "my-app")
		}
		if name == "" {
			return nil, errors.New("project name required: pass it as an argument, with --name, or in hatch.yml")
		}
		p = config.Default(name)
		if f.plugins == "" && ask.Interactive() {
			p.Plugins = config.ParseIDs(ask.Prompt("Plugins (comma separated)", "typescript"))
		}
	}

	if f.name != "" {
		p.Name = f.name
	} else if path != "" && len(args) > 0 {
		p.Name = args[0]
	}
	if f.plugins != "" {
		p.Plugins = config.ParseIDs(f.plugins)
	}
	if f.packageManager != "" {
		p.PackageManager = f.packageManager
	}
	if f.node != "" {
		p.Node = f.node
	}

	if err := p.Validate(); err != nil {
		return nil, err
	}
	return p, nil
}

// loadCatalog returns the built-in catalog extended with the definitions in
// path, if any.
func loadCatalog(path string) (*catalog.Catalog, error) {
	base := catalog.Default()
	if path == "" {
		return base, nil
	}

	data, err := os.ReadFile(filepath.Clean(path))
	if err != nil {
		return nil, fmt.Errorf("reading catalog: %w", err)
	}
	defs, err := catalog.Parse(data)
	if err != nil {
		return nil, err
	}
	return base.Extend(defs...)
}
