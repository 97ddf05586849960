// Package config loads and validates hatch project configuration.
//
// A project is described by hatch.yml:
//
//	name: my-app
//	packageManager: pnpm
//	plugins: [turborepo, nextjs, drizzle]
//	apps:
//	  - name: web
//	    kind: web
//	env:
//	  DATABASE_URL: postgres://localhost:5432/app
//
// The document is checked against an embedded JSON schema, scalar fields can
// be overridden by HATCH_* environment variables, and the final value is
// validated again after overrides.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/simonhull/hatch/internal/catalog"
)

// FileName is the project config file looked up in a directory.
const FileName = "hatch.yml"

// AppKind classifies a workspace app.
type AppKind string

const (
	AppWeb AppKind = "web"
	AppAPI AppKind = "api"
	AppLib AppKind = "lib"
)

// App is one workspace package in a monorepo.
type App struct {
	Name string  `yaml:"name" validate:"required"`
	Kind AppKind `yaml:"kind" validate:"required,oneof=web api lib"`
	Path string  `yaml:"path,omitempty"`
}

// Dir returns the app directory relative to the project root.
func (a App) Dir() string {
	if a.Path != "" {
		return filepath.ToSlash(filepath.Clean(a.Path))
	}
	if a.Kind == AppLib {
		return "packages/" + a.Name
	}
	return "apps/" + a.Name
}

// Project is the user's description of what to scaffold.
type Project struct {
	Name           string         `yaml:"name" validate:"required,npmname"`
	Description    string         `yaml:"description,omitempty"`
	PackageManager string         `yaml:"packageManager" validate:"required,oneof=pnpm npm yarn bun"`
	Node           string         `yaml:"node" validate:"required,semverrange"`
	Plugins        []catalog.ID   `yaml:"plugins"`
	Apps           []App          `yaml:"apps,omitempty" validate:"dive"`
	Env            map[string]any `yaml:"env,omitempty"`
	Options        map[string]any `yaml:"options,omitempty"`
}

// Default returns a project with every optional field filled in.
func Default(name string) *Project {
	p := &Project{Name: name}
	p.applyDefaults()
	return p
}

func (p *Project) applyDefaults() {
	if p.PackageManager == "" {
		p.PackageManager = "pnpm"
	}
	if p.Node == "" {
		p.Node = ">=18"
	}
}

// Option returns the option map for one plugin, or nil.
func (p *Project) Option(plugin catalog.ID) map[string]any {
	if p.Options == nil {
		return nil
	}
	m, _ := p.Options[string(plugin)].(map[string]any)
	return m
}

// AppsOf returns the apps of the given kind.
func (p *Project) AppsOf(kind AppKind) []App {
	var out []App
	for _, a := range p.Apps {
		if a.Kind == kind {
			out = append(out, a)
		}
	}
	return out
}

// EnvLines returns KEY=value lines in sorted key order.
func (p *Project) EnvLines() []string {
	keys := make([]string, 0, len(p.Env))
	for k := range p.Env {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, fmt.Sprintf("%s=%v", k, p.Env[k]))
	}
	return lines
}

// npmName matches the package names npm accepts, optionally scoped.
var npmName = regexp.MustCompile(`^(?:@[a-z0-9-~][a-z0-9-._~]*/)?[a-z0-9-~][a-z0-9-._~]*$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("semverrange", func(fl validator.FieldLevel) bool {
		_, err := semver.NewConstraint(fl.Field().String())
		return err == nil
	})
	_ = v.RegisterValidation("npmname", func(fl validator.FieldLevel) bool {
		return npmName.MatchString(fl.Field().String())
	})
	return v
}

// Validate checks the project after defaults and overrides.
func (p *Project) Validate() error {
	err := validate.Struct(p)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	issues := make([]Issue, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		issues = append(issues, Issue{
			Path:    "/" + strings.ReplaceAll(strings.TrimPrefix(fe.Namespace(), "Project."), ".", "/"),
			Message: printer.Sprintf("failed %s check (value %v)", fe.Tag(), fe.Value()),
			Keyword: fe.Tag(),
		})
	}
	return &ValidationError{Issues: issues}
}

// Parse decodes and validates a project document.
func Parse(data []byte) (*Project, error) {
	issues, err := ValidateDocument(data)
	if err != nil {
		return nil, err
	}
	if len(issues) > 0 {
		return nil, &ValidationError{Issues: issues}
	}

	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing YAML: %w", err)
	}
	p.applyDefaults()
	if err := p.Validate(); err != nil {
		return nil, err
	}
	return &p, nil
}

// Load reads the project config at path. A directory is searched for
// hatch.yml or hatch.yaml. HATCH_NAME, HATCH_DESCRIPTION,
// HATCH_PACKAGEMANAGER, HATCH_NODE and HATCH_PLUGINS override the file.
func Load(path string) (*Project, error) {
	v := viper.New()
	v.SetConfigType("yaml")
	v.SetEnvPrefix("HATCH")
	v.AutomaticEnv()

	info, err := os.Stat(path)
	switch {
	case err != nil:
		return nil, fmt.Errorf("project config not found: %w", err)
	case info.IsDir():
		v.SetConfigName("hatch")
		v.AddConfigPath(path)
	default:
		v.SetConfigFile(path)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", FileName, err)
	}
	file := v.ConfigFileUsed()

	data, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", file, err)
	}

	issues, err := ValidateDocument(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", file, err)
	}
	if len(issues) > 0 {
		return nil, &ValidationError{File: file, Issues: issues}
	}

	// yaml keeps the case of env and option keys, which viper folds.
	var p Project
	if err := yaml.Unmarshal(data, &p); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", file, err)
	}

	p.Name = v.GetString("name")
	p.Description = v.GetString("description")
	p.PackageManager = v.GetString("packageManager")
	p.Node = v.GetString("node")
	if plugins := v.GetStringSlice("plugins"); len(plugins) > 0 {
		p.Plugins = ParseIDs(strings.Join(plugins, ","))
	}

	p.applyDefaults()
	if err := p.Validate(); err != nil {
		var ve *ValidationError
		if errors.As(err, &ve) {
			ve.File = file
		}
		return nil, err
	}
	return &p, nil
}

// ParseIDs splits a comma separated plugin list.
func ParseIDs(s string) []catalog.ID {
	var parts []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			parts = append(parts, part)
		}
	}
	return toIDs(parts)
}

func toIDs(s []string) []catalog.ID {
	out := make([]catalog.ID, 0, len(s))
	for _, id := range s {
		out = append(out, catalog.ID(strings.TrimSpace(id)))
	}
	return out
}
