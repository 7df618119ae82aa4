// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"dario.cat/mergo"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

const (
	// AppName is the application name, used for the registry directory.
	AppName = "ansictl"
	// RegistryEnvVar overrides the registry file location.
	RegistryEnvVar = "ANSICTL_CONFIG"
	// LocalRegistryFile is preferred over the user registry when present in
	// the working directory.
	LocalRegistryFile = "ansictl.yaml"

	// ProjectRootEnvVar lets the environment stand in for a registered
	// project, with the companion variables below.
	ProjectRootEnvVar        = "ANSICTL_PROJECT_ROOT"
	projectNameEnvVar        = "ANSICTL_PROJECT_NAME"
	projectInventoryEnvVar   = "ANSICTL_INVENTORY"
	projectRolesEnvVar       = "ANSICTL_ROLES_PATH"
	projectCollectionsEnvVar = "ANSICTL_COLLECTIONS_PATHS"
	projectExtraEnvPrefix    = "ANSICTL_ENV_"
)

// RegistryPath returns the project registry file location: the env override,
// a local ansictl.yaml, or the user config directory, in that order.
func RegistryPath() (string, error) {
	if path := os.Getenv(RegistryEnvVar); path != "" {
		return path, nil
	}
	if fileExists(LocalRegistryFile) {
		abs, err := filepath.Abs(LocalRegistryFile)
		if err != nil {
			return "", fmt.Errorf("resolving local registry path: %w", err)
		}
		return abs, nil
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, AppName, "projects.yaml"), nil
}

// LoadRegistry reads the registry. A missing file yields an empty registry,
// not an error.
func LoadRegistry() (*Registry, error) {
	path, err := RegistryPath()
	if err != nil {
		return nil, err
	}

	reg := &Registry{Projects: make(map[string]*ProjectDefinition)}
	if !fileExists(path) {
		return reg, nil
	}

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unreadable registry %s: %w", path, err)
	}
	if err := v.Unmarshal(reg); err != nil {
		return nil, fmt.Errorf("invalid registry %s: %w", path, err)
	}
	if reg.Projects == nil {
		reg.Projects = make(map[string]*ProjectDefinition)
	}
	for name, def := range reg.Projects {
		if def.Name == "" {
			def.Name = name
		}
	}
	return reg, nil
}

// SaveRegistry writes the registry as YAML, creating the directory if
// needed.
func SaveRegistry(reg *Registry) (string, error) {
	path, err := RegistryPath()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("failed to create registry directory: %w", err)
	}

	data, err := yaml.Marshal(reg)
	if err != nil {
		return "", fmt.Errorf("failed to encode registry: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write registry: %w", err)
	}
	return path, nil
}

// Register adds or replaces a project definition, optionally making it the
// default selection.
func (r *Registry) Register(def *ProjectDefinition, makeDefault bool) {
	if r.Projects == nil {
		r.Projects = make(map[string]*ProjectDefinition)
	}
	r.Projects[def.Name] = def
	if makeDefault {
		r.Defaults.Project = def.Name
	}
}

// Resolve picks the effective project: an explicit name wins, then an
// environment-synthesized project (ANSICTL_PROJECT_ROOT), then the saved
// default. Registry defaults are folded into unset definition fields. A nil
// result with nil error means no project applies.
func (r *Registry) Resolve(name string) (*ProjectDefinition, error) {
	var def *ProjectDefinition
	switch {
	case name != "":
		found, ok := r.Projects[name]
		if !ok {
			return nil, fmt.Errorf("project %q is not registered", name)
		}
		def = found
	case os.Getenv(ProjectRootEnvVar) != "":
		def = projectFromEnv()
	case r.Defaults.Project != "":
		found, ok := r.Projects[r.Defaults.Project]
		if !ok {
			return nil, fmt.Errorf("default project %q is not registered", r.Defaults.Project)
		}
		def = found
	default:
		return nil, nil
	}

	// Copy before folding defaults so the registry itself stays unchanged.
	resolved := *def
	fallback := ProjectDefinition{
		Inventory:        r.Defaults.Inventory,
		RolesPaths:       r.Defaults.RolesPaths,
		CollectionsPaths: r.Defaults.CollectionsPaths,
		Env:              r.Defaults.Env,
	}
	if err := mergo.Merge(&resolved, fallback); err != nil {
		return nil, fmt.Errorf("folding registry defaults: %w", err)
	}
	return &resolved, nil
}

// projectFromEnv synthesizes a project definition from the ANSICTL_*
// environment, including extra env pairs from the ANSICTL_ENV_ prefix.
func projectFromEnv() *ProjectDefinition {
	def := &ProjectDefinition{
		Name:             os.Getenv(projectNameEnvVar),
		Root:             os.Getenv(ProjectRootEnvVar),
		Inventory:        os.Getenv(projectInventoryEnvVar),
		RolesPaths:       splitList(os.Getenv(projectRolesEnvVar), string(os.PathListSeparator)),
		CollectionsPaths: splitList(os.Getenv(projectCollectionsEnvVar), string(os.PathListSeparator)),
	}
	if def.Name == "" {
		def.Name = "env"
	}
	for _, kv := range os.Environ() {
		key, value, _ := strings.Cut(kv, "=")
		if suffix, ok := strings.CutPrefix(key, projectExtraEnvPrefix); ok && suffix != "" {
			if def.Env == nil {
				def.Env = make(map[string]string)
			}
			def.Env[suffix] = value
		}
	}
	return def
}
