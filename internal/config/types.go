// SPDX-License-Identifier: MPL-2.0

package config

type (
	// Settings is what the locator extracts from a project's ansible.cfg,
	// plus the fallback chain for inventory sources.
	Settings struct {
		// ConfigPath is the ansible.cfg that was found, empty when none was.
		ConfigPath string
		// InventorySources lists inventory files/directories in declaration
		// order, resolved relative to the config file's directory.
		InventorySources []string
		// RolesPath lists role search directories.
		RolesPath []string
		// CollectionsPaths lists collection search directories.
		CollectionsPaths []string
	}

	// ProjectDefinition describes one registered Ansible project.
	ProjectDefinition struct {
		Name             string            `mapstructure:"name" yaml:"name"`
		Root             string            `mapstructure:"root" yaml:"root"`
		Inventory        string            `mapstructure:"inventory" yaml:"inventory,omitempty"`
		RolesPaths       []string          `mapstructure:"roles_paths" yaml:"roles_paths,omitempty"`
		CollectionsPaths []string          `mapstructure:"collections_paths" yaml:"collections_paths,omitempty"`
		Env              map[string]string `mapstructure:"env" yaml:"env,omitempty"`
	}

	// RegistryDefaults is the registry's defaults block: the default project
	// selection plus definition fields folded into every project that leaves
	// them unset.
	RegistryDefaults struct {
		Project          string            `mapstructure:"project" yaml:"project,omitempty"`
		Inventory        string            `mapstructure:"inventory" yaml:"inventory,omitempty"`
		RolesPaths       []string          `mapstructure:"roles_paths" yaml:"roles_paths,omitempty"`
		CollectionsPaths []string          `mapstructure:"collections_paths" yaml:"collections_paths,omitempty"`
		Env              map[string]string `mapstructure:"env" yaml:"env,omitempty"`
	}

	// Registry is the ansictl project registry document.
	Registry struct {
		Projects map[string]*ProjectDefinition `mapstructure:"projects" yaml:"projects"`
		Defaults RegistryDefaults              `mapstructure:"defaults" yaml:"defaults,omitempty"`
	}
)
