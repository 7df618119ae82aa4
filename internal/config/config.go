// SPDX-License-Identifier: MPL-2.0

package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

const (
	// ConfigFileName is the project configuration file the locator searches for.
	ConfigFileName = "ansible.cfg"
	// ConfigEnvVar overrides the search with an explicit config path.
	ConfigEnvVar = "ANSIBLE_CONFIG"
	// DefaultInventoryPath is the system-wide fallback inventory.
	DefaultInventoryPath = "/etc/ansible/hosts"
)

// ConfigNotFoundError means neither a project configuration file nor an
// explicit inventory argument exists, so resolution cannot start.
type ConfigNotFoundError struct {
	StartDir string
}

func (e *ConfigNotFoundError) Error() string {
	return fmt.Sprintf("no %s found from %s upward and no inventory path given", ConfigFileName, e.StartDir)
}

// Locate finds the project configuration starting from startDir and builds
// the effective Settings. Explicit inventory paths always win over the
// config file's inventory setting; the config file still contributes roles
// and collections paths. ConfigNotFoundError is returned only when no config
// file, no explicit inventory, and no system default inventory exist.
func Locate(startDir string, explicitInventory []string) (*Settings, error) {
	settings := &Settings{}

	if path, ok := findConfigFile(startDir); ok {
		parsed, err := parseConfigFile(path)
		if err != nil {
			return nil, err
		}
		settings = parsed
	}

	return applyFallback(settings, startDir, explicitInventory)
}

// LocateFile builds the effective Settings from one specific config file,
// skipping the upward search and the env override. The fallback chain for
// inventory sources is the same as Locate's.
func LocateFile(path string, explicitInventory []string) (*Settings, error) {
	settings, err := parseConfigFile(path)
	if err != nil {
		return nil, err
	}
	return applyFallback(settings, filepath.Dir(path), explicitInventory)
}

// applyFallback settles the inventory source list: explicit paths, then the
// config file's setting, then the system default inventory.
func applyFallback(settings *Settings, startDir string, explicit []string) (*Settings, error) {
	if len(explicit) > 0 {
		settings.InventorySources = append([]string{}, explicit...)
		return settings, nil
	}
	if len(settings.InventorySources) > 0 {
		return settings, nil
	}
	if info, err := os.Stat(DefaultInventoryPath); err == nil && !info.IsDir() {
		settings.InventorySources = []string{DefaultInventoryPath}
		return settings, nil
	}
	return nil, &ConfigNotFoundError{StartDir: startDir}
}

// findConfigFile honors ANSIBLE_CONFIG first, then walks from startDir up to
// the filesystem root looking for ansible.cfg.
func findConfigFile(startDir string) (string, bool) {
	if path := os.Getenv(ConfigEnvVar); path != "" {
		if fileExists(path) {
			return path, true
		}
		return "", false
	}

	dir, err := filepath.Abs(startDir)
	if err != nil {
		return "", false
	}
	for {
		candidate := filepath.Join(dir, ConfigFileName)
		if fileExists(candidate) {
			return candidate, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}

// parseConfigFile reads the [defaults] section of an ansible.cfg. Inventory
// entries are comma-separated; path-list settings additionally split on the
// OS path list separator. Relative paths resolve against the config file's
// directory.
func parseConfigFile(path string) (*Settings, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("ini")
	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("unreadable config file %s: %w", path, err)
	}

	baseDir := filepath.Dir(path)
	settings := &Settings{ConfigPath: path}

	for _, entry := range splitList(v.GetString("defaults.inventory"), ",") {
		settings.InventorySources = append(settings.InventorySources, resolvePath(baseDir, entry))
	}
	for _, entry := range splitList(v.GetString("defaults.roles_path"), ",", string(os.PathListSeparator)) {
		settings.RolesPath = append(settings.RolesPath, resolvePath(baseDir, entry))
	}
	collections := v.GetString("defaults.collections_path")
	if collections == "" {
		// Older spelling still seen in the wild.
		collections = v.GetString("defaults.collections_paths")
	}
	for _, entry := range splitList(collections, ",", string(os.PathListSeparator)) {
		settings.CollectionsPaths = append(settings.CollectionsPaths, resolvePath(baseDir, entry))
	}
	return settings, nil
}

// splitList splits a setting on every separator in seps, trimming whitespace
// and dropping empty entries.
func splitList(value string, seps ...string) []string {
	parts := []string{value}
	for _, sep := range seps {
		var next []string
		for _, part := range parts {
			next = append(next, strings.Split(part, sep)...)
		}
		parts = next
	}

	var out []string
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func resolvePath(baseDir, path string) string {
	if strings.HasPrefix(path, "~") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(path[1:], string(os.PathSeparator)))
		}
	}
	if filepath.IsAbs(path) {
		return filepath.Clean(path)
	}
	return filepath.Join(baseDir, path)
}

// fileExists checks if a path exists and is not a directory.
func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
