// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func writeConfig(t *testing.T, dir, content string) string {
	t.Helper()
	path := filepath.Join(dir, ConfigFileName)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLocateReadsConfigFile(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")

	dir := t.TempDir()
	writeConfig(t, dir, `
[defaults]
inventory = inventory/hosts.ini, inventory/extra
roles_path = roles:vendored/roles
collections_path = collections
`)

	settings, err := Locate(dir, nil)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}

	wantInventory := []string{
		filepath.Join(dir, "inventory", "hosts.ini"),
		filepath.Join(dir, "inventory", "extra"),
	}
	if !reflect.DeepEqual(settings.InventorySources, wantInventory) {
		t.Errorf("inventory = %v, want %v", settings.InventorySources, wantInventory)
	}
	wantRoles := []string{filepath.Join(dir, "roles"), filepath.Join(dir, "vendored", "roles")}
	if !reflect.DeepEqual(settings.RolesPath, wantRoles) {
		t.Errorf("roles = %v, want %v", settings.RolesPath, wantRoles)
	}
	if want := []string{filepath.Join(dir, "collections")}; !reflect.DeepEqual(settings.CollectionsPaths, want) {
		t.Errorf("collections = %v, want %v", settings.CollectionsPaths, want)
	}
	if settings.ConfigPath == "" {
		t.Error("config path not recorded")
	}
}

func TestLocateWalksUpward(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")

	root := t.TempDir()
	writeConfig(t, root, "[defaults]\ninventory = hosts\n")
	nested := filepath.Join(root, "playbooks", "site")
	if err := os.MkdirAll(nested, 0o755); err != nil {
		t.Fatal(err)
	}

	settings, err := Locate(nested, nil)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if want := filepath.Join(root, "hosts"); len(settings.InventorySources) != 1 || settings.InventorySources[0] != want {
		t.Errorf("inventory = %v, want [%s]", settings.InventorySources, want)
	}
}

func TestLocateExplicitInventoryWins(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")

	dir := t.TempDir()
	writeConfig(t, dir, "[defaults]\ninventory = from-config\nroles_path = roles\n")

	settings, err := Locate(dir, []string{"explicit/hosts"})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if want := []string{"explicit/hosts"}; !reflect.DeepEqual(settings.InventorySources, want) {
		t.Errorf("inventory = %v, want %v", settings.InventorySources, want)
	}
	// The config file still contributes the non-inventory settings.
	if len(settings.RolesPath) != 1 {
		t.Errorf("roles = %v, config file settings must survive", settings.RolesPath)
	}
}

func TestLocateExplicitInventoryWithoutConfig(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")

	settings, err := Locate(t.TempDir(), []string{"hosts.ini"})
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if want := []string{"hosts.ini"}; !reflect.DeepEqual(settings.InventorySources, want) {
		t.Errorf("inventory = %v, want %v", settings.InventorySources, want)
	}
}

func TestLocateNotFound(t *testing.T) {
	t.Setenv(ConfigEnvVar, "")
	if fileExists(DefaultInventoryPath) {
		t.Skipf("%s exists on this machine", DefaultInventoryPath)
	}

	// An isolated start dir with nothing above it that we control; the walk
	// can only fail if no ansible.cfg exists anywhere up the chain.
	dir := t.TempDir()
	_, err := Locate(dir, nil)
	var notFound *ConfigNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected *ConfigNotFoundError, got %v", err)
	}
	if notFound.StartDir != dir {
		t.Errorf("start dir = %q, want %q", notFound.StartDir, dir)
	}
}

func TestLocateEnvOverride(t *testing.T) {
	dir := t.TempDir()
	path := writeConfig(t, dir, "[defaults]\ninventory = env-hosts\n")
	t.Setenv(ConfigEnvVar, path)

	settings, err := Locate(t.TempDir(), nil)
	if err != nil {
		t.Fatalf("Locate: %v", err)
	}
	if want := filepath.Join(dir, "env-hosts"); len(settings.InventorySources) != 1 || settings.InventorySources[0] != want {
		t.Errorf("inventory = %v, want [%s]", settings.InventorySources, want)
	}
}

func TestLocateFile(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := writeConfig(t, dir, "[defaults]\ninventory = hosts\n")

	settings, err := LocateFile(path, nil)
	if err != nil {
		t.Fatalf("LocateFile: %v", err)
	}
	if want := filepath.Join(dir, "hosts"); len(settings.InventorySources) != 1 || settings.InventorySources[0] != want {
		t.Errorf("inventory = %v, want [%s]", settings.InventorySources, want)
	}

	if _, err := LocateFile(filepath.Join(dir, "absent.cfg"), nil); err == nil {
		t.Fatal("missing config file must error")
	}
}

func TestSplitList(t *testing.T) {
	t.Parallel()

	got := splitList(" a , b ,, c ", ",")
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("splitList = %v, want %v", got, want)
	}
	if out := splitList("", ","); out != nil {
		t.Errorf("empty input = %v, want nil", out)
	}
	got = splitList("a:b,c", ",", ":")
	if want := []string{"a", "b", "c"}; !reflect.DeepEqual(got, want) {
		t.Errorf("multi-separator = %v, want %v", got, want)
	}
}
