// SPDX-License-Identifier: MPL-2.0

package main

import (
	"path/filepath"
	"sort"

	"ansictl/internal/config"
	"ansictl/internal/issue"

	"github.com/spf13/cobra"
)

var (
	registerInventory   string
	registerRolesPaths  []string
	registerCollections []string
	registerEnv         map[string]string
	registerMakeDefault bool

	projectsCmd = &cobra.Command{
		Use:   "projects",
		Short: "Manage the registry of known Ansible projects",
	}

	projectsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List registered projects and the default selection",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			reg, err := config.LoadRegistry()
			if err != nil {
				return issue.WrapWithOperation(err, "load project registry")
			}
			path, err := config.RegistryPath()
			if err != nil {
				return err
			}
			return printJSON(map[string]any{
				"default":     reg.Defaults.Project,
				"projects":    reg.Projects,
				"config_path": path,
			})
		},
	}

	projectsRegisterCmd = &cobra.Command{
		Use:   "register <name> <root>",
		Short: "Register an Ansible project",
		Args:  cobra.ExactArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			root, err := filepath.Abs(args[1])
			if err != nil {
				return err
			}

			reg, err := config.LoadRegistry()
			if err != nil {
				return issue.WrapWithOperation(err, "load project registry")
			}
			reg.Register(&config.ProjectDefinition{
				Name:             args[0],
				Root:             root,
				Inventory:        registerInventory,
				RolesPaths:       registerRolesPaths,
				CollectionsPaths: registerCollections,
				Env:              registerEnv,
			}, registerMakeDefault)

			path, err := config.SaveRegistry(reg)
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("save project registry").
					WithResource(path).
					WithSuggestion("Check that the registry directory is writable").
					Wrap(err).
					BuildError()
			}

			names := make([]string, 0, len(reg.Projects))
			for name := range reg.Projects {
				names = append(names, name)
			}
			sort.Strings(names)
			return printJSON(map[string]any{"path": path, "projects": names})
		},
	}
)

func init() {
	projectsRegisterCmd.Flags().StringVar(&registerInventory, "inventory", "", "default inventory path for the project")
	projectsRegisterCmd.Flags().StringArrayVar(&registerRolesPaths, "roles-path", nil, "role search path (repeatable)")
	projectsRegisterCmd.Flags().StringArrayVar(&registerCollections, "collections-path", nil, "collection search path (repeatable)")
	projectsRegisterCmd.Flags().StringToStringVar(&registerEnv, "env", nil, "extra environment variables (key=value)")
	projectsRegisterCmd.Flags().BoolVar(&registerMakeDefault, "default", false, "make this project the default selection")

	projectsCmd.AddCommand(projectsListCmd)
	projectsCmd.AddCommand(projectsRegisterCmd)
}
