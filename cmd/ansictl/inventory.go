// SPDX-License-Identifier: MPL-2.0

package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"ansictl/internal/config"
	"ansictl/internal/issue"
	"ansictl/pkg/inventory"

	"github.com/spf13/cobra"
)

var (
	// inventoryPaths holds the -i flags, in order.
	inventoryPaths []string

	inventoryCmd = &cobra.Command{
		Use:   "inventory",
		Short: "Resolve and query Ansible inventories",
		Long: `Resolve one or more inventory sources (INI or YAML, files or
directories) into a host/group graph with fully merged variables, then query
it. Without -i, sources come from the selected project or the nearest
ansible.cfg.`,
	}

	inventoryListCmd = &cobra.Command{
		Use:   "list",
		Short: "List all hosts and group memberships",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := resolveInventory(cmd)
			if err != nil {
				return err
			}
			return printJSON(resolved.List())
		},
	}

	inventoryGraphCmd = &cobra.Command{
		Use:   "graph",
		Short: "Render the group membership tree",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			resolved, err := resolveInventory(cmd)
			if err != nil {
				return err
			}
			fmt.Print(resolved.Graph())
			return nil
		},
	}

	inventoryHostCmd = &cobra.Command{
		Use:   "host <name>",
		Short: "Show one host's groups and resolved variables",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, err := resolveInventory(cmd)
			if err != nil {
				return err
			}
			info, err := resolved.FindHost(args[0])
			var notFound *inventory.HostNotFoundError
			if errors.As(err, &notFound) {
				// Absent host is a query result, not a process failure.
				return printJSON(map[string]any{"host": args[0], "present": false})
			}
			if err != nil {
				return err
			}
			return printJSON(map[string]any{
				"host":    info.Name,
				"present": true,
				"groups":  info.Groups,
				"vars":    info.Vars,
			})
		},
	}

	inventoryDiffCmd = &cobra.Command{
		Use:   "diff <left> <right>",
		Short: "Compare two inventories (left is before, right is after)",
		Long: `Resolve two inventories independently and report hosts added and
removed, plus per-host group membership and variable changes. Each argument
is an inventory path, or several separated by commas.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := commandContext(cmd)
			defer cancel()

			resolver := inventory.NewResolver(newLogger("inventory"))
			left, err := resolver.Resolve(ctx, inventory.SourcesFromPaths(splitCommaPaths(args[0])))
			if err != nil {
				return issue.WrapWithOperation(err, "resolve left inventory")
			}
			right, err := resolver.Resolve(ctx, inventory.SourcesFromPaths(splitCommaPaths(args[1])))
			if err != nil {
				return issue.WrapWithOperation(err, "resolve right inventory")
			}
			return printJSON(inventory.Diff(left, right))
		},
	}
)

func init() {
	inventoryCmd.PersistentFlags().StringArrayVarP(&inventoryPaths, "inventory", "i", nil,
		"inventory source path (repeatable; overrides config)")

	inventoryCmd.AddCommand(inventoryListCmd)
	inventoryCmd.AddCommand(inventoryGraphCmd)
	inventoryCmd.AddCommand(inventoryHostCmd)
	inventoryCmd.AddCommand(inventoryDiffCmd)
}

// resolveInventory runs a full resolution pass for the effective source
// list: -i flags first, then the selected project's inventory, then whatever
// the located ansible.cfg declares.
func resolveInventory(cmd *cobra.Command) (*inventory.Resolved, error) {
	ctx, cancel := commandContext(cmd)
	defer cancel()

	sources, err := effectiveSources()
	if err != nil {
		return nil, err
	}

	resolved, err := inventory.NewResolver(newLogger("inventory")).Resolve(ctx, sources)
	if err != nil {
		return nil, wrapResolutionError(err)
	}
	return resolved, nil
}

// effectiveSources builds the inventory source list from flags, the project
// registry, and the located project configuration.
func effectiveSources() ([]inventory.Source, error) {
	startDir := "."
	explicit := inventoryPaths

	reg, err := config.LoadRegistry()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+displayError(err))
		reg = &config.Registry{}
	}
	project, err := reg.Resolve(projectName)
	if err != nil {
		return nil, issue.NewErrorContext().
			WithOperation("select project").
			WithResource(projectName).
			WithSuggestion("Run 'ansictl projects list' to see registered projects").
			Wrap(err).
			BuildError()
	}
	if project != nil {
		if project.Root != "" {
			startDir = project.Root
		}
		if len(explicit) == 0 && project.Inventory != "" {
			explicit = []string{project.Inventory}
		}
	}

	settings, err := locateSettings(startDir, explicit)
	if err != nil {
		var notFound *config.ConfigNotFoundError
		if errors.As(err, &notFound) {
			return nil, issue.NewErrorContext().
				WithOperation("locate inventory sources").
				WithResource(startDir).
				WithSuggestion("Pass an inventory path with -i").
				WithSuggestion("Add an ansible.cfg with an inventory setting to the project").
				WithSuggestion("Register a project with 'ansictl projects register'").
				Wrap(err).
				BuildError()
		}
		return nil, err
	}
	return inventory.SourcesFromPaths(settings.InventorySources), nil
}

func locateSettings(startDir string, explicit []string) (*config.Settings, error) {
	if configFile != "" {
		return config.LocateFile(configFile, explicit)
	}
	return config.Locate(startDir, explicit)
}

// wrapResolutionError attaches remediation hints to the fatal resolution
// error classes.
func wrapResolutionError(err error) error {
	var parseErr *inventory.ParseError
	if errors.As(err, &parseErr) {
		return issue.NewErrorContext().
			WithOperation("parse inventory source").
			WithResource(parseErr.Path).
			WithSuggestion("Run 'ansictl validate' on the file to see the full parse error").
			WithSuggestion("Pass --verbose for the complete error chain").
			Wrap(err).
			BuildError()
	}
	return issue.WrapWithOperation(err, "resolve inventory")
}

func splitCommaPaths(arg string) []string {
	var out []string
	for _, part := range strings.Split(arg, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
