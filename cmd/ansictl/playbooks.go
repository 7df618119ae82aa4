// SPDX-License-Identifier: MPL-2.0

package main

import (
	"fmt"
	"os"

	"ansictl/internal/config"
	"ansictl/internal/discovery"
	"ansictl/internal/issue"

	"github.com/spf13/cobra"
)

var (
	playbooksCmd = &cobra.Command{
		Use:   "playbooks [root]",
		Short: "Discover playbooks under a project root",
		Long: `Walk the project root and list every YAML file shaped like a
playbook (a top-level sequence of plays). Dependency and inventory
directories are skipped. The root defaults to the selected project's root,
or the current directory.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			root, err := playbookRoot(args)
			if err != nil {
				return err
			}
			playbooks, err := discovery.Playbooks(root)
			if err != nil {
				return issue.NewErrorContext().
					WithOperation("discover playbooks").
					WithResource(root).
					WithSuggestion("Check that the root directory exists and is readable").
					Wrap(err).
					BuildError()
			}
			return printJSON(map[string]any{"root": root, "playbooks": playbooks})
		},
	}

	validateCmd = &cobra.Command{
		Use:   "validate <file>...",
		Short: "Check YAML files for well-formedness",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			results := discovery.ValidateFiles(args)
			failed := 0
			for _, result := range results {
				if !result.OK {
					failed++
				}
			}
			if err := printJSON(map[string]any{"ok": failed == 0, "results": results}); err != nil {
				return err
			}
			if failed > 0 {
				return fmt.Errorf("%d of %d files failed validation", failed, len(results))
			}
			return nil
		},
	}
)

// playbookRoot picks the discovery root: the argument, the selected
// project's root, or the current directory.
func playbookRoot(args []string) (string, error) {
	if len(args) == 1 {
		return args[0], nil
	}

	reg, err := config.LoadRegistry()
	if err != nil {
		fmt.Fprintln(os.Stderr, WarningStyle.Render("Warning: ")+displayError(err))
		return ".", nil
	}
	project, err := reg.Resolve(projectName)
	if err != nil {
		return "", err
	}
	if project != nil && project.Root != "" {
		return project.Root, nil
	}
	return ".", nil
}
