// SPDX-License-Identifier: MPL-2.0

// ansictl inspects Ansible projects without invoking Ansible: it locates
// project configuration, resolves inventories with the documented variable
// precedence, and answers read-only queries about them.
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"ansictl/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// verbose enables debug logging and full error chains.
	verbose bool
	// configFile points at a specific ansible.cfg, skipping the upward search.
	configFile string
	// projectName selects a registered project.
	projectName string
	// timeout bounds a whole resolution pass; zero means no limit.
	timeout time.Duration

	rootCmd = &cobra.Command{
		Use:   "ansictl",
		Short: "Inspect Ansible projects without running Ansible",
		Long: TitleStyle.Render("ansictl") + SubtitleStyle.Render(" - Ansible project inspector") + `

ansictl resolves Ansible inventories (INI or YAML, files or directories)
entirely from local files: it builds the host/group membership graph,
merges group_vars and host_vars overlays under the documented variable
precedence, and answers structural queries.

` + SubtitleStyle.Render("Examples:") + `
  ansictl inventory list -i inventory/        List hosts and groups
  ansictl inventory graph                     Render the membership tree
  ansictl inventory host web1                 Show a host's groups and vars
  ansictl inventory diff old/hosts new/hosts  Compare two inventories
  ansictl playbooks                           Discover playbooks
  ansictl validate site.yml                   Check YAML well-formedness`,
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "ansible.cfg to use instead of searching upward")
	rootCmd.PersistentFlags().StringVar(&projectName, "project", "", "registered project to operate on")
	rootCmd.PersistentFlags().DurationVar(&timeout, "timeout", 0, "abort inventory resolution after this duration")

	rootCmd.AddCommand(inventoryCmd)
	rootCmd.AddCommand(playbooksCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(projectsCmd)
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute runs the root command via fang for styled help and errors.
func Execute() {
	if err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
	); err != nil {
		os.Exit(1)
	}
}

// newLogger builds a component logger honoring --verbose.
func newLogger(prefix string) *log.Logger {
	logger := log.NewWithOptions(os.Stderr, log.Options{Prefix: prefix})
	if verbose {
		logger.SetLevel(log.DebugLevel)
	}
	return logger
}

// commandContext derives the command context, applying the --timeout bound
// when one was given.
func commandContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	ctx := cmd.Context()
	if timeout > 0 {
		return context.WithTimeout(ctx, timeout)
	}
	return context.WithCancel(ctx)
}

// printJSON writes v as indented JSON to stdout.
func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding result: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// displayError renders an error for the user, using the actionable form and
// suggestions when available.
func displayError(err error) string {
	var ae *issue.ActionableError
	if errors.As(err, &ae) {
		return ae.Format(verbose)
	}
	return err.Error()
}
