// Package cli provides the command-line interface for tasklist.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/runoshun/tasklist/internal/app"
)

// Command group IDs.
const (
	groupSetup  = "setup"
	groupTask   = "task"
	groupServer = "server"
)

// annotationTolerateConfigError marks commands that must keep working with a
// broken configuration file (config template, config init).
const annotationTolerateConfigError = "tolerate-config-error"

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for tasklist.
// It receives the container for dependency injection and version for display.
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var opts app.Options

	root := &cobra.Command{
		Use:   "tasklist",
		Short: "Single-user task list with a web UI and REST API",
		Long: `tasklist manages a personal task list stored in a JSON file.

Tasks can be managed from the command line, from the interactive TUI
(the default when no command is given) or through the web interface
and REST API started with 'tasklist serve'.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			// Skip if container is nil (e.g. in tests)
			if c == nil {
				return nil
			}

			if err := c.Init(opts); err != nil {
				if _, ok := cmd.Annotations[annotationTolerateConfigError]; ok {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", err)
					return nil
				}
				return err
			}

			if c.AppConfig != nil {
				for _, w := range c.AppConfig.Warnings {
					_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
				}
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}

	root.PersistentFlags().StringVar(&opts.StorePath, "store", "", "Task file (default: tasks_data.json in the current directory)")
	root.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "Project config file (default: ./tasklist.toml)")
	root.PersistentFlags().StringVar(&opts.LogLevel, "log-level", "", "Log level: debug, info, warn, error")

	// Define command groups
	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupTask, Title: "Task Management:"},
		&cobra.Group{ID: groupServer, Title: "Interfaces:"},
	)

	// Setup commands
	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	// Task management commands
	newCmd := newNewCommand(c)
	newCmd.GroupID = groupTask

	listCmd := newListCommand(c)
	listCmd.GroupID = groupTask

	showCmd := newShowCommand(c)
	showCmd.GroupID = groupTask

	editCmd := newEditCommand(c)
	editCmd.GroupID = groupTask

	doneCmd := newDoneCommand(c)
	doneCmd.GroupID = groupTask

	reopenCmd := newReopenCommand(c)
	reopenCmd.GroupID = groupTask

	rmCmd := newRmCommand(c)
	rmCmd.GroupID = groupTask

	statsCmd := newStatsCommand(c)
	statsCmd.GroupID = groupTask

	// Interfaces
	serveCmd := newServeCommand(c)
	serveCmd.GroupID = groupServer

	tuiCmd := newTUICommand(c)
	tuiCmd.GroupID = groupServer

	root.AddCommand(
		configCmd,
		newCmd,
		listCmd,
		showCmd,
		editCmd,
		doneCmd,
		reopenCmd,
		rmCmd,
		statsCmd,
		serveCmd,
		tuiCmd,
	)

	return root
}
