package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	configdomain "kilometers.ai/buildcfg/internal/core/domain/config"
)

// NewConfigCommand creates the config command
func NewConfigCommand(container *CLIContainer) *cobra.Command {
	var configCmd = &cobra.Command{
		Use:   "config",
		Short: "Inspect tool settings",
		Long: `Inspect the settings buildcfg runs with.

Settings come from command line flags, BUILDCFG_* environment variables,
the settings file and built-in defaults, in that order of precedence.`,
	}

	configCmd.AddCommand(NewConfigShowCommand(container))
	configCmd.AddCommand(NewConfigPathCommand(container))

	return configCmd
}

// NewConfigShowCommand creates the show subcommand
func NewConfigShowCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show effective settings and where each came from",
		RunE: func(cmd *cobra.Command, args []string) error {
			rows := make([]fieldRow, 0, len(configdomain.Keys))
			for _, key := range configdomain.Keys {
				e, ok := container.Snapshot[key]
				if !ok {
					continue
				}
				rows = append(rows, fieldRow{
					Label: key,
					Value: fmt.Sprintf("%v %s", e.Value, mutedStyle.Render("("+e.Source+")")),
				})
			}
			fmt.Fprintln(cmd.OutOrStdout(), renderSummary("Current Settings", rows))
			return nil
		},
	}
}

// NewConfigPathCommand creates the path subcommand
func NewConfigPathCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show settings file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			path := container.ConfigPath
			if path == "" {
				path = "(none found)"
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Settings file path: %s\n", path)
			return nil
		},
	}
}
