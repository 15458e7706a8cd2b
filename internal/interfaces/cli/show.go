package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"kilometers.ai/buildcfg/internal/core/domain/descriptor"
	descriptorinfra "kilometers.ai/buildcfg/internal/infrastructure/descriptor"
)

// NewShowCommand creates the show command
func NewShowCommand(container *CLIContainer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show [descriptor]",
		Short: "Print the resolved build descriptor",
		Long: `Load and validate a build descriptor, then print the resolved record
for the build tool in JSON, YAML or TOML.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			output, _ := cmd.Flags().GetString("output")
			if output == "" {
				output = container.Settings.Output
			}
			return runShow(cmd, container, descriptorArg(args), descriptor.Format(output))
		},
	}
	cmd.Flags().StringP("output", "o", "", "Output format: json, yaml or toml (default from settings)")
	return cmd
}

func runShow(cmd *cobra.Command, container *CLIContainer, path string, format descriptor.Format) error {
	cfg, err := container.Loader.LoadFile(cmd.Context(), path)
	if err != nil {
		return fmt.Errorf("%s is invalid: %w", path, err)
	}

	data, err := descriptorinfra.Export(cfg, format)
	if err != nil {
		return err
	}
	_, err = cmd.OutOrStdout().Write(data)
	return err
}
