package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// NewValidateCommand creates the validate command
func NewValidateCommand(container *CLIContainer) *cobra.Command {
	return &cobra.Command{
		Use:   "validate [descriptor]",
		Short: "Validate a build descriptor",
		Long: `Load and validate an Android build descriptor.

The descriptor defaults to ` + DefaultDescriptorPath + `. Files ending in
.toml, .yaml/.yml or .json are read as key/value descriptors.

Exit status is non-zero on a parse error, a validation error or an
unresolved reference.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, container, descriptorArg(args))
		},
	}
}

func runValidate(cmd *cobra.Command, container *CLIContainer, path string) error {
	out := cmd.OutOrStdout()

	cfg, err := container.Loader.LoadFile(cmd.Context(), path)
	if err != nil {
		fmt.Fprintln(out, renderFailure(err))
		return &reportedError{summary: path + " is invalid", err: err}
	}

	fmt.Fprintln(out, renderSummary(path, summaryRows(cfg)))
	fmt.Fprintln(out)
	fmt.Fprintln(out, okStyle.Render("✓ descriptor is valid"))
	return nil
}

func descriptorArg(args []string) string {
	if len(args) == 0 {
		return DefaultDescriptorPath
	}
	return args[0]
}
