package cli

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"runtime/debug"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"kilometers.ai/buildcfg/internal/application/services"
	configdomain "kilometers.ai/buildcfg/internal/core/domain/config"
)

var (
	Version   = "dev"     // Overridden by ldflags
	BuildTime = "unknown" // Overridden by ldflags
)

// DefaultDescriptorPath is the app build script of a Flutter project root
const DefaultDescriptorPath = "android/app/build.gradle.kts"

// CLIContainer holds all the dependencies for CLI commands
type CLIContainer struct {
	Loader        *services.BuildConfigLoader
	Settings      configdomain.Settings
	Snapshot      configdomain.Snapshot
	ConfigPath    string
	Logger        zerolog.Logger
	MainContainer interface{} // Will be set to *di.Container, avoiding circular import
}

// NewRootCommand creates the base command when called without any subcommands
func NewRootCommand(container *CLIContainer) *cobra.Command {
	var rootCmd = &cobra.Command{
		Use:   "buildcfg",
		Short: "Validate Flutter Android build descriptors",
		Long: `buildcfg reads the Android build descriptor of a Flutter app
(build.gradle.kts, or an equivalent TOML, YAML or JSON document), resolves
values supplied by the Flutter toolchain and checks the result before it is
handed to the build.

Checks include the SDK ordering minSdk <= targetSdk <= compileSdk, the minimum
supported minSdk, identifier syntax, signing config references and the Flutter
source directory.`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := applyConfigurationOverrides(cmd, container); err != nil {
				return fmt.Errorf("failed to apply configuration overrides: %w", err)
			}
			return nil
		},
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("{{.Name}} version {{.Version}}\nBuild time: %s\nGo version: %s\nPlatform: %s/%s\n",
		BuildTime, goVersion(), runtime.GOOS, runtime.GOARCH))

	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
	rootCmd.PersistentFlags().String("config", "", "Settings file path (default is ./.buildcfg.toml)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (trace, debug, info, warn, error)")

	rootCmd.AddCommand(NewValidateCommand(container))
	rootCmd.AddCommand(NewShowCommand(container))
	rootCmd.AddCommand(NewInspectCommand(container))
	rootCmd.AddCommand(NewConfigCommand(container))

	return rootCmd
}

// goVersion returns the Go version used to build the binary
func goVersion() string {
	if info, ok := debug.ReadBuildInfo(); ok {
		return info.GoVersion
	}
	return "unknown"
}

type configurer interface {
	Configure(ctx context.Context, configPath string, overrides map[string]interface{}) error
}

// applyConfigurationOverrides reloads settings when flags were explicitly set
func applyConfigurationOverrides(cmd *cobra.Command, container *CLIContainer) error {
	mainContainer, ok := container.MainContainer.(configurer)
	if !ok {
		// Silently continue if container doesn't support overrides
		return nil
	}

	configPath, _ := cmd.Flags().GetString("config")
	overrides := make(map[string]interface{})
	if cmd.Flags().Changed("log-level") {
		level, _ := cmd.Flags().GetString("log-level")
		overrides[configdomain.KeyLogLevel] = level
	}
	if cmd.Flags().Changed("debug") {
		enabled, _ := cmd.Flags().GetBool("debug")
		overrides[configdomain.KeyDebug] = enabled
	}

	if configPath == "" && len(overrides) == 0 {
		return nil
	}
	return mainContainer.Configure(cmd.Context(), configPath, overrides)
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute(ctx context.Context, container *CLIContainer) {
	rootCmd := NewRootCommand(container)

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		if msg := errorMessage(err); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		os.Exit(1)
	}
}
