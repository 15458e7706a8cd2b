package di

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	appconfig "kilometers.ai/buildcfg/internal/application/config"
	"kilometers.ai/buildcfg/internal/application/services"
	configdomain "kilometers.ai/buildcfg/internal/core/domain/config"
	"kilometers.ai/buildcfg/internal/core/ports"
	configinfra "kilometers.ai/buildcfg/internal/infrastructure/config"
	descriptorinfra "kilometers.ai/buildcfg/internal/infrastructure/descriptor"
	"kilometers.ai/buildcfg/internal/infrastructure/flutter"
	"kilometers.ai/buildcfg/internal/infrastructure/logging"
	"kilometers.ai/buildcfg/internal/interfaces/cli"
)

// Container holds all application dependencies
type Container struct {
	// Configuration
	Settings   configdomain.Settings
	Snapshot   configdomain.Snapshot
	ConfigPath string

	// Descriptor loading
	Registry *descriptorinfra.Registry
	Provider ports.FlutterProvider
	Loader   *services.BuildConfigLoader

	// CLI
	CLIContainer *cli.CLIContainer

	// Logger
	Logger zerolog.Logger

	logOutput io.Writer
}

// NewContainer creates and configures the dependency injection container
// from the environment and any discovered settings file.
func NewContainer() (*Container, error) {
	return NewContainerWithOutput(os.Stderr)
}

// NewContainerWithOutput is NewContainer with logs written to w
func NewContainerWithOutput(w io.Writer) (*Container, error) {
	container := &Container{
		Logger:    zerolog.Nop(),
		logOutput: w,
		Registry:  descriptorinfra.NewDefaultRegistry(),
	}
	container.CLIContainer = &cli.CLIContainer{MainContainer: container}

	if err := container.Configure(context.Background(), "", nil); err != nil {
		return nil, fmt.Errorf("failed to initialize components: %w", err)
	}
	return container, nil
}

// Configure (re)loads settings from flags, env and file, then rebuilds the
// components that depend on them.
func (c *Container) Configure(ctx context.Context, configPath string, overrides map[string]interface{}) error {
	fileLoader := configinfra.NewFileLoader(configPath)
	aggregator := appconfig.NewAggregator(
		configinfra.NewConfigValidator(),
		configinfra.NewEnvLoader(),
		fileLoader,
	)

	settings, snap, err := aggregator.LoadSettings(ctx, overrides)
	if err != nil {
		return err
	}

	logger, err := logging.NewConsoleLogger(c.logOutput, settings.LogLevel)
	if err != nil {
		return fmt.Errorf("configure logging: %w", err)
	}

	c.Settings = settings
	c.Snapshot = snap
	c.ConfigPath = fileLoader.Path()
	c.Logger = logger
	c.Provider = flutter.NewProjectProvider(ports.FlutterVersions{
		CompileSdk:  settings.DefaultCompileSdk,
		TargetSdk:   settings.DefaultTargetSdk,
		MinSdk:      settings.DefaultMinSdk,
		VersionCode: flutter.DefaultVersions.VersionCode,
		VersionName: flutter.DefaultVersions.VersionName,
		NDKVersion:  settings.DefaultNDKVersion,
	})
	c.Loader = services.NewBuildConfigLoader(c.Registry, c.Provider, logger)

	c.CLIContainer.Loader = c.Loader
	c.CLIContainer.Settings = settings
	c.CLIContainer.Snapshot = snap
	c.CLIContainer.ConfigPath = c.ConfigPath
	c.CLIContainer.Logger = logger

	c.Logger.Debug().Str("config", c.ConfigPath).Str("log_level", settings.LogLevel).Msg("container configured")
	return nil
}

// GetCLIContainer returns the CLI container for command execution
func (c *Container) GetCLIContainer() *cli.CLIContainer {
	return c.CLIContainer
}

// GetVersion returns version information
func (c *Container) GetVersion() map[string]string {
	return map[string]string{
		"version":    cli.Version,
		"build_time": cli.BuildTime,
	}
}
