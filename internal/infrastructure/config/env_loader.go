package configinfra

import (
	"context"
	"os"

	configdomain "kilometers.ai/buildcfg/internal/core/domain/config"
	configports "kilometers.ai/buildcfg/internal/core/ports/config"
)

// EnvPrefix prefixes every environment variable the tool reads
const EnvPrefix = "BUILDCFG_"

var envMappings = map[string]string{
	EnvPrefix + "LOG_LEVEL":   configdomain.KeyLogLevel,
	EnvPrefix + "DEBUG":       configdomain.KeyDebug,
	EnvPrefix + "OUTPUT":      configdomain.KeyOutput,
	EnvPrefix + "COMPILE_SDK": configdomain.KeyDefaultCompileSdk,
	EnvPrefix + "TARGET_SDK":  configdomain.KeyDefaultTargetSdk,
	EnvPrefix + "MIN_SDK":     configdomain.KeyDefaultMinSdk,
	EnvPrefix + "NDK_VERSION": configdomain.KeyDefaultNDKVersion,
}

type EnvLoader struct {
	lookup func(string) (string, bool)
}

func NewEnvLoader() *EnvLoader { return &EnvLoader{lookup: os.LookupEnv} }

func (l *EnvLoader) Name() string { return "env" }

// Load implements Loader by returning the environment snapshot.
func (l *EnvLoader) Load(ctx context.Context) (configdomain.Snapshot, error) {
	return l.LoadEnv(), nil
}

// LoadEnv builds a snapshot from BUILDCFG_* environment variables (priority 2).
// Values stay strings; conversion happens when settings are resolved.
func (l *EnvLoader) LoadEnv() configdomain.Snapshot {
	snap := make(configdomain.Snapshot)
	for envVar, field := range envMappings {
		if v, ok := l.lookup(envVar); ok && v != "" {
			snap[field] = configdomain.Entry{Key: field, Value: v, Source: "env", SourcePath: envVar, Priority: configdomain.PriorityEnv}
		}
	}
	return snap
}

var _ configports.Loader = (*EnvLoader)(nil)
