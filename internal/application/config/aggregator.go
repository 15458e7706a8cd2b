package appconfig

import (
	"context"
	"fmt"

	configdomain "kilometers.ai/buildcfg/internal/core/domain/config"
	configports "kilometers.ai/buildcfg/internal/core/ports/config"
)

// Aggregator merges multiple loader snapshots, honoring priorities.
type Aggregator struct {
	loaders   []configports.Loader
	validator configports.Validator
}

func NewAggregator(validator configports.Validator, loaders ...configports.Loader) *Aggregator {
	return &Aggregator{loaders: loaders, validator: validator}
}

// LoadSnapshot returns the merged snapshot over the built-in defaults,
// including CLI overrides as priority 1
func (a *Aggregator) LoadSnapshot(ctx context.Context, overrides map[string]interface{}) (configdomain.Snapshot, error) {
	snap := configdomain.DefaultSnapshot()
	for field, v := range overrides {
		snap[field] = configdomain.Entry{Key: field, Value: v, Source: "cli", SourcePath: "command_line_flag", Priority: configdomain.PriorityFlag}
	}

	for _, l := range a.loaders {
		s, err := l.Load(ctx)
		if err != nil {
			return nil, fmt.Errorf("load %s settings: %w", l.Name(), err)
		}
		snap.Merge(s)
	}

	if a.validator != nil {
		if err := a.validator.Validate(snap); err != nil {
			return nil, fmt.Errorf("invalid settings: %w", err)
		}
	}
	return snap, nil
}

// LoadSettings resolves the typed settings from all sources
func (a *Aggregator) LoadSettings(ctx context.Context, overrides map[string]interface{}) (configdomain.Settings, configdomain.Snapshot, error) {
	snap, err := a.LoadSnapshot(ctx, overrides)
	if err != nil {
		return configdomain.Settings{}, nil, err
	}
	settings, err := snap.Settings()
	if err != nil {
		return configdomain.Settings{}, nil, err
	}
	return settings, snap, nil
}
