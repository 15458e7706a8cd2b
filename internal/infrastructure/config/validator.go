package configinfra

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
	configdomain "kilometers.ai/buildcfg/internal/core/domain/config"
	configports "kilometers.ai/buildcfg/internal/core/ports/config"
)

// ConfigValidator validates tool settings
type ConfigValidator struct{}

// NewConfigValidator creates a new configuration validator
func NewConfigValidator() *ConfigValidator {
	return &ConfigValidator{}
}

// ValidateLogLevel validates log level value
func (v *ConfigValidator) ValidateLogLevel(level string) error {
	validLevels := []string{"trace", "debug", "info", "warn", "error", "fatal", "panic", "disabled"}

	normalizedLevel := strings.ToLower(strings.TrimSpace(level))

	for _, valid := range validLevels {
		if normalizedLevel == valid {
			return nil
		}
	}

	return fmt.Errorf("invalid log level: %s (valid levels: %s)", level, strings.Join(validLevels, ", "))
}

// ValidateOutput validates the export format used by `show`
func (v *ConfigValidator) ValidateOutput(output string) error {
	switch output {
	case "json", "yaml", "toml":
		return nil
	}
	return fmt.Errorf("invalid output format: %s (valid formats: json, yaml, toml)", output)
}

// ValidateSdkDefault validates a default SDK level
func (v *ConfigValidator) ValidateSdkDefault(level int) error {
	if level < 1 || level > 100 {
		return fmt.Errorf("sdk level out of range: %d (must be 1-100)", level)
	}
	return nil
}

// ValidateSettings validates typed settings and the SDK default ordering
func (v *ConfigValidator) ValidateSettings(s configdomain.Settings) map[string]error {
	errs := make(map[string]error)

	if err := v.ValidateLogLevel(s.LogLevel); err != nil {
		errs[configdomain.KeyLogLevel] = err
	}
	if err := v.ValidateOutput(s.Output); err != nil {
		errs[configdomain.KeyOutput] = err
	}
	for key, level := range map[string]int{
		configdomain.KeyDefaultCompileSdk: s.DefaultCompileSdk,
		configdomain.KeyDefaultTargetSdk:  s.DefaultTargetSdk,
		configdomain.KeyDefaultMinSdk:     s.DefaultMinSdk,
	} {
		if err := v.ValidateSdkDefault(level); err != nil {
			errs[key] = err
		}
	}
	if len(errs) == 0 {
		if s.DefaultMinSdk > s.DefaultTargetSdk || s.DefaultTargetSdk > s.DefaultCompileSdk {
			errs[configdomain.KeyDefaultTargetSdk] = fmt.Errorf("default sdk levels must satisfy min <= target <= compile (%d, %d, %d)",
				s.DefaultMinSdk, s.DefaultTargetSdk, s.DefaultCompileSdk)
		}
	}
	if s.DefaultNDKVersion != "" {
		if err := buildconfig.ValidateNDKVersion(s.DefaultNDKVersion); err != nil {
			errs[configdomain.KeyDefaultNDKVersion] = err
		}
	}

	return errs
}

// Validate implements configports.Validator
func (v *ConfigValidator) Validate(snap configdomain.Snapshot) error {
	settings, err := snap.Settings()
	if err != nil {
		return err
	}
	errs := v.ValidateSettings(settings)
	if len(errs) == 0 {
		return nil
	}

	keys := make([]string, 0, len(errs))
	for k := range errs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	joined := make([]error, 0, len(keys))
	for _, k := range keys {
		joined = append(joined, fmt.Errorf("%s: %w", k, errs[k]))
	}
	return errors.Join(joined...)
}

var _ configports.Validator = (*ConfigValidator)(nil)
