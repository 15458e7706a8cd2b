package configdomain

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Setting keys
const (
	KeyLogLevel          = "log_level"
	KeyDebug             = "debug"
	KeyOutput            = "output"
	KeyDefaultCompileSdk = "default_compile_sdk"
	KeyDefaultTargetSdk  = "default_target_sdk"
	KeyDefaultMinSdk     = "default_min_sdk"
	KeyDefaultNDKVersion = "default_ndk_version"
)

// Keys lists every recognised setting in display order
var Keys = []string{
	KeyLogLevel,
	KeyDebug,
	KeyOutput,
	KeyDefaultCompileSdk,
	KeyDefaultTargetSdk,
	KeyDefaultMinSdk,
	KeyDefaultNDKVersion,
}

// Settings configures the tool itself, not the build descriptor
type Settings struct {
	LogLevel          string
	Debug             bool
	Output            string
	DefaultCompileSdk int
	DefaultTargetSdk  int
	DefaultMinSdk     int
	DefaultNDKVersion string
}

// DefaultSnapshot returns the built-in settings as lowest-priority entries.
// SDK defaults track the Flutter Gradle plugin.
func DefaultSnapshot() Snapshot {
	snap := make(Snapshot)
	add := func(key string, v interface{}) {
		snap[key] = Entry{Key: key, Value: v, Source: "default", SourcePath: "built-in", Priority: PriorityDefault}
	}
	add(KeyLogLevel, "info")
	add(KeyDebug, false)
	add(KeyOutput, "json")
	add(KeyDefaultCompileSdk, 35)
	add(KeyDefaultTargetSdk, 35)
	add(KeyDefaultMinSdk, 21)
	add(KeyDefaultNDKVersion, "26.3.11579264")
	return snap
}

// Settings converts a merged snapshot into typed settings. String values
// (from env or flags) are parsed; unknown keys are rejected.
func (s Snapshot) Settings() (Settings, error) {
	var out Settings
	var unknown []string
	for key, e := range s {
		var err error
		switch key {
		case KeyLogLevel:
			out.LogLevel, err = asString(e.Value)
		case KeyDebug:
			out.Debug, err = asBool(e.Value)
		case KeyOutput:
			out.Output, err = asString(e.Value)
		case KeyDefaultCompileSdk:
			out.DefaultCompileSdk, err = asInt(e.Value)
		case KeyDefaultTargetSdk:
			out.DefaultTargetSdk, err = asInt(e.Value)
		case KeyDefaultMinSdk:
			out.DefaultMinSdk, err = asInt(e.Value)
		case KeyDefaultNDKVersion:
			out.DefaultNDKVersion, err = asString(e.Value)
		default:
			unknown = append(unknown, key)
			continue
		}
		if err != nil {
			return Settings{}, fmt.Errorf("setting %s (from %s %s): %w", key, e.Source, e.SourcePath, err)
		}
	}
	if len(unknown) > 0 {
		sort.Strings(unknown)
		return Settings{}, fmt.Errorf("unknown settings: %s", strings.Join(unknown, ", "))
	}
	if out.Debug && s.debugOutranksLogLevel() {
		out.LogLevel = "debug"
	}
	return out, nil
}

// debugOutranksLogLevel reports whether the debug entry comes from a source at
// least as strong as the log level entry. Lower priority numbers win.
func (s Snapshot) debugOutranksLogLevel() bool {
	level, ok := s[KeyLogLevel]
	if !ok {
		return true
	}
	return s[KeyDebug].Priority <= level.Priority
}

func asString(v interface{}) (string, error) {
	switch t := v.(type) {
	case string:
		return t, nil
	default:
		return "", fmt.Errorf("expected string, got %T", v)
	}
}

func asBool(v interface{}) (bool, error) {
	switch t := v.(type) {
	case bool:
		return t, nil
	case string:
		return strconv.ParseBool(t)
	default:
		return false, fmt.Errorf("expected bool, got %T", v)
	}
}

func asInt(v interface{}) (int, error) {
	switch t := v.(type) {
	case int:
		return t, nil
	case int64:
		return int(t), nil
	case float64:
		if t != float64(int(t)) {
			return 0, fmt.Errorf("expected integer, got %v", t)
		}
		return int(t), nil
	case string:
		return strconv.Atoi(t)
	default:
		return 0, fmt.Errorf("expected integer, got %T", v)
	}
}
