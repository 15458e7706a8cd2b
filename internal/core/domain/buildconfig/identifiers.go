package buildconfig

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	segmentPattern  = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]*$`)
	pluginPattern   = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_-]*(\.[A-Za-z][A-Za-z0-9_-]*)*$`)
	ndkVersionRegex = regexp.MustCompile(`^[0-9]+\.[0-9]+\.[0-9]+$`)
)

// ValidateReverseDomain checks an identifier such as "com.example.note":
// at least two dot separated segments, each starting with a letter.
func ValidateReverseDomain(value string) error {
	if value == "" {
		return fmt.Errorf("cannot be empty")
	}
	segments := strings.Split(value, ".")
	if len(segments) < 2 {
		return fmt.Errorf("%q must have at least two segments", value)
	}
	for _, s := range segments {
		if !segmentPattern.MatchString(s) {
			return fmt.Errorf("%q has invalid segment %q", value, s)
		}
	}
	return nil
}

// ValidatePluginID checks a Gradle plugin id such as "dev.flutter.flutter-gradle-plugin"
func ValidatePluginID(value string) error {
	if value == "" {
		return fmt.Errorf("plugin id cannot be empty")
	}
	if !pluginPattern.MatchString(value) {
		return fmt.Errorf("invalid plugin id %q", value)
	}
	return nil
}

// ValidateNDKVersion checks a "major.minor.build" NDK revision
func ValidateNDKVersion(value string) error {
	if !ndkVersionRegex.MatchString(value) {
		return fmt.Errorf("invalid ndk version %q (want major.minor.build)", value)
	}
	return nil
}
