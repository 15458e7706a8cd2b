package buildconfig

import (
	"fmt"
	"strings"
)

// JavaLevel is a Java language level as understood by JavaVersion.toString()
type JavaLevel string

const (
	Java8  JavaLevel = "1.8"
	Java9  JavaLevel = "9"
	Java10 JavaLevel = "10"
	Java11 JavaLevel = "11"
	Java17 JavaLevel = "17"
	Java21 JavaLevel = "21"

	// DefaultJavaLevel applies when a descriptor declares no compile options
	DefaultJavaLevel = Java8
)

var supportedJavaLevels = map[JavaLevel]bool{
	Java8: true, Java9: true, Java10: true, Java11: true, Java17: true, Java21: true,
}

// ParseJavaLevel accepts "11", "VERSION_11", "JavaVersion.VERSION_11",
// "JavaVersion.VERSION_11.toString()", "1.8" and "VERSION_1_8".
func ParseJavaLevel(value string) (JavaLevel, error) {
	v := strings.TrimSpace(value)
	v = strings.TrimSuffix(v, ".toString()")
	v = strings.TrimPrefix(v, "JavaVersion.")
	v = strings.TrimPrefix(v, "VERSION_")
	v = strings.ReplaceAll(v, "_", ".")
	if v == "8" {
		v = "1.8"
	}

	level := JavaLevel(v)
	if !supportedJavaLevels[level] {
		return "", fmt.Errorf("unsupported java language level: %q", value)
	}
	return level, nil
}

// String returns the level as written in a jvmTarget
func (l JavaLevel) String() string {
	return string(l)
}
