// Package descriptor holds the declarative build descriptor as written, before
// provider references are resolved and invariants are checked.
package descriptor

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"
)

// Format identifies the serialization a Document was decoded from
type Format string

const (
	FormatGradle Format = "gradle"
	FormatTOML   Format = "toml"
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
)

// RefPrefix marks a value supplied by the Flutter toolchain
const RefPrefix = "flutter."

// Provider property references
const (
	RefCompileSdk  = "flutter.compileSdkVersion"
	RefTargetSdk   = "flutter.targetSdkVersion"
	RefMinSdk      = "flutter.minSdkVersion"
	RefVersionCode = "flutter.versionCode"
	RefVersionName = "flutter.versionName"
	RefNDKVersion  = "flutter.ndkVersion"
)

// IsReference reports whether raw names a provider property
func IsReference(raw string) bool {
	return strings.HasPrefix(raw, RefPrefix) && len(raw) > len(RefPrefix)
}

// IntValue is an integer field that is either a literal or a provider reference
type IntValue struct {
	Literal int
	Ref     string
	Set     bool
}

// Int returns a literal IntValue
func Int(v int) IntValue { return IntValue{Literal: v, Set: true} }

// IntRef returns a referencing IntValue
func IntRef(ref string) IntValue { return IntValue{Ref: ref, Set: true} }

// ParseIntValue accepts a decimal integer or a provider reference
func ParseIntValue(raw string) (IntValue, error) {
	raw = strings.TrimSpace(raw)
	if IsReference(raw) {
		return IntRef(raw), nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		return IntValue{}, fmt.Errorf("%q is neither an integer nor a %s* reference", raw, RefPrefix)
	}
	return Int(n), nil
}

// IsRef reports whether the value is deferred to the provider
func (v IntValue) IsRef() bool { return v.Set && v.Ref != "" }

func (v IntValue) String() string {
	switch {
	case !v.Set:
		return "<unset>"
	case v.Ref != "":
		return v.Ref
	default:
		return strconv.Itoa(v.Literal)
	}
}

// StringValue is a string field that is either a literal or a provider reference
type StringValue struct {
	Literal string
	Ref     string
	Set     bool
}

// Str returns a literal StringValue
func Str(v string) StringValue { return StringValue{Literal: v, Set: true} }

// StrRef returns a referencing StringValue
func StrRef(ref string) StringValue { return StringValue{Ref: ref, Set: true} }

// ParseStringValue treats "flutter.*" as a reference and anything else as a literal
func ParseStringValue(raw string) StringValue {
	if IsReference(raw) {
		return StrRef(raw)
	}
	return Str(raw)
}

// IsRef reports whether the value is deferred to the provider
func (v StringValue) IsRef() bool { return v.Set && v.Ref != "" }

// Document is a decoded, unvalidated build descriptor
type Document struct {
	// Source is the path the document was read from, if any
	Source string
	Format Format

	Plugins   []string
	Namespace string

	CompileSdk IntValue
	TargetSdk  IntValue
	MinSdk     IntValue
	NDKVersion StringValue

	SourceCompatibility string
	TargetCompatibility string
	JvmTarget           string

	ApplicationID string
	VersionCode   IntValue
	VersionName   StringValue

	SigningConfigRef string
	SigningConfigs   []string

	FlutterSource string
}

// BaseDir is the directory relative paths in the document resolve against
func (d Document) BaseDir() string {
	if d.Source == "" {
		return "."
	}
	return filepath.Dir(d.Source)
}

// References lists the provider references the document uses, in field order
func (d Document) References() []string {
	var refs []string
	for _, v := range []IntValue{d.CompileSdk, d.TargetSdk, d.MinSdk, d.VersionCode} {
		if v.IsRef() {
			refs = append(refs, v.Ref)
		}
	}
	for _, v := range []StringValue{d.NDKVersion, d.VersionName} {
		if v.IsRef() {
			refs = append(refs, v.Ref)
		}
	}
	return refs
}
