package buildconfig

import (
	"errors"
	"path/filepath"
	"reflect"
	"slices"
	"strings"
)

const (
	// MinSupportedSdk is the lowest minSdk the project's dependencies accept
	MinSupportedSdk = 23

	// MaxVersionCode is the largest versionCode Google Play accepts
	MaxVersionCode = 2100000000

	// ImplicitSigningConfig is declared by the Android Gradle Plugin for every project
	ImplicitSigningConfig = "debug"
)

// Fields is the field-by-field input mapping of a BuildConfig
type Fields struct {
	Plugins           []string
	Namespace         string
	CompileSdk        int
	TargetSdk         int
	MinSdk            int
	NDKVersion        string
	JavaLanguageLevel JavaLevel
	KotlinJvmTarget   JavaLevel
	ApplicationID     string
	VersionCode       int
	VersionName       string
	SigningConfigRef  string
	FlutterSourceDir  string
}

// BuildConfig is the validated, immutable build descriptor handed to the
// external build tool.
type BuildConfig struct {
	fields Fields
}

// New validates fields and returns the record. All field violations are
// reported together, each as a *ValidationError.
func New(f Fields) (*BuildConfig, error) {
	if len(f.Plugins) == 0 {
		f.Plugins = nil
	} else {
		f.Plugins = slices.Clone(f.Plugins)
	}
	if f.Namespace == "" {
		f.Namespace = f.ApplicationID
	}
	if f.JavaLanguageLevel == "" {
		f.JavaLanguageLevel = DefaultJavaLevel
	}
	if f.KotlinJvmTarget == "" {
		f.KotlinJvmTarget = f.JavaLanguageLevel
	}
	if f.FlutterSourceDir != "" {
		f.FlutterSourceDir = filepath.ToSlash(filepath.Clean(f.FlutterSourceDir))
	}

	if err := validate(f); err != nil {
		return nil, err
	}
	return &BuildConfig{fields: f}, nil
}

func validate(f Fields) error {
	var errs []error
	add := func(field, format string, args ...any) {
		errs = append(errs, NewValidationError(field, format, args...))
	}

	seen := make(map[string]bool, len(f.Plugins))
	for _, id := range f.Plugins {
		if err := ValidatePluginID(id); err != nil {
			add("plugins", "%v", err)
			continue
		}
		if seen[id] {
			add("plugins", "duplicate plugin %q", id)
		}
		seen[id] = true
	}

	if f.ApplicationID == "" {
		add("applicationId", "is required")
	} else if err := ValidateReverseDomain(f.ApplicationID); err != nil {
		add("applicationId", "%v", err)
	}
	if f.Namespace != "" && f.Namespace != f.ApplicationID {
		if err := ValidateReverseDomain(f.Namespace); err != nil {
			add("namespace", "%v", err)
		}
	}

	sdkOK := true
	for _, sdk := range []struct {
		name  string
		value int
	}{{"compileSdk", f.CompileSdk}, {"targetSdk", f.TargetSdk}, {"minSdk", f.MinSdk}} {
		if sdk.value <= 0 {
			add(sdk.name, "is required and must be positive, got %d", sdk.value)
			sdkOK = false
		}
	}
	if sdkOK {
		if f.MinSdk < MinSupportedSdk {
			add("minSdk", "must be at least %d, got %d", MinSupportedSdk, f.MinSdk)
		}
		if f.MinSdk > f.TargetSdk {
			add("minSdk", "%d exceeds targetSdk %d", f.MinSdk, f.TargetSdk)
		}
		if f.TargetSdk > f.CompileSdk {
			add("targetSdk", "%d exceeds compileSdk %d", f.TargetSdk, f.CompileSdk)
		}
	}

	if f.NDKVersion != "" {
		if err := ValidateNDKVersion(f.NDKVersion); err != nil {
			add("ndkVersion", "%v", err)
		}
	}

	if !supportedJavaLevels[f.JavaLanguageLevel] {
		add("javaLanguageLevel", "unsupported level %q", f.JavaLanguageLevel)
	}
	if f.KotlinJvmTarget != f.JavaLanguageLevel {
		add("kotlinJvmTarget", "%q must equal java language level %q", f.KotlinJvmTarget, f.JavaLanguageLevel)
	}

	if f.VersionCode <= 0 || f.VersionCode > MaxVersionCode {
		add("versionCode", "must be in 1..%d, got %d", MaxVersionCode, f.VersionCode)
	}
	if f.VersionName == "" {
		add("versionName", "is required")
	}

	switch {
	case f.FlutterSourceDir == "":
		add("flutterSourceDir", "is required")
	case filepath.IsAbs(f.FlutterSourceDir):
		add("flutterSourceDir", "must be relative, got %q", f.FlutterSourceDir)
	}

	return errors.Join(errs...)
}

func (c *BuildConfig) Plugins() []string { return slices.Clone(c.fields.Plugins) }
func (c *BuildConfig) Namespace() string { return c.fields.Namespace }
func (c *BuildConfig) CompileSdk() int { return c.fields.CompileSdk }
func (c *BuildConfig) TargetSdk() int { return c.fields.TargetSdk }
func (c *BuildConfig) MinSdk() int { return c.fields.MinSdk }
func (c *BuildConfig) JavaLanguageLevel() JavaLevel { return c.fields.JavaLanguageLevel }
func (c *BuildConfig) KotlinJvmTarget() JavaLevel { return c.fields.KotlinJvmTarget }
func (c *BuildConfig) ApplicationID() string { return c.fields.ApplicationID }
func (c *BuildConfig) VersionCode() int { return c.fields.VersionCode }
func (c *BuildConfig) VersionName() string { return c.fields.VersionName }
func (c *BuildConfig) SigningConfigRef() string { return c.fields.SigningConfigRef }
func (c *BuildConfig) FlutterSourceDir() string { return c.fields.FlutterSourceDir }

// NDKVersion returns the pinned NDK revision, or "" for the toolchain default
func (c *BuildConfig) NDKVersion() string { return c.fields.NDKVersion }

// Fields returns a copy of the record's field mapping
func (c *BuildConfig) Fields() Fields {
	f := c.fields
	f.Plugins = slices.Clone(f.Plugins)
	return f
}

// Equal reports structural equality
func (c *BuildConfig) Equal(other *BuildConfig) bool {
	if c == nil || other == nil {
		return c == other
	}
	a, b := c.fields, other.fields
	if !slices.Equal(a.Plugins, b.Plugins) {
		return false
	}
	a.Plugins, b.Plugins = nil, nil
	return reflect.DeepEqual(a, b)
}

// ResolveSigningConfig checks that ref names one of the declared signing
// configs. The implicit "debug" config is always declared. An empty ref
// means the release build is unsigned and resolves trivially.
func ResolveSigningConfig(ref string, declared []string) error {
	if ref == "" || ref == ImplicitSigningConfig {
		return nil
	}
	if slices.Contains(declared, ref) {
		return nil
	}
	return &NotFoundError{Kind: "signing config", Name: ref, Detail: "declared: " + declaredList(declared)}
}

func declaredList(declared []string) string {
	names := []string{ImplicitSigningConfig}
	for _, d := range declared {
		if !slices.Contains(names, d) {
			names = append(names, d)
		}
	}
	return strings.Join(names, ", ")
}
