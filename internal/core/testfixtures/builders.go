package testfixtures

import (
	"os"
	"path/filepath"
	"testing"

	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
	"kilometers.ai/buildcfg/internal/core/domain/descriptor"
	"kilometers.ai/buildcfg/internal/core/ports"
)

// NoteAppGradle is the app build script of the "note" Flutter project
const NoteAppGradle = `plugins {
    id("com.android.application")
    // START: FlutterFire Configuration
    id("com.google.gms.google-services")
    // END: FlutterFire Configuration
    id("kotlin-android")
    id("dev.flutter.flutter-gradle-plugin")
}

android {
    namespace = "com.example.note"
    compileSdk = flutter.compileSdkVersion

    // pin the NDK to silence the plugin mismatch warning
    ndkVersion = "27.0.12077973"

    compileOptions {
        sourceCompatibility = JavaVersion.VERSION_11
        targetCompatibility = JavaVersion.VERSION_11
    }
    kotlinOptions {
        jvmTarget = JavaVersion.VERSION_11.toString()
    }

    defaultConfig {
        applicationId = "com.example.note"

        // Firebase Auth 23.x requires minSdk 23
        minSdk = 23
        targetSdk = flutter.targetSdkVersion

        versionCode = flutter.versionCode
        versionName = flutter.versionName
    }

    buildTypes {
        release {
            signingConfig = signingConfigs.getByName("debug")
        }
    }
}

flutter {
    source = "../.."
}
`

// NoteVersions are the toolchain values the note project builds with
var NoteVersions = ports.FlutterVersions{
	CompileSdk:  34,
	TargetSdk:   34,
	MinSdk:      21,
	VersionCode: 1,
	VersionName: "1.0.0",
	NDKVersion:  "26.3.11579264",
}

// FieldsBuilder provides a builder pattern for creating BuildConfig inputs
type FieldsBuilder struct {
	fields buildconfig.Fields
}

// NewFieldsBuilder creates a builder with a valid minimal descriptor
func NewFieldsBuilder() *FieldsBuilder {
	return &FieldsBuilder{fields: buildconfig.Fields{
		Plugins:          []string{"com.android.application", "kotlin-android", "dev.flutter.flutter-gradle-plugin"},
		CompileSdk:       34,
		TargetSdk:        34,
		MinSdk:           23,
		ApplicationID:    "com.example.note",
		VersionCode:      1,
		VersionName:      "1.0.0",
		SigningConfigRef: "debug",
		FlutterSourceDir: "../..",
	}}
}

// WithSdk sets compileSdk, targetSdk and minSdk
func (b *FieldsBuilder) WithSdk(compile, target, min int) *FieldsBuilder {
	b.fields.CompileSdk, b.fields.TargetSdk, b.fields.MinSdk = compile, target, min
	return b
}

func (b *FieldsBuilder) WithApplicationID(id string) *FieldsBuilder {
	b.fields.ApplicationID = id
	return b
}

func (b *FieldsBuilder) WithNamespace(ns string) *FieldsBuilder {
	b.fields.Namespace = ns
	return b
}

func (b *FieldsBuilder) WithPlugins(ids ...string) *FieldsBuilder {
	b.fields.Plugins = ids
	return b
}

func (b *FieldsBuilder) WithJava(java, kotlin buildconfig.JavaLevel) *FieldsBuilder {
	b.fields.JavaLanguageLevel, b.fields.KotlinJvmTarget = java, kotlin
	return b
}

func (b *FieldsBuilder) WithNDK(version string) *FieldsBuilder {
	b.fields.NDKVersion = version
	return b
}

func (b *FieldsBuilder) WithVersion(code int, name string) *FieldsBuilder {
	b.fields.VersionCode, b.fields.VersionName = code, name
	return b
}

func (b *FieldsBuilder) WithSigningConfig(ref string) *FieldsBuilder {
	b.fields.SigningConfigRef = ref
	return b
}

func (b *FieldsBuilder) WithFlutterSource(dir string) *FieldsBuilder {
	b.fields.FlutterSourceDir = dir
	return b
}

// Build returns the field mapping
func (b *FieldsBuilder) Build() buildconfig.Fields {
	return b.fields
}

// MustBuild validates the fields and fails the test on error
func (b *FieldsBuilder) MustBuild(t testing.TB) *buildconfig.BuildConfig {
	t.Helper()
	cfg, err := buildconfig.New(b.fields)
	if err != nil {
		t.Fatalf("building config: %v", err)
	}
	return cfg
}

// NewDocument returns a literal descriptor document equivalent to NewFieldsBuilder
func NewDocument(source string) descriptor.Document {
	return descriptor.Document{
		Source:           source,
		Format:           descriptor.FormatJSON,
		Plugins:          []string{"com.android.application", "kotlin-android", "dev.flutter.flutter-gradle-plugin"},
		CompileSdk:       descriptor.Int(34),
		TargetSdk:        descriptor.Int(34),
		MinSdk:           descriptor.Int(23),
		ApplicationID:    "com.example.note",
		VersionCode:      descriptor.Int(1),
		VersionName:      descriptor.Str("1.0.0"),
		SigningConfigRef: "debug",
		SigningConfigs:   []string{"debug"},
		FlutterSource:    "../..",
	}
}

// Project is a Flutter project laid out in a temporary directory
type Project struct {
	Root string
}

// NewProject creates <tmp>/pubspec.yaml and <tmp>/android/app. The pubspec
// version is written only when non-empty.
func NewProject(t testing.TB, version string) *Project {
	t.Helper()
	root := t.TempDir()
	pubspec := "name: note\n"
	if version != "" {
		pubspec += "version: " + version + "\n"
	}
	p := &Project{Root: root}
	p.WriteFile(t, "pubspec.yaml", pubspec)
	if err := os.MkdirAll(p.AppDir(), 0o755); err != nil {
		t.Fatalf("creating app dir: %v", err)
	}
	return p
}

// AppDir is android/app, where the app build script lives
func (p *Project) AppDir() string {
	return filepath.Join(p.Root, "android", "app")
}

// WriteFile writes content to a path relative to the project root
func (p *Project) WriteFile(t testing.TB, rel, content string) string {
	t.Helper()
	path := filepath.Join(p.Root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("creating %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing %s: %v", path, err)
	}
	return path
}

// WriteDescriptor writes an app descriptor under android/app
func (p *Project) WriteDescriptor(t testing.TB, name, content string) string {
	t.Helper()
	return p.WriteFile(t, "android/app/"+name, content)
}
