package flutter

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
	"kilometers.ai/buildcfg/internal/core/ports"
)

const (
	// PubspecFile marks the root of a Flutter project
	PubspecFile = "pubspec.yaml"

	// LocalPropertiesFile is written by the flutter tool next to the Android settings script
	LocalPropertiesFile = "android/local.properties"
)

// DefaultVersions mirrors the values the Flutter Gradle plugin ships with
var DefaultVersions = ports.FlutterVersions{
	CompileSdk:  35,
	TargetSdk:   35,
	MinSdk:      21,
	VersionCode: 1,
	VersionName: "1.0",
	NDKVersion:  "26.3.11579264",
}

// ProjectProvider reads versionCode/versionName the way the Flutter Gradle
// plugin sees them: android/local.properties first, then the pubspec
// version, then the toolchain defaults. SDK levels come from the defaults.
type ProjectProvider struct {
	defaults ports.FlutterVersions
}

func NewProjectProvider(defaults ports.FlutterVersions) *ProjectProvider {
	return &ProjectProvider{defaults: defaults}
}

type pubspec struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`
}

func (p *ProjectProvider) Versions(ctx context.Context, projectDir string) (ports.FlutterVersions, error) {
	if err := ctx.Err(); err != nil {
		return ports.FlutterVersions{}, err
	}
	v := p.defaults

	spec, err := readPubspec(projectDir)
	if err != nil {
		return ports.FlutterVersions{}, err
	}
	if spec.Version != "" {
		name, code, err := SplitPubspecVersion(spec.Version)
		if err != nil {
			return ports.FlutterVersions{}, &buildconfig.ParseError{Source: filepath.Join(projectDir, PubspecFile), Msg: "version", Err: err}
		}
		v.VersionName = name
		if code > 0 {
			v.VersionCode = code
		}
	}

	propsPath := filepath.Join(projectDir, filepath.FromSlash(LocalPropertiesFile))
	props, err := ReadProperties(propsPath)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return ports.FlutterVersions{}, fmt.Errorf("read %s: %w", propsPath, err)
	default:
		if raw, ok := props["flutter.versionCode"]; ok {
			code, err := strconv.Atoi(raw)
			if err != nil {
				return ports.FlutterVersions{}, buildconfig.NewParseError(propsPath, 0, "flutter.versionCode %q is not an integer", raw)
			}
			v.VersionCode = code
		}
		if raw, ok := props["flutter.versionName"]; ok && raw != "" {
			v.VersionName = raw
		}
	}

	return v, nil
}

func readPubspec(projectDir string) (pubspec, error) {
	path := filepath.Join(projectDir, PubspecFile)
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return pubspec{}, &buildconfig.NotFoundError{Kind: "flutter project", Name: projectDir, Detail: PubspecFile + " missing"}
	}
	if err != nil {
		return pubspec{}, fmt.Errorf("read %s: %w", path, err)
	}
	var spec pubspec
	if err := yaml.Unmarshal(data, &spec); err != nil {
		return pubspec{}, &buildconfig.ParseError{Source: path, Msg: "invalid pubspec", Err: err}
	}
	return spec, nil
}

// SplitPubspecVersion splits "1.2.3+4" into ("1.2.3", 4). A version without
// a build number yields code 0.
func SplitPubspecVersion(version string) (string, int, error) {
	name, build, hasBuild := strings.Cut(strings.TrimSpace(version), "+")
	if name == "" {
		return "", 0, fmt.Errorf("empty version name in %q", version)
	}
	if !hasBuild {
		return name, 0, nil
	}
	code, err := strconv.Atoi(build)
	if err != nil || code <= 0 {
		return "", 0, fmt.Errorf("invalid build number %q in %q", build, version)
	}
	return name, code, nil
}

var _ ports.FlutterProvider = (*ProjectProvider)(nil)
