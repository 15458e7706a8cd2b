package services

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"

	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
	"kilometers.ai/buildcfg/internal/core/domain/descriptor"
	"kilometers.ai/buildcfg/internal/core/ports"
)

// ProjectMarker identifies a directory as a Flutter project root
const ProjectMarker = "pubspec.yaml"

// BuildConfigLoader turns a declarative descriptor into a validated BuildConfig.
// It performs no side effects beyond reading the descriptor and checking
// that referenced paths exist.
type BuildConfigLoader struct {
	decoders ports.DecoderResolver
	provider ports.FlutterProvider
	logger   zerolog.Logger
}

// NewBuildConfigLoader creates a loader backed by the given decoders and Flutter provider
func NewBuildConfigLoader(decoders ports.DecoderResolver, provider ports.FlutterProvider, logger zerolog.Logger) *BuildConfigLoader {
	return &BuildConfigLoader{
		decoders: decoders,
		provider: provider,
		logger:   logger,
	}
}

// LoadFile reads, decodes and validates the descriptor at path
func (l *BuildConfigLoader) LoadFile(ctx context.Context, path string) (*buildconfig.BuildConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	decoder, err := l.decoders.ForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, &buildconfig.NotFoundError{Kind: "descriptor", Name: path}
		}
		return nil, fmt.Errorf("read descriptor %s: %w", path, err)
	}

	l.logger.Debug().Str("source", path).Str("format", string(decoder.Format())).Msg("decoding descriptor")
	doc, err := decoder.Decode(path, data)
	if err != nil {
		return nil, err
	}
	return l.Load(ctx, doc)
}

// Load resolves provider references in doc, validates the result and checks
// that the Flutter source directory and signing config resolve.
func (l *BuildConfigLoader) Load(ctx context.Context, doc descriptor.Document) (*buildconfig.BuildConfig, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r := &refResolver{ctx: ctx, provider: l.provider, logger: l.logger}
	if doc.FlutterSource != "" && !filepath.IsAbs(doc.FlutterSource) {
		r.projectDir = filepath.Join(doc.BaseDir(), filepath.FromSlash(doc.FlutterSource))
	}

	fields, err := l.resolveFields(doc, r)
	if err != nil {
		return nil, err
	}

	cfg, err := buildconfig.New(fields)
	if err != nil {
		l.logger.Debug().Err(err).Str("source", doc.Source).Msg("descriptor failed validation")
		return nil, err
	}

	if err := checkFlutterSource(doc.BaseDir(), cfg.FlutterSourceDir()); err != nil {
		return nil, err
	}
	if err := buildconfig.ResolveSigningConfig(cfg.SigningConfigRef(), doc.SigningConfigs); err != nil {
		return nil, err
	}

	l.logger.Debug().
		Str("source", doc.Source).
		Str("applicationId", cfg.ApplicationID()).
		Int("compileSdk", cfg.CompileSdk()).
		Int("targetSdk", cfg.TargetSdk()).
		Int("minSdk", cfg.MinSdk()).
		Msg("descriptor loaded")
	return cfg, nil
}

func (l *BuildConfigLoader) resolveFields(doc descriptor.Document, r *refResolver) (buildconfig.Fields, error) {
	f := buildconfig.Fields{
		Plugins:          doc.Plugins,
		Namespace:        doc.Namespace,
		ApplicationID:    doc.ApplicationID,
		SigningConfigRef: doc.SigningConfigRef,
		FlutterSourceDir: doc.FlutterSource,
	}

	java, kotlin, err := resolveJavaLevels(doc)
	if err != nil {
		return buildconfig.Fields{}, err
	}
	f.JavaLanguageLevel, f.KotlinJvmTarget = java, kotlin

	ints := []struct {
		value    descriptor.IntValue
		dst      *int
		fallback string
	}{
		{doc.CompileSdk, &f.CompileSdk, ""},
		{doc.TargetSdk, &f.TargetSdk, ""},
		{doc.MinSdk, &f.MinSdk, ""},
		{doc.VersionCode, &f.VersionCode, descriptor.RefVersionCode},
	}
	for _, field := range ints {
		switch {
		case field.value.IsRef():
			*field.dst, err = r.intRef(field.value.Ref)
		case field.value.Set:
			*field.dst = field.value.Literal
		case field.fallback != "" && r.available():
			*field.dst, err = r.intRef(field.fallback)
		}
		if err != nil {
			return buildconfig.Fields{}, err
		}
	}

	strs := []struct {
		value    descriptor.StringValue
		dst      *string
		fallback string
	}{
		{doc.NDKVersion, &f.NDKVersion, ""},
		{doc.VersionName, &f.VersionName, descriptor.RefVersionName},
	}
	for _, field := range strs {
		switch {
		case field.value.IsRef():
			*field.dst, err = r.stringRef(field.value.Ref)
		case field.value.Set:
			*field.dst = field.value.Literal
		case field.fallback != "" && r.available():
			*field.dst, err = r.stringRef(field.fallback)
		}
		if err != nil {
			return buildconfig.Fields{}, err
		}
	}
	return f, nil
}

// resolveJavaLevels reconciles compileOptions and kotlinOptions. Source and
// target compatibility must agree; a lone jvmTarget sets both levels.
func resolveJavaLevels(doc descriptor.Document) (buildconfig.JavaLevel, buildconfig.JavaLevel, error) {
	parse := func(field, raw string) (buildconfig.JavaLevel, error) {
		if raw == "" {
			return "", nil
		}
		level, err := buildconfig.ParseJavaLevel(raw)
		if err != nil {
			return "", buildconfig.NewValidationError(field, "%v", err)
		}
		return level, nil
	}

	source, err := parse("sourceCompatibility", doc.SourceCompatibility)
	if err != nil {
		return "", "", err
	}
	target, err := parse("targetCompatibility", doc.TargetCompatibility)
	if err != nil {
		return "", "", err
	}
	kotlin, err := parse("kotlinJvmTarget", doc.JvmTarget)
	if err != nil {
		return "", "", err
	}

	if source != "" && target != "" && source != target {
		return "", "", buildconfig.NewValidationError("javaLanguageLevel",
			"sourceCompatibility %s differs from targetCompatibility %s", source, target)
	}
	java := source
	if java == "" {
		java = target
	}
	if java == "" {
		java = kotlin
	}
	return java, kotlin, nil
}

func checkFlutterSource(baseDir, sourceDir string) error {
	dir := filepath.Join(baseDir, filepath.FromSlash(sourceDir))
	info, err := os.Stat(dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &buildconfig.NotFoundError{Kind: "flutter source directory", Name: sourceDir, Detail: dir}
		}
		return fmt.Errorf("stat flutter source %s: %w", dir, err)
	}
	if !info.IsDir() {
		return &buildconfig.NotFoundError{Kind: "flutter source directory", Name: sourceDir, Detail: dir + " is not a directory"}
	}
	if _, err := os.Stat(filepath.Join(dir, ProjectMarker)); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &buildconfig.NotFoundError{Kind: "flutter project", Name: sourceDir, Detail: ProjectMarker + " missing in " + dir}
		}
		return fmt.Errorf("stat %s: %w", ProjectMarker, err)
	}
	return nil
}

// refResolver queries the Flutter provider at most once per load
type refResolver struct {
	ctx        context.Context
	provider   ports.FlutterProvider
	logger     zerolog.Logger
	projectDir string

	fetched  bool
	versions ports.FlutterVersions
}

func (r *refResolver) available() bool {
	return r.provider != nil && r.projectDir != ""
}

func (r *refResolver) load() (ports.FlutterVersions, error) {
	if r.fetched {
		return r.versions, nil
	}
	if r.provider == nil {
		return ports.FlutterVersions{}, errors.New("no flutter provider configured")
	}
	if r.projectDir == "" {
		return ports.FlutterVersions{}, buildconfig.NewValidationError("flutterSourceDir", "a relative flutter source directory is required to resolve %s* references", descriptor.RefPrefix)
	}
	r.logger.Debug().Str("projectDir", r.projectDir).Msg("querying flutter provider")
	v, err := r.provider.Versions(r.ctx, r.projectDir)
	if err != nil {
		return ports.FlutterVersions{}, fmt.Errorf("flutter provider: %w", err)
	}
	r.fetched, r.versions = true, v
	return v, nil
}

func (r *refResolver) intRef(ref string) (int, error) {
	var pick func(ports.FlutterVersions) int
	switch ref {
	case descriptor.RefCompileSdk:
		pick = func(v ports.FlutterVersions) int { return v.CompileSdk }
	case descriptor.RefTargetSdk:
		pick = func(v ports.FlutterVersions) int { return v.TargetSdk }
	case descriptor.RefMinSdk:
		pick = func(v ports.FlutterVersions) int { return v.MinSdk }
	case descriptor.RefVersionCode:
		pick = func(v ports.FlutterVersions) int { return v.VersionCode }
	case descriptor.RefVersionName, descriptor.RefNDKVersion:
		return 0, buildconfig.NewValidationError(ref, "is a string property, integer expected")
	default:
		return 0, &buildconfig.NotFoundError{Kind: "flutter property", Name: ref}
	}
	v, err := r.load()
	if err != nil {
		return 0, err
	}
	return pick(v), nil
}

func (r *refResolver) stringRef(ref string) (string, error) {
	var pick func(ports.FlutterVersions) string
	switch ref {
	case descriptor.RefVersionName:
		pick = func(v ports.FlutterVersions) string { return v.VersionName }
	case descriptor.RefNDKVersion:
		pick = func(v ports.FlutterVersions) string { return v.NDKVersion }
	case descriptor.RefCompileSdk, descriptor.RefTargetSdk, descriptor.RefMinSdk, descriptor.RefVersionCode:
		return "", buildconfig.NewValidationError(ref, "is an integer property, string expected")
	default:
		return "", &buildconfig.NotFoundError{Kind: "flutter property", Name: ref}
	}
	v, err := r.load()
	if err != nil {
		return "", err
	}
	return pick(v), nil
}
