package descriptor

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
	"kilometers.ai/buildcfg/internal/core/domain/descriptor"
)

// exportDocument is the resolved record as handed to the build tool
type exportDocument struct {
	Plugins           []string `toml:"plugins" yaml:"plugins" json:"plugins"`
	Namespace         string   `toml:"namespace" yaml:"namespace" json:"namespace"`
	CompileSdk        int      `toml:"compileSdk" yaml:"compileSdk" json:"compileSdk"`
	TargetSdk         int      `toml:"targetSdk" yaml:"targetSdk" json:"targetSdk"`
	MinSdk            int      `toml:"minSdk" yaml:"minSdk" json:"minSdk"`
	NDKVersion        string   `toml:"ndkVersion,omitempty" yaml:"ndkVersion,omitempty" json:"ndkVersion,omitempty"`
	JavaLanguageLevel string   `toml:"javaLanguageLevel" yaml:"javaLanguageLevel" json:"javaLanguageLevel"`
	KotlinJvmTarget   string   `toml:"kotlinJvmTarget" yaml:"kotlinJvmTarget" json:"kotlinJvmTarget"`
	ApplicationID     string   `toml:"applicationId" yaml:"applicationId" json:"applicationId"`
	VersionCode       int      `toml:"versionCode" yaml:"versionCode" json:"versionCode"`
	VersionName       string   `toml:"versionName" yaml:"versionName" json:"versionName"`
	SigningConfigRef  string   `toml:"signingConfigRef,omitempty" yaml:"signingConfigRef,omitempty" json:"signingConfigRef,omitempty"`
	FlutterSourceDir  string   `toml:"flutterSourceDir" yaml:"flutterSourceDir" json:"flutterSourceDir"`

	// Declared keeps a non-implicit signing config resolvable on re-load
	Declared []string `toml:"declaredSigningConfigs,omitempty" yaml:"declaredSigningConfigs,omitempty" json:"declaredSigningConfigs,omitempty"`
}

func newExportDocument(cfg *buildconfig.BuildConfig) exportDocument {
	plugins := cfg.Plugins()
	if plugins == nil {
		plugins = []string{}
	}
	var declared []string
	if ref := cfg.SigningConfigRef(); ref != "" && ref != buildconfig.ImplicitSigningConfig {
		declared = []string{ref}
	}
	return exportDocument{
		Plugins:           plugins,
		Namespace:         cfg.Namespace(),
		CompileSdk:        cfg.CompileSdk(),
		TargetSdk:         cfg.TargetSdk(),
		MinSdk:            cfg.MinSdk(),
		NDKVersion:        cfg.NDKVersion(),
		JavaLanguageLevel: cfg.JavaLanguageLevel().String(),
		KotlinJvmTarget:   cfg.KotlinJvmTarget().String(),
		ApplicationID:     cfg.ApplicationID(),
		VersionCode:       cfg.VersionCode(),
		VersionName:       cfg.VersionName(),
		SigningConfigRef:  cfg.SigningConfigRef(),
		FlutterSourceDir:  cfg.FlutterSourceDir(),
		Declared:          declared,
	}
}

// Export encodes a validated record in the requested format. The output
// decodes back into an equal record with the matching decoder.
func Export(cfg *buildconfig.BuildConfig, format descriptor.Format) ([]byte, error) {
	doc := newExportDocument(cfg)
	switch format {
	case descriptor.FormatJSON:
		out, err := json.MarshalIndent(doc, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json: %w", err)
		}
		return append(out, '\n'), nil
	case descriptor.FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("encode yaml: %w", err)
		}
		return buf.Bytes(), nil
	case descriptor.FormatTOML:
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(doc); err != nil {
			return nil, fmt.Errorf("encode toml: %w", err)
		}
		return buf.Bytes(), nil
	default:
		return nil, fmt.Errorf("export format %q not supported", format)
	}
}
