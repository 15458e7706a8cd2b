package descriptor

import (
	"encoding/json"
	"fmt"
	"math"

	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
	"kilometers.ai/buildcfg/internal/core/domain/descriptor"
)

// fileDocument is the key/value rendition of a descriptor shared by the
// TOML, YAML and JSON decoders. Integer fields accept literals or
// "flutter.*" reference strings.
type fileDocument struct {
	Plugins                []string `toml:"plugins" yaml:"plugins" json:"plugins"`
	Namespace              string   `toml:"namespace" yaml:"namespace" json:"namespace"`
	CompileSdk             any      `toml:"compileSdk" yaml:"compileSdk" json:"compileSdk"`
	TargetSdk              any      `toml:"targetSdk" yaml:"targetSdk" json:"targetSdk"`
	MinSdk                 any      `toml:"minSdk" yaml:"minSdk" json:"minSdk"`
	NDKVersion             string   `toml:"ndkVersion" yaml:"ndkVersion" json:"ndkVersion"`
	JavaLanguageLevel      string   `toml:"javaLanguageLevel" yaml:"javaLanguageLevel" json:"javaLanguageLevel"`
	KotlinJvmTarget        string   `toml:"kotlinJvmTarget" yaml:"kotlinJvmTarget" json:"kotlinJvmTarget"`
	ApplicationID          string   `toml:"applicationId" yaml:"applicationId" json:"applicationId"`
	VersionCode            any      `toml:"versionCode" yaml:"versionCode" json:"versionCode"`
	VersionName            string   `toml:"versionName" yaml:"versionName" json:"versionName"`
	SigningConfigRef       string   `toml:"signingConfigRef" yaml:"signingConfigRef" json:"signingConfigRef"`
	DeclaredSigningConfigs []string `toml:"declaredSigningConfigs" yaml:"declaredSigningConfigs" json:"declaredSigningConfigs"`
	FlutterSourceDir       string   `toml:"flutterSourceDir" yaml:"flutterSourceDir" json:"flutterSourceDir"`
}

func (f fileDocument) toDocument(source string, format descriptor.Format) (descriptor.Document, error) {
	doc := descriptor.Document{
		Source:              source,
		Format:              format,
		Plugins:             f.Plugins,
		Namespace:           f.Namespace,
		SourceCompatibility: f.JavaLanguageLevel,
		TargetCompatibility: f.JavaLanguageLevel,
		JvmTarget:           f.KotlinJvmTarget,
		ApplicationID:       f.ApplicationID,
		SigningConfigRef:    f.SigningConfigRef,
		SigningConfigs:      f.DeclaredSigningConfigs,
		FlutterSource:       f.FlutterSourceDir,
	}
	if f.NDKVersion != "" {
		doc.NDKVersion = descriptor.ParseStringValue(f.NDKVersion)
	}
	if f.VersionName != "" {
		doc.VersionName = descriptor.ParseStringValue(f.VersionName)
	}

	ints := []struct {
		key string
		raw any
		dst *descriptor.IntValue
	}{
		{"compileSdk", f.CompileSdk, &doc.CompileSdk},
		{"targetSdk", f.TargetSdk, &doc.TargetSdk},
		{"minSdk", f.MinSdk, &doc.MinSdk},
		{"versionCode", f.VersionCode, &doc.VersionCode},
	}
	for _, field := range ints {
		if field.raw == nil {
			continue
		}
		v, err := toIntValue(field.raw)
		if err != nil {
			return descriptor.Document{}, &buildconfig.ParseError{Source: source, Msg: field.key, Err: err}
		}
		*field.dst = v
	}
	return doc, nil
}

func toIntValue(raw any) (descriptor.IntValue, error) {
	switch v := raw.(type) {
	case int:
		return toIntValue(int64(v))
	case int64:
		if v > math.MaxInt32 || v < math.MinInt32 {
			return descriptor.IntValue{}, fmt.Errorf("%d out of range", v)
		}
		return descriptor.Int(int(v)), nil
	case uint64:
		if v > math.MaxInt32 {
			return descriptor.IntValue{}, fmt.Errorf("%d out of range", v)
		}
		return descriptor.Int(int(v)), nil
	case float64:
		if v != math.Trunc(v) || v > math.MaxInt32 || v < math.MinInt32 {
			return descriptor.IntValue{}, fmt.Errorf("%v is not an integer", v)
		}
		return descriptor.Int(int(v)), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil {
			return descriptor.IntValue{}, fmt.Errorf("%s is not an integer", v)
		}
		return toIntValue(n)
	case string:
		return descriptor.ParseIntValue(v)
	default:
		return descriptor.IntValue{}, fmt.Errorf("unsupported value type %T", raw)
	}
}
