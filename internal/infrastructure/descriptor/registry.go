package descriptor

import (
	"path/filepath"
	"strings"

	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
	"kilometers.ai/buildcfg/internal/core/domain/descriptor"
	"kilometers.ai/buildcfg/internal/core/ports"
)

// Registry selects a decoder by explicit format or by file name
type Registry struct {
	decoders map[descriptor.Format]ports.DescriptorDecoder
}

// NewRegistry returns a registry holding the given decoders
func NewRegistry(decoders ...ports.DescriptorDecoder) *Registry {
	r := &Registry{decoders: make(map[descriptor.Format]ports.DescriptorDecoder, len(decoders))}
	for _, d := range decoders {
		r.decoders[d.Format()] = d
	}
	return r
}

// NewDefaultRegistry registers the Gradle, TOML, YAML and JSON decoders
func NewDefaultRegistry() *Registry {
	return NewRegistry(NewGradleDecoder(), NewTOMLDecoder(), NewYAMLDecoder(), NewJSONDecoder())
}

// ForFormat returns the decoder registered for format
func (r *Registry) ForFormat(format descriptor.Format) (ports.DescriptorDecoder, error) {
	d, ok := r.decoders[format]
	if !ok {
		return nil, buildconfig.NewParseError("", 0, "unsupported descriptor format %q", format)
	}
	return d, nil
}

// ForPath picks a decoder from the file extension
func (r *Registry) ForPath(path string) (ports.DescriptorDecoder, error) {
	format, ok := FormatForPath(path)
	if !ok {
		return nil, buildconfig.NewParseError(path, 0, "cannot infer descriptor format from file name")
	}
	return r.ForFormat(format)
}

// FormatForPath maps a file name to its descriptor format
func FormatForPath(path string) (descriptor.Format, bool) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".kts":
		return descriptor.FormatGradle, true
	case ".toml":
		return descriptor.FormatTOML, true
	case ".yaml", ".yml":
		return descriptor.FormatYAML, true
	case ".json":
		return descriptor.FormatJSON, true
	}
	return "", false
}

// Formats lists the registered formats
func (r *Registry) Formats() []descriptor.Format {
	out := make([]descriptor.Format, 0, len(r.decoders))
	for _, f := range []descriptor.Format{descriptor.FormatGradle, descriptor.FormatTOML, descriptor.FormatYAML, descriptor.FormatJSON} {
		if _, ok := r.decoders[f]; ok {
			out = append(out, f)
		}
	}
	return out
}
