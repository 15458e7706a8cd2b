package descriptor

import (
	"errors"
	"fmt"
	"strings"

	"github.com/BurntSushi/toml"

	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
	"kilometers.ai/buildcfg/internal/core/domain/descriptor"
	"kilometers.ai/buildcfg/internal/core/ports"
)

// TOMLDecoder reads descriptors written as TOML key/value documents
type TOMLDecoder struct{}

func NewTOMLDecoder() *TOMLDecoder { return &TOMLDecoder{} }

func (d *TOMLDecoder) Format() descriptor.Format { return descriptor.FormatTOML }

func (d *TOMLDecoder) Decode(source string, data []byte) (descriptor.Document, error) {
	var f fileDocument
	md, err := toml.Decode(string(data), &f)
	if err != nil {
		perr := &buildconfig.ParseError{Source: source, Msg: "invalid TOML", Err: err}
		var tomlErr toml.ParseError
		if errors.As(err, &tomlErr) {
			perr.Line = tomlErr.Position.Line
			perr.Err = errors.New(tomlErr.Message)
		}
		return descriptor.Document{}, perr
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return descriptor.Document{}, buildconfig.NewParseError(source, 0, "unknown keys: %s", strings.Join(keys, ", "))
	}

	doc, err := f.toDocument(source, descriptor.FormatTOML)
	if err != nil {
		return descriptor.Document{}, fmt.Errorf("decode toml descriptor: %w", err)
	}
	return doc, nil
}

var _ ports.DescriptorDecoder = (*TOMLDecoder)(nil)
