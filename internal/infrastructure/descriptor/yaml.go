package descriptor

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"

	"gopkg.in/yaml.v3"

	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
	"kilometers.ai/buildcfg/internal/core/domain/descriptor"
	"kilometers.ai/buildcfg/internal/core/ports"
)

var yamlLinePattern = regexp.MustCompile(`line (\d+)`)

// YAMLDecoder reads descriptors written as YAML mappings
type YAMLDecoder struct{}

func NewYAMLDecoder() *YAMLDecoder { return &YAMLDecoder{} }

func (d *YAMLDecoder) Format() descriptor.Format { return descriptor.FormatYAML }

func (d *YAMLDecoder) Decode(source string, data []byte) (descriptor.Document, error) {
	var f fileDocument
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		perr := &buildconfig.ParseError{Source: source, Msg: "invalid YAML", Err: err}
		if m := yamlLinePattern.FindStringSubmatch(err.Error()); m != nil {
			perr.Line, _ = strconv.Atoi(m[1])
		}
		return descriptor.Document{}, perr
	}

	doc, err := f.toDocument(source, descriptor.FormatYAML)
	if err != nil {
		return descriptor.Document{}, fmt.Errorf("decode yaml descriptor: %w", err)
	}
	return doc, nil
}

var _ ports.DescriptorDecoder = (*YAMLDecoder)(nil)
