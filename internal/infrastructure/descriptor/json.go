package descriptor

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"kilometers.ai/buildcfg/internal/core/domain/buildconfig"
	"kilometers.ai/buildcfg/internal/core/domain/descriptor"
	"kilometers.ai/buildcfg/internal/core/ports"
)

// JSONDecoder reads descriptors written as a single JSON object
type JSONDecoder struct{}

func NewJSONDecoder() *JSONDecoder { return &JSONDecoder{} }

func (d *JSONDecoder) Format() descriptor.Format { return descriptor.FormatJSON }

func (d *JSONDecoder) Decode(source string, data []byte) (descriptor.Document, error) {
	var f fileDocument
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	dec.DisallowUnknownFields()
	if err := dec.Decode(&f); err != nil {
		perr := &buildconfig.ParseError{Source: source, Msg: "invalid JSON", Err: err}
		var syntaxErr *json.SyntaxError
		if errors.As(err, &syntaxErr) {
			perr.Line = lineAt(data, syntaxErr.Offset)
		}
		if errors.Is(err, io.EOF) {
			perr.Msg = "empty JSON document"
			perr.Err = nil
		}
		return descriptor.Document{}, perr
	}
	if dec.More() {
		return descriptor.Document{}, buildconfig.NewParseError(source, 0, "trailing data after JSON object")
	}

	doc, err := f.toDocument(source, descriptor.FormatJSON)
	if err != nil {
		return descriptor.Document{}, fmt.Errorf("decode json descriptor: %w", err)
	}
	return doc, nil
}

func lineAt(data []byte, offset int64) int {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	return bytes.Count(data[:offset], []byte("\n")) + 1
}

var _ ports.DescriptorDecoder = (*JSONDecoder)(nil)
