package ports

import "kilometers.ai/buildcfg/internal/core/domain/descriptor"

// DescriptorDecoder turns raw descriptor bytes into a Document.
// Structural problems are reported as *buildconfig.ParseError.
type DescriptorDecoder interface {
	Format() descriptor.Format
	Decode(source string, data []byte) (descriptor.Document, error)
}

// DecoderResolver picks the decoder for a descriptor file
type DecoderResolver interface {
	ForPath(path string) (DescriptorDecoder, error)
}
