package entity

import "strings"

type FileCategory int

const (
	CategoryUnsupported FileCategory = iota
	CategoryImage
	CategoryAudio
)

func (c FileCategory) String() string {
	switch c {
	case CategoryImage:
		return "image"
	case CategoryAudio:
		return "audio"
	default:
		return "unsupported"
	}
}

// CategoryOf classifies a declared MIME type. Parameters such as
// "; charset=binary" are ignored.
func CategoryOf(mimeType string) FileCategory {
	mt := strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.Index(mt, ";"); i != -1 {
		mt = strings.TrimSpace(mt[:i])
	}

	switch {
	case strings.HasPrefix(mt, "image/"):
		return CategoryImage
	case strings.HasPrefix(mt, "audio/"):
		return CategoryAudio
	default:
		return CategoryUnsupported
	}
}

type FileMetadata struct {
	Name     string
	MimeType string
	Size     int64
}

type SourceFile struct {
	Metadata FileMetadata
	Data     []byte
}

func (f SourceFile) Category() FileCategory {
	return CategoryOf(f.Metadata.MimeType)
}

type ConversionResult struct {
	Name     string
	MimeType string
	Data     []byte
}
