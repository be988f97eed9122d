package entity

import "slices"

type OutputFormat string

const (
	FormatPNG  OutputFormat = "png"
	FormatJPG  OutputFormat = "jpg"
	FormatJPEG OutputFormat = "jpeg"
	FormatWebP OutputFormat = "webp"
	FormatGIF  OutputFormat = "gif"
	FormatTIFF OutputFormat = "tiff"
	FormatBMP  OutputFormat = "bmp"
	FormatRAW  OutputFormat = "raw"
	FormatICO  OutputFormat = "ico"

	FormatMP3  OutputFormat = "mp3"
	FormatWAV  OutputFormat = "wav"
	FormatFLAC OutputFormat = "flac"
	FormatAAC  OutputFormat = "aac"
	FormatOGG  OutputFormat = "ogg"
	FormatWMA  OutputFormat = "wma"
)

var (
	ImageFormats = []OutputFormat{
		FormatPNG, FormatJPG, FormatJPEG, FormatWebP, FormatGIF,
		FormatTIFF, FormatBMP, FormatRAW, FormatICO,
	}
	AudioFormats = []OutputFormat{
		FormatMP3, FormatWAV, FormatFLAC, FormatAAC, FormatOGG, FormatWMA,
	}
)

// AcceptedImageTypes is the picker filter offered to clients.
var AcceptedImageTypes = []string{
	"image/png", "image/jpeg", "image/jpg", "image/webp", "image/gif",
	"image/tiff", "image/bmp", "image/raw", "image/ico",
}

// CompatibleFormats returns the output formats a file of the given category can
// be converted to. The result is nil for unsupported categories.
func CompatibleFormats(c FileCategory) []OutputFormat {
	switch c {
	case CategoryImage:
		return slices.Clone(ImageFormats)
	case CategoryAudio:
		return slices.Clone(AudioFormats)
	default:
		return nil
	}
}

func IsCompatible(c FileCategory, f OutputFormat) bool {
	return slices.Contains(CompatibleFormats(c), f)
}

// DefaultFormat is the first compatible format for the category.
func DefaultFormat(c FileCategory) OutputFormat {
	formats := CompatibleFormats(c)
	if len(formats) == 0 {
		return ""
	}
	return formats[0]
}

// MimeType is the Content-Type a result in this format is served with.
func (f OutputFormat) MimeType(c FileCategory) string {
	if c == CategoryAudio {
		return "audio/" + string(f)
	}

	switch f {
	case FormatJPG, FormatJPEG:
		return "image/jpeg"
	case FormatICO:
		return "image/x-icon"
	default:
		return "image/" + string(f)
	}
}
