package raster

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/HugoSmits86/nativewebp"
	ico "github.com/biessek/golang-ico"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"

	"github.com/Stefan-Allen/fileconverter/internal/domain/entity"
)

const (
	DefaultJPEGQuality = 92
	HighQuality        = 95

	// maxICOSide is the largest side an ICO directory entry can describe.
	maxICOSide = 256
)

type encodeFunc func(w io.Writer, img image.Image, quality int) error

var encoders = map[entity.OutputFormat]encodeFunc{
	entity.FormatPNG:  encodePNG,
	entity.FormatJPG:  encodeJPEG,
	entity.FormatJPEG: encodeJPEG,
	entity.FormatGIF:  encodeGIF,
	entity.FormatBMP:  encodeBMP,
	entity.FormatTIFF: encodeTIFF,
	entity.FormatWebP: encodeWebP,
	entity.FormatICO:  encodeICO,
}

// Supports reports whether format has an encoder.
func Supports(format entity.OutputFormat) bool {
	_, ok := encoders[format]
	return ok
}

// DefaultQuality is the quality used for a lossy format when the caller does
// not ask for one.
func DefaultQuality(format entity.OutputFormat) int {
	switch format {
	case entity.FormatJPG, entity.FormatJPEG:
		return DefaultJPEGQuality
	default:
		return 0
	}
}

func encodePNG(w io.Writer, img image.Image, _ int) error {
	enc := png.Encoder{CompressionLevel: png.DefaultCompression}
	return enc.Encode(w, img)
}

func encodeJPEG(w io.Writer, img image.Image, quality int) error {
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}
	return jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
}

func encodeGIF(w io.Writer, img image.Image, _ int) error {
	return gif.Encode(w, img, &gif.Options{NumColors: 256})
}

func encodeBMP(w io.Writer, img image.Image, _ int) error {
	return bmp.Encode(w, img)
}

func encodeTIFF(w io.Writer, img image.Image, _ int) error {
	return tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate, Predictor: true})
}

// encodeWebP writes lossless WebP, so quality does not apply.
func encodeWebP(w io.Writer, img image.Image, _ int) error {
	return nativewebp.Encode(w, img, &nativewebp.Options{})
}

func encodeICO(w io.Writer, img image.Image, _ int) error {
	b := img.Bounds()
	if b.Dx() > maxICOSide || b.Dy() > maxICOSide {
		return fmt.Errorf("%w: ico supports at most %dx%d, got %dx%d",
			entity.ErrUnsupportedEncoding, maxICOSide, maxICOSide, b.Dx(), b.Dy())
	}
	return ico.Encode(w, img)
}
