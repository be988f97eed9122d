package raster_test

import (
	"bytes"
	"context"
	"encoding/binary"
	"errors"
	"hash/crc32"
	"image"
	"image/color"
	"image/png"
	"testing"
	"time"

	"github.com/Stefan-Allen/fileconverter/internal/domain/entity"
	"github.com/Stefan-Allen/fileconverter/internal/infra/raster"
)

func gradientPNG(t *testing.T, w, h int) []byte {
	t.Helper()

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: uint8(x * 255 / w), G: uint8(y * 255 / h), B: 128, A: 255})
		}
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode fixture: %v", err)
	}
	return buf.Bytes()
}

func decodedSize(t *testing.T, data []byte) (int, int, string) {
	t.Helper()

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode output: %v", err)
	}
	return cfg.Width, cfg.Height, format
}

func TestRasterizer_Decode(t *testing.T) {
	r := raster.NewRasterizer()

	dims, err := r.Decode(context.Background(), gradientPNG(t, 100, 60), 100*60)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if dims != (entity.Dimensions{Width: 100, Height: 60}) {
		t.Fatalf("expected 100x60, got %v", dims)
	}
}

func TestRasterizer_DecodeFailure(t *testing.T) {
	r := raster.NewRasterizer()

	for _, src := range [][]byte{nil, []byte("definitely not an image")} {
		_, err := r.Decode(context.Background(), src, 0)
		if !errors.Is(err, entity.ErrDecodeFailure) {
			t.Fatalf("expected ErrDecodeFailure, got %v", err)
		}
	}
}

func TestRasterizer_DecodeTimeout(t *testing.T) {
	r := raster.NewRasterizer()

	ctx, cancel := context.WithDeadline(context.Background(), time.Now().Add(-time.Second))
	defer cancel()

	_, err := r.Decode(ctx, gradientPNG(t, 10, 10), 0)
	if !errors.Is(err, entity.ErrDecodeTimeout) {
		t.Fatalf("expected ErrDecodeTimeout, got %v", err)
	}
}

// headerOnlyPNG is a PNG signature plus an IHDR chunk announcing a w x h
// 8-bit gray image. It carries no pixel data.
func headerOnlyPNG(w, h uint32) []byte {
	var ihdr [13]byte
	binary.BigEndian.PutUint32(ihdr[0:4], w)
	binary.BigEndian.PutUint32(ihdr[4:8], h)
	ihdr[8] = 8 // bit depth
	ihdr[9] = 0 // grayscale

	var buf bytes.Buffer
	buf.WriteString("\x89PNG\r\n\x1a\n")

	var length [4]byte
	binary.BigEndian.PutUint32(length[:], uint32(len(ihdr)))
	buf.Write(length[:])

	chunk := append([]byte("IHDR"), ihdr[:]...)
	buf.Write(chunk)

	var crc [4]byte
	binary.BigEndian.PutUint32(crc[:], crc32.ChecksumIEEE(chunk))
	buf.Write(crc[:])

	return buf.Bytes()
}

func TestRasterizer_DecodeRejectsOversizedSource(t *testing.T) {
	r := raster.NewRasterizer()
	src := headerOnlyPNG(20000, 20000)

	_, err := r.Decode(context.Background(), src, 50_000_000)
	if !errors.Is(err, entity.ErrDecodeFailure) {
		t.Fatalf("expected ErrDecodeFailure, got %v", err)
	}

	_, err = r.Rasterize(context.Background(), src, entity.Dimensions{Width: 10, Height: 10}, entity.FormatPNG,
		entity.RasterOptions{MaxSourcePixels: 50_000_000})
	if !errors.Is(err, entity.ErrDecodeFailure) {
		t.Fatalf("expected ErrDecodeFailure from rasterize, got %v", err)
	}
}

func TestRasterizer_DecodePixelBudgetBoundary(t *testing.T) {
	r := raster.NewRasterizer()
	src := gradientPNG(t, 40, 25)

	if _, err := r.Decode(context.Background(), src, 1000); err != nil {
		t.Fatalf("expected image at the limit to decode, got %v", err)
	}
	if _, err := r.Decode(context.Background(), src, 999); !errors.Is(err, entity.ErrDecodeFailure) {
		t.Fatalf("expected ErrDecodeFailure one pixel over, got %v", err)
	}
}

func TestRasterizer_RoundTripFormats(t *testing.T) {
	r := raster.NewRasterizer()
	src := gradientPNG(t, 100, 100)
	target := entity.Dimensions{Width: 50, Height: 80}

	tests := []struct {
		format  entity.OutputFormat
		decoded string
	}{
		{format: entity.FormatPNG, decoded: "png"},
		{format: entity.FormatJPG, decoded: "jpeg"},
		{format: entity.FormatJPEG, decoded: "jpeg"},
		{format: entity.FormatGIF, decoded: "gif"},
		{format: entity.FormatBMP, decoded: "bmp"},
		{format: entity.FormatTIFF, decoded: "tiff"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			out, err := r.Rasterize(context.Background(), src, target, tt.format, entity.RasterOptions{})
			if err != nil {
				t.Fatalf("expected nil err, got %v", err)
			}

			w, h, format := decodedSize(t, out)
			if w != 50 || h != 80 {
				t.Fatalf("expected 50x80, got %dx%d", w, h)
			}
			if format != tt.decoded {
				t.Fatalf("expected %s, got %s", tt.decoded, format)
			}
		})
	}
}

func TestRasterizer_WebP(t *testing.T) {
	r := raster.NewRasterizer()

	out, err := r.Rasterize(context.Background(), gradientPNG(t, 40, 40), entity.Dimensions{Width: 20, Height: 20}, entity.FormatWebP, entity.RasterOptions{})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if len(out) < 12 || string(out[0:4]) != "RIFF" || string(out[8:12]) != "WEBP" {
		t.Fatalf("expected a RIFF/WEBP container")
	}
}

func TestRasterizer_ICO(t *testing.T) {
	r := raster.NewRasterizer()
	src := gradientPNG(t, 64, 64)

	out, err := r.Rasterize(context.Background(), src, entity.Dimensions{Width: 32, Height: 32}, entity.FormatICO, entity.RasterOptions{})
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if !bytes.HasPrefix(out, []byte{0, 0, 1, 0}) {
		t.Fatalf("expected ICO header, got % x", out[:4])
	}

	_, err = r.Rasterize(context.Background(), src, entity.Dimensions{Width: 300, Height: 300}, entity.FormatICO, entity.RasterOptions{})
	if !errors.Is(err, entity.ErrUnsupportedEncoding) {
		t.Fatalf("expected ErrUnsupportedEncoding for oversize icon, got %v", err)
	}
}

func TestRasterizer_RawUnsupported(t *testing.T) {
	r := raster.NewRasterizer()

	_, err := r.Rasterize(context.Background(), gradientPNG(t, 10, 10), entity.Dimensions{Width: 5, Height: 5}, entity.FormatRAW, entity.RasterOptions{})
	if !errors.Is(err, entity.ErrUnsupportedEncoding) {
		t.Fatalf("expected ErrUnsupportedEncoding, got %v", err)
	}
	if raster.Supports(entity.FormatRAW) {
		t.Fatalf("raw must not report an encoder")
	}
}

func TestRasterizer_SupersampleKeepsLogicalSize(t *testing.T) {
	r := raster.NewRasterizer()
	src := gradientPNG(t, 120, 90)
	opts := entity.RasterOptions{Supersample: true, Quality: raster.HighQuality}

	out, err := r.Rasterize(context.Background(), src, entity.Dimensions{Width: 64, Height: 48}, entity.FormatPNG, opts)
	if err != nil {
		t.Fatalf("expected nil err, got %v", err)
	}
	if w, h, _ := decodedSize(t, out); w != 64 || h != 48 {
		t.Fatalf("expected 64x48, got %dx%d", w, h)
	}

	opts.MaxSupersamplePixels = 100
	out, err = r.Rasterize(context.Background(), src, entity.Dimensions{Width: 64, Height: 48}, entity.FormatJPEG, opts)
	if err != nil {
		t.Fatalf("expected nil err over budget, got %v", err)
	}
	if w, h, _ := decodedSize(t, out); w != 64 || h != 48 {
		t.Fatalf("expected 64x48 over budget, got %dx%d", w, h)
	}
}

func TestRasterizer_Deterministic(t *testing.T) {
	r := raster.NewRasterizer()
	src := gradientPNG(t, 77, 33)
	dims := entity.Dimensions{Width: 40, Height: 40}

	for _, opts := range []entity.RasterOptions{{}, {Supersample: true, Quality: raster.HighQuality}} {
		first, err := r.Rasterize(context.Background(), src, dims, entity.FormatJPEG, opts)
		if err != nil {
			t.Fatalf("expected nil err, got %v", err)
		}
		second, err := r.Rasterize(context.Background(), src, dims, entity.FormatJPEG, opts)
		if err != nil {
			t.Fatalf("expected nil err, got %v", err)
		}
		if !bytes.Equal(first, second) {
			t.Fatalf("expected identical output for %+v", opts)
		}
	}
}

func TestRasterizer_InvalidTarget(t *testing.T) {
	r := raster.NewRasterizer()

	_, err := r.Rasterize(context.Background(), gradientPNG(t, 10, 10), entity.Dimensions{Width: 0, Height: 5}, entity.FormatPNG, entity.RasterOptions{})
	if err == nil {
		t.Fatalf("expected err for unset width, got nil")
	}
}
