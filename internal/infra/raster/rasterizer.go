// Package raster decodes source images, redraws them at a target size and
// encodes the result.
package raster

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/Stefan-Allen/fileconverter/internal/domain/entity"
)

// supersampleFactor is the density multiplier of the draw surface in high
// quality mode.
const supersampleFactor = 2

type Rasterizer struct{}

func NewRasterizer() *Rasterizer {
	return &Rasterizer{}
}

func (r *Rasterizer) Decode(ctx context.Context, src []byte, maxPixels int) (entity.Dimensions, error) {
	img, err := decode(ctx, src, maxPixels)
	if err != nil {
		return entity.Dimensions{}, err
	}
	b := img.Bounds()
	return entity.Dimensions{Width: b.Dx(), Height: b.Dy()}, nil
}

func (r *Rasterizer) Rasterize(ctx context.Context, src []byte, dims entity.Dimensions, format entity.OutputFormat, opts entity.RasterOptions) ([]byte, error) {
	encode, ok := encoders[format]
	if !ok {
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedEncoding, format)
	}
	if !dims.IsSet() {
		return nil, fmt.Errorf("rasterize: invalid target size %s", dims)
	}

	img, err := decode(ctx, src, opts.MaxSourcePixels)
	if err != nil {
		return nil, err
	}

	surface := render(img, dims, opts)

	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}

	quality := opts.Quality
	if quality <= 0 {
		quality = DefaultQuality(format)
	}

	var buf bytes.Buffer
	if err := encode(&buf, surface, quality); err != nil {
		if errors.Is(err, entity.ErrUnsupportedEncoding) {
			return nil, err
		}
		return nil, fmt.Errorf("encode %s: %w", format, err)
	}
	return buf.Bytes(), nil
}

// render stretches img onto a dims-sized surface. With supersampling the
// surface has twice the density and is presented back at dims.
func render(img image.Image, dims entity.Dimensions, opts entity.RasterOptions) image.Image {
	if opts.Supersample {
		w, h := dims.Width*supersampleFactor, dims.Height*supersampleFactor
		if opts.MaxSupersamplePixels > 0 && w*h > opts.MaxSupersamplePixels {
			slog.Warn("supersampled surface over budget, drawing at single density",
				"size", dims.String(), "budget", opts.MaxSupersamplePixels)
		} else {
			dense := image.NewNRGBA(image.Rect(0, 0, w, h))
			draw.CatmullRom.Scale(dense, dense.Bounds(), img, img.Bounds(), draw.Over, nil)
			return imaging.Resize(dense, dims.Width, dims.Height, imaging.Lanczos)
		}
	}

	surface := image.NewNRGBA(image.Rect(0, 0, dims.Width, dims.Height))
	draw.BiLinear.Scale(surface, surface.Bounds(), img, img.Bounds(), draw.Over, nil)
	return surface
}

type decodeResult struct {
	img image.Image
	err error
}

// checkPixelBudget reads only the image header and rejects sources whose
// pixel count exceeds maxPixels.
func checkPixelBudget(src []byte, maxPixels int) error {
	if maxPixels <= 0 {
		return nil
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(src))
	if err != nil {
		return fmt.Errorf("%w: %v", entity.ErrDecodeFailure, err)
	}
	if cfg.Width <= 0 || cfg.Height <= 0 || int64(cfg.Width)*int64(cfg.Height) > int64(maxPixels) {
		return fmt.Errorf("%w: %dx%d exceeds the %d pixel limit",
			entity.ErrDecodeFailure, cfg.Width, cfg.Height, maxPixels)
	}
	return nil
}

// decode runs the decoder off the caller's goroutine so a stuck or very slow
// decode turns into ErrDecodeTimeout once ctx expires.
func decode(ctx context.Context, src []byte, maxPixels int) (image.Image, error) {
	if len(src) == 0 {
		return nil, fmt.Errorf("%w: empty input", entity.ErrDecodeFailure)
	}

	if err := ctx.Err(); err != nil {
		return nil, contextError(err)
	}

	if err := checkPixelBudget(src, maxPixels); err != nil {
		return nil, err
	}

	done := make(chan decodeResult, 1)
	go func() {
		img, err := imaging.Decode(bytes.NewReader(src), imaging.AutoOrientation(true))
		done <- decodeResult{img: img, err: err}
	}()

	select {
	case <-ctx.Done():
		return nil, contextError(ctx.Err())
	case res := <-done:
		if res.err != nil {
			return nil, fmt.Errorf("%w: %v", entity.ErrDecodeFailure, res.err)
		}
		return res.img, nil
	}
}

func contextError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("%w: %v", entity.ErrDecodeTimeout, err)
	}
	return err
}
