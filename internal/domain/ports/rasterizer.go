package ports

import (
	"context"

	"github.com/Stefan-Allen/fileconverter/internal/domain/entity"
)

//go:generate mockgen -source=rasterizer.go -destination=mocks/mock_rasterizer.go -package=mocks

type Rasterizer interface {
	// Decode reports the natural dimensions of an encoded image. Images with
	// more than maxPixels pixels are rejected before decoding; 0 disables
	// the check.
	Decode(ctx context.Context, src []byte, maxPixels int) (entity.Dimensions, error)
	Rasterize(ctx context.Context, src []byte, dims entity.Dimensions, format entity.OutputFormat, opts entity.RasterOptions) ([]byte, error)
}
