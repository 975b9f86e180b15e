package ports

import "github.com/iamNilotpal/sizefit/internal/core/domain"

// Resampler scales rasters to a dimension plan.
type Resampler interface {
	// Resample returns a new raster of width x height. A zero width or
	// height is derived from the other one and the source aspect ratio.
	// The source raster is never modified or aliased.
	Resample(img *domain.RasterImage, width, height int) (*domain.RasterImage, error)
}
