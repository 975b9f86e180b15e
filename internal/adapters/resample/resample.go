// Package resample scales rasters with the interpolation kernels from
// golang.org/x/image/draw, plus Lanczos from imaging.
package resample

import (
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
	"github.com/iamNilotpal/sizefit/internal/core/domain"
	errs "github.com/iamNilotpal/sizefit/pkg/errors"
	"golang.org/x/image/draw"
)

const (
	Nearest        domain.ResampleKernel = "nearest"
	ApproxBiLinear domain.ResampleKernel = "approxbilinear"
	BiLinear       domain.ResampleKernel = "bilinear"
	CatmullRom     domain.ResampleKernel = "catmullrom"
	Lanczos        domain.ResampleKernel = "lanczos"
)

// Returns ResampleOptions with the recommended kernel.
func DefaultOptions() *domain.ResampleOptions {
	return &domain.ResampleOptions{Kernel: CatmullRom}
}

// Checks that the configured kernel is known.
func Validate(input *domain.ResampleOptions) error {
	switch input.Kernel {
	case Nearest, ApproxBiLinear, BiLinear, CatmullRom, Lanczos:
		return nil
	default:
		return errs.NewValidationError(
			"kernel", input.Kernel, fmt.Errorf("unsupported resample kernel %q", input.Kernel),
		)
	}
}

// Resampler implements ports.Resampler.
type Resampler struct {
	kernel       domain.ResampleKernel
	interpolator draw.Interpolator // nil for Lanczos.
}

func New(opts *domain.ResampleOptions) (*Resampler, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if err := Validate(opts); err != nil {
		return nil, err
	}

	r := &Resampler{kernel: opts.Kernel}
	switch opts.Kernel {
	case Nearest:
		r.interpolator = draw.NearestNeighbor
	case ApproxBiLinear:
		r.interpolator = draw.ApproxBiLinear
	case BiLinear:
		r.interpolator = draw.BiLinear
	case CatmullRom:
		r.interpolator = draw.CatmullRom
	}

	return r, nil
}

// Kernel returns the configured kernel name.
func (r *Resampler) Kernel() domain.ResampleKernel {
	return r.kernel
}

// Resample scales img into a newly allocated raster. When width or height
// is zero it is derived from the other and img's aspect ratio.
func (r *Resampler) Resample(img *domain.RasterImage, width, height int) (*domain.RasterImage, error) {
	if img.Released() {
		return nil, fmt.Errorf("cannot resample a released raster")
	}

	if width < 0 || height < 0 || (width == 0 && height == 0) {
		return nil, errs.New(errs.ErrorInvalidParameter, "resample", errs.NewValidationError(
			"dimensions", domain.Dimensions{Width: width, Height: height},
			fmt.Errorf("at least one positive target dimension is required"),
		))
	}

	width, height = FitAspect(img.Width, img.Height, width, height)

	var dst *image.NRGBA
	if r.interpolator == nil {
		dst = imaging.Resize(img.Pixels, width, height, imaging.Lanczos)
	} else {
		dst = image.NewNRGBA(image.Rect(0, 0, width, height))
		r.interpolator.Scale(dst, dst.Bounds(), img.Pixels, img.Pixels.Bounds(), draw.Src, nil)
	}

	out := domain.NewRasterImage(dst, img.Format)
	return out, nil
}

// FitAspect fills in a zero width or height from the source aspect ratio:
// derived = round(srcOther * constrained / srcConstrained). Both results are
// at least 1.
func FitAspect(srcW, srcH, width, height int) (int, int) {
	switch {
	case width > 0 && height == 0:
		height = scaleRound(srcH, width, srcW)
	case height > 0 && width == 0:
		width = scaleRound(srcW, height, srcH)
	}
	return max(width, 1), max(height, 1)
}

func scaleRound(other, constrained, original int) int {
	if original <= 0 {
		return 1
	}
	return int(math.Round(float64(other) * float64(constrained) / float64(original)))
}
