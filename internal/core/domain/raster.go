package domain

import (
	"image"
	"image/color"
)

// Dimensions is a (width, height) pair in pixels.
type Dimensions struct {
	Width  int
	Height int
}

// RasterImage is a decoded pixel buffer owned by exactly one compression
// call. It is created by a codec's Decode or by a resampler and must be
// released once a newer dimension plan supersedes it or the call returns.
type RasterImage struct {
	// Pixels holds the decoded buffer. It is nil after Release.
	Pixels image.Image

	// Width and Height are the pixel dimensions of Pixels.
	Width  int
	Height int

	// ColorModel is fixed at decode time.
	ColorModel color.Model

	// Format names the container the pixels were decoded from
	// ("jpeg", "png", "qrz", ...). Resampled images inherit it.
	Format string
}

// NewRasterImage wraps img, reading its bounds and color model.
func NewRasterImage(img image.Image, format string) *RasterImage {
	b := img.Bounds()
	return &RasterImage{
		Pixels:     img,
		Width:      b.Dx(),
		Height:     b.Dy(),
		ColorModel: img.ColorModel(),
		Format:     format,
	}
}

// Dimensions returns the raster's size.
func (r *RasterImage) Dimensions() Dimensions {
	return Dimensions{Width: r.Width, Height: r.Height}
}

// Release drops the pixel buffer. Release on a nil or already released
// image is a no-op.
func (r *RasterImage) Release() {
	if r == nil {
		return
	}
	r.Pixels = nil
}

// Released reports whether Release has been called.
func (r *RasterImage) Released() bool {
	return r == nil || r.Pixels == nil
}
