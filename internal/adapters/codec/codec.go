// Package codec provides the RasterCodec implementations and the registry
// that picks one by sniffing the input bytes.
package codec

import (
	"errors"
	"fmt"

	"github.com/iamNilotpal/sizefit/internal/core/domain"
	errs "github.com/iamNilotpal/sizefit/pkg/errors"
)

const (
	FormatJPEG = "jpeg"
	FormatQRZ  = "qrz"

	// OutputAuto encodes results with the codec that decoded the input.
	OutputAuto domain.OutputFormat = "auto"
	OutputJPEG domain.OutputFormat = FormatJPEG
	OutputQRZ  domain.OutputFormat = FormatQRZ
)

// zstd encoder levels accepted for QRZ output.
const (
	FastestLevel uint8 = 1
	DefaultLevel uint8 = 3
	BestLevel    uint8 = 4
)

const (
	DefaultBufferSize = 256 * 1024 // 256KB

	// DefaultMaxPixels admits an 8192x8192 image.
	DefaultMaxPixels = 1 << 26
)

var (
	// ErrEmptyInput is returned by Decode for zero-length input.
	ErrEmptyInput = errors.New("input is empty")

	// ErrReleasedImage is returned by Encode for a raster whose buffer was released.
	ErrReleasedImage = errors.New("raster has been released")

	// ErrTooManyPixels is returned by Decode when the declared dimensions
	// exceed the configured pixel budget.
	ErrTooManyPixels = errors.New("image exceeds the pixel budget")
)

// Returns CodecOptions initialized with the recommended defaults.
func DefaultOptions() *domain.CodecOptions {
	return &domain.CodecOptions{
		OutputFormat: OutputAuto,
		AutoOrient:   true,
		ZstdLevel:    DefaultLevel,
		BufferSize:   DefaultBufferSize,
		MaxPixels:    DefaultMaxPixels,
	}
}

// Checks if the codec options are valid.
func Validate(input *domain.CodecOptions) error {
	switch input.OutputFormat {
	case OutputAuto, OutputJPEG, OutputQRZ:
	default:
		return errs.NewValidationError(
			"outputFormat", input.OutputFormat,
			fmt.Errorf("unsupported output format %q, want auto, jpeg or qrz", input.OutputFormat),
		)
	}

	if input.ZstdLevel < FastestLevel || input.ZstdLevel > BestLevel {
		return errs.NewValidationError(
			"zstdLevel", input.ZstdLevel,
			fmt.Errorf("zstd level must be between %d and %d, got %d", FastestLevel, BestLevel, input.ZstdLevel),
		)
	}

	if input.BufferSize < 0 {
		return errs.NewValidationError(
			"bufferSize", input.BufferSize, fmt.Errorf("buffer size must not be negative"),
		)
	}

	if input.MaxPixels <= 0 {
		return errs.NewValidationError(
			"maxPixels", input.MaxPixels, fmt.Errorf("pixel budget must be greater than 0"),
		)
	}

	return nil
}

// checkDimensions rejects declared dimensions that are non-positive or whose
// area exceeds maxPixels. It runs on header values, before pixel memory is
// allocated.
func checkDimensions(format string, width, height, maxPixels int) error {
	if width <= 0 || height <= 0 {
		return fmt.Errorf("%s image has invalid dimensions %dx%d", format, width, height)
	}

	// width <= maxPixels keeps the product from overflowing.
	if width > maxPixels || height > maxPixels/width {
		return fmt.Errorf("%s image is %dx%d, limit is %d pixels: %w", format, width, height, maxPixels, ErrTooManyPixels)
	}

	return nil
}

// checkEncodable rejects out-of-range qualities and released rasters
// before any encoder work happens.
func checkEncodable(img *domain.RasterImage, quality int) error {
	if quality < domain.MinQuality || quality > domain.MaxQuality {
		return errs.New(errs.ErrorInvalidParameter, "encode", errs.NewValidationError(
			"quality", quality,
			fmt.Errorf("quality must be between %d and %d", domain.MinQuality, domain.MaxQuality),
		))
	}

	if img.Released() {
		return ErrReleasedImage
	}

	return nil
}
