package codec

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"

	"github.com/disintegration/imaging"
	"github.com/iamNilotpal/sizefit/internal/core/domain"
	"github.com/iamNilotpal/sizefit/pkg/pool"
	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// JPEGCodec decodes every format registered with the image package (JPEG,
// PNG, GIF, WebP, BMP, TIFF) and encodes baseline JPEG. It is the registry's
// fallback, so any decodable input can be compressed to a byte budget.
type JPEGCodec struct {
	autoOrient bool
	maxPixels  int
	buffers    *pool.BufferPool
}

func NewJPEGCodec(opts *domain.CodecOptions) *JPEGCodec {
	if opts == nil {
		opts = DefaultOptions()
	}

	maxPixels := opts.MaxPixels
	if maxPixels <= 0 {
		maxPixels = DefaultMaxPixels
	}

	return &JPEGCodec{
		autoOrient: opts.AutoOrient,
		maxPixels:  maxPixels,
		buffers:    pool.NewBufferPool(opts.BufferSize),
	}
}

func (c *JPEGCodec) Name() string {
	return FormatJPEG
}

// Match recognizes the JPEG SOI marker followed by another marker.
func (c *JPEGCodec) Match(data []byte) bool {
	return len(data) >= 3 && data[0] == 0xFF && data[1] == 0xD8 && data[2] == 0xFF
}

// Decode decodes data, applying EXIF orientation when enabled. Truncated
// streams, unknown formats and images over the pixel budget fail.
func (c *JPEGCodec) Decode(data []byte) (*domain.RasterImage, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("unrecognized image: %w", err)
	}

	if err := checkDimensions(format, cfg.Width, cfg.Height, c.maxPixels); err != nil {
		return nil, err
	}

	img, err := imaging.Decode(bytes.NewReader(data), imaging.AutoOrientation(c.autoOrient))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", format, err)
	}

	return domain.NewRasterImage(img, format), nil
}

// Encode encodes img as JPEG at quality. Transparent pixels are flattened
// by the encoder since JPEG has no alpha channel.
func (c *JPEGCodec) Encode(img *domain.RasterImage, quality int) ([]byte, error) {
	if err := checkEncodable(img, quality); err != nil {
		return nil, err
	}

	buf := c.buffers.Get()
	if err := imaging.Encode(buf, img.Pixels, imaging.JPEG, imaging.JPEGQuality(quality)); err != nil {
		c.buffers.Put(buf)
		return nil, fmt.Errorf("jpeg encode at quality %d: %w", quality, err)
	}

	return c.buffers.Detach(buf), nil
}
