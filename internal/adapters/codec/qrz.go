package codec

import (
	"encoding/binary"
	"fmt"
	"image"
	"sync"

	"github.com/disintegration/imaging"
	"github.com/iamNilotpal/sizefit/internal/core/domain"
	"github.com/iamNilotpal/sizefit/pkg/pool"
	"github.com/klauspost/compress/zstd"
)

// QRZ container layout (big endian):
//
//	magic    [4]byte  "QRZ1"
//	width    uint32
//	height   uint32
//	quality  uint8
//	channels uint8    3 (opaque RGB) or 4 (RGBA)
//	body     zstd frame of width*height*channels bytes
//
// The body stores, per row, the left-neighbour delta of each channel's
// quantization index. Color channels are quantized with a step that grows
// as quality drops; alpha is always stored exactly.
const (
	qrzMagic        = "QRZ1"
	qrzHeaderSize   = 14
	qrzMaxDimension = 1 << 15
	qrzMaxStep      = 64
)

// QRZCodec is a lossy raster codec whose quality parameter controls color
// quantization and whose entropy stage is zstd. At quality 100 it is lossless.
type QRZCodec struct {
	level     uint8
	maxPixels int
	buffers   *pool.BufferPool
	mu        sync.RWMutex  // Protects encoder and decoder against Close.
	encoder   *zstd.Encoder // Safe for concurrent EncodeAll.
	decoder   *zstd.Decoder // Safe for concurrent DecodeAll.
}

// NewQRZCodec creates a QRZ codec with the zstd level from opts.
//
// Returns an error if:
// - The options are invalid
// - The zstd encoder or decoder initialization fails
func NewQRZCodec(opts *domain.CodecOptions) (*QRZCodec, error) {
	if opts == nil {
		opts = DefaultOptions()
	}

	if err := Validate(opts); err != nil {
		return nil, err
	}

	// A single-goroutine encoder keeps EncodeAll output byte-for-byte
	// reproducible, which the size search relies on.
	encoder, err := zstd.NewWriter(
		nil,
		zstd.WithEncoderLevel(zstd.EncoderLevel(opts.ZstdLevel)),
		zstd.WithEncoderConcurrency(1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create encoder: %w", err)
	}

	// A valid body never exceeds maxPixels*4 bytes.
	decoder, err := zstd.NewReader(
		nil,
		zstd.WithDecoderConcurrency(0),
		zstd.WithDecoderMaxMemory(uint64(opts.MaxPixels)*4),
	)
	if err != nil {
		encoder.Close()
		return nil, fmt.Errorf("failed to create decoder: %w", err)
	}

	return &QRZCodec{
		level:     opts.ZstdLevel,
		maxPixels: opts.MaxPixels,
		encoder:   encoder,
		decoder:   decoder,
		buffers:   pool.NewBufferPool(opts.BufferSize),
	}, nil
}

func (c *QRZCodec) Name() string {
	return FormatQRZ
}

func (c *QRZCodec) Match(data []byte) bool {
	return len(data) >= len(qrzMagic) && string(data[:len(qrzMagic)]) == qrzMagic
}

// Level returns the zstd encoder level.
func (c *QRZCodec) Level() uint8 {
	return c.level
}

func (c *QRZCodec) Encode(img *domain.RasterImage, quality int) ([]byte, error) {
	if err := checkEncodable(img, quality); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.encoder == nil {
		return nil, fmt.Errorf("qrz codec is closed")
	}

	src := asNRGBA(img.Pixels)
	w, h := src.Rect.Dx(), src.Rect.Dy()
	if w > qrzMaxDimension || h > qrzMaxDimension {
		return nil, fmt.Errorf("qrz cannot store %dx%d, limit is %d per side", w, h, qrzMaxDimension)
	}

	channels := 3
	if !src.Opaque() {
		channels = 4
	}

	step := quantStep(quality)
	raw := make([]byte, 0, w*h*channels)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride : y*src.Stride+w*4]
		var prev [4]byte
		for x := 0; x < w; x++ {
			for ch := 0; ch < channels; ch++ {
				v := row[x*4+ch]
				if ch < 3 {
					v /= step
				}
				raw = append(raw, v-prev[ch])
				prev[ch] = v
			}
		}
	}

	buf := c.buffers.Get()
	var header [qrzHeaderSize]byte
	copy(header[:4], qrzMagic)
	binary.BigEndian.PutUint32(header[4:8], uint32(w))
	binary.BigEndian.PutUint32(header[8:12], uint32(h))
	header[12] = byte(quality)
	header[13] = byte(channels)
	buf.Write(header[:])
	buf.Write(c.encoder.EncodeAll(raw, nil))

	return c.buffers.Detach(buf), nil
}

func (c *QRZCodec) Decode(data []byte) (*domain.RasterImage, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}

	if !c.Match(data) {
		return nil, fmt.Errorf("not a qrz stream")
	}

	if len(data) < qrzHeaderSize {
		return nil, fmt.Errorf("qrz header truncated: %d of %d bytes", len(data), qrzHeaderSize)
	}

	w := int(binary.BigEndian.Uint32(data[4:8]))
	h := int(binary.BigEndian.Uint32(data[8:12]))
	quality := int(data[12])
	channels := int(data[13])

	if w > qrzMaxDimension || h > qrzMaxDimension {
		return nil, fmt.Errorf("qrz dimensions %dx%d out of range", w, h)
	}
	if err := checkDimensions(FormatQRZ, w, h, c.maxPixels); err != nil {
		return nil, err
	}
	if quality < domain.MinQuality || quality > domain.MaxQuality {
		return nil, fmt.Errorf("qrz quality %d out of range", quality)
	}
	if channels != 3 && channels != 4 {
		return nil, fmt.Errorf("qrz channel count %d unsupported", channels)
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	if c.decoder == nil {
		return nil, fmt.Errorf("qrz codec is closed")
	}

	expected := w * h * channels
	raw, err := c.decoder.DecodeAll(data[qrzHeaderSize:], make([]byte, 0, expected))
	if err != nil {
		return nil, fmt.Errorf("qrz body: %w", err)
	}
	if len(raw) != expected {
		return nil, fmt.Errorf("qrz body truncated: %d of %d bytes", len(raw), expected)
	}

	step := quantStep(quality)
	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	i := 0
	for y := 0; y < h; y++ {
		row := dst.Pix[y*dst.Stride : y*dst.Stride+w*4]
		var prev [4]byte
		for x := 0; x < w; x++ {
			row[x*4+3] = 0xFF
			for ch := 0; ch < channels; ch++ {
				v := prev[ch] + raw[i]
				prev[ch] = v
				i++
				if ch < 3 {
					row[x*4+ch] = dequantize(v, step)
				} else {
					row[x*4+ch] = v
				}
			}
		}
	}

	return domain.NewRasterImage(dst, FormatQRZ), nil
}

// Close releases the zstd encoder and decoder. The codec is unusable afterwards.
func (c *QRZCodec) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.encoder == nil {
		return nil
	}

	err := c.encoder.Close()
	c.decoder.Close()
	c.encoder, c.decoder = nil, nil

	if err != nil {
		return fmt.Errorf("error closing encoder : %w", err)
	}
	return nil
}

// quantStep maps quality 100 to step 1 (lossless) and quality 1 to
// qrzMaxStep, non-increasing in quality.
func quantStep(quality int) byte {
	return byte(1 + ((domain.MaxQuality-quality)*(qrzMaxStep-1))/(domain.MaxQuality-domain.MinQuality))
}

func dequantize(index, step byte) byte {
	if step == 1 {
		return index
	}
	v := int(index)*int(step) + int(step)/2
	if v > 0xFF {
		v = 0xFF
	}
	return byte(v)
}

// asNRGBA returns img as a zero-origin NRGBA, copying only when needed.
func asNRGBA(img image.Image) *image.NRGBA {
	if n, ok := img.(*image.NRGBA); ok && n.Rect.Min == (image.Point{}) {
		return n
	}
	return imaging.Clone(img)
}
