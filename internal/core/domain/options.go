package domain

// EngineOptions configures a compressor. Zero and nil fields are replaced
// by their defaults when the compressor is built.
type EngineOptions struct {
	// ShrinkFactor scales both dimensions after a dimension plan exhausts
	// every quality level. Must be in (0, 1). Default 0.9.
	ShrinkFactor float64

	// MaxShrinkRounds bounds how many smaller dimension plans are tried
	// after the initial one. Nil selects the default of 10; zero disables
	// shrinking.
	MaxShrinkRounds *int

	// MaxSearchIterations bounds the quality binary search for a single
	// dimension plan. Exceeding it is reported as an internal fault.
	// A binary search over [1, 99] needs at most 7 iterations, so bounds
	// below that turn exhaustive searches into internal faults. Default 10.
	MaxSearchIterations int

	// CodecOptions selects and tunes the codecs.
	CodecOptions *CodecOptions

	// ResampleOptions selects the resampling kernel.
	ResampleOptions *ResampleOptions
}

// OutputFormat selects the codec results are encoded with.
type OutputFormat string

// CodecOptions tunes decoding and encoding.
type CodecOptions struct {
	// OutputFormat is "auto" (encode with the codec that decoded the
	// input), "jpeg" or "qrz". Default "auto".
	OutputFormat OutputFormat

	// AutoOrient applies EXIF orientation while decoding JPEG input.
	AutoOrient bool

	// ZstdLevel is the zstd encoder level for QRZ output (1-4).
	ZstdLevel uint8

	// BufferSize is the initial capacity of pooled encode buffers.
	BufferSize int

	// MaxPixels bounds width*height of any image a codec decodes. Headers
	// declaring more are rejected before pixel memory is allocated.
	MaxPixels int
}

// ResampleKernel names an interpolation kernel.
type ResampleKernel string

// ResampleOptions configures the resampler.
type ResampleOptions struct {
	// Kernel is one of nearest, approxbilinear, bilinear, catmullrom,
	// lanczos. Default catmullrom.
	Kernel ResampleKernel
}
