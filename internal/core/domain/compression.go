package domain

const (
	// MinQuality is the most lossy quality level a codec accepts.
	MinQuality = 1

	// MaxQuality is the least lossy quality level a codec accepts.
	MaxQuality = 100
)

// Probe is one measured sample of the quality search: the quality that
// was encoded, the resulting byte length and the dimensions it ran at.
type Probe struct {
	Quality int
	Size    int
	Width   int
	Height  int
}

// Smaller reports whether p is a better "closest to budget" diagnostic than
// other. A zero Probe (no samples yet) always loses.
func (p Probe) Smaller(other Probe) bool {
	if other.Size == 0 {
		return p.Size > 0
	}
	if p.Size == 0 {
		return false
	}
	if p.Size != other.Size {
		return p.Size < other.Size
	}
	// Same size: prefer the higher quality, then the larger raster.
	if p.Quality != other.Quality {
		return p.Quality > other.Quality
	}
	return p.Width*p.Height > other.Width*other.Height
}

// Constraint limits one output dimension. At most one of MaxWidth and
// MaxHeight is set; zero means unconstrained.
type Constraint struct {
	MaxWidth  int
	MaxHeight int
}

// IsZero reports whether no dimension is constrained.
func (c Constraint) IsZero() bool {
	return c.MaxWidth == 0 && c.MaxHeight == 0
}

// CompressionRequest is the full input of one compression call.
type CompressionRequest struct {
	// Input is the source image. It is never modified.
	Input []byte

	// TargetSize is the byte budget. Must be greater than zero.
	TargetSize int

	// Constraint optionally bounds the output width or height.
	Constraint Constraint
}

// CompressionResult describes a successful call. Size never exceeds the
// request's TargetSize.
type CompressionResult struct {
	Data    []byte
	Size    int
	Quality int
	Width   int
	Height  int

	// Codec names the encoder that produced Data.
	Codec string

	// OriginalWidth and OriginalHeight are the decoded input dimensions.
	OriginalWidth  int
	OriginalHeight int

	// ShrinkRounds counts dimension plans tried after the initial one.
	ShrinkRounds int

	// Probes counts encoder invocations across all rounds.
	Probes int

	// Passthrough is set when the input bytes already satisfied the request
	// and were returned unchanged. Quality is MaxQuality in that case.
	Passthrough bool
}
