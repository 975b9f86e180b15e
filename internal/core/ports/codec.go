package ports

import "github.com/iamNilotpal/sizefit/internal/core/domain"

// RasterCodec is the capability every image format plugs in through.
// The engine selects an implementation by sniffing the input bytes, so
// adding a format never touches the search or the facade.
//
// Implementations must be safe for concurrent use and deterministic: the
// same raster and quality always encode to the same number of bytes. The
// size search also assumes encoded size is non-decreasing in quality.
type RasterCodec interface {
	// Name is the short format identifier, e.g. "jpeg".
	Name() string

	// Match reports whether data looks like this codec's container.
	Match(data []byte) bool

	// Decode turns data into a raster owned by the caller.
	Decode(data []byte) (*domain.RasterImage, error)

	// Encode encodes img at quality, which is within
	// [domain.MinQuality, domain.MaxQuality]. The returned slice is owned
	// by the caller and its length is the exact encoded size.
	Encode(img *domain.RasterImage, quality int) ([]byte, error)
}
