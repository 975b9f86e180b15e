package compressor

import (
	"errors"
	"image"
	"testing"

	"github.com/iamNilotpal/sizefit/internal/core/domain"
	errs "github.com/iamNilotpal/sizefit/pkg/errors"
)

// areaCodec decodes any input to a blank side x side raster and encodes
// to width*height*quality/100 bytes, so sizes are exact and monotone.
type areaCodec struct {
	side     int
	overhead int
	format   string // Decoded format, "raw" when empty.
}

func (c *areaCodec) Name() string      { return "area" }
func (c *areaCodec) Match([]byte) bool { return true }

func (c *areaCodec) Decode([]byte) (*domain.RasterImage, error) {
	format := c.format
	if format == "" {
		format = "raw"
	}
	return domain.NewRasterImage(image.NewNRGBA(image.Rect(0, 0, c.side, c.side)), format), nil
}

func (c *areaCodec) Encode(img *domain.RasterImage, q int) ([]byte, error) {
	if img.Released() {
		return nil, errors.New("released")
	}
	return make([]byte, c.overhead+img.Width*img.Height*q/100), nil
}

func TestShrinkRoundsUntilFit(t *testing.T) {
	c := newCompressor(t, nil, WithCodec(&areaCodec{side: 100}))

	// q1 sizes per plan: 100x100=100, 90x90=81, 81x81=65, 73x73=53, 66x66=43.
	result, err := c.Compress(domain.CompressionRequest{Input: []byte("x"), TargetSize: 50})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if result.Width != 66 || result.Height != 66 || result.ShrinkRounds != 4 {
		t.Fatalf("result %dx%d after %d rounds, want 66x66 after 4", result.Width, result.Height, result.ShrinkRounds)
	}
	if result.Size > 50 || result.Quality != 1 || result.Codec != "area" {
		t.Fatalf("result = %+v", result)
	}
}

func TestShrinkRoundsBounded(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxShrinkRounds = rounds(3)
	c := newCompressor(t, opts, WithCodec(&areaCodec{side: 100, overhead: 1000}))

	_, err := c.Compress(domain.CompressionRequest{Input: []byte("x"), TargetSize: 500})

	var ute *domain.UnattainableTargetError
	if !errors.As(err, &ute) {
		t.Fatalf("error = %v, want unattainable", err)
	}
	if ute.Rounds != 3 {
		t.Fatalf("rounds = %d, want 3", ute.Rounds)
	}
	// Fourth plan is 73x73: 1000 + 5329/100.
	if ute.Best.Width != 73 || ute.Best.Size != 1053 || ute.Best.Quality != 1 {
		t.Fatalf("best = %+v", ute.Best)
	}
}

func TestShrinkStopsAtOnePixel(t *testing.T) {
	c := newCompressor(t, nil, WithCodec(&areaCodec{side: 2, overhead: 10}))

	_, err := c.CompressWithTargetSize([]byte("x"), 5)
	if !errs.IsUnattainable(err) {
		t.Fatalf("error = %v, want unattainable", err)
	}

	var ute *domain.UnattainableTargetError
	errors.As(err, &ute)
	if ute.Rounds != 1 || ute.Best.Width != 1 || ute.Best.Height != 1 {
		t.Fatalf("failure = %+v, want a single round ending at 1x1", ute)
	}
}

func TestSearchIterationFault(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxSearchIterations = 1
	c := newCompressor(t, opts, WithCodec(&areaCodec{side: 100}))

	_, err := c.CompressWithTargetSize([]byte("x"), 5000)
	if errs.CategoryOf(err) != errs.ErrorInternal {
		t.Fatalf("error = %v, want internal", err)
	}
}

func TestZeroShrinkRoundsKept(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxShrinkRounds = rounds(0)
	c := newCompressor(t, opts, WithCodec(&areaCodec{side: 100}))

	if got := *c.Options().MaxShrinkRounds; got != 0 {
		t.Fatalf("MaxShrinkRounds = %d, want 0", got)
	}

	_, err := c.CompressWithTargetSize([]byte("x"), 50)

	var ute *domain.UnattainableTargetError
	if !errors.As(err, &ute) {
		t.Fatalf("error = %v, want unattainable", err)
	}
	if ute.Rounds != 0 || ute.Best.Width != 100 || ute.Best.Height != 100 {
		t.Fatalf("failure = %+v, want only the initial 100x100 plan", ute)
	}
}

func TestPassthroughReportsFullQuality(t *testing.T) {
	// Every encoding is at least 101 bytes, so only the input itself fits.
	c := newCompressor(t, nil, WithCodec(&areaCodec{side: 10, overhead: 100, format: "area"}))
	input := []byte("already small enough")

	result, err := c.Compress(domain.CompressionRequest{Input: input, TargetSize: 60})
	if err != nil {
		t.Fatalf("Compress: %v", err)
	}
	if !result.Passthrough || result.Quality != domain.MaxQuality {
		t.Fatalf("passthrough=%v quality=%d, want passthrough at quality %d",
			result.Passthrough, result.Quality, domain.MaxQuality)
	}
	if string(result.Data) != string(input) || result.Size != len(input) {
		t.Fatalf("data = %q", result.Data)
	}
	if result.Quality < domain.MinQuality || result.Quality > domain.MaxQuality {
		t.Fatalf("quality %d outside [%d, %d]", result.Quality, domain.MinQuality, domain.MaxQuality)
	}
}
