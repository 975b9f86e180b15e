package search

import (
	"errors"
	"image"
	"testing"

	"github.com/iamNilotpal/sizefit/internal/core/domain"
	errs "github.com/iamNilotpal/sizefit/pkg/errors"
)

// linearCodec emits size(q) bytes and records every quality it was asked for.
type linearCodec struct {
	size  func(q int) int
	fail  error
	calls []int
}

func (c *linearCodec) Name() string      { return "linear" }
func (c *linearCodec) Match([]byte) bool { return false }

func (c *linearCodec) Decode([]byte) (*domain.RasterImage, error) {
	return nil, errors.New("not supported")
}

func (c *linearCodec) Encode(_ *domain.RasterImage, q int) ([]byte, error) {
	c.calls = append(c.calls, q)
	if c.fail != nil {
		return nil, c.fail
	}
	return make([]byte, c.size(q)), nil
}

func raster() *domain.RasterImage {
	return domain.NewRasterImage(image.NewNRGBA(image.Rect(0, 0, 10, 10)), "png")
}

func TestRunFullQualityFits(t *testing.T) {
	codec := &linearCodec{size: func(q int) int { return q }}
	out, err := New(0, nil).Run(codec, raster(), 100)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !out.Satisfied || out.Best.Quality != 100 || len(out.Data) != 100 {
		t.Fatalf("outcome = %+v", out)
	}
	if out.Probes != 1 || len(codec.calls) != 1 {
		t.Fatalf("expected a single probe, got %v", codec.calls)
	}
}

func TestRunFindsHighestFittingQuality(t *testing.T) {
	tests := []struct {
		name   string
		target int
		want   int
	}{
		{"mid range", 555, 55},
		{"exact boundary", 990, 99},
		{"only lowest fits", 10, 1},
		{"just below q100", 999, 99},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			codec := &linearCodec{size: func(q int) int { return 10 * q }}
			out, err := New(DefaultMaxIterations, nil).Run(codec, raster(), tt.target)
			if err != nil {
				t.Fatalf("Run: %v", err)
			}
			if !out.Satisfied || out.Best.Quality != tt.want {
				t.Fatalf("best quality = %d (satisfied=%v), want %d", out.Best.Quality, out.Satisfied, tt.want)
			}
			if out.Best.Size > tt.target || len(out.Data) != out.Best.Size {
				t.Fatalf("best probe %+v does not fit %d", out.Best, tt.target)
			}
			if out.Probes > 8 {
				t.Fatalf("used %d probes, want at most 8", out.Probes)
			}
		})
	}
}

func TestRunExhausted(t *testing.T) {
	codec := &linearCodec{size: func(q int) int { return 1000 + q }}
	out, err := New(0, nil).Run(codec, raster(), 10)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if out.Satisfied {
		t.Fatal("nothing should fit")
	}
	if out.Smallest.Quality != 1 || out.Smallest.Size != 1001 {
		t.Fatalf("smallest probe = %+v", out.Smallest)
	}
	if out.Smallest.Width != 10 || out.Smallest.Height != 10 {
		t.Fatalf("smallest probe dimensions = %dx%d", out.Smallest.Width, out.Smallest.Height)
	}
}

func TestRunIterationBound(t *testing.T) {
	codec := &linearCodec{size: func(q int) int { return 10 * q }}
	_, err := New(2, nil).Run(codec, raster(), 555)
	if errs.CategoryOf(err) != errs.ErrorInternal {
		t.Fatalf("error = %v, want internal", err)
	}
}

func TestRunEncoderFault(t *testing.T) {
	cause := errors.New("encoder exploded")
	codec := &linearCodec{fail: cause}

	_, err := New(0, nil).Run(codec, raster(), 100)
	if !errs.IsEncodeError(err) {
		t.Fatalf("error = %v, want encode", err)
	}
	if !errors.Is(err, cause) {
		t.Fatal("cause should be preserved")
	}
	if len(codec.calls) != 1 {
		t.Fatalf("search should abort on the first fault, made %d calls", len(codec.calls))
	}
}

func TestRunKeepsCategorizedEncoderErrors(t *testing.T) {
	codec := &linearCodec{fail: errs.New(errs.ErrorInvalidParameter, "encode", errors.New("bad"))}
	_, err := New(0, nil).Run(codec, raster(), 100)
	if !errs.IsInvalidParameter(err) {
		t.Fatalf("error = %v, want invalid parameter", err)
	}
}
