package resample

import (
	"bytes"
	"image"
	"image/color"
	"testing"

	"github.com/iamNilotpal/sizefit/internal/core/domain"
	errs "github.com/iamNilotpal/sizefit/pkg/errors"
)

func checkerboard(w, h int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x/4+y/4)%2 == 0 {
				img.SetNRGBA(x, y, color.NRGBA{R: 250, G: 40, B: 40, A: 255})
			} else {
				img.SetNRGBA(x, y, color.NRGBA{R: 20, G: 20, B: 200, A: 255})
			}
		}
	}
	return img
}

func TestFitAspect(t *testing.T) {
	tests := []struct {
		name             string
		srcW, srcH, w, h int
		wantW, wantH     int
	}{
		{"width constrained", 2000, 1500, 800, 0, 800, 600},
		{"height constrained", 2000, 1500, 0, 300, 400, 300},
		{"rounding", 3, 2, 2, 0, 2, 1},
		{"both given", 100, 100, 10, 20, 10, 20},
		{"clamped to one", 1000, 1, 10, 0, 10, 1},
		{"tall clamp", 1, 1000, 0, 10, 1, 10},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, h := FitAspect(tt.srcW, tt.srcH, tt.w, tt.h)
			if w != tt.wantW || h != tt.wantH {
				t.Fatalf("FitAspect = %dx%d, want %dx%d", w, h, tt.wantW, tt.wantH)
			}
		})
	}
}

func TestResampleKernels(t *testing.T) {
	for _, kernel := range []domain.ResampleKernel{Nearest, ApproxBiLinear, BiLinear, CatmullRom, Lanczos} {
		t.Run(string(kernel), func(t *testing.T) {
			r, err := New(&domain.ResampleOptions{Kernel: kernel})
			if err != nil {
				t.Fatalf("New: %v", err)
			}

			src := checkerboard(120, 80)
			before := append([]byte(nil), src.Pix...)
			img := domain.NewRasterImage(src, "png")

			out, err := r.Resample(img, 60, 0)
			if err != nil {
				t.Fatalf("Resample: %v", err)
			}
			if out.Width != 60 || out.Height != 40 {
				t.Fatalf("got %dx%d, want 60x40", out.Width, out.Height)
			}
			if out.Format != "png" {
				t.Errorf("format %q not inherited", out.Format)
			}
			if !bytes.Equal(src.Pix, before) {
				t.Fatal("source raster was modified")
			}
			if out.Pixels == img.Pixels {
				t.Fatal("result aliases the source raster")
			}
		})
	}
}

func TestResampleRejectsBadInput(t *testing.T) {
	r, err := New(nil)
	if err != nil {
		t.Fatal(err)
	}

	img := domain.NewRasterImage(checkerboard(10, 10), "png")
	if _, err := r.Resample(img, 0, 0); !errs.IsInvalidParameter(err) {
		t.Errorf("Resample(0, 0) error = %v", err)
	}

	img.Release()
	if _, err := r.Resample(img, 5, 5); err == nil {
		t.Error("Resample of a released raster should fail")
	}

	if _, err := New(&domain.ResampleOptions{Kernel: "cubic"}); !errs.IsValidationError(err) {
		t.Errorf("New(cubic) error = %v", err)
	}
}
