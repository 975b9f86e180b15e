// Package search finds, for one fixed raster, the highest quality level
// whose encoding fits a byte budget.
//
// The search assumes encoded size is non-decreasing in quality for a fixed
// raster, which holds for quality-parameterized lossy encoders. The
// assumption is not verified: an encoder that violates it still terminates
// within the iteration bound but may yield a locally rather than globally
// best quality.
package search

import (
	"fmt"

	"github.com/iamNilotpal/sizefit/internal/core/domain"
	"github.com/iamNilotpal/sizefit/internal/core/ports"
	errs "github.com/iamNilotpal/sizefit/pkg/errors"
	"github.com/iamNilotpal/sizefit/pkg/logger"
	"go.uber.org/zap"
)

// DefaultMaxIterations leaves headroom above the 7 iterations a binary
// search over [1, 99] can take.
const DefaultMaxIterations = 10

// Outcome is the result of searching one dimension plan.
type Outcome struct {
	// Satisfied is set when some quality fit the budget.
	Satisfied bool

	// Best is the highest fitting quality and Data its encoding. Both are
	// only meaningful when Satisfied.
	Best domain.Probe
	Data []byte

	// Smallest is the smallest encoding observed, fitting or not.
	Smallest domain.Probe

	// Probes counts encoder invocations.
	Probes int
}

// Controller runs the quality search. It holds no per-call state and is
// safe for concurrent use.
type Controller struct {
	maxIterations int
	log           *zap.SugaredLogger
}

func New(maxIterations int, log *zap.SugaredLogger) *Controller {
	if maxIterations <= 0 {
		maxIterations = DefaultMaxIterations
	}
	return &Controller{maxIterations: maxIterations, log: logger.OrNop(log)}
}

// Run searches img with codec against target bytes:
//
//  1. Probe quality 100; if it fits, it is the answer.
//  2. Otherwise binary search [1, 99] for the largest fitting quality.
//  3. If nothing fits, Outcome.Satisfied is false and the caller should
//     try a smaller dimension plan.
//
// Encoder faults abort the search with an ErrorEncode error.
func (c *Controller) Run(codec ports.RasterCodec, img *domain.RasterImage, target int) (*Outcome, error) {
	out := &Outcome{}

	probe := func(quality int) ([]byte, domain.Probe, error) {
		data, err := codec.Encode(img, quality)
		if err != nil {
			if errs.CategoryOf(err) != 0 {
				return nil, domain.Probe{}, err
			}
			return nil, domain.Probe{}, errs.New(errs.ErrorEncode, "encode", fmt.Errorf(
				"%s at quality %d and %dx%d: %w", codec.Name(), quality, img.Width, img.Height, err,
			))
		}

		p := domain.Probe{Quality: quality, Size: len(data), Width: img.Width, Height: img.Height}
		out.Probes++
		if p.Smaller(out.Smallest) {
			out.Smallest = p
		}

		c.log.Debugw("probe",
			"codec", codec.Name(), "quality", quality, "size", p.Size,
			"target", target, "width", p.Width, "height", p.Height,
		)
		return data, p, nil
	}

	data, p, err := probe(domain.MaxQuality)
	if err != nil {
		return nil, err
	}

	if p.Size <= target {
		out.Satisfied, out.Best, out.Data = true, p, data
		return out, nil
	}

	// Quality 100 is known to exceed the budget.
	low, high := domain.MinQuality, domain.MaxQuality-1
	for iteration := 1; low <= high; iteration++ {
		if iteration > c.maxIterations {
			return nil, errs.New(errs.ErrorInternal, "search", fmt.Errorf(
				"quality search exceeded %d iterations at %dx%d, range [%d, %d] still open",
				c.maxIterations, img.Width, img.Height, low, high,
			))
		}

		mid := (low + high) / 2
		data, p, err := probe(mid)
		if err != nil {
			return nil, err
		}

		if p.Size <= target {
			out.Satisfied, out.Best, out.Data = true, p, data
			low = mid + 1
		} else {
			high = mid - 1
		}
	}

	return out, nil
}
