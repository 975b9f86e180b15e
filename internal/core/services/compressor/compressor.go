// Package compressor is the engine's entry point: it re-encodes an image so
// its byte size fits a budget, optionally under a width or height limit,
// keeping the highest quality that fits.
package compressor

import (
	"bytes"

	"github.com/google/uuid"
	"github.com/iamNilotpal/sizefit/internal/adapters/codec"
	"github.com/iamNilotpal/sizefit/internal/adapters/resample"
	"github.com/iamNilotpal/sizefit/internal/core/domain"
	"github.com/iamNilotpal/sizefit/internal/core/ports"
	"github.com/iamNilotpal/sizefit/internal/core/services/planner"
	"github.com/iamNilotpal/sizefit/internal/core/services/search"
	errs "github.com/iamNilotpal/sizefit/pkg/errors"
	"github.com/iamNilotpal/sizefit/pkg/logger"
	"go.uber.org/zap"
)

// Compressor holds only immutable configuration and goroutine-safe
// collaborators, so one instance serves concurrent calls. Every raster a
// call creates is scoped to that call.
type Compressor struct {
	options *domain.EngineOptions

	registry  *codec.Registry    // Picks the decoding and encoding codec.
	resampler ports.Resampler    // Builds each dimension plan's raster.
	planner   *planner.Planner   // Initial and shrink plans.
	search    *search.Controller // Quality search for one plan.
	log       *zap.SugaredLogger
}

// Option customizes a Compressor beyond EngineOptions.
type Option func(*Compressor)

// WithLogger sets the logger used for per-call diagnostics.
func WithLogger(log *zap.SugaredLogger) Option {
	return func(c *Compressor) {
		c.log = log
	}
}

// WithCodec makes rc decode every input and encode every output, replacing
// the built-in JPEG and QRZ codecs.
func WithCodec(rc ports.RasterCodec) Option {
	return func(c *Compressor) {
		c.registry = codec.NewSingleRegistry(rc)
	}
}

// WithResampler replaces the kernel-based resampler.
func WithResampler(r ports.Resampler) Option {
	return func(c *Compressor) {
		c.resampler = r
	}
}

// New builds a compressor. Nil opts selects every default; zero fields of
// non-nil opts are defaulted before validation.
func New(opts *domain.EngineOptions, options ...Option) (*Compressor, error) {
	if opts != nil {
		opts = prepareDefaults(opts)
	} else {
		opts = prepareDefaults(&domain.EngineOptions{})
	}

	if err := Validate(opts); err != nil {
		return nil, err
	}

	c := &Compressor{options: opts}
	for _, option := range options {
		option(c)
	}
	c.log = logger.OrNop(c.log)

	if c.resampler == nil {
		r, err := resample.New(opts.ResampleOptions)
		if err != nil {
			return nil, err
		}
		c.resampler = r
	}

	if c.registry == nil {
		r, err := codec.NewRegistry(opts.CodecOptions)
		if err != nil {
			return nil, err
		}
		c.registry = r
	}

	c.planner = planner.New(opts.ShrinkFactor, *opts.MaxShrinkRounds)
	c.search = search.New(opts.MaxSearchIterations, c.log)

	return c, nil
}

// Options returns the effective configuration.
func (c *Compressor) Options() domain.EngineOptions {
	return *c.options
}

// CompressWithTargetSize returns data re-encoded to at most targetSize
// bytes at its original dimensions where possible.
func (c *Compressor) CompressWithTargetSize(data []byte, targetSize int) ([]byte, error) {
	return c.compressBytes(domain.CompressionRequest{Input: data, TargetSize: targetSize})
}

// CompressWithTargetSizeAndWidth is CompressWithTargetSize with the output
// width limited to width. Height follows the aspect ratio. width is a
// maximum: an image already narrower keeps its width and is never upscaled.
func (c *Compressor) CompressWithTargetSizeAndWidth(data []byte, targetSize, width int) ([]byte, error) {
	if err := requirePositive("width", width); err != nil {
		return nil, err
	}
	return c.compressBytes(domain.CompressionRequest{
		Input: data, TargetSize: targetSize, Constraint: domain.Constraint{MaxWidth: width},
	})
}

// CompressWithTargetSizeAndHeight is CompressWithTargetSize with the output
// height limited to height. Width follows the aspect ratio. height is a
// maximum: an image already shorter keeps its height and is never upscaled.
func (c *Compressor) CompressWithTargetSizeAndHeight(data []byte, targetSize, height int) ([]byte, error) {
	if err := requirePositive("height", height); err != nil {
		return nil, err
	}
	return c.compressBytes(domain.CompressionRequest{
		Input: data, TargetSize: targetSize, Constraint: domain.Constraint{MaxHeight: height},
	})
}

func (c *Compressor) compressBytes(req domain.CompressionRequest) ([]byte, error) {
	result, err := c.Compress(req)
	if err != nil {
		return nil, err
	}
	return result.Data, nil
}

// Compress runs one request and describes the outcome:
//
//  1. Validate parameters before any decoding.
//  2. Decode the input once with the codec its bytes sniff as.
//  3. Search qualities at the initial dimension plan.
//  4. While nothing fits, shrink the plan and search again, up to
//     MaxShrinkRounds times.
//
// Failures are *errs.CompressionError values. An unattainable budget wraps a
// *domain.UnattainableTargetError describing the smallest output observed.
func (c *Compressor) Compress(req domain.CompressionRequest) (*domain.CompressionResult, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}

	log := c.log.With("request_id", uuid.NewString())

	decoder := c.registry.Select(req.Input)
	encoder := c.registry.Output(decoder)

	original, err := decoder.Decode(req.Input)
	if err != nil {
		log.Infow("decode failed", "codec", decoder.Name(), "size", len(req.Input), "error", err)
		return nil, categorize(errs.ErrorDecode, "decode", err)
	}
	defer original.Release()

	plan := c.planner.Initial(original.Width, original.Height, req.Constraint)
	log.Debugw("compression started",
		"decoder", decoder.Name(), "encoder", encoder.Name(), "format", original.Format,
		"input_size", len(req.Input), "target", req.TargetSize,
		"width", original.Width, "height", original.Height,
		"plan_width", plan.Width, "plan_height", plan.Height,
	)

	// The input itself is a valid answer when it already fits and needs no
	// resampling or transcoding. It is returned unless re-encoding beats it.
	passthrough := original.Format == encoder.Name() &&
		plan == original.Dimensions() &&
		len(req.Input) <= req.TargetSize

	var (
		smallest domain.Probe
		probes   int
		round    int
	)

	for ; ; round++ {
		outcome, err := c.searchPlan(encoder, original, plan, req.TargetSize)
		if err != nil {
			log.Infow("compression failed", "round", round, "error", err)
			return nil, err
		}

		probes += outcome.Probes
		if outcome.Smallest.Smaller(smallest) {
			smallest = outcome.Smallest
		}

		if round == 0 && passthrough && (!outcome.Satisfied || outcome.Best.Size >= len(req.Input)) {
			log.Infow("input already fits", "size", len(req.Input), "target", req.TargetSize)
			return &domain.CompressionResult{
				Data:           bytes.Clone(req.Input),
				Size:           len(req.Input),
				Quality:        domain.MaxQuality,
				Width:          original.Width,
				Height:         original.Height,
				Codec:          encoder.Name(),
				OriginalWidth:  original.Width,
				OriginalHeight: original.Height,
				Probes:         probes,
				Passthrough:    true,
			}, nil
		}

		if outcome.Satisfied {
			log.Infow("compressed",
				"codec", encoder.Name(), "quality", outcome.Best.Quality,
				"size", outcome.Best.Size, "target", req.TargetSize,
				"width", outcome.Best.Width, "height", outcome.Best.Height,
				"shrink_rounds", round, "probes", probes,
			)
			return &domain.CompressionResult{
				Data:           outcome.Data,
				Size:           outcome.Best.Size,
				Quality:        outcome.Best.Quality,
				Width:          outcome.Best.Width,
				Height:         outcome.Best.Height,
				Codec:          encoder.Name(),
				OriginalWidth:  original.Width,
				OriginalHeight: original.Height,
				ShrinkRounds:   round,
				Probes:         probes,
			}, nil
		}

		if round >= c.planner.MaxRounds() {
			break
		}

		next, ok := c.planner.Shrink(plan)
		if !ok {
			break
		}

		log.Debugw("shrinking",
			"round", round+1, "width", next.Width, "height", next.Height,
			"smallest_size", outcome.Smallest.Size,
		)
		plan = next
	}

	failure := &domain.UnattainableTargetError{Target: req.TargetSize, Rounds: round, Best: smallest}
	log.Infow("target unattainable",
		"target", req.TargetSize, "shrink_rounds", round, "probes", probes,
		"smallest_size", smallest.Size, "smallest_quality", smallest.Quality,
		"smallest_width", smallest.Width, "smallest_height", smallest.Height,
	)
	return nil, errs.New(errs.ErrorUnattainable, "compress", failure)
}

// searchPlan resamples original to plan, unless it already has those
// dimensions, and runs the quality search on the result. The resampled
// raster never outlives the call.
func (c *Compressor) searchPlan(
	encoder ports.RasterCodec, original *domain.RasterImage, plan domain.Dimensions, target int,
) (*search.Outcome, error) {
	raster := original
	if plan != original.Dimensions() {
		scaled, err := c.resampler.Resample(original, plan.Width, plan.Height)
		if err != nil {
			return nil, categorize(errs.ErrorInternal, "resample", err)
		}
		defer scaled.Release()
		raster = scaled
	}

	return c.search.Run(encoder, raster, target)
}

// Close releases codec resources. The compressor must not be used afterwards.
func (c *Compressor) Close() error {
	return c.registry.Close()
}

func requirePositive(field string, value int) error {
	if value > 0 {
		return nil
	}
	return errs.New(errs.ErrorInvalidParameter, "validate", errs.NewValidationError(
		field, value, errInvalidDimension,
	))
}

// categorize wraps err in category unless it already carries one.
func categorize(category errs.ErrorCategory, operation string, err error) error {
	if errs.CategoryOf(err) != 0 {
		return err
	}
	return errs.New(category, operation, err)
}
