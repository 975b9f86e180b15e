package compressor

import (
	"errors"
	"fmt"

	"github.com/iamNilotpal/sizefit/internal/adapters/codec"
	"github.com/iamNilotpal/sizefit/internal/adapters/resample"
	"github.com/iamNilotpal/sizefit/internal/core/domain"
	errs "github.com/iamNilotpal/sizefit/pkg/errors"
	"go.uber.org/multierr"
)

// Validate checks engine options after defaults were applied. Every problem
// is reported, combined with multierr.
func Validate(opts *domain.EngineOptions) error {
	var err error

	if opts.ShrinkFactor <= 0 || opts.ShrinkFactor >= 1 {
		err = multierr.Append(err, errs.NewValidationError(
			"shrinkFactor", opts.ShrinkFactor,
			fmt.Errorf("shrink factor must be between 0 and 1 exclusive, got %v", opts.ShrinkFactor),
		))
	}

	if opts.MaxShrinkRounds != nil && *opts.MaxShrinkRounds < 0 {
		err = multierr.Append(err, errs.NewValidationError(
			"maxShrinkRounds", *opts.MaxShrinkRounds,
			fmt.Errorf("max shrink rounds must not be negative, got %d", *opts.MaxShrinkRounds),
		))
	}

	if opts.MaxSearchIterations < 1 {
		err = multierr.Append(err, errs.NewValidationError(
			"maxSearchIterations", opts.MaxSearchIterations,
			fmt.Errorf("max search iterations must be at least 1, got %d", opts.MaxSearchIterations),
		))
	}

	if opts.CodecOptions != nil {
		err = multierr.Append(err, codec.Validate(opts.CodecOptions))
	}

	if opts.ResampleOptions != nil {
		err = multierr.Append(err, resample.Validate(opts.ResampleOptions))
	}

	return err
}

// validateRequest rejects malformed requests before any decode work.
func validateRequest(req domain.CompressionRequest) error {
	var err error

	if req.TargetSize <= 0 {
		err = multierr.Append(err, errs.NewValidationError(
			"targetSize", req.TargetSize, fmt.Errorf("target size must be greater than 0"),
		))
	}

	if len(req.Input) == 0 {
		err = multierr.Append(err, errs.NewValidationError(
			"input", len(req.Input), fmt.Errorf("input must not be empty"),
		))
	}

	if req.Constraint.MaxWidth < 0 {
		err = multierr.Append(err, errs.NewValidationError(
			"width", req.Constraint.MaxWidth, fmt.Errorf("width must be greater than 0"),
		))
	}

	if req.Constraint.MaxHeight < 0 {
		err = multierr.Append(err, errs.NewValidationError(
			"height", req.Constraint.MaxHeight, fmt.Errorf("height must be greater than 0"),
		))
	}

	if req.Constraint.MaxWidth > 0 && req.Constraint.MaxHeight > 0 {
		err = multierr.Append(err, errs.NewValidationError(
			"constraint", req.Constraint, fmt.Errorf("width and height cannot both be constrained"),
		))
	}

	if err != nil {
		return errs.New(errs.ErrorInvalidParameter, "validate", err)
	}
	return nil
}

var errInvalidDimension = errors.New("must be greater than 0")
