package compressor

import (
	"strings"

	"github.com/iamNilotpal/sizefit/internal/adapters/codec"
	"github.com/iamNilotpal/sizefit/internal/adapters/resample"
	"github.com/iamNilotpal/sizefit/internal/core/domain"
	"github.com/iamNilotpal/sizefit/internal/core/services/planner"
	"github.com/iamNilotpal/sizefit/internal/core/services/search"
)

const (
	DefaultShrinkFactor        = planner.DefaultShrinkFactor
	DefaultMaxShrinkRounds     = planner.DefaultMaxShrinkRounds
	DefaultMaxSearchIterations = search.DefaultMaxIterations
)

// DefaultOptions returns EngineOptions with every field set to its default.
func DefaultOptions() *domain.EngineOptions {
	return prepareDefaults(&domain.EngineOptions{})
}

func prepareDefaults(opts *domain.EngineOptions) *domain.EngineOptions {
	if opts.ShrinkFactor == 0 {
		opts.ShrinkFactor = DefaultShrinkFactor
	}

	if opts.MaxShrinkRounds == nil {
		rounds := DefaultMaxShrinkRounds
		opts.MaxShrinkRounds = &rounds
	}

	if opts.MaxSearchIterations == 0 {
		opts.MaxSearchIterations = DefaultMaxSearchIterations
	}

	if opts.CodecOptions == nil {
		opts.CodecOptions = codec.DefaultOptions()
	} else {
		if strings.TrimSpace(string(opts.CodecOptions.OutputFormat)) == "" {
			opts.CodecOptions.OutputFormat = codec.OutputAuto
		}

		if opts.CodecOptions.ZstdLevel == 0 {
			opts.CodecOptions.ZstdLevel = codec.DefaultLevel
		}

		if opts.CodecOptions.BufferSize == 0 {
			opts.CodecOptions.BufferSize = codec.DefaultBufferSize
		}

		if opts.CodecOptions.MaxPixels == 0 {
			opts.CodecOptions.MaxPixels = codec.DefaultMaxPixels
		}
	}

	if opts.ResampleOptions == nil {
		opts.ResampleOptions = resample.DefaultOptions()
	} else if strings.TrimSpace(string(opts.ResampleOptions.Kernel)) == "" {
		opts.ResampleOptions.Kernel = resample.CatmullRom
	}

	return opts
}
