package config

import (
	"fmt"
	"os"

	"github.com/iamNilotpal/sizefit/internal/adapters/codec"
	"github.com/iamNilotpal/sizefit/internal/adapters/resample"
	"github.com/iamNilotpal/sizefit/internal/core/domain"
	"go.uber.org/multierr"
	"gopkg.in/yaml.v3"
)

type Config struct {
	LogLevel string         `yaml:"log_level"` // debug, info, warn or error
	Engine   EngineConfig   `yaml:"engine"`
	Codec    CodecConfig    `yaml:"codec"`
	Resample ResampleConfig `yaml:"resample"`
}

// Holds the search bounds.
type EngineConfig struct {
	ShrinkFactor        float64 `yaml:"shrink_factor"`         // Per-round dimension scale, in (0, 1)
	MaxShrinkRounds     int     `yaml:"max_shrink_rounds"`     // Plans tried after the initial one
	MaxSearchIterations int     `yaml:"max_search_iterations"` // Binary search bound per plan
}

// Holds codec selection and tuning.
type CodecConfig struct {
	OutputFormat string `yaml:"output_format"` // auto, jpeg or qrz
	AutoOrient   bool   `yaml:"auto_orient"`   // Apply EXIF orientation on decode
	ZstdLevel    uint8  `yaml:"zstd_level"`    // QRZ entropy level (1-4)
	BufferSize   int    `yaml:"buffer_size"`   // Initial encode buffer capacity
	MaxPixels    int    `yaml:"max_pixels"`    // Largest width*height accepted on decode
}

type ResampleConfig struct {
	Kernel string `yaml:"kernel"` // nearest, approxbilinear, bilinear, catmullrom or lanczos
}

// Returns a Config struct with reasonable default values.
func DefaultConfig() *Config {
	return &Config{
		LogLevel: "info",
		Engine: EngineConfig{
			ShrinkFactor:        0.9,
			MaxShrinkRounds:     10,
			MaxSearchIterations: 10,
		},
		Codec: CodecConfig{
			OutputFormat: string(codec.OutputAuto),
			AutoOrient:   true,
			ZstdLevel:    codec.DefaultLevel,
			BufferSize:   codec.DefaultBufferSize,
			MaxPixels:    codec.DefaultMaxPixels,
		},
		Resample: ResampleConfig{
			Kernel: string(resample.CatmullRom),
		},
	}
}

// Loads configuration from a YAML file. Keys missing from the file keep
// their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := validateConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return config, nil
}

// ToEngineOptions converts the file layout into engine options.
func (c *Config) ToEngineOptions() *domain.EngineOptions {
	rounds := c.Engine.MaxShrinkRounds
	return &domain.EngineOptions{
		ShrinkFactor:        c.Engine.ShrinkFactor,
		MaxShrinkRounds:     &rounds,
		MaxSearchIterations: c.Engine.MaxSearchIterations,
		CodecOptions: &domain.CodecOptions{
			OutputFormat: domain.OutputFormat(c.Codec.OutputFormat),
			AutoOrient:   c.Codec.AutoOrient,
			ZstdLevel:    c.Codec.ZstdLevel,
			BufferSize:   c.Codec.BufferSize,
			MaxPixels:    c.Codec.MaxPixels,
		},
		ResampleOptions: &domain.ResampleOptions{
			Kernel: domain.ResampleKernel(c.Resample.Kernel),
		},
	}
}

func validateConfig(config *Config) error {
	var err error

	switch config.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		err = multierr.Append(err, fmt.Errorf("log_level must be debug, info, warn or error, got %q", config.LogLevel))
	}

	err = multierr.Append(err, validateEngineConfig(&config.Engine))

	opts := config.ToEngineOptions()
	if e := codec.Validate(opts.CodecOptions); e != nil {
		err = multierr.Append(err, fmt.Errorf("invalid codec configuration: %w", e))
	}

	if e := resample.Validate(opts.ResampleOptions); e != nil {
		err = multierr.Append(err, fmt.Errorf("invalid resample configuration: %w", e))
	}

	return err
}

func validateEngineConfig(config *EngineConfig) error {
	var err error

	if config.ShrinkFactor <= 0 || config.ShrinkFactor >= 1 {
		err = multierr.Append(err, fmt.Errorf("shrink_factor must be between 0 and 1 exclusive"))
	}

	if config.MaxShrinkRounds < 0 {
		err = multierr.Append(err, fmt.Errorf("max_shrink_rounds must not be negative"))
	}

	if config.MaxSearchIterations < 1 {
		err = multierr.Append(err, fmt.Errorf("max_search_iterations must be at least 1"))
	}

	return err
}
