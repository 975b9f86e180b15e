// Command sizefit re-encodes an image so it fits a byte budget.
//
// Usage:
//
//	sizefit -target 500KB [flags] <input> [output]
//
// Examples:
//
//	sizefit -target 200KB photo.jpg small.jpg
//	sizefit -target 80KB -width 640 photo.png thumb.jpg
//	sizefit -target 1MB -config sizefit.yaml -report report.json scan.tiff
//
// SIZEFIT_CONFIG and SIZEFIT_LOG_LEVEL, from the environment or a .env
// file, provide defaults for -config and -log-level.
package main

import (
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/iamNilotpal/sizefit/config"
	"github.com/iamNilotpal/sizefit/internal/adapters/codec"
	"github.com/iamNilotpal/sizefit/internal/core/domain"
	"github.com/iamNilotpal/sizefit/internal/core/ports"
	"github.com/iamNilotpal/sizefit/internal/core/services/compressor"
	"github.com/iamNilotpal/sizefit/internal/serialize"
	"github.com/iamNilotpal/sizefit/pkg/checksum"
	"github.com/iamNilotpal/sizefit/pkg/errors"
	"github.com/iamNilotpal/sizefit/pkg/fs"
	"github.com/iamNilotpal/sizefit/pkg/logger"
	"github.com/joho/godotenv"
)

const (
	exitOK      = 0
	exitFailure = 1
	exitUsage   = 2

	maxInputSize = 256 << 20 // 256MB
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

func run(args []string, stdout, stderr io.Writer) int {
	// A missing .env file is normal.
	_ = godotenv.Load()

	var (
		target     string
		width      int
		height     int
		configPath string
		reportPath string
		logLevel   string
	)

	flags := flag.NewFlagSet("sizefit", flag.ContinueOnError)
	flags.SetOutput(stderr)
	flags.StringVar(&target, "target", "", "Target file size (e.g. 500KB, 2MB, 12000)")
	flags.IntVar(&width, "width", 0, "Maximum output width (0 = no limit)")
	flags.IntVar(&height, "height", 0, "Maximum output height (0 = no limit)")
	flags.StringVar(&configPath, "config", os.Getenv("SIZEFIT_CONFIG"), "YAML configuration file")
	flags.StringVar(&reportPath, "report", "", "Write a report to this path (.json or .pb)")
	flags.StringVar(&logLevel, "log-level", os.Getenv("SIZEFIT_LOG_LEVEL"), "Log level: debug|info|warn|error")

	if err := flags.Parse(args); err != nil {
		return exitUsage
	}

	rest := flags.Args()
	if len(rest) < 1 || target == "" {
		fmt.Fprintln(stderr, "Usage: sizefit -target <size> [flags] <input> [output]")
		flags.PrintDefaults()
		return exitUsage
	}

	targetSize, err := parseSize(target)
	if err != nil {
		fmt.Fprintf(stderr, "Invalid target %q: %v\n", target, err)
		return exitUsage
	}

	cfg := config.DefaultConfig()
	if configPath != "" {
		if cfg, err = config.LoadConfig(configPath); err != nil {
			fmt.Fprintf(stderr, "Error: %v\n", err)
			return exitFailure
		}
	}

	if logLevel == "" {
		logLevel = cfg.LogLevel
	}

	log := logger.NewWithLevel("sizefit", logLevel)
	defer log.Sync()

	engine, err := compressor.New(cfg.ToEngineOptions(), compressor.WithLogger(log))
	if err != nil {
		if errors.IsValidationError(err) {
			ve := errors.AsValidationError(err)
			log.Infow("create compressor error", "field", ve.Field, "value", ve.Value, "error", ve.Err)
		} else {
			log.Infow("create compressor error", "error", err)
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return exitFailure
	}
	defer engine.Close()

	var files ports.FileSystem = fs.NewLocalFileSystem()
	input := rest[0]

	data, err := files.ReadFile(input, maxInputSize)
	if err != nil {
		fmt.Fprintf(stderr, "Error reading %s: %v\n", input, err)
		return exitFailure
	}

	result, err := engine.Compress(domain.CompressionRequest{
		Input:      data,
		TargetSize: targetSize,
		Constraint: domain.Constraint{MaxWidth: width, MaxHeight: height},
	})

	report := serialize.NewReport(input, len(data), targetSize, result, err)
	code := exitOK

	if err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		code = exitFailure
	} else {
		output := outputPath(input, rest, result.Codec)
		if exists, _ := files.Exists(output); exists {
			log.Infow("overwriting existing file", "path", output)
		}
		if werr := files.WriteFileAtomic(output, 0o644, result.Data); werr != nil {
			fmt.Fprintf(stderr, "Error writing %s: %v\n", output, werr)
			return exitFailure
		}

		report.Output = output
		report.Checksum = checksum.Checksum(result.Data)
		fmt.Fprintln(stdout, summary(input, output, len(data), result))
	}

	if reportPath != "" {
		if rerr := writeReport(files, reportPath, report); rerr != nil {
			fmt.Fprintf(stderr, "Error writing report %s: %v\n", reportPath, rerr)
			return exitFailure
		}
	}

	return code
}

// outputPath returns the explicit output argument, or the input path with
// a "_sizefit" suffix and the extension of the codec that produced the bytes.
func outputPath(input string, args []string, codecName string) string {
	if len(args) >= 2 {
		return args[1]
	}

	ext := ".jpg"
	if codecName == codec.FormatQRZ {
		ext = ".qrz"
	}
	return strings.TrimSuffix(input, filepath.Ext(input)) + "_sizefit" + ext
}

func writeReport(files ports.FileSystem, path string, report *serialize.Report) error {
	if strings.EqualFold(filepath.Ext(path), ".pb") {
		return files.WriteFileAtomic(path, 0o644, serialize.MarshalReport(report))
	}

	data, err := serialize.MarshalJSON(report)
	if err != nil {
		return err
	}
	return files.WriteFileAtomic(path, 0o644, append(data, '\n'))
}

func summary(input, output string, inputSize int, r *domain.CompressionResult) string {
	if r.Passthrough {
		return fmt.Sprintf("%s -> %s: %s already fits, copied unchanged", input, output, humanBytes(inputSize))
	}
	return fmt.Sprintf(
		"%s -> %s: %s -> %s, %s quality %d, %dx%d (was %dx%d), %d shrink rounds",
		input, output, humanBytes(inputSize), humanBytes(r.Size), r.Codec, r.Quality,
		r.Width, r.Height, r.OriginalWidth, r.OriginalHeight, r.ShrinkRounds,
	)
}

// parseSize accepts plain byte counts and B, KB and MB suffixes (1KB = 1024).
// Sizes above math.MaxInt32 bytes are rejected.
func parseSize(s string) (int, error) {
	s = strings.TrimSpace(strings.ToUpper(s))
	multiplier := 1
	switch {
	case strings.HasSuffix(s, "MB"):
		multiplier = 1024 * 1024
		s = strings.TrimSuffix(s, "MB")
	case strings.HasSuffix(s, "KB"):
		multiplier = 1024
		s = strings.TrimSuffix(s, "KB")
	case strings.HasSuffix(s, "B"):
		s = strings.TrimSuffix(s, "B")
	}

	n, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}

	total := n * float64(multiplier)
	if math.IsNaN(total) || math.IsInf(total, 0) || total > math.MaxInt32 {
		return 0, fmt.Errorf("size must be at most %d bytes", math.MaxInt32)
	}

	size := int(total)
	if size <= 0 {
		return 0, fmt.Errorf("size must be greater than 0")
	}
	return size, nil
}

func humanBytes(b int) string {
	switch {
	case b >= 1024*1024:
		return fmt.Sprintf("%.1f MB", float64(b)/(1024*1024))
	case b >= 1024:
		return fmt.Sprintf("%.1f KB", float64(b)/1024)
	default:
		return fmt.Sprintf("%d B", b)
	}
}
