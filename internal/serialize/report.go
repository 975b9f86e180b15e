package serialize

import (
	"errors"

	"github.com/iamNilotpal/sizefit/internal/core/domain"
	errs "github.com/iamNilotpal/sizefit/pkg/errors"
)

// Report summarizes one compression call for machine consumption.
type Report struct {
	Input          string     `json:"input"`
	Output         string     `json:"output,omitempty"`
	Success        bool       `json:"success"`
	Codec          string     `json:"codec,omitempty"`
	TargetSize     uint64     `json:"targetSize"`
	InputSize      uint64     `json:"inputSize"`
	Size           uint64     `json:"size,omitempty"`
	Quality        uint32     `json:"quality,omitempty"`
	Width          uint32     `json:"width,omitempty"`
	Height         uint32     `json:"height,omitempty"`
	OriginalWidth  uint32     `json:"originalWidth,omitempty"`
	OriginalHeight uint32     `json:"originalHeight,omitempty"`
	ShrinkRounds   uint32     `json:"shrinkRounds"`
	Probes         uint32     `json:"probes,omitempty"`
	Passthrough    bool       `json:"passthrough,omitempty"`
	Checksum       uint32     `json:"checksum,omitempty"` // CRC32 (IEEE) of the output bytes.
	ErrorCategory  string     `json:"errorCategory,omitempty"`
	Error          string     `json:"error,omitempty"`
	Best           *ProbeInfo `json:"best,omitempty"` // Smallest output when the target was unattainable.
}

type ProbeInfo struct {
	Quality uint32 `json:"quality"`
	Size    uint64 `json:"size"`
	Width   uint32 `json:"width"`
	Height  uint32 `json:"height"`
}

// NewReport builds a report from the outcome of one call. Exactly one of
// result and err is expected to be non-nil.
func NewReport(input string, inputSize, target int, result *domain.CompressionResult, err error) *Report {
	r := &Report{
		Input:      input,
		InputSize:  uint64(inputSize),
		TargetSize: uint64(target),
	}

	if err != nil {
		r.Error = err.Error()
		if category := errs.CategoryOf(err); category != 0 {
			r.ErrorCategory = category.String()
		}

		var ute *domain.UnattainableTargetError
		if errors.As(err, &ute) {
			r.ShrinkRounds = uint32(ute.Rounds)
			r.Best = &ProbeInfo{
				Quality: uint32(ute.Best.Quality),
				Size:    uint64(ute.Best.Size),
				Width:   uint32(ute.Best.Width),
				Height:  uint32(ute.Best.Height),
			}
		}
		return r
	}

	if result == nil {
		return r
	}

	r.Success = true
	r.Codec = result.Codec
	r.Size = uint64(result.Size)
	r.Quality = uint32(result.Quality)
	r.Width = uint32(result.Width)
	r.Height = uint32(result.Height)
	r.OriginalWidth = uint32(result.OriginalWidth)
	r.OriginalHeight = uint32(result.OriginalHeight)
	r.ShrinkRounds = uint32(result.ShrinkRounds)
	r.Probes = uint32(result.Probes)
	r.Passthrough = result.Passthrough
	return r
}
