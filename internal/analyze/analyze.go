// Package analyze summarizes frame logs recorded by the diagnostics renderer.
package analyze

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/rezi-ui/bench/grid-bench/internal/diag"
	"github.com/rezi-ui/bench/grid-bench/internal/export"
)

const (
	// MinFrames is the smallest log worth analyzing, warmup included.
	MinFrames = 10
	// DefaultWarmup frames are dropped from the start of every log.
	DefaultWarmup = 5
)

var ErrTooFewFrames = errors.New("too few frames captured")

// Stats summarizes a frame log. A frame "skips" paint when every cell style
// was replayed from the previous frame.
type Stats struct {
	TotalFrames  int `json:"totalFrames" yaml:"totalFrames"`
	PaintSkipped int `json:"paintSkipped" yaml:"paintSkipped"`
	PaintNeeded  int `json:"paintNeeded" yaml:"paintNeeded"`

	AvgUploadSkipped float64 `json:"avgUploadSkipped" yaml:"avgUploadSkipped"`
	AvgUploadNeeded  float64 `json:"avgUploadNeeded" yaml:"avgUploadNeeded"`
	AvgUploadBytes   float64 `json:"avgUploadBytes" yaml:"avgUploadBytes"`
	AvgPaintFibers   float64 `json:"avgPaintFibers" yaml:"avgPaintFibers"`
	AvgMutated       float64 `json:"avgMutatedSegments" yaml:"avgMutatedSegments"`

	P50UploadBytes uint64 `json:"p50UploadBytes" yaml:"p50UploadBytes"`
	P95UploadBytes uint64 `json:"p95UploadBytes" yaml:"p95UploadBytes"`
	P99UploadBytes uint64 `json:"p99UploadBytes" yaml:"p99UploadBytes"`
	P50PaintFibers uint64 `json:"p50PaintFibers" yaml:"p50PaintFibers"`
	P95PaintFibers uint64 `json:"p95PaintFibers" yaml:"p95PaintFibers"`
	P99PaintFibers uint64 `json:"p99PaintFibers" yaml:"p99PaintFibers"`
}

// SkippedShare is the percentage of frames that skipped paint.
func (s Stats) SkippedShare() float64 {
	if s.TotalFrames == 0 {
		return 0
	}
	return 100 * float64(s.PaintSkipped) / float64(s.TotalFrames)
}

// NeededShare is the percentage of frames that painted at least one cell.
func (s Stats) NeededShare() float64 {
	if s.TotalFrames == 0 {
		return 0
	}
	return 100 * float64(s.PaintNeeded) / float64(s.TotalFrames)
}

// Analyze drops warmup frames and summarizes the rest.
func Analyze(frames []diag.FrameDiagnostics, warmup int) (Stats, error) {
	if len(frames) < MinFrames {
		return Stats{}, fmt.Errorf("%w: %d, need %d", ErrTooFewFrames, len(frames), MinFrames)
	}
	warmup = max(0, warmup)
	if warmup >= len(frames) {
		return Stats{}, fmt.Errorf("%w: %d, all within %d warmup frames", ErrTooFewFrames, len(frames), warmup)
	}
	frames = frames[warmup:]

	var s Stats
	var uploadSkipped, uploadNeeded, uploadTotal, paintTotal, mutatedTotal uint64
	uploads := make([]uint64, 0, len(frames))
	paints := make([]uint64, 0, len(frames))
	for _, f := range frames {
		if f.PaintFibers == 0 {
			s.PaintSkipped++
			uploadSkipped += f.UploadBytes
		} else {
			s.PaintNeeded++
			uploadNeeded += f.UploadBytes
		}
		uploadTotal += f.UploadBytes
		paintTotal += f.PaintFibers
		mutatedTotal += f.MutatedSegments
		uploads = append(uploads, f.UploadBytes)
		paints = append(paints, f.PaintFibers)
	}

	s.TotalFrames = len(frames)
	s.AvgUploadSkipped = mean(uploadSkipped, s.PaintSkipped)
	s.AvgUploadNeeded = mean(uploadNeeded, s.PaintNeeded)
	s.AvgUploadBytes = mean(uploadTotal, s.TotalFrames)
	s.AvgPaintFibers = mean(paintTotal, s.TotalFrames)
	s.AvgMutated = mean(mutatedTotal, s.TotalFrames)

	slices.Sort(uploads)
	slices.Sort(paints)
	s.P50UploadBytes = Percentile(uploads, 0.50)
	s.P95UploadBytes = Percentile(uploads, 0.95)
	s.P99UploadBytes = Percentile(uploads, 0.99)
	s.P50PaintFibers = Percentile(paints, 0.50)
	s.P95PaintFibers = Percentile(paints, 0.95)
	s.P99PaintFibers = Percentile(paints, 0.99)
	return s, nil
}

// Percentile picks sorted[int(n*p)] from an ascending slice, clamped to the
// last element. It returns 0 for an empty slice.
func Percentile(sorted []uint64, p float64) uint64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	i := int(float64(n) * p)
	if i >= n {
		i = n - 1
	}
	if i < 0 {
		i = 0
	}
	return sorted[i]
}

func mean(total uint64, n int) float64 {
	if n == 0 {
		return 0
	}
	return float64(total) / float64(n)
}

// LoadFile reads a frame log: CSV, zstd compressed CSV or parquet.
func LoadFile(path string) ([]diag.FrameDiagnostics, error) {
	if strings.HasSuffix(path, ".parquet") {
		return export.ReadParquet(path)
	}

	rc, err := export.OpenLog(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	frames, err := diag.ReadLog(rc)
	if err != nil {
		return nil, fmt.Errorf("read frame log %s: %w", path, err)
	}
	return frames, nil
}
