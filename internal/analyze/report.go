package analyze

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v2"

	"github.com/rezi-ui/bench/grid-bench/internal/diag"
)

// Report formats.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Report is one analysis as written by WriteReport.
type Report struct {
	Label      string      `json:"label" yaml:"label"`
	Stats      Stats       `json:"stats" yaml:"stats"`
	Comparison *Comparison `json:"comparison,omitempty" yaml:"comparison,omitempty"`
}

// WriteReport writes r to w in the given format.
func WriteReport(w io.Writer, r Report, format string) error {
	switch format {
	case FormatText, "":
		return writeText(w, r)
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(r)
	case FormatYAML:
		out, err := yaml.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal report: %w", err)
		}
		_, err = w.Write(out)
		return err
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
}

func writeText(w io.Writer, r Report) error {
	var b strings.Builder
	rule := strings.Repeat("=", 60)
	s := r.Stats

	if r.Label != "" {
		fmt.Fprintf(&b, "\n%s\n  %s\n%s\n", rule, r.Label, rule)
	}
	fmt.Fprintf(&b, "\nFrames analyzed: %d\n", s.TotalFrames)
	fmt.Fprintf(&b, "  Paint skipped (all replayed): %d (%.1f%%)\n", s.PaintSkipped, s.SkippedShare())
	fmt.Fprintf(&b, "  Paint needed:                 %d (%.1f%%)\n", s.PaintNeeded, s.NeededShare())

	fmt.Fprintf(&b, "\nUpload per frame:\n")
	fmt.Fprintf(&b, "  When skipped: %s avg\n", diag.FormatBytes(uint64(s.AvgUploadSkipped)))
	fmt.Fprintf(&b, "  When needed:  %s avg\n", diag.FormatBytes(uint64(s.AvgUploadNeeded)))
	fmt.Fprintf(&b, "  Average: %.1f B\n", s.AvgUploadBytes)
	fmt.Fprintf(&b, "  p50:     %d B\n", s.P50UploadBytes)
	fmt.Fprintf(&b, "  p95:     %d B\n", s.P95UploadBytes)
	fmt.Fprintf(&b, "  p99:     %d B\n", s.P99UploadBytes)

	fmt.Fprintf(&b, "\nPaint work per frame (cells):\n")
	fmt.Fprintf(&b, "  Average: %.1f\n", s.AvgPaintFibers)
	fmt.Fprintf(&b, "  p50:     %d\n", s.P50PaintFibers)
	fmt.Fprintf(&b, "  p95:     %d\n", s.P95PaintFibers)
	fmt.Fprintf(&b, "  p99:     %d\n", s.P99PaintFibers)
	fmt.Fprintf(&b, "  Mutated segments: %.1f avg\n", s.AvgMutated)

	if c := r.Comparison; c != nil {
		fmt.Fprintf(&b, "\n%s\n  COMPARISON: %s vs this run\n%s\n", rule, c.Baseline, rule)
		fmt.Fprintf(&b, "\nPaint skipped:\n  Before: %.1f%%\n  After:  %.1f%%\n", c.SkippedShareBefore, c.SkippedShareAfter)
		fmt.Fprintf(&b, "\nAvg upload per frame:\n  Before: %.1f B\n  After:  %.1f B\n  Improvement: %.1f%%\n",
			c.UploadBefore, c.UploadAfter, c.UploadImprovement)
		fmt.Fprintf(&b, "\nAvg paint per frame:\n  Before: %.1f\n  After:  %.1f\n  Improvement: %.1f%%\n",
			c.PaintBefore, c.PaintAfter, c.PaintImprovement)
	}

	_, err := io.WriteString(w, b.String())
	return err
}
