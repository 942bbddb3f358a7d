// Package diag records per-frame renderer diagnostics to a CSV frame log.
package diag

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
)

// Header is the frame log schema. Readers of the log depend on this order.
var Header = []string{
	"frame",
	"paint_fibers",
	"paint_replayed",
	"prepaint_fibers",
	"prepaint_replayed",
	"mutated_segments",
	"total_segments",
	"hitboxes",
	"hitboxes_rebuilt",
	"upload_bytes",
	"quads",
	"mono_sprites",
	"poly_sprites",
}

// ErrSchema is returned when a frame log does not match Header.
var ErrSchema = errors.New("frame log schema mismatch")

// FrameDiagnostics is a renderer snapshot for one rendered frame.
type FrameDiagnostics struct {
	Frame            uint64 `json:"frame"`
	PaintFibers      uint64 `json:"paintFibers"`
	PaintReplayed    uint64 `json:"paintReplayed"`
	PrepaintFibers   uint64 `json:"prepaintFibers"`
	PrepaintReplayed uint64 `json:"prepaintReplayed"`
	MutatedSegments  uint64 `json:"mutatedSegments"`
	TotalSegments    uint64 `json:"totalSegments"`
	Hitboxes         uint64 `json:"hitboxes"`
	HitboxesRebuilt  uint64 `json:"hitboxesRebuilt"`
	UploadBytes      uint64 `json:"uploadBytes"`
	Quads            uint64 `json:"quads"`
	MonoSprites      uint64 `json:"monoSprites"`
	PolySprites      uint64 `json:"polySprites"`
}

// Source hands out the diagnostics of the frame just rendered.
type Source interface {
	Snapshot() FrameDiagnostics
}

func (d *FrameDiagnostics) fields() []*uint64 {
	return []*uint64{
		&d.Frame,
		&d.PaintFibers,
		&d.PaintReplayed,
		&d.PrepaintFibers,
		&d.PrepaintReplayed,
		&d.MutatedSegments,
		&d.TotalSegments,
		&d.Hitboxes,
		&d.HitboxesRebuilt,
		&d.UploadBytes,
		&d.Quads,
		&d.MonoSprites,
		&d.PolySprites,
	}
}

// Row formats d in Header order.
func (d FrameDiagnostics) Row() []string {
	fields := d.fields()
	row := make([]string, len(fields))
	for i, f := range fields {
		row[i] = strconv.FormatUint(*f, 10)
	}
	return row
}

// ParseRow is the inverse of Row.
func ParseRow(row []string) (FrameDiagnostics, error) {
	var d FrameDiagnostics
	fields := d.fields()
	if len(row) != len(fields) {
		return FrameDiagnostics{}, fmt.Errorf("%w: %d fields, want %d", ErrSchema, len(row), len(fields))
	}
	for i, raw := range row {
		n, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return FrameDiagnostics{}, fmt.Errorf("invalid %s %q: %w", Header[i], raw, err)
		}
		*fields[i] = n
	}
	return d, nil
}

// ReadLog parses a frame log, checking the header against the schema.
func ReadLog(r io.Reader) ([]FrameDiagnostics, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	head, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty log", ErrSchema)
		}
		return nil, fmt.Errorf("failed to read header: %w", err)
	}
	if len(head) != len(Header) {
		return nil, fmt.Errorf("%w: header has %d columns, want %d", ErrSchema, len(head), len(Header))
	}
	for i, name := range Header {
		if head[i] != name {
			return nil, fmt.Errorf("%w: column %d is %q, want %q", ErrSchema, i, head[i], name)
		}
	}

	var frames []FrameDiagnostics
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return frames, nil
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read row %d: %w", len(frames)+1, err)
		}
		d, err := ParseRow(row)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", len(frames)+1, err)
		}
		frames = append(frames, d)
	}
}

// FormatBytes renders a byte count for display.
func FormatBytes(n uint64) string {
	switch {
	case n >= 1_000_000:
		return fmt.Sprintf("%.2f MB", float64(n)/1_000_000)
	case n >= 1_000:
		return fmt.Sprintf("%.1f KB", float64(n)/1_000)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
