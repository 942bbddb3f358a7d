package grid

import "math"

// Scale maps layout units onto a character-cell surface.
type Scale struct {
	UnitsPerColumn float64
	UnitsPerLine   float64
}

// TerminalScale treats a terminal cell as 8×16 layout units.
var TerminalScale = Scale{UnitsPerColumn: 8, UnitsPerLine: 16}

// Width converts a surface width in columns to layout units.
func (s Scale) Width(columns int) float64 {
	return float64(columns) * s.UnitsPerColumn
}

// Columns returns the half-open column range covering [start, end).
// A non-empty span always covers at least one column.
func (s Scale) Columns(start, end float64) (int, int) {
	return span(start, end, s.UnitsPerColumn)
}

// Lines returns the half-open line range covering [start, end).
func (s Scale) Lines(start, end float64) (int, int) {
	return span(start, end, s.UnitsPerLine)
}

func span(start, end, unit float64) (int, int) {
	a := int(math.Floor(start / unit))
	b := int(math.Floor(end / unit))
	if b <= a && end > start {
		b = a + 1
	}
	return a, b
}
