// Package grid computes the benchmark grid: how many cells fit the viewport
// and the deterministic color of every cell.
package grid

import (
	"iter"
	"math"

	"github.com/lucasb-eyer/go-colorful"
)

const (
	// DefaultGap is the space between neighbouring cells, in layout units.
	DefaultGap = 4.0
	// DefaultPadding surrounds the whole grid, in layout units.
	DefaultPadding = 16.0

	baseSaturation  = 0.70
	baseLightness   = 0.60
	hoverSaturation = 0.80
	hoverLightness  = 0.80
)

// ColumnCount returns how many cells of cellSize, separated by gap, fit in
// viewportWidth once padding is removed from both sides. It is never below 1.
func ColumnCount(viewportWidth, cellSize, gap, padding float64) int {
	available := viewportWidth - 2*padding
	pitch := cellSize + gap
	if pitch <= 0 {
		return 1
	}
	// n cells need only n-1 gaps, hence the extra gap in the numerator.
	cols := math.Floor((available + gap) / pitch)
	if math.IsNaN(cols) || cols < 1 {
		return 1
	}
	if cols > math.MaxInt32 {
		return math.MaxInt32
	}
	return int(cols)
}

// Cell is one generated grid element.
type Cell struct {
	Index  int
	Row    int
	Column int
	// Hue in whole degrees, [0, 360).
	Hue        int
	Color      colorful.Color
	HoverColor colorful.Color
}

// Hue spreads total cells over the full color wheel. It depends only on the
// index and the total, never on the row/column split. The result is the
// exact quotient index*360/total truncated to whole degrees.
func Hue(index, total int) int {
	if total < 1 {
		total = 1
	}
	return index * 360 / total
}

// NewCell builds the cell at (row, col) of a grid with cols columns and
// total cells.
func NewCell(row, col, cols, total int) Cell {
	index := row*cols + col
	hue := Hue(index, total)
	return Cell{
		Index:      index,
		Row:        row,
		Column:     col,
		Hue:        hue,
		Color:      colorful.Hsl(float64(hue), baseSaturation, baseLightness),
		HoverColor: colorful.Hsl(float64(hue), hoverSaturation, hoverLightness),
	}
}

// Generate yields the rows×cols cells in row-major order. The sequence is
// lazy and can be ranged over any number of times.
func Generate(rows, cols int) iter.Seq[Cell] {
	return func(yield func(Cell) bool) {
		if rows < 1 || cols < 1 {
			return
		}
		total := rows * cols
		for row := 0; row < rows; row++ {
			for col := 0; col < cols; col++ {
				if !yield(NewCell(row, col, cols, total)) {
					return
				}
			}
		}
	}
}
