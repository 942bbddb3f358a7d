package grid

import "iter"

// Geometry is the derived shape of the grid for one frame.
type Geometry struct {
	Rows     int
	Columns  int
	CellSize float64
	Gap      float64
	Padding  float64
}

// NewGeometry lays out rows of cells in viewportWidth.
func NewGeometry(viewportWidth float64, rows int, cellSize, gap, padding float64) Geometry {
	return Geometry{
		Rows:     rows,
		Columns:  ColumnCount(viewportWidth, cellSize, gap, padding),
		CellSize: cellSize,
		Gap:      gap,
		Padding:  padding,
	}
}

func (g Geometry) Total() int {
	return g.Rows * g.Columns
}

// Cells yields every cell of the grid.
func (g Geometry) Cells() iter.Seq[Cell] {
	return Generate(g.Rows, g.Columns)
}

// CellSpan returns the start and end offset of the i-th row or column.
func (g Geometry) CellSpan(i int) (start, end float64) {
	start = g.Padding + float64(i)*(g.CellSize+g.Gap)
	return start, start + g.CellSize
}

// Width is the horizontal extent of the grid including padding.
func (g Geometry) Width() float64 {
	return g.extent(g.Columns)
}

// Height is the vertical extent of the grid including padding.
func (g Geometry) Height() float64 {
	return g.extent(g.Rows)
}

func (g Geometry) extent(n int) float64 {
	if n < 1 {
		return 2 * g.Padding
	}
	return 2*g.Padding + float64(n)*g.CellSize + float64(n-1)*g.Gap
}
