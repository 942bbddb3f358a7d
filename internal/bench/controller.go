// Package bench drives the grid workload on a bubbletea program and measures
// how fast it renders.
package bench

import (
	"math"

	"github.com/rezi-ui/bench/grid-bench/internal/config"
	"github.com/rezi-ui/bench/grid-bench/internal/grid"
)

const (
	MinCellSize  = 8.0
	MaxCellSize  = 128.0
	CellSizeStep = 4.0
)

// Controller owns the mutable benchmark configuration. Every operation marks
// the controller dirty so the next frame re-renders; none can fail.
type Controller struct {
	rows     int
	cellSize float64
	step     int
	hover    bool
	click    bool
	dirty    bool
}

func NewController(cfg *config.Config) *Controller {
	return &Controller{
		rows:     max(1, cfg.Rows),
		cellSize: clampCellSize(cfg.CellSize),
		step:     max(0, cfg.Step),
		hover:    cfg.Hover,
		click:    cfg.Click,
	}
}

// AddRow grows the grid by the step size. There is no upper bound.
func (c *Controller) AddRow() {
	c.rows += c.step
	c.dirty = true
}

// RemoveRow shrinks the grid by the step size, keeping at least one row.
func (c *Controller) RemoveRow() {
	c.rows = max(1, c.rows-c.step)
	c.dirty = true
}

func (c *Controller) IncreaseCellSize() {
	c.cellSize = min(MaxCellSize, c.cellSize+CellSizeStep)
	c.dirty = true
}

func (c *Controller) DecreaseCellSize() {
	c.cellSize = max(MinCellSize, c.cellSize-CellSizeStep)
	c.dirty = true
}

func (c *Controller) Rows() int { return c.rows }
func (c *Controller) CellSize() float64 { return c.cellSize }
func (c *Controller) Step() int { return c.step }
func (c *Controller) HoverEnabled() bool { return c.hover }
func (c *Controller) ClickEnabled() bool { return c.click }
func (c *Controller) Interactive() bool { return c.hover || c.click }

// TakeDirty reports whether the configuration changed since the last call.
func (c *Controller) TakeDirty() bool {
	d := c.dirty
	c.dirty = false
	return d
}

// Geometry lays the grid out for a viewport of the given width.
func (c *Controller) Geometry(viewportWidth float64) grid.Geometry {
	return grid.NewGeometry(viewportWidth, c.rows, c.cellSize, grid.DefaultGap, grid.DefaultPadding)
}

func clampCellSize(size float64) float64 {
	if math.IsNaN(size) {
		return config.DefaultCellSize
	}
	return min(MaxCellSize, max(MinCellSize, size))
}
