package bench

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/rezi-ui/bench/grid-bench/internal/config"
)

func controllerWith(rows int, cellSize float64, step int) *Controller {
	cfg := config.Default()
	cfg.Rows = rows
	cfg.CellSize = cellSize
	cfg.Step = step
	return NewController(cfg)
}

func TestNewControllerDefaults(t *testing.T) {
	c := NewController(config.Default())
	assert.Equal(t, 50, c.Rows())
	assert.Equal(t, 32.0, c.CellSize())
	assert.Equal(t, 1, c.Step())
	assert.True(t, c.HoverEnabled())
	assert.True(t, c.ClickEnabled())
	assert.False(t, c.TakeDirty())
}

func TestNewControllerClamps(t *testing.T) {
	tests := []struct {
		name     string
		rows     int
		cellSize float64
		wantRows int
		wantSize float64
	}{
		{"zero rows", 0, 32, 1, 32},
		{"tiny cells", 5, 2, 5, MinCellSize},
		{"huge cells", 5, 500, 5, MaxCellSize},
		{"nan cells", 5, math.NaN(), 5, config.DefaultCellSize},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := controllerWith(tt.rows, tt.cellSize, 1)
			assert.Equal(t, tt.wantRows, c.Rows())
			assert.Equal(t, tt.wantSize, c.CellSize())
		})
	}
}

func TestRowsAddRemoveAsymmetry(t *testing.T) {
	c := controllerWith(1, 32, 5)

	c.AddRow()
	assert.Equal(t, 6, c.Rows())
	c.RemoveRow()
	assert.Equal(t, 1, c.Rows())
	c.RemoveRow()
	assert.Equal(t, 1, c.Rows())

	c = controllerWith(3, 32, 5)
	c.RemoveRow()
	c.AddRow()
	assert.Equal(t, 6, c.Rows(), "removing clamps at one, adding does not undo the clamp")
}

func TestAddRowIsUnbounded(t *testing.T) {
	c := controllerWith(1, 32, 1000)
	for range 100 {
		c.AddRow()
	}
	assert.Equal(t, 100_001, c.Rows())
}

func TestCellSizeClamps(t *testing.T) {
	c := controllerWith(1, 124, 1)
	c.IncreaseCellSize()
	assert.Equal(t, 128.0, c.CellSize())
	c.IncreaseCellSize()
	assert.Equal(t, 128.0, c.CellSize())

	c = controllerWith(1, 12, 1)
	c.DecreaseCellSize()
	assert.Equal(t, 8.0, c.CellSize())
	c.DecreaseCellSize()
	assert.Equal(t, 8.0, c.CellSize())
}

func TestOperationsMarkDirty(t *testing.T) {
	ops := map[string]func(*Controller){
		"add row":    (*Controller).AddRow,
		"remove row": (*Controller).RemoveRow,
		"grow":       (*Controller).IncreaseCellSize,
		"shrink":     (*Controller).DecreaseCellSize,
	}
	for name, op := range ops {
		t.Run(name, func(t *testing.T) {
			c := controllerWith(1, 8, 1)
			op(c)
			assert.True(t, c.TakeDirty())
			assert.False(t, c.TakeDirty())
		})
	}
}

func TestControllerGeometry(t *testing.T) {
	c := controllerWith(50, 32, 1)
	g := c.Geometry(800)
	assert.Equal(t, 50, g.Rows)
	assert.Equal(t, 21, g.Columns)
	assert.Equal(t, 1050, g.Total())

	c.IncreaseCellSize()
	assert.Equal(t, 19, c.Geometry(800).Columns)
}
