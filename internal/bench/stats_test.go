package bench

import (
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"

	"github.com/rezi-ui/bench/grid-bench/internal/grid"
)

type fakeOutput struct{ n uint64 }

func (f *fakeOutput) BytesWritten() uint64 { return f.n }

func TestRenderStatsSnapshot(t *testing.T) {
	out := &fakeOutput{n: 1000}
	stats := newRenderStats(out)
	g := smallGrid()
	paint := paintStats{painted: 6, rows: 2, mutated: 6, lines: 6, quads: 6, glyphs: 6}

	d := stats.update(g, paint, true)
	assert.Equal(t, d, stats.Snapshot())
	assert.Equal(t, uint64(1), d.Frame)
	assert.Equal(t, uint64(6), d.PaintFibers)
	assert.Equal(t, uint64(2), d.PrepaintFibers)
	assert.Equal(t, uint64(10), d.Hitboxes)
	assert.Equal(t, uint64(10), d.HitboxesRebuilt)
	assert.Equal(t, uint64(1000), d.UploadBytes)
	assert.Equal(t, uint64(6), d.MonoSprites)
	assert.Equal(t, uint64(0), d.PolySprites)

	out.n = 1500
	d = stats.update(g, paintStats{replayed: 6, rows: 2, rowsReused: 2, lines: 6}, true)
	assert.Equal(t, uint64(2), d.Frame)
	assert.Equal(t, uint64(0), d.HitboxesRebuilt)
	assert.Equal(t, uint64(500), d.UploadBytes)
	assert.Equal(t, uint64(2), d.PrepaintReplayed)

	g.Rows = 3
	d = stats.update(g, paintStats{}, true)
	assert.Equal(t, uint64(13), d.Hitboxes)
	assert.Equal(t, uint64(13), d.HitboxesRebuilt)
	assert.Equal(t, uint64(0), d.UploadBytes)
}

func TestRenderStatsWithoutInteraction(t *testing.T) {
	stats := newRenderStats(nil)
	d := stats.update(grid.NewGeometry(800, 50, 32, grid.DefaultGap, grid.DefaultPadding), paintStats{}, false)
	assert.Equal(t, uint64(controlButtons), d.Hitboxes)
	assert.Equal(t, uint64(0), d.UploadBytes)
}

func TestMeasuringWriterCounts(t *testing.T) {
	w := newMeasuringWriter(nil)
	n, err := w.Write([]byte("hello"))
	assert.NoError(t, err)
	assert.Equal(t, 5, n)
	_, _ = w.Write(nil)
	_, _ = w.Write([]byte("!"))

	total, writes := w.snapshot()
	assert.Equal(t, uint64(6), total)
	assert.Equal(t, uint64(2), writes)
	assert.Equal(t, uint64(6), w.BytesWritten())
}

func TestControlsLineZones(t *testing.T) {
	line, buttons := controlsLine(3)
	assert.Equal(t, "Rows [-][+]   Cell Size [-][+]", ansi.Strip(line))
	assert.Len(t, buttons, 4)

	c := controllerWith(2, 32, 1)
	for _, b := range buttons {
		assert.Equal(t, 3, b.line)
		assert.Equal(t, 3, b.x1-b.x0)
	}
	// Zones are offset by the overlay padding.
	assert.True(t, buttons[1].contains(overlayPadding+5+3, 3))
	assert.False(t, buttons[1].contains(overlayPadding+5+3, 4))
	buttons[1].action(c)
	assert.Equal(t, 3, c.Rows())
	buttons[0].action(c)
	assert.Equal(t, 2, c.Rows())
	buttons[2].action(c)
	assert.Equal(t, 28.0, c.CellSize())
	buttons[3].action(c)
	assert.Equal(t, 32.0, c.CellSize())
}
