package bench

import (
	"github.com/rezi-ui/bench/grid-bench/internal/diag"
	"github.com/rezi-ui/bench/grid-bench/internal/grid"
)

// controlButtons is the number of clickable overlay buttons.
const controlButtons = 4

// byteCounter reports bytes flushed to the host output.
type byteCounter interface {
	BytesWritten() uint64
}

// renderStats turns a render pass into the renderer's diagnostics snapshot.
type renderStats struct {
	output byteCounter

	frame     uint64
	lastBytes uint64
	geometry  grid.Geometry
	hitboxes  uint64
	current   diag.FrameDiagnostics
}

var _ diag.Source = (*renderStats)(nil)

func newRenderStats(output byteCounter) *renderStats {
	return &renderStats{output: output}
}

// update closes the books on one render pass.
func (r *renderStats) update(g grid.Geometry, p paintStats, interactive bool) diag.FrameDiagnostics {
	r.frame++

	hitboxes := uint64(controlButtons)
	if interactive {
		hitboxes += uint64(g.Total())
	}
	var rebuilt uint64
	if r.frame == 1 || g != r.geometry || hitboxes != r.hitboxes {
		rebuilt = hitboxes
	}
	r.geometry = g
	r.hitboxes = hitboxes

	var upload uint64
	if r.output != nil {
		total := r.output.BytesWritten()
		upload = total - r.lastBytes
		r.lastBytes = total
	}

	r.current = diag.FrameDiagnostics{
		Frame:            r.frame,
		PaintFibers:      p.painted,
		PaintReplayed:    p.replayed,
		PrepaintFibers:   p.rows,
		PrepaintReplayed: p.rowsReused,
		MutatedSegments:  p.mutated,
		TotalSegments:    p.lines,
		Hitboxes:         hitboxes,
		HitboxesRebuilt:  rebuilt,
		UploadBytes:      upload,
		Quads:            p.quads,
		MonoSprites:      p.glyphs,
		PolySprites:      0,
	}
	return r.current
}

func (r *renderStats) Snapshot() diag.FrameDiagnostics {
	return r.current
}
