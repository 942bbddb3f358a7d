package bench

import (
	"github.com/rezi-ui/bench/grid-bench/internal/clock"
	"github.com/rezi-ui/bench/grid-bench/internal/fps"
	"github.com/rezi-ui/bench/grid-bench/internal/frameloop"
)

// meter tracks two rates: how often the grid is rendered and how often the
// host presents a frame. The frame loop holds the meter weakly, so dropping
// the model ends the loop.
type meter struct {
	render *fps.Counter
	frame  *fps.Counter

	// notified is set by the frame loop and consumed by the next render.
	notified bool
}

func newMeter(c clock.Clock) *meter {
	return &meter{
		render: fps.New(c),
		frame:  fps.New(c),
	}
}

func (m *meter) startFrameLoop(host frameloop.Host) {
	frameloop.Schedule(host, m, (*meter).onFrame)
}

func (m *meter) onFrame() {
	m.frame.Record()
	m.notified = true
}

// takeNotified reports whether a frame was observed since the last call.
func (m *meter) takeNotified() bool {
	n := m.notified
	m.notified = false
	return n
}
