// Package fps estimates event rates from a bounded window of wall-clock samples.
package fps

import (
	"time"

	"github.com/rezi-ui/bench/grid-bench/internal/clock"
)

// DefaultWindow is the number of samples a Counter keeps.
const DefaultWindow = 60

// Counter tracks the rate of a recurring event, such as render passes or
// host frames. It is not safe for concurrent use; callers record from the
// host's single dispatch goroutine.
type Counter struct {
	clock   clock.Clock
	window  int
	samples []time.Time
	rate    float64
}

func New(c clock.Clock) *Counter {
	return NewWithWindow(c, DefaultWindow)
}

// NewWithWindow returns a Counter bounded to window samples (minimum 2).
func NewWithWindow(c clock.Clock, window int) *Counter {
	if c == nil {
		c = clock.Real{}
	}
	if window < 2 {
		window = 2
	}
	return &Counter{
		clock:   c,
		window:  window,
		samples: make([]time.Time, 0, window+1),
	}
}

// Record appends the current time, evicting the oldest sample once the
// window is full, and recomputes the rate.
func (c *Counter) Record() {
	now := c.clock.Now()
	if n := len(c.samples); n > 0 && now.Before(c.samples[n-1]) {
		now = c.samples[n-1]
	}
	c.samples = append(c.samples, now)

	if len(c.samples) > c.window {
		copy(c.samples, c.samples[1:])
		c.samples = c.samples[:c.window]
	}

	if len(c.samples) < 2 {
		return
	}
	elapsed := now.Sub(c.samples[0]).Seconds()
	if elapsed > 0 {
		c.rate = float64(len(c.samples)-1) / elapsed
	}
}

// Rate returns the last computed rate in events per second, or 0 until two
// samples exist.
func (c *Counter) Rate() float64 {
	return c.rate
}

func (c *Counter) Len() int {
	return len(c.samples)
}

// Samples returns a copy of the window, oldest first.
func (c *Counter) Samples() []time.Time {
	out := make([]time.Time, len(c.samples))
	copy(out, c.samples)
	return out
}
