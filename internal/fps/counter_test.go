package fps

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezi-ui/bench/grid-bench/internal/clock"
)

var epoch = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestRateIsZeroUntilTwoSamples(t *testing.T) {
	c := New(clock.NewMock(epoch))
	assert.Equal(t, 0.0, c.Rate())

	c.Record()
	assert.Equal(t, 0.0, c.Rate())
	assert.Equal(t, 1, c.Len())
}

func TestRateFromTwoSamples(t *testing.T) {
	mock := clock.NewMock(epoch)
	c := New(mock)

	c.Record()
	mock.Advance(250 * time.Millisecond)
	c.Record()

	assert.InDelta(t, 4.0, c.Rate(), 1e-9)
}

func TestWindowKeepsMostRecentSamples(t *testing.T) {
	mock := clock.NewMock(epoch)
	c := New(mock)

	var recorded []time.Time
	for i := 0; i < 150; i++ {
		c.Record()
		recorded = append(recorded, mock.Now())
		require.LessOrEqual(t, c.Len(), DefaultWindow)
		mock.Advance(time.Duration(10+i%7) * time.Millisecond)
	}

	assert.Equal(t, recorded[len(recorded)-DefaultWindow:], c.Samples())
}

func TestSteadyRate(t *testing.T) {
	mock := clock.NewMock(epoch)
	c := New(mock)

	for i := 0; i < 200; i++ {
		c.Record()
		mock.Advance(time.Second / 60)
	}

	assert.InDelta(t, 60.0, c.Rate(), 0.01)
}

func TestRateNeverInfinite(t *testing.T) {
	mock := clock.NewMock(epoch)
	c := New(mock)

	// Samples captured within the same clock reading carry no elapsed time.
	c.Record()
	c.Record()
	assert.Equal(t, 0.0, c.Rate())

	mock.Advance(100 * time.Millisecond)
	c.Record()
	assert.InDelta(t, 20.0, c.Rate(), 1e-9)
}

func TestSamplesStayOrderedWhenClockStepsBack(t *testing.T) {
	mock := clock.NewMock(epoch)
	c := New(mock)

	c.Record()
	mock.Advance(-time.Second)
	c.Record()

	samples := c.Samples()
	require.Len(t, samples, 2)
	assert.False(t, samples[1].Before(samples[0]))
	assert.GreaterOrEqual(t, c.Rate(), 0.0)
}

func TestIndependentCounters(t *testing.T) {
	mock := clock.NewMock(epoch)
	render := New(mock)
	frame := New(mock)

	for i := 0; i < 10; i++ {
		render.Record()
		render.Record()
		frame.Record()
		mock.Advance(100 * time.Millisecond)
	}

	assert.Equal(t, 20, render.Len())
	assert.Equal(t, 10, frame.Len())
	assert.NotEqual(t, render.Rate(), frame.Rate())
}

func TestNewWithWindowClampsSize(t *testing.T) {
	c := NewWithWindow(clock.NewMock(epoch), 0)
	for i := 0; i < 5; i++ {
		c.Record()
	}
	assert.Equal(t, 2, c.Len())
}
