package frameloop

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type subject struct {
	frames int
	name   string
}

func TestQueueDefersCallbacksRegisteredDuringFrame(t *testing.T) {
	var q Queue
	var order []string

	q.OnNextFrame(func() {
		order = append(order, "first")
		q.OnNextFrame(func() { order = append(order, "second") })
	})

	assert.Equal(t, 1, q.RunFrame())
	assert.Equal(t, []string{"first"}, order)
	assert.Equal(t, 1, q.Len())

	assert.Equal(t, 1, q.RunFrame())
	assert.Equal(t, []string{"first", "second"}, order)
	assert.Equal(t, 0, q.Len())
	assert.Equal(t, uint64(2), q.Frames())
}

func TestEmptyFrame(t *testing.T) {
	var q Queue
	assert.Equal(t, 0, q.RunFrame())
	assert.Equal(t, uint64(1), q.Frames())
}

func TestScheduleRunsEveryFrameWhileOwnerAlive(t *testing.T) {
	var q Queue
	owner := &subject{name: "meter"}

	Schedule(&q, owner, func(s *subject) { s.frames++ })

	for i := 0; i < 25; i++ {
		require.Equal(t, 1, q.RunFrame())
		require.Equal(t, 1, q.Len(), "loop must re-arm after each frame")
	}
	assert.Equal(t, 25, owner.frames)
	runtime.KeepAlive(owner)
}

func TestScheduleStopsWhenOwnerCollected(t *testing.T) {
	var q Queue
	ticks := 0

	scheduleDetached(&q, &ticks)
	q.RunFrame()
	require.Equal(t, 1, ticks)

	runtime.GC()
	runtime.GC()

	assert.NotPanics(t, func() { q.RunFrame() })
	assert.Equal(t, 1, ticks)
	assert.Equal(t, 0, q.Len(), "chain must end once the owner is gone")

	q.RunFrame()
	assert.Equal(t, 1, ticks)
}

// scheduleDetached schedules against an owner that nothing else references
// after the first frame.
func scheduleDetached(q *Queue, ticks *int) {
	owner := &subject{name: "detached"}
	Schedule(q, owner, func(s *subject) {
		s.frames++
		*ticks++
	})
}

func TestIndependentChains(t *testing.T) {
	var q Queue
	a := &subject{name: "a"}
	b := &subject{name: "b"}

	Schedule(&q, a, func(s *subject) { s.frames++ })
	Schedule(&q, b, func(s *subject) { s.frames += 2 })

	for i := 0; i < 3; i++ {
		assert.Equal(t, 2, q.RunFrame())
	}
	assert.Equal(t, 3, a.frames)
	assert.Equal(t, 6, b.frames)
	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}
