package clock

import "time"

// Clock wraps the time source so rate measurements can be driven in tests.
type Clock interface {
	Now() time.Time
}

// Real reads the monotonic wall clock.
type Real struct{}

func (Real) Now() time.Time {
	return time.Now()
}

// Mock is a manually advanced Clock.
type Mock struct {
	now time.Time
}

func NewMock(t time.Time) *Mock {
	return &Mock{now: t}
}

func (m *Mock) Now() time.Time {
	return m.now
}

func (m *Mock) Set(t time.Time) {
	m.now = t
}

func (m *Mock) Advance(d time.Duration) {
	m.now = m.now.Add(d)
}
