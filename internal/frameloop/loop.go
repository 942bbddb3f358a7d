// Package frameloop runs per-frame work on a host-driven frame callback.
//
// A host hands out single-shot "before the next frame" registrations. The
// loop keeps its obligation alive by registering again from inside each
// callback, and it holds its subject only weakly: once the subject has been
// collected the next callback finds nothing and the chain ends without error.
package frameloop

import "weak"

// Host accepts callbacks to run once, before the next frame is presented.
type Host interface {
	OnNextFrame(fn func())
}

// Queue is a Host driven by an external frame signal. It is not safe for
// concurrent use; the owning event loop calls RunFrame once per frame.
type Queue struct {
	pending []func()
	spare   []func()
	frames  uint64
}

func (q *Queue) OnNextFrame(fn func()) {
	q.pending = append(q.pending, fn)
}

// RunFrame runs the callbacks registered before the call and returns how
// many ran. Callbacks registered while the frame runs wait for the next one.
func (q *Queue) RunFrame() int {
	batch := q.pending
	q.pending = q.spare[:0]
	q.frames++

	for _, fn := range batch {
		fn()
	}

	clear(batch)
	q.spare = batch[:0]
	return len(batch)
}

// Len reports the callbacks waiting for the next frame.
func (q *Queue) Len() int {
	return len(q.pending)
}

// Frames reports how many frames the queue has run.
func (q *Queue) Frames() uint64 {
	return q.frames
}

// Schedule runs work against owner once per frame for as long as owner is
// reachable from elsewhere. Only a weak handle to owner is retained.
func Schedule[T any](host Host, owner *T, work func(*T)) {
	arm(host, weak.Make(owner), work)
}

func arm[T any](host Host, handle weak.Pointer[T], work func(*T)) {
	host.OnNextFrame(func() {
		owner := handle.Value()
		if owner == nil {
			return
		}
		work(owner)
		arm(host, handle, work)
	})
}
