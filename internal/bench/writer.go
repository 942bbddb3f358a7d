package bench

import (
	"os"
	"sync"
	"time"
)

// measuringWriter counts what the renderer flushes to the terminal. It embeds
// the terminal file so bubbletea still sees a TTY for sizing and raw mode.
type measuringWriter struct {
	*os.File

	mu         sync.Mutex
	totalBytes uint64
	writeCount uint64
}

func newMeasuringWriter(out *os.File) *measuringWriter {
	return &measuringWriter{File: out}
}

func (w *measuringWriter) Write(p []byte) (int, error) {
	n := len(p)
	var err error
	if w.File != nil {
		n, err = w.File.Write(p)
	}
	w.mu.Lock()
	if n > 0 {
		w.totalBytes += uint64(n)
		w.writeCount++
	}
	w.mu.Unlock()
	return n, err
}

// snapshot returns the bytes and writes flushed so far.
func (w *measuringWriter) snapshot() (uint64, uint64) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.totalBytes, w.writeCount
}

func (w *measuringWriter) BytesWritten() uint64 {
	total, _ := w.snapshot()
	return total
}

// waitWriteAfter blocks until the renderer flushes past baseWriteCount or
// the timeout passes.
func (w *measuringWriter) waitWriteAfter(baseWriteCount uint64, timeout time.Duration) {
	deadline := time.Now().Add(timeout)
	for {
		_, writes := w.snapshot()
		if writes > baseWriteCount || time.Now().After(deadline) {
			return
		}
		time.Sleep(200 * time.Microsecond)
	}
}
