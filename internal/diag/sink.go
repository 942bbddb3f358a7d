package diag

import (
	"encoding/csv"
	"fmt"
	"os"
	"sync"
	"sync/atomic"

	"k8s.io/klog/v2"
)

// DefaultPath is the process-wide frame log, relative to the working directory.
const DefaultPath = "frame_log.csv"

// Sink appends one CSV row per frame. The first Emit truncates the file and
// writes the header; that happens exactly once per Sink. No file handle is
// held between calls. Write failures are counted and otherwise ignored.
type Sink struct {
	path string

	header   sync.Once
	rows     atomic.Uint64
	failures atomic.Uint64
}

func NewSink(path string) *Sink {
	return &Sink{path: path}
}

func (s *Sink) Path() string {
	return s.path
}

// Emit appends d to the log.
func (s *Sink) Emit(d FrameDiagnostics) {
	s.header.Do(s.writeHeader)

	if err := s.appendRow(d); err != nil {
		s.failures.Add(1)
		klog.V(4).InfoS("Dropped frame diagnostics", "path", s.path, "frame", d.Frame, "err", err)
		return
	}
	s.rows.Add(1)
}

// Rows reports the rows written so far, excluding the header.
func (s *Sink) Rows() uint64 {
	return s.rows.Load()
}

// Failures reports header and row writes that were dropped.
func (s *Sink) Failures() uint64 {
	return s.failures.Load()
}

func (s *Sink) writeHeader() {
	f, err := os.OpenFile(s.path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		s.failures.Add(1)
		klog.V(4).InfoS("Failed to initialize frame log", "path", s.path, "err", err)
		return
	}
	if err := writeRecord(f, Header); err != nil {
		s.failures.Add(1)
		klog.V(4).InfoS("Failed to write frame log header", "path", s.path, "err", err)
	}
}

func (s *Sink) appendRow(d FrameDiagnostics) error {
	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return err
	}
	return writeRecord(f, d.Row())
}

// writeRecord writes one record and closes f.
func writeRecord(f *os.File, record []string) error {
	w := csv.NewWriter(f)
	if err := w.Write(record); err != nil {
		f.Close()
		return err
	}
	w.Flush()
	if err := w.Error(); err != nil {
		f.Close()
		return fmt.Errorf("flush: %w", err)
	}
	return f.Close()
}

var (
	defaultOnce sync.Once
	defaultSink *Sink
)

// Default returns the process-wide sink writing DefaultPath. It is created
// on first use and never torn down.
func Default() *Sink {
	defaultOnce.Do(func() {
		defaultSink = NewSink(DefaultPath)
	})
	return defaultSink
}

// Emit appends d to the process-wide frame log.
func Emit(d FrameDiagnostics) {
	Default().Emit(d)
}
