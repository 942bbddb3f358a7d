package bench

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"k8s.io/klog/v2"

	"github.com/rezi-ui/bench/grid-bench/internal/config"
	"github.com/rezi-ui/bench/grid-bench/internal/metrics"
)

const (
	startupTimeout = 3 * time.Second
	frameTimeout   = 3 * time.Second
	flushWait      = 10 * time.Millisecond
)

// HeadlessOptions shape a scripted run without a terminal.
type HeadlessOptions struct {
	Warmup     int
	Iterations int
	// Columns and Lines size the virtual terminal.
	Columns int
	Lines   int
}

func DefaultHeadlessOptions() HeadlessOptions {
	return HeadlessOptions{Warmup: 100, Iterations: 1000, Columns: 120, Lines: 40}
}

type session struct {
	program *tea.Program
	model   *Model
	writer  *measuringWriter
	done    chan error
}

func startSession(ctx context.Context, cfg *config.Config, opts HeadlessOptions, exporter *metrics.Exporter) (*session, error) {
	writer := newMeasuringWriter(nil)
	ready := make(chan struct{})
	model := NewModel(cfg, WithOutput(writer), WithExporter(exporter), withScriptedFrames(ready))

	program := tea.NewProgram(
		model,
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(writer),
		tea.WithFPS(cfg.FPS),
		tea.WithoutSignalHandler(),
	)

	done := make(chan error, 1)
	go func() {
		_, err := program.Run()
		done <- err
	}()

	select {
	case <-ready:
		program.Send(tea.WindowSizeMsg{Width: opts.Columns, Height: opts.Lines})
		return &session{program: program, model: model, writer: writer, done: done}, nil
	case err := <-done:
		if err == nil {
			err = errors.New("program exited before initialization")
		}
		return nil, err
	case <-time.After(startupTimeout):
		return nil, errors.New("timeout waiting for program startup")
	}
}

// step renders one frame and waits for the renderer to flush it.
func (s *session) step(cell int) error {
	ack := make(chan struct{})
	_, base := s.writer.snapshot()
	s.program.Send(stepMsg{cell: cell, ack: ack})

	select {
	case <-ack:
		s.writer.waitWriteAfter(base, flushWait)
		return nil
	case err := <-s.done:
		if err == nil {
			err = errors.New("program exited")
		}
		s.done <- err
		return err
	case <-time.After(frameTimeout):
		return fmt.Errorf("timeout waiting for frame %d", cell)
	}
}

func (s *session) close() error {
	s.program.Quit()
	select {
	case err := <-s.done:
		return err
	case <-time.After(startupTimeout):
		return errors.New("timeout shutting down program")
	}
}

// RunHeadless drives the grid with scripted frames instead of a terminal:
// the pointer sweeps one cell per frame and every frame is timed from send
// to flush.
func RunHeadless(ctx context.Context, cfg *config.Config, opts HeadlessOptions, exporter *metrics.Exporter) (Result, error) {
	if opts.Iterations < 1 {
		return Result{}, fmt.Errorf("iterations must be positive, got %d", opts.Iterations)
	}
	opts.Warmup = max(0, opts.Warmup)

	s, err := startSession(ctx, cfg, opts, exporter)
	if err != nil {
		return Result{}, err
	}
	closed := false
	defer func() {
		if !closed {
			_ = s.close()
		}
	}()

	for i := 0; i < opts.Warmup; i++ {
		if err := s.step(i); err != nil {
			return Result{}, err
		}
	}

	runtime.GC()
	memBefore := takeMemory()
	cpuBefore := takeCPU()
	memPeak := memBefore
	bytesBase := s.writer.BytesWritten()

	samples := make([]float64, 0, opts.Iterations)
	start := time.Now()
	for i := 0; i < opts.Iterations; i++ {
		ts := time.Now()
		if err := s.step(opts.Warmup + i); err != nil {
			return Result{}, err
		}
		samples = append(samples, msSince(ts))
		if i%100 == 99 {
			memPeak = peakMemory(memPeak, takeMemory())
		}
	}

	wallMs := msSince(start)
	cpu := diffCPU(cpuBefore, takeCPU())
	memAfter := takeMemory()
	memPeak = peakMemory(memPeak, memAfter)
	bytesAfter := s.writer.BytesWritten()

	if err := s.close(); err != nil {
		return Result{}, err
	}
	closed = true

	result := s.model.Result()
	result.SamplesMs = samples
	result.BytesWritten = bytesAfter - bytesBase
	result.TotalWallMs = wallMs
	result.CPUUserMs = cpu.userMs
	result.CPUSysMs = cpu.systemMs
	result.RSSBeforeKb = memBefore.rssKb
	result.RSSAfterKb = memAfter.rssKb
	result.RSSPeakKb = memPeak.rssKb
	result.HeapBeforeKb = memBefore.heapUsedKb
	result.HeapAfterKb = memAfter.heapUsedKb
	result.HeapPeakKb = memPeak.heapUsedKb

	klog.V(1).InfoS("Headless run finished",
		"iterations", opts.Iterations,
		"warmup", opts.Warmup,
		"cells", result.Cells,
		"wallMs", wallMs)
	return result, nil
}
