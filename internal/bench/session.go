package bench

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"k8s.io/klog/v2"

	"github.com/rezi-ui/bench/grid-bench/internal/config"
	"github.com/rezi-ui/bench/grid-bench/internal/metrics"
)

// Result summarizes one run.
type Result struct {
	SamplesMs       []float64 `json:"samplesMs,omitempty"`
	Frames          uint64    `json:"frames"`
	HostFrames      uint64    `json:"hostFrames"`
	RenderFPS       float64   `json:"renderFps"`
	FrameFPS        float64   `json:"frameFps"`
	Rows            int       `json:"rows"`
	Columns         int       `json:"columns"`
	Cells           int       `json:"cells"`
	CellSize        float64   `json:"cellSize"`
	Clicks          uint64    `json:"clicks"`
	BytesWritten    uint64    `json:"bytesWritten"`
	DiagnosticsRows uint64    `json:"diagnosticsRows,omitempty"`
	TotalWallMs     float64   `json:"totalWallMs"`
	CPUUserMs       float64   `json:"cpuUserMs"`
	CPUSysMs        float64   `json:"cpuSysMs"`
	RSSBeforeKb     int64     `json:"rssBeforeKb"`
	RSSAfterKb      int64     `json:"rssAfterKb"`
	RSSPeakKb       int64     `json:"rssPeakKb"`
	HeapBeforeKb    int64     `json:"heapBeforeKb"`
	HeapAfterKb     int64     `json:"heapAfterKb"`
	HeapPeakKb      int64     `json:"heapPeakKb"`
}

// Run shows the grid on the terminal until the user quits, the configured
// duration elapses or ctx is cancelled.
func Run(ctx context.Context, cfg *config.Config, exporter *metrics.Exporter) (Result, error) {
	writer := newMeasuringWriter(os.Stdout)
	model := NewModel(cfg, WithOutput(writer), WithExporter(exporter))

	program := tea.NewProgram(
		model,
		tea.WithContext(ctx),
		tea.WithOutput(writer),
		tea.WithFPS(cfg.FPS),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
	)

	memBefore := takeMemory()
	cpuBefore := takeCPU()
	start := time.Now()

	final, err := program.Run()
	if err != nil && !(errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil) {
		return Result{}, fmt.Errorf("run grid program: %w", err)
	}

	wallMs := msSince(start)
	cpu := diffCPU(cpuBefore, takeCPU())
	memAfter := takeMemory()
	peak := peakMemory(memBefore, memAfter)

	if m, ok := final.(*Model); ok && m != nil {
		model = m
	}
	result := model.Result()
	result.BytesWritten = writer.BytesWritten()
	result.TotalWallMs = wallMs
	result.CPUUserMs = cpu.userMs
	result.CPUSysMs = cpu.systemMs
	result.RSSBeforeKb = memBefore.rssKb
	result.RSSAfterKb = memAfter.rssKb
	result.RSSPeakKb = peak.rssKb
	result.HeapBeforeKb = memBefore.heapUsedKb
	result.HeapAfterKb = memAfter.heapUsedKb
	result.HeapPeakKb = peak.heapUsedKb

	klog.V(1).InfoS("Grid run finished",
		"frames", result.Frames,
		"hostFrames", result.HostFrames,
		"renderFps", result.RenderFPS,
		"cells", result.Cells,
		"wallMs", wallMs)
	return result, nil
}
