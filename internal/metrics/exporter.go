// Package metrics exposes benchmark throughput as Prometheus metrics.
package metrics

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"k8s.io/klog/v2"

	"github.com/rezi-ui/bench/grid-bench/internal/diag"
	"github.com/rezi-ui/bench/grid-bench/internal/grid"
)

const namespace = "grid_bench"

// Frame is what the exporter observes after every render pass.
type Frame struct {
	RenderRate float64
	FrameRate  float64
	Geometry   grid.Geometry
	// Diagnostics is nil when the diagnostics renderer is disabled.
	Diagnostics *diag.FrameDiagnostics
}

// Exporter owns its registry so several exporters can coexist in tests.
type Exporter struct {
	registry *prometheus.Registry

	renderRate  prometheus.Gauge
	frameRate   prometheus.Gauge
	rows        prometheus.Gauge
	columns     prometheus.Gauge
	cells       prometheus.Gauge
	cellSize    prometheus.Gauge
	renders     prometheus.Counter
	uploadBytes prometheus.Histogram
	paintFibers prometheus.Histogram
}

// NewExporter builds the collectors. When sink is non-nil its row and
// failure counts are exported as well.
func NewExporter(sink *diag.Sink) *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		renderRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "render_rate_per_second",
			Help:      "Render passes per second over the rolling window",
		}),
		frameRate: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "frame_rate_per_second",
			Help:      "Host frames per second over the rolling window",
		}),
		rows: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "grid_rows",
			Help:      "Current grid row count",
		}),
		columns: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "grid_columns",
			Help:      "Current grid column count",
		}),
		cells: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "grid_cells",
			Help:      "Cells generated per render pass",
		}),
		cellSize: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "cell_size_units",
			Help:      "Current cell size in layout units",
		}),
		renders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "render_passes_total",
			Help:      "Render passes observed",
		}),
		uploadBytes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_upload_bytes",
			Help:      "Bytes flushed to the terminal per frame",
			Buckets:   prometheus.ExponentialBuckets(256, 2, 16),
		}),
		paintFibers: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "frame_paint_fibers",
			Help:      "Cells painted without replay per frame",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 10),
		}),
	}

	e.registry.MustRegister(
		e.renderRate,
		e.frameRate,
		e.rows,
		e.columns,
		e.cells,
		e.cellSize,
		e.renders,
		e.uploadBytes,
		e.paintFibers,
	)

	if sink != nil {
		e.registry.MustRegister(
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagnostics_rows_total",
				Help:      "Frame log rows written",
			}, func() float64 { return float64(sink.Rows()) }),
			prometheus.NewCounterFunc(prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "diagnostics_write_failures_total",
				Help:      "Frame log writes dropped",
			}, func() float64 { return float64(sink.Failures()) }),
		)
	}

	return e
}

// Observe records one render pass.
func (e *Exporter) Observe(f Frame) {
	e.renders.Inc()
	e.renderRate.Set(f.RenderRate)
	e.frameRate.Set(f.FrameRate)
	e.rows.Set(float64(f.Geometry.Rows))
	e.columns.Set(float64(f.Geometry.Columns))
	e.cells.Set(float64(f.Geometry.Total()))
	e.cellSize.Set(f.Geometry.CellSize)

	if f.Diagnostics != nil {
		e.uploadBytes.Observe(float64(f.Diagnostics.UploadBytes))
		e.paintFibers.Observe(float64(f.Diagnostics.PaintFibers))
	}
}

func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Serve exposes /metrics on addr until ctx is cancelled.
func (e *Exporter) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())
	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			klog.V(2).InfoS("Metrics server shutdown", "err", err)
		}
	}()

	klog.V(1).InfoS("Starting metrics server", "addr", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
